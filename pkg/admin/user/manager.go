package user

import (
	"context"

	"matchtrip-be/internal/entity"
	"matchtrip-be/internal/pkg/apperror"
	"matchtrip-be/internal/pkg/logger"
	"matchtrip-be/internal/repository/specification"
	"matchtrip-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

const ActionUpdateStatus = "user.update_status"

// Manager handles user-related admin operations
type Manager struct {
	logger logger.ILogger
}

func NewManager(logger logger.ILogger) *Manager {
	return &Manager{logger: logger}
}

// FindAll retrieves users with pagination and optional search and role filter.
func (m *Manager) FindAll(ctx context.Context, uow unitofwork.UnitOfWork, page, limit int, search, role string) ([]*entity.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	var filters []specification.Specification
	if search != "" {
		filters = append(filters, specification.UserSearch{Query: search})
	}
	if role != "" {
		filters = append(filters, specification.ByRole{Role: role})
	}

	total, err := uow.UserRepository().Count(ctx, filters...)
	if err != nil {
		return nil, 0, err
	}

	users, err := uow.UserRepository().FindAll(ctx, append(filters,
		specification.Pagination{Limit: limit, Offset: offset},
		specification.OrderBy{Field: "created_at", Desc: true},
	)...)
	return users, total, err
}

// FindOne retrieves a single user by ID
func (m *Manager) FindOne(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) (*entity.User, error) {
	return uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
}

// UpdateStatus blocks or reactivates a user. Admins cannot block themselves.
func (m *Manager) UpdateStatus(ctx context.Context, uow unitofwork.UnitOfWork, adminId, userId uuid.UUID, status entity.UserStatus) error {
	if status != entity.UserStatusActive && status != entity.UserStatusBlocked {
		return apperror.BadRequest("status must be active or blocked")
	}
	if adminId == userId && status == entity.UserStatusBlocked {
		return apperror.BadRequest("cannot block your own account")
	}

	u, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return err
	}
	if u == nil {
		return apperror.NotFound("user not found")
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.UserRepository().UpdateStatus(ctx, userId, status); err != nil {
		return err
	}
	if err := uow.AuditLogRepository().Record(ctx, adminId, ActionUpdateStatus, "user", userId, map[string]interface{}{
		"from": string(u.Status),
		"to":   string(status),
	}); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	m.logger.Info("ADMIN", "Updated user status", map[string]interface{}{
		"userId": userId.String(),
		"status": string(status),
		"admin":  adminId.String(),
	})
	return nil
}
