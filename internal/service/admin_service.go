package service

import (
	"context"

	"matchtrip-be/internal/dto"
	"matchtrip-be/internal/entity"
	"matchtrip-be/internal/pkg/apperror"
	"matchtrip-be/internal/pkg/logger"
	"matchtrip-be/internal/repository/unitofwork"
	"matchtrip-be/pkg/admin/cancellation"
	"matchtrip-be/pkg/admin/dashboard"
	"matchtrip-be/pkg/admin/mapper"
	"matchtrip-be/pkg/admin/user"

	"github.com/google/uuid"
)

type IAdminService interface {
	GetDashboardStats(ctx context.Context) (*dto.AdminDashboardStats, error)

	// User Management
	GetAllUsers(ctx context.Context, page, limit int, search, role string) ([]*dto.AdminUserListResponse, int64, error)
	GetUserDetail(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error)
	UpdateUserStatus(ctx context.Context, adminId, userId uuid.UUID, status string) error

	// Logs
	GetSystemLogs(ctx context.Context, page, limit int, level, module string) ([]*dto.LogListResponse, error)
	GetLogDetail(ctx context.Context, logId string) (*dto.LogDetailResponse, error)

	// Cancellation Management
	GetCancellations(ctx context.Context, page, limit int, status string) ([]*dto.AdminCancellationListResponse, int64, error)
	ApproveCancellation(ctx context.Context, adminId, cancellationId uuid.UUID, req dto.AdminApproveCancellationRequest) (*dto.AdminCancellationDecisionResponse, error)
	RejectCancellation(ctx context.Context, adminId, cancellationId uuid.UUID, req dto.AdminRejectCancellationRequest) (*dto.AdminCancellationDecisionResponse, error)
}

type adminService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger

	// Domain Components
	userManager           *user.Manager
	cancellationProcessor *cancellation.Processor
	dashboardAggregator   *dashboard.Aggregator
}

func NewAdminService(
	uowFactory unitofwork.RepositoryFactory,
	logger logger.ILogger,
	userManager *user.Manager,
	cancellationProcessor *cancellation.Processor,
	dashboardAggregator *dashboard.Aggregator,
) IAdminService {
	return &adminService{
		uowFactory:            uowFactory,
		logger:                logger,
		userManager:           userManager,
		cancellationProcessor: cancellationProcessor,
		dashboardAggregator:   dashboardAggregator,
	}
}

// ============================================================================
// Dashboard & Stats
// ============================================================================

func (s *adminService) GetDashboardStats(ctx context.Context) (*dto.AdminDashboardStats, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return s.dashboardAggregator.GetStats(ctx, uow)
}

// ============================================================================
// User Management
// ============================================================================

func (s *adminService) GetAllUsers(ctx context.Context, page, limit int, search, role string) ([]*dto.AdminUserListResponse, int64, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	users, total, err := s.userManager.FindAll(ctx, uow, page, limit, search, role)
	if err != nil {
		return nil, 0, err
	}
	return mapper.UsersToListResponse(users), total, nil
}

func (s *adminService) GetUserDetail(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	u, err := s.userManager.FindOne(ctx, uow, userId)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperror.NotFound("user not found")
	}
	return mapper.UserToProfileResponse(u), nil
}

func (s *adminService) UpdateUserStatus(ctx context.Context, adminId, userId uuid.UUID, status string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return s.userManager.UpdateStatus(ctx, uow, adminId, userId, entity.UserStatus(status))
}

// ============================================================================
// Logs
// ============================================================================

func (s *adminService) GetSystemLogs(ctx context.Context, page, limit int, level, module string) ([]*dto.LogListResponse, error) {
	return s.dashboardAggregator.GetSystemLogs(ctx, s.logger, page, limit, level, module)
}

func (s *adminService) GetLogDetail(ctx context.Context, logId string) (*dto.LogDetailResponse, error) {
	return s.dashboardAggregator.GetLogDetail(ctx, s.logger, logId)
}

// ============================================================================
// Cancellation Management
// ============================================================================

func (s *adminService) GetCancellations(ctx context.Context, page, limit int, status string) ([]*dto.AdminCancellationListResponse, int64, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	items, total, err := s.cancellationProcessor.GetAll(ctx, uow, page, limit, status)
	if err != nil {
		return nil, 0, err
	}
	res := make([]*dto.AdminCancellationListResponse, 0, len(items))
	for _, c := range items {
		res = append(res, mapper.CancellationToAdminResponse(c))
	}
	return res, total, nil
}

func decisionResponse(r *cancellation.DecisionResult) *dto.AdminCancellationDecisionResponse {
	return &dto.AdminCancellationDecisionResponse{
		CancellationId: r.Cancellation.Id,
		Status:         string(r.Cancellation.Status),
		RefundAmount:   r.RefundAmount,
		ProcessedAt:    r.ProcessedAt,
	}
}

func (s *adminService) ApproveCancellation(ctx context.Context, adminId, cancellationId uuid.UUID, req dto.AdminApproveCancellationRequest) (*dto.AdminCancellationDecisionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	result, err := s.cancellationProcessor.Approve(ctx, uow, adminId, cancellationId, req)
	if err != nil {
		return nil, err
	}
	return decisionResponse(result), nil
}

func (s *adminService) RejectCancellation(ctx context.Context, adminId, cancellationId uuid.UUID, req dto.AdminRejectCancellationRequest) (*dto.AdminCancellationDecisionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	result, err := s.cancellationProcessor.Reject(ctx, uow, adminId, cancellationId, req)
	if err != nil {
		return nil, err
	}
	return decisionResponse(result), nil
}
