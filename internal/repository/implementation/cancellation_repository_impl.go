package implementation

import (
	"context"
	"errors"
	"time"

	"matchtrip-be/internal/entity"
	"matchtrip-be/internal/mapper"
	"matchtrip-be/internal/model"
	"matchtrip-be/internal/repository/contract"
	"matchtrip-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CancellationRepositoryImpl struct {
	db            *gorm.DB
	mapper        *mapper.CancellationMapper
	paymentMapper *mapper.PaymentMapper
}

func NewCancellationRepository(db *gorm.DB) contract.CancellationRepository {
	return &CancellationRepositoryImpl{
		db:            db,
		mapper:        mapper.NewCancellationMapper(),
		paymentMapper: mapper.NewPaymentMapper(),
	}
}

func (r *CancellationRepositoryImpl) Create(ctx context.Context, cancellation *entity.CancellationRequest) error {
	m := r.mapper.ToModel(cancellation)
	if err := r.db.WithContext(ctx).Omit("Requester", "Payment").Create(m).Error; err != nil {
		return err
	}
	cancellation.Id = m.Id
	cancellation.CreatedAt = m.CreatedAt
	cancellation.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *CancellationRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CancellationRequest, error) {
	var m model.CancellationRequest
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *CancellationRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CancellationRequest, error) {
	var models []*model.CancellationRequest
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]*entity.CancellationRequest, len(models))
	for i, m := range models {
		out[i] = r.mapper.ToEntity(m)
	}
	return out, nil
}

// FindAllWithDetails preloads the requester and payment for admin listings.
// Only non-sensitive requester fields are mapped.
func (r *CancellationRepositoryImpl) FindAllWithDetails(ctx context.Context, specs ...specification.Specification) ([]*entity.CancellationRequest, error) {
	var models []*model.CancellationRequest
	query := applySpecifications(r.db.WithContext(ctx).Preload("Requester").Preload("Payment"), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]*entity.CancellationRequest, len(models))
	for i, m := range models {
		c := r.mapper.ToEntity(m)
		if m.Requester.Id != uuid.Nil {
			c.Requester = &entity.User{
				Id:       m.Requester.Id,
				Email:    m.Requester.Email,
				FullName: m.Requester.FullName,
				Role:     entity.UserRole(m.Requester.Role),
				Status:   entity.UserStatus(m.Requester.Status),
			}
		}
		if m.Payment.Id != uuid.Nil {
			c.Payment = r.paymentMapper.ToEntity(&m.Payment)
		}
		out[i] = c
	}
	return out, nil
}

func (r *CancellationRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.CancellationRequest{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *CancellationRepositoryImpl) Decide(ctx context.Context, c *entity.CancellationRequest) (bool, error) {
	processedAt := c.ProcessedAt
	if processedAt == nil {
		now := time.Now()
		processedAt = &now
	}
	res := r.db.WithContext(ctx).Model(&model.CancellationRequest{}).
		Where("id = ? AND status = ?", c.Id, string(entity.CancellationStatusPending)).
		Updates(map[string]interface{}{
			"status":               string(c.Status),
			"admin_notes":          c.AdminNotes,
			"actual_refund_amount": c.ActualRefundAmount,
			"processed_by":         c.ProcessedBy,
			"processed_at":         processedAt,
			"refund_status":        string(c.RefundStatus),
		})
	return res.RowsAffected > 0, res.Error
}

func (r *CancellationRepositoryImpl) UpdateRefundExecution(ctx context.Context, c *entity.CancellationRequest) error {
	return r.db.WithContext(ctx).Model(&model.CancellationRequest{}).
		Where("id = ?", c.Id).
		Updates(map[string]interface{}{
			"refund_status":    string(c.RefundStatus),
			"refund_reference": c.RefundReference,
			"refund_error":     c.RefundError,
			"refunded_at":      c.RefundedAt,
		}).Error
}

// ExistsActiveForPayment reports a pending or approved request for the payment.
func (r *CancellationRepositoryImpl) ExistsActiveForPayment(ctx context.Context, paymentId uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.CancellationRequest{}).
		Where("payment_id = ? AND status IN ?", paymentId, []string{
			string(entity.CancellationStatusPending),
			string(entity.CancellationStatusApproved),
		}).
		Count(&count).Error
	return count > 0, err
}
