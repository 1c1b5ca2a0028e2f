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

type PaymentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PaymentMapper
}

func NewPaymentRepository(db *gorm.DB) contract.PaymentRepository {
	return &PaymentRepositoryImpl{db: db, mapper: mapper.NewPaymentMapper()}
}

func (r *PaymentRepositoryImpl) Create(ctx context.Context, payment *entity.Payment) error {
	m := r.mapper.ToModel(payment)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	payment.Id = m.Id
	payment.CreatedAt = m.CreatedAt
	payment.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *PaymentRepositoryImpl) Update(ctx context.Context, payment *entity.Payment) error {
	return r.db.WithContext(ctx).Model(&model.Payment{}).
		Where("id = ?", payment.Id).
		Updates(map[string]interface{}{
			"status":       string(payment.Status),
			"snap_token":   payment.SnapToken,
			"redirect_url": payment.RedirectURL,
			"paid_at":      payment.PaidAt,
		}).Error
}

func (r *PaymentRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Payment, error) {
	var m model.Payment
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *PaymentRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Payment, error) {
	var models []*model.Payment
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	payments := make([]*entity.Payment, len(models))
	for i, m := range models {
		payments[i] = r.mapper.ToEntity(m)
	}
	return payments, nil
}

func (r *PaymentRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.Payment{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func statusStrings(statuses []entity.PaymentStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func (r *PaymentRepositoryImpl) TransitionStatus(ctx context.Context, id uuid.UUID, from []entity.PaymentStatus, to entity.PaymentStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Payment{}).
		Where("id = ? AND status IN ?", id, statusStrings(from)).
		Update("status", string(to))
	return res.RowsAffected > 0, res.Error
}

func (r *PaymentRepositoryImpl) MarkPaid(ctx context.Context, id uuid.UUID, paidAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Payment{}).
		Where("id = ? AND status = ?", id, string(entity.PaymentStatusPending)).
		Updates(map[string]interface{}{
			"status":  string(entity.PaymentStatusPaid),
			"paid_at": paidAt,
		})
	return res.RowsAffected > 0, res.Error
}
