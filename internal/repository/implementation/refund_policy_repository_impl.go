package implementation

import (
	"context"
	"errors"

	"matchtrip-be/internal/entity"
	"matchtrip-be/internal/mapper"
	"matchtrip-be/internal/model"
	"matchtrip-be/internal/repository/contract"
	"matchtrip-be/internal/repository/specification"
	"matchtrip-be/pkg/refund"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RefundPolicyRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CancellationMapper
}

func NewRefundPolicyRepository(db *gorm.DB) contract.RefundPolicyRepository {
	return &RefundPolicyRepositoryImpl{db: db, mapper: mapper.NewCancellationMapper()}
}

func (r *RefundPolicyRepositoryImpl) Create(ctx context.Context, policy *entity.RefundPolicy) error {
	m := r.mapper.PolicyToModel(policy)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	policy.Id = m.Id
	policy.CreatedAt = m.CreatedAt
	policy.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *RefundPolicyRepositoryImpl) Update(ctx context.Context, policy *entity.RefundPolicy) error {
	return r.db.WithContext(ctx).Model(&model.RefundPolicy{}).
		Where("id = ?", policy.Id).
		Updates(map[string]interface{}{
			"days_before_start": policy.DaysBeforeStart,
			"days_before_end":   policy.DaysBeforeEnd,
			"refund_percentage": policy.RefundPercentage,
			"applicable_to":     string(policy.ApplicableTo),
			"is_active":         policy.IsActive,
		}).Error
}

func (r *RefundPolicyRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.RefundPolicy{}, "id = ?", id).Error
}

func (r *RefundPolicyRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.RefundPolicy, error) {
	var m model.RefundPolicy
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.PolicyToEntity(&m), nil
}

func (r *RefundPolicyRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.RefundPolicy, error) {
	var models []*model.RefundPolicy
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]*entity.RefundPolicy, len(models))
	for i, m := range models {
		out[i] = r.mapper.PolicyToEntity(m)
	}
	return out, nil
}

// policyWriteLock is the pg advisory lock key shared by every refund policy
// writer.
const policyWriteLock int64 = 0x6d74_7270_6f6c

func (r *RefundPolicyRepositoryImpl) LockForWrite(ctx context.Context) error {
	return r.db.WithContext(ctx).Exec("SELECT pg_advisory_xact_lock(?)", policyWriteLock).Error
}

// PolicyBandLoader feeds refund.Provider from the refund_policies table.
type PolicyBandLoader struct {
	repo contract.RefundPolicyRepository
}

func NewPolicyBandLoader(repo contract.RefundPolicyRepository) *PolicyBandLoader {
	return &PolicyBandLoader{repo: repo}
}

func (l *PolicyBandLoader) LoadActiveBands(ctx context.Context, role refund.Role) ([]refund.Band, error) {
	policies, err := l.repo.FindAll(ctx,
		specification.ActivePoliciesFor{Role: string(role)},
		specification.OrderBy{Field: "days_before_start", Desc: true},
	)
	if err != nil {
		return nil, err
	}
	bands := make([]refund.Band, len(policies))
	for i, p := range policies {
		bands[i] = p.Band()
	}
	return bands, nil
}
