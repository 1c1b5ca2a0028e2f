// FILE: internal/service/refund_policy_service.go
package service

import (
	"context"
	"errors"
	"sort"

	"matchtrip-be/internal/dto"
	"matchtrip-be/internal/entity"
	"matchtrip-be/internal/pkg/apperror"
	"matchtrip-be/internal/pkg/logger"
	"matchtrip-be/internal/repository/specification"
	"matchtrip-be/internal/repository/unitofwork"
	adminMapper "matchtrip-be/pkg/admin/mapper"
	"matchtrip-be/pkg/events"
	"matchtrip-be/pkg/refund"

	"github.com/google/uuid"
)

const (
	ActionPolicyCreate = "refund_policy.create"
	ActionPolicyUpdate = "refund_policy.update"
	ActionPolicyDelete = "refund_policy.delete"
)

type IRefundPolicyService interface {
	Public(ctx context.Context) *dto.PublicRefundPoliciesResponse
	List(ctx context.Context) ([]*dto.RefundPolicyResponse, error)
	Create(ctx context.Context, adminId uuid.UUID, req *dto.RefundPolicyRequest) (*dto.RefundPolicyResponse, error)
	Update(ctx context.Context, adminId, policyId uuid.UUID, req *dto.RefundPolicyRequest) (*dto.RefundPolicyResponse, error)
	Delete(ctx context.Context, adminId, policyId uuid.UUID) error
	Validate(req *dto.ValidateBandsRequest) *dto.ValidateBandsResponse
}

type refundPolicyService struct {
	uowFactory  unitofwork.RepositoryFactory
	policies    PolicySource
	invalidator refund.Invalidator
	calculator  *refund.Calculator
	publisher   events.Publisher
	logger      logger.ILogger
}

func NewRefundPolicyService(
	uowFactory unitofwork.RepositoryFactory,
	policies PolicySource,
	invalidator refund.Invalidator,
	calculator *refund.Calculator,
	publisher events.Publisher,
	log logger.ILogger,
) IRefundPolicyService {
	return &refundPolicyService{
		uowFactory:  uowFactory,
		policies:    policies,
		invalidator: invalidator,
		calculator:  calculator,
		publisher:   publisher,
		logger:      log,
	}
}

func (s *refundPolicyService) Public(ctx context.Context) *dto.PublicRefundPoliciesResponse {
	reasons := s.calculator.ExceptionReasons()
	sort.Strings(reasons)
	return &dto.PublicRefundPoliciesResponse{
		Traveler:         s.policies.Policy(ctx, refund.RoleTraveler),
		Guide:            s.policies.Policy(ctx, refund.RoleGuide),
		ExceptionReasons: reasons,
	}
}

func (s *refundPolicyService) List(ctx context.Context) ([]*dto.RefundPolicyResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	rows, err := uow.RefundPolicyRepository().FindAll(ctx,
		specification.OrderBy{Field: "applicable_to"},
		specification.OrderBy{Field: "days_before_start", Desc: true},
	)
	if err != nil {
		return nil, err
	}
	res := make([]*dto.RefundPolicyResponse, 0, len(rows))
	for _, p := range rows {
		res = append(res, adminMapper.PolicyToResponse(p))
	}
	return res, nil
}

func (s *refundPolicyService) Validate(req *dto.ValidateBandsRequest) *dto.ValidateBandsResponse {
	if err := refund.ValidateBands(req.Bands); err != nil {
		return &dto.ValidateBandsResponse{Valid: false, Problems: bandProblems(err)}
	}
	return &dto.ValidateBandsResponse{Valid: true}
}

func bandProblems(err error) []string {
	var setErr *refund.BandSetError
	if errors.As(err, &setErr) {
		return setErr.Problems
	}
	return []string{err.Error()}
}

// checkActiveSets validates, per requester role, the active bands that would
// result from replacing (or removing, when candidate is nil) the row with id
// skipId.
func checkActiveSets(rows []*entity.RefundPolicy, skipId uuid.UUID, candidate *entity.RefundPolicy) error {
	all := make([]*entity.RefundPolicy, 0, len(rows)+1)
	for _, r := range rows {
		if r.Id != skipId {
			all = append(all, r)
		}
	}
	if candidate != nil {
		all = append(all, candidate)
	}

	fields := map[string]string{}
	for _, role := range []refund.Role{refund.RoleTraveler, refund.RoleGuide} {
		var bands []refund.Band
		for _, r := range all {
			if r.IsActive && (r.ApplicableTo == role || r.ApplicableTo == refund.RoleAll) {
				bands = append(bands, r.Band())
			}
		}
		if err := refund.ValidateBands(bands); err != nil {
			fields[string(role)] = err.Error()
		}
	}
	if len(fields) > 0 {
		return apperror.Validation("refund policy would leave an invalid schedule", fields)
	}
	return nil
}

func policyFromRequest(p *entity.RefundPolicy, req *dto.RefundPolicyRequest) {
	p.DaysBeforeStart = req.DaysBeforeStart
	p.DaysBeforeEnd = req.DaysBeforeEnd
	p.RefundPercentage = req.RefundPercentage
	p.ApplicableTo = refund.Role(req.ApplicableTo)
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
}

func (s *refundPolicyService) Create(ctx context.Context, adminId uuid.UUID, req *dto.RefundPolicyRequest) (*dto.RefundPolicyResponse, error) {
	policy := &entity.RefundPolicy{Id: uuid.New(), IsActive: true}
	policyFromRequest(policy, req)

	if err := s.write(ctx, adminId, ActionPolicyCreate, policy, func(uow unitofwork.UnitOfWork) error {
		return uow.RefundPolicyRepository().Create(ctx, policy)
	}); err != nil {
		return nil, err
	}
	return adminMapper.PolicyToResponse(policy), nil
}

func (s *refundPolicyService) Update(ctx context.Context, adminId, policyId uuid.UUID, req *dto.RefundPolicyRequest) (*dto.RefundPolicyResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	policy, err := uow.RefundPolicyRepository().FindOne(ctx, specification.ByID{ID: policyId})
	if err != nil {
		return nil, err
	}
	if policy == nil {
		return nil, apperror.NotFound("refund policy not found")
	}
	previousRole := policy.ApplicableTo
	policyFromRequest(policy, req)

	if err := s.write(ctx, adminId, ActionPolicyUpdate, policy, func(uow unitofwork.UnitOfWork) error {
		return uow.RefundPolicyRepository().Update(ctx, policy)
	}); err != nil {
		return nil, err
	}
	if previousRole != policy.ApplicableTo {
		s.publisher.RefundPolicyChanged(ctx, string(previousRole))
	}
	return adminMapper.PolicyToResponse(policy), nil
}

func (s *refundPolicyService) Delete(ctx context.Context, adminId, policyId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	policy, err := uow.RefundPolicyRepository().FindOne(ctx, specification.ByID{ID: policyId})
	if err != nil {
		return err
	}
	if policy == nil {
		return apperror.NotFound("refund policy not found")
	}

	return s.write(ctx, adminId, ActionPolicyDelete, policy, func(uow unitofwork.UnitOfWork) error {
		return uow.RefundPolicyRepository().Delete(ctx, policy.Id)
	})
}

// write runs a policy mutation in a transaction after checking the resulting
// active sets, then invalidates cached bands on every instance.
func (s *refundPolicyService) write(ctx context.Context, adminId uuid.UUID, action string, policy *entity.RefundPolicy, mutate func(unitofwork.UnitOfWork) error) error {
	if !policy.ApplicableTo.Valid() && policy.ApplicableTo != refund.RoleAll {
		return apperror.Validation("invalid refund policy", map[string]string{"applicable_to": "must be traveler, guide or all"})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	// concurrent writers would each validate a set without the other's row
	if err := uow.RefundPolicyRepository().LockForWrite(ctx); err != nil {
		return err
	}
	rows, err := uow.RefundPolicyRepository().FindAll(ctx)
	if err != nil {
		return err
	}
	candidate := policy
	if action == ActionPolicyDelete {
		candidate = nil
	}
	if err := checkActiveSets(rows, policy.Id, candidate); err != nil {
		return err
	}

	if err := mutate(uow); err != nil {
		return err
	}
	if err := uow.AuditLogRepository().Record(ctx, adminId, action, "refund_policy", policy.Id, map[string]interface{}{
		"days_before_start": policy.DaysBeforeStart,
		"days_before_end":   policy.DaysBeforeEnd,
		"refund_percentage": policy.RefundPercentage,
		"applicable_to":     policy.ApplicableTo,
		"is_active":         policy.IsActive,
	}); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	s.logger.Info("REFUND_POLICY", "Refund policy changed", map[string]interface{}{
		"action":   action,
		"policyId": policy.Id.String(),
		"adminId":  adminId.String(),
	})

	if err := s.invalidator.Invalidate(ctx); err != nil {
		s.logger.Warn("REFUND_POLICY", "Cluster cache invalidation failed", map[string]interface{}{"error": err.Error()})
	}
	s.publisher.RefundPolicyChanged(ctx, string(policy.ApplicableTo))
	return nil
}
