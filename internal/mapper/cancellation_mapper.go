package mapper

import (
	"matchtrip-be/internal/entity"
	"matchtrip-be/internal/model"
	"matchtrip-be/pkg/refund"
)

type CancellationMapper struct{}

func NewCancellationMapper() *CancellationMapper {
	return &CancellationMapper{}
}

func (m *CancellationMapper) ToEntity(c *model.CancellationRequest) *entity.CancellationRequest {
	if c == nil {
		return nil
	}
	return &entity.CancellationRequest{
		Id:                 c.Id,
		PaymentId:          c.PaymentId,
		RequesterId:        c.RequesterId,
		RequesterRole:      entity.UserRole(c.RequesterRole),
		ReasonType:         c.ReasonType,
		ReasonDetail:       c.ReasonDetail,
		EventStartDate:     c.EventStartDate,
		PaymentAmount:      c.PaymentAmount,
		RefundPercentage:   c.RefundPercentage,
		CalculatedRefund:   c.CalculatedRefund,
		PolicyDescription:  c.PolicyDescription,
		PolicyBasis:        c.PolicyBasis,
		ActualRefundAmount: c.ActualRefundAmount,
		NeedsReview:        c.NeedsReview,
		Status:             entity.CancellationStatus(c.Status),
		AdminNotes:         c.AdminNotes,
		ProcessedBy:        c.ProcessedBy,
		ProcessedAt:        c.ProcessedAt,
		RefundStatus:       entity.RefundExecutionStatus(c.RefundStatus),
		RefundReference:    c.RefundReference,
		RefundError:        c.RefundError,
		RefundedAt:         c.RefundedAt,
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}
}

func (m *CancellationMapper) ToModel(c *entity.CancellationRequest) *model.CancellationRequest {
	if c == nil {
		return nil
	}
	return &model.CancellationRequest{
		Id:                 c.Id,
		PaymentId:          c.PaymentId,
		RequesterId:        c.RequesterId,
		RequesterRole:      string(c.RequesterRole),
		ReasonType:         c.ReasonType,
		ReasonDetail:       c.ReasonDetail,
		EventStartDate:     c.EventStartDate,
		PaymentAmount:      c.PaymentAmount,
		RefundPercentage:   c.RefundPercentage,
		CalculatedRefund:   c.CalculatedRefund,
		PolicyDescription:  c.PolicyDescription,
		PolicyBasis:        c.PolicyBasis,
		ActualRefundAmount: c.ActualRefundAmount,
		NeedsReview:        c.NeedsReview,
		Status:             string(c.Status),
		AdminNotes:         c.AdminNotes,
		ProcessedBy:        c.ProcessedBy,
		ProcessedAt:        c.ProcessedAt,
		RefundStatus:       string(c.RefundStatus),
		RefundReference:    c.RefundReference,
		RefundError:        c.RefundError,
		RefundedAt:         c.RefundedAt,
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}
}

func (m *CancellationMapper) PolicyToEntity(p *model.RefundPolicy) *entity.RefundPolicy {
	if p == nil {
		return nil
	}
	return &entity.RefundPolicy{
		Id:               p.Id,
		DaysBeforeStart:  p.DaysBeforeStart,
		DaysBeforeEnd:    p.DaysBeforeEnd,
		RefundPercentage: p.RefundPercentage,
		ApplicableTo:     refund.Role(p.ApplicableTo),
		IsActive:         p.IsActive,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func (m *CancellationMapper) PolicyToModel(p *entity.RefundPolicy) *model.RefundPolicy {
	if p == nil {
		return nil
	}
	return &model.RefundPolicy{
		Id:               p.Id,
		DaysBeforeStart:  p.DaysBeforeStart,
		DaysBeforeEnd:    p.DaysBeforeEnd,
		RefundPercentage: p.RefundPercentage,
		ApplicableTo:     string(p.ApplicableTo),
		IsActive:         p.IsActive,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}
