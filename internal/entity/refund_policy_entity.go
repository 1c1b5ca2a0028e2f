package entity

import (
	"time"

	"matchtrip-be/pkg/refund"

	"github.com/google/uuid"
)

// RefundPolicy is one configurable row of the refund schedule.
type RefundPolicy struct {
	Id               uuid.UUID
	DaysBeforeStart  int
	DaysBeforeEnd    *int
	RefundPercentage int
	ApplicableTo     refund.Role
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (p *RefundPolicy) Band() refund.Band {
	return refund.Band{
		DaysFrom:   p.DaysBeforeStart,
		DaysTo:     p.DaysBeforeEnd,
		Percentage: p.RefundPercentage,
	}
}
