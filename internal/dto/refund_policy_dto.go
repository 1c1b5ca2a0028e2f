// FILE: internal/dto/refund_policy_dto.go
package dto

import (
	"time"

	"matchtrip-be/pkg/refund"

	"github.com/google/uuid"
)

type RefundPolicyRequest struct {
	DaysBeforeStart  int    `json:"days_before_start" validate:"gte=0"`
	DaysBeforeEnd    *int   `json:"days_before_end" validate:"omitempty,gte=0"`
	RefundPercentage int    `json:"refund_percentage" validate:"gte=0,lte=100"`
	ApplicableTo     string `json:"applicable_to" validate:"required,oneof=traveler guide all"`
	IsActive         *bool  `json:"is_active"`
}

type RefundPolicyResponse struct {
	Id               uuid.UUID `json:"id"`
	DaysBeforeStart  int       `json:"days_before_start"`
	DaysBeforeEnd    *int      `json:"days_before_end"`
	RefundPercentage int       `json:"refund_percentage"`
	ApplicableTo     string    `json:"applicable_to"`
	IsActive         bool      `json:"is_active"`
	Description      string    `json:"description"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ValidateBandsRequest checks a candidate band set without saving it.
type ValidateBandsRequest struct {
	Bands []refund.Band `json:"bands" validate:"required,min=1"`
}

type ValidateBandsResponse struct {
	Valid    bool     `json:"valid"`
	Problems []string `json:"problems,omitempty"`
}

type PublicRefundPoliciesResponse struct {
	Traveler refund.PolicySet `json:"traveler"`
	Guide    refund.PolicySet `json:"guide"`
	// ExceptionReasons always yield a full refund after admin approval.
	ExceptionReasons []string `json:"exception_reasons"`
}
