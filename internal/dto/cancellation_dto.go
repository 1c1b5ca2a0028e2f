// FILE: internal/dto/cancellation_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
)

// --- User side ---

type CancellationQuoteRequest struct {
	PaymentId  uuid.UUID `json:"payment_id" validate:"required"`
	ReasonType string    `json:"reason_type" validate:"required,max=50"`
}

type CancellationQuoteResponse struct {
	PaymentId         uuid.UUID `json:"payment_id"`
	PaymentAmount     int64     `json:"payment_amount"`
	RequesterRole     string    `json:"requester_role"`
	DaysUntilStart    int       `json:"days_until_start"`
	Percentage        int       `json:"percentage"`
	RefundAmount      int64     `json:"refund_amount"`
	RefundAmountText  string    `json:"refund_amount_text"`
	Basis             string    `json:"basis"`
	NeedsReview       bool      `json:"needs_review"`
	PolicyDescription string    `json:"policy_description"`
	PolicySource      string    `json:"policy_source"`
}

type CreateCancellationRequest struct {
	PaymentId    uuid.UUID `json:"payment_id" validate:"required"`
	ReasonType   string    `json:"reason_type" validate:"required,max=50"`
	ReasonDetail string    `json:"reason_detail" validate:"max=2000"`
}

type CancellationResponse struct {
	Id                 uuid.UUID  `json:"id"`
	PaymentId          uuid.UUID  `json:"payment_id"`
	RequesterId        uuid.UUID  `json:"requester_id"`
	RequesterRole      string     `json:"requester_role"`
	ReasonType         string     `json:"reason_type"`
	ReasonDetail       string     `json:"reason_detail,omitempty"`
	EventStartDate     time.Time  `json:"event_start_date"`
	PaymentAmount      int64      `json:"payment_amount"`
	RefundPercentage   int        `json:"refund_percentage"`
	CalculatedRefund   int64      `json:"calculated_refund"`
	ActualRefundAmount *int64     `json:"actual_refund_amount,omitempty"`
	PolicyDescription  string     `json:"policy_description"`
	PolicyBasis        string     `json:"policy_basis"`
	NeedsReview        bool       `json:"needs_review"`
	Status             string     `json:"status"`
	AdminNotes         string     `json:"admin_notes,omitempty"`
	ProcessedAt        *time.Time `json:"processed_at,omitempty"`
	RefundStatus       string     `json:"refund_status"`
	RefundReference    string     `json:"refund_reference,omitempty"`
	RefundedAt         *time.Time `json:"refunded_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

// --- Admin side ---

type AdminCancellationListResponse struct {
	CancellationResponse
	Requester AdminCancellationUserInfo     `json:"requester"`
	Payment   *AdminCancellationPaymentInfo `json:"payment,omitempty"`
}

type AdminCancellationUserInfo struct {
	Id       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name"`
}

type AdminCancellationPaymentInfo struct {
	Id      uuid.UUID `json:"id"`
	OrderId string    `json:"order_id"`
	Amount  int64     `json:"amount"`
	Status  string    `json:"status"`
}

type AdminApproveCancellationRequest struct {
	ActualRefundAmount *int64 `json:"actual_refund_amount" validate:"omitempty,gte=0"`
	AdminNotes         string `json:"admin_notes" validate:"max=2000"`
}

type AdminRejectCancellationRequest struct {
	AdminNotes string `json:"admin_notes" validate:"required,max=2000"`
}

type AdminCancellationDecisionResponse struct {
	CancellationId uuid.UUID `json:"cancellation_id"`
	Status         string    `json:"status"`
	RefundAmount   int64     `json:"refund_amount"`
	ProcessedAt    time.Time `json:"processed_at"`
}
