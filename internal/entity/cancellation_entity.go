package entity

import (
	"time"

	"github.com/google/uuid"
)

type CancellationStatus string

const (
	CancellationStatusPending  CancellationStatus = "pending"
	CancellationStatusApproved CancellationStatus = "approved"
	CancellationStatusRejected CancellationStatus = "rejected"
)

type RefundExecutionStatus string

const (
	RefundExecutionNone      RefundExecutionStatus = "none"
	RefundExecutionPending   RefundExecutionStatus = "pending"
	RefundExecutionCompleted RefundExecutionStatus = "completed"
	RefundExecutionFailed    RefundExecutionStatus = "failed"
)

// CancellationRequest is created by a traveler or guide and decided once by an
// admin. It is never deleted.
type CancellationRequest struct {
	Id                 uuid.UUID
	PaymentId          uuid.UUID
	RequesterId        uuid.UUID
	RequesterRole      UserRole
	ReasonType         string
	ReasonDetail       string
	EventStartDate     time.Time
	PaymentAmount      int64
	RefundPercentage   int
	CalculatedRefund   int64
	PolicyDescription  string
	PolicyBasis        string
	ActualRefundAmount *int64
	NeedsReview        bool
	Status             CancellationStatus
	AdminNotes         string
	ProcessedBy        *uuid.UUID
	ProcessedAt        *time.Time
	RefundStatus       RefundExecutionStatus
	RefundReference    string
	RefundError        string
	RefundedAt         *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time

	Requester *User
	Payment   *Payment
}

func (c *CancellationRequest) IsPending() bool {
	return c.Status == CancellationStatusPending
}

// FinalRefundAmount is the admin override when set, otherwise the calculated
// amount.
func (c *CancellationRequest) FinalRefundAmount() int64 {
	if c.ActualRefundAmount != nil {
		return *c.ActualRefundAmount
	}
	return c.CalculatedRefund
}
