package entity

import (
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentStatusPending           PaymentStatus = "pending"
	PaymentStatusPaid              PaymentStatus = "paid"
	PaymentStatusFailed            PaymentStatus = "failed"
	PaymentStatusRefundPending     PaymentStatus = "refund_pending"
	PaymentStatusRefunded          PaymentStatus = "refunded"
	PaymentStatusPartiallyRefunded PaymentStatus = "partially_refunded"
)

type Payment struct {
	Id            uuid.UUID
	OrderId       string
	TripId        uuid.UUID
	OfferId       uuid.UUID
	TravelerId    uuid.UUID
	GuideId       uuid.UUID
	Amount        int64
	Currency      string
	Status        PaymentStatus
	SnapToken     string
	RedirectURL   string
	TripStartDate time.Time
	PaidAt        *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// RoleOf reports whether userId is the traveler or guide of the payment.
func (p *Payment) RoleOf(userId uuid.UUID) (UserRole, bool) {
	switch userId {
	case p.TravelerId:
		return UserRoleTraveler, true
	case p.GuideId:
		return UserRoleGuide, true
	}
	return "", false
}
