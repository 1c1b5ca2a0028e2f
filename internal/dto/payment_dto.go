// FILE: internal/dto/payment_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
)

type CheckoutRequest struct {
	OfferId uuid.UUID `json:"offer_id" validate:"required"`
}

type CheckoutResponse struct {
	PaymentId   uuid.UUID `json:"payment_id"`
	OrderId     string    `json:"order_id"`
	Amount      int64     `json:"amount"`
	SnapToken   string    `json:"snap_token"`
	RedirectURL string    `json:"redirect_url"`
}

// MidtransNotificationRequest is the webhook body. Amounts arrive as strings.
type MidtransNotificationRequest struct {
	TransactionStatus string `json:"transaction_status"`
	OrderId           string `json:"order_id"`
	FraudStatus       string `json:"fraud_status"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	PaymentType       string `json:"payment_type"`
	TransactionId     string `json:"transaction_id"`
}

type PaymentResponse struct {
	Id            uuid.UUID  `json:"id"`
	OrderId       string     `json:"order_id"`
	TripId        uuid.UUID  `json:"trip_id"`
	OfferId       uuid.UUID  `json:"offer_id"`
	TravelerId    uuid.UUID  `json:"traveler_id"`
	GuideId       uuid.UUID  `json:"guide_id"`
	Amount        int64      `json:"amount"`
	AmountText    string     `json:"amount_text"`
	Currency      string     `json:"currency"`
	Status        string     `json:"status"`
	RedirectURL   string     `json:"redirect_url,omitempty"`
	TripStartDate time.Time  `json:"trip_start_date"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}
