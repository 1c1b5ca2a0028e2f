package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type OfferStatus string

const (
	OfferStatusPending   OfferStatus = "pending"
	OfferStatusAccepted  OfferStatus = "accepted"
	OfferStatusRejected  OfferStatus = "rejected"
	OfferStatusWithdrawn OfferStatus = "withdrawn"
)

type Offer struct {
	Id        uuid.UUID
	TripId    uuid.UUID
	GuideId   uuid.UUID
	Price     int64
	Message   string
	Itinerary datatypes.JSON
	Status    OfferStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
