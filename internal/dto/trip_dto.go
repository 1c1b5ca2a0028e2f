// FILE: internal/dto/trip_dto.go
package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type CreateTripRequest struct {
	Title       string          `json:"title" validate:"required,min=3,max=200"`
	Destination string          `json:"destination" validate:"required,max=200"`
	StartDate   time.Time       `json:"start_date" validate:"required"`
	EndDate     time.Time       `json:"end_date" validate:"required"`
	Travelers   int             `json:"travelers" validate:"required,gte=1,lte=50"`
	Budget      int64           `json:"budget" validate:"gte=0"`
	Preferences json.RawMessage `json:"preferences"`
}

type UpdateTripRequest struct {
	Title       *string         `json:"title" validate:"omitempty,min=3,max=200"`
	Destination *string         `json:"destination" validate:"omitempty,max=200"`
	StartDate   *time.Time      `json:"start_date"`
	EndDate     *time.Time      `json:"end_date"`
	Travelers   *int            `json:"travelers" validate:"omitempty,gte=1,lte=50"`
	Budget      *int64          `json:"budget" validate:"omitempty,gte=0"`
	Preferences json.RawMessage `json:"preferences"`
}

type TripResponse struct {
	Id          uuid.UUID       `json:"id"`
	UserId      uuid.UUID       `json:"user_id"`
	Title       string          `json:"title"`
	Destination string          `json:"destination"`
	StartDate   time.Time       `json:"start_date"`
	EndDate     time.Time       `json:"end_date"`
	Travelers   int             `json:"travelers"`
	Budget      int64           `json:"budget"`
	Preferences json.RawMessage `json:"preferences,omitempty"`
	Status      string          `json:"status"`
	Photos      []string        `json:"photos"`
	CreatedAt   time.Time       `json:"created_at"`
}

type TripListQuery struct {
	Page        int    `query:"page"`
	Limit       int    `query:"limit"`
	Status      string `query:"status"`
	Destination string `query:"destination"`
}

type CreateOfferRequest struct {
	Price     int64           `json:"price" validate:"required,gt=0"`
	Message   string          `json:"message" validate:"max=5000"`
	Itinerary json.RawMessage `json:"itinerary"`
}

type OfferResponse struct {
	Id        uuid.UUID       `json:"id"`
	TripId    uuid.UUID       `json:"trip_id"`
	GuideId   uuid.UUID       `json:"guide_id"`
	Price     int64           `json:"price"`
	PriceText string          `json:"price_text"`
	Message   string          `json:"message"`
	Itinerary json.RawMessage `json:"itinerary,omitempty"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}
