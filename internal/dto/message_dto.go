// FILE: internal/dto/message_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
)

type SendMessageRequest struct {
	RecipientId uuid.UUID `json:"recipient_id" validate:"required"`
	Body        string    `json:"body" validate:"required,max=5000"`
}

type MessageResponse struct {
	Id          uuid.UUID  `json:"id"`
	TripId      uuid.UUID  `json:"trip_id"`
	SenderId    uuid.UUID  `json:"sender_id"`
	RecipientId uuid.UUID  `json:"recipient_id"`
	Body        string     `json:"body"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type CreateReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

type ReviewResponse struct {
	Id         uuid.UUID `json:"id"`
	TripId     uuid.UUID `json:"trip_id"`
	TravelerId uuid.UUID `json:"traveler_id"`
	GuideId    uuid.UUID `json:"guide_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type GuideReviewsResponse struct {
	GuideId uuid.UUID        `json:"guide_id"`
	Average float64          `json:"average"`
	Count   int64            `json:"count"`
	Reviews []ReviewResponse `json:"reviews"`
}
