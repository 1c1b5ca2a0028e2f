package entity

import (
	"time"

	"github.com/google/uuid"
)

type Message struct {
	Id          uuid.UUID
	TripId      uuid.UUID
	SenderId    uuid.UUID
	RecipientId uuid.UUID
	Body        string
	ReadAt      *time.Time
	CreatedAt   time.Time
}

type Review struct {
	Id         uuid.UUID
	TripId     uuid.UUID
	TravelerId uuid.UUID
	GuideId    uuid.UUID
	Rating     int
	Comment    string
	CreatedAt  time.Time
}

// GuideRating aggregates reviews for one guide.
type GuideRating struct {
	GuideId uuid.UUID
	Average float64
	Count   int64
}
