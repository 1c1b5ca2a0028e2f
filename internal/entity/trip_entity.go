package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type TripStatus string

const (
	TripStatusOpen      TripStatus = "open"
	TripStatusMatched   TripStatus = "matched"
	TripStatusCompleted TripStatus = "completed"
	TripStatusCanceled  TripStatus = "canceled"
	TripStatusClosed    TripStatus = "closed"
)

type Trip struct {
	Id          uuid.UUID
	UserId      uuid.UUID
	Title       string
	Destination string
	StartDate   time.Time
	EndDate     time.Time
	Travelers   int
	Budget      int64
	Preferences datatypes.JSON
	Status      TripStatus
	Photos      []*TripPhoto
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (t *Trip) IsOpen() bool {
	return t.Status == TripStatusOpen
}

type TripPhoto struct {
	Id        uuid.UUID
	TripId    uuid.UUID
	URL       string
	CreatedAt time.Time
}
