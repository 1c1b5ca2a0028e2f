package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Trip struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId      uuid.UUID      `gorm:"type:uuid;not null;index"`
	Title       string         `gorm:"type:varchar(200);not null"`
	Destination string         `gorm:"type:varchar(200);not null;index"`
	StartDate   time.Time      `gorm:"not null"`
	EndDate     time.Time      `gorm:"not null"`
	Travelers   int            `gorm:"not null;default:1"`
	Budget      int64          `gorm:"not null;default:0"`
	Preferences datatypes.JSON `gorm:"type:jsonb"`
	Status      string         `gorm:"type:varchar(20);not null;default:'open';index"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`

	Photos []TripPhoto `gorm:"foreignKey:TripId"`
}

func (Trip) TableName() string {
	return "trips"
}

type TripPhoto struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TripId    uuid.UUID `gorm:"type:uuid;not null;index"`
	URL       string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (TripPhoto) TableName() string {
	return "trip_photos"
}

type Offer struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TripId    uuid.UUID      `gorm:"type:uuid;not null;index"`
	GuideId   uuid.UUID      `gorm:"type:uuid;not null;index"`
	Price     int64          `gorm:"not null"`
	Message   string         `gorm:"type:text"`
	Itinerary datatypes.JSON `gorm:"type:jsonb"`
	Status    string         `gorm:"type:varchar(20);not null;default:'pending';index"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
}

func (Offer) TableName() string {
	return "offers"
}
