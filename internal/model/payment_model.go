package model

import (
	"time"

	"github.com/google/uuid"
)

type Payment struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderId       string    `gorm:"type:varchar(64);uniqueIndex;not null"`
	TripId        uuid.UUID `gorm:"type:uuid;not null;index"`
	OfferId       uuid.UUID `gorm:"type:uuid;not null;index"`
	TravelerId    uuid.UUID `gorm:"type:uuid;not null;index"`
	GuideId       uuid.UUID `gorm:"type:uuid;not null;index"`
	Amount        int64     `gorm:"not null"`
	Currency      string    `gorm:"type:varchar(3);not null"`
	Status        string    `gorm:"type:varchar(30);not null;default:'pending';index"`
	SnapToken     string    `gorm:"type:varchar(255)"`
	RedirectURL   string    `gorm:"type:text"`
	TripStartDate time.Time `gorm:"not null"`
	PaidAt        *time.Time
	CreatedAt     time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

func (Payment) TableName() string {
	return "payments"
}
