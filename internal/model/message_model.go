package model

import (
	"time"

	"github.com/google/uuid"
)

type Message struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TripId      uuid.UUID `gorm:"type:uuid;not null;index:idx_messages_conversation,priority:1"`
	SenderId    uuid.UUID `gorm:"type:uuid;not null;index:idx_messages_conversation,priority:2"`
	RecipientId uuid.UUID `gorm:"type:uuid;not null;index"`
	Body        string    `gorm:"type:text;not null"`
	ReadAt      *time.Time
	CreatedAt   time.Time `gorm:"autoCreateTime;index:idx_messages_conversation,priority:3"`
}

func (Message) TableName() string {
	return "messages"
}

type Review struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TripId     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	TravelerId uuid.UUID `gorm:"type:uuid;not null"`
	GuideId    uuid.UUID `gorm:"type:uuid;not null;index"`
	Rating     int       `gorm:"not null"`
	Comment    string    `gorm:"type:text"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (Review) TableName() string {
	return "reviews"
}
