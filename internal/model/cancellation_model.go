package model

import (
	"time"

	"github.com/google/uuid"
)

// CancellationRequest has no DeletedAt: requests are an audit record.
type CancellationRequest struct {
	Id                 uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PaymentId          uuid.UUID `gorm:"type:uuid;not null;index"`
	RequesterId        uuid.UUID `gorm:"type:uuid;not null;index"`
	RequesterRole      string    `gorm:"type:varchar(20);not null"`
	ReasonType         string    `gorm:"type:varchar(50);not null"`
	ReasonDetail       string    `gorm:"type:text"`
	EventStartDate     time.Time `gorm:"not null"`
	PaymentAmount      int64     `gorm:"not null"`
	RefundPercentage   int       `gorm:"not null"`
	CalculatedRefund   int64     `gorm:"not null"`
	PolicyDescription  string    `gorm:"type:text"`
	PolicyBasis        string    `gorm:"type:varchar(20)"`
	ActualRefundAmount *int64
	NeedsReview        bool       `gorm:"not null;default:false"`
	Status             string     `gorm:"type:varchar(20);not null;default:'pending';index"`
	AdminNotes         string     `gorm:"type:text"`
	ProcessedBy        *uuid.UUID `gorm:"type:uuid"`
	ProcessedAt        *time.Time
	RefundStatus       string `gorm:"type:varchar(20);not null;default:'none'"`
	RefundReference    string `gorm:"type:varchar(100)"`
	RefundError        string `gorm:"type:text"`
	RefundedAt         *time.Time
	CreatedAt          time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime"`

	Requester User    `gorm:"foreignKey:RequesterId"`
	Payment   Payment `gorm:"foreignKey:PaymentId"`
}

func (CancellationRequest) TableName() string {
	return "cancellation_requests"
}

type RefundPolicy struct {
	Id               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DaysBeforeStart  int       `gorm:"not null"`
	DaysBeforeEnd    *int
	RefundPercentage int       `gorm:"not null"`
	ApplicableTo     string    `gorm:"type:varchar(20);not null;default:'all';index"`
	IsActive         bool      `gorm:"not null;default:true;index"`
	CreatedAt        time.Time `gorm:"autoCreateTime"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime"`
}

func (RefundPolicy) TableName() string {
	return "refund_policies"
}
