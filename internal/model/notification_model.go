package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type NotificationPriority string

const (
	PriorityLow    NotificationPriority = "LOW"
	PriorityMedium NotificationPriority = "MEDIUM"
	PriorityHigh   NotificationPriority = "HIGH"
)

// NotificationType maps an event code to the in-app notification it produces.
// Template placeholders are payload keys in braces, e.g. {trip_title}.
// Deactivating a row silences the in-app notification but not email or
// KakaoTalk, which are keyed on the event code directly.
type NotificationType struct {
	ID          uint                 `gorm:"primaryKey;autoIncrement" json:"id"`
	Code        string               `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	DisplayName string               `gorm:"type:varchar(100);not null" json:"display_name"`
	Template    string               `gorm:"type:text;not null" json:"template"`
	TargetType  string               `gorm:"type:varchar(20);not null" json:"target_type"` // SELF, ADMIN, ROLE, BROADCAST
	TargetRole  string               `gorm:"type:varchar(20)" json:"target_role,omitempty"`
	Priority    NotificationPriority `gorm:"type:varchar(10);not null;default:'MEDIUM'" json:"priority"`
	IsActive    bool                 `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// Notification is one row of a user's inbox. EntityType/EntityID point at
// the trip, cancellation or payment it is about.
type Notification struct {
	ID         uuid.UUID            `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     uuid.UUID            `gorm:"type:uuid;not null;index:idx_notifications_user_created,priority:1;index:idx_notifications_user_unread,priority:1" json:"user_id"`
	ActorID    *uuid.UUID           `gorm:"type:uuid" json:"actor_id,omitempty"`
	TypeCode   string               `gorm:"type:varchar(50);not null;index" json:"type_code"`
	Type       NotificationType     `gorm:"foreignKey:TypeCode;references:Code;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Priority   NotificationPriority `gorm:"type:varchar(10);not null;default:'MEDIUM'" json:"priority"`
	EntityType string               `gorm:"type:varchar(30);index:idx_notifications_entity,priority:1" json:"entity_type,omitempty"`
	EntityID   *uuid.UUID           `gorm:"type:uuid;index:idx_notifications_entity,priority:2" json:"entity_id,omitempty"`
	Title      string               `gorm:"type:varchar(200);not null" json:"title"`
	Message    string               `gorm:"type:text;not null" json:"message"`
	Metadata   datatypes.JSON       `gorm:"type:jsonb" json:"metadata,omitempty"`
	IsRead     bool                 `gorm:"not null;default:false;index:idx_notifications_user_unread,priority:2" json:"is_read"`
	ReadAt     *time.Time           `json:"read_at,omitempty"`
	CreatedAt  time.Time            `gorm:"index:idx_notifications_user_created,priority:2" json:"created_at"`
}

// UserNotificationPreference is absent until the user first saves settings;
// a missing row means everything enabled.
type UserNotificationPreference struct {
	UserID       uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"user_id"`
	MutedTypes   datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"muted_types"`
	EmailEnabled bool                        `gorm:"not null;default:true" json:"email_enabled"`
	PushEnabled  bool                        `gorm:"not null;default:true" json:"push_enabled"`
	UpdatedAt    time.Time                   `json:"updated_at"`
}
