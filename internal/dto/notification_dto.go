// FILE: internal/dto/notification_dto.go
package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type NotificationResponse struct {
	Id         uuid.UUID       `json:"id"`
	TypeCode   string          `json:"type_code"`
	Priority   string          `json:"priority"`
	Title      string          `json:"title"`
	Message    string          `json:"message"`
	EntityType string          `json:"entity_type,omitempty"`
	EntityId   *uuid.UUID      `json:"entity_id,omitempty"`
	Metadata   json.RawMessage `json:"metadata,omitempty"`
	IsRead     bool            `json:"is_read"`
	CreatedAt  time.Time       `json:"created_at"`
}

type NotificationPreferenceRequest struct {
	MutedTypes   []string `json:"muted_types"`
	EmailEnabled *bool    `json:"email_enabled"`
	PushEnabled  *bool    `json:"push_enabled"`
}

type NotificationPreferenceResponse struct {
	MutedTypes   []string `json:"muted_types"`
	EmailEnabled bool     `json:"email_enabled"`
	PushEnabled  bool     `json:"push_enabled"`
}
