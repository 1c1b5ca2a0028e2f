// FILE: internal/dto/admin_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
)

type AdminUserListResponse struct {
	Id        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	Phone     string    `json:"phone,omitempty"` // masked
	CreatedAt time.Time `json:"created_at"`
}

type AdminUpdateUserStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active blocked"`
}

type AdminDashboardStats struct {
	TotalUsers           int64              `json:"total_users"`
	TotalGuides          int64              `json:"total_guides"`
	OpenTrips            int64              `json:"open_trips"`
	PaidPayments         int64              `json:"paid_payments"`
	PendingCancellations int64              `json:"pending_cancellations"`
	NeedsReview          int64              `json:"needs_review"`
	RecentPayments       []*PaymentResponse `json:"recent_payments"`
}

// Note: log IDs are MD5 hashes of the line, not UUIDs.
type LogListResponse struct {
	Id        string    `json:"id"`
	Level     string    `json:"level"`
	Module    string    `json:"module"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type LogDetailResponse struct {
	LogListResponse
	Details map[string]interface{} `json:"details,omitempty"`
}
