// FILE: internal/dto/user_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
)

type UserProfileResponse struct {
	Id            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	FullName      string    `json:"full_name"`
	Role          string    `json:"role"`
	Status        string    `json:"status"`
	Phone         string    `json:"phone,omitempty"`
	PayoutAccount string    `json:"payout_account,omitempty"`
	AvatarURL     string    `json:"avatar_url,omitempty"`
	Bio           string    `json:"bio,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// UpdateProfileRequest: nil fields are left untouched.
type UpdateProfileRequest struct {
	FullName      *string `json:"full_name" validate:"omitempty,min=2,max=100"`
	Phone         *string `json:"phone" validate:"omitempty,min=9,max=20"`
	PayoutAccount *string `json:"payout_account" validate:"omitempty,max=100"`
	Bio           *string `json:"bio" validate:"omitempty,max=2000"`
}

// PublicUserResponse never carries phone or payout data.
type PublicUserResponse struct {
	Id        uuid.UUID `json:"id"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	Bio       string    `json:"bio,omitempty"`
}
