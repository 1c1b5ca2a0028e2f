package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string
type UserStatus string

const (
	UserRoleTraveler UserRole = "traveler"
	UserRoleGuide    UserRole = "guide"
	UserRoleAdmin    UserRole = "admin"

	UserStatusActive  UserStatus = "active"
	UserStatusBlocked UserStatus = "blocked"
)

// User holds decrypted values; Phone and PayoutAccount are encrypted by the
// mapper on the way to the database.
type User struct {
	Id            uuid.UUID
	Email         string
	PasswordHash  *string
	FullName      string
	Role          UserRole
	Status        UserStatus
	Phone         *string
	PayoutAccount *string
	AvatarURL     *string
	Bio           string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (u *User) IsGuide() bool {
	return u.Role == UserRoleGuide
}

func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

type UserProvider struct {
	Id             uuid.UUID
	UserId         uuid.UUID
	ProviderName   string
	ProviderUserId string
	AvatarURL      string
	CreatedAt      time.Time
}
