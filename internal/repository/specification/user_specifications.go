package specification

import (
	"gorm.io/gorm"

	"github.com/google/uuid"
)

type ByEmail struct {
	Email string
}

func (s ByEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("email = ?", s.Email)
}

type UserOwnedBy struct {
	UserID uuid.UUID
}

func (s UserOwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

type ByRole struct {
	Role string
}

func (s ByRole) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("role = ?", s.Role)
}

type ActiveUsers struct{}

func (s ActiveUsers) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", "active")
}

// UserSearch matches email or full name, case-insensitively.
type UserSearch struct {
	Query string
}

func (s UserSearch) Apply(db *gorm.DB) *gorm.DB {
	if s.Query == "" {
		return db
	}
	pattern := "%" + s.Query + "%"
	return db.Where("email ILIKE ? OR full_name ILIKE ?", pattern, pattern)
}

// WithPlaintextSensitiveFields finds users whose phone or payout account was
// stored before field encryption was enabled.
type WithPlaintextSensitiveFields struct {
	Prefix string
}

func (s WithPlaintextSensitiveFields) Apply(db *gorm.DB) *gorm.DB {
	pattern := s.Prefix + "%"
	return db.Where(
		"(phone IS NOT NULL AND phone <> '' AND phone NOT LIKE ?) OR (payout_account IS NOT NULL AND payout_account <> '' AND payout_account NOT LIKE ?)",
		pattern, pattern,
	)
}
