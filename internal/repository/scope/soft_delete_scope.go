package scope

import "gorm.io/gorm"

// WithSoftDelete includes soft-deleted rows, e.g. blocked-then-removed users
// shown in the admin console.
func WithSoftDelete(db *gorm.DB) *gorm.DB {
	return db.Unscoped()
}
