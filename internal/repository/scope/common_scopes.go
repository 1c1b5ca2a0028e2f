package scope

import "gorm.io/gorm"

// NewestFirst is the default order of inbox style listings.
func NewestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC")
}
