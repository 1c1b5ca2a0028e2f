package specification

import "gorm.io/gorm"

// Specification narrows a repository query. Repositories apply them in the
// order given, so ordering and pagination go last.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}
