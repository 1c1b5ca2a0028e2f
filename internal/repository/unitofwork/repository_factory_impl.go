package unitofwork

import (
	"context"

	"matchtrip-be/internal/pkg/fieldcrypt"

	"gorm.io/gorm"
)

type RepositoryFactoryImpl struct {
	db     *gorm.DB
	cipher fieldcrypt.Cipher
}

func NewRepositoryFactory(db *gorm.DB, cipher fieldcrypt.Cipher) RepositoryFactory {
	return &RepositoryFactoryImpl{
		db:     db,
		cipher: cipher,
	}
}

// NewUnitOfWork is short lived, one per request or job.
func (f *RepositoryFactoryImpl) NewUnitOfWork(ctx context.Context) UnitOfWork {
	return NewUnitOfWork(f.db, f.cipher)
}
