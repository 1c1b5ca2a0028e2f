package contract

import (
	"context"

	"matchtrip-be/internal/entity"
	"matchtrip-be/internal/repository/specification"

	"github.com/google/uuid"
)

// UserRepository stores accounts. Phone and payout fields are encrypted by the
// implementation, so callers always see plaintext.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	// FindOneUnscoped also sees deleted accounts, so an email cannot be reused.
	FindOneUnscoped(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.UserStatus) error
	UpdateAvatar(ctx context.Context, userId uuid.UUID, avatarURL string) error

	SaveUserProvider(ctx context.Context, provider *entity.UserProvider) error
	FindByProvider(ctx context.Context, providerName, providerUserId string) (*entity.User, error)
}
