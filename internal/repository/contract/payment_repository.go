package contract

import (
	"context"
	"time"

	"matchtrip-be/internal/entity"
	"matchtrip-be/internal/repository/specification"

	"github.com/google/uuid"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	Update(ctx context.Context, payment *entity.Payment) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Payment, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Payment, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// TransitionStatus moves the payment to "to" only if it is currently in
	// one of "from". It reports whether a row changed.
	TransitionStatus(ctx context.Context, id uuid.UUID, from []entity.PaymentStatus, to entity.PaymentStatus) (bool, error)
	MarkPaid(ctx context.Context, id uuid.UUID, paidAt time.Time) (bool, error)
}
