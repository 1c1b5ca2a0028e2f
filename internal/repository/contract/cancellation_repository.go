package contract

import (
	"context"

	"matchtrip-be/internal/entity"
	"matchtrip-be/internal/repository/specification"

	"github.com/google/uuid"
)

// CancellationRepository has no delete: requests are kept forever.
type CancellationRepository interface {
	Create(ctx context.Context, cancellation *entity.CancellationRequest) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CancellationRequest, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CancellationRequest, error)
	FindAllWithDetails(ctx context.Context, specs ...specification.Specification) ([]*entity.CancellationRequest, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// Decide applies the admin decision only while the request is pending.
	Decide(ctx context.Context, cancellation *entity.CancellationRequest) (bool, error)
	UpdateRefundExecution(ctx context.Context, cancellation *entity.CancellationRequest) error
	ExistsActiveForPayment(ctx context.Context, paymentId uuid.UUID) (bool, error)
}

type RefundPolicyRepository interface {
	Create(ctx context.Context, policy *entity.RefundPolicy) error
	Update(ctx context.Context, policy *entity.RefundPolicy) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.RefundPolicy, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.RefundPolicy, error)
	// LockForWrite serializes policy writers until the surrounding
	// transaction ends. Outside a transaction it is released at once.
	LockForWrite(ctx context.Context) error
}

type AuditLogRepository interface {
	Record(ctx context.Context, actorId uuid.UUID, action, entityType string, entityId uuid.UUID, details map[string]interface{}) error
}
