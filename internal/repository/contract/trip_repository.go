package contract

import (
	"context"

	"matchtrip-be/internal/entity"
	"matchtrip-be/internal/repository/specification"

	"github.com/google/uuid"
)

type TripRepository interface {
	Create(ctx context.Context, trip *entity.Trip) error
	Update(ctx context.Context, trip *entity.Trip) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Trip, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Trip, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.TripStatus) error
	AddPhoto(ctx context.Context, photo *entity.TripPhoto) error
}

type OfferRepository interface {
	Create(ctx context.Context, offer *entity.Offer) error
	Update(ctx context.Context, offer *entity.Offer) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Offer, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Offer, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// RejectOthers rejects every pending offer of the trip except keepId.
	RejectOthers(ctx context.Context, tripId, keepId uuid.UUID) (int64, error)
}
