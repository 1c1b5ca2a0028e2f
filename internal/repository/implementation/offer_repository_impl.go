package implementation

import (
	"context"
	"errors"

	"matchtrip-be/internal/entity"
	"matchtrip-be/internal/mapper"
	"matchtrip-be/internal/model"
	"matchtrip-be/internal/repository/contract"
	"matchtrip-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OfferRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.TripMapper
}

func NewOfferRepository(db *gorm.DB) contract.OfferRepository {
	return &OfferRepositoryImpl{db: db, mapper: mapper.NewTripMapper()}
}

func (r *OfferRepositoryImpl) Create(ctx context.Context, offer *entity.Offer) error {
	m := r.mapper.OfferToModel(offer)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	offer.Id = m.Id
	offer.CreatedAt = m.CreatedAt
	offer.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *OfferRepositoryImpl) Update(ctx context.Context, offer *entity.Offer) error {
	return r.db.WithContext(ctx).Model(&model.Offer{}).
		Where("id = ?", offer.Id).
		Updates(map[string]interface{}{
			"price":     offer.Price,
			"message":   offer.Message,
			"itinerary": offer.Itinerary,
			"status":    string(offer.Status),
		}).Error
}

func (r *OfferRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Offer, error) {
	var m model.Offer
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.OfferToEntity(&m), nil
}

func (r *OfferRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Offer, error) {
	var models []*model.Offer
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	offers := make([]*entity.Offer, len(models))
	for i, m := range models {
		offers[i] = r.mapper.OfferToEntity(m)
	}
	return offers, nil
}

func (r *OfferRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.Offer{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *OfferRepositoryImpl) RejectOthers(ctx context.Context, tripId, keepId uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Offer{}).
		Where("trip_id = ? AND id <> ? AND status = ?", tripId, keepId, string(entity.OfferStatusPending)).
		Update("status", string(entity.OfferStatusRejected))
	return res.RowsAffected, res.Error
}
