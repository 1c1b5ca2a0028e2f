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

type TripRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.TripMapper
}

func NewTripRepository(db *gorm.DB) contract.TripRepository {
	return &TripRepositoryImpl{db: db, mapper: mapper.NewTripMapper()}
}

func (r *TripRepositoryImpl) Create(ctx context.Context, trip *entity.Trip) error {
	m := r.mapper.ToModel(trip)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	trip.Id = m.Id
	trip.CreatedAt = m.CreatedAt
	trip.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *TripRepositoryImpl) Update(ctx context.Context, trip *entity.Trip) error {
	return r.db.WithContext(ctx).Model(&model.Trip{}).
		Where("id = ?", trip.Id).
		Updates(map[string]interface{}{
			"title":       trip.Title,
			"destination": trip.Destination,
			"start_date":  trip.StartDate,
			"end_date":    trip.EndDate,
			"travelers":   trip.Travelers,
			"budget":      trip.Budget,
			"preferences": trip.Preferences,
			"status":      string(trip.Status),
		}).Error
}

func (r *TripRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Trip, error) {
	var m model.Trip
	query := applySpecifications(r.db.WithContext(ctx).Preload("Photos"), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *TripRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Trip, error) {
	var models []*model.Trip
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *TripRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.Trip{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *TripRepositoryImpl) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.TripStatus) error {
	return r.db.WithContext(ctx).Model(&model.Trip{}).Where("id = ?", id).Update("status", string(status)).Error
}

func (r *TripRepositoryImpl) AddPhoto(ctx context.Context, photo *entity.TripPhoto) error {
	m := &model.TripPhoto{Id: photo.Id, TripId: photo.TripId, URL: photo.URL}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	photo.Id = m.Id
	photo.CreatedAt = m.CreatedAt
	return nil
}
