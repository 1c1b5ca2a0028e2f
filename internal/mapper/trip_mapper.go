package mapper

import (
	"matchtrip-be/internal/entity"
	"matchtrip-be/internal/model"
)

type TripMapper struct{}

func NewTripMapper() *TripMapper {
	return &TripMapper{}
}

func (m *TripMapper) ToEntity(t *model.Trip) *entity.Trip {
	if t == nil {
		return nil
	}
	trip := &entity.Trip{
		Id:          t.Id,
		UserId:      t.UserId,
		Title:       t.Title,
		Destination: t.Destination,
		StartDate:   t.StartDate,
		EndDate:     t.EndDate,
		Travelers:   t.Travelers,
		Budget:      t.Budget,
		Preferences: t.Preferences,
		Status:      entity.TripStatus(t.Status),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	for i := range t.Photos {
		trip.Photos = append(trip.Photos, m.PhotoToEntity(&t.Photos[i]))
	}
	return trip
}

func (m *TripMapper) ToModel(t *entity.Trip) *model.Trip {
	if t == nil {
		return nil
	}
	return &model.Trip{
		Id:          t.Id,
		UserId:      t.UserId,
		Title:       t.Title,
		Destination: t.Destination,
		StartDate:   t.StartDate,
		EndDate:     t.EndDate,
		Travelers:   t.Travelers,
		Budget:      t.Budget,
		Preferences: t.Preferences,
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (m *TripMapper) ToEntities(trips []*model.Trip) []*entity.Trip {
	entities := make([]*entity.Trip, len(trips))
	for i, t := range trips {
		entities[i] = m.ToEntity(t)
	}
	return entities
}

func (m *TripMapper) PhotoToEntity(p *model.TripPhoto) *entity.TripPhoto {
	return &entity.TripPhoto{
		Id:        p.Id,
		TripId:    p.TripId,
		URL:       p.URL,
		CreatedAt: p.CreatedAt,
	}
}

func (m *TripMapper) OfferToEntity(o *model.Offer) *entity.Offer {
	if o == nil {
		return nil
	}
	return &entity.Offer{
		Id:        o.Id,
		TripId:    o.TripId,
		GuideId:   o.GuideId,
		Price:     o.Price,
		Message:   o.Message,
		Itinerary: o.Itinerary,
		Status:    entity.OfferStatus(o.Status),
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

func (m *TripMapper) OfferToModel(o *entity.Offer) *model.Offer {
	if o == nil {
		return nil
	}
	return &model.Offer{
		Id:        o.Id,
		TripId:    o.TripId,
		GuideId:   o.GuideId,
		Price:     o.Price,
		Message:   o.Message,
		Itinerary: o.Itinerary,
		Status:    string(o.Status),
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}
