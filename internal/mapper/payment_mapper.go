package mapper

import (
	"matchtrip-be/internal/entity"
	"matchtrip-be/internal/model"
)

type PaymentMapper struct{}

func NewPaymentMapper() *PaymentMapper {
	return &PaymentMapper{}
}

func (m *PaymentMapper) ToEntity(p *model.Payment) *entity.Payment {
	if p == nil {
		return nil
	}
	return &entity.Payment{
		Id:            p.Id,
		OrderId:       p.OrderId,
		TripId:        p.TripId,
		OfferId:       p.OfferId,
		TravelerId:    p.TravelerId,
		GuideId:       p.GuideId,
		Amount:        p.Amount,
		Currency:      p.Currency,
		Status:        entity.PaymentStatus(p.Status),
		SnapToken:     p.SnapToken,
		RedirectURL:   p.RedirectURL,
		TripStartDate: p.TripStartDate,
		PaidAt:        p.PaidAt,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func (m *PaymentMapper) ToModel(p *entity.Payment) *model.Payment {
	if p == nil {
		return nil
	}
	return &model.Payment{
		Id:            p.Id,
		OrderId:       p.OrderId,
		TripId:        p.TripId,
		OfferId:       p.OfferId,
		TravelerId:    p.TravelerId,
		GuideId:       p.GuideId,
		Amount:        p.Amount,
		Currency:      p.Currency,
		Status:        string(p.Status),
		SnapToken:     p.SnapToken,
		RedirectURL:   p.RedirectURL,
		TripStartDate: p.TripStartDate,
		PaidAt:        p.PaidAt,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
