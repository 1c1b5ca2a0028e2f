package mapper

import (
	"matchtrip-be/internal/entity"
	"matchtrip-be/internal/model"
)

type MessageMapper struct{}

func NewMessageMapper() *MessageMapper {
	return &MessageMapper{}
}

func (m *MessageMapper) ToEntity(msg *model.Message) *entity.Message {
	if msg == nil {
		return nil
	}
	return &entity.Message{
		Id:          msg.Id,
		TripId:      msg.TripId,
		SenderId:    msg.SenderId,
		RecipientId: msg.RecipientId,
		Body:        msg.Body,
		ReadAt:      msg.ReadAt,
		CreatedAt:   msg.CreatedAt,
	}
}

func (m *MessageMapper) ToModel(msg *entity.Message) *model.Message {
	if msg == nil {
		return nil
	}
	return &model.Message{
		Id:          msg.Id,
		TripId:      msg.TripId,
		SenderId:    msg.SenderId,
		RecipientId: msg.RecipientId,
		Body:        msg.Body,
		ReadAt:      msg.ReadAt,
		CreatedAt:   msg.CreatedAt,
	}
}

func (m *MessageMapper) ReviewToEntity(r *model.Review) *entity.Review {
	if r == nil {
		return nil
	}
	return &entity.Review{
		Id:         r.Id,
		TripId:     r.TripId,
		TravelerId: r.TravelerId,
		GuideId:    r.GuideId,
		Rating:     r.Rating,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt,
	}
}

func (m *MessageMapper) ReviewToModel(r *entity.Review) *model.Review {
	if r == nil {
		return nil
	}
	return &model.Review{
		Id:         r.Id,
		TripId:     r.TripId,
		TravelerId: r.TravelerId,
		GuideId:    r.GuideId,
		Rating:     r.Rating,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt,
	}
}
