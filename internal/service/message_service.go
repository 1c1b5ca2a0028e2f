// FILE: internal/service/message_service.go
package service

import (
	"context"

	"matchtrip-be/internal/dto"
	"matchtrip-be/internal/entity"
	"matchtrip-be/internal/pkg/apperror"
	"matchtrip-be/internal/pkg/logger"
	"matchtrip-be/internal/pkg/serverutils"
	"matchtrip-be/internal/repository/specification"
	"matchtrip-be/internal/repository/unitofwork"
	adminMapper "matchtrip-be/pkg/admin/mapper"
	"matchtrip-be/pkg/events"

	"github.com/google/uuid"
)

// Pusher delivers a realtime frame to a user's open connections. The
// websocket hub satisfies it.
type Pusher interface {
	Send(userID uuid.UUID, kind string, data interface{})
}

type IMessageService interface {
	Send(ctx context.Context, senderId, tripId uuid.UUID, req *dto.SendMessageRequest) (*dto.MessageResponse, error)
	Conversation(ctx context.Context, userId, tripId, withId uuid.UUID, page, limit int) ([]*dto.MessageResponse, int64, error)
	MarkRead(ctx context.Context, userId, messageId uuid.UUID) error
}

type messageService struct {
	uowFactory unitofwork.RepositoryFactory
	pusher     Pusher
	publisher  events.Publisher
	logger     logger.ILogger
}

func NewMessageService(uowFactory unitofwork.RepositoryFactory, pusher Pusher, publisher events.Publisher, log logger.ILogger) IMessageService {
	return &messageService{
		uowFactory: uowFactory,
		pusher:     pusher,
		publisher:  publisher,
		logger:     log,
	}
}

// canTalk reports whether a and b may message each other about trip: one of
// them owns the trip and the other has made an offer on it.
func canTalk(ctx context.Context, uow unitofwork.UnitOfWork, trip *entity.Trip, a, b uuid.UUID) (bool, error) {
	var guide uuid.UUID
	switch trip.UserId {
	case a:
		guide = b
	case b:
		guide = a
	default:
		return false, nil
	}
	if guide == trip.UserId {
		return false, nil
	}
	n, err := uow.OfferRepository().Count(ctx, specification.ByTrip{TripID: trip.Id}, specification.ByGuide{GuideID: guide})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *messageService) Send(ctx context.Context, senderId, tripId uuid.UUID, req *dto.SendMessageRequest) (*dto.MessageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	trip, err := findTrip(ctx, uow, tripId)
	if err != nil {
		return nil, err
	}
	ok, err := canTalk(ctx, uow, trip, senderId, req.RecipientId)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.Forbidden("you can only message participants of this trip")
	}

	msg := &entity.Message{
		Id:          uuid.New(),
		TripId:      tripId,
		SenderId:    senderId,
		RecipientId: req.RecipientId,
		Body:        req.Body,
	}
	if err := uow.MessageRepository().Create(ctx, msg); err != nil {
		return nil, err
	}

	res := adminMapper.MessageToResponse(msg)
	if s.pusher != nil {
		s.pusher.Send(msg.RecipientId, "message", res)
	}
	s.publisher.MessageSent(ctx, msg.Id, tripId, senderId, msg.RecipientId, msg.Body)
	return res, nil
}

func (s *messageService) Conversation(ctx context.Context, userId, tripId, withId uuid.UUID, page, limit int) ([]*dto.MessageResponse, int64, error) {
	_, limit, offset := serverutils.NormalizePage(page, limit)
	uow := s.uowFactory.NewUnitOfWork(ctx)

	trip, err := findTrip(ctx, uow, tripId)
	if err != nil {
		return nil, 0, err
	}
	ok, err := canTalk(ctx, uow, trip, userId, withId)
	if err != nil {
		return nil, 0, err
	}
	if !ok {
		return nil, 0, apperror.Forbidden("not a participant of this conversation")
	}

	filter := specification.Conversation{TripID: tripId, UserA: userId, UserB: withId}
	total, err := uow.MessageRepository().Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	messages, err := uow.MessageRepository().FindAll(ctx, filter,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err != nil {
		return nil, 0, err
	}

	res := make([]*dto.MessageResponse, 0, len(messages))
	for _, m := range messages {
		res = append(res, adminMapper.MessageToResponse(m))
	}
	return res, total, nil
}

func (s *messageService) MarkRead(ctx context.Context, userId, messageId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	msg, err := uow.MessageRepository().FindOne(ctx, specification.ByID{ID: messageId})
	if err != nil {
		return err
	}
	if msg == nil || msg.RecipientId != userId {
		return apperror.NotFound("message not found")
	}
	return uow.MessageRepository().MarkRead(ctx, messageId)
}
