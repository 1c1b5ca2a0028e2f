package service

import (
	"context"
	"testing"

	"matchtrip-be/internal/dto"
	"matchtrip-be/internal/entity"
	"matchtrip-be/internal/pkg/apperror"
	"matchtrip-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateOfferRules(t *testing.T) {
	owner := uuid.New()
	open := &entity.Trip{Id: uuid.New(), UserId: owner, Status: entity.TripStatusOpen}

	t.Run("own trip", func(t *testing.T) {
		factory, uow := newMocks()
		svc := NewOfferService(factory, &recordingPublisher{}, "KRW", logger.NewNopLogger())
		uow.Trips.On("FindOne", mock.Anything, mock.Anything).Return(open, nil)

		_, err := svc.Create(context.Background(), owner, open.Id, &dto.CreateOfferRequest{Price: 1000})
		assert.True(t, apperror.Is(err, apperror.CodeBadRequest))
	})

	t.Run("duplicate pending", func(t *testing.T) {
		factory, uow := newMocks()
		svc := NewOfferService(factory, &recordingPublisher{}, "KRW", logger.NewNopLogger())
		uow.Trips.On("FindOne", mock.Anything, mock.Anything).Return(open, nil)
		uow.Offers.On("FindOne", mock.Anything, mock.Anything).Return(&entity.Offer{Id: uuid.New()}, nil)

		_, err := svc.Create(context.Background(), uuid.New(), open.Id, &dto.CreateOfferRequest{Price: 1000})
		assert.True(t, apperror.Is(err, apperror.CodeConflict))
	})

	t.Run("closed trip", func(t *testing.T) {
		factory, uow := newMocks()
		svc := NewOfferService(factory, &recordingPublisher{}, "KRW", logger.NewNopLogger())
		uow.Trips.On("FindOne", mock.Anything, mock.Anything).Return(&entity.Trip{Id: open.Id, UserId: owner, Status: entity.TripStatusMatched}, nil)

		_, err := svc.Create(context.Background(), uuid.New(), open.Id, &dto.CreateOfferRequest{Price: 1000})
		assert.True(t, apperror.Is(err, apperror.CodeConflict))
	})

	t.Run("created", func(t *testing.T) {
		factory, uow := newMocks()
		svc := NewOfferService(factory, &recordingPublisher{}, "KRW", logger.NewNopLogger())
		guide := uuid.New()
		uow.Trips.On("FindOne", mock.Anything, mock.Anything).Return(open, nil)
		uow.Offers.On("FindOne", mock.Anything, mock.Anything).Return(nil, nil)
		uow.Offers.On("Create", mock.Anything, mock.MatchedBy(func(o *entity.Offer) bool {
			return o.GuideId == guide && o.Status == entity.OfferStatusPending && o.Price == 120000
		})).Return(nil)

		res, err := svc.Create(context.Background(), guide, open.Id, &dto.CreateOfferRequest{Price: 120000, Message: "I know the area"})
		require.NoError(t, err)
		assert.Equal(t, "pending", res.Status)
		uow.AssertAll(t)
	})
}

func TestAcceptOfferMatchesTrip(t *testing.T) {
	factory, uow := newMocks()
	pub := &recordingPublisher{}
	svc := NewOfferService(factory, pub, "KRW", logger.NewNopLogger())

	owner := uuid.New()
	trip := &entity.Trip{Id: uuid.New(), UserId: owner, Title: "Seoul night walk", Status: entity.TripStatusOpen}
	offer := &entity.Offer{Id: uuid.New(), TripId: trip.Id, GuideId: uuid.New(), Price: 80000, Status: entity.OfferStatusPending}

	uow.Offers.On("FindOne", mock.Anything, mock.Anything).Return(offer, nil)
	uow.Trips.On("FindOne", mock.Anything, mock.Anything).Return(trip, nil)
	uow.ExpectTransaction()
	uow.Offers.On("Update", mock.Anything, mock.MatchedBy(func(o *entity.Offer) bool {
		return o.Status == entity.OfferStatusAccepted
	})).Return(nil)
	uow.Offers.On("RejectOthers", mock.Anything, trip.Id, offer.Id).Return(int64(2), nil)
	uow.Trips.On("UpdateStatus", mock.Anything, trip.Id, entity.TripStatusMatched).Return(nil)

	res, err := svc.Accept(context.Background(), owner, offer.Id)
	require.NoError(t, err)
	assert.Equal(t, "accepted", res.Status)
	assert.Equal(t, []uuid.UUID{offer.Id}, pub.accepted)
	uow.AssertAll(t)
}

func TestAcceptOfferOnlyByOwner(t *testing.T) {
	factory, uow := newMocks()
	svc := NewOfferService(factory, &recordingPublisher{}, "KRW", logger.NewNopLogger())
	trip := &entity.Trip{Id: uuid.New(), UserId: uuid.New(), Status: entity.TripStatusOpen}
	offer := &entity.Offer{Id: uuid.New(), TripId: trip.Id, Status: entity.OfferStatusPending}

	uow.Offers.On("FindOne", mock.Anything, mock.Anything).Return(offer, nil)
	uow.Trips.On("FindOne", mock.Anything, mock.Anything).Return(trip, nil)

	_, err := svc.Accept(context.Background(), uuid.New(), offer.Id)
	assert.True(t, apperror.Is(err, apperror.CodeForbidden))
}

func TestWithdrawOffer(t *testing.T) {
	factory, uow := newMocks()
	svc := NewOfferService(factory, &recordingPublisher{}, "KRW", logger.NewNopLogger())
	guide := uuid.New()
	offer := &entity.Offer{Id: uuid.New(), GuideId: guide, Status: entity.OfferStatusAccepted}
	uow.Offers.On("FindOne", mock.Anything, mock.Anything).Return(offer, nil)

	err := svc.Withdraw(context.Background(), guide, offer.Id)
	assert.True(t, apperror.Is(err, apperror.CodeConflict))

	err = svc.Withdraw(context.Background(), uuid.New(), offer.Id)
	assert.True(t, apperror.Is(err, apperror.CodeForbidden))
}
