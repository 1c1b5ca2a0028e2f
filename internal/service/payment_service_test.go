package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"matchtrip-be/internal/dto"
	"matchtrip-be/internal/entity"
	"matchtrip-be/internal/pkg/apperror"
	"matchtrip-be/internal/pkg/logger"
	"matchtrip-be/internal/repository/mocks"
	"matchtrip-be/pkg/paymentgateway"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupPayments(t *testing.T) (IPaymentService, *mocks.MockUnitOfWork, *mockGateway, *recordingPublisher) {
	t.Helper()
	factory, uow := newMocks()
	gw := &mockGateway{}
	pub := &recordingPublisher{}
	svc := NewPaymentService(factory, gw, pub, "KRW", "http://client", logger.NewNopLogger())
	t.Cleanup(func() {
		uow.AssertAll(t)
		gw.AssertExpectations(t)
	})
	return svc, uow, gw, pub
}

func acceptedOffer() (*entity.Trip, *entity.Offer) {
	trip := &entity.Trip{
		Id:        uuid.New(),
		UserId:    uuid.New(),
		Title:     "Busan food tour",
		StartDate: time.Now().Add(30 * 24 * time.Hour),
		Status:    entity.TripStatusMatched,
	}
	offer := &entity.Offer{
		Id:      uuid.New(),
		TripId:  trip.Id,
		GuideId: uuid.New(),
		Price:   250000,
		Status:  entity.OfferStatusAccepted,
	}
	return trip, offer
}

func TestCheckoutCreatesPendingPayment(t *testing.T) {
	svc, uow, gw, _ := setupPayments(t)
	trip, offer := acceptedOffer()

	uow.Offers.On("FindOne", mock.Anything, mock.Anything).Return(offer, nil)
	uow.Trips.On("FindOne", mock.Anything, mock.Anything).Return(trip, nil)
	uow.Payments.On("FindOne", mock.Anything, mock.Anything).Return(nil, nil)
	uow.Users.On("FindOne", mock.Anything, mock.Anything).Return(&entity.User{Id: trip.UserId, Email: "t@example.com", FullName: "Traveler"}, nil)
	uow.Payments.On("Create", mock.Anything, mock.MatchedBy(func(p *entity.Payment) bool {
		return p.Amount == 250000 && p.Status == entity.PaymentStatusPending && p.GuideId == offer.GuideId &&
			p.TripStartDate.Equal(trip.StartDate) && p.Currency == "KRW"
	})).Return(nil)
	gw.On("CreateCheckout", mock.Anything, mock.MatchedBy(func(r paymentgateway.CheckoutRequest) bool {
		return r.Amount == 250000 && r.ItemName == "Busan food tour" && r.Email == "t@example.com"
	})).Return(&paymentgateway.Checkout{Token: "snap-token", RedirectURL: "https://pay/redirect"}, nil)
	uow.Payments.On("Update", mock.Anything, mock.MatchedBy(func(p *entity.Payment) bool {
		return p.SnapToken == "snap-token"
	})).Return(nil)

	res, err := svc.Checkout(context.Background(), trip.UserId, &dto.CheckoutRequest{OfferId: offer.Id})
	require.NoError(t, err)
	assert.Equal(t, "snap-token", res.SnapToken)
	assert.Equal(t, int64(250000), res.Amount)
	assert.Regexp(t, `^MT-\d{8}-`, res.OrderId)
}

func TestCheckoutReturnsOpenPayment(t *testing.T) {
	svc, uow, _, _ := setupPayments(t)
	trip, offer := acceptedOffer()
	existing := &entity.Payment{Id: uuid.New(), OrderId: "MT-1", Amount: offer.Price, Status: entity.PaymentStatusPending, SnapToken: "old"}

	uow.Offers.On("FindOne", mock.Anything, mock.Anything).Return(offer, nil)
	uow.Trips.On("FindOne", mock.Anything, mock.Anything).Return(trip, nil)
	uow.Payments.On("FindOne", mock.Anything, mock.Anything).Return(existing, nil)

	res, err := svc.Checkout(context.Background(), trip.UserId, &dto.CheckoutRequest{OfferId: offer.Id})
	require.NoError(t, err)
	assert.Equal(t, existing.Id, res.PaymentId)
	assert.Equal(t, "old", res.SnapToken)
}

func TestCheckoutRejectsPaidOfferAndStrangers(t *testing.T) {
	svc, uow, _, _ := setupPayments(t)
	trip, offer := acceptedOffer()

	uow.Offers.On("FindOne", mock.Anything, mock.Anything).Return(offer, nil)
	uow.Trips.On("FindOne", mock.Anything, mock.Anything).Return(trip, nil)
	uow.Payments.On("FindOne", mock.Anything, mock.Anything).Return(&entity.Payment{Status: entity.PaymentStatusPaid}, nil).Once()

	_, err := svc.Checkout(context.Background(), trip.UserId, &dto.CheckoutRequest{OfferId: offer.Id})
	assert.True(t, apperror.Is(err, apperror.CodeConflict))

	_, err = svc.Checkout(context.Background(), uuid.New(), &dto.CheckoutRequest{OfferId: offer.Id})
	assert.True(t, apperror.Is(err, apperror.CodeForbidden))
}

func TestCheckoutGatewayFailureMarksPaymentFailed(t *testing.T) {
	svc, uow, gw, _ := setupPayments(t)
	trip, offer := acceptedOffer()

	uow.Offers.On("FindOne", mock.Anything, mock.Anything).Return(offer, nil)
	uow.Trips.On("FindOne", mock.Anything, mock.Anything).Return(trip, nil)
	uow.Payments.On("FindOne", mock.Anything, mock.Anything).Return(nil, nil)
	uow.Users.On("FindOne", mock.Anything, mock.Anything).Return(&entity.User{Id: trip.UserId}, nil)
	uow.Payments.On("Create", mock.Anything, mock.Anything).Return(nil)
	gw.On("CreateCheckout", mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))
	uow.Payments.On("Update", mock.Anything, mock.MatchedBy(func(p *entity.Payment) bool {
		return p.Status == entity.PaymentStatusFailed
	})).Return(nil)

	_, err := svc.Checkout(context.Background(), trip.UserId, &dto.CheckoutRequest{OfferId: offer.Id})
	assert.True(t, apperror.Is(err, apperror.CodeUpstream))
}

func notification(status string) *dto.MidtransNotificationRequest {
	return &dto.MidtransNotificationRequest{
		OrderId:           "MT-20261019-aaaa0000",
		StatusCode:        "200",
		GrossAmount:       "250000.00",
		SignatureKey:      "sig",
		TransactionStatus: status,
	}
}

func TestNotificationSettlementMarksPaidOnce(t *testing.T) {
	svc, uow, gw, pub := setupPayments(t)
	p := &entity.Payment{Id: uuid.New(), OrderId: "MT-20261019-aaaa0000", Amount: 250000, Status: entity.PaymentStatusPending}

	gw.On("VerifySignature", p.OrderId, "200", "250000.00", "sig").Return(true)
	uow.Payments.On("FindOne", mock.Anything, mock.Anything).Return(p, nil)
	uow.Payments.On("MarkPaid", mock.Anything, p.Id, mock.AnythingOfType("time.Time")).Return(true, nil).Once()
	uow.Payments.On("MarkPaid", mock.Anything, p.Id, mock.AnythingOfType("time.Time")).Return(false, nil).Once()

	require.NoError(t, svc.HandleNotification(context.Background(), notification("settlement")))
	require.NoError(t, svc.HandleNotification(context.Background(), notification("settlement")))
	assert.Equal(t, []uuid.UUID{p.Id}, pub.paid)
}

func TestNotificationExpireFailsPending(t *testing.T) {
	svc, uow, gw, pub := setupPayments(t)
	p := &entity.Payment{Id: uuid.New(), OrderId: "MT-20261019-aaaa0000", Amount: 250000, Status: entity.PaymentStatusPending}

	gw.On("VerifySignature", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(true)
	uow.Payments.On("FindOne", mock.Anything, mock.Anything).Return(p, nil)
	uow.Payments.On("TransitionStatus", mock.Anything, p.Id,
		[]entity.PaymentStatus{entity.PaymentStatusPending}, entity.PaymentStatusFailed).Return(true, nil)

	require.NoError(t, svc.HandleNotification(context.Background(), notification("expire")))
	assert.Empty(t, pub.paid)
}

func TestNotificationRejectsBadSignatureAndAmount(t *testing.T) {
	svc, uow, gw, _ := setupPayments(t)

	gw.On("VerifySignature", mock.Anything, mock.Anything, mock.Anything, "forged").Return(false)
	bad := notification("settlement")
	bad.SignatureKey = "forged"
	err := svc.HandleNotification(context.Background(), bad)
	assert.True(t, apperror.Is(err, apperror.CodeForbidden))

	gw.On("VerifySignature", mock.Anything, mock.Anything, mock.Anything, "sig").Return(true)
	uow.Payments.On("FindOne", mock.Anything, mock.Anything).Return(&entity.Payment{Id: uuid.New(), Amount: 1000}, nil)
	err = svc.HandleNotification(context.Background(), notification("settlement"))
	assert.True(t, apperror.Is(err, apperror.CodeBadRequest))
}
