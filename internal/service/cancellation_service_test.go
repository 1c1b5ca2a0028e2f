package service

import (
	"context"
	"testing"
	"time"

	"matchtrip-be/internal/dto"
	"matchtrip-be/internal/entity"
	"matchtrip-be/internal/pkg/apperror"
	"matchtrip-be/internal/pkg/logger"
	"matchtrip-be/internal/repository/mocks"
	"matchtrip-be/pkg/refund"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func paidPayment(daysAhead int) *entity.Payment {
	return &entity.Payment{
		Id:            uuid.New(),
		OrderId:       "MT-20261019-abcdef12",
		TripId:        uuid.New(),
		TravelerId:    uuid.New(),
		GuideId:       uuid.New(),
		Amount:        100000,
		Currency:      "KRW",
		Status:        entity.PaymentStatusPaid,
		TripStartDate: time.Now().Add(time.Duration(daysAhead)*24*time.Hour + time.Hour),
	}
}

func setupCancellation(t *testing.T) (ICancellationService, *mocks.MockUnitOfWork, *recordingPublisher) {
	t.Helper()
	factory, uow := newMocks()
	pub := &recordingPublisher{}
	svc := NewCancellationService(factory, staticPolicies{bands: refund.DefaultBands()}, refund.NewCalculator(), pub, nil, logger.NewNopLogger())
	t.Cleanup(func() { uow.AssertAll(t) })
	return svc, uow, pub
}

func TestQuoteUsesRequesterBands(t *testing.T) {
	svc, uow, _ := setupCancellation(t)
	p := paidPayment(25)
	uow.Payments.On("FindOne", mock.Anything, mock.Anything).Return(p, nil)

	q, err := svc.Quote(context.Background(), p.TravelerId, &dto.CancellationQuoteRequest{PaymentId: p.Id, ReasonType: "change_of_plans"})
	require.NoError(t, err)

	assert.Equal(t, "traveler", q.RequesterRole)
	assert.Equal(t, 25, q.DaysUntilStart)
	assert.Equal(t, 90, q.Percentage)
	assert.Equal(t, int64(90000), q.RefundAmount)
	assert.Equal(t, string(refund.BasisSchedule), q.Basis)
	assert.Equal(t, refund.SourceDefault, q.PolicySource)
}

func TestQuoteExceptionReasonIsFullRefund(t *testing.T) {
	svc, uow, _ := setupCancellation(t)
	p := paidPayment(2)
	uow.Payments.On("FindOne", mock.Anything, mock.Anything).Return(p, nil)

	q, err := svc.Quote(context.Background(), p.GuideId, &dto.CancellationQuoteRequest{PaymentId: p.Id, ReasonType: "Medical_Emergency"})
	require.NoError(t, err)
	assert.Equal(t, "guide", q.RequesterRole)
	assert.Equal(t, 100, q.Percentage)
	assert.Equal(t, p.Amount, q.RefundAmount)
	assert.Equal(t, string(refund.BasisException), q.Basis)
}

func TestQuoteRejectsOutsidersAndUnpaid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *entity.Payment)
		user   func(p *entity.Payment) uuid.UUID
		code   apperror.Code
	}{
		{"stranger", func(*entity.Payment) {}, func(*entity.Payment) uuid.UUID { return uuid.New() }, apperror.CodeForbidden},
		{"pending payment", func(p *entity.Payment) { p.Status = entity.PaymentStatusPending }, func(p *entity.Payment) uuid.UUID { return p.TravelerId }, apperror.CodeConflict},
		{"already refunding", func(p *entity.Payment) { p.Status = entity.PaymentStatusRefundPending }, func(p *entity.Payment) uuid.UUID { return p.TravelerId }, apperror.CodeConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, uow, _ := setupCancellation(t)
			p := paidPayment(10)
			tt.mutate(p)
			uow.Payments.On("FindOne", mock.Anything, mock.Anything).Return(p, nil)

			_, err := svc.Quote(context.Background(), tt.user(p), &dto.CancellationQuoteRequest{PaymentId: p.Id, ReasonType: "other"})
			assert.True(t, apperror.Is(err, tt.code), "got %v", err)
		})
	}
}

func TestQuoteMissingPayment(t *testing.T) {
	svc, uow, _ := setupCancellation(t)
	uow.Payments.On("FindOne", mock.Anything, mock.Anything).Return(nil, nil)

	_, err := svc.Quote(context.Background(), uuid.New(), &dto.CancellationQuoteRequest{PaymentId: uuid.New(), ReasonType: "other"})
	assert.True(t, apperror.Is(err, apperror.CodeNotFound))
}

func TestCreateCancellationPersistsAndHoldsPayment(t *testing.T) {
	svc, uow, pub := setupCancellation(t)
	p := paidPayment(25)

	uow.Payments.On("FindOne", mock.Anything, mock.Anything).Return(p, nil)
	uow.Cancellations.On("ExistsActiveForPayment", mock.Anything, p.Id).Return(false, nil)
	uow.ExpectTransaction()
	uow.Cancellations.On("Create", mock.Anything, mock.MatchedBy(func(c *entity.CancellationRequest) bool {
		return c.PaymentId == p.Id &&
			c.RequesterRole == entity.UserRoleTraveler &&
			c.CalculatedRefund == 90000 &&
			c.Status == entity.CancellationStatusPending &&
			!c.NeedsReview
	})).Return(nil)
	uow.Payments.On("TransitionStatus", mock.Anything, p.Id,
		[]entity.PaymentStatus{entity.PaymentStatusPaid}, entity.PaymentStatusRefundPending).Return(true, nil)
	uow.Trips.On("FindOne", mock.Anything, mock.Anything).Return(&entity.Trip{Id: p.TripId, Title: "Jeju hiking"}, nil)

	res, err := svc.Create(context.Background(), p.TravelerId, &dto.CreateCancellationRequest{
		PaymentId:  p.Id,
		ReasonType: "change_of_plans",
	})
	require.NoError(t, err)

	assert.Equal(t, "pending", res.Status)
	assert.Equal(t, int64(90000), res.CalculatedRefund)
	require.Len(t, pub.requested, 1)
	assert.Equal(t, "Jeju hiking", pub.requested[0].TripTitle)
	assert.Equal(t, int64(90000), pub.requested[0].RefundAmount)
}

func TestCreateCancellationConflictsWithActiveRequest(t *testing.T) {
	svc, uow, pub := setupCancellation(t)
	p := paidPayment(25)
	uow.Payments.On("FindOne", mock.Anything, mock.Anything).Return(p, nil)
	uow.Cancellations.On("ExistsActiveForPayment", mock.Anything, p.Id).Return(true, nil)

	_, err := svc.Create(context.Background(), p.TravelerId, &dto.CreateCancellationRequest{PaymentId: p.Id, ReasonType: "other"})
	assert.True(t, apperror.Is(err, apperror.CodeConflict))
	assert.Empty(t, pub.requested)
}

func TestCreateCancellationLosesPaymentRace(t *testing.T) {
	svc, uow, pub := setupCancellation(t)
	p := paidPayment(25)
	uow.Payments.On("FindOne", mock.Anything, mock.Anything).Return(p, nil)
	uow.Cancellations.On("ExistsActiveForPayment", mock.Anything, p.Id).Return(false, nil)
	uow.On("Begin", mock.Anything).Return(nil).Once()
	uow.Cancellations.On("Create", mock.Anything, mock.Anything).Return(nil)
	uow.Payments.On("TransitionStatus", mock.Anything, p.Id, mock.Anything, mock.Anything).Return(false, nil)

	_, err := svc.Create(context.Background(), p.TravelerId, &dto.CreateCancellationRequest{PaymentId: p.Id, ReasonType: "other"})
	assert.True(t, apperror.Is(err, apperror.CodeConflict))
	assert.Empty(t, pub.requested)
}

func TestQuoteGapNeedsReview(t *testing.T) {
	factory, uow := newMocks()
	pub := &recordingPublisher{}
	to := 40
	bands := []refund.Band{{DaysFrom: 30, DaysTo: &to, Percentage: 100}}
	svc := NewCancellationService(factory, staticPolicies{bands: bands}, refund.NewCalculator(), pub, nil, logger.NewNopLogger())

	p := paidPayment(10)
	uow.Payments.On("FindOne", mock.Anything, mock.Anything).Return(p, nil)

	q, err := svc.Quote(context.Background(), p.TravelerId, &dto.CancellationQuoteRequest{PaymentId: p.Id, ReasonType: "other"})
	require.NoError(t, err)
	assert.True(t, q.NeedsReview)
	assert.Equal(t, int64(0), q.RefundAmount)
	assert.Equal(t, string(refund.BasisManualReview), q.Basis)
}

func TestGetCancellationHidesOthersRequests(t *testing.T) {
	svc, uow, _ := setupCancellation(t)
	c := &entity.CancellationRequest{Id: uuid.New(), RequesterId: uuid.New(), Status: entity.CancellationStatusPending}
	uow.Cancellations.On("FindOne", mock.Anything, mock.Anything).Return(c, nil)

	_, err := svc.Get(context.Background(), uuid.New(), "traveler", c.Id)
	assert.True(t, apperror.Is(err, apperror.CodeNotFound))

	res, err := svc.Get(context.Background(), uuid.New(), "admin", c.Id)
	require.NoError(t, err)
	assert.Equal(t, c.Id, res.Id)
}
