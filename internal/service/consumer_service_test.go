package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"matchtrip-be/internal/entity"
	"matchtrip-be/internal/pkg/logger"
	"matchtrip-be/internal/repository/mocks"
	"matchtrip-be/pkg/paymentgateway"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func approvedCancellation(override *int64) (*entity.CancellationRequest, *entity.Payment, *entity.Trip) {
	trip := &entity.Trip{Id: uuid.New(), Title: "Gyeongju temples", Status: entity.TripStatusMatched}
	payment := &entity.Payment{
		Id:       uuid.New(),
		OrderId:  "MT-20261019-bbbb1111",
		TripId:   trip.Id,
		Amount:   200000,
		Currency: "KRW",
		Status:   entity.PaymentStatusRefundPending,
	}
	c := &entity.CancellationRequest{
		Id:                 uuid.New(),
		PaymentId:          payment.Id,
		RequesterId:        uuid.New(),
		RequesterRole:      entity.UserRoleTraveler,
		ReasonType:         "change_of_plans",
		CalculatedRefund:   200000,
		ActualRefundAmount: override,
		Status:             entity.CancellationStatusApproved,
		RefundStatus:       entity.RefundExecutionPending,
	}
	return c, payment, trip
}

func setupExecutor(t *testing.T) (IConsumerService, *mocks.MockUnitOfWork, *mockGateway, *recordingPublisher) {
	t.Helper()
	factory, uow := newMocks()
	gw := &mockGateway{}
	pub := &recordingPublisher{}
	svc := NewConsumerService(nil, RefundTopic, factory, gw, pub, logger.NewNopLogger())
	t.Cleanup(func() {
		uow.AssertAll(t)
		gw.AssertExpectations(t)
	})
	return svc, uow, gw, pub
}

func expectLoad(uow *mocks.MockUnitOfWork, c *entity.CancellationRequest, p *entity.Payment, trip *entity.Trip) {
	uow.Cancellations.On("FindOne", mock.Anything, mock.Anything).Return(c, nil)
	uow.Payments.On("FindOne", mock.Anything, mock.Anything).Return(p, nil)
	uow.Trips.On("FindOne", mock.Anything, mock.Anything).Return(trip, nil)
}

func TestExecuteRefundFullAmount(t *testing.T) {
	svc, uow, gw, pub := setupExecutor(t)
	c, p, trip := approvedCancellation(nil)
	expectLoad(uow, c, p, trip)

	gw.On("Refund", mock.Anything, paymentgateway.RefundRequest{
		OrderID:   p.OrderId,
		RefundKey: "refund-" + c.Id.String(),
		Amount:    200000,
		Reason:    "change_of_plans",
	}).Return(&paymentgateway.RefundResult{Reference: "rf-1"}, nil)
	uow.ExpectTransaction()
	uow.Cancellations.On("UpdateRefundExecution", mock.Anything, mock.MatchedBy(func(c *entity.CancellationRequest) bool {
		return c.RefundStatus == entity.RefundExecutionCompleted && c.RefundReference == "rf-1" && c.RefundedAt != nil
	})).Return(nil)
	uow.Payments.On("TransitionStatus", mock.Anything, p.Id, mock.Anything, entity.PaymentStatusRefunded).Return(true, nil)
	uow.Trips.On("UpdateStatus", mock.Anything, trip.Id, entity.TripStatusCanceled).Return(nil)

	require.NoError(t, svc.ExecuteRefund(context.Background(), c.Id))
	assert.Equal(t, []bool{true}, pub.refunds)
}

func TestExecuteRefundPartialOverride(t *testing.T) {
	svc, uow, gw, _ := setupExecutor(t)
	override := int64(50000)
	c, p, trip := approvedCancellation(&override)
	expectLoad(uow, c, p, trip)

	gw.On("Refund", mock.Anything, mock.MatchedBy(func(r paymentgateway.RefundRequest) bool { return r.Amount == 50000 })).
		Return(&paymentgateway.RefundResult{Reference: "rf-2"}, nil)
	uow.ExpectTransaction()
	uow.Cancellations.On("UpdateRefundExecution", mock.Anything, mock.Anything).Return(nil)
	uow.Payments.On("TransitionStatus", mock.Anything, p.Id, mock.Anything, entity.PaymentStatusPartiallyRefunded).Return(true, nil)
	uow.Trips.On("UpdateStatus", mock.Anything, trip.Id, entity.TripStatusCanceled).Return(nil)

	require.NoError(t, svc.ExecuteRefund(context.Background(), c.Id))
}

func TestExecuteRefundZeroSkipsGateway(t *testing.T) {
	svc, uow, _, pub := setupExecutor(t)
	zero := int64(0)
	c, p, trip := approvedCancellation(&zero)
	expectLoad(uow, c, p, trip)

	uow.ExpectTransaction()
	uow.Cancellations.On("UpdateRefundExecution", mock.Anything, mock.Anything).Return(nil)
	uow.Payments.On("TransitionStatus", mock.Anything, p.Id, mock.Anything, entity.PaymentStatusPartiallyRefunded).Return(true, nil)
	uow.Trips.On("UpdateStatus", mock.Anything, trip.Id, entity.TripStatusCanceled).Return(nil)

	require.NoError(t, svc.ExecuteRefund(context.Background(), c.Id))
	assert.Equal(t, []bool{true}, pub.refunds)
}

func TestExecuteRefundGatewayFailureIsRecorded(t *testing.T) {
	svc, uow, gw, pub := setupExecutor(t)
	c, p, trip := approvedCancellation(nil)
	expectLoad(uow, c, p, trip)

	gw.On("Refund", mock.Anything, mock.Anything).Return(nil, errors.New("insufficient merchant balance"))
	uow.Cancellations.On("UpdateRefundExecution", mock.Anything, mock.MatchedBy(func(c *entity.CancellationRequest) bool {
		return c.RefundStatus == entity.RefundExecutionFailed && c.RefundError == "insufficient merchant balance"
	})).Return(nil)

	require.NoError(t, svc.ExecuteRefund(context.Background(), c.Id))
	assert.Equal(t, []bool{false}, pub.refunds)
	assert.Equal(t, []string{"insufficient merchant balance"}, pub.failures)
}

func TestExecuteRefundSkipsCompletedOrRejected(t *testing.T) {
	for _, mutate := range []func(*entity.CancellationRequest){
		func(c *entity.CancellationRequest) { c.RefundStatus = entity.RefundExecutionCompleted },
		func(c *entity.CancellationRequest) { c.Status = entity.CancellationStatusRejected },
	} {
		svc, uow, _, _ := setupExecutor(t)
		c, _, _ := approvedCancellation(nil)
		mutate(c)
		uow.Cancellations.On("FindOne", mock.Anything, mock.Anything).Return(c, nil)

		err := svc.ExecuteRefund(context.Background(), c.Id)
		assert.ErrorIs(t, err, ErrRefundNotPending)
	}
}

func TestEnqueueRefundPublishesJob(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 1}, watermill.NopLogger{})
	defer pubSub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	messages, err := pubSub.Subscribe(ctx, RefundTopic)
	require.NoError(t, err)

	svc := NewConsumerService(pubSub, RefundTopic, nil, nil, &recordingPublisher{}, logger.NewNopLogger())
	id := uuid.New()
	require.NoError(t, svc.EnqueueRefund(ctx, id))

	select {
	case msg := <-messages:
		var job refundJob
		require.NoError(t, json.Unmarshal(msg.Payload, &job))
		assert.Equal(t, id, job.CancellationId)
		msg.Ack()
	case <-ctx.Done():
		t.Fatal("refund job not delivered")
	}
}
