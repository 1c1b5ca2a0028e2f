package cancellation

import (
	"context"
	"testing"

	"matchtrip-be/internal/dto"
	"matchtrip-be/internal/entity"
	"matchtrip-be/internal/pkg/apperror"
	"matchtrip-be/internal/pkg/logger"
	"matchtrip-be/internal/repository/mocks"
	"matchtrip-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type stubPublisher struct {
	events.Publisher
	decided []events.CancellationInfo
}

func (s *stubPublisher) CancellationDecided(_ context.Context, c events.CancellationInfo) {
	s.decided = append(s.decided, c)
}

type stubQueue struct {
	ids []uuid.UUID
}

func (q *stubQueue) EnqueueRefund(_ context.Context, id uuid.UUID) error {
	q.ids = append(q.ids, id)
	return nil
}

func fixture() (*entity.CancellationRequest, *entity.Payment) {
	payment := &entity.Payment{
		Id:     uuid.New(),
		TripId: uuid.New(),
		Amount: 100000,
		Status: entity.PaymentStatusRefundPending,
	}
	c := &entity.CancellationRequest{
		Id:               uuid.New(),
		PaymentId:        payment.Id,
		RequesterId:      uuid.New(),
		RequesterRole:    entity.UserRoleTraveler,
		PaymentAmount:    payment.Amount,
		RefundPercentage: 90,
		CalculatedRefund: 90000,
		Status:           entity.CancellationStatusPending,
		RefundStatus:     entity.RefundExecutionNone,
	}
	return c, payment
}

func newProcessor() (*Processor, *stubPublisher, *stubQueue) {
	pub := &stubPublisher{}
	q := &stubQueue{}
	return NewProcessor(logger.NewNopLogger(), pub, q, "KRW"), pub, q
}

func TestApproveUsesCalculatedAmountAndQueuesRefund(t *testing.T) {
	ctx := context.Background()
	uow := mocks.NewMockUnitOfWork()
	c, payment := fixture()
	adminId := uuid.New()

	uow.Cancellations.On("FindOne", ctx, mock.Anything).Return(c, nil)
	uow.Payments.On("FindOne", ctx, mock.Anything).Return(payment, nil)
	uow.ExpectTransaction()
	uow.Cancellations.On("Decide", ctx, c).Return(true, nil)
	uow.AuditLogs.On("Record", ctx, adminId, ActionApprove, "cancellation", c.Id, mock.Anything).Return(nil)
	uow.Trips.On("FindOne", ctx, mock.Anything).Return(&entity.Trip{Title: "Jeju"}, nil)

	p, pub, q := newProcessor()
	res, err := p.Approve(ctx, uow, adminId, c.Id, dto.AdminApproveCancellationRequest{AdminNotes: "ok"})
	require.NoError(t, err)

	assert.Equal(t, int64(90000), res.RefundAmount)
	assert.Equal(t, entity.CancellationStatusApproved, c.Status)
	assert.Equal(t, entity.RefundExecutionPending, c.RefundStatus)
	assert.Equal(t, &adminId, c.ProcessedBy)
	require.Len(t, pub.decided, 1)
	assert.Equal(t, "approved", pub.decided[0].Status)
	assert.Equal(t, "Jeju", pub.decided[0].TripTitle)
	assert.Equal(t, []uuid.UUID{c.Id}, q.ids)
	uow.AssertAll(t)
}

func TestApproveOverrideBounds(t *testing.T) {
	ctx := context.Background()

	for _, tc := range []struct {
		name     string
		override int64
		valid    bool
	}{
		{"zero", 0, true},
		{"full", 100000, true},
		{"negative", -1, false},
		{"above payment", 100001, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			uow := mocks.NewMockUnitOfWork()
			c, payment := fixture()
			uow.Cancellations.On("FindOne", ctx, mock.Anything).Return(c, nil)
			uow.Payments.On("FindOne", ctx, mock.Anything).Return(payment, nil)
			if tc.valid {
				uow.ExpectTransaction()
				uow.Cancellations.On("Decide", ctx, c).Return(true, nil)
				uow.AuditLogs.On("Record", ctx, mock.Anything, ActionApprove, "cancellation", c.Id, mock.Anything).Return(nil)
				uow.Trips.On("FindOne", ctx, mock.Anything).Return(nil, nil)
			}

			p, _, q := newProcessor()
			override := tc.override
			res, err := p.Approve(ctx, uow, uuid.New(), c.Id, dto.AdminApproveCancellationRequest{ActualRefundAmount: &override})
			if tc.valid {
				require.NoError(t, err)
				assert.Equal(t, tc.override, res.RefundAmount)
				assert.Len(t, q.ids, 1)
			} else {
				assert.True(t, apperror.Is(err, apperror.CodeValidation))
				assert.Empty(t, q.ids)
			}
			uow.AssertAll(t)
		})
	}
}

func TestDecisionOnlyWhilePending(t *testing.T) {
	ctx := context.Background()
	uow := mocks.NewMockUnitOfWork()
	c, _ := fixture()
	c.Status = entity.CancellationStatusRejected
	uow.Cancellations.On("FindOne", ctx, mock.Anything).Return(c, nil)

	p, pub, _ := newProcessor()
	_, err := p.Approve(ctx, uow, uuid.New(), c.Id, dto.AdminApproveCancellationRequest{})
	assert.True(t, apperror.Is(err, apperror.CodeConflict))

	_, err = p.Reject(ctx, uow, uuid.New(), c.Id, dto.AdminRejectCancellationRequest{AdminNotes: "no"})
	assert.True(t, apperror.Is(err, apperror.CodeConflict))
	assert.Empty(t, pub.decided)
}

func TestApproveLosesRace(t *testing.T) {
	ctx := context.Background()
	uow := mocks.NewMockUnitOfWork()
	c, payment := fixture()
	uow.Cancellations.On("FindOne", ctx, mock.Anything).Return(c, nil)
	uow.Payments.On("FindOne", ctx, mock.Anything).Return(payment, nil)
	uow.On("Begin", mock.Anything).Return(nil)
	uow.Cancellations.On("Decide", ctx, c).Return(false, nil)

	p, _, q := newProcessor()
	_, err := p.Approve(ctx, uow, uuid.New(), c.Id, dto.AdminApproveCancellationRequest{})
	assert.True(t, apperror.Is(err, apperror.CodeConflict))
	assert.Empty(t, q.ids)
}

func TestRejectRestoresPayment(t *testing.T) {
	ctx := context.Background()
	uow := mocks.NewMockUnitOfWork()
	c, payment := fixture()
	adminId := uuid.New()

	uow.Cancellations.On("FindOne", ctx, mock.Anything).Return(c, nil)
	uow.Payments.On("FindOne", ctx, mock.Anything).Return(payment, nil)
	uow.ExpectTransaction()
	uow.Cancellations.On("Decide", ctx, c).Return(true, nil)
	uow.Payments.On("TransitionStatus", ctx, payment.Id,
		[]entity.PaymentStatus{entity.PaymentStatusRefundPending}, entity.PaymentStatusPaid).Return(true, nil)
	uow.AuditLogs.On("Record", ctx, adminId, ActionReject, "cancellation", c.Id, mock.Anything).Return(nil)
	uow.Trips.On("FindOne", ctx, mock.Anything).Return(nil, nil)

	p, pub, q := newProcessor()
	res, err := p.Reject(ctx, uow, adminId, c.Id, dto.AdminRejectCancellationRequest{AdminNotes: "outside policy"})
	require.NoError(t, err)

	assert.Equal(t, entity.CancellationStatusRejected, c.Status)
	assert.Equal(t, entity.PaymentStatusPaid, res.Payment.Status)
	require.Len(t, pub.decided, 1)
	assert.Equal(t, "rejected", pub.decided[0].Status)
	assert.Equal(t, int64(0), pub.decided[0].RefundAmount)
	assert.Empty(t, q.ids)
	uow.AssertAll(t)
}
