// FILE: internal/service/consumer_service.go
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"matchtrip-be/internal/entity"
	"matchtrip-be/internal/pkg/logger"
	"matchtrip-be/internal/repository/specification"
	"matchtrip-be/internal/repository/unitofwork"
	"matchtrip-be/pkg/events"
	"matchtrip-be/pkg/paymentgateway"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// RefundTopic carries approved cancellations waiting for a gateway refund.
const RefundTopic = "refund.execute"

// ErrRefundNotPending is returned when a job targets a request whose refund
// already ran or was never approved.
var ErrRefundNotPending = errors.New("refund is not pending")

type refundJob struct {
	CancellationId uuid.UUID `json:"cancellation_id"`
}

// IConsumerService executes refunds for approved cancellations. It is also
// the queue the admin approval hands jobs to.
type IConsumerService interface {
	Consume(ctx context.Context) error
	EnqueueRefund(ctx context.Context, cancellationId uuid.UUID) error
	ExecuteRefund(ctx context.Context, cancellationId uuid.UUID) error
}

type consumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	gateway    paymentgateway.Gateway
	publisher  events.Publisher
	logger     logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	gateway paymentgateway.Gateway,
	publisher events.Publisher,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
		gateway:    gateway,
		publisher:  publisher,
		logger:     log,
	}
}

func (cs *consumerService) EnqueueRefund(_ context.Context, cancellationId uuid.UUID) error {
	payload, err := json.Marshal(refundJob{CancellationId: cancellationId})
	if err != nil {
		return err
	}
	return cs.pubSub.Publish(cs.topicName, message.NewMessage(watermill.NewUUID(), payload))
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var job refundJob
	if err := json.Unmarshal(msg.Payload, &job); err != nil {
		cs.logger.Error("REFUND_WORKER", "Dropping undecodable refund job", map[string]interface{}{"error": err.Error()})
		msg.Ack()
		return
	}

	err := cs.ExecuteRefund(ctx, job.CancellationId)
	switch {
	case err == nil, errors.Is(err, ErrRefundNotPending):
		msg.Ack()
	default:
		// database trouble; the gateway call is keyed so a redelivery is safe
		cs.logger.Error("REFUND_WORKER", "Refund job failed, will retry", map[string]interface{}{
			"cancellationId": job.CancellationId.String(),
			"error":          err.Error(),
		})
		msg.Nack()
	}
}

// ExecuteRefund sends the approved amount back through the gateway and
// settles the cancellation, payment and trip. Gateway rejections are recorded
// on the request as a failed refund rather than returned.
func (cs *consumerService) ExecuteRefund(ctx context.Context, cancellationId uuid.UUID) error {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	// 1. Load state
	c, err := uow.CancellationRepository().FindOne(ctx, specification.ByID{ID: cancellationId})
	if err != nil {
		return err
	}
	if c == nil || c.Status != entity.CancellationStatusApproved || c.RefundStatus == entity.RefundExecutionCompleted {
		return ErrRefundNotPending
	}
	payment, err := uow.PaymentRepository().FindOne(ctx, specification.ByID{ID: c.PaymentId})
	if err != nil {
		return err
	}
	if payment == nil {
		return fmt.Errorf("payment %s of cancellation %s not found", c.PaymentId, c.Id)
	}
	trip, err := uow.TripRepository().FindOne(ctx, specification.ByID{ID: payment.TripId})
	if err != nil {
		return err
	}
	title := ""
	if trip != nil {
		title = trip.Title
	}

	// 2. Gateway refund, skipped when nothing is owed
	amount := c.FinalRefundAmount()
	reference := ""
	if amount > 0 {
		res, err := cs.gateway.Refund(ctx, paymentgateway.RefundRequest{
			OrderID:   payment.OrderId,
			RefundKey: "refund-" + c.Id.String(),
			Amount:    amount,
			Reason:    c.ReasonType,
		})
		if err != nil {
			return cs.recordFailure(ctx, uow, c, payment, title, err)
		}
		reference = res.Reference
	}

	// 3. Settle
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	now := time.Now()
	c.RefundStatus = entity.RefundExecutionCompleted
	c.RefundReference = reference
	c.RefundError = ""
	c.RefundedAt = &now
	if err := uow.CancellationRepository().UpdateRefundExecution(ctx, c); err != nil {
		return err
	}

	final := entity.PaymentStatusPartiallyRefunded
	if amount == payment.Amount {
		final = entity.PaymentStatusRefunded
	}
	if _, err := uow.PaymentRepository().TransitionStatus(ctx, payment.Id,
		[]entity.PaymentStatus{entity.PaymentStatusRefundPending, entity.PaymentStatusPaid}, final); err != nil {
		return err
	}
	if trip != nil {
		if err := uow.TripRepository().UpdateStatus(ctx, trip.Id, entity.TripStatusCanceled); err != nil {
			return err
		}
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	cs.logger.Info("REFUND_WORKER", "Refund completed", map[string]interface{}{
		"cancellationId": c.Id.String(),
		"orderId":        payment.OrderId,
		"amount":         amount,
		"paymentStatus":  final,
	})
	cs.publisher.RefundFinished(ctx, refundInfo(c, payment, title), true, "")
	return nil
}

func (cs *consumerService) recordFailure(ctx context.Context, uow unitofwork.UnitOfWork, c *entity.CancellationRequest, payment *entity.Payment, title string, cause error) error {
	c.RefundStatus = entity.RefundExecutionFailed
	c.RefundError = cause.Error()
	if err := uow.CancellationRepository().UpdateRefundExecution(ctx, c); err != nil {
		return err
	}

	cs.logger.Error("REFUND_WORKER", "Gateway refund failed", map[string]interface{}{
		"cancellationId": c.Id.String(),
		"orderId":        payment.OrderId,
		"error":          cause.Error(),
	})
	cs.publisher.RefundFinished(ctx, refundInfo(c, payment, title), false, cause.Error())
	return nil
}

func refundInfo(c *entity.CancellationRequest, p *entity.Payment, title string) events.CancellationInfo {
	return events.CancellationInfo{
		CancellationID: c.Id,
		PaymentID:      p.Id,
		RequesterID:    c.RequesterId,
		RequesterRole:  string(c.RequesterRole),
		TripTitle:      title,
		Status:         string(c.Status),
		RefundAmount:   c.FinalRefundAmount(),
		Percentage:     c.RefundPercentage,
		Currency:       p.Currency,
		AdminNotes:     c.AdminNotes,
	}
}
