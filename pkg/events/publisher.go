package events

import (
	"context"

	"matchtrip-be/internal/pkg/logger"

	"github.com/google/uuid"
)

// Bus is the transport the Publisher writes to; the NATS publisher
// implements it.
type Bus interface {
	Publish(ctx context.Context, event Event) error
}

// CancellationInfo is the common payload of cancellation and refund events.
type CancellationInfo struct {
	CancellationID uuid.UUID
	PaymentID      uuid.UUID
	RequesterID    uuid.UUID
	RequesterRole  string
	TripTitle      string
	Status         string
	RefundAmount   int64
	Percentage     int
	Currency       string
	AdminNotes     string
}

func (c CancellationInfo) data() map[string]interface{} {
	return map[string]interface{}{
		"cancellation_id": c.CancellationID.String(),
		"payment_id":      c.PaymentID.String(),
		"user_id":         c.RequesterID.String(),
		"requester_role":  c.RequesterRole,
		"trip_title":      c.TripTitle,
		"status":          c.Status,
		"refund_amount":   c.RefundAmount,
		"percentage":      c.Percentage,
		"currency":        c.Currency,
		"admin_notes":     c.AdminNotes,
		"entity_type":     "cancellation",
		"entity_id":       c.CancellationID.String(),
	}
}

// Publisher emits typed domain events. Failures are logged, never returned:
// the database change that triggered the event has already been committed.
type Publisher interface {
	CancellationRequested(ctx context.Context, c CancellationInfo)
	CancellationDecided(ctx context.Context, c CancellationInfo)
	RefundFinished(ctx context.Context, c CancellationInfo, success bool, failure string)
	OfferAccepted(ctx context.Context, offerID, tripID, travelerID, guideID uuid.UUID, tripTitle string, price int64)
	PaymentPaid(ctx context.Context, paymentID, travelerID, guideID uuid.UUID, orderID string, amount int64, currency string)
	MessageSent(ctx context.Context, messageID, tripID, senderID, recipientID uuid.UUID, body string)
	RefundPolicyChanged(ctx context.Context, role string)
}

type busPublisher struct {
	bus    Bus
	logger logger.ILogger
}

// NewPublisher wraps bus. A nil bus yields a publisher that only logs.
func NewPublisher(bus Bus, log logger.ILogger) Publisher {
	return &busPublisher{bus: bus, logger: log}
}

func (p *busPublisher) emit(ctx context.Context, eventType string, data map[string]interface{}) {
	if p.bus == nil {
		p.logger.Debug("EVENTS", "No bus configured, dropping event", map[string]interface{}{"type": eventType})
		return
	}
	if err := p.bus.Publish(ctx, New(eventType, data)); err != nil {
		p.logger.Error("EVENTS", "Failed to publish "+eventType+" event", map[string]interface{}{"error": err.Error()})
	}
}

func (p *busPublisher) CancellationRequested(ctx context.Context, c CancellationInfo) {
	p.emit(ctx, CancellationRequested, c.data())
}

func (p *busPublisher) CancellationDecided(ctx context.Context, c CancellationInfo) {
	eventType := CancellationRejected
	if c.Status == "approved" {
		eventType = CancellationApproved
	}
	p.emit(ctx, eventType, c.data())
}

func (p *busPublisher) RefundFinished(ctx context.Context, c CancellationInfo, success bool, failure string) {
	data := c.data()
	if success {
		p.emit(ctx, RefundCompleted, data)
		return
	}
	data["failure_reason"] = failure
	p.emit(ctx, RefundFailed, data)
}

func (p *busPublisher) OfferAccepted(ctx context.Context, offerID, tripID, travelerID, guideID uuid.UUID, tripTitle string, price int64) {
	p.emit(ctx, OfferAccepted, map[string]interface{}{
		"offer_id":    offerID.String(),
		"trip_id":     tripID.String(),
		"traveler_id": travelerID.String(),
		"user_id":     guideID.String(),
		"trip_title":  tripTitle,
		"price":       price,
		"entity_type": "offer",
		"entity_id":   offerID.String(),
	})
}

func (p *busPublisher) PaymentPaid(ctx context.Context, paymentID, travelerID, guideID uuid.UUID, orderID string, amount int64, currency string) {
	p.emit(ctx, PaymentPaid, map[string]interface{}{
		"payment_id":  paymentID.String(),
		"user_id":     travelerID.String(),
		"guide_id":    guideID.String(),
		"order_id":    orderID,
		"amount":      amount,
		"currency":    currency,
		"entity_type": "payment",
		"entity_id":   paymentID.String(),
	})
}

func (p *busPublisher) MessageSent(ctx context.Context, messageID, tripID, senderID, recipientID uuid.UUID, body string) {
	p.emit(ctx, MessageSent, map[string]interface{}{
		"message_id":  messageID.String(),
		"trip_id":     tripID.String(),
		"sender_id":   senderID.String(),
		"user_id":     recipientID.String(),
		"body":        body,
		"entity_type": "message",
		"entity_id":   messageID.String(),
	})
}

func (p *busPublisher) RefundPolicyChanged(ctx context.Context, role string) {
	p.emit(ctx, RefundPolicyChanged, map[string]interface{}{"applicable_to": role})
}
