package events

import (
	"strings"
	"time"
)

const SubjectPrefix = "events."

// Domain event types. The NATS subject is SubjectPrefix + type.
const (
	CancellationRequested = "CANCELLATION_REQUESTED"
	CancellationApproved  = "CANCELLATION_APPROVED"
	CancellationRejected  = "CANCELLATION_REJECTED"
	RefundCompleted       = "REFUND_COMPLETED"
	RefundFailed          = "REFUND_FAILED"
	OfferAccepted         = "OFFER_ACCEPTED"
	PaymentPaid           = "PAYMENT_PAID"
	MessageSent           = "MESSAGE_SENT"
	RefundPolicyChanged   = "REFUND_POLICY_CHANGED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "PAYMENT_PAID").
	EventType() string

	Payload() map[string]interface{}

	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// New stamps data with occurred_at and returns the event.
func New(eventType string, data map[string]interface{}) BaseEvent {
	now := time.Now()
	if data == nil {
		data = map[string]interface{}{}
	}
	data["occurred_at"] = now
	return BaseEvent{Type: eventType, Data: data, OccurredAt: now}
}

// Subject returns the bus subject for an event type.
func Subject(eventType string) string {
	return SubjectPrefix + eventType
}

// TypeFromSubject strips the subject prefix added on publish.
func TypeFromSubject(subject string) string {
	return strings.TrimPrefix(subject, SubjectPrefix)
}

// String reads a string field from a decoded payload.
func String(data map[string]interface{}, key string) string {
	v, _ := data[key].(string)
	return v
}

// Int64 reads a numeric field from a decoded payload. JSON numbers decode
// as float64.
func Int64(data map[string]interface{}, key string) int64 {
	switch v := data[key].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	}
	return 0
}
