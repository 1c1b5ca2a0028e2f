package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubjectRoundTrip(t *testing.T) {
	assert.Equal(t, "events.PAYMENT_PAID", Subject(PaymentPaid))
	assert.Equal(t, PaymentPaid, TypeFromSubject(Subject(PaymentPaid)))
	assert.Equal(t, "OTHER", TypeFromSubject("OTHER"))
}

func TestNewStampsOccurredAt(t *testing.T) {
	evt := New(RefundCompleted, map[string]interface{}{"cancellation_id": "c1"})
	assert.Equal(t, RefundCompleted, evt.EventType())
	assert.Equal(t, evt.OccurredAt, evt.Payload()["occurred_at"])

	empty := New(MessageSent, nil)
	assert.NotNil(t, empty.Payload())
}

func TestPayloadAccessorsAfterJSON(t *testing.T) {
	raw, err := json.Marshal(map[string]interface{}{"user_id": "u1", "amount": int64(90000)})
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, "u1", String(decoded, "user_id"))
	assert.Equal(t, int64(90000), Int64(decoded, "amount"))
	assert.Equal(t, "", String(decoded, "missing"))
	assert.Equal(t, int64(0), Int64(decoded, "user_id"))
}
