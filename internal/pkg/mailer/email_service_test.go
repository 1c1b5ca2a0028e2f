package mailer

import (
	"bytes"
	"errors"
	"testing"

	"matchtrip-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type captureDialer struct {
	sent []*gomail.Message
	err  error
}

func (d *captureDialer) DialAndSend(m ...*gomail.Message) error {
	d.sent = append(d.sent, m...)
	return d.err
}

func newTestService(d dialer) *emailService {
	return &emailService{
		dialer:      d,
		senderEmail: "no-reply@matchtrip.test",
		senderName:  "MatchTrip",
		clientURL:   "http://localhost:5173",
		logger:      logger.NewNopLogger(),
	}
}

func render(t *testing.T, m *gomail.Message) string {
	t.Helper()
	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	return buf.String()
}

func TestSendCancellationReceipt(t *testing.T) {
	d := &captureDialer{}
	s := newTestService(d)

	err := s.SendCancellationReceipt("traveler@example.com", CancellationMail{
		TripTitle:         "Jeju <Olle> walk",
		StartDate:         "2026-04-01",
		Percentage:        90,
		RefundAmount:      90000,
		Currency:          "KRW",
		PolicyDescription: "20-29 days before start: 90% refund",
	})
	require.NoError(t, err)
	require.Len(t, d.sent, 1)

	assert.Equal(t, []string{"traveler@example.com"}, d.sent[0].GetHeader("To"))
	assert.Equal(t, []string{"Cancellation request received"}, d.sent[0].GetHeader("Subject"))
	raw := render(t, d.sent[0])
	assert.NotContains(t, raw, "<Olle>")
}

func TestSendCancellationDecisionSubjects(t *testing.T) {
	d := &captureDialer{}
	s := newTestService(d)

	require.NoError(t, s.SendCancellationDecision("a@b.c", CancellationMail{Status: "approved", RefundAmount: 1000, Currency: "KRW"}))
	require.NoError(t, s.SendCancellationDecision("a@b.c", CancellationMail{Status: "rejected", AdminNotes: "outside policy"}))

	assert.Equal(t, []string{"Your cancellation was approved"}, d.sent[0].GetHeader("Subject"))
	assert.Equal(t, []string{"Your cancellation was rejected"}, d.sent[1].GetHeader("Subject"))
}

func TestSendPropagatesDialError(t *testing.T) {
	s := newTestService(&captureDialer{err: errors.New("smtp down")})
	assert.Error(t, s.SendRefundResult("a@b.c", CancellationMail{Status: "failed"}))
}
