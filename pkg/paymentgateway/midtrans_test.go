package paymentgateway

import (
	"context"
	"crypto/sha512"
	"fmt"
	"strings"
	"testing"

	"matchtrip-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func TestSignatureMatchesMidtransFormula(t *testing.T) {
	want := fmt.Sprintf("%x", sha512.Sum512([]byte("MT-1"+"200"+"100000.00"+"server-key")))
	assert.Equal(t, want, Signature("MT-1", "200", "100000.00", "server-key"))
}

func TestVerifySignature(t *testing.T) {
	m := NewMidtrans("server-key", false, logger.NewNopLogger())
	sig := Signature("MT-1", "200", "100000.00", "server-key")

	assert.True(t, m.VerifySignature("MT-1", "200", "100000.00", sig))
	assert.True(t, m.VerifySignature("MT-1", "200", "100000.00", strings.ToUpper(sig)))
	assert.False(t, m.VerifySignature("MT-1", "200", "999.00", sig))
	assert.False(t, m.VerifySignature("MT-1", "200", "100000.00", ""))

	unconfigured := NewMidtrans("", false, logger.NewNopLogger())
	assert.False(t, unconfigured.VerifySignature("MT-1", "200", "100000.00", Signature("MT-1", "200", "100000.00", "")))
}

func TestMapTransactionStatus(t *testing.T) {
	tests := []struct {
		status, fraud string
		want          Outcome
	}{
		{"capture", "accept", OutcomePaid},
		{"capture", "challenge", OutcomePending},
		{"settlement", "", OutcomePaid},
		{"deny", "", OutcomeFailed},
		{"cancel", "", OutcomeFailed},
		{"expire", "", OutcomeFailed},
		{"pending", "", OutcomePending},
		{"refund", "", OutcomeIgnore},
	}
	for _, tt := range tests {
		t.Run(tt.status+"/"+tt.fraud, func(t *testing.T) {
			assert.Equal(t, tt.want, MapTransactionStatus(tt.status, tt.fraud))
		})
	}
}

func TestUnconfiguredGatewayRefuses(t *testing.T) {
	m := NewMidtrans("", false, logger.NewNopLogger())

	_, err := m.CreateCheckout(context.Background(), CheckoutRequest{OrderID: "MT-1", Amount: 1000})
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = m.Refund(context.Background(), RefundRequest{OrderID: "MT-1", Amount: 1000})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestRefundRejectsNonPositiveAmount(t *testing.T) {
	m := NewMidtrans("server-key", false, logger.NewNopLogger())
	_, err := m.Refund(context.Background(), RefundRequest{OrderID: "MT-1", Amount: 0})
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "제주", truncate("제주도", 2))
	assert.Equal(t, "abc", truncate("abc", 5))
}
