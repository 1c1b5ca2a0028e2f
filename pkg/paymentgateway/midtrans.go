// Package paymentgateway wraps the Midtrans Snap and Core APIs behind a
// small interface so services can be tested without the network.
package paymentgateway

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"matchtrip-be/internal/pkg/logger"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
)

var ErrNotConfigured = errors.New("payment gateway server key not configured")

type CheckoutRequest struct {
	OrderID      string
	Amount       int64
	ItemID       string
	ItemName     string
	CustomerName string
	Email        string
	FinishURL    string
}

type Checkout struct {
	Token       string
	RedirectURL string
}

type RefundRequest struct {
	OrderID   string
	RefundKey string
	Amount    int64
	Reason    string
}

type RefundResult struct {
	Reference     string
	StatusCode    string
	StatusMessage string
}

type Gateway interface {
	CreateCheckout(ctx context.Context, req CheckoutRequest) (*Checkout, error)
	Refund(ctx context.Context, req RefundRequest) (*RefundResult, error)
	VerifySignature(orderID, statusCode, grossAmount, signature string) bool
}

type Midtrans struct {
	serverKey string
	snap      snap.Client
	core      coreapi.Client
	logger    logger.ILogger
}

func NewMidtrans(serverKey string, production bool, log logger.ILogger) *Midtrans {
	env := midtrans.Sandbox
	if production {
		env = midtrans.Production
	}
	m := &Midtrans{serverKey: serverKey, logger: log}
	m.snap.New(serverKey, env)
	m.core.New(serverKey, env)
	return m
}

func (m *Midtrans) CreateCheckout(_ context.Context, req CheckoutRequest) (*Checkout, error) {
	if m.serverKey == "" {
		return nil, ErrNotConfigured
	}

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  req.OrderID,
			GrossAmt: req.Amount,
		},
		CreditCard: &snap.CreditCardDetails{
			Secure: true,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: req.CustomerName,
			Email: req.Email,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    req.ItemID,
				Price: req.Amount,
				Qty:   1,
				Name:  truncate(req.ItemName, 50),
			},
		},
		EnabledPayments: snap.AllSnapPaymentType,
	}
	if req.FinishURL != "" {
		snapReq.Callbacks = &snap.Callbacks{Finish: req.FinishURL}
	}

	resp, midErr := m.snap.CreateTransaction(snapReq)
	if midErr != nil {
		return nil, fmt.Errorf("midtrans snap: %s", midErr.GetMessage())
	}

	m.logger.Info("PAYMENT_GATEWAY", "Snap transaction created", map[string]interface{}{"order_id": req.OrderID})
	return &Checkout{Token: resp.Token, RedirectURL: resp.RedirectURL}, nil
}

// Refund issues a (possibly partial) refund. The refund key makes retries of
// the same refund safe on the Midtrans side.
func (m *Midtrans) Refund(_ context.Context, req RefundRequest) (*RefundResult, error) {
	if m.serverKey == "" {
		return nil, ErrNotConfigured
	}
	if req.Amount <= 0 {
		return nil, fmt.Errorf("refund amount must be positive, got %d", req.Amount)
	}

	resp, midErr := m.core.RefundTransaction(req.OrderID, &coreapi.RefundReq{
		RefundKey: req.RefundKey,
		Amount:    req.Amount,
		Reason:    req.Reason,
	})
	if midErr != nil {
		return nil, fmt.Errorf("midtrans refund: %s", midErr.GetMessage())
	}
	if !strings.HasPrefix(resp.StatusCode, "2") {
		return nil, fmt.Errorf("midtrans refund rejected: %s %s", resp.StatusCode, resp.StatusMessage)
	}

	m.logger.Info("PAYMENT_GATEWAY", "Refund accepted", map[string]interface{}{
		"order_id":   req.OrderID,
		"refund_key": req.RefundKey,
		"amount":     req.Amount,
	})
	return &RefundResult{
		Reference:     req.RefundKey,
		StatusCode:    resp.StatusCode,
		StatusMessage: resp.StatusMessage,
	}, nil
}

func (m *Midtrans) VerifySignature(orderID, statusCode, grossAmount, signature string) bool {
	if m.serverKey == "" {
		return false
	}
	expected := Signature(orderID, statusCode, grossAmount, m.serverKey)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(strings.ToLower(signature))) == 1
}

// Signature is SHA512(order_id + status_code + gross_amount + server_key) in hex.
func Signature(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

type Outcome string

const (
	OutcomePaid    Outcome = "paid"
	OutcomeFailed  Outcome = "failed"
	OutcomePending Outcome = "pending"
	OutcomeIgnore  Outcome = "ignore"
)

// MapTransactionStatus turns a notification's transaction_status and
// fraud_status into the payment transition it implies.
func MapTransactionStatus(transactionStatus, fraudStatus string) Outcome {
	switch transactionStatus {
	case "capture":
		if fraudStatus == "challenge" {
			return OutcomePending
		}
		return OutcomePaid
	case "settlement":
		return OutcomePaid
	case "deny", "cancel", "expire", "failure":
		return OutcomeFailed
	case "pending":
		return OutcomePending
	}
	return OutcomeIgnore
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
