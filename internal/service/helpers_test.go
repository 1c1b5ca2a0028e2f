package service

import (
	"context"

	"matchtrip-be/internal/repository/mocks"
	"matchtrip-be/pkg/events"
	"matchtrip-be/pkg/paymentgateway"
	"matchtrip-be/pkg/refund"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// recordingPublisher captures every event a service emits.
type recordingPublisher struct {
	requested []events.CancellationInfo
	decided   []events.CancellationInfo
	refunds   []bool
	failures  []string
	accepted  []uuid.UUID
	paid      []uuid.UUID
	messages  []uuid.UUID
	policies  []string
}

func (p *recordingPublisher) CancellationRequested(_ context.Context, c events.CancellationInfo) {
	p.requested = append(p.requested, c)
}

func (p *recordingPublisher) CancellationDecided(_ context.Context, c events.CancellationInfo) {
	p.decided = append(p.decided, c)
}

func (p *recordingPublisher) RefundFinished(_ context.Context, _ events.CancellationInfo, success bool, failure string) {
	p.refunds = append(p.refunds, success)
	p.failures = append(p.failures, failure)
}

func (p *recordingPublisher) OfferAccepted(_ context.Context, offerID, _, _, _ uuid.UUID, _ string, _ int64) {
	p.accepted = append(p.accepted, offerID)
}

func (p *recordingPublisher) PaymentPaid(_ context.Context, paymentID, _, _ uuid.UUID, _ string, _ int64, _ string) {
	p.paid = append(p.paid, paymentID)
}

func (p *recordingPublisher) MessageSent(_ context.Context, messageID, _, _, _ uuid.UUID, _ string) {
	p.messages = append(p.messages, messageID)
}

func (p *recordingPublisher) RefundPolicyChanged(_ context.Context, role string) {
	p.policies = append(p.policies, role)
}

type mockGateway struct{ mock.Mock }

func (g *mockGateway) CreateCheckout(ctx context.Context, req paymentgateway.CheckoutRequest) (*paymentgateway.Checkout, error) {
	args := g.Called(ctx, req)
	c, _ := args.Get(0).(*paymentgateway.Checkout)
	return c, args.Error(1)
}

func (g *mockGateway) Refund(ctx context.Context, req paymentgateway.RefundRequest) (*paymentgateway.RefundResult, error) {
	args := g.Called(ctx, req)
	r, _ := args.Get(0).(*paymentgateway.RefundResult)
	return r, args.Error(1)
}

func (g *mockGateway) VerifySignature(orderID, statusCode, grossAmount, signature string) bool {
	return g.Called(orderID, statusCode, grossAmount, signature).Bool(0)
}

// staticPolicies serves a fixed band set for every role.
type staticPolicies struct {
	bands []refund.Band
}

func (s staticPolicies) Policy(_ context.Context, role refund.Role) refund.PolicySet {
	return refund.PolicySet{Role: role, Source: refund.SourceDefault, Bands: s.bands}
}

type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) Invalidate(context.Context) error {
	c.calls++
	return nil
}

type recordedPush struct {
	userID uuid.UUID
	kind   string
}

type recordingDelivery struct {
	pushes     []recordedPush
	broadcasts []string
}

func (d *recordingDelivery) Send(userID uuid.UUID, kind string, _ interface{}) {
	d.pushes = append(d.pushes, recordedPush{userID: userID, kind: kind})
}

func (d *recordingDelivery) Broadcast(kind string, _ interface{}) {
	d.broadcasts = append(d.broadcasts, kind)
}

func newMocks() (*mocks.MockRepositoryFactory, *mocks.MockUnitOfWork) {
	uow := mocks.NewMockUnitOfWork()
	return &mocks.MockRepositoryFactory{UoW: uow}, uow
}
