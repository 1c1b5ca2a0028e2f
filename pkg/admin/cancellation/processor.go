package cancellation

import (
	"context"
	"time"

	"matchtrip-be/internal/dto"
	"matchtrip-be/internal/entity"
	"matchtrip-be/internal/pkg/apperror"
	"matchtrip-be/internal/pkg/logger"
	"matchtrip-be/internal/repository/specification"
	"matchtrip-be/internal/repository/unitofwork"
	"matchtrip-be/pkg/events"

	"github.com/google/uuid"
)

const (
	ActionApprove = "cancellation.approve"
	ActionReject  = "cancellation.reject"
)

// RefundQueue receives approved cancellations for asynchronous refund
// execution.
type RefundQueue interface {
	EnqueueRefund(ctx context.Context, cancellationId uuid.UUID) error
}

// DecisionResult contains the outcome of an approve or reject.
type DecisionResult struct {
	Cancellation *entity.CancellationRequest
	Payment      *entity.Payment
	TripTitle    string
	RefundAmount int64
	ProcessedAt  time.Time
}

// Processor handles the admin approve/reject workflow. A request is decided
// exactly once.
type Processor struct {
	logger    logger.ILogger
	publisher events.Publisher
	queue     RefundQueue
	currency  string
}

func NewProcessor(logger logger.ILogger, publisher events.Publisher, queue RefundQueue, currency string) *Processor {
	return &Processor{
		logger:    logger,
		publisher: publisher,
		queue:     queue,
		currency:  currency,
	}
}

// GetAll retrieves paginated cancellation requests with requester and payment
// preloaded, newest first.
func (p *Processor) GetAll(ctx context.Context, uow unitofwork.UnitOfWork, page, limit int, status string) ([]*entity.CancellationRequest, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	var filters []specification.Specification
	if status != "" {
		filters = append(filters, specification.ByStatus{Status: status})
	}

	total, err := uow.CancellationRepository().Count(ctx, filters...)
	if err != nil {
		return nil, 0, err
	}

	specs := append(filters,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	items, err := uow.CancellationRepository().FindAllWithDetails(ctx, specs...)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (p *Processor) load(ctx context.Context, uow unitofwork.UnitOfWork, id uuid.UUID) (*entity.CancellationRequest, *entity.Payment, error) {
	c, err := uow.CancellationRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, nil, err
	}
	if c == nil {
		return nil, nil, apperror.NotFound("cancellation request not found")
	}
	if !c.IsPending() {
		return nil, nil, apperror.Conflict("cancellation request already processed")
	}

	payment, err := uow.PaymentRepository().FindOne(ctx, specification.ByID{ID: c.PaymentId})
	if err != nil {
		return nil, nil, err
	}
	if payment == nil {
		return nil, nil, apperror.NotFound("payment not found")
	}
	return c, payment, nil
}

func (p *Processor) tripTitle(ctx context.Context, uow unitofwork.UnitOfWork, tripId uuid.UUID) string {
	trip, err := uow.TripRepository().FindOne(ctx, specification.ByID{ID: tripId})
	if err != nil || trip == nil {
		return ""
	}
	return trip.Title
}

// Approve marks a pending request approved and queues the refund. An override
// amount must lie within 0..payment amount.
func (p *Processor) Approve(ctx context.Context, uow unitofwork.UnitOfWork, adminId, cancellationId uuid.UUID, req dto.AdminApproveCancellationRequest) (*DecisionResult, error) {
	// 1. Find and check state
	c, payment, err := p.load(ctx, uow, cancellationId)
	if err != nil {
		return nil, err
	}

	if req.ActualRefundAmount != nil {
		actual := *req.ActualRefundAmount
		if actual < 0 || actual > payment.Amount {
			return nil, apperror.Validation("refund override out of range", map[string]string{
				"actual_refund_amount": "must be between 0 and the payment amount",
			})
		}
	}

	// 2. Start transaction
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	// 3. Apply decision
	now := time.Now()
	c.Status = entity.CancellationStatusApproved
	c.ActualRefundAmount = req.ActualRefundAmount
	c.AdminNotes = req.AdminNotes
	c.ProcessedBy = &adminId
	c.ProcessedAt = &now
	c.RefundStatus = entity.RefundExecutionPending

	applied, err := uow.CancellationRepository().Decide(ctx, c)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, apperror.Conflict("cancellation request already processed")
	}

	// 4. Audit
	if err := uow.AuditLogRepository().Record(ctx, adminId, ActionApprove, "cancellation", c.Id, map[string]interface{}{
		"calculated_refund":    c.CalculatedRefund,
		"actual_refund_amount": c.FinalRefundAmount(),
		"admin_notes":          req.AdminNotes,
	}); err != nil {
		return nil, err
	}

	title := p.tripTitle(ctx, uow, payment.TripId)

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	p.logger.Info("ADMIN", "Approved cancellation request", map[string]interface{}{
		"cancellationId": c.Id.String(),
		"paymentId":      payment.Id.String(),
		"refundAmount":   c.FinalRefundAmount(),
		"override":       req.ActualRefundAmount != nil,
	})

	// 5. Emit event and hand off the refund
	p.publisher.CancellationDecided(ctx, p.info(c, title))
	if p.queue != nil {
		if err := p.queue.EnqueueRefund(ctx, c.Id); err != nil {
			// request stays approved with refund_status=pending; the admin CLI can retry
			p.logger.Error("ADMIN", "Failed to enqueue refund job", map[string]interface{}{
				"cancellationId": c.Id.String(),
				"error":          err.Error(),
			})
		}
	}

	return &DecisionResult{
		Cancellation: c,
		Payment:      payment,
		TripTitle:    title,
		RefundAmount: c.FinalRefundAmount(),
		ProcessedAt:  now,
	}, nil
}

// Reject marks a pending request rejected and returns the payment to paid.
func (p *Processor) Reject(ctx context.Context, uow unitofwork.UnitOfWork, adminId, cancellationId uuid.UUID, req dto.AdminRejectCancellationRequest) (*DecisionResult, error) {
	c, payment, err := p.load(ctx, uow, cancellationId)
	if err != nil {
		return nil, err
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	now := time.Now()
	c.Status = entity.CancellationStatusRejected
	c.AdminNotes = req.AdminNotes
	c.ProcessedBy = &adminId
	c.ProcessedAt = &now
	c.RefundStatus = entity.RefundExecutionNone

	applied, err := uow.CancellationRepository().Decide(ctx, c)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, apperror.Conflict("cancellation request already processed")
	}

	if _, err := uow.PaymentRepository().TransitionStatus(ctx, payment.Id,
		[]entity.PaymentStatus{entity.PaymentStatusRefundPending}, entity.PaymentStatusPaid); err != nil {
		return nil, err
	}
	payment.Status = entity.PaymentStatusPaid

	if err := uow.AuditLogRepository().Record(ctx, adminId, ActionReject, "cancellation", c.Id, map[string]interface{}{
		"admin_notes": req.AdminNotes,
	}); err != nil {
		return nil, err
	}

	title := p.tripTitle(ctx, uow, payment.TripId)

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	p.logger.Info("ADMIN", "Rejected cancellation request", map[string]interface{}{
		"cancellationId": c.Id.String(),
		"paymentId":      payment.Id.String(),
		"adminNotes":     req.AdminNotes,
	})

	p.publisher.CancellationDecided(ctx, p.info(c, title))

	return &DecisionResult{
		Cancellation: c,
		Payment:      payment,
		TripTitle:    title,
		ProcessedAt:  now,
	}, nil
}

func (p *Processor) info(c *entity.CancellationRequest, title string) events.CancellationInfo {
	amount := int64(0)
	if c.Status == entity.CancellationStatusApproved {
		amount = c.FinalRefundAmount()
	}
	return events.CancellationInfo{
		CancellationID: c.Id,
		PaymentID:      c.PaymentId,
		RequesterID:    c.RequesterId,
		RequesterRole:  string(c.RequesterRole),
		TripTitle:      title,
		Status:         string(c.Status),
		RefundAmount:   amount,
		Percentage:     c.RefundPercentage,
		Currency:       p.currency,
		AdminNotes:     c.AdminNotes,
	}
}
