// FILE: internal/service/cancellation_service.go
package service

import (
	"context"
	"errors"
	"time"

	"matchtrip-be/internal/dto"
	"matchtrip-be/internal/entity"
	"matchtrip-be/internal/pkg/apperror"
	"matchtrip-be/internal/pkg/logger"
	"matchtrip-be/internal/pkg/mailer"
	"matchtrip-be/internal/pkg/serverutils"
	"matchtrip-be/internal/repository/specification"
	"matchtrip-be/internal/repository/unitofwork"
	adminMapper "matchtrip-be/pkg/admin/mapper"
	"matchtrip-be/pkg/events"
	"matchtrip-be/pkg/refund"
	"matchtrip-be/pkg/utils"

	"github.com/google/uuid"
)

// PolicySource resolves the active refund bands for a requester role.
// *refund.Provider satisfies it.
type PolicySource interface {
	Policy(ctx context.Context, role refund.Role) refund.PolicySet
}

type ICancellationService interface {
	Quote(ctx context.Context, userId uuid.UUID, req *dto.CancellationQuoteRequest) (*dto.CancellationQuoteResponse, error)
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateCancellationRequest) (*dto.CancellationResponse, error)
	List(ctx context.Context, userId uuid.UUID, page, limit int) ([]*dto.CancellationResponse, int64, error)
	Get(ctx context.Context, userId uuid.UUID, role string, cancellationId uuid.UUID) (*dto.CancellationResponse, error)
}

type cancellationService struct {
	uowFactory   unitofwork.RepositoryFactory
	policies     PolicySource
	calculator   *refund.Calculator
	publisher    events.Publisher
	emailService mailer.IEmailService
	logger       logger.ILogger
}

func NewCancellationService(
	uowFactory unitofwork.RepositoryFactory,
	policies PolicySource,
	calculator *refund.Calculator,
	publisher events.Publisher,
	emailService mailer.IEmailService,
	log logger.ILogger,
) ICancellationService {
	return &cancellationService{
		uowFactory:   uowFactory,
		policies:     policies,
		calculator:   calculator,
		publisher:    publisher,
		emailService: emailService,
		logger:       log,
	}
}

type cancellationQuote struct {
	payment *entity.Payment
	role    entity.UserRole
	policy  refund.PolicySet
	quote   *refund.Quote
}

// quote loads the payment, checks the caller may cancel it and evaluates the
// refund schedule for the caller's side of the booking.
func (s *cancellationService) quote(ctx context.Context, uow unitofwork.UnitOfWork, userId, paymentId uuid.UUID, reasonType string) (*cancellationQuote, error) {
	payment, err := uow.PaymentRepository().FindOne(ctx, specification.ByID{ID: paymentId})
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, apperror.NotFound("payment not found")
	}
	role, ok := payment.RoleOf(userId)
	if !ok {
		return nil, apperror.Forbidden("you are not part of this booking")
	}
	if payment.Status != entity.PaymentStatusPaid {
		return nil, apperror.Conflict("only paid bookings can be cancelled")
	}

	policy := s.policies.Policy(ctx, refund.Role(role))
	q, err := s.calculator.Calculate(refund.Input{
		Amount:     payment.Amount,
		EventStart: payment.TripStartDate,
		Role:       refund.Role(role),
		ReasonType: reasonType,
	}, policy.Bands)
	if err != nil {
		var vErr *refund.ValidationError
		if errors.As(err, &vErr) {
			return nil, apperror.Validation("invalid cancellation input", map[string]string{vErr.Field: vErr.Reason})
		}
		return nil, err
	}

	return &cancellationQuote{payment: payment, role: role, policy: policy, quote: q}, nil
}

func (s *cancellationService) Quote(ctx context.Context, userId uuid.UUID, req *dto.CancellationQuoteRequest) (*dto.CancellationQuoteResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	cq, err := s.quote(ctx, uow, userId, req.PaymentId, req.ReasonType)
	if err != nil {
		return nil, err
	}

	return &dto.CancellationQuoteResponse{
		PaymentId:         cq.payment.Id,
		PaymentAmount:     cq.payment.Amount,
		RequesterRole:     string(cq.role),
		DaysUntilStart:    cq.quote.DaysUntilStart,
		Percentage:        cq.quote.Percentage,
		RefundAmount:      cq.quote.RefundAmount,
		RefundAmountText:  utils.FormatPrice(cq.quote.RefundAmount, cq.payment.Currency),
		Basis:             string(cq.quote.Basis),
		NeedsReview:       cq.quote.NeedsReview,
		PolicyDescription: cq.quote.Description,
		PolicySource:      cq.policy.Source,
	}, nil
}

func (s *cancellationService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateCancellationRequest) (*dto.CancellationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	// 1. Quote against the current policy
	cq, err := s.quote(ctx, uow, userId, req.PaymentId, req.ReasonType)
	if err != nil {
		return nil, err
	}

	active, err := uow.CancellationRepository().ExistsActiveForPayment(ctx, cq.payment.Id)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, apperror.Conflict("a cancellation request already exists for this booking")
	}

	// 2. Persist the request and hold the payment
	cancellation := &entity.CancellationRequest{
		Id:                uuid.New(),
		PaymentId:         cq.payment.Id,
		RequesterId:       userId,
		RequesterRole:     cq.role,
		ReasonType:        req.ReasonType,
		ReasonDetail:      req.ReasonDetail,
		EventStartDate:    cq.payment.TripStartDate,
		PaymentAmount:     cq.payment.Amount,
		RefundPercentage:  cq.quote.Percentage,
		CalculatedRefund:  cq.quote.RefundAmount,
		PolicyDescription: cq.quote.Description,
		PolicyBasis:       string(cq.quote.Basis),
		NeedsReview:       cq.quote.NeedsReview,
		Status:            entity.CancellationStatusPending,
		RefundStatus:      entity.RefundExecutionNone,
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.CancellationRepository().Create(ctx, cancellation); err != nil {
		return nil, err
	}
	moved, err := uow.PaymentRepository().TransitionStatus(ctx, cq.payment.Id,
		[]entity.PaymentStatus{entity.PaymentStatusPaid}, entity.PaymentStatusRefundPending)
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, apperror.Conflict("booking changed while cancelling, please retry")
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}
	cancellation.CreatedAt = time.Now()

	s.logger.Info("CANCELLATION", "Cancellation requested", map[string]interface{}{
		"cancellationId": cancellation.Id.String(),
		"paymentId":      cq.payment.Id.String(),
		"role":           cq.role,
		"basis":          cancellation.PolicyBasis,
		"refund":         cancellation.CalculatedRefund,
	})

	// 3. Side effects after commit
	tripTitle := s.tripTitle(ctx, uow, cq.payment.TripId)
	s.publisher.CancellationRequested(ctx, events.CancellationInfo{
		CancellationID: cancellation.Id,
		PaymentID:      cq.payment.Id,
		RequesterID:    userId,
		RequesterRole:  string(cq.role),
		TripTitle:      tripTitle,
		Status:         string(cancellation.Status),
		RefundAmount:   cancellation.CalculatedRefund,
		Percentage:     cancellation.RefundPercentage,
		Currency:       cq.payment.Currency,
	})
	s.sendReceipt(ctx, uow, userId, cancellation, cq.payment, tripTitle)

	return adminMapper.CancellationToResponse(cancellation), nil
}

func (s *cancellationService) tripTitle(ctx context.Context, uow unitofwork.UnitOfWork, tripId uuid.UUID) string {
	trip, err := uow.TripRepository().FindOne(ctx, specification.ByID{ID: tripId})
	if err != nil || trip == nil {
		return ""
	}
	return trip.Title
}

func (s *cancellationService) sendReceipt(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, c *entity.CancellationRequest, p *entity.Payment, tripTitle string) {
	if s.emailService == nil {
		return
	}
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil || user == nil {
		return
	}
	mail := mailer.CancellationMail{
		FullName:          user.FullName,
		TripTitle:         tripTitle,
		StartDate:         utils.FormatDate(p.TripStartDate),
		Status:            string(c.Status),
		Percentage:        c.RefundPercentage,
		RefundAmount:      c.CalculatedRefund,
		Currency:          p.Currency,
		PolicyDescription: c.PolicyDescription,
		NeedsReview:       c.NeedsReview,
	}
	go func() {
		if err := s.emailService.SendCancellationReceipt(user.Email, mail); err != nil {
			s.logger.Error("CANCELLATION", "Failed to send cancellation receipt", map[string]interface{}{
				"cancellationId": c.Id.String(),
				"error":          err.Error(),
			})
		}
	}()
}

func (s *cancellationService) List(ctx context.Context, userId uuid.UUID, page, limit int) ([]*dto.CancellationResponse, int64, error) {
	_, limit, offset := serverutils.NormalizePage(page, limit)
	uow := s.uowFactory.NewUnitOfWork(ctx)

	filter := specification.ByRequester{UserID: userId}
	total, err := uow.CancellationRepository().Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	items, err := uow.CancellationRepository().FindAll(ctx, filter,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err != nil {
		return nil, 0, err
	}

	res := make([]*dto.CancellationResponse, 0, len(items))
	for _, c := range items {
		res = append(res, adminMapper.CancellationToResponse(c))
	}
	return res, total, nil
}

func (s *cancellationService) Get(ctx context.Context, userId uuid.UUID, role string, cancellationId uuid.UUID) (*dto.CancellationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	c, err := uow.CancellationRepository().FindOne(ctx, specification.ByID{ID: cancellationId})
	if err != nil {
		return nil, err
	}
	if c == nil || (c.RequesterId != userId && role != string(entity.UserRoleAdmin)) {
		return nil, apperror.NotFound("cancellation request not found")
	}
	return adminMapper.CancellationToResponse(c), nil
}
