// FILE: internal/service/payment_service.go
package service

import (
	"context"
	"strconv"
	"time"

	"matchtrip-be/internal/dto"
	"matchtrip-be/internal/entity"
	"matchtrip-be/internal/pkg/apperror"
	"matchtrip-be/internal/pkg/logger"
	"matchtrip-be/internal/pkg/serverutils"
	"matchtrip-be/internal/repository/specification"
	"matchtrip-be/internal/repository/unitofwork"
	adminMapper "matchtrip-be/pkg/admin/mapper"
	"matchtrip-be/pkg/events"
	"matchtrip-be/pkg/paymentgateway"
	"matchtrip-be/pkg/utils"

	"github.com/google/uuid"
)

type IPaymentService interface {
	Checkout(ctx context.Context, userId uuid.UUID, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error)
	HandleNotification(ctx context.Context, req *dto.MidtransNotificationRequest) error
	List(ctx context.Context, userId uuid.UUID, page, limit int) ([]*dto.PaymentResponse, int64, error)
	Get(ctx context.Context, userId uuid.UUID, role string, paymentId uuid.UUID) (*dto.PaymentResponse, error)
}

type paymentService struct {
	uowFactory unitofwork.RepositoryFactory
	gateway    paymentgateway.Gateway
	publisher  events.Publisher
	currency   string
	clientURL  string
	logger     logger.ILogger
	now        func() time.Time
}

func NewPaymentService(uowFactory unitofwork.RepositoryFactory, gateway paymentgateway.Gateway, publisher events.Publisher, currency, clientURL string, log logger.ILogger) IPaymentService {
	return &paymentService{
		uowFactory: uowFactory,
		gateway:    gateway,
		publisher:  publisher,
		currency:   currency,
		clientURL:  clientURL,
		logger:     log,
		now:        time.Now,
	}
}

func checkoutResponse(p *entity.Payment) *dto.CheckoutResponse {
	return &dto.CheckoutResponse{
		PaymentId:   p.Id,
		OrderId:     p.OrderId,
		Amount:      p.Amount,
		SnapToken:   p.SnapToken,
		RedirectURL: p.RedirectURL,
	}
}

// Checkout creates a pending payment for an accepted offer. A still pending
// payment for the same offer is returned as is.
func (s *paymentService) Checkout(ctx context.Context, userId uuid.UUID, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	// 1. Offer and trip checks
	offer, err := findOffer(ctx, uow, req.OfferId)
	if err != nil {
		return nil, err
	}
	if offer.Status != entity.OfferStatusAccepted {
		return nil, apperror.Conflict("offer has not been accepted")
	}
	trip, err := findTrip(ctx, uow, offer.TripId)
	if err != nil {
		return nil, err
	}
	if trip.UserId != userId {
		return nil, apperror.Forbidden("not your trip")
	}

	// 2. Reuse an open payment
	existing, err := uow.PaymentRepository().FindOne(ctx,
		specification.ByOffer{OfferID: offer.Id},
		specification.StatusIn{Statuses: []string{
			string(entity.PaymentStatusPending),
			string(entity.PaymentStatusPaid),
			string(entity.PaymentStatusRefundPending),
		}},
	)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.Status != entity.PaymentStatusPending {
			return nil, apperror.Conflict("offer already paid")
		}
		return checkoutResponse(existing), nil
	}

	traveler, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if traveler == nil {
		return nil, apperror.NotFound("user not found")
	}

	// 3. Persist, then ask the gateway for a snap token
	payment := &entity.Payment{
		Id:            uuid.New(),
		OrderId:       utils.NewOrderID(s.now()),
		TripId:        trip.Id,
		OfferId:       offer.Id,
		TravelerId:    userId,
		GuideId:       offer.GuideId,
		Amount:        offer.Price,
		Currency:      s.currency,
		Status:        entity.PaymentStatusPending,
		TripStartDate: trip.StartDate,
	}
	if err := uow.PaymentRepository().Create(ctx, payment); err != nil {
		return nil, err
	}

	checkout, err := s.gateway.CreateCheckout(ctx, paymentgateway.CheckoutRequest{
		OrderID:      payment.OrderId,
		Amount:       payment.Amount,
		ItemID:       offer.Id.String(),
		ItemName:     trip.Title,
		CustomerName: traveler.FullName,
		Email:        traveler.Email,
		FinishURL:    s.clientURL + "/payments/" + payment.Id.String(),
	})
	if err != nil {
		payment.Status = entity.PaymentStatusFailed
		if uerr := uow.PaymentRepository().Update(ctx, payment); uerr != nil {
			s.logger.Error("PAYMENT", "Failed to mark payment failed", map[string]interface{}{"error": uerr.Error()})
		}
		return nil, apperror.Upstream("payment gateway unavailable", err)
	}

	payment.SnapToken = checkout.Token
	payment.RedirectURL = checkout.RedirectURL
	if err := uow.PaymentRepository().Update(ctx, payment); err != nil {
		return nil, err
	}

	s.logger.Info("PAYMENT", "Checkout created", map[string]interface{}{
		"paymentId": payment.Id.String(),
		"orderId":   payment.OrderId,
		"amount":    payment.Amount,
	})
	return checkoutResponse(payment), nil
}

// HandleNotification applies a Midtrans webhook. Replays and out-of-order
// notifications leave the payment untouched.
func (s *paymentService) HandleNotification(ctx context.Context, req *dto.MidtransNotificationRequest) error {
	if !s.gateway.VerifySignature(req.OrderId, req.StatusCode, req.GrossAmount, req.SignatureKey) {
		s.logger.Warn("PAYMENT", "Rejected notification with bad signature", map[string]interface{}{"orderId": req.OrderId})
		return apperror.Forbidden("invalid signature")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	payment, err := uow.PaymentRepository().FindOne(ctx, specification.ByOrderID{OrderID: req.OrderId})
	if err != nil {
		return err
	}
	if payment == nil {
		return apperror.NotFound("payment not found")
	}

	if gross, err := strconv.ParseFloat(req.GrossAmount, 64); err != nil || int64(gross) != payment.Amount {
		s.logger.Warn("PAYMENT", "Notification amount mismatch", map[string]interface{}{
			"orderId":  req.OrderId,
			"expected": payment.Amount,
			"got":      req.GrossAmount,
		})
		return apperror.BadRequest("gross amount mismatch")
	}

	switch paymentgateway.MapTransactionStatus(req.TransactionStatus, req.FraudStatus) {
	case paymentgateway.OutcomePaid:
		applied, err := uow.PaymentRepository().MarkPaid(ctx, payment.Id, s.now())
		if err != nil {
			return err
		}
		if !applied {
			return nil
		}
		s.logger.Info("PAYMENT", "Payment settled", map[string]interface{}{"orderId": req.OrderId})
		s.publisher.PaymentPaid(ctx, payment.Id, payment.TravelerId, payment.GuideId, payment.OrderId, payment.Amount, payment.Currency)

	case paymentgateway.OutcomeFailed:
		applied, err := uow.PaymentRepository().TransitionStatus(ctx, payment.Id,
			[]entity.PaymentStatus{entity.PaymentStatusPending}, entity.PaymentStatusFailed)
		if err != nil {
			return err
		}
		if applied {
			s.logger.Info("PAYMENT", "Payment failed", map[string]interface{}{
				"orderId": req.OrderId,
				"status":  req.TransactionStatus,
			})
		}
	}
	return nil
}

func (s *paymentService) List(ctx context.Context, userId uuid.UUID, page, limit int) ([]*dto.PaymentResponse, int64, error) {
	_, limit, offset := serverutils.NormalizePage(page, limit)
	uow := s.uowFactory.NewUnitOfWork(ctx)

	filter := specification.PaymentParticipant{UserID: userId}
	total, err := uow.PaymentRepository().Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	payments, err := uow.PaymentRepository().FindAll(ctx, filter,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err != nil {
		return nil, 0, err
	}

	res := make([]*dto.PaymentResponse, 0, len(payments))
	for _, p := range payments {
		res = append(res, adminMapper.PaymentToResponse(p))
	}
	return res, total, nil
}

func (s *paymentService) Get(ctx context.Context, userId uuid.UUID, role string, paymentId uuid.UUID) (*dto.PaymentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	payment, err := uow.PaymentRepository().FindOne(ctx, specification.ByID{ID: paymentId})
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, apperror.NotFound("payment not found")
	}
	if _, ok := payment.RoleOf(userId); !ok && role != string(entity.UserRoleAdmin) {
		return nil, apperror.NotFound("payment not found")
	}
	return adminMapper.PaymentToResponse(payment), nil
}
