// FILE: internal/service/offer_service.go
package service

import (
	"context"

	"matchtrip-be/internal/dto"
	"matchtrip-be/internal/entity"
	"matchtrip-be/internal/pkg/apperror"
	"matchtrip-be/internal/pkg/logger"
	"matchtrip-be/internal/repository/specification"
	"matchtrip-be/internal/repository/unitofwork"
	adminMapper "matchtrip-be/pkg/admin/mapper"
	"matchtrip-be/pkg/events"

	"github.com/google/uuid"
)

type IOfferService interface {
	Create(ctx context.Context, guideId, tripId uuid.UUID, req *dto.CreateOfferRequest) (*dto.OfferResponse, error)
	ListForTrip(ctx context.Context, userId uuid.UUID, role string, tripId uuid.UUID) ([]*dto.OfferResponse, error)
	Accept(ctx context.Context, userId, offerId uuid.UUID) (*dto.OfferResponse, error)
	Withdraw(ctx context.Context, guideId, offerId uuid.UUID) error
}

type offerService struct {
	uowFactory unitofwork.RepositoryFactory
	publisher  events.Publisher
	currency   string
	logger     logger.ILogger
}

func NewOfferService(uowFactory unitofwork.RepositoryFactory, publisher events.Publisher, currency string, log logger.ILogger) IOfferService {
	return &offerService{
		uowFactory: uowFactory,
		publisher:  publisher,
		currency:   currency,
		logger:     log,
	}
}

func (s *offerService) Create(ctx context.Context, guideId, tripId uuid.UUID, req *dto.CreateOfferRequest) (*dto.OfferResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	trip, err := findTrip(ctx, uow, tripId)
	if err != nil {
		return nil, err
	}
	if !trip.IsOpen() {
		return nil, apperror.Conflict("trip is no longer open")
	}
	if trip.UserId == guideId {
		return nil, apperror.BadRequest("cannot offer on your own trip")
	}

	// One pending offer per guide per trip
	existing, err := uow.OfferRepository().FindOne(ctx,
		specification.ByTrip{TripID: tripId},
		specification.ByGuide{GuideID: guideId},
		specification.ByStatus{Status: string(entity.OfferStatusPending)},
	)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.Conflict("you already have a pending offer on this trip")
	}

	itinerary, err := jsonColumn(req.Itinerary)
	if err != nil {
		return nil, err
	}

	offer := &entity.Offer{
		Id:        uuid.New(),
		TripId:    tripId,
		GuideId:   guideId,
		Price:     req.Price,
		Message:   req.Message,
		Itinerary: itinerary,
		Status:    entity.OfferStatusPending,
	}
	if err := uow.OfferRepository().Create(ctx, offer); err != nil {
		return nil, err
	}

	return adminMapper.OfferToResponse(offer, s.currency), nil
}

func (s *offerService) ListForTrip(ctx context.Context, userId uuid.UUID, role string, tripId uuid.UUID) ([]*dto.OfferResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	trip, err := findTrip(ctx, uow, tripId)
	if err != nil {
		return nil, err
	}

	specs := []specification.Specification{specification.ByTrip{TripID: tripId}}
	switch {
	case role == string(entity.UserRoleAdmin), trip.UserId == userId:
	case role == string(entity.UserRoleGuide):
		specs = append(specs, specification.ByGuide{GuideID: userId})
	default:
		return nil, apperror.Forbidden("not your trip")
	}
	specs = append(specs, specification.OrderBy{Field: "created_at", Desc: true})

	offers, err := uow.OfferRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}
	res := make([]*dto.OfferResponse, 0, len(offers))
	for _, o := range offers {
		res = append(res, adminMapper.OfferToResponse(o, s.currency))
	}
	return res, nil
}

func findOffer(ctx context.Context, uow unitofwork.UnitOfWork, offerId uuid.UUID) (*entity.Offer, error) {
	offer, err := uow.OfferRepository().FindOne(ctx, specification.ByID{ID: offerId})
	if err != nil {
		return nil, err
	}
	if offer == nil {
		return nil, apperror.NotFound("offer not found")
	}
	return offer, nil
}

// Accept matches the trip with the offer's guide and rejects every other
// pending offer.
func (s *offerService) Accept(ctx context.Context, userId, offerId uuid.UUID) (*dto.OfferResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	offer, err := findOffer(ctx, uow, offerId)
	if err != nil {
		return nil, err
	}
	trip, err := findTrip(ctx, uow, offer.TripId)
	if err != nil {
		return nil, err
	}
	if trip.UserId != userId {
		return nil, apperror.Forbidden("not your trip")
	}
	if !trip.IsOpen() {
		return nil, apperror.Conflict("trip is no longer open")
	}
	if offer.Status != entity.OfferStatusPending {
		return nil, apperror.Conflict("offer is not pending")
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	offer.Status = entity.OfferStatusAccepted
	if err := uow.OfferRepository().Update(ctx, offer); err != nil {
		return nil, err
	}
	rejected, err := uow.OfferRepository().RejectOthers(ctx, trip.Id, offer.Id)
	if err != nil {
		return nil, err
	}
	if err := uow.TripRepository().UpdateStatus(ctx, trip.Id, entity.TripStatusMatched); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("OFFER", "Offer accepted", map[string]interface{}{
		"offerId":  offer.Id.String(),
		"tripId":   trip.Id.String(),
		"rejected": rejected,
	})
	s.publisher.OfferAccepted(ctx, offer.Id, trip.Id, trip.UserId, offer.GuideId, trip.Title, offer.Price)

	return adminMapper.OfferToResponse(offer, s.currency), nil
}

func (s *offerService) Withdraw(ctx context.Context, guideId, offerId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	offer, err := findOffer(ctx, uow, offerId)
	if err != nil {
		return err
	}
	if offer.GuideId != guideId {
		return apperror.Forbidden("not your offer")
	}
	if offer.Status != entity.OfferStatusPending {
		return apperror.Conflict("only pending offers can be withdrawn")
	}
	offer.Status = entity.OfferStatusWithdrawn
	return uow.OfferRepository().Update(ctx, offer)
}
