// FILE: internal/service/review_service.go
package service

import (
	"context"
	"time"

	"matchtrip-be/internal/dto"
	"matchtrip-be/internal/entity"
	"matchtrip-be/internal/pkg/apperror"
	"matchtrip-be/internal/pkg/logger"
	"matchtrip-be/internal/pkg/serverutils"
	"matchtrip-be/internal/repository/specification"
	"matchtrip-be/internal/repository/unitofwork"
	adminMapper "matchtrip-be/pkg/admin/mapper"

	"github.com/google/uuid"
)

type IReviewService interface {
	Create(ctx context.Context, travelerId, tripId uuid.UUID, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error)
	ForGuide(ctx context.Context, guideId uuid.UUID, page, limit int) (*dto.GuideReviewsResponse, error)
}

type reviewService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
	now        func() time.Time
}

func NewReviewService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) IReviewService {
	return &reviewService{uowFactory: uowFactory, logger: log, now: time.Now}
}

func (s *reviewService) Create(ctx context.Context, travelerId, tripId uuid.UUID, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	trip, err := findTrip(ctx, uow, tripId)
	if err != nil {
		return nil, err
	}
	if trip.UserId != travelerId {
		return nil, apperror.Forbidden("only the traveler can review this trip")
	}
	if trip.Status != entity.TripStatusMatched && trip.Status != entity.TripStatusCompleted {
		return nil, apperror.Conflict("trip has no matched guide")
	}
	if s.now().Before(trip.EndDate) {
		return nil, apperror.Conflict("trip has not ended yet")
	}

	offer, err := uow.OfferRepository().FindOne(ctx,
		specification.ByTrip{TripID: tripId},
		specification.ByStatus{Status: string(entity.OfferStatusAccepted)},
	)
	if err != nil {
		return nil, err
	}
	if offer == nil {
		return nil, apperror.Conflict("trip has no matched guide")
	}

	existing, err := uow.ReviewRepository().FindOne(ctx, specification.ByTrip{TripID: tripId})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.Conflict("trip already reviewed")
	}

	review := &entity.Review{
		Id:         uuid.New(),
		TripId:     tripId,
		TravelerId: travelerId,
		GuideId:    offer.GuideId,
		Rating:     req.Rating,
		Comment:    req.Comment,
		CreatedAt:  s.now(),
	}
	if err := uow.ReviewRepository().Create(ctx, review); err != nil {
		return nil, err
	}

	s.logger.Info("REVIEW", "Review created", map[string]interface{}{
		"tripId":  tripId.String(),
		"guideId": offer.GuideId.String(),
		"rating":  req.Rating,
	})
	res := adminMapper.ReviewToResponse(review)
	return &res, nil
}

func (s *reviewService) ForGuide(ctx context.Context, guideId uuid.UUID, page, limit int) (*dto.GuideReviewsResponse, error) {
	_, limit, offset := serverutils.NormalizePage(page, limit)
	uow := s.uowFactory.NewUnitOfWork(ctx)

	rating, err := uow.ReviewRepository().RatingForGuide(ctx, guideId)
	if err != nil {
		return nil, err
	}
	reviews, err := uow.ReviewRepository().FindAll(ctx,
		specification.ByGuide{GuideID: guideId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err != nil {
		return nil, err
	}

	res := &dto.GuideReviewsResponse{
		GuideId: guideId,
		Average: rating.Average,
		Count:   rating.Count,
		Reviews: make([]dto.ReviewResponse, 0, len(reviews)),
	}
	for _, r := range reviews {
		res.Reviews = append(res.Reviews, adminMapper.ReviewToResponse(r))
	}
	return res, nil
}
