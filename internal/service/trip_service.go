// FILE: internal/service/trip_service.go
package service

import (
	"context"
	"encoding/json"
	"mime/multipart"
	"time"

	"matchtrip-be/internal/dto"
	"matchtrip-be/internal/entity"
	"matchtrip-be/internal/pkg/apperror"
	"matchtrip-be/internal/pkg/logger"
	"matchtrip-be/internal/pkg/serverutils"
	"matchtrip-be/internal/pkg/storage"
	"matchtrip-be/internal/repository/specification"
	"matchtrip-be/internal/repository/unitofwork"
	adminMapper "matchtrip-be/pkg/admin/mapper"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ITripService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateTripRequest) (*dto.TripResponse, error)
	List(ctx context.Context, userId uuid.UUID, role string, query dto.TripListQuery) ([]*dto.TripResponse, int64, error)
	Get(ctx context.Context, tripId uuid.UUID) (*dto.TripResponse, error)
	Update(ctx context.Context, userId, tripId uuid.UUID, req *dto.UpdateTripRequest) (*dto.TripResponse, error)
	Close(ctx context.Context, userId, tripId uuid.UUID) error
	AddPhoto(ctx context.Context, userId, tripId uuid.UUID, file *multipart.FileHeader) (string, error)
}

type tripService struct {
	uowFactory    unitofwork.RepositoryFactory
	storage       storage.Storage
	maxUploadSize int64
	logger        logger.ILogger
	now           func() time.Time
}

func NewTripService(uowFactory unitofwork.RepositoryFactory, store storage.Storage, maxUploadSize int64, log logger.ILogger) ITripService {
	return &tripService{
		uowFactory:    uowFactory,
		storage:       store,
		maxUploadSize: maxUploadSize,
		logger:        log,
		now:           time.Now,
	}
}

func jsonColumn(raw json.RawMessage) (datatypes.JSON, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	if !json.Valid(raw) {
		return nil, apperror.BadRequest("invalid json payload")
	}
	return datatypes.JSON(raw), nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func (s *tripService) validateDates(start, end time.Time) error {
	if !start.Before(end) {
		return apperror.Validation("invalid trip dates", map[string]string{"end_date": "must be after start_date"})
	}
	if start.Before(startOfDay(s.now())) {
		return apperror.Validation("invalid trip dates", map[string]string{"start_date": "must not be in the past"})
	}
	return nil
}

func (s *tripService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateTripRequest) (*dto.TripResponse, error) {
	if err := s.validateDates(req.StartDate, req.EndDate); err != nil {
		return nil, err
	}
	prefs, err := jsonColumn(req.Preferences)
	if err != nil {
		return nil, err
	}

	trip := &entity.Trip{
		Id:          uuid.New(),
		UserId:      userId,
		Title:       req.Title,
		Destination: req.Destination,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Travelers:   req.Travelers,
		Budget:      req.Budget,
		Preferences: prefs,
		Status:      entity.TripStatusOpen,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.TripRepository().Create(ctx, trip); err != nil {
		return nil, err
	}

	s.logger.Info("TRIP", "Trip created", map[string]interface{}{
		"tripId":      trip.Id.String(),
		"destination": trip.Destination,
	})
	return adminMapper.TripToResponse(trip), nil
}

// List shows travelers their own trips, guides the open upcoming trips and
// admins everything.
func (s *tripService) List(ctx context.Context, userId uuid.UUID, role string, query dto.TripListQuery) ([]*dto.TripResponse, int64, error) {
	_, limit, offset := serverutils.NormalizePage(query.Page, query.Limit)

	var filters []specification.Specification
	switch entity.UserRole(role) {
	case entity.UserRoleTraveler:
		filters = append(filters, specification.UserOwnedBy{UserID: userId})
		if query.Status != "" {
			filters = append(filters, specification.ByStatus{Status: query.Status})
		}
	case entity.UserRoleGuide:
		filters = append(filters,
			specification.ByStatus{Status: string(entity.TripStatusOpen)},
			specification.StartingAfter{T: s.now()},
		)
	default:
		if query.Status != "" {
			filters = append(filters, specification.ByStatus{Status: query.Status})
		}
	}
	filters = append(filters, specification.DestinationLike{Query: query.Destination})

	uow := s.uowFactory.NewUnitOfWork(ctx)
	total, err := uow.TripRepository().Count(ctx, filters...)
	if err != nil {
		return nil, 0, err
	}

	trips, err := uow.TripRepository().FindAll(ctx, append(filters,
		specification.OrderBy{Field: "start_date", Desc: false},
		specification.Pagination{Limit: limit, Offset: offset},
	)...)
	if err != nil {
		return nil, 0, err
	}

	res := make([]*dto.TripResponse, 0, len(trips))
	for _, t := range trips {
		res = append(res, adminMapper.TripToResponse(t))
	}
	return res, total, nil
}

func findTrip(ctx context.Context, uow unitofwork.UnitOfWork, tripId uuid.UUID) (*entity.Trip, error) {
	trip, err := uow.TripRepository().FindOne(ctx, specification.ByID{ID: tripId})
	if err != nil {
		return nil, err
	}
	if trip == nil {
		return nil, apperror.NotFound("trip not found")
	}
	return trip, nil
}

func (s *tripService) Get(ctx context.Context, tripId uuid.UUID) (*dto.TripResponse, error) {
	trip, err := findTrip(ctx, s.uowFactory.NewUnitOfWork(ctx), tripId)
	if err != nil {
		return nil, err
	}
	return adminMapper.TripToResponse(trip), nil
}

func (s *tripService) ownedOpenTrip(ctx context.Context, uow unitofwork.UnitOfWork, userId, tripId uuid.UUID) (*entity.Trip, error) {
	trip, err := findTrip(ctx, uow, tripId)
	if err != nil {
		return nil, err
	}
	if trip.UserId != userId {
		return nil, apperror.Forbidden("not your trip")
	}
	if !trip.IsOpen() {
		return nil, apperror.Conflict("trip is no longer open")
	}
	return trip, nil
}

func (s *tripService) Update(ctx context.Context, userId, tripId uuid.UUID, req *dto.UpdateTripRequest) (*dto.TripResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	trip, err := s.ownedOpenTrip(ctx, uow, userId, tripId)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		trip.Title = *req.Title
	}
	if req.Destination != nil {
		trip.Destination = *req.Destination
	}
	if req.StartDate != nil {
		trip.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		trip.EndDate = *req.EndDate
	}
	if req.Travelers != nil {
		trip.Travelers = *req.Travelers
	}
	if req.Budget != nil {
		trip.Budget = *req.Budget
	}
	if req.Preferences != nil {
		prefs, err := jsonColumn(req.Preferences)
		if err != nil {
			return nil, err
		}
		trip.Preferences = prefs
	}
	if req.StartDate != nil || req.EndDate != nil {
		if err := s.validateDates(trip.StartDate, trip.EndDate); err != nil {
			return nil, err
		}
	}

	if err := uow.TripRepository().Update(ctx, trip); err != nil {
		return nil, err
	}
	return adminMapper.TripToResponse(trip), nil
}

func (s *tripService) Close(ctx context.Context, userId, tripId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := s.ownedOpenTrip(ctx, uow, userId, tripId); err != nil {
		return err
	}
	return uow.TripRepository().UpdateStatus(ctx, tripId, entity.TripStatusClosed)
}

func (s *tripService) AddPhoto(ctx context.Context, userId, tripId uuid.UUID, file *multipart.FileHeader) (string, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	trip, err := findTrip(ctx, uow, tripId)
	if err != nil {
		return "", err
	}
	if trip.UserId != userId {
		return "", apperror.Forbidden("not your trip")
	}

	url, err := storage.UploadImage(ctx, s.storage, "trips/"+tripId.String(), file, s.maxUploadSize)
	if err != nil {
		return "", err
	}
	if err := uow.TripRepository().AddPhoto(ctx, &entity.TripPhoto{TripId: tripId, URL: url}); err != nil {
		return "", err
	}
	return url, nil
}
