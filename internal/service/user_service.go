// FILE: internal/service/user_service.go
package service

import (
	"context"
	"mime/multipart"
	"strings"

	"matchtrip-be/internal/dto"
	"matchtrip-be/internal/entity"
	"matchtrip-be/internal/pkg/apperror"
	"matchtrip-be/internal/pkg/logger"
	"matchtrip-be/internal/pkg/storage"
	"matchtrip-be/internal/repository/specification"
	"matchtrip-be/internal/repository/unitofwork"
	adminMapper "matchtrip-be/pkg/admin/mapper"

	"github.com/google/uuid"
)

type IUserService interface {
	GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error)
	UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserProfileResponse, error)
	UploadAvatar(ctx context.Context, userId uuid.UUID, file *multipart.FileHeader) (string, error)
	GetPublicProfile(ctx context.Context, userId uuid.UUID) (*dto.PublicUserResponse, error)
}

type userService struct {
	uowFactory    unitofwork.RepositoryFactory
	storage       storage.Storage
	maxUploadSize int64
	logger        logger.ILogger
}

func NewUserService(uowFactory unitofwork.RepositoryFactory, store storage.Storage, maxUploadSize int64, log logger.ILogger) IUserService {
	return &userService{
		uowFactory:    uowFactory,
		storage:       store,
		maxUploadSize: maxUploadSize,
		logger:        log,
	}
}

func (s *userService) find(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) (*entity.User, error) {
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("user not found")
	}
	return user, nil
}

func (s *userService) GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error) {
	user, err := s.find(ctx, s.uowFactory.NewUnitOfWork(ctx), userId)
	if err != nil {
		return nil, err
	}
	return adminMapper.UserToProfileResponse(user), nil
}

func (s *userService) UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := s.find(ctx, uow, userId)
	if err != nil {
		return nil, err
	}

	if req.PayoutAccount != nil && !user.IsGuide() {
		return nil, apperror.BadRequest("only guides have a payout account")
	}

	if req.FullName != nil {
		user.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.PayoutAccount != nil {
		user.PayoutAccount = req.PayoutAccount
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}

	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, err
	}
	return adminMapper.UserToProfileResponse(user), nil
}

func (s *userService) UploadAvatar(ctx context.Context, userId uuid.UUID, file *multipart.FileHeader) (string, error) {
	url, err := storage.UploadImage(ctx, s.storage, "avatars", file, s.maxUploadSize)
	if err != nil {
		return "", err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.UserRepository().UpdateAvatar(ctx, userId, url); err != nil {
		return "", err
	}

	s.logger.Info("USER", "Avatar updated", map[string]interface{}{"userId": userId.String()})
	return url, nil
}

func (s *userService) GetPublicProfile(ctx context.Context, userId uuid.UUID) (*dto.PublicUserResponse, error) {
	user, err := s.find(ctx, s.uowFactory.NewUnitOfWork(ctx), userId)
	if err != nil {
		return nil, err
	}
	return adminMapper.UserToPublicResponse(user), nil
}
