// FILE: internal/service/auth_service.go
package service

import (
	"context"
	"strings"
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

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	LoginAdmin(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
}

type TokenConfig struct {
	Secret string
	TTL    time.Duration
}

type authService struct {
	uowFactory   unitofwork.RepositoryFactory
	emailService mailer.IEmailService
	tokens       TokenConfig
	logger       logger.ILogger
}

func NewAuthService(uowFactory unitofwork.RepositoryFactory, emailService mailer.IEmailService, tokens TokenConfig, log logger.ILogger) IAuthService {
	return &authService{
		uowFactory:   uowFactory,
		emailService: emailService,
		tokens:       tokens,
		logger:       log,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// issueAuth signs a token for user and builds the login response.
func issueAuth(tokens TokenConfig, user *entity.User) (*dto.AuthResponse, error) {
	token, err := serverutils.IssueToken(tokens.Secret, user.Id, string(user.Role), tokens.TTL)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &dto.AuthResponse{
		Token: token,
		User:  *adminMapper.UserToProfileResponse(user),
	}, nil
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	email := normalizeEmail(req.Email)

	// 1. Check for existing user
	existing, err := uow.UserRepository().FindOneUnscoped(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.Conflict("email already registered")
	}

	// 2. Hash password
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	hashStr := string(hash)

	// 3. Save user, phone is encrypted by the mapper
	now := time.Now()
	user := &entity.User{
		Id:           uuid.New(),
		Email:        email,
		FullName:     strings.TrimSpace(req.FullName),
		PasswordHash: &hashStr,
		Role:         entity.UserRole(req.Role),
		Status:       entity.UserStatusActive,
		Phone:        req.Phone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("AUTH", "User registered", map[string]interface{}{
		"userId": user.Id.String(),
		"role":   string(user.Role),
	})

	go func() {
		if err := s.emailService.SendWelcome(user.Email, user.FullName); err != nil {
			s.logger.Warn("AUTH", "Failed to send welcome email", map[string]interface{}{"error": err.Error()})
		}
	}()

	return issueAuth(s.tokens, user)
}

func (s *authService) authenticate(ctx context.Context, req *dto.LoginRequest) (*entity.User, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: normalizeEmail(req.Email)})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.Unauthorized("invalid credentials")
	}

	// OAuth-only accounts have no password
	if user.PasswordHash == nil {
		return nil, apperror.BadRequest("this account signs in with Google")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperror.Unauthorized("invalid credentials")
	}

	if !user.IsActive() {
		return nil, apperror.Forbidden("user account is blocked")
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.authenticate(ctx, req)
	if err != nil {
		return nil, err
	}
	return issueAuth(s.tokens, user)
}

func (s *authService) LoginAdmin(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.authenticate(ctx, req)
	if err != nil {
		return nil, err
	}
	if user.Role != entity.UserRoleAdmin {
		s.logger.Warn("AUTH", "Non-admin attempted admin login", map[string]interface{}{"userId": user.Id.String()})
		return nil, apperror.Forbidden("admin access required")
	}
	return issueAuth(s.tokens, user)
}
