// FILE: internal/service/oauth_service.go
package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"matchtrip-be/internal/config"
	"matchtrip-be/internal/dto"
	"matchtrip-be/internal/entity"
	"matchtrip-be/internal/pkg/apperror"
	"matchtrip-be/internal/pkg/logger"
	"matchtrip-be/internal/repository/specification"
	"matchtrip-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

type IOAuthService interface {
	// GetLoginURL returns the consent URL. role applies only when the callback
	// creates a new account.
	GetLoginURL(provider, role string) (string, error)
	HandleCallback(ctx context.Context, provider, state, code string) (*dto.AuthResponse, error)
}

type oauthService struct {
	uowFactory unitofwork.RepositoryFactory
	googleConf *oauth2.Config
	states     *cache.Cache
	tokens     TokenConfig
	logger     logger.ILogger
}

func NewOAuthService(uowFactory unitofwork.RepositoryFactory, cfg config.OAuthConfig, tokens TokenConfig, log logger.ILogger) IOAuthService {
	conf := &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}

	return &oauthService{
		uowFactory: uowFactory,
		googleConf: conf,
		states:     cache.New(10*time.Minute, 20*time.Minute),
		tokens:     tokens,
		logger:     log,
	}
}

func (s *oauthService) GetLoginURL(provider, role string) (string, error) {
	if provider != "google" {
		return "", apperror.BadRequest("unsupported provider")
	}
	if role != string(entity.UserRoleGuide) {
		role = string(entity.UserRoleTraveler)
	}

	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	state := base64.RawURLEncoding.EncodeToString(b)
	s.states.SetDefault(state, role)

	return s.googleConf.AuthCodeURL(state), nil
}

func (s *oauthService) HandleCallback(ctx context.Context, provider, state, code string) (*dto.AuthResponse, error) {
	if provider != "google" {
		return nil, apperror.BadRequest("unsupported provider")
	}
	roleVal, ok := s.states.Get(state)
	if !ok {
		return nil, apperror.BadRequest("invalid or expired oauth state")
	}
	s.states.Delete(state)
	role := entity.UserRole(roleVal.(string))

	// 1. Exchange code and fetch the profile
	token, err := s.googleConf.Exchange(ctx, code)
	if err != nil {
		return nil, apperror.Upstream("code exchange failed", err)
	}
	resp, err := s.googleConf.Client(ctx, token).Get(googleUserInfoURL)
	if err != nil {
		return nil, apperror.Upstream("failed getting user info", err)
	}
	defer resp.Body.Close()

	var info dto.GoogleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, apperror.Upstream("failed to parse user info", err)
	}
	if info.Sub == "" || info.Email == "" {
		return nil, apperror.Upstream("incomplete google profile", fmt.Errorf("sub=%q email=%q", info.Sub, info.Email))
	}

	// 2. Resolve the local account
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindByProvider(ctx, provider, info.Sub)
	if err != nil {
		return nil, err
	}

	if user == nil {
		if err := uow.Begin(ctx); err != nil {
			return nil, err
		}
		defer uow.Rollback()

		user, err = uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: normalizeEmail(info.Email)})
		if err != nil {
			return nil, err
		}
		if user == nil {
			now := time.Now()
			avatar := info.Picture
			user = &entity.User{
				Id:        uuid.New(),
				Email:     normalizeEmail(info.Email),
				FullName:  info.Name,
				Role:      role,
				Status:    entity.UserStatusActive,
				AvatarURL: &avatar,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := uow.UserRepository().Create(ctx, user); err != nil {
				return nil, err
			}
			s.logger.Info("OAUTH", "Created user from google sign-in", map[string]interface{}{"userId": user.Id.String()})
		}

		if err := uow.UserRepository().SaveUserProvider(ctx, &entity.UserProvider{
			UserId:         user.Id,
			ProviderName:   provider,
			ProviderUserId: info.Sub,
			AvatarURL:      info.Picture,
		}); err != nil {
			return nil, err
		}

		if err := uow.Commit(); err != nil {
			return nil, err
		}
	}

	if !user.IsActive() {
		return nil, apperror.Forbidden("user account is blocked")
	}
	return issueAuth(s.tokens, user)
}
