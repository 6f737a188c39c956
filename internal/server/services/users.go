// Package services holds the backend business logic.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/profilekeeper/internal/common"
	"github.com/dmitrijs2005/profilekeeper/internal/directory"
	"github.com/dmitrijs2005/profilekeeper/internal/logging"
	"github.com/dmitrijs2005/profilekeeper/internal/models"
	"github.com/dmitrijs2005/profilekeeper/internal/server/auth"
	"github.com/dmitrijs2005/profilekeeper/internal/server/config"
)

// LoginResult is a successful login: the user and their access token.
type LoginResult struct {
	User        models.User
	AccessToken string
}

// UserService authenticates against the directory and serves profiles.
type UserService struct {
	source                      *directory.Source
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	logger                      logging.Logger
}

func NewUserService(dir *directory.Directory, cfg *config.Config, logger logging.Logger) *UserService {
	if logger == nil {
		logger = logging.Nop()
	}
	return &UserService{
		source:                      directory.NewSource(dir),
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		logger:                      logger.With("module", "user_service"),
	}
}

// Login validates the input, checks the credentials and issues an access token.
func (s *UserService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if err := models.ValidateCredentials(username, password); err != nil {
		return nil, err
	}

	user, err := s.source.FindByCredentials(ctx, username, password)
	if err != nil {
		if errors.Is(err, common.ErrAuthenticationFailed) {
			s.logger.Info(ctx, "login rejected", "username", username)
		}
		return nil, err
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		s.logger.Error(ctx, "token generation failed", "error", err)
		return nil, common.ErrorInternal
	}

	s.logger.Info(ctx, "login succeeded", "username", username, "user_id", user.ID)
	return &LoginResult{User: user, AccessToken: token}, nil
}

func (s *UserService) Register(ctx context.Context, reg models.Registration) (models.User, error) {
	if err := models.ValidateCredentials(reg.Username, reg.Password); err != nil {
		return models.User{}, err
	}
	user, err := s.source.Register(ctx, reg)
	if err != nil {
		return models.User{}, err
	}
	s.logger.Info(ctx, "user registered", "username", user.Username, "user_id", user.ID)
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (models.User, error) {
	if err := models.ValidateUserID(id); err != nil {
		return models.User{}, err
	}
	return s.source.FindByID(ctx, id)
}

// UpdateProfile replaces the profile of callerID. The id inside user must be
// the caller's own.
func (s *UserService) UpdateProfile(ctx context.Context, callerID string, user models.User) (models.User, error) {
	if user.ID == "" {
		user.ID = callerID
	}
	if user.ID != callerID {
		return models.User{}, common.ErrUnauthorized
	}
	updated, err := s.source.UpdateUser(ctx, user)
	if err != nil {
		return models.User{}, err
	}
	s.logger.Info(ctx, "profile updated", "user_id", callerID)
	return updated, nil
}

// Authenticate resolves an access token to the id of an existing user.
func (s *UserService) Authenticate(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", common.ErrUnauthorized
	}
	userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
	if err != nil {
		return "", err
	}
	if _, err := s.source.FindByID(ctx, userID); err != nil {
		return "", common.ErrInvalidToken
	}
	return userID, nil
}
