package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/profilekeeper/internal/common"
	"github.com/dmitrijs2005/profilekeeper/internal/logging"
	"github.com/dmitrijs2005/profilekeeper/internal/models"
)

// AuthService is the only component that mints sessions.
//
// Contract:
//   - Login: validate input, resolve the credentials against the source,
//     issue a fresh token and write the session through to the store.
//   - Logout: clear the stored session. Idempotent.
//   - Register: validate input and create an account. Does not log in.
//   - Resume: hand a restored session token back to the source.
//
// All methods honor context cancellation.
type AuthService interface {
	Login(ctx context.Context, username, password string) (models.User, string, error)
	Logout(ctx context.Context) error
	Register(ctx context.Context, reg models.Registration) (models.User, error)
	Resume(token string)
}

type authService struct {
	source UserSource
	store  SessionStore
	delay  time.Duration
	log    logging.Logger
	now    func() time.Time
}

// NewAuthService wires the service. delay simulates lookup latency and is
// only meant for the local directory; pass 0 for remote sources.
func NewAuthService(source UserSource, store SessionStore, delay time.Duration, log logging.Logger) AuthService {
	if log == nil {
		log = logging.Nop()
	}
	return &authService{
		source: source,
		store:  store,
		delay:  delay,
		log:    log.With("module", "auth"),
		now:    time.Now,
	}
}

// Login returns the user and the token written to the session store. When
// ctx is cancelled before the session is saved, nothing is written.
func (a *authService) Login(ctx context.Context, username, password string) (models.User, string, error) {
	if err := models.ValidateCredentials(username, password); err != nil {
		return models.User{}, "", err
	}

	if err := a.wait(ctx); err != nil {
		return models.User{}, "", err
	}

	// A remote source swaps in the new backend token during the lookup. It
	// is put back unless the session is saved.
	committed := false
	if tb, ok := a.source.(TokenBearer); ok {
		previous := tb.AccessToken()
		defer func() {
			if !committed {
				tb.SetAccessToken(previous)
			}
		}()
	}

	user, err := a.source.FindByCredentials(ctx, username, password)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrAuthenticationFailed) {
			a.log.Info(ctx, "login rejected", "username", username)
			return models.User{}, "", common.ErrAuthenticationFailed
		}
		a.log.Error(ctx, "login failed", "username", username, "error", err)
		return models.User{}, "", err
	}

	token, err := a.issueToken(user)
	if err != nil {
		a.log.Error(ctx, "token generation failed", "username", username, "error", err)
		return models.User{}, "", err
	}

	if err := ctx.Err(); err != nil {
		return models.User{}, "", err
	}
	if err := a.store.Save(ctx, user, token); err != nil {
		a.log.Error(ctx, "saving session failed", "username", username, "error", err)
		return models.User{}, "", fmt.Errorf("save session: %w", err)
	}
	committed = true

	a.log.Info(ctx, "login succeeded", "username", username, "user_id", user.ID)
	return user, token, nil
}

func (a *authService) Logout(ctx context.Context) error {
	if tb, ok := a.source.(TokenBearer); ok {
		tb.SetAccessToken("")
	}
	if err := a.store.Clear(ctx); err != nil {
		a.log.Error(ctx, "clearing session failed", "error", err)
		return err
	}
	a.log.Info(ctx, "logged out")
	return nil
}

func (a *authService) Register(ctx context.Context, reg models.Registration) (models.User, error) {
	if err := models.ValidateCredentials(reg.Username, reg.Password); err != nil {
		return models.User{}, err
	}

	user, err := a.source.Register(ctx, reg)
	if err != nil {
		if errors.Is(err, common.ErrDuplicateUsername) {
			a.log.Info(ctx, "registration rejected, username taken", "username", reg.Username)
		} else {
			a.log.Error(ctx, "registration failed", "username", reg.Username, "error", err)
		}
		return models.User{}, err
	}

	a.log.Info(ctx, "user registered", "username", user.Username, "user_id", user.ID)
	return user, nil
}

func (a *authService) Resume(token string) {
	if tb, ok := a.source.(TokenBearer); ok {
		tb.SetAccessToken(token)
	}
}

// wait simulates network latency. It returns early with ctx.Err().
func (a *authService) wait(ctx context.Context) error {
	if a.delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(a.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// issueToken prefers the backend access token of remote sources; otherwise
// it builds session_<user id>_<unix millis>_<random hex>.
func (a *authService) issueToken(user models.User) (string, error) {
	if tb, ok := a.source.(TokenBearer); ok {
		if t := tb.AccessToken(); t != "" {
			return t, nil
		}
	}
	suffix, err := common.MakeRandHexString(8)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("session_%s_%d_%s", user.ID, a.now().UnixMilli(), suffix), nil
}
