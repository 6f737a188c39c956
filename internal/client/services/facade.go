package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/profilekeeper/internal/common"
	"github.com/dmitrijs2005/profilekeeper/internal/logging"
	"github.com/dmitrijs2005/profilekeeper/internal/models"
)

// Facade is the only surface the presentation layer calls. It caches the
// session in memory and falls back to the store on a cache miss.
type Facade struct {
	auth  AuthService
	store SessionStore
	log   logging.Logger

	mu    sync.Mutex
	user  *models.User
	token string
}

func NewFacade(auth AuthService, store SessionStore, log logging.Logger) *Facade {
	if log == nil {
		log = logging.Nop()
	}
	return &Facade{auth: auth, store: store, log: log.With("module", "facade")}
}

// CurrentUser never fails; store errors are logged and reported as no user.
func (f *Facade) CurrentUser(ctx context.Context) (models.User, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.restoreLocked(ctx) {
		return models.User{}, false
	}
	return *f.user, true
}

func (f *Facade) CurrentToken(ctx context.Context) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.restoreLocked(ctx) {
		return "", false
	}
	return f.token, true
}

func (f *Facade) IsLoggedIn(ctx context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.restoreLocked(ctx)
}

// Login errors are returned unchanged.
func (f *Facade) Login(ctx context.Context, username, password string) (models.User, error) {
	if f.IsLoggedIn(ctx) {
		f.log.Info(ctx, "replacing active session", "username", username)
	}

	user, token, err := f.auth.Login(ctx, username, password)
	if err != nil {
		return models.User{}, err
	}

	f.mu.Lock()
	f.user, f.token = &user, token
	f.mu.Unlock()
	return user, nil
}

func (f *Facade) Logout(ctx context.Context) error {
	err := f.auth.Logout(ctx)

	f.mu.Lock()
	f.user, f.token = nil, ""
	f.mu.Unlock()
	return err
}

// Register creates an account without logging in.
func (f *Facade) Register(ctx context.Context, reg models.Registration) (models.User, error) {
	return f.auth.Register(ctx, reg)
}

// UpdateCurrentUser writes user through to the store. It is a no-op when
// nobody is logged in and rejects a user other than the logged-in one.
func (f *Facade) UpdateCurrentUser(ctx context.Context, user models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.restoreLocked(ctx) {
		f.log.Debug(ctx, "profile update ignored, not logged in")
		return nil
	}
	if user.ID != f.user.ID {
		return fmt.Errorf("%w: user does not belong to the active session", common.ErrInvalidInput)
	}
	if err := f.store.UpdateUser(ctx, user); err != nil {
		return err
	}
	f.user = &user
	return nil
}

// restoreLocked fills the cache from the store and reports whether a
// session is active. f.mu must be held.
func (f *Facade) restoreLocked(ctx context.Context) bool {
	if f.user != nil {
		return true
	}

	sess, err := f.store.Load(ctx)
	if err != nil {
		f.log.Error(ctx, "loading session failed", "error", err)
		return false
	}
	if sess == nil || !sess.LoggedIn {
		return false
	}

	user := sess.User
	f.user, f.token = &user, sess.Token
	f.auth.Resume(sess.Token)
	f.log.Debug(ctx, "session restored", "user_id", sess.UserID)
	return true
}
