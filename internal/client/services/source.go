// Package services contains the application services of the ProfileKeeper
// client: authentication, the session facade used by the presentation layer,
// profile details and settings.
package services

import (
	"context"

	"github.com/dmitrijs2005/profilekeeper/internal/models"
)

// UserSource resolves credentials and user records. The in-memory directory
// and the remote HTTP and gRPC clients implement it.
//
// FindByCredentials fails with common.ErrAuthenticationFailed (or
// common.ErrorNotFound) when the pair does not match.
type UserSource interface {
	FindByCredentials(ctx context.Context, username, password string) (models.User, error)
	FindByID(ctx context.Context, id string) (models.User, error)
	Register(ctx context.Context, reg models.Registration) (models.User, error)
	UpdateUser(ctx context.Context, user models.User) (models.User, error)
}

// TokenBearer is implemented by sources that authenticate later calls with
// an access token issued by the backend at login.
type TokenBearer interface {
	AccessToken() string
	SetAccessToken(token string)
}

// SessionStore persists the active session. See package session.
type SessionStore interface {
	Save(ctx context.Context, user models.User, token string) error
	Load(ctx context.Context) (*models.Session, error)
	Clear(ctx context.Context) error
	UpdateUser(ctx context.Context, user models.User) error
}
