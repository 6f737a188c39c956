package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/profilekeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/profilekeeper/internal/client/session"
	"github.com/dmitrijs2005/profilekeeper/internal/client/storage"
	"github.com/dmitrijs2005/profilekeeper/internal/common"
	"github.com/dmitrijs2005/profilekeeper/internal/directory"
	"github.com/dmitrijs2005/profilekeeper/internal/logging"
	"github.com/dmitrijs2005/profilekeeper/internal/models"
)

func newRepo(t *testing.T) metadata.Repository {
	t.Helper()
	db, err := storage.Open(context.Background(), ":memory:", logging.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return metadata.NewSQLiteRepository(db)
}

type fixture struct {
	dir    *directory.Directory
	source *countingSource
	repo   metadata.Repository
	store  *session.Store
	auth   AuthService
	facade *Facade
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{dir: directory.NewSeeded(), repo: newRepo(t)}
	f.source = &countingSource{UserSource: directory.NewSource(f.dir)}
	f.store = session.NewStore(f.repo, logging.Nop())
	f.auth = NewAuthService(f.source, f.store, 0, logging.Nop())
	f.facade = NewFacade(f.auth, f.store, logging.Nop())
	return f
}

// countingSource records how often the wrapped source was asked.
type countingSource struct {
	UserSource

	mu    sync.Mutex
	calls int
}

func (c *countingSource) FindByCredentials(ctx context.Context, username, password string) (models.User, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return c.UserSource.FindByCredentials(ctx, username, password)
}

func (c *countingSource) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// stubSource answers from fields; nil funcs fail with ErrUnavailable.
type stubSource struct {
	findByCredentials func(ctx context.Context, username, password string) (models.User, error)
	findByID          func(ctx context.Context, id string) (models.User, error)
	register          func(ctx context.Context, reg models.Registration) (models.User, error)
	updateUser        func(ctx context.Context, u models.User) (models.User, error)
}

func (s *stubSource) FindByCredentials(ctx context.Context, username, password string) (models.User, error) {
	if s.findByCredentials == nil {
		return models.User{}, common.ErrUnavailable
	}
	return s.findByCredentials(ctx, username, password)
}

func (s *stubSource) FindByID(ctx context.Context, id string) (models.User, error) {
	if s.findByID == nil {
		return models.User{}, common.ErrUnavailable
	}
	return s.findByID(ctx, id)
}

func (s *stubSource) Register(ctx context.Context, reg models.Registration) (models.User, error) {
	if s.register == nil {
		return models.User{}, common.ErrUnavailable
	}
	return s.register(ctx, reg)
}

func (s *stubSource) UpdateUser(ctx context.Context, u models.User) (models.User, error) {
	if s.updateUser == nil {
		return models.User{}, common.ErrUnavailable
	}
	return s.updateUser(ctx, u)
}

// bearerSource is a stubSource holding a backend access token.
type bearerSource struct {
	stubSource
	token string
}

func (b *bearerSource) AccessToken() string       { return b.token }
func (b *bearerSource) SetAccessToken(tok string) { b.token = tok }
