package directory

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/profilekeeper/internal/common"
	"github.com/dmitrijs2005/profilekeeper/internal/models"
)

// Source exposes a Directory through the context-aware user source contract
// used by the client services and the backend. It only checks ctx; all work
// is in memory.
type Source struct {
	dir *Directory
}

func NewSource(dir *Directory) *Source {
	return &Source{dir: dir}
}

func (s *Source) Directory() *Directory { return s.dir }

// FindByCredentials maps a miss to common.ErrAuthenticationFailed.
func (s *Source) FindByCredentials(ctx context.Context, username, password string) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}
	u, err := s.dir.FindByCredentials(username, password)
	if errors.Is(err, common.ErrorNotFound) {
		return models.User{}, common.ErrAuthenticationFailed
	}
	return u, err
}

func (s *Source) FindByID(ctx context.Context, id string) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}
	return s.dir.FindByID(id)
}

func (s *Source) Register(ctx context.Context, reg models.Registration) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}
	return s.dir.AddUser(reg.Username, reg.Password, reg.Email, reg.FirstName, reg.LastName)
}

// UpdateUser replaces the stored profile. The username cannot be changed
// through this path.
func (s *Source) UpdateUser(ctx context.Context, u models.User) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}
	current, err := s.dir.FindByID(u.ID)
	if err != nil {
		return models.User{}, err
	}
	if u.Username != current.Username {
		return models.User{}, fmt.Errorf("%w: username cannot be changed", common.ErrInvalidInput)
	}
	if err := s.dir.Replace(u); err != nil {
		return models.User{}, err
	}
	return u, nil
}
