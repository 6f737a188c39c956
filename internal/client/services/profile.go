package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/profilekeeper/internal/common"
	"github.com/dmitrijs2005/profilekeeper/internal/logging"
	"github.com/dmitrijs2005/profilekeeper/internal/models"
)

// ProfileService serves the profile and details screens.
type ProfileService struct {
	facade *Facade
	source UserSource
	log    logging.Logger
}

func NewProfileService(facade *Facade, source UserSource, log logging.Logger) *ProfileService {
	if log == nil {
		log = logging.Nop()
	}
	return &ProfileService{facade: facade, source: source, log: log.With("module", "profile")}
}

// Profile returns the cached user of the active session.
func (p *ProfileService) Profile(ctx context.Context) (models.User, error) {
	u, ok := p.facade.CurrentUser(ctx)
	if !ok {
		return models.User{}, common.ErrUnauthorized
	}
	return u, nil
}

// Details fetches the freshest record from the source, falling back to the
// cached user when the source cannot answer. A fresher record is written to
// the session.
func (p *ProfileService) Details(ctx context.Context) (models.User, error) {
	cached, err := p.Profile(ctx)
	if err != nil {
		return models.User{}, err
	}

	fresh, err := p.source.FindByID(ctx, cached.ID)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return models.User{}, ctxErr
		}
		p.log.Warn(ctx, "using cached profile", "user_id", cached.ID, "error", err)
		return cached, nil
	}

	if fresh != cached {
		if err := p.facade.UpdateCurrentUser(ctx, fresh); err != nil {
			p.log.Warn(ctx, "refreshing cached profile failed", "user_id", cached.ID, "error", err)
		}
	}
	return fresh, nil
}

// ProfileUpdate holds the editable fields. Nil fields are left unchanged.
type ProfileUpdate struct {
	Email     *string
	FirstName *string
	LastName  *string
	Phone     *string
	Address   *string
	Bio       *string
}

// Update applies upd to the current user at the source and then to the
// session.
func (p *ProfileService) Update(ctx context.Context, upd ProfileUpdate) (models.User, error) {
	u, err := p.Profile(ctx)
	if err != nil {
		return models.User{}, err
	}
	apply(&u.Email, upd.Email)
	apply(&u.FirstName, upd.FirstName)
	apply(&u.LastName, upd.LastName)
	apply(&u.Phone, upd.Phone)
	apply(&u.Address, upd.Address)
	apply(&u.Bio, upd.Bio)

	saved, err := p.source.UpdateUser(ctx, u)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			p.log.Warn(ctx, "profile owner is gone from the source", "user_id", u.ID)
		}
		return models.User{}, err
	}
	if err := p.facade.UpdateCurrentUser(ctx, saved); err != nil {
		return models.User{}, err
	}
	p.log.Info(ctx, "profile updated", "user_id", saved.ID)
	return saved, nil
}

func apply(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
