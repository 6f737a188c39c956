package session

import (
	"context"
	"strconv"

	"github.com/dmitrijs2005/profilekeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/profilekeeper/internal/common"
	"github.com/dmitrijs2005/profilekeeper/internal/logging"
	"github.com/dmitrijs2005/profilekeeper/internal/models"
)

const (
	KeyUserID     = "session.user_id"
	KeyUsername   = "session.username"
	KeyEmail      = "session.email"
	KeyFirstName  = "session.first_name"
	KeyLastName   = "session.last_name"
	KeyAvatar     = "session.avatar"
	KeyPhone      = "session.phone"
	KeyAddress    = "session.address"
	KeyBio        = "session.bio"
	KeyAuthToken  = "session.auth_token"
	KeyIsLoggedIn = "session.is_logged_in"
)

// Keys lists every key of the session record.
var Keys = []string{
	KeyUserID, KeyUsername, KeyEmail, KeyFirstName, KeyLastName,
	KeyAvatar, KeyPhone, KeyAddress, KeyBio, KeyAuthToken, KeyIsLoggedIn,
}

// Store keeps the session in a metadata repository. Save, Load and Clear
// each touch the whole record in one atomic batch.
type Store struct {
	repo metadata.Repository
	log  logging.Logger
}

func NewStore(repo metadata.Repository, log logging.Logger) *Store {
	if log == nil {
		log = logging.Nop()
	}
	return &Store{repo: repo, log: log.With("module", "session")}
}

// Save persists user and token and marks the session as logged in.
func (s *Store) Save(ctx context.Context, user models.User, token string) error {
	values := userValues(user)
	values[KeyAuthToken] = []byte(token)
	values[KeyIsLoggedIn] = []byte(strconv.FormatBool(true))
	return s.repo.SetMany(ctx, values)
}

// Load returns nil when no session is active. A record that cannot be
// parsed is cleared and reported as no session.
func (s *Store) Load(ctx context.Context) (*models.Session, error) {
	values, err := s.repo.GetMany(ctx, Keys)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, nil
	}

	sess, err := parse(values)
	if err != nil {
		s.log.Warn(ctx, "clearing unreadable session record", "error", err)
		if clearErr := s.Clear(ctx); clearErr != nil {
			return nil, clearErr
		}
		return nil, nil
	}
	return sess, nil
}

// Clear removes every session key. Clearing an empty store is a no-op.
func (s *Store) Clear(ctx context.Context) error {
	return s.repo.DeleteMany(ctx, Keys)
}

// UpdateUser overwrites the stored user. It does nothing when no session is
// active.
func (s *Store) UpdateUser(ctx context.Context, user models.User) error {
	sess, err := s.Load(ctx)
	if err != nil {
		return err
	}
	if sess == nil {
		s.log.Debug(ctx, "user update ignored, no active session")
		return nil
	}
	// A Clear may land after Load; the flag guard keeps it from being undone.
	written, err := s.repo.SetManyIfPresent(ctx, KeyIsLoggedIn, userValues(user))
	if err != nil {
		return err
	}
	if !written {
		s.log.Debug(ctx, "user update ignored, session cleared meanwhile")
	}
	return nil
}

func userValues(u models.User) map[string][]byte {
	return map[string][]byte{
		KeyUserID:    []byte(u.ID),
		KeyUsername:  []byte(u.Username),
		KeyEmail:     []byte(u.Email),
		KeyFirstName: []byte(u.FirstName),
		KeyLastName:  []byte(u.LastName),
		KeyAvatar:    []byte(u.Avatar),
		KeyPhone:     []byte(u.Phone),
		KeyAddress:   []byte(u.Address),
		KeyBio:       []byte(u.Bio),
	}
}

// parse returns (nil, nil) for a logged-out record.
func parse(values map[string][]byte) (*models.Session, error) {
	flag, ok := values[KeyIsLoggedIn]
	if !ok {
		return nil, common.ErrCorruptedState
	}
	loggedIn, err := strconv.ParseBool(string(flag))
	if err != nil {
		return nil, common.ErrCorruptedState
	}
	if !loggedIn {
		return nil, nil
	}

	sess := &models.Session{
		Token:    string(values[KeyAuthToken]),
		LoggedIn: true,
		User: models.User{
			ID:        string(values[KeyUserID]),
			Username:  string(values[KeyUsername]),
			Email:     string(values[KeyEmail]),
			FirstName: string(values[KeyFirstName]),
			LastName:  string(values[KeyLastName]),
			Avatar:    string(values[KeyAvatar]),
			Phone:     string(values[KeyPhone]),
			Address:   string(values[KeyAddress]),
			Bio:       string(values[KeyBio]),
		},
	}
	sess.UserID = sess.User.ID
	if sess.Token == "" || sess.UserID == "" {
		return nil, common.ErrCorruptedState
	}
	return sess, nil
}
