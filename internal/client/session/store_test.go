package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/profilekeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/profilekeeper/internal/client/storage"
	"github.com/dmitrijs2005/profilekeeper/internal/logging"
	"github.com/dmitrijs2005/profilekeeper/internal/models"
)

func newStore(t *testing.T) (*Store, metadata.Repository) {
	t.Helper()
	db, err := storage.Open(context.Background(), ":memory:", logging.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := metadata.NewSQLiteRepository(db)
	return NewStore(repo, logging.Nop()), repo
}

func sampleUser() models.User {
	return models.User{
		ID:        "u-1",
		Username:  "ivan",
		Email:     "john@example.com",
		FirstName: "John",
		LastName:  "Doe",
		Avatar:    "https://randomuser.me/api/portraits/men/1.jpg",
		Phone:     "+1234567890",
		Address:   "123 Main St, City",
		Bio:       "Software developer with 5 years of experience",
	}
}

func TestLoad_EmptyStore(t *testing.T) {
	s, _ := newStore(t)

	sess, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()
	u := sampleUser()

	require.NoError(t, s.Save(ctx, u, "session_u-1_1700000000000_ab"))

	sess, err := s.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, u, sess.User)
	assert.Equal(t, "u-1", sess.UserID)
	assert.Equal(t, "session_u-1_1700000000000_ab", sess.Token)
	assert.True(t, sess.LoggedIn)
}

func TestSave_EmptyFieldsSurvive(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()
	u := models.User{ID: "u-2", Username: "bare"}

	require.NoError(t, s.Save(ctx, u, "tok"))
	sess, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, u, sess.User)
}

func TestClear(t *testing.T) {
	s, repo := newStore(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "settings.dark_mode", []byte("true")))
	require.NoError(t, s.Save(ctx, sampleUser(), "tok"))
	require.NoError(t, s.Clear(ctx))
	require.NoError(t, s.Clear(ctx))

	sess, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, sess)

	v, err := repo.Get(ctx, "settings.dark_mode")
	require.NoError(t, err)
	assert.Equal(t, []byte("true"), v, "clear leaves unrelated keys alone")
}

func TestUpdateUser(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	u := sampleUser()
	u.Bio = "changed"
	require.NoError(t, s.UpdateUser(ctx, u), "no session: silent no-op")
	sess, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, sess)

	require.NoError(t, s.Save(ctx, sampleUser(), "tok"))
	require.NoError(t, s.UpdateUser(ctx, u))

	sess, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "changed", sess.User.Bio)
	assert.Equal(t, "tok", sess.Token)
}

func TestLoad_CorruptedRecordIsCleared(t *testing.T) {
	tests := []struct {
		name   string
		values map[string][]byte
	}{
		{"unparseable flag", map[string][]byte{KeyIsLoggedIn: []byte("maybe"), KeyUserID: []byte("u"), KeyAuthToken: []byte("t")}},
		{"missing token", map[string][]byte{KeyIsLoggedIn: []byte("true"), KeyUserID: []byte("u")}},
		{"missing user id", map[string][]byte{KeyIsLoggedIn: []byte("true"), KeyAuthToken: []byte("t")}},
		{"missing flag", map[string][]byte{KeyUserID: []byte("u"), KeyAuthToken: []byte("t")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, repo := newStore(t)
			ctx := context.Background()
			require.NoError(t, repo.SetMany(ctx, tt.values))

			sess, err := s.Load(ctx)
			require.NoError(t, err)
			assert.Nil(t, sess)

			left, err := repo.GetMany(ctx, Keys)
			require.NoError(t, err)
			assert.Empty(t, left)
		})
	}
}

func TestLoad_LoggedOutFlag(t *testing.T) {
	s, repo := newStore(t)
	ctx := context.Background()
	require.NoError(t, repo.Set(ctx, KeyIsLoggedIn, []byte("false")))

	sess, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestSaveLoad_ConcurrentReadersSeeWholeRecords(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	a := sampleUser()
	b := models.User{ID: "u-2", Username: "jane_smith", FirstName: "Jane"}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				assert.NoError(t, s.Save(ctx, a, "token-a"))
			} else {
				assert.NoError(t, s.Save(ctx, b, "token-b"))
			}
		}(i)
		go func() {
			defer wg.Done()
			sess, err := s.Load(ctx)
			if !assert.NoError(t, err) || sess == nil {
				return
			}
			switch sess.Token {
			case "token-a":
				assert.Equal(t, a, sess.User)
			case "token-b":
				assert.Equal(t, b, sess.User)
			default:
				t.Errorf("unexpected token %q", sess.Token)
			}
		}()
	}
	wg.Wait()
}

type failingRepo struct {
	metadata.Repository
	err error
}

func (f failingRepo) GetMany(context.Context, []string) (map[string][]byte, error) {
	return nil, f.err
}

func TestLoad_RepositoryErrorPropagates(t *testing.T) {
	boom := errors.New("disk gone")
	s := NewStore(failingRepo{err: boom}, nil)

	_, err := s.Load(context.Background())
	assert.ErrorIs(t, err, boom)
}

// clearAfterLoadRepo clears the session right after the first read, the way
// a concurrent logout would.
type clearAfterLoadRepo struct {
	metadata.Repository
	once sync.Once
}

func (r *clearAfterLoadRepo) GetMany(ctx context.Context, keys []string) (map[string][]byte, error) {
	values, err := r.Repository.GetMany(ctx, keys)
	r.once.Do(func() { _ = r.Repository.DeleteMany(ctx, Keys) })
	return values, err
}

func TestUpdateUser_ClearedMeanwhileWritesNothing(t *testing.T) {
	_, repo := newStore(t)
	ctx := context.Background()
	require.NoError(t, NewStore(repo, nil).Save(ctx, sampleUser(), "tok"))

	s := NewStore(&clearAfterLoadRepo{Repository: repo}, nil)
	u := sampleUser()
	u.Bio = "changed"
	require.NoError(t, s.UpdateUser(ctx, u))

	values, err := repo.GetMany(ctx, Keys)
	require.NoError(t, err)
	assert.Empty(t, values, "no user keys left behind without a flag")
}
