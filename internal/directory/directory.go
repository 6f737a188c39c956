// Package directory holds the authoritative in-memory catalogue of users and
// their credentials, plus snapshot export/import to durable stores.
package directory

import (
	"fmt"
	"hash/fnv"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/profilekeeper/internal/common"
	"github.com/dmitrijs2005/profilekeeper/internal/models"
)

// Directory is safe for concurrent use. Every credential username has
// exactly one user, and the duplicate check of AddUser happens under the
// same lock as the insert.
type Directory struct {
	mu          sync.RWMutex
	users       map[string]models.User // by id
	credentials map[string]string      // username -> password
	ids         map[string]string      // username -> id
	newID       func() string
}

// New returns an empty directory.
func New() *Directory {
	return &Directory{
		users:       make(map[string]models.User),
		credentials: make(map[string]string),
		ids:         make(map[string]string),
		newID:       uuid.NewString,
	}
}

// AddUser registers a new user and fills placeholder contact fields.
func (d *Directory) AddUser(username, password, email, firstName, lastName string) (models.User, error) {
	u := models.User{
		Username:  username,
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
	}
	u.Avatar, u.Phone, u.Address = placeholderContacts(username)
	return d.insert(u, password)
}

func (d *Directory) insert(u models.User, password string) (models.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.credentials[u.Username]; exists {
		return models.User{}, fmt.Errorf("%w: %s", common.ErrDuplicateUsername, u.Username)
	}
	u.ID = d.newID()
	d.users[u.ID] = u
	d.credentials[u.Username] = password
	d.ids[u.Username] = u.ID
	return u, nil
}

// FindByCredentials matches both fields exactly.
func (d *Directory) FindByCredentials(username, password string) (models.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	stored, ok := d.credentials[username]
	if !ok || stored != password {
		return models.User{}, common.ErrorNotFound
	}
	u, ok := d.users[d.ids[username]]
	if !ok {
		return models.User{}, common.ErrorNotFound
	}
	return u, nil
}

func (d *Directory) FindByID(id string) (models.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	u, ok := d.users[id]
	if !ok {
		return models.User{}, common.ErrorNotFound
	}
	return u, nil
}

// Replace overwrites the record stored under u.ID. A changed username moves
// the credential entry along with it.
func (d *Directory) Replace(u models.User) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	old, ok := d.users[u.ID]
	if !ok {
		return common.ErrorNotFound
	}
	if old.Username != u.Username {
		if _, taken := d.credentials[u.Username]; taken {
			return fmt.Errorf("%w: %s", common.ErrDuplicateUsername, u.Username)
		}
		d.credentials[u.Username] = d.credentials[old.Username]
		d.ids[u.Username] = u.ID
		delete(d.credentials, old.Username)
		delete(d.ids, old.Username)
	}
	d.users[u.ID] = u
	return nil
}

// Len reports the number of users.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.users)
}

// Records returns every user with their password, ordered by username.
func (d *Directory) Records() []Record {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]Record, 0, len(d.users))
	for username, id := range d.ids {
		out = append(out, Record{User: d.users[id], Password: d.credentials[username]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].User.Username < out[j].User.Username })
	return out
}

// Load replaces the whole content of the directory with records. Nothing
// changes when records are inconsistent.
func (d *Directory) Load(records []Record) error {
	users := make(map[string]models.User, len(records))
	credentials := make(map[string]string, len(records))
	ids := make(map[string]string, len(records))

	for _, r := range records {
		if r.User.ID == "" || r.User.Username == "" {
			return fmt.Errorf("%w: record without id or username", common.ErrCorruptedState)
		}
		if _, dup := users[r.User.ID]; dup {
			return fmt.Errorf("%w: duplicate id %s", common.ErrCorruptedState, r.User.ID)
		}
		if _, dup := credentials[r.User.Username]; dup {
			return fmt.Errorf("%w: %s", common.ErrDuplicateUsername, r.User.Username)
		}
		users[r.User.ID] = r.User
		credentials[r.User.Username] = r.Password
		ids[r.User.Username] = r.User.ID
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.users, d.credentials, d.ids = users, credentials, ids
	return nil
}

// placeholderContacts derives stable avatar, phone and address values from
// the username so that re-registering in a fresh directory is reproducible.
func placeholderContacts(username string) (avatar, phone, address string) {
	h := fnv.New32a()
	_, _ = h.Write([]byte(username))
	sum := h.Sum32()

	avatar = fmt.Sprintf("https://randomuser.me/api/portraits/lego/%d.jpg", sum%10)
	phone = fmt.Sprintf("+1%010d", uint64(sum)%10000000000)
	address = fmt.Sprintf("%d Unknown St, City", sum%1000+1)
	return avatar, phone, address
}
