package remote

import (
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/profilekeeper/internal/common"
)

// invalidInput rebuilds a validation error from the server message so the
// detail can be shown to the user.
func invalidInput(msg string) error {
	msg = strings.TrimPrefix(msg, common.ErrInvalidInput.Error()+": ")
	return fmt.Errorf("%w: %s", common.ErrInvalidInput, msg)
}

// tokenHolder keeps the access token shared by concurrent calls.
type tokenHolder struct {
	mu    sync.RWMutex
	token string
}

func (t *tokenHolder) AccessToken() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.token
}

func (t *tokenHolder) SetAccessToken(token string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.token = token
}
