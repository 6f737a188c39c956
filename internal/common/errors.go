package common

import (
	"errors"
	"strings"
)

var (
	// Domain error kinds. Callers match them with errors.Is; detail is added by
	// wrapping, e.g. fmt.Errorf("%w: username cannot be empty", ErrInvalidInput).
	ErrInvalidInput         = errors.New("invalid input")
	ErrAuthenticationFailed = errors.New("invalid username or password")
	ErrDuplicateUsername    = errors.New("username already exists")
	ErrorNotFound           = errors.New("not found")
	ErrCorruptedState       = errors.New("corrupted state")

	// Transport and service errors.
	ErrorInternal   = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrUnavailable  = errors.New("server unavailable")
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// User-facing messages for errors that carry no safe detail of their own.
const (
	MessageAuthenticationFailed = "invalid username or password"
	MessageDuplicateUsername    = "username is already taken"
	MessageNotLoggedIn          = "you are not logged in"
	MessageGeneric              = "something went wrong"
)

// UserMessage converts err into text that is safe to show to the user.
//
// Validation failures are shown verbatim (without the kind prefix), failed
// logins never reveal which field was wrong and everything else collapses
// into a generic message.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput):
		return validationDetail(err)
	case errors.Is(err, ErrAuthenticationFailed):
		return MessageAuthenticationFailed
	case errors.Is(err, ErrDuplicateUsername):
		return MessageDuplicateUsername
	case errors.Is(err, ErrUnauthorized):
		return MessageNotLoggedIn
	default:
		return MessageGeneric
	}
}

func validationDetail(err error) string {
	msg := err.Error()
	prefix := ErrInvalidInput.Error() + ": "
	if i := strings.Index(msg, prefix); i >= 0 {
		return msg[i+len(prefix):]
	}
	return msg
}
