package models

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/profilekeeper/internal/common"
)

const (
	MinUsernameLength = 3
	MinPasswordLength = 6
)

// ValidateCredentials checks login input. It does no I/O and the returned
// error wraps common.ErrInvalidInput with a message fit for the user.
func ValidateCredentials(username, password string) error {
	if strings.TrimSpace(username) == "" {
		return fmt.Errorf("%w: Username cannot be empty", common.ErrInvalidInput)
	}
	if strings.TrimSpace(password) == "" {
		return fmt.Errorf("%w: Password cannot be empty", common.ErrInvalidInput)
	}
	if utf8.RuneCountInString(username) < MinUsernameLength {
		return fmt.Errorf("%w: Username must be at least %d characters long", common.ErrInvalidInput, MinUsernameLength)
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return fmt.Errorf("%w: Password must be at least %d characters long", common.ErrInvalidInput, MinPasswordLength)
	}
	return nil
}

// ValidateUserID rejects a blank user id.
func ValidateUserID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: User ID cannot be empty", common.ErrInvalidInput)
	}
	return nil
}
