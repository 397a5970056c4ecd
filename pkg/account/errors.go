package account

import (
	"errors"
	"fmt"
)

// Common repository errors
var (
	// ErrAccountNotFound is returned when no account matches the lookup
	ErrAccountNotFound = errors.New("account not found")

	// ErrSetupComplete is returned by CreateFirst when an account already
	// exists; the system left setup mode the moment the first account was
	// created and never returns to it
	ErrSetupComplete = errors.New("setup has already been completed")
)

// ErrUsernameExists is returned when the username uniqueness invariant would be violated
type ErrUsernameExists struct {
	Username string
}

func (e ErrUsernameExists) Error() string {
	return fmt.Sprintf("username already exists: %s", e.Username)
}

// ErrEmailExists is returned when the email uniqueness invariant would be violated
type ErrEmailExists struct {
	Email string
}

func (e ErrEmailExists) Error() string {
	return fmt.Sprintf("email already exists: %s", e.Email)
}
