package authapi

import (
	"errors"
	"fmt"
	"time"
)

// Machine-readable error codes carried in every error envelope.
const (
	CodeSetupAlreadyComplete = "SETUP_ALREADY_COMPLETE"
	CodeMissingFields        = "MISSING_FIELDS"
	CodePasswordMismatch     = "PASSWORD_MISMATCH"
	CodeInvalidUsername      = "INVALID_USERNAME"
	CodeInvalidEmail         = "INVALID_EMAIL"
	CodeInvalidPassword      = "INVALID_PASSWORD"
	CodeMissingCredentials   = "MISSING_CREDENTIALS"
	CodeInvalidCredentials   = "INVALID_CREDENTIALS"
	CodeAccountLocked        = "ACCOUNT_LOCKED"
	CodeRateLimited          = "RATE_LIMITED"
	CodeUnauthenticated      = "UNAUTHENTICATED"
	CodeMissingPassword      = "MISSING_PASSWORD"
	CodeMissingUsername      = "MISSING_USERNAME"
	CodeSetupFailed          = "SETUP_FAILED"
	CodeLoginFailed          = "LOGIN_FAILED"
	CodeCheckFailed          = "CHECK_FAILED"
)

// Sentinel errors for the simple failure modes.
var (
	ErrMissingFields      = errors.New("all fields are required")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrMissingCredentials = errors.New("username and password are required")

	// ErrInvalidCredentials deliberately covers both unknown username and
	// wrong password; nothing downstream may distinguish them.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrRateLimited means the source address exceeded the login window
	ErrRateLimited = errors.New("too many login attempts from this address")
)

// ValidationError is a client-data failure carrying the specific rule
// violations for display.
type ValidationError struct {
	Code    string
	Message string
	Details []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Message, e.Details)
}

// AccountLockedError is returned when a login hits an active lock
// window. Unlike credential errors it is informative: the client
// benefits from knowing when to retry.
type AccountLockedError struct {
	LockedUntil    *time.Time
	FailedAttempts int32
}

func (e *AccountLockedError) Error() string {
	return "account is locked due to multiple failed login attempts"
}
