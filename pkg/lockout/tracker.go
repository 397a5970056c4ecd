// Package lockout tracks failed login attempts per account and the
// temporary lock window that follows too many of them. The counters
// live in the account store; this package owns the state machine that
// reads and advances them.
package lockout

import (
	"context"
	"errors"
	"time"

	"github.com/danohq/portfolio-auth/pkg/account"
)

// Defaults applied when the caller passes zero values to New.
const (
	DefaultMaxFailedAttempts = 5
	DefaultLockoutDuration   = 15 * time.Minute
)

// Store is the slice of the account repository the tracker needs. The
// increment must be atomic per identity; see account.Repository.
type Store interface {
	RecordFailedAttempt(ctx context.Context, username string, threshold int32, lockDuration time.Duration) (account.LockState, error)
	ResetFailedAttempts(ctx context.Context, username string) error
	GetLockState(ctx context.Context, username string) (account.LockState, error)
}

// Status is the externally visible lockout state of an account.
type Status struct {
	Locked         bool       `json:"locked"`
	LockedUntil    *time.Time `json:"locked_until"`
	FailedAttempts int32      `json:"failed_attempts"`
}

// Tracker runs the per-account lockout state machine.
type Tracker struct {
	store             Store
	maxFailedAttempts int32
	lockoutDuration   time.Duration
}

// NewTracker creates a tracker with the given threshold and lock
// duration, falling back to the defaults for zero values.
func NewTracker(store Store, maxFailedAttempts int, lockoutDuration time.Duration) *Tracker {
	if maxFailedAttempts <= 0 {
		maxFailedAttempts = DefaultMaxFailedAttempts
	}
	if lockoutDuration <= 0 {
		lockoutDuration = DefaultLockoutDuration
	}
	return &Tracker{
		store:             store,
		maxFailedAttempts: int32(maxFailedAttempts),
		lockoutDuration:   lockoutDuration,
	}
}

// RecordFailure counts a failed login. Reaching the threshold starts
// the lock window; while a lock is running the call changes nothing.
func (t *Tracker) RecordFailure(ctx context.Context, username string) (Status, error) {
	state, err := t.store.RecordFailedAttempt(ctx, username, t.maxFailedAttempts, t.lockoutDuration)
	if err != nil {
		return Status{}, err
	}
	return statusFromState(state, time.Now()), nil
}

// RecordSuccess resets the counter and clears any lock. Valid from any
// state; this is also where a stale, already elapsed lock gets cleared.
func (t *Tracker) RecordSuccess(ctx context.Context, username string) error {
	return t.store.ResetFailedAttempts(ctx, username)
}

// Status reports the real-time lockout state. An elapsed lock reads as
// unlocked even if the stored timestamp has not been cleared yet. An
// unknown identity reads as unlocked with zero attempts and leaves no
// record behind.
func (t *Tracker) Status(ctx context.Context, username string) (Status, error) {
	state, err := t.store.GetLockState(ctx, username)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			return Status{}, nil
		}
		return Status{}, err
	}
	return statusFromState(state, time.Now()), nil
}

func statusFromState(state account.LockState, now time.Time) Status {
	status := Status{FailedAttempts: state.FailedAttempts}
	if !state.LockedUntil.IsZero() && now.Before(state.LockedUntil) {
		lockedUntil := state.LockedUntil
		status.Locked = true
		status.LockedUntil = &lockedUntil
	}
	return status
}
