package account

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the narrow storage interface the auth core depends
// on. Implementations must make RecordFailedAttempt a single atomic
// read-modify-write per identity: two concurrent failing logins must
// both be counted.
type Repository interface {
	// GetByUsername looks up an account by its exact username
	GetByUsername(ctx context.Context, username string) (Account, error)

	// GetByID looks up an account by id
	GetByID(ctx context.Context, id uuid.UUID) (Account, error)

	// HasAnyAccounts reports whether any account exists (setup is
	// complete once one does)
	HasAnyAccounts(ctx context.Context) (bool, error)

	// CreateFirst creates the initial account, atomically failing with
	// ErrSetupComplete if any account already exists
	CreateFirst(ctx context.Context, params CreateParams) (Account, error)

	// RecordFailedAttempt atomically increments the failed-attempt
	// counter and, when the new count reaches threshold, sets the lock
	// window. While an account is already locked the call is a no-op:
	// the lock is never extended by further attempts. Returns the
	// resulting lock state.
	RecordFailedAttempt(ctx context.Context, username string, threshold int32, lockDuration time.Duration) (LockState, error)

	// ResetFailedAttempts zeroes the counter and clears any lock
	ResetFailedAttempts(ctx context.Context, username string) error

	// GetLockState reads the stored lockout counters for an account
	GetLockState(ctx context.Context, username string) (LockState, error)
}
