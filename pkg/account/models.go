package account

import (
	"time"

	"github.com/google/uuid"

	"github.com/danohq/portfolio-auth/pkg/password"
)

// Role values assignable to an account. The data model allows more than
// one account, but the setup flow only ever provisions a single admin.
const (
	RoleAdmin = "admin"
)

// Account is the identity record backing the dashboard login.
type Account struct {
	ID              uuid.UUID
	Username        string
	Email           string
	PasswordHash    string
	PasswordVersion password.Version
	Role            string
	FailedAttempts  int32
	LockedUntil     time.Time // zero value means no lock has been set
	LastFailedAt    time.Time
	CreatedAt       time.Time
}

// LockState is the stored lockout counters for an account, read or
// updated atomically by the repository.
type LockState struct {
	FailedAttempts int32
	LockedUntil    time.Time
}

// CreateParams are the inputs for creating the initial admin account.
// Username and email are expected to be normalized by the caller.
type CreateParams struct {
	Username        string
	Email           string
	PasswordHash    string
	PasswordVersion password.Version
	Role            string
}
