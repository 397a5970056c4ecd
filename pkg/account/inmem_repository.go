package account

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryRepository implements Repository using in-memory storage. All
// mutations run under one mutex, which gives the per-identity
// atomicity the lockout counters need.
type InMemoryRepository struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]Account
}

// NewInMemoryRepository creates a new in-memory account repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		accounts: make(map[uuid.UUID]Account),
	}
}

// GetByUsername retrieves an account by username
func (r *InMemoryRepository) GetByUsername(ctx context.Context, username string) (Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, acct := range r.accounts {
		if acct.Username == username {
			return acct, nil
		}
	}
	return Account{}, ErrAccountNotFound
}

// GetByID retrieves an account by id
func (r *InMemoryRepository) GetByID(ctx context.Context, id uuid.UUID) (Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	acct, ok := r.accounts[id]
	if !ok {
		return Account{}, ErrAccountNotFound
	}
	return acct, nil
}

// HasAnyAccounts reports whether any account exists
func (r *InMemoryRepository) HasAnyAccounts(ctx context.Context) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.accounts) > 0, nil
}

// CreateFirst creates the initial account. The existence check and the
// insert happen under one lock, so concurrent setup calls create at
// most one account.
func (r *InMemoryRepository) CreateFirst(ctx context.Context, params CreateParams) (Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.accounts) > 0 {
		return Account{}, ErrSetupComplete
	}

	acct := Account{
		ID:              uuid.New(),
		Username:        params.Username,
		Email:           params.Email,
		PasswordHash:    params.PasswordHash,
		PasswordVersion: params.PasswordVersion,
		Role:            params.Role,
		CreatedAt:       time.Now(),
	}

	r.accounts[acct.ID] = acct
	return acct, nil
}

// RecordFailedAttempt increments the failed-attempt counter and sets the
// lock window when the threshold is reached. A currently locked account
// is left untouched.
func (r *InMemoryRepository) RecordFailedAttempt(ctx context.Context, username string, threshold int32, lockDuration time.Duration) (LockState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, acct, err := r.findByUsername(username)
	if err != nil {
		return LockState{}, err
	}

	now := time.Now()
	if now.Before(acct.LockedUntil) {
		return LockState{FailedAttempts: acct.FailedAttempts, LockedUntil: acct.LockedUntil}, nil
	}

	acct.FailedAttempts++
	acct.LastFailedAt = now
	if acct.FailedAttempts >= threshold {
		acct.LockedUntil = now.Add(lockDuration)
	}
	r.accounts[id] = acct

	return LockState{FailedAttempts: acct.FailedAttempts, LockedUntil: acct.LockedUntil}, nil
}

// ResetFailedAttempts zeroes the counter and clears any lock
func (r *InMemoryRepository) ResetFailedAttempts(ctx context.Context, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, acct, err := r.findByUsername(username)
	if err != nil {
		return err
	}

	acct.FailedAttempts = 0
	acct.LastFailedAt = time.Time{}
	acct.LockedUntil = time.Time{}
	r.accounts[id] = acct
	return nil
}

// GetLockState reads the stored lockout counters for an account
func (r *InMemoryRepository) GetLockState(ctx context.Context, username string) (LockState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, acct := range r.accounts {
		if acct.Username == username {
			return LockState{FailedAttempts: acct.FailedAttempts, LockedUntil: acct.LockedUntil}, nil
		}
	}
	return LockState{}, ErrAccountNotFound
}

// findByUsername is a lookup helper; callers must hold the lock.
func (r *InMemoryRepository) findByUsername(username string) (uuid.UUID, Account, error) {
	for id, acct := range r.accounts {
		if acct.Username == username {
			return id, acct, nil
		}
	}
	return uuid.UUID{}, Account{}, ErrAccountNotFound
}

// SeedAccount adds an account directly (for testing/initialization)
func (r *InMemoryRepository) SeedAccount(acct Account) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts[acct.ID] = acct
}
