package account

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danohq/portfolio-auth/pkg/password"
)

func adminParams() CreateParams {
	return CreateParams{
		Username:        "admin",
		Email:           "admin@example.com",
		PasswordHash:    "$argon2id$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA",
		PasswordVersion: password.VersionArgon2,
		Role:            RoleAdmin,
	}
}

func TestCreateFirst_OnlyOnce(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()

	hasAny, err := repo.HasAnyAccounts(ctx)
	require.NoError(t, err)
	assert.False(t, hasAny)

	created, err := repo.CreateFirst(ctx, adminParams())
	require.NoError(t, err)
	assert.Equal(t, "admin", created.Username)
	assert.NotZero(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	_, err = repo.CreateFirst(ctx, adminParams())
	assert.ErrorIs(t, err, ErrSetupComplete)

	hasAny, err = repo.HasAnyAccounts(ctx)
	require.NoError(t, err)
	assert.True(t, hasAny)
}

func TestCreateFirst_ConcurrentCallsCreateOneAccount(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()

	const attempts = 20
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.CreateFirst(ctx, adminParams())
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrSetupComplete)
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one setup call may create the account")
}

func TestGetByUsername(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()

	created, err := repo.CreateFirst(ctx, adminParams())
	require.NoError(t, err)

	found, err := repo.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	byID, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "admin", byID.Username)

	// Usernames are case-sensitive.
	_, err = repo.GetByUsername(ctx, "Admin")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestRecordFailedAttempt_LocksAtThreshold(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()
	_, err := repo.CreateFirst(ctx, adminParams())
	require.NoError(t, err)

	for i := 1; i <= 4; i++ {
		state, err := repo.RecordFailedAttempt(ctx, "admin", 5, 15*time.Minute)
		require.NoError(t, err)
		assert.Equal(t, int32(i), state.FailedAttempts)
		assert.True(t, state.LockedUntil.IsZero(), "no lock before the threshold")
	}

	state, err := repo.RecordFailedAttempt(ctx, "admin", 5, 15*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int32(5), state.FailedAttempts)
	assert.False(t, state.LockedUntil.IsZero(), "fifth failure sets the lock")

	// While locked, further failures neither count nor extend the lock.
	lockedUntil := state.LockedUntil
	state, err = repo.RecordFailedAttempt(ctx, "admin", 5, 15*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int32(5), state.FailedAttempts)
	assert.Equal(t, lockedUntil, state.LockedUntil)
}

func TestRecordFailedAttempt_NoLostUpdates(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()
	_, err := repo.CreateFirst(ctx, adminParams())
	require.NoError(t, err)

	// Threshold above N so no attempt hits the locked no-op path.
	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.RecordFailedAttempt(ctx, "admin", 100, time.Minute)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	state, err := repo.GetLockState(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, int32(n), state.FailedAttempts, "every concurrent failure must be counted")
}

func TestResetFailedAttempts(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()
	_, err := repo.CreateFirst(ctx, adminParams())
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err = repo.RecordFailedAttempt(ctx, "admin", 5, 15*time.Minute)
		require.NoError(t, err)
	}

	require.NoError(t, repo.ResetFailedAttempts(ctx, "admin"))

	state, err := repo.GetLockState(ctx, "admin")
	require.NoError(t, err)
	assert.Zero(t, state.FailedAttempts)
	assert.True(t, state.LockedUntil.IsZero())

	assert.ErrorIs(t, repo.ResetFailedAttempts(ctx, "ghost"), ErrAccountNotFound)
}

func TestGetLockState_UnknownAccount(t *testing.T) {
	repo := NewInMemoryRepository()

	_, err := repo.GetLockState(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}
