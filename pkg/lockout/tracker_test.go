package lockout

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danohq/portfolio-auth/pkg/account"
	"github.com/danohq/portfolio-auth/pkg/password"
)

func newTestTracker(t *testing.T, duration time.Duration) (*Tracker, *account.InMemoryRepository) {
	t.Helper()

	repo := account.NewInMemoryRepository()
	_, err := repo.CreateFirst(context.Background(), account.CreateParams{
		Username:        "admin",
		Email:           "admin@example.com",
		PasswordHash:    "digest",
		PasswordVersion: password.VersionArgon2,
		Role:            account.RoleAdmin,
	})
	require.NoError(t, err)

	return NewTracker(repo, 5, duration), repo
}

func TestTracker_LocksAtFifthFailure(t *testing.T) {
	ctx := context.Background()
	tracker, _ := newTestTracker(t, 15*time.Minute)

	for i := 1; i <= 4; i++ {
		status, err := tracker.RecordFailure(ctx, "admin")
		require.NoError(t, err)
		assert.False(t, status.Locked, "failure %d must not lock yet", i)
		assert.Equal(t, int32(i), status.FailedAttempts)
	}

	status, err := tracker.RecordFailure(ctx, "admin")
	require.NoError(t, err)
	assert.True(t, status.Locked)
	require.NotNil(t, status.LockedUntil)

	// A sixth failure while locked must not extend the window.
	lockedUntil := *status.LockedUntil
	status, err = tracker.RecordFailure(ctx, "admin")
	require.NoError(t, err)
	assert.True(t, status.Locked)
	assert.Equal(t, lockedUntil, *status.LockedUntil)
	assert.Equal(t, int32(5), status.FailedAttempts)
}

func TestTracker_RecordSuccessResets(t *testing.T) {
	ctx := context.Background()
	tracker, _ := newTestTracker(t, 15*time.Minute)

	for i := 0; i < 5; i++ {
		_, err := tracker.RecordFailure(ctx, "admin")
		require.NoError(t, err)
	}

	require.NoError(t, tracker.RecordSuccess(ctx, "admin"))

	status, err := tracker.Status(ctx, "admin")
	require.NoError(t, err)
	assert.False(t, status.Locked)
	assert.Nil(t, status.LockedUntil)
	assert.Zero(t, status.FailedAttempts)
}

func TestTracker_ExpiredLockReadsUnlocked(t *testing.T) {
	ctx := context.Background()
	tracker, repo := newTestTracker(t, 10*time.Millisecond)

	for i := 0; i < 5; i++ {
		_, err := tracker.RecordFailure(ctx, "admin")
		require.NoError(t, err)
	}

	status, err := tracker.Status(ctx, "admin")
	require.NoError(t, err)
	assert.True(t, status.Locked)

	time.Sleep(20 * time.Millisecond)

	// The stored timestamp is stale but the status reflects real time.
	status, err = tracker.Status(ctx, "admin")
	require.NoError(t, err)
	assert.False(t, status.Locked)
	assert.Nil(t, status.LockedUntil)

	state, err := repo.GetLockState(ctx, "admin")
	require.NoError(t, err)
	assert.False(t, state.LockedUntil.IsZero(), "the clear is lazy, not eager")
}

func TestTracker_UnknownIdentity(t *testing.T) {
	ctx := context.Background()
	tracker, _ := newTestTracker(t, 15*time.Minute)

	status, err := tracker.Status(ctx, "ghost")
	require.NoError(t, err)
	assert.False(t, status.Locked)
	assert.Zero(t, status.FailedAttempts)
	assert.Nil(t, status.LockedUntil)
}

func TestTracker_Defaults(t *testing.T) {
	tracker := NewTracker(account.NewInMemoryRepository(), 0, 0)
	assert.Equal(t, int32(DefaultMaxFailedAttempts), tracker.maxFailedAttempts)
	assert.Equal(t, DefaultLockoutDuration, tracker.lockoutDuration)
}
