package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockoutBlocksAfterThreeFailures(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryUserStore(SeedUsers())
	lockout := NewLockout(store)

	user, err := store.FindByEmail(ctx, "brunna@example.com")
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		require.NoError(t, lockout.RecordFailure(ctx, &user))
		blocked, err := lockout.IsBlocked(ctx, &user)
		require.NoError(t, err)
		assert.False(t, blocked, "should not block before the third failure")
	}

	require.NoError(t, lockout.RecordFailure(ctx, &user))
	blocked, err := lockout.IsBlocked(ctx, &user)
	require.NoError(t, err)
	assert.True(t, blocked)

	// Blocked state must also be visible through the store.
	persisted, err := store.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, persisted.Blocked)
	assert.Equal(t, 3, persisted.Attempts)
	assert.NotNil(t, persisted.LastAttempt)
}

func TestLockoutAutoUnlocksAfterWindow(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryUserStore(SeedUsers())
	lockout := NewLockout(store)

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	lockout.now = func() time.Time { return now }

	user, err := store.FindByEmail(ctx, "maria@example.com")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, lockout.RecordFailure(ctx, &user))
	}
	blocked, err := lockout.IsBlocked(ctx, &user)
	require.NoError(t, err)
	require.True(t, blocked)

	// Just inside the window: still blocked.
	now = now.Add(14 * time.Minute)
	blocked, err = lockout.IsBlocked(ctx, &user)
	require.NoError(t, err)
	assert.True(t, blocked)

	// Past the window: unlocked lazily, counters reset and persisted.
	now = now.Add(2 * time.Minute)
	blocked, err = lockout.IsBlocked(ctx, &user)
	require.NoError(t, err)
	assert.False(t, blocked)

	persisted, err := store.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, persisted.Blocked)
	assert.Equal(t, 0, persisted.Attempts)
	assert.Nil(t, persisted.LastAttempt)
}

func TestLockoutConcurrentFailuresAllCount(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryUserStore(SeedUsers())
	lockout := NewLockout(store)

	// Each goroutine works from its own pre-fetched snapshot; the increments
	// must still land on the stored record, not on the stale copies.
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		snapshot, err := store.FindByEmail(ctx, "brunna@example.com")
		require.NoError(t, err)

		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, lockout.RecordFailure(ctx, &snapshot))
		}()
	}
	wg.Wait()

	persisted, err := store.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, persisted.Attempts)
}

func TestLockoutIsBlockedReadsStoredState(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryUserStore(SeedUsers())
	lockout := NewLockout(store)

	// Snapshot taken before any failures.
	stale, err := store.FindByEmail(ctx, "brunna@example.com")
	require.NoError(t, err)

	fresh := stale
	for i := 0; i < 3; i++ {
		require.NoError(t, lockout.RecordFailure(ctx, &fresh))
	}

	// The stale snapshot still says unblocked; the check must not trust it.
	require.False(t, stale.Blocked)
	blocked, err := lockout.IsBlocked(ctx, &stale)
	require.NoError(t, err)
	assert.True(t, blocked)
	assert.True(t, stale.Blocked, "snapshot should be refreshed in place")
	assert.Equal(t, 3, stale.Attempts)
}

func TestLockoutRecordSuccessResetsState(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryUserStore(SeedUsers())
	lockout := NewLockout(store)

	user, err := store.FindByEmail(ctx, "joao@example.com")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, lockout.RecordFailure(ctx, &user))
	}
	require.True(t, user.Blocked)

	require.NoError(t, lockout.RecordSuccess(ctx, &user))
	assert.False(t, user.Blocked)
	assert.Equal(t, 0, user.Attempts)
	assert.Nil(t, user.LastAttempt)

	persisted, err := store.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, persisted.Blocked)
	assert.Equal(t, 0, persisted.Attempts)
}
