package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() (*Service, *MemoryUserStore, *Lockout) {
	store := NewMemoryUserStore(SeedUsers())
	lockout := NewLockout(store)
	return NewService(store, lockout, "test-secret"), store, lockout
}

func TestLoginSuccessUpgradesPlaintextSecret(t *testing.T) {
	ctx := context.Background()
	service, store, _ := newTestService()

	token, user, err := service.Login(ctx, "brunna@example.com", "123456")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, "Brunna Silva", user.Name)

	// The stored secret is now the bcrypt form.
	stored, err := store.FindByEmail(ctx, "brunna@example.com")
	require.NoError(t, err)
	assert.True(t, stored.Secret.Hashed())
	assert.NotEqual(t, "123456", stored.Secret.Value())

	// The old plaintext still authenticates against the hash.
	token, _, err = service.Login(ctx, "brunna@example.com", "123456")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestLoginUnknownEmailLooksLikeWrongPassword(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newTestService()

	_, _, err := service.Login(ctx, "nobody@example.com", "123456")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginLocksAfterThreeFailures(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newTestService()

	for i := 0; i < 3; i++ {
		_, _, err := service.Login(ctx, "maria@example.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials, "failure %d should still report bad credentials", i+1)
	}

	// Fourth attempt is refused even with the correct password.
	_, _, err := service.Login(ctx, "maria@example.com", "123456")
	assert.ErrorIs(t, err, ErrAccountLocked)
}

func TestLoginUnlocksAfterWindowAndResetsCounter(t *testing.T) {
	ctx := context.Background()
	service, store, lockout := newTestService()

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	lockout.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		_, _, err := service.Login(ctx, "joao@example.com", "wrong")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}
	_, _, err := service.Login(ctx, "joao@example.com", "123456")
	require.ErrorIs(t, err, ErrAccountLocked)

	now = now.Add(16 * time.Minute)
	token, _, err := service.Login(ctx, "joao@example.com", "123456")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	stored, err := store.FindByEmail(ctx, "joao@example.com")
	require.NoError(t, err)
	assert.False(t, stored.Blocked)
	assert.Equal(t, 0, stored.Attempts)
}

func TestLoginConcurrentFailuresBothCount(t *testing.T) {
	ctx := context.Background()
	service, store, _ := newTestService()

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := service.Login(ctx, "brunna@example.com", "wrong")
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		}()
	}
	wg.Wait()

	stored, err := store.FindByEmail(ctx, "brunna@example.com")
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Attempts)
}

func TestLoginSuccessResetsAttemptCount(t *testing.T) {
	ctx := context.Background()
	service, store, _ := newTestService()

	for i := 0; i < 2; i++ {
		_, _, err := service.Login(ctx, "brunna@example.com", "wrong")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}

	_, _, err := service.Login(ctx, "brunna@example.com", "123456")
	require.NoError(t, err)

	stored, err := store.FindByEmail(ctx, "brunna@example.com")
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Attempts)
	assert.False(t, stored.Blocked)
	assert.Nil(t, stored.LastAttempt)
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	service, store, _ := newTestService()

	user, err := service.Register(ctx, "ana@example.com", "segredo", "Ana Costa")
	require.NoError(t, err)
	assert.Equal(t, int64(4), user.ID)
	assert.Equal(t, "ana@example.com", user.Email)

	// Lookup consistency between the two keys.
	byID, err := store.FindByID(ctx, user.ID)
	require.NoError(t, err)
	byEmail, err := store.FindByEmail(ctx, byID.Email)
	require.NoError(t, err)
	assert.Equal(t, byID.ID, byEmail.ID)

	// The secret is stored hashed from the start.
	assert.True(t, byEmail.Secret.Hashed())

	token, _, err := service.Login(ctx, "ana@example.com", "segredo")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newTestService()

	_, err := service.Register(ctx, "brunna@example.com", "outra", "Outra Brunna")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestResetPassword(t *testing.T) {
	ctx := context.Background()
	service, store, _ := newTestService()

	require.NoError(t, service.ResetPassword(ctx, "maria@example.com", "nova-senha"))

	stored, err := store.FindByEmail(ctx, "maria@example.com")
	require.NoError(t, err)
	assert.True(t, stored.Secret.Hashed())

	_, _, err = service.Login(ctx, "maria@example.com", "123456")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	token, _, err := service.Login(ctx, "maria@example.com", "nova-senha")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestResetPasswordUnknownEmail(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newTestService()

	err := service.ResetPassword(ctx, "nobody@example.com", "nova-senha")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
