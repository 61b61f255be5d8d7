package auth

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const (
	maxLoginAttempts = 3
	lockoutWindow    = 15 * time.Minute
)

// Lockout tracks consecutive failed login attempts and blocks an account
// once the threshold is reached. The unlock check is lazy: blocked state is
// inspected and cleared on the next access instead of by a timer, so an
// account that never retries simply stays marked blocked with no consequence.
//
// The HTTP server serves requests in parallel, so every operation reloads
// the user from the store inside the mutex before mutating; callers hand in
// a snapshot that may be stale, and it is refreshed in place on return. Two
// concurrent failures must both count.
type Lockout struct {
	store UserStore
	mu    sync.Mutex
	now   func() time.Time
}

func NewLockout(store UserStore) *Lockout {
	return &Lockout{store: store, now: time.Now}
}

// IsBlocked reports whether the user is currently blocked. When the lockout
// window has elapsed since the last failed attempt, the block is lifted and
// the attempt counter reset as a side effect.
func (l *Lockout) IsBlocked(ctx context.Context, user *User) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	current, err := l.store.FindByID(ctx, user.ID)
	if err != nil {
		return false, fmt.Errorf("load user: %w", err)
	}

	if current.Blocked && (current.LastAttempt == nil || l.now().UTC().Sub(*current.LastAttempt) > lockoutWindow) {
		current.Blocked = false
		current.Attempts = 0
		current.LastAttempt = nil
		if err := l.store.Update(ctx, current); err != nil {
			return false, fmt.Errorf("persist unlock: %w", err)
		}
	}

	*user = current
	return current.Blocked, nil
}

// RecordFailure counts a failed attempt and blocks the account once the
// threshold is reached.
func (l *Lockout) RecordFailure(ctx context.Context, user *User) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	current, err := l.store.FindByID(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}

	now := l.now().UTC()
	current.Attempts++
	current.LastAttempt = &now
	if current.Attempts >= maxLoginAttempts {
		current.Blocked = true
	}

	if err := l.store.Update(ctx, current); err != nil {
		return fmt.Errorf("persist failed attempt: %w", err)
	}

	*user = current
	return nil
}

// RecordSuccess clears the attempt state unconditionally.
func (l *Lockout) RecordSuccess(ctx context.Context, user *User) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	current, err := l.store.FindByID(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}

	current.Attempts = 0
	current.LastAttempt = nil
	current.Blocked = false

	if err := l.store.Update(ctx, current); err != nil {
		return fmt.Errorf("persist attempt reset: %w", err)
	}

	*user = current
	return nil
}
