package auth

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrUserNotFound = errors.New("user not found")

// UserStore is the credential store capability the service and the lockout
// policy depend on. Email lookups are exact-match, not normalized.
type UserStore interface {
	FindByID(ctx context.Context, id int64) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	Insert(ctx context.Context, user User) (User, error)
	Update(ctx context.Context, user User) error
}

// MemoryUserStore keeps users in a process-local slice. Identifiers are
// assigned as count+1 on insert.
type MemoryUserStore struct {
	mu    sync.RWMutex
	users []User
}

func NewMemoryUserStore(seed []User) *MemoryUserStore {
	return &MemoryUserStore{users: append([]User(nil), seed...)}
}

func (s *MemoryUserStore) FindByID(_ context.Context, id int64) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.ID == id {
			return user, nil
		}
	}
	return User{}, ErrUserNotFound
}

func (s *MemoryUserStore) FindByEmail(_ context.Context, email string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return User{}, ErrUserNotFound
}

func (s *MemoryUserStore) Insert(_ context.Context, user User) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user.ID = int64(len(s.users)) + 1
	s.users = append(s.users, user)
	return user, nil
}

func (s *MemoryUserStore) Update(_ context.Context, user User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].ID == user.ID {
			s.users[i] = user
			return nil
		}
	}
	return ErrUserNotFound
}

// SeedUsers returns the demo accounts. Secrets are kept plaintext on purpose
// so the upgrade-on-login path runs against realistic data.
func SeedUsers() []User {
	return []User{
		demoUser(1, "brunna@example.com", "Brunna Silva", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		demoUser(2, "maria@example.com", "Maria Santos", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)),
		demoUser(3, "joao@example.com", "João Oliveira", time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)),
	}
}

const demoPassword = "123456"

func demoUser(id int64, email, name string, createdAt time.Time) User {
	return User{
		ID:        id,
		Email:     email,
		Name:      name,
		Secret:    PlaintextSecret(demoPassword),
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}
