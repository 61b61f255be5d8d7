package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenTTL = 24 * time.Hour

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account locked")
	ErrEmailTaken         = errors.New("email already registered")
)

type Service struct {
	store     UserStore
	lockout   *Lockout
	jwtSecret []byte
}

func NewService(store UserStore, lockout *Lockout, jwtSecret string) *Service {
	return &Service{
		store:     store,
		lockout:   lockout,
		jwtSecret: []byte(jwtSecret),
	}
}

// Login authenticates a user and returns a signed session token plus the
// user's public fields. An unknown email and a wrong password both map to
// ErrInvalidCredentials so account existence is not leaked.
func (s *Service) Login(ctx context.Context, email, password string) (string, PublicUser, error) {
	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", PublicUser{}, ErrInvalidCredentials
		}
		return "", PublicUser{}, err
	}

	blocked, err := s.lockout.IsBlocked(ctx, &user)
	if err != nil {
		return "", PublicUser{}, err
	}
	if blocked {
		return "", PublicUser{}, ErrAccountLocked
	}

	if !user.Secret.Verify(password) {
		if err := s.lockout.RecordFailure(ctx, &user); err != nil {
			return "", PublicUser{}, err
		}
		return "", PublicUser{}, ErrInvalidCredentials
	}

	// Legacy plaintext secrets upgrade to bcrypt on their first successful
	// use. Re-read before writing: the snapshot predates the hash and must
	// not clobber lockout fields written in the meantime.
	if !user.Secret.Hashed() {
		hashed, err := HashSecret(password)
		if err != nil {
			return "", PublicUser{}, err
		}
		user, err = s.store.FindByID(ctx, user.ID)
		if err != nil {
			return "", PublicUser{}, err
		}
		user.Secret = hashed
		user.UpdatedAt = time.Now().UTC()
		if err := s.store.Update(ctx, user); err != nil {
			return "", PublicUser{}, fmt.Errorf("persist upgraded secret: %w", err)
		}
	}

	if err := s.lockout.RecordSuccess(ctx, &user); err != nil {
		return "", PublicUser{}, err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return "", PublicUser{}, err
	}

	return token, user.Public(), nil
}

// Register creates a new account with a bcrypt-hashed secret.
func (s *Service) Register(ctx context.Context, email, password, name string) (PublicUser, error) {
	if _, err := s.store.FindByEmail(ctx, email); err == nil {
		return PublicUser{}, ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return PublicUser{}, err
	}

	secret, err := HashSecret(password)
	if err != nil {
		return PublicUser{}, err
	}

	now := time.Now().UTC()
	user, err := s.store.Insert(ctx, User{
		Email:     email,
		Name:      name,
		Secret:    secret,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return PublicUser{}, fmt.Errorf("insert user: %w", err)
	}

	return user.Public(), nil
}

// ResetPassword replaces the stored secret with the hashed form of the new
// one. It does not touch the lockout state.
func (s *Service) ResetPassword(ctx context.Context, email, newPassword string) error {
	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	secret, err := HashSecret(newPassword)
	if err != nil {
		return err
	}

	user.Secret = secret
	user.UpdatedAt = time.Now().UTC()
	if err := s.store.Update(ctx, user); err != nil {
		return fmt.Errorf("persist new secret: %w", err)
	}
	return nil
}

func (s *Service) issueToken(user User) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	encoded, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign jwt: %w", err)
	}
	return encoded, nil
}
