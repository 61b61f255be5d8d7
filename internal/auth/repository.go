package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQLUserStore is the persistent UserStore implementation, used when the
// service runs with STORE_DRIVER=postgres.
type SQLUserStore struct {
	db *sql.DB
}

func NewSQLUserStore(db *sql.DB) *SQLUserStore {
	return &SQLUserStore{db: db}
}

const userColumns = `id, email, name, secret, secret_hashed, blocked, login_attempts, last_attempt_at, created_at, updated_at`

func (s *SQLUserStore) FindByID(ctx context.Context, id int64) (User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (s *SQLUserStore) FindByEmail(ctx context.Context, email string) (User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (s *SQLUserStore) Insert(ctx context.Context, user User) (User, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (email, name, secret, secret_hashed, blocked, login_attempts, last_attempt_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`, user.Email, user.Name, user.Secret.Value(), user.Secret.Hashed(), user.Blocked, user.Attempts, user.LastAttempt, user.CreatedAt, user.UpdatedAt).
		Scan(&user.ID)
	if err != nil {
		return User{}, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

func (s *SQLUserStore) Update(ctx context.Context, user User) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET email = $2, name = $3, secret = $4, secret_hashed = $5, blocked = $6, login_attempts = $7, last_attempt_at = $8, updated_at = $9
		WHERE id = $1
	`, user.ID, user.Email, user.Name, user.Secret.Value(), user.Secret.Hashed(), user.Blocked, user.Attempts, user.LastAttempt, user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func scanUser(row *sql.Row) (User, error) {
	var (
		user        User
		secret      string
		hashed      bool
		lastAttempt sql.NullTime
	)

	err := row.Scan(&user.ID, &user.Email, &user.Name, &secret, &hashed, &user.Blocked, &user.Attempts, &lastAttempt, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, fmt.Errorf("scan user: %w", err)
	}

	if hashed {
		user.Secret = HashedSecret(secret)
	} else {
		user.Secret = PlaintextSecret(secret)
	}
	if lastAttempt.Valid {
		t := lastAttempt.Time
		user.LastAttempt = &t
	}
	return user, nil
}
