package auth

import "time"

// User is a credential record. Lockout fields (Blocked, Attempts,
// LastAttempt) are mutated only by the Lockout policy; the secret is mutated
// by password reset or by the upgrade-on-login path in Service.Login.
type User struct {
	ID          int64
	Email       string
	Name        string
	Secret      Secret
	Blocked     bool
	Attempts    int
	LastAttempt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PublicUser is the JSON shape exposed by the API. The secret never leaves
// the auth package.
type PublicUser struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
