package auth

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Secret is a stored user secret in one of two representations: a legacy
// plaintext value carried over from the mock fixtures, or a bcrypt hash.
// Verification dispatches on the representation; no prefix sniffing.
type Secret struct {
	hashed bool
	value  string
}

func PlaintextSecret(value string) Secret {
	return Secret{value: value}
}

func HashedSecret(hash string) Secret {
	return Secret{hashed: true, value: hash}
}

// HashSecret produces the bcrypt representation of a plaintext secret.
func HashSecret(plain string) (Secret, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return Secret{}, fmt.Errorf("hash secret: %w", err)
	}
	return Secret{hashed: true, value: string(hash)}, nil
}

func (s Secret) Hashed() bool { return s.hashed }

// Value returns the stored form, either the bcrypt hash or the legacy
// plaintext. Used only by stores for persistence.
func (s Secret) Value() string { return s.value }

// Verify reports whether candidate matches the stored secret.
func (s Secret) Verify(candidate string) bool {
	if s.hashed {
		return bcrypt.CompareHashAndPassword([]byte(s.value), []byte(candidate)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(s.value), []byte(candidate)) == 1
}
