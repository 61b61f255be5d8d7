package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaintextSecretVerify(t *testing.T) {
	secret := PlaintextSecret("123456")

	assert.False(t, secret.Hashed())
	assert.True(t, secret.Verify("123456"))
	assert.False(t, secret.Verify("wrong"))
	assert.False(t, secret.Verify(""))
}

func TestHashSecretRoundTrip(t *testing.T) {
	secret, err := HashSecret("123456")
	require.NoError(t, err)

	assert.True(t, secret.Hashed())
	assert.NotEqual(t, "123456", secret.Value())
	assert.True(t, secret.Verify("123456"))
	assert.False(t, secret.Verify("wrong"))
}

func TestHashedSecretFromStoredValue(t *testing.T) {
	original, err := HashSecret("segredo")
	require.NoError(t, err)

	// Rehydrating from the persisted form keeps verification working.
	restored := HashedSecret(original.Value())
	assert.True(t, restored.Hashed())
	assert.True(t, restored.Verify("segredo"))
	assert.False(t, restored.Verify("outro"))
}
