package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCompare(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)

	assert.True(t, CompareHashAndPassword(hash, "secret123"))
	assert.False(t, CompareHashAndPassword(hash, "wrong"))
	assert.False(t, CompareHashAndPassword("not-a-hash", "secret123"))
}

func TestGravatarURL(t *testing.T) {
	// Hashing is over the trimmed, lowercased address.
	a := GravatarURL("Alice@Example.COM ", 250)
	b := GravatarURL("alice@example.com", 250)
	assert.Equal(t, a, b)
	assert.Contains(t, a, "gravatar.com/avatar/")
	assert.Contains(t, a, "s=250")
}
