package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("demo", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "demo", hash)

	assert.True(t, VerifyPassword(hash, "demo"))
	assert.False(t, VerifyPassword(hash, "wrong"))
	assert.False(t, VerifyPassword("not-a-hash", "demo"))
}

func TestHashPasswordDistinctSalts(t *testing.T) {
	h1, err := HashPassword("demo", bcrypt.MinCost)
	require.NoError(t, err)
	h2, err := HashPassword("demo", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}
