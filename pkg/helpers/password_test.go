package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPasswordCost(t *testing.T) {
	hash, err := HashPasswordCost("pw123456", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "pw123456", hash)
	assert.True(t, CompareHashAndPassword(hash, "pw123456"))
	assert.False(t, CompareHashAndPassword(hash, "pw1234567"))

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
}

func TestHashPassword_DefaultCost(t *testing.T) {
	if testing.Short() {
		t.Skip("bcrypt cost 12 is slow")
	}
	hash, err := HashPassword("pw123456")
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, PasswordCost, cost)
}
