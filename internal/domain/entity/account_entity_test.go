package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestNewAvatar_BothOrNeither(t *testing.T) {
	assert.Nil(t, NewAvatar("", "https://x/y.png"))
	assert.Nil(t, NewAvatar("id", ""))
	assert.Equal(t, &Avatar{PublicID: "id", URL: "u"}, NewAvatar("id", "u"))
}

func TestAccountPassword_HashedOnce(t *testing.T) {
	var a Account
	a.SetPassword("pw123456")
	require.True(t, a.PasswordChanged())

	require.NoError(t, a.HashPendingPassword(bcrypt.MinCost))
	hash := a.PasswordHash
	assert.NotEqual(t, "pw123456", hash)
	assert.False(t, a.PasswordChanged())
	assert.True(t, a.CheckPassword("pw123456"))
	assert.False(t, a.CheckPassword("nope"))

	// nothing staged: the hash is left alone
	require.NoError(t, a.HashPendingPassword(bcrypt.MinCost))
	assert.Equal(t, hash, a.PasswordHash)
}

func TestAccountPassword_EmptyRejected(t *testing.T) {
	var a Account
	a.SetPassword("")
	assert.Error(t, a.HashPendingPassword(bcrypt.MinCost))
}

func TestCheckPassword_WithoutHash(t *testing.T) {
	a := Account{}
	assert.False(t, a.CheckPassword(""))
}

func TestAccountStateTransitions(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ch := Challenge{Code: 1, ExpiresAt: now.Add(time.Minute)}
	a := Account{Verification: Unverified{Challenge: ch}, Reset: ResetIdle{}}

	assert.False(t, a.IsVerified())
	got, ok := a.VerificationChallenge()
	require.True(t, ok)
	assert.Equal(t, ch, got)

	a.MarkVerified(now)
	assert.True(t, a.IsVerified())
	_, ok = a.VerificationChallenge()
	assert.False(t, ok, "challenge is gone once verified")

	_, ok = a.ResetChallenge()
	assert.False(t, ok)
	a.BeginReset(ch)
	got, ok = a.ResetChallenge()
	require.True(t, ok)
	assert.Equal(t, ch, got)
	a.CompleteReset()
	_, ok = a.ResetChallenge()
	assert.False(t, ok)
}

func TestTasks(t *testing.T) {
	a := Account{Tasks: []Task{{ID: "a"}, {ID: "b"}, {ID: "c"}}}

	tk := a.FindTask("b")
	require.NotNil(t, tk)
	tk.Completed = true
	assert.True(t, a.Tasks[1].Completed, "FindTask points into the list")
	assert.Nil(t, a.FindTask("zz"))

	assert.True(t, a.RemoveTask("b"))
	assert.Equal(t, []string{"a", "c"}, []string{a.Tasks[0].ID, a.Tasks[1].ID})
	assert.False(t, a.RemoveTask("b"))
	assert.Len(t, a.Tasks, 2)
}
