package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-todo-auth/internal/domain/entity"
)

func TestAccountRow_UnverifiedWithReset(t *testing.T) {
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	in := &entity.Account{
		ID:           "3f0a2c52-6c4f-4e43-9a7b-0d1d2d6f8f10",
		Email:        "a@x.com",
		Name:         "A",
		PasswordHash: "$2a$hash",
		Avatar:       &entity.Avatar{PublicID: "todoApp/1.png", URL: "https://cdn/1.png"},
		Verification: entity.Unverified{Challenge: entity.Challenge{Code: 12, ExpiresAt: now.Add(5 * time.Minute)}},
		Reset:        entity.ResetPending{Challenge: entity.Challenge{Code: 999999, ExpiresAt: now.Add(10 * time.Minute)}},
		Tasks:        []entity.Task{{ID: "t1", Title: "t", Description: "d", CreatedAt: now}},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	row, err := rowFromEntity(in)
	require.NoError(t, err)
	assert.False(t, row.Verified)
	require.NotNil(t, row.OTP)
	assert.EqualValues(t, 12, *row.OTP)
	require.NotNil(t, row.ResetOTP)
	assert.EqualValues(t, 999999, *row.ResetOTP)

	out, err := row.toEntity()
	require.NoError(t, err)
	assert.Equal(t, in.Verification, out.Verification)
	assert.Equal(t, in.Reset, out.Reset)
	assert.Equal(t, in.Avatar, out.Avatar)
	assert.Equal(t, in.PasswordHash, out.PasswordHash)
	require.Len(t, out.Tasks, 1)
	assert.Equal(t, "t1", out.Tasks[0].ID)
	assert.True(t, out.Tasks[0].CreatedAt.Equal(now))
}

func TestAccountRow_VerifiedClearsChallenge(t *testing.T) {
	at := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	in := &entity.Account{ID: "x", Verification: entity.Verified{At: at}, Reset: entity.ResetIdle{}}

	row, err := rowFromEntity(in)
	require.NoError(t, err)
	assert.True(t, row.Verified)
	assert.Nil(t, row.OTP)
	assert.Nil(t, row.OTPExpiresAt)
	assert.Nil(t, row.ResetOTP)
	assert.Nil(t, row.PasswordHash, "an unloaded secret is not written")
	assert.Nil(t, row.AvatarPublicID)
	assert.JSONEq(t, `[]`, string(row.Tasks))

	out, err := row.toEntity()
	require.NoError(t, err)
	assert.True(t, out.IsVerified())
	assert.Equal(t, entity.ResetIdle{}, out.Reset)
	assert.NotNil(t, out.Tasks)
	assert.Nil(t, out.Avatar)
}

func TestAccountRow_PartialAvatarIgnored(t *testing.T) {
	id := "only-id"
	row := &accountRow{ID: "x", AvatarPublicID: &id, Verified: true}
	out, err := row.toEntity()
	require.NoError(t, err)
	assert.Nil(t, out.Avatar)
}

func TestIsUUID(t *testing.T) {
	assert.True(t, isUUID("3f0a2c52-6c4f-4e43-9a7b-0d1d2d6f8f10"))
	assert.False(t, isUUID("not-a-uuid"))
}
