package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/go-todo-auth/internal/domain/entity"
	"github.com/oksasatya/go-todo-auth/internal/domain/repository"
)

func newAccount(email, password string, expires time.Time) *entity.Account {
	a := &entity.Account{
		Email:        email,
		Name:         "A",
		Verification: entity.Unverified{Challenge: entity.Challenge{Code: 111111, ExpiresAt: expires}},
		Reset:        entity.ResetIdle{},
	}
	a.SetPassword(password)
	return a
}

func TestCreate_HashesAndHidesPassword(t *testing.T) {
	ctx := context.Background()
	r := NewAccountRepository(bcrypt.MinCost)

	a := newAccount("a@x.com", "pw123456", time.Now().Add(time.Hour))
	require.NoError(t, r.Create(ctx, a))
	require.NotEmpty(t, a.ID)
	assert.False(t, a.CreatedAt.IsZero())

	plain, err := r.FindByEmail(ctx, "A@X.com")
	require.NoError(t, err)
	assert.Empty(t, plain.PasswordHash, "default reads omit the secret")

	secret, err := r.FindByIDWithPassword(ctx, a.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "pw123456", secret.PasswordHash)
	assert.True(t, secret.CheckPassword("pw123456"))
}

func TestCreate_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	r := NewAccountRepository(bcrypt.MinCost)

	require.NoError(t, r.Create(ctx, newAccount("a@x.com", "pw123456", time.Now().Add(time.Hour))))
	err := r.Create(ctx, newAccount("A@x.com", "other123", time.Now().Add(time.Hour)))
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
	assert.Equal(t, 1, r.Len())
}

func TestSave_KeepsHashUnlessChanged(t *testing.T) {
	ctx := context.Background()
	r := NewAccountRepository(bcrypt.MinCost)
	a := newAccount("a@x.com", "pw123456", time.Now().Add(time.Hour))
	require.NoError(t, r.Create(ctx, a))

	before, err := r.FindByIDWithPassword(ctx, a.ID)
	require.NoError(t, err)

	// loaded without password, renamed, saved
	acc, err := r.FindByID(ctx, a.ID)
	require.NoError(t, err)
	acc.Name = "B"
	require.NoError(t, r.Save(ctx, acc))

	after, err := r.FindByIDWithPassword(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "B", after.Name)
	assert.Equal(t, before.PasswordHash, after.PasswordHash, "no re-hash without a new password")

	// saving a loaded-with-password account twice does not double hash
	require.NoError(t, r.Save(ctx, after))
	again, err := r.FindByIDWithPassword(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, again.CheckPassword("pw123456"))

	again.SetPassword("newpass1")
	require.NoError(t, r.Save(ctx, again))
	changed, err := r.FindByIDWithPassword(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, changed.CheckPassword("newpass1"))
	assert.False(t, changed.CheckPassword("pw123456"))
}

func TestSave_Unknown(t *testing.T) {
	r := NewAccountRepository(bcrypt.MinCost)
	err := r.Save(context.Background(), &entity.Account{ID: "nope"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestReadsAreCopies(t *testing.T) {
	ctx := context.Background()
	r := NewAccountRepository(bcrypt.MinCost)
	a := newAccount("a@x.com", "pw123456", time.Now().Add(time.Hour))
	a.Tasks = []entity.Task{{ID: "t1", Title: "x"}}
	require.NoError(t, r.Create(ctx, a))

	got, err := r.FindByID(ctx, a.ID)
	require.NoError(t, err)
	got.Tasks[0].Completed = true

	fresh, err := r.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, fresh.Tasks[0].Completed)
}

func TestFindByResetCode(t *testing.T) {
	ctx := context.Background()
	r := NewAccountRepository(bcrypt.MinCost)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	a := newAccount("a@x.com", "pw123456", now.Add(time.Hour))
	a.BeginReset(entity.Challenge{Code: 4242, ExpiresAt: now.Add(10 * time.Minute)})
	require.NoError(t, r.Create(ctx, a))

	got, err := r.FindByResetCode(ctx, 4242, now)
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)

	_, err = r.FindByResetCode(ctx, 4243, now)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = r.FindByResetCode(ctx, 4242, now.Add(10*time.Minute))
	assert.ErrorIs(t, err, repository.ErrNotFound, "expired codes never match")
}

func TestDeleteExpiredUnverified(t *testing.T) {
	ctx := context.Background()
	r := NewAccountRepository(bcrypt.MinCost)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	stale := newAccount("stale@x.com", "pw123456", now.Add(-time.Minute))
	fresh := newAccount("fresh@x.com", "pw123456", now.Add(time.Minute))
	verified := newAccount("ok@x.com", "pw123456", now.Add(-time.Hour))
	verified.MarkVerified(now.Add(-2 * time.Hour))
	for _, a := range []*entity.Account{stale, fresh, verified} {
		require.NoError(t, r.Create(ctx, a))
	}

	ids, err := r.DeleteExpiredUnverified(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, []string{stale.ID}, ids)
	assert.Equal(t, 2, r.Len())

	_, err = r.FindByID(ctx, stale.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	r := NewAccountRepository(bcrypt.MinCost)
	a := newAccount("a@x.com", "pw123456", time.Now().Add(time.Hour))
	require.NoError(t, r.Create(ctx, a))

	require.NoError(t, r.Delete(ctx, a.ID))
	assert.ErrorIs(t, r.Delete(ctx, a.ID), repository.ErrNotFound)
}
