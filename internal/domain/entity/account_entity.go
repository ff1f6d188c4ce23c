package entity

import (
	"errors"
	"time"

	"github.com/oksasatya/go-todo-auth/pkg/helpers"
)

// Account is the aggregate root for the account domain.
// The password is kept as a bcrypt hash in PasswordHash; a plaintext value is
// only ever held in memory between SetPassword and the next store write.
type Account struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Avatar       *Avatar
	Verification VerificationState
	Reset        ResetState
	Tasks        []Task
	CreatedAt    time.Time
	UpdatedAt    time.Time

	pendingPassword string
	passwordSet     bool
}

// Avatar references an image held by the image host. Both fields are always set.
type Avatar struct {
	PublicID string `json:"public_id"`
	URL      string `json:"url"`
}

// NewAvatar returns nil unless both halves of the reference are present.
func NewAvatar(publicID, url string) *Avatar {
	if publicID == "" || url == "" {
		return nil
	}
	return &Avatar{PublicID: publicID, URL: url}
}

// SetPassword stages a new plaintext password. It is hashed by the store on
// the next Create or Save.
func (a *Account) SetPassword(plain string) {
	a.pendingPassword = plain
	a.passwordSet = true
}

// PasswordChanged reports whether a password is waiting to be hashed.
func (a *Account) PasswordChanged() bool { return a.passwordSet }

// HashPendingPassword hashes the staged password, if any, and clears it.
// Calling it again without a new SetPassword is a no-op.
func (a *Account) HashPendingPassword(cost int) error {
	if !a.passwordSet {
		return nil
	}
	if a.pendingPassword == "" {
		return errors.New("empty password")
	}
	hash, err := helpers.HashPasswordCost(a.pendingPassword, cost)
	if err != nil {
		return err
	}
	a.PasswordHash = hash
	a.pendingPassword = ""
	a.passwordSet = false
	return nil
}

// CheckPassword compares plain against the stored hash. It is false when the
// account was loaded without its password.
func (a *Account) CheckPassword(plain string) bool {
	if a.PasswordHash == "" {
		return false
	}
	return helpers.CompareHashAndPassword(a.PasswordHash, plain)
}

// IsVerified reports whether the account completed email verification.
func (a *Account) IsVerified() bool {
	_, ok := a.Verification.(Verified)
	return ok
}

// VerificationChallenge returns the active verification challenge, if any.
func (a *Account) VerificationChallenge() (Challenge, bool) {
	if u, ok := a.Verification.(Unverified); ok {
		return u.Challenge, true
	}
	return Challenge{}, false
}

// ResetChallenge returns the active password-reset challenge, if any.
func (a *Account) ResetChallenge() (Challenge, bool) {
	if p, ok := a.Reset.(ResetPending); ok {
		return p.Challenge, true
	}
	return Challenge{}, false
}

// MarkVerified moves the account to Verified, dropping the challenge.
func (a *Account) MarkVerified(at time.Time) {
	a.Verification = Verified{At: at}
}

// BeginReset moves the account to ResetPending with a fresh challenge.
func (a *Account) BeginReset(ch Challenge) {
	a.Reset = ResetPending{Challenge: ch}
}

// CompleteReset returns the account to the normal reset state.
func (a *Account) CompleteReset() {
	a.Reset = ResetIdle{}
}
