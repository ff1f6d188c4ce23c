package entity

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

var (
	ErrChallengeExpired  = errors.New("challenge expired")
	ErrChallengeMismatch = errors.New("challenge mismatch")
)

// MaxChallengeCode is the largest OTP value; codes live in [0, MaxChallengeCode].
const MaxChallengeCode = 999999

// Challenge is a single-use numeric code gating a state transition.
type Challenge struct {
	Code      int
	ExpiresAt time.Time
}

// Check compares a submitted code against the challenge at instant now.
// Expiry is checked first so a correct code past its deadline still fails.
func (c Challenge) Check(submitted string, now time.Time) error {
	if !now.Before(c.ExpiresAt) {
		return ErrChallengeExpired
	}
	n, err := strconv.Atoi(strings.TrimSpace(submitted))
	if err != nil || n != c.Code {
		return ErrChallengeMismatch
	}
	return nil
}

// String renders the code zero-padded to six digits, as sent to users.
func (c Challenge) String() string {
	return FormatCode(c.Code)
}

// FormatCode renders an OTP value zero-padded to six digits.
func FormatCode(code int) string {
	s := strconv.Itoa(code)
	if len(s) < 6 {
		s = strings.Repeat("0", 6-len(s)) + s
	}
	return s
}
