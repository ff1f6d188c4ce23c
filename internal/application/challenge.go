package application

import (
	"time"

	"github.com/oksasatya/go-todo-auth/internal/domain/entity"
	"github.com/oksasatya/go-todo-auth/pkg/helpers"
)

// ResetChallengeTTL is the fixed lifetime of a password-reset code.
const ResetChallengeTTL = 10 * time.Minute

// ChallengeGenerator issues OTP challenges that expire TTL after issuance.
type ChallengeGenerator struct {
	TTL time.Duration
	Now func() time.Time
}

func NewChallengeGenerator(ttl time.Duration, now func() time.Time) ChallengeGenerator {
	if now == nil {
		now = time.Now
	}
	return ChallengeGenerator{TTL: ttl, Now: now}
}

func (g ChallengeGenerator) Generate() (entity.Challenge, error) {
	code, err := helpers.GenOTPCode()
	if err != nil {
		return entity.Challenge{}, err
	}
	return entity.Challenge{Code: code, ExpiresAt: g.Now().Add(g.TTL)}, nil
}
