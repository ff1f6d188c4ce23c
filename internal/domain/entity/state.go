package entity

import "time"

// VerificationState is either Unverified or Verified.
type VerificationState interface {
	verificationState()
}

// Unverified accounts always carry the challenge they must answer.
type Unverified struct {
	Challenge Challenge
}

// Verified accounts carry no challenge.
type Verified struct {
	At time.Time
}

func (Unverified) verificationState() {}
func (Verified) verificationState()   {}

// ResetState is either ResetIdle or ResetPending.
type ResetState interface {
	resetState()
}

type ResetIdle struct{}

type ResetPending struct {
	Challenge Challenge
}

func (ResetIdle) resetState()    {}
func (ResetPending) resetState() {}
