package postgres

import (
	"encoding/json"
	"time"

	"github.com/oksasatya/go-todo-auth/internal/domain/entity"
)

// accountRow mirrors the accounts table. Nullable columns are pointers.
type accountRow struct {
	ID                string
	Email             string
	Name              string
	PasswordHash      *string
	AvatarPublicID    *string
	AvatarURL         *string
	Verified          bool
	VerifiedAt        *time.Time
	OTP               *int32
	OTPExpiresAt      *time.Time
	ResetOTP          *int32
	ResetOTPExpiresAt *time.Time
	Tasks             []byte
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (r *accountRow) toEntity() (*entity.Account, error) {
	a := &entity.Account{
		ID:        r.ID,
		Email:     r.Email,
		Name:      r.Name,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
		Reset:     entity.ResetIdle{},
	}
	if r.PasswordHash != nil {
		a.PasswordHash = *r.PasswordHash
	}
	if r.AvatarPublicID != nil && r.AvatarURL != nil {
		a.Avatar = entity.NewAvatar(*r.AvatarPublicID, *r.AvatarURL)
	}
	switch {
	case r.Verified:
		v := entity.Verified{}
		if r.VerifiedAt != nil {
			v.At = *r.VerifiedAt
		}
		a.Verification = v
	case r.OTP != nil && r.OTPExpiresAt != nil:
		a.Verification = entity.Unverified{Challenge: entity.Challenge{Code: int(*r.OTP), ExpiresAt: *r.OTPExpiresAt}}
	default:
		// unverified row without a challenge: treat as an already expired one
		a.Verification = entity.Unverified{}
	}
	if r.ResetOTP != nil && r.ResetOTPExpiresAt != nil {
		a.Reset = entity.ResetPending{Challenge: entity.Challenge{Code: int(*r.ResetOTP), ExpiresAt: *r.ResetOTPExpiresAt}}
	}
	if len(r.Tasks) > 0 {
		if err := json.Unmarshal(r.Tasks, &a.Tasks); err != nil {
			return nil, err
		}
	}
	if a.Tasks == nil {
		a.Tasks = []entity.Task{}
	}
	return a, nil
}

func rowFromEntity(a *entity.Account) (*accountRow, error) {
	r := &accountRow{
		ID:        a.ID,
		Email:     a.Email,
		Name:      a.Name,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
	if a.PasswordHash != "" {
		h := a.PasswordHash
		r.PasswordHash = &h
	}
	if a.Avatar != nil {
		id, url := a.Avatar.PublicID, a.Avatar.URL
		r.AvatarPublicID, r.AvatarURL = &id, &url
	}
	switch v := a.Verification.(type) {
	case entity.Verified:
		r.Verified = true
		if !v.At.IsZero() {
			at := v.At
			r.VerifiedAt = &at
		}
	case entity.Unverified:
		code := int32(v.Challenge.Code)
		exp := v.Challenge.ExpiresAt
		r.OTP, r.OTPExpiresAt = &code, &exp
	}
	if p, ok := a.Reset.(entity.ResetPending); ok {
		code := int32(p.Challenge.Code)
		exp := p.Challenge.ExpiresAt
		r.ResetOTP, r.ResetOTPExpiresAt = &code, &exp
	}
	tasks := a.Tasks
	if tasks == nil {
		tasks = []entity.Task{}
	}
	b, err := json.Marshal(tasks)
	if err != nil {
		return nil, err
	}
	r.Tasks = b
	return r, nil
}
