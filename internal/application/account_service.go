package application

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-todo-auth/internal/domain/entity"
	repo "github.com/oksasatya/go-todo-auth/internal/domain/repository"
	"github.com/oksasatya/go-todo-auth/pkg/helpers"
)

const (
	minPasswordLen = 8
	// bcrypt only reads the first 72 bytes
	maxPasswordLen = 72
)

func checkPasswordLen(pw string) error {
	switch {
	case len(pw) < minPasswordLen:
		return ErrPasswordTooShort
	case len(pw) > maxPasswordLen:
		return ErrPasswordTooLong
	}
	return nil
}

// Service drives the account lifecycle: registration, verification, login,
// password change and reset, profile and task mutations.
type Service struct {
	Repo     repo.AccountRepository
	Tokens   TokenIssuer
	Images   ImageHost
	Notifier Notifier
	Index    AccountIndex // optional
	Logger   *logrus.Logger

	VerifyChallenges ChallengeGenerator
	ResetChallenges  ChallengeGenerator
	Now              func() time.Time
}

// Deps groups the collaborators handed to NewService.
type Deps struct {
	Repo      repo.AccountRepository
	Tokens    TokenIssuer
	Images    ImageHost
	Notifier  Notifier
	Index     AccountIndex
	Logger    *logrus.Logger
	OTPExpire time.Duration
	// ResetExpire defaults to ResetChallengeTTL.
	ResetExpire time.Duration
	Now         func() time.Time
}

func NewService(d Deps) *Service {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	resetTTL := d.ResetExpire
	if resetTTL <= 0 {
		resetTTL = ResetChallengeTTL
	}
	logger := d.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{
		Repo:             d.Repo,
		Tokens:           d.Tokens,
		Images:           d.Images,
		Notifier:         d.Notifier,
		Index:            d.Index,
		Logger:           logger,
		VerifyChallenges: NewChallengeGenerator(d.OTPExpire, now),
		ResetChallenges:  NewChallengeGenerator(resetTTL, now),
		Now:              now,
	}
}

// AuthResult is an account together with a freshly issued token.
type AuthResult struct {
	Account   *entity.Account
	Token     string
	ExpiresAt time.Time
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Avatar   *Upload
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an unverified account, mails its OTP and signs a token.
// Nothing is kept when any step fails.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	email := normalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)
	if name == "" || email == "" || in.Password == "" {
		return nil, ErrMissingRegisterFields
	}
	if err := checkPasswordLen(in.Password); err != nil {
		return nil, err
	}

	if _, err := s.Repo.FindByEmail(ctx, email); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, upstream(err)
	}

	ch, err := s.VerifyChallenges.Generate()
	if err != nil {
		return nil, upstream(err)
	}

	acc := &entity.Account{
		Email:        email,
		Name:         name,
		Verification: entity.Unverified{Challenge: ch},
		Reset:        entity.ResetIdle{},
		Tasks:        []entity.Task{},
	}
	acc.SetPassword(in.Password)

	if in.Avatar != nil {
		avatar, err := s.uploadAvatar(ctx, in.Avatar)
		if err != nil {
			return nil, err
		}
		acc.Avatar = avatar
	}

	if err := s.Repo.Create(ctx, acc); err != nil {
		s.discardAvatar(ctx, acc.Avatar)
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, ErrUserExists
		}
		return nil, upstream(err)
	}

	if err := s.Notifier.Notify(ctx, email, "Verify your account", "Your OTP is "+ch.String()); err != nil {
		s.rollbackRegistration(ctx, acc)
		return nil, upstream(err)
	}

	token, exp, err := s.Tokens.Issue(acc.ID)
	if err != nil {
		s.rollbackRegistration(ctx, acc)
		return nil, upstream(err)
	}

	acc.PasswordHash = ""
	s.index(ctx, acc)
	counters.Add(metricRegistered, 1)
	helpers.LogInfo(s.Logger, "account registered", logrus.Fields{"account_id": acc.ID})
	return &AuthResult{Account: acc, Token: token, ExpiresAt: exp}, nil
}

func (s *Service) rollbackRegistration(ctx context.Context, acc *entity.Account) {
	if err := s.Repo.Delete(ctx, acc.ID); err != nil {
		s.Logger.WithError(err).WithField("account_id", acc.ID).Error("rollback registration failed")
	}
	s.discardAvatar(ctx, acc.Avatar)
}

// Verify consumes the account's verification challenge.
func (s *Service) Verify(ctx context.Context, accountID, otp string) (*AuthResult, error) {
	acc, err := s.load(ctx, accountID, false)
	if err != nil {
		return nil, err
	}
	now := s.Now()
	ch, ok := acc.VerificationChallenge()
	if !ok {
		return nil, ErrInvalidOTP
	}
	if err := ch.Check(otp, now); err != nil {
		return nil, ErrInvalidOTP
	}

	acc.MarkVerified(now)
	if err := s.Repo.Save(ctx, acc); err != nil {
		return nil, upstream(err)
	}

	token, exp, err := s.Tokens.Issue(acc.ID)
	if err != nil {
		return nil, upstream(err)
	}
	s.index(ctx, acc)
	counters.Add(metricVerified, 1)
	return &AuthResult{Account: acc, Token: token, ExpiresAt: exp}, nil
}

// ResendVerification replaces the verification challenge of an unverified
// account and mails the new code.
func (s *Service) ResendVerification(ctx context.Context, accountID string) error {
	acc, err := s.load(ctx, accountID, false)
	if err != nil {
		return err
	}
	if acc.IsVerified() {
		return ErrAccountVerified
	}
	ch, err := s.VerifyChallenges.Generate()
	if err != nil {
		return upstream(err)
	}
	if err := s.Notifier.Notify(ctx, acc.Email, "Verify your account", "Your OTP is "+ch.String()); err != nil {
		return upstream(err)
	}
	acc.Verification = entity.Unverified{Challenge: ch}
	if err := s.Repo.Save(ctx, acc); err != nil {
		return upstream(err)
	}
	return nil
}

// Login checks credentials. Unknown email and wrong password are reported identically.
func (s *Service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrMissingLoginFields
	}
	acc, err := s.Repo.FindByEmailWithPassword(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			counters.Add(metricLoginFailed, 1)
			return nil, ErrBadLogin
		}
		return nil, upstream(err)
	}
	if !acc.CheckPassword(password) {
		counters.Add(metricLoginFailed, 1)
		return nil, ErrBadLogin
	}
	acc.PasswordHash = ""

	token, exp, err := s.Tokens.Issue(acc.ID)
	if err != nil {
		return nil, upstream(err)
	}
	counters.Add(metricLoginOK, 1)
	return &AuthResult{Account: acc, Token: token, ExpiresAt: exp}, nil
}

// ChangePassword replaces the password after checking the current one.
func (s *Service) ChangePassword(ctx context.Context, accountID, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return ErrMissingPasswordFields
	}
	acc, err := s.load(ctx, accountID, true)
	if err != nil {
		return err
	}
	if !acc.CheckPassword(oldPassword) {
		return ErrOldPasswordIncorrect
	}
	if err := checkPasswordLen(newPassword); err != nil {
		return err
	}
	acc.SetPassword(newPassword)
	if err := s.Repo.Save(ctx, acc); err != nil {
		return upstream(err)
	}
	helpers.LogInfo(s.Logger, "password changed", logrus.Fields{"account_id": acc.ID})
	return nil
}

// ForgotPassword starts a reset: the code is mailed first and persisted after.
// An unknown email is reported as such.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return ErrUnknownEmail
	}
	acc, err := s.Repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUnknownEmail
		}
		return upstream(err)
	}
	ch, err := s.ResetChallenges.Generate()
	if err != nil {
		return upstream(err)
	}
	msg := "Your OTP for reseting the password is " + ch.String() + ". If you didn't request this, please ignore it."
	if err := s.Notifier.Notify(ctx, acc.Email, "Request for Reseting Password", msg); err != nil {
		return upstream(err)
	}
	acc.BeginReset(ch)
	if err := s.Repo.Save(ctx, acc); err != nil {
		return upstream(err)
	}
	return nil
}

// ResetPassword consumes a reset challenge and sets the new password.
func (s *Service) ResetPassword(ctx context.Context, otp, password string) error {
	code, ok := parseCode(otp)
	if !ok {
		return ErrInvalidResetOTP
	}
	now := s.Now()
	acc, err := s.Repo.FindByResetCode(ctx, code, now)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrInvalidResetOTP
		}
		return upstream(err)
	}
	if ch, ok := acc.ResetChallenge(); !ok || ch.Check(otp, now) != nil {
		return ErrInvalidResetOTP
	}
	if password == "" {
		return ErrMissingResetPassword
	}
	if err := checkPasswordLen(password); err != nil {
		return err
	}
	acc.SetPassword(password)
	acc.CompleteReset()
	if err := s.Repo.Save(ctx, acc); err != nil {
		return upstream(err)
	}
	counters.Add(metricPasswordReset, 1)
	helpers.LogInfo(s.Logger, "password reset", logrus.Fields{"account_id": acc.ID})
	return nil
}

func parseCode(otp string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(otp))
	if err != nil || n < 0 || n > entity.MaxChallengeCode {
		return 0, false
	}
	return n, true
}

func (s *Service) GetProfile(ctx context.Context, accountID string) (*entity.Account, error) {
	return s.load(ctx, accountID, false)
}

type UpdateProfileInput struct {
	Name   string
	Avatar *Upload
}

// UpdateProfile renames the account and/or replaces its avatar. Replacement
// destroys the old image before uploading the new one; if the upload then
// fails the account is saved without an avatar and the error is returned.
func (s *Service) UpdateProfile(ctx context.Context, accountID string, in UpdateProfileInput) (*entity.Account, error) {
	acc, err := s.load(ctx, accountID, false)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		acc.Name = name
	}
	if in.Avatar != nil {
		if acc.Avatar != nil {
			if err := s.Images.Destroy(ctx, acc.Avatar.PublicID); err != nil {
				return nil, upstream(err)
			}
		}
		avatar, upErr := s.uploadAvatar(ctx, in.Avatar)
		if upErr != nil {
			if acc.Avatar != nil {
				acc.Avatar = nil
				if err := s.Repo.Save(ctx, acc); err != nil {
					s.Logger.WithError(err).WithField("account_id", acc.ID).Error("clear destroyed avatar failed")
				}
			}
			return nil, upErr
		}
		acc.Avatar = avatar
	}
	if err := s.Repo.Save(ctx, acc); err != nil {
		return nil, upstream(err)
	}
	s.index(ctx, acc)
	return acc, nil
}

// SearchAccounts queries the profile directory; without one it finds nothing.
func (s *Service) SearchAccounts(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.Index == nil || strings.TrimSpace(q) == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	res, err := s.Index.Search(ctx, q, size)
	if err != nil {
		return nil, upstream(err)
	}
	return res, nil
}

// ReapUnverified deletes accounts whose verification window has passed
// without a successful verify. It returns how many were removed.
func (s *Service) ReapUnverified(ctx context.Context) (int, error) {
	ids, err := s.Repo.DeleteExpiredUnverified(ctx, s.Now())
	if err != nil {
		return 0, upstream(err)
	}
	if s.Index != nil {
		for _, id := range ids {
			if err := s.Index.Remove(ctx, id); err != nil {
				s.Logger.WithError(err).WithField("account_id", id).Warn("es remove failed")
			}
		}
	}
	counters.Add(metricReaped, int64(len(ids)))
	return len(ids), nil
}

func (s *Service) load(ctx context.Context, accountID string, withPassword bool) (*entity.Account, error) {
	var (
		acc *entity.Account
		err error
	)
	if withPassword {
		acc, err = s.Repo.FindByIDWithPassword(ctx, accountID)
	} else {
		acc, err = s.Repo.FindByID(ctx, accountID)
	}
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, upstream(err)
	}
	return acc, nil
}

func (s *Service) uploadAvatar(ctx context.Context, up *Upload) (*entity.Avatar, error) {
	id, url, err := s.Images.Upload(ctx, up.Reader, up.Filename, up.ContentType)
	if err != nil {
		return nil, upstream(err)
	}
	avatar := entity.NewAvatar(id, url)
	if avatar == nil {
		return nil, upstream(errors.New("image host returned an incomplete reference"))
	}
	return avatar, nil
}

func (s *Service) discardAvatar(ctx context.Context, avatar *entity.Avatar) {
	if avatar == nil {
		return
	}
	if err := s.Images.Destroy(ctx, avatar.PublicID); err != nil {
		s.Logger.WithError(err).WithField("public_id", avatar.PublicID).Warn("destroy avatar failed")
	}
}

func (s *Service) index(ctx context.Context, acc *entity.Account) {
	if s.Index == nil {
		return
	}
	doc := map[string]any{
		"id":         acc.ID,
		"email":      acc.Email,
		"name":       acc.Name,
		"verified":   acc.IsVerified(),
		"created_at": acc.CreatedAt.Format(time.RFC3339Nano),
	}
	if acc.Avatar != nil {
		doc["avatar_url"] = acc.Avatar.URL
	}
	if err := s.Index.Put(ctx, acc.ID, doc); err != nil {
		s.Logger.WithError(err).WithField("account_id", acc.ID).Warn("es index failed")
	}
}
