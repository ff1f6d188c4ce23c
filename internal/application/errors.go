package application

import "errors"

// Error kinds. Handlers map these to HTTP status codes.
var (
	ErrConflict                  = errors.New("conflict")
	ErrInvalidCredentials        = errors.New("invalid credentials")
	ErrUnauthenticated           = errors.New("unauthenticated")
	ErrInvalidOrExpiredChallenge = errors.New("invalid or expired challenge")
	ErrMissingFields             = errors.New("missing fields")
	ErrValidation                = errors.New("validation failed")
	ErrNotFound                  = errors.New("not found")
	ErrIncorrectOldPassword      = errors.New("incorrect old password")
	ErrAlreadyVerified           = errors.New("already verified")
	ErrUpstream                  = errors.New("upstream failure")
)

// Error is a domain error with a client-facing message.
type Error struct {
	Kind    error
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

func newError(kind error, msg string) *Error { return &Error{Kind: kind, Message: msg} }

var (
	ErrUserExists            = newError(ErrConflict, "User already exists")
	ErrBadLogin              = newError(ErrInvalidCredentials, "Invalid Email or Password")
	ErrInvalidOTP            = newError(ErrInvalidOrExpiredChallenge, "Invalid OTP or has been Expired")
	ErrInvalidResetOTP       = newError(ErrInvalidOrExpiredChallenge, "Invalid otp or has been Expired")
	ErrMissingRegisterFields = newError(ErrMissingFields, "Please provide name, email and password")
	ErrMissingLoginFields    = newError(ErrMissingFields, "Please provide email and password")
	ErrMissingPasswordFields = newError(ErrMissingFields, "Please old and new password field is required")
	ErrMissingResetPassword  = newError(ErrMissingFields, "Password is required")
	ErrMissingTaskTitle      = newError(ErrMissingFields, "Please provide task title")
	ErrPasswordTooShort      = newError(ErrValidation, "Password should be at least 8 characters")
	ErrPasswordTooLong       = newError(ErrValidation, "Password should be at most 72 characters")
	ErrOldPasswordIncorrect  = newError(ErrIncorrectOldPassword, "Old password is incorrect")
	ErrUnknownEmail          = newError(ErrNotFound, "Invalid Email address")
	ErrAccountNotFound       = newError(ErrNotFound, "User not found")
	ErrTaskNotFound          = newError(ErrNotFound, "Task not found")
	ErrAccountVerified       = newError(ErrAlreadyVerified, "Account already verified")
)

// upstream wraps an infrastructure failure. The cause is for logs only.
func upstream(cause error) error {
	return &Error{Kind: ErrUpstream, Message: "Internal server error", Cause: cause}
}
