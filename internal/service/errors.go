package service

import "errors"

// Expected lifecycle errors. Their messages are user-facing; anything else
// that comes out of the service is an internal failure and must not reach the
// caller verbatim.
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrCodeNotFound       = errors.New("invalid verification code")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotVerified        = errors.New("please verify your email")
)

// ValidationError reports which input was rejected. The message is safe to
// return to the caller.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationf(msg string) error { return &ValidationError{Msg: msg} }

// Expected reports whether err belongs to the user-facing taxonomy.
func Expected(err error) bool {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return true
	}
	return errors.Is(err, ErrEmailTaken) ||
		errors.Is(err, ErrCodeNotFound) ||
		errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrNotVerified)
}
