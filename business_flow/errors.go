package businessflow

import (
	"errors"
	"fmt"

	"github.com/amirphl/panel-registry/repository"
)

// Business flow error constants
var (
	// Record errors
	ErrDuplicateEmail = errors.New("email already exists")
	ErrRecordNotFound = errors.New("record not found")
	ErrNoRecords      = errors.New("no records found")
	ErrUpdateFailed   = errors.New("update modified no rows")
	ErrInvalidRecord  = errors.New("record is invalid")

	// Credential errors
	ErrUserNotFound         = errors.New("user not found")
	ErrWeakPassword         = errors.New("password is too short")
	ErrIncorrectPassword    = errors.New("incorrect password")
	ErrTooManyLoginAttempts = errors.New("too many login attempts")

	// Infrastructure errors
	ErrStoreUnavailable = repository.ErrStoreUnavailable
	ErrExportFailed     = errors.New("export failed")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

// MessageOf returns the user-facing message carried by a BusinessError, or fallback
func MessageOf(err error, fallback string) string {
	var be *BusinessError
	if errors.As(err, &be) && be.Message != "" {
		return be.Message
	}
	return fallback
}

func IsDuplicateEmail(err error) bool {
	return errors.Is(err, ErrDuplicateEmail)
}

func IsRecordNotFound(err error) bool {
	return errors.Is(err, ErrRecordNotFound)
}

func IsNoRecords(err error) bool {
	return errors.Is(err, ErrNoRecords)
}

func IsUpdateFailed(err error) bool {
	return errors.Is(err, ErrUpdateFailed)
}

func IsInvalidRecord(err error) bool {
	return errors.Is(err, ErrInvalidRecord)
}

func IsUserNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}

func IsWeakPassword(err error) bool {
	return errors.Is(err, ErrWeakPassword)
}

func IsIncorrectPassword(err error) bool {
	return errors.Is(err, ErrIncorrectPassword)
}

func IsTooManyLoginAttempts(err error) bool {
	return errors.Is(err, ErrTooManyLoginAttempts)
}

func IsStoreUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}
