package models

import (
	"errors"
	"fmt"
)

const (
	ErrorCodeNotFound     = "NOT_FOUND"
	ErrorCodeForbidden    = "FORBIDDEN"
	ErrorCodeValidation   = "VALIDATION"
	ErrorCodeConflict     = "CONFLICT"
	ErrorCodeUnauthorized = "UNAUTHORIZED"
	ErrorCodeInternal     = "INTERNAL"
)

// DomainError tags an error with the code the HTTP layer maps to a status.
type DomainError struct {
	Code string
	Err  error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Code
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func NewDomainError(code string, err error) *DomainError {
	return &DomainError{Code: code, Err: err}
}

func NotFound(format string, args ...any) error {
	return NewDomainError(ErrorCodeNotFound, fmt.Errorf(format, args...))
}

func Forbidden(format string, args ...any) error {
	return NewDomainError(ErrorCodeForbidden, fmt.Errorf(format, args...))
}

func Validation(format string, args ...any) error {
	return NewDomainError(ErrorCodeValidation, fmt.Errorf(format, args...))
}

func Conflict(format string, args ...any) error {
	return NewDomainError(ErrorCodeConflict, fmt.Errorf(format, args...))
}

func Unauthorized(format string, args ...any) error {
	return NewDomainError(ErrorCodeUnauthorized, fmt.Errorf(format, args...))
}

// ErrorCode returns the code of the first DomainError in err's chain, or
// ErrorCodeInternal.
func ErrorCode(err error) string {
	var derr *DomainError
	if errors.As(err, &derr) {
		return derr.Code
	}
	return ErrorCodeInternal
}
