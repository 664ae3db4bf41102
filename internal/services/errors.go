package services

import (
	"errors"
	"fmt"
)

// ErrorCode is the machine-readable code attached to business errors so
// clients can render specific messages.
type ErrorCode string

const (
	CodeNotFound               ErrorCode = "NOT_FOUND"
	CodeForbidden              ErrorCode = "FORBIDDEN"
	CodeInvalidStateTransition ErrorCode = "INVALID_STATE_TRANSITION"
	CodeConflictingListing     ErrorCode = "CONFLICTING_LISTING"
	CodeQuotaExceeded          ErrorCode = "QUOTA_EXCEEDED"
	CodeValidation             ErrorCode = "VALIDATION_ERROR"
	CodeInvalidOtp             ErrorCode = "INVALID_OTP"
	CodeOtpExpired             ErrorCode = "OTP_EXPIRED"
	CodeTooManyAttempts        ErrorCode = "TOO_MANY_ATTEMPTS"
	CodeSessionExpired         ErrorCode = "SESSION_EXPIRED"
	CodeUnauthorized           ErrorCode = "UNAUTHORIZED"
	CodeInvalidCredentials     ErrorCode = "INVALID_CREDENTIALS"
)

// DomainError is a business-level error carrying a code for the HTTP layer
// to map onto a status. The core never retries these.
type DomainError struct {
	Code    ErrorCode
	Message string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewDomainError builds a DomainError with a formatted message.
func NewDomainError(code ErrorCode, format string, args ...interface{}) *DomainError {
	return &DomainError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// AsDomainError unwraps err into a DomainError if it is one.
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// ErrNotFound builds a not-found error for the named entity.
func ErrNotFound(entity string) *DomainError {
	return NewDomainError(CodeNotFound, "%s not found", entity)
}

// ErrForbidden builds a forbidden error.
func ErrForbidden(message string) *DomainError {
	return NewDomainError(CodeForbidden, "%s", message)
}

// ErrInvalidTransition builds an invalid-state-transition error.
func ErrInvalidTransition(message string) *DomainError {
	return NewDomainError(CodeInvalidStateTransition, "%s", message)
}
