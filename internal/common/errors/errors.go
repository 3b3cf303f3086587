// Package errors provides standardized error handling for the matching service.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeValidation            ErrorCode = "VALIDATION_ERROR"
	ErrCodeUserNotFound          ErrorCode = "USER_NOT_FOUND"
	ErrCodePreferencesNotFound   ErrorCode = "PREFERENCES_NOT_FOUND"
	ErrCodeDependencyUnavailable ErrorCode = "DEPENDENCY_UNAVAILABLE"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewValidationError creates a non-retryable bad-input error.
func NewValidationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidation,
		Message:   "Invalid input",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUserNotFoundError creates a non-retryable error for an unknown requester.
func NewUserNotFoundError(userID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUserNotFound,
		Message:   "User not found",
		Details:   fmt.Sprintf("userId: %s", userID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPreferencesNotFoundError creates a non-retryable error for a requester
// without a matching preferences record. Candidates missing preferences never
// produce this error; their scores degrade instead.
func NewPreferencesNotFoundError(userID string) *StandardError {
	return &StandardError{
		Code:      ErrCodePreferencesNotFound,
		Message:   "Matching preferences not found",
		Details:   fmt.Sprintf("userId: %s", userID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDependencyUnavailableError creates a retryable error for an unreachable
// backing store. Components absorb this internally; it never reaches the
// callers of FindMatches.
func NewDependencyUnavailableError(dependency string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDependencyUnavailable,
		Message:   "Dependency unavailable",
		Details:   fmt.Sprintf("dependency: %s, error: %v", dependency, err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Classification Helpers
// ==========================

func codeOf(err error) (ErrorCode, bool) {
	var se *StandardError
	if stderrors.As(err, &se) {
		return se.Code, true
	}
	return "", false
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool {
	code, ok := codeOf(err)
	return ok && code == ErrCodeValidation
}

// IsUserNotFound reports whether err marks an unknown user.
func IsUserNotFound(err error) bool {
	code, ok := codeOf(err)
	return ok && code == ErrCodeUserNotFound
}

// IsPreferencesNotFound reports whether err marks a missing preferences record.
func IsPreferencesNotFound(err error) bool {
	code, ok := codeOf(err)
	return ok && code == ErrCodePreferencesNotFound
}

// IsDependencyUnavailable reports whether err marks an unreachable dependency.
func IsDependencyUnavailable(err error) bool {
	code, ok := codeOf(err)
	return ok && code == ErrCodeDependencyUnavailable
}

// Propagates reports whether err belongs to the caller-facing error kinds.
// Everything else is absorbed with degraded behavior.
func Propagates(err error) bool {
	return IsValidation(err) || IsUserNotFound(err) || IsPreferencesNotFound(err)
}
