package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassificationHelpers(t *testing.T) {
	validation := NewValidationError("limit must be between 1 and 100")
	notFound := NewUserNotFoundError("u1")
	prefsMissing := NewPreferencesNotFoundError("u1")
	depDown := NewDependencyUnavailableError("redis", fmt.Errorf("connection refused"))

	assert.True(t, IsValidation(validation))
	assert.False(t, IsValidation(notFound))

	assert.True(t, IsUserNotFound(notFound))
	assert.True(t, IsPreferencesNotFound(prefsMissing))
	assert.True(t, IsDependencyUnavailable(depDown))

	assert.False(t, IsValidation(fmt.Errorf("plain error")))
	assert.False(t, IsUserNotFound(nil))
}

func TestClassificationThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("finding candidates: %w", NewUserNotFoundError("u1"))

	assert.True(t, IsUserNotFound(wrapped))
	assert.True(t, Propagates(wrapped))
}

func TestPropagates(t *testing.T) {
	assert.True(t, Propagates(NewValidationError("bad")))
	assert.True(t, Propagates(NewUserNotFoundError("u1")))
	assert.True(t, Propagates(NewPreferencesNotFoundError("u1")))

	// Unavailable dependencies are absorbed, not surfaced.
	assert.False(t, Propagates(NewDependencyUnavailableError("redis", fmt.Errorf("down"))))
	assert.False(t, Propagates(fmt.Errorf("plain error")))
}

func TestErrorString(t *testing.T) {
	err := NewValidationError("userId cannot be empty")
	assert.Equal(t, "StandardError[VALIDATION_ERROR]: Invalid input", err.Error())
	assert.False(t, err.Retryable)
}
