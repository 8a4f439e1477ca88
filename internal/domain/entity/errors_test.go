package entity

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		message  string
		expected string
	}{
		{
			name:     "simple validation error",
			field:    "url",
			message:  "invalid format",
			expected: "validation error on field 'url': invalid format",
		},
		{
			name:     "required field error",
			field:    "name",
			message:  "name is required",
			expected: "validation error on field 'name': name is required",
		},
		{
			name:     "empty field name",
			field:    "",
			message:  "test message",
			expected: "validation error on field '': test message",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &ValidationError{Field: tt.field, Message: tt.message}
			assert.Equal(t, tt.expected, err.Error())
		})
	}
}

func TestValidationError_ErrorsAs(t *testing.T) {
	wrapped := fmt.Errorf("validate source: %w", &ValidationError{
		Field:   "feed_url",
		Message: "URL is required",
	})

	var validationErr *ValidationError
	assert.True(t, errors.As(wrapped, &validationErr))
	assert.Equal(t, "feed_url", validationErr.Field)
}

func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "ErrNotFound", err: ErrNotFound, expected: "entity not found"},
		{name: "ErrInvalidInput", err: ErrInvalidInput, expected: "invalid input"},
		{name: "ErrValidationFailed", err: ErrValidationFailed, expected: "validation failed"},
		{name: "ErrAlreadyPosted", err: ErrAlreadyPosted, expected: "article already posted"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestSentinelErrors_WrappedMatch(t *testing.T) {
	wrapped := fmt.Errorf("record post: %w", ErrAlreadyPosted)

	assert.True(t, errors.Is(wrapped, ErrAlreadyPosted))
	assert.False(t, errors.Is(wrapped, ErrNotFound))
}
