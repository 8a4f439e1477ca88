package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across the domain layer.
var (
	// ErrNotFound: the requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrInvalidInput: the caller supplied malformed input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrValidationFailed: an entity failed its own validation rules.
	ErrValidationFailed = errors.New("validation failed")

	// ErrAlreadyPosted: the article URL already has a posts-history row.
	// Raised by the unique constraint on article_url, which is the dedup
	// source of truth.
	ErrAlreadyPosted = errors.New("article already posted")
)

// ValidationError carries the field that failed validation alongside the
// reason, so warnings can name the offending configuration or feed field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}
