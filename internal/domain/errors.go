package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	// ErrNotFound indicates a required file or directory does not exist
	ErrNotFound = errors.New("not found")

	// ErrNoDocuments indicates a scan matched no documents
	ErrNoDocuments = errors.New("no documents found")

	// ErrEmptyManifest indicates no entries survived the template merge
	ErrEmptyManifest = errors.New("manifest has no entries")

	// ErrInvalidTimestamp indicates a snapshot timestamp override is malformed
	ErrInvalidTimestamp = errors.New("invalid snapshot timestamp")

	// ErrCacheMiss indicates a digest cache miss
	ErrCacheMiss = errors.New("cache miss")

	// ErrInvalidDocument indicates a document failed content inspection
	ErrInvalidDocument = errors.New("invalid document")
)

// ValidationError represents a configuration or input validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// IsValidationError reports whether err is or wraps a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// PublishError represents a failure to place a document at its
// content-addressed location
type PublishError struct {
	Identifier  string
	Destination string
	Err         error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publish %s to %s: %v", e.Identifier, e.Destination, e.Err)
}

func (e *PublishError) Unwrap() error {
	return e.Err
}

// NewPublishError creates a new PublishError
func NewPublishError(identifier, destination string, err error) *PublishError {
	return &PublishError{
		Identifier:  identifier,
		Destination: destination,
		Err:         err,
	}
}
