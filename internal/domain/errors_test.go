package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSentinelErrors verifies sentinel errors are defined
func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check string
	}{
		{"ErrNotFound", ErrNotFound, "not found"},
		{"ErrNoDocuments", ErrNoDocuments, "no documents"},
		{"ErrEmptyManifest", ErrEmptyManifest, "no entries"},
		{"ErrInvalidTimestamp", ErrInvalidTimestamp, "timestamp"},
		{"ErrCacheMiss", ErrCacheMiss, "cache miss"},
		{"ErrInvalidDocument", ErrInvalidDocument, "invalid document"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.Contains(t, tt.err.Error(), tt.check)
		})
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("template", "identifiers must be a list")

	assert.Equal(t, "validation error for template: identifiers must be a list", err.Error())
	assert.True(t, IsValidationError(err))
	assert.True(t, IsValidationError(fmt.Errorf("load: %w", err)))
	assert.False(t, IsValidationError(errors.New("plain")))
}

func TestPublishError(t *testing.T) {
	cause := errors.New("disk full")
	err := NewPublishError("JFK", "/site/documents/JFK/abc.pdf", cause)

	assert.Contains(t, err.Error(), "JFK")
	assert.Contains(t, err.Error(), "disk full")
	assert.ErrorIs(t, err, cause)

	var pe *PublishError
	assert.True(t, errors.As(fmt.Errorf("wrapped: %w", err), &pe))
	assert.Equal(t, "/site/documents/JFK/abc.pdf", pe.Destination)
}
