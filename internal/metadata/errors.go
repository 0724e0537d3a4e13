package metadata

import (
	"errors"
	"fmt"

	"github.com/quantmind-br/docmanifest/internal/domain"
)

// Sentinel errors for the metadata package
var (
	// ErrNoIdentifiers indicates the template lacks an identifiers list
	ErrNoIdentifiers = errors.New("template must contain an 'identifiers' list")

	// ErrInvalidFormat indicates the template file is not valid YAML or JSON
	ErrInvalidFormat = errors.New("template must be valid YAML or JSON")

	// ErrFileNotFound indicates the template file does not exist
	ErrFileNotFound = fmt.Errorf("template file %w", domain.ErrNotFound)

	// ErrUnsupportedExt indicates an unsupported file extension
	ErrUnsupportedExt = errors.New("unsupported file extension (use .json, .yaml, or .yml)")
)
