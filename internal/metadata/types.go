package metadata

import (
	"fmt"

	"github.com/quantmind-br/docmanifest/internal/domain"
)

// IdentifiersKey is the top-level template field listing known identifiers
const IdentifiersKey = "identifiers"

// Template is a parsed template document. Items keeps the raw list
// elements in file order; non-object items are ignored during merge.
type Template struct {
	Path  string
	Items []any
	// Keys[i] lists the field names of Items[i] in file order. It is nil
	// for templates built in code, and entries for non-object items are nil.
	Keys [][]string
}

// Match pairs a scanned record with the template fields describing it
type Match struct {
	Record *domain.DocumentRecord
	Fields map[string]any
	// Keys is the template's field order for Fields, when known
	Keys []string
}

// keysAt returns the recorded field order of item i
func (t *Template) keysAt(i int) []string {
	if i < len(t.Keys) {
		return t.Keys[i]
	}
	return nil
}

// fromDocument validates the decoded top-level object
func fromDocument(doc map[string]any) (*Template, error) {
	raw, ok := doc[IdentifiersKey]
	if !ok {
		return nil, fmt.Errorf("%w: %w", ErrNoIdentifiers,
			domain.NewValidationError(IdentifiersKey, "field is missing"))
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %w", ErrNoIdentifiers,
			domain.NewValidationError(IdentifiersKey, fmt.Sprintf("expected a list, got %T", raw)))
	}
	return &Template{Items: items}, nil
}
