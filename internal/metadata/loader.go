package metadata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Loader loads and validates template files
type Loader struct{}

// NewLoader creates a new template loader
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads and parses a template file from the given path
func (l *Loader) Load(path string) (*Template, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template file: %w", err)
	}

	tmpl, err := l.LoadFromBytes(data, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	tmpl.Path = path
	return tmpl, nil
}

// LoadFromBytes parses a template from raw bytes
func (l *Loader) LoadFromBytes(data []byte, ext string) (*Template, error) {
	ext = strings.ToLower(ext)

	var (
		doc  map[string]any
		keys [][]string
	)
	switch ext {
	case ".yaml", ".yml":
		var root yaml.Node
		if err := yaml.Unmarshal(data, &root); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
		v, err := yamlValue(&root)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
		if v != nil {
			m, ok := v.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: top-level value must be a mapping, got %T", ErrInvalidFormat, v)
			}
			doc = m
		}
		keys = yamlItemKeys(&root)
	case ".json":
		// UseNumber keeps numeric fields byte-for-byte in the output
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
		if _, err := dec.Token(); err != io.EOF {
			return nil, fmt.Errorf("%w: unexpected data after the top-level object", ErrInvalidFormat)
		}
		keys = jsonItemKeys(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedExt, ext)
	}

	tmpl, err := fromDocument(doc)
	if err != nil {
		return nil, err
	}
	if len(keys) == len(tmpl.Items) {
		tmpl.Keys = keys
	}
	return tmpl, nil
}

// jsonItemKeys returns the field names of each identifiers item in file
// order. data has already been decoded successfully.
func jsonItemKeys(data []byte) [][]string {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(top[IdentifiersKey], &items); err != nil {
		return nil
	}

	keys := make([][]string, len(items))
	for i, raw := range items {
		keys[i] = objectKeys(raw)
	}
	return keys
}

// objectKeys lists the top-level keys of a JSON object, or nil when raw is
// not an object
func objectKeys(raw json.RawMessage) []string {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil
	}

	keys := []string{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return keys
		}
		key, ok := tok.(string)
		if !ok {
			return keys
		}
		keys = append(keys, key)

		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return keys
		}
	}
	return keys
}
