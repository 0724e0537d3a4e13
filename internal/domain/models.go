package domain

import (
	"bytes"
	"encoding/json"
	"sort"
	"time"
)

// SchemaVersion is the manifest schema version understood by clients
const SchemaVersion = 1

// Timestamp layouts
const (
	// TimestampLayout is ISO-8601 UTC with a 'Z' suffix and second precision
	TimestampLayout = "2006-01-02T15:04:05Z"

	// SnapshotLayout is the compact date-time used in snapshot filenames
	SnapshotLayout = "20060102-150405"
)

// Entry field names
const (
	FieldIdentifier    = "identifier"
	FieldSecondaryCode = "secondaryCode"
	FieldName          = "name"
	FieldCity          = "city"
	FieldPublication   = "publication"
)

// knownFields are emitted first, in this order
var knownFields = []string{FieldIdentifier, FieldSecondaryCode, FieldName, FieldCity}

// DocumentRecord describes one scanned source document
type DocumentRecord struct {
	Identifier string
	SourcePath string
	Hash       string
	Size       int64
	ModTime    time.Time
	Pages      int
}

// UpdatedAt returns the record's modification time as a manifest timestamp
func (r *DocumentRecord) UpdatedAt() string {
	return FormatTimestamp(r.ModTime)
}

// Publication is the nested block describing where a document is published
type Publication struct {
	URL       string `json:"url"`
	Hash      string `json:"hash"`
	Size      int64  `json:"size"`
	UpdatedAt string `json:"updatedAt"`
	Version   string `json:"version"`
	Pages     int    `json:"pages,omitempty"`
}

// NewPublication builds the publication block for a record published at url
func NewPublication(rec *DocumentRecord, url string) Publication {
	updated := rec.UpdatedAt()
	return Publication{
		URL:       url,
		Hash:      rec.Hash,
		Size:      rec.Size,
		UpdatedAt: updated,
		Version:   VersionTag(updated),
		Pages:     rec.Pages,
	}
}

// Entry is one manifest entry: descriptive fields plus its publication.
// Fields keeps template-supplied values as decoded, including extra keys.
type Entry struct {
	Fields map[string]any
	// Order lists template field names in template order. Extra fields are
	// emitted in this order; any not listed follow, sorted by key.
	Order       []string
	Publication Publication
}

// NewEntry creates an entry for identifier from optional template fields.
// The identifier is always set; secondaryCode, name and city are filled
// only when absent.
func NewEntry(identifier string, fields map[string]any) *Entry {
	out := make(map[string]any, len(fields)+len(knownFields))
	for k, v := range fields {
		out[k] = v
	}
	delete(out, FieldPublication)

	out[FieldIdentifier] = identifier
	setDefault(out, FieldSecondaryCode, identifier)
	setDefault(out, FieldName, identifier)
	setDefault(out, FieldCity, "")

	return &Entry{Fields: out}
}

func setDefault(m map[string]any, key string, value any) {
	if _, ok := m[key]; !ok {
		m[key] = value
	}
}

// Identifier returns the entry's normalized identifier
func (e *Entry) Identifier() string {
	id, _ := e.Fields[FieldIdentifier].(string)
	return id
}

// MarshalJSON writes known fields first, then extra fields in template
// order (unlisted ones sorted by key), then the publication block, so
// output is stable across runs
func (e *Entry) MarshalJSON() ([]byte, error) {
	known := make(map[string]bool, len(knownFields))
	keys := make([]string, 0, len(e.Fields))
	for _, k := range knownFields {
		known[k] = true
		if _, ok := e.Fields[k]; ok {
			keys = append(keys, k)
		}
	}

	seen := make(map[string]bool, len(e.Fields))
	for _, k := range e.Order {
		if _, ok := e.Fields[k]; ok && !known[k] && !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}

	var rest []string
	for k := range e.Fields {
		if !known[k] && !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	keys = append(keys, rest...)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for _, k := range keys {
		if err := writeMember(&buf, k, e.Fields[k]); err != nil {
			return nil, err
		}
		buf.WriteByte(',')
	}
	if err := writeMember(&buf, FieldPublication, e.Publication); err != nil {
		return nil, err
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

func writeMember(buf *bytes.Buffer, key string, value any) error {
	k, err := MarshalNoEscape(key)
	if err != nil {
		return err
	}
	v, err := MarshalNoEscape(value)
	if err != nil {
		return err
	}
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(v)
	return nil
}

// MarshalNoEscape encodes v as compact JSON without HTML escaping
func MarshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Manifest is the root document consumed by clients
type Manifest struct {
	SchemaVersion int      `json:"schemaVersion"`
	GeneratedAt   string   `json:"generatedAt"`
	BaseURL       string   `json:"baseURL,omitempty"`
	Entries       []*Entry `json:"entries"`
}

// FormatTimestamp formats t as UTC ISO-8601 with second precision
func FormatTimestamp(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(TimestampLayout)
}

// VersionTag derives the coarse version string (the date portion) from a
// manifest timestamp
func VersionTag(timestamp string) string {
	if len(timestamp) < 10 {
		return timestamp
	}
	return timestamp[:10]
}
