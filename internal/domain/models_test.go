package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntry_Defaults(t *testing.T) {
	entry := NewEntry("JFK", nil)

	assert.Equal(t, "JFK", entry.Identifier())
	assert.Equal(t, "JFK", entry.Fields[FieldSecondaryCode])
	assert.Equal(t, "JFK", entry.Fields[FieldName])
	assert.Equal(t, "", entry.Fields[FieldCity])
}

func TestNewEntry_PreservesTemplateFields(t *testing.T) {
	fields := map[string]any{
		"identifier":    "jfk",
		"name":          "John F. Kennedy Intl",
		"city":          "New York",
		"secondaryCode": "KJFK",
		"publication":   "stale",
		"runways":       json.Number("4"),
	}

	entry := NewEntry("JFK", fields)

	assert.Equal(t, "JFK", entry.Identifier(), "identifier is always normalized")
	assert.Equal(t, "KJFK", entry.Fields[FieldSecondaryCode])
	assert.Equal(t, "John F. Kennedy Intl", entry.Fields[FieldName])
	assert.Equal(t, "New York", entry.Fields[FieldCity])
	assert.NotContains(t, entry.Fields, FieldPublication)
	assert.Equal(t, "jfk", fields["identifier"], "input map is not mutated")
}

func TestNewEntry_KeepsExplicitNull(t *testing.T) {
	entry := NewEntry("LAX", map[string]any{"city": nil})

	v, ok := entry.Fields[FieldCity]
	assert.True(t, ok)
	assert.Nil(t, v)
}

func TestEntry_MarshalJSON_Order(t *testing.T) {
	entry := NewEntry("JFK", map[string]any{
		"zeta":  "z",
		"alpha": "a",
		"name":  "Kennedy <Intl> & Co",
	})
	entry.Publication = Publication{
		URL:       "documents/JFK/abc.pdf",
		Hash:      "abc",
		Size:      42,
		UpdatedAt: "2024-03-01T10:20:30Z",
		Version:   "2024-03-01",
	}

	data, err := json.Marshal(entry)
	require.NoError(t, err)

	expected := `{"identifier":"JFK","secondaryCode":"JFK","name":"Kennedy <Intl> & Co","city":"",` +
		`"alpha":"a","zeta":"z",` +
		`"publication":{"url":"documents/JFK/abc.pdf","hash":"abc","size":42,"updatedAt":"2024-03-01T10:20:30Z","version":"2024-03-01"}}`
	assert.JSONEq(t, expected, string(data))

	direct, err := entry.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, expected, string(direct))
}

func TestEntry_MarshalJSON_NonASCII(t *testing.T) {
	entry := NewEntry("GRU", map[string]any{"city": "São Paulo"})

	data, err := entry.MarshalJSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), "São Paulo")
}

func TestNewPublication(t *testing.T) {
	rec := &DocumentRecord{
		Identifier: "JFK",
		Hash:       "deadbeef",
		Size:       1024,
		ModTime:    time.Date(2024, 3, 1, 10, 20, 30, 999_000_000, time.FixedZone("EST", -5*3600)),
		Pages:      3,
	}

	pub := NewPublication(rec, "documents/JFK/deadbeef.pdf")

	assert.Equal(t, "documents/JFK/deadbeef.pdf", pub.URL)
	assert.Equal(t, "deadbeef", pub.Hash)
	assert.Equal(t, int64(1024), pub.Size)
	assert.Equal(t, "2024-03-01T15:20:30Z", pub.UpdatedAt)
	assert.Equal(t, "2024-03-01", pub.Version)
	assert.Equal(t, 3, pub.Pages)
}

func TestPublication_OmitsZeroPages(t *testing.T) {
	data, err := json.Marshal(Publication{URL: "u"})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "pages")
}

func TestFormatTimestamp(t *testing.T) {
	ts := time.Date(2023, 12, 31, 23, 59, 59, 500_000_000, time.UTC)
	assert.Equal(t, "2023-12-31T23:59:59Z", FormatTimestamp(ts))
}

func TestVersionTag(t *testing.T) {
	assert.Equal(t, "2023-12-31", VersionTag("2023-12-31T23:59:59Z"))
	assert.Equal(t, "short", VersionTag("short"))
}

func TestManifest_OmitsEmptyBaseURL(t *testing.T) {
	data, err := json.Marshal(&Manifest{SchemaVersion: SchemaVersion, Entries: []*Entry{}})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "baseURL")
	assert.Contains(t, string(data), `"entries":[]`)
}

func TestEntry_MarshalJSON_TemplateOrder(t *testing.T) {
	entry := NewEntry("JFK", map[string]any{
		"zeta":        "z",
		"identifier":  "jfk",
		"alpha":       "a",
		"mid":         "m",
		"publication": "stale",
	})
	entry.Order = []string{"identifier", "zeta", "publication", "alpha", "zeta", "missing"}

	data, err := json.Marshal(entry)
	require.NoError(t, err)

	want := `{"identifier":"JFK","secondaryCode":"JFK","name":"JFK","city":"",` +
		`"zeta":"z","alpha":"a","mid":"m",` +
		`"publication":{"url":"","hash":"","size":0,"updatedAt":"","version":""}}`
	assert.Equal(t, want, string(data))
}
