package manifest

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/docmanifest/internal/domain"
	"github.com/quantmind-br/docmanifest/internal/metadata"
)

// MockPublisher is a mock implementation of domain.Publisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, rec *domain.DocumentRecord) (string, error) {
	args := m.Called(ctx, rec)
	return args.String(0), args.Error(1)
}

var fixedNow = time.Date(2024, 5, 6, 7, 8, 9, 500, time.UTC)

func record(id string) *domain.DocumentRecord {
	return &domain.DocumentRecord{
		Identifier: id,
		SourcePath: "/src/" + id + ".pdf",
		Hash:       strings.Repeat("a", 64),
		Size:       42,
		ModTime:    time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func records(ids ...string) map[string]*domain.DocumentRecord {
	out := make(map[string]*domain.DocumentRecord, len(ids))
	for _, id := range ids {
		out[id] = record(id)
	}
	return out
}

func publishAll() *MockPublisher {
	pub := new(MockPublisher)
	pub.On("Publish", mock.Anything, mock.AnythingOfType("*domain.DocumentRecord")).
		Return("documents/X/"+strings.Repeat("a", 64)+".pdf", nil)
	return pub
}

func newTestBuilder(pub domain.Publisher, baseURL string) *Builder {
	return NewBuilder(BuilderOptions{
		Publisher: pub,
		BaseURL:   baseURL,
		Now:       func() time.Time { return fixedNow },
	})
}

func identifiers(m *domain.Manifest) []string {
	out := make([]string, len(m.Entries))
	for i, e := range m.Entries {
		out[i] = e.Identifier()
	}
	return out
}

func TestBuild_NoTemplateSortsByIdentifier(t *testing.T) {
	pub := publishAll()
	b := newTestBuilder(pub, "")

	m, err := b.Build(context.Background(), records("LAX", "CDG", "JFK"), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"CDG", "JFK", "LAX"}, identifiers(m))
	assert.Equal(t, domain.SchemaVersion, m.SchemaVersion)
	assert.Equal(t, "2024-05-06T07:08:09Z", m.GeneratedAt)
	assert.Empty(t, m.BaseURL)

	e := m.Entries[0]
	assert.Equal(t, "CDG", e.Fields[domain.FieldSecondaryCode])
	assert.Equal(t, "CDG", e.Fields[domain.FieldName])
	assert.Equal(t, "", e.Fields[domain.FieldCity])
	assert.Equal(t, "2024-01-02T03:04:05Z", e.Publication.UpdatedAt)
	assert.Equal(t, "2024-01-02", e.Publication.Version)
	assert.Equal(t, int64(42), e.Publication.Size)

	pub.AssertNumberOfCalls(t, "Publish", 3)
}

func TestBuild_TemplateOrderAndFields(t *testing.T) {
	pub := publishAll()
	b := newTestBuilder(pub, "")

	tmpl := &metadata.Template{Items: []any{
		map[string]any{"identifier": "lax", "name": "Los Angeles Intl", "terminals": 9},
		map[string]any{"identifier": "JFK", "secondaryCode": "KJFK", "city": "New York"},
		map[string]any{"identifier": "ORD"},
	}}

	m, err := b.Build(context.Background(), records("JFK", "LAX", "CDG"), tmpl)
	require.NoError(t, err)

	assert.Equal(t, []string{"LAX", "JFK"}, identifiers(m))

	lax := m.Entries[0]
	assert.Equal(t, "Los Angeles Intl", lax.Fields[domain.FieldName])
	assert.Equal(t, "LAX", lax.Fields[domain.FieldSecondaryCode])
	assert.Equal(t, 9, lax.Fields["terminals"])

	jfk := m.Entries[1]
	assert.Equal(t, "KJFK", jfk.Fields[domain.FieldSecondaryCode])
	assert.Equal(t, "New York", jfk.Fields[domain.FieldCity])
	assert.Equal(t, "JFK", jfk.Fields[domain.FieldName])

	pub.AssertNumberOfCalls(t, "Publish", 2)
}

func TestBuild_EmptyAfterMerge(t *testing.T) {
	pub := publishAll()
	b := newTestBuilder(pub, "")

	tmpl := &metadata.Template{Items: []any{map[string]any{"identifier": "ORD"}}}

	m, err := b.Build(context.Background(), records("JFK"), tmpl)
	assert.Nil(t, m)
	assert.ErrorIs(t, err, domain.ErrEmptyManifest)
	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestBuild_PublishErrorAborts(t *testing.T) {
	pub := new(MockPublisher)
	boom := errors.New("disk full")
	pub.On("Publish", mock.Anything, mock.Anything).Return("", boom).Once()

	m, err := newTestBuilder(pub, "").Build(context.Background(), records("JFK", "LAX"), nil)
	assert.Nil(t, m)
	assert.ErrorIs(t, err, boom)
	pub.AssertNumberOfCalls(t, "Publish", 1)
}

func TestBuild_PublicationURLFromPublisher(t *testing.T) {
	rec := record("JFK")
	pub := new(MockPublisher)
	pub.On("Publish", mock.Anything, rec).Return("documents/JFK/abc.pdf", nil)

	m, err := newTestBuilder(pub, "").Build(context.Background(), map[string]*domain.DocumentRecord{"JFK": rec}, nil)
	require.NoError(t, err)

	assert.Equal(t, "documents/JFK/abc.pdf", m.Entries[0].Publication.URL)
	pub.AssertExpectations(t)
}

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"   ", ""},
		{"https://cdn.example.com", "https://cdn.example.com/"},
		{"https://cdn.example.com/", "https://cdn.example.com/"},
		{" https://cdn.example.com/docs ", "https://cdn.example.com/docs/"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeBaseURL(tt.in))
		})
	}
}

func TestBuild_BaseURL(t *testing.T) {
	m, err := newTestBuilder(publishAll(), "https://cdn.example.com").
		Build(context.Background(), records("JFK"), nil)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/", m.BaseURL)
}

type countingProgress struct {
	added    int
	finished bool
}

func (p *countingProgress) Add(n int) error { p.added += n; return nil }
func (p *countingProgress) Finish() error  { p.finished = true; return nil }

func TestBuild_Progress(t *testing.T) {
	progress := &countingProgress{}
	var total int
	b := NewBuilder(BuilderOptions{
		Publisher: publishAll(),
		Progress: func(n int) domain.Progress {
			total = n
			return progress
		},
	})

	_, err := b.Build(context.Background(), records("JFK", "LAX"), nil)
	require.NoError(t, err)

	assert.Equal(t, 2, total)
	assert.Equal(t, 2, progress.added)
	assert.True(t, progress.finished)
}
