package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/docmanifest/internal/domain"
)

func testManifest() *domain.Manifest {
	e := domain.NewEntry("JFK", map[string]any{"name": "John F. Kennedy <Intl> & Co", "city": "São Paulo"})
	e.Publication = domain.Publication{
		URL:       "documents/JFK/" + strings.Repeat("a", 64) + ".pdf",
		Hash:      strings.Repeat("a", 64),
		Size:      12,
		UpdatedAt: "2024-01-02T03:04:05Z",
		Version:   "2024-01-02",
	}
	return &domain.Manifest{
		SchemaVersion: domain.SchemaVersion,
		GeneratedAt:   "2024-05-06T07:08:09Z",
		Entries:       []*domain.Entry{e},
	}
}

func TestWriter_Paths(t *testing.T) {
	w := NewWriter(WriterOptions{SiteRoot: "/site"})

	assert.Equal(t, filepath.Join("/site", "manifest.json"), w.LatestPath())
	assert.Equal(t, filepath.Join("/site", "manifests", "manifest-20240506-070809.json"), w.SnapshotPath("20240506-070809"))
}

func TestWriter_WriteManifest(t *testing.T) {
	root := t.TempDir()
	w := NewWriter(WriterOptions{SiteRoot: root})

	latest, snapshot, err := w.WriteManifest(testManifest(), "20240506-070809")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "manifest.json"), latest)
	assert.Equal(t, filepath.Join(root, "manifests", "manifest-20240506-070809.json"), snapshot)

	a, err := os.ReadFile(latest)
	require.NoError(t, err)
	b, err := os.ReadFile(snapshot)
	require.NoError(t, err)
	assert.Equal(t, a, b, "latest and snapshot are byte-identical")

	info, err := os.Stat(latest)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
}

func TestWriter_Format(t *testing.T) {
	root := t.TempDir()
	w := NewWriter(WriterOptions{SiteRoot: root})

	latest, _, err := w.WriteManifest(testManifest(), "20240506-070809")
	require.NoError(t, err)

	data, err := os.ReadFile(latest)
	require.NoError(t, err)
	out := string(data)

	assert.True(t, strings.HasPrefix(out, "{\n  \"schemaVersion\": 1,\n  \"generatedAt\": \"2024-05-06T07:08:09Z\",\n"))
	assert.True(t, strings.HasSuffix(out, "}\n"))
	assert.NotContains(t, out, "\r\n")
	assert.NotContains(t, out, "baseURL")
	assert.Contains(t, out, "John F. Kennedy <Intl> & Co")
	assert.Contains(t, out, "São Paulo")

	order := []string{`"identifier"`, `"secondaryCode"`, `"name"`, `"city"`, `"publication"`, `"url"`, `"hash"`, `"size"`, `"updatedAt"`, `"version"`}
	last := -1
	for _, key := range order {
		idx := strings.Index(out, key)
		require.Greater(t, idx, last, "key %s out of order", key)
		last = idx
	}
}

func TestWriter_OverwritesLatest(t *testing.T) {
	root := t.TempDir()
	w := NewWriter(WriterOptions{SiteRoot: root})
	require.NoError(t, os.WriteFile(filepath.Join(root, "manifest.json"), []byte("stale"), 0644))

	latest, _, err := w.WriteManifest(testManifest(), "20240506-070809")
	require.NoError(t, err)

	data, err := os.ReadFile(latest)
	require.NoError(t, err)
	assert.NotEqual(t, "stale", string(data))

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".tmp"), "temporary file left behind: %s", e.Name())
	}
}

func TestWriter_DryRun(t *testing.T) {
	root := t.TempDir()
	w := NewWriter(WriterOptions{SiteRoot: root, DryRun: true})

	latest, snapshot, err := w.WriteManifest(testManifest(), "20240506-070809")
	require.NoError(t, err)
	assert.NotEmpty(t, latest)
	assert.NotEmpty(t, snapshot)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWriter_UnwritableRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(root, []byte("x"), 0644))

	w := NewWriter(WriterOptions{SiteRoot: root})
	_, _, err := w.WriteManifest(testManifest(), "20240506-070809")
	assert.Error(t, err)
}

func TestEncode(t *testing.T) {
	data, err := Encode(map[string]any{"a": "<b>"})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": \"<b>\"\n}\n", string(data))
}
