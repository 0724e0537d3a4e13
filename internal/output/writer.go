package output

import (
	"bytes"
	"encoding/json"
	"io"
	"path/filepath"

	"github.com/quantmind-br/docmanifest/internal/domain"
	"github.com/quantmind-br/docmanifest/internal/utils"
)

const (
	// LatestName is the manifest file clients poll, at the site root
	LatestName = "manifest.json"
	// SnapshotDir holds one immutable manifest per run
	SnapshotDir = "manifests"
)

// Writer writes manifest documents below the site root
type Writer struct {
	siteRoot string
	dryRun   bool
	logger   *utils.Logger
}

// WriterOptions contains options for the writer
type WriterOptions struct {
	SiteRoot string
	DryRun   bool
	Logger   *utils.Logger
}

// NewWriter creates a new output writer
func NewWriter(opts WriterOptions) *Writer {
	logger := opts.Logger
	if logger == nil {
		logger = utils.NewNopLogger()
	}

	return &Writer{
		siteRoot: opts.SiteRoot,
		dryRun:   opts.DryRun,
		logger:   logger.WithComponent("output"),
	}
}

// LatestPath returns the path of the latest manifest
func (w *Writer) LatestPath() string {
	return filepath.Join(w.siteRoot, LatestName)
}

// SnapshotPath returns the path of the snapshot for timestamp
// (YYYYMMDD-HHMMSS)
func (w *Writer) SnapshotPath(timestamp string) string {
	return filepath.Join(w.siteRoot, SnapshotDir, "manifest-"+timestamp+".json")
}

// WriteManifest writes m as the latest manifest and as a snapshot. The
// latest manifest is written first; both writes are atomic.
func (w *Writer) WriteManifest(m *domain.Manifest, snapshotTimestamp string) (latest, snapshot string, err error) {
	latest = w.LatestPath()
	snapshot = w.SnapshotPath(snapshotTimestamp)

	if err := w.WriteJSON(latest, m); err != nil {
		return "", "", err
	}
	if err := w.WriteJSON(snapshot, m); err != nil {
		return "", "", err
	}
	return latest, snapshot, nil
}

// WriteJSON writes v to path as indented JSON with a trailing newline
func (w *Writer) WriteJSON(path string, v any) error {
	data, err := Encode(v)
	if err != nil {
		return err
	}

	if w.dryRun {
		w.logger.Debug().Str("path", path).Int("bytes", len(data)).Msg("Dry run, not writing")
		return nil
	}

	return utils.WriteFileAtomic(path, 0644, func(out io.Writer) error {
		_, err := out.Write(data)
		return err
	})
}

// Encode serializes v with two-space indentation, without escaping HTML
// characters, terminated by a newline
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
