// Package manifest assembles manifest documents from scanned records,
// optional template metadata and published locations.
package manifest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/quantmind-br/docmanifest/internal/domain"
	"github.com/quantmind-br/docmanifest/internal/metadata"
	"github.com/quantmind-br/docmanifest/internal/scanner"
	"github.com/quantmind-br/docmanifest/internal/utils"
)

// BuilderOptions contains builder settings
type BuilderOptions struct {
	Publisher domain.Publisher
	BaseURL   string
	// Now supplies generatedAt; defaults to time.Now
	Now      func() time.Time
	Progress func(total int) domain.Progress
	Logger   *utils.Logger
}

// Builder publishes entries and produces the manifest
type Builder struct {
	publisher domain.Publisher
	baseURL   string
	now       func() time.Time
	progress  func(total int) domain.Progress
	logger    *utils.Logger
}

// NewBuilder creates a builder
func NewBuilder(opts BuilderOptions) *Builder {
	logger := opts.Logger
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Builder{
		publisher: opts.Publisher,
		baseURL:   NormalizeBaseURL(opts.BaseURL),
		now:       now,
		progress:  opts.Progress,
		logger:    logger.WithComponent("manifest"),
	}
}

// NormalizeBaseURL ensures a non-empty base URL ends with a slash
func NormalizeBaseURL(baseURL string) string {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" || strings.HasSuffix(baseURL, "/") {
		return baseURL
	}
	return baseURL + "/"
}

// Build publishes every selected record and returns the manifest. Without
// a template all records are used in identifier order; with one, entries
// follow template order and carry the template's fields.
func (b *Builder) Build(ctx context.Context, records map[string]*domain.DocumentRecord, tmpl *metadata.Template) (*domain.Manifest, error) {
	matches := b.selectEntries(records, tmpl)
	if len(matches) == 0 {
		return nil, domain.ErrEmptyManifest
	}

	var bar domain.Progress
	if b.progress != nil {
		bar = b.progress(len(matches))
		defer bar.Finish()
	}

	entries := make([]*domain.Entry, 0, len(matches))
	for _, m := range matches {
		url, err := b.publisher.Publish(ctx, m.Record)
		if err != nil {
			return nil, fmt.Errorf("publish %s: %w", m.Record.Identifier, err)
		}

		entry := domain.NewEntry(m.Record.Identifier, m.Fields)
		entry.Order = m.Keys
		entry.Publication = domain.NewPublication(m.Record, url)
		entries = append(entries, entry)

		if bar != nil {
			_ = bar.Add(1)
		}
	}

	b.logger.Debug().Int("entries", len(entries)).Msg("Manifest assembled")

	return &domain.Manifest{
		SchemaVersion: domain.SchemaVersion,
		GeneratedAt:   domain.FormatTimestamp(b.now()),
		BaseURL:       b.baseURL,
		Entries:       entries,
	}, nil
}

func (b *Builder) selectEntries(records map[string]*domain.DocumentRecord, tmpl *metadata.Template) []metadata.Match {
	if tmpl != nil {
		return metadata.Merge(tmpl, records, b.logger)
	}

	sorted := scanner.Sorted(records)
	matches := make([]metadata.Match, 0, len(sorted))
	for _, rec := range sorted {
		matches = append(matches, metadata.Match{Record: rec})
	}
	return matches
}
