// Package scanner finds source documents, derives their identifiers and
// computes content digests and filesystem metadata.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/quantmind-br/docmanifest/internal/cache"
	"github.com/quantmind-br/docmanifest/internal/digest"
	"github.com/quantmind-br/docmanifest/internal/domain"
	"github.com/quantmind-br/docmanifest/internal/utils"
)

// Options contains scanner settings
type Options struct {
	Directory string
	Extension string

	// Cache, when set, short-circuits hashing for unchanged files
	Cache domain.DigestCache
	// Inspector, when set, rejects documents that fail content validation
	Inspector domain.Inspector
	// Progress, when set, is created once the number of files is known
	Progress func(total int) domain.Progress

	Logger *utils.Logger
}

// Scanner walks a source directory for documents
type Scanner struct {
	dir       string
	ext       string
	cache     domain.DigestCache
	inspector domain.Inspector
	progress  func(total int) domain.Progress
	logger    *utils.Logger
}

// New creates a scanner
func New(opts Options) *Scanner {
	logger := opts.Logger
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	ext := opts.Extension
	if ext == "" {
		ext = "pdf"
	}

	return &Scanner{
		dir:       opts.Directory,
		ext:       ext,
		cache:     opts.Cache,
		inspector: opts.Inspector,
		progress:  opts.Progress,
		logger:    logger.WithComponent("scanner"),
	}
}

// Pattern returns the glob matched below the source directory
func (s *Scanner) Pattern() string {
	return "**/*." + s.ext
}

// Discover lists matching files as slash-separated paths relative to the
// source directory, in path order
func (s *Scanner) Discover() ([]string, error) {
	info, err := os.Stat(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: source documents directory %s", domain.ErrNotFound, s.dir)
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, domain.NewValidationError("source-documents", fmt.Sprintf("%s is not a directory", s.dir))
	}

	matches, err := doublestar.Glob(os.DirFS(s.dir), s.Pattern(), doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob error: %w", err)
	}

	sortPaths(matches)
	return matches, nil
}

// Scan returns every uniquely identified document keyed by identifier.
// On identifier collisions the first file in path order wins.
func (s *Scanner) Scan(ctx context.Context) (map[string]*domain.DocumentRecord, error) {
	files, err := s.Discover()
	if err != nil {
		return nil, err
	}

	var bar domain.Progress
	if s.progress != nil {
		bar = s.progress(len(files))
		defer bar.Finish()
	}

	records := make(map[string]*domain.DocumentRecord, len(files))
	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if bar != nil {
			_ = bar.Add(1)
		}

		path := filepath.Join(s.dir, filepath.FromSlash(rel))
		id := IdentifierFromPath(rel)
		if !utils.IsSafePathSegment(id) {
			s.logger.Debug().Str("path", path).Msg("Skipping file without usable identifier")
			continue
		}

		if kept, ok := records[id]; ok {
			s.logger.Warn().
				Str("identifier", id).
				Str("kept", kept.SourcePath).
				Str("skipped", path).
				Msg("Duplicate identifier")
			continue
		}

		rec, err := s.record(ctx, id, path)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidDocument) {
				s.logger.Warn().Err(err).Str("identifier", id).Msg("Skipping document that failed inspection")
				continue
			}
			return nil, err
		}
		records[id] = rec
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w under %s (pattern %s)", domain.ErrNoDocuments, s.dir, s.Pattern())
	}

	s.logger.Debug().Int("documents", len(records)).Str("dir", s.dir).Msg("Scan complete")
	return records, nil
}

func (s *Scanner) record(ctx context.Context, id, path string) (*domain.DocumentRecord, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	sum, err := s.hash(ctx, path, info)
	if err != nil {
		return nil, err
	}

	rec := &domain.DocumentRecord{
		Identifier: id,
		SourcePath: path,
		Hash:       sum,
		Size:       info.Size(),
		ModTime:    info.ModTime().UTC(),
	}

	if s.inspector != nil {
		pages, err := s.inspector.Inspect(path)
		if err != nil {
			return nil, err
		}
		rec.Pages = pages
	}

	return rec, nil
}

// hash returns the digest of path, consulting the digest cache first
func (s *Scanner) hash(ctx context.Context, path string, info os.FileInfo) (string, error) {
	if s.cache == nil {
		return digest.File(path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	key := cache.DigestKey(abs, info.Size(), info.ModTime())

	cached, err := s.cache.Get(ctx, key)
	switch {
	case err == nil && digest.Valid(cached):
		s.logger.Debug().Str("path", path).Msg("Digest cache hit")
		return cached, nil
	case err != nil && !errors.Is(err, domain.ErrCacheMiss):
		s.logger.Warn().Err(err).Str("path", path).Msg("Digest cache read failed")
	}

	sum, err := digest.File(path)
	if err != nil {
		return "", err
	}
	if err := s.cache.Set(ctx, key, sum); err != nil {
		s.logger.Warn().Err(err).Str("path", path).Msg("Digest cache write failed")
	}
	return sum, nil
}
