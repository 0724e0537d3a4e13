// Package publisher copies documents to immutable, content-addressed
// locations below a site root.
package publisher

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/quantmind-br/docmanifest/internal/digest"
	"github.com/quantmind-br/docmanifest/internal/domain"
	"github.com/quantmind-br/docmanifest/internal/utils"
)

// DocumentsDir is the site-root directory holding published documents
const DocumentsDir = "documents"

// Ensure Publisher implements domain.Publisher
var _ domain.Publisher = (*Publisher)(nil)

// Options contains publisher settings
type Options struct {
	SiteRoot  string
	Extension string

	// VerifyExisting re-hashes an existing destination and replaces it on
	// mismatch instead of trusting the content address
	VerifyExisting bool
	DryRun         bool

	Logger *utils.Logger
}

// Publisher places documents at <site-root>/documents/<identifier>/<hash>.<ext>
type Publisher struct {
	siteRoot       string
	ext            string
	verifyExisting bool
	dryRun         bool
	logger         *utils.Logger

	copied  int
	skipped int
}

// New creates a publisher
func New(opts Options) *Publisher {
	logger := opts.Logger
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	ext := opts.Extension
	if ext == "" {
		ext = "pdf"
	}

	return &Publisher{
		siteRoot:       opts.SiteRoot,
		ext:            ext,
		verifyExisting: opts.VerifyExisting,
		dryRun:         opts.DryRun,
		logger:         logger.WithComponent("publisher"),
	}
}

// RelativeURL returns the slash-separated URL of a record relative to the
// site root. It depends only on the identifier, the hash and the extension.
func RelativeURL(identifier, hash, ext string) string {
	return path.Join(DocumentsDir, identifier, hash+"."+ext)
}

// Destination returns the absolute filesystem destination of rec
func (p *Publisher) Destination(rec *domain.DocumentRecord) string {
	return filepath.Join(p.siteRoot, filepath.FromSlash(RelativeURL(rec.Identifier, rec.Hash, p.ext)))
}

// Publish ensures rec is present at its content-addressed location and
// returns the relative URL
func (p *Publisher) Publish(ctx context.Context, rec *domain.DocumentRecord) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !utils.IsSafePathSegment(rec.Identifier) || !digest.Valid(rec.Hash) {
		return "", domain.NewPublishError(rec.Identifier, rec.Hash,
			domain.NewValidationError("record", "identifier or hash unusable as a path"))
	}

	url := RelativeURL(rec.Identifier, rec.Hash, p.ext)
	dst := p.Destination(rec)
	log := p.logger.WithIdentifier(rec.Identifier)

	if p.dryRun {
		log.Debug().Str("destination", dst).Msg("Dry run, not copying")
		return url, nil
	}

	if _, err := os.Stat(dst); err == nil {
		ok, err := p.existingIsValid(dst, rec.Hash)
		if err != nil {
			return "", domain.NewPublishError(rec.Identifier, dst, err)
		}
		if ok {
			p.skipped++
			log.Debug().Str("destination", dst).Msg("Already published")
			return url, nil
		}
		log.Warn().Str("destination", dst).Msg("Published file does not match its hash, replacing it")
	} else if !os.IsNotExist(err) {
		return "", domain.NewPublishError(rec.Identifier, dst, err)
	}

	if err := copyFile(rec.SourcePath, dst); err != nil {
		return "", domain.NewPublishError(rec.Identifier, dst, err)
	}

	p.copied++
	log.Debug().Str("source", rec.SourcePath).Str("destination", dst).Msg("Published")
	return url, nil
}

// Stats returns how many documents were copied and how many were already present
func (p *Publisher) Stats() (copied, skipped int) {
	return p.copied, p.skipped
}

// existingIsValid reports whether an existing destination can be kept
func (p *Publisher) existingIsValid(dst, hash string) (bool, error) {
	if !p.verifyExisting {
		return true, nil
	}
	sum, err := digest.File(dst)
	if err != nil {
		return false, err
	}
	return sum == hash, nil
}

// copyFile copies src to dst through a temporary file and rename, keeping
// the source's permission bits and modification time
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	err = utils.WriteFileAtomic(dst, info.Mode().Perm(), func(w io.Writer) error {
		_, err := io.Copy(w, in)
		return err
	})
	if err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}

	mtime := info.ModTime()
	return os.Chtimes(dst, mtime, mtime)
}
