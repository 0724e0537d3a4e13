package app

import (
	"context"
	"fmt"
	"time"

	"github.com/quantmind-br/docmanifest/internal/cache"
	"github.com/quantmind-br/docmanifest/internal/config"
	"github.com/quantmind-br/docmanifest/internal/domain"
	"github.com/quantmind-br/docmanifest/internal/inspect"
	"github.com/quantmind-br/docmanifest/internal/manifest"
	"github.com/quantmind-br/docmanifest/internal/metadata"
	"github.com/quantmind-br/docmanifest/internal/output"
	"github.com/quantmind-br/docmanifest/internal/publisher"
	"github.com/quantmind-br/docmanifest/internal/scanner"
	"github.com/quantmind-br/docmanifest/internal/utils"
)

// Orchestrator coordinates one manifest generation run
type Orchestrator struct {
	config    *config.Config
	opts      domain.CommonOptions
	logger    *utils.Logger
	cache     domain.DigestCache
	inspector domain.Inspector
	now       func() time.Time

	sourceDir string
	siteRoot  string
}

// OrchestratorOptions contains options for creating an orchestrator
type OrchestratorOptions struct {
	domain.CommonOptions
	Config *config.Config
	// Logger overrides the logger built from Config.Logging
	Logger *utils.Logger
	// Now is the run clock; defaults to time.Now
	Now func() time.Time
}

// Result summarizes a completed run
type Result struct {
	ManifestPath string
	SnapshotPath string
	Entries      int
	Copied       int
	Skipped      int
	Duration     time.Duration
}

// NewOrchestrator creates a new orchestrator with the given configuration
func NewOrchestrator(opts OrchestratorOptions) (*Orchestrator, error) {
	cfg := opts.Config

	// Validate config
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if opts.DryRun {
		cfg.Output.DryRun = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logLevel := cfg.Logging.Level
		if opts.Verbose {
			logLevel = "debug"
		}
		logger = utils.NewLogger(utils.LoggerOptions{
			Level:   logLevel,
			Format:  cfg.Logging.Format,
			Verbose: opts.Verbose,
		})
	}

	sourceDir, err := utils.ResolvePath(cfg.Source.Directory)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve source directory: %w", err)
	}
	siteRoot, err := utils.ResolvePath(cfg.Site.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve site root: %w", err)
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	o := &Orchestrator{
		config:    cfg,
		opts:      opts.CommonOptions,
		logger:    logger,
		now:       now,
		sourceDir: sourceDir,
		siteRoot:  siteRoot,
	}

	if cfg.Inspect.Enabled {
		o.inspector = inspect.NewPDFInspector(cfg.Inspect.Strict)
	}

	if cfg.Cache.Enabled {
		c, err := cache.NewBadgerCache(cache.Options{
			Directory: cfg.Cache.Directory,
			TTL:       cfg.Cache.TTL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open digest cache: %w", err)
		}
		logger.Debug().
			Str("dir", cfg.Cache.Directory).
			Int64("entries", c.Size()).
			Msg("Digest cache opened")
		o.cache = c
	}

	return o, nil
}

// Run scans, merges, publishes and writes the manifest. Nothing is written
// unless every selected document was published.
func (o *Orchestrator) Run(ctx context.Context) (*Result, error) {
	startTime := time.Now()
	cfg := o.config

	o.logger.Info().
		Str("source", o.sourceDir).
		Str("site_root", o.siteRoot).
		Bool("dry_run", cfg.Output.DryRun).
		Msg("Starting manifest generation")

	sc := scanner.New(scanner.Options{
		Directory: o.sourceDir,
		Extension: cfg.Source.Extension,
		Cache:     o.cache,
		Inspector: o.inspector,
		Progress:  o.progress(utils.DescScanning),
		Logger:    o.logger,
	})
	records, err := sc.Scan(ctx)
	if err != nil {
		return nil, err
	}

	var tmpl *metadata.Template
	if cfg.Template.Path != "" {
		path, err := utils.ResolvePath(cfg.Template.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve template path: %w", err)
		}
		tmpl, err = metadata.NewLoader().Load(path)
		if err != nil {
			return nil, err
		}
		o.logger.Debug().Str("template", path).Int("items", len(tmpl.Items)).Msg("Loaded template")
	}

	// generatedAt and the default snapshot name share one clock reading
	now := o.now().UTC()
	snapshotTS := cfg.Snapshot.Timestamp
	if snapshotTS == "" {
		snapshotTS = now.Format(domain.SnapshotLayout)
	}

	pub := publisher.New(publisher.Options{
		SiteRoot:       o.siteRoot,
		Extension:      cfg.Source.Extension,
		VerifyExisting: cfg.Publish.VerifyExisting,
		DryRun:         cfg.Output.DryRun,
		Logger:         o.logger,
	})
	builder := manifest.NewBuilder(manifest.BuilderOptions{
		Publisher: pub,
		BaseURL:   cfg.Site.BaseURL,
		Now:       func() time.Time { return now },
		Progress:  o.progress(utils.DescPublishing),
		Logger:    o.logger,
	})

	m, err := builder.Build(ctx, records, tmpl)
	if err != nil {
		if ctx.Err() != nil {
			o.logger.Warn().Msg("Manifest generation cancelled")
			return nil, ctx.Err()
		}
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		o.logger.Warn().Msg("Manifest generation cancelled")
		return nil, err
	}

	writer := output.NewWriter(output.WriterOptions{
		SiteRoot: o.siteRoot,
		DryRun:   cfg.Output.DryRun,
		Logger:   o.logger,
	})
	latest, snapshot, err := writer.WriteManifest(m, snapshotTS)
	if err != nil {
		return nil, fmt.Errorf("failed to write manifest: %w", err)
	}

	copied, skipped := pub.Stats()
	result := &Result{
		ManifestPath: latest,
		SnapshotPath: snapshot,
		Entries:      len(m.Entries),
		Copied:       copied,
		Skipped:      skipped,
		Duration:     time.Since(startTime),
	}

	if cfg.Output.DryRun {
		o.logger.Info().Str("path", latest).Msg("Dry run, would write")
		o.logger.Info().Str("path", snapshot).Msg("Dry run, would write")
	} else {
		o.logger.Info().Str("path", latest).Msg("Wrote")
		o.logger.Info().Str("path", snapshot).Msg("Wrote")
	}
	o.logger.Info().
		Int("entries", result.Entries).
		Int("copied", result.Copied).
		Int("skipped", result.Skipped).
		Dur("duration", result.Duration).
		Msgf("Processed %d documents", result.Entries)

	return result, nil
}

// Close releases all resources held by the orchestrator
func (o *Orchestrator) Close() error {
	if o.cache != nil {
		return o.cache.Close()
	}
	return nil
}

// progress returns a progress factory, or nil when bars are disabled.
// Bars are suppressed in verbose mode so they do not interleave with logs.
func (o *Orchestrator) progress(desc string) func(total int) domain.Progress {
	if !o.opts.Progress || !o.config.Output.Progress || o.opts.Verbose {
		return nil
	}
	return func(total int) domain.Progress {
		return utils.NewProgress(true, total, desc)
	}
}
