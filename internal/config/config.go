package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/quantmind-br/docmanifest/internal/domain"
	"github.com/quantmind-br/docmanifest/internal/utils"
)

// Config represents the application configuration
type Config struct {
	Source   SourceConfig   `mapstructure:"source" yaml:"source"`
	Site     SiteConfig     `mapstructure:"site" yaml:"site"`
	Template TemplateConfig `mapstructure:"template" yaml:"template"`
	Snapshot SnapshotConfig `mapstructure:"snapshot" yaml:"snapshot"`
	Publish  PublishConfig  `mapstructure:"publish" yaml:"publish"`
	Inspect  InspectConfig  `mapstructure:"inspect" yaml:"inspect"`
	Cache    CacheConfig    `mapstructure:"cache" yaml:"cache"`
	Output   OutputConfig   `mapstructure:"output" yaml:"output"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging"`
}

// SourceConfig describes where documents are scanned from
type SourceConfig struct {
	Directory string `mapstructure:"directory" yaml:"directory"`
	Extension string `mapstructure:"extension" yaml:"extension"`
}

// SiteConfig describes the published site
type SiteConfig struct {
	Root    string `mapstructure:"root" yaml:"root"`
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
}

// TemplateConfig points at optional template metadata
type TemplateConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// SnapshotConfig controls the timestamped manifest copy
type SnapshotConfig struct {
	Timestamp string `mapstructure:"timestamp" yaml:"timestamp"`
}

// PublishConfig contains content-addressed publishing settings
type PublishConfig struct {
	VerifyExisting bool `mapstructure:"verify_existing" yaml:"verify_existing"`
}

// InspectConfig contains PDF inspection settings
type InspectConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	Strict  bool `mapstructure:"strict" yaml:"strict"`
}

// CacheConfig contains digest cache settings
type CacheConfig struct {
	Enabled   bool          `mapstructure:"enabled" yaml:"enabled"`
	TTL       time.Duration `mapstructure:"ttl" yaml:"ttl"`
	Directory string        `mapstructure:"directory" yaml:"directory"`
}

// OutputConfig contains run output settings
type OutputConfig struct {
	Progress bool `mapstructure:"progress" yaml:"progress"`
	DryRun   bool `mapstructure:"dry_run" yaml:"dry_run"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Validate checks required settings and normalizes the rest
func (c *Config) Validate() error {
	c.Source.Directory = strings.TrimSpace(c.Source.Directory)
	c.Site.Root = strings.TrimSpace(c.Site.Root)

	if c.Source.Directory == "" {
		return domain.NewValidationError("source-documents", "source documents directory is required")
	}
	if c.Site.Root == "" {
		return domain.NewValidationError("site-root", "site root directory is required")
	}

	ext, err := NormalizeExtension(c.Source.Extension)
	if err != nil {
		return err
	}
	c.Source.Extension = ext

	if c.Snapshot.Timestamp != "" {
		if err := ValidateSnapshotTimestamp(c.Snapshot.Timestamp); err != nil {
			return err
		}
	}

	if c.Cache.TTL < time.Minute {
		c.Cache.TTL = DefaultCacheTTL
	}
	if c.Cache.Directory == "" {
		c.Cache.Directory = DigestCacheDir()
	}
	c.Cache.Directory = utils.ExpandPath(c.Cache.Directory)

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		c.Logging.Level = DefaultLogLevel
	}
	if c.Logging.Format != "json" {
		c.Logging.Format = DefaultLogFormat
	}

	return nil
}

// NormalizeExtension lowercases ext and strips a leading dot
func NormalizeExtension(ext string) (string, error) {
	ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
	if ext == "" {
		ext = DefaultExtension
	}
	if !utils.IsSafePathSegment(ext) || strings.ContainsAny(ext, "*?[]{}") {
		return "", domain.NewValidationError("extension", fmt.Sprintf("invalid document extension %q", ext))
	}
	return ext, nil
}

// ValidateSnapshotTimestamp checks ts against the YYYYMMDD-HHMMSS layout
func ValidateSnapshotTimestamp(ts string) error {
	if _, err := time.Parse(domain.SnapshotLayout, ts); err != nil {
		return fmt.Errorf("%w: %q (expected YYYYMMDD-HHMMSS)", domain.ErrInvalidTimestamp, ts)
	}
	return nil
}
