package config

import (
	"os"
	"path/filepath"
	"time"
)

// Default values
const (
	// Source defaults
	DefaultExtension = "pdf"

	// Cache defaults
	DefaultCacheEnabled = false
	DefaultCacheTTL     = 30 * 24 * time.Hour

	// Output defaults
	DefaultProgress = true

	// Logging defaults
	DefaultLogLevel  = "info"
	DefaultLogFormat = "pretty"

	// EnvPrefix is the prefix for environment overrides (DOCMANIFEST_*)
	EnvPrefix = "DOCMANIFEST"
)

// ConfigDir returns the config directory path
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".docmanifest"
	}
	return filepath.Join(home, ".docmanifest")
}

// CacheDir returns the cache directory path
func CacheDir() string {
	return filepath.Join(ConfigDir(), "cache")
}

// DigestCacheDir returns the directory of the content digest cache
func DigestCacheDir() string {
	return filepath.Join(CacheDir(), "digests")
}

// ConfigFilePath returns the config file path
func ConfigFilePath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			Extension: DefaultExtension,
		},
		Cache: CacheConfig{
			Enabled:   DefaultCacheEnabled,
			TTL:       DefaultCacheTTL,
			Directory: DigestCacheDir(),
		},
		Output: OutputConfig{
			Progress: DefaultProgress,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
