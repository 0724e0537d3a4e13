package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// Load loads configuration from an optional file, the environment, flags
// bound on v, and defaults. When cfgFile is empty, config.yaml is searched
// in ConfigDir() and the working directory; a missing file is not an error.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	if v == nil {
		v = viper.New()
	}

	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(ConfigDir())
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	// Environment variables (DOCMANIFEST_*)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults sets default values in viper
func setDefaults(v *viper.Viper) {
	// Source defaults
	v.SetDefault("source.directory", "")
	v.SetDefault("source.extension", DefaultExtension)

	// Site defaults
	v.SetDefault("site.root", "")
	v.SetDefault("site.base_url", "")

	// Template and snapshot defaults
	v.SetDefault("template.path", "")
	v.SetDefault("snapshot.timestamp", "")

	// Publish and inspect defaults
	v.SetDefault("publish.verify_existing", false)
	v.SetDefault("inspect.enabled", false)
	v.SetDefault("inspect.strict", false)

	// Cache defaults
	v.SetDefault("cache.enabled", DefaultCacheEnabled)
	v.SetDefault("cache.ttl", DefaultCacheTTL)
	v.SetDefault("cache.directory", DigestCacheDir())

	// Output defaults
	v.SetDefault("output.progress", DefaultProgress)
	v.SetDefault("output.dry_run", false)

	// Logging defaults
	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.format", DefaultLogFormat)
}
