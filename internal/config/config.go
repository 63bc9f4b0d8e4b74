// Package config handles configuration loading and validation for fcat.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"

	"github.com/nickcecere/fcat/internal/manifest"
	"github.com/nickcecere/fcat/internal/search"
)

// Config represents the complete fcat configuration.
type Config struct {
	Search  SearchConfig  `mapstructure:"search"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Ignore  []string      `mapstructure:"ignore"`
}

// SearchConfig configures the default search behavior.
type SearchConfig struct {
	NameThreshold    float64 `mapstructure:"name_threshold"`
	ContentThreshold float64 `mapstructure:"content_threshold"`
	MaxResults       int     `mapstructure:"max_results"`
	IncludeNames     bool    `mapstructure:"include_names"`
	IncludeContent   bool    `mapstructure:"include_content"`
	IncludeTags      bool    `mapstructure:"include_tags"`
	GuaranteedRecall bool    `mapstructure:"guaranteed_recall"`
}

// CatalogConfig configures where records are loaded from.
type CatalogConfig struct {
	// Path is a YAML manifest. Empty means the built-in sample catalog.
	Path       string `mapstructure:"path"`
	MaxRecords int    `mapstructure:"max_records"`
}

// MetricsConfig configures search instrumentation.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Global configuration instance
var cfg *Config

// Get returns the current configuration.
func Get() *Config {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return cfg
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Search: SearchConfig{
			NameThreshold:    DefaultNameThreshold,
			ContentThreshold: DefaultContentThreshold,
			MaxResults:       DefaultMaxResults,
			IncludeNames:     true,
			IncludeContent:   true,
			IncludeTags:      true,
		},
		Catalog: CatalogConfig{
			MaxRecords: DefaultMaxRecords,
		},
		Ignore: DefaultIgnorePatterns(),
	}
}

// Load reads configuration from file and environment variables.
func Load(configFile string) error {
	setDefaults()

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(DefaultConfigDir())
		viper.AddConfigPath(".")

		// A project .fcatrc.yaml takes precedence over the global config
		if rcPath := findRCFile(); rcPath != "" {
			viper.SetConfigFile(rcPath)
		}
	}

	viper.SetEnvPrefix("FCAT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
		log.Debug("No config file found, using defaults")
	} else {
		log.Debug("Loaded config from", "file", viper.ConfigFileUsed())
	}

	loaded := &Config{}
	if err := viper.Unmarshal(loaded); err != nil {
		return fmt.Errorf("error parsing config: %w", err)
	}
	if err := loaded.Validate(); err != nil {
		return err
	}

	cfg = loaded
	return nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	for name, v := range map[string]float64{
		"search.name_threshold":    c.Search.NameThreshold,
		"search.content_threshold": c.Search.ContentThreshold,
	} {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return fmt.Errorf("invalid config: %s must be within [0, 1], got %v", name, v)
		}
	}
	if c.Search.MaxResults < 0 {
		return fmt.Errorf("invalid config: search.max_results must not be negative, got %d", c.Search.MaxResults)
	}
	if c.Catalog.MaxRecords < 0 {
		return fmt.Errorf("invalid config: catalog.max_records must not be negative, got %d", c.Catalog.MaxRecords)
	}
	return nil
}

// SearchOptions converts the search section to combined search options.
func (c *Config) SearchOptions() search.Options {
	return search.Options{
		NameThreshold:    c.Search.NameThreshold,
		ContentThreshold: c.Search.ContentThreshold,
		IncludeNames:     c.Search.IncludeNames,
		IncludeContent:   c.Search.IncludeContent,
		IncludeTags:      c.Search.IncludeTags,
		MaxResults:       c.Search.MaxResults,
	}
}

// ManifestOptions converts the catalog section to manifest loading options.
func (c *Config) ManifestOptions() manifest.Options {
	return manifest.Options{
		IgnorePatterns: c.Ignore,
		MaxRecords:     c.Catalog.MaxRecords,
	}
}

// setDefaults sets default values in viper.
func setDefaults() {
	// Search
	viper.SetDefault("search.name_threshold", DefaultNameThreshold)
	viper.SetDefault("search.content_threshold", DefaultContentThreshold)
	viper.SetDefault("search.max_results", DefaultMaxResults)
	viper.SetDefault("search.include_names", true)
	viper.SetDefault("search.include_content", true)
	viper.SetDefault("search.include_tags", true)
	viper.SetDefault("search.guaranteed_recall", false)

	// Catalog
	viper.SetDefault("catalog.path", "")
	viper.SetDefault("catalog.max_records", DefaultMaxRecords)

	// Metrics
	viper.SetDefault("metrics.enabled", false)

	// Ignore patterns
	viper.SetDefault("ignore", DefaultIgnorePatterns())
}

// findRCFile searches for .fcatrc.yaml starting from current directory.
func findRCFile() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		rcPath := filepath.Join(dir, RCFileName)
		if _, err := os.Stat(rcPath); err == nil {
			return rcPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// ConfigFilePath returns the path of the loaded config file, or empty string if none.
func ConfigFilePath() string {
	return viper.ConfigFileUsed()
}

// GlobalConfigPath returns the path to the global config file.
func GlobalConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}
