package config

import (
	"os"
	"path/filepath"

	"github.com/nickcecere/fcat/internal/search"
)

// Default configuration values
const (
	// Search defaults
	DefaultNameThreshold    = search.DefaultNameThreshold
	DefaultContentThreshold = search.DefaultContentThreshold
	DefaultMaxResults       = search.DefaultMaxResults

	// Catalog defaults
	DefaultMaxRecords = 10000

	// RCFileName is the per-project config file looked up from cwd upwards.
	RCFileName = ".fcatrc.yaml"
)

// DefaultIgnorePatterns returns the default list of record name patterns to
// skip when loading a manifest.
func DefaultIgnorePatterns() []string {
	return []string{
		// Editor and OS leftovers
		"*.swp",
		"*.swo",
		"*~",
		".DS_Store",
		"Thumbs.db",

		// Temporary files
		"*.tmp",
		"*.temp",
		"*.part",
	}
}

// DefaultConfigDir returns the default configuration directory path.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/fcat"
	}
	return filepath.Join(home, ".config", "fcat")
}
