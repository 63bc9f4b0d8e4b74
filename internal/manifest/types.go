// Package manifest loads record catalogs from YAML manifest files.
package manifest

import (
	"errors"
	"time"
)

// ErrInvalidManifest is returned when a manifest cannot be decoded or holds
// inconsistent records.
var ErrInvalidManifest = errors.New("invalid manifest")

// Options configures manifest loading.
type Options struct {
	// IgnorePatterns skip records whose name matches (gitignore syntax).
	IgnorePatterns []string

	// MaxRecords is the maximum number of records to load. Zero means no limit.
	MaxRecords int
}

// DefaultOptions returns sensible defaults for loading.
func DefaultOptions() Options {
	return Options{
		MaxRecords: 10000,
	}
}

// Stats tracks manifest loading statistics.
type Stats struct {
	Loaded       int // Records returned
	Ignored      int // Records skipped by an ignore pattern
	Truncated    int // Records dropped past MaxRecords
	AssignedID   int // Records that were given a generated ID
	InferredType int // Records whose type was derived from the name
}

// file is the on-disk manifest layout.
type file struct {
	Records []entry `yaml:"records"`
}

// entry is a single manifest record. ID is a pointer so an omitted ID can be
// told apart from zero.
type entry struct {
	ID           *int64    `yaml:"id"`
	Name         string    `yaml:"name"`
	Size         int64     `yaml:"size"`
	Type         string    `yaml:"type"`
	Content      string    `yaml:"content"`
	Tags         []string  `yaml:"tags"`
	CreatedAt    time.Time `yaml:"created_at"`
	LastModified time.Time `yaml:"last_modified"`
}
