// Package search provides typo-tolerant search over a record catalog.
package search

import (
	"errors"
	"fmt"
	"math"

	"github.com/nickcecere/fcat/internal/store"
)

// ErrInvalidArgument is returned for malformed search parameters.
var ErrInvalidArgument = errors.New("invalid argument")

// MatchField names the record field a result matched on.
type MatchField string

const (
	FieldName    MatchField = "name"
	FieldContent MatchField = "content"
	FieldTag     MatchField = "tag"
)

// MatchType distinguishes verbatim hits from approximate ones.
type MatchType string

const (
	MatchExact MatchType = "exact"
	MatchFuzzy MatchType = "fuzzy"
)

// Result represents a scored search hit.
type Result struct {
	Record store.Record `json:"record"`

	// Score is the similarity in [0, 1], higher is better.
	Score float64 `json:"score"`

	// Field is empty for single-field searches.
	Field MatchField `json:"field,omitempty"`
	Match MatchType  `json:"match"`
}

// Options configures a combined search.
type Options struct {
	// NameThreshold is the minimum score for name and tag matches.
	NameThreshold float64

	// ContentThreshold is the minimum score for content matches.
	ContentThreshold float64

	IncludeNames   bool
	IncludeContent bool
	IncludeTags    bool

	// MaxResults caps the merged result list. Zero means the default.
	MaxResults int
}

// Default option values.
const (
	DefaultNameThreshold    = 0.6
	DefaultContentThreshold = 0.4
	DefaultMaxResults       = 10
)

// DefaultOptions returns the standard combined search configuration.
func DefaultOptions() Options {
	return Options{
		NameThreshold:    DefaultNameThreshold,
		ContentThreshold: DefaultContentThreshold,
		IncludeNames:     true,
		IncludeContent:   true,
		IncludeTags:      true,
		MaxResults:       DefaultMaxResults,
	}
}

// Validate checks thresholds and limits.
func (o Options) Validate() error {
	if err := validateThreshold("name threshold", o.NameThreshold); err != nil {
		return err
	}
	if err := validateThreshold("content threshold", o.ContentThreshold); err != nil {
		return err
	}
	if o.MaxResults < 0 {
		return fmt.Errorf("%w: max results must not be negative, got %d", ErrInvalidArgument, o.MaxResults)
	}
	return nil
}

func validateThreshold(name string, v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return fmt.Errorf("%w: %s must be within [0, 1], got %v", ErrInvalidArgument, name, v)
	}
	return nil
}

// DescribeRelevance maps a score to a qualitative label. A score equal to a
// band boundary falls into the lower band.
func DescribeRelevance(score float64) string {
	switch {
	case score > 0.9:
		return "Excellent match"
	case score > 0.8:
		return "Good match"
	case score > 0.7:
		return "Fair match"
	case score > 0.6:
		return "Possible match"
	default:
		return "Weak match"
	}
}
