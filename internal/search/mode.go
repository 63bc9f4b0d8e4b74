package search

import (
	"fmt"
	"strings"
)

// Mode selects which search a caller runs.
type Mode string

const (
	ModeCombined Mode = "combined"
	ModeName     Mode = "name"
	ModeIndexed  Mode = "indexed"
	ModeContent  Mode = "content"
)

// Modes lists every supported mode.
var Modes = []Mode{ModeCombined, ModeName, ModeIndexed, ModeContent}

// ParseMode parses a mode name, case-insensitively. Empty means combined.
func ParseMode(s string) (Mode, error) {
	if s == "" {
		return ModeCombined, nil
	}
	m := Mode(strings.ToLower(s))
	for _, known := range Modes {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: unknown search mode %q", ErrInvalidArgument, s)
}

// SearchMode runs the search selected by mode. Single-field modes use the
// matching threshold from opts, tag their results with the searched field and
// are capped at opts.MaxResults like combined searches.
func (s *Searcher) SearchMode(mode Mode, term string, opts Options) ([]Result, error) {
	if mode == ModeCombined {
		return s.Search(term, opts)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	var (
		results []Result
		field   MatchField
		err     error
	)
	switch mode {
	case ModeName:
		results, err = s.SearchName(term, opts.NameThreshold)
		field = FieldName
	case ModeIndexed:
		results, err = s.SearchNameIndexed(term, opts.NameThreshold)
		field = FieldName
	case ModeContent:
		results, err = s.SearchContent(term, opts.ContentThreshold)
		field = FieldContent
	default:
		return nil, fmt.Errorf("%w: unknown search mode %q", ErrInvalidArgument, mode)
	}
	if err != nil {
		return nil, err
	}

	for i := range results {
		results[i].Field = field
	}

	limit := opts.MaxResults
	if limit == 0 {
		limit = DefaultMaxResults
	}
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}
