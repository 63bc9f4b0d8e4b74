package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/nickcecere/fcat/internal/search"
	"github.com/nickcecere/fcat/internal/store"
	"github.com/nickcecere/fcat/internal/ui"
)

// Tool names.
const (
	ToolSearch     = "catalog_search"
	ToolGet        = "catalog_get"
	ToolReport     = "catalog_report"
	ToolUpdateTags = "catalog_update_tags"
)

func tools() []Tool {
	zero, one := 0.0, 1.0
	modes := make([]string, len(search.Modes))
	for i, m := range search.Modes {
		modes[i] = string(m)
	}

	return []Tool{
		{
			Name:        ToolSearch,
			Description: "Typo-tolerant search over the file catalog by name, content and tags.",
			InputSchema: Schema{
				Type: "object",
				Properties: map[string]Schema{
					"query": {
						Type:        "string",
						Description: "The search term",
					},
					"mode": {
						Type:        "string",
						Description: "Which fields to search",
						Enum:        modes,
						Default:     string(search.ModeCombined),
					},
					"limit": {
						Type:        "number",
						Description: "Maximum number of results to return",
						Default:     search.DefaultMaxResults,
					},
					"name_threshold": {
						Type:        "number",
						Description: "Minimum similarity for name and tag matches",
						Minimum:     &zero,
						Maximum:     &one,
					},
					"content_threshold": {
						Type:        "number",
						Description: "Minimum similarity for content matches",
						Minimum:     &zero,
						Maximum:     &one,
					},
				},
				Required: []string{"query"},
			},
		},
		{
			Name:        ToolGet,
			Description: "Fetch a catalog record by id.",
			InputSchema: Schema{
				Type: "object",
				Properties: map[string]Schema{
					"id": {Type: "number", Description: "Record id"},
				},
				Required: []string{"id"},
			},
		},
		{
			Name:        ToolReport,
			Description: "Summarize the catalog: totals, largest files, type statistics and recent additions.",
			InputSchema: Schema{Type: "object"},
		},
		{
			Name:        ToolUpdateTags,
			Description: "Add and remove tags on several records at once.",
			InputSchema: Schema{
				Type: "object",
				Properties: map[string]Schema{
					"ids":    {Type: "array", Description: "Record ids", Items: &Schema{Type: "number"}},
					"add":    {Type: "array", Description: "Tags to add", Items: &Schema{Type: "string"}},
					"remove": {Type: "array", Description: "Tags to remove", Items: &Schema{Type: "string"}},
				},
				Required: []string{"ids"},
			},
		},
	}
}

// toolSearch runs a catalog search.
func (s *Server) toolSearch(_ context.Context, args map[string]any) (string, error) {
	query, _ := args["query"].(string)
	if query == "" {
		return "", errors.New("query is required")
	}

	modeName, _ := args["mode"].(string)
	mode, err := search.ParseMode(modeName)
	if err != nil {
		return "", err
	}

	opts := s.cfg.SearchOptions()
	if v, ok, err := intArg(args, "limit", 0, math.MaxInt32); err != nil {
		return "", err
	} else if ok {
		opts.MaxResults = int(v)
	}
	if v, ok, err := numberArg(args, "name_threshold"); err != nil {
		return "", err
	} else if ok {
		opts.NameThreshold = v
	}
	if v, ok, err := numberArg(args, "content_threshold"); err != nil {
		return "", err
	} else if ok {
		opts.ContentThreshold = v
	}

	results, err := s.searcher.SearchMode(mode, query, opts)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "No results found.", nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d results:\n\n", len(results))
	for i, row := range ui.FormatResults(results) {
		fmt.Fprintf(&sb, "[%d] %s (id %d, %s) - %s %s, %s\n",
			i+1, row.Name, row.ID, row.Type, row.Similarity, row.MatchDetails, row.Relevance)
	}
	return sb.String(), nil
}

// toolGet returns one record as JSON.
func (s *Server) toolGet(args map[string]any) (string, error) {
	v, ok, err := intArg(args, "id", -maxExactInt, maxExactInt)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", errors.New("id is required")
	}

	rec, found := s.searcher.Store().Get(store.ID(v))
	if !found {
		return "", fmt.Errorf("record %d not found", v)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode record: %w", err)
	}
	return string(data), nil
}

// toolReport returns the storage report as markdown.
func (s *Server) toolReport() (string, error) {
	return ui.ReportMarkdown(s.searcher.Store().Report()), nil
}

// toolUpdateTags applies a batch tag update.
func (s *Server) toolUpdateTags(args map[string]any) (string, error) {
	raw, ok := args["ids"].([]any)
	if !ok || len(raw) == 0 {
		return "", errors.New("ids must be a non-empty array")
	}
	ids := make([]store.ID, 0, len(raw))
	for _, r := range raw {
		f, ok := r.(float64)
		if !ok || f != math.Trunc(f) || math.Abs(f) > maxExactInt {
			return "", fmt.Errorf("invalid id %v", r)
		}
		ids = append(ids, store.ID(f))
	}

	add, err := stringsArg(args, "add")
	if err != nil {
		return "", err
	}
	remove, err := stringsArg(args, "remove")
	if err != nil {
		return "", err
	}

	n := s.searcher.UpdateTags(ids, add, remove)
	return fmt.Sprintf("Updated %d of %d records.", n, len(ids)), nil
}

// numberArg reads an optional numeric argument.
func numberArg(args map[string]any, key string) (float64, bool, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return 0, false, nil
	}
	f, ok := v.(float64)
	if !ok {
		return 0, false, fmt.Errorf("%s must be a number", key)
	}
	return f, true, nil
}

// maxExactInt is the largest integer a JSON number holds without rounding.
const maxExactInt = 1 << 53

// intArg reads an optional whole-number argument within [lo, hi].
func intArg(args map[string]any, key string, lo, hi int64) (int64, bool, error) {
	f, ok, err := numberArg(args, key)
	if err != nil || !ok {
		return 0, ok, err
	}
	if f != math.Trunc(f) || f < float64(lo) || f > float64(hi) {
		return 0, false, fmt.Errorf("%s must be a whole number between %d and %d, got %v", key, lo, hi, f)
	}
	return int64(f), true, nil
}

// stringsArg reads an optional array of strings.
func stringsArg(args map[string]any, key string) ([]string, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return nil, nil
	}
	raw, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%s must be an array of strings", key)
	}
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		s, ok := r.(string)
		if !ok {
			return nil, fmt.Errorf("%s must be an array of strings", key)
		}
		out = append(out, s)
	}
	return out, nil
}
