package manifest

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	gitignore "github.com/sabhiram/go-gitignore"
	"gopkg.in/yaml.v3"

	"github.com/nickcecere/fcat/internal/store"
)

// LoadFile reads and parses the manifest at path.
func LoadFile(path string, opts Options) ([]store.Record, Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer f.Close()

	records, stats, err := Parse(f, opts)
	if err != nil {
		return nil, stats, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return records, stats, nil
}

// Parse decodes a YAML manifest into records in file order.
//
// Records without an ID receive one greater than the largest ID seen so far.
// Records without a type have it derived from the name extension.
func Parse(r io.Reader, opts Options) ([]store.Record, Stats, error) {
	var stats Stats

	var m file
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, stats, nil
		}
		return nil, stats, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}

	var ignorer *gitignore.GitIgnore
	if len(opts.IgnorePatterns) > 0 {
		ignorer = gitignore.CompileIgnoreLines(opts.IgnorePatterns...)
	}

	var maxID int64
	for _, e := range m.Records {
		if e.ID != nil && *e.ID > maxID {
			maxID = *e.ID
		}
	}

	seen := make(map[int64]int, len(m.Records))
	records := make([]store.Record, 0, len(m.Records))

	for i, e := range m.Records {
		if strings.TrimSpace(e.Name) == "" {
			return nil, stats, fmt.Errorf("%w: record %d has no name", ErrInvalidManifest, i+1)
		}
		if e.Size < 0 {
			return nil, stats, fmt.Errorf("%w: record %q has negative size %d", ErrInvalidManifest, e.Name, e.Size)
		}

		var id int64
		if e.ID != nil {
			id = *e.ID
		} else {
			maxID++
			id = maxID
			stats.AssignedID++
		}
		if prev, dup := seen[id]; dup {
			return nil, stats, fmt.Errorf("%w: records %d and %d share id %d", ErrInvalidManifest, prev, i+1, id)
		}
		seen[id] = i + 1

		if ignorer != nil && ignorer.MatchesPath(e.Name) {
			log.Debug("Ignoring record", "name", e.Name)
			stats.Ignored++
			continue
		}

		if opts.MaxRecords > 0 && len(records) >= opts.MaxRecords {
			stats.Truncated++
			continue
		}

		typ := e.Type
		if typ == "" {
			typ = DetectType(e.Name)
			stats.InferredType++
		}

		records = append(records, store.Record{
			ID:           store.ID(id),
			Name:         e.Name,
			Size:         e.Size,
			Type:         typ,
			Content:      e.Content,
			Tags:         e.Tags,
			CreatedAt:    e.CreatedAt,
			LastModified: e.LastModified,
		})
	}

	if stats.Truncated > 0 {
		log.Warn("Manifest exceeds record limit", "limit", opts.MaxRecords, "dropped", stats.Truncated)
	}
	stats.Loaded = len(records)
	return records, stats, nil
}
