// Package indexer loads records into a searchable catalog.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nickcecere/fcat/internal/manifest"
	"github.com/nickcecere/fcat/internal/search"
	"github.com/nickcecere/fcat/internal/store"
)

// Indexer orchestrates loading records into a searcher.
type Indexer struct {
	searcher *search.Searcher

	// Progress tracking
	progress Progress
	mu       sync.Mutex
}

// Progress tracks indexing progress.
type Progress struct {
	TotalRecords     int
	ProcessedRecords int
	SkippedRecords   int
	Errors           int
	StartTime        time.Time
	CurrentRecord    string
}

// ProgressFunc is called to report progress during indexing.
type ProgressFunc func(Progress)

// IndexOptions configures the indexing process.
type IndexOptions struct {
	// OnProgress is called after each record.
	OnProgress ProgressFunc

	// Manifest configures manifest decoding for IndexFile.
	Manifest manifest.Options
}

// DefaultIndexOptions returns sensible defaults.
func DefaultIndexOptions() IndexOptions {
	return IndexOptions{
		Manifest: manifest.DefaultOptions(),
	}
}

// New creates a new Indexer.
func New(s *search.Searcher) *Indexer {
	return &Indexer{searcher: s}
}

// Index adds records to the catalog in order.
//
// A record whose ID is already present with identical content is skipped.
// Any other failure is counted and logged, and indexing continues.
func (idx *Indexer) Index(ctx context.Context, records []store.Record, opts IndexOptions) (Progress, error) {
	idx.mu.Lock()
	idx.progress = Progress{
		TotalRecords: len(records),
		StartTime:    time.Now(),
	}
	idx.mu.Unlock()

	for _, rec := range records {
		select {
		case <-ctx.Done():
			return idx.Progress(), ctx.Err()
		default:
		}

		idx.mu.Lock()
		idx.progress.CurrentRecord = rec.Name
		idx.mu.Unlock()

		skipped, err := idx.indexRecord(rec)

		idx.mu.Lock()
		switch {
		case err != nil:
			log.Warn("Failed to index record", "id", rec.ID, "name", rec.Name, "error", err)
			idx.progress.Errors++
		case skipped:
			idx.progress.SkippedRecords++
		default:
			idx.progress.ProcessedRecords++
		}
		if opts.OnProgress != nil {
			opts.OnProgress(idx.progress)
		}
		idx.mu.Unlock()
	}

	p := idx.Progress()
	log.Debug("Indexing complete",
		"records", p.ProcessedRecords,
		"skipped", p.SkippedRecords,
		"errors", p.Errors,
		"duration", time.Since(p.StartTime).Round(time.Millisecond),
	)
	return p, nil
}

// IndexFile loads a manifest from path and indexes its records.
func (idx *Indexer) IndexFile(ctx context.Context, path string, opts IndexOptions) (Progress, error) {
	records, stats, err := manifest.LoadFile(path, opts.Manifest)
	if err != nil {
		return Progress{}, err
	}
	log.Debug("Found records to index", "count", stats.Loaded, "ignored", stats.Ignored)

	return idx.Index(ctx, records, opts)
}

// indexRecord adds a single record, reporting whether it was already present.
func (idx *Indexer) indexRecord(rec store.Record) (bool, error) {
	_, err := idx.searcher.Add(rec)
	if err == nil {
		log.Debug("Indexed record", "id", rec.ID, "name", rec.Name)
		return false, nil
	}
	if !errors.Is(err, store.ErrDuplicateID) {
		return false, fmt.Errorf("failed to add record: %w", err)
	}

	existing, ok := idx.searcher.Store().Get(rec.ID)
	if ok && existing.Name == rec.Name && existing.ContentHash() == rec.ContentHash() {
		log.Debug("Record unchanged, skipping", "id", rec.ID)
		return true, nil
	}
	return false, err
}

// Progress returns the current indexing progress.
func (idx *Indexer) Progress() Progress {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.progress
}
