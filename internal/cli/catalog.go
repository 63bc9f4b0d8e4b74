package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/nickcecere/fcat/internal/config"
	"github.com/nickcecere/fcat/internal/indexer"
	"github.com/nickcecere/fcat/internal/manifest"
	"github.com/nickcecere/fcat/internal/metrics"
	"github.com/nickcecere/fcat/internal/search"
	"github.com/nickcecere/fcat/internal/store"
)

// catalog is a loaded, searchable set of records.
type catalog struct {
	searcher *search.Searcher
	metrics  *metrics.Metrics // nil unless metrics are enabled
	source   string
	progress indexer.Progress
}

// recordStore returns the record store behind the catalog.
func (c *catalog) recordStore() store.Reader {
	return c.searcher.Store()
}

// catalogOptions adjusts how a catalog is opened.
type catalogOptions struct {
	recall  bool
	metrics bool
}

// openCatalog loads the configured manifest, or the sample catalog when none
// is configured.
func openCatalog(ctx context.Context, cfg *config.Config, opts catalogOptions) (*catalog, error) {
	c := &catalog{}

	searchOpts := []search.Option{
		search.WithGuaranteedRecall(cfg.Search.GuaranteedRecall || opts.recall),
	}
	if cfg.Metrics.Enabled || opts.metrics {
		c.metrics = metrics.New()
		searchOpts = append(searchOpts, search.WithObserver(c.metrics))
	}
	c.searcher = search.New(store.NewMemoryStore(), searchOpts...)

	idx := indexer.New(c.searcher)
	indexOpts := indexer.DefaultIndexOptions()
	indexOpts.Manifest = cfg.ManifestOptions()

	path := catalogPath
	if path == "" {
		path = cfg.Catalog.Path
	}

	var err error
	if path == "" {
		c.source = "built-in sample"
		c.progress, err = idx.Index(ctx, manifest.Sample(), indexOpts)
	} else {
		c.source = path
		c.progress, err = idx.IndexFile(ctx, path, indexOpts)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	if c.metrics != nil {
		c.metrics.SetCatalogSize(c.recordStore().Len(), c.searcher.WordCount())
	}

	log.Debug("Catalog loaded", "source", c.source, "records", c.recordStore().Len())
	return c, nil
}
