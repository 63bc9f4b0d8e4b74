package cli

import (
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/nickcecere/fcat/internal/config"
	"github.com/nickcecere/fcat/internal/indexer"
	"github.com/nickcecere/fcat/internal/manifest"
	"github.com/nickcecere/fcat/internal/search"
	"github.com/nickcecere/fcat/internal/store"
	"github.com/nickcecere/fcat/internal/ui"
)

var (
	indexIgnore     []string
	indexMaxRecords int
	indexDryRun     bool
)

// indexCmd validates and loads a manifest.
var indexCmd = &cobra.Command{
	Use:   "index <manifest>",
	Short: "Load a catalog manifest and report what was indexed",
	Long: `Load a YAML manifest into a fresh catalog and report how many records
were indexed, skipped or rejected. Use it to check a manifest before pointing
catalog.path at it.

Manifest format:
  records:
    - id: 1
      name: Q1 Financial Report.docx
      size: 250
      type: document            # derived from the extension when omitted
      content: First quarter financial results for 2023.
      tags: [report, financial, Q1]

Examples:
  # Load and summarize
  fcat index files.yaml

  # Skip drafts and preview the parsed records only
  fcat index files.yaml --ignore "drafts/" --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().StringSliceVarP(&indexIgnore, "ignore", "i", nil, "additional name patterns to ignore")
	indexCmd.Flags().IntVar(&indexMaxRecords, "max-records", 0, "maximum records to load (default from config)")
	indexCmd.Flags().BoolVarP(&indexDryRun, "dry-run", "d", false, "parse only, do not index")
}

func runIndex(cmd *cobra.Command, args []string) error {
	path := args[0]
	cfg := config.Get()
	out := cmd.OutOrStdout()

	opts := indexer.DefaultIndexOptions()
	opts.Manifest = cfg.ManifestOptions()
	opts.Manifest.IgnorePatterns = append(slices.Clone(opts.Manifest.IgnorePatterns), indexIgnore...)
	if indexMaxRecords > 0 {
		opts.Manifest.MaxRecords = indexMaxRecords
	}

	log.Debug("Starting index", "path", path, "dry-run", indexDryRun)

	if indexDryRun {
		records, stats, err := manifest.LoadFile(path, opts.Manifest)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, ui.Header.Render("Dry run: "+path))
		printManifestStats(cmd, stats)
		if len(records) > 0 {
			fmt.Fprintln(out)
			ui.RenderRecords(out, records)
		}
		return nil
	}

	ctx, cancel := signalContext()
	defer cancel()

	searcher := search.New(store.NewMemoryStore())
	idx := indexer.New(searcher)

	fmt.Fprintln(out, ui.Header.Render("Indexing "+path))

	lastUpdate := time.Now()
	opts.OnProgress = func(p indexer.Progress) {
		// Throttle updates to every 100ms
		if time.Since(lastUpdate) < 100*time.Millisecond {
			return
		}
		lastUpdate = time.Now()
		fmt.Fprintf(cmd.ErrOrStderr(), "\r\033[KProgress: %d/%d records | %s",
			p.ProcessedRecords+p.SkippedRecords+p.Errors, p.TotalRecords, truncateName(p.CurrentRecord, 40))
	}

	p, err := idx.IndexFile(ctx, path, opts)
	fmt.Fprint(cmd.ErrOrStderr(), "\r\033[K")
	if err != nil {
		if ctx.Err() != nil {
			fmt.Fprintln(out, ui.Warning.Render("Indexing cancelled"))
		}
		return fmt.Errorf("indexing failed: %w", err)
	}

	fmt.Fprintln(out, ui.Success.Render("✓ Indexing complete"))
	fmt.Fprintf(out, "  Records:       %d\n", p.ProcessedRecords)
	fmt.Fprintf(out, "  Skipped:       %d\n", p.SkippedRecords)
	fmt.Fprintf(out, "  Errors:        %d\n", p.Errors)
	fmt.Fprintf(out, "  Indexed words: %d\n", searcher.WordCount())
	fmt.Fprintf(out, "  Duration:      %s\n", time.Since(p.StartTime).Round(time.Millisecond))
	return nil
}

func printManifestStats(cmd *cobra.Command, stats manifest.Stats) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "  Records:      %d\n", stats.Loaded)
	fmt.Fprintf(out, "  Ignored:      %d\n", stats.Ignored)
	fmt.Fprintf(out, "  Truncated:    %d\n", stats.Truncated)
	fmt.Fprintf(out, "  Assigned IDs: %d\n", stats.AssignedID)
	fmt.Fprintf(out, "  Typed by ext: %d\n", stats.InferredType)
}

// truncateName shortens a record name for display.
func truncateName(name string, maxLen int) string {
	r := []rune(name)
	if len(r) <= maxLen {
		return name
	}
	return "..." + string(r[len(r)-maxLen+3:])
}
