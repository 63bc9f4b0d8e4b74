package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/nickcecere/fcat/internal/config"
	"github.com/nickcecere/fcat/internal/metrics"
	"github.com/nickcecere/fcat/internal/search"
	"github.com/nickcecere/fcat/internal/ui"
)

var (
	searchMode             string
	searchThreshold        float64
	searchNameThreshold    float64
	searchContentThreshold float64
	searchNoNames          bool
	searchNoContent        bool
	searchNoTags           bool
	searchLimit            int
	searchJSON             bool
	searchRecall           bool
	searchTimings          bool
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Fuzzy search the catalog",
	Long: `Search records by name, content and tags, tolerating typos.

Modes:
  combined  names (indexed), content and tags merged, best match per record
  name      every record name is compared with the query
  indexed   names sharing a similar word with the query are compared
  content   verbatim content hits score 1, otherwise the closest word run

Examples:
  # Combined search
  fcat search "financial report"

  # Only content, with a looser threshold
  fcat search "quartrly results" --mode content --threshold 0.3

  # Skip tags, at most 3 results, as JSON
  fcat search customer --no-tags -m 3 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runSearchCmd,
}

func init() {
	addSearchFlags(searchCmd)
}

// addSearchFlags registers the search flags on cmd so the root command can
// act as a search shortcut.
func addSearchFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&searchMode, "mode", string(search.ModeCombined), "search mode: combined, name, indexed or content")
	f.Float64Var(&searchThreshold, "threshold", 0, "threshold for the selected mode (sets both in combined mode)")
	f.Float64Var(&searchNameThreshold, "name-threshold", config.DefaultNameThreshold, "minimum name and tag similarity (0-1)")
	f.Float64Var(&searchContentThreshold, "content-threshold", config.DefaultContentThreshold, "minimum content similarity (0-1)")
	f.BoolVar(&searchNoNames, "no-names", false, "skip name matching in combined mode")
	f.BoolVar(&searchNoContent, "no-content", false, "skip content matching in combined mode")
	f.BoolVar(&searchNoTags, "no-tags", false, "skip tag matching in combined mode")
	f.IntVarP(&searchLimit, "limit", "m", config.DefaultMaxResults, "maximum number of results")
	f.BoolVar(&searchJSON, "json", false, "output results as JSON")
	f.BoolVar(&searchRecall, "recall", false, "score every name in indexed mode")
	f.BoolVar(&searchTimings, "timings", false, "print search timings")
}

func runSearchCmd(cmd *cobra.Command, args []string) error {
	query := args[0]
	cfg := config.Get()

	mode, err := search.ParseMode(searchMode)
	if err != nil {
		return err
	}
	opts := searchOptionsFromFlags(cmd, cfg, mode)

	if searchJSON {
		ui.SetQuiet(true)
	}

	log.Debug("Starting search",
		"query", query,
		"mode", mode,
		"nameThreshold", opts.NameThreshold,
		"contentThreshold", opts.ContentThreshold,
		"limit", opts.MaxResults,
	)

	ctx, cancel := signalContext()
	defer cancel()

	cat, err := openCatalog(ctx, cfg, catalogOptions{recall: searchRecall, metrics: searchTimings})
	if err != nil {
		return err
	}

	results, err := cat.searcher.SearchMode(mode, query, opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	out := cmd.OutOrStdout()
	rows := ui.FormatResults(results)
	if searchJSON {
		if err := outputJSON(out, rows); err != nil {
			return err
		}
	} else {
		ui.RenderResults(out, rows)
	}

	if searchTimings && cat.metrics != nil {
		return printTimings(cmd.ErrOrStderr(), cat.metrics)
	}
	return nil
}

// searchOptionsFromFlags starts from the configured defaults and applies the
// flags the user set explicitly.
func searchOptionsFromFlags(cmd *cobra.Command, cfg *config.Config, mode search.Mode) search.Options {
	opts := cfg.SearchOptions()
	flags := cmd.Flags()

	if flags.Changed("name-threshold") {
		opts.NameThreshold = searchNameThreshold
	}
	if flags.Changed("content-threshold") {
		opts.ContentThreshold = searchContentThreshold
	}
	if flags.Changed("threshold") {
		switch mode {
		case search.ModeContent:
			opts.ContentThreshold = searchThreshold
		case search.ModeName, search.ModeIndexed:
			opts.NameThreshold = searchThreshold
		default:
			opts.NameThreshold = searchThreshold
			opts.ContentThreshold = searchThreshold
		}
	}
	if flags.Changed("limit") {
		opts.MaxResults = searchLimit
	}
	if searchNoNames {
		opts.IncludeNames = false
	}
	if searchNoContent {
		opts.IncludeContent = false
	}
	if searchNoTags {
		opts.IncludeTags = false
	}
	return opts
}

// outputJSON writes v as indented JSON.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// printTimings writes a per-operation summary of the searches run.
func printTimings(w io.Writer, m *metrics.Metrics) error {
	summary, err := m.Summary()
	if err != nil {
		return err
	}
	fmt.Fprintln(w)
	for _, s := range summary {
		fmt.Fprintln(w, ui.Dim.Render(fmt.Sprintf("%-13s %d search(es), %.0f result(s), mean %s",
			s.Op, s.Count, s.Results, s.Mean().Round(time.Microsecond))))
	}
	return nil
}
