package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nickcecere/fcat/internal/config"
	"github.com/nickcecere/fcat/internal/ui"
)

var (
	reportRaw  bool
	reportJSON bool
)

// statsCmd shows per-type statistics.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show catalog statistics by record type",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

// reportCmd shows the storage report.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show the catalog storage report",
	Long: `Show totals, the largest records, per-type statistics and the most
recently added records.

Examples:
  # Rendered for the terminal
  fcat report

  # Plain markdown
  fcat report --raw > report.md`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

// duplicatesCmd lists records with identical content.
var duplicatesCmd = &cobra.Command{
	Use:   "duplicates",
	Short: "List records whose content duplicates an earlier record",
	Args:  cobra.NoArgs,
	RunE:  runDuplicates,
}

func init() {
	reportCmd.Flags().BoolVar(&reportRaw, "raw", false, "print markdown without rendering")
	reportCmd.Flags().BoolVar(&reportJSON, "json", false, "output the report as JSON")
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	cat, err := openCatalog(ctx, config.Get(), catalogOptions{})
	if err != nil {
		return err
	}
	st := cat.recordStore()
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, ui.Header.Render("Catalog: "+cat.source))
	fmt.Fprintf(out, "Records:       %d\n", st.Len())
	fmt.Fprintf(out, "Total size:    %s\n", ui.FormatSize(st.TotalSize()))
	fmt.Fprintf(out, "Types:         %d\n", len(st.Types()))
	fmt.Fprintf(out, "Tags:          %d\n", len(st.Tags()))
	fmt.Fprintf(out, "Indexed words: %d\n", cat.searcher.WordCount())
	fmt.Fprintln(out)

	ui.RenderTypeStats(out, st.TypeStatistics())
	return nil
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	cat, err := openCatalog(ctx, config.Get(), catalogOptions{})
	if err != nil {
		return err
	}
	rep := cat.recordStore().Report()
	out := cmd.OutOrStdout()

	if reportJSON {
		return outputJSON(out, rep)
	}

	md := ui.ReportMarkdown(rep)
	if reportRaw {
		fmt.Fprint(out, md)
		return nil
	}

	rendered, err := ui.RenderMarkdown(md)
	if err != nil {
		// Fallback to raw output if rendering fails
		fmt.Fprint(out, md)
		return nil
	}
	fmt.Fprint(out, rendered)
	return nil
}

func runDuplicates(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	cat, err := openCatalog(ctx, config.Get(), catalogOptions{})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	pairs := cat.recordStore().Duplicates()
	if len(pairs) == 0 {
		fmt.Fprintln(out, ui.Dim.Render("No duplicate content found."))
		return nil
	}

	fmt.Fprintln(out, ui.SectionTitle.Render(fmt.Sprintf("%d duplicate(s)", len(pairs))))
	for _, p := range pairs {
		fmt.Fprintf(out, "  %s %s duplicates %s %s\n",
			ui.RecordName.Render(p.Duplicate.Name), ui.RecordID.Render(fmt.Sprintf("#%d", p.Duplicate.ID)),
			ui.RecordName.Render(p.Original.Name), ui.RecordID.Render(fmt.Sprintf("#%d", p.Original.ID)))
	}
	return nil
}
