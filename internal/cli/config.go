package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nickcecere/fcat/internal/config"
	"github.com/nickcecere/fcat/internal/ui"
)

var configShowPath bool

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration",
	Long: `Display current configuration settings and config file locations.

Every key can be set through the environment, for example
FCAT_SEARCH_NAME_THRESHOLD=0.7.

Examples:
  # Show current configuration
  fcat config

  # Show config file paths
  fcat config --path`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&configShowPath, "path", false, "show config file paths")
}

func runConfig(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if configShowPath {
		fmt.Fprintln(out, ui.SectionTitle.Render("Configuration Paths"))
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Global config: %s\n", config.GlobalConfigPath())
		fmt.Fprintf(out, "Local config:  %s (searched from cwd upward)\n", config.RCFileName)
		fmt.Fprintf(out, "Active config: %s\n", config.ConfigFilePath())
		return nil
	}

	cfg := config.Get()

	fmt.Fprintln(out, ui.SectionTitle.Render("Current Configuration"))
	fmt.Fprintln(out)

	fmt.Fprintln(out, ui.Bold.Render("Search:"))
	fmt.Fprintf(out, "  Name Threshold: %.2f\n", cfg.Search.NameThreshold)
	fmt.Fprintf(out, "  Content Threshold: %.2f\n", cfg.Search.ContentThreshold)
	fmt.Fprintf(out, "  Max Results: %d\n", cfg.Search.MaxResults)
	fmt.Fprintf(out, "  Include Names: %t\n", cfg.Search.IncludeNames)
	fmt.Fprintf(out, "  Include Content: %t\n", cfg.Search.IncludeContent)
	fmt.Fprintf(out, "  Include Tags: %t\n", cfg.Search.IncludeTags)
	fmt.Fprintf(out, "  Guaranteed Recall: %t\n", cfg.Search.GuaranteedRecall)
	fmt.Fprintln(out)

	fmt.Fprintln(out, ui.Bold.Render("Catalog:"))
	path := cfg.Catalog.Path
	if catalogPath != "" {
		path = catalogPath
	}
	if path == "" {
		path = "(built-in sample)"
	}
	fmt.Fprintf(out, "  Path: %s\n", path)
	fmt.Fprintf(out, "  Max Records: %d\n", cfg.Catalog.MaxRecords)
	fmt.Fprintln(out)

	fmt.Fprintln(out, ui.Bold.Render("Metrics:"))
	fmt.Fprintf(out, "  Enabled: %t\n", cfg.Metrics.Enabled)
	fmt.Fprintln(out)

	fmt.Fprintln(out, ui.Bold.Render("Ignore Patterns:"))
	fmt.Fprintf(out, "  %d patterns configured\n", len(cfg.Ignore))

	return nil
}
