package cli

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/nickcecere/fcat/internal/config"
	"github.com/nickcecere/fcat/internal/mcp"
)

// mcpCmd represents the MCP server command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server for AI agent integration",
	Long: `Start a Model Context Protocol (MCP) server over the catalog.

The server communicates via stdin/stdout using JSON-RPC 2.0 and provides tools for:
  - catalog_search: fuzzy search by name, content and tags
  - catalog_get: fetch a record by id
  - catalog_report: storage report as markdown
  - catalog_update_tags: add and remove tags on several records

This command is typically invoked by AI agents and not run directly by users.`,
	Args: cobra.NoArgs,
	RunE: runMcpCmd,
}

func runMcpCmd(cmd *cobra.Command, args []string) error {
	// MCP server uses stdin/stdout for communication, so keep logs on stderr
	log.SetOutput(os.Stderr)

	cfg := config.Get()

	ctx, cancel := signalContext()
	defer cancel()

	cat, err := openCatalog(ctx, cfg, catalogOptions{})
	if err != nil {
		return err
	}

	server := mcp.NewServer(cat.searcher, cfg, mcp.WithIO(cmd.InOrStdin(), cmd.OutOrStdout()))
	return server.Run(ctx)
}
