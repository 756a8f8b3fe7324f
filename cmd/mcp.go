package cmd

import (
	"github.com/huangsam/commitscope/internal/app"
	"github.com/spf13/cobra"
)

// mcpCmd exposes the selection state as MCP tools over stdio.
var mcpCmd = &cobra.Command{
	Use:   "mcp [data-path]",
	Short: "Run an MCP server over stdio.",
	Long: `Start a Model Context Protocol server on stdin/stdout.

Tools: get_view, get_steps, set_progress, enter_step, brush, hover.

Examples:
  commitscope mcp loc.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor("Cannot run MCP server", app.ExecuteMCP),
}
