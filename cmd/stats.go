package cmd

import (
	"github.com/huangsam/commitscope/internal/app"
	"github.com/spf13/cobra"
)

// statsCmd prints the derived views for the current selection.
var statsCmd = &cobra.Command{
	Use:   "stats [data-path]",
	Short: "Print summary stats and the commit table.",
	Long: `Show the views that sit next to the plot: summary stats, languages and
the per-commit table, after applying any initial interaction.

Output formats:
  text    - colored table in the terminal (default)
  csv     - one row per commit
  json    - the whole view snapshot
  parquet - one row per commit (requires --output-file)
  html    - the same page as render

Examples:
  # Stats for the first half of history
  commitscope stats loc.csv --progress 50

  # Commits inside a brushed region, as JSON
  commitscope stats loc.csv --brush 100,50,400,300 --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor("Cannot compute stats", app.ExecuteStats),
}
