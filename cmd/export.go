package cmd

import (
	"github.com/huangsam/commitscope/internal/app"
	"github.com/spf13/cobra"
)

// exportCmd writes the aggregated data for other tools.
var exportCmd = &cobra.Command{
	Use:   "export [data-path]",
	Short: "Export line records or an interactive chart.",
	Long: `Export the loaded history in a format other tools can read.

Output formats:
  parquet - one row per changed line with its commit metadata
  html    - an interactive scatter chart with zoom

Examples:
  # Line records for DuckDB or pandas
  commitscope export loc.csv --output parquet --output-file lines.parquet

  # Zoomable chart
  commitscope export loc.csv --output html --output-file chart.html`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor("Cannot export data", app.ExecuteExport),
}
