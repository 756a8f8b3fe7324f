package cmd

import (
	"github.com/huangsam/commitscope/internal/app"
	"github.com/spf13/cobra"
)

// renderCmd writes the standalone history page.
var renderCmd = &cobra.Command{
	Use:   "render [data-path]",
	Short: "Write the commit history page as HTML.",
	Long: `Render the full page: slider, scatter plot, summary stats, file units,
language breakdown and one scroll step per commit.

The data path points to a line-change CSV (commit, file, line, type, author,
datetime and friends). A directory is resolved to its loc.csv.

Examples:
  # Render to stdout
  commitscope render loc.csv > index.html

  # Start from the tenth commit with links to GitHub
  commitscope render loc.csv --step 9 --commit-url https://github.com/org/repo/commit --output-file index.html`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor("Cannot render page", app.ExecuteRender),
}
