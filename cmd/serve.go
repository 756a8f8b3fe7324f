package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/huangsam/commitscope/internal/app"
	"github.com/huangsam/commitscope/internal/contract"
	"github.com/spf13/cobra"
)

// serveCmd hosts the page and its interaction API.
var serveCmd = &cobra.Command{
	Use:   "serve [data-path]",
	Short: "Serve the page and accept interactions over HTTP.",
	Long: `Start an HTTP server that keeps one selection state in memory.

Routes:
  GET  /              - the page for the current state
  GET  /chart.svg     - the scatter plot alone
  GET  /api/view      - view snapshot (add ?rows=true for the commit table)
  GET  /api/steps     - the scroll steps
  POST /api/progress  - {"progress": 42}
  POST /api/step      - {"index": 3}
  POST /api/brush     - {"rect": {"x0":..,"y0":..,"x1":..,"y1":..}} or {"rect": null}
  POST /api/hover     - {"commit_id": "..", "x": .., "y": ..}
  GET  /metrics       - Prometheus metrics

The page posts slider, scroll, hover and brush events to these routes and
swaps in the refreshed sections.

Examples:
  commitscope serve loc.csv --addr 127.0.0.1:9000`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := app.ExecuteServe(ctx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot serve page", err)
		}
	},
}
