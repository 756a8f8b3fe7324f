// Package cmd defines the command-line interface for commitscope.
package cmd

import (
	"github.com/huangsam/commitscope/internal/contract"
	"github.com/huangsam/commitscope/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("commit-url", "", "URL prefix for commit links (e.g., https://github.com/org/repo/commit)")
	rootCmd.PersistentFlags().String("title", contract.DefaultTitle, "Title shown on the page and chart")
	rootCmd.PersistentFlags().Int("plot-width", 0, "Plot width in pixels (0 = default)")
	rootCmd.PersistentFlags().Int("plot-height", 0, "Plot height in pixels (0 = default)")
	rootCmd.PersistentFlags().String("margins", "", "Plot margins as top,right,bottom,left")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet or html")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("emoji", "no", "Enable emoji markers in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Initial interaction flags; bound per command in sharedSetup
	for _, c := range []*cobra.Command{renderCmd, statsCmd, serveCmd, mcpCmd} {
		addInteractionFlags(c)
	}

	serveCmd.Flags().String("addr", contract.DefaultAddr, "Address to listen on")
}

// addInteractionFlags registers the flags that set the view before output.
func addInteractionFlags(c *cobra.Command) {
	c.Flags().String("progress", "", "Slider position from 0 to 100")
	c.Flags().Int("step", contract.NoStep, "Enter the scroll step with this index")
	c.Flags().String("brush", "", "Brush rectangle in plot pixels as x0,y0,x1,y1")
}
