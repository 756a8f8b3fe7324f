package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/huangsam/commitscope/schema"
)

// Default values for configuration.
const (
	DefaultDataPath  = "loc.csv"
	DefaultAddr      = "127.0.0.1:8080"
	DefaultPrecision = 1
	DefaultTitle     = "Commit history"

	// NoStep marks an unset --step.
	NoStep = -1
)

// Config holds the validated runtime configuration.
type Config struct {
	DataPath  string
	URLPrefix string // commit links are <URLPrefix>/<id>; empty disables links
	Title     string
	Layout    schema.Layout

	Output     schema.OutputMode
	OutputFile string
	Precision  int
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool
	UseEmojis  bool

	Addr string

	// Initial interaction applied before rendering. At most one is set.
	Progress    float64
	HasProgress bool
	Step        int
	Brush       *schema.Rect

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext
}

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	DataPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	CommitURL      string `mapstructure:"commit-url"`
	Title          string `mapstructure:"title"`
	Width          int    `mapstructure:"width"`
	PlotWidth      int    `mapstructure:"plot-width"`
	PlotHeight     int    `mapstructure:"plot-height"`
	Margins        string `mapstructure:"margins"`
	Output         string `mapstructure:"output"`
	OutputFile     string `mapstructure:"output-file"`
	Precision      int    `mapstructure:"precision"`
	CacheBackend   string `mapstructure:"cache-backend"`
	CacheDBConnect string `mapstructure:"cache-db-connect"`
	Emoji          string `mapstructure:"emoji"`
	Color          string `mapstructure:"color"`

	// --- Fields from renderCmd/statsCmd Flags() ---
	Progress string `mapstructure:"progress"`
	Step     int    `mapstructure:"step"`
	Brush    string `mapstructure:"brush"`

	// --- Fields from serveCmd.Flags() ---
	Addr string `mapstructure:"addr"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Brush != nil {
		b := *c.Brush
		clone.Brush = &b
	}
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processLayout(cfg, input); err != nil {
		return err
	}
	if err := processInteraction(cfg, input); err != nil {
		return err
	}
	return resolveDataPath(cfg, input)
}

// ProcessProfilingConfig enables profiling when a file prefix is given.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	profilePrefix = strings.TrimSpace(profilePrefix)
	if profilePrefix == "" {
		return nil
	}
	if dir := filepath.Dir(profilePrefix); dir != "." {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			return fmt.Errorf("profile directory %s does not exist", dir)
		}
	}
	profile.Enabled = true
	profile.Prefix = profilePrefix
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateSimpleInputs processes and validates the output and backend fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.URLPrefix = strings.TrimSuffix(strings.TrimSpace(input.CommitURL), "/")
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.Addr = input.Addr
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	cfg.Title = strings.TrimSpace(input.Title)
	if cfg.Title == "" {
		cfg.Title = DefaultTitle
	}

	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet, html", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	return ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect)
}

// processLayout builds the plot geometry. Zero sizes fall back to the default page.
func processLayout(cfg *Config, input *ConfigRawInput) error {
	layout := schema.DefaultLayout()
	if input.PlotWidth != 0 {
		layout.Width = float64(input.PlotWidth)
	}
	if input.PlotHeight != 0 {
		layout.Height = float64(input.PlotHeight)
	}
	if input.Margins != "" {
		m, err := parseFloats(input.Margins, 4)
		if err != nil {
			return fmt.Errorf("invalid --margins %q (want top,right,bottom,left): %w", input.Margins, err)
		}
		layout.Margin = schema.Margin{Top: m[0], Right: m[1], Bottom: m[2], Left: m[3]}
	}

	area := layout.UsableArea()
	if area.X1 <= area.X0 || area.Y1 <= area.Y0 {
		return fmt.Errorf("plot %gx%g leaves no drawing area inside its margins", layout.Width, layout.Height)
	}
	cfg.Layout = layout
	return nil
}

// processInteraction parses the initial slider, step and brush inputs.
func processInteraction(cfg *Config, input *ConfigRawInput) error {
	cfg.Step = input.Step
	cfg.HasProgress = false
	cfg.Brush = nil

	set := 0
	if input.Progress != "" {
		p, err := strconv.ParseFloat(input.Progress, 64)
		if err != nil {
			return fmt.Errorf("invalid --progress %q: %w", input.Progress, err)
		}
		if p < schema.ProgressMin || p > schema.ProgressMax {
			return fmt.Errorf("progress must be between %g and %g (received %g)", schema.ProgressMin, schema.ProgressMax, p)
		}
		cfg.Progress = p
		cfg.HasProgress = true
		set++
	}
	if cfg.Step != NoStep {
		if cfg.Step < 0 {
			return fmt.Errorf("step must be 0 or greater (received %d)", cfg.Step)
		}
		set++
	}
	if input.Brush != "" {
		b, err := ParseRect(input.Brush)
		if err != nil {
			return fmt.Errorf("invalid --brush %q: %w", input.Brush, err)
		}
		cfg.Brush = &b
		set++
	}
	if set > 1 {
		return fmt.Errorf("--progress, --step and --brush are mutually exclusive")
	}
	return nil
}

// resolveDataPath makes the data path absolute and checks that it is a file.
func resolveDataPath(cfg *Config, input *ConfigRawInput) error {
	p := input.DataPathStr
	if p == "" {
		p = DefaultDataPath
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("data file: %w", err)
	}
	if info.IsDir() {
		abs = filepath.Join(abs, DefaultDataPath)
		if _, err := os.Stat(abs); err != nil {
			return fmt.Errorf("data file: %w", err)
		}
	}
	cfg.DataPath = filepath.Clean(abs)
	return nil
}

// ParseRect parses "x0,y0,x1,y1" in plot coordinates.
func ParseRect(s string) (schema.Rect, error) {
	v, err := parseFloats(s, 4)
	if err != nil {
		return schema.Rect{}, err
	}
	return schema.Rect{X0: v[0], Y0: v[1], X1: v[2], Y1: v[3]}, nil
}

func parseFloats(s string, n int) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("expected %d comma-separated numbers, got %d", n, len(parts))
	}
	out := make([]float64, n)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
