package contract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/commitscope/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validInput returns a minimal input pointing at a real data file.
func validInput(t *testing.T) *ConfigRawInput {
	t.Helper()
	path := filepath.Join(t.TempDir(), "loc.csv")
	require.NoError(t, os.WriteFile(path, []byte("commit\n"), 0o600))
	return &ConfigRawInput{
		DataPathStr:  path,
		Precision:    1,
		Output:       "text",
		CacheBackend: "sqlite",
		Emoji:        "no",
		Color:        "yes",
		Step:         NoStep,
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		modify      func(*ConfigRawInput)
		expectError bool
	}{
		{name: "valid minimal config", modify: func(*ConfigRawInput) {}},
		{name: "invalid output", modify: func(in *ConfigRawInput) { in.Output = "xml" }, expectError: true},
		{name: "invalid precision", modify: func(in *ConfigRawInput) { in.Precision = 3 }, expectError: true},
		{name: "invalid emoji", modify: func(in *ConfigRawInput) { in.Emoji = "maybe" }, expectError: true},
		{name: "invalid backend", modify: func(in *ConfigRawInput) { in.CacheBackend = "redis" }, expectError: true},
		{name: "mysql without connection", modify: func(in *ConfigRawInput) { in.CacheBackend = "mysql" }, expectError: true},
		{name: "parquet without file", modify: func(in *ConfigRawInput) { in.Output = "parquet" }, expectError: true},
		{name: "progress out of range", modify: func(in *ConfigRawInput) { in.Progress = "101" }, expectError: true},
		{name: "progress not a number", modify: func(in *ConfigRawInput) { in.Progress = "half" }, expectError: true},
		{name: "negative step", modify: func(in *ConfigRawInput) { in.Step = -2 }, expectError: true},
		{name: "bad brush", modify: func(in *ConfigRawInput) { in.Brush = "1,2,3" }, expectError: true},
		{
			name:        "progress and step together",
			modify:      func(in *ConfigRawInput) { in.Progress = "40"; in.Step = 1 },
			expectError: true,
		},
		{name: "margins too wide", modify: func(in *ConfigRawInput) { in.Margins = "300,600,300,600" }, expectError: true},
		{name: "missing data file", modify: func(in *ConfigRawInput) { in.DataPathStr = "/nonexistent/loc.csv" }, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput(t)
			tt.modify(input)
			cfg := &Config{}
			err := ProcessAndValidate(cfg, input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, schema.TextOut, cfg.Output)
			assert.Equal(t, schema.DefaultLayout(), cfg.Layout)
			assert.Equal(t, DefaultAddr, cfg.Addr)
			assert.Equal(t, DefaultTitle, cfg.Title)
			assert.True(t, cfg.UseColors)
			assert.False(t, cfg.UseEmojis)
			assert.False(t, cfg.HasProgress)
			assert.Nil(t, cfg.Brush)
		})
	}
}

func TestProcessInteraction(t *testing.T) {
	input := validInput(t)
	input.Progress = "42.5"
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.True(t, cfg.HasProgress)
	assert.InDelta(t, 42.5, cfg.Progress, 1e-9)

	input = validInput(t)
	input.Brush = "10, 20, 300, 400"
	cfg = &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	require.NotNil(t, cfg.Brush)
	assert.Equal(t, schema.Rect{X0: 10, Y0: 20, X1: 300, Y1: 400}, *cfg.Brush)

	input = validInput(t)
	input.Step = 2
	cfg = &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, 2, cfg.Step)
}

func TestProcessLayout(t *testing.T) {
	input := validInput(t)
	input.PlotWidth = 800
	input.PlotHeight = 400
	input.Margins = "10,10,30,50"
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, 800.0, cfg.Layout.Width)
	assert.Equal(t, 400.0, cfg.Layout.Height)
	assert.Equal(t, schema.Margin{Top: 10, Right: 10, Bottom: 30, Left: 50}, cfg.Layout.Margin)
}

func TestResolveDataPathDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultDataPath), []byte("commit\n"), 0o600))

	input := validInput(t)
	input.DataPathStr = dir
	input.CommitURL = "https://github.com/erikat/portfolio/commit/"
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, filepath.Join(dir, DefaultDataPath), cfg.DataPath)
	assert.Equal(t, "https://github.com/erikat/portfolio/commit", cfg.URLPrefix)
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		backend schema.DatabaseBackend
		conn    string
		ok      bool
	}{
		{schema.SQLiteBackend, "", true},
		{schema.NoneBackend, "", true},
		{schema.MySQLBackend, "user:pass@tcp(localhost:3306)/commitscope", true},
		{schema.MySQLBackend, "user:pass@localhost/commitscope", false},
		{schema.MySQLBackend, "", false},
		{schema.PostgreSQLBackend, "host=localhost dbname=commitscope", true},
		{schema.PostgreSQLBackend, "host=localhost", false},
		{schema.PostgreSQLBackend, "dbname=commitscope", false},
	}
	for _, tt := range tests {
		err := ValidateDatabaseConnectionString(tt.backend, tt.conn)
		if tt.ok {
			assert.NoError(t, err, "%s %q", tt.backend, tt.conn)
		} else {
			assert.Error(t, err, "%s %q", tt.backend, tt.conn)
		}
	}
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{Brush: &schema.Rect{X1: 5, Y1: 5}}
	clone := cfg.Clone()
	clone.Brush.X1 = 50
	assert.Equal(t, 5.0, cfg.Brush.X1)
}

func TestProcessProfilingConfig(t *testing.T) {
	p := &ProfileConfig{}
	require.NoError(t, ProcessProfilingConfig(p, "  "))
	assert.False(t, p.Enabled)

	prefix := filepath.Join(t.TempDir(), "run")
	require.NoError(t, ProcessProfilingConfig(p, prefix))
	assert.True(t, p.Enabled)
	assert.Equal(t, prefix, p.Prefix)

	assert.Error(t, ProcessProfilingConfig(&ProfileConfig{}, filepath.Join(t.TempDir(), "missing", "run")))
}
