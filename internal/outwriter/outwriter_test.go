package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/commitscope/internal/contract"
	"github.com/huangsam/commitscope/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCfg() *contract.Config {
	return &contract.Config{
		Title:        "portfolio",
		Output:       schema.TextOut,
		Precision:    1,
		Width:        120,
		CacheBackend: schema.NoneBackend,
	}
}

func testView() (schema.ViewSnapshot, []schema.CommitRow) {
	at := time.Date(2025, 2, 3, 9, 30, 0, 0, time.UTC)
	rows := []schema.CommitRow{
		{Index: 0, ID: "a1", Author: "Erika Tan", Datetime: at, HourFrac: 9.5, TotalLines: 10, Files: 1, Visible: true, Selected: true},
		{Index: 1, ID: "b2", Author: "Erika Tan", Datetime: at.Add(28 * time.Hour), HourFrac: 14, TotalLines: 1200, Files: 2, Visible: true},
		{Index: 2, ID: "c3", Author: "Erika Tan", Datetime: at.Add(62 * time.Hour), HourFrac: 23.5, TotalLines: 5, Files: 1},
	}
	snap := schema.ViewSnapshot{
		Mode:           schema.ThresholdMode,
		SliderReadout:  "2/4/2025, 1:30:00 PM",
		VisibleIDs:     []string{"a1", "b2"},
		SelectedIDs:    []string{"a1"},
		SelectionCount: "1 commits selected",
		Stats: schema.Stats{
			TotalLOC: 1210, TotalCommits: 2, TotalFiles: 3,
			MostActiveWeekday: "Monday", AvgLineLength: 12.5, LongestLine: 80,
		},
		Languages: []schema.TypeShare{{Type: "js", Lines: 10, Percent: 100}},
		Files: []schema.FileBreakdown{
			{Name: "src/components/very/deeply/nested/Button.jsx", Lines: 1200, ByType: map[string]int{"jsx": 1200}},
		},
	}
	return snap, rows
}

func TestWriteViewText(t *testing.T) {
	snap, rows := testView()
	var buf bytes.Buffer
	require.NoError(t, writeViewText(&buf, snap, rows, testCfg(), 1500*time.Millisecond))
	out := buf.String()

	assert.Contains(t, out, "portfolio: 2 of 3 commits visible (threshold mode, through 2/4/2025, 1:30:00 PM)")
	assert.Contains(t, out, "1,210")
	assert.Contains(t, out, "12.50")
	assert.Contains(t, out, "Morning")
	assert.Contains(t, out, "Afternoon")
	assert.NotContains(t, out, "c3", "hidden commits are not listed")
	assert.Contains(t, out, "1 commits selected")
	assert.Contains(t, out, "100.0")
	assert.Contains(t, out, "Button.jsx")
	assert.Contains(t, out, "Rendered in 1.5s. Cache backend: none")
	assert.NotContains(t, out, "🔎")
}

func TestWriteViewTextEmpty(t *testing.T) {
	cfg := testCfg()
	cfg.UseEmojis = true
	var buf bytes.Buffer
	snap := schema.ViewSnapshot{Mode: schema.ThresholdMode}
	require.NoError(t, writeViewText(&buf, snap, nil, cfg, 0))
	assert.Contains(t, buf.String(), "🔎 portfolio: 0 of 0 commits visible (threshold mode)")
	assert.Contains(t, buf.String(), "No commits in view")
}

func TestWriteCSVCommits(t *testing.T) {
	_, rows := testView()
	var buf bytes.Buffer
	require.NoError(t, writeCSVCommits(&buf, rows, createFormatter(2)))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, "commit", records[0][1])
	assert.Equal(t, []string{"0", "a1", "", "Erika Tan", "2025-02-03T09:30:00Z", "9.50", "Morning", "10", "1", "true", "true"}, records[1])
	assert.Equal(t, "Evening", records[3][6])
	assert.Equal(t, "false", records[3][9])
}

func TestWriteJSONView(t *testing.T) {
	snap, rows := testView()
	var buf bytes.Buffer
	require.NoError(t, writeJSONView(&buf, snap, rows))

	var got struct {
		Mode    string `json:"mode"`
		Stats   schema.Stats
		Commits []struct {
			ID        string `json:"id"`
			TimeOfDay string `json:"time_of_day"`
			Visible   bool   `json:"visible"`
		} `json:"commits"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "threshold", got.Mode)
	assert.Equal(t, 1210, got.Stats.TotalLOC)
	require.Len(t, got.Commits, 3)
	assert.Equal(t, "Afternoon", got.Commits[1].TimeOfDay)
	assert.False(t, got.Commits[2].Visible)
}

func TestWriteViewToFile(t *testing.T) {
	snap, rows := testView()
	cfg := testCfg()
	cfg.Output = schema.CSVOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "commits.csv")

	require.NoError(t, NewOutWriter().WriteView(snap, rows, cfg, time.Second))
	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.Equal(t, 4, strings.Count(string(data), "\n"))
}

func TestGetMaxTablePathWidth(t *testing.T) {
	cfg := testCfg()
	cfg.Width = 40
	assert.Equal(t, 15, GetMaxTablePathWidth(cfg))
	cfg.Width = 100
	assert.Equal(t, 55, GetMaxTablePathWidth(cfg))
	cfg.Width = 300
	assert.Equal(t, 70, GetMaxTablePathWidth(cfg))
}
