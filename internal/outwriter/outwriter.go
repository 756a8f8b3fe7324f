// Package outwriter has output and writer logic.
package outwriter

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/huangsam/commitscope/internal/contract"
	"github.com/huangsam/commitscope/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/term"
)

// maxFileRows caps the file breakdown table.
const maxFileRows = 10

// OutWriter provides a unified interface for all output operations.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteView prints one reconciled view using the configured output format.
// rows holds every commit in chronological order.
func (ow *OutWriter) WriteView(snap schema.ViewSnapshot, rows []schema.CommitRow, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONView(w, snap, rows)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVCommits(w, rows, createFormatter(cfg.Precision))
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeViewText(w, snap, rows, cfg, duration)
		}, "Wrote table")
	}
}

// WriteHTML writes a page produced by write to the configured output file
// or stdout.
func (ow *OutWriter) WriteHTML(cfg *contract.Config, write func(io.Writer) error) error {
	return writeWithFile(cfg.OutputFile, write, "Wrote HTML")
}

// GetMaxTablePathWidth calculates the maximum width for file paths in table
// output based on the terminal width.
func GetMaxTablePathWidth(cfg *contract.Config) int {
	termWidth := cfg.Width
	if termWidth == 0 {
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // CI and pipes
		} else {
			termWidth = detectedWidth
		}
	}

	// Lines + Types columns, borders and padding
	available := termWidth - 45
	if available < 15 {
		return 15
	}
	if available > 70 {
		return 70
	}
	return available
}

func header(w io.Writer, cfg *contract.Config, emoji, text string) error {
	if cfg.UseEmojis {
		text = emoji + " " + text
	}
	_, err := fmt.Fprintf(w, "\n%s\n", text)
	return err
}

func timeOfDay(cfg *contract.Config, hourFrac float64) string {
	if cfg.UseColors {
		return contract.GetColorLabel(hourFrac)
	}
	return contract.GetPlainLabel(hourFrac)
}

// writeViewText renders the human-readable tables.
func writeViewText(w io.Writer, snap schema.ViewSnapshot, rows []schema.CommitRow, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := createFormatter(cfg.Precision)

	title := fmt.Sprintf("%s: %d of %d commits visible (%s mode", cfg.Title, len(snap.VisibleIDs), len(rows), snap.Mode)
	if snap.Mode == schema.ThresholdMode && snap.SliderReadout != "" {
		title += ", through " + snap.SliderReadout
	}
	if err := header(w, cfg, "🔎", title+")"); err != nil {
		return err
	}

	if err := writeStatsTable(w, snap.Stats); err != nil {
		return err
	}

	if err := header(w, cfg, "🕒", "Commits"); err != nil {
		return err
	}
	if err := writeCommitTable(w, rows, cfg); err != nil {
		return err
	}

	if len(snap.SelectedIDs) > 0 {
		if err := header(w, cfg, "🧮", snap.SelectionCount); err != nil {
			return err
		}
		if err := writeLanguageTable(w, snap.Languages, fmtFloat); err != nil {
			return err
		}
	}

	if len(snap.Files) > 0 {
		if err := header(w, cfg, "📁", "Files"); err != nil {
			return err
		}
		if err := writeFileTable(w, snap.Files, cfg); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "Rendered in %v. Cache backend: %s\n", duration.Round(time.Millisecond), cfg.CacheBackend)
	return err
}

func newTable(w io.Writer, headers ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	return table
}

func render(table *tablewriter.Table, data [][]string) error {
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func writeStatsTable(w io.Writer, s schema.Stats) error {
	if s.TotalCommits == 0 {
		_, err := fmt.Fprintln(w, "No commits in view")
		return err
	}
	table := newTable(w, "Total LOC", "Commits", "Files", "Busiest Day", "Avg Line", "Longest Line")
	return render(table, [][]string{{
		humanize.Comma(int64(s.TotalLOC)),
		humanize.Comma(int64(s.TotalCommits)),
		humanize.Comma(int64(s.TotalFiles)),
		s.MostActiveWeekday,
		fmt.Sprintf("%.2f", s.AvgLineLength),
		humanize.Comma(int64(s.LongestLine)),
	}})
}

func writeCommitTable(w io.Writer, rows []schema.CommitRow, cfg *contract.Config) error {
	table := newTable(w, "#", "Commit", "When", "Author", "Lines", "Files", "Time of Day", "Sel")
	var data [][]string
	for _, r := range rows {
		if !r.Visible {
			continue
		}
		sel := ""
		if r.Selected {
			sel = "*"
		}
		data = append(data, []string{
			strconv.Itoa(r.Index + 1),
			r.ID,
			r.Datetime.Format("2006-01-02 15:04 -07:00"),
			schema.AbbreviateName(r.Author),
			humanize.Comma(int64(r.TotalLines)),
			strconv.Itoa(r.Files),
			timeOfDay(cfg, r.HourFrac),
			sel,
		})
	}
	return render(table, data)
}

func writeLanguageTable(w io.Writer, shares []schema.TypeShare, fmtFloat func(float64) string) error {
	table := newTable(w, "Type", "Lines", "Share %")
	var data [][]string
	for _, s := range shares {
		data = append(data, []string{s.Type, humanize.Comma(int64(s.Lines)), fmtFloat(s.Percent)})
	}
	return render(table, data)
}

func writeFileTable(w io.Writer, files []schema.FileBreakdown, cfg *contract.Config) error {
	width := GetMaxTablePathWidth(cfg)
	table := newTable(w, "File", "Lines", "Types")
	var data [][]string
	for i, f := range files {
		if i == maxFileRows {
			break
		}
		data = append(data, []string{
			contract.TruncatePath(f.Name, width),
			humanize.Comma(int64(f.Lines)),
			strconv.Itoa(len(f.ByType)),
		})
	}
	return render(table, data)
}
