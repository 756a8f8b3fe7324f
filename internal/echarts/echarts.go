// Package echarts exports the commit scatter as a standalone interactive
// ECharts page, for viewing history outside the built-in renderer.
package echarts

import (
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/huangsam/commitscope/core/scale"
	"github.com/huangsam/commitscope/internal/contract"
	"github.com/huangsam/commitscope/schema"
)

const (
	chartWidth  = "100%"
	chartHeight = "600px"
)

// bands orders the series; each time-of-day band gets one legend entry.
var bands = []string{contract.NightValue, contract.MorningValue, contract.AfternoonValue, contract.EveningValue}

// NewScatter builds the scatter chart for the given commits: x is commit
// time, y is the hour of day, and mark area tracks lines changed.
func NewScatter(commits []schema.Commit, title string) *charts.Scatter {
	scatter := charts.NewScatter()
	if len(commits) == 0 {
		scatter.SetGlobalOptions(
			charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight, PageTitle: title}),
			charts.WithTitleOpts(opts.Title{Title: title, Subtitle: "No data", Left: "center"}),
		)
		return scatter
	}

	lo, hi := scale.LinesExtent(commits)
	radius := scale.NewSqrtScale(float64(lo), float64(hi), schema.MinRadius, schema.MaxRadius)
	colors := scale.NewColorScale()

	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight, PageTitle: title}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: fmt.Sprintf("%d commits", len(commits)),
			Left:     "center",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "8%", Left: "center"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Date", Type: "time"}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "Time of day",
			Type: "value",
			Min:  0,
			Max:  schema.HoursPerDay,
		}),
		charts.WithDataZoomOpts(
			opts.DataZoom{Type: "slider", Start: 0, End: 100},
			opts.DataZoom{Type: "inside"},
		),
	)

	grouped := make(map[string][]opts.ScatterData, len(bands))
	for _, c := range commits {
		band := contract.GetPlainLabel(c.HourFrac)
		grouped[band] = append(grouped[band], opts.ScatterData{
			Name:       c.ID,
			Value:      []any{c.Datetime.UnixMilli(), c.HourFrac, c.TotalLines, c.Author},
			SymbolSize: int(math.Round(2 * radius.Map(float64(c.TotalLines)))),
			ItemStyle:  &opts.ItemStyle{Color: colors.HourColor(c.HourFrac)},
		})
	}
	for _, band := range bands {
		if data, ok := grouped[band]; ok {
			scatter.AddSeries(band, data)
		}
	}
	return scatter
}

// WriteScatter renders the scatter page for commits to w.
func WriteScatter(w io.Writer, commits []schema.Commit, title string) error {
	return NewScatter(commits, title).Render(w)
}
