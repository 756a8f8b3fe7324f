package core

import (
	"math"

	"github.com/huangsam/commitscope/core/agg"
	"github.com/huangsam/commitscope/schema"
	"github.com/samber/lo"
)

// Snapshot projects the current state into every panel at once.
func (s *State) Snapshot() schema.ViewSnapshot {
	return Project(s.Frame())
}

// Project computes every panel for a frame. All projections are recomputed
// from scratch.
func Project(f Frame) schema.ViewSnapshot {
	colorOf := func(typ string) string { return "" }
	if f.Scales.Color != nil {
		colorOf = f.Scales.Color.TypeColor
	}

	ids := func(c schema.Commit, _ int) string { return c.ID }
	return schema.ViewSnapshot{
		Mode:           f.Mode,
		Channel:        f.Channel,
		MaxVisibleTime: f.MaxVisibleTime,
		Progress:       schema.RoundTo(f.Progress, 2),
		Brush:          f.Brush,
		SliderReadout:  schema.FormatSliderTime(f.MaxVisibleTime),
		VisibleIDs:     lo.Map(f.Subset, ids),
		SelectedIDs:    lo.Map(f.Selected, ids),
		SelectionCount: schema.SelectionCountText(len(f.Selected)),
		Stats:          agg.ComputeStats(f.Subset),
		Files:          agg.FileBreakdowns(f.Subset),
		Languages:      agg.TypeBreakdown(f.Selected, colorOf),
		Legend:         agg.Legend(f.Subset, colorOf),
		Tooltip:        TooltipFor(f.Hover),
	}
}

// TooltipFor builds the tooltip model for a hover. A nil hover is hidden.
func TooltipFor(h *Hover) schema.Tooltip {
	if h == nil {
		return schema.Tooltip{}
	}
	c := h.Commit
	return schema.Tooltip{
		Visible:  true,
		CommitID: c.ID,
		URL:      c.URL,
		Date:     c.Datetime.Format(schema.FullDateFormat),
		Time:     c.Datetime.Format(schema.ClockFormat),
		Author:   c.Author,
		Lines:    c.TotalLines,
		Position: TooltipPosition(h.Pointer,
			schema.Size{Width: schema.TooltipWidth, Height: schema.TooltipHeight},
			h.Viewport),
	}
}

// TooltipPosition anchors a tooltip of size tip just below-right of the
// pointer and pulls it back inside the viewport. A zero viewport disables
// clamping.
func TooltipPosition(pointer schema.Point, tip, viewport schema.Size) schema.Point {
	pad := schema.TooltipPadding
	x := pointer.X + schema.TooltipOffset
	y := pointer.Y + schema.TooltipOffset

	if viewport.Width > 0 && x+tip.Width > viewport.Width-pad {
		x = math.Max(pad, viewport.Width-tip.Width-pad)
	}
	if viewport.Height > 0 && y+tip.Height > viewport.Height-pad {
		y = math.Max(pad, viewport.Height-tip.Height-pad)
	}
	return schema.Point{X: x, Y: y}
}

// Rows flattens every commit in chronological order, flagged with its
// membership in the current subset and brush selection.
func (s *State) Rows() []schema.CommitRow {
	visible := lo.SliceToMap(s.subset, func(c schema.Commit) (string, struct{}) { return c.ID, struct{}{} })
	selected := lo.SliceToMap(s.selected, func(c schema.Commit) (string, struct{}) { return c.ID, struct{}{} })

	rows := make([]schema.CommitRow, len(s.chrono))
	for i, c := range s.chrono {
		_, vis := visible[c.ID]
		_, sel := selected[c.ID]
		rows[i] = schema.CommitRow{
			Index:      i,
			ID:         c.ID,
			URL:        c.URL,
			Author:     c.Author,
			Datetime:   c.Datetime,
			HourFrac:   c.HourFrac,
			TotalLines: c.TotalLines,
			Files:      len(lo.Uniq(lo.Map(c.Lines, func(l schema.LineRecord, _ int) string { return l.File }))),
			Visible:    vis,
			Selected:   sel,
		}
	}
	return rows
}
