// Package scale derives the plot scales (time, hour-of-day, radius, colour)
// from a commit set.
package scale

import (
	"math"
	"time"

	"github.com/huangsam/commitscope/schema"
)

// Scales bundles every scale the renderer needs for one commit set.
type Scales struct {
	X      TimeScale
	Y      LinearScale
	R      SqrtScale
	Color  *ColorScale
	Layout schema.Layout
	Empty  bool // true when built from zero commits
}

// Build derives the scales for the given commit set. It never fails: an empty
// or degenerate set produces padded, usable domains.
func Build(commits []schema.Commit, layout schema.Layout, colors *ColorScale) Scales {
	area := layout.UsableArea()
	lo, hi := TimeExtent(commits)
	minLines, maxLines := LinesExtent(commits)
	if colors == nil {
		colors = NewColorScale()
	}

	return Scales{
		X:      NewTimeScale(lo, hi, area.X0, area.X1),
		Y:      NewLinearScale(0, schema.HoursPerDay, area.Y1, area.Y0),
		R:      NewSqrtScale(float64(minLines), float64(maxLines), schema.MinRadius, schema.MaxRadius),
		Color:  colors,
		Layout: layout,
		Empty:  len(commits) == 0,
	}
}

// Position maps a commit to its plot coordinates.
func (s Scales) Position(c schema.Commit) schema.Point {
	return schema.Point{X: s.X.Map(c.Datetime), Y: s.Y.Map(c.HourFrac)}
}

// SameDomains reports whether two scale sets share x and radius domains.
func (s Scales) SameDomains(o Scales) bool {
	return s.X.SameDomain(o.X) && s.R.SameDomain(o.R)
}

// TimeExtent returns the earliest and latest commit datetime. Both are zero
// for an empty set.
func TimeExtent(commits []schema.Commit) (time.Time, time.Time) {
	var lo, hi time.Time
	for i, c := range commits {
		if i == 0 || c.Datetime.Before(lo) {
			lo = c.Datetime
		}
		if i == 0 || c.Datetime.After(hi) {
			hi = c.Datetime
		}
	}
	return lo, hi
}

// LinesExtent returns the smallest and largest TotalLines of a commit set.
func LinesExtent(commits []schema.Commit) (int, int) {
	if len(commits) == 0 {
		return 0, 0
	}
	lo, hi := math.MaxInt, math.MinInt
	for _, c := range commits {
		lo = min(lo, c.TotalLines)
		hi = max(hi, c.TotalLines)
	}
	return lo, hi
}

// ProgressScale maps the slider's 0..100 progress onto the full commit time span.
func ProgressScale(commits []schema.Commit) TimeScale {
	lo, hi := TimeExtent(commits)
	return NewTimeScale(lo, hi, schema.ProgressMin, schema.ProgressMax)
}
