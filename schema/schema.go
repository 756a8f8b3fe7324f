// Package schema has models, constants and shared errors for all parts of commitscope.
package schema

import "time"

// LineRecord is one changed source line as loaded from the line-change table.
// Records are immutable once loaded; many records share one Commit id.
type LineRecord struct {
	Commit   string    `json:"commit"`
	File     string    `json:"file"`
	Line     int       `json:"line"`
	Length   int       `json:"length"`
	Depth    int       `json:"depth"`
	Type     string    `json:"type"`
	Author   string    `json:"author"`
	Date     string    `json:"date"`
	Time     string    `json:"time"`
	Timezone string    `json:"timezone"`
	Datetime time.Time `json:"datetime"`
}

// Commit summarizes every LineRecord sharing one revision identifier.
// TotalLines always equals len(Lines).
type Commit struct {
	ID         string       `json:"id"`
	URL        string       `json:"url"`
	Author     string       `json:"author"`
	Date       string       `json:"date"`
	Time       string       `json:"time"`
	Timezone   string       `json:"timezone"`
	Datetime   time.Time    `json:"datetime"`
	HourFrac   float64      `json:"hour_frac"`   // hour + minute/60, in [0,24)
	TotalLines int          `json:"total_lines"` // count of line records for this commit
	Lines      []LineRecord `json:"lines"`
}

// Point is a position in plot (SVG user) coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a width/height pair in pixels.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rect is a brush rectangle in plot coordinates, given by two opposite corners.
type Rect struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// Normalize returns the rectangle with X0<=X1 and Y0<=Y1.
func (r Rect) Normalize() Rect {
	if r.X0 > r.X1 {
		r.X0, r.X1 = r.X1, r.X0
	}
	if r.Y0 > r.Y1 {
		r.Y0, r.Y1 = r.Y1, r.Y0
	}
	return r
}

// Empty reports whether the rectangle has no area. A brush collapsed to a point
// or a line selects nothing.
func (r Rect) Empty() bool {
	return r.X0 == r.X1 || r.Y0 == r.Y1
}

// Intersect returns the overlap of r and o. The bool is false when they do
// not overlap.
func (r Rect) Intersect(o Rect) (Rect, bool) {
	a, b := r.Normalize(), o.Normalize()
	out := Rect{
		X0: max(a.X0, b.X0),
		Y0: max(a.Y0, b.Y0),
		X1: min(a.X1, b.X1),
		Y1: min(a.Y1, b.Y1),
	}
	if out.X0 > out.X1 || out.Y0 > out.Y1 {
		return Rect{}, false
	}
	return out, true
}

// Contains reports whether p lies inside r, boundaries included.
func (r Rect) Contains(p Point) bool {
	n := r.Normalize()
	return n.X0 <= p.X && p.X <= n.X1 && n.Y0 <= p.Y && p.Y <= n.Y1
}

// Layout describes the plot geometry shared by the scale manager and the renderer.
type Layout struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Margin Margin  `json:"margin"`
}

// Margin holds the plot margins in pixels.
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// UsableArea is the inner plot rectangle after margins are removed.
func (l Layout) UsableArea() Rect {
	return Rect{
		X0: l.Margin.Left,
		Y0: l.Margin.Top,
		X1: l.Width - l.Margin.Right,
		Y1: l.Height - l.Margin.Bottom,
	}
}

// DefaultLayout returns the 1000x600 plot used by the page.
func DefaultLayout() Layout {
	return Layout{
		Width:  DefaultPlotWidth,
		Height: DefaultPlotHeight,
		Margin: Margin{Top: 20, Right: 20, Bottom: 40, Left: 60},
	}
}
