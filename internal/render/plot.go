package render

import (
	"fmt"
	"sort"
	"sync"

	"github.com/huangsam/commitscope/core"
	"github.com/huangsam/commitscope/core/scale"
	"github.com/huangsam/commitscope/schema"
)

// Mark is one rendered commit.
type Mark struct {
	ID       string
	CX, CY   float64
	R        float64
	Fill     string
	Opacity  float64
	Selected bool
	Commit   schema.Commit
}

// Tick is one labelled axis tick at a plot coordinate.
type Tick struct {
	Pos   float64
	Label string
}

// Diff reports what an update did to the mark set.
type Diff struct {
	Entered []string
	Exited  []string
	Moved   []string
}

// Empty reports whether the update changed nothing.
func (d Diff) Empty() bool {
	return len(d.Entered) == 0 && len(d.Exited) == 0 && len(d.Moved) == 0
}

// Plot is the retained scatter plot. Marks are keyed by commit id and reused
// across updates; only marks whose commit leaves the subset are destroyed.
type Plot struct {
	mu       sync.RWMutex
	layout   schema.Layout
	scales   scale.Scales
	marks    map[string]*Mark
	order    []string // render order, largest commits first
	xTicks   []Tick
	yTicks   []Tick
	hovered  string
	tooltip  schema.Tooltip
	brush    *schema.Rect
	rendered bool
}

// NewPlot creates an empty plot for the given geometry.
func NewPlot(layout schema.Layout) *Plot {
	return &Plot{layout: layout, marks: make(map[string]*Mark)}
}

// Render draws axes, gridlines and one mark per commit from scratch.
func (p *Plot) Render(commits []schema.Commit, scales scale.Scales) Diff {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.marks = make(map[string]*Mark, len(commits))
	p.order = nil
	p.hovered = ""
	p.tooltip = schema.Tooltip{}
	p.rendered = true
	return p.bind(commits, scales, true)
}

// Update rebinds the marks to a new subset. Exiting marks are removed,
// entering marks are created at their final position, and kept marks move
// only when the domain changed.
func (p *Plot) Update(subset []schema.Commit, scales scale.Scales, domainChanged bool) Diff {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.rendered {
		p.rendered = true
		domainChanged = true
	}
	return p.bind(subset, scales, domainChanged)
}

func (p *Plot) bind(commits []schema.Commit, scales scale.Scales, domainChanged bool) Diff {
	sorted := make([]schema.Commit, len(commits))
	copy(sorted, commits)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalLines > sorted[j].TotalLines
	})

	var diff Diff
	keep := make(map[string]struct{}, len(sorted))
	order := make([]string, 0, len(sorted))
	for _, c := range sorted {
		keep[c.ID] = struct{}{}
		order = append(order, c.ID)

		m, ok := p.marks[c.ID]
		if !ok {
			m = &Mark{ID: c.ID, Opacity: schema.MarkOpacity}
			p.marks[c.ID] = m
			p.place(m, c, scales)
			diff.Entered = append(diff.Entered, c.ID)
			continue
		}
		m.Commit = c
		if domainChanged {
			p.place(m, c, scales)
			diff.Moved = append(diff.Moved, c.ID)
		}
	}

	for _, id := range p.order {
		if _, ok := keep[id]; ok {
			continue
		}
		delete(p.marks, id)
		diff.Exited = append(diff.Exited, id)
		if p.hovered == id {
			p.hovered = ""
			p.tooltip = schema.Tooltip{}
		}
	}

	p.order = order
	if domainChanged || len(p.yTicks) == 0 {
		p.scales = scales
		p.xTicks, p.yTicks = axisTicks(scales)
	}
	return diff
}

// place positions, sizes and colours a mark from its commit.
func (p *Plot) place(m *Mark, c schema.Commit, scales scale.Scales) {
	pos := scales.Position(c)
	m.Commit = c
	m.CX, m.CY = pos.X, pos.Y
	m.R = scales.R.Map(float64(c.TotalLines))
	if scales.Color != nil {
		m.Fill = scales.Color.HourColor(c.HourFrac)
	}
}

// SetSelected flags the marks whose ids are given and clears the rest.
func (p *Plot) SetSelected(ids []string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	sel := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		sel[id] = struct{}{}
	}
	for id, m := range p.marks {
		_, m.Selected = sel[id]
	}
}

// SetBrush records the brush rectangle drawn over the plot. Nil hides it.
func (p *Plot) SetBrush(rect *schema.Rect) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if rect == nil {
		p.brush = nil
		return
	}
	r := rect.Normalize()
	p.brush = &r
}

// Hover raises a mark to full opacity and opens the tooltip next to the
// pointer, clamped inside the viewport.
func (p *Plot) Hover(id string, pointer schema.Point, viewport schema.Size) (schema.Tooltip, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	m, ok := p.marks[id]
	if !ok {
		return schema.Tooltip{}, fmt.Errorf("hover %q: %w", id, schema.ErrUnknownCommit)
	}
	if p.hovered != "" && p.hovered != id {
		if prev, ok := p.marks[p.hovered]; ok {
			prev.Opacity = schema.MarkOpacity
		}
	}
	m.Opacity = schema.MarkHoverOpacity
	p.hovered = id
	p.tooltip = core.TooltipFor(&core.Hover{Commit: m.Commit, Pointer: pointer, Viewport: viewport})
	return p.tooltip, nil
}

// Leave restores the resting opacity of a mark and hides the tooltip. An
// empty id leaves whichever mark is hovered.
func (p *Plot) Leave(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if id == "" {
		id = p.hovered
	}
	if m, ok := p.marks[id]; ok {
		m.Opacity = schema.MarkOpacity
	}
	if id == p.hovered {
		p.hovered = ""
		p.tooltip = schema.Tooltip{}
	}
}

// Tooltip returns the current tooltip.
func (p *Plot) Tooltip() schema.Tooltip {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.tooltip
}

// Marks returns copies of the marks in render order.
func (p *Plot) Marks() []Mark {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]Mark, 0, len(p.order))
	for _, id := range p.order {
		out = append(out, *p.marks[id])
	}
	return out
}

// Mark returns a copy of one mark.
func (p *Plot) Mark(id string) (Mark, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	m, ok := p.marks[id]
	if !ok {
		return Mark{}, false
	}
	return *m, true
}

// axisTicks computes the labelled ticks of both axes.
func axisTicks(s scale.Scales) ([]Tick, []Tick) {
	var xs []Tick
	times, layout := s.X.Ticks(8)
	for _, t := range times {
		xs = append(xs, Tick{Pos: s.X.Map(t), Label: t.Format(layout)})
	}

	var ys []Tick
	for _, h := range s.Y.Ticks(12) {
		ys = append(ys, Tick{Pos: s.Y.Map(h), Label: fmt.Sprintf("%02d:00", int(h))})
	}
	return xs, ys
}
