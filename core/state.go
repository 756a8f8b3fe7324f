// Package core has the selection state that keeps every view of the commit
// history in sync with one visible subset.
package core

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/huangsam/commitscope/core/scale"
	"github.com/huangsam/commitscope/schema"
)

// View is a projection of the current subset. Every registered view receives
// the full Frame after each reconciliation.
type View interface {
	Name() string
	Update(f Frame) error
}

// Hover is the mark under the pointer, if any.
type Hover struct {
	Commit   schema.Commit
	Pointer  schema.Point
	Viewport schema.Size
}

// Frame is the reconciled state handed to views.
type Frame struct {
	Channel        schema.Channel
	Mode           schema.FilterMode
	Subset         []schema.Commit // currently visible commits
	Selected       []schema.Commit // brush-selected commits, subset order
	Brush          *schema.Rect
	Scales         scale.Scales
	DomainChanged  bool // x or radius domain differs from the previous frame
	MaxVisibleTime time.Time
	Progress       float64
	Hover          *Hover
}

// ViewError reports the failure of one view during one pass.
type ViewError struct {
	View string
	Err  error
}

func (e *ViewError) Error() string {
	return fmt.Sprintf("view %s: %v", e.View, e.Err)
}

func (e *ViewError) Unwrap() error {
	return e.Err
}

// State is the single source of truth for what is visible. All interaction
// channels funnel into reconcile; the last one to fire wins and brush and
// time threshold are never combined.
type State struct {
	all      []schema.Commit
	chrono   []schema.Commit
	byID     map[string]int
	layout   schema.Layout
	colors   *scale.ColorScale
	progress scale.TimeScale

	mode       schema.FilterMode
	channel    schema.Channel
	subset     []schema.Commit
	maxVisible time.Time
	pct        float64
	brush      *schema.Rect
	selected   []schema.Commit
	hover      *Hover
	scales     scale.Scales
	changed    bool

	views []View
}

// NewState creates the state for a loaded commit set. Initially every commit
// is visible and the threshold sits at the latest commit.
func NewState(commits []schema.Commit, layout schema.Layout) *State {
	s := &State{
		all:    commits,
		byID:   make(map[string]int, len(commits)),
		layout: layout,
		colors: scale.NewColorScale(),
	}
	for i, c := range commits {
		s.byID[c.ID] = i
	}
	s.chrono = make([]schema.Commit, len(commits))
	copy(s.chrono, commits)
	sort.SliceStable(s.chrono, func(i, j int) bool {
		return s.chrono[i].Datetime.Before(s.chrono[j].Datetime)
	})
	s.progress = scale.ProgressScale(commits)

	_, latest := scale.TimeExtent(commits)
	s.mode = schema.ThresholdMode
	s.channel = schema.InitChannel
	s.maxVisible = latest
	s.pct = schema.ProgressMax
	s.subset = filterThrough(commits, latest)
	s.scales = scale.Build(s.subset, layout, s.colors)
	s.changed = true
	return s
}

// Register adds views to be updated on every reconciliation. It does not
// trigger a pass; call Refresh for the initial render.
func (s *State) Register(views ...View) {
	s.views = append(s.views, views...)
}

// Refresh pushes the current frame to every view without changing state.
func (s *State) Refresh() error {
	return s.notify()
}

// SetThreshold shows every commit at or before t.
func (s *State) SetThreshold(t time.Time) error {
	return s.applyThreshold(schema.SliderChannel, t, s.progressOf(t))
}

// SetProgress moves the slider to p in [0,100]. The progress maps onto the
// full commit time span.
func (s *State) SetProgress(p float64) error {
	p = math.Max(schema.ProgressMin, math.Min(schema.ProgressMax, p))
	return s.applyThreshold(schema.SliderChannel, s.progress.Invert(p), p)
}

// EnterStep makes scroll step i current. Step i is bound to the i-th commit in
// chronological order and reuses the threshold path.
func (s *State) EnterStep(i int) error {
	if i < 0 || i >= len(s.chrono) {
		return fmt.Errorf("step %d of %d: %w", i, len(s.chrono), schema.ErrStepOutOfRange)
	}
	t := s.chrono[i].Datetime
	return s.applyThreshold(schema.ScrollChannel, t, s.progressOf(t))
}

// Brush selects commits whose plotted position lies inside rect and inside
// the plot area. A nil or degenerate rectangle, or one outside the plot area,
// clears the selection. Brushing makes every commit
// current and keeps the scales fixed.
func (s *State) Brush(rect *schema.Rect) error {
	s.channel = schema.BrushChannel
	s.mode = schema.BrushMode
	s.subset = s.all
	_, s.maxVisible = scale.TimeExtent(s.all)
	s.pct = schema.ProgressMax
	s.changed = false

	s.brush = nil
	if rect != nil && !rect.Empty() {
		// Clipped to the drawing area; marks outside it are not on screen
		if n, ok := rect.Intersect(s.layout.UsableArea()); ok && !n.Empty() {
			s.brush = &n
		}
	}
	s.selected = s.brushed()
	return s.notify()
}

// Hover shows the tooltip for a visible commit. An empty id clears the hover.
func (s *State) Hover(id string, pointer schema.Point, viewport schema.Size) error {
	if id == "" {
		return s.Leave()
	}
	c, ok := s.visible(id)
	if !ok {
		return fmt.Errorf("hover %q: %w", id, schema.ErrUnknownCommit)
	}
	s.channel = schema.HoverChannel
	s.changed = false
	s.hover = &Hover{Commit: c, Pointer: pointer, Viewport: viewport}
	return s.notify()
}

// Leave hides the tooltip.
func (s *State) Leave() error {
	s.channel = schema.HoverChannel
	s.changed = false
	s.hover = nil
	return s.notify()
}

// applyThreshold is the one subset rule shared by slider and scroll.
func (s *State) applyThreshold(ch schema.Channel, t time.Time, pct float64) error {
	s.channel = ch
	s.mode = schema.ThresholdMode
	s.maxVisible = t
	s.pct = pct
	s.brush = nil
	s.selected = nil
	s.subset = filterThrough(s.all, t)
	if s.hover != nil {
		if _, ok := s.visible(s.hover.Commit.ID); !ok {
			s.hover = nil
		}
	}

	next := scale.Build(s.subset, s.layout, s.colors)
	s.changed = !next.SameDomains(s.scales)
	s.scales = next
	return s.notify()
}

// notify hands the frame to every view. A failing view does not stop the
// others; all failures are returned together.
func (s *State) notify() error {
	f := s.Frame()
	var errs []error
	for _, v := range s.views {
		if err := v.Update(f); err != nil {
			errs = append(errs, &ViewError{View: v.Name(), Err: err})
		}
	}
	return errors.Join(errs...)
}

// brushed returns the current-subset commits inside the brush, inclusive.
func (s *State) brushed() []schema.Commit {
	if s.brush == nil {
		return nil
	}
	var out []schema.Commit
	for _, c := range s.subset {
		if s.brush.Contains(s.scales.Position(c)) {
			out = append(out, c)
		}
	}
	return out
}

func (s *State) visible(id string) (schema.Commit, bool) {
	for _, c := range s.subset {
		if c.ID == id {
			return c, true
		}
	}
	return schema.Commit{}, false
}

func (s *State) progressOf(t time.Time) float64 {
	p := s.progress.Map(t)
	return math.Max(schema.ProgressMin, math.Min(schema.ProgressMax, p))
}

// Frame returns the current reconciled state.
func (s *State) Frame() Frame {
	f := Frame{
		Channel:        s.channel,
		Mode:           s.mode,
		Subset:         s.subset,
		Selected:       s.selected,
		Scales:         s.scales,
		DomainChanged:  s.changed,
		MaxVisibleTime: s.maxVisible,
		Progress:       s.pct,
		Hover:          s.hover,
	}
	if s.brush != nil {
		b := *s.brush
		f.Brush = &b
	}
	return f
}

// Commits returns every loaded commit in load order.
func (s *State) Commits() []schema.Commit {
	return s.all
}

// Commit looks up a loaded commit by id.
func (s *State) Commit(id string) (schema.Commit, error) {
	i, ok := s.byID[id]
	if !ok {
		return schema.Commit{}, fmt.Errorf("commit %q: %w", id, schema.ErrUnknownCommit)
	}
	return s.all[i], nil
}

// Colors returns the colour scale shared by every view.
func (s *State) Colors() *scale.ColorScale {
	return s.colors
}

// Layout returns the plot geometry.
func (s *State) Layout() schema.Layout {
	return s.layout
}

// filterThrough keeps commits at or before t, in input order.
func filterThrough(commits []schema.Commit, t time.Time) []schema.Commit {
	out := make([]schema.Commit, 0, len(commits))
	for _, c := range commits {
		if !c.Datetime.After(t) {
			out = append(out, c)
		}
	}
	return out
}
