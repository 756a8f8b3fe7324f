// Package render draws the commit history: the keyed scatter plot, the
// panels around it and the page that hosts them.
package render

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/huangsam/commitscope/core"
	"github.com/huangsam/commitscope/schema"
)

// Target is one addressable element of the page.
type Target struct {
	ID      string
	Attrs   map[string]string
	Content string // markup, already escaped
}

// Document holds the render targets of one page, keyed by element id. Views
// write into targets; a view whose target is absent fails with
// schema.ErrTargetMissing.
type Document struct {
	mu      sync.RWMutex
	order   []string
	targets map[string]*Target
}

// PageTargets lists every element id of the standard page.
var PageTargets = []string{
	schema.ChartID,
	schema.StatsID,
	schema.FilesID,
	schema.TooltipID,
	schema.SelectionCountID,
	schema.LanguageBreakdownID,
	schema.LegendID,
	schema.SliderID,
	schema.SliderTimeID,
	schema.ScrollyID,
}

// NewDocument creates a document with the given targets.
func NewDocument(ids ...string) *Document {
	d := &Document{targets: make(map[string]*Target, len(ids))}
	for _, id := range ids {
		d.Add(id)
	}
	return d
}

// DefaultDocument creates a document with every standard page target.
func DefaultDocument() *Document {
	return NewDocument(PageTargets...)
}

// Add creates an empty target. Adding an existing id is a no-op.
func (d *Document) Add(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.targets[id]; ok {
		return
	}
	d.order = append(d.order, id)
	d.targets[id] = &Target{ID: id, Attrs: map[string]string{}}
}

// Remove deletes a target.
func (d *Document) Remove(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.targets, id)
	d.order = slices.DeleteFunc(d.order, func(s string) bool { return s == id })
}

// Set replaces the content of a target.
func (d *Document) Set(id, content string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	t, ok := d.targets[id]
	if !ok {
		return fmt.Errorf("#%s: %w", id, schema.ErrTargetMissing)
	}
	t.Content = content
	return nil
}

// SetAttr sets one attribute of a target. An empty value removes it.
func (d *Document) SetAttr(id, key, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	t, ok := d.targets[id]
	if !ok {
		return fmt.Errorf("#%s: %w", id, schema.ErrTargetMissing)
	}
	if value == "" {
		delete(t.Attrs, key)
		return nil
	}
	t.Attrs[key] = value
	return nil
}

// Get returns a copy of a target.
func (d *Document) Get(id string) (Target, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	t, ok := d.targets[id]
	if !ok {
		return Target{}, fmt.Errorf("#%s: %w", id, schema.ErrTargetMissing)
	}
	return Target{ID: t.ID, Attrs: maps.Clone(t.Attrs), Content: t.Content}, nil
}

// Content returns the markup of a target, or "" when it is absent.
func (d *Document) Content(id string) string {
	t, err := d.Get(id)
	if err != nil {
		return ""
	}
	return t.Content
}

// IDs returns target ids in creation order.
func (d *Document) IDs() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.order)
}

// Reporter logs view failures once per entry point and view, so a drag that
// fails on every tick does not flood the log.
type Reporter struct {
	mu   sync.Mutex
	seen map[string]struct{}
	log  func(msg string, err error)
}

// NewReporter creates a Reporter that hands each first failure to log.
func NewReporter(log func(msg string, err error)) *Reporter {
	return &Reporter{seen: make(map[string]struct{}), log: log}
}

// Report logs the view failures in err that have not yet been seen for this
// entry point. It returns how many were logged.
func (r *Reporter) Report(entry string, err error) int {
	if err == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	logged := 0
	for _, e := range flatten(err) {
		key := entry + "\x00" + e.Error()
		var ve *core.ViewError
		if errors.As(e, &ve) {
			key = entry + "\x00" + ve.View
		}
		if _, ok := r.seen[key]; ok {
			continue
		}
		r.seen[key] = struct{}{}
		if r.log != nil {
			r.log(fmt.Sprintf("render pass %q", entry), e)
		}
		logged++
	}
	return logged
}

// flatten splits a joined error into its parts.
func flatten(err error) []error {
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return j.Unwrap()
	}
	return []error{err}
}
