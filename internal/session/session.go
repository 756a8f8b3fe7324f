// Package session binds one loaded commit set to its selection state and the
// rendered page. Every entry point (CLI, HTTP, MCP) drives the state through
// a Session so that views never observe a half-applied interaction.
package session

import (
	"errors"
	"io"
	"sync"

	"github.com/huangsam/commitscope/core"
	"github.com/huangsam/commitscope/internal/contract"
	"github.com/huangsam/commitscope/internal/render"
	"github.com/huangsam/commitscope/schema"
)

// Session is a mutex-guarded State with its document, plot and reporter.
type Session struct {
	mu       sync.Mutex
	state    *core.State
	doc      *render.Document
	plot     *render.Plot
	reporter *render.Reporter
	title    string
}

// New builds the state for commits, registers every page view and performs
// the initial render. View failures during that render are reported under
// the "init" entry and do not fail construction.
func New(commits []schema.Commit, layout schema.Layout, title string) *Session {
	s := &Session{
		state:    core.NewState(commits, layout),
		doc:      render.DefaultDocument(),
		plot:     render.NewPlot(layout),
		reporter: render.NewReporter(contract.LogWarn),
		title:    title,
	}
	s.state.Register(render.Views(s.doc, s.plot, s.state.Steps())...)
	s.reporter.Report(string(schema.InitChannel), s.state.Refresh())
	return s
}

// Result is the view produced by one interaction, read under the same lock
// that applied it.
type Result struct {
	Snapshot     schema.ViewSnapshot
	Rows         []schema.CommitRow
	ViewFailures int
}

// Apply runs fn against the state under the session lock. View failures are
// reported once per entry and counted; only interaction errors such as an
// unknown commit or an out-of-range step are returned.
func (s *Session) Apply(entry string, fn func(st *core.State) error) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var failed int
	if err := fn(s.state); err != nil {
		failed = countViewErrors(err)
		if failed == 0 {
			return Result{}, err
		}
		s.reporter.Report(entry, err)
	}
	return Result{
		Snapshot:     s.state.Snapshot(),
		Rows:         s.state.Rows(),
		ViewFailures: failed,
	}, nil
}

func countViewErrors(err error) int {
	var parts []error
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		parts = j.Unwrap()
	} else {
		parts = []error{err}
	}
	n := 0
	for _, e := range parts {
		var ve *core.ViewError
		if errors.As(e, &ve) {
			n++
		}
	}
	return n
}

// Snapshot returns the projections of the current frame.
func (s *Session) Snapshot() schema.ViewSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Snapshot()
}

// Rows returns every commit flagged with its visibility and selection.
func (s *Session) Rows() []schema.CommitRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Rows()
}

// Channel names the interaction that produced the current frame.
func (s *Session) Channel() schema.Channel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Frame().Channel
}

// Commits returns every loaded commit in load order.
func (s *Session) Commits() []schema.Commit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Commits()
}

// Steps returns the narrative steps, one per commit.
func (s *Session) Steps() []schema.Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Steps()
}

// WritePage writes the full HTML page for the current frame.
func (s *Session) WritePage(w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return render.WritePage(w, s.doc, s.title)
}

// WriteSVG writes only the plot.
func (s *Session) WriteSVG(w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.plot.WriteSVG(w)
}

// Document exposes the page targets. Callers must not hold it across Apply.
func (s *Session) Document() *render.Document {
	return s.doc
}
