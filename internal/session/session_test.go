package session

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/huangsam/commitscope/core"
	"github.com/huangsam/commitscope/core/agg"
	"github.com/huangsam/commitscope/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commits() []schema.Commit {
	at := time.Date(2025, 2, 3, 9, 30, 0, 0, time.UTC)
	var lines []schema.LineRecord
	for i, id := range []string{"a1", "b2", "c3"} {
		lines = append(lines, schema.LineRecord{
			Commit: id, File: "main.js", Type: "js", Line: 1, Length: 10,
			Author: "Erika Tan", Datetime: at.Add(time.Duration(i) * 26 * time.Hour),
		})
	}
	return agg.Aggregate(lines, "")
}

func TestNewRendersEveryView(t *testing.T) {
	s := New(commits(), schema.DefaultLayout(), "portfolio")

	assert.Equal(t, schema.InitChannel, s.Channel())
	assert.Contains(t, s.Document().Content(schema.ChartID), `id="commit-b2"`)
	assert.Len(t, s.Steps(), 3)
	assert.Len(t, s.Commits(), 3)

	var page bytes.Buffer
	require.NoError(t, s.WritePage(&page))
	assert.Contains(t, page.String(), "<title>portfolio</title>")

	var svg bytes.Buffer
	require.NoError(t, s.WriteSVG(&svg))
	assert.Contains(t, svg.String(), "<svg")
}

func TestPageEscapesAuthor(t *testing.T) {
	lines := []schema.LineRecord{{
		Commit: "a1", File: "main.js", Type: "js", Line: 1, Length: 10,
		Author: "a<img/src=x/onerror=alert(1)>b", Datetime: time.Date(2025, 2, 3, 9, 30, 0, 0, time.UTC),
	}}
	s := New(agg.Aggregate(lines, ""), schema.DefaultLayout(), "portfolio")

	var page bytes.Buffer
	require.NoError(t, s.WritePage(&page))
	assert.NotContains(t, page.String(), "<img/src=x/onerror=alert(1)>")
	assert.Contains(t, page.String(), "&lt;img/src=x/onerror=alert(1)&gt;")
}

func TestApplyInteraction(t *testing.T) {
	s := New(commits(), schema.DefaultLayout(), "")

	res, err := s.Apply("step", func(st *core.State) error { return st.EnterStep(0) })
	require.NoError(t, err)
	assert.Zero(t, res.ViewFailures)
	assert.Equal(t, schema.ScrollChannel, res.Snapshot.Channel)
	assert.Equal(t, []string{"a1"}, res.Snapshot.VisibleIDs)
	assert.Equal(t, schema.ScrollChannel, s.Channel())

	rows := res.Rows
	require.Len(t, rows, 3)
	assert.True(t, rows[0].Visible)
	assert.False(t, rows[2].Visible)
}

func TestApplyReturnsInteractionErrors(t *testing.T) {
	s := New(commits(), schema.DefaultLayout(), "")

	_, err := s.Apply("step", func(st *core.State) error { return st.EnterStep(7) })
	assert.ErrorIs(t, err, schema.ErrStepOutOfRange)

	_, err = s.Apply("hover", func(st *core.State) error {
		return st.Hover("zz", schema.Point{}, schema.Size{Width: 800, Height: 600})
	})
	assert.ErrorIs(t, err, schema.ErrUnknownCommit)
}

func TestApplyCountsViewFailures(t *testing.T) {
	s := New(commits(), schema.DefaultLayout(), "")
	s.Document().Remove(schema.StatsID)
	s.Document().Remove(schema.LegendID)

	res, err := s.Apply("slider", func(st *core.State) error { return st.SetProgress(50) })
	require.NoError(t, err, "view failures are reported, not returned")
	assert.Equal(t, 2, res.ViewFailures)
	assert.Equal(t, schema.SliderChannel, res.Snapshot.Channel)
}

func TestApplyResultMatchesItsOwnInteraction(t *testing.T) {
	s := New(commits(), schema.DefaultLayout(), "")
	want := map[int][]string{0: {"a1"}, 2: {"a1", "b2", "c3"}}

	var wg sync.WaitGroup
	for i := range 50 {
		step := (i % 2) * 2
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := s.Apply("step", func(st *core.State) error { return st.EnterStep(step) })
			assert.NoError(t, err)
			assert.Equal(t, want[step], res.Snapshot.VisibleIDs)
			assert.Len(t, res.Rows, 3)
		}()
	}
	wg.Wait()
}
