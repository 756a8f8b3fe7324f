package scale

import (
	"testing"
	"time"

	"github.com/huangsam/commitscope/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeCommits() []schema.Commit {
	return []schema.Commit{
		{ID: "a", Datetime: time.Date(2025, 2, 3, 9, 30, 0, 0, time.UTC), HourFrac: 9.5, TotalLines: 10},
		{ID: "b", Datetime: time.Date(2025, 2, 4, 14, 0, 0, 0, time.UTC), HourFrac: 14, TotalLines: 50},
		{ID: "c", Datetime: time.Date(2025, 2, 5, 23, 45, 0, 0, time.UTC), HourFrac: 23.75, TotalLines: 5},
	}
}

func TestBuildThreeCommits(t *testing.T) {
	commits := threeCommits()
	s := Build(commits, schema.DefaultLayout(), nil)

	assert.Equal(t, 5.0, s.R.D0)
	assert.Equal(t, 50.0, s.R.D1)
	assert.False(t, s.Empty)

	// Range is inverted, so the latest hour sits nearest the top
	ys := []float64{s.Position(commits[0]).Y, s.Position(commits[1]).Y, s.Position(commits[2]).Y}
	assert.Less(t, ys[2], ys[1])
	assert.Less(t, ys[1], ys[0])

	area := schema.DefaultLayout().UsableArea()
	assert.InDelta(t, area.X0, s.Position(commits[0]).X, 1e-9)
	assert.InDelta(t, area.X1, s.Position(commits[2]).X, 1e-9)
}

func TestYAxisInverted(t *testing.T) {
	s := Build(nil, schema.DefaultLayout(), nil)
	area := schema.DefaultLayout().UsableArea()
	assert.Equal(t, area.Y1, s.Y.Map(0))
	assert.Equal(t, area.Y0, s.Y.Map(24))
	assert.InDelta(t, 12.0, s.Y.Invert(s.Y.Map(12)), 1e-9)
}

func TestRadiusMonotoneAndBounded(t *testing.T) {
	r := NewSqrtScale(5, 50, schema.MinRadius, schema.MaxRadius)
	prev := 0.0
	for lines := 0; lines <= 100; lines++ {
		v := r.Map(float64(lines))
		assert.GreaterOrEqual(t, v, schema.MinRadius)
		assert.LessOrEqual(t, v, schema.MaxRadius)
		assert.GreaterOrEqual(t, v, prev, "radius must not shrink as lines grow")
		prev = v
	}
	assert.Equal(t, schema.MinRadius, r.Map(5))
	assert.Equal(t, schema.MaxRadius, r.Map(50))
}

func TestRadiusDegenerate(t *testing.T) {
	r := NewSqrtScale(7, 7, schema.MinRadius, schema.MaxRadius)
	assert.Equal(t, 16.0, r.Map(7))
}

func TestTimeScaleDegenerate(t *testing.T) {
	at := time.Date(2025, 2, 3, 9, 30, 0, 0, time.UTC)
	s := NewTimeScale(at, at, 0, 100)
	assert.Equal(t, at.Add(-schema.DegenerateDomainPad), s.D0)
	assert.Equal(t, at.Add(schema.DegenerateDomainPad), s.D1)
	assert.InDelta(t, 50.0, s.Map(at), 1e-9)

	empty := Build(nil, schema.DefaultLayout(), nil)
	assert.True(t, empty.Empty)
	assert.True(t, empty.X.D1.After(empty.X.D0))
}

func TestTimeScaleInvert(t *testing.T) {
	commits := threeCommits()
	p := ProgressScale(commits)
	assert.True(t, p.Invert(0).Equal(commits[0].Datetime))
	assert.True(t, p.Invert(100).Equal(commits[2].Datetime))
	mid := p.Invert(p.Map(commits[1].Datetime))
	assert.True(t, mid.Equal(commits[1].Datetime))
}

func TestTimeTicks(t *testing.T) {
	commits := threeCommits()
	s := Build(commits, schema.DefaultLayout(), nil)
	ticks, layout := s.X.Ticks(10)
	require.NotEmpty(t, ticks)
	assert.Equal(t, "Jan 02 15:04", layout)
	for _, tk := range ticks {
		assert.False(t, tk.Before(s.X.D0))
		assert.False(t, tk.After(s.X.D1))
	}
}

func TestLinearTicks(t *testing.T) {
	y := NewLinearScale(0, 24, 560, 20)
	assert.Equal(t, []float64{0, 2, 4, 6, 8, 10, 12, 14, 16, 18, 20, 22, 24}, y.Ticks(12))
}

func TestSameDomains(t *testing.T) {
	commits := threeCommits()
	a := Build(commits, schema.DefaultLayout(), nil)
	b := Build(commits, schema.DefaultLayout(), nil)
	c := Build(commits[:2], schema.DefaultLayout(), nil)
	assert.True(t, a.SameDomains(b))
	assert.False(t, a.SameDomains(c))
}

func TestHourColor(t *testing.T) {
	c := NewColorScale()
	assert.Equal(t, "#2c3e91", c.HourColor(0))
	assert.Equal(t, "#f28e2b", c.HourColor(12))
	assert.Equal(t, c.HourColor(6), c.HourColor(18))
}

func TestTypeColor(t *testing.T) {
	c := NewColorScale()
	js := c.TypeColor("js")
	assert.NotEmpty(t, js)
	assert.NotEqual(t, enryDefaultColor, js)
	assert.Equal(t, js, c.TypeColor("js"), "colours are stable")

	assert.Equal(t, tableau10[0], c.TypeColor("zz-not-a-language"))
	assert.Equal(t, tableau10[1], c.TypeColor("yy-not-a-language"))
}
