package scale

import (
	"math"
	"time"

	"github.com/huangsam/commitscope/schema"
)

// LinearScale maps a continuous numeric domain onto a numeric range.
type LinearScale struct {
	D0, D1 float64 // domain
	R0, R1 float64 // range
	Clamp  bool
}

// NewLinearScale creates an unclamped linear scale.
func NewLinearScale(d0, d1, r0, r1 float64) LinearScale {
	return LinearScale{D0: d0, D1: d1, R0: r0, R1: r1}
}

// Map converts a domain value into range space. A degenerate domain maps
// every value to the middle of the range.
func (s LinearScale) Map(v float64) float64 {
	if s.D1 == s.D0 {
		return (s.R0 + s.R1) / 2
	}
	t := (v - s.D0) / (s.D1 - s.D0)
	if s.Clamp {
		t = math.Max(0, math.Min(1, t))
	}
	return s.R0 + t*(s.R1-s.R0)
}

// Invert converts a range value back into domain space.
func (s LinearScale) Invert(v float64) float64 {
	if s.R1 == s.R0 {
		return (s.D0 + s.D1) / 2
	}
	t := (v - s.R0) / (s.R1 - s.R0)
	if s.Clamp {
		t = math.Max(0, math.Min(1, t))
	}
	return s.D0 + t*(s.D1-s.D0)
}

// Ticks returns evenly spaced, human-friendly values across the domain.
func (s LinearScale) Ticks(count int) []float64 {
	lo, hi := math.Min(s.D0, s.D1), math.Max(s.D0, s.D1)
	step := niceStep(hi-lo, count)
	if step == 0 {
		return []float64{lo}
	}
	var out []float64
	for v := math.Ceil(lo/step) * step; v <= hi+step*1e-9; v += step {
		out = append(out, schema.RoundTo(v, 9))
	}
	return out
}

// niceStep picks a 1, 2 or 5 times power-of-ten step yielding about count ticks.
func niceStep(span float64, count int) float64 {
	if span <= 0 || count <= 0 {
		return 0
	}
	raw := span / float64(count)
	power := math.Pow(10, math.Floor(math.Log10(raw)))
	switch ratio := raw / power; {
	case ratio >= math.Sqrt(50):
		return 10 * power
	case ratio >= math.Sqrt(10):
		return 5 * power
	case ratio >= math.Sqrt(2):
		return 2 * power
	default:
		return power
	}
}

// SqrtScale maps values so that the square of the output is linear in the
// input; mark area rather than radius tracks the value. Output is clamped to
// the range.
type SqrtScale struct {
	D0, D1 float64
	R0, R1 float64
}

// NewSqrtScale creates a square-root scale.
func NewSqrtScale(d0, d1, r0, r1 float64) SqrtScale {
	return SqrtScale{D0: d0, D1: d1, R0: r0, R1: r1}
}

// Map converts a value into range space, clamped to [R0,R1].
func (s SqrtScale) Map(v float64) float64 {
	inner := LinearScale{
		D0:    signedSqrt(s.D0),
		D1:    signedSqrt(s.D1),
		R0:    s.R0,
		R1:    s.R1,
		Clamp: true,
	}
	return inner.Map(signedSqrt(v))
}

// SameDomain reports whether both scales share a domain.
func (s SqrtScale) SameDomain(o SqrtScale) bool {
	return s.D0 == o.D0 && s.D1 == o.D1
}

func signedSqrt(v float64) float64 {
	if v < 0 {
		return -math.Sqrt(-v)
	}
	return math.Sqrt(v)
}

// TimeScale maps a time domain onto a numeric range.
type TimeScale struct {
	D0, D1 time.Time
	R0, R1 float64
}

// NewTimeScale creates a time scale. A domain whose endpoints coincide, or an
// unset domain, is widened by schema.DegenerateDomainPad on each side so it
// never collapses.
func NewTimeScale(d0, d1 time.Time, r0, r1 float64) TimeScale {
	if d0.IsZero() && d1.IsZero() {
		d0 = time.Unix(0, 0).UTC()
		d1 = d0
	}
	if !d1.After(d0) {
		d0, d1 = d0.Add(-schema.DegenerateDomainPad), d1.Add(schema.DegenerateDomainPad)
	}
	return TimeScale{D0: d0, D1: d1, R0: r0, R1: r1}
}

// Map converts a time into range space.
func (s TimeScale) Map(t time.Time) float64 {
	return s.linear().Map(float64(t.UnixMilli()))
}

// Invert converts a range value into a time.
func (s TimeScale) Invert(v float64) time.Time {
	ms := s.linear().Invert(v)
	return time.UnixMilli(int64(math.Round(ms))).In(s.D0.Location())
}

// SameDomain reports whether both scales share a domain.
func (s TimeScale) SameDomain(o TimeScale) bool {
	return s.D0.Equal(o.D0) && s.D1.Equal(o.D1)
}

func (s TimeScale) linear() LinearScale {
	return LinearScale{
		D0: float64(s.D0.UnixMilli()),
		D1: float64(s.D1.UnixMilli()),
		R0: s.R0,
		R1: s.R1,
	}
}

// timeIntervals are the candidate tick spacings, smallest first.
var timeIntervals = []time.Duration{
	time.Hour,
	3 * time.Hour,
	6 * time.Hour,
	12 * time.Hour,
	24 * time.Hour,
	2 * 24 * time.Hour,
	7 * 24 * time.Hour,
	14 * 24 * time.Hour,
	30 * 24 * time.Hour,
	90 * 24 * time.Hour,
	365 * 24 * time.Hour,
}

// Ticks returns tick times aligned to the first interval that yields at most
// count ticks, with the layout used to label them.
func (s TimeScale) Ticks(count int) ([]time.Time, string) {
	span := s.D1.Sub(s.D0)
	step := timeIntervals[len(timeIntervals)-1]
	for _, iv := range timeIntervals {
		if span/iv <= time.Duration(count) {
			step = iv
			break
		}
	}

	layout := "Jan 02"
	if step < 24*time.Hour {
		layout = "Jan 02 15:04"
	}

	loc := s.D0.Location()
	start := alignTime(s.D0, step, loc)
	var out []time.Time
	for t := start; !t.After(s.D1); t = t.Add(step) {
		if !t.Before(s.D0) {
			out = append(out, t)
		}
	}
	return out, layout
}

// alignTime rounds t up to a boundary of step in loc. Steps of a day or more
// align to local midnight.
func alignTime(t time.Time, step time.Duration, loc *time.Location) time.Time {
	t = t.In(loc)
	if step >= 24*time.Hour {
		midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
		if midnight.Before(t) {
			midnight = midnight.AddDate(0, 0, 1)
		}
		return midnight
	}
	hour := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, loc)
	if hour.Before(t) {
		hour = hour.Add(time.Hour)
	}
	return hour
}
