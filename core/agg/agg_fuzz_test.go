package agg

import (
	"testing"
	"time"

	"github.com/huangsam/commitscope/schema"
)

// FuzzAggregate checks the aggregation invariants on arbitrary commit id streams.
func FuzzAggregate(f *testing.F) {
	f.Add("aabbcab", int64(1738575000))
	f.Add("", int64(0))
	f.Add("zzzzzzzz", int64(-86400))

	f.Fuzz(func(t *testing.T, ids string, unix int64) {
		at := time.Unix(unix, 0).UTC()
		var lines []schema.LineRecord
		for i, r := range ids {
			lines = append(lines, schema.LineRecord{
				Commit:   string(r),
				File:     "f",
				Datetime: at.Add(time.Duration(i) * time.Minute),
			})
		}

		commits := Aggregate(lines, "")
		distinct := make(map[string]struct{})
		for _, l := range lines {
			distinct[l.Commit] = struct{}{}
		}
		if len(commits) != len(distinct) {
			t.Fatalf("got %d commits for %d distinct ids", len(commits), len(distinct))
		}

		total := 0
		for _, c := range commits {
			if c.TotalLines != len(c.Lines) {
				t.Fatalf("commit %q: TotalLines %d != len(Lines) %d", c.ID, c.TotalLines, len(c.Lines))
			}
			if c.HourFrac < 0 || c.HourFrac >= 24 {
				t.Fatalf("commit %q: hourFrac %f out of [0,24)", c.ID, c.HourFrac)
			}
			total += c.TotalLines
		}
		if total != len(lines) {
			t.Fatalf("sum of TotalLines %d != %d records", total, len(lines))
		}
	})
}
