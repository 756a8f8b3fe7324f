package agg

import (
	"sort"

	"github.com/huangsam/commitscope/schema"
	"github.com/samber/lo"
)

// ComputeStats recomputes the summary panel for a commit subset from scratch.
// An empty subset yields the zero Stats value.
func ComputeStats(commits []schema.Commit) schema.Stats {
	lines := Flatten(commits)
	stats := schema.Stats{
		TotalLOC:     len(lines),
		TotalCommits: len(commits),
	}
	if len(lines) == 0 {
		stats.MostActiveWeekday = MostActiveWeekday(commits)
		return stats
	}

	lengths := lo.Map(lines, func(l schema.LineRecord, _ int) int { return l.Length })
	stats.TotalFiles = len(lo.Uniq(lo.Map(lines, func(l schema.LineRecord, _ int) string { return l.File })))
	stats.AvgLineLength = float64(lo.Sum(lengths)) / float64(len(lengths))
	stats.LongestLine = lo.Max(lengths)
	stats.MostActiveWeekday = MostActiveWeekday(commits)
	return stats
}

// MostActiveWeekday returns the weekday with the most commits. Ties go to the
// earliest day in Sunday-first order. Returns "" for no commits.
func MostActiveWeekday(commits []schema.Commit) string {
	if len(commits) == 0 {
		return ""
	}
	var counts [7]int
	for _, c := range commits {
		counts[c.Datetime.Weekday()]++
	}
	best := 0
	for day := 1; day < len(counts); day++ {
		if counts[day] > counts[best] {
			best = day
		}
	}
	return schema.Weekdays[best]
}

// TypeBreakdown tallies the flattened lines of the given commits by file type.
// Rows keep the order in which types are first encountered; percentages are
// shares of the flattened line count, rounded to one decimal place.
func TypeBreakdown(commits []schema.Commit, colorOf func(string) string) []schema.TypeShare {
	lines := Flatten(commits)
	if len(lines) == 0 {
		return []schema.TypeShare{}
	}

	order := make([]string, 0)
	counts := make(map[string]int)
	for _, l := range lines {
		if _, seen := counts[l.Type]; !seen {
			order = append(order, l.Type)
		}
		counts[l.Type]++
	}

	total := float64(len(lines))
	out := make([]schema.TypeShare, 0, len(order))
	for _, typ := range order {
		share := schema.TypeShare{
			Type:    typ,
			Lines:   counts[typ],
			Percent: schema.RoundTo(float64(counts[typ])/total*100, 1),
		}
		if colorOf != nil {
			share.Color = colorOf(typ)
		}
		out = append(out, share)
	}
	return out
}

// FileBreakdowns groups the flattened lines of a subset by file, sorted by
// line count descending and then by name.
func FileBreakdowns(commits []schema.Commit) []schema.FileBreakdown {
	byFile := lo.GroupBy(Flatten(commits), func(l schema.LineRecord) string { return l.File })

	out := make([]schema.FileBreakdown, 0, len(byFile))
	for name, lines := range byFile {
		fb := schema.FileBreakdown{
			Name:   name,
			Lines:  len(lines),
			ByType: make(map[string]int),
		}
		for _, l := range lines {
			fb.ByType[l.Type]++
		}
		out = append(out, fb)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Lines != out[j].Lines {
			return out[i].Lines > out[j].Lines
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Legend lists the file types present in a subset, most lines first.
func Legend(commits []schema.Commit, colorOf func(string) string) []schema.LegendEntry {
	shares := TypeBreakdown(commits, colorOf)
	out := lo.Map(shares, func(s schema.TypeShare, _ int) schema.LegendEntry {
		return schema.LegendEntry{Type: s.Type, Color: s.Color, Lines: s.Lines}
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Lines > out[j].Lines })
	return out
}
