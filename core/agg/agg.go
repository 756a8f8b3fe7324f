// Package agg has aggregation logic that turns line records into commits and
// commit subsets into the summary projections shown next to the plot.
package agg

import (
	"strings"

	"github.com/huangsam/commitscope/schema"
)

// Aggregate groups line records by commit id, preserving the order in which
// commit ids are first encountered. The datetime and author of a commit come
// from its first record. An empty input yields an empty, non-nil slice.
func Aggregate(lines []schema.LineRecord, urlPrefix string) []schema.Commit {
	index := make(map[string]int)
	commits := make([]schema.Commit, 0)

	for _, l := range lines {
		pos, ok := index[l.Commit]
		if !ok {
			pos = len(commits)
			index[l.Commit] = pos
			commits = append(commits, newCommit(l, urlPrefix))
		}
		commits[pos].Lines = append(commits[pos].Lines, l)
	}

	for i := range commits {
		commits[i].TotalLines = len(commits[i].Lines)
	}
	return commits
}

// newCommit seeds a commit summary from the first record that carries its id.
func newCommit(first schema.LineRecord, urlPrefix string) schema.Commit {
	return schema.Commit{
		ID:       first.Commit,
		URL:      CommitURL(urlPrefix, first.Commit),
		Author:   first.Author,
		Date:     first.Date,
		Time:     first.Time,
		Timezone: first.Timezone,
		Datetime: first.Datetime,
		HourFrac: schema.HourFraction(first.Datetime),
	}
}

// CommitURL joins a repository commit URL prefix and a commit id.
// An empty prefix yields an empty URL.
func CommitURL(prefix, id string) string {
	if prefix == "" {
		return ""
	}
	return strings.TrimSuffix(prefix, "/") + "/" + id
}

// Flatten returns every line record of the given commits, in commit order.
func Flatten(commits []schema.Commit) []schema.LineRecord {
	total := 0
	for _, c := range commits {
		total += len(c.Lines)
	}
	out := make([]schema.LineRecord, 0, total)
	for _, c := range commits {
		out = append(out, c.Lines...)
	}
	return out
}
