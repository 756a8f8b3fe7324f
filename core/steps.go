package core

import (
	"fmt"
	"html"

	"github.com/dustin/go-humanize"
	"github.com/huangsam/commitscope/schema"
	"github.com/samber/lo"
)

// Steps returns one narrative step per commit in chronological order.
func (s *State) Steps() []schema.Step {
	steps := make([]schema.Step, len(s.chrono))
	for i, c := range s.chrono {
		steps[i] = schema.Step{
			Index:    i,
			CommitID: c.ID,
			Datetime: c.Datetime,
			Text:     stepText(i, c),
		}
	}
	return steps
}

// stepText renders the prose shown next to the plot for one step. The result
// is an HTML fragment; every value taken from the commit is escaped.
func stepText(i int, c schema.Commit) string {
	files := len(lo.Uniq(lo.Map(c.Lines, func(l schema.LineRecord, _ int) string { return l.File })))

	what := html.EscapeString(fmt.Sprintf("the %s commit", humanize.Ordinal(i+1)))
	if c.URL != "" {
		what = fmt.Sprintf(`<a href="%s" target="_blank">%s</a>`, html.EscapeString(c.URL), what)
	}
	who := "someone"
	if c.Author != "" {
		who = html.EscapeString(schema.AbbreviateName(c.Author))
	}

	return fmt.Sprintf("On %s at %s, %s made %s. It edited %s %s across %s %s.",
		c.Datetime.Format(schema.FullDateFormat),
		c.Datetime.Format(schema.ClockFormat),
		who,
		what,
		humanize.Comma(int64(c.TotalLines)),
		schema.Plural(c.TotalLines, "line", "lines"),
		humanize.Comma(int64(files)),
		schema.Plural(files, "file", "files"),
	)
}
