package render

import (
	"bytes"
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/huangsam/commitscope/core"
	"github.com/huangsam/commitscope/core/agg"
	"github.com/huangsam/commitscope/schema"
	"github.com/samber/lo"
)

// Placeholder texts for empty states.
const (
	NoCommitsText   = "No commits in view"
	NoSelectionText = "Select commits on the plot to see their languages"
)

// ChartView drives the scatter plot and writes its SVG into #chart.
type ChartView struct {
	doc  *Document
	plot *Plot
	last Diff
}

// NewChartView binds a plot to a document.
func NewChartView(doc *Document, plot *Plot) *ChartView {
	return &ChartView{doc: doc, plot: plot}
}

// Name implements core.View.
func (v *ChartView) Name() string { return schema.ChartID }

// Update implements core.View.
func (v *ChartView) Update(f core.Frame) error {
	if !v.doc.has(schema.ChartID) {
		return fmt.Errorf("#%s: %w", schema.ChartID, schema.ErrTargetMissing)
	}
	if f.Channel == schema.InitChannel {
		v.last = v.plot.Render(f.Subset, f.Scales)
	} else {
		v.last = v.plot.Update(f.Subset, f.Scales, f.DomainChanged)
	}
	v.plot.SetSelected(lo.Map(f.Selected, func(c schema.Commit, _ int) string { return c.ID }))
	v.plot.SetBrush(f.Brush)

	if f.Hover != nil {
		if _, err := v.plot.Hover(f.Hover.Commit.ID, f.Hover.Pointer, f.Hover.Viewport); err != nil {
			return err
		}
	} else {
		v.plot.Leave("")
	}

	var buf bytes.Buffer
	if err := v.plot.WriteSVG(&buf); err != nil {
		return err
	}
	return v.doc.Set(schema.ChartID, buf.String())
}

// LastDiff returns the diff of the most recent update.
func (v *ChartView) LastDiff() Diff { return v.last }

// panel is a view that renders one target from the projected frame.
type panel struct {
	name   string
	target string
	doc    *Document
	draw   func(f core.Frame, snap schema.ViewSnapshot) (string, error)
}

func (p *panel) Name() string { return p.name }

func (p *panel) Update(f core.Frame) error {
	if !p.doc.has(p.target) {
		return fmt.Errorf("#%s: %w", p.target, schema.ErrTargetMissing)
	}
	content, err := p.draw(f, core.Project(f))
	if err != nil {
		return err
	}
	return p.doc.Set(p.target, content)
}

// NewStatsView renders the summary list of the visible commits.
func NewStatsView(doc *Document) core.View {
	return &panel{name: "stats", target: schema.StatsID, doc: doc, draw: func(_ core.Frame, snap schema.ViewSnapshot) (string, error) {
		return statsHTML(snap.Stats), nil
	}}
}

// NewFilesView renders the per-file line breakdown of the visible commits.
func NewFilesView(doc *Document) core.View {
	return &panel{name: "files", target: schema.FilesID, doc: doc, draw: func(f core.Frame, snap schema.ViewSnapshot) (string, error) {
		return filesHTML(snap.Files, typeColor(f)), nil
	}}
}

// NewLanguageView renders the language breakdown of the brush selection.
func NewLanguageView(doc *Document) core.View {
	return &panel{name: "language-breakdown", target: schema.LanguageBreakdownID, doc: doc, draw: func(f core.Frame, snap schema.ViewSnapshot) (string, error) {
		return languagesHTML(snap.Languages, len(agg.Flatten(f.Selected))), nil
	}}
}

// NewSelectionCountView renders the brush counter.
func NewSelectionCountView(doc *Document) core.View {
	return &panel{name: "selection-count", target: schema.SelectionCountID, doc: doc, draw: func(_ core.Frame, snap schema.ViewSnapshot) (string, error) {
		return html.EscapeString(snap.SelectionCount), nil
	}}
}

// NewLegendView renders the file types present in the visible commits.
func NewLegendView(doc *Document) core.View {
	return &panel{name: "legend", target: schema.LegendID, doc: doc, draw: func(_ core.Frame, snap schema.ViewSnapshot) (string, error) {
		return legendHTML(snap.Legend), nil
	}}
}

// NewSliderView renders the slider value and the threshold readout.
func NewSliderView(doc *Document) core.View {
	return &panel{name: "slider", target: schema.SliderTimeID, doc: doc, draw: func(f core.Frame, snap schema.ViewSnapshot) (string, error) {
		if err := doc.SetAttr(schema.SliderID, "value", num(snap.Progress)); err != nil {
			return "", err
		}
		if snap.SliderReadout == "" {
			return "", nil
		}
		return fmt.Sprintf(`<time datetime="%s">%s</time>`,
			f.MaxVisibleTime.Format(time.RFC3339), html.EscapeString(snap.SliderReadout)), nil
	}}
}

// NewTooltipView renders the hover tooltip.
func NewTooltipView(doc *Document) core.View {
	return &panel{name: "tooltip", target: schema.TooltipID, doc: doc, draw: func(_ core.Frame, snap schema.ViewSnapshot) (string, error) {
		tip := snap.Tooltip
		if !tip.Visible {
			if err := doc.SetAttr(schema.TooltipID, "hidden", "hidden"); err != nil {
				return "", err
			}
			return "", doc.SetAttr(schema.TooltipID, "style", "")
		}
		if err := doc.SetAttr(schema.TooltipID, "hidden", ""); err != nil {
			return "", err
		}
		style := fmt.Sprintf("left: %spx; top: %spx", num(tip.Position.X), num(tip.Position.Y))
		if err := doc.SetAttr(schema.TooltipID, "style", style); err != nil {
			return "", err
		}
		return tooltipHTML(tip), nil
	}}
}

// NewStepsView renders the narrative steps and marks the active one.
func NewStepsView(doc *Document, steps []schema.Step) core.View {
	return &panel{name: "scrolly", target: schema.ScrollyID, doc: doc, draw: func(f core.Frame, _ schema.ViewSnapshot) (string, error) {
		return stepsHTML(steps, f), nil
	}}
}

// Views wires the plot and every panel to one document.
func Views(doc *Document, plot *Plot, steps []schema.Step) []core.View {
	return []core.View{
		NewChartView(doc, plot),
		NewStatsView(doc),
		NewFilesView(doc),
		NewTooltipView(doc),
		NewSelectionCountView(doc),
		NewLanguageView(doc),
		NewLegendView(doc),
		NewSliderView(doc),
		NewStepsView(doc, steps),
	}
}

func (d *Document) has(id string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.targets[id]
	return ok
}

func typeColor(f core.Frame) func(string) string {
	if f.Scales.Color == nil {
		return func(string) string { return "" }
	}
	return f.Scales.Color.TypeColor
}

func placeholder(text string) string {
	return `<p class="empty">` + html.EscapeString(text) + `</p>`
}

func statsHTML(s schema.Stats) string {
	if s.TotalCommits == 0 {
		return placeholder(NoCommitsText)
	}
	var b strings.Builder
	b.WriteString(`<dl class="stats">`)
	row := func(dt, dd string) {
		fmt.Fprintf(&b, "<dt>%s</dt><dd>%s</dd>", dt, html.EscapeString(dd))
	}
	row(`Total <abbr title="Lines of code">LOC</abbr>`, humanize.Comma(int64(s.TotalLOC)))
	row("Total Commits", humanize.Comma(int64(s.TotalCommits)))
	row("Total Files", humanize.Comma(int64(s.TotalFiles)))
	row("Day Most Work is Done", s.MostActiveWeekday)
	row("Avg Line Length", fmt.Sprintf("%.2f", s.AvgLineLength))
	row("Longest Line Length", humanize.Comma(int64(s.LongestLine)))
	b.WriteString(`</dl>`)
	return b.String()
}

func filesHTML(files []schema.FileBreakdown, colorOf func(string) string) string {
	if len(files) == 0 {
		return placeholder(NoCommitsText)
	}
	var b strings.Builder
	b.WriteString(`<dl class="files">`)
	for _, f := range files {
		fmt.Fprintf(&b, `<div><dt><code>%s</code><small>%s lines</small></dt><dd>`,
			html.EscapeString(f.Name), humanize.Comma(int64(f.Lines)))
		types := lo.Keys(f.ByType)
		sort.Strings(types)
		for _, typ := range types {
			for range f.ByType[typ] {
				fmt.Fprintf(&b, `<div class="line" data-type="%s" style="--color: %s"></div>`,
					html.EscapeString(typ), html.EscapeString(colorOf(typ)))
			}
		}
		b.WriteString(`</dd></div>`)
	}
	b.WriteString(`</dl>`)
	return b.String()
}

func languagesHTML(shares []schema.TypeShare, total int) string {
	if len(shares) == 0 || total == 0 {
		return placeholder(NoSelectionText)
	}
	var b strings.Builder
	for _, s := range shares {
		fmt.Fprintf(&b, `<dt>%s</dt><dd>%s lines (%s)</dd>`,
			html.EscapeString(s.Type),
			humanize.Comma(int64(s.Lines)),
			schema.FormatPercent(float64(s.Lines)/float64(total)))
	}
	return b.String()
}

func legendHTML(entries []schema.LegendEntry) string {
	if len(entries) == 0 {
		return placeholder(NoCommitsText)
	}
	var b strings.Builder
	b.WriteString(`<ul class="legend">`)
	for _, e := range entries {
		fmt.Fprintf(&b, `<li style="--color: %s"><span class="swatch"></span>%s <em>(%s)</em></li>`,
			html.EscapeString(e.Color), html.EscapeString(e.Type), humanize.Comma(int64(e.Lines)))
	}
	b.WriteString(`</ul>`)
	return b.String()
}

func tooltipHTML(t schema.Tooltip) string {
	var b strings.Builder
	b.WriteString(`<dl class="info tooltip">`)
	b.WriteString(`<dt>Commit</dt><dd>`)
	if t.URL != "" {
		fmt.Fprintf(&b, `<a id="commit-link" href="%s" target="_blank">%s</a>`, html.EscapeString(t.URL), html.EscapeString(t.CommitID))
	} else {
		fmt.Fprintf(&b, `<span id="commit-link">%s</span>`, html.EscapeString(t.CommitID))
	}
	b.WriteString(`</dd>`)
	fmt.Fprintf(&b, `<dt>Date</dt><dd id="commit-date">%s</dd>`, html.EscapeString(t.Date))
	fmt.Fprintf(&b, `<dt>Time</dt><dd id="commit-clock">%s</dd>`, html.EscapeString(t.Time))
	fmt.Fprintf(&b, `<dt>Author</dt><dd id="commit-author">%s</dd>`, html.EscapeString(t.Author))
	fmt.Fprintf(&b, `<dt>Lines edited</dt><dd id="commit-lines">%s</dd>`, humanize.Comma(int64(t.Lines)))
	b.WriteString(`</dl>`)
	return b.String()
}

func stepsHTML(steps []schema.Step, f core.Frame) string {
	if len(steps) == 0 {
		return placeholder(NoCommitsText)
	}
	var b strings.Builder
	for _, s := range steps {
		class := "step"
		if f.Mode == schema.ThresholdMode && !s.Datetime.After(f.MaxVisibleTime) {
			class += " seen"
		}
		// Step text is an escaped fragment with its own link markup
		fmt.Fprintf(&b, `<div class="%s" data-step="%d" data-commit="%s"><p>%s</p></div>`,
			class, s.Index, html.EscapeString(s.CommitID), s.Text)
	}
	return b.String()
}
