package render

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"strconv"

	"github.com/huangsam/commitscope/schema"
)

const clipID = "plot-clip"

// WriteSVG serialises the plot. Every group and mark carries a stable id.
func (p *Plot) WriteSVG(w io.Writer) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	bw := bufio.NewWriter(w)
	l := p.layout
	area := l.UsableArea()
	width := area.X1 - area.X0

	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" style="overflow: visible">`+"\n",
		num(l.Width), num(l.Height))
	fmt.Fprintf(bw, `<defs><clipPath id="%s"><rect x="%s" y="%s" width="%s" height="%s"/></clipPath></defs>`+"\n",
		clipID, num(area.X0), num(area.Y0), num(width), num(area.Y1-area.Y0))

	// Gridlines run across the plot at each hour tick
	fmt.Fprintf(bw, `<g id="%s" class="gridlines" transform="translate(%s,0)">`+"\n", schema.GridlinesID, num(area.X0))
	for _, t := range p.yTicks {
		fmt.Fprintf(bw, `<line x1="0" x2="%s" y1="%s" y2="%s"/>`+"\n", num(width), num(t.Pos), num(t.Pos))
	}
	bw.WriteString("</g>\n")

	fmt.Fprintf(bw, `<g id="%s" class="x-axis" transform="translate(0,%s)">`+"\n", schema.XAxisID, num(area.Y1))
	fmt.Fprintf(bw, `<path class="domain" d="M%s,0H%s"/>`+"\n", num(area.X0), num(area.X1))
	for _, t := range p.xTicks {
		fmt.Fprintf(bw, `<g class="tick" transform="translate(%s,0)"><line y2="6"/><text y="9" dy="0.71em">%s</text></g>`+"\n",
			num(t.Pos), html.EscapeString(t.Label))
	}
	bw.WriteString("</g>\n")

	fmt.Fprintf(bw, `<g id="%s" class="y-axis" transform="translate(%s,0)">`+"\n", schema.YAxisID, num(area.X0))
	fmt.Fprintf(bw, `<path class="domain" d="M0,%sV%s"/>`+"\n", num(area.Y1), num(area.Y0))
	for _, t := range p.yTicks {
		fmt.Fprintf(bw, `<g class="tick" transform="translate(0,%s)"><line x2="-6"/><text x="-9" dy="0.32em">%s</text></g>`+"\n",
			num(t.Pos), html.EscapeString(t.Label))
	}
	bw.WriteString("</g>\n")

	if p.brush != nil {
		b := p.brush
		fmt.Fprintf(bw, `<rect class="selection" x="%s" y="%s" width="%s" height="%s"/>`+"\n",
			num(b.X0), num(b.Y0), num(b.X1-b.X0), num(b.Y1-b.Y0))
	}

	fmt.Fprintf(bw, `<g id="%s" class="dots" clip-path="url(#%s)">`+"\n", schema.DotsID, clipID)
	for _, id := range p.order {
		m := p.marks[id]
		class := ""
		if m.Selected {
			class = ` class="selected"`
		}
		fmt.Fprintf(bw, `<circle id="%s" data-id="%s"%s cx="%s" cy="%s" r="%s" fill="%s" fill-opacity="%s"><title>%s</title></circle>`+"\n",
			html.EscapeString(MarkID(m.ID)),
			html.EscapeString(m.ID),
			class,
			num(m.CX), num(m.CY), num(m.R),
			html.EscapeString(m.Fill),
			num(m.Opacity),
			html.EscapeString(markTitle(m)),
		)
	}
	bw.WriteString("</g>\n</svg>\n")
	return bw.Flush()
}

// MarkID is the element id of a commit's mark.
func MarkID(commitID string) string {
	return "commit-" + commitID
}

func markTitle(m *Mark) string {
	return fmt.Sprintf("%s: %d %s", m.ID, m.Commit.TotalLines, schema.Plural(m.Commit.TotalLines, "line", "lines"))
}

// num formats a coordinate with at most two decimals.
func num(v float64) string {
	return strconv.FormatFloat(schema.RoundTo(v, 2), 'f', -1, 64)
}
