package render

import (
	"embed"
	"html/template"
	"io"
	"sort"

	"github.com/huangsam/commitscope/schema"
)

//go:embed templates/page.html.tmpl
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.html.tmpl"))

// DefaultTitle is the page heading when none is configured.
const DefaultTitle = "Commit history"

// section is one target as the template sees it.
type section struct {
	ID      string
	Content template.HTML
}

type pageData struct {
	Title          string
	Chart          section
	Stats          section
	Files          section
	Tooltip        section
	SelectionCount section
	Languages      section
	Legend         section
	Slider         section
	SliderTime     section
	Scrolly        section
	SliderValue    string
	TooltipHidden  bool
	TooltipStyle   template.CSS
	// Targets lists the ids the page script refreshes after an interaction.
	Targets []string
}

// WritePage writes a standalone HTML page holding every target of doc. The
// document must contain all PageTargets.
func WritePage(w io.Writer, doc *Document, title string) error {
	if title == "" {
		title = DefaultTitle
	}
	data := pageData{Title: title}

	slots := map[string]*section{
		schema.ChartID:             &data.Chart,
		schema.StatsID:             &data.Stats,
		schema.FilesID:             &data.Files,
		schema.TooltipID:           &data.Tooltip,
		schema.SelectionCountID:    &data.SelectionCount,
		schema.LanguageBreakdownID: &data.Languages,
		schema.LegendID:            &data.Legend,
		schema.SliderID:            &data.Slider,
		schema.SliderTimeID:        &data.SliderTime,
		schema.ScrollyID:           &data.Scrolly,
	}
	for id, slot := range slots {
		t, err := doc.Get(id)
		if err != nil {
			return err
		}
		// Content is produced by the views and is already escaped
		*slot = section{ID: t.ID, Content: template.HTML(t.Content)}
		data.Targets = append(data.Targets, t.ID)

		switch id {
		case schema.SliderID:
			data.SliderValue = t.Attrs["value"]
		case schema.TooltipID:
			data.TooltipHidden = t.Attrs["hidden"] != ""
			data.TooltipStyle = template.CSS(t.Attrs["style"])
		}
	}
	sort.Strings(data.Targets)
	return pageTemplate.Execute(w, data)
}
