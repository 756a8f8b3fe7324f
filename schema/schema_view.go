package schema

import "time"

// Stats is the summary panel projection of a commit subset.
type Stats struct {
	TotalLOC          int     `json:"total_loc"`
	TotalCommits      int     `json:"total_commits"`
	TotalFiles        int     `json:"total_files"`
	MostActiveWeekday string  `json:"most_active_weekday"` // empty when there are no commits
	AvgLineLength     float64 `json:"avg_line_length"`
	LongestLine       int     `json:"longest_line"`
}

// TypeShare is one row of the file-type (language) breakdown.
type TypeShare struct {
	Type    string  `json:"type"`
	Lines   int     `json:"lines"`
	Percent float64 `json:"percent"` // 0..100, rounded to one decimal place
	Color   string  `json:"color"`
}

// FileBreakdown is one bar of the per-file breakdown: total lines and a
// per-type tally for the unit visualization.
type FileBreakdown struct {
	Name   string         `json:"name"`
	Lines  int            `json:"lines"`
	ByType map[string]int `json:"by_type"`
}

// LegendEntry maps a file type to its display colour.
type LegendEntry struct {
	Type  string `json:"type"`
	Color string `json:"color"`
	Lines int    `json:"lines"`
}

// Tooltip is the hover overlay model.
type Tooltip struct {
	Visible  bool   `json:"visible"`
	CommitID string `json:"commit_id,omitempty"`
	URL      string `json:"url,omitempty"`
	Date     string `json:"date,omitempty"`
	Time     string `json:"time,omitempty"`
	Author   string `json:"author,omitempty"`
	Lines    int    `json:"lines,omitempty"`
	Position Point  `json:"position"`
}

// Step is one scroll-driven narrative step, bound to one commit.
type Step struct {
	Index    int       `json:"index"`
	CommitID string    `json:"commit_id"`
	Datetime time.Time `json:"datetime"`
	Text     string    `json:"text"`
}

// ViewSnapshot is the full set of projections for one reconciled state. It is
// what the server returns after every interaction.
type ViewSnapshot struct {
	Mode           FilterMode      `json:"mode"`
	Channel        Channel         `json:"channel"`
	MaxVisibleTime time.Time       `json:"max_visible_time"`
	Progress       float64         `json:"progress"`
	Brush          *Rect           `json:"brush,omitempty"`
	SliderReadout  string          `json:"slider_readout"`
	VisibleIDs     []string        `json:"visible_ids"`
	SelectedIDs    []string        `json:"selected_ids"`
	SelectionCount string          `json:"selection_count"`
	Stats          Stats           `json:"stats"`
	Files          []FileBreakdown `json:"files"`
	Languages      []TypeShare     `json:"languages"`
	Legend         []LegendEntry   `json:"legend"`
	Tooltip        Tooltip         `json:"tooltip"`
}

// CommitRow is the flat per-commit record used by tabular outputs.
type CommitRow struct {
	Index      int       `json:"index"` // chronological position, 0-based
	ID         string    `json:"id"`
	URL        string    `json:"url,omitempty"`
	Author     string    `json:"author"`
	Datetime   time.Time `json:"datetime"`
	HourFrac   float64   `json:"hour_frac"`
	TotalLines int       `json:"total_lines"`
	Files      int       `json:"files"`
	Visible    bool      `json:"visible"`
	Selected   bool      `json:"selected"`
}
