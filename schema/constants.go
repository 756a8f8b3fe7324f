package schema

import "time"

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// FilterMode is the interaction channel that currently governs the visible subset.
	FilterMode string

	// DatabaseBackend represents the database backend for the snapshot cache.
	DatabaseBackend string

	// Channel names the interaction that triggered a reconciliation.
	Channel string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
	HTMLOut    OutputMode = "html"
)

// Filter modes. Exactly one is active at a time.
const (
	ThresholdMode FilterMode = "threshold" // default
	BrushMode     FilterMode = "brush"
)

// Interaction channels.
const (
	InitChannel   Channel = "init"
	SliderChannel Channel = "slider"
	ScrollChannel Channel = "scroll"
	BrushChannel  Channel = "brush"
	HoverChannel  Channel = "hover"
)

// All cache backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Plot and scale constants.
const (
	DefaultPlotWidth  = 1000
	DefaultPlotHeight = 600

	MinRadius = 2.0  // smallest mark radius in pixels
	MaxRadius = 30.0 // largest mark radius in pixels

	HoursPerDay = 24.0

	MarkOpacity      = 0.7 // resting mark opacity
	MarkHoverOpacity = 1.0 // opacity of the hovered mark

	ProgressMin = 0.0
	ProgressMax = 100.0

	// DegenerateDomainPad widens a time domain whose endpoints coincide.
	DegenerateDomainPad = 30 * time.Minute

	TooltipOffset  = 10.0 // distance from pointer to tooltip corner
	TooltipPadding = 5.0  // minimum gap between tooltip and viewport edge
	TooltipWidth   = 260.0
	TooltipHeight  = 120.0
)

// Stable element identifiers of the page. Tests and clients address views by these.
const (
	ChartID             = "chart"
	DotsID              = "dots"
	XAxisID             = "x-axis"
	YAxisID             = "y-axis"
	GridlinesID         = "gridlines"
	StatsID             = "stats"
	FilesID             = "files"
	TooltipID           = "commit-tooltip"
	SelectionCountID    = "selection-count"
	LanguageBreakdownID = "language-breakdown"
	LegendID            = "legend"
	SliderID            = "commit-progress"
	SliderTimeID        = "commit-time"
	ScrollyID           = "scrolly"
)

// Weekdays lists day names in Sunday-first order, matching time.Weekday.
var Weekdays = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
	HTMLOut:    {},
}

// ValidDatabaseBackends lists all valid cache backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
