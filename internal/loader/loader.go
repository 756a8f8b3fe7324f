// Package loader reads the per-line change table into line records.
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/commitscope/schema"
)

// Columns lists every column the table must carry. Order in the file is free.
var Columns = []string{
	"commit", "file", "line", "depth", "length", "type",
	"author", "date", "time", "timezone", "datetime",
}

// MaxReportedRows caps how many bad rows a LoadError lists.
const MaxReportedRows = 10

// Row-level causes.
var (
	ErrMissingColumn = errors.New("missing column")
	ErrEmptyValue    = errors.New("empty value")
	ErrFieldCount    = errors.New("wrong number of fields")
)

// datetimeLayouts are tried in order when parsing the datetime column.
var datetimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
	"2006-01-02 15:04:05-07:00",
	"2006-01-02 15:04:05 -0700",
}

// RowError is one rejected row.
type RowError struct {
	Row    int // 1-based line in the source, header is line 1
	Column string
	Err    error
}

func (e RowError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("row %d: %v", e.Row, e.Err)
	}
	return fmt.Sprintf("row %d, column %q: %v", e.Row, e.Column, e.Err)
}

// LoadError collects every rejected row of one load. It is returned once,
// after the whole source has been read.
type LoadError struct {
	Source  string
	Rows    []RowError // at most MaxReportedRows
	Dropped int        // bad rows beyond the reported ones
}

func (e *LoadError) Error() string {
	var b strings.Builder
	total := len(e.Rows) + e.Dropped
	fmt.Fprintf(&b, "%s: %d malformed row(s)", e.Source, total)
	for _, r := range e.Rows {
		b.WriteString("; ")
		b.WriteString(r.Error())
	}
	if e.Dropped > 0 {
		fmt.Fprintf(&b, "; and %d more", e.Dropped)
	}
	return b.String()
}

func (e *LoadError) add(r RowError) {
	if len(e.Rows) < MaxReportedRows {
		e.Rows = append(e.Rows, r)
		return
	}
	e.Dropped++
}

// LoadFile opens path and loads it.
func LoadFile(path string) ([]schema.LineRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open line records: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Load(path, f)
}

// Load parses the table from r. A header with no rows yields zero records and
// no error. Any malformed row fails the whole load with a *LoadError.
func Load(source string, r io.Reader) ([]schema.LineRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &LoadError{Source: source, Rows: []RowError{{Row: 1, Err: fmt.Errorf("no header: %w", ErrMissingColumn)}}}
	}
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", source, err)
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		col = strings.TrimPrefix(col, "\ufeff")
		index[strings.ToLower(strings.TrimSpace(col))] = i
	}
	loadErr := &LoadError{Source: source}
	for _, col := range Columns {
		if _, ok := index[col]; !ok {
			loadErr.add(RowError{Row: 1, Column: col, Err: ErrMissingColumn})
		}
	}
	if len(loadErr.Rows) > 0 {
		return nil, loadErr
	}

	records := make([]schema.LineRecord, 0)
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				loadErr.add(RowError{Row: pe.StartLine, Err: pe.Err})
				continue
			}
			return nil, fmt.Errorf("read %s: %w", source, err)
		}

		line, _ := reader.FieldPos(0)
		if len(row) != len(header) {
			loadErr.add(RowError{Row: line, Err: fmt.Errorf("%w: got %d, want %d", ErrFieldCount, len(row), len(header))})
			continue
		}
		rec, rowErr := parseRow(row, index)
		if rowErr != nil {
			rowErr.Row = line
			loadErr.add(*rowErr)
			continue
		}
		records = append(records, rec)
	}

	if len(loadErr.Rows) > 0 {
		return nil, loadErr
	}
	return records, nil
}

// parseRow types one data row. The returned error has no row number yet.
func parseRow(row []string, index map[string]int) (schema.LineRecord, *RowError) {
	get := func(col string) string { return strings.TrimSpace(row[index[col]]) }

	rec := schema.LineRecord{
		Commit:   get("commit"),
		File:     get("file"),
		Type:     get("type"),
		Author:   get("author"),
		Date:     get("date"),
		Time:     get("time"),
		Timezone: get("timezone"),
	}
	if rec.Commit == "" {
		return rec, &RowError{Column: "commit", Err: ErrEmptyValue}
	}
	if rec.File == "" {
		return rec, &RowError{Column: "file", Err: ErrEmptyValue}
	}

	for _, f := range []struct {
		col string
		dst *int
	}{
		{"line", &rec.Line},
		{"depth", &rec.Depth},
		{"length", &rec.Length},
	} {
		n, err := strconv.Atoi(get(f.col))
		if err != nil {
			return rec, &RowError{Column: f.col, Err: err}
		}
		*f.dst = n
	}

	dt, err := parseDatetime(get("datetime"))
	if err != nil {
		return rec, &RowError{Column: "datetime", Err: err}
	}
	rec.Datetime = dt
	return rec, nil
}

// parseDatetime accepts RFC3339 and the common offset variants.
func parseDatetime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, ErrEmptyValue
	}
	var firstErr error
	for _, layout := range datetimeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}
