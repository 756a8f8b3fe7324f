// Package parquet exports commits and their line records to Parquet files
// using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/commitscope/schema"
	"github.com/parquet-go/parquet-go"
)

// CommitRecord is one commit of a reconciled view.
type CommitRecord struct {
	// Index is the chronological position of the commit
	Index int32 `parquet:"index,snappy"`

	CommitID string `parquet:"commit_id,snappy"`

	// URL is empty unless a commit URL prefix was configured
	URL *string `parquet:"url,optional,snappy"`

	Author string `parquet:"author,snappy"`

	// Datetime is stored as TIMESTAMP with nanosecond precision
	Datetime time.Time `parquet:"datetime,snappy"`

	HourFrac   float64 `parquet:"hour_frac,snappy"`
	TotalLines int32   `parquet:"total_lines,snappy"`
	Files      int32   `parquet:"files,snappy"`

	// Visible and Selected mirror the view at export time
	Visible  bool `parquet:"visible,snappy"`
	Selected bool `parquet:"selected,snappy"`
}

// LineRecord is one changed line, flattened from its commit.
type LineRecord struct {
	CommitID string    `parquet:"commit_id,snappy"`
	File     string    `parquet:"file,snappy"`
	Line     int32     `parquet:"line,snappy"`
	Length   int32     `parquet:"length,snappy"`
	Depth    int32     `parquet:"depth,snappy"`
	Type     string    `parquet:"type,snappy"`
	Author   string    `parquet:"author,snappy"`
	Datetime time.Time `parquet:"datetime,snappy"`
}

// WriteCommitsParquet writes commit records to a Parquet file.
func WriteCommitsParquet(data []CommitRecord, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteLinesParquet writes line records to a Parquet file.
func WriteLinesParquet(data []LineRecord, outputPath string) error {
	return writeParquet(data, outputPath)
}

func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Schema is derived from the struct tags
	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finish parquet file: %w", err)
	}
	return file.Close()
}

// ConvertCommitRows converts view rows to CommitRecord for Parquet export.
func ConvertCommitRows(rows []schema.CommitRow) []CommitRecord {
	result := make([]CommitRecord, len(rows))
	for i, r := range rows {
		var url *string
		if r.URL != "" {
			u := r.URL
			url = &u
		}
		result[i] = CommitRecord{
			Index:      int32(r.Index),
			CommitID:   r.ID,
			URL:        url,
			Author:     r.Author,
			Datetime:   r.Datetime,
			HourFrac:   r.HourFrac,
			TotalLines: int32(r.TotalLines),
			Files:      int32(r.Files),
			Visible:    r.Visible,
			Selected:   r.Selected,
		}
	}
	return result
}

// ConvertLineRecords converts every line of the given commits to LineRecord.
func ConvertLineRecords(commits []schema.Commit) []LineRecord {
	var result []LineRecord
	for _, c := range commits {
		for _, l := range c.Lines {
			result = append(result, LineRecord{
				CommitID: l.Commit,
				File:     l.File,
				Line:     int32(l.Line),
				Length:   int32(l.Length),
				Depth:    int32(l.Depth),
				Type:     l.Type,
				Author:   l.Author,
				Datetime: l.Datetime,
			})
		}
	}
	return result
}
