package outwriter

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/commitscope/internal/contract"
	"github.com/huangsam/commitscope/schema"
)

// jsonView is the JSON document of one view: every projection plus the
// commit rows.
type jsonView struct {
	schema.ViewSnapshot
	Commits []jsonCommit `json:"commits"`
}

type jsonCommit struct {
	schema.CommitRow
	TimeOfDay string `json:"time_of_day"`
}

// writeJSONView writes a view in JSON format.
func writeJSONView(w io.Writer, snap schema.ViewSnapshot, rows []schema.CommitRow) error {
	out := jsonView{ViewSnapshot: snap, Commits: make([]jsonCommit, len(rows))}
	for i, r := range rows {
		out.Commits[i] = jsonCommit{CommitRow: r, TimeOfDay: contract.GetPlainLabel(r.HourFrac)}
	}
	return writeJSON(w, out)
}

// writeCSVCommits writes one CSV record per commit.
func writeCSVCommits(w io.Writer, rows []schema.CommitRow, fmtFloat func(float64) string) error {
	header := []string{
		"index",
		"commit",
		"url",
		"author",
		"datetime",
		"hour_frac",
		"time_of_day",
		"lines",
		"files",
		"visible",
		"selected",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range rows {
			rec := []string{
				strconv.Itoa(r.Index),
				r.ID,
				r.URL,
				r.Author,
				r.Datetime.Format(time.RFC3339),
				fmtFloat(r.HourFrac),
				contract.GetPlainLabel(r.HourFrac),
				strconv.Itoa(r.TotalLines),
				strconv.Itoa(r.Files),
				strconv.FormatBool(r.Visible),
				strconv.FormatBool(r.Selected),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
