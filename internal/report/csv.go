package report

import (
	"encoding/csv"
	"io"

	"github.com/nao1215/userscan/internal/model"
)

// csvHeader is the fixed column layout. Columns never reorder so that
// spreadsheets and downstream scripts built on one export keep working.
var csvHeader = []string{"Username", "Site", "Verdict", "Reason", "URL", "Bio"}

// CSVWriter outputs one row per task for spreadsheet analysis.
type CSVWriter struct {
	baseWriter
}

// NewCSVWriter creates a CSVWriter that outputs to the given writer.
func NewCSVWriter(output io.Writer) *CSVWriter {
	return &CSVWriter{baseWriter: newBaseWriter(output)}
}

// countingWriter tracks bytes written through encoding/csv, which does
// not report them itself.
type countingWriter struct {
	w io.Writer
	n int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}

// Write outputs the report in CSV format.
func (w *CSVWriter) Write(report *model.RunReport) (int, error) {
	counter := &countingWriter{w: w.output}
	cw := csv.NewWriter(counter)

	if err := cw.Write(csvHeader); err != nil {
		return counter.n, err
	}
	for _, r := range report.Results {
		row := []string{
			r.Task.Username,
			r.Task.SiteName,
			r.Verdict.Kind.String(),
			r.Verdict.Reason,
			r.ProfileURL,
			r.Verdict.Metadata["bio"],
		}
		if err := cw.Write(row); err != nil {
			return counter.n, err
		}
	}

	cw.Flush()
	return counter.n, cw.Error()
}
