package report

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/nao1215/userscan/internal/model"
)

// ConsoleWriter renders the human-readable terminal report: a table of
// found profiles, optionally the uncertain ones, and a per-username
// summary.
type ConsoleWriter struct {
	baseWriter

	// showUncertain adds the uncertain-results table.
	showUncertain bool
}

// ConsoleWriterOption configures a ConsoleWriter.
type ConsoleWriterOption func(*ConsoleWriter)

// WithUncertain includes uncertain results in the console output.
func WithUncertain() ConsoleWriterOption {
	return func(w *ConsoleWriter) {
		w.showUncertain = true
	}
}

// NewConsoleWriter creates a ConsoleWriter that outputs to the given writer.
func NewConsoleWriter(output io.Writer, opts ...ConsoleWriterOption) *ConsoleWriter {
	w := &ConsoleWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the report for terminal consumption.
func (w *ConsoleWriter) Write(report *model.RunReport) (int, error) {
	counter := &countingWriter{w: w.output}

	if err := w.writeFound(counter, report); err != nil {
		return counter.n, err
	}
	if w.showUncertain {
		if err := w.writeUncertain(counter, report); err != nil {
			return counter.n, err
		}
	}
	if err := w.writeSummary(counter, report); err != nil {
		return counter.n, err
	}
	return counter.n, nil
}

// writeFound renders the found-profiles table.
func (w *ConsoleWriter) writeFound(out io.Writer, report *model.RunReport) error {
	found := report.FoundResults()
	if len(found) == 0 {
		_, err := fmt.Fprintln(out, color.YellowString("No profiles found."))
		return err
	}

	if _, err := fmt.Fprintln(out, color.GreenString("Found profiles:")); err != nil {
		return err
	}

	table := tablewriter.NewTable(out)
	table.Header("Username", "Site", "URL", "Bio")
	for _, r := range found {
		table.Append(r.Task.Username, r.Task.SiteName, r.ProfileURL, r.Verdict.Metadata["bio"])
	}
	return table.Render()
}

// writeUncertain renders the uncertain-results table.
func (w *ConsoleWriter) writeUncertain(out io.Writer, report *model.RunReport) error {
	uncertain := report.UncertainResults()
	if len(uncertain) == 0 {
		return nil
	}

	if _, err := fmt.Fprintln(out, color.YellowString("\nUncertain results:")); err != nil {
		return err
	}

	table := tablewriter.NewTable(out)
	table.Header("Username", "Site", "URL", "Reason")
	for _, r := range uncertain {
		table.Append(r.Task.Username, r.Task.SiteName, r.ProfileURL, r.Verdict.Reason)
	}
	return table.Render()
}

// writeSummary renders per-username hit counts and the run totals.
func (w *ConsoleWriter) writeSummary(out io.Writer, report *model.RunReport) error {
	if _, err := fmt.Fprintln(out); err != nil {
		return err
	}

	for _, username := range report.Usernames() {
		hits := report.HitsFor(username)
		line := fmt.Sprintf("%s: %s", color.CyanString(username), hitText(hits))
		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
	}

	s := report.Summary
	status := ""
	if report.Cancelled {
		status = color.YellowString(" (cancelled, partial results)")
	}
	_, err := fmt.Fprintf(out, "\n%d found, %d not found, %d uncertain, %d skipped, %d errors in %s%s\n",
		s.Found, s.NotFound, s.Uncertain, s.Skipped, s.Errors,
		report.Elapsed.Round(time.Millisecond), status)
	return err
}

func hitText(hits int) string {
	if hits == 0 {
		return "no hits"
	}
	if hits == 1 {
		return color.GreenString("1 hit")
	}
	return color.GreenString("%d hits", hits)
}
