package report

import (
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/userscan/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter

	// showUncertain adds the uncertain-results section.
	showUncertain bool
}

// MarkdownWriterOption configures a MarkdownWriter.
type MarkdownWriterOption func(*MarkdownWriter)

// WithUncertainSection includes uncertain results in the document.
func WithUncertainSection() MarkdownWriterOption {
	return func(w *MarkdownWriter) {
		w.showUncertain = true
	}
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, opts ...MarkdownWriterOption) *MarkdownWriter {
	w := &MarkdownWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.RunReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeSummary(md, report)
	w.writeFound(md, report)
	if w.showUncertain {
		w.writeUncertain(md, report)
	}

	return len(md.String()), md.Build()
}

// writeHeader writes the scan information table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.RunReport) {
	md.H1("Username Scan Report")
	md.PlainText("")

	usernames := report.Usernames()
	status := "✅ Complete"
	if report.Cancelled {
		status = "⚠️ Cancelled (partial results)"
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Usernames", joinCode(usernames)},
			{"Tasks", strconv.Itoa(report.Summary.Total)},
			{"Elapsed", report.Elapsed.Round(time.Millisecond).String()},
			{"Status", status},
		},
	})
	md.PlainText("")
}

// writeSummary writes the verdict summary table and distribution chart.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.RunReport) {
	md.H2("Summary")
	md.PlainText("")

	s := report.Summary
	md.Table(markdown.TableSet{
		Header: []string{"Verdict", "Count"},
		Rows: [][]string{
			{"🟢 Found", strconv.Itoa(s.Found)},
			{"⚪ Not found", strconv.Itoa(s.NotFound)},
			{"🟡 Uncertain", strconv.Itoa(s.Uncertain)},
			{"⏭️ Skipped", strconv.Itoa(s.Skipped)},
			{"🔴 Errors", strconv.Itoa(s.Errors)},
			{"**Total**", "**" + strconv.Itoa(s.Total) + "**"},
		},
	})
	md.PlainText("")

	if s.Total > 0 {
		w.writePieChart(md, s)
	}

	switch {
	case s.Found > 0:
		md.Notef("%d profile(s) found across %d site checks.", s.Found, s.Total)
	case s.Uncertain > 0:
		md.Importantf("No confirmed profiles, but %d result(s) are uncertain and may warrant manual review.", s.Uncertain)
	default:
		md.Tip("No profiles found for the probed usernames.")
	}
	md.PlainText("")
}

// writePieChart writes a mermaid pie chart of the verdict distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, s model.Summary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Verdict Distribution"),
		piechart.WithShowData(true),
	)

	if s.Found > 0 {
		chart.LabelAndIntValue("Found", uint64(s.Found))
	}
	if s.NotFound > 0 {
		chart.LabelAndIntValue("Not found", uint64(s.NotFound))
	}
	if s.Uncertain > 0 {
		chart.LabelAndIntValue("Uncertain", uint64(s.Uncertain))
	}
	if s.Skipped > 0 {
		chart.LabelAndIntValue("Skipped", uint64(s.Skipped))
	}
	if s.Errors > 0 {
		chart.LabelAndIntValue("Errors", uint64(s.Errors))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeFound writes the found-profiles table.
func (w *MarkdownWriter) writeFound(md *markdown.Markdown, report *model.RunReport) {
	md.H2("Found Profiles")
	md.PlainText("")

	found := report.FoundResults()
	if len(found) == 0 {
		md.PlainText("No profiles found.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(found))
	for i, r := range found {
		rows[i] = []string{
			r.Task.Username,
			r.Task.SiteName,
			r.ProfileURL,
			truncateString(r.Verdict.Metadata["bio"], 60),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Username", "Site", "URL", "Bio"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeUncertain writes the uncertain-results table.
func (w *MarkdownWriter) writeUncertain(md *markdown.Markdown, report *model.RunReport) {
	md.H2("Uncertain Results")
	md.PlainText("")

	uncertain := report.UncertainResults()
	if len(uncertain) == 0 {
		md.PlainText("No uncertain results.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(uncertain))
	for i, r := range uncertain {
		rows[i] = []string{
			r.Task.Username,
			r.Task.SiteName,
			r.ProfileURL,
			truncateString(r.Verdict.Reason, 60),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Username", "Site", "URL", "Reason"},
		Rows:   rows,
	})
	md.PlainText("")
}

// joinCode renders the usernames as inline code, comma separated.
func joinCode(names []string) string {
	out := ""
	for i, name := range names {
		if i > 0 {
			out += ", "
		}
		out += "`" + name + "`"
	}
	return out
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if s == "" {
		return "-"
	}
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
