package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/nao1215/userscan/internal/model"
)

func sampleReport() *model.RunReport {
	results := []model.TaskVerdict{
		{
			Task:       model.ProbeTask{SiteName: "github", Username: "alice"},
			ProfileURL: "https://github.com/alice",
			Verdict: model.Verdict{
				Kind:     model.VerdictFound,
				Metadata: map[string]string{"bio": "Gopher. Coffee."},
			},
		},
		{
			Task:       model.ProbeTask{SiteName: "x", Username: "alice"},
			ProfileURL: "https://x.com/alice",
			Verdict:    model.Verdict{Kind: model.VerdictNotFound, Reason: "profile returned HTTP 404"},
		},
		{
			Task:       model.ProbeTask{SiteName: "reddit", Username: "alice"},
			ProfileURL: "https://reddit.com/user/alice",
			Verdict:    model.Verdict{Kind: model.VerdictUncertain, Reason: "presence marker missing despite success status"},
		},
		{
			Task:       model.ProbeTask{SiteName: "github", Username: "bob"},
			ProfileURL: "https://github.com/bob",
			Verdict:    model.Verdict{Kind: model.VerdictSkipped, Reason: "site disabled in catalog"},
		},
	}
	return &model.RunReport{
		Results: results,
		Summary: model.NewSummary(results),
		Elapsed: 1234 * time.Millisecond,
	}
}

// TestJSONWriter tests compact and pretty JSON output.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("compact round trip", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		n, err := NewJSONWriter(&buf).Write(sampleReport())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != buf.Len() {
			t.Errorf("byte count = %d, buffer has %d", n, buf.Len())
		}

		var decoded struct {
			Results []json.RawMessage `json:"results"`
			Summary model.Summary     `json:"summary"`
		}
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if len(decoded.Results) != 4 {
			t.Errorf("results = %d, want 4", len(decoded.Results))
		}
		if decoded.Summary.Found != 1 {
			t.Errorf("summary.found = %d, want 1", decoded.Summary.Found)
		}
	})

	t.Run("verdict kinds serialize as strings", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(sampleReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{`"found"`, `"not_found"`, `"uncertain"`, `"skipped"`} {
			if !strings.Contains(buf.String(), want) {
				t.Errorf("output missing %s", want)
			}
		}
	})

	t.Run("pretty print", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).Write(sampleReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "\n  ") {
			t.Error("pretty output must be indented")
		}
	})
}

// TestFullJSONWriter tests the metadata wrapper.
func TestFullJSONWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewFullJSONWriter(&buf, "1.2.3")
	w.now = func() time.Time { return time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC) }

	if _, err := w.Write(sampleReport()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var wrapped JSONReport
	if err := json.Unmarshal(buf.Bytes(), &wrapped); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if wrapped.Version != "1.2.3" {
		t.Errorf("version = %q", wrapped.Version)
	}
	if wrapped.Report == nil || wrapped.Report.Summary.Total != 4 {
		t.Error("wrapped report incomplete")
	}
}

// TestCSVWriter tests the fixed column layout and row content.
func TestCSVWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	n, err := NewCSVWriter(&buf).Write(sampleReport())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != buf.Len() {
		t.Errorf("byte count = %d, buffer has %d", n, buf.Len())
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("rows = %d, want header + 4", len(rows))
	}

	wantHeader := []string{"Username", "Site", "Verdict", "Reason", "URL", "Bio"}
	for i, col := range wantHeader {
		if rows[0][i] != col {
			t.Errorf("header[%d] = %q, want %q", i, rows[0][i], col)
		}
	}

	first := rows[1]
	if first[0] != "alice" || first[1] != "github" || first[2] != "found" || first[5] != "Gopher. Coffee." {
		t.Errorf("first row = %v", first)
	}
}

// TestMarkdownWriter tests the document structure.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("default sections", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(sampleReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out := buf.String()
		for _, want := range []string{
			"# Username Scan Report",
			"## Summary",
			"## Found Profiles",
			"https://github.com/alice",
			"```mermaid",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q", want)
			}
		}
		if strings.Contains(out, "## Uncertain Results") {
			t.Error("uncertain section must be opt-in")
		}
	})

	t.Run("with uncertain section", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf, WithUncertainSection()).Write(sampleReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "## Uncertain Results") {
			t.Error("uncertain section missing")
		}
		if !strings.Contains(buf.String(), "reddit") {
			t.Error("uncertain row missing")
		}
	})

	t.Run("cancelled status", func(t *testing.T) {
		t.Parallel()

		r := sampleReport()
		r.Cancelled = true
		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "Cancelled (partial results)") {
			t.Error("cancelled status missing")
		}
	})
}

// TestConsoleWriter tests the terminal rendering.
func TestConsoleWriter(t *testing.T) {
	color.NoColor = true

	t.Run("found table and summary", func(t *testing.T) {
		var buf bytes.Buffer
		if _, err := NewConsoleWriter(&buf).Write(sampleReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out := buf.String()
		for _, want := range []string{
			"Found profiles:",
			"https://github.com/alice",
			"alice: 1 hit",
			"bob: no hits",
			"1 found, 1 not found, 1 uncertain, 1 skipped, 0 errors",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q", want)
			}
		}
		if strings.Contains(out, "Uncertain results:") {
			t.Error("uncertain table must be opt-in")
		}
	})

	t.Run("uncertain table", func(t *testing.T) {
		var buf bytes.Buffer
		if _, err := NewConsoleWriter(&buf, WithUncertain()).Write(sampleReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "Uncertain results:") {
			t.Error("uncertain table missing")
		}
	})

	t.Run("no profiles", func(t *testing.T) {
		empty := &model.RunReport{Results: nil, Summary: model.Summary{}}
		var buf bytes.Buffer
		if _, err := NewConsoleWriter(&buf).Write(empty); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "No profiles found.") {
			t.Error("empty message missing")
		}
	})
}

// TestMultiWriter tests fan-out to several writers.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	var jsonBuf, csvBuf bytes.Buffer
	mw := NewMultiWriter(NewJSONWriter(&jsonBuf), NewCSVWriter(&csvBuf))

	n, err := mw.Write(sampleReport())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != jsonBuf.Len()+csvBuf.Len() {
		t.Errorf("byte count = %d, want %d", n, jsonBuf.Len()+csvBuf.Len())
	}
	if jsonBuf.Len() == 0 || csvBuf.Len() == 0 {
		t.Error("both writers must receive the report")
	}
}
