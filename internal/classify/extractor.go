package classify

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/nao1215/userscan/internal/catalog"
	"github.com/nao1215/userscan/internal/model"
)

// maxSnippetRunes bounds the extracted bio snippet. Long bios add noise to
// the report without adding signal.
const maxSnippetRunes = 80

// tagPattern strips HTML tags from extracted snippets. The extraction
// patterns capture fragments of markup (meta descriptions, title text),
// never whole documents, so a proper HTML parser is overkill here.
var tagPattern = regexp.MustCompile(`<[^>]*>`)

// Extract pulls a short profile snippet (a bio line, usually) out of a
// Found probe's body using the site's extraction pattern.
//
// Extraction is best effort: any failure returns ok=false and the verdict
// stands unchanged. A profile is no less found because its bio resisted
// parsing.
func Extract(site *catalog.Descriptor, outcome model.ProbeOutcome) (string, bool) {
	if site.ExtractPattern == nil || outcome.Body == "" {
		return "", false
	}

	m, err := site.ExtractPattern.FindStringMatch(outcome.Body)
	if err != nil || m == nil {
		return "", false
	}

	// Group 1 is the snippet by convention; fall back to the whole match
	// for patterns written without a capture group.
	raw := m.String()
	if len(m.Groups()) > 1 {
		if g := m.GroupByNumber(1); g != nil && g.Length > 0 {
			raw = g.String()
		}
	}

	snippet := cleanSnippet(raw)
	if snippet == "" {
		return "", false
	}
	return snippet, true
}

// Annotate attaches the extracted snippet to a verdict's metadata under
// the "bio" key. Non-Found verdicts pass through untouched.
func Annotate(site *catalog.Descriptor, outcome model.ProbeOutcome, v model.Verdict) model.Verdict {
	if v.Kind != model.VerdictFound {
		return v
	}
	snippet, ok := Extract(site, outcome)
	if !ok {
		return v
	}
	return v.WithMetadata("bio", snippet)
}

// cleanSnippet strips markup, collapses whitespace runs, and truncates to
// maxSnippetRunes.
func cleanSnippet(s string) string {
	s = tagPattern.ReplaceAllString(s, " ")
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= maxSnippetRunes {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:maxSnippetRunes]))
}
