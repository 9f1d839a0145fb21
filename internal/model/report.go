package model

import "time"

// TaskVerdict pairs a probe task with its final verdict and the resolved
// profile URL. It is the unit the aggregator records and the report
// writers consume.
type TaskVerdict struct {
	// Task identifies the probed (site, username) pair.
	Task ProbeTask `json:"task"`

	// ProfileURL is the site's profile URL with the username substituted.
	// Present even for NotFound/Skipped so exports stay self-describing.
	ProfileURL string `json:"url"`

	// Verdict is the classified outcome.
	Verdict Verdict `json:"result"`
}

// Summary holds per-kind verdict counts for a completed run.
type Summary struct {
	Found     int `json:"found"`
	NotFound  int `json:"not_found"`
	Uncertain int `json:"uncertain"`
	Skipped   int `json:"skipped"`
	Errors    int `json:"errors"`
	Total     int `json:"total"`
}

// Count returns the count for the given verdict kind.
func (s Summary) Count(kind VerdictKind) int {
	switch kind {
	case VerdictFound:
		return s.Found
	case VerdictNotFound:
		return s.NotFound
	case VerdictUncertain:
		return s.Uncertain
	case VerdictSkipped:
		return s.Skipped
	case VerdictError:
		return s.Errors
	default:
		return 0
	}
}

// RunReport is the final, ordered result set of a scan run.
//
// Results are ordered by task enumeration order (username-major, catalog
// order within each username), never by completion order, so reports are
// reproducible regardless of scheduling.
type RunReport struct {
	// Results holds one entry per enumerated task.
	Results []TaskVerdict `json:"results"`

	// Summary holds the per-kind counts, computed in a single pass when
	// the report is finalized.
	Summary Summary `json:"summary"`

	// Elapsed is the wall time of the whole run.
	Elapsed time.Duration `json:"elapsed_ns"`

	// Cancelled is true when the run deadline expired or the run was
	// aborted before all tasks were dispatched. The report still contains
	// one verdict per task (undispatched tasks are Skipped).
	Cancelled bool `json:"cancelled,omitempty"`
}

// NewSummary computes per-kind counts over the given results.
func NewSummary(results []TaskVerdict) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		switch r.Verdict.Kind {
		case VerdictFound:
			s.Found++
		case VerdictNotFound:
			s.NotFound++
		case VerdictUncertain:
			s.Uncertain++
		case VerdictSkipped:
			s.Skipped++
		case VerdictError:
			s.Errors++
		}
	}
	return s
}

// FoundResults returns the Found entries, preserving report order.
func (r *RunReport) FoundResults() []TaskVerdict {
	return r.filter(VerdictFound)
}

// UncertainResults returns the Uncertain entries, preserving report order.
func (r *RunReport) UncertainResults() []TaskVerdict {
	return r.filter(VerdictUncertain)
}

func (r *RunReport) filter(kind VerdictKind) []TaskVerdict {
	out := make([]TaskVerdict, 0)
	for _, res := range r.Results {
		if res.Verdict.Kind == kind {
			out = append(out, res)
		}
	}
	return out
}

// Usernames returns the distinct usernames in report order.
func (r *RunReport) Usernames() []string {
	seen := make(map[string]bool)
	names := make([]string, 0)
	for _, res := range r.Results {
		if !seen[res.Task.Username] {
			seen[res.Task.Username] = true
			names = append(names, res.Task.Username)
		}
	}
	return names
}

// HitsFor returns the number of Found verdicts for the given username.
func (r *RunReport) HitsFor(username string) int {
	hits := 0
	for _, res := range r.Results {
		if res.Task.Username == username && res.Verdict.Kind == VerdictFound {
			hits++
		}
	}
	return hits
}
