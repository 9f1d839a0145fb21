package model

import "encoding/json"

// VerdictKind classifies the outcome of a single probe.
//
// Design decision: We use iota-based constants rather than string constants
// for efficiency in comparisons and summary counting. The String() method
// provides human-readable output, and MarshalJSON keeps exported reports
// readable for tool integration.
type VerdictKind int

const (
	// VerdictUnknown is the zero value: a task that has no verdict yet.
	// It never appears in a finalized report.
	VerdictUnknown VerdictKind = iota

	// VerdictFound indicates an account with the probed username exists
	// on the site according to the site's detection rule.
	VerdictFound

	// VerdictNotFound indicates the site's detection rule confirmed the
	// username is absent.
	VerdictNotFound

	// VerdictUncertain indicates the response did not permit a confident
	// Found/NotFound call: a 200 without an existence marker, a redirect
	// into a login wall, a rate-limit status, or a site flagged unreliable.
	VerdictUncertain

	// VerdictSkipped indicates no request was ever issued for the task:
	// the site is disabled, the descriptor is malformed, or the run was
	// cancelled before dispatch.
	VerdictSkipped

	// VerdictError indicates a transport failure (DNS, connect, TLS,
	// timeout) prevented classification. Errors are terminal; the engine
	// never retries.
	VerdictError
)

// String returns a human-readable representation of the verdict kind.
func (k VerdictKind) String() string {
	switch k {
	case VerdictFound:
		return "found"
	case VerdictNotFound:
		return "not_found"
	case VerdictUncertain:
		return "uncertain"
	case VerdictSkipped:
		return "skipped"
	case VerdictError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalJSON serializes the kind as its string form.
func (k VerdictKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// Verdict is the classified result of one probe task. Exactly one Verdict
// exists per completed task. A Verdict is created by the classifier and,
// once recorded by the aggregator, is never mutated.
type Verdict struct {
	// Kind is the five-state classification.
	Kind VerdictKind `json:"verdict"`

	// Reason is an optional human-readable explanation, set for
	// Uncertain, Skipped, and Error verdicts (e.g. the transport error
	// text or "site disabled").
	Reason string `json:"reason,omitempty"`

	// Metadata holds optional extracted data attached to Found verdicts,
	// such as a profile bio snippet or avatar EXIF tags. Extraction is
	// best effort; an empty map and a nil map are equivalent.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// WithMetadata returns a copy of the verdict with the given key set.
// The original verdict is not modified.
func (v Verdict) WithMetadata(key, value string) Verdict {
	meta := make(map[string]string, len(v.Metadata)+1)
	for k, val := range v.Metadata {
		meta[k] = val
	}
	meta[key] = value
	v.Metadata = meta
	return v
}
