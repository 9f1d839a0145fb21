package classify

import (
	"fmt"
	"net/http"

	"github.com/dlclark/regexp2"

	"github.com/nao1215/userscan/internal/catalog"
	"github.com/nao1215/userscan/internal/model"
	"github.com/nao1215/userscan/internal/probe"
)

// Classifier decides whether a probe outcome proves, disproves, or merely
// hints at the existence of a profile.
type Classifier struct {
	// Strict disables the Uncertain downgrade for sites whose detection
	// is flagged unreliable in the catalog.
	Strict bool
}

// Classify maps a probe outcome to a verdict for the given site.
//
// The decision order matters: transport errors first, then the status
// codes that are definitive on any site (404/410), then redirect-based
// detection, then the site's declared detection mode. The unreliable
// downgrade runs last so it sees the would-be verdict.
func (c Classifier) Classify(site *catalog.Descriptor, outcome model.ProbeOutcome) model.Verdict {
	if outcome.Err != nil {
		return errorVerdict(outcome.Err)
	}

	if outcome.StatusCode == http.StatusNotFound || outcome.StatusCode == http.StatusGone {
		return c.downgrade(site, model.Verdict{
			Kind:   model.VerdictNotFound,
			Reason: fmt.Sprintf("profile returned HTTP %d", outcome.StatusCode),
		})
	}

	if matches(site.BadRedirectPattern, outcome.FinalURL) {
		return model.Verdict{
			Kind:   model.VerdictUncertain,
			Reason: "redirected away from profile URL",
		}
	}

	var v model.Verdict
	switch site.Mode {
	case catalog.ModeStatusOnly:
		v = classifyStatusOnly(site, outcome)
	case catalog.ModeStatusAndRegex:
		v = classifyStatusAndRegex(site, outcome)
	case catalog.ModeRegexOnly:
		v = classifyRegexOnly(site, outcome)
	default:
		v = model.Verdict{
			Kind:   model.VerdictUncertain,
			Reason: "unknown detection mode",
		}
	}

	return c.downgrade(site, v)
}

// errorVerdict words the Error verdict by failure class.
func errorVerdict(err error) model.Verdict {
	if probe.IsTimeout(err) {
		return model.Verdict{Kind: model.VerdictError, Reason: "request timed out"}
	}
	return model.Verdict{
		Kind:   model.VerdictError,
		Reason: fmt.Sprintf("request failed: %v", err),
	}
}

// classifyStatusOnly trusts the status code alone.
func classifyStatusOnly(site *catalog.Descriptor, outcome model.ProbeOutcome) model.Verdict {
	if site.Success.Contains(outcome.StatusCode) {
		return model.Verdict{
			Kind:   model.VerdictFound,
			Reason: fmt.Sprintf("HTTP %d in success range", outcome.StatusCode),
		}
	}
	return model.Verdict{
		Kind:   model.VerdictNotFound,
		Reason: fmt.Sprintf("HTTP %d outside success range", outcome.StatusCode),
	}
}

// classifyStatusAndRegex requires an in-range status and then consults the
// body patterns. A bare in-range status with no pattern evidence is weak
// proof, so it stays Uncertain.
func classifyStatusAndRegex(site *catalog.Descriptor, outcome model.ProbeOutcome) model.Verdict {
	if !site.Success.Contains(outcome.StatusCode) {
		return model.Verdict{
			Kind:   model.VerdictNotFound,
			Reason: fmt.Sprintf("HTTP %d outside success range", outcome.StatusCode),
		}
	}

	if matches(site.NotFoundPattern, outcome.Body) {
		return model.Verdict{
			Kind:   model.VerdictNotFound,
			Reason: "absence marker present in page",
		}
	}

	if site.MustMatchPattern != nil {
		if matches(site.MustMatchPattern, outcome.Body) {
			return model.Verdict{
				Kind:   model.VerdictFound,
				Reason: "presence marker found in page",
			}
		}
		return model.Verdict{
			Kind:   model.VerdictUncertain,
			Reason: "presence marker missing despite success status",
		}
	}

	if site.NotFoundPattern != nil {
		// The only configured pattern says "missing" and it did not
		// match, which is the site's way of saying the profile exists.
		return model.Verdict{
			Kind:   model.VerdictFound,
			Reason: "absence marker not present",
		}
	}

	return model.Verdict{
		Kind:   model.VerdictUncertain,
		Reason: "success status but no detection patterns configured",
	}
}

// classifyRegexOnly ignores the status code entirely. Some sites answer
// 200 for every path and only the page content tells profiles apart.
func classifyRegexOnly(site *catalog.Descriptor, outcome model.ProbeOutcome) model.Verdict {
	if matches(site.MustMatchPattern, outcome.Body) {
		return model.Verdict{
			Kind:   model.VerdictFound,
			Reason: "presence marker found in page",
		}
	}
	if matches(site.NotFoundPattern, outcome.Body) {
		return model.Verdict{
			Kind:   model.VerdictNotFound,
			Reason: "absence marker present in page",
		}
	}
	if site.MustMatchPattern != nil {
		return model.Verdict{
			Kind:   model.VerdictNotFound,
			Reason: "presence marker not found",
		}
	}
	return model.Verdict{
		Kind:   model.VerdictFound,
		Reason: "absence marker not present",
	}
}

// downgrade applies the unreliable-site policy: definitive verdicts from
// sites with flaky detection become Uncertain unless strict mode is on.
func (c Classifier) downgrade(site *catalog.Descriptor, v model.Verdict) model.Verdict {
	if c.Strict || !site.Unreliable {
		return v
	}
	if v.Kind != model.VerdictFound && v.Kind != model.VerdictNotFound {
		return v
	}
	return model.Verdict{
		Kind:   model.VerdictUncertain,
		Reason: fmt.Sprintf("unreliable detection: %s", v.Reason),
	}
}

// matches runs a regexp2 pattern, treating a nil pattern or an engine
// error (match timeout, mostly) as no match.
func matches(pattern *regexp2.Regexp, s string) bool {
	if pattern == nil || s == "" {
		return false
	}
	ok, err := pattern.MatchString(s)
	return err == nil && ok
}
