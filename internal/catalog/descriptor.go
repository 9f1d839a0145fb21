package catalog

import (
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

// Placeholder is the username substitution point in URL templates.
// Each template must contain it exactly once.
const Placeholder = "{}"

// DetectionMode selects how a site's response is interpreted.
type DetectionMode string

const (
	// ModeStatusOnly trusts the HTTP status code alone: a status inside
	// the success range means the account exists.
	ModeStatusOnly DetectionMode = "status_only"

	// ModeStatusAndRegex requires both a success status and a body
	// pattern decision. A success status whose body does not confirm
	// existence yields Uncertain, never Found (the "200 but absent"
	// ambiguity many platforms exhibit).
	ModeStatusAndRegex DetectionMode = "status_and_regex"

	// ModeRegexOnly ignores the status code and decides purely on the
	// body patterns.
	ModeRegexOnly DetectionMode = "regex_only"
)

// needsBody reports whether the mode requires reading the response body.
func (m DetectionMode) needsBody() bool {
	return m == ModeStatusAndRegex || m == ModeRegexOnly
}

// StatusRange is an inclusive HTTP status range treated as success.
type StatusRange struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// Contains reports whether the status code falls inside the range.
func (r StatusRange) Contains(status int) bool {
	return status >= r.Min && status <= r.Max
}

// Descriptor is the immutable definition of how to probe one platform.
// Descriptors are shared read-only across all tasks of a run.
type Descriptor struct {
	// Name uniquely identifies the site within a catalog.
	Name string

	// URLTemplate is the profile URL with a single Placeholder.
	URLTemplate string

	// ProbeURLTemplate optionally overrides the URL actually requested
	// (some sites expose a lighter endpoint than the profile page).
	// Empty means probe URLTemplate itself.
	ProbeURLTemplate string

	// Method is the HTTP method, HEAD by default. HEAD probes fall back
	// to GET when the site rejects HEAD.
	Method string

	// Success is the status range treated as a positive signal.
	Success StatusRange

	// Mode selects the detection rule.
	Mode DetectionMode

	// NotFoundPattern marks absence: a body match means the username
	// does not exist even under a success status.
	NotFoundPattern *regexp2.Regexp

	// MustMatchPattern marks presence: the username exists only when the
	// body matches. A success status without the marker is Uncertain.
	MustMatchPattern *regexp2.Regexp

	// BadRedirectPattern matches final URLs that indicate the site
	// bounced the request into a login or signup wall. Such responses
	// are Uncertain regardless of status.
	BadRedirectPattern *regexp2.Regexp

	// ExtractPattern optionally captures profile text (e.g. a bio) from
	// the body of Found responses. Group 1 is used when present.
	ExtractPattern *regexp2.Regexp

	// AvatarURLTemplate optionally points at the profile image for EXIF
	// enrichment. Empty disables the enrichment pass for this site.
	AvatarURLTemplate string

	// Unreliable flags sites with a history of false signals. In
	// non-strict mode their Found/NotFound verdicts are downgraded to
	// Uncertain.
	Unreliable bool

	// Disabled marks sites excluded from scans unless the caller opts in
	// with include-skipped. Disabled sites still appear in the report as
	// Skipped.
	Disabled bool

	// Headers are extra request headers for this site.
	Headers map[string]string

	// Timeout overrides the per-request timeout for this site.
	// Zero means use the run-wide timeout.
	Timeout time.Duration

	// Invalid holds the validation error for a malformed descriptor.
	// The engine produces a Skipped verdict for such entries without
	// ever dispatching a request.
	Invalid error
}

// ProfileURL returns the profile URL for the given username.
func (d *Descriptor) ProfileURL(username string) string {
	return strings.ReplaceAll(d.URLTemplate, Placeholder, username)
}

// ProbeURL returns the URL to request for the given username.
func (d *Descriptor) ProbeURL(username string) string {
	if d.ProbeURLTemplate != "" {
		return strings.ReplaceAll(d.ProbeURLTemplate, Placeholder, username)
	}
	return d.ProfileURL(username)
}

// AvatarURL returns the avatar URL for the given username, or empty when
// the site declares no avatar template.
func (d *Descriptor) AvatarURL(username string) string {
	if d.AvatarURLTemplate == "" {
		return ""
	}
	return strings.ReplaceAll(d.AvatarURLTemplate, Placeholder, username)
}

// NeedsBody reports whether probing this site must read the response body.
// True when the detection mode inspects the body or when extraction is
// configured.
func (d *Descriptor) NeedsBody() bool {
	return d.Mode.needsBody() || d.ExtractPattern != nil
}

// Catalog is an ordered, validated set of site descriptors. Order is the
// file order and determines task dispatch order.
type Catalog struct {
	Sites []Descriptor
}

// Len returns the number of descriptors, valid or not.
func (c *Catalog) Len() int {
	return len(c.Sites)
}

// ByName returns the descriptor with the given name, or nil.
func (c *Catalog) ByName(name string) *Descriptor {
	for i := range c.Sites {
		if c.Sites[i].Name == name {
			return &c.Sites[i]
		}
	}
	return nil
}

// InvalidSites returns the malformed descriptors in catalog order.
func (c *Catalog) InvalidSites() []Descriptor {
	out := make([]Descriptor, 0)
	for _, d := range c.Sites {
		if d.Invalid != nil {
			out = append(out, d)
		}
	}
	return out
}
