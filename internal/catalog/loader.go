package catalog

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
	"gopkg.in/yaml.v3"
)

// fileEntry is the on-disk form of one site descriptor. The same struct
// is decoded from JSON and YAML catalogs.
type fileEntry struct {
	Name             string            `json:"name" yaml:"name"`
	URL              string            `json:"url" yaml:"url"`
	ProbeURL         string            `json:"probe_url,omitempty" yaml:"probe_url,omitempty"`
	Method           string            `json:"method,omitempty" yaml:"method,omitempty"`
	Mode             string            `json:"mode,omitempty" yaml:"mode,omitempty"`
	Success          *StatusRange      `json:"success,omitempty" yaml:"success,omitempty"`
	NotFoundRegex    string            `json:"not_found_regex,omitempty" yaml:"not_found_regex,omitempty"`
	MustContainRegex string            `json:"must_contain_regex,omitempty" yaml:"must_contain_regex,omitempty"`
	BadRedirectRegex string            `json:"bad_redirect_regex,omitempty" yaml:"bad_redirect_regex,omitempty"`
	ExtractRegex     string            `json:"extract_regex,omitempty" yaml:"extract_regex,omitempty"`
	AvatarURL        string            `json:"avatar_url,omitempty" yaml:"avatar_url,omitempty"`
	Unreliable       bool              `json:"unreliable,omitempty" yaml:"unreliable,omitempty"`
	Skip             bool              `json:"skip,omitempty" yaml:"skip,omitempty"`
	Headers          map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Timeout          string            `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// catalogFile is the root of a catalog document.
type catalogFile struct {
	Sites []fileEntry `json:"sites" yaml:"sites"`
}

// Load reads a catalog from path. The format is chosen by extension:
// .json for JSON, .yaml/.yml for YAML.
//
// Load fails only for conditions that prevent any task construction
// (unreadable file, syntax error, empty catalog, duplicate names).
// Per-descriptor defects (missing placeholder, uncompilable pattern) are
// recorded on the descriptor via Invalid so the engine can report them as
// Skipped instead of aborting the run.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided catalog path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	var cf catalogFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &cf); err != nil {
			return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cf); err != nil {
			return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	if len(cf.Sites) == 0 {
		return nil, ErrEmptyCatalog
	}

	seen := make(map[string]bool, len(cf.Sites))
	sites := make([]Descriptor, 0, len(cf.Sites))
	for i, entry := range cf.Sites {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			name = fmt.Sprintf("site[%d]", i)
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSite, name)
		}
		seen[name] = true

		sites = append(sites, buildDescriptor(name, entry))
	}

	return &Catalog{Sites: sites}, nil
}

// buildDescriptor validates one entry and compiles its patterns.
// Validation failures are attached to the descriptor, not returned.
func buildDescriptor(name string, entry fileEntry) Descriptor {
	d := Descriptor{
		Name:              name,
		URLTemplate:       entry.URL,
		ProbeURLTemplate:  entry.ProbeURL,
		AvatarURLTemplate: entry.AvatarURL,
		Unreliable:        entry.Unreliable,
		Disabled:          entry.Skip,
		Headers:           entry.Headers,
		Success:           StatusRange{Min: http.StatusOK, Max: 299},
	}
	if entry.Success != nil {
		d.Success = *entry.Success
	}

	if fail := validateEntry(&d, entry); fail != nil {
		d.Invalid = fail
		return d
	}

	return d
}

// validateEntry fills in the derived fields of d from entry and returns
// the first validation error found.
func validateEntry(d *Descriptor, entry fileEntry) error {
	if entry.URL == "" {
		return fmt.Errorf("site %s: missing url", d.Name)
	}
	if n := strings.Count(entry.URL, Placeholder); n != 1 {
		return fmt.Errorf("site %s: url must contain %q exactly once, found %d", d.Name, Placeholder, n)
	}
	if entry.ProbeURL != "" {
		if n := strings.Count(entry.ProbeURL, Placeholder); n != 1 {
			return fmt.Errorf("site %s: probe_url must contain %q exactly once, found %d", d.Name, Placeholder, n)
		}
	}
	if d.Success.Min < 100 || d.Success.Max > 599 || d.Success.Min > d.Success.Max {
		return fmt.Errorf("site %s: invalid success range %d-%d", d.Name, d.Success.Min, d.Success.Max)
	}

	var err error
	if d.NotFoundPattern, err = compilePattern(entry.NotFoundRegex); err != nil {
		return fmt.Errorf("site %s: invalid not_found_regex: %w", d.Name, err)
	}
	if d.MustMatchPattern, err = compilePattern(entry.MustContainRegex); err != nil {
		return fmt.Errorf("site %s: invalid must_contain_regex: %w", d.Name, err)
	}
	if d.BadRedirectPattern, err = compilePattern(entry.BadRedirectRegex); err != nil {
		return fmt.Errorf("site %s: invalid bad_redirect_regex: %w", d.Name, err)
	}
	if d.ExtractPattern, err = compilePattern(entry.ExtractRegex); err != nil {
		return fmt.Errorf("site %s: invalid extract_regex: %w", d.Name, err)
	}

	d.Mode, err = resolveMode(entry.Mode, d)
	if err != nil {
		return fmt.Errorf("site %s: %w", d.Name, err)
	}

	d.Method, err = resolveMethod(entry.Method, d)
	if err != nil {
		return fmt.Errorf("site %s: %w", d.Name, err)
	}

	if entry.Timeout != "" {
		d.Timeout, err = time.ParseDuration(entry.Timeout)
		if err != nil || d.Timeout <= 0 {
			return fmt.Errorf("site %s: invalid timeout %q", d.Name, entry.Timeout)
		}
	}

	return nil
}

// compilePattern compiles a catalog pattern, or returns (nil, nil) when
// empty. Catalogs routinely use lookarounds (the Sherlock data set does),
// so patterns are compiled with regexp2 rather than the stdlib engine.
// Matching is case-insensitive, as in the original catalogs.
func compilePattern(expr string) (*regexp2.Regexp, error) {
	if expr == "" {
		return nil, nil
	}
	return regexp2.Compile(expr, regexp2.IgnoreCase)
}

// resolveMode maps the file mode string onto a DetectionMode. An omitted
// mode is inferred: entries with body patterns get status_and_regex,
// entries without get status_only.
func resolveMode(mode string, d *Descriptor) (DetectionMode, error) {
	hasPattern := d.NotFoundPattern != nil || d.MustMatchPattern != nil

	switch DetectionMode(mode) {
	case "":
		if hasPattern {
			return ModeStatusAndRegex, nil
		}
		return ModeStatusOnly, nil
	case ModeStatusOnly:
		return ModeStatusOnly, nil
	case ModeStatusAndRegex, ModeRegexOnly:
		if !hasPattern {
			return "", fmt.Errorf("mode %s requires not_found_regex or must_contain_regex", mode)
		}
		return DetectionMode(mode), nil
	default:
		return "", fmt.Errorf("unknown mode %q", mode)
	}
}

// resolveMethod normalizes the HTTP method. Sites whose detection needs
// the response body default to GET; the rest default to HEAD (with the
// probe's automatic GET fallback for sites that reject HEAD).
func resolveMethod(method string, d *Descriptor) (string, error) {
	switch strings.ToUpper(method) {
	case "":
		if d.NeedsBody() {
			return http.MethodGet, nil
		}
		return http.MethodHead, nil
	case http.MethodGet:
		return http.MethodGet, nil
	case http.MethodHead:
		if d.NeedsBody() {
			// HEAD can never satisfy a body-based rule.
			return "", fmt.Errorf("method HEAD conflicts with mode %s", d.Mode)
		}
		return http.MethodHead, nil
	case http.MethodPost:
		return http.MethodPost, nil
	default:
		return "", fmt.Errorf("unsupported method %q", method)
	}
}
