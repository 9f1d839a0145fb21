package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values. Network defaults mirror the behavior the
// tool inherited from interactive use against mainstream platforms:
// generous enough for slow sites, bounded enough that a full catalog run
// finishes in seconds.
const (
	// DefaultConcurrency is the maximum number of probe tasks in flight.
	// 25 parallel probes keeps a few hundred sites fast without looking
	// like a flood to any single platform (each probe targets a
	// different host).
	DefaultConcurrency = 25

	// DefaultConnLimit caps simultaneously open HTTP connections across
	// the whole run. It is a resource ceiling independent of the task
	// concurrency limit; when concurrency is raised above it, excess
	// tasks queue for a free connection instead of failing.
	DefaultConnLimit = 50

	// DefaultTimeout bounds a single probe request. Profile pages of
	// large platforms answer well under a second; 10 seconds tolerates
	// slow mirrors and proxied (Tor) routes.
	DefaultTimeout = 10 * time.Second

	// DefaultMaxVariants caps generated username variations per run.
	DefaultMaxVariants = 12

	// DefaultMaxBodyBytes limits how much of a response body is read for
	// pattern matching. Detection markers sit in the first fragment of
	// the page; 512KB is ample while preventing memory exhaustion from
	// unexpectedly large responses.
	DefaultMaxBodyBytes = 512 * 1024

	// DefaultUserAgent is sent with every probe. Several platforms serve
	// bot-specific pages (or block outright) for non-browser agents,
	// which would skew detection.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

	// DefaultGracePeriod is how long in-flight probes may keep running
	// after the run deadline expires before their requests are aborted.
	DefaultGracePeriod = 5 * time.Second

	// DefaultTorStartupTimeout is the maximum time to wait for the
	// embedded Tor daemon to bootstrap when --tor is used.
	DefaultTorStartupTimeout = 3 * time.Minute

	// AppName is the application name used for XDG directory paths.
	AppName = "userscan"
)

// Config holds all options for a scan run.
//
// Design decision: We use a single flat struct instead of nested structs
// for simplicity. The number of options is manageable, and nesting would
// add complexity without significant benefit.
type Config struct {
	// Usernames are the base usernames to probe. At least one required.
	Usernames []string

	// CatalogPath is the site catalog file. Empty means search the
	// default locations (see FindCatalog).
	CatalogPath string

	// Concurrency is the maximum number of tasks in flight (C).
	Concurrency int

	// ConnLimit is the shared connection-pool ceiling (P).
	ConnLimit int

	// Timeout bounds each probe request. Per-site catalog overrides win.
	Timeout time.Duration

	// Deadline optionally bounds the whole run. Zero means no deadline.
	// On expiry, undispatched tasks are recorded as Skipped and in-flight
	// requests get GracePeriod to finish.
	Deadline time.Duration

	// GracePeriod is how long in-flight probes may run past the deadline.
	GracePeriod time.Duration

	// Proxy is an optional proxy endpoint for all probes
	// (socks5://host:port or http://host:port). Ignored when UseTor is set.
	Proxy string

	// UseTor routes probes through an embedded Tor daemon.
	UseTor bool

	// TorStartupTimeout bounds embedded Tor bootstrap.
	TorStartupTimeout time.Duration

	// Strict disables the Uncertain downgrade for sites flagged
	// unreliable in the catalog.
	Strict bool

	// IncludeSkipped probes sites marked skip:true in the catalog
	// instead of reporting them as Skipped.
	IncludeSkipped bool

	// ShowUncertain prints the uncertain table in the console report.
	ShowUncertain bool

	// Variants enables username variation generation.
	Variants bool

	// MaxVariants caps the number of generated variations.
	MaxVariants int

	// ExtractEXIF enables the avatar EXIF enrichment pass for sites that
	// declare an avatar URL.
	ExtractEXIF bool

	// JSONReport, MarkdownReport select the stdout report format.
	// Mutually exclusive; default is the human-readable console report.
	JSONReport     bool
	MarkdownReport bool

	// OutputFile additionally writes the report to a file. The format
	// follows the extension: .json or .csv.
	OutputFile string

	// UserAgent is sent with every probe request.
	UserAgent string

	// MaxBodyBytes limits response body reads.
	MaxBodyBytes int64

	// Verbose enables slog.LevelDebug output.
	Verbose bool
}

// NewConfig creates a Config with default values.
//
// Design decision: We use a constructor instead of relying on zero values
// because most defaults are non-zero. This also documents the defaults.
func NewConfig() *Config {
	return &Config{
		Concurrency:       DefaultConcurrency,
		ConnLimit:         DefaultConnLimit,
		Timeout:           DefaultTimeout,
		GracePeriod:       DefaultGracePeriod,
		MaxVariants:       DefaultMaxVariants,
		MaxBodyBytes:      DefaultMaxBodyBytes,
		UserAgent:         DefaultUserAgent,
		TorStartupTimeout: DefaultTorStartupTimeout,
	}
}

// Validate checks the configuration and returns a specific error for the
// first problem found. Fixing one error often makes others irrelevant, so
// we do not collect them.
func (c *Config) Validate() error {
	if len(c.Usernames) == 0 {
		return ErrNoUsername
	}
	for _, u := range c.Usernames {
		if u == "" {
			return ErrNoUsername
		}
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.ConnLimit <= 0 {
		return ErrInvalidConnLimit
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.Deadline < 0 {
		return ErrInvalidDeadline
	}
	if c.MaxVariants <= 0 {
		return ErrInvalidMaxVariants
	}
	if c.MaxBodyBytes < 0 {
		return ErrInvalidMaxBodyBytes
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	if c.UseTor && c.Proxy != "" {
		return ErrConflictingProxies
	}
	return nil
}

// CatalogFileNames are the default catalog file names, in search order.
var CatalogFileNames = []string{"sites.yaml", "sites.yml", "sites.json"}

// FindCatalog locates the catalog file. Search order:
//  1. the explicit path, when set
//  2. sites.yaml / sites.yml / sites.json in the current directory
//  3. the same names under the XDG config directory
//
// Returns an empty string when nothing is found.
func FindCatalog(explicit string) string {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit
		}
		return ""
	}

	for _, name := range CatalogFileNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}

	for _, name := range CatalogFileNames {
		candidate := filepath.Join(XDGConfigDir(), name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return ""
}

// XDGConfigDir returns the XDG config directory for userscan.
// On Linux: ~/.config/userscan
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGDataDir returns the XDG data directory for userscan.
// On Linux: ~/.local/share/userscan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}
