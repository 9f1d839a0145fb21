package config

import "errors"

// Configuration validation errors returned by Config.Validate().
//
// Design decision: Package-level sentinel errors let callers use
// errors.Is() for programmatic handling while keeping messages readable.
var (
	// ErrNoUsername is returned when no username is provided.
	ErrNoUsername = errors.New("no username specified: provide one or more usernames as arguments")

	// ErrInvalidConcurrency is returned when the task concurrency limit
	// is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidConnLimit is returned when the connection-pool limit is
	// not positive.
	ErrInvalidConnLimit = errors.New("invalid connection limit: must be positive")

	// ErrInvalidTimeout is returned when the per-request timeout is not
	// positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidDeadline is returned when the run deadline is negative.
	// Use zero for no deadline.
	ErrInvalidDeadline = errors.New("invalid deadline: must be non-negative")

	// ErrInvalidMaxVariants is returned when the variation cap is not
	// positive.
	ErrInvalidMaxVariants = errors.New("invalid max variants: must be positive")

	// ErrInvalidMaxBodyBytes is returned when the body limit is negative.
	ErrInvalidMaxBodyBytes = errors.New("invalid max body size: must be non-negative")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are requested.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrConflictingProxies is returned when both --proxy and --tor are
	// requested. The embedded Tor daemon provides its own proxy.
	ErrConflictingProxies = errors.New("conflicting proxy settings: --proxy and --tor cannot be used together")
)
