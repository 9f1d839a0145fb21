package model

import "time"

// ProbeTask identifies one unit of concurrent work: one site probed for one
// candidate username. Tasks are immutable once created.
type ProbeTask struct {
	// SiteName is the catalog name of the site being probed.
	SiteName string `json:"site"`

	// Username is the candidate username for this probe. With variation
	// generation enabled this may differ from the username the user typed.
	Username string `json:"username"`

	// Attempt is the attempt number, starting at 1. The engine never
	// retries, so this is always 1 today; the field exists so a retrying
	// caller can distinguish attempts in its own reports.
	Attempt int `json:"attempt"`
}

// ProbeOutcome is the raw result of executing one ProbeTask against the
// network, before classification.
//
// StatusCode and Err are mutually exclusive: a transport failure leaves
// StatusCode zero, and a completed HTTP exchange leaves Err nil even for
// 4xx/5xx statuses.
type ProbeOutcome struct {
	// StatusCode is the HTTP status code, or 0 when the request never
	// completed (see Err).
	StatusCode int

	// Body is the response body, truncated to the configured limit.
	// Empty when the detection mode did not require reading the body.
	Body string

	// FinalURL is the URL after following redirects. Used for
	// bad-redirect detection (login/join walls).
	FinalURL string

	// Elapsed is the wall time spent on the request, including any
	// HEAD-to-GET fallback.
	Elapsed time.Duration

	// Err is the transport error (DNS, connect, TLS, timeout), if any.
	Err error
}
