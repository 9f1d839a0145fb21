package proxy

import "errors"

// Proxy setup errors.
//
// Design decision: We define specific error types rather than wrapping all
// errors generically. This allows callers to distinguish a bad endpoint
// string (fail fast, fix the flag) from a runtime connectivity problem.
var (
	// ErrInvalidProxyURL is returned when the proxy endpoint cannot be
	// parsed. Expected format is scheme://host:port.
	ErrInvalidProxyURL = errors.New("invalid proxy URL: expected scheme://host:port")

	// ErrUnsupportedProxyScheme is returned when the proxy endpoint uses a
	// scheme other than socks5, http, or https.
	ErrUnsupportedProxyScheme = errors.New("unsupported proxy scheme: use socks5://, http://, or https://")

	// ErrTorNotRunning is returned when an embedded Tor operation is
	// attempted before Start() succeeded.
	ErrTorNotRunning = errors.New("embedded Tor daemon is not running")
)
