package proxy

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	xproxy "golang.org/x/net/proxy"
)

// Transport pool settings. Idle connections are kept small because a probe
// run touches hundreds of distinct hosts and rarely revisits any of them.
const (
	maxIdleConns        = 20
	maxIdleConnsPerHost = 2
	idleConnTimeout     = 30 * time.Second
	tlsHandshakeTimeout = 10 * time.Second
)

// NewTransport builds an *http.Transport for probe traffic.
//
// The endpoint selects the route:
//   - ""                      direct connections
//   - socks5://host:port      SOCKS5 proxy (a Tor daemon, typically)
//   - http://host:port        HTTP CONNECT proxy
//   - https://host:port       HTTP CONNECT proxy over TLS
//
// Design decision: We return the concrete *http.Transport rather than an
// http.RoundTripper so the probe client can tune connection limits without
// type assertions.
func NewTransport(endpoint string) (*http.Transport, error) {
	if endpoint == "" {
		return baseTransport(), nil
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidProxyURL, endpoint)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: %s", ErrInvalidProxyURL, endpoint)
	}

	switch u.Scheme {
	case "socks5", "socks5h":
		return socksTransport(u)
	case "http", "https":
		t := baseTransport()
		t.Proxy = http.ProxyURL(u)
		return t, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProxyScheme, u.Scheme)
	}
}

// socksTransport wires a SOCKS5 dialer into the transport.
func socksTransport(u *url.URL) (*http.Transport, error) {
	var auth *xproxy.Auth
	if u.User != nil {
		auth = &xproxy.Auth{User: u.User.Username()}
		if password, ok := u.User.Password(); ok {
			auth.Password = password
		}
	}

	dialer, err := xproxy.SOCKS5("tcp", u.Host, auth, xproxy.Direct)
	if err != nil {
		return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
	}

	t := baseTransport()
	t.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
		return dialContext(ctx, dialer, network, addr)
	}
	return t, nil
}

// dialContext adapts a proxy.Dialer to context cancellation.
//
// Design decision: the proxy.Dialer interface doesn't support context
// directly, so we dial in a goroutine and race it against ctx.Done(). If
// the context wins, the underlying connection attempt may continue briefly
// before being discarded. This is a known limitation of the approach.
func dialContext(ctx context.Context, dialer xproxy.Dialer, network, addr string) (net.Conn, error) {
	if cd, ok := dialer.(xproxy.ContextDialer); ok {
		return cd.DialContext(ctx, network, addr)
	}

	type dialResult struct {
		conn net.Conn
		err  error
	}
	resultCh := make(chan dialResult, 1)

	go func() {
		conn, err := dialer.Dial(network, addr)
		resultCh <- dialResult{conn, err}
	}()

	select {
	case result := <-resultCh:
		return result.conn, result.err
	case <-ctx.Done():
		go func() {
			// Close the connection if the dial eventually completes.
			if result := <-resultCh; result.conn != nil {
				result.conn.Close() //nolint:errcheck,gosec // Best effort cleanup
			}
		}()
		return nil, ctx.Err()
	}
}

// baseTransport returns the shared transport configuration.
//
// Compression stays enabled (unlike a hidden-service scanner, probe
// targets are clearnet sites and pattern matching wants the decoded body),
// and redirects are followed by the client so the classifier can inspect
// the final URL.
func baseTransport() *http.Transport {
	return &http.Transport{
		Proxy: nil,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        maxIdleConns,
		MaxIdleConnsPerHost: maxIdleConnsPerHost,
		IdleConnTimeout:     idleConnTimeout,
		TLSHandshakeTimeout: tlsHandshakeTimeout,
		ForceAttemptHTTP2:   true,
	}
}
