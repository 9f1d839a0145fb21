package probe

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/nao1215/userscan/internal/model"
)

// Default client settings. The caller normally overrides these from the
// run configuration; the defaults only matter for tests and ad-hoc use.
const (
	defaultConnLimit    = 50
	defaultTimeout      = 10 * time.Second
	defaultMaxBodyBytes = 512 * 1024
	maxRedirects        = 10
)

// Request describes a single probe.
type Request struct {
	// URL is the fully expanded probe URL.
	URL string

	// Method is the HTTP method (GET, HEAD, or POST).
	Method string

	// Headers are extra headers from the site descriptor.
	Headers map[string]string

	// Timeout overrides the client's per-request timeout when positive.
	Timeout time.Duration

	// NeedBody requests the response body (bounded by the client's body
	// limit). HEAD probes that fall back to GET ignore this for the
	// fallback request, since the fallback exists to reach sites that
	// reject HEAD.
	NeedBody bool
}

// Client issues probe requests through a shared connection pool.
type Client struct {
	httpClient   *http.Client
	pool         *semaphore.Weighted
	userAgent    string
	timeout      time.Duration
	maxBodyBytes int64
	logger       *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTransport sets the HTTP transport (direct, proxied, or Tor).
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.httpClient.Transport = rt
	}
}

// WithConnLimit caps simultaneously open connections across the run.
func WithConnLimit(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.pool = semaphore.NewWeighted(int64(n))
		}
	}
}

// WithUserAgent sets the User-Agent header sent with every probe.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithTimeout sets the default per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithMaxBodyBytes limits how much of a response body is read.
func WithMaxBodyBytes(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBodyBytes = n
		}
	}
}

// WithLogger sets the logger for per-probe debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a probe client.
//
// Design decision: redirects are followed (up to maxRedirects) rather than
// returned to the caller because the classifier needs the final URL to
// detect profile-to-home redirects; intermediate hops carry no signal.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			CheckRedirect: func(_ *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
		pool:         semaphore.NewWeighted(defaultConnLimit),
		userAgent:    "userscan",
		timeout:      defaultTimeout,
		maxBodyBytes: defaultMaxBodyBytes,
		logger:       slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// headFallbackStatuses are responses to a HEAD probe that warrant retrying
// the same URL with GET. Several platforms reject or rate-limit HEAD while
// serving the page normally to GET.
var headFallbackStatuses = map[int]bool{
	http.StatusForbidden:           true,
	http.StatusMethodNotAllowed:    true,
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
}

// Do executes a probe and returns its outcome. Network and protocol
// failures are reported in the outcome's Err field, never as a second
// return value; Elapsed is always populated.
func (c *Client) Do(ctx context.Context, req Request) model.ProbeOutcome {
	start := time.Now()

	if req.URL == "" {
		return model.ProbeOutcome{Err: ErrEmptyURL, Elapsed: time.Since(start)}
	}

	// Wait for a free connection slot. A cancelled run surfaces here as a
	// context error before any network traffic happens.
	if err := c.pool.Acquire(ctx, 1); err != nil {
		return model.ProbeOutcome{Err: err, Elapsed: time.Since(start)}
	}
	defer c.pool.Release(1)

	timeout := c.timeout
	if req.Timeout > 0 {
		timeout = req.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	outcome := c.roundTrip(ctx, req, req.Method)

	// HEAD probes fall back to GET when the site rejects the method.
	// The fallback fetches the body so regex detection still works.
	if req.Method == http.MethodHead && outcome.Err == nil && headFallbackStatuses[outcome.StatusCode] {
		c.logger.DebugContext(ctx, "HEAD rejected, retrying with GET",
			slog.String("url", req.URL),
			slog.Int("status", outcome.StatusCode))
		fallback := req
		fallback.NeedBody = true
		outcome = c.roundTrip(ctx, fallback, http.MethodGet)
	}

	outcome.Elapsed = time.Since(start)
	return outcome
}

// roundTrip performs one HTTP exchange.
func (c *Client) roundTrip(ctx context.Context, req Request, method string) model.ProbeOutcome {
	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, nil)
	if err != nil {
		return model.ProbeOutcome{Err: err}
	}

	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("Accept-Language", "en-US,en;q=0.9")
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return model.ProbeOutcome{Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck // Best effort cleanup

	outcome := model.ProbeOutcome{
		StatusCode: resp.StatusCode,
		FinalURL:   resp.Request.URL.String(),
	}

	if req.NeedBody && method != http.MethodHead {
		// Detection markers sit near the top of the page; truncating at
		// the limit loses nothing but protects against huge responses.
		body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodyBytes))
		if err != nil {
			outcome.Err = err
			return outcome
		}
		outcome.Body = string(body)
	} else {
		// Drain so the connection can be reused by the pool.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4*1024)) //nolint:errcheck // Best effort drain
	}

	return outcome
}

// IsTimeout reports whether an outcome error was a timeout rather than a
// refused or failed connection. The classifier uses this to word the
// Error verdict reason.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
