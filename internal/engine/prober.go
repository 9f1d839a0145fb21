package engine

import (
	"context"
	"net/http"

	"github.com/nao1215/userscan/internal/catalog"
	"github.com/nao1215/userscan/internal/model"
	"github.com/nao1215/userscan/internal/probe"
)

// Prober issues the HTTP exchange for one (site, username) pair. The
// engine only needs outcomes; tests substitute a fake to exercise the
// scheduler without a network.
type Prober interface {
	Probe(ctx context.Context, site *catalog.Descriptor, username string) model.ProbeOutcome
}

// HTTPProber adapts a probe.Client to the Prober interface by expanding
// the site descriptor into a concrete request.
type HTTPProber struct {
	client *probe.Client
}

// NewHTTPProber wraps a probe client.
func NewHTTPProber(client *probe.Client) *HTTPProber {
	return &HTTPProber{client: client}
}

// Probe implements Prober.
func (p *HTTPProber) Probe(ctx context.Context, site *catalog.Descriptor, username string) model.ProbeOutcome {
	method := site.Method
	if method == "" {
		method = http.MethodGet
	}
	return p.client.Do(ctx, probe.Request{
		URL:      site.ProbeURL(username),
		Method:   method,
		Headers:  site.Headers,
		Timeout:  site.Timeout,
		NeedBody: site.NeedsBody(),
	})
}
