package engine

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/userscan/internal/catalog"
	"github.com/nao1215/userscan/internal/classify"
	"github.com/nao1215/userscan/internal/model"
)

// Default scheduling limits, overridable per run.
const (
	defaultConcurrency = 25
	defaultGracePeriod = 5 * time.Second
)

// Engine runs one scan: every username against every catalog site.
type Engine struct {
	catalog        *catalog.Catalog
	usernames      []string
	prober         Prober
	classifier     classify.Classifier
	concurrency    int
	includeSkipped bool
	deadline       time.Duration
	gracePeriod    time.Duration
	onVerdict      func(model.TaskVerdict)
	logger         *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithConcurrency caps tasks in flight.
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// WithClassifier replaces the default (non-strict) classifier.
func WithClassifier(c classify.Classifier) Option {
	return func(e *Engine) {
		e.classifier = c
	}
}

// WithIncludeSkipped probes sites marked skip in the catalog instead of
// reporting them as Skipped.
func WithIncludeSkipped(include bool) Option {
	return func(e *Engine) {
		e.includeSkipped = include
	}
}

// WithDeadline bounds the whole run. Zero means no deadline.
func WithDeadline(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.deadline = d
		}
	}
}

// WithGracePeriod sets how long in-flight probes may keep running after
// the run is cancelled before their requests are aborted.
func WithGracePeriod(d time.Duration) Option {
	return func(e *Engine) {
		if d >= 0 {
			e.gracePeriod = d
		}
	}
}

// WithOnVerdict registers a callback invoked once per completed task, in
// completion order. Used for progress output; the callback must be fast
// and must not retain the verdict's maps.
func WithOnVerdict(fn func(model.TaskVerdict)) Option {
	return func(e *Engine) {
		e.onVerdict = fn
	}
}

// WithLogger sets the scheduler's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates an Engine for the given catalog and usernames.
func New(cat *catalog.Catalog, usernames []string, prober Prober, opts ...Option) *Engine {
	e := &Engine{
		catalog:     cat,
		usernames:   usernames,
		prober:      prober,
		concurrency: defaultConcurrency,
		gracePeriod: defaultGracePeriod,
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// taskRef binds an enumerated task to its report slot.
type taskRef struct {
	slot       int
	site       *catalog.Descriptor
	task       model.ProbeTask
	profileURL string
}

// Run executes the scan and returns the report. The report is returned
// even when the context is cancelled mid-run; whatever completed is in it
// and everything else is marked Skipped.
func (e *Engine) Run(ctx context.Context) (*model.RunReport, error) {
	if e.catalog == nil || e.catalog.Len() == 0 {
		return nil, ErrNoSites
	}
	if len(e.usernames) == 0 {
		return nil, ErrNoUsernames
	}

	start := time.Now()

	seeded, pending := e.enumerate()
	agg := newAggregator(seeded)

	// Pre-dispatch verdicts: disabled and malformed sites never reach
	// the prober.
	dispatchable := make([]taskRef, 0, len(pending))
	for _, ref := range pending {
		if v, skip := e.preVerdict(ref.site); skip {
			if err := e.complete(agg, ref, v); err != nil {
				return nil, err
			}
			continue
		}
		dispatchable = append(dispatchable, ref)
	}

	runCtx := ctx
	if e.deadline > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, e.deadline)
		defer cancel()
	}

	// In-flight probes get a grace period past run cancellation before
	// their requests are aborted; partial answers beat no answers.
	probeCtx, cancelProbes := context.WithCancel(context.WithoutCancel(ctx))
	defer cancelProbes()
	go func() {
		select {
		case <-runCtx.Done():
		case <-probeCtx.Done():
			return
		}
		timer := time.NewTimer(e.gracePeriod)
		defer timer.Stop()
		select {
		case <-timer.C:
			cancelProbes()
		case <-probeCtx.Done():
		}
	}()

	g := new(errgroup.Group)
	g.SetLimit(e.concurrency)

	for _, ref := range dispatchable {
		if runCtx.Err() != nil {
			if err := e.complete(agg, ref, skippedCancelled()); err != nil {
				return nil, err
			}
			continue
		}
		g.Go(func() error {
			// The deadline may have expired while this task waited for
			// a free worker slot.
			if runCtx.Err() != nil {
				return e.complete(agg, ref, skippedCancelled())
			}
			outcome := e.prober.Probe(probeCtx, ref.site, ref.task.Username)
			v := e.classifier.Classify(ref.site, outcome)
			v = classify.Annotate(ref.site, outcome, v)
			e.logger.Debug("task completed",
				slog.String("site", ref.task.SiteName),
				slog.String("username", ref.task.Username),
				slog.String("verdict", v.Kind.String()),
				slog.Duration("elapsed", outcome.Elapsed))
			return e.complete(agg, ref, v)
		})
	}

	err := g.Wait()
	cancelProbes()

	report := agg.finalize(time.Since(start), runCtx.Err() != nil)
	return report, err
}

// enumerate lists every task username-major in catalog order and seeds
// the report slots with task identity.
func (e *Engine) enumerate() ([]model.TaskVerdict, []taskRef) {
	total := len(e.usernames) * e.catalog.Len()
	seeded := make([]model.TaskVerdict, 0, total)
	refs := make([]taskRef, 0, total)

	for _, username := range e.usernames {
		for i := range e.catalog.Sites {
			site := &e.catalog.Sites[i]
			slot := len(seeded)
			task := model.ProbeTask{SiteName: site.Name, Username: username, Attempt: 1}
			profileURL := site.ProfileURL(username)
			seeded = append(seeded, model.TaskVerdict{Task: task, ProfileURL: profileURL})
			refs = append(refs, taskRef{slot: slot, site: site, task: task, profileURL: profileURL})
		}
	}
	return seeded, refs
}

// preVerdict decides tasks that must not be dispatched.
func (e *Engine) preVerdict(site *catalog.Descriptor) (model.Verdict, bool) {
	if site.Invalid != nil {
		return model.Verdict{
			Kind:   model.VerdictSkipped,
			Reason: "invalid site entry: " + site.Invalid.Error(),
		}, true
	}
	if site.Disabled && !e.includeSkipped {
		return model.Verdict{
			Kind:   model.VerdictSkipped,
			Reason: "site disabled in catalog",
		}, true
	}
	return model.Verdict{}, false
}

// complete records a verdict and emits the streaming callback.
func (e *Engine) complete(agg *aggregator, ref taskRef, v model.Verdict) error {
	if err := agg.record(ref.slot, v); err != nil {
		return err
	}
	if e.onVerdict != nil {
		e.onVerdict(model.TaskVerdict{Task: ref.task, ProfileURL: ref.profileURL, Verdict: v})
	}
	return nil
}

func skippedCancelled() model.Verdict {
	return model.Verdict{Kind: model.VerdictSkipped, Reason: "run cancelled"}
}
