// internal/resolve/engine.go
//
// Resolution pipeline.
//
// Context
// -------
// Every entry point (edge render, social preview, debug) calls
// Engine.Resolve with a host and a path and receives one Result.  The
// pipeline is a strictly sequential chain; each stage gates the next and
// may stop early:
//
//	hostmatch → domain (domain.go) → connection (connection.go, probe.go)
//	          → slug (slug.go) → seo.Extract
//
// Whatever the stages found is handed to seo.Extract.  On the root path a
// missing homepage still yields content-level metadata and a missing
// connection yields tenant-level metadata.  On any other path a miss is
// not found, except for application routes (cart, checkout, product),
// which keep content-level metadata.  A miss before the tenant is known
// yields the fallback document.
//
// Failure model
// -------------
//   - store.ErrNotFound (or an empty result) is a plain miss.
//   - Any other store error, including the pipeline deadline, is an
//     upstream failure: logged at WARN with its stage, counted in
//     seo_upstream_failures_total, and treated as a miss.  The Result is
//     marked Degraded and never cached.
//   - Decisions are appended to Result.Decisions; nothing is thrown.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/yanizio/seoedge/internal/content"
	"github.com/yanizio/seoedge/internal/hostmatch"
	"github.com/yanizio/seoedge/internal/metrics"
	"github.com/yanizio/seoedge/internal/rescache"
	"github.com/yanizio/seoedge/internal/seo"
	"github.com/yanizio/seoedge/internal/store"
)

// Default tunables.
const (
	DefaultTimeout          = 3 * time.Second
	DefaultProbeConcurrency = 4
)

// Outcome is the level the metadata came from.
type Outcome string

const (
	OutcomePage     Outcome = "page"
	OutcomeContent  Outcome = "content"
	OutcomeTenant   Outcome = "tenant"
	OutcomeNotFound Outcome = "not_found"
)

// Result is the pipeline's answer for one (host, path).
type Result struct {
	Route     hostmatch.Route `json:"route"`
	Content   seo.Resolved    `json:"content"`
	Outcome   Outcome         `json:"outcome"`
	Decisions []string        `json:"decisions"`
	Degraded  bool            `json:"degraded,omitempty"`
}

// Found reports whether any tenant data backed the result.
func (r Result) Found() bool { return r.Outcome != OutcomeNotFound }

// Options tunes an Engine.  Zero values fall back to the defaults.
type Options struct {
	Timeout          time.Duration
	ProbeConcurrency int
	Cache            *rescache.Cache[Result] // nil disables caching
}

// Engine is safe for concurrent use.
type Engine struct {
	store   store.Store
	matcher *hostmatch.Matcher
	opts    Options
	log     *zap.SugaredLogger
}

// New builds an Engine over st.
func New(st store.Store, m *hostmatch.Matcher, opts Options) *Engine {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.ProbeConcurrency <= 0 {
		opts.ProbeConcurrency = DefaultProbeConcurrency
	}
	return &Engine{store: st, matcher: m, opts: opts, log: zap.S().Named("resolve")}
}

// Matcher exposes the hostname matcher, e.g. for HTTPS enforcement.
func (e *Engine) Matcher() *hostmatch.Matcher { return e.matcher }

// Resolve runs the pipeline for host and path under the engine deadline.
// It never fails; every failure converges on a fallback Result.
func (e *Engine) Resolve(ctx context.Context, host, path string) Result {
	start := time.Now()
	route := e.matcher.Match(host, path)

	ctx, cancel := context.WithTimeout(ctx, e.opts.Timeout)
	defer cancel()

	res, err := e.opts.Cache.Get(ctx, route.Host+route.Path, func(ctx context.Context) (Result, bool, error) {
		r := e.run(ctx, route)
		return r, !r.Degraded, nil
	})
	if err != nil {
		// Only the caller's context can fail a cache wait.
		metrics.UpstreamFailures.WithLabelValues("pipeline").Inc()
		e.log.Warnw("resolution abandoned", "host", route.Host, "path", route.Path, "err", err)
		res = Result{
			Route:     route,
			Content:   seo.Fallback(route.Host, route.Path),
			Outcome:   OutcomeNotFound,
			Decisions: []string{"pipeline:abandoned"},
			Degraded:  true,
		}
	}

	metrics.Resolutions.WithLabelValues(string(route.Mode), string(res.Outcome)).Inc()
	metrics.ResolveDuration.WithLabelValues(string(res.Outcome)).Observe(time.Since(start).Seconds())
	e.log.Debugw("resolved",
		"host", route.Host,
		"path", route.Path,
		"mode", route.Mode,
		"trace", res.Content.SourceTrace,
		"degraded", res.Degraded,
		"ms", time.Since(start).Milliseconds(),
	)
	return res
}

/*──────────────────────────── pipeline state ──────────────────────────────*/

// state accumulates what the stages found for one run.
type state struct {
	route     hostmatch.Route
	in        seo.Input
	decisions []string
	degraded  bool
	notFound  bool
}

func (s *state) note(format string, args ...any) {
	s.decisions = append(s.decisions, fmt.Sprintf(format, args...))
}

// unmatched marks a run whose non-root path resolved to nothing specific;
// the run then yields the fallback document.  Root paths keep the content
// or tenant welcome document.
func (s *state) unmatched(path string, appRoute bool) {
	if appRoute || hostmatch.IsRoot(path) {
		return
	}
	s.notFound = true
	s.note("resolve:not_found path=%s", path)
}

// run executes the stages for route.
func (e *Engine) run(ctx context.Context, route hostmatch.Route) Result {
	st := &state{route: route}
	st.in.Host, st.in.Path = route.Host, route.Path
	st.note("mode=%s identifier=%s", route.Mode, route.Identifier)

	switch route.Mode {
	case hostmatch.ModeCustomDomain:
		e.runCustomDomain(ctx, st)
	case hostmatch.ModeStoreSlug:
		e.runTenantSlug(ctx, st)
	case hostmatch.ModePlatformSubdomain, hostmatch.ModeSiteSlug:
		e.runSiteSlug(ctx, st)
	case hostmatch.ModeFunnelRoute:
		e.runFunnelRoute(ctx, st)
	}

	res := Result{
		Route:     route,
		Content:   seo.Extract(st.in),
		Outcome:   outcome(st.in),
		Decisions: st.decisions,
		Degraded:  st.degraded,
	}
	if st.notFound {
		res.Content = seo.Fallback(route.Host, route.Path)
		res.Outcome = OutcomeNotFound
	}
	return res
}

// runCustomDomain: domain → tenant → connection → content.
func (e *Engine) runCustomDomain(ctx context.Context, st *state) {
	dom, ok := e.resolveDomain(ctx, st, st.route.Identifier)
	if !ok {
		return
	}
	st.in.DomainID = dom.ID
	e.loadTenant(ctx, st, dom.TenantID)

	pick, ok := e.selectConnection(ctx, st, dom.ID, st.route.ContentPath)
	if !ok {
		st.unmatched(st.route.ContentPath, false)
		return
	}
	e.resolveContent(ctx, st, pick)
}

// runTenantSlug: tenant by slug → its primary website → page.
func (e *Engine) runTenantSlug(ctx context.Context, st *state) {
	t, err := e.store.FindTenantBySlug(ctx, st.route.Identifier)
	if e.miss(st, "tenant", err) {
		st.note("tenant:miss slug=%s", st.route.Identifier)
		return
	}
	e.setTenant(st, t)

	w, err := e.store.FindTenantWebsite(ctx, t.ID)
	if e.miss(st, "connection", err) {
		st.note("connection:none tenant=%s", t.ID)
		st.unmatched(st.route.ContentPath, false)
		return
	}
	st.note("connection:rule=tenant_website website=%s", w.ID)
	e.resolveContent(ctx, st, pick{conn: content.Connection{Kind: content.KindWebsite, ContentID: w.ID}, path: st.route.ContentPath, website: w})
}

// runSiteSlug: website by slug → page.  Serves {slug}.platform and
// /site/{slug}.
func (e *Engine) runSiteSlug(ctx context.Context, st *state) {
	w, err := e.store.FindWebsiteBySlug(ctx, st.route.Identifier)
	if e.miss(st, "content", err) {
		st.note("website:miss slug=%s", st.route.Identifier)
		return
	}
	e.loadTenant(ctx, st, w.TenantID)
	e.resolveContent(ctx, st, pick{conn: content.Connection{Kind: content.KindWebsite, ContentID: w.ID}, path: st.route.ContentPath, website: w})
}

// runFunnelRoute: funnel by slug → step.  On a custom domain the domain is
// resolved first and the funnel is looked up within the domain's tenant.
func (e *Engine) runFunnelRoute(ctx context.Context, st *state) {
	var tenantID string
	if !e.matcher.IsPlatformHost(st.route.Host) {
		dom, ok := e.resolveDomain(ctx, st, st.route.Host)
		if !ok {
			return
		}
		st.in.DomainID = dom.ID
		tenantID = dom.TenantID
	}

	f, err := e.store.FindFunnelBySlug(ctx, tenantID, st.route.Identifier)
	if e.miss(st, "content", err) {
		st.note("funnel:miss slug=%s tenant=%s", st.route.Identifier, tenantID)
		return
	}

	e.loadTenant(ctx, st, f.TenantID)
	e.resolveContent(ctx, st, pick{conn: content.Connection{Kind: content.KindFunnel, ContentID: f.ID}, path: st.route.ContentPath, funnel: f})
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

// miss reports whether a lookup produced no usable result and accounts for
// upstream failures.
func (e *Engine) miss(st *state, stage string, err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, store.ErrNotFound) {
		return true
	}
	st.degraded = true
	st.note("%s:upstream_failure", stage)
	metrics.UpstreamFailures.WithLabelValues(stage).Inc()
	e.log.Warnw("store lookup failed",
		"stage", stage,
		"host", st.route.Host,
		"path", st.route.Path,
		"err", err,
	)
	return true
}

// loadTenant attaches tenant and parsed settings.  A miss is not fatal.
func (e *Engine) loadTenant(ctx context.Context, st *state, tenantID string) {
	if st.in.Tenant != nil || tenantID == "" {
		return
	}
	t, err := e.store.FindTenant(ctx, tenantID)
	if e.miss(st, "tenant", err) {
		st.note("tenant:miss id=%s", tenantID)
		return
	}
	e.setTenant(st, t)
}

func (e *Engine) setTenant(st *state, t *content.Tenant) {
	st.in.Tenant = t
	s, err := content.ParseSettings(t.Settings)
	if err != nil {
		e.log.Warnw("tenant settings unreadable", "tenant", t.ID, "err", err)
		st.note("tenant:settings_malformed id=%s", t.ID)
	}
	st.in.Settings = s
}

func outcome(in seo.Input) Outcome {
	switch {
	case in.Page != nil || in.Step != nil:
		return OutcomePage
	case in.Website != nil || in.Funnel != nil || in.CourseArea != nil:
		return OutcomeContent
	case in.Tenant != nil:
		return OutcomeTenant
	}
	return OutcomeNotFound
}
