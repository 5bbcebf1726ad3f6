// internal/server/server.go
//
// HTTP server and router assembly.
//
// Production hardening recommends:
//
//   • ReadTimeout   – abort slow-loris headers (10 s)
//   • WriteTimeout  – cap total response time (15 s)
//   • IdleTimeout   – close keep-alives on idle clients (60 s)
//
// The values come from the `http` config section; zero falls back to the
// defaults above.  Router() wires the middleware chain, the operational
// endpoints, and every enabled component, so cmd/web only builds Deps.
//
// Middleware order
// ----------------
//   ForceHTTPS → RealIP → requestinfo.Enrich → Recover → Security → routes
//
// ForceHTTPS sits outside chi so a redirect costs no enrichment.

package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/yanizio/seoedge/internal/component"
	"github.com/yanizio/seoedge/internal/config"
	"github.com/yanizio/seoedge/internal/middleware"
	"github.com/yanizio/seoedge/internal/requestinfo"
)

// New constructs an *http.Server from the http config section.
func New(c config.HTTP, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              c.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: orDefault(c.ReadTimeout, 10*time.Second),
		ReadTimeout:       orDefault(c.ReadTimeout, 10*time.Second),
		WriteTimeout:      orDefault(c.WriteTimeout, 15*time.Second),
		IdleTimeout:       orDefault(c.IdleTimeout, 60*time.Second),
	}
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}

// Pinger is anything /healthz should check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterOptions collects what Router needs beyond the component Deps.
type RouterOptions struct {
	Deps        component.Deps
	Health      map[string]Pinger
	KnownHost   func(host string) bool // ForceHTTPS target filter
	RequestInfo requestinfo.Options
}

// Router returns the root handler.
func Router(o RouterOptions) http.Handler {
	cfg := o.Deps.Config

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(requestinfo.Enrich(o.RequestInfo))
	r.Use(middleware.Recover)
	if cfg.HTTP.SecurityHeaders {
		r.Use(middleware.Security)
	}

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Get("/healthz", healthz(o.Health))

	for _, c := range component.Enabled(cfg.Components.Enabled) {
		c.Mount(r, o.Deps)
		zap.S().Debugw("component mounted", "component", c.Name())
	}

	var h http.Handler = r
	if cfg.HTTP.ForceHTTPS && o.KnownHost != nil {
		h = middleware.ForceHTTPS(o.KnownHost, h)
	}
	return h
}

// healthz pings every dependency with a short deadline.  Any failure
// turns the response into 503 with per-dependency detail.
func healthz(checks map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		out := make(map[string]string, len(checks))
		for name, p := range checks {
			if err := p.Ping(ctx); err != nil {
				status = http.StatusServiceUnavailable
				out[name] = "down"
				zap.S().Warnw("health check failed", "dependency", name, "err", err)
				continue
			}
			out[name] = "ok"
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(out)
	}
}
