// Package metrics holds Prometheus instruments that are used across the
// service.  All collectors are registered with the global registry, so
// importing this package is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Resolutions counts finished pipeline runs by hostname mode and by the
	// level the metadata came from (content, tenant, no_data).
	Resolutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seo_resolutions_total",
			Help: "Completed content resolutions by mode and outcome.",
		}, []string{"mode", "outcome"})

	// UpstreamFailures feeds the store-health alert.
	UpstreamFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seo_upstream_failures_total",
			Help: "Content store lookups that failed or timed out, by stage.",
		}, []string{"stage"})

	ResolveDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "seo_resolve_duration_seconds",
			Help:    "Wall time of one resolution pipeline run.",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"outcome"})

	FunnelProbes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seo_funnel_probes_total",
			Help: "Funnel step probes issued by the connection resolver, by result.",
		}, []string{"result"})

	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seo_cache_lookups_total",
			Help: "Resolution cache lookups by tier and result.",
		}, []string{"tier", "result"})

	CacheEntries = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "seo_cache_entries",
			Help: "Resolutions currently held in the in-process cache.",
		})

	Requests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seo_requests_total",
			Help: "Inbound requests by entry point and client class.",
		}, []string{"entry", "client"})

	Panics = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "seo_panics_total",
			Help: "Handler panics recovered into a generic 500.",
		})
)

func init() {
	prometheus.MustRegister(
		Resolutions,
		UpstreamFailures,
		ResolveDuration,
		FunnelProbes,
		CacheLookups,
		CacheEntries,
		Requests,
		Panics,
	)
}
