package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	registry *prometheus.Registry

	// Resolver metrics
	ResolutionsTotal   *prometheus.CounterVec
	ResolutionDuration *prometheus.HistogramVec
	ResolveCacheHits   prometheus.Counter
	ResolveCacheMisses prometheus.Counter
	FallbacksTotal     prometheus.Counter

	// Watcher metrics
	WatchedDirectories prometheus.Gauge
	RescansTotal       prometheus.Counter
	ListingsTotal      *prometheus.CounterVec

	// Learning metrics
	FeedbackTotal prometheus.Counter
}

// NewMetrics creates and registers all metrics
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,

		// Resolver metrics
		ResolutionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "filo_resolutions_total",
				Help: "Total number of path resolutions by winning stage",
			},
			[]string{"stage"},
		),
		ResolutionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "filo_resolution_duration_seconds",
				Help:    "Duration of path resolutions in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
		ResolveCacheHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "filo_resolve_cache_hits_total",
				Help: "Total number of memoized resolution answers",
			},
		),
		ResolveCacheMisses: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "filo_resolve_cache_misses_total",
				Help: "Total number of resolutions that ran the pipeline",
			},
		),
		FallbacksTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "filo_resolve_fallbacks_total",
				Help: "Total number of resolutions answered by the fallback stage",
			},
		),

		// Watcher metrics
		WatchedDirectories: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "filo_watched_directories",
				Help: "Number of directories currently watched",
			},
		),
		RescansTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "filo_rescans_total",
				Help: "Total number of debounced directory rescans",
			},
		),
		ListingsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "filo_listings_total",
				Help: "Total number of directory listing reads by outcome",
			},
			[]string{"outcome"},
		),

		// Learning metrics
		FeedbackTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "filo_feedback_total",
				Help: "Total number of user path corrections recorded",
			},
		),
	}

	m.registerMetrics()

	return m
}

// registerMetrics registers all metrics with the registry
func (m *Metrics) registerMetrics() {
	m.registry.MustRegister(m.ResolutionsTotal)
	m.registry.MustRegister(m.ResolutionDuration)
	m.registry.MustRegister(m.ResolveCacheHits)
	m.registry.MustRegister(m.ResolveCacheMisses)
	m.registry.MustRegister(m.FallbacksTotal)

	m.registry.MustRegister(m.WatchedDirectories)
	m.registry.MustRegister(m.RescansTotal)
	m.registry.MustRegister(m.ListingsTotal)

	m.registry.MustRegister(m.FeedbackTotal)
}

// ObserveResolve implements the resolver's observer hook
func (m *Metrics) ObserveResolve(stage string, duration time.Duration, cacheHit bool) {
	m.ResolutionsTotal.WithLabelValues(stage).Inc()
	m.ResolutionDuration.WithLabelValues(stage).Observe(duration.Seconds())
	if cacheHit {
		m.ResolveCacheHits.Inc()
	} else {
		m.ResolveCacheMisses.Inc()
	}
	if stage == "fallback" {
		m.FallbacksTotal.Inc()
	}
}

// Handler returns an HTTP handler for the metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Registry returns the Prometheus registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
