// Package metrics provides Prometheus metrics for the captaincy service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels.
const (
	OutcomeOK     = "ok"
	OutcomeCache  = "cache"
	OutcomeError  = "error"
	OutcomeFailed = "failed"
)

// Manager owns every metric the service exports. All methods are safe to call
// on a nil *Manager, which records nothing.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         *prometheus.Registry

	upstreamRequests *prometheus.CounterVec
	upstreamLatency  *prometheus.HistogramVec

	playerFetches      *prometheus.CounterVec
	playerFetchLatency prometheus.Histogram

	recommendations  prometheus.Counter
	candidatesScored prometheus.Histogram
	recommendLatency prometheus.Histogram
	captainChanges   prometheus.Counter
}

// NewManager creates a metrics manager. Without WithPrometheusRegistry a
// private registry is used so tests can create managers freely.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "fpl",
		subsystem:        "captaincy",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.upstreamRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "upstream_requests_total",
		Help:      "Upstream API requests by endpoint and outcome (ok, cache, error)",
	}, []string{"endpoint", "outcome"})

	m.upstreamLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "upstream_request_seconds",
		Help:      "Latency of upstream API requests that hit the network",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint"})

	m.playerFetches = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "player_fetches_total",
		Help:      "Per-player history/fixture fetches by outcome (ok, failed)",
	}, []string{"outcome"})

	m.playerFetchLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "player_fetch_seconds",
		Help:      "Latency of a single player's detail fetch",
		Buckets:   m.histogramBuckets,
	})

	m.recommendations = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "recommendations_total",
		Help:      "Captaincy recommendation runs completed",
	})

	m.candidatesScored = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "candidates_scored",
		Help:      "Number of candidates scored per recommendation run",
		Buckets:   prometheus.LinearBuckets(0, 1, 12),
	})

	m.recommendLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "recommendation_seconds",
		Help:      "End-to-end latency of a recommendation run",
		Buckets:   m.histogramBuckets,
	})

	m.captainChanges = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "captain_changes_suggested_total",
		Help:      "Runs whose top recommendation differs from the current captain",
	})
}

func (m *Manager) on() bool {
	return m != nil && m.enabled
}

// ObserveUpstream records one upstream request.
func (m *Manager) ObserveUpstream(endpoint, outcome string, d time.Duration) {
	if !m.on() {
		return
	}
	m.upstreamRequests.WithLabelValues(endpoint, outcome).Inc()
	if outcome != OutcomeCache {
		m.upstreamLatency.WithLabelValues(endpoint).Observe(d.Seconds())
	}
}

// ObservePlayerFetch records one aggregator fetch.
func (m *Manager) ObservePlayerFetch(ok bool, d time.Duration) {
	if !m.on() {
		return
	}
	outcome := OutcomeOK
	if !ok {
		outcome = OutcomeFailed
	}
	m.playerFetches.WithLabelValues(outcome).Inc()
	m.playerFetchLatency.Observe(d.Seconds())
}

// ObserveRecommendation records a completed engine run.
func (m *Manager) ObserveRecommendation(candidates int, changeSuggested bool, d time.Duration) {
	if !m.on() {
		return
	}
	m.recommendations.Inc()
	m.candidatesScored.Observe(float64(candidates))
	m.recommendLatency.Observe(d.Seconds())
	if changeSuggested {
		m.captainChanges.Inc()
	}
}

// Registry returns the registry the manager's metrics live on.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the manager's registry in the Prometheus text format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
