// Package metrics exposes Prometheus metrics for the match watcher.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/ozzus/fan-live/cmd/match-watcher/internal/domain/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	snapshotsReceived  prometheus.Counter
	statusReports      *prometheus.CounterVec
	streamTerminations *prometheus.CounterVec
	resubscriptions    prometheus.Counter
	subscriptionActive prometheus.Gauge

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// NewManager builds a manager on its own registry so several managers can
// coexist (tests, multiple watchers).
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "fan_live",
		subsystem:        "match_watcher",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.NewRegistry(),
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	factory := promauto.With(m.registry)

	m.snapshotsReceived = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshots_received_total",
		Help:      "Match snapshots received from the update stream.",
	})
	m.statusReports = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "status_reports_total",
		Help:      "Stream status reports by code.",
	}, []string{"code"})
	m.streamTerminations = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "stream_terminations_total",
		Help:      "Subscriptions that ended, by reason (end, error).",
	}, []string{"reason"})
	m.resubscriptions = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "resubscriptions_total",
		Help:      "Resubscription attempts after the fixed delay.",
	})
	m.subscriptionActive = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "subscription_active",
		Help:      "1 while a subscription stream is open.",
	})

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Page server requests.",
	}, []string{"method", "route", "code"})
	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_seconds",
		Help:      "Page server request latency.",
		Buckets:   m.histogramBuckets,
	}, []string{"method", "route"})
}

func (m *Manager) SnapshotReceived() {
	m.snapshotsReceived.Inc()
}

func (m *Manager) StatusReported(code models.StatusCode) {
	m.statusReports.WithLabelValues(strconv.FormatUint(uint64(code), 10)).Inc()
}

func (m *Manager) StreamTerminated(reason string) {
	m.streamTerminations.WithLabelValues(reason).Inc()
}

func (m *Manager) Resubscribed() {
	m.resubscriptions.Inc()
}

func (m *Manager) SubscriptionActive(active bool) {
	if active {
		m.subscriptionActive.Set(1)
		return
	}
	m.subscriptionActive.Set(0)
}

func (m *Manager) ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}
