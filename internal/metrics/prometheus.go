package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Report computation modes.
const (
	ModeLive        = "live"
	ModeMaterialize = "materialize"
)

// Manager owns the service metrics. A nil *Manager is valid and records nothing.
type Manager struct {
	namespace        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	reportsComputed     *prometheus.CounterVec
	reportFailures      *prometheus.CounterVec
	reportDuration      prometheus.Histogram
	reportsMaterialized prometheus.Counter

	ratingsSubmitted prometheus.Counter
	ratingsImported  prometheus.Counter

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// NewManager creates a Manager on its own registry unless one is supplied.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "canteenpulse",
		histogramBuckets: prometheus.DefBuckets,
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

	m.reportsComputed = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "reports_computed_total",
		Help:      "Total number of weekly reports computed, by mode",
	}, []string{"mode"})

	m.reportFailures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "report_failures_total",
		Help:      "Total number of failed report operations, by error kind",
	}, []string{"kind"})

	m.reportDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "report_compute_duration_seconds",
		Help:      "Time spent loading ratings and computing one weekly report",
		Buckets:   m.histogramBuckets,
	})

	m.reportsMaterialized = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "reports_materialized_total",
		Help:      "Total number of weekly reports written to the report store",
	})

	m.ratingsSubmitted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "ratings_submitted_total",
		Help:      "Total number of ratings accepted through the API",
	})

	m.ratingsImported = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "ratings_imported_total",
		Help:      "Total number of ratings loaded from CSV files",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration in seconds",
		Buckets:   m.histogramBuckets,
	}, []string{"method", "route"})
}

// RecordReportComputed counts one successful computation and its duration.
func (m *Manager) RecordReportComputed(mode string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.reportsComputed.WithLabelValues(mode).Inc()
	m.reportDuration.Observe(elapsed.Seconds())
}

// RecordReportFailure counts a failed report operation under kind.
func (m *Manager) RecordReportFailure(kind string) {
	if m == nil {
		return
	}
	m.reportFailures.WithLabelValues(kind).Inc()
}

func (m *Manager) RecordReportMaterialized() {
	if m == nil {
		return
	}
	m.reportsMaterialized.Inc()
}

func (m *Manager) RecordRatingSubmitted() {
	if m == nil {
		return
	}
	m.ratingsSubmitted.Inc()
}

func (m *Manager) RecordRatingsImported(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ratingsImported.Add(float64(n))
}

// RecordHTTPRequest records one served request. route is the matched route
// template, never the raw path, to keep label cardinality bounded.
func (m *Manager) RecordHTTPRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler serves the Manager's registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	if m == nil {
		return promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the registry the metrics live on.
func (m *Manager) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}
