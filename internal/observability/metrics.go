package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequestsTotal       *prometheus.CounterVec
	httpLatencySeconds      *prometheus.HistogramVec
	httpErrorsTotal         *prometheus.CounterVec
	evaluationsSubmitted    *prometheus.CounterVec
	notificationsPublished  *prometheus.CounterVec
	sseClientsActive        prometheus.Gauge
	announcementCacheEvents *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "prp_http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "prp_http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "prp_http_errors_total",
			Help: "Total number of error responses returned by API endpoints.",
		}, []string{"method", "route", "status"})

		evaluationsSubmitted = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "prp_evaluations_submitted_total",
			Help: "Completed evaluations partitioned by score category.",
		}, []string{"category"})

		notificationsPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "prp_notifications_published_total",
			Help: "Notifications published, partitioned by type.",
		}, []string{"type"})

		sseClientsActive = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "prp_sse_clients_active",
			Help: "Number of currently connected notification stream clients.",
		})

		announcementCacheEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "prp_announcement_cache_events_total",
			Help: "Announcement cache lookups partitioned by outcome.",
		}, []string{"outcome"})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			httpErrorsTotal,
			evaluationsSubmitted,
			notificationsPublished,
			sseClientsActive,
			announcementCacheEvents,
		)
	})
}

// HTTPRequests exposes the counter for served requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the request latency histogram.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the counter for error responses.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// EvaluationsSubmitted exposes the counter for completed evaluations.
func EvaluationsSubmitted() *prometheus.CounterVec {
	RegisterMetrics()
	return evaluationsSubmitted
}

// NotificationsPublished exposes the counter for published notifications.
func NotificationsPublished() *prometheus.CounterVec {
	RegisterMetrics()
	return notificationsPublished
}

// SSEClientsActive exposes the gauge of connected stream clients.
func SSEClientsActive() prometheus.Gauge {
	RegisterMetrics()
	return sseClientsActive
}

// AnnouncementCacheEvents exposes the cache hit and miss counter.
func AnnouncementCacheEvents() *prometheus.CounterVec {
	RegisterMetrics()
	return announcementCacheEvents
}
