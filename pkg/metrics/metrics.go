// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "webhook_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// BackendCallDuration tracks search/answer/converse call duration.
	BackendCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "backend_call_duration_seconds",
			Help:    "Backend call duration in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10, 20, 30},
		},
		[]string{"operation", "status"},
	)

	// SearchPagesTotal tracks result pages fetched by search calls.
	SearchPagesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "backend_search_pages_total",
			Help: "Search result pages fetched from the backend",
		},
	)

	// RepliesTotal tracks webhook replies by route and outcome.
	RepliesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_replies_total",
			Help: "Webhook replies by route and outcome",
		},
		[]string{"route", "outcome"},
	)

	// EventsPublishedTotal tracks turn events handed to the event stream.
	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "turn_events_published_total",
			Help: "Turn events published",
		},
		[]string{"status"},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordBackendCall records metrics for a backend call.
func RecordBackendCall(operation, status string, duration float64) {
	BackendCallDuration.WithLabelValues(operation, status).Observe(duration)
}

// RecordReply records the outcome of a webhook turn.
func RecordReply(route, outcome string) {
	RepliesTotal.WithLabelValues(route, outcome).Inc()
}

// RecordEventPublish records a turn event publish attempt.
func RecordEventPublish(err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	EventsPublishedTotal.WithLabelValues(status).Inc()
}
