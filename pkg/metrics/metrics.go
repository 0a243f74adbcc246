// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "portfolio_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	StorageOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_storage_operations_total",
		Help: "Attachment storage operations by backend, operation and result.",
	}, []string{"backend", "op", "result"})

	AuthEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_auth_events_total",
		Help: "Authentication outcomes (register, login_success, login_failed, login_blocked).",
	}, []string{"event"})

	ContactMessagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_contact_messages_total",
		Help: "Contact form deliveries by result.",
	}, []string{"result"})
)

// Result maps an error to the "ok"/"error" label value.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
