// Package metrics defines Prometheus metrics for the attendance server.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kiosk_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kiosk_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kiosk_errors_total",
			Help: "Total errors by type",
		},
		[]string{"type"},
	)

	ScansTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kiosk_scans_total",
			Help: "Scans processed, by source and outcome",
		},
		[]string{"source", "outcome"},
	)

	AdmissionRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kiosk_admission_rejections_total",
			Help: "Scans rejected by the admission policy, by reason",
		},
		[]string{"reason"},
	)

	AuditWriteFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "kiosk_audit_write_failures_total",
			Help: "Audit entries that failed to persist alongside their event",
		},
	)

	AuditQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "kiosk_audit_queue_depth",
			Help: "Current registry audit queue depth",
		},
	)

	WSConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "kiosk_websocket_connections",
			Help: "Active WebSocket connections",
		},
	)

	EmployeeCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "kiosk_employees_total",
			Help: "Registered employee count",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestDuration, RequestsTotal, ErrorsTotal,
		ScansTotal, AdmissionRejections, AuditWriteFailures,
		AuditQueueDepth, WSConnections, EmployeeCount,
	)
}
