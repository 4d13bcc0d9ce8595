// Package metrics defines Prometheus metrics for maidbook.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "maidbook_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maidbook_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maidbook_errors_total",
			Help: "Total errors by type",
		},
		[]string{"type"},
	)

	// RestoreRows counts per-row restore outcomes.
	// category is client, address or booking; outcome is restored, skipped,
	// reused, placeholder, unparseable or failed.
	RestoreRows = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maidbook_restore_rows_total",
			Help: "Restore row outcomes by category",
		},
		[]string{"category", "outcome"},
	)

	RestoreRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maidbook_restore_runs_total",
			Help: "Restore runs by result",
		},
		[]string{"result"},
	)

	RestoreDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "maidbook_restore_duration_seconds",
			Help:    "Wall time of completed restore runs",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestDuration, RequestsTotal, ErrorsTotal,
		RestoreRows, RestoreRuns, RestoreDuration,
	)
}
