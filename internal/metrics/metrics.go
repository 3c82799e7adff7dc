// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/JonMunkholm/nudge/internal/nudge"
)

// Run outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeBusy     = "busy"
	OutcomeFailed   = "failed"
)

var (
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nudge_runs_total",
			Help: "Total number of classification runs by outcome",
		},
		[]string{"outcome"},
	)

	RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nudge_run_duration_seconds",
			Help:    "Duration of classification runs in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	RunsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "nudge_runs_active",
			Help: "Number of runs currently executing",
		},
	)

	RecordsProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nudge_records_processed_total",
			Help: "Total number of input records classified",
		},
	)

	RowsWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nudge_rows_written_total",
			Help: "Total number of output rows by table",
		},
		[]string{"table"},
	)

	DefaultStops = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nudge_default_stops_total",
			Help: "Total number of groups stopped only because no start rule matched",
		},
	)

	IssuesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nudge_issues_total",
			Help: "Total number of data issues by kind",
		},
		[]string{"kind"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nudge_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nudge_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// ObserveRun records a finished run.
func ObserveRun(outcome string, elapsed time.Duration) {
	RunsTotal.WithLabelValues(outcome).Inc()
	RunDuration.Observe(elapsed.Seconds())
}

// ObserveResult records the counts of a successful run.
func ObserveResult(s nudge.Summary, issues []nudge.Issue, startTable, stopTable string) {
	RecordsProcessed.Add(float64(s.Records))
	RowsWritten.WithLabelValues(startTable).Add(float64(s.StartRows))
	RowsWritten.WithLabelValues(stopTable).Add(float64(s.StopRows))
	DefaultStops.Add(float64(s.DefaultStops))
	for _, iss := range issues {
		IssuesTotal.WithLabelValues(string(iss.Kind)).Inc()
	}
}

// ObserveHTTP records one served request.
func ObserveHTTP(method, route, status string, elapsed time.Duration) {
	HTTPRequests.WithLabelValues(method, route, status).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
