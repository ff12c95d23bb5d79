// Package metrics provides Prometheus metrics for the sales pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the pipeline.
type Metrics struct {
	RunsTotal         *prometheus.CounterVec
	RowsInserted      prometheus.Counter
	RunDuration       prometheus.Histogram
	ChartExportErrors prometheus.Counter
	QueryErrors       prometheus.Counter
}

var defaultMetrics *Metrics

// Init initializes the metrics package with global metrics.
// Call this once at startup.
func Init(namespace string) *Metrics {
	if namespace == "" {
		namespace = "vendas_pipeline"
	}

	m := &Metrics{
		RunsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Total number of pipeline runs by outcome",
			},
			[]string{"status"},
		),
		RowsInserted: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rows_inserted_total",
				Help:      "Total number of transaction rows inserted",
			},
		),
		RunDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "run_duration_seconds",
				Help:      "End-to-end duration of a pipeline run",
				Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
			},
		),
		ChartExportErrors: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "chart_export_errors_total",
				Help:      "Total number of chart image renders that failed",
			},
		),
		QueryErrors: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "query_errors_total",
				Help:      "Total number of suppressed database query errors",
			},
		),
	}

	defaultMetrics = m
	return m
}

// Get returns the global metrics instance.
// Returns nil if Init has not been called.
func Get() *Metrics {
	return defaultMetrics
}

// IncRuns increments the run counter for the given outcome ("ok" | "failed").
func (m *Metrics) IncRuns(status string) {
	if m == nil {
		return
	}
	m.RunsTotal.WithLabelValues(status).Inc()
}

// AddRowsInserted adds to the inserted-rows counter.
func (m *Metrics) AddRowsInserted(n float64) {
	if m == nil {
		return
	}
	m.RowsInserted.Add(n)
}

// ObserveRunDuration records one run's wall-clock duration.
func (m *Metrics) ObserveRunDuration(seconds float64) {
	if m == nil {
		return
	}
	m.RunDuration.Observe(seconds)
}

// IncChartExportErrors increments the chart render failure counter.
func (m *Metrics) IncChartExportErrors() {
	if m == nil {
		return
	}
	m.ChartExportErrors.Inc()
}

// IncQueryErrors increments the suppressed query error counter.
func (m *Metrics) IncQueryErrors() {
	if m == nil {
		return
	}
	m.QueryErrors.Inc()
}

// Handler returns the Prometheus scrape handler for mounting into a router.
func Handler() http.Handler {
	return promhttp.Handler()
}

// StartServer starts an HTTP server for Prometheus metrics scraping.
// Blocks until the server exits.
func StartServer(address string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	return http.ListenAndServe(address, mux)
}
