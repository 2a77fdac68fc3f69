// Package metrics provides Prometheus metrics for the transaction forge.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the transaction forge.
type Metrics struct {
	// Job metrics
	JobsCompleted *prometheus.CounterVec
	JobsFailed    *prometheus.CounterVec

	// Row metrics
	RowsGenerated *prometheus.CounterVec

	// Timing metrics
	GenerateDuration *prometheus.HistogramVec
	EncodeDuration   *prometheus.HistogramVec
	UploadDuration   *prometheus.HistogramVec

	// Size metrics
	FileBytes *prometheus.HistogramVec

	// Upload metrics
	Uploads         *prometheus.CounterVec
	UploadFailures  *prometheus.CounterVec
	InFlightUploads prometheus.Gauge

	// Coordination metrics
	CounterRetries  *prometheus.CounterVec
	SequenceReuse   *prometheus.CounterVec
	IdentityMisses  *prometheus.CounterVec
}

// Config holds metrics configuration.
type Config struct {
	Enabled bool
	Address string // Address for metrics HTTP server (e.g., ":9090")
}

var defaultMetrics *Metrics

// Init initializes the metrics package with global metrics.
// Call this once at startup.
func Init(namespace string) *Metrics {
	if namespace == "" {
		namespace = "txnforge"
	}

	m := &Metrics{
		JobsCompleted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "jobs_completed_total",
				Help:      "Total number of generator jobs completed",
			},
			[]string{"mode", "partition_date"},
		),
		JobsFailed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "jobs_failed_total",
				Help:      "Total number of generator jobs that failed",
			},
			[]string{"mode", "partition_date"},
		),
		RowsGenerated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rows_generated_total",
				Help:      "Total number of rows generated per table",
			},
			[]string{"table"},
		),
		GenerateDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "generate_duration_seconds",
				Help:      "Time to synthesize rows for one thread",
				Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10), // 0.1s to ~100s
			},
			[]string{"table"},
		),
		EncodeDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "encode_duration_seconds",
				Help:      "Time to encode a table to parquet",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
			},
			[]string{"table"},
		),
		UploadDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "upload_duration_seconds",
				Help:      "Time to upload one file to one destination",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
			},
			[]string{"table", "destination"},
		),
		FileBytes: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "file_bytes",
				Help:      "Size of encoded parquet files in bytes",
				Buckets:   prometheus.ExponentialBuckets(1024, 2, 15), // 1KB to ~32MB
			},
			[]string{"table"},
		),
		Uploads: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "uploads_total",
				Help:      "Total number of successful uploads",
			},
			[]string{"table", "destination"},
		),
		UploadFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "upload_failures_total",
				Help:      "Total number of failed uploads",
			},
			[]string{"table", "destination"},
		),
		InFlightUploads: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "in_flight_uploads",
				Help:      "Number of uploads currently in flight",
			},
		),
		CounterRetries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "counter_retries_total",
				Help:      "Total number of sequence counter retry attempts",
			},
			[]string{"partition_date"},
		),
		SequenceReuse: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sequence_reuse_total",
				Help:      "Total number of job orders reused on retry",
			},
			[]string{"partition_date"},
		),
		IdentityMisses: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "identity_misses_total",
				Help:      "Total number of identity pool lookup misses",
			},
			[]string{"backend"},
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

// IncJobsCompleted increments the completed jobs counter.
func (m *Metrics) IncJobsCompleted(mode, date string) {
	m.JobsCompleted.WithLabelValues(mode, date).Inc()
}

// IncJobsFailed increments the failed jobs counter.
func (m *Metrics) IncJobsFailed(mode, date string) {
	m.JobsFailed.WithLabelValues(mode, date).Inc()
}

// AddRowsGenerated adds to the per-table row counter.
func (m *Metrics) AddRowsGenerated(table string, count float64) {
	m.RowsGenerated.WithLabelValues(table).Add(count)
}

// ObserveGenerateDuration records the synthesis time for a table.
func (m *Metrics) ObserveGenerateDuration(table string, seconds float64) {
	m.GenerateDuration.WithLabelValues(table).Observe(seconds)
}

// ObserveEncodeDuration records the parquet encode time for a table.
func (m *Metrics) ObserveEncodeDuration(table string, seconds float64) {
	m.EncodeDuration.WithLabelValues(table).Observe(seconds)
}

// ObserveUploadDuration records one upload's duration.
func (m *Metrics) ObserveUploadDuration(table, destination string, seconds float64) {
	m.UploadDuration.WithLabelValues(table, destination).Observe(seconds)
}

// ObserveFileBytes records the size of an encoded file.
func (m *Metrics) ObserveFileBytes(table string, bytes float64) {
	m.FileBytes.WithLabelValues(table).Observe(bytes)
}

// IncUploads increments the successful uploads counter.
func (m *Metrics) IncUploads(table, destination string) {
	m.Uploads.WithLabelValues(table, destination).Inc()
}

// IncUploadFailures increments the failed uploads counter.
func (m *Metrics) IncUploadFailures(table, destination string) {
	m.UploadFailures.WithLabelValues(table, destination).Inc()
}

// IncCounterRetries increments the counter retry attempts counter.
func (m *Metrics) IncCounterRetries(date string) {
	m.CounterRetries.WithLabelValues(date).Inc()
}

// IncSequenceReuse increments the reused-order counter.
func (m *Metrics) IncSequenceReuse(date string) {
	m.SequenceReuse.WithLabelValues(date).Inc()
}

// IncIdentityMisses increments the identity miss counter.
func (m *Metrics) IncIdentityMisses(backend string) {
	m.IdentityMisses.WithLabelValues(backend).Inc()
}

// IncInFlightUploads increments the in-flight upload gauge.
func (m *Metrics) IncInFlightUploads() {
	m.InFlightUploads.Inc()
}

// DecInFlightUploads decrements the in-flight upload gauge.
func (m *Metrics) DecInFlightUploads() {
	m.InFlightUploads.Dec()
}
