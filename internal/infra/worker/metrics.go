package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"newswire/internal/pkg/config"
)

// WorkerMetrics exposes the worker's Prometheus metrics: config fallback
// tracking via the embedded ConfigMetrics plus per-run poll metrics.
type WorkerMetrics struct {
	*config.ConfigMetrics

	// PollRunsTotal counts poll runs by status (success/failure).
	PollRunsTotal *prometheus.CounterVec

	// PollRunDurationSeconds observes the wall time of each run.
	PollRunDurationSeconds prometheus.Histogram

	// FeedsProcessedTotal accumulates feeds polled across runs.
	FeedsProcessedTotal prometheus.Counter

	// ArticlesInsertedTotal accumulates new articles stored across runs.
	ArticlesInsertedTotal prometheus.Counter

	// LastSuccessTimestamp is the Unix time of the last successful run.
	LastSuccessTimestamp prometheus.Gauge
}

// NewWorkerMetrics creates and registers the worker metrics. promauto
// registers on the default registry, so construct this once per process.
func NewWorkerMetrics() *WorkerMetrics {
	return &WorkerMetrics{
		ConfigMetrics: config.NewConfigMetrics("worker"),

		PollRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_poll_runs_total",
			Help: "Total number of poll runs by status (success/failure)",
		}, []string{"status"}),

		PollRunDurationSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "worker_poll_run_duration_seconds",
			Help:    "Duration of one poll run in seconds",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300},
		}),

		FeedsProcessedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "worker_poll_feeds_processed_total",
			Help: "Total number of feeds processed across all poll runs",
		}),

		ArticlesInsertedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "worker_poll_articles_inserted_total",
			Help: "Total number of new articles inserted across all poll runs",
		}),

		LastSuccessTimestamp: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "worker_poll_last_success_timestamp",
			Help: "Unix timestamp of the last successful poll run",
		}),
	}
}

// RecordRun increments the run counter. Status is "success" or "failure".
func (m *WorkerMetrics) RecordRun(status string) {
	m.PollRunsTotal.WithLabelValues(status).Inc()
}

// RecordRunDuration observes one run's wall time in seconds.
func (m *WorkerMetrics) RecordRunDuration(seconds float64) {
	m.PollRunDurationSeconds.Observe(seconds)
}

// RecordFeedsProcessed adds the number of feeds handled in one run.
func (m *WorkerMetrics) RecordFeedsProcessed(count int) {
	m.FeedsProcessedTotal.Add(float64(count))
}

// RecordArticlesInserted adds the number of new articles stored in one run.
func (m *WorkerMetrics) RecordArticlesInserted(count int64) {
	m.ArticlesInsertedTotal.Add(float64(count))
}

// RecordLastSuccess stamps the last successful run at the current time.
func (m *WorkerMetrics) RecordLastSuccess() {
	m.LastSuccessTimestamp.SetToCurrentTime()
}
