// Package slo tracks the aggregator's service level objectives as Prometheus
// gauges. The worker updates them after every poll run; alerting compares
// the gauges against the targets exported alongside them.
package slo

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SLO targets for the polling pipeline.
const (
	// PollSuccessSLO is the target fraction of feeds that poll cleanly
	// in one run (99% = at most 1 in 100 feeds failing).
	PollSuccessSLO = 0.99

	// PollDurationSLO is the target wall time for one full run.
	PollDurationSLO = 2 * time.Minute

	// FreshnessSLO is the maximum acceptable age of the newest completed
	// run. With a 10-minute schedule, two missed runs breach it.
	FreshnessSLO = 30 * time.Minute
)

var (
	// PollSuccessRatio is the success fraction of the most recent run.
	PollSuccessRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_poll_success_ratio",
			Help: "Fraction of feeds polled successfully in the last run, target: 0.99",
		},
	)

	// PollDurationSeconds is the wall time of the most recent run.
	PollDurationSeconds = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_poll_duration_seconds",
			Help: "Wall time of the last poll run in seconds, target: 120",
		},
	)

	// LastRunTimestamp is the Unix time the most recent run completed.
	// Freshness is derived as now minus this value.
	LastRunTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_poll_last_run_timestamp",
			Help: "Unix timestamp of the last completed poll run, freshness target: 1800s",
		},
	)
)

// RecordRun updates all poll SLO gauges from one completed run.
// A run with zero feeds counts as fully successful; an empty feed table is
// not an availability problem.
func RecordRun(total, successful int, duration time.Duration) {
	ratio := 1.0
	if total > 0 {
		ratio = float64(successful) / float64(total)
	}
	PollSuccessRatio.Set(ratio)
	PollDurationSeconds.Set(duration.Seconds())
	LastRunTimestamp.SetToCurrentTime()
}
