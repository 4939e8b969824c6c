// Package worker holds the infrastructure of the polling worker binary: its
// environment configuration, Prometheus metrics and the health check server.
package worker

import (
	"fmt"
	"log/slog"
	"time"

	"newswire/internal/pkg/config"
)

// WorkerConfig controls the cron-driven polling loop.
//
// Every field loads fail-open: an invalid environment value falls back to
// the default with a warning and a config metric, never a startup failure.
// A worker that polls on the default schedule beats a worker that is down.
type WorkerConfig struct {
	// CronSchedule is the cron expression driving poll runs.
	// Default: every 10 minutes.
	CronSchedule string

	// Timezone is the IANA timezone the schedule is evaluated in.
	Timezone string

	// PollTimeout bounds one full polling run.
	PollTimeout time.Duration

	// MaxConcurrent bounds how many feeds are fetched at once.
	MaxConcurrent int

	// HealthPort serves the liveness/readiness probes.
	HealthPort int
}

// DefaultConfig returns the production defaults: a 10-minute schedule in
// UTC, a 5-minute run timeout and a fan-out of 8 feeds.
func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		CronSchedule:  "*/10 * * * *",
		Timezone:      "UTC",
		PollTimeout:   5 * time.Minute,
		MaxConcurrent: 8,
		HealthPort:    9091,
	}
}

// Validate checks every field and aggregates the failures.
func (c *WorkerConfig) Validate() error {
	var errs []error

	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errs = append(errs, fmt.Errorf("cron schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := config.ValidateDuration(c.PollTimeout, 30*time.Second, time.Hour); err != nil {
		errs = append(errs, fmt.Errorf("poll timeout: %w", err))
	}
	if err := config.ValidateIntRange(c.MaxConcurrent, 1, 64); err != nil {
		errs = append(errs, fmt.Errorf("max concurrent: %w", err))
	}
	if err := config.ValidateIntRange(c.HealthPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %v", errs)
	}
	return nil
}

// LoadConfigFromEnv loads the worker configuration from the environment.
//
// Environment variables:
//   - CRON_SCHEDULE: cron expression (default "*/10 * * * *")
//   - WORKER_TIMEZONE: IANA timezone (default "UTC")
//   - POLL_TIMEOUT: duration, 30s to 1h (default 5m)
//   - POLL_MAX_CONCURRENT: 1 to 64 (default 8)
//   - WORKER_HEALTH_PORT: 1024 to 65535 (default 9091)
//
// Each rejected value is logged and recorded on the config metrics before
// the default takes its place. The returned error is always nil; the
// signature keeps the caller honest about checking it anyway.
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics) (*WorkerConfig, error) {
	cfg := DefaultConfig()
	fallback := false

	load := func(field string, result config.ConfigLoadResult) config.ConfigLoadResult {
		if result.FallbackApplied {
			fallback = true
			metrics.RecordValidationError(field)
			metrics.RecordFallback(field, "default")
			for _, warning := range result.Warnings {
				logger.Warn("Configuration fallback applied",
					slog.String("field", field),
					slog.String("warning", warning))
			}
		}
		return result
	}

	cfg.CronSchedule = load("cron_schedule",
		config.LoadEnvWithFallback("CRON_SCHEDULE", cfg.CronSchedule, config.ValidateCronSchedule)).Value.(string)

	cfg.Timezone = load("timezone",
		config.LoadEnvWithFallback("WORKER_TIMEZONE", cfg.Timezone, config.ValidateTimezone)).Value.(string)

	cfg.PollTimeout = load("poll_timeout",
		config.LoadEnvDuration("POLL_TIMEOUT", cfg.PollTimeout, func(d time.Duration) error {
			return config.ValidateDuration(d, 30*time.Second, time.Hour)
		})).Value.(time.Duration)

	cfg.MaxConcurrent = load("poll_max_concurrent",
		config.LoadEnvInt("POLL_MAX_CONCURRENT", cfg.MaxConcurrent, func(v int) error {
			return config.ValidateIntRange(v, 1, 64)
		})).Value.(int)

	cfg.HealthPort = load("health_port",
		config.LoadEnvInt("WORKER_HEALTH_PORT", cfg.HealthPort, func(v int) error {
			return config.ValidateIntRange(v, 1024, 65535)
		})).Value.(int)

	metrics.SetFallbackActive("", fallback)
	metrics.RecordLoadTimestamp()

	return &cfg, nil
}
