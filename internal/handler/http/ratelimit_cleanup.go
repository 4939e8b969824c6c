package http

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// DefaultCleanupInterval is how often stale rate limit records are purged
// when RATELIMIT_CLEANUP_INTERVAL is unset.
const DefaultCleanupInterval = 5 * time.Minute

// StartRateLimitCleanup runs a background loop that periodically removes
// expired entries from the rate limiter so per-IP records do not accumulate
// forever. Stops when the context is cancelled.
func StartRateLimitCleanup(ctx context.Context, limiter *RateLimiter, interval time.Duration, limiterType string) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("rate limit cleanup started",
		slog.String("limiter_type", limiterType),
		slog.Duration("interval", interval))

	for {
		select {
		case <-ctx.Done():
			slog.Info("rate limit cleanup stopped",
				slog.String("limiter_type", limiterType))
			return

		case <-ticker.C:
			limiter.CleanupExpired()

			slog.Debug("rate limit cleanup completed",
				slog.String("limiter_type", limiterType))
		}
	}
}

// LoadCleanupInterval reads RATELIMIT_CLEANUP_INTERVAL, falling back to the
// default on a missing or malformed value.
func LoadCleanupInterval() time.Duration {
	raw := os.Getenv("RATELIMIT_CLEANUP_INTERVAL")
	if raw == "" {
		return DefaultCleanupInterval
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		slog.Warn("invalid RATELIMIT_CLEANUP_INTERVAL, using default",
			slog.String("value", raw),
			slog.Duration("default", DefaultCleanupInterval))
		return DefaultCleanupInterval
	}
	return d
}
