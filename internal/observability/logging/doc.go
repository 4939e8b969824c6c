// Package logging provides structured logging built on log/slog: JSON and
// text logger constructors, request ID enrichment, and logger propagation
// through context.
//
// Usage:
//
//	import "newswire/internal/observability/logging"
//
//	logger := logging.NewLogger()
//	logger = logging.WithRequestID(ctx, logger)
//	logger.Info("poll run started")
package logging
