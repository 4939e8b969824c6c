// Package observability groups the cross-cutting observability concerns of
// the aggregator: structured logging, Prometheus metrics and OpenTelemetry
// tracing.
//
// Subpackages:
//   - logging: slog-based structured logging with context propagation
//   - metrics: the shared Prometheus registry and domain recorders
//   - tracing: OpenTelemetry HTTP middleware and the application tracer
package observability
