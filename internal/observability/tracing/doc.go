// Package tracing integrates OpenTelemetry tracing: an HTTP middleware that
// extracts W3C trace context, opens a server span per request and reflects
// the trace ID back in the X-Trace-Id header, plus the shared application
// tracer for manual spans.
//
// Usage:
//
//	import "newswire/internal/observability/tracing"
//
//	handler := tracing.Middleware(mux)
package tracing
