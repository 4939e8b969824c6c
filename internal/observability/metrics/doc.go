// Package metrics provides Prometheus metrics registry and recording utilities.
//
// This package centralizes all application metrics including:
//   - HTTP request metrics (duration, count)
//   - Business metrics (feeds, articles, polls, summaries)
//   - Database query metrics
//
// All metrics are automatically registered with the Prometheus default registry
// and exposed via the /metrics endpoint.
//
// Example usage:
//
//	import "newswire/internal/observability/metrics"
//
//	func pollFeed(feedID int64) {
//	    start := time.Now()
//	    // ... fetch and store articles ...
//	    metrics.RecordFeedPoll(feedID, time.Since(start), inserted)
//	}
package metrics
