// Package metrics provides Prometheus metrics registry and recording utilities.
//
// This package centralizes all application metrics including:
//   - Pipeline metrics (items fetched, summaries, content fetches)
//   - Posting metrics (publish outcomes, truncations, weighted lengths)
//   - Database query metrics
//
// All metrics are automatically registered with the Prometheus default registry
// and exposed via the /metrics endpoint of the worker.
//
// Example usage:
//
//	import "digestpost/internal/observability/metrics"
//
//	func publish(source string) {
//	    start := time.Now()
//	    // ... post to X ...
//	    metrics.RecordPostPublished(true, time.Since(start), 270)
//	}
package metrics
