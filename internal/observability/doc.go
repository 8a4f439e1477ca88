// Package observability centralizes monitoring infrastructure for the
// digest pipeline.
//
// Subpackages:
//   - metrics: Prometheus metrics registry and recorders for the
//     fetch → summarize → post flow and the database layer
//
// Structured logging is done directly with log/slog; the worker entrypoint
// configures a JSON handler and installs it as the default logger.
//
// Example usage:
//
//	import "digestpost/internal/observability/metrics"
//
//	func process(source string) {
//	    metrics.RecordItemsFetched(source, 10)
//	}
package observability
