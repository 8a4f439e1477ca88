package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"digestpost/internal/pkg/config"
)

// WorkerMetrics provides Prometheus metrics for the worker component. It
// embeds the shared ConfigMetrics (configuration load/fallback tracking) and
// adds metrics for the scheduled publish job:
//
//   - worker_publish_runs_total: total runs by status (started/success/failure)
//   - worker_publish_duration_seconds: duration histogram of publish runs
//   - worker_publish_sources_processed_total: sources processed across runs
//   - worker_publish_posts_total: posts published across runs
//   - worker_publish_last_success_timestamp: Unix time of last successful run
type WorkerMetrics struct {
	*config.ConfigMetrics

	PublishRunsTotal            *prometheus.CounterVec
	PublishDurationSeconds      prometheus.Histogram
	PublishSourcesTotal         prometheus.Counter
	PublishPostsTotal           prometheus.Counter
	PublishLastSuccessTimestamp prometheus.Gauge
}

// NewWorkerMetrics creates a WorkerMetrics instance. Metrics are registered
// with the default registry via promauto on creation.
func NewWorkerMetrics() *WorkerMetrics {
	return &WorkerMetrics{
		ConfigMetrics: config.NewConfigMetrics("worker"),

		PublishRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_publish_runs_total",
			Help: "Total number of publish runs by status (started/success/failure)",
		}, []string{"status"}),

		PublishDurationSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name: "worker_publish_duration_seconds",
			Help: "Duration of publish runs in seconds",
			// 典型的な実行時間は数秒〜数分、タイムアウト上限は30分
			Buckets: []float64{1, 5, 30, 60, 300, 900, 1800},
		}),

		PublishSourcesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "worker_publish_sources_processed_total",
			Help: "Total number of sources processed across all publish runs",
		}),

		PublishPostsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "worker_publish_posts_total",
			Help: "Total number of posts published across all publish runs",
		}),

		PublishLastSuccessTimestamp: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "worker_publish_last_success_timestamp",
			Help: "Unix timestamp of the last successful publish run",
		}),
	}
}

// MustRegister is a no-op kept for call-site symmetry: promauto registers
// every metric at construction time.
func (m *WorkerMetrics) MustRegister() {}

// RecordJobRun increments the run counter for the given status
// ("started", "success" or "failure").
func (m *WorkerMetrics) RecordJobRun(status string) {
	m.PublishRunsTotal.WithLabelValues(status).Inc()
}

// RecordJobDuration observes the duration of a publish run in seconds.
func (m *WorkerMetrics) RecordJobDuration(seconds float64) {
	m.PublishDurationSeconds.Observe(seconds)
}

// RecordSourcesProcessed adds to the processed-sources counter.
func (m *WorkerMetrics) RecordSourcesProcessed(count int) {
	m.PublishSourcesTotal.Add(float64(count))
}

// RecordPostsPublished adds to the published-posts counter.
func (m *WorkerMetrics) RecordPostsPublished(count int64) {
	m.PublishPostsTotal.Add(float64(count))
}

// RecordLastSuccess records the current time as the last successful run.
func (m *WorkerMetrics) RecordLastSuccess() {
	m.PublishLastSuccessTimestamp.SetToCurrentTime()
}
