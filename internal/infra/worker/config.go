package worker

import (
	"fmt"
	"log/slog"
	"time"

	"digestpost/internal/pkg/config"
)

// WorkerConfig controls the scheduled publish pipeline: when it runs, how
// long a run may take, and where the operational HTTP endpoints listen.
//
// All fields have defaults and validation rules. LoadConfigFromEnv applies a
// fail-open strategy, so the worker starts with usable values even when the
// environment is misconfigured.
type WorkerConfig struct {
	// CronSchedule is the cron expression for the publish job.
	// Example: "30 5 * * *" (every day at 5:30).
	CronSchedule string

	// Timezone is the IANA timezone name used for cron scheduling.
	// Example: "Asia/Tokyo", "UTC".
	Timezone string

	// PublishTimeout is the maximum duration of a single publish run.
	// The run is cancelled via context when it elapses.
	PublishTimeout time.Duration

	// HealthPort is the port for the health check HTTP server (1024-65535).
	HealthPort int

	// MetricsPort is the port for the Prometheus metrics HTTP server
	// (1024-65535).
	MetricsPort int
}

// DefaultConfig returns a WorkerConfig with production defaults: a daily run
// at 5:30 JST, a 30-minute run timeout, and the usual exporter ports.
func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		CronSchedule:   "30 5 * * *",
		Timezone:       "Asia/Tokyo",
		PublishTimeout: 30 * time.Minute,
		HealthPort:     9091,
		MetricsPort:    9090,
	}
}

// Validate checks every field and returns all violations together.
func (c *WorkerConfig) Validate() error {
	var errs []error

	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errs = append(errs, fmt.Errorf("cron schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := config.ValidatePositiveDuration(c.PublishTimeout); err != nil {
		errs = append(errs, fmt.Errorf("publish timeout: %w", err))
	}
	if err := config.ValidateIntRange(c.HealthPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}
	if err := config.ValidateIntRange(c.MetricsPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("metrics port: %w", err))
	}
	if c.HealthPort == c.MetricsPort {
		errs = append(errs, fmt.Errorf("health port and metrics port must differ: %d", c.HealthPort))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %v", errs)
	}
	return nil
}

// LoadConfigFromEnv loads the worker configuration from environment
// variables with fallback to defaults.
//
// Fail-open strategy: each field is validated independently; an invalid
// value falls back to its default, logs a warning, and increments the
// fallback metrics. The returned configuration is always valid and the
// error is always nil.
//
// Environment variables:
//   - CRON_SCHEDULE: cron expression (default "30 5 * * *")
//   - WORKER_TIMEZONE: IANA timezone name (default "Asia/Tokyo")
//   - PUBLISH_TIMEOUT: duration string, 1m-4h (default 30m)
//   - WORKER_HEALTH_PORT: integer 1024-65535 (default 9091)
//   - METRICS_PORT: integer 1024-65535 (default 9090)
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics) (*WorkerConfig, error) {
	cfg := DefaultConfig()
	fallbackApplied := false

	recordFallback := func(field, envKey string, warnings []string) {
		fallbackApplied = true
		metrics.RecordValidationError(field)
		metrics.RecordFallback(field, "default")
		for _, warning := range warnings {
			logger.Warn("configuration fallback applied",
				slog.String("field", field),
				slog.String("env_key", envKey),
				slog.String("warning", warning))
		}
	}

	result := config.LoadEnvWithFallback("CRON_SCHEDULE", cfg.CronSchedule, config.ValidateCronSchedule)
	cfg.CronSchedule = result.Value.(string)
	if result.FallbackApplied {
		recordFallback("cron_schedule", "CRON_SCHEDULE", result.Warnings)
	}

	result = config.LoadEnvWithFallback("WORKER_TIMEZONE", cfg.Timezone, config.ValidateTimezone)
	cfg.Timezone = result.Value.(string)
	if result.FallbackApplied {
		recordFallback("timezone", "WORKER_TIMEZONE", result.Warnings)
	}

	result = config.LoadEnvDuration("PUBLISH_TIMEOUT", cfg.PublishTimeout, func(d time.Duration) error {
		return config.ValidateDuration(d, 1*time.Minute, 4*time.Hour)
	})
	cfg.PublishTimeout = result.Value.(time.Duration)
	if result.FallbackApplied {
		recordFallback("publish_timeout", "PUBLISH_TIMEOUT", result.Warnings)
	}

	result = config.LoadEnvInt("WORKER_HEALTH_PORT", cfg.HealthPort, func(v int) error {
		return config.ValidateIntRange(v, 1024, 65535)
	})
	cfg.HealthPort = result.Value.(int)
	if result.FallbackApplied {
		recordFallback("health_port", "WORKER_HEALTH_PORT", result.Warnings)
	}

	result = config.LoadEnvInt("METRICS_PORT", cfg.MetricsPort, func(v int) error {
		return config.ValidateIntRange(v, 1024, 65535)
	})
	cfg.MetricsPort = result.Value.(int)
	if result.FallbackApplied {
		recordFallback("metrics_port", "METRICS_PORT", result.Warnings)
	}

	metrics.SetFallbackActive("", fallbackApplied)
	metrics.RecordLoadTimestamp()

	return &cfg, nil
}
