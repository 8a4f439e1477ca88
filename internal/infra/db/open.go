// Package db opens the posts-history database and owns its schema.
package db

import (
	"context"
	"database/sql"
	"log"
	"log/slog"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"digestpost/internal/observability/metrics"
	"digestpost/internal/pkg/config"
)

// ConnectionConfig holds the connection pool settings.
type ConnectionConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DefaultConnectionConfig returns pool settings sized for the worker's
// burst profile: one scheduled run a day with short parallel dedup queries.
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		MaxOpenConns:    25,
		MaxIdleConns:    10,
		ConnMaxLifetime: 1 * time.Hour,
		ConnMaxIdleTime: 30 * time.Minute,
	}
}

// Open connects to the database named by DATABASE_URL, applies the pool
// settings, and verifies connectivity. Failures are fatal since nothing
// works without the posts history.
func Open() *sql.DB {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatal(err)
	}

	cfg := getConnectionConfigFromEnv()
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	slog.Info("database connection pool configured",
		slog.Int("max_open_conns", cfg.MaxOpenConns),
		slog.Int("max_idle_conns", cfg.MaxIdleConns),
		slog.Duration("conn_max_lifetime", cfg.ConnMaxLifetime),
		slog.Duration("conn_max_idle_time", cfg.ConnMaxIdleTime))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("failed to ping database: %v", err)
	}

	slog.Info("database connection established successfully")
	return db
}

// getConnectionConfigFromEnv loads pool overrides fail-open: invalid values
// silently keep the defaults.
func getConnectionConfigFromEnv() ConnectionConfig {
	defaults := DefaultConnectionConfig()

	positiveInt := func(v int) error { return config.ValidateIntRange(v, 1, 1000) }

	return ConnectionConfig{
		MaxOpenConns: config.LoadEnvInt(
			"DB_MAX_OPEN_CONNS", defaults.MaxOpenConns, positiveInt).Value.(int),
		MaxIdleConns: config.LoadEnvInt(
			"DB_MAX_IDLE_CONNS", defaults.MaxIdleConns, positiveInt).Value.(int),
		ConnMaxLifetime: config.LoadEnvDuration(
			"DB_CONN_MAX_LIFETIME", defaults.ConnMaxLifetime, config.ValidatePositiveDuration).Value.(time.Duration),
		ConnMaxIdleTime: config.LoadEnvDuration(
			"DB_CONN_MAX_IDLE_TIME", defaults.ConnMaxIdleTime, config.ValidatePositiveDuration).Value.(time.Duration),
	}
}

// StartPoolStatsReporter periodically exports connection pool statistics as
// gauges until the context is canceled.
func StartPoolStatsReporter(ctx context.Context, db *sql.DB, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				stats := db.Stats()
				metrics.UpdateDBConnectionStats(stats.InUse, stats.Idle)
			}
		}
	}()
}
