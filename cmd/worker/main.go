// Command worker runs the digest pipeline on a cron schedule: crawl the
// configured sources, summarize new articles in Japanese, and publish them
// to X with weighted-length validation.
package main

import (
	"context"
	"crypto/tls"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"digestpost/internal/config"
	pgRepo "digestpost/internal/infra/adapter/persistence/postgres"
	"digestpost/internal/infra/db"
	"digestpost/internal/infra/fetcher"
	"digestpost/internal/infra/poster"
	"digestpost/internal/infra/scraper"
	"digestpost/internal/infra/summarizer"
	"digestpost/internal/infra/urlnorm"
	workerPkg "digestpost/internal/infra/worker"
	"digestpost/internal/usecase/publish"
)

func main() {
	logger := initLogger()

	database := initDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load worker configuration (fail-open strategy)
	workerMetrics := workerPkg.NewWorkerMetrics()
	workerMetrics.MustRegister()
	workerConfig, err := workerPkg.LoadConfigFromEnv(logger, workerMetrics)
	if err != nil {
		logger.Error("failed to load worker configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", workerConfig.CronSchedule),
		slog.String("timezone", workerConfig.Timezone),
		slog.Duration("publish_timeout", workerConfig.PublishTimeout),
		slog.Int("health_port", workerConfig.HealthPort),
		slog.Int("metrics_port", workerConfig.MetricsPort))

	db.StartPoolStatsReporter(ctx, database, 30*time.Second)

	startMetricsServer(ctx, logger, workerConfig.MetricsPort)

	healthAddr := fmt.Sprintf(":%d", workerConfig.HealthPort)
	healthServer := workerPkg.NewHealthServer(healthAddr, logger)
	go func() {
		if err := healthServer.Start(ctx); err != nil && err != http.ErrServerClosed {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()

	svc := setupPublishService(logger, database)

	startCronWorker(ctx, logger, svc, workerConfig, workerMetrics, healthServer)
}

// initLogger initializes the structured JSON logger. LOG_LEVEL=debug enables
// debug output.
func initLogger() *slog.Logger {
	logLevel := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

// initDatabase opens the connection pool and applies migrations.
func initDatabase(logger *slog.Logger) *sql.DB {
	database := db.Open()
	if err := db.MigrateUp(database); err != nil {
		logger.Error("failed to apply migrations", slog.Any("error", err))
		os.Exit(1)
	}
	return database
}

// setupPublishService wires the full pipeline: source list, post history,
// feed fetchers, content enhancement, summarizer, URL normalizer and poster.
func setupPublishService(logger *slog.Logger, database *sql.DB) *publish.Service {
	sources, err := config.LoadSourcesFromEnv()
	if err != nil {
		logger.Error("failed to load sources", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("sources loaded", slog.Int("count", len(sources)))

	postRepo := pgRepo.NewPostRepo(database)

	feedFetcher := scraper.NewRSSFetcher(createHTTPClient(30 * time.Second))

	scraperFactory := scraper.NewScraperFactory(createHTTPClient(10 * time.Second))
	scrapers := scraperFactory.CreateScrapers()
	logger.Info("scrapers initialized", slog.Int("count", len(scrapers)))

	contentFetchConfig, err := fetcher.LoadConfigFromEnv()
	if err != nil {
		logger.Error("failed to load content fetch configuration", slog.Any("error", err))
		logger.Warn("content fetching disabled due to configuration error")
		contentFetchConfig = fetcher.DefaultConfig()
		contentFetchConfig.Enabled = false
	}

	var contentFetcher publish.ContentFetcher
	if contentFetchConfig.Enabled {
		contentFetcher = fetcher.NewReadabilityFetcher(contentFetchConfig)
		logger.Info("content fetching enabled",
			slog.Int("threshold", contentFetchConfig.Threshold),
			slog.Int("parallelism", contentFetchConfig.Parallelism),
			slog.Duration("timeout", contentFetchConfig.Timeout))
	} else {
		logger.Info("content fetching disabled")
	}

	normalizer := urlnorm.New(urlnorm.DefaultConfig())

	svc := publish.NewService(
		sources,
		postRepo,
		feedFetcher,
		scrapers,
		contentFetcher,
		createSummarizer(logger),
		createPoster(logger),
		normalizer,
		publish.ContentFetchConfig{
			Parallelism: contentFetchConfig.Parallelism,
			Threshold:   contentFetchConfig.Threshold,
		},
		0, // default X weighted limit
	)
	return &svc
}

// createSummarizer selects the summarizer backend via SUMMARIZER_TYPE
// (claude, openai, or noop; default claude).
func createSummarizer(logger *slog.Logger) publish.Summarizer {
	summarizerType := os.Getenv("SUMMARIZER_TYPE")
	if summarizerType == "" {
		summarizerType = "claude"
	}

	switch summarizerType {
	case "claude":
		apiKey := os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			logger.Error("ANTHROPIC_API_KEY is required when SUMMARIZER_TYPE=claude")
			os.Exit(1)
		}
		logger.Info("using Claude API for summarization", slog.String("type", "claude"))
		return summarizer.NewClaude(apiKey)
	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			logger.Error("OPENAI_API_KEY is required when SUMMARIZER_TYPE=openai")
			os.Exit(1)
		}
		cfg, err := summarizer.LoadOpenAIConfig()
		if err != nil {
			logger.Error("failed to load OpenAI configuration", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("using OpenAI API for summarization",
			slog.String("type", "openai"),
			slog.Int("character_limit", cfg.GetCharacterLimit()))
		return summarizer.NewOpenAI(apiKey, cfg)
	case "noop":
		logger.Warn("using no-op summarizer, digests will be raw article excerpts")
		return summarizer.NewNoOp()
	default:
		logger.Error("invalid SUMMARIZER_TYPE",
			slog.String("type", summarizerType),
			slog.String("expected", "claude, openai or noop"))
		os.Exit(1)
		return nil
	}
}

// createPoster returns the X poster when posting is enabled, or a dry-run
// poster otherwise.
//
// Environment variables:
//   - X_POSTING_ENABLED: "true" to post for real (default: dry run)
//   - X_BEARER_TOKEN: OAuth 2.0 bearer token with tweet.write scope
//   - X_API_BASE_URL: override of the API origin, used in tests
func createPoster(logger *slog.Logger) publish.Poster {
	if os.Getenv("X_POSTING_ENABLED") != "true" {
		logger.Info("X posting disabled, using dry-run poster")
		return poster.NewNoOpPoster()
	}

	bearerToken := os.Getenv("X_BEARER_TOKEN")
	if bearerToken == "" {
		logger.Error("X_BEARER_TOKEN is required when X_POSTING_ENABLED=true")
		os.Exit(1)
	}

	logger.Info("X posting enabled")
	return poster.NewXPoster(poster.XConfig{
		Enabled:     true,
		BaseURL:     os.Getenv("X_API_BASE_URL"),
		BearerToken: bearerToken,
		Timeout:     30 * time.Second,
	})
}

// createHTTPClient creates an HTTP client with connection pooling and
// TLS 1.2+ enforced.
func createHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
	}
}

// startCronWorker schedules the publish job and blocks until ctx is
// cancelled. PUBLISH_ON_START=true additionally runs one job immediately,
// which is how one-shot container runs are driven.
func startCronWorker(ctx context.Context, logger *slog.Logger, svc *publish.Service, cfg *workerPkg.WorkerConfig, metrics *workerPkg.WorkerMetrics, healthServer *workerPkg.HealthServer) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("invalid timezone, using UTC", slog.String("timezone", cfg.Timezone), slog.Any("error", err))
		loc = time.UTC
	}
	c := cron.New(cron.WithLocation(loc))

	_, err = c.AddFunc(cfg.CronSchedule, func() {
		runPublishJob(ctx, logger, svc, cfg, metrics)
	})
	if err != nil {
		logger.Error("failed to add cron job", slog.Any("error", err))
		os.Exit(1)
	}
	c.Start()

	healthServer.SetReady(true)
	logger.Info("worker started",
		slog.String("schedule", cfg.CronSchedule),
		slog.String("timezone", cfg.Timezone))

	if os.Getenv("PUBLISH_ON_START") == "true" {
		runPublishJob(ctx, logger, svc, cfg, metrics)
	}

	<-ctx.Done()
	logger.Info("worker shutting down")
	healthServer.SetReady(false)

	stopCtx := c.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(cfg.PublishTimeout):
		logger.Warn("timed out waiting for running job to finish")
	}
}

// runPublishJob executes a single publish run with timeout and metrics.
func runPublishJob(ctx context.Context, logger *slog.Logger, svc *publish.Service, cfg *workerPkg.WorkerConfig, metrics *workerPkg.WorkerMetrics) {
	startTime := time.Now()
	metrics.RecordJobRun("started")
	logger.Info("publish run started")

	runCtx, cancel := context.WithTimeout(ctx, cfg.PublishTimeout)
	defer cancel()

	stats, err := svc.PublishAll(runCtx)
	if err != nil {
		logger.Error("publish run failed", slog.Any("error", err))
		metrics.RecordJobRun("failure")
		metrics.RecordJobDuration(time.Since(startTime).Seconds())
		return
	}

	metrics.RecordJobRun("success")
	metrics.RecordJobDuration(time.Since(startTime).Seconds())
	metrics.RecordSourcesProcessed(stats.Sources)
	metrics.RecordPostsPublished(stats.Posted)
	metrics.RecordLastSuccess()

	logger.Info("publish run completed",
		slog.Int("sources", stats.Sources),
		slog.Int64("items", stats.Items),
		slog.Int64("duplicated", stats.Duplicated),
		slog.Int64("summarize_errors", stats.SummarizeError),
		slog.Int64("posted", stats.Posted),
		slog.Int64("post_errors", stats.PostErrors),
		slog.Int64("truncated", stats.Truncated),
		slog.Duration("duration", stats.Duration),
	)
}
