package publish

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"digestpost/internal/domain/entity"
	"digestpost/internal/observability/metrics"
	"digestpost/internal/repository"
	"digestpost/internal/utils/text"

	"golang.org/x/sync/errgroup"
)

const (
	summarizerParallelism = 5 // AI summarization parallelism (rate-limited)
	posterParallelism     = 1 // posts go out one at a time, in order
)

// FeedFetcher fetches items from a source URL. RSS feeds and newsletter
// archives both implement this.
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) ([]FeedItem, error)
}

// FeedItem represents a single item pulled from a source.
type FeedItem struct {
	Title       string
	URL         string
	Content     string
	PublishedAt time.Time
}

// Summarizer produces a short Japanese digest of article text.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// Poster publishes a post and returns the platform-assigned post ID.
type Poster interface {
	Post(ctx context.Context, text string) (string, error)
}

// URLNormalizer canonicalizes article URLs before dedup and posting.
type URLNormalizer interface {
	Normalize(ctx context.Context, rawURL string) string
}

// ContentFetchConfig controls content enhancement behavior.
type ContentFetchConfig struct {
	Parallelism int // maximum concurrent content fetches
	Threshold   int // minimum feed content length before fetching the full article
}

// Service orchestrates the publish pipeline for all configured sources.
type Service struct {
	Sources        []entity.Source
	PostRepo       repository.PostRepository
	FeedFetcher    FeedFetcher
	Scrapers       map[string]FeedFetcher
	ContentFetcher ContentFetcher
	Summarizer     Summarizer
	Poster         Poster
	Normalizer     URLNormalizer
	contentConfig  ContentFetchConfig
	maxLength      int
}

// NewService creates a publish Service.
//
// scrapers maps non-RSS source types to their fetchers and may be nil.
// contentFetcher and normalizer may be nil to disable enhancement and URL
// normalization respectively. maxLength <= 0 means the default X limit.
func NewService(
	sources []entity.Source,
	postRepo repository.PostRepository,
	feedFetcher FeedFetcher,
	scrapers map[string]FeedFetcher,
	contentFetcher ContentFetcher,
	summarizer Summarizer,
	poster Poster,
	normalizer URLNormalizer,
	contentConfig ContentFetchConfig,
	maxLength int,
) Service {
	if maxLength <= 0 {
		maxLength = text.DefaultMaxLength
	}
	if contentConfig.Parallelism <= 0 {
		contentConfig.Parallelism = 1
	}
	return Service{
		Sources:        sources,
		PostRepo:       postRepo,
		FeedFetcher:    feedFetcher,
		Scrapers:       scrapers,
		ContentFetcher: contentFetcher,
		Summarizer:     summarizer,
		Poster:         poster,
		Normalizer:     normalizer,
		contentConfig:  contentConfig,
		maxLength:      maxLength,
	}
}

// PublishStats contains statistics about one pipeline run.
type PublishStats struct {
	Sources        int
	Items          int64
	Duplicated     int64
	SummarizeError int64
	Posted         int64
	PostErrors     int64
	Truncated      int64
	Duration       time.Duration
}

// PublishAll runs the pipeline for every active source:
// fetch → normalize URLs → dedupe → enhance → summarize → compose → post →
// record. Per-source failures are logged and skipped so one broken feed
// never blocks the rest.
func (s *Service) PublishAll(ctx context.Context) (*PublishStats, error) {
	logger := slog.Default()
	startAll := time.Now()
	stats := &PublishStats{}

	for i := range s.Sources {
		src := &s.Sources[i]
		if !src.Active {
			continue
		}
		stats.Sources++

		if err := s.processSingleSource(ctx, src, stats); err != nil {
			return stats, err
		}
	}

	stats.Duration = time.Since(startAll)
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

	return stats, nil
}

// selectFetcher chooses the fetcher for the source type, falling back to RSS
// for empty or unknown types.
func (s *Service) selectFetcher(src *entity.Source) FeedFetcher {
	if src.SourceType == "" || src.SourceType == entity.SourceTypeRSS {
		return s.FeedFetcher
	}

	if s.Scrapers != nil {
		if fetcher, exists := s.Scrapers[src.SourceType]; exists {
			return fetcher
		}
	}

	slog.Warn("unknown source type, falling back to RSS fetcher",
		slog.String("source_type", src.SourceType),
		slog.String("source_name", src.Name))
	return s.FeedFetcher
}

// processSingleSource fetches one source, drops already-posted items, and
// publishes the rest. Fetch and dedup failures are logged and skipped unless
// the context was canceled; repository write failures abort the run. Stage
// failures are wrapped in their sentinel (ErrFeedFetchFailed and friends) so
// callers can tell which stage broke.
func (s *Service) processSingleSource(ctx context.Context, src *entity.Source, stats *PublishStats) error {
	logger := slog.Default()
	sourceStart := time.Now()

	fetcher := s.selectFetcher(src)
	feedItems, err := fetcher.Fetch(ctx, src.FeedURL)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrFeedFetchFailed, err)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		logger.Warn("failed to fetch feed",
			slog.String("source_name", src.Name),
			slog.String("feed_url", src.FeedURL),
			slog.Any("error", err))
		metrics.RecordSourceCrawlError(src.Name, "fetch_failed")
		return nil
	}

	if len(feedItems) == 0 {
		logger.Info("feed is empty",
			slog.String("source_name", src.Name),
			slog.String("feed_url", src.FeedURL))
		return nil
	}

	// Feed links are often redirect wrappers; canonicalize before dedup so
	// the same article never posts twice under different URLs.
	if s.Normalizer != nil {
		for i := range feedItems {
			feedItems[i].URL = s.Normalizer.Normalize(ctx, feedItems[i].URL)
		}
	}

	// N+1問題解消: 事前に全URLをバッチで存在チェック
	urls := make([]string, 0, len(feedItems))
	for _, item := range feedItems {
		urls = append(urls, item.URL)
	}
	existsMap, err := s.PostRepo.ExistsByURLBatch(ctx, urls)
	if err != nil {
		logger.Warn("failed to batch check URLs",
			slog.String("source_name", src.Name),
			slog.Any("error", err))
		metrics.RecordSourceCrawlError(src.Name, "batch_check_failed")
		return nil
	}

	if err := s.processFeedItems(ctx, src, feedItems, existsMap, stats); err != nil {
		metrics.RecordSourceCrawlError(src.Name, "process_items_failed")
		return fmt.Errorf("process feed items: %w", err)
	}

	now := time.Now()
	src.LastCrawledAt = &now

	sourceDuration := time.Since(sourceStart)
	metrics.RecordSourceCrawl(src.Name, sourceDuration, int64(len(feedItems)))

	logger.Info("source processed",
		slog.String("source_name", src.Name),
		slog.Int("feed_items", len(feedItems)),
		slog.Duration("duration", sourceDuration),
	)

	return nil
}

// processFeedItems publishes all new items from a source in parallel.
// Three-tier parallelism: configurable concurrent content fetches, 5
// concurrent AI summarizations, and strictly serialized posting.
//
// Error handling:
//   - Context cancellation propagates immediately and aborts the run.
//   - Repository write errors propagate (the dedup store must stay correct).
//   - Summarization and posting errors are logged and counted; other items
//     keep flowing.
func (s *Service) processFeedItems(
	ctx context.Context,
	src *entity.Source,
	feedItems []FeedItem,
	existsMap map[string]bool,
	stats *PublishStats,
) error {
	contentSem := make(chan struct{}, s.contentConfig.Parallelism)
	summarySem := make(chan struct{}, summarizerParallelism)
	postSem := make(chan struct{}, posterParallelism)
	eg, egCtx := errgroup.WithContext(ctx)

	for _, feedItem := range feedItems {
		item := feedItem

		atomic.AddInt64(&stats.Items, 1)

		if item.URL == "" {
			continue
		}

		// 既に投稿済みのURLはスキップ
		if existsMap[item.URL] {
			atomic.AddInt64(&stats.Duplicated, 1)
			metrics.RecordPostSkippedDuplicate()
			continue
		}

		eg.Go(func() error {
			// Step 1: content enhancement (higher parallelism, I/O-bound)
			contentSem <- struct{}{}
			content := s.enhanceContent(egCtx, item)
			<-contentSem

			// Step 2: AI summarization (lower parallelism, rate-limited)
			summarySem <- struct{}{}
			summaryStart := time.Now()
			summary, err := s.Summarizer.Summarize(egCtx, content)
			summaryDuration := time.Since(summaryStart)
			<-summarySem

			if err != nil {
				err = fmt.Errorf("%w: %w", ErrSummarizationFailed, err)
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}

				atomic.AddInt64(&stats.SummarizeError, 1)
				metrics.RecordArticleSummarized(false)
				metrics.RecordSummarizationDuration(summaryDuration)

				slog.Warn("summarization failed, skipping article",
					slog.String("source_name", src.Name),
					slog.String("url", item.URL),
					slog.String("title", item.Title),
					slog.Any("error", err))
				return nil
			}

			metrics.RecordArticleSummarized(true)
			metrics.RecordSummarizationDuration(summaryDuration)

			// Step 3: compose within the weighted limit
			postText, wasTruncated := ComposePost(summary, item.URL, s.maxLength)
			if wasTruncated {
				atomic.AddInt64(&stats.Truncated, 1)
				metrics.RecordPostTruncated()
			}

			// Step 4: publish, one post at a time
			postSem <- struct{}{}
			defer func() { <-postSem }()

			postStart := time.Now()
			postID, err := s.Poster.Post(egCtx, postText)
			postDuration := time.Since(postStart)
			weighted := text.WeightedLength(postText)

			if err != nil {
				err = fmt.Errorf("%w: %w", ErrPostFailed, err)
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}

				atomic.AddInt64(&stats.PostErrors, 1)
				metrics.RecordPostPublished(false, postDuration, 0)

				slog.Warn("post failed, skipping article",
					slog.String("source_name", src.Name),
					slog.String("url", item.URL),
					slog.Any("error", err))
				return nil
			}

			metrics.RecordPostPublished(true, postDuration, weighted)

			// Step 5: record for dedup
			post := &entity.Post{
				SourceName:     src.Name,
				ArticleURL:     item.URL,
				Text:           postText,
				WeightedLength: weighted,
				PostID:         postID,
				PostedAt:       time.Now(),
			}
			if err := s.PostRepo.Record(egCtx, post); err != nil {
				if errors.Is(err, entity.ErrAlreadyPosted) {
					atomic.AddInt64(&stats.Duplicated, 1)
					return nil
				}
				return fmt.Errorf("record post in repository: %w", err)
			}
			atomic.AddInt64(&stats.Posted, 1)

			return nil
		})
	}

	return eg.Wait()
}

// enhanceContent fetches the full article when the feed entry is too thin.
// It never returns an error: any failure falls back to the feed content so
// enhancement problems cannot break the pipeline.
func (s *Service) enhanceContent(ctx context.Context, item FeedItem) string {
	logger := slog.Default()

	if s.ContentFetcher == nil {
		return item.Content
	}

	feedLength := len(item.Content)
	if feedLength >= s.contentConfig.Threshold {
		logger.Debug("feed content sufficient, skipping fetch",
			slog.String("url", item.URL),
			slog.Int("feed_length", feedLength),
			slog.Int("threshold", s.contentConfig.Threshold))
		metrics.RecordContentFetchSkipped()
		return item.Content
	}

	fetchStart := time.Now()
	fullContent, err := s.ContentFetcher.FetchContent(ctx, item.URL)
	fetchDuration := time.Since(fetchStart)

	if err != nil {
		logger.Warn("content fetch failed, using feed content",
			slog.String("url", item.URL),
			slog.Any("error", err),
			slog.Duration("fetch_duration", fetchDuration))
		metrics.RecordContentFetchFailed(fetchDuration)
		return item.Content
	}

	metrics.RecordContentFetchSuccess(fetchDuration)

	// A shorter extraction usually means the extractor found boilerplate
	// instead of the article.
	if len(fullContent) > feedLength {
		return fullContent
	}
	return item.Content
}
