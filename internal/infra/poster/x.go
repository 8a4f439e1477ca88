package poster

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"digestpost/internal/resilience/circuitbreaker"
	"digestpost/internal/resilience/retry"
)

const defaultXAPIBaseURL = "https://api.x.com"

// XConfig contains configuration for the X API v2 posting client.
type XConfig struct {
	// Enabled indicates whether posting is enabled. When false the caller
	// should wire a NoOpPoster instead.
	Enabled bool

	// BaseURL is the API origin. Overridable for tests; defaults to
	// https://api.x.com.
	BaseURL string

	// BearerToken is the OAuth 2.0 user-context bearer token authorized for
	// tweet.write.
	BearerToken string

	// Timeout is the HTTP request timeout for X API calls.
	Timeout time.Duration
}

// XPoster publishes digests via the X API v2 POST /2/tweets endpoint.
// Requests are paced at 1 post per second and protected by a circuit breaker;
// retry behavior distinguishes 429 (honor retry_after), 4xx (fail fast), and
// 5xx (backoff and retry).
type XPoster struct {
	config         XConfig
	httpClient     *http.Client
	rateLimiter    *RateLimiter
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
}

// NewXPoster creates a new XPoster with the specified configuration.
func NewXPoster(config XConfig) *XPoster {
	if config.BaseURL == "" {
		config.BaseURL = defaultXAPIBaseURL
	}

	return &XPoster{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		rateLimiter:    NewRateLimiter(1.0, 1), // 1 post/s, no burst
		circuitBreaker: circuitbreaker.New(circuitbreaker.PostAPIConfig()),
		retryConfig:    retry.PostAPIConfig(),
	}
}

// tweetRequest is the JSON payload for POST /2/tweets.
type tweetRequest struct {
	Text string `json:"text"`
}

// tweetResponse is the success envelope returned by POST /2/tweets.
type tweetResponse struct {
	Data struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
}

// xErrorResponse is the error envelope returned by the X API.
type xErrorResponse struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Status int    `json:"status"`
}

// Post publishes the given text and returns the created post ID.
// This method implements the Poster interface.
func (x *XPoster) Post(ctx context.Context, text string) (string, error) {
	requestID := uuid.New().String()
	ctx = context.WithValue(ctx, requestIDKey, requestID)

	slog.Info("Starting X post",
		slog.String("request_id", requestID),
		slog.Int("text_bytes", len(text)))

	if err := x.rateLimiter.Allow(ctx); err != nil {
		slog.Error("Rate limiter error",
			slog.String("request_id", requestID),
			slog.Any("error", err))
		return "", fmt.Errorf("rate limiter error: %w", err)
	}

	return x.sendPostWithRetry(ctx, text)
}

// sendPostWithRetry sends the post with retry logic. 429 responses honor the
// retry_after duration from the API; 5xx responses back off exponentially;
// 4xx responses fail immediately.
func (x *XPoster) sendPostWithRetry(ctx context.Context, text string) (string, error) {
	maxAttempts := x.retryConfig.MaxAttempts
	baseDelay := x.retryConfig.InitialDelay

	requestID, _ := ctx.Value(requestIDKey).(string)

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		cbResult, err := x.circuitBreaker.Execute(func() (interface{}, error) {
			return x.sendPostRequest(ctx, text)
		})

		if err == nil {
			postID := cbResult.(string)
			slog.Info("X post successful",
				slog.String("request_id", requestID),
				slog.String("post_id", postID),
				slog.Int("attempt", attempt))
			return postID, nil
		}

		lastErr = err

		if errors.Is(err, gobreaker.ErrOpenState) {
			slog.Warn("x api circuit breaker open, request rejected",
				slog.String("request_id", requestID),
				slog.String("service", "post-api"),
				slog.String("state", x.circuitBreaker.State().String()))
			return "", fmt.Errorf("x api unavailable: circuit breaker open")
		}

		if rateLimitErr, ok := is429Error(err); ok {
			slog.Warn("X rate limit hit, backing off",
				slog.String("request_id", requestID),
				slog.Duration("retry_after", rateLimitErr.RetryAfter),
				slog.Int("attempt", attempt))

			select {
			case <-time.After(rateLimitErr.RetryAfter):
				continue
			case <-ctx.Done():
				return "", fmt.Errorf("context canceled during rate limit backoff: %w", ctx.Err())
			}
		}

		if !isRetryableError(err) {
			slog.Error("X post failed with non-retryable error",
				slog.String("request_id", requestID),
				slog.Any("error", err),
				slog.Int("attempt", attempt))
			return "", err
		}

		if attempt < maxAttempts {
			delay := baseDelay * time.Duration(attempt)
			slog.Warn("X API request failed, retrying",
				slog.String("request_id", requestID),
				slog.Any("error", err),
				slog.Int("attempt", attempt),
				slog.Duration("delay", delay))

			select {
			case <-time.After(delay):
				continue
			case <-ctx.Done():
				return "", fmt.Errorf("context canceled during retry backoff: %w", ctx.Err())
			}
		}
	}

	slog.Error("X post failed after all retries",
		slog.String("request_id", requestID),
		slog.Any("error", lastErr),
		slog.Int("max_attempts", maxAttempts))

	return "", fmt.Errorf("x post failed after %d attempts: %w", maxAttempts, lastErr)
}

// sendPostRequest performs a single POST /2/tweets call.
func (x *XPoster) sendPostRequest(ctx context.Context, text string) (string, error) {
	jsonData, err := json.Marshal(tweetRequest{Text: text})
	if err != nil {
		return "", fmt.Errorf("marshal tweet payload: %w", err)
	}

	endpoint := x.config.BaseURL + "/2/tweets"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("create http request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+x.config.BearerToken)

	resp, err := x.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		var tweet tweetResponse
		if err := json.Unmarshal(body, &tweet); err != nil {
			return "", fmt.Errorf("parse tweet response: %w", err)
		}
		if tweet.Data.ID == "" {
			return "", fmt.Errorf("tweet response missing post id")
		}
		return tweet.Data.ID, nil
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", &RateLimitError{
			Message:    "X rate limit exceeded",
			RetryAfter: extractRetryAfter(resp),
		}
	}

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return "", &ClientError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("X API client error: %s", apiErrorDetail(resp.StatusCode, body)),
		}
	}

	if resp.StatusCode >= 500 {
		return "", &ServerError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("X API server error: %s", apiErrorDetail(resp.StatusCode, body)),
		}
	}

	return "", fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
}

// apiErrorDetail extracts a readable message from an X API error body.
func apiErrorDetail(statusCode int, body []byte) string {
	var apiErr xErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fmt.Sprintf("HTTP %d: %s", statusCode, string(body))
}

// extractRetryAfter reads the rate-limit reset hint from response headers.
// x-rate-limit-reset is an epoch timestamp; Retry-After is seconds. Defaults
// to 60 seconds when neither is present.
func extractRetryAfter(resp *http.Response) time.Duration {
	if reset := resp.Header.Get("x-rate-limit-reset"); reset != "" {
		if epoch, err := strconv.ParseInt(reset, 10, 64); err == nil {
			if wait := time.Until(time.Unix(epoch, 0)); wait > 0 {
				return wait
			}
		}
	}

	if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
		if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}

	return 60 * time.Second
}
