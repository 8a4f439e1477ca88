// Package retry provides retry with exponential backoff and jitter for the
// external calls the pipeline makes: feed fetches, LLM APIs, the X posting
// API, and the posts database.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net"
	"net/http"
	"syscall"
	"time"
)

// Config holds the retry policy for one kind of call.
type Config struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int

	// InitialDelay is the delay before the first retry.
	InitialDelay time.Duration

	// MaxDelay caps the backoff growth.
	MaxDelay time.Duration

	// Multiplier grows the delay between attempts.
	Multiplier float64

	// JitterFraction is the fraction of delay added as random jitter (0-1).
	JitterFraction float64
}

func policy(maxAttempts int, initialDelay, maxDelay time.Duration) Config {
	return Config{
		MaxAttempts:    maxAttempts,
		InitialDelay:   initialDelay,
		MaxDelay:       maxDelay,
		Multiplier:     2.0,
		JitterFraction: 0.1,
	}
}

// DefaultConfig returns a general-purpose retry policy.
func DefaultConfig() Config {
	return policy(3, 1*time.Second, 30*time.Second)
}

// FeedFetchConfig is tuned for RSS fetching: feeds flake often and retries
// are cheap, so retry aggressively.
func FeedFetchConfig() Config {
	return policy(5, 1*time.Second, 30*time.Second)
}

// AIAPIConfig is tuned for LLM API calls: each attempt costs money, so
// retry moderately.
func AIAPIConfig() Config {
	return policy(3, 2*time.Second, 10*time.Second)
}

// DBConfig is tuned for the posts database: transient connection errors
// clear quickly, so retry fast.
func DBConfig() Config {
	return policy(3, 100*time.Millisecond, 1*time.Second)
}

// PostAPIConfig is tuned for the X posting API. Conservative: a duplicate
// post is worse than a missed one, so space attempts well apart.
func PostAPIConfig() Config {
	return policy(3, 5*time.Second, 60*time.Second)
}

// NewsletterConfig is tuned for newsletter archive scraping.
func NewsletterConfig() Config {
	return policy(3, 1*time.Second, 10*time.Second)
}

// WithBackoff runs fn until it succeeds, returns a non-retryable error, the
// context is canceled, or cfg.MaxAttempts is exhausted.
func WithBackoff(ctx context.Context, cfg Config, fn func() error) error {
	var lastErr error
	delay := cfg.InitialDelay

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			if attempt > 1 {
				slog.Info("operation succeeded after retry",
					slog.Int("attempt", attempt))
			}
			return nil
		}

		if !IsRetryable(lastErr) {
			slog.Warn("non-retryable error, aborting",
				slog.Int("attempt", attempt),
				slog.Any("error", lastErr))
			return lastErr
		}

		if attempt == cfg.MaxAttempts {
			break
		}

		slog.Warn("operation failed, retrying",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", cfg.MaxAttempts),
			slog.Duration("delay", delay),
			slog.Any("error", lastErr))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("retry aborted: %w", ctx.Err())
		}

		delay = time.Duration(float64(delay) * cfg.Multiplier)
		if delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
		delay = addJitter(delay, cfg.JitterFraction)
	}

	return fmt.Errorf("max retry attempts (%d) exceeded: %w", cfg.MaxAttempts, lastErr)
}

// IsRetryable reports whether an error is transient. Retryable: network
// timeouts, connection-level syscall errors, HTTP 5xx, 429 and 408.
// Everything else, context cancellation and HTTP 4xx in particular, is
// permanent.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ETIMEDOUT) ||
		errors.Is(err, syscall.ENETUNREACH) {
		return true
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		switch {
		case httpErr.StatusCode >= 500 && httpErr.StatusCode < 600:
			return true
		case httpErr.StatusCode == http.StatusTooManyRequests:
			return true
		case httpErr.StatusCode == http.StatusRequestTimeout:
			return true
		}
	}

	return false
}

// HTTPError carries an HTTP status code so IsRetryable can classify it.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// addJitter spreads retries out to avoid synchronized bursts.
// #nosec G404 -- backoff jitter does not need cryptographic randomness.
func addJitter(duration time.Duration, jitterFraction float64) time.Duration {
	if jitterFraction <= 0 {
		return duration
	}
	if jitterFraction > 1.0 {
		jitterFraction = 1.0
	}
	jitter := time.Duration(rand.Float64() * float64(duration) * jitterFraction)
	return duration + jitter
}
