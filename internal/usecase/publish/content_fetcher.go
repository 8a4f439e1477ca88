package publish

import (
	"context"
	"errors"
)

// ContentFetcher fetches full article content from URLs. It is used to
// enhance feed entries that only carry a short description, which improves
// summarization quality considerably.
//
// Implementations must prevent SSRF, enforce size limits and timeouts, and
// validate redirect targets; feed entries carry attacker-controllable links.
type ContentFetcher interface {
	// FetchContent fetches and extracts clean article text from the URL.
	// The caller falls back to the feed-provided content on any error.
	FetchContent(ctx context.Context, url string) (string, error)
}

// Sentinel errors for content fetching operations. They let callers
// distinguish failure modes and pick a fallback.
var (
	// ErrInvalidURL indicates the URL format is invalid or uses an
	// unsupported scheme. Only http:// and https:// are supported.
	ErrInvalidURL = errors.New("invalid URL or unsupported scheme")

	// ErrPrivateIP indicates the URL resolves to a private IP address.
	ErrPrivateIP = errors.New("private IP access denied (SSRF prevention)")

	// ErrTooManyRedirects indicates the redirect chain exceeded the maximum.
	ErrTooManyRedirects = errors.New("too many redirects")

	// ErrBodyTooLarge indicates the response body exceeded the size limit.
	ErrBodyTooLarge = errors.New("response body too large")

	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = errors.New("request timeout")

	// ErrReadabilityFailed indicates content extraction found nothing usable.
	// Callers should fall back to the feed-provided content.
	ErrReadabilityFailed = errors.New("content extraction failed")
)
