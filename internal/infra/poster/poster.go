// Package poster provides posting clients for publishing composed digests.
// It includes an X API v2 client with rate limiting, retry, and circuit
// breaker protection, plus a no-op client for dry runs.
package poster

import "context"

// Poster is an interface for publishing a post and returning its platform ID.
// Implementations handle rate limiting, retries, and error logging internally.
type Poster interface {
	// Post publishes the given text and returns the platform-assigned post ID.
	// The text must already be validated against the platform's length rules.
	Post(ctx context.Context, text string) (string, error)
}
