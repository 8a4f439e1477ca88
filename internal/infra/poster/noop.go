package poster

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// NoOpPoster is a no-operation implementation of the Poster interface.
// It is used for dry runs and when posting is disabled, logging what would
// have been posted and returning a synthetic post ID.
type NoOpPoster struct{}

// NewNoOpPoster creates a new NoOpPoster instance.
func NewNoOpPoster() *NoOpPoster {
	return &NoOpPoster{}
}

// Post logs the text and returns a synthetic ID without calling any API.
func (n *NoOpPoster) Post(_ context.Context, text string) (string, error) {
	id := "dry-run-" + uuid.New().String()
	slog.Info("dry run: post suppressed",
		slog.String("post_id", id),
		slog.String("text", text))
	return id, nil
}
