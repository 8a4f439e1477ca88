package repository

import (
	"context"

	"digestpost/internal/domain/entity"
)

// PostRepository persists published posts and answers dedup queries.
type PostRepository interface {
	// Record stores a published post. Recording the same article URL twice
	// returns entity.ErrAlreadyPosted.
	Record(ctx context.Context, post *entity.Post) error

	// ExistsByURL reports whether the article URL was already posted.
	ExistsByURL(ctx context.Context, url string) (bool, error)

	// ExistsByURLBatch はバッチでURL存在チェックを行い、N+1問題を解消する
	ExistsByURLBatch(ctx context.Context, urls []string) (map[string]bool, error)

	// ListRecent returns the most recently published posts, newest first.
	ListRecent(ctx context.Context, limit int) ([]*entity.Post, error)
}
