// Package postgres provides PostgreSQL-backed repository implementations.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"digestpost/internal/domain/entity"
	"digestpost/internal/observability/metrics"
	"digestpost/internal/repository"
	"digestpost/internal/resilience/circuitbreaker"

	"github.com/jackc/pgx/v5/pgconn"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint
// violations.
const pgUniqueViolation = "23505"

// PostRepo persists published posts. Queries run through a circuit breaker
// so a failing database does not cascade into the posting pipeline, and each
// operation records a latency metric.
type PostRepo struct {
	db *circuitbreaker.DBCircuitBreaker
}

// NewPostRepo creates a PostRepo backed by the given database handle.
func NewPostRepo(db *sql.DB) repository.PostRepository {
	return &PostRepo{
		db: circuitbreaker.NewDBCircuitBreaker(db),
	}
}

// Record inserts a post row. The article URL carries a unique constraint;
// inserting a URL that is already recorded returns entity.ErrAlreadyPosted.
func (repo *PostRepo) Record(ctx context.Context, post *entity.Post) error {
	const query = `
INSERT INTO posts
	   (source_name, article_url, text, weighted_length, post_id, posted_at)
VALUES ($1, $2, $3, $4, $5, $6)`

	start := time.Now()
	_, err := repo.db.ExecContext(ctx, query,
		post.SourceName, post.ArticleURL, post.Text,
		post.WeightedLength, post.PostID, post.PostedAt,
	)
	metrics.RecordDBQuery("record_post", time.Since(start))

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return entity.ErrAlreadyPosted
		}
		return fmt.Errorf("Record: %w", err)
	}
	return nil
}

// ExistsByURL reports whether a post for the given article URL is recorded.
func (repo *PostRepo) ExistsByURL(ctx context.Context, url string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM posts WHERE article_url = $1)`

	start := time.Now()
	var existsFlag bool
	err := repo.db.QueryRowContext(ctx, query, url).Scan(&existsFlag)
	metrics.RecordDBQuery("exists_by_url", time.Since(start))

	if err != nil {
		return false, fmt.Errorf("ExistsByURL: %w", err)
	}
	return existsFlag, nil
}

// ExistsByURLBatch はバッチでURL存在チェックを行い、N+1問題を解消する
func (repo *PostRepo) ExistsByURLBatch(ctx context.Context, urls []string) (map[string]bool, error) {
	if len(urls) == 0 {
		return make(map[string]bool), nil
	}

	const query = `SELECT article_url FROM posts WHERE article_url = ANY($1)`

	start := time.Now()
	rows, err := repo.db.QueryContext(ctx, query, urls)
	metrics.RecordDBQuery("exists_by_url_batch", time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("ExistsByURLBatch: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string]bool)
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("ExistsByURLBatch: Scan: %w", err)
		}
		result[url] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ExistsByURLBatch: rows.Err: %w", err)
	}

	return result, nil
}

// ListRecent returns the most recently published posts, newest first.
func (repo *PostRepo) ListRecent(ctx context.Context, limit int) ([]*entity.Post, error) {
	const query = `
SELECT id, source_name, article_url, text, weighted_length, post_id, posted_at
FROM posts
ORDER BY posted_at DESC
LIMIT $1`

	start := time.Now()
	rows, err := repo.db.QueryContext(ctx, query, limit)
	metrics.RecordDBQuery("list_recent", time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("ListRecent: %w", err)
	}
	defer func() { _ = rows.Close() }()

	posts := make([]*entity.Post, 0, limit)
	for rows.Next() {
		var post entity.Post
		if err := rows.Scan(&post.ID, &post.SourceName, &post.ArticleURL,
			&post.Text, &post.WeightedLength, &post.PostID, &post.PostedAt); err != nil {
			return nil, fmt.Errorf("ListRecent: Scan: %w", err)
		}
		posts = append(posts, &post)
	}
	return posts, rows.Err()
}
