package db

import (
	"database/sql"
)

// MigrateUp creates the posts table and its indexes. The unique constraint
// on article_url is what makes duplicate detection safe under concurrent
// runs: the insert, not the pre-check, is the source of truth.
func MigrateUp(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS posts (
    id              BIGSERIAL PRIMARY KEY,
    source_name     TEXT NOT NULL,
    article_url     TEXT NOT NULL UNIQUE,
    text            TEXT NOT NULL,
    weighted_length INTEGER NOT NULL,
    post_id         TEXT,
    posted_at       TIMESTAMPTZ NOT NULL DEFAULT now()
)`); err != nil {
		return err
	}

	// パフォーマンス最適化: インデックス追加
	indexes := []string{
		// ORDER BY posted_at DESC で使用
		`CREATE INDEX IF NOT EXISTS idx_posts_posted_at ON posts(posted_at DESC)`,
		// ソース別の投稿履歴取得用
		`CREATE INDEX IF NOT EXISTS idx_posts_source_name ON posts(source_name)`,
	}
	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return err
		}
	}

	return nil
}

// MigrateDown drops the posts table. Use with caution: this deletes the
// entire posting history, and with it the duplicate protection.
func MigrateDown(db *sql.DB) error {
	dropStatements := []string{
		`DROP INDEX IF EXISTS idx_posts_posted_at`,
		`DROP INDEX IF EXISTS idx_posts_source_name`,
		`DROP TABLE IF EXISTS posts CASCADE`,
	}

	for _, stmt := range dropStatements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
