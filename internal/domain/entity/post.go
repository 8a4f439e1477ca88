package entity

import "time"

// Post records an article that was published to X. It doubles as the dedup
// key: an article whose URL already has a Post row is never posted again.
type Post struct {
	ID             int64
	SourceName     string
	ArticleURL     string
	Text           string
	WeightedLength int
	PostID         string
	PostedAt       time.Time
}
