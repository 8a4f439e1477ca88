// Package publish implements the pipeline that turns feed items into posts:
// fetch items from every configured source, drop the ones already posted,
// enhance thin content, summarize in Japanese, compose a post that fits X's
// weighted limit, publish it, and record the result for dedup.
package publish

import "errors"

// Sentinel errors for publish pipeline operations.
var (
	// ErrFeedFetchFailed indicates that fetching items from a source failed.
	ErrFeedFetchFailed = errors.New("failed to fetch feed from source")

	// ErrSummarizationFailed indicates that AI summarization of an article failed.
	ErrSummarizationFailed = errors.New("failed to summarize article content")

	// ErrPostFailed indicates that publishing a post to X failed.
	ErrPostFailed = errors.New("failed to publish post")
)
