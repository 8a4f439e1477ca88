package metrics

import "time"

// RecordItemsFetched records the number of feed items fetched from a source.
func RecordItemsFetched(sourceName string, count int) {
	ItemsFetchedTotal.WithLabelValues(sourceName).Add(float64(count))
}

// RecordArticleSummarized records the result of an article summarization operation.
func RecordArticleSummarized(success bool) {
	status := "success"
	if !success {
		status = "failure"
	}
	ArticlesSummarizedTotal.WithLabelValues(status).Inc()
}

// RecordSummarizationDuration records the time taken to summarize an article.
func RecordSummarizationDuration(duration time.Duration) {
	SummarizationDuration.Observe(duration.Seconds())
}

// RecordSourceCrawl records metrics for one source crawl.
func RecordSourceCrawl(sourceName string, duration time.Duration, itemsFound int64) {
	SourceCrawlDuration.WithLabelValues(sourceName).Observe(duration.Seconds())
	if itemsFound > 0 {
		RecordItemsFetched(sourceName, int(itemsFound))
	}
}

// RecordSourceCrawlError records an error during source crawling.
func RecordSourceCrawlError(sourceName, errorType string) {
	SourceCrawlErrors.WithLabelValues(sourceName, errorType).Inc()
}

// RecordContentFetchSuccess records a successful content fetch operation.
func RecordContentFetchSuccess(duration time.Duration) {
	ContentFetchAttemptsTotal.WithLabelValues("success").Inc()
	ContentFetchDuration.Observe(duration.Seconds())
}

// RecordContentFetchFailed records a failed content fetch operation.
func RecordContentFetchFailed(duration time.Duration) {
	ContentFetchAttemptsTotal.WithLabelValues("failure").Inc()
	ContentFetchDuration.Observe(duration.Seconds())
}

// RecordContentFetchSkipped records a content fetch skipped because the feed
// entry already carried enough text.
func RecordContentFetchSkipped() {
	ContentFetchAttemptsTotal.WithLabelValues("skipped").Inc()
}

// RecordPostPublished records the outcome of a post attempt. Weighted length
// is only observed for successful posts.
func RecordPostPublished(success bool, duration time.Duration, weightedLength int) {
	status := "success"
	if !success {
		status = "failure"
	}
	PostsPublishedTotal.WithLabelValues(status).Inc()
	PostPublishDuration.Observe(duration.Seconds())
	if success {
		PostWeightedLength.Observe(float64(weightedLength))
	}
}

// RecordPostSkippedDuplicate records an article skipped because it was
// already posted.
func RecordPostSkippedDuplicate() {
	PostsPublishedTotal.WithLabelValues("skipped_duplicate").Inc()
}

// RecordPostTruncated records a post that had to be truncated to fit.
func RecordPostTruncated() {
	PostsTruncatedTotal.Inc()
}

// RecordDBQuery records the duration of a database query operation.
func RecordDBQuery(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// UpdateDBConnectionStats updates database connection pool statistics.
func UpdateDBConnectionStats(active, idle int) {
	DBConnectionsActive.Set(float64(active))
	DBConnectionsIdle.Set(float64(idle))
}
