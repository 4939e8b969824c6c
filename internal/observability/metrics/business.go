package metrics

import (
	"fmt"
	"time"
)

// RecordFeedPoll records metrics for one completed feed poll: how long the
// poll took and how many new articles it produced.
func RecordFeedPoll(feedID int64, duration time.Duration, inserted int64) {
	label := fmt.Sprintf("%d", feedID)
	FeedPollDuration.WithLabelValues(label).Observe(duration.Seconds())
	if inserted > 0 {
		ArticlesIngestedTotal.WithLabelValues(label).Add(float64(inserted))
	}
}

// RecordFeedPollError records an error during feed polling.
// Error types are "timeout", "fetch" and "parse".
func RecordFeedPollError(feedID int64, errorType string) {
	FeedPollErrors.WithLabelValues(
		fmt.Sprintf("%d", feedID),
		errorType,
	).Inc()
}

// RecordArticleSummarized records the result of an article summarization.
// Status is either "success" or "failure".
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

// RecordContentFetchSuccess records a successful content fetch.
func RecordContentFetchSuccess(duration time.Duration) {
	ContentFetchAttemptsTotal.WithLabelValues("success").Inc()
	ContentFetchDuration.Observe(duration.Seconds())
}

// RecordContentFetchFailed records a failed content fetch.
func RecordContentFetchFailed(duration time.Duration) {
	ContentFetchAttemptsTotal.WithLabelValues("failure").Inc()
	ContentFetchDuration.Observe(duration.Seconds())
}

// RecordContentFetchSkipped records a content fetch that was skipped because
// the feed already supplied enough content.
func RecordContentFetchSkipped() {
	ContentFetchAttemptsTotal.WithLabelValues("skipped").Inc()
}

// UpdateArticlesTotal updates the total count of articles in the database.
// The gauge is refreshed periodically, not on every write.
func UpdateArticlesTotal(count int) {
	ArticlesTotal.Set(float64(count))
}

// UpdateFeedsTotal updates the total count of registered feeds.
func UpdateFeedsTotal(count int) {
	FeedsTotal.Set(float64(count))
}

// RecordDBQuery records the duration of a database query operation.
// Operation names the query type (e.g. "select_articles", "insert_article").
func RecordDBQuery(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
