package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecordFeedPoll(t *testing.T) {
	tests := []struct {
		name     string
		feedID   int64
		duration time.Duration
		inserted int64
	}{
		{
			name:     "successful poll",
			feedID:   1,
			duration: 2 * time.Second,
			inserted: 8,
		},
		{
			name:     "empty poll",
			feedID:   2,
			duration: 500 * time.Millisecond,
			inserted: 0,
		},
		{
			name:     "fast poll",
			feedID:   3,
			duration: 50 * time.Millisecond,
			inserted: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				RecordFeedPoll(tt.feedID, tt.duration, tt.inserted)
			})
		})
	}
}

func TestRecordFeedPollError(t *testing.T) {
	tests := []struct {
		name      string
		feedID    int64
		errorType string
	}{
		{
			name:      "fetch failed",
			feedID:    1,
			errorType: "fetch",
		},
		{
			name:      "parse error",
			feedID:    2,
			errorType: "parse",
		},
		{
			name:      "timeout",
			feedID:    3,
			errorType: "timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				RecordFeedPollError(tt.feedID, tt.errorType)
			})
		})
	}
}

func TestRecordArticleSummarized(t *testing.T) {
	tests := []struct {
		name    string
		success bool
	}{
		{
			name:    "success",
			success: true,
		},
		{
			name:    "failure",
			success: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				RecordArticleSummarized(tt.success)
			})
		})
	}
}

func TestRecordSummarizationDuration(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
	}{
		{
			name:     "fast response",
			duration: 100 * time.Millisecond,
		},
		{
			name:     "normal response",
			duration: 1 * time.Second,
		},
		{
			name:     "slow response",
			duration: 5 * time.Second,
		},
		{
			name:     "zero duration",
			duration: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				RecordSummarizationDuration(tt.duration)
			})
		})
	}
}

func TestRecordContentFetch(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordContentFetchSuccess(800 * time.Millisecond)
		RecordContentFetchFailed(10 * time.Second)
		RecordContentFetchSkipped()
	})
}

func TestUpdateArticlesTotal(t *testing.T) {
	tests := []struct {
		name  string
		count int
	}{
		{
			name:  "zero articles",
			count: 0,
		},
		{
			name:  "some articles",
			count: 100,
		},
		{
			name:  "many articles",
			count: 10000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				UpdateArticlesTotal(tt.count)
			})
		})
	}
}

func TestUpdateFeedsTotal(t *testing.T) {
	tests := []struct {
		name  string
		count int
	}{
		{
			name:  "zero feeds",
			count: 0,
		},
		{
			name:  "some feeds",
			count: 10,
		},
		{
			name:  "many feeds",
			count: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				UpdateFeedsTotal(tt.count)
			})
		})
	}
}

func TestRecordDBQuery(t *testing.T) {
	tests := []struct {
		name      string
		operation string
		duration  time.Duration
	}{
		{
			name:      "select query",
			operation: "select_articles",
			duration:  10 * time.Millisecond,
		},
		{
			name:      "insert query",
			operation: "insert_article",
			duration:  5 * time.Millisecond,
		},
		{
			name:      "slow query",
			operation: "complex_join",
			duration:  500 * time.Millisecond,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				RecordDBQuery(tt.operation, tt.duration)
			})
		})
	}
}

func TestMetricsFunctions_AllCallable(t *testing.T) {
	// Test that all functions can be called in sequence without panic
	assert.NotPanics(t, func() {
		RecordFeedPoll(1, 2*time.Second, 8)
		RecordFeedPollError(1, "fetch")
		RecordArticleSummarized(true)
		RecordSummarizationDuration(1 * time.Second)
		RecordContentFetchSuccess(1 * time.Second)
		RecordContentFetchSkipped()
		UpdateArticlesTotal(100)
		UpdateFeedsTotal(10)
		RecordDBQuery("test_operation", 10*time.Millisecond)
		RecordHTTPRequest("GET", "/articles", "200", 25*time.Millisecond)
	})
}
