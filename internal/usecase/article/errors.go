// Package article provides use cases for reading and managing stored
// articles: filtered listing with pagination, read/favorite flags, deletion
// and on-demand AI summarization.
package article

import "errors"

// Sentinel errors for article use case operations.
var (
	// ErrArticleNotFound indicates that the requested article was not found.
	ErrArticleNotFound = errors.New("article not found")

	// ErrInvalidArticleID indicates that the provided article ID is invalid.
	// Article IDs must be positive integers.
	ErrInvalidArticleID = errors.New("invalid article ID")

	// ErrNoContent indicates the article has no text to summarize, even
	// after attempting to fetch the full page.
	ErrNoContent = errors.New("article has no content to summarize")

	// ErrSummarizerUnavailable indicates that no summarization backend is
	// configured.
	ErrSummarizerUnavailable = errors.New("summarizer not configured")

	// ErrSummarizationFailed indicates that the AI summarization call
	// failed. This can occur due to API errors, rate limits, or invalid
	// content.
	ErrSummarizationFailed = errors.New("failed to summarize article content")
)
