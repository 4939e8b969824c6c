// Package entity defines the core domain entities and validation logic for the
// application. It contains the fundamental business objects, Feed and Article,
// along with their validation rules and domain-specific errors.
package entity

import "time"

// Article represents a single news item ingested from a feed.
// GUID and Link are both unique across the table; either one identifies
// an item for deduplication purposes. IsRead, IsFavorite and Summary are
// the only fields that change after ingestion.
type Article struct {
	ID             int64
	FeedID         int64
	Title          string
	Link           string
	Description    string
	Content        string
	ContentSnippet string
	PublishedAt    time.Time
	GUID           string
	Author         string
	Creator        string
	Categories     []string
	IsRead         bool
	IsFavorite     bool
	Summary        string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ArticleWithFeed is an Article joined with the metadata of the feed that
// produced it, as returned by list and detail queries.
type ArticleWithFeed struct {
	Article
	FeedTitle    string
	FeedSource   string
	FeedCategory string
}
