// Package poll implements the feed polling pipeline: fetching registered
// feeds, normalizing their items, filtering duplicates and persisting new
// articles, while keeping per-feed health bookkeeping up to date.
package poll

import (
	"context"
	"time"
)

// FeedItem is a single raw entry parsed out of an RSS/Atom document.
// All fields are optional; the normalizer fills in the defaults.
type FeedItem struct {
	Title          string
	Link           string
	Description    string
	Content        string
	ContentSnippet string
	GUID           string
	Author         string
	Creator        string
	Categories     []string
	// Published is the parsed publication time, nil when the document
	// carried no parseable date.
	Published *time.Time
}

// FetchedFeed is the parsed representation of one remote feed document.
type FetchedFeed struct {
	Title       string
	Description string
	Link        string
	Items       []FeedItem
}

// FeedFetcher retrieves and parses a feed document from a URL.
type FeedFetcher interface {
	Fetch(ctx context.Context, feedURL string) (*FetchedFeed, error)
}
