package poll

import "errors"

// Sentinel errors reported by FeedFetcher implementations. The poll service
// records them verbatim in the feed's health row, so each failure mode stays
// distinguishable after the fact.
var (
	// ErrFetchTimeout indicates the fetch did not complete within the
	// per-feed time limit.
	ErrFetchTimeout = errors.New("feed fetch timed out")

	// ErrFetchFailed indicates a network failure or a non-success HTTP
	// status from the feed host.
	ErrFetchFailed = errors.New("feed fetch failed")

	// ErrInvalidFeed indicates the response was retrieved but could not be
	// parsed as RSS or Atom.
	ErrInvalidFeed = errors.New("invalid feed document")
)
