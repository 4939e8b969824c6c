// Package feed provides use cases for managing registered feeds:
// creation with URL uniqueness checks, updates, deletion and listing.
package feed

import "errors"

// Sentinel errors for feed use case operations.
var (
	// ErrFeedNotFound indicates that the requested feed was not found.
	ErrFeedNotFound = errors.New("feed not found")

	// ErrDuplicateFeedURL indicates that a feed with the same URL is
	// already registered.
	ErrDuplicateFeedURL = errors.New("feed with this URL already exists")
)
