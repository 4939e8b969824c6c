package poll

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"newswire/internal/domain/entity"
)

// NormalizeItem converts a raw feed item into an article candidate for the
// given feed. Normalization never fails: every missing field gets a
// deterministic default so the duplicate check and insert downstream always
// operate on complete values.
//
// Defaults:
//   - description prefers the plain-text snippet over the raw description
//   - guid falls back to the link, then to a synthesized unique id
//   - publication time falls back to now (the ingestion time)
//   - categories is never nil
func NormalizeItem(feedID int64, item FeedItem, now time.Time) *entity.Article {
	description := item.ContentSnippet
	if description == "" {
		description = item.Description
	}

	guid := item.GUID
	if guid == "" {
		guid = item.Link
	}
	if guid == "" {
		guid = synthesizeGUID(now)
	}

	publishedAt := now
	if item.Published != nil {
		publishedAt = *item.Published
	}

	categories := item.Categories
	if categories == nil {
		categories = []string{}
	}

	return &entity.Article{
		FeedID:         feedID,
		Title:          item.Title,
		Link:           item.Link,
		Description:    description,
		Content:        item.Content,
		ContentSnippet: item.ContentSnippet,
		PublishedAt:    publishedAt,
		GUID:           guid,
		Author:         item.Author,
		Creator:        item.Creator,
		Categories:     categories,
	}
}

// synthesizeGUID builds a fallback identifier for items that carry neither a
// guid nor a link. The UUID component makes collisions within the same
// millisecond a non-issue.
func synthesizeGUID(now time.Time) string {
	return fmt.Sprintf("%d-%s", now.UnixMilli(), uuid.NewString())
}
