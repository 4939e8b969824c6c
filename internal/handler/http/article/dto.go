// Package article provides the HTTP handlers for article endpoints: listing
// with filters and pagination, retrieval, read/favorite flags, deletion, and
// on-demand AI summarization.
package article

import (
	"time"

	"newswire/internal/domain/entity"
)

// DTO is the JSON shape of an article, joined with its feed metadata.
type DTO struct {
	ID             int64      `json:"id"`
	FeedID         int64      `json:"feedId"`
	FeedTitle      string     `json:"feedTitle,omitempty"`
	FeedCategory   string     `json:"feedCategory,omitempty"`
	Title          string     `json:"title"`
	Link           string     `json:"link"`
	Description    string     `json:"description,omitempty"`
	ContentSnippet string     `json:"contentSnippet,omitempty"`
	PublishedAt    time.Time  `json:"publishedAt"`
	GUID           string     `json:"guid"`
	Author         string     `json:"author,omitempty"`
	Categories     []string   `json:"categories"`
	IsRead         bool       `json:"isRead"`
	IsFavorite     bool       `json:"isFavorite"`
	Summary        string     `json:"summary,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      *time.Time `json:"updatedAt,omitempty"`
}

// toDTO maps a joined article row to its response shape.
func toDTO(a *entity.ArticleWithFeed) DTO {
	dto := DTO{
		ID:             a.ID,
		FeedID:         a.FeedID,
		FeedTitle:      a.FeedTitle,
		FeedCategory:   a.FeedCategory,
		Title:          a.Title,
		Link:           a.Link,
		Description:    a.Description,
		ContentSnippet: a.ContentSnippet,
		PublishedAt:    a.PublishedAt,
		GUID:           a.GUID,
		Author:         a.Author,
		Categories:     a.Categories,
		IsRead:         a.IsRead,
		IsFavorite:     a.IsFavorite,
		Summary:        a.Summary,
		CreatedAt:      a.CreatedAt,
	}
	if !a.UpdatedAt.IsZero() {
		updated := a.UpdatedAt
		dto.UpdatedAt = &updated
	}
	if dto.Categories == nil {
		dto.Categories = []string{}
	}
	return dto
}
