package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestArticle_ZeroValue(t *testing.T) {
	var article Article

	assert.Equal(t, int64(0), article.ID)
	assert.Equal(t, int64(0), article.FeedID)
	assert.Empty(t, article.GUID)
	assert.Nil(t, article.Categories)
	assert.False(t, article.IsRead)
	assert.False(t, article.IsFavorite)
	assert.Empty(t, article.Summary)
}

func TestArticle_AllFields(t *testing.T) {
	published := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)

	article := Article{
		ID:             42,
		FeedID:         7,
		Title:          "Quarterly Results Announced",
		Link:           "https://example.com/news/q4",
		Description:    "Summary of fourth quarter results.",
		Content:        "<p>Full body</p>",
		ContentSnippet: "Full body",
		PublishedAt:    published,
		GUID:           "https://example.com/news/q4",
		Author:         "press@example.com",
		Creator:        "IR Team",
		Categories:     []string{"finance", "earnings"},
	}

	assert.Equal(t, int64(42), article.ID)
	assert.Equal(t, int64(7), article.FeedID)
	assert.Equal(t, published, article.PublishedAt)
	assert.Len(t, article.Categories, 2)
	assert.Equal(t, article.Link, article.GUID)
}

func TestArticleWithFeed_CarriesFeedMetadata(t *testing.T) {
	item := ArticleWithFeed{
		Article: Article{
			ID:    1,
			Title: "Policy Update",
		},
		FeedTitle:    "Ministry Press Room",
		FeedSource:   "ministry",
		FeedCategory: CategoryGovernment,
	}

	assert.Equal(t, "Policy Update", item.Title)
	assert.Equal(t, "Ministry Press Room", item.FeedTitle)
	assert.Equal(t, CategoryGovernment, item.FeedCategory)
}
