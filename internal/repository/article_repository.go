package repository

import (
	"context"
	"time"

	"newswire/internal/domain/entity"
)

// ArticleFilters contains the optional filters for article listing.
// Zero values mean "no filter".
type ArticleFilters struct {
	Category string     // feed category (government, corporate, media, international)
	FeedID   *int64     // restrict to a single feed
	Search   string     // case-insensitive match against the article title
	Since    *time.Time // articles published on or after this date
}

type ArticleRepository interface {
	// ListWithFeed retrieves one page of articles joined with their feed
	// metadata, ordered by published_at DESC. offset and limit follow SQL
	// semantics.
	ListWithFeed(ctx context.Context, filters ArticleFilters, offset, limit int) ([]*entity.ArticleWithFeed, error)
	// Count returns the number of articles matching the filters,
	// for pagination metadata.
	Count(ctx context.Context, filters ArticleFilters) (int64, error)
	// GetWithFeed returns (nil, nil) when no article has the given id.
	GetWithFeed(ctx context.Context, id int64) (*entity.ArticleWithFeed, error)
	Get(ctx context.Context, id int64) (*entity.Article, error)
	// Create inserts the article and sets article.ID. A unique violation
	// on guid or link is reported as entity.ErrDuplicateArticle.
	Create(ctx context.Context, article *entity.Article) error
	// ExistsByGUID reports whether an article with the given guid or link
	// is already stored. Used as the cheap pre-insert duplicate check.
	ExistsByGUID(ctx context.Context, guid, link string) (bool, error)
	// UpdateFlags persists the is_read / is_favorite toggles.
	UpdateFlags(ctx context.Context, id int64, isRead, isFavorite *bool) error
	// UpdateSummary stores a generated summary for the article.
	UpdateSummary(ctx context.Context, id int64, summary string) error
	Delete(ctx context.Context, id int64) error
}
