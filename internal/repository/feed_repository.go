package repository

import (
	"context"
	"time"

	"newswire/internal/domain/entity"
)

type FeedRepository interface {
	Get(ctx context.Context, id int64) (*entity.Feed, error)
	List(ctx context.Context) ([]*entity.Feed, error)
	// ListActive returns the feeds eligible for polling, newest first.
	ListActive(ctx context.Context) ([]*entity.Feed, error)
	Create(ctx context.Context, feed *entity.Feed) error
	Update(ctx context.Context, feed *entity.Feed) error
	// Delete removes the feed and, via cascade, its articles. It returns
	// the number of articles that were removed with the feed.
	Delete(ctx context.Context, id int64) (int64, error)
	ExistsByURL(ctx context.Context, url string) (bool, error)
	// RecordPollSuccess marks a completed poll: last_polled is set to t,
	// last_error is cleared and error_count resets to zero.
	RecordPollSuccess(ctx context.Context, id int64, t time.Time) error
	// RecordPollFailure stores the failure message and increments
	// error_count. last_polled keeps its previous value.
	RecordPollFailure(ctx context.Context, id int64, msg string) error
}
