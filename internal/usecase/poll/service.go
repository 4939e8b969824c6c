package poll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"newswire/internal/domain/entity"
	"newswire/internal/observability/metrics"
	"newswire/internal/repository"
)

// defaultMaxConcurrent bounds the feed fan-out when no explicit limit is set.
const defaultMaxConcurrent = 8

// Result summarizes one polling run across all active feeds.
type Result struct {
	// Total is the number of active feeds that were polled.
	Total int
	// Successful counts feeds whose fetch and item processing completed.
	Successful int
	// Failed counts feeds whose fetch failed outright.
	Failed int
	// Errors holds one "feed title: message" entry per failed feed.
	Errors []string
	// Inserted is the number of new articles stored in this run.
	Inserted int64
	// Duplicated is the number of items skipped as already known.
	Duplicated int64
	// ItemErrors counts individual items that failed to store. Item
	// failures do not fail the feed.
	ItemErrors int64
	// Duration is the wall time of the whole run.
	Duration time.Duration
}

// Service orchestrates a polling run: it fans out over all active feeds,
// fetches and normalizes their items, filters duplicates and persists what is
// new. One feed's failure never affects another feed; the worst outcome of a
// run is an empty Result with the failures listed.
type Service struct {
	feedRepo    repository.FeedRepository
	articleRepo repository.ArticleRepository
	fetcher     FeedFetcher

	// maxConcurrent bounds how many feeds are fetched at once.
	maxConcurrent int
}

func NewService(
	feedRepo repository.FeedRepository,
	articleRepo repository.ArticleRepository,
	fetcher FeedFetcher,
	maxConcurrent int,
) *Service {
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrent
	}
	return &Service{
		feedRepo:      feedRepo,
		articleRepo:   articleRepo,
		fetcher:       fetcher,
		maxConcurrent: maxConcurrent,
	}
}

// PollAll polls every active feed once and returns the aggregated result.
// It returns an error only when the list of active feeds cannot be loaded;
// per-feed failures are recorded in the result and in each feed's health row.
func (s *Service) PollAll(ctx context.Context) (*Result, error) {
	start := time.Now()

	feeds, err := s.feedRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("PollAll: %w", err)
	}

	result := &Result{Total: len(feeds)}
	if len(feeds) == 0 {
		result.Duration = time.Since(start)
		slog.Info("poll run finished", slog.Int("feeds", 0))
		return result, nil
	}

	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)

	for _, feed := range feeds {
		g.Go(func() error {
			stats, err := s.pollFeed(gctx, feed)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed++
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", feed.Title, err.Error()))
				return nil
			}
			result.Successful++
			result.Inserted += stats.inserted
			result.Duplicated += stats.duplicated
			result.ItemErrors += stats.itemErrors
			return nil
		})
	}

	// Goroutines never return errors, so this cannot fail.
	_ = g.Wait()

	result.Duration = time.Since(start)

	slog.Info("poll run finished",
		slog.Int("feeds", result.Total),
		slog.Int("successful", result.Successful),
		slog.Int("failed", result.Failed),
		slog.Int64("inserted", result.Inserted),
		slog.Int64("duplicated", result.Duplicated),
		slog.Int64("item_errors", result.ItemErrors),
		slog.Duration("duration", result.Duration),
	)

	return result, nil
}

// feedStats accumulates per-feed item counters.
type feedStats struct {
	inserted   int64
	duplicated int64
	itemErrors int64
}

// pollFeed fetches one feed and stores its new items. A returned error means
// the fetch itself failed; item-level storage failures are counted but never
// escalate. Health bookkeeping runs on a context detached from cancellation
// so a run timeout cannot lose the outcome of work already done.
func (s *Service) pollFeed(ctx context.Context, feed *entity.Feed) (feedStats, error) {
	start := time.Now()

	fetched, err := s.fetcher.Fetch(ctx, feed.URL)
	if err != nil {
		slog.Warn("feed fetch failed",
			slog.Int64("feed_id", feed.ID),
			slog.String("title", feed.Title),
			slog.String("error", err.Error()),
		)
		metrics.RecordFeedPollError(feed.ID, classifyFetchError(err))

		if recErr := s.feedRepo.RecordPollFailure(context.WithoutCancel(ctx), feed.ID, err.Error()); recErr != nil {
			slog.Error("failed to record poll failure",
				slog.Int64("feed_id", feed.ID),
				slog.String("error", recErr.Error()),
			)
		}
		return feedStats{}, err
	}

	var stats feedStats
	now := time.Now()

	for _, item := range fetched.Items {
		article := NormalizeItem(feed.ID, item, now)

		exists, err := s.articleRepo.ExistsByGUID(ctx, article.GUID, article.Link)
		if err != nil {
			stats.itemErrors++
			slog.Error("duplicate check failed",
				slog.Int64("feed_id", feed.ID),
				slog.String("guid", article.GUID),
				slog.String("error", err.Error()),
			)
			continue
		}
		if exists {
			stats.duplicated++
			continue
		}

		if err := s.articleRepo.Create(ctx, article); err != nil {
			// A concurrent insert can slip past the existence check;
			// the unique index turns that into a duplicate, not a loss.
			if errors.Is(err, entity.ErrDuplicateArticle) {
				stats.duplicated++
				continue
			}
			stats.itemErrors++
			slog.Error("article insert failed",
				slog.Int64("feed_id", feed.ID),
				slog.String("link", article.Link),
				slog.String("error", err.Error()),
			)
			continue
		}
		stats.inserted++
	}

	if err := s.feedRepo.RecordPollSuccess(context.WithoutCancel(ctx), feed.ID, time.Now()); err != nil {
		slog.Error("failed to record poll success",
			slog.Int64("feed_id", feed.ID),
			slog.String("error", err.Error()),
		)
	}

	metrics.RecordFeedPoll(feed.ID, time.Since(start), stats.inserted)

	slog.Info("feed polled",
		slog.Int64("feed_id", feed.ID),
		slog.String("title", feed.Title),
		slog.Int("items", len(fetched.Items)),
		slog.Int64("inserted", stats.inserted),
		slog.Int64("duplicated", stats.duplicated),
		slog.Int64("item_errors", stats.itemErrors),
	)

	return stats, nil
}

// classifyFetchError maps a fetch error onto a low-cardinality metric label.
func classifyFetchError(err error) string {
	switch {
	case errors.Is(err, ErrFetchTimeout):
		return "timeout"
	case errors.Is(err, ErrInvalidFeed):
		return "parse"
	default:
		return "fetch"
	}
}
