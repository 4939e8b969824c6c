package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"newswire/internal/domain/entity"
	"newswire/internal/observability/metrics"
	"newswire/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
)

// pgUniqueViolation is the SQLSTATE for a unique constraint violation.
const pgUniqueViolation = "23505"

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

type FeedRepo struct{ db *sql.DB }

func NewFeedRepo(db *sql.DB) repository.FeedRepository {
	return &FeedRepo{db: db}
}

const feedColumns = `id, title, url, description, category, source, organization, country, language,
       active, last_polled, last_error, error_count, created_at, updated_at`

// scanFeed reads one feed row. last_polled and last_error are nullable.
func scanFeed(row interface{ Scan(...any) error }) (*entity.Feed, error) {
	var feed entity.Feed
	var lastError sql.NullString
	if err := row.Scan(
		&feed.ID, &feed.Title, &feed.URL, &feed.Description, &feed.Category,
		&feed.Source, &feed.Organization, &feed.Country, &feed.Language,
		&feed.Active, &feed.LastPolled, &lastError, &feed.ErrorCount,
		&feed.CreatedAt, &feed.UpdatedAt,
	); err != nil {
		return nil, err
	}
	feed.LastError = lastError.String
	return &feed, nil
}

func (repo *FeedRepo) Get(ctx context.Context, id int64) (*entity.Feed, error) {
	const query = `
SELECT ` + feedColumns + `
FROM feeds
WHERE id = $1
LIMIT 1`
	feed, err := scanFeed(repo.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return feed, nil
}

func (repo *FeedRepo) List(ctx context.Context) ([]*entity.Feed, error) {
	const query = `
SELECT ` + feedColumns + `
FROM feeds
ORDER BY created_at DESC, id DESC`
	return repo.queryFeeds(ctx, "List", query)
}

func (repo *FeedRepo) ListActive(ctx context.Context) ([]*entity.Feed, error) {
	const query = `
SELECT ` + feedColumns + `
FROM feeds
WHERE active = TRUE
ORDER BY created_at DESC, id DESC`
	return repo.queryFeeds(ctx, "ListActive", query)
}

func (repo *FeedRepo) queryFeeds(ctx context.Context, op, query string) ([]*entity.Feed, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("select_feeds", time.Since(start)) }()

	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	feeds := make([]*entity.Feed, 0, 50)
	for rows.Next() {
		feed, err := scanFeed(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: Scan: %w", op, err)
		}
		feeds = append(feeds, feed)
	}
	return feeds, rows.Err()
}

func (repo *FeedRepo) Create(ctx context.Context, feed *entity.Feed) error {
	const query = `
INSERT INTO feeds (title, url, description, category, source, organization, country, language, active)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id, created_at, updated_at`
	err := repo.db.QueryRowContext(ctx, query,
		feed.Title, feed.URL, feed.Description, feed.Category, feed.Source,
		feed.Organization, feed.Country, feed.Language, feed.Active,
	).Scan(&feed.ID, &feed.CreatedAt, &feed.UpdatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("Create: %w", entity.ErrFeedURLTaken)
	}
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *FeedRepo) Update(ctx context.Context, feed *entity.Feed) error {
	const query = `
UPDATE feeds SET
       title        = $1,
       url          = $2,
       description  = $3,
       category     = $4,
       source       = $5,
       organization = $6,
       country      = $7,
       language     = $8,
       active       = $9,
       updated_at   = now()
WHERE id = $10`
	res, err := repo.db.ExecContext(ctx, query,
		feed.Title, feed.URL, feed.Description, feed.Category, feed.Source,
		feed.Organization, feed.Country, feed.Language, feed.Active, feed.ID,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("Update: %w", entity.ErrFeedURLTaken)
	}
	if err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Update: %w", entity.ErrNotFound)
	}
	return nil
}

// Delete removes the feed; its articles follow via ON DELETE CASCADE.
// The article count is read first so callers can report what the cascade
// removed.
func (repo *FeedRepo) Delete(ctx context.Context, id int64) (int64, error) {
	var articleCount int64
	err := repo.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM articles WHERE feed_id = $1`, id,
	).Scan(&articleCount)
	if err != nil {
		return 0, fmt.Errorf("Delete: count articles: %w", err)
	}

	res, err := repo.db.ExecContext(ctx, `DELETE FROM feeds WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return 0, fmt.Errorf("Delete: %w", entity.ErrNotFound)
	}
	return articleCount, nil
}

func (repo *FeedRepo) ExistsByURL(ctx context.Context, url string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM feeds WHERE url = $1)`
	var existsFlag bool
	if err := repo.db.QueryRowContext(ctx, query, url).Scan(&existsFlag); err != nil {
		return false, fmt.Errorf("ExistsByURL: %w", err)
	}
	return existsFlag, nil
}

func (repo *FeedRepo) RecordPollSuccess(ctx context.Context, id int64, t time.Time) error {
	const query = `
UPDATE feeds SET
       last_polled = $1,
       last_error  = NULL,
       error_count = 0,
       updated_at  = now()
WHERE id = $2`
	if _, err := repo.db.ExecContext(ctx, query, t, id); err != nil {
		return fmt.Errorf("RecordPollSuccess: %w", err)
	}
	return nil
}

// RecordPollFailure leaves last_polled untouched so it keeps pointing at the
// last successful poll.
func (repo *FeedRepo) RecordPollFailure(ctx context.Context, id int64, msg string) error {
	const query = `
UPDATE feeds SET
       last_error  = $1,
       error_count = error_count + 1,
       updated_at  = now()
WHERE id = $2`
	if _, err := repo.db.ExecContext(ctx, query, msg, id); err != nil {
		return fmt.Errorf("RecordPollFailure: %w", err)
	}
	return nil
}
