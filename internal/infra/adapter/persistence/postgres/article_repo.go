package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"newswire/internal/domain/entity"
	"newswire/internal/observability/metrics"
	"newswire/internal/repository"
)

type ArticleRepo struct {
	db           *sql.DB
	queryBuilder *ArticleQueryBuilder
}

func NewArticleRepo(db *sql.DB) repository.ArticleRepository {
	return &ArticleRepo{
		db:           db,
		queryBuilder: NewArticleQueryBuilder(),
	}
}

const articleColumns = `a.id, a.feed_id, a.title, a.link, a.description, a.content, a.content_snippet,
       a.published_at, a.guid, a.author, a.creator, a.categories,
       a.is_read, a.is_favorite, a.summary, a.created_at, a.updated_at`

// scanArticle reads one article row in articleColumns order.
// categories is stored as JSONB and summary is nullable.
func scanArticle(row interface{ Scan(...any) error }, article *entity.Article) error {
	var categoriesJSON []byte
	var summary sql.NullString
	if err := row.Scan(
		&article.ID, &article.FeedID, &article.Title, &article.Link,
		&article.Description, &article.Content, &article.ContentSnippet,
		&article.PublishedAt, &article.GUID, &article.Author, &article.Creator,
		&categoriesJSON, &article.IsRead, &article.IsFavorite, &summary,
		&article.CreatedAt, &article.UpdatedAt,
	); err != nil {
		return err
	}
	article.Summary = summary.String
	article.Categories = []string{}
	if len(categoriesJSON) > 0 {
		if err := json.Unmarshal(categoriesJSON, &article.Categories); err != nil {
			return fmt.Errorf("unmarshal categories: %w", err)
		}
	}
	return nil
}

func (repo *ArticleRepo) ListWithFeed(ctx context.Context, filters repository.ArticleFilters, offset, limit int) ([]*entity.ArticleWithFeed, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("select_articles", time.Since(start)) }()

	whereClause, args := repo.queryBuilder.BuildWhereClause(filters)
	paramIndex := len(args) + 1
	args = append(args, limit, offset)

	query := fmt.Sprintf(`
SELECT `+articleColumns+`, f.title AS feed_title, f.source AS feed_source, f.category AS feed_category
FROM articles a
INNER JOIN feeds f ON a.feed_id = f.id
%s
ORDER BY a.published_at DESC
LIMIT $%d OFFSET $%d`, whereClause, paramIndex, paramIndex+1)

	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ListWithFeed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := make([]*entity.ArticleWithFeed, 0, limit)
	for rows.Next() {
		var item entity.ArticleWithFeed
		var categoriesJSON []byte
		var summary sql.NullString
		if err := rows.Scan(
			&item.ID, &item.FeedID, &item.Title, &item.Link,
			&item.Description, &item.Content, &item.ContentSnippet,
			&item.PublishedAt, &item.GUID, &item.Author, &item.Creator,
			&categoriesJSON, &item.IsRead, &item.IsFavorite, &summary,
			&item.CreatedAt, &item.UpdatedAt,
			&item.FeedTitle, &item.FeedSource, &item.FeedCategory,
		); err != nil {
			return nil, fmt.Errorf("ListWithFeed: Scan: %w", err)
		}
		item.Summary = summary.String
		item.Categories = []string{}
		if len(categoriesJSON) > 0 {
			if err := json.Unmarshal(categoriesJSON, &item.Categories); err != nil {
				return nil, fmt.Errorf("ListWithFeed: unmarshal categories: %w", err)
			}
		}
		result = append(result, &item)
	}
	return result, rows.Err()
}

// Count returns the number of articles matching the filters, using the same
// WHERE clause as ListWithFeed.
func (repo *ArticleRepo) Count(ctx context.Context, filters repository.ArticleFilters) (int64, error) {
	whereClause, args := repo.queryBuilder.BuildWhereClause(filters)
	query := fmt.Sprintf(`
SELECT COUNT(*)
FROM articles a
INNER JOIN feeds f ON a.feed_id = f.id
%s`, whereClause)

	var count int64
	if err := repo.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("Count: %w", err)
	}
	return count, nil
}

func (repo *ArticleRepo) GetWithFeed(ctx context.Context, id int64) (*entity.ArticleWithFeed, error) {
	const query = `
SELECT ` + articleColumns + `, f.title AS feed_title, f.source AS feed_source, f.category AS feed_category
FROM articles a
INNER JOIN feeds f ON a.feed_id = f.id
WHERE a.id = $1
LIMIT 1`

	var item entity.ArticleWithFeed
	var categoriesJSON []byte
	var summary sql.NullString
	err := repo.db.QueryRowContext(ctx, query, id).Scan(
		&item.ID, &item.FeedID, &item.Title, &item.Link,
		&item.Description, &item.Content, &item.ContentSnippet,
		&item.PublishedAt, &item.GUID, &item.Author, &item.Creator,
		&categoriesJSON, &item.IsRead, &item.IsFavorite, &summary,
		&item.CreatedAt, &item.UpdatedAt,
		&item.FeedTitle, &item.FeedSource, &item.FeedCategory,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetWithFeed: %w", err)
	}
	item.Summary = summary.String
	item.Categories = []string{}
	if len(categoriesJSON) > 0 {
		if err := json.Unmarshal(categoriesJSON, &item.Categories); err != nil {
			return nil, fmt.Errorf("GetWithFeed: unmarshal categories: %w", err)
		}
	}
	return &item, nil
}

func (repo *ArticleRepo) Get(ctx context.Context, id int64) (*entity.Article, error) {
	const query = `
SELECT ` + articleColumns + `
FROM articles a
WHERE a.id = $1
LIMIT 1`
	var article entity.Article
	err := scanArticle(repo.db.QueryRowContext(ctx, query, id), &article)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return &article, nil
}

// Create inserts the article. The unique indexes on guid and link are the
// backstop for concurrent polls racing past the ExistsByGUID check; a
// violation surfaces as entity.ErrDuplicateArticle.
func (repo *ArticleRepo) Create(ctx context.Context, article *entity.Article) error {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("insert_article", time.Since(start)) }()

	categoriesJSON, err := json.Marshal(article.Categories)
	if err != nil {
		return fmt.Errorf("Create: marshal categories: %w", err)
	}

	const query = `
INSERT INTO articles
       (feed_id, title, link, description, content, content_snippet,
        published_at, guid, author, creator, categories)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING id, created_at, updated_at`
	err = repo.db.QueryRowContext(ctx, query,
		article.FeedID, article.Title, article.Link, article.Description,
		article.Content, article.ContentSnippet, article.PublishedAt,
		article.GUID, article.Author, article.Creator, categoriesJSON,
	).Scan(&article.ID, &article.CreatedAt, &article.UpdatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("Create: %w", entity.ErrDuplicateArticle)
	}
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *ArticleRepo) ExistsByGUID(ctx context.Context, guid, link string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM articles WHERE guid = $1 OR link = $2)`
	var existsFlag bool
	if err := repo.db.QueryRowContext(ctx, query, guid, link).Scan(&existsFlag); err != nil {
		return false, fmt.Errorf("ExistsByGUID: %w", err)
	}
	return existsFlag, nil
}

// UpdateFlags applies only the toggles that were provided.
func (repo *ArticleRepo) UpdateFlags(ctx context.Context, id int64, isRead, isFavorite *bool) error {
	const query = `
UPDATE articles SET
       is_read     = COALESCE($1, is_read),
       is_favorite = COALESCE($2, is_favorite),
       updated_at  = now()
WHERE id = $3`
	res, err := repo.db.ExecContext(ctx, query, isRead, isFavorite, id)
	if err != nil {
		return fmt.Errorf("UpdateFlags: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("UpdateFlags: %w", entity.ErrNotFound)
	}
	return nil
}

func (repo *ArticleRepo) UpdateSummary(ctx context.Context, id int64, summary string) error {
	const query = `
UPDATE articles SET
       summary    = $1,
       updated_at = now()
WHERE id = $2`
	res, err := repo.db.ExecContext(ctx, query, summary, id)
	if err != nil {
		return fmt.Errorf("UpdateSummary: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("UpdateSummary: %w", entity.ErrNotFound)
	}
	return nil
}

func (repo *ArticleRepo) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM articles WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Delete: %w", entity.ErrNotFound)
	}
	return nil
}
