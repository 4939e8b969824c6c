package article

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"newswire/internal/common/pagination"
	"newswire/internal/domain/entity"
	"newswire/internal/observability/metrics"
	"newswire/internal/repository"
)

// Summarizer generates a short summary for the given article text.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// Service provides article read and management use cases.
type Service struct {
	Repo repository.ArticleRepository

	// Summarizer and ContentFetcher back the on-demand summarization
	// endpoint. Both are optional; a nil ContentFetcher just means
	// summaries are generated from whatever the feed provided.
	Summarizer     Summarizer
	ContentFetcher ContentFetcher

	// ContentThreshold is the minimum content length (in runes) below
	// which the full page is fetched before summarizing.
	ContentThreshold int
}

// PaginatedResult holds one page of articles with pagination metadata.
type PaginatedResult struct {
	Data       []*entity.ArticleWithFeed
	Pagination pagination.Metadata
}

// List retrieves one page of articles matching the filters, newest first.
func (s *Service) List(ctx context.Context, filters repository.ArticleFilters, params pagination.Params) (*PaginatedResult, error) {
	total, err := s.Repo.Count(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("count articles: %w", err)
	}

	offset := pagination.CalculateOffset(params.Page, params.Limit)
	articles, err := s.Repo.ListWithFeed(ctx, filters, offset, params.Limit)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}

	return &PaginatedResult{
		Data:       articles,
		Pagination: pagination.NewMetadata(params, total),
	}, nil
}

// Get retrieves a single article with its feed metadata.
// Returns ErrInvalidArticleID if the ID is not positive.
// Returns ErrArticleNotFound if the article does not exist.
func (s *Service) Get(ctx context.Context, id int64) (*entity.ArticleWithFeed, error) {
	if id <= 0 {
		return nil, ErrInvalidArticleID
	}

	article, err := s.Repo.GetWithFeed(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}
	if article == nil {
		return nil, ErrArticleNotFound
	}
	return article, nil
}

// UpdateFlags toggles the read / favorite flags. Nil means "leave as is".
// Returns ErrArticleNotFound if the article does not exist.
func (s *Service) UpdateFlags(ctx context.Context, id int64, isRead, isFavorite *bool) error {
	if id <= 0 {
		return ErrInvalidArticleID
	}
	if isRead == nil && isFavorite == nil {
		return &entity.ValidationError{Field: "body", Message: "isRead or isFavorite is required"}
	}

	if err := s.Repo.UpdateFlags(ctx, id, isRead, isFavorite); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return ErrArticleNotFound
		}
		return fmt.Errorf("update article flags: %w", err)
	}
	return nil
}

// Delete removes an article by its ID.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidArticleID
	}

	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return ErrArticleNotFound
		}
		return fmt.Errorf("delete article: %w", err)
	}
	return nil
}

// Summarize generates and stores an AI summary for the article. An already
// summarized article returns its stored summary without another model call.
//
// When the feed supplied less content than ContentThreshold, the full page is
// fetched first; a fetch failure falls back to the feed content rather than
// failing the request.
func (s *Service) Summarize(ctx context.Context, id int64) (string, error) {
	if id <= 0 {
		return "", ErrInvalidArticleID
	}
	if s.Summarizer == nil {
		return "", ErrSummarizerUnavailable
	}

	article, err := s.Repo.Get(ctx, id)
	if err != nil {
		return "", fmt.Errorf("get article: %w", err)
	}
	if article == nil {
		return "", ErrArticleNotFound
	}
	if article.Summary != "" {
		return article.Summary, nil
	}

	content := s.contentFor(ctx, article)
	if content == "" {
		return "", ErrNoContent
	}

	start := time.Now()
	summary, err := s.Summarizer.Summarize(ctx, content)
	metrics.RecordSummarizationDuration(time.Since(start))
	if err != nil {
		metrics.RecordArticleSummarized(false)
		return "", fmt.Errorf("%w: %s", ErrSummarizationFailed, err.Error())
	}
	metrics.RecordArticleSummarized(true)

	if err := s.Repo.UpdateSummary(ctx, id, summary); err != nil {
		return "", fmt.Errorf("store summary: %w", err)
	}

	return summary, nil
}

// contentFor picks the text to summarize, fetching the full page when the
// feed content is too thin.
func (s *Service) contentFor(ctx context.Context, article *entity.Article) string {
	content := article.Content
	if content == "" {
		content = article.Description
	}

	if s.ContentFetcher == nil {
		return content
	}
	if len([]rune(content)) >= s.ContentThreshold {
		metrics.RecordContentFetchSkipped()
		return content
	}

	start := time.Now()
	fetched, err := s.ContentFetcher.FetchContent(ctx, article.Link)
	if err != nil {
		metrics.RecordContentFetchFailed(time.Since(start))
		slog.Warn("content fetch failed, using feed content",
			slog.Int64("article_id", article.ID),
			slog.String("url", article.Link),
			slog.String("error", err.Error()),
		)
		return content
	}
	metrics.RecordContentFetchSuccess(time.Since(start))

	if len([]rune(fetched)) > len([]rune(content)) {
		return fetched
	}
	return content
}
