package feed

import (
	"context"
	"errors"
	"fmt"

	"newswire/internal/domain/entity"
	"newswire/internal/repository"
)

// CreateInput represents the input parameters for registering a new feed.
type CreateInput struct {
	Title        string
	URL          string
	Description  string
	Category     string
	Source       string
	Organization string
	Country      string
	Language     string
}

// UpdateInput represents the input parameters for updating an existing feed.
// Empty string fields and nil Active field will not be updated.
type UpdateInput struct {
	ID           int64
	Title        string
	URL          string
	Description  string
	Category     string
	Source       string
	Organization string
	Active       *bool
}

// Service provides feed management use cases.
// It handles business logic for feed operations and delegates persistence to
// the repository.
type Service struct {
	Repo repository.FeedRepository
}

// List retrieves all feeds from the repository, including their poll health.
func (s *Service) List(ctx context.Context) ([]*entity.Feed, error) {
	feeds, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list feeds: %w", err)
	}
	return feeds, nil
}

// Get retrieves a single feed by its ID.
// Returns ErrFeedNotFound if the feed does not exist.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Feed, error) {
	if id <= 0 {
		return nil, &entity.ValidationError{Field: "id", Message: "must be positive"}
	}

	feed, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get feed: %w", err)
	}
	if feed == nil {
		return nil, ErrFeedNotFound
	}
	return feed, nil
}

// Create registers a new feed with the provided input. New feeds start
// active with clean poll health.
// Returns a ValidationError if any input field is invalid.
// Returns ErrDuplicateFeedURL if the URL is already registered.
func (s *Service) Create(ctx context.Context, in CreateInput) (*entity.Feed, error) {
	feed := &entity.Feed{
		Title:        in.Title,
		URL:          in.URL,
		Description:  in.Description,
		Category:     in.Category,
		Source:       in.Source,
		Organization: in.Organization,
		Country:      in.Country,
		Language:     in.Language,
		Active:       true,
	}

	if err := feed.Validate(); err != nil {
		return nil, err
	}

	taken, err := s.Repo.ExistsByURL(ctx, feed.URL)
	if err != nil {
		return nil, fmt.Errorf("check feed URL: %w", err)
	}
	if taken {
		return nil, ErrDuplicateFeedURL
	}

	if err := s.Repo.Create(ctx, feed); err != nil {
		// The uniqueness check above races with concurrent creates;
		// the unique constraint is the real arbiter.
		if errors.Is(err, entity.ErrFeedURLTaken) {
			return nil, ErrDuplicateFeedURL
		}
		return nil, fmt.Errorf("create feed: %w", err)
	}
	return feed, nil
}

// Update modifies an existing feed with the provided input.
// Empty string fields and nil Active field will not be updated.
// Returns ErrFeedNotFound if the feed does not exist.
// Returns ErrDuplicateFeedURL if the new URL collides with another feed.
func (s *Service) Update(ctx context.Context, in UpdateInput) (*entity.Feed, error) {
	if in.ID <= 0 {
		return nil, &entity.ValidationError{Field: "id", Message: "must be positive"}
	}

	feed, err := s.Repo.Get(ctx, in.ID)
	if err != nil {
		return nil, fmt.Errorf("get feed: %w", err)
	}
	if feed == nil {
		return nil, ErrFeedNotFound
	}

	if in.Title != "" {
		feed.Title = in.Title
	}
	if in.URL != "" {
		feed.URL = in.URL
	}
	if in.Description != "" {
		feed.Description = in.Description
	}
	if in.Category != "" {
		feed.Category = in.Category
	}
	if in.Source != "" {
		feed.Source = in.Source
	}
	if in.Organization != "" {
		feed.Organization = in.Organization
	}
	if in.Active != nil {
		feed.Active = *in.Active
	}

	if err := feed.Validate(); err != nil {
		return nil, err
	}

	if err := s.Repo.Update(ctx, feed); err != nil {
		if errors.Is(err, entity.ErrFeedURLTaken) {
			return nil, ErrDuplicateFeedURL
		}
		if errors.Is(err, entity.ErrNotFound) {
			return nil, ErrFeedNotFound
		}
		return nil, fmt.Errorf("update feed: %w", err)
	}
	return feed, nil
}

// Delete removes a feed by its ID and returns the number of articles that
// were deleted with it via the cascade.
// Returns ErrFeedNotFound if the feed does not exist.
func (s *Service) Delete(ctx context.Context, id int64) (int64, error) {
	if id <= 0 {
		return 0, &entity.ValidationError{Field: "id", Message: "must be positive"}
	}

	removed, err := s.Repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return 0, ErrFeedNotFound
		}
		return 0, fmt.Errorf("delete feed: %w", err)
	}
	return removed, nil
}
