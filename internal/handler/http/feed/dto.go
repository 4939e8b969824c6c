// Package feed exposes the feed management endpoints: listing, registration,
// updates and removal of RSS/Atom feeds, including their poll health.
package feed

import (
	"time"

	"newswire/internal/domain/entity"
)

// DTO is the JSON representation of a feed, poll health included.
type DTO struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	URL          string     `json:"url"`
	Description  string     `json:"description,omitempty"`
	Category     string     `json:"category"`
	Source       string     `json:"source"`
	Organization string     `json:"organization,omitempty"`
	Country      string     `json:"country"`
	Language     string     `json:"language"`
	Active       bool       `json:"active"`
	LastPolled   *time.Time `json:"lastPolled,omitempty"`
	LastError    string     `json:"lastError,omitempty"`
	ErrorCount   int        `json:"errorCount"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func toDTO(f *entity.Feed) DTO {
	return DTO{
		ID:           f.ID,
		Title:        f.Title,
		URL:          f.URL,
		Description:  f.Description,
		Category:     f.Category,
		Source:       f.Source,
		Organization: f.Organization,
		Country:      f.Country,
		Language:     f.Language,
		Active:       f.Active,
		LastPolled:   f.LastPolled,
		LastError:    f.LastError,
		ErrorCount:   f.ErrorCount,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
}
