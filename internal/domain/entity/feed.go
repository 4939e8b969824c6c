package entity

import (
	"fmt"
	"time"
)

// Feed categories. Every feed belongs to exactly one of these.
const (
	CategoryGovernment    = "government"
	CategoryCorporate     = "corporate"
	CategoryMedia         = "media"
	CategoryInternational = "international"
)

// Feed represents a registered RSS/Atom feed and its polling health.
// LastPolled is nil until the first successful poll. ErrorCount counts
// consecutive failures and resets to zero on success.
type Feed struct {
	ID           int64
	Title        string
	URL          string
	Description  string
	Category     string
	Source       string
	Organization string
	Country      string
	Language     string
	Active       bool
	LastPolled   *time.Time
	LastError    string
	ErrorCount   int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

var validCategories = map[string]bool{
	CategoryGovernment:    true,
	CategoryCorporate:     true,
	CategoryMedia:         true,
	CategoryInternational: true,
}

// Validate checks the Feed's required fields and the category enum.
// Country and Language default when empty.
func (f *Feed) Validate() error {
	if f.Title == "" {
		return &ValidationError{Field: "title", Message: "title is required"}
	}
	if f.Source == "" {
		return &ValidationError{Field: "source", Message: "source is required"}
	}
	if !validCategories[f.Category] {
		return &ValidationError{
			Field:   "category",
			Message: fmt.Sprintf("category must be one of government, corporate, media, international (got %q)", f.Category),
		}
	}
	if err := ValidateURL(f.URL); err != nil {
		return err
	}
	if f.Country == "" {
		f.Country = "JP"
	}
	if f.Language == "" {
		f.Language = "ja"
	}
	return nil
}
