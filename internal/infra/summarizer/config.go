package summarizer

import "fmt"

// SummarizerConfig is the common shape of provider configuration. Both the
// OpenAI and Claude configs carry a character limit that must sit in the
// shared valid range.
type SummarizerConfig interface {
	// GetCharacterLimit returns the maximum number of characters allowed
	// in a summary.
	GetCharacterLimit() int

	// Validate checks all configuration fields for validity.
	Validate() error
}

const (
	// minCharLimit is the minimum allowed character limit for summaries.
	minCharLimit = 100

	// maxCharLimit is the maximum allowed character limit for summaries.
	maxCharLimit = 5000
)

// ValidateCharacterLimit validates that the character limit is within the
// valid range (100-5000).
func ValidateCharacterLimit(limit int) error {
	if limit < minCharLimit {
		return fmt.Errorf("character limit %d is below minimum %d", limit, minCharLimit)
	}
	if limit > maxCharLimit {
		return fmt.Errorf("character limit %d exceeds maximum %d", limit, maxCharLimit)
	}
	return nil
}
