package summarizer

import (
	"context"
)

// NoOp returns the input text unchanged, truncated to a summary-like length.
// Used in development and tests when no AI backend is configured.
type NoOp struct{}

// NewNoOp creates a NoOp summarizer.
func NewNoOp() *NoOp {
	return &NoOp{}
}

// Summarize returns the original text truncated to the first 500 runes.
func (n *NoOp) Summarize(_ context.Context, text string) (string, error) {
	const maxLength = 500
	runes := []rune(text)
	if len(runes) <= maxLength {
		return text, nil
	}
	return string(runes[:maxLength]) + "...", nil
}
