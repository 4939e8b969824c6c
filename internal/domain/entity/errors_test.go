package entity

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		message  string
		expected string
	}{
		{
			name:     "required field error",
			field:    "title",
			message:  "title is required",
			expected: "validation error on field 'title': title is required",
		},
		{
			name:     "enum error",
			field:    "category",
			message:  "unknown category",
			expected: "validation error on field 'category': unknown category",
		},
		{
			name:     "empty field name",
			field:    "",
			message:  "test message",
			expected: "validation error on field '': test message",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &ValidationError{Field: tt.field, Message: tt.message}
			assert.Equal(t, tt.expected, err.Error())
		})
	}
}

func TestSentinelErrors_Wrapping(t *testing.T) {
	wrapped := fmt.Errorf("insert article: %w", ErrDuplicateArticle)
	assert.True(t, errors.Is(wrapped, ErrDuplicateArticle))
	assert.False(t, errors.Is(wrapped, ErrNotFound))

	wrapped = fmt.Errorf("create feed: %w", ErrFeedURLTaken)
	assert.True(t, errors.Is(wrapped, ErrFeedURLTaken))
}
