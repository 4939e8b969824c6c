// Package postgres provides PostgreSQL implementations of repository interfaces.
package postgres

import (
	"fmt"
	"strings"

	"newswire/internal/repository"
)

// ArticleQueryBuilder builds WHERE clauses for article listing in PostgreSQL.
// The builder is shared between the COUNT and SELECT queries so both always
// apply identical filters. It uses PostgreSQL-specific features like ILIKE
// and numbered placeholders.
type ArticleQueryBuilder struct{}

// NewArticleQueryBuilder creates a new query builder instance.
func NewArticleQueryBuilder() *ArticleQueryBuilder {
	return &ArticleQueryBuilder{}
}

// BuildWhereClause turns ArticleFilters into a WHERE clause and its
// arguments. Articles columns use the "a" alias and feeds columns the "f"
// alias; the caller's query must join the two tables accordingly.
// Returns an empty clause when no filter is set.
func (qb *ArticleQueryBuilder) BuildWhereClause(filters repository.ArticleFilters) (clause string, args []interface{}) {
	var conditions []string
	paramIndex := 1

	if filters.Category != "" {
		conditions = append(conditions, fmt.Sprintf("f.category = $%d", paramIndex))
		args = append(args, filters.Category)
		paramIndex++
	}

	if filters.FeedID != nil {
		conditions = append(conditions, fmt.Sprintf("a.feed_id = $%d", paramIndex))
		args = append(args, *filters.FeedID)
		paramIndex++
	}

	if filters.Search != "" {
		conditions = append(conditions, fmt.Sprintf("a.title ILIKE $%d", paramIndex))
		args = append(args, "%"+escapeILIKE(filters.Search)+"%")
		paramIndex++
	}

	if filters.Since != nil {
		conditions = append(conditions, fmt.Sprintf("a.published_at >= $%d", paramIndex))
		args = append(args, *filters.Since)
	}

	if len(conditions) == 0 {
		return "", args
	}

	return "WHERE " + strings.Join(conditions, " AND "), args
}

// escapeILIKE escapes the LIKE metacharacters so user input matches
// literally.
func escapeILIKE(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
