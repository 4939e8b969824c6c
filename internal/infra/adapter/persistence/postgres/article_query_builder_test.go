package postgres

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"newswire/internal/domain/entity"
	"newswire/internal/repository"
)

/* ──────────────────────────── BuildWhereClause Tests ──────────────────────────── */

func TestArticleQueryBuilder_Empty(t *testing.T) {
	qb := NewArticleQueryBuilder()

	clause, args := qb.BuildWhereClause(repository.ArticleFilters{})
	if clause != "" {
		t.Errorf("clause = %q, want empty", clause)
	}
	if len(args) != 0 {
		t.Errorf("args = %v, want none", args)
	}
}

func TestArticleQueryBuilder_SingleFilters(t *testing.T) {
	qb := NewArticleQueryBuilder()
	feedID := int64(3)
	since := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		filters    repository.ArticleFilters
		wantClause string
		wantArgs   []interface{}
	}{
		{
			name:       "category",
			filters:    repository.ArticleFilters{Category: entity.CategoryMedia},
			wantClause: "WHERE f.category = $1",
			wantArgs:   []interface{}{entity.CategoryMedia},
		},
		{
			name:       "feed id",
			filters:    repository.ArticleFilters{FeedID: &feedID},
			wantClause: "WHERE a.feed_id = $1",
			wantArgs:   []interface{}{int64(3)},
		},
		{
			name:       "title search",
			filters:    repository.ArticleFilters{Search: "budget"},
			wantClause: "WHERE a.title ILIKE $1",
			wantArgs:   []interface{}{"%budget%"},
		},
		{
			name:       "since",
			filters:    repository.ArticleFilters{Since: &since},
			wantClause: "WHERE a.published_at >= $1",
			wantArgs:   []interface{}{since},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clause, args := qb.BuildWhereClause(tt.filters)
			if clause != tt.wantClause {
				t.Errorf("clause = %q, want %q", clause, tt.wantClause)
			}
			if diff := cmp.Diff(tt.wantArgs, args); diff != "" {
				t.Errorf("args mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestArticleQueryBuilder_CombinedFilters(t *testing.T) {
	qb := NewArticleQueryBuilder()
	feedID := int64(7)
	since := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	clause, args := qb.BuildWhereClause(repository.ArticleFilters{
		Category: entity.CategoryGovernment,
		FeedID:   &feedID,
		Search:   "tax",
		Since:    &since,
	})

	want := "WHERE f.category = $1 AND a.feed_id = $2 AND a.title ILIKE $3 AND a.published_at >= $4"
	if clause != want {
		t.Errorf("clause = %q, want %q", clause, want)
	}
	if len(args) != 4 {
		t.Fatalf("len(args) = %d, want 4", len(args))
	}
}

func TestEscapeILIKE(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"100%", `100\%`},
		{"under_score", `under\_score`},
		{`back\slash`, `back\\slash`},
		{`%_\`, `\%\_\\`},
	}

	for _, tt := range tests {
		if got := escapeILIKE(tt.in); got != tt.want {
			t.Errorf("escapeILIKE(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
