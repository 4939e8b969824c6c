package db

import (
	"database/sql"
	_ "embed"
)

//go:embed seeds/feeds.sql
var seedFeedsSQL string

func MigrateUp(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS feeds (
    id           SERIAL PRIMARY KEY,
    title        TEXT NOT NULL,
    url          TEXT NOT NULL UNIQUE,
    description  TEXT NOT NULL DEFAULT '',
    category     VARCHAR(20) NOT NULL,
    source       TEXT NOT NULL,
    organization TEXT NOT NULL DEFAULT '',
    country      VARCHAR(8) NOT NULL DEFAULT 'JP',
    language     VARCHAR(8) NOT NULL DEFAULT 'ja',
    active       BOOLEAN NOT NULL DEFAULT TRUE,
    last_polled  TIMESTAMPTZ,
    last_error   TEXT,
    error_count  INTEGER NOT NULL DEFAULT 0,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
)`); err != nil {
		return err
	}

	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS articles (
    id              SERIAL PRIMARY KEY,
    feed_id         INTEGER NOT NULL REFERENCES feeds(id) ON DELETE CASCADE,
    title           TEXT NOT NULL,
    link            TEXT NOT NULL UNIQUE,
    description     TEXT NOT NULL DEFAULT '',
    content         TEXT NOT NULL DEFAULT '',
    content_snippet TEXT NOT NULL DEFAULT '',
    published_at    TIMESTAMPTZ NOT NULL,
    guid            TEXT NOT NULL,
    author          TEXT NOT NULL DEFAULT '',
    creator         TEXT NOT NULL DEFAULT '',
    categories      JSONB NOT NULL DEFAULT '[]',
    is_read         BOOLEAN NOT NULL DEFAULT FALSE,
    is_favorite     BOOLEAN NOT NULL DEFAULT FALSE,
    summary         TEXT,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
)`); err != nil {
		return err
	}

	indexes := []string{
		// ORDER BY published_at DESC backs every listing query
		`CREATE INDEX IF NOT EXISTS idx_articles_published_at ON articles(published_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_feed_id ON articles(feed_id)`,
		// guid uniqueness is the race backstop for the pre-insert dedup check
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_articles_guid ON articles(guid)`,
		`CREATE INDEX IF NOT EXISTS idx_feeds_active ON feeds(active) WHERE active = TRUE`,
		`CREATE INDEX IF NOT EXISTS idx_feeds_category ON feeds(category)`,
	}
	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return err
		}
	}

	// pg_trgm speeds up the ILIKE title search; ignore failures where the
	// extension cannot be installed.
	_, _ = db.Exec(`CREATE EXTENSION IF NOT EXISTS pg_trgm`)
	_, _ = db.Exec(`CREATE INDEX IF NOT EXISTS idx_articles_title_gin ON articles USING gin(title gin_trgm_ops)`)

	// カテゴリ制約(既に存在する場合はスキップ)
	_, _ = db.Exec(`
DO $$
BEGIN
    IF NOT EXISTS (
        SELECT 1 FROM pg_constraint
        WHERE conname = 'chk_feed_category'
    ) THEN
        ALTER TABLE feeds ADD CONSTRAINT chk_feed_category
        CHECK (category IN ('government', 'corporate', 'media', 'international'));
    END IF;
END $$;
`)

	// Seed the initial feed registry. Duplicates are skipped.
	if _, err := db.Exec(seedFeedsSQL); err != nil {
		return err
	}

	return nil
}

// MigrateDown drops the application tables in dependency order.
// Use with caution: this deletes all stored feeds and articles.
func MigrateDown(db *sql.DB) error {
	dropStatements := []string{
		`DROP TABLE IF EXISTS articles CASCADE`,
		`DROP TABLE IF EXISTS feeds CASCADE`,
	}

	for _, stmt := range dropStatements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
