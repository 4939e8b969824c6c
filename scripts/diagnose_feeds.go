// Command diagnose_feeds checks every registered feed directly against its
// upstream and prints a JSON report. It is an operator tool for answering
// "is this feed broken or are we broken" without going through the poller.
//
// Usage:
//
//	DATABASE_URL=postgres://... go run ./scripts/diagnose_feeds.go
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/mmcdole/gofeed"
)

// FeedDiagnostic is the per-feed result of one diagnostic pass.
type FeedDiagnostic struct {
	Title        string `json:"title"`
	URL          string `json:"url"`
	Status       string `json:"status"` // OK, HTTP_ERROR, PARSE_ERROR, EMPTY, TIMEOUT
	HTTPCode     int    `json:"http_code,omitempty"`
	ItemCount    int    `json:"item_count"`
	LatestDate   string `json:"latest_date,omitempty"`
	FeedType     string `json:"feed_type,omitempty"` // rss, atom, json
	ErrorMessage string `json:"error_message,omitempty"`
	ResponseMs   int64  `json:"response_time_ms"`
}

type registeredFeed struct {
	title string
	url   string
}

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	feeds, err := loadFeeds(ctx, db)
	if err != nil {
		log.Fatalf("load feeds: %v", err)
	}

	results := make([]FeedDiagnostic, 0, len(feeds))
	healthy := 0
	for _, f := range feeds {
		diag := diagnose(ctx, f)
		if diag.Status == "OK" {
			healthy++
		}
		results = append(results, diag)
		fmt.Fprintf(os.Stderr, "%-10s %s\n", diag.Status, f.url)
	}

	report := struct {
		CheckedAt time.Time        `json:"checked_at"`
		Total     int              `json:"total"`
		Healthy   int              `json:"healthy"`
		Feeds     []FeedDiagnostic `json:"feeds"`
	}{
		CheckedAt: time.Now().UTC(),
		Total:     len(results),
		Healthy:   healthy,
		Feeds:     results,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		log.Fatalf("encode report: %v", err)
	}
}

func loadFeeds(ctx context.Context, db *sql.DB) ([]registeredFeed, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT title, url FROM feeds WHERE active = true ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var feeds []registeredFeed
	for rows.Next() {
		var f registeredFeed
		if err := rows.Scan(&f.title, &f.url); err != nil {
			return nil, err
		}
		feeds = append(feeds, f)
	}
	return feeds, rows.Err()
}

func diagnose(ctx context.Context, f registeredFeed) FeedDiagnostic {
	diag := FeedDiagnostic{Title: f.title, URL: f.url}

	reqCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	start := time.Now()
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, f.url, nil)
	if err != nil {
		diag.Status = "HTTP_ERROR"
		diag.ErrorMessage = err.Error()
		return diag
	}
	req.Header.Set("User-Agent", "newswire-diagnose/1.0")

	resp, err := http.DefaultClient.Do(req)
	diag.ResponseMs = time.Since(start).Milliseconds()
	if err != nil {
		if reqCtx.Err() != nil {
			diag.Status = "TIMEOUT"
		} else {
			diag.Status = "HTTP_ERROR"
		}
		diag.ErrorMessage = err.Error()
		return diag
	}
	defer resp.Body.Close()

	diag.HTTPCode = resp.StatusCode
	if resp.StatusCode != http.StatusOK {
		diag.Status = "HTTP_ERROR"
		diag.ErrorMessage = resp.Status
		return diag
	}

	parsed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		diag.Status = "PARSE_ERROR"
		diag.ErrorMessage = err.Error()
		return diag
	}

	diag.FeedType = parsed.FeedType
	diag.ItemCount = len(parsed.Items)
	if diag.ItemCount == 0 {
		diag.Status = "EMPTY"
		return diag
	}

	if ts := parsed.Items[0].PublishedParsed; ts != nil {
		diag.LatestDate = ts.UTC().Format(time.RFC3339)
	}
	diag.Status = "OK"
	return diag
}
