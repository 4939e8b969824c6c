package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"golang.org/x/time/rate"

	"newswire/internal/usecase/poll"
)

const (
	rssUserAgent = "NewswireBot/1.0"

	// snippetMaxRunes caps the plain-text snippet derived from the
	// description HTML.
	snippetMaxRunes = 500
)

// RSSFetcher implements poll.FeedFetcher using the gofeed library.
//
// The poll pipeline runs on a schedule, so a failed fetch is simply recorded
// in the feed's health row and retried on the next tick. Deliberately no
// retry or circuit breaker here; those belong on the interactive paths.
type RSSFetcher struct {
	parser  *gofeed.Parser
	limiter *rate.Limiter
}

// NewRSSFetcher creates an RSSFetcher. requestsPerSecond paces outgoing
// requests across all feeds; zero or negative disables pacing.
func NewRSSFetcher(config FetchConfig) *RSSFetcher {
	fp := gofeed.NewParser()
	fp.UserAgent = rssUserAgent
	fp.Client = newHTTPClient(config.Timeout)

	var limiter *rate.Limiter
	if config.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.RequestsPerSecond), 1)
	}

	return &RSSFetcher{
		parser:  fp,
		limiter: limiter,
	}
}

// Fetch retrieves and parses an RSS/Atom document from the given URL.
// Errors are mapped onto the poll package sentinels so the caller can tell
// timeouts, transport failures and parse failures apart.
func (f *RSSFetcher) Fetch(ctx context.Context, feedURL string) (*poll.FetchedFeed, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %s", poll.ErrFetchTimeout, err.Error())
		}
	}

	feed, err := f.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, classifyFeedError(err)
	}

	items := make([]poll.FeedItem, 0, len(feed.Items))
	for _, it := range feed.Items {
		// Content優先、なければDescriptionを使用
		content := it.Content
		if content == "" {
			content = it.Description
		}

		item := poll.FeedItem{
			Title:          it.Title,
			Link:           it.Link,
			Description:    it.Description,
			Content:        content,
			ContentSnippet: htmlToSnippet(it.Description),
			GUID:           it.GUID,
			Categories:     it.Categories,
		}
		if len(it.Authors) > 0 {
			item.Author = it.Authors[0].Name
			item.Creator = it.Authors[0].Name
		}
		if it.PublishedParsed != nil {
			item.Published = it.PublishedParsed
		} else if it.UpdatedParsed != nil {
			item.Published = it.UpdatedParsed
		}

		items = append(items, item)
	}

	return &poll.FetchedFeed{
		Title:       feed.Title,
		Description: feed.Description,
		Link:        feed.Link,
		Items:       items,
	}, nil
}

// classifyFeedError maps gofeed and transport errors onto the poll sentinels.
// The original message is kept because it ends up in the feed's health row.
func classifyFeedError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %s", poll.ErrFetchTimeout, err.Error())
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return fmt.Errorf("%w: %s", poll.ErrFetchTimeout, err.Error())
		}
		return fmt.Errorf("%w: %s", poll.ErrFetchFailed, err.Error())
	}

	var httpErr gofeed.HTTPError
	if errors.As(err, &httpErr) {
		return fmt.Errorf("%w: %s", poll.ErrFetchFailed, httpErr.Status)
	}

	// Anything else came from the parser: the document was retrieved but is
	// not a feed we can read.
	return fmt.Errorf("%w: %s", poll.ErrInvalidFeed, err.Error())
}

// htmlToSnippet strips markup from a description and collapses whitespace,
// producing the plain-text snippet stored alongside the raw description.
func htmlToSnippet(html string) string {
	if html == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.TrimSpace(html)
	}

	text := strings.Join(strings.Fields(doc.Text()), " ")
	runes := []rune(text)
	if len(runes) > snippetMaxRunes {
		text = string(runes[:snippetMaxRunes])
	}
	return text
}
