package article

import (
	"context"
	"errors"
)

// ContentFetcher fetches full article content from a URL. Implementations
// extract clean article text from web pages, typically with a readability
// algorithm, so that summarization does not have to work from a short RSS
// description.
//
// Implementations must prevent SSRF (validate URLs and redirect targets,
// block private IPs) and enforce size and time limits.
type ContentFetcher interface {
	// FetchContent returns the extracted plain text of the page at url.
	// Callers should treat any error as non-fatal and fall back to the
	// content the feed already provided.
	FetchContent(ctx context.Context, url string) (string, error)
}

// Sentinel errors for content fetching. They let callers tell failure modes
// apart when choosing a fallback.
var (
	// ErrInvalidURL indicates the URL is malformed or uses a scheme other
	// than http/https.
	ErrInvalidURL = errors.New("invalid URL or unsupported scheme")

	// ErrPrivateIP indicates the URL resolves to a loopback, private or
	// link-local address and was blocked.
	ErrPrivateIP = errors.New("private IP access denied")

	// ErrTooManyRedirects indicates the redirect chain exceeded the
	// configured maximum.
	ErrTooManyRedirects = errors.New("too many redirects")

	// ErrBodyTooLarge indicates the response body exceeded the size limit.
	ErrBodyTooLarge = errors.New("response body too large")

	// ErrContentFetchTimeout indicates the request exceeded the configured
	// timeout.
	ErrContentFetchTimeout = errors.New("content fetch timeout")

	// ErrReadabilityFailed indicates the page was retrieved but no
	// readable article text could be extracted.
	ErrReadabilityFailed = errors.New("content extraction failed")
)
