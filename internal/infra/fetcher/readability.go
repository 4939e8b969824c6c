package fetcher

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-shiori/go-readability"

	"newswire/internal/resilience/circuitbreaker"
	"newswire/internal/resilience/retry"
	"newswire/internal/usecase/article"
)

const contentUserAgent = "NewswireBot/1.0"

// ReadabilityFetcher implements article.ContentFetcher using the Mozilla
// Readability algorithm via go-shiori/go-readability. It fetches the article
// page and extracts clean text for summarization.
//
// The fetch path carries the interactive-endpoint resilience stack: URL
// validation against SSRF, a circuit breaker per target class, retry with
// backoff for transient failures, and size/redirect limits.
//
// Safe for concurrent use.
type ReadabilityFetcher struct {
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	config         ContentFetchConfig
}

// NewReadabilityFetcher creates a ReadabilityFetcher with the given
// configuration.
func NewReadabilityFetcher(config ContentFetchConfig) *ReadabilityFetcher {
	fetcher := &ReadabilityFetcher{
		circuitBreaker: circuitbreaker.New(circuitbreaker.ContentFetchConfig()),
		retryConfig:    retry.ContentFetchConfig(),
		config:         config,
	}

	client := newHTTPClient(30 * time.Second)
	// Each redirect target is re-validated so a safe URL cannot bounce us
	// into the internal network.
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= fetcher.config.MaxRedirects {
			return fmt.Errorf("%w: %d redirects", article.ErrTooManyRedirects, len(via))
		}
		if err := validateURL(req.URL.String(), fetcher.config.DenyPrivateIPs); err != nil {
			return fmt.Errorf("redirect target validation failed: %w", err)
		}
		return nil
	}

	fetcher.client = client
	return fetcher
}

// FetchContent fetches and extracts article content from the given URL.
// Transient failures are retried with backoff; a tripped circuit breaker
// fails fast with gobreaker.ErrOpenState.
func (f *ReadabilityFetcher) FetchContent(ctx context.Context, urlStr string) (string, error) {
	if err := validateURL(urlStr, f.config.DenyPrivateIPs); err != nil {
		return "", err
	}

	var content string
	retryErr := retry.WithBackoff(ctx, f.retryConfig, func() error {
		result, err := f.circuitBreaker.Execute(func() (interface{}, error) {
			return f.doFetch(ctx, urlStr)
		})
		if err != nil {
			return err
		}
		content = result.(string)
		return nil
	})
	if retryErr != nil {
		return "", retryErr
	}

	return content, nil
}

// doFetch performs one HTTP request and readability extraction.
func (f *ReadabilityFetcher) doFetch(ctx context.Context, urlStr string) (interface{}, error) {
	reqCtx, cancel := context.WithTimeout(ctx, f.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, urlStr, nil)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %v", article.ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", contentUserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		if reqCtx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("%w: request exceeded %v", article.ErrContentFetchTimeout, f.config.Timeout)
		}
		// Unwrap redirect validation errors so the sentinel survives.
		if urlErr, ok := err.(*url.Error); ok && urlErr.Err != nil {
			return "", urlErr.Err
		}
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", &retry.HTTPError{StatusCode: resp.StatusCode, Message: resp.Status}
	}

	limitedReader := io.LimitReader(resp.Body, f.config.MaxBodySize+1)
	htmlBytes, err := io.ReadAll(limitedReader)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(htmlBytes)) > f.config.MaxBodySize {
		return "", fmt.Errorf("%w: response size %d bytes exceeds limit %d bytes",
			article.ErrBodyTooLarge, len(htmlBytes), f.config.MaxBodySize)
	}

	// Prefer the final URL after redirects for relative-link resolution.
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		parsedURL = nil
	}
	if resp.Request != nil && resp.Request.URL != nil {
		parsedURL = resp.Request.URL
	}

	doc, err := readability.FromReader(bytes.NewReader(htmlBytes), parsedURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", article.ErrReadabilityFailed, err)
	}

	if doc.TextContent == "" {
		if doc.Content == "" {
			return "", fmt.Errorf("%w: no readable content found", article.ErrReadabilityFailed)
		}
		slog.Debug("using article Content instead of TextContent",
			slog.String("url", urlStr),
			slog.Int("content_length", len(doc.Content)))
		return doc.Content, nil
	}

	return doc.TextContent, nil
}
