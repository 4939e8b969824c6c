package fetcher

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"
)

// FetchConfig configures the RSS/Atom feed fetcher.
type FetchConfig struct {
	// Timeout is the maximum duration for fetching one feed document.
	// Default: 30s
	Timeout time.Duration

	// RequestsPerSecond paces outgoing feed requests across all feeds.
	// Zero disables pacing.
	// Default: 0
	RequestsPerSecond float64
}

// DefaultFetchConfig returns the default feed fetcher configuration.
func DefaultFetchConfig() FetchConfig {
	return FetchConfig{
		Timeout:           30 * time.Second,
		RequestsPerSecond: 0,
	}
}

// LoadFetchConfigFromEnv loads the feed fetcher configuration from
// environment variables, falling back to defaults.
//
// Environment variables:
//   - FEED_FETCH_TIMEOUT: duration string, e.g. "30s"
//   - FEED_FETCH_RATE: float, requests per second (0 disables pacing)
func LoadFetchConfigFromEnv() (FetchConfig, error) {
	cfg := DefaultFetchConfig()

	if val := os.Getenv("FEED_FETCH_TIMEOUT"); val != "" {
		parsed, err := time.ParseDuration(val)
		if err != nil {
			return cfg, fmt.Errorf("invalid FEED_FETCH_TIMEOUT: %v (expected format: '30s', '1m')", err)
		}
		cfg.Timeout = parsed
	}

	if val := os.Getenv("FEED_FETCH_RATE"); val != "" {
		parsed, err := strconv.ParseFloat(val, 64)
		if err != nil || parsed < 0 {
			return cfg, fmt.Errorf("invalid FEED_FETCH_RATE: %q", val)
		}
		cfg.RequestsPerSecond = parsed
	}

	if cfg.Timeout <= 0 {
		return cfg, fmt.Errorf("feed fetch timeout must be positive, got %v", cfg.Timeout)
	}

	return cfg, nil
}

// newHTTPClient builds the HTTP client shared by feed fetches.
func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
	}
}

// ContentFetchConfig configures full-page content fetching, which backfills
// thin feed content before summarization.
//
// Security settings:
//   - DenyPrivateIPs: blocks URLs resolving to private addresses (SSRF)
//   - MaxBodySize: rejects oversized responses
//   - MaxRedirects: bounds redirect chains
//   - Timeout: bounds each request
type ContentFetchConfig struct {
	// Enabled controls whether content fetching happens at all. When
	// false, summaries are generated from feed content directly.
	// Default: true
	Enabled bool

	// Threshold is the minimum feed content length (in characters) below
	// which the full page is fetched.
	// Default: 1500
	Threshold int

	// Timeout is the maximum duration for a single HTTP request.
	// Default: 10s
	Timeout time.Duration

	// MaxBodySize is the maximum HTTP response body size in bytes,
	// enforced while reading rather than from the Content-Length header.
	// Default: 10485760 (10MB)
	MaxBodySize int64

	// MaxRedirects is the maximum number of HTTP redirects to follow.
	// Each redirect target is re-validated against the SSRF rules.
	// Default: 5
	MaxRedirects int

	// DenyPrivateIPs blocks URLs that resolve to private, loopback or
	// link-local addresses. Should always be true in production.
	// Default: true
	DenyPrivateIPs bool
}

// DefaultConfig returns the default content fetching configuration.
func DefaultConfig() ContentFetchConfig {
	return ContentFetchConfig{
		Enabled:        true,
		Threshold:      1500,
		Timeout:        10 * time.Second,
		MaxBodySize:    10 * 1024 * 1024, // 10MB
		MaxRedirects:   5,
		DenyPrivateIPs: true,
	}
}

// Validate checks that the configuration values are sane.
func (c *ContentFetchConfig) Validate() error {
	if c.Threshold < 0 {
		return fmt.Errorf("threshold must be non-negative, got %d", c.Threshold)
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}

	minBodySize := int64(1024)              // 1KB
	maxBodySize := int64(100 * 1024 * 1024) // 100MB
	if c.MaxBodySize < minBodySize || c.MaxBodySize > maxBodySize {
		return fmt.Errorf("max body size must be between %d and %d bytes, got %d", minBodySize, maxBodySize, c.MaxBodySize)
	}

	if c.MaxRedirects < 0 || c.MaxRedirects > 10 {
		return fmt.Errorf("max redirects must be between 0 and 10, got %d", c.MaxRedirects)
	}

	return nil
}

// LoadConfigFromEnv loads the content fetching configuration from
// environment variables. Unset variables keep their defaults; malformed
// values are an error. The loaded configuration is validated.
//
// Environment variables:
//   - CONTENT_FETCH_ENABLED: "true" or "false" (default: true)
//   - CONTENT_FETCH_THRESHOLD: integer (default: 1500)
//   - CONTENT_FETCH_TIMEOUT: duration string, e.g. "10s" (default: 10s)
//   - CONTENT_FETCH_MAX_BODY_SIZE: integer in bytes (default: 10485760)
//   - CONTENT_FETCH_MAX_REDIRECTS: integer (default: 5)
//   - CONTENT_FETCH_DENY_PRIVATE_IPS: "true" or "false" (default: true)
func LoadConfigFromEnv() (ContentFetchConfig, error) {
	cfg := DefaultConfig()

	if val := os.Getenv("CONTENT_FETCH_ENABLED"); val != "" {
		cfg.Enabled = val == "true"
	}

	if val := os.Getenv("CONTENT_FETCH_THRESHOLD"); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			return cfg, fmt.Errorf("invalid CONTENT_FETCH_THRESHOLD: %v", err)
		}
		cfg.Threshold = parsed
	}

	if val := os.Getenv("CONTENT_FETCH_TIMEOUT"); val != "" {
		parsed, err := time.ParseDuration(val)
		if err != nil {
			return cfg, fmt.Errorf("invalid CONTENT_FETCH_TIMEOUT: %v (expected format: '10s', '1m')", err)
		}
		cfg.Timeout = parsed
	}

	if val := os.Getenv("CONTENT_FETCH_MAX_BODY_SIZE"); val != "" {
		parsed, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("invalid CONTENT_FETCH_MAX_BODY_SIZE: %v", err)
		}
		cfg.MaxBodySize = parsed
	}

	if val := os.Getenv("CONTENT_FETCH_MAX_REDIRECTS"); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			return cfg, fmt.Errorf("invalid CONTENT_FETCH_MAX_REDIRECTS: %v", err)
		}
		cfg.MaxRedirects = parsed
	}

	if val := os.Getenv("CONTENT_FETCH_DENY_PRIVATE_IPS"); val != "" {
		cfg.DenyPrivateIPs = val == "true"
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}
