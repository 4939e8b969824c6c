package entity

import (
	"fmt"
	"net"
	"net/url"
)

// maxURLLength bounds feed URLs to keep hostile input out of the database.
const maxURLLength = 2048

// ValidateURL validates the format and safety of a feed URL.
// It checks that the URL is well-formed, uses an HTTP/HTTPS scheme, and has
// a host, and it blocks hosts resolving to private or link-local addresses
// so a registered feed cannot be used to probe the internal network.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return &ValidationError{Field: "url", Message: "url is required"}
	}
	if len(rawURL) > maxURLLength {
		return &ValidationError{
			Field:   "url",
			Message: fmt.Sprintf("url must not exceed %d characters", maxURLLength),
		}
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return &ValidationError{Field: "url", Message: "url must use http or https scheme"}
	}
	if parsed.Host == "" {
		return &ValidationError{Field: "url", Message: "url must have a valid host"}
	}

	// Resolution failures are left for the fetcher to report; only a
	// successful lookup into a restricted range is rejected here.
	ips, err := net.LookupIP(parsed.Hostname())
	if err == nil {
		for _, ip := range ips {
			if isRestrictedIP(ip) {
				return &ValidationError{
					Field:   "url",
					Message: "url cannot point to a private network",
				}
			}
		}
	}

	return nil
}

// isRestrictedIP reports whether ip falls in a range polling must never
// reach: loopback, RFC 1918 private space, and link-local (which includes
// cloud metadata endpoints such as 169.254.169.254).
func isRestrictedIP(ip net.IP) bool {
	return ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast()
}
