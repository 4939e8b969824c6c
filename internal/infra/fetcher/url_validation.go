// Package fetcher provides the outbound HTTP implementations: the RSS/Atom
// feed fetcher and the readability-based article content fetcher.
package fetcher

import (
	"fmt"
	"net"
	"net/url"

	"newswire/internal/usecase/article"
)

// validateURL validates a URL before making an HTTP request. It blocks
// non-http(s) schemes and, when denyPrivateIPs is set, hostnames that
// resolve to loopback, private or link-local addresses (SSRF prevention).
func validateURL(urlStr string, denyPrivateIPs bool) error {
	u, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("%w: parse error: %v", article.ErrInvalidURL, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme '%s' not allowed (only http/https)", article.ErrInvalidURL, u.Scheme)
	}

	hostname := u.Hostname()
	if hostname == "" {
		return fmt.Errorf("%w: empty hostname", article.ErrInvalidURL)
	}

	if !denyPrivateIPs {
		return nil
	}

	// Resolve before connecting; the URL itself can look harmless while
	// pointing into the internal network.
	ips, err := net.LookupIP(hostname)
	if err != nil {
		return fmt.Errorf("%w: DNS lookup failed for %s: %v", article.ErrInvalidURL, hostname, err)
	}

	for _, ip := range ips {
		if isPrivateIP(ip) {
			return fmt.Errorf("%w: hostname '%s' resolves to private IP %s", article.ErrPrivateIP, hostname, ip.String())
		}
	}

	return nil
}

// isPrivateIP reports whether ip is loopback, private or link-local.
// Covers both IPv4 and IPv6 ranges.
func isPrivateIP(ip net.IP) bool {
	return ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast()
}
