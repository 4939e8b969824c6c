// Package auth provides JWT-based authentication for the API: the token
// endpoint, the authorization middleware, and role-based permissions.
package auth

import "strings"

// PublicEndpoints lists paths reachable without a JWT.
//
// - /healthz, /readyz, /livez: orchestration probes
// - /metrics: Prometheus scraping
// - /auth/token: can't require a token to obtain one
// - /internal/cron/: the poll trigger carries its own shared-secret check
var PublicEndpoints = []string{
	"/healthz",
	"/readyz",
	"/livez",
	"/metrics",
	"/auth/token",
	"/internal/cron/",
}

// IsPublicEndpoint reports whether path is reachable without authentication.
// Entries ending in '/' are prefix matches; the rest require an exact match
// (query params and a trailing slash allowed) so /healthz does not leak
// access to /healthz/detail.
func IsPublicEndpoint(path string) bool {
	for _, endpoint := range PublicEndpoints {
		if strings.HasSuffix(endpoint, "/") {
			if strings.HasPrefix(path, endpoint) {
				return true
			}
			continue
		}

		if path == endpoint {
			return true
		}
		if path == endpoint+"/" {
			return true
		}
		if strings.HasPrefix(path, endpoint+"?") {
			return true
		}
	}
	return false
}
