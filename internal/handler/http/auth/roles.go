package auth

import "strings"

// Role constants used in JWT claims and permission checks.
const (
	// RoleAdmin has full access to every endpoint and method.
	RoleAdmin = "admin"
	// RoleViewer has read-only access to the content endpoints.
	RoleViewer = "viewer"
)

// Permission describes what a role may do: which HTTP methods and which
// path patterns.
type Permission struct {
	AllowedMethods []string

	// AllowedPaths supports wildcards: "/*" matches everything,
	// "/articles/*" matches /articles and any subpath.
	AllowedPaths []string
}

// RolePermissions maps each role to its permissions. OPTIONS is allowed for
// both roles so CORS preflight requests pass.
var RolePermissions = map[string]Permission{
	RoleAdmin: {
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowedPaths:   []string{"/*"},
	},
	RoleViewer: {
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedPaths: []string{
			"/articles",
			"/articles/*",
			"/feeds",
			"/feeds/*",
		},
	},
}

// checkRolePermission reports whether role may perform method on path.
// Unknown or empty roles are always denied.
func checkRolePermission(role, method, path string) bool {
	if role == "" {
		return false
	}

	perm, exists := RolePermissions[role]
	if !exists {
		return false
	}

	methodAllowed := false
	for _, allowedMethod := range perm.AllowedMethods {
		if allowedMethod == method {
			methodAllowed = true
			break
		}
	}
	if !methodAllowed {
		return false
	}

	return matchesPathPattern(path, perm.AllowedPaths)
}

// matchesPathPattern reports whether path matches any pattern. Patterns
// ending in "/*" match their prefix and any subpath; others need an exact
// match.
func matchesPathPattern(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if pattern == "/*" {
			return true
		}

		if strings.HasSuffix(pattern, "/*") {
			prefix := strings.TrimSuffix(pattern, "/*")
			if path == prefix || strings.HasPrefix(path, prefix+"/") {
				return true
			}
			continue
		}

		if path == pattern {
			return true
		}
	}
	return false
}
