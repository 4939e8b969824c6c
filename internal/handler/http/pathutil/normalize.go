package pathutil

import (
	"regexp"
	"strings"
)

// PathPattern pairs a route regex with its normalized template.
type PathPattern struct {
	Pattern  *regexp.Regexp
	Template string
}

// pathPatterns lists the dynamic routes, most specific first.
// Pre-compiled at init so normalization stays cheap on the hot path.
var pathPatterns = []*PathPattern{
	{Pattern: regexp.MustCompile(`^/articles/\d+/summarize$`), Template: "/articles/:id/summarize"},
	{Pattern: regexp.MustCompile(`^/articles/\d+$`), Template: "/articles/:id"},

	{Pattern: regexp.MustCompile(`^/feeds/\d+$`), Template: "/feeds/:id"},
	{Pattern: regexp.MustCompile(`^/feeds/\d+/articles$`), Template: "/feeds/:id/articles"},
}

// NormalizePath collapses ID-bearing paths to their template form so metric
// labels stay bounded. Static paths pass through unchanged.
//
// Examples:
//
//	NormalizePath("/articles/123")           // "/articles/:id"
//	NormalizePath("/articles/123/summarize") // "/articles/:id/summarize"
//	NormalizePath("/feeds/7")                // "/feeds/:id"
//	NormalizePath("/healthz")                // "/healthz" (unchanged)
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}

	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	for _, p := range pathPatterns {
		if p.Pattern.MatchString(path) {
			return p.Template
		}
	}

	return path
}
