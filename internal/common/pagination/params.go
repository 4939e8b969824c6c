package pagination

import (
	"net/http"
	"strconv"
)

// Params represents pagination query parameters from an HTTP request.
type Params struct {
	Page  int // 1-based page number
	Limit int // Items per page
}

// ParseQueryParams parses pagination parameters from the request query string.
// Missing or malformed values fall back to the configured defaults, and limit
// is capped at config.MaxLimit. Parsing is deliberately lenient: a bad page
// number gives page 1, not a 400.
func ParseQueryParams(r *http.Request, config Config) Params {
	params := Params{
		Page:  config.DefaultPage,
		Limit: config.DefaultLimit,
	}

	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if page, err := strconv.Atoi(pageStr); err == nil && page >= 1 {
			params.Page = page
		}
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit >= 1 {
			params.Limit = limit
		}
	}

	return params.WithDefaults(config)
}
