package article

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"newswire/internal/common/pagination"
	"newswire/internal/handler/http/requestid"
	"newswire/internal/handler/http/respond"
	"newswire/internal/repository"
	artUC "newswire/internal/usecase/article"
)

// ListHandler serves GET /articles with optional filters and pagination.
//
// Query parameters:
//   - page, limit: pagination (invalid values fall back to defaults)
//   - category:    feed category filter
//   - feedId:      restrict to one feed
//   - search:      case-insensitive title match
//   - since:       RFC 3339 timestamp or YYYY-MM-DD date lower bound
type ListHandler struct {
	Svc           *artUC.Service
	PaginationCfg pagination.Config
	Logger        *slog.Logger
}

type listResponse struct {
	Articles   []DTO               `json:"articles"`
	Pagination pagination.Metadata `json:"pagination"`
}

func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	reqID := requestid.FromContext(ctx)

	params := pagination.ParseQueryParams(r, h.PaginationCfg)
	filters, err := parseFilters(r)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := h.Svc.List(ctx, filters, params)
	if err != nil {
		h.Logger.Error("Failed to list articles",
			"error", err.Error(),
			"page", params.Page,
			"limit", params.Limit,
			"request_id", reqID)
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	dtos := make([]DTO, 0, len(result.Data))
	for _, item := range result.Data {
		dtos = append(dtos, toDTO(item))
	}

	response := listResponse{Articles: dtos, Pagination: result.Pagination}

	h.Logger.Info("Article list request",
		"page", params.Page,
		"limit", params.Limit,
		"category", filters.Category,
		"returned_count", len(dtos),
		"duration_ms", time.Since(startTime).Milliseconds(),
		"request_id", reqID)

	respond.JSON(w, http.StatusOK, response)
}

// parseFilters reads the filter query parameters. A malformed feedId or since
// value is a client error; unlike pagination these silently changing meaning
// would return the wrong articles.
func parseFilters(r *http.Request) (repository.ArticleFilters, error) {
	q := r.URL.Query()
	filters := repository.ArticleFilters{
		Category: q.Get("category"),
		Search:   q.Get("search"),
	}

	if raw := q.Get("feedId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return filters, &invalidFilterError{param: "feedId", value: raw}
		}
		filters.FeedID = &id
	}

	if raw := q.Get("since"); raw != "" {
		ts, err := parseSince(raw)
		if err != nil {
			return filters, &invalidFilterError{param: "since", value: raw}
		}
		filters.Since = &ts
	}

	return filters, nil
}

func parseSince(raw string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts, nil
	}
	return time.Parse("2006-01-02", raw)
}

type invalidFilterError struct {
	param string
	value string
}

func (e *invalidFilterError) Error() string {
	return "invalid " + e.param + " parameter: " + e.value
}
