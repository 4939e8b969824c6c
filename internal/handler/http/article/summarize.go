package article

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"newswire/internal/handler/http/requestid"
	"newswire/internal/handler/http/respond"
	artUC "newswire/internal/usecase/article"
)

// SummarizeHandler serves POST /articles/{id}/summarize. A summary already
// stored on the article is returned as-is; otherwise one is generated through
// the configured AI backend and persisted.
type SummarizeHandler struct {
	Svc    *artUC.Service
	Logger *slog.Logger
}

type summarizeResponse struct {
	ID      int64  `json:"id"`
	Summary string `json:"summary"`
}

func (h SummarizeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		respond.SafeError(w, http.StatusBadRequest, errors.New("invalid id"))
		return
	}

	summary, err := h.Svc.Summarize(ctx, id)
	if err != nil {
		h.Logger.Warn("Summarization request failed",
			"article_id", id,
			"error", err.Error(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", requestid.FromContext(ctx))
		respond.SafeError(w, summarizeStatus(err), err)
		return
	}

	h.Logger.Info("Summarization request completed",
		"article_id", id,
		"summary_length", len([]rune(summary)),
		"duration_ms", time.Since(start).Milliseconds(),
		"request_id", requestid.FromContext(ctx))

	respond.JSON(w, http.StatusOK, summarizeResponse{ID: id, Summary: summary})
}

// summarizeStatus maps summarization errors to HTTP status codes. An upstream
// model failure is a bad gateway, not an internal error; the distinction
// matters for alerting.
func summarizeStatus(err error) int {
	switch {
	case errors.Is(err, artUC.ErrArticleNotFound), errors.Is(err, artUC.ErrInvalidArticleID):
		return http.StatusNotFound
	case errors.Is(err, artUC.ErrNoContent):
		return http.StatusUnprocessableEntity
	case errors.Is(err, artUC.ErrSummarizerUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, artUC.ErrSummarizationFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
