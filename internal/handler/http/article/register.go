package article

import (
	"log/slog"
	"net/http"

	"newswire/internal/common/pagination"
	"newswire/internal/handler/http/auth"
	"newswire/internal/handler/http/searchlimit"
	artUC "newswire/internal/usecase/article"
)

// Register wires the article routes into the mux. Every route sits behind
// the auth middleware; viewer tokens can read, only admin tokens can mutate.
// Search queries on the list route additionally pass searchLimiter.
func Register(mux *http.ServeMux, svc *artUC.Service, paginationCfg pagination.Config, searchLimiter *searchlimit.Limiter, logger *slog.Logger) {
	var list http.Handler = ListHandler{
		Svc:           svc,
		PaginationCfg: paginationCfg,
		Logger:        logger,
	}
	if searchLimiter != nil {
		list = searchLimiter.Limit(list)
	}
	mux.Handle("GET    /articles", auth.Authz(list))
	mux.Handle("POST   /articles/{id}/summarize", auth.Authz(SummarizeHandler{Svc: svc, Logger: logger}))
	mux.Handle("GET    /articles/", auth.Authz(GetHandler{svc}))
	mux.Handle("PATCH  /articles/", auth.Authz(UpdateHandler{svc}))
	mux.Handle("DELETE /articles/", auth.Authz(DeleteHandler{svc}))
}
