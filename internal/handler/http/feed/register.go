package feed

import (
	"net/http"

	"newswire/internal/handler/http/auth"
	feedUC "newswire/internal/usecase/feed"
)

// Register wires the feed routes into the mux behind the auth middleware.
func Register(mux *http.ServeMux, svc *feedUC.Service) {
	mux.Handle("GET    /feeds", auth.Authz(ListHandler{svc}))
	mux.Handle("POST   /feeds", auth.Authz(CreateHandler{svc}))
	mux.Handle("GET    /feeds/", auth.Authz(GetHandler{svc}))
	mux.Handle("PUT    /feeds/", auth.Authz(UpdateHandler{svc}))
	mux.Handle("DELETE /feeds/", auth.Authz(DeleteHandler{svc}))
}
