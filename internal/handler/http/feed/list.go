package feed

import (
	"net/http"

	"newswire/internal/handler/http/respond"
	feedUC "newswire/internal/usecase/feed"
)

// ListHandler serves GET /feeds. The feed count is small enough that the
// endpoint returns everything at once, unpaginated.
type ListHandler struct{ Svc *feedUC.Service }

func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	feeds, err := h.Svc.List(r.Context())
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	dtos := make([]DTO, 0, len(feeds))
	for _, f := range feeds {
		dtos = append(dtos, toDTO(f))
	}
	respond.JSON(w, http.StatusOK, dtos)
}
