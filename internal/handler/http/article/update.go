package article

import (
	"encoding/json"
	"errors"
	"net/http"

	"newswire/internal/handler/http/pathutil"
	"newswire/internal/handler/http/respond"
	artUC "newswire/internal/usecase/article"
)

// UpdateHandler serves PATCH /articles/{id}. Only the read and favorite
// flags are mutable; omitted fields keep their value.
type UpdateHandler struct{ Svc *artUC.Service }

func (h UpdateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ExtractID(r.URL.Path, "/articles/")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	var req struct {
		IsRead     *bool `json:"isRead"`
		IsFavorite *bool `json:"isFavorite"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	if err := h.Svc.UpdateFlags(r.Context(), id, req.IsRead, req.IsFavorite); err != nil {
		code := http.StatusBadRequest
		if errors.Is(err, artUC.ErrArticleNotFound) {
			code = http.StatusNotFound
		}
		respond.SafeError(w, code, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
