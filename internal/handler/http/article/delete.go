package article

import (
	"errors"
	"net/http"

	"newswire/internal/handler/http/pathutil"
	"newswire/internal/handler/http/respond"
	artUC "newswire/internal/usecase/article"
)

// DeleteHandler serves DELETE /articles/{id}.
type DeleteHandler struct{ Svc *artUC.Service }

func (h DeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ExtractID(r.URL.Path, "/articles/")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	if err := h.Svc.Delete(r.Context(), id); err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, artUC.ErrArticleNotFound) || errors.Is(err, artUC.ErrInvalidArticleID) {
			code = http.StatusNotFound
		}
		respond.SafeError(w, code, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
