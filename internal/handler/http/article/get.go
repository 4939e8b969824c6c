package article

import (
	"errors"
	"net/http"

	"newswire/internal/handler/http/pathutil"
	"newswire/internal/handler/http/respond"
	artUC "newswire/internal/usecase/article"
)

// GetHandler serves GET /articles/{id}.
type GetHandler struct{ Svc *artUC.Service }

func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ExtractID(r.URL.Path, "/articles/")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	item, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, artUC.ErrArticleNotFound) || errors.Is(err, artUC.ErrInvalidArticleID) {
			code = http.StatusNotFound
		}
		respond.SafeError(w, code, err)
		return
	}

	respond.JSON(w, http.StatusOK, toDTO(item))
}
