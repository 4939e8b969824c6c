package feed

import (
	"errors"
	"net/http"

	"newswire/internal/handler/http/pathutil"
	"newswire/internal/handler/http/respond"
	feedUC "newswire/internal/usecase/feed"
)

// DeleteHandler serves DELETE /feeds/{id}. Articles cascade with the feed,
// and the count of removed articles is reported back.
type DeleteHandler struct{ Svc *feedUC.Service }

type deleteResponse struct {
	Message         string `json:"message"`
	DeletedArticles int64  `json:"deletedArticles"`
}

func (h DeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ExtractID(r.URL.Path, "/feeds/")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	removed, err := h.Svc.Delete(r.Context(), id)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, feedUC.ErrFeedNotFound) {
			code = http.StatusNotFound
		}
		respond.SafeError(w, code, err)
		return
	}

	respond.JSON(w, http.StatusOK, deleteResponse{
		Message:         "feed deleted",
		DeletedArticles: removed,
	})
}
