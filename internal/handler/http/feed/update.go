package feed

import (
	"encoding/json"
	"errors"
	"net/http"

	"newswire/internal/domain/entity"
	"newswire/internal/handler/http/pathutil"
	"newswire/internal/handler/http/respond"
	feedUC "newswire/internal/usecase/feed"
)

// UpdateHandler serves PUT /feeds/{id}. Omitted fields keep their value;
// Active uses a pointer so "set inactive" and "leave alone" stay distinct.
type UpdateHandler struct{ Svc *feedUC.Service }

func (h UpdateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ExtractID(r.URL.Path, "/feeds/")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	var req struct {
		Title        string `json:"title"`
		URL          string `json:"url"`
		Description  string `json:"description"`
		Category     string `json:"category"`
		Source       string `json:"source"`
		Organization string `json:"organization"`
		Active       *bool  `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	f, err := h.Svc.Update(r.Context(), feedUC.UpdateInput{
		ID:           id,
		Title:        req.Title,
		URL:          req.URL,
		Description:  req.Description,
		Category:     req.Category,
		Source:       req.Source,
		Organization: req.Organization,
		Active:       req.Active,
	})
	if err != nil {
		respond.SafeError(w, updateStatus(err), err)
		return
	}

	respond.JSON(w, http.StatusOK, toDTO(f))
}

func updateStatus(err error) int {
	var vErr *entity.ValidationError
	switch {
	case errors.Is(err, feedUC.ErrFeedNotFound):
		return http.StatusNotFound
	case errors.Is(err, feedUC.ErrDuplicateFeedURL):
		return http.StatusConflict
	case errors.As(err, &vErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
