package feed

import (
	"encoding/json"
	"errors"
	"net/http"

	"newswire/internal/domain/entity"
	"newswire/internal/handler/http/respond"
	feedUC "newswire/internal/usecase/feed"
)

// CreateHandler serves POST /feeds. Duplicate URLs are a conflict, not a
// validation error; the client may want to look up the existing feed.
type CreateHandler struct{ Svc *feedUC.Service }

func (h CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title        string `json:"title"`
		URL          string `json:"url"`
		Description  string `json:"description"`
		Category     string `json:"category"`
		Source       string `json:"source"`
		Organization string `json:"organization"`
		Country      string `json:"country"`
		Language     string `json:"language"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	f, err := h.Svc.Create(r.Context(), feedUC.CreateInput{
		Title:        req.Title,
		URL:          req.URL,
		Description:  req.Description,
		Category:     req.Category,
		Source:       req.Source,
		Organization: req.Organization,
		Country:      req.Country,
		Language:     req.Language,
	})
	if err != nil {
		respond.SafeError(w, createStatus(err), err)
		return
	}

	respond.JSON(w, http.StatusCreated, toDTO(f))
}

func createStatus(err error) int {
	var vErr *entity.ValidationError
	switch {
	case errors.Is(err, feedUC.ErrDuplicateFeedURL):
		return http.StatusConflict
	case errors.As(err, &vErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
