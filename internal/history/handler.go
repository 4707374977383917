package history

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/codeshift-app/codeshift/internal/api"
	"github.com/codeshift-app/codeshift/internal/auth"
)

// Handler exposes the conversion history endpoint.
type Handler struct {
	repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// ListHistory handles GET /api/v1/code/history with pagination and filters.
func (h *Handler) ListHistory(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserClaims(r.Context())
	if claims == nil {
		api.HandleError(w, api.ErrUnauthorized)
		return
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		api.HandleError(w, api.ErrInvalidToken)
		return
	}

	params := parseListParams(r)
	logs, total, err := h.repo.ListByUser(r.Context(), userID, params)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	if logs == nil {
		logs = []ConversionLog{}
	}
	api.JSONPaginated(w, http.StatusOK, logs, total, params.Page, params.PageSize)
}

func parseListParams(r *http.Request) ListParams {
	params := DefaultListParams()
	q := r.URL.Query()

	if v, err := strconv.Atoi(q.Get("page")); err == nil && v > 0 {
		params.Page = v
	}
	if v, err := strconv.Atoi(q.Get("page_size")); err == nil && v > 0 {
		params.PageSize = v
	}
	params.SourceLanguage = q.Get("source_language")
	params.TargetLanguage = q.Get("target_language")
	params.Status = q.Get("status")

	if v := q.Get("from"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			params.From = &t
		}
	}
	if v := q.Get("to"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			params.To = &t
		}
	}

	return params
}
