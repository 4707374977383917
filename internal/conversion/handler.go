package conversion

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/codeshift-app/codeshift/internal/api"
	"github.com/codeshift-app/codeshift/internal/auth"
	"github.com/codeshift-app/codeshift/internal/quota"
)

// Handler exposes the conversion endpoints.
type Handler struct {
	svc            *Service
	extractor      *Extractor
	quota          *quota.Service
	throttleWindow time.Duration
}

func NewHandler(svc *Service, extractor *Extractor, quotaSvc *quota.Service, throttleWindow time.Duration) *Handler {
	return &Handler{
		svc:            svc,
		extractor:      extractor,
		quota:          quotaSvc,
		throttleWindow: throttleWindow,
	}
}

// Convert handles POST /api/v1/code/convert.
func (h *Handler) Convert(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}

	var req ConvertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.JSONErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.svc.Convert(r.Context(), userID, &req)
	if err != nil {
		writePipelineError(w, err)
		return
	}

	api.JSON(w, http.StatusOK, res)
}

// Upload handles POST /api/v1/code/upload: multipart file in, extracted
// source code out. Extraction does not consume conversion quota.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if _, ok := requestUserID(w, r); !ok {
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		api.JSONErrorMessage(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	code, err := h.extractor.ExtractCode(r.Context(), header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnsupportedFile), errors.Is(err, ErrNoCodeFound):
			api.JSONError(w, http.StatusBadRequest, err)
		case errors.Is(err, ErrModelUnavailable), errors.Is(err, ErrEmptyReply):
			api.HandleError(w, api.ErrModelUnavailable)
		default:
			api.HandleError(w, err)
		}
		return
	}

	// The extracted code rides in the same shape as a conversion result so
	// the client can drop it straight into the editor.
	api.JSON(w, http.StatusOK, map[string]any{
		"convertedCode": code,
		"explanations":  []string{},
	})
}

// GetQuota handles GET /api/v1/code/quota without consuming any of it.
func (h *Handler) GetQuota(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}

	status, err := h.quota.Peek(r.Context(), userID)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.JSON(w, http.StatusOK, status)
}

// SupportedLanguages handles GET /api/v1/code/supported-languages.
func (h *Handler) SupportedLanguages(w http.ResponseWriter, r *http.Request) {
	api.JSON(w, http.StatusOK, map[string]any{
		"languages": Catalog(),
	})
}

// RateLimitInfo handles GET /api/v1/code/rate-limits so clients can display
// the limits without tripping them.
func (h *Handler) RateLimitInfo(w http.ResponseWriter, r *http.Request) {
	api.JSON(w, http.StatusOK, map[string]any{
		"limit":  h.quota.Limit(),
		"window": h.throttleWindow.String(),
		"note":   fmt.Sprintf("Each user can convert up to %d times per day.", h.quota.Limit()),
	})
}

func requestUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	claims := auth.GetUserClaims(r.Context())
	if claims == nil {
		api.HandleError(w, api.ErrUnauthorized)
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		api.HandleError(w, api.ErrInvalidToken)
		return uuid.Nil, false
	}
	return userID, true
}

// writePipelineError maps pipeline failures onto the HTTP error taxonomy:
// user mistakes are 400, quota exhaustion 429, model trouble 502 and an
// unusable reply 500.
func writePipelineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrMissingField),
		errors.Is(err, ErrUnsupportedSource),
		errors.Is(err, ErrUnsupportedPair),
		errors.Is(err, ErrPayloadTooLarge):
		api.JSONError(w, http.StatusBadRequest, errors.Unwrap(err))
	case errors.Is(err, ErrQuotaExceeded):
		api.HandleError(w, api.ErrQuotaExceeded)
	case errors.Is(err, ErrModelUnavailable), errors.Is(err, ErrEmptyReply):
		api.HandleError(w, api.ErrModelUnavailable)
	case errors.Is(err, ErrNoJSONFound),
		errors.Is(err, ErrMalformedJSON),
		errors.Is(err, ErrMissingConvertedCode):
		api.JSONErrorMessage(w, http.StatusInternalServerError, "failed to process the translation result")
	default:
		api.HandleError(w, err)
	}
}
