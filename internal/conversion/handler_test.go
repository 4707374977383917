package conversion

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeshift-app/codeshift/internal/auth"
	"github.com/codeshift-app/codeshift/internal/quota"
)

// fakeQuotaRepo backs the real quota service in handler tests.
type fakeQuotaRepo struct {
	records map[uuid.UUID]*quota.Record
}

func newFakeQuotaRepo() *fakeQuotaRepo {
	return &fakeQuotaRepo{records: make(map[uuid.UUID]*quota.Record)}
}

func (f *fakeQuotaRepo) Consume(_ context.Context, userID uuid.UUID) (*quota.Record, error) {
	now := time.Now().UTC()
	rec, ok := f.records[userID]
	if !ok || rec.WindowStart.UTC().Truncate(24*time.Hour) != now.Truncate(24*time.Hour) {
		rec = &quota.Record{UserID: userID, Count: 1, WindowStart: now, UpdatedAt: now}
		f.records[userID] = rec
	} else {
		rec.Count++
	}
	r := *rec
	return &r, nil
}

func (f *fakeQuotaRepo) Get(_ context.Context, userID uuid.UUID) (*quota.Record, error) {
	rec, ok := f.records[userID]
	if !ok {
		return nil, nil
	}
	r := *rec
	return &r, nil
}

func newTestHandler(t *testing.T, invoker Invoker, dailyLimit int) *Handler {
	t.Helper()
	quotaSvc := quota.NewService(newFakeQuotaRepo(), dailyLimit)
	svc := NewService(invoker, quotaSvc, nil, nil, 5000)
	return NewHandler(svc, NewExtractor(invoker), quotaSvc, 24*time.Hour)
}

func authedRequest(method, target string, body *bytes.Buffer) *http.Request {
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, target, body)
	claims := &auth.AccessClaims{UserID: uuid.New().String(), Email: "dev@example.com"}
	return req.WithContext(context.WithValue(req.Context(), auth.UserClaimsKey, claims))
}

func postConvert(t *testing.T, h *Handler, reqBody ConvertRequest) *httptest.ResponseRecorder {
	t.Helper()
	body := &bytes.Buffer{}
	require.NoError(t, json.NewEncoder(body).Encode(reqBody))

	req := authedRequest(http.MethodPost, "/api/v1/code/convert", body)
	rec := httptest.NewRecorder()
	h.Convert(rec, req)
	return rec
}

func TestHandler_ConvertSuccess(t *testing.T) {
	h := newTestHandler(t, &stubInvoker{reply: goodReply}, 20)

	rec := postConvert(t, h, *validRequest())
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Status string `json:"status"`
		Data   Result `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, `fmt.Println("hi")`, resp.Data.ConvertedCode)
	assert.Equal(t, []string{"swapped print"}, resp.Data.Explanations)
}

func TestHandler_ConvertValidationError(t *testing.T) {
	h := newTestHandler(t, &stubInvoker{reply: goodReply}, 20)

	req := *validRequest()
	req.TargetLanguage = "python"
	rec := postConvert(t, h, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"error"`)
}

func TestHandler_ConvertBadBody(t *testing.T) {
	h := newTestHandler(t, &stubInvoker{reply: goodReply}, 20)

	req := authedRequest(http.MethodPost, "/api/v1/code/convert", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	h.Convert(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_ConvertQuotaExceeded(t *testing.T) {
	h := newTestHandler(t, &stubInvoker{reply: goodReply}, 1)

	body := &bytes.Buffer{}
	require.NoError(t, json.NewEncoder(body).Encode(validRequest()))
	req := authedRequest(http.MethodPost, "/api/v1/code/convert", body)

	rec := httptest.NewRecorder()
	h.Convert(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// Same user again, over the limit.
	body.Reset()
	require.NoError(t, json.NewEncoder(body).Encode(validRequest()))
	rec = httptest.NewRecorder()
	h.Convert(rec, req.Clone(req.Context()))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "daily conversion limit exceeded")
}

func TestHandler_ConvertModelDown(t *testing.T) {
	h := newTestHandler(t, &stubInvoker{err: ErrModelUnavailable}, 20)

	rec := postConvert(t, h, *validRequest())
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestHandler_ConvertUnusableReply(t *testing.T) {
	h := newTestHandler(t, &stubInvoker{reply: "no json here"}, 20)

	rec := postConvert(t, h, *validRequest())
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "failed to process the translation result")
}

func TestHandler_ConvertUnauthenticated(t *testing.T) {
	h := newTestHandler(t, &stubInvoker{reply: goodReply}, 20)

	body := &bytes.Buffer{}
	require.NoError(t, json.NewEncoder(body).Encode(validRequest()))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/code/convert", body)
	rec := httptest.NewRecorder()
	h.Convert(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandler_GetQuota(t *testing.T) {
	h := newTestHandler(t, &stubInvoker{reply: goodReply}, 20)

	req := authedRequest(http.MethodGet, "/api/v1/code/quota", nil)
	rec := httptest.NewRecorder()
	h.GetQuota(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Remaining int    `json:"remaining"`
			Limit     int    `json:"limit"`
			ResetTime string `json:"resetTime"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 20, resp.Data.Remaining)
	assert.Equal(t, 20, resp.Data.Limit)
	assert.NotEmpty(t, resp.Data.ResetTime)
}

func TestHandler_SupportedLanguages(t *testing.T) {
	h := newTestHandler(t, &stubInvoker{}, 20)

	rec := httptest.NewRecorder()
	h.SupportedLanguages(rec, httptest.NewRequest(http.MethodGet, "/api/v1/code/supported-languages", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Languages []LanguageSupport `json:"languages"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Data.Languages, 11)
}

func TestHandler_RateLimitInfo(t *testing.T) {
	h := newTestHandler(t, &stubInvoker{}, 20)

	rec := httptest.NewRecorder()
	h.RateLimitInfo(rec, httptest.NewRequest(http.MethodGet, "/api/v1/code/rate-limits", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"limit":20`)
	assert.Contains(t, rec.Body.String(), `"window":"24h0m0s"`)
}

func TestHandler_Upload(t *testing.T) {
	h := newTestHandler(t, &stubInvoker{reply: "print('extracted')"}, 20)

	body := &bytes.Buffer{}
	mp := multipart.NewWriter(body)
	part, err := mp.CreateFormFile("file", "snippet.py")
	require.NoError(t, err)
	_, err = part.Write([]byte("Some prose.\n\nprint('extracted')\n"))
	require.NoError(t, err)
	require.NoError(t, mp.Close())

	req := authedRequest(http.MethodPost, "/api/v1/code/upload", body)
	req.Header.Set("Content-Type", mp.FormDataContentType())
	rec := httptest.NewRecorder()
	h.Upload(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			ConvertedCode string   `json:"convertedCode"`
			Explanations  []string `json:"explanations"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "print('extracted')", resp.Data.ConvertedCode)
	assert.Empty(t, resp.Data.Explanations)
}

func TestHandler_UploadUnsupportedType(t *testing.T) {
	h := newTestHandler(t, &stubInvoker{}, 20)

	body := &bytes.Buffer{}
	mp := multipart.NewWriter(body)
	part, err := mp.CreateFormFile("file", "image.png")
	require.NoError(t, err)
	_, err = part.Write([]byte{0x89, 0x50, 0x4e, 0x47})
	require.NoError(t, err)
	require.NoError(t, mp.Close())

	req := authedRequest(http.MethodPost, "/api/v1/code/upload", body)
	req.Header.Set("Content-Type", mp.FormDataContentType())
	rec := httptest.NewRecorder()
	h.Upload(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_UploadMissingFile(t *testing.T) {
	h := newTestHandler(t, &stubInvoker{}, 20)

	req := authedRequest(http.MethodPost, "/api/v1/code/upload", nil)
	rec := httptest.NewRecorder()
	h.Upload(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
