package throttle

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubStore struct {
	allowed bool
	err     error
}

func (s *stubStore) Admit(context.Context, string) (bool, error) { return s.allowed, s.err }
func (s *stubStore) RetryAfterSeconds() int                      { return 3600 }

func runThrottled(t *testing.T, store Store) *httptest.ResponseRecorder {
	t.Helper()
	handler := Middleware(store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/code/convert", nil)
	req.RemoteAddr = "203.0.113.7:54321"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestMiddleware_Allows(t *testing.T) {
	rec := runThrottled(t, &stubStore{allowed: true})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMiddleware_Rejects(t *testing.T) {
	rec := runThrottled(t, &stubStore{allowed: false})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "3600", rec.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"status":"error","message":"rate limit exceeded"}`, rec.Body.String())
}

func TestMiddleware_FailsOpenOnStoreError(t *testing.T) {
	rec := runThrottled(t, &stubStore{err: errors.New("backend down")})
	assert.Equal(t, http.StatusOK, rec.Code)
}
