// Package throttle provides a coarse per-origin request ceiling in front of
// the conversion endpoint. It is a best-effort first line of defense, not a
// security boundary; the per-user daily quota is enforced separately.
package throttle

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/codeshift-app/codeshift/internal/metrics"
	mw "github.com/codeshift-app/codeshift/internal/middleware"
)

// Store decides whether a request from the given origin key is admitted.
// Implementations must be safe for concurrent use.
type Store interface {
	Admit(ctx context.Context, originKey string) (bool, error)
	// RetryAfterSeconds is the value advertised on rejected requests.
	RetryAfterSeconds() int
}

// Middleware enforces the throttle keyed by client IP. On store errors it
// fails open (allows the request through).
func Middleware(store Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := mw.ClientIP(r)

			allowed, err := store.Admit(r.Context(), ip)
			if err != nil {
				slog.Warn("throttle: store error, failing open", "error", err, "ip", ip)
				next.ServeHTTP(w, r)
				return
			}

			if !allowed {
				metrics.ThrottleRejectionsTotal.Inc()
				w.Header().Set("Retry-After", strconv.Itoa(store.RetryAfterSeconds()))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"status":"error","message":"rate limit exceeded"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
