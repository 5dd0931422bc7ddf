package middleware

import (
	"context"
	"net/http"
	"time"
)

// SetTimeout bounds every request with a context deadline. Handlers and the
// upstream calls they make observe the deadline through the request context;
// the handler itself runs on the serving goroutine so a late write can never
// race a timeout reply. The timeout is echoed in a response header.
func SetTimeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if timeout <= 0 {
				next.ServeHTTP(w, r)
				return
			}
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			w.Header().Set("X-Redditreader-Timeout", timeout.String())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
