package middleware

import (
	"net/http"
	"time"

	"vendorpay/internal/app/logger"
)

// Log attaches the application logger to the request context and writes one
// line per request.
func Log(l logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ctx := l.WithContext(r.Context())
			next.ServeHTTP(w, r.WithContext(ctx))
			l.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Dur("duration", time.Since(start)).
				Msg("Request handled")
		})
	}
}
