package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"vendorpay/internal/app/apperr"
	"vendorpay/internal/app/handler"
	"vendorpay/internal/app/logger"
)

// Actor extracts the acting identity from the X-Actor-ID / X-Actor-Role
// headers and stores it on the request context. Verifying who set those
// headers belongs to the authenticating proxy in front of this service.
func Actor() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := logger.Get(r.Context(), "Middleware.Actor")

			raw := r.Header.Get("X-Actor-ID")
			id, err := uuid.Parse(raw)
			if err != nil {
				log.Debug().Str("header", raw).Msg("Missing or malformed actor header")
				handler.WriteError(w, apperr.ErrUnauthorized, http.StatusUnauthorized)
				return
			}

			a := handler.Actor{
				ID:   id,
				Role: r.Header.Get("X-Actor-Role"),
			}
			r = r.WithContext(context.WithValue(r.Context(), handler.ContextKeyActor{}, a))
			next.ServeHTTP(w, r)
		})
	}
}
