// Package middleware holds the HTTP request gates shared across handlers.
package middleware

import (
	"context"
	"net/http"

	"github.com/amandalabs/amanda-chat/backend/internal/session"
	"github.com/amandalabs/amanda-chat/backend/pkg/utils"
)

type contextKey struct{ name string }

var claimsKey = &contextKey{"session-claims"}

// RequireSession gates a route on a valid paid session credential. The check
// is purely local (signature + expiry + paid flag), so it runs on every chat
// request without any external dependency.
func RequireSession(codec *session.Codec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(session.CookieName)
			if err != nil || cookie.Value == "" {
				utils.RespondError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			claims, err := codec.Verify(cookie.Value)
			if err != nil {
				utils.RespondError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the verified session claims placed on the request
// context by RequireSession.
func ClaimsFromContext(ctx context.Context) (*session.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*session.Claims)
	return claims, ok
}
