package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

type contextKey string

const UserIDKey contextKey = "user_id"

// AuthMiddleware identifies the caller without rejecting anyone: public
// routes share the router, and handlers that need a user call Authorize.
// A valid X-API-KEY wins over the session cookie.
func (h *AuthHandler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if apiKey := r.Header.Get("X-API-KEY"); apiKey != "" && h.users != nil {
			user, err := h.users.FindByAPIKey(r.Context(), apiKey, time.Now())
			if err == nil {
				ctx := context.WithValue(r.Context(), UserIDKey, user.ID)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
			logrus.WithField("path", r.URL.Path).Debug("Rejected API key")
		}

		// no usable key: fall back to the session cookie
		cookie, err := r.Cookie(CookieName)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		userID, exp, err := h.ParseToken(cookie.Value)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		// reissue once past half of its lifetime
		if !exp.IsZero() && time.Until(exp) < TokenDuration/2 {
			if newToken, err := h.GenerateToken(userID); err == nil {
				http.SetCookie(w, h.sessionCookie(newToken))
			}
		}

		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
