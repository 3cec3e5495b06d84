package api

import (
	"context"
	"net/http"

	"github.com/Scurrlin/stocks-app/internal/auth"
)

type contextKey string

const sessionContextKey contextKey = "session"

const (
	sessionCookieName = "session_token"
	guestCookieName   = "guest_mode"
)

// withSession resolves the session cookie, if any, and stashes the session
// on the request context. It never rejects: gating happens in requireAuth
// and requireBrowse.
func (h *Handler) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err == nil && cookie.Value != "" {
			sess, err := h.provider.Resolve(r.Context(), cookie.Value)
			if err == nil && sess != nil {
				r = r.WithContext(context.WithValue(r.Context(), sessionContextKey, sess))
			}
		}
		next.ServeHTTP(w, r)
	})
}

func sessionFrom(r *http.Request) *auth.Session {
	sess, _ := r.Context().Value(sessionContextKey).(*auth.Session)
	return sess
}

func isGuest(r *http.Request) bool {
	cookie, err := r.Cookie(guestCookieName)
	return err == nil && cookie.Value == "true"
}

// requireAuth admits only signed-in users. Guests can browse but cannot
// touch persisted state.
func (h *Handler) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if sessionFrom(r) == nil {
			respondError(w, http.StatusUnauthorized, "sign in required")
			return
		}
		next(w, r)
	}
}

// requireBrowse admits signed-in users and valid guests
func (h *Handler) requireBrowse(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if sessionFrom(r) == nil && !isGuest(r) {
			respondError(w, http.StatusUnauthorized, "sign in or continue as guest")
			return
		}
		next(w, r)
	}
}
