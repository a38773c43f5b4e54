package middleware

import (
	"net/http"

	"github.com/askoura/todolists/internal/auth"
)

// WithUser resolves the session cookie and, when it maps to a live session,
// stores the user id in the request context. Anonymous requests pass
// through unchanged.
func WithUser(sessions auth.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(auth.SessionCookie)
			if err == nil {
				if userID, err := sessions.Get(r.Context(), cookie.Value); err == nil && userID != 0 {
					r = r.WithContext(auth.WithUserID(r.Context(), userID))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth bounces anonymous requests to the login page. It expects
// WithUser to have run already.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth.UserID(r.Context()) == 0 {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
