package middlewares

import (
	"net/http"

	"backoffice/internal/helpers"
)

type SessionChecker interface {
	Authenticated() bool
}

// RequireSession rejects requests while no admin session is held.
func RequireSession(sessions SessionChecker) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			if !sessions.Authenticated() {
				helpers.RespondWithError(w, http.StatusUnauthorized, []string{"UNAUTHORIZED"})
				return
			}
			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(fn)
	}
}
