// Package httpguard applies the session route guard to net/http handlers.
// It works with any mux that accepts standard middleware.
package httpguard

import (
	"net/http"
	"net/url"

	session "github.com/civicfix/go-session"
)

// StateFunc yields the auth state for the current request.
type StateFunc func(r *http.Request) session.AuthState

// Guard wraps a handler with the route guard for routes that any
// authenticated user may access.
func Guard(guard *session.RouteGuard, state StateFunc) func(http.Handler) http.Handler {
	return RequireRole(guard, state, "")
}

// RequireRole wraps a handler with the route guard for a role-restricted
// route. requiredRole == "" means any authenticated user.
func RequireRole(guard *session.RouteGuard, state StateFunc, requiredRole session.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if guard == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			decision := guard.Decide(state(r), r.URL.Path, requiredRole)

			switch decision.Kind {
			case session.DecisionWait:
				w.Header().Set("Retry-After", "1")
				http.Error(w, "Verifying authentication...", http.StatusServiceUnavailable)
			case session.DecisionRedirect:
				target := decision.Target
				if decision.From != "" {
					target += "?from=" + url.QueryEscape(decision.From)
				}

				status := http.StatusSeeOther
				if r.Method == http.MethodGet {
					status = http.StatusFound
				}
				http.Redirect(w, r, target, status)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

// BearerState builds a StateFunc that derives the auth state from the
// request's bearer token: no token or an already-expired token means signed
// out, a decodable token seeds the session claims. Opaque tokens still count
// as signed in; signature verification stays the verifier's job.
func BearerState() StateFunc {
	return func(r *http.Request) session.AuthState {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			return session.AuthState{}
		}

		user, err := session.DecodeSessionToken(token)
		if session.IsTokenExpiredError(err) {
			return session.AuthState{}
		}
		return session.AuthState{User: user}
	}
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if len(value) <= len(bearer) || value[:len(bearer)] != bearer {
		return "", false
	}
	return value[len(bearer):], true
}
