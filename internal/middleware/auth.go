// internal/middleware/auth.go
package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gurkanbulca/taskdeck/internal/session"
)

type contextKey int

const sessionContextKey contextKey = iota

// SessionAuth resolves the session cookie and guards protected routes.
type SessionAuth struct {
	sessions   *session.Manager
	cookieName string
}

func NewSessionAuth(sessions *session.Manager, cookieName string) *SessionAuth {
	return &SessionAuth{
		sessions:   sessions,
		cookieName: cookieName,
	}
}

// Resolve attaches the client's session to the request context when the
// cookie names a valid, non-expired session. It never rejects; the guards
// below do that.
func (a *SessionAuth) Resolve(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(a.cookieName)
		if err == nil {
			if s := a.sessions.Get(cookie.Value); s != nil {
				r = r.WithContext(context.WithValue(r.Context(), sessionContextKey, s))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequirePage redirects unauthenticated requests to the login page. It must
// run before any store access.
func (a *SessionAuth) RequirePage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := FromContext(r.Context()); !ok {
			http.Redirect(w, r, "/auth/login", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAPI rejects unauthenticated requests with the JSON error the API
// contract promises.
func (a *SessionAuth) RequireAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := FromContext(r.Context()); !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "Authentication required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// FromContext extracts the authenticated session placed by Resolve.
func FromContext(ctx context.Context) (*session.Session, bool) {
	s, ok := ctx.Value(sessionContextKey).(*session.Session)
	return s, ok
}
