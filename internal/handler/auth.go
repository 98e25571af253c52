// internal/handler/auth.go
package handler

import (
	"errors"
	"net/http"

	"github.com/gurkanbulca/taskdeck/internal/middleware"
	"github.com/gurkanbulca/taskdeck/internal/repository"
	"github.com/gurkanbulca/taskdeck/internal/web"
	"github.com/gurkanbulca/taskdeck/pkg/auth"
)

type authPageData struct {
	Error string
	Flash *web.Flash
}

func (s *Server) ShowLogin(w http.ResponseWriter, r *http.Request) {
	s.renderer.Render(w, "login.html", authPageData{Flash: popFlash(w, r)})
}

// Login verifies credentials and issues a fresh session. Invalid
// credentials re-render the form with a single generic message; the
// response never says which half was wrong.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	user, err := s.users.Authenticate(r.Context(), username, password)
	if err != nil {
		serverError(w, err)
		return
	}
	if user == nil {
		s.renderer.Render(w, "login.html", authPageData{Error: "Invalid username or password"})
		return
	}

	sess := s.sessions.Create(user)
	s.setSessionCookie(w, sess)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) ShowRegister(w http.ResponseWriter, r *http.Request) {
	s.renderer.Render(w, "register.html", authPageData{})
}

// Register creates a new account. A duplicate username or email surfaces as
// an inline form message, distinct from storage failures.
func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	username := r.PostFormValue("username")
	email := r.PostFormValue("email")
	password := r.PostFormValue("password")

	if err := auth.ValidateUsername(username); err != nil {
		s.renderer.Render(w, "register.html", authPageData{Error: err.Error()})
		return
	}
	if err := auth.ValidateEmail(email); err != nil {
		s.renderer.Render(w, "register.html", authPageData{Error: err.Error()})
		return
	}

	_, err := s.users.Register(r.Context(), username, email, password)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateCredential):
			s.renderer.Render(w, "register.html", authPageData{Error: "Username or email already exists"})
		case errors.Is(err, auth.ErrWeakPassword):
			s.renderer.Render(w, "register.html", authPageData{Error: err.Error()})
		default:
			serverError(w, err)
		}
		return
	}

	setFlash(w, "Account created successfully. Please log in.", "success")
	http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
}

// Logout clears the session and cookie. Logging out without a session is
// fine; the redirect is the same either way.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	if sess, ok := middleware.FromContext(r.Context()); ok {
		s.sessions.Destroy(sess.Token)
	}
	s.clearSessionCookie(w)
	http.Redirect(w, r, "/auth/login", http.StatusFound)
}
