// internal/handler/server.go
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/gurkanbulca/taskdeck/internal/middleware"
	"github.com/gurkanbulca/taskdeck/internal/repository"
	"github.com/gurkanbulca/taskdeck/internal/session"
	"github.com/gurkanbulca/taskdeck/internal/web"
)

// Server owns the HTTP handlers and their dependencies.
type Server struct {
	users      *repository.UserRepository
	tasks      *repository.TaskRepository
	sessions   *session.Manager
	renderer   *web.Renderer
	cookieName string
}

func NewServer(
	users *repository.UserRepository,
	tasks *repository.TaskRepository,
	sessions *session.Manager,
	renderer *web.Renderer,
	cookieName string,
) *Server {
	return &Server{
		users:      users,
		tasks:      tasks,
		sessions:   sessions,
		renderer:   renderer,
		cookieName: cookieName,
	}
}

// Routes wires the full route table. Guards run before any store access:
// page routes redirect to the login page, API routes answer 401 JSON.
func (s *Server) Routes() http.Handler {
	auth := middleware.NewSessionAuth(s.sessions, s.cookieName)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(auth.Resolve)

	r.Route("/auth", func(r chi.Router) {
		r.Get("/login", s.ShowLogin)
		r.Post("/login", s.Login)
		r.Get("/register", s.ShowRegister)
		r.Post("/register", s.Register)
		r.Get("/logout", s.Logout)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.RequirePage)
		r.Get("/", s.Index)
		r.Get("/add", s.ShowAddTask)
		r.Post("/add", s.AddTask)
		r.Get("/edit/{taskID}", s.ShowEditTask)
		r.Post("/edit/{taskID}", s.EditTask)
		r.Get("/delete/{taskID}", s.DeleteTask)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(auth.RequireAPI)
		r.Get("/tasks", s.APIListTasks)
		r.Post("/tasks", s.APICreateTask)
	})

	return r
}

func (s *Server) setSessionCookie(w http.ResponseWriter, sess session.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    sess.Token,
		Path:     "/",
		MaxAge:   int(s.sessions.Lifetime().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
