// internal/handler/tasks.go
package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"github.com/gurkanbulca/taskdeck/internal/middleware"
	"github.com/gurkanbulca/taskdeck/internal/models"
	"github.com/gurkanbulca/taskdeck/internal/repository"
	"github.com/gurkanbulca/taskdeck/internal/session"
	"github.com/gurkanbulca/taskdeck/internal/web"
)

type indexPageData struct {
	Username string
	Tasks    []models.Task
	Flash    *web.Flash
}

type taskFormData struct {
	Heading    string
	Action     string
	Error      string
	Task       models.Task
	Statuses   []string
	Priorities []string
}

// Index shows the authenticated user's tasks, ordered by due date with
// undated tasks first.
func (s *Server) Index(w http.ResponseWriter, r *http.Request) {
	sess := mustSession(r)

	tasks, err := s.tasks.ListForUser(r.Context(), sess.UserID)
	if err != nil {
		serverError(w, err)
		return
	}

	s.renderer.Render(w, "index.html", indexPageData{
		Username: sess.Username,
		Tasks:    tasks,
		Flash:    popFlash(w, r),
	})
}

func (s *Server) ShowAddTask(w http.ResponseWriter, r *http.Request) {
	s.renderer.Render(w, "task_form.html", taskFormData{
		Heading:    "Add Task",
		Action:     "/add",
		Task:       models.Task{Status: models.DefaultStatus, Priority: models.DefaultPriority},
		Statuses:   models.TaskStatuses(),
		Priorities: models.TaskPriorities(),
	})
}

func (s *Server) AddTask(w http.ResponseWriter, r *http.Request) {
	sess := mustSession(r)

	input, msg := taskInputFromForm(r)
	if msg != "" {
		s.renderer.Render(w, "task_form.html", taskFormData{
			Heading:    "Add Task",
			Action:     "/add",
			Error:      msg,
			Task:       taskFromInput(input),
			Statuses:   models.TaskStatuses(),
			Priorities: models.TaskPriorities(),
		})
		return
	}

	if _, err := s.tasks.Create(r.Context(), input, sess.UserID); err != nil {
		serverError(w, err)
		return
	}

	setFlash(w, "Task added successfully!", "success")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) ShowEditTask(w http.ResponseWriter, r *http.Request) {
	sess := mustSession(r)

	taskID, ok := taskIDParam(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	task, err := s.tasks.Get(r.Context(), taskID, sess.UserID)
	if err != nil {
		serverError(w, err)
		return
	}
	if task == nil {
		setFlash(w, "Task not found or you do not have permission to edit it.", "error")
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	s.renderer.Render(w, "task_form.html", taskFormData{
		Heading:    "Edit Task",
		Action:     fmt.Sprintf("/edit/%d", task.ID),
		Task:       *task,
		Statuses:   models.TaskStatuses(),
		Priorities: models.TaskPriorities(),
	})
}

func (s *Server) EditTask(w http.ResponseWriter, r *http.Request) {
	sess := mustSession(r)

	taskID, ok := taskIDParam(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	input, msg := taskInputFromForm(r)
	if msg != "" {
		s.renderer.Render(w, "task_form.html", taskFormData{
			Heading:    "Edit Task",
			Action:     fmt.Sprintf("/edit/%d", taskID),
			Error:      msg,
			Task:       taskFromInput(input),
			Statuses:   models.TaskStatuses(),
			Priorities: models.TaskPriorities(),
		})
		return
	}

	updated, err := s.tasks.Update(r.Context(), taskID, input, sess.UserID)
	if err != nil {
		serverError(w, err)
		return
	}

	if updated {
		setFlash(w, "Task updated successfully!", "success")
	} else {
		setFlash(w, "Error updating task.", "error")
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) DeleteTask(w http.ResponseWriter, r *http.Request) {
	sess := mustSession(r)

	taskID, ok := taskIDParam(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	deleted, err := s.tasks.Delete(r.Context(), taskID, sess.UserID)
	if err != nil {
		serverError(w, err)
		return
	}

	if deleted {
		setFlash(w, "Task deleted successfully!", "success")
	} else {
		setFlash(w, "Error deleting task.", "error")
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// mustSession returns the request session. The RequirePage/RequireAPI
// guards run first on every route that calls this, so a missing session is
// a programming error, not a request error.
func mustSession(r *http.Request) *session.Session {
	sess, ok := middleware.FromContext(r.Context())
	if !ok {
		panic("handler reached without session guard")
	}
	return sess
}

func taskIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "taskID"), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// taskInputFromForm extracts and validates the five mutable fields.
// Missing status/priority fall back to the defaults; values outside the
// closed sets are rejected, never coerced.
func taskInputFromForm(r *http.Request) (repository.TaskInput, string) {
	if err := r.ParseForm(); err != nil {
		return repository.TaskInput{}, "Invalid form submission"
	}

	input := repository.TaskInput{
		Title:       r.PostFormValue("title"),
		Description: r.PostFormValue("description"),
		Status:      r.PostFormValue("status"),
		Priority:    r.PostFormValue("priority"),
		DueDate:     r.PostFormValue("due_date"),
	}
	return validateTaskInput(input)
}

func validateTaskInput(input repository.TaskInput) (repository.TaskInput, string) {
	if input.Status == "" {
		input.Status = models.DefaultStatus
	}
	if input.Priority == "" {
		input.Priority = models.DefaultPriority
	}

	switch {
	case input.Title == "":
		return input, "Title is required"
	case utf8.RuneCountInString(input.Title) > models.MaxTitleLength:
		return input, fmt.Sprintf("Title must be at most %d characters", models.MaxTitleLength)
	case utf8.RuneCountInString(input.Description) > models.MaxDescriptionLength:
		return input, fmt.Sprintf("Description must be at most %d characters", models.MaxDescriptionLength)
	case !models.ValidStatus(input.Status):
		return input, "Invalid status"
	case !models.ValidPriority(input.Priority):
		return input, "Invalid priority"
	}
	return input, ""
}

func taskFromInput(in repository.TaskInput) models.Task {
	return models.Task{
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
	}
}
