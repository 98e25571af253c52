// internal/handler/api.go
package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gurkanbulca/taskdeck/internal/repository"
)

// taskResponse is the JSON shape of a listed task. It never carries the
// owner id; the list is already scoped to the caller.
type taskResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	DueDate     string    `json:"due_date"`
	CreatedAt   time.Time `json:"created_at"`
}

// createdTaskResponse echoes a newly created task, including the owner.
type createdTaskResponse struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	DueDate     string `json:"due_date"`
	UserID      int64  `json:"user_id"`
}

type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	DueDate     string `json:"due_date"`
}

// APIListTasks returns the caller's tasks as a JSON array.
func (s *Server) APIListTasks(w http.ResponseWriter, r *http.Request) {
	sess := mustSession(r)

	tasks, err := s.tasks.ListForUser(r.Context(), sess.UserID)
	if err != nil {
		serverError(w, err)
		return
	}

	out := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, taskResponse{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			Status:      t.Status,
			Priority:    t.Priority,
			DueDate:     t.DueDate,
			CreatedAt:   t.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// APICreateTask creates a task from a JSON body. Title is the only
// required field; status and priority default to todo/medium.
func (s *Server) APICreateTask(w http.ResponseWriter, r *http.Request) {
	sess := mustSession(r)

	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	input, msg := validateTaskInput(repository.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if msg != "" {
		jsonError(w, http.StatusBadRequest, msg)
		return
	}

	id, err := s.tasks.Create(r.Context(), input, sess.UserID)
	if err != nil {
		serverError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, createdTaskResponse{
		ID:          id,
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
		UserID:      sess.UserID,
	})
}
