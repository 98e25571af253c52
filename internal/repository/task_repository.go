// internal/repository/task_repository.go
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/gurkanbulca/taskdeck/internal/models"
)

// TaskInput carries the five mutable task fields. Create and Update take
// the full set; partial updates are not part of the contract.
type TaskInput struct {
	Title       string
	Description string
	Status      string
	Priority    string
	DueDate     string
}

// TaskRepository persists tasks scoped to their owning user. Every read and
// write filters by user id, so a caller can never observe or touch another
// user's tasks.
type TaskRepository struct {
	db *sqlx.DB
}

func NewTaskRepository(db *sqlx.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// ListForUser returns all tasks owned by userID ordered by due date
// ascending. Empty due dates sort before any populated date under text
// collation, which is the ordering clients rely on.
func (r *TaskRepository) ListForUser(ctx context.Context, userID int64) ([]models.Task, error) {
	tasks := []models.Task{}
	query := r.db.Rebind("SELECT * FROM tasks WHERE user_id = ? ORDER BY due_date")
	if err := r.db.SelectContext(ctx, &tasks, query, userID); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// Get fetches a task only if it is owned by userID; otherwise (nil, nil).
// Absent and not-owned are deliberately indistinguishable.
func (r *TaskRepository) Get(ctx context.Context, taskID, userID int64) (*models.Task, error) {
	var task models.Task
	query := r.db.Rebind("SELECT * FROM tasks WHERE id = ? AND user_id = ?")
	if err := r.db.GetContext(ctx, &task, query, taskID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return &task, nil
}

// Create inserts a new task for userID and returns its id.
func (r *TaskRepository) Create(ctx context.Context, in TaskInput, userID int64) (int64, error) {
	query := r.db.Rebind(
		"INSERT INTO tasks (title, description, status, priority, due_date, created_at, user_id) VALUES (?, ?, ?, ?, ?, ?, ?)",
	)
	args := []interface{}{in.Title, in.Description, in.Status, in.Priority, in.DueDate, time.Now().UTC(), userID}

	id, err := insertReturningID(ctx, r.db, query, args)
	if err != nil {
		return 0, fmt.Errorf("insert task: %w", err)
	}
	return id, nil
}

// Update replaces the five mutable fields of the task, filtered by
// id AND user_id. It returns false when no row matched — the id does not
// exist or belongs to someone else; callers treat both the same.
func (r *TaskRepository) Update(ctx context.Context, taskID int64, in TaskInput, userID int64) (bool, error) {
	query := r.db.Rebind(
		"UPDATE tasks SET title = ?, description = ?, status = ?, priority = ?, due_date = ? WHERE id = ? AND user_id = ?",
	)
	res, err := r.db.ExecContext(ctx, query, in.Title, in.Description, in.Status, in.Priority, in.DueDate, taskID, userID)
	if err != nil {
		return false, fmt.Errorf("update task: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update task: %w", err)
	}
	return n > 0, nil
}

// Delete removes the task with the same ownership-filtered semantics as
// Update.
func (r *TaskRepository) Delete(ctx context.Context, taskID, userID int64) (bool, error) {
	query := r.db.Rebind("DELETE FROM tasks WHERE id = ? AND user_id = ?")
	res, err := r.db.ExecContext(ctx, query, taskID, userID)
	if err != nil {
		return false, fmt.Errorf("delete task: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete task: %w", err)
	}
	return n > 0, nil
}
