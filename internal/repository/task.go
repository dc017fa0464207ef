package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/atinyakov/GophTodo/internal/models"
)

// PostgresTaskRepository implements the task store on the todo_items table.
// Every query is scoped by the owning user's ID.
type PostgresTaskRepository struct {
	DB *sql.DB
}

// NewPostgresTaskRepository creates a task store on db.
func NewPostgresTaskRepository(db *sql.DB) *PostgresTaskRepository {
	return &PostgresTaskRepository{DB: db}
}

// ListTasks returns the user's tasks in insertion order.
func (s *PostgresTaskRepository) ListTasks(ctx context.Context, userID int64) ([]models.Task, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, task, completed, user_id FROM todo_items WHERE user_id = $1 ORDER BY id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("ListTasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]models.Task, 0)
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(&t.ID, &t.Task, &t.Completed, &t.UserID); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListTasks: %w", err)
	}
	return tasks, nil
}

// CreateTask inserts an uncompleted task owned by userID.
func (s *PostgresTaskRepository) CreateTask(ctx context.Context, userID int64, text string) (*models.Task, error) {
	task := &models.Task{Task: text, UserID: userID}
	err := s.DB.QueryRowContext(ctx, `
		INSERT INTO todo_items (task, completed, user_id) VALUES ($1, false, $2) RETURNING id, completed
	`, text, userID).Scan(&task.ID, &task.Completed)
	if err != nil {
		return nil, fmt.Errorf("CreateTask: %w", err)
	}
	return task, nil
}

// ToggleTask flips the completed flag of the user's task in a single statement.
// It returns models.ErrNotFound if the task does not exist or belongs to another user.
func (s *PostgresTaskRepository) ToggleTask(ctx context.Context, userID, id int64) (*models.Task, error) {
	var t models.Task
	err := s.DB.QueryRowContext(ctx, `
		UPDATE todo_items SET completed = NOT completed
		 WHERE id = $1 AND user_id = $2
		RETURNING id, task, completed, user_id
	`, id, userID).Scan(&t.ID, &t.Task, &t.Completed, &t.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ToggleTask: %w", err)
	}
	return &t, nil
}

// DeleteTask removes the user's task.
// It returns models.ErrNotFound if the task does not exist or belongs to another user.
func (s *PostgresTaskRepository) DeleteTask(ctx context.Context, userID, id int64) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM todo_items WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("DeleteTask: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("DeleteTask: %w", err)
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}
