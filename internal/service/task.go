package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/atinyakov/GophTodo/internal/models"
)

// TaskRepository defines the task store operations. Toggle and delete are
// scoped by owner and return models.ErrNotFound for tasks the user does not own.
type TaskRepository interface {
	ListTasks(ctx context.Context, userID int64) ([]models.Task, error)
	CreateTask(ctx context.Context, userID int64, text string) (*models.Task, error)
	ToggleTask(ctx context.Context, userID, id int64) (*models.Task, error)
	DeleteTask(ctx context.Context, userID, id int64) error
}

// TaskService implements to-do operations on behalf of an authenticated user.
type TaskService struct {
	repo TaskRepository
}

// NewTaskService constructs a TaskService with the provided TaskRepository.
func NewTaskService(repo TaskRepository) *TaskService {
	return &TaskService{repo: repo}
}

// ListTasks returns the user's tasks in insertion order.
func (s *TaskService) ListTasks(ctx context.Context, user *models.User) ([]models.Task, error) {
	if user == nil {
		return nil, models.ErrUnauthenticated
	}
	return s.repo.ListTasks(ctx, user.ID)
}

// AddTask creates an uncompleted task owned by user.
// Surrounding whitespace is trimmed; empty or over-long text is rejected.
func (s *TaskService) AddTask(ctx context.Context, user *models.User, text string) (*models.Task, error) {
	if user == nil {
		return nil, models.ErrUnauthenticated
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &models.ValidationError{Field: "task", Reason: "must not be empty"}
	}
	if utf8.RuneCountInString(text) > models.MaxTaskLength {
		return nil, &models.ValidationError{Field: "task", Reason: "must be at most 100 characters"}
	}
	return s.repo.CreateTask(ctx, user.ID, text)
}

// ToggleTask flips the completed flag of one of the user's tasks.
func (s *TaskService) ToggleTask(ctx context.Context, user *models.User, id int64) (*models.Task, error) {
	if user == nil {
		return nil, models.ErrUnauthenticated
	}
	return s.repo.ToggleTask(ctx, user.ID, id)
}

// DeleteTask removes one of the user's tasks.
func (s *TaskService) DeleteTask(ctx context.Context, user *models.User, id int64) error {
	if user == nil {
		return models.ErrUnauthenticated
	}
	return s.repo.DeleteTask(ctx, user.ID, id)
}
