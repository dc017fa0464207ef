package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/atinyakov/GophTodo/internal/middleware"
	"github.com/atinyakov/GophTodo/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// TaskService defines the to-do operations required by the TaskHandler.
// Every call receives the user resolved by the session middleware.
type TaskService interface {
	ListTasks(ctx context.Context, user *models.User) ([]models.Task, error)
	AddTask(ctx context.Context, user *models.User, text string) (*models.Task, error)
	ToggleTask(ctx context.Context, user *models.User, id int64) (*models.Task, error)
	DeleteTask(ctx context.Context, user *models.User, id int64) error
}

// TaskHandler serves the task list and its mutations.
type TaskHandler struct {
	TaskService TaskService
	Pages       *Pages
	Log         *zap.Logger
}

// Index renders the authenticated user's tasks.
func (h *TaskHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.renderIndex(w, r, http.StatusOK, "")
}

// Add creates a task from the "task" form field.
func (h *TaskHandler) Add(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	_, err := h.TaskService.AddTask(r.Context(), user, r.PostFormValue("task"))
	var ve *models.ValidationError
	switch {
	case err == nil:
		http.Redirect(w, r, "/", http.StatusSeeOther)
	case errors.As(err, &ve):
		h.renderIndex(w, r, http.StatusBadRequest, "Task "+ve.Reason)
	default:
		h.fail(w, r, "add task", err)
	}
}

// Toggle flips the completed flag of the task named by the {id} URL parameter.
func (h *TaskHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	user := middleware.UserFromContext(r.Context())
	if _, err := h.TaskService.ToggleTask(r.Context(), user, id); err != nil {
		h.fail(w, r, "toggle task", err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Delete removes the task named by the {id} URL parameter.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	user := middleware.UserFromContext(r.Context())
	if err := h.TaskService.DeleteTask(r.Context(), user, id); err != nil {
		h.fail(w, r, "delete task", err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *TaskHandler) renderIndex(w http.ResponseWriter, r *http.Request, status int, message string) {
	user := middleware.UserFromContext(r.Context())
	tasks, err := h.TaskService.ListTasks(r.Context(), user)
	if err != nil {
		h.fail(w, r, "list tasks", err)
		return
	}
	data := pageData{Title: "To-Do List", Error: message, User: user, Tasks: tasks}
	if err := h.Pages.Render(w, pageIndex, status, data); err != nil {
		h.Log.Error("failed to render page", zap.String("page", pageIndex), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// fail maps service errors to responses.
func (h *TaskHandler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, models.ErrUnauthenticated):
		http.Redirect(w, r, middleware.LoginPath, http.StatusSeeOther)
	default:
		h.Log.Error("failed to "+op, zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func taskID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
