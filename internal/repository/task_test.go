package repository

import (
	"context"
	"errors"
	"reflect"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/atinyakov/GophTodo/internal/models"
)

func setupTaskMock(t *testing.T) (*PostgresTaskRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	return NewPostgresTaskRepository(db), mock, func() { db.Close() }
}

func TestListTasks_Success(t *testing.T) {
	repo, mock, cleanup := setupTaskMock(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"id", "task", "completed", "user_id"}).
		AddRow(int64(1), "buy milk", false, int64(5)).
		AddRow(int64(4), "walk dog", true, int64(5))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, task, completed, user_id FROM todo_items WHERE user_id = $1 ORDER BY id`)).
		WithArgs(int64(5)).
		WillReturnRows(rows)

	got, err := repo.ListTasks(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []models.Task{
		{ID: 1, Task: "buy milk", Completed: false, UserID: 5},
		{ID: 4, Task: "walk dog", Completed: true, UserID: 5},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ListTasks = %+v; want %+v", got, want)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestListTasks_Empty(t *testing.T) {
	repo, mock, cleanup := setupTaskMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM todo_items WHERE user_id = $1`)).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "task", "completed", "user_id"}))

	got, err := repo.ListTasks(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("ListTasks = %#v; want empty non-nil slice", got)
	}
}

func TestListTasks_ScanError(t *testing.T) {
	repo, mock, cleanup := setupTaskMock(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"id", "task", "completed", "user_id"}).
		AddRow("not-a-number", "x", false, int64(5))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM todo_items WHERE user_id = $1`)).
		WithArgs(int64(5)).
		WillReturnRows(rows)

	if _, err := repo.ListTasks(context.Background(), 5); err == nil {
		t.Fatal("expected scan error, got nil")
	}
}

func TestCreateTask_Success(t *testing.T) {
	repo, mock, cleanup := setupTaskMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO todo_items (task, completed, user_id) VALUES ($1, false, $2) RETURNING id, completed`)).
		WithArgs("buy milk", int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "completed"}).AddRow(int64(11), false))

	task, err := repo.CreateTask(context.Background(), 5, "buy milk")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := &models.Task{ID: 11, Task: "buy milk", Completed: false, UserID: 5}
	if !reflect.DeepEqual(task, want) {
		t.Errorf("CreateTask = %+v; want %+v", task, want)
	}
}

func TestToggleTask_Success(t *testing.T) {
	repo, mock, cleanup := setupTaskMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE todo_items SET completed = NOT completed`)).
		WithArgs(int64(11), int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "task", "completed", "user_id"}).
			AddRow(int64(11), "buy milk", true, int64(5)))

	task, err := repo.ToggleTask(context.Background(), 5, 11)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !task.Completed {
		t.Errorf("Completed = false; want true")
	}
}

func TestToggleTask_NotOwnedOrMissing(t *testing.T) {
	repo, mock, cleanup := setupTaskMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE id = $1 AND user_id = $2`)).
		WithArgs(int64(11), int64(6)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "task", "completed", "user_id"}))

	_, err := repo.ToggleTask(context.Background(), 6, 11)
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("ToggleTask error = %v; want ErrNotFound", err)
	}
}

func TestDeleteTask_Success(t *testing.T) {
	repo, mock, cleanup := setupTaskMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM todo_items WHERE id = $1 AND user_id = $2`)).
		WithArgs(int64(11), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.DeleteTask(context.Background(), 5, 11); err != nil {
		t.Fatalf("DeleteTask returned error: %v", err)
	}
}

func TestDeleteTask_NotFound(t *testing.T) {
	repo, mock, cleanup := setupTaskMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM todo_items WHERE id = $1 AND user_id = $2`)).
		WithArgs(int64(11), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.DeleteTask(context.Background(), 5, 11); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("DeleteTask error = %v; want ErrNotFound", err)
	}
}

func TestDeleteTask_ExecError(t *testing.T) {
	repo, mock, cleanup := setupTaskMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM todo_items`)).
		WithArgs(int64(11), int64(5)).
		WillReturnError(errors.New("delete failed"))

	err := repo.DeleteTask(context.Background(), 5, 11)
	if err == nil || errors.Is(err, models.ErrNotFound) {
		t.Fatalf("DeleteTask error = %v; want infrastructure error", err)
	}
}
