package service_test

import (
	"context"
	"sync"
	"time"

	"github.com/atinyakov/GophTodo/internal/models"
)

// memStore is an in-memory implementation of all three repositories with
// the same semantics as the PostgreSQL ones.
type memStore struct {
	mu       sync.Mutex
	nextUser int64
	nextTask int64
	users    map[string]models.User
	tasks    []models.Task
	sessions map[string]models.Session
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[string]models.User),
		sessions: make(map[string]models.Session),
	}
}

func (m *memStore) UserExists(_ context.Context, username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.users[username]
	return ok, nil
}

func (m *memStore) CreateUser(_ context.Context, username, passwordHash string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[username]; ok {
		return nil, models.ErrDuplicateUsername
	}
	m.nextUser++
	u := models.User{ID: m.nextUser, Username: username, PasswordHash: passwordHash}
	m.users[username] = u
	return &u, nil
}

func (m *memStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[username]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &u, nil
}

func (m *memStore) CreateSession(_ context.Context, s models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.Token] = s
	return nil
}

func (m *memStore) GetSessionUser(_ context.Context, token string, now time.Time) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[token]
	if !ok || !s.ExpiresAt.After(now) {
		return nil, models.ErrNotFound
	}
	for _, u := range m.users {
		if u.ID == s.UserID {
			return &u, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *memStore) DeleteSession(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}

func (m *memStore) ListTasks(_ context.Context, userID int64) ([]models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Task, 0)
	for _, t := range m.tasks {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memStore) CreateTask(_ context.Context, userID int64, text string) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextTask++
	t := models.Task{ID: m.nextTask, Task: text, UserID: userID}
	m.tasks = append(m.tasks, t)
	return &t, nil
}

func (m *memStore) ToggleTask(_ context.Context, userID, id int64) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.tasks {
		if m.tasks[i].ID == id && m.tasks[i].UserID == userID {
			m.tasks[i].Completed = !m.tasks[i].Completed
			t := m.tasks[i]
			return &t, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *memStore) DeleteTask(_ context.Context, userID, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.tasks {
		if m.tasks[i].ID == id && m.tasks[i].UserID == userID {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			return nil
		}
	}
	return models.ErrNotFound
}
