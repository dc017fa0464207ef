// Package models defines the core data structures for users, tasks and sessions.
package models

import "time"

const (
	// MaxUsernameLength is the longest username the users table accepts.
	MaxUsernameLength = 80
	// MaxTaskLength is the longest task description the todo_items table accepts.
	MaxTaskLength = 100
	// MaxPasswordBytes is the longest password bcrypt can hash.
	MaxPasswordBytes = 72
)

// User represents an application user with credentials.
type User struct {
	// ID is the unique identifier for the user.
	ID int64
	// Username is the login name chosen by the user.
	Username string
	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string
}

// Task is a single to-do item owned by exactly one user.
type Task struct {
	ID        int64
	Task      string
	Completed bool
	// UserID references the owning User.
	UserID int64
}

// Session binds an opaque token to a logged-in user until ExpiresAt.
type Session struct {
	Token     string
	UserID    int64
	CreatedAt time.Time
	ExpiresAt time.Time
}
