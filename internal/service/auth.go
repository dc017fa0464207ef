// Package service provides authentication and task business logic,
// delegating persistence to repository interfaces.
package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/atinyakov/GophTodo/internal/crypto"
	"github.com/atinyakov/GophTodo/internal/models"
	"github.com/google/uuid"
)

// AuthRepository defines the credential store operations
// required by the authentication service.
type AuthRepository interface {
	// UserExists returns true if a user with the given username exists.
	UserExists(ctx context.Context, username string) (bool, error)
	// CreateUser stores a new user with an already hashed password.
	// Returns models.ErrDuplicateUsername if the username is taken.
	CreateUser(ctx context.Context, username, passwordHash string) (*models.User, error)
	// GetUserByUsername returns models.ErrNotFound for unknown usernames.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// SessionRepository defines the session store operations.
type SessionRepository interface {
	CreateSession(ctx context.Context, session models.Session) error
	// GetSessionUser returns models.ErrNotFound for unknown or expired tokens.
	GetSessionUser(ctx context.Context, token string, now time.Time) (*models.User, error)
	DeleteSession(ctx context.Context, token string) error
}

// dummyHash is compared against when the username is unknown so that both
// login failure paths pay for one bcrypt comparison.
var dummyHash = sync.OnceValue(func() string {
	h, _ := crypto.HashPassword("dummy-password")
	return h
})

// Service implements registration and the login session lifecycle.
type Service struct {
	// repo performs the credential store operations.
	repo     AuthRepository
	sessions SessionRepository
	ttl      time.Duration

	now      func() time.Time
	newToken func() string
}

// NewAuthService constructs a Service. Sessions it creates expire after ttl.
func NewAuthService(repo AuthRepository, sessions SessionRepository, ttl time.Duration) *Service {
	return &Service{
		repo:     repo,
		sessions: sessions,
		ttl:      ttl,
		now:      time.Now,
		newToken: uuid.NewString,
	}
}

// Register validates the credentials, hashes the password and stores a new user.
// Usernames are matched case-sensitively; a taken username yields
// models.ErrDuplicateUsername.
func (s *Service) Register(ctx context.Context, username, password string) (*models.User, error) {
	if err := validateCredentials(username, password); err != nil {
		return nil, err
	}

	exists, err := s.repo.UserExists(ctx, username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, models.ErrDuplicateUsername
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return nil, err
	}

	// The unique index still rejects a concurrent registration of the same name.
	return s.repo.CreateUser(ctx, username, hash)
}

// Login verifies the credentials and opens a new session.
// Unknown usernames and wrong passwords both return models.ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, password string) (*models.Session, error) {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if errors.Is(err, models.ErrNotFound) {
		crypto.CheckPasswordHash(dummyHash(), password)
		return nil, models.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !crypto.CheckPasswordHash(user.PasswordHash, password) {
		return nil, models.ErrInvalidCredentials
	}

	now := s.now()
	session := models.Session{
		Token:     s.newToken(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.sessions.CreateSession(ctx, session); err != nil {
		return nil, err
	}
	return &session, nil
}

// ResolveSession returns the user behind token.
// Empty, unknown and expired tokens return models.ErrUnauthenticated.
func (s *Service) ResolveSession(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, models.ErrUnauthenticated
	}
	user, err := s.sessions.GetSessionUser(ctx, token, s.now())
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Logout invalidates the session. Logging out twice is not an error.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.DeleteSession(ctx, token)
}

func validateCredentials(username, password string) error {
	switch {
	case strings.TrimSpace(username) == "":
		return &models.ValidationError{Field: "username", Reason: "is required"}
	case utf8.RuneCountInString(username) > models.MaxUsernameLength:
		return &models.ValidationError{Field: "username", Reason: "is too long"}
	case password == "":
		return &models.ValidationError{Field: "password", Reason: "is required"}
	case len(password) > models.MaxPasswordBytes:
		return &models.ValidationError{Field: "password", Reason: "is too long"}
	}
	return nil
}
