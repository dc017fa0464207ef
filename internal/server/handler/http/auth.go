// Package http provides the HTML form handlers for registration, login and
// the to-do list, together with the router that serves them.
package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/atinyakov/GophTodo/internal/middleware"
	"github.com/atinyakov/GophTodo/internal/models"
	"go.uber.org/zap"
)

// AuthService defines the authentication operations required by the HTTP handlers.
type AuthService interface {
	// Register creates a user. Returns models.ErrDuplicateUsername or a
	// *models.ValidationError for rejected input.
	Register(ctx context.Context, username, password string) (*models.User, error)
	// Login opens a session or returns models.ErrInvalidCredentials.
	Login(ctx context.Context, username, password string) (*models.Session, error)
	// Logout invalidates the session token.
	Logout(ctx context.Context, token string) error
}

// AuthHandler handles HTTP requests for registration, login and logout.
type AuthHandler struct {
	// AuthService performs the underlying authentication operations.
	AuthService AuthService
	Pages       *Pages
	Log         *zap.Logger
	// SecureCookie sets the Secure attribute on the session cookie.
	SecureCookie bool
}

// RegisterForm renders the registration page.
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, pageRegister, http.StatusOK, pageData{Title: "Register"})
}

// Register handles the registration form. On success the client is sent to
// the login page; otherwise the form is shown again with an inline message.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	_, err := h.AuthService.Register(r.Context(), username, password)
	if err != nil {
		data := pageData{Title: "Register", Username: username}
		var ve *models.ValidationError
		switch {
		case errors.Is(err, models.ErrDuplicateUsername):
			data.Error = "Username already exists"
			h.render(w, pageRegister, http.StatusConflict, data)
		case errors.As(err, &ve):
			data.Error = ve.Error()
			h.render(w, pageRegister, http.StatusBadRequest, data)
		default:
			h.Log.Error("failed to register user", zap.String("username", username), zap.Error(err))
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}

	h.Log.Info("user registered", zap.String("username", username))
	http.Redirect(w, r, middleware.LoginPath, http.StatusSeeOther)
}

// LoginForm renders the login page.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, pageLogin, http.StatusOK, pageData{Title: "Log in"})
}

// Login handles the login form. A successful login sets the session cookie
// and redirects to the task list. Unknown users and wrong passwords get the
// same message.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	session, err := h.AuthService.Login(r.Context(), username, password)
	if errors.Is(err, models.ErrInvalidCredentials) {
		h.Log.Warn("failed login", zap.String("username", username), zap.String("remote", r.RemoteAddr))
		h.render(w, pageLogin, http.StatusUnauthorized, pageData{
			Title:    "Log in",
			Error:    "Invalid username or password",
			Username: username,
		})
		return
	}
	if err != nil {
		h.Log.Error("failed to log in", zap.String("username", username), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	// A session presented with the login request is replaced, not kept alive.
	if old := middleware.SessionToken(r); old != "" && old != session.Token {
		if err := h.AuthService.Logout(r.Context(), old); err != nil {
			h.Log.Warn("failed to revoke previous session", zap.String("username", username), zap.Error(err))
		}
	}

	middleware.SetSessionCookie(w, session, h.SecureCookie)
	h.Log.Info("user logged in", zap.String("username", username), zap.String("remote", r.RemoteAddr))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout destroys the current session and redirects to the login page.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.AuthService.Logout(r.Context(), middleware.SessionToken(r)); err != nil {
		h.Log.Error("failed to log out", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if user := middleware.UserFromContext(r.Context()); user != nil {
		h.Log.Info("user logged out", zap.String("username", user.Username))
	}
	middleware.ClearSessionCookie(w, h.SecureCookie)
	http.Redirect(w, r, middleware.LoginPath, http.StatusSeeOther)
}

func (h *AuthHandler) render(w http.ResponseWriter, page string, status int, data pageData) {
	if err := h.Pages.Render(w, page, status, data); err != nil {
		h.Log.Error("failed to render page", zap.String("page", page), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
