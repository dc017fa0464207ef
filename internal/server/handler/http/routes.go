package http

import (
	"net/http"

	"github.com/atinyakov/GophTodo/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs and returns an HTTP handler that serves the to-do
// application.
//
// Parameters:
//
//	authHandler   - handler for registration, login and logout
//	taskHandler   - handler for the task list and its mutations
//	healthHandler - database liveness probe
//	sessions      - resolves the session cookie for protected routes
//	                (stale cookies are cleared with authHandler.SecureCookie)
//	logger        - structured logger for request logging middleware
//
// Routes:
//
//	GET  /register       → authHandler.RegisterForm
//	POST /register       → authHandler.Register
//	GET  /login          → authHandler.LoginForm
//	POST /login          → authHandler.Login
//	GET  /healthz        → healthHandler.Health
//	GET  /logout         → authHandler.Logout        (protected)
//	POST /logout         → authHandler.Logout        (protected)
//	GET  /               → taskHandler.Index         (protected)
//	POST /add            → taskHandler.Add           (protected)
//	POST /delete/{id}    → taskHandler.Delete        (protected)
//	POST /complete/{id}  → taskHandler.Toggle        (protected)
//
// Delete and complete change state and therefore only accept POST.
//
// Middleware chain (applied in order):
//  1. RequestID, RealIP
//  2. WithRequestLogging(logger)
//  3. Recoverer: turns panics into 500 responses
//  4. AllowContentType(form): rejects request bodies that are not HTML forms
//  5. SessionAuth: protected group only
func NewRouter(
	authHandler *AuthHandler,
	taskHandler *TaskHandler,
	healthHandler *HealthHandler,
	sessions middleware.SessionResolver,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.WithRequestLogging(logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.AllowContentType("application/x-www-form-urlencoded", "multipart/form-data"))

	// Public endpoints
	r.Get("/register", authHandler.RegisterForm)
	r.Post("/register", authHandler.Register)
	r.Get("/login", authHandler.LoginForm)
	r.Post("/login", authHandler.Login)
	r.Get("/healthz", healthHandler.Health)

	// Protected group: requires a valid session cookie
	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionAuth(sessions, authHandler.SecureCookie, logger))

		r.Get("/logout", authHandler.Logout)
		r.Post("/logout", authHandler.Logout)
		r.Get("/", taskHandler.Index)
		r.Post("/add", taskHandler.Add)
		r.Post("/delete/{id}", taskHandler.Delete)
		r.Post("/complete/{id}", taskHandler.Toggle)
	})

	return r
}
