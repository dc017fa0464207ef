// Package middleware provides HTTP middlewares for session authentication and logging.
package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/atinyakov/GophTodo/internal/models"
	"go.uber.org/zap"
)

type ctxKey string

const userKey ctxKey = "user"

// SessionCookieName is the cookie carrying the opaque session token.
const SessionCookieName = "session_token"

// LoginPath is where unauthenticated requests are redirected.
const LoginPath = "/login"

// SessionResolver resolves a session token to its user.
type SessionResolver interface {
	// ResolveSession returns models.ErrUnauthenticated for missing, unknown or expired tokens.
	ResolveSession(ctx context.Context, token string) (*models.User, error)
}

// SessionAuth is a middleware that resolves the session cookie once per request.
//
// On success the authenticated user is stored in the request context and can be
// read downstream with UserFromContext. Requests without a valid session are
// redirected to the login page and a stale cookie is cleared. secure must
// match the attribute the cookie was set with.
func SessionAuth(resolver SessionResolver, secure bool, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := SessionToken(r)
			user, err := resolver.ResolveSession(r.Context(), token)
			if errors.Is(err, models.ErrUnauthenticated) {
				if token != "" {
					ClearSessionCookie(w, secure)
				}
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}
			if err != nil {
				log.Error("failed to resolve session", zap.Error(err))
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// SessionToken returns the session token presented by the client, or "".
func SessionToken(r *http.Request) string {
	c, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

// SetSessionCookie hands the session to the client.
func SetSessionCookie(w http.ResponseWriter, session *models.Session, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie tells the client to drop its session cookie.
func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// WithUser returns a copy of ctx carrying the authenticated user.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext extracts the authenticated user from the request context.
// Returns nil if the request did not pass through SessionAuth.
func UserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey).(*models.User)
	return user
}
