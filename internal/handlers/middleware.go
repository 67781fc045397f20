package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"lingobridge/internal/models"
	"lingobridge/internal/security"
	"lingobridge/internal/service"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const UserContextKey ContextKey = "user"

// Middleware holds dependencies for middleware functions
type Middleware struct {
	authService *service.AuthService
	csrf        *security.CSRFGenerator
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(authService *service.AuthService, csrf *security.CSRFGenerator) *Middleware {
	return &Middleware{authService: authService, csrf: csrf}
}

// RequireAuth is middleware that requires a valid session. It also keeps
// the CSRF token cookie in sync with the session so pages can submit it
// back.
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(security.SessionCookieName)
		if err != nil {
			http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
			return
		}

		user, err := m.authService.ValidateSession(cookie.Value)
		if err != nil || user == nil {
			http.SetCookie(w, security.CreateDeleteCookie(r))
			http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
			return
		}

		if token, err := m.csrf.GenerateToken(cookie.Value); err == nil {
			if current, err := r.Cookie(security.CSRFCookieName); err != nil || current.Value != token {
				http.SetCookie(w, security.CreateCSRFCookie(r, token))
			}
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next(w, r.WithContext(ctx))
	}
}

// CSRFProtect validates the CSRF token of state-changing requests. The
// token arrives in the X-CSRF-Token header or the csrf_token form field
// and must match the session.
func (m *Middleware) CSRFProtect(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next(w, r)
			return
		}

		cookie, err := r.Cookie(security.SessionCookieName)
		if err != nil {
			http.Error(w, ErrForbidden, http.StatusForbidden)
			return
		}

		token := r.Header.Get("X-CSRF-Token")
		if token == "" {
			token = r.FormValue("csrf_token")
		}
		if !m.csrf.ValidateToken(cookie.Value, token) {
			http.Error(w, "Invalid CSRF token", http.StatusForbidden)
			return
		}
		next(w, r)
	}
}

// RequireRole wraps RequireAuth and additionally checks the user's role.
// Admins pass every role check.
func (m *Middleware) RequireRole(role string, next http.HandlerFunc) http.HandlerFunc {
	return m.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		user := GetUserFromContext(r.Context())
		if user == nil || (user.Role != role && !user.IsAdmin()) {
			if user != nil && r.Method == http.MethodGet {
				setFlash(w, "You do not have access to that page")
				http.Redirect(w, r, dashboardPath(user), http.StatusSeeOther)
				return
			}
			http.Error(w, ErrForbidden, http.StatusForbidden)
			return
		}
		next(w, r)
	})
}

// Logging middleware logs HTTP requests
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// GetUserFromContext retrieves the user from the request context
func GetUserFromContext(ctx context.Context) *models.User {
	user, ok := ctx.Value(UserContextKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}
