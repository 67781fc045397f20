package handlers

import (
	"errors"
	"html/template"
	"log"
	"net/http"

	"lingobridge/internal/security"
	"lingobridge/internal/service"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService *service.AuthService
	email       *service.EmailService
	limiter     *security.RateLimiter
	templates   *template.Template
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, email *service.EmailService, limiter *security.RateLimiter, templates *template.Template) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		email:       email,
		limiter:     limiter,
		templates:   templates,
	}
}

type authPage struct {
	basePage
	Username string
}

func (h *AuthHandler) render(w http.ResponseWriter, name string, data interface{}) {
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("Error rendering %s: %v", name, err)
		http.Error(w, ErrInternalServerError, http.StatusInternalServerError)
	}
}

// redirectIfLoggedIn sends an authenticated user to their dashboard.
func (h *AuthHandler) redirectIfLoggedIn(w http.ResponseWriter, r *http.Request) bool {
	cookie, err := r.Cookie(security.SessionCookieName)
	if err != nil {
		return false
	}
	user, err := h.authService.ValidateSession(cookie.Value)
	if err != nil || user == nil {
		return false
	}
	http.Redirect(w, r, dashboardPath(user), http.StatusSeeOther)
	return true
}

// Home sends visitors to their dashboard, or to the login page.
func (h *AuthHandler) Home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.Error(w, ErrNotFound, http.StatusNotFound)
		return
	}
	if h.redirectIfLoggedIn(w, r) {
		return
	}
	http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
}

// ShowLogin renders the login page
func (h *AuthHandler) ShowLogin(w http.ResponseWriter, r *http.Request) {
	if h.redirectIfLoggedIn(w, r) {
		return
	}
	h.render(w, "login.tmpl", authPage{basePage: newPage("Log in", nil)})
}

// Login handles login form submission
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !h.limiter.Allow(security.GetClientIP(r)) {
		http.Error(w, "Too many attempts, try again later", http.StatusTooManyRequests)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return
	}

	username := r.FormValue("username")
	user, session, err := h.authService.Login(username, r.FormValue("password"))
	if err != nil {
		page := authPage{basePage: newPage("Log in", nil), Username: username}
		page.Error = "Invalid username or password"
		h.render(w, "login.tmpl", page)
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, session.ID, session.ExpiresAt))
	http.Redirect(w, r, dashboardPath(user), http.StatusSeeOther)
}

// ShowRegister renders the registration page
func (h *AuthHandler) ShowRegister(w http.ResponseWriter, r *http.Request) {
	if h.redirectIfLoggedIn(w, r) {
		return
	}
	h.render(w, "register.tmpl", authPage{basePage: newPage("Register", nil)})
}

// Register handles registration form submission
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if !h.limiter.Allow(security.GetClientIP(r)) {
		http.Error(w, "Too many attempts, try again later", http.StatusTooManyRequests)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return
	}

	user, err := h.authService.Register(service.RegisterInput{
		Name:          r.FormValue("name"),
		Username:      r.FormValue("username"),
		Email:         r.FormValue("email"),
		Password:      r.FormValue("password"),
		Role:          r.FormValue("role"),
		SecretCode:    r.FormValue("secret_code"),
		School:        r.FormValue("school"),
		StudentNumber: r.FormValue("student_number"),
		Classroom:     r.FormValue("classroom"),
	})
	if err != nil {
		page := authPage{basePage: newPage("Register", nil), Username: r.FormValue("username")}
		switch {
		case errors.Is(err, service.ErrUsernameTaken):
			page.Error = "That username is already taken"
		case errors.Is(err, service.ErrInvalidSecretCode):
			page.Error = "The secret code is wrong for that role"
		default:
			page.Error = "Registration failed, please check the form"
		}
		h.render(w, "register.tmpl", page)
		return
	}

	if err := h.email.SendWelcomeEmail(r.Context(), user.Email, user.Name); err != nil {
		log.Printf("welcome email failed: %v", err)
	}

	http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
}

// Logout ends the session and clears the cookie
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(security.SessionCookieName); err == nil {
		if err := h.authService.Logout(cookie.Value); err != nil {
			log.Printf("logout failed: %v", err)
		}
	}
	http.SetCookie(w, security.CreateDeleteCookie(r))
	http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
}
