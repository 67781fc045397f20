package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"lingobridge/internal/models"
	"lingobridge/internal/repository"
	"lingobridge/internal/security"
)

// Registration errors surfaced to the form.
var (
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidSecretCode  = errors.New("invalid secret code for the requested role")
)

// AuthService handles registration, login and sessions.
type AuthService struct {
	userRepo        *repository.UserRepository
	sessionDuration time.Duration
	teacherCode     string
	adminCode       string
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo *repository.UserRepository, sessionDuration time.Duration, teacherCode, adminCode string) *AuthService {
	return &AuthService{
		userRepo:        userRepo,
		sessionDuration: sessionDuration,
		teacherCode:     teacherCode,
		adminCode:       adminCode,
	}
}

// RegisterInput carries the registration form fields.
type RegisterInput struct {
	Name          string
	Username      string
	Email         string
	Password      string
	Role          string
	SecretCode    string
	School        string
	StudentNumber string
	Classroom     string
}

// Register creates a new account. Teacher and admin roles require the
// matching secret code; anything else registers as a student.
func (s *AuthService) Register(in RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return nil, errors.New("username and password are required")
	}

	role := models.RoleStudent
	switch in.Role {
	case models.RoleTeacher:
		if in.SecretCode != s.teacherCode {
			return nil, ErrInvalidSecretCode
		}
		role = models.RoleTeacher
	case models.RoleAdmin:
		if in.SecretCode != s.adminCode {
			return nil, ErrInvalidSecretCode
		}
		role = models.RoleAdmin
	}

	existing, err := s.userRepo.GetUserByUsername(username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	hash, err := security.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:          strings.TrimSpace(in.Name),
		Username:      username,
		Email:         strings.TrimSpace(in.Email),
		PasswordHash:  hash,
		Role:          role,
		School:        strings.TrimSpace(in.School),
		StudentNumber: strings.TrimSpace(in.StudentNumber),
		Classroom:     strings.TrimSpace(in.Classroom),
	}
	return s.userRepo.CreateUser(user)
}

// Login verifies credentials and opens a session.
func (s *AuthService) Login(username, password string) (*models.User, *models.Session, error) {
	user, err := s.userRepo.GetUserByUsername(strings.TrimSpace(username))
	if err != nil {
		return nil, nil, err
	}
	if user == nil || !security.CheckPassword(user.PasswordHash, password) {
		return nil, nil, ErrInvalidCredentials
	}

	sessionID := security.GenerateSessionID()
	session, err := s.userRepo.CreateSession(sessionID, user.ID, time.Now().Add(s.sessionDuration))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}
	return user, session, nil
}

// ValidateSession resolves a session ID to its user. Expired or unknown
// sessions return nil without error.
func (s *AuthService) ValidateSession(sessionID string) (*models.User, error) {
	if sessionID == "" {
		return nil, nil
	}

	session, err := s.userRepo.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}
	if session.IsExpired() {
		_ = s.userRepo.DeleteSession(sessionID)
		return nil, nil
	}

	return s.userRepo.GetUserByID(session.UserID)
}

// Logout closes a session.
func (s *AuthService) Logout(sessionID string) error {
	return s.userRepo.DeleteSession(sessionID)
}

// CleanupExpiredSessions removes expired sessions. Called periodically
// from the server.
func (s *AuthService) CleanupExpiredSessions() error {
	return s.userRepo.DeleteExpiredSessions()
}
