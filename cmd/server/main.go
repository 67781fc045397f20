package main

import (
	"fmt"
	"html/template"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"lingobridge/internal/config"
	"lingobridge/internal/database"
	"lingobridge/internal/handlers"
	"lingobridge/internal/models"
	"lingobridge/internal/repository"
	"lingobridge/internal/security"
	"lingobridge/internal/service"
	"lingobridge/internal/speech"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Load templates
	templates, err := loadTemplates(cfg.TemplatesPath)
	if err != nil {
		log.Fatalf("Failed to load templates: %v", err)
	}

	log.Println("Templates loaded successfully")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	lessonRepo := repository.NewLessonRepository(db)
	gameRepo := repository.NewGameRepository(db)
	itemRepo := repository.NewItemRepository(db)
	quizRepo := repository.NewQuizRepository(db)
	scoreRepo := repository.NewScoreRepository(db)
	speechRepo := repository.NewSpeechRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, cfg.SessionDuration, cfg.TeacherCode, cfg.AdminCode)

	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	transcriber := speech.NewWhisperClient(cfg.TranscribeURL, cfg.SpeechAPIKey, cfg.TranscribeModel)
	embedder := speech.NewEmbeddingClient(cfg.EmbeddingURL, cfg.SpeechAPIKey, cfg.EmbeddingModel)

	playService := service.NewPlayService(gameRepo, itemRepo, quizRepo, scoreRepo, lessonRepo)
	quizService := service.NewQuizService(quizRepo, lessonRepo)
	speechService := service.NewSpeechService(transcriber, embedder, itemRepo, speechRepo, scoreRepo)
	studentService := service.NewStudentService(lessonRepo, gameRepo, itemRepo, quizRepo, scoreRepo)
	reportService := service.NewReportService(userRepo, gameRepo, lessonRepo, scoreRepo, quizRepo, emailService)
	adminService := service.NewAdminService(lessonRepo, gameRepo, itemRepo, quizRepo)

	// Initialize handlers
	csrf := security.NewCSRFGenerator(cfg.SecretKey)
	middleware := handlers.NewMiddleware(authService, csrf)
	loginLimiter := security.NewRateLimiter(10, time.Minute)
	authHandler := handlers.NewAuthHandler(authService, emailService, loginLimiter, templates)
	studentHandler := handlers.NewStudentHandler(studentService, templates)
	playHandler := handlers.NewPlayHandler(playService, speechService, cfg, templates)
	quizHandler := handlers.NewQuizHandler(quizService, templates)
	teacherHandler := handlers.NewTeacherHandler(reportService, templates)
	adminHandler := handlers.NewAdminHandler(adminService, cfg.UploadsPath, cfg.UploadMaxSize, templates)

	// Setup routes
	mux := http.NewServeMux()

	// Static files and uploaded media
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticFilesPath))))
	mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsPath))))

	// Public routes
	mux.HandleFunc("GET /", authHandler.Home)
	mux.HandleFunc("GET /auth/login", authHandler.ShowLogin)
	mux.HandleFunc("POST /auth/login", authHandler.Login)
	mux.HandleFunc("GET /auth/register", authHandler.ShowRegister)
	mux.HandleFunc("POST /auth/register", authHandler.Register)
	mux.HandleFunc("POST /auth/logout", authHandler.Logout)

	// Student routes
	mux.HandleFunc("GET /student/dashboard/{lang}", middleware.RequireAuth(studentHandler.Dashboard))
	mux.HandleFunc("GET /student/scores/{lang}", middleware.RequireAuth(studentHandler.ExerciseScores))
	mux.HandleFunc("GET /student/tests/{lang}", middleware.RequireAuth(studentHandler.TestScores))
	mux.HandleFunc("GET /student/unit/{id}", middleware.RequireAuth(studentHandler.Unit))
	mux.HandleFunc("GET /student/score/lesson/{id}", middleware.RequireAuth(studentHandler.LessonScoreDetail))

	// Game routes
	mux.HandleFunc("GET /game/play/{id}", middleware.RequireAuth(playHandler.Play))
	mux.HandleFunc("POST /game/play/{id}", middleware.RequireAuth(middleware.CSRFProtect(playHandler.Submit)))
	mux.HandleFunc("POST /game/save_score/{id}", middleware.RequireAuth(middleware.CSRFProtect(playHandler.SaveScore)))
	mux.HandleFunc("POST /game/speech/upload", middleware.RequireAuth(middleware.CSRFProtect(playHandler.SpeechUpload)))
	mux.HandleFunc("POST /game/speech/finish/{id}", middleware.RequireAuth(middleware.CSRFProtect(playHandler.SpeechFinish)))
	mux.HandleFunc("GET /game/speech/result/{id}", middleware.RequireAuth(playHandler.SpeechResult))

	// Lesson test routes
	mux.HandleFunc("GET /quiz/take/{id}/{lang}/{test_type}", middleware.RequireAuth(quizHandler.Take))
	mux.HandleFunc("POST /quiz/take/{id}/{lang}/{test_type}", middleware.RequireAuth(middleware.CSRFProtect(quizHandler.Submit)))

	// Teacher routes
	mux.HandleFunc("GET /teacher/ranking", middleware.RequireRole(models.RoleTeacher, teacherHandler.Ranking))
	mux.HandleFunc("GET /teacher/student/{id}/report", middleware.RequireRole(models.RoleTeacher, teacherHandler.StudentReport))
	mux.HandleFunc("POST /teacher/retake/game/{student_id}/{game_id}", middleware.RequireRole(models.RoleTeacher, middleware.CSRFProtect(teacherHandler.GrantGameRetake)))
	mux.HandleFunc("POST /teacher/retake/quiz/{student_id}/{lesson_id}/{test_type}", middleware.RequireRole(models.RoleTeacher, middleware.CSRFProtect(teacherHandler.GrantQuizRetake)))

	// Admin routes
	mux.HandleFunc("GET /admin/lessons", middleware.RequireRole(models.RoleAdmin, adminHandler.ListLessons))
	mux.HandleFunc("POST /admin/lessons", middleware.RequireRole(models.RoleAdmin, middleware.CSRFProtect(adminHandler.CreateLesson)))
	mux.HandleFunc("POST /admin/lessons/{id}/edit", middleware.RequireRole(models.RoleAdmin, middleware.CSRFProtect(adminHandler.UpdateLesson)))
	mux.HandleFunc("POST /admin/lessons/{id}/delete", middleware.RequireRole(models.RoleAdmin, middleware.CSRFProtect(adminHandler.DeleteLesson)))
	mux.HandleFunc("GET /admin/lessons/{id}/games", middleware.RequireRole(models.RoleAdmin, adminHandler.ListGames))
	mux.HandleFunc("POST /admin/lessons/{id}/games", middleware.RequireRole(models.RoleAdmin, middleware.CSRFProtect(adminHandler.CreateGame)))
	mux.HandleFunc("POST /admin/games/{id}/edit", middleware.RequireRole(models.RoleAdmin, middleware.CSRFProtect(adminHandler.UpdateGame)))
	mux.HandleFunc("POST /admin/games/{id}/delete", middleware.RequireRole(models.RoleAdmin, middleware.CSRFProtect(adminHandler.DeleteGame)))
	mux.HandleFunc("GET /admin/games/{id}/items", middleware.RequireRole(models.RoleAdmin, adminHandler.ListItems))
	mux.HandleFunc("POST /admin/games/{id}/items", middleware.RequireRole(models.RoleAdmin, middleware.CSRFProtect(adminHandler.AddItem)))
	mux.HandleFunc("POST /admin/items/{kind}/{id}/delete", middleware.RequireRole(models.RoleAdmin, middleware.CSRFProtect(adminHandler.DeleteItem)))
	mux.HandleFunc("GET /admin/quiz/lesson/{id}", middleware.RequireRole(models.RoleAdmin, adminHandler.ListQuizQuestions))
	mux.HandleFunc("POST /admin/quiz/lesson/{id}", middleware.RequireRole(models.RoleAdmin, middleware.CSRFProtect(adminHandler.AddQuizQuestion)))
	mux.HandleFunc("POST /admin/quiz/{id}/edit", middleware.RequireRole(models.RoleAdmin, middleware.CSRFProtect(adminHandler.UpdateQuizQuestion)))
	mux.HandleFunc("POST /admin/quiz/{id}/delete", middleware.RequireRole(models.RoleAdmin, middleware.CSRFProtect(adminHandler.DeleteQuizQuestion)))

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start background session cleanup
	go cleanupExpiredSessions(authService)

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
}

// loadTemplates loads all template files
func loadTemplates(templatesPath string) (*template.Template, error) {
	patterns := []string{
		filepath.Join(templatesPath, "components/*.tmpl"),
		filepath.Join(templatesPath, "auth/*.tmpl"),
		filepath.Join(templatesPath, "student/*.tmpl"),
		filepath.Join(templatesPath, "play/*.tmpl"),
		filepath.Join(templatesPath, "teacher/*.tmpl"),
		filepath.Join(templatesPath, "admin/*.tmpl"),
	}

	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to glob pattern %s: %w", pattern, err)
		}
		files = append(files, matches...)
	}

	// Define template functions
	funcMap := template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"sub": func(a, b int) int {
			return a - b
		},
		"formatDate": func(t time.Time) string {
			return t.Format("Jan 2, 2006")
		},
		"pct": func(score, total int) float64 {
			if total == 0 {
				return 0
			}
			return float64(score) / float64(total) * 100
		},
	}

	// Parse all templates with functions
	tmpl, err := template.New("").Funcs(funcMap).ParseFiles(files...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return tmpl, nil
}

// cleanupExpiredSessions periodically removes expired sessions
func cleanupExpiredSessions(authService *service.AuthService) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		if err := authService.CleanupExpiredSessions(); err != nil {
			log.Printf("Error cleaning up expired sessions: %v", err)
		} else {
			log.Println("Expired sessions cleaned up")
		}
	}
}
