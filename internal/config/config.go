package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort string

	// Database: sqlite (default), postgres or mysql
	DatabaseType string
	DatabasePath string
	DatabaseURL  string

	SessionDuration time.Duration
	SecretKey       string

	// Registration secret codes for elevated roles
	TeacherCode string
	AdminCode   string

	StaticFilesPath string
	UploadsPath     string
	TemplatesPath   string
	MigrationsPath  string
	UploadMaxSize   int64

	// Speech scoring endpoints (OpenAI-compatible)
	TranscribeURL   string
	TranscribeModel string
	EmbeddingURL    string
	EmbeddingModel  string
	SpeechAPIKey    string

	// Email notifications via SES (disabled when FromEmail is empty)
	AWSRegion    string
	SESFromEmail string
	SESFromName  string
	AppBaseURL   string
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is applied first if present.
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	return &Config{
		ServerPort:      getEnv("PORT", "8080"),
		DatabaseType:    getEnv("DB_TYPE", "sqlite"),
		DatabasePath:    getEnv("DB_PATH", "./lingobridge.db"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		SessionDuration: 24 * time.Hour,
		SecretKey:       getEnv("SECRET_KEY", "dev-secret-change-me"),
		TeacherCode:     getEnv("TEACHER_CODE", "TEACH123"),
		AdminCode:       getEnv("ADMIN_CODE", "ADMIN123"),
		StaticFilesPath: getEnv("STATIC_PATH", "./static"),
		UploadsPath:     getEnv("UPLOADS_PATH", "./static/uploads"),
		TemplatesPath:   getEnv("TEMPLATES_PATH", "./internal/templates"),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "./migrations"),
		UploadMaxSize:   10 * 1024 * 1024, // 10MB, audio clips included
		TranscribeURL:   getEnv("TRANSCRIBE_URL", "http://localhost:9000/v1/audio/transcriptions"),
		TranscribeModel: getEnv("TRANSCRIBE_MODEL", "whisper-base"),
		EmbeddingURL:    getEnv("EMBEDDING_URL", "http://localhost:9000/v1/embeddings"),
		EmbeddingModel:  getEnv("EMBEDDING_MODEL", "paraphrase-multilingual-MiniLM-L12-v2"),
		SpeechAPIKey:    getEnv("SPEECH_API_KEY", ""),
		AWSRegion:       getEnv("AWS_REGION", "eu-west-1"),
		SESFromEmail:    getEnv("SES_FROM_EMAIL", ""),
		SESFromName:     getEnv("SES_FROM_NAME", "LingoBridge"),
		AppBaseURL:      getEnv("APP_BASE_URL", "http://localhost:8080"),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
