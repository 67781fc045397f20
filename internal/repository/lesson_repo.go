package repository

import (
	"database/sql"
	"fmt"

	"lingobridge/internal/database"
	"lingobridge/internal/models"
)

// LessonRepository handles database operations for lessons
type LessonRepository struct {
	db *database.DB
}

// NewLessonRepository creates a new lesson repository
func NewLessonRepository(db *database.DB) *LessonRepository {
	return &LessonRepository{db: db}
}

// Create inserts a new lesson
func (r *LessonRepository) Create(lesson *models.Lesson) (*models.Lesson, error) {
	query := `
		INSERT INTO lessons (title, description, lang)
		VALUES (?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, lesson.Title, lesson.Description, lesson.Lang)
	if err != nil {
		return nil, fmt.Errorf("failed to create lesson: %w", err)
	}
	lesson.ID = id
	return lesson, nil
}

// GetByID retrieves a lesson by ID. Returns nil when no such lesson
// exists.
func (r *LessonRepository) GetByID(id int64) (*models.Lesson, error) {
	query := "SELECT id, title, description, lang FROM lessons WHERE id = ?"
	lesson := &models.Lesson{}
	err := r.db.QueryRow(query, id).Scan(&lesson.ID, &lesson.Title, &lesson.Description, &lesson.Lang)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lesson: %w", err)
	}
	return lesson, nil
}

// List returns lessons, optionally filtered by language.
func (r *LessonRepository) List(lang string) ([]*models.Lesson, error) {
	query := "SELECT id, title, description, lang FROM lessons"
	args := []interface{}{}
	if lang != "" {
		query += " WHERE lang = ?"
		args = append(args, lang)
	}
	query += " ORDER BY id"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list lessons: %w", err)
	}
	defer rows.Close()

	var lessons []*models.Lesson
	for rows.Next() {
		lesson := &models.Lesson{}
		if err := rows.Scan(&lesson.ID, &lesson.Title, &lesson.Description, &lesson.Lang); err != nil {
			return nil, fmt.Errorf("failed to scan lesson: %w", err)
		}
		lessons = append(lessons, lesson)
	}
	return lessons, rows.Err()
}

// Update modifies a lesson's title, description and language
func (r *LessonRepository) Update(lesson *models.Lesson) error {
	query := `
		UPDATE lessons
		SET title = ?, description = ?, lang = ?
		WHERE id = ?
	`
	_, err := r.db.Exec(query, lesson.Title, lesson.Description, lesson.Lang, lesson.ID)
	return err
}

// Delete removes a lesson. Games, items and results cascade.
func (r *LessonRepository) Delete(id int64) error {
	_, err := r.db.Exec("DELETE FROM lessons WHERE id = ?", id)
	return err
}
