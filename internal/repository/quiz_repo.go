package repository

import (
	"database/sql"
	"fmt"

	"lingobridge/internal/database"
	"lingobridge/internal/models"
)

// QuizRepository handles database operations for quiz questions and
// pre/post test results.
type QuizRepository struct {
	db *database.DB
}

// NewQuizRepository creates a new quiz repository
func NewQuizRepository(db *database.DB) *QuizRepository {
	return &QuizRepository{db: db}
}

const quizQuestionColumns = "id, lesson_id, kind, question, option_a, option_b, option_c, option_d, correct, image_path, lang"

// CreateQuestion inserts a quiz question
func (r *QuizRepository) CreateQuestion(q *models.QuizQuestion) (*models.QuizQuestion, error) {
	query := `
		INSERT INTO quiz_questions (lesson_id, kind, question, option_a, option_b, option_c, option_d, correct, image_path, lang)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query,
		q.LessonID, q.Kind, q.Question,
		q.OptionA, q.OptionB, q.OptionC, q.OptionD,
		q.Correct, q.ImagePath, q.Lang)
	if err != nil {
		return nil, fmt.Errorf("failed to create quiz question: %w", err)
	}
	q.ID = id
	return q, nil
}

// GetQuestion retrieves one quiz question. Returns nil when no such
// question exists.
func (r *QuizRepository) GetQuestion(id int64) (*models.QuizQuestion, error) {
	query := "SELECT " + quizQuestionColumns + " FROM quiz_questions WHERE id = ?"
	q := &models.QuizQuestion{}
	err := r.db.QueryRow(query, id).Scan(
		&q.ID, &q.LessonID, &q.Kind, &q.Question,
		&q.OptionA, &q.OptionB, &q.OptionC, &q.OptionD,
		&q.Correct, &q.ImagePath, &q.Lang)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz question: %w", err)
	}
	return q, nil
}

// ListQuestions returns a lesson's questions of one kind and language.
func (r *QuizRepository) ListQuestions(lessonID int64, kind, lang string) ([]*models.QuizQuestion, error) {
	query := "SELECT " + quizQuestionColumns + " FROM quiz_questions WHERE lesson_id = ? AND kind = ?"
	args := []interface{}{lessonID, kind}
	if lang != "" {
		query += " AND lang = ?"
		args = append(args, lang)
	}
	query += " ORDER BY id"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list quiz questions: %w", err)
	}
	defer rows.Close()

	var questions []*models.QuizQuestion
	for rows.Next() {
		q := &models.QuizQuestion{}
		err := rows.Scan(
			&q.ID, &q.LessonID, &q.Kind, &q.Question,
			&q.OptionA, &q.OptionB, &q.OptionC, &q.OptionD,
			&q.Correct, &q.ImagePath, &q.Lang)
		if err != nil {
			return nil, fmt.Errorf("failed to scan quiz question: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// UpdateQuestion modifies a quiz question
func (r *QuizRepository) UpdateQuestion(q *models.QuizQuestion) error {
	query := `
		UPDATE quiz_questions
		SET question = ?, option_a = ?, option_b = ?, option_c = ?, option_d = ?, correct = ?, image_path = ?, lang = ?
		WHERE id = ?
	`
	_, err := r.db.Exec(query,
		q.Question, q.OptionA, q.OptionB, q.OptionC, q.OptionD,
		q.Correct, q.ImagePath, q.Lang, q.ID)
	return err
}

// DeleteQuestion removes a quiz question
func (r *QuizRepository) DeleteQuestion(id int64) error {
	_, err := r.db.Exec("DELETE FROM quiz_questions WHERE id = ?", id)
	return err
}

// GetResult retrieves a user's pre or post test result for a lesson.
// Returns nil when the test has not been taken.
func (r *QuizRepository) GetResult(userID, lessonID int64, testType string) (*models.QuizResult, error) {
	query := `
		SELECT id, user_id, lesson_id, test_type, score, taken_at
		FROM quiz_results
		WHERE user_id = ? AND lesson_id = ? AND test_type = ?
	`
	result := &models.QuizResult{}
	err := r.db.QueryRow(query, userID, lessonID, testType).Scan(
		&result.ID, &result.UserID, &result.LessonID,
		&result.TestType, &result.Score, &result.TakenAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz result: %w", err)
	}
	return result, nil
}

// SaveResult records a completed pre or post test. The unique constraint
// rejects a second attempt.
func (r *QuizRepository) SaveResult(userID, lessonID int64, testType string, score int) error {
	query := `
		INSERT INTO quiz_results (user_id, lesson_id, test_type, score)
		VALUES (?, ?, ?, ?)
	`
	if _, err := r.db.Exec(query, userID, lessonID, testType, score); err != nil {
		return fmt.Errorf("failed to save quiz result: %w", err)
	}
	return nil
}

// DeleteResult removes a test result, re-opening the test for one more
// attempt.
func (r *QuizRepository) DeleteResult(userID, lessonID int64, testType string) error {
	query := "DELETE FROM quiz_results WHERE user_id = ? AND lesson_id = ? AND test_type = ?"
	_, err := r.db.Exec(query, userID, lessonID, testType)
	return err
}

// ListResultsForUser returns every test result of one user, newest first.
func (r *QuizRepository) ListResultsForUser(userID int64) ([]*models.QuizResult, error) {
	query := `
		SELECT id, user_id, lesson_id, test_type, score, taken_at
		FROM quiz_results
		WHERE user_id = ?
		ORDER BY taken_at DESC
	`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list quiz results: %w", err)
	}
	defer rows.Close()

	var results []*models.QuizResult
	for rows.Next() {
		result := &models.QuizResult{}
		err := rows.Scan(
			&result.ID, &result.UserID, &result.LessonID,
			&result.TestType, &result.Score, &result.TakenAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan quiz result: %w", err)
		}
		results = append(results, result)
	}
	return results, rows.Err()
}

// QuizReportRow is one test result with its lesson title, for the
// teacher's student report.
type QuizReportRow struct {
	Result      *models.QuizResult
	LessonTitle string
}

// ReportForUser returns a user's test results joined with lesson titles.
func (r *QuizRepository) ReportForUser(userID int64) ([]*QuizReportRow, error) {
	query := `
		SELECT q.id, q.user_id, q.lesson_id, q.test_type, q.score, q.taken_at, l.title
		FROM quiz_results q
		JOIN lessons l ON l.id = q.lesson_id
		WHERE q.user_id = ?
		ORDER BY l.id, q.test_type
	`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to build quiz report: %w", err)
	}
	defer rows.Close()

	var report []*QuizReportRow
	for rows.Next() {
		row := &QuizReportRow{Result: &models.QuizResult{}}
		err := rows.Scan(
			&row.Result.ID, &row.Result.UserID, &row.Result.LessonID,
			&row.Result.TestType, &row.Result.Score, &row.Result.TakenAt, &row.LessonTitle)
		if err != nil {
			return nil, fmt.Errorf("failed to scan quiz report row: %w", err)
		}
		report = append(report, row)
	}
	return report, rows.Err()
}
