package repository

import (
	"database/sql"
	"fmt"

	"lingobridge/internal/database"
	"lingobridge/internal/models"
)

// ScoreRepository handles database operations for game scores.
type ScoreRepository struct {
	db *database.DB
}

// NewScoreRepository creates a new score repository
func NewScoreRepository(db *database.DB) *ScoreRepository {
	return &ScoreRepository{db: db}
}

// SaveBest records a finished play, keeping the higher of the stored and
// new score. The merge happens in a single statement so concurrent
// finishes cannot lose the better result.
func (r *ScoreRepository) SaveBest(userID, gameID int64, score int) error {
	if _, err := r.db.Exec(r.db.Dialect.GameScoreUpsertMax(), userID, gameID, score); err != nil {
		return fmt.Errorf("failed to save score: %w", err)
	}
	return nil
}

// SaveLatest records a finished play, overwriting any stored score. Used
// when a speaking session finishes and the latest run is authoritative.
func (r *ScoreRepository) SaveLatest(userID, gameID int64, score int) error {
	if _, err := r.db.Exec(r.db.Dialect.GameScoreUpsertLatest(), userID, gameID, score); err != nil {
		return fmt.Errorf("failed to save score: %w", err)
	}
	return nil
}

// Get retrieves the stored score for a (user, game) pair. Returns nil
// when the game has not been played.
func (r *ScoreRepository) Get(userID, gameID int64) (*models.GameScore, error) {
	query := `
		SELECT id, user_id, game_id, score, played_at
		FROM game_scores
		WHERE user_id = ? AND game_id = ?
	`
	score := &models.GameScore{}
	err := r.db.QueryRow(query, userID, gameID).Scan(
		&score.ID, &score.UserID, &score.GameID, &score.Score, &score.PlayedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get score: %w", err)
	}
	return score, nil
}

// Delete removes a stored score, letting the student play the game once
// more. Used for teacher-granted retakes.
func (r *ScoreRepository) Delete(userID, gameID int64) error {
	_, err := r.db.Exec("DELETE FROM game_scores WHERE user_id = ? AND game_id = ?", userID, gameID)
	return err
}

// ListForUser returns a user's scores keyed by game ID.
func (r *ScoreRepository) ListForUser(userID int64) (map[int64]*models.GameScore, error) {
	query := `
		SELECT id, user_id, game_id, score, played_at
		FROM game_scores
		WHERE user_id = ?
	`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list scores: %w", err)
	}
	defer rows.Close()

	scores := make(map[int64]*models.GameScore)
	for rows.Next() {
		score := &models.GameScore{}
		err := rows.Scan(&score.ID, &score.UserID, &score.GameID, &score.Score, &score.PlayedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan score: %w", err)
		}
		scores[score.GameID] = score
	}
	return scores, rows.Err()
}

// UserTotal is one row of a ranking: a student and their summed score.
type UserTotal struct {
	User  *models.User
	Total int
	Games int
}

// Ranking returns students of a school ordered by total score, highest
// first. An empty classroom includes the whole school.
func (r *ScoreRepository) Ranking(school, classroom string) ([]*UserTotal, error) {
	query := `
		SELECT u.id, u.name, u.username, u.email, u.password_hash, u.role, u.school, u.student_number, u.classroom, u.created_at,
		       COALESCE(SUM(s.score), 0) AS total, COUNT(s.id) AS games
		FROM users u
		LEFT JOIN game_scores s ON s.user_id = u.id
		WHERE u.role = ? AND u.school = ?
	`
	args := []interface{}{models.RoleStudent, school}
	if classroom != "" {
		query += " AND u.classroom = ?"
		args = append(args, classroom)
	}
	query += `
		GROUP BY u.id, u.name, u.username, u.email, u.password_hash, u.role, u.school, u.student_number, u.classroom, u.created_at
		ORDER BY total DESC, u.name
	`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to build ranking: %w", err)
	}
	defer rows.Close()

	var ranking []*UserTotal
	for rows.Next() {
		entry := &UserTotal{User: &models.User{}}
		err := rows.Scan(
			&entry.User.ID, &entry.User.Name, &entry.User.Username, &entry.User.Email, &entry.User.PasswordHash,
			&entry.User.Role, &entry.User.School, &entry.User.StudentNumber, &entry.User.Classroom,
			&entry.User.CreatedAt, &entry.Total, &entry.Games)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ranking row: %w", err)
		}
		ranking = append(ranking, entry)
	}
	return ranking, rows.Err()
}

// ScoreReportRow is one game score with its game and lesson titles, for
// the teacher's student report.
type ScoreReportRow struct {
	Score       *models.GameScore
	GameTitle   string
	LessonTitle string
}

// ReportForUser returns a user's game scores joined with titles.
func (r *ScoreRepository) ReportForUser(userID int64) ([]*ScoreReportRow, error) {
	query := `
		SELECT s.id, s.user_id, s.game_id, s.score, s.played_at, g.title, l.title
		FROM game_scores s
		JOIN games g ON g.id = s.game_id
		JOIN lessons l ON l.id = g.lesson_id
		WHERE s.user_id = ?
		ORDER BY l.id, g.id
	`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to build score report: %w", err)
	}
	defer rows.Close()

	var report []*ScoreReportRow
	for rows.Next() {
		row := &ScoreReportRow{Score: &models.GameScore{}}
		err := rows.Scan(
			&row.Score.ID, &row.Score.UserID, &row.Score.GameID,
			&row.Score.Score, &row.Score.PlayedAt, &row.GameTitle, &row.LessonTitle)
		if err != nil {
			return nil, fmt.Errorf("failed to scan score report row: %w", err)
		}
		report = append(report, row)
	}
	return report, rows.Err()
}

// BestByLesson returns the user's highest game score per lesson of one
// language, keyed by lesson ID.
func (r *ScoreRepository) BestByLesson(userID int64, lang string) (map[int64]int, error) {
	query := `
		SELECT g.lesson_id, MAX(s.score)
		FROM game_scores s
		JOIN games g ON g.id = s.game_id
		WHERE s.user_id = ? AND g.lang = ?
		GROUP BY g.lesson_id
	`
	rows, err := r.db.Query(query, userID, lang)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate scores: %w", err)
	}
	defer rows.Close()

	best := make(map[int64]int)
	for rows.Next() {
		var lessonID int64
		var score int
		if err := rows.Scan(&lessonID, &score); err != nil {
			return nil, err
		}
		best[lessonID] = score
	}
	return best, rows.Err()
}
