package repository

import (
	"fmt"

	"lingobridge/internal/database"
	"lingobridge/internal/models"
)

// SpeechRepository handles database operations for graded utterances.
type SpeechRepository struct {
	db *database.DB
}

// NewSpeechRepository creates a new speech repository
func NewSpeechRepository(db *database.DB) *SpeechRepository {
	return &SpeechRepository{db: db}
}

// SaveResult records one graded utterance
func (r *SpeechRepository) SaveResult(result *models.SpeechResult) (*models.SpeechResult, error) {
	query := `
		INSERT INTO speech_results (user_id, question_id, transcript, similarity, is_correct)
		VALUES (?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query,
		result.UserID, result.QuestionID, result.Transcript, result.Similarity, result.IsCorrect)
	if err != nil {
		return nil, fmt.Errorf("failed to save speech result: %w", err)
	}
	result.ID = id
	return result, nil
}

// CountCorrectForGame counts how many of a game's prompts the user has
// answered correctly in the current run.
func (r *SpeechRepository) CountCorrectForGame(userID, gameID int64) (int, error) {
	query := `
		SELECT COUNT(DISTINCT sr.question_id)
		FROM speech_results sr
		JOIN speech_questions sq ON sq.id = sr.question_id
		WHERE sr.user_id = ? AND sq.game_id = ? AND sr.is_correct
	`
	var count int
	if err := r.db.QueryRow(query, userID, gameID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count correct utterances: %w", err)
	}
	return count, nil
}

// PurgeForGame removes the user's utterances for every prompt of a game,
// resetting the run.
func (r *SpeechRepository) PurgeForGame(userID, gameID int64) error {
	query := `
		DELETE FROM speech_results
		WHERE user_id = ? AND question_id IN (
			SELECT id FROM speech_questions WHERE game_id = ?
		)
	`
	if _, err := r.db.Exec(query, userID, gameID); err != nil {
		return fmt.Errorf("failed to purge speech results: %w", err)
	}
	return nil
}

