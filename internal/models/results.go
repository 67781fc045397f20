package models

import "time"

// GameScore is the best known score for a (user, game) pair. At most one
// row exists per pair; the store merges with keep-max on replay (keep-latest
// for speech finishes).
type GameScore struct {
	ID       int64
	UserID   int64
	GameID   int64
	Score    int
	PlayedAt time.Time
}

// Test types for QuizResult.
const (
	TestTypePre  = "pre"
	TestTypePost = "post"
)

// QuizResult records completion of a lesson pre/post test. Row presence is
// itself the "already taken" gate.
type QuizResult struct {
	ID       int64
	UserID   int64
	LessonID int64
	TestType string
	Score    int
	TakenAt  time.Time
}

// SpeechResult is one graded utterance. Rows for a game's questions are
// replaced on every finish event, keeping only the latest run.
type SpeechResult struct {
	ID         int64
	UserID     int64
	QuestionID int64
	Transcript string
	Similarity float64
	IsCorrect  bool
	CreatedAt  time.Time
}
