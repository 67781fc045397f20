package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"lingobridge/internal/grading"
	"lingobridge/internal/models"
	"lingobridge/internal/repository"
	"lingobridge/internal/speech"
)

// SpeechService grades spoken answers and finishes speaking sessions.
type SpeechService struct {
	transcriber speech.Transcriber
	embedder    speech.Embedder
	itemRepo    *repository.ItemRepository
	speechRepo  *repository.SpeechRepository
	scoreRepo   *repository.ScoreRepository
}

// NewSpeechService creates a new speech service
func NewSpeechService(
	transcriber speech.Transcriber,
	embedder speech.Embedder,
	itemRepo *repository.ItemRepository,
	speechRepo *repository.SpeechRepository,
	scoreRepo *repository.ScoreRepository,
) *SpeechService {
	return &SpeechService{
		transcriber: transcriber,
		embedder:    embedder,
		itemRepo:    itemRepo,
		speechRepo:  speechRepo,
		scoreRepo:   scoreRepo,
	}
}

// UtteranceOutcome is the response to one graded utterance. A failed
// pipeline produces OK=false with a message, never an error: the game
// page keeps running either way.
type UtteranceOutcome struct {
	OK         bool
	Message    string
	Transcript string
	Similarity float64
	Correct    bool
}

// langHint reduces a language tag to the two-letter hint the
// transcription model takes. Anything containing "zh" means Chinese,
// everything else English.
func langHint(lang string) string {
	if strings.Contains(strings.ToLower(lang), "zh") {
		return "zh"
	}
	return "en"
}

// saveUpload spools the uploaded clip to a temp file for transcription.
// Browsers stream recordings, so the file is polled until it holds a
// playable amount of audio before handing it to the model.
func saveUpload(audio io.Reader) (string, error) {
	tmpDir := filepath.Join(os.TempDir(), "speech_uploads")
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload dir: %w", err)
	}

	tmpPath := filepath.Join(tmpDir, fmt.Sprintf("speech_%s.webm", uuid.New().String()))
	f, err := os.Create(tmpPath)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := io.Copy(f, audio); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to write audio: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	for i := 0; i < 50; i++ {
		if info, err := os.Stat(tmpPath); err == nil && info.Size() > 1000 {
			break
		}
		time.Sleep(100 * time.Millisecond)
	}
	return tmpPath, nil
}

// ScoreUtterance transcribes one uploaded clip, compares it to the
// question's expected answer and records the result. The temp file is
// removed whatever happens.
func (s *SpeechService) ScoreUtterance(ctx context.Context, userID, questionID int64, lang string, audio io.Reader) *UtteranceOutcome {
	question, err := s.itemRepo.GetSpeechQuestion(questionID)
	if err != nil {
		log.Printf("speech: failed to load question %d: %v", questionID, err)
		return &UtteranceOutcome{Message: "question lookup failed"}
	}
	if question == nil {
		return &UtteranceOutcome{Message: "question not found"}
	}

	tmpPath, err := saveUpload(audio)
	if err != nil {
		log.Printf("speech: failed to store upload: %v", err)
		return &UtteranceOutcome{Message: "could not store the recording"}
	}
	defer os.Remove(tmpPath)

	transcript, err := s.transcriber.Transcribe(ctx, tmpPath, langHint(lang))
	if err != nil {
		log.Printf("speech: transcription failed: %v", err)
		return &UtteranceOutcome{Message: "transcription failed"}
	}

	vectors, err := s.embedder.Embed(ctx, []string{transcript, question.Answer})
	if err != nil {
		log.Printf("speech: embedding failed: %v", err)
		return &UtteranceOutcome{Message: "similarity scoring failed"}
	}

	similarity := speech.CosineSimilarity(vectors[0], vectors[1])
	correct := grading.SpeechCorrect(similarity)

	if _, err := s.speechRepo.SaveResult(&models.SpeechResult{
		UserID:     userID,
		QuestionID: question.ID,
		Transcript: transcript,
		Similarity: similarity,
		IsCorrect:  correct,
	}); err != nil {
		log.Printf("speech: failed to save result: %v", err)
		return &UtteranceOutcome{Message: "could not save the result"}
	}

	return &UtteranceOutcome{
		OK:         true,
		Transcript: transcript,
		Similarity: similarity,
		Correct:    correct,
	}
}

// Finish closes a speaking session. The score is tallied from the graded
// utterance rows, which are then purged so the next run starts clean. The
// stored score is replaced, not maxed.
func (s *SpeechService) Finish(userID, gameID int64) (int, error) {
	score, err := s.speechRepo.CountCorrectForGame(userID, gameID)
	if err != nil {
		return 0, err
	}
	if err := s.speechRepo.PurgeForGame(userID, gameID); err != nil {
		return 0, err
	}
	if err := s.scoreRepo.SaveLatest(userID, gameID, score); err != nil {
		return 0, err
	}
	return score, nil
}

// SessionResult summarizes a finished speaking session.
type SessionResult struct {
	Score      int
	Total      int
	Percentage float64
}

// Result reports the stored score of a speaking game against its prompt
// count.
func (s *SpeechService) Result(userID, gameID int64) (*SessionResult, error) {
	record, err := s.scoreRepo.Get(userID, gameID)
	if err != nil {
		return nil, err
	}

	questions, err := s.itemRepo.ListSpeechQuestions(gameID)
	if err != nil {
		return nil, err
	}

	result := &SessionResult{Total: len(questions)}
	if record != nil {
		result.Score = record.Score
	}
	if result.Total > 0 {
		result.Percentage = float64(result.Score) / float64(result.Total) * 100
	}
	return result, nil
}
