package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"lingobridge/internal/database"
	"lingobridge/internal/gametype"
	"lingobridge/internal/models"
	"lingobridge/internal/repository"
)

type fixture struct {
	db       *database.DB
	users    *repository.UserRepository
	lessons  *repository.LessonRepository
	games    *repository.GameRepository
	items    *repository.ItemRepository
	quizzes  *repository.QuizRepository
	scores   *repository.ScoreRepository
	speeches *repository.SpeechRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := database.Initialize(filepath.Join(t.TempDir(), "service.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return &fixture{
		db:       db,
		users:    repository.NewUserRepository(db),
		lessons:  repository.NewLessonRepository(db),
		games:    repository.NewGameRepository(db),
		items:    repository.NewItemRepository(db),
		quizzes:  repository.NewQuizRepository(db),
		scores:   repository.NewScoreRepository(db),
		speeches: repository.NewSpeechRepository(db),
	}
}

func (f *fixture) playService() *PlayService {
	return NewPlayService(f.games, f.items, f.quizzes, f.scores, f.lessons)
}

func (f *fixture) seedStudent(t *testing.T, username string) *models.User {
	t.Helper()
	user, err := f.users.CreateUser(&models.User{
		Name:     "Student " + username,
		Username: username,
		Role:     models.RoleStudent,
		School:   "Riverside",
	})
	if err != nil {
		t.Fatalf("Failed to seed student: %v", err)
	}
	return user
}

func (f *fixture) seedGame(t *testing.T, kind string) *models.Game {
	t.Helper()
	lesson, err := f.lessons.Create(&models.Lesson{Title: "Greetings", Lang: "en"})
	if err != nil {
		t.Fatalf("Failed to seed lesson: %v", err)
	}
	game, err := f.games.Create(&models.Game{
		LessonID: lesson.ID,
		Title:    "Test Game",
		GameType: kind,
		Lang:     "en",
	})
	if err != nil {
		t.Fatalf("Failed to seed game: %v", err)
	}
	return game
}

func TestPlayFillGame(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	f := newFixture(t)
	svc := f.playService()
	student := f.seedStudent(t, "fill1")
	game := f.seedGame(t, "fill")

	item1, err := f.items.CreateFillItem(&models.FillItem{
		GameID: game.ID, LessonID: game.LessonID,
		Sentence: "I ___ a student.", Answers: "am",
	})
	if err != nil {
		t.Fatalf("Failed to seed fill item: %v", err)
	}
	item2, err := f.items.CreateFillItem(&models.FillItem{
		GameID: game.ID, LessonID: game.LessonID,
		Sentence: "She ___ happy.", Answers: "is;was",
	})
	if err != nil {
		t.Fatalf("Failed to seed fill item: %v", err)
	}

	view, err := svc.Prompt(student.ID, game.ID)
	if err != nil {
		t.Fatalf("Prompt failed: %v", err)
	}
	if view.Kind != gametype.Fill {
		t.Errorf("Expected fill kind, got %v", view.Kind)
	}
	if len(view.FillItems) != 2 {
		t.Errorf("Expected 2 fill items, got %d", len(view.FillItems))
	}
	if len(view.HintWords) != 3 {
		t.Errorf("Expected 3 hint words, got %d: %v", len(view.HintWords), view.HintWords)
	}

	// One correct answer, one missing: the missing one counts as wrong.
	result, err := svc.Grade(student.ID, game.ID, Submission{
		Answers: map[int64]string{item1.ID: "Am"},
	})
	if err != nil {
		t.Fatalf("Grade failed: %v", err)
	}
	if result.Score != 1 || result.Total != 2 {
		t.Errorf("Expected score 1/2, got %d/%d", result.Score, result.Total)
	}

	// The game is now locked.
	if _, err := svc.Prompt(student.ID, game.ID); err != ErrAlreadyPlayed {
		t.Errorf("Expected ErrAlreadyPlayed, got %v", err)
	}
	if _, err := svc.Grade(student.ID, game.ID, Submission{
		Answers: map[int64]string{item1.ID: "am", item2.ID: "is"},
	}); err != ErrAlreadyPlayed {
		t.Errorf("Expected ErrAlreadyPlayed on regrade, got %v", err)
	}

	// A retake deletes the score and allows exactly one more play.
	if err := f.scores.Delete(student.ID, game.ID); err != nil {
		t.Fatalf("Failed to grant retake: %v", err)
	}
	result, err = svc.Grade(student.ID, game.ID, Submission{
		Answers: map[int64]string{item1.ID: "am", item2.ID: "was"},
	})
	if err != nil {
		t.Fatalf("Grade after retake failed: %v", err)
	}
	if result.Score != 2 {
		t.Errorf("Expected perfect score after retake, got %d", result.Score)
	}

	score, err := f.scores.Get(student.ID, game.ID)
	if err != nil {
		t.Fatalf("Failed to read stored score: %v", err)
	}
	if score == nil || score.Score != 2 {
		t.Errorf("Expected stored score 2, got %+v", score)
	}
}

func TestPlayThaiLabelResolves(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	f := newFixture(t)
	svc := f.playService()
	student := f.seedStudent(t, "thai1")
	game := f.seedGame(t, "จับคู่")

	if _, err := f.items.CreateMatchingItem(&models.MatchingItem{
		GameID: game.ID, LessonID: game.LessonID,
		QuestionText: "cat", AnswerText: "แมว", PairGroup: "g1",
	}); err != nil {
		t.Fatalf("Failed to seed matching item: %v", err)
	}

	view, err := svc.Prompt(student.ID, game.ID)
	if err != nil {
		t.Fatalf("Prompt failed: %v", err)
	}
	if view.Kind != gametype.Matching {
		t.Errorf("Thai label should resolve to matching, got %v", view.Kind)
	}
}

func TestPlayUnknownKind(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	f := newFixture(t)
	svc := f.playService()
	student := f.seedStudent(t, "unk1")
	game := f.seedGame(t, "bingo")

	if _, err := svc.Prompt(student.ID, game.ID); err == nil {
		t.Error("Unknown game label should fail to resolve")
	}

	// No score may be written for an unresolvable game.
	score, err := f.scores.Get(student.ID, game.ID)
	if err != nil {
		t.Fatalf("Failed to read score: %v", err)
	}
	if score != nil {
		t.Errorf("No score should exist, got %+v", score)
	}
}

func TestClientScoredGameClamped(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	f := newFixture(t)
	svc := f.playService()
	student := f.seedStudent(t, "match1")
	game := f.seedGame(t, "matching")

	for i, pair := range []struct{ q, a string }{{"dog", "หมา"}, {"cat", "แมว"}} {
		if _, err := f.items.CreateMatchingItem(&models.MatchingItem{
			GameID: game.ID, LessonID: game.LessonID,
			QuestionText: pair.q, AnswerText: pair.a, PairGroup: string(rune('a' + i)),
		}); err != nil {
			t.Fatalf("Failed to seed matching item: %v", err)
		}
	}

	if err := svc.SaveClientScore(student.ID, game.ID, 99); err != nil {
		t.Fatalf("SaveClientScore failed: %v", err)
	}
	stored, err := f.scores.Get(student.ID, game.ID)
	if err != nil {
		t.Fatalf("Failed to read score: %v", err)
	}
	if stored == nil || stored.Score != 2 {
		t.Errorf("Client score should be capped at item count, got %+v", stored)
	}

	// A second report hits the replay gate like any other kind.
	if err := svc.SaveClientScore(student.ID, game.ID, 1); !errors.Is(err, ErrAlreadyPlayed) {
		t.Errorf("Expected ErrAlreadyPlayed on resubmission, got %v", err)
	}
	stored, err = f.scores.Get(student.ID, game.ID)
	if err != nil {
		t.Fatalf("Failed to re-read score: %v", err)
	}
	if stored.Score != 2 {
		t.Errorf("Resubmission must not change the stored score, got %d", stored.Score)
	}
}

func TestClientScoreRejectsServerGradedKinds(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	f := newFixture(t)
	svc := f.playService()
	student := f.seedStudent(t, "fill1")
	game := f.seedGame(t, "fill")

	if err := svc.SaveClientScore(student.ID, game.ID, 3); !errors.Is(err, ErrUnplayableKind) {
		t.Errorf("Expected ErrUnplayableKind for a fill game, got %v", err)
	}
}

func TestQuizServiceGate(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	f := newFixture(t)
	student := f.seedStudent(t, "quiz1")
	lesson, err := f.lessons.Create(&models.Lesson{Title: "Numbers", Lang: "en"})
	if err != nil {
		t.Fatalf("Failed to seed lesson: %v", err)
	}

	q, err := f.quizzes.CreateQuestion(&models.QuizQuestion{
		LessonID: lesson.ID, Kind: models.QuestionKindPre,
		Question: "How many legs has a cat?",
		OptionA:  "2", OptionB: "4", OptionC: "6", OptionD: "8",
		Correct: "B", Lang: "en",
	})
	if err != nil {
		t.Fatalf("Failed to seed question: %v", err)
	}

	svc := NewQuizService(f.quizzes, f.lessons)

	view, err := svc.Start(student.ID, lesson.ID, "en", models.TestTypePre)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if len(view.Questions) != 1 {
		t.Fatalf("Expected 1 question, got %d", len(view.Questions))
	}

	result, err := svc.Submit(student.ID, lesson.ID, "en", models.TestTypePre, map[int64]string{q.ID: "b"})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if result.Score != 1 || result.Grade != "A" {
		t.Errorf("Expected 1/1 grade A, got %d grade %s", result.Score, result.Grade)
	}

	// Second attempt is gated by the stored result.
	if _, err := svc.Start(student.ID, lesson.ID, "en", models.TestTypePre); err != ErrAlreadyTaken {
		t.Errorf("Expected ErrAlreadyTaken, got %v", err)
	}

	// The post test is still open.
	if _, err := svc.Start(student.ID, lesson.ID, "en", models.TestTypePost); err != ErrNoQuestions {
		t.Errorf("Post test without questions should report ErrNoQuestions, got %v", err)
	}
}

// fakeAudio is large enough that the upload spool sees a complete clip
// immediately.
func fakeAudio() io.Reader {
	return bytes.NewReader(bytes.Repeat([]byte("audio"), 500))
}

type fakeTranscriber struct {
	text string
	err  error
}

func (f *fakeTranscriber) Transcribe(_ context.Context, _, _ string) (string, error) {
	return f.text, f.err
}

type fakeEmbedder struct {
	vectors [][]float64
	err     error
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.vectors, nil
}

func TestSpeechFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	f := newFixture(t)
	student := f.seedStudent(t, "speech1")
	game := f.seedGame(t, "speech")

	question, err := f.items.CreateSpeechQuestion(&models.SpeechQuestion{
		GameID: game.ID, Prompt: "Say hello", Answer: "hello", Lang: "en",
	})
	if err != nil {
		t.Fatalf("Failed to seed speech question: %v", err)
	}

	svc := NewSpeechService(
		&fakeTranscriber{text: "hello"},
		&fakeEmbedder{vectors: [][]float64{{1, 0}, {1, 0}}},
		f.items, f.speeches, f.scores,
	)

	outcome := svc.ScoreUtterance(context.Background(), student.ID, question.ID, "en", fakeAudio())
	if !outcome.OK {
		t.Fatalf("Expected OK outcome, got message %q", outcome.Message)
	}
	if !outcome.Correct || outcome.Similarity < 0.999 {
		t.Errorf("Identical vectors should score a match, got %+v", outcome)
	}

	correct, err := f.speeches.CountCorrectForGame(student.ID, game.ID)
	if err != nil {
		t.Fatalf("Failed to count correct utterances: %v", err)
	}
	if correct != 1 {
		t.Errorf("Expected 1 correct utterance, got %d", correct)
	}

	// Finishing tallies the score from the graded rows and purges them.
	finished, err := svc.Finish(student.ID, game.ID)
	if err != nil {
		t.Fatalf("Finish failed: %v", err)
	}
	if finished != 1 {
		t.Errorf("Finish should tally the graded rows, got %d", finished)
	}

	correct, err = f.speeches.CountCorrectForGame(student.ID, game.ID)
	if err != nil {
		t.Fatalf("Failed to count correct utterances: %v", err)
	}
	if correct != 0 {
		t.Errorf("Utterances should be purged on finish, got %d rows", correct)
	}

	result, err := svc.Result(student.ID, game.ID)
	if err != nil {
		t.Fatalf("Result failed: %v", err)
	}
	if result.Score != 1 || result.Total != 1 || result.Percentage != 100 {
		t.Errorf("Unexpected session result: %+v", result)
	}

	// A later run with no correct utterances overwrites the stored score.
	if _, err := svc.Finish(student.ID, game.ID); err != nil {
		t.Fatalf("Second finish failed: %v", err)
	}
	result, err = svc.Result(student.ID, game.ID)
	if err != nil {
		t.Fatalf("Result failed: %v", err)
	}
	if result.Score != 0 {
		t.Errorf("Speech finish should keep the latest score, got %d", result.Score)
	}
}

func TestSpeechFailureIsSoft(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	f := newFixture(t)
	student := f.seedStudent(t, "speech2")
	game := f.seedGame(t, "speech")

	question, err := f.items.CreateSpeechQuestion(&models.SpeechQuestion{
		GameID: game.ID, Prompt: "Say hi", Answer: "hi", Lang: "en",
	})
	if err != nil {
		t.Fatalf("Failed to seed speech question: %v", err)
	}

	svc := NewSpeechService(
		&fakeTranscriber{err: context.DeadlineExceeded},
		&fakeEmbedder{},
		f.items, f.speeches, f.scores,
	)

	outcome := svc.ScoreUtterance(context.Background(), student.ID, question.ID, "en", fakeAudio())
	if outcome.OK {
		t.Error("Transcription failure should produce a failed outcome")
	}
	if outcome.Message == "" {
		t.Error("Failed outcome should carry a message")
	}
}
