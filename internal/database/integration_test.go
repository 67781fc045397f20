package database

import (
	"path/filepath"
	"testing"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "integration.db")

	db, err := Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return db
}

// TestDatabaseIntegration tests the complete database lifecycle
func TestDatabaseIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := setupTestDB(t)

	// Test that tables were created by migrations
	tables := []string{
		"users", "sessions", "lessons", "games",
		"matching_items", "drag_items", "fill_items", "scramble_items", "choice_items",
		"quiz_questions", "speech_questions",
		"game_scores", "quiz_results", "speech_results",
	}

	for _, table := range tables {
		query := "SELECT name FROM sqlite_master WHERE type='table' AND name=?"
		var name string
		if err := db.QueryRow(query, table).Scan(&name); err != nil {
			t.Errorf("Table %s not found: %v", table, err)
		}
	}
}

// TestScoreUpsertKeepsMax verifies that replaying a game never lowers a
// recorded score.
func TestScoreUpsertKeepsMax(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := setupTestDB(t)
	userID, gameID := seedUserAndGame(t, db)

	for _, score := range []int{5, 8, 3} {
		if _, err := db.Exec(db.Dialect.GameScoreUpsertMax(), userID, gameID, score); err != nil {
			t.Fatalf("Failed to upsert score %d: %v", score, err)
		}
	}

	var got int
	err := db.QueryRow("SELECT score FROM game_scores WHERE user_id = ? AND game_id = ?", userID, gameID).Scan(&got)
	if err != nil {
		t.Fatalf("Failed to read score: %v", err)
	}
	if got != 8 {
		t.Errorf("Expected max score 8 to be kept, got %d", got)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM game_scores WHERE user_id = ?", userID).Scan(&count); err != nil {
		t.Fatalf("Failed to count scores: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected a single score row per user and game, got %d", count)
	}
}

// TestScoreUpsertKeepsLatest verifies the overwrite variant used when a
// speaking session finishes.
func TestScoreUpsertKeepsLatest(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := setupTestDB(t)
	userID, gameID := seedUserAndGame(t, db)

	for _, score := range []int{7, 2} {
		if _, err := db.Exec(db.Dialect.GameScoreUpsertLatest(), userID, gameID, score); err != nil {
			t.Fatalf("Failed to upsert score %d: %v", score, err)
		}
	}

	var got int
	err := db.QueryRow("SELECT score FROM game_scores WHERE user_id = ? AND game_id = ?", userID, gameID).Scan(&got)
	if err != nil {
		t.Fatalf("Failed to read score: %v", err)
	}
	if got != 2 {
		t.Errorf("Expected latest score 2 to win, got %d", got)
	}
}

// TestQuizResultUniqueness verifies one result row per user, lesson and
// test type.
func TestQuizResultUniqueness(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := setupTestDB(t)
	userID, gameID := seedUserAndGame(t, db)

	var lessonID int64
	if err := db.QueryRow("SELECT lesson_id FROM games WHERE id = ?", gameID).Scan(&lessonID); err != nil {
		t.Fatalf("Failed to read lesson id: %v", err)
	}

	insert := "INSERT INTO quiz_results (user_id, lesson_id, test_type, score) VALUES (?, ?, ?, ?)"
	if _, err := db.Exec(insert, userID, lessonID, "pre", 4); err != nil {
		t.Fatalf("Failed to insert quiz result: %v", err)
	}
	if _, err := db.Exec(insert, userID, lessonID, "pre", 9); err == nil {
		t.Error("Expected duplicate pre-test result to be rejected")
	}
	if _, err := db.Exec(insert, userID, lessonID, "post", 9); err != nil {
		t.Errorf("Post-test result for the same lesson should be allowed: %v", err)
	}
}

func seedUserAndGame(t *testing.T, db *DB) (int64, int64) {
	t.Helper()

	userID, err := db.ExecReturningID(
		"INSERT INTO users (name, username, password_hash, role) VALUES (?, ?, ?, ?)",
		"Test Student", "student1", "hashedpass", "student")
	if err != nil {
		t.Fatalf("Failed to insert user: %v", err)
	}

	lessonID, err := db.ExecReturningID(
		"INSERT INTO lessons (title, description, lang) VALUES (?, ?, ?)",
		"Greetings", "Basic greetings", "en")
	if err != nil {
		t.Fatalf("Failed to insert lesson: %v", err)
	}

	gameID, err := db.ExecReturningID(
		"INSERT INTO games (lesson_id, title, game_type, lang) VALUES (?, ?, ?, ?)",
		lessonID, "Greeting Match", "matching", "en")
	if err != nil {
		t.Fatalf("Failed to insert game: %v", err)
	}

	return userID, gameID
}
