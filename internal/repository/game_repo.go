package repository

import (
	"database/sql"
	"fmt"

	"lingobridge/internal/database"
	"lingobridge/internal/models"
)

// GameRepository handles database operations for games
type GameRepository struct {
	db *database.DB
}

// NewGameRepository creates a new game repository
func NewGameRepository(db *database.DB) *GameRepository {
	return &GameRepository{db: db}
}

const gameColumns = "id, lesson_id, title, description, game_type, lang, title_pinyin, description_pinyin"

func scanGame(scan func(dest ...interface{}) error) (*models.Game, error) {
	game := &models.Game{}
	err := scan(
		&game.ID,
		&game.LessonID,
		&game.Title,
		&game.Description,
		&game.GameType,
		&game.Lang,
		&game.TitlePinyin,
		&game.DescriptionPinyin,
	)
	if err != nil {
		return nil, err
	}
	return game, nil
}

// Create inserts a new game
func (r *GameRepository) Create(game *models.Game) (*models.Game, error) {
	query := `
		INSERT INTO games (lesson_id, title, description, game_type, lang, title_pinyin, description_pinyin)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query,
		game.LessonID, game.Title, game.Description, game.GameType,
		game.Lang, game.TitlePinyin, game.DescriptionPinyin)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}
	game.ID = id
	return game, nil
}

// GetByID retrieves a game by ID. Returns nil when no such game exists.
func (r *GameRepository) GetByID(id int64) (*models.Game, error) {
	query := "SELECT " + gameColumns + " FROM games WHERE id = ?"
	game, err := scanGame(r.db.QueryRow(query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	return game, nil
}

// ListByLesson returns all games of a lesson in creation order.
func (r *GameRepository) ListByLesson(lessonID int64) ([]*models.Game, error) {
	query := "SELECT " + gameColumns + " FROM games WHERE lesson_id = ? ORDER BY id"
	rows, err := r.db.Query(query, lessonID)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	defer rows.Close()

	var games []*models.Game
	for rows.Next() {
		game, err := scanGame(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, game)
	}
	return games, rows.Err()
}

// ListAll returns every game, optionally filtered by language.
func (r *GameRepository) ListAll(lang string) ([]*models.Game, error) {
	query := "SELECT " + gameColumns + " FROM games"
	args := []interface{}{}
	if lang != "" {
		query += " WHERE lang = ?"
		args = append(args, lang)
	}
	query += " ORDER BY lesson_id, id"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	defer rows.Close()

	var games []*models.Game
	for rows.Next() {
		game, err := scanGame(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, game)
	}
	return games, rows.Err()
}

// Update modifies a game's metadata
func (r *GameRepository) Update(game *models.Game) error {
	query := `
		UPDATE games
		SET title = ?, description = ?, game_type = ?, lang = ?, title_pinyin = ?, description_pinyin = ?
		WHERE id = ?
	`
	_, err := r.db.Exec(query,
		game.Title, game.Description, game.GameType, game.Lang,
		game.TitlePinyin, game.DescriptionPinyin, game.ID)
	return err
}

// Delete removes a game. Items and scores cascade.
func (r *GameRepository) Delete(id int64) error {
	_, err := r.db.Exec("DELETE FROM games WHERE id = ?", id)
	return err
}
