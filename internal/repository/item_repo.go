package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"lingobridge/internal/database"
	"lingobridge/internal/models"
)

// ItemRepository handles database operations for per-kind game content.
type ItemRepository struct {
	db *database.DB
}

// NewItemRepository creates a new item repository
func NewItemRepository(db *database.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// --- Matching ---

// CreateMatchingItem inserts a matching pair
func (r *ItemRepository) CreateMatchingItem(item *models.MatchingItem) (*models.MatchingItem, error) {
	query := `
		INSERT INTO matching_items (game_id, lesson_id, question_text, question_audio, answer_text, pair_group)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query,
		item.GameID, item.LessonID, item.QuestionText, item.QuestionAudio,
		item.AnswerText, item.PairGroup)
	if err != nil {
		return nil, fmt.Errorf("failed to create matching item: %w", err)
	}
	item.ID = id
	return item, nil
}

// ListMatchingItems returns a game's matching pairs
func (r *ItemRepository) ListMatchingItems(gameID int64) ([]*models.MatchingItem, error) {
	query := `
		SELECT id, game_id, lesson_id, question_text, question_audio, answer_text, pair_group
		FROM matching_items WHERE game_id = ? ORDER BY id
	`
	rows, err := r.db.Query(query, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matching items: %w", err)
	}
	defer rows.Close()

	var items []*models.MatchingItem
	for rows.Next() {
		item := &models.MatchingItem{}
		err := rows.Scan(&item.ID, &item.GameID, &item.LessonID,
			&item.QuestionText, &item.QuestionAudio, &item.AnswerText, &item.PairGroup)
		if err != nil {
			return nil, fmt.Errorf("failed to scan matching item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// DeleteMatchingItem removes a matching pair
func (r *ItemRepository) DeleteMatchingItem(id int64) error {
	_, err := r.db.Exec("DELETE FROM matching_items WHERE id = ?", id)
	return err
}

// --- Drag ---

// CreateDragItem inserts a draggable word
func (r *ItemRepository) CreateDragItem(item *models.DragItem) (*models.DragItem, error) {
	query := `
		INSERT INTO drag_items (game_id, word, pinyin, image_name)
		VALUES (?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, item.GameID, item.Word, item.Pinyin, item.ImageName)
	if err != nil {
		return nil, fmt.Errorf("failed to create drag item: %w", err)
	}
	item.ID = id
	return item, nil
}

// ListDragItems returns a game's draggable words
func (r *ItemRepository) ListDragItems(gameID int64) ([]*models.DragItem, error) {
	query := "SELECT id, game_id, word, pinyin, image_name FROM drag_items WHERE game_id = ? ORDER BY id"
	rows, err := r.db.Query(query, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list drag items: %w", err)
	}
	defer rows.Close()

	var items []*models.DragItem
	for rows.Next() {
		item := &models.DragItem{}
		if err := rows.Scan(&item.ID, &item.GameID, &item.Word, &item.Pinyin, &item.ImageName); err != nil {
			return nil, fmt.Errorf("failed to scan drag item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// DeleteDragItem removes a draggable word
func (r *ItemRepository) DeleteDragItem(id int64) error {
	_, err := r.db.Exec("DELETE FROM drag_items WHERE id = ?", id)
	return err
}

// --- Fill ---

// CreateFillItem inserts a fill-in-the-blank sentence
func (r *ItemRepository) CreateFillItem(item *models.FillItem) (*models.FillItem, error) {
	query := `
		INSERT INTO fill_items (game_id, lesson_id, sentence, answers)
		VALUES (?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, item.GameID, item.LessonID, item.Sentence, item.Answers)
	if err != nil {
		return nil, fmt.Errorf("failed to create fill item: %w", err)
	}
	item.ID = id
	return item, nil
}

// ListFillItems returns a game's fill-in-the-blank sentences
func (r *ItemRepository) ListFillItems(gameID int64) ([]*models.FillItem, error) {
	query := "SELECT id, game_id, lesson_id, sentence, answers FROM fill_items WHERE game_id = ? ORDER BY id"
	rows, err := r.db.Query(query, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list fill items: %w", err)
	}
	defer rows.Close()

	var items []*models.FillItem
	for rows.Next() {
		item := &models.FillItem{}
		if err := rows.Scan(&item.ID, &item.GameID, &item.LessonID, &item.Sentence, &item.Answers); err != nil {
			return nil, fmt.Errorf("failed to scan fill item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// DeleteFillItem removes a fill-in-the-blank sentence
func (r *ItemRepository) DeleteFillItem(id int64) error {
	_, err := r.db.Exec("DELETE FROM fill_items WHERE id = ?", id)
	return err
}

// --- Scramble ---

// CreateScrambleItem inserts a sentence to reassemble. Words are stored
// as a JSON array so token boundaries survive round-tripping.
func (r *ItemRepository) CreateScrambleItem(item *models.ScrambleItem) (*models.ScrambleItem, error) {
	wordsJSON, err := json.Marshal(item.Words)
	if err != nil {
		return nil, fmt.Errorf("failed to encode words: %w", err)
	}

	query := "INSERT INTO scramble_items (game_id, words_json, lang) VALUES (?, ?, ?)"
	id, err := r.db.ExecReturningID(query, item.GameID, string(wordsJSON), item.Lang)
	if err != nil {
		return nil, fmt.Errorf("failed to create scramble item: %w", err)
	}
	item.ID = id
	return item, nil
}

// ListScrambleItems returns a game's scramble sentences
func (r *ItemRepository) ListScrambleItems(gameID int64) ([]*models.ScrambleItem, error) {
	query := "SELECT id, game_id, words_json, lang FROM scramble_items WHERE game_id = ? ORDER BY id"
	rows, err := r.db.Query(query, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list scramble items: %w", err)
	}
	defer rows.Close()

	var items []*models.ScrambleItem
	for rows.Next() {
		item := &models.ScrambleItem{}
		var wordsJSON string
		if err := rows.Scan(&item.ID, &item.GameID, &wordsJSON, &item.Lang); err != nil {
			return nil, fmt.Errorf("failed to scan scramble item: %w", err)
		}
		if err := json.Unmarshal([]byte(wordsJSON), &item.Words); err != nil {
			return nil, fmt.Errorf("failed to decode words for item %d: %w", item.ID, err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// GetScrambleItem retrieves a single scramble sentence. Returns nil when
// no such item exists.
func (r *ItemRepository) GetScrambleItem(id int64) (*models.ScrambleItem, error) {
	query := "SELECT id, game_id, words_json, lang FROM scramble_items WHERE id = ?"
	item := &models.ScrambleItem{}
	var wordsJSON string
	err := r.db.QueryRow(query, id).Scan(&item.ID, &item.GameID, &wordsJSON, &item.Lang)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scramble item: %w", err)
	}
	if err := json.Unmarshal([]byte(wordsJSON), &item.Words); err != nil {
		return nil, fmt.Errorf("failed to decode words for item %d: %w", item.ID, err)
	}
	return item, nil
}

// DeleteScrambleItem removes a scramble sentence
func (r *ItemRepository) DeleteScrambleItem(id int64) error {
	_, err := r.db.Exec("DELETE FROM scramble_items WHERE id = ?", id)
	return err
}

// --- Choice ---

// CreateChoiceItem inserts a multiple-choice question
func (r *ItemRepository) CreateChoiceItem(item *models.ChoiceItem) (*models.ChoiceItem, error) {
	query := `
		INSERT INTO choice_items (game_id, prompt, option_a, option_b, option_c, option_d, correct)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query,
		item.GameID, item.Prompt, item.OptionA, item.OptionB, item.OptionC, item.OptionD, item.Correct)
	if err != nil {
		return nil, fmt.Errorf("failed to create choice item: %w", err)
	}
	item.ID = id
	return item, nil
}

// ListChoiceItems returns a game's multiple-choice questions
func (r *ItemRepository) ListChoiceItems(gameID int64) ([]*models.ChoiceItem, error) {
	query := `
		SELECT id, game_id, prompt, option_a, option_b, option_c, option_d, correct
		FROM choice_items WHERE game_id = ? ORDER BY id
	`
	rows, err := r.db.Query(query, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list choice items: %w", err)
	}
	defer rows.Close()

	var items []*models.ChoiceItem
	for rows.Next() {
		item := &models.ChoiceItem{}
		err := rows.Scan(&item.ID, &item.GameID, &item.Prompt,
			&item.OptionA, &item.OptionB, &item.OptionC, &item.OptionD, &item.Correct)
		if err != nil {
			return nil, fmt.Errorf("failed to scan choice item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// DeleteChoiceItem removes a multiple-choice question
func (r *ItemRepository) DeleteChoiceItem(id int64) error {
	_, err := r.db.Exec("DELETE FROM choice_items WHERE id = ?", id)
	return err
}

// --- Speech ---

// CreateSpeechQuestion inserts a speaking prompt
func (r *ItemRepository) CreateSpeechQuestion(q *models.SpeechQuestion) (*models.SpeechQuestion, error) {
	query := `
		INSERT INTO speech_questions (game_id, prompt, answer, pinyin, lang)
		VALUES (?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, q.GameID, q.Prompt, q.Answer, q.Pinyin, q.Lang)
	if err != nil {
		return nil, fmt.Errorf("failed to create speech question: %w", err)
	}
	q.ID = id
	return q, nil
}

// ListSpeechQuestions returns a game's speaking prompts
func (r *ItemRepository) ListSpeechQuestions(gameID int64) ([]*models.SpeechQuestion, error) {
	query := "SELECT id, game_id, prompt, answer, pinyin, lang FROM speech_questions WHERE game_id = ? ORDER BY id"
	rows, err := r.db.Query(query, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list speech questions: %w", err)
	}
	defer rows.Close()

	var questions []*models.SpeechQuestion
	for rows.Next() {
		q := &models.SpeechQuestion{}
		if err := rows.Scan(&q.ID, &q.GameID, &q.Prompt, &q.Answer, &q.Pinyin, &q.Lang); err != nil {
			return nil, fmt.Errorf("failed to scan speech question: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// GetSpeechQuestion retrieves one speaking prompt. Returns nil when no
// such question exists.
func (r *ItemRepository) GetSpeechQuestion(id int64) (*models.SpeechQuestion, error) {
	query := "SELECT id, game_id, prompt, answer, pinyin, lang FROM speech_questions WHERE id = ?"
	q := &models.SpeechQuestion{}
	err := r.db.QueryRow(query, id).Scan(&q.ID, &q.GameID, &q.Prompt, &q.Answer, &q.Pinyin, &q.Lang)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get speech question: %w", err)
	}
	return q, nil
}

// DeleteSpeechQuestion removes a speaking prompt
func (r *ItemRepository) DeleteSpeechQuestion(id int64) error {
	_, err := r.db.Exec("DELETE FROM speech_questions WHERE id = ?", id)
	return err
}

// CountForGame returns how many content rows a game of the given kind has.
func (r *ItemRepository) CountForGame(table string, gameID int64) (int, error) {
	var count int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE game_id = ?", table)
	if err := r.db.QueryRow(query, gameID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return count, nil
}
