package service

import (
	"fmt"
	"strings"

	"lingobridge/internal/gametype"
	"lingobridge/internal/models"
	"lingobridge/internal/repository"
)

// AdminService manages lesson and game content.
type AdminService struct {
	lessonRepo *repository.LessonRepository
	gameRepo   *repository.GameRepository
	itemRepo   *repository.ItemRepository
	quizRepo   *repository.QuizRepository
}

// NewAdminService creates a new admin service
func NewAdminService(
	lessonRepo *repository.LessonRepository,
	gameRepo *repository.GameRepository,
	itemRepo *repository.ItemRepository,
	quizRepo *repository.QuizRepository,
) *AdminService {
	return &AdminService{
		lessonRepo: lessonRepo,
		gameRepo:   gameRepo,
		itemRepo:   itemRepo,
		quizRepo:   quizRepo,
	}
}

// Lessons lists all lessons.
func (s *AdminService) Lessons() ([]*models.Lesson, error) {
	return s.lessonRepo.List("")
}

// Lesson loads one lesson.
func (s *AdminService) Lesson(id int64) (*models.Lesson, error) {
	lesson, err := s.lessonRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if lesson == nil {
		return nil, ErrLessonNotFound
	}
	return lesson, nil
}

// CreateLesson validates and stores a new lesson.
func (s *AdminService) CreateLesson(title, description, lang string) (*models.Lesson, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("lesson title is required")
	}
	if lang != "zh" {
		lang = "en"
	}
	return s.lessonRepo.Create(&models.Lesson{Title: title, Description: strings.TrimSpace(description), Lang: lang})
}

// UpdateLesson modifies a lesson.
func (s *AdminService) UpdateLesson(id int64, title, description, lang string) error {
	lesson, err := s.Lesson(id)
	if err != nil {
		return err
	}
	lesson.Title = strings.TrimSpace(title)
	lesson.Description = strings.TrimSpace(description)
	if lang == "zh" || lang == "en" {
		lesson.Lang = lang
	}
	return s.lessonRepo.Update(lesson)
}

// DeleteLesson removes a lesson and everything under it.
func (s *AdminService) DeleteLesson(id int64) error {
	return s.lessonRepo.Delete(id)
}

// Games lists a lesson's games.
func (s *AdminService) Games(lessonID int64) ([]*models.Game, error) {
	return s.gameRepo.ListByLesson(lessonID)
}

// Game loads one game.
func (s *AdminService) Game(id int64) (*models.Game, error) {
	game, err := s.gameRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, ErrGameNotFound
	}
	return game, nil
}

// CreateGame validates and stores a new game. The submitted type label
// is resolved to its canonical kind here, at creation time, so play
// never sees a free-text label from this path.
func (s *AdminService) CreateGame(lessonID int64, title, description, typeLabel, titlePinyin, descriptionPinyin string) (*models.Game, error) {
	lesson, err := s.Lesson(lessonID)
	if err != nil {
		return nil, err
	}

	kind, err := gametype.Resolve(typeLabel)
	if err != nil {
		return nil, err
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("game title is required")
	}

	return s.gameRepo.Create(&models.Game{
		LessonID:          lesson.ID,
		Title:             title,
		Description:       strings.TrimSpace(description),
		GameType:          kind.String(),
		Lang:              lesson.Lang,
		TitlePinyin:       strings.TrimSpace(titlePinyin),
		DescriptionPinyin: strings.TrimSpace(descriptionPinyin),
	})
}

// UpdateGame modifies a game, re-resolving the type label.
func (s *AdminService) UpdateGame(id int64, title, description, typeLabel, titlePinyin, descriptionPinyin string) error {
	game, err := s.Game(id)
	if err != nil {
		return err
	}

	kind, err := gametype.Resolve(typeLabel)
	if err != nil {
		return err
	}

	game.Title = strings.TrimSpace(title)
	game.Description = strings.TrimSpace(description)
	game.GameType = kind.String()
	game.TitlePinyin = strings.TrimSpace(titlePinyin)
	game.DescriptionPinyin = strings.TrimSpace(descriptionPinyin)
	return s.gameRepo.Update(game)
}

// DeleteGame removes a game and its content.
func (s *AdminService) DeleteGame(id int64) error {
	return s.gameRepo.Delete(id)
}

// GameContent is the admin item page data: the game, its kind and the
// item list of that kind.
type GameContent struct {
	Game *models.Game
	Kind gametype.Kind

	MatchingItems   []*models.MatchingItem
	DragItems       []*models.DragItem
	FillItems       []*models.FillItem
	ScrambleItems   []*models.ScrambleItem
	ChoiceItems     []*models.ChoiceItem
	QuizQuestions   []*models.QuizQuestion
	SpeechQuestions []*models.SpeechQuestion
}

// Content loads a game's items for the admin item page.
func (s *AdminService) Content(gameID int64) (*GameContent, error) {
	game, err := s.Game(gameID)
	if err != nil {
		return nil, err
	}
	kind, err := gametype.Resolve(game.GameType)
	if err != nil {
		return nil, err
	}

	content := &GameContent{Game: game, Kind: kind}
	switch kind {
	case gametype.Matching:
		content.MatchingItems, err = s.itemRepo.ListMatchingItems(gameID)
	case gametype.Drag:
		content.DragItems, err = s.itemRepo.ListDragItems(gameID)
	case gametype.Fill:
		content.FillItems, err = s.itemRepo.ListFillItems(gameID)
	case gametype.Scramble:
		content.ScrambleItems, err = s.itemRepo.ListScrambleItems(gameID)
	case gametype.Choice:
		content.ChoiceItems, err = s.itemRepo.ListChoiceItems(gameID)
	case gametype.Quiz:
		content.QuizQuestions, err = s.quizRepo.ListQuestions(game.LessonID, models.QuestionKindGame, game.Lang)
	case gametype.Speech:
		content.SpeechQuestions, err = s.itemRepo.ListSpeechQuestions(gameID)
	}
	if err != nil {
		return nil, err
	}
	return content, nil
}

// ItemInput carries the add-item form fields. Which fields matter
// depends on the game's kind.
type ItemInput struct {
	QuestionText  string
	QuestionAudio string
	AnswerText    string
	PairGroup     string

	Word      string
	Pinyin    string
	ImageName string

	Sentence string
	Answers  string

	Words []string

	Prompt  string
	OptionA string
	OptionB string
	OptionC string
	OptionD string
	Correct string
}

// AddItem stores one content item for a game, dispatching on the game's
// kind. Quiz games take their questions through the quiz question CRUD
// instead.
func (s *AdminService) AddItem(gameID int64, in ItemInput) error {
	game, err := s.Game(gameID)
	if err != nil {
		return err
	}
	kind, err := gametype.Resolve(game.GameType)
	if err != nil {
		return err
	}

	switch kind {
	case gametype.Matching:
		if in.AnswerText == "" || in.PairGroup == "" {
			return fmt.Errorf("answer and pair group are required")
		}
		_, err = s.itemRepo.CreateMatchingItem(&models.MatchingItem{
			GameID: game.ID, LessonID: game.LessonID,
			QuestionText: in.QuestionText, QuestionAudio: in.QuestionAudio,
			AnswerText: in.AnswerText, PairGroup: in.PairGroup,
		})
	case gametype.Drag:
		if in.Word == "" {
			return fmt.Errorf("word is required")
		}
		_, err = s.itemRepo.CreateDragItem(&models.DragItem{
			GameID: game.ID, Word: in.Word, Pinyin: in.Pinyin, ImageName: in.ImageName,
		})
	case gametype.Fill:
		if in.Sentence == "" || in.Answers == "" {
			return fmt.Errorf("sentence and answers are required")
		}
		_, err = s.itemRepo.CreateFillItem(&models.FillItem{
			GameID: game.ID, LessonID: game.LessonID,
			Sentence: in.Sentence, Answers: in.Answers,
		})
	case gametype.Scramble:
		if len(in.Words) < 2 {
			return fmt.Errorf("a scramble sentence needs at least two words")
		}
		_, err = s.itemRepo.CreateScrambleItem(&models.ScrambleItem{
			GameID: game.ID, Words: in.Words, Lang: game.Lang,
		})
	case gametype.Choice:
		if in.Prompt == "" || in.Correct == "" {
			return fmt.Errorf("prompt and correct answer are required")
		}
		_, err = s.itemRepo.CreateChoiceItem(&models.ChoiceItem{
			GameID: game.ID, Prompt: in.Prompt,
			OptionA: in.OptionA, OptionB: in.OptionB,
			OptionC: in.OptionC, OptionD: in.OptionD,
			Correct: in.Correct,
		})
	case gametype.Speech:
		if in.Prompt == "" || in.AnswerText == "" {
			return fmt.Errorf("prompt and expected answer are required")
		}
		_, err = s.itemRepo.CreateSpeechQuestion(&models.SpeechQuestion{
			GameID: game.ID, Prompt: in.Prompt, Answer: in.AnswerText,
			Pinyin: in.Pinyin, Lang: game.Lang,
		})
	case gametype.Quiz:
		return fmt.Errorf("quiz questions are managed per lesson")
	}
	return err
}

// DeleteItem removes one content item by kind.
func (s *AdminService) DeleteItem(kind gametype.Kind, itemID int64) error {
	switch kind {
	case gametype.Matching:
		return s.itemRepo.DeleteMatchingItem(itemID)
	case gametype.Drag:
		return s.itemRepo.DeleteDragItem(itemID)
	case gametype.Fill:
		return s.itemRepo.DeleteFillItem(itemID)
	case gametype.Scramble:
		return s.itemRepo.DeleteScrambleItem(itemID)
	case gametype.Choice:
		return s.itemRepo.DeleteChoiceItem(itemID)
	case gametype.Speech:
		return s.itemRepo.DeleteSpeechQuestion(itemID)
	}
	return fmt.Errorf("no deletable items for kind %s", kind)
}

// QuizQuestions lists a lesson's questions of every kind for the admin
// page.
func (s *AdminService) QuizQuestions(lessonID int64, kind string) ([]*models.QuizQuestion, error) {
	lesson, err := s.Lesson(lessonID)
	if err != nil {
		return nil, err
	}
	return s.quizRepo.ListQuestions(lesson.ID, kind, "")
}

// QuestionInput carries the quiz question form fields.
type QuestionInput struct {
	Kind      string
	Question  string
	OptionA   string
	OptionB   string
	OptionC   string
	OptionD   string
	Correct   string
	ImagePath string
	Lang      string
}

func normalizeCorrectLetter(correct string) (string, error) {
	letter := strings.ToUpper(strings.TrimSpace(correct))
	switch letter {
	case "A", "B", "C", "D":
		return letter, nil
	}
	return "", fmt.Errorf("correct option must be A, B, C or D")
}

// AddQuizQuestion stores a question under a lesson.
func (s *AdminService) AddQuizQuestion(lessonID int64, in QuestionInput) error {
	lesson, err := s.Lesson(lessonID)
	if err != nil {
		return err
	}

	switch in.Kind {
	case models.QuestionKindGame, models.QuestionKindPre, models.QuestionKindPost:
	default:
		return fmt.Errorf("unknown question kind %q", in.Kind)
	}

	letter, err := normalizeCorrectLetter(in.Correct)
	if err != nil {
		return err
	}

	lang := in.Lang
	if lang == "" {
		lang = lesson.Lang
	}

	_, err = s.quizRepo.CreateQuestion(&models.QuizQuestion{
		LessonID: lesson.ID,
		Kind:     in.Kind,
		Question: in.Question,
		OptionA:  in.OptionA, OptionB: in.OptionB,
		OptionC: in.OptionC, OptionD: in.OptionD,
		Correct:   letter,
		ImagePath: in.ImagePath,
		Lang:      lang,
	})
	return err
}

// UpdateQuizQuestion modifies a question. An empty ImagePath keeps the
// stored image.
func (s *AdminService) UpdateQuizQuestion(questionID int64, in QuestionInput) error {
	q, err := s.quizRepo.GetQuestion(questionID)
	if err != nil {
		return err
	}
	if q == nil {
		return fmt.Errorf("question not found")
	}

	letter, err := normalizeCorrectLetter(in.Correct)
	if err != nil {
		return err
	}

	if in.Kind != "" {
		q.Kind = in.Kind
	}
	q.Question = in.Question
	q.OptionA, q.OptionB, q.OptionC, q.OptionD = in.OptionA, in.OptionB, in.OptionC, in.OptionD
	q.Correct = letter
	if in.ImagePath != "" {
		q.ImagePath = in.ImagePath
	}
	if in.Lang != "" {
		q.Lang = in.Lang
	}
	return s.quizRepo.UpdateQuestion(q)
}

// DeleteQuizQuestion removes a question, returning its lesson for the
// redirect.
func (s *AdminService) DeleteQuizQuestion(questionID int64) (int64, error) {
	q, err := s.quizRepo.GetQuestion(questionID)
	if err != nil {
		return 0, err
	}
	if q == nil {
		return 0, fmt.Errorf("question not found")
	}
	return q.LessonID, s.quizRepo.DeleteQuestion(questionID)
}
