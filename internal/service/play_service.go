package service

import (
	"errors"
	"fmt"
	"math/rand"

	"lingobridge/internal/gametype"
	"lingobridge/internal/grading"
	"lingobridge/internal/models"
	"lingobridge/internal/repository"
)

// Play errors surfaced to handlers.
var (
	ErrGameNotFound   = errors.New("game not found")
	ErrAlreadyPlayed  = errors.New("game already played")
	ErrNothingToPlay  = errors.New("game has no content")
	ErrUnplayableKind = errors.New("game kind cannot be graded here")
)

// PlayService drives a play session: it resolves the game kind, prepares
// the prompt view and grades submissions.
type PlayService struct {
	gameRepo   *repository.GameRepository
	itemRepo   *repository.ItemRepository
	quizRepo   *repository.QuizRepository
	scoreRepo  *repository.ScoreRepository
	lessonRepo *repository.LessonRepository
}

// NewPlayService creates a new play service
func NewPlayService(
	gameRepo *repository.GameRepository,
	itemRepo *repository.ItemRepository,
	quizRepo *repository.QuizRepository,
	scoreRepo *repository.ScoreRepository,
	lessonRepo *repository.LessonRepository,
) *PlayService {
	return &PlayService{
		gameRepo:   gameRepo,
		itemRepo:   itemRepo,
		quizRepo:   quizRepo,
		scoreRepo:  scoreRepo,
		lessonRepo: lessonRepo,
	}
}

// ScrambledSentence is one scramble prompt with its tokens shuffled.
type ScrambledSentence struct {
	ID    int64
	Words []string
}

// ChoiceDisplay is one choice prompt with its options shuffled.
type ChoiceDisplay struct {
	Item    *models.ChoiceItem
	Options []string
}

// PlayView is everything a play page needs. Only the fields of the
// resolved kind are populated.
type PlayView struct {
	Game   *models.Game
	Lesson *models.Lesson
	Kind   gametype.Kind
	Played bool

	MatchingItems   []*models.MatchingItem
	MatchingAnswers []*models.MatchingItem

	DragItems     []*models.DragItem
	ShuffledWords []string
	PinyinMap     map[string]string

	FillItems []*models.FillItem
	HintWords []string

	Scrambled []*ScrambledSentence

	ChoiceItems   []*models.ChoiceItem
	ChoiceDisplay []*ChoiceDisplay

	QuizQuestions []*models.QuizQuestion

	SpeechQuestions []*models.SpeechQuestion
}

// Submission carries a play form's answers. Missing entries are graded
// as incorrect.
type Submission struct {
	ClientScore int
	Answers     map[int64]string
	Sequences   map[int64][]string
}

// PlayResult is a graded play session.
type PlayResult struct {
	Game    *models.Game
	Kind    gametype.Kind
	Score   int
	Total   int
	Results []grading.ItemResult
}

// resolveGame loads a game and resolves its kind. Rows created through
// the admin UI carry a canonical kind already; older rows may still hold
// a free-text label, so labels are re-resolved here.
func (s *PlayService) resolveGame(gameID int64) (*models.Game, gametype.Kind, error) {
	game, err := s.gameRepo.GetByID(gameID)
	if err != nil {
		return nil, "", err
	}
	if game == nil {
		return nil, "", ErrGameNotFound
	}
	kind, err := gametype.Resolve(game.GameType)
	if err != nil {
		return nil, "", fmt.Errorf("game %d: %w", gameID, err)
	}
	return game, kind, nil
}

// Lookup resolves a game and its kind without the replay gate.
func (s *PlayService) Lookup(gameID int64) (*models.Game, gametype.Kind, error) {
	return s.resolveGame(gameID)
}

// HasPlayed reports whether the user already has a recorded score for
// the game. A recorded score locks the game until a teacher grants a
// retake.
func (s *PlayService) HasPlayed(userID, gameID int64) (bool, error) {
	score, err := s.scoreRepo.Get(userID, gameID)
	if err != nil {
		return false, err
	}
	return score != nil, nil
}

// Prompt prepares the play view for a game. Returns ErrAlreadyPlayed
// when the user has a recorded score.
func (s *PlayService) Prompt(userID, gameID int64) (*PlayView, error) {
	game, kind, err := s.resolveGame(gameID)
	if err != nil {
		return nil, err
	}

	played, err := s.HasPlayed(userID, gameID)
	if err != nil {
		return nil, err
	}
	if played {
		return nil, ErrAlreadyPlayed
	}

	lesson, err := s.lessonRepo.GetByID(game.LessonID)
	if err != nil {
		return nil, err
	}

	view := &PlayView{Game: game, Lesson: lesson, Kind: kind}

	switch kind {
	case gametype.Matching:
		items, err := s.itemRepo.ListMatchingItems(game.ID)
		if err != nil {
			return nil, err
		}
		answers := make([]*models.MatchingItem, len(items))
		copy(answers, items)
		rand.Shuffle(len(answers), func(i, j int) { answers[i], answers[j] = answers[j], answers[i] })
		view.MatchingItems = items
		view.MatchingAnswers = answers

	case gametype.Drag:
		items, err := s.itemRepo.ListDragItems(game.ID)
		if err != nil {
			return nil, err
		}
		words := make([]string, 0, len(items))
		pinyin := make(map[string]string, len(items))
		for _, item := range items {
			words = append(words, item.Word)
			pinyin[item.Word] = item.Pinyin
		}
		rand.Shuffle(len(words), func(i, j int) { words[i], words[j] = words[j], words[i] })
		view.DragItems = items
		view.ShuffledWords = words
		view.PinyinMap = pinyin

	case gametype.Fill:
		items, err := s.itemRepo.ListFillItems(game.ID)
		if err != nil {
			return nil, err
		}
		view.FillItems = items
		view.HintWords = fillHintWords(items)

	case gametype.Scramble:
		items, err := s.itemRepo.ListScrambleItems(game.ID)
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			shuffled := make([]string, len(item.Words))
			copy(shuffled, item.Words)
			rand.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
			view.Scrambled = append(view.Scrambled, &ScrambledSentence{ID: item.ID, Words: shuffled})
		}

	case gametype.Choice:
		items, err := s.itemRepo.ListChoiceItems(game.ID)
		if err != nil {
			return nil, err
		}
		view.ChoiceItems = items
		for _, item := range items {
			options := item.Options()
			rand.Shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })
			view.ChoiceDisplay = append(view.ChoiceDisplay, &ChoiceDisplay{Item: item, Options: options})
		}

	case gametype.Quiz:
		// Quiz questions belong to the lesson, shared by every quiz
		// game of the same language.
		questions, err := s.quizRepo.ListQuestions(game.LessonID, models.QuestionKindGame, game.Lang)
		if err != nil {
			return nil, err
		}
		view.QuizQuestions = questions

	case gametype.Speech:
		questions, err := s.itemRepo.ListSpeechQuestions(game.ID)
		if err != nil {
			return nil, err
		}
		rand.Shuffle(len(questions), func(i, j int) { questions[i], questions[j] = questions[j], questions[i] })
		view.SpeechQuestions = questions
	}

	return view, nil
}

// fillHintWords collects the accepted answers of all sentences into one
// deduplicated, shuffled hint bank.
func fillHintWords(items []*models.FillItem) []string {
	seen := make(map[string]bool)
	var words []string
	for _, item := range items {
		for _, w := range grading.SplitAccepted(item.Answers) {
			if !seen[w] {
				seen[w] = true
				words = append(words, w)
			}
		}
	}
	rand.Shuffle(len(words), func(i, j int) { words[i], words[j] = words[j], words[i] })
	return words
}

// Grade scores a submitted play session and records the score, keeping
// the best result across plays. Matching and drag games are graded on
// the client, so their reported score is stored as-is capped to the
// item count.
func (s *PlayService) Grade(userID, gameID int64, sub Submission) (*PlayResult, error) {
	game, kind, err := s.resolveGame(gameID)
	if err != nil {
		return nil, err
	}

	played, err := s.HasPlayed(userID, gameID)
	if err != nil {
		return nil, err
	}
	if played {
		return nil, ErrAlreadyPlayed
	}

	result := &PlayResult{Game: game, Kind: kind}

	switch kind {
	case gametype.Matching:
		items, err := s.itemRepo.ListMatchingItems(game.ID)
		if err != nil {
			return nil, err
		}
		result.Total = len(items)
		result.Score = clampScore(sub.ClientScore, len(items))
		for _, item := range items {
			result.Results = append(result.Results, grading.ItemResult{
				ItemID:        item.ID,
				Question:      item.QuestionText,
				CorrectAnswer: item.AnswerText,
			})
		}

	case gametype.Drag:
		items, err := s.itemRepo.ListDragItems(game.ID)
		if err != nil {
			return nil, err
		}
		result.Total = len(items)
		result.Score = clampScore(sub.ClientScore, len(items))

	case gametype.Fill:
		items, err := s.itemRepo.ListFillItems(game.ID)
		if err != nil {
			return nil, err
		}
		result.Score, result.Results = grading.GradeFill(items, sub.Answers)
		result.Total = len(items)

	case gametype.Scramble:
		items, err := s.itemRepo.ListScrambleItems(game.ID)
		if err != nil {
			return nil, err
		}
		result.Score, result.Results = grading.GradeScramble(items, sub.Sequences)
		result.Total = len(items)

	case gametype.Choice:
		items, err := s.itemRepo.ListChoiceItems(game.ID)
		if err != nil {
			return nil, err
		}
		result.Score, result.Results = grading.GradeChoice(items, sub.Answers)
		result.Total = len(items)

	case gametype.Quiz:
		questions, err := s.quizRepo.ListQuestions(game.LessonID, models.QuestionKindGame, game.Lang)
		if err != nil {
			return nil, err
		}
		result.Score, result.Results = grading.GradeQuiz(questions, sub.Answers)
		result.Total = len(questions)

	case gametype.Speech:
		// Speaking games are graded utterance by utterance and finish
		// through the speech service.
		return nil, ErrUnplayableKind
	}

	if err := s.scoreRepo.SaveBest(userID, game.ID, result.Score); err != nil {
		return nil, err
	}
	return result, nil
}

// SaveClientScore records a score reported by the game page directly,
// keeping the best result. Used by matching and drag games that grade in
// the browser. The replay gate and the item-count cap apply the same as
// for server-graded kinds.
func (s *PlayService) SaveClientScore(userID, gameID int64, score int) error {
	game, kind, err := s.resolveGame(gameID)
	if err != nil {
		return err
	}

	played, err := s.HasPlayed(userID, gameID)
	if err != nil {
		return err
	}
	if played {
		return ErrAlreadyPlayed
	}

	var total int
	switch kind {
	case gametype.Matching:
		items, err := s.itemRepo.ListMatchingItems(game.ID)
		if err != nil {
			return err
		}
		total = len(items)
	case gametype.Drag:
		items, err := s.itemRepo.ListDragItems(game.ID)
		if err != nil {
			return err
		}
		total = len(items)
	default:
		return ErrUnplayableKind
	}

	return s.scoreRepo.SaveBest(userID, game.ID, clampScore(score, total))
}

func clampScore(score, total int) int {
	if score < 0 {
		return 0
	}
	if score > total {
		return total
	}
	return score
}
