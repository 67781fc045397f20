package service

import (
	"lingobridge/internal/gametype"
	"lingobridge/internal/models"
	"lingobridge/internal/repository"
)

// StudentService assembles the student-facing dashboard and score pages.
type StudentService struct {
	lessonRepo *repository.LessonRepository
	gameRepo   *repository.GameRepository
	itemRepo   *repository.ItemRepository
	quizRepo   *repository.QuizRepository
	scoreRepo  *repository.ScoreRepository
}

// NewStudentService creates a new student service
func NewStudentService(
	lessonRepo *repository.LessonRepository,
	gameRepo *repository.GameRepository,
	itemRepo *repository.ItemRepository,
	quizRepo *repository.QuizRepository,
	scoreRepo *repository.ScoreRepository,
) *StudentService {
	return &StudentService{
		lessonRepo: lessonRepo,
		gameRepo:   gameRepo,
		itemRepo:   itemRepo,
		quizRepo:   quizRepo,
		scoreRepo:  scoreRepo,
	}
}

// Dashboard returns the lessons of one language.
func (s *StudentService) Dashboard(lang string) ([]*models.Lesson, error) {
	return s.lessonRepo.List(lang)
}

// LessonScore is a lesson with the student's best game score in it.
type LessonScore struct {
	Lesson *models.Lesson
	Score  int
}

// ExerciseScores returns, per lesson of one language, the student's best
// single game score.
func (s *StudentService) ExerciseScores(userID int64, lang string) ([]*LessonScore, error) {
	lessons, err := s.lessonRepo.List(lang)
	if err != nil {
		return nil, err
	}
	best, err := s.scoreRepo.BestByLesson(userID, lang)
	if err != nil {
		return nil, err
	}

	scores := make([]*LessonScore, 0, len(lessons))
	for _, lesson := range lessons {
		scores = append(scores, &LessonScore{Lesson: lesson, Score: best[lesson.ID]})
	}
	return scores, nil
}

// TestScores pairs each lesson with the student's pre and post test
// results. A nil result means the test has not been taken.
type TestScores struct {
	Lesson *models.Lesson
	Pre    *models.QuizResult
	Post   *models.QuizResult
}

// TestScores returns the student's pre/post results per lesson of one
// language.
func (s *StudentService) TestScores(userID int64, lang string) ([]*TestScores, error) {
	lessons, err := s.lessonRepo.List(lang)
	if err != nil {
		return nil, err
	}

	var data []*TestScores
	for _, lesson := range lessons {
		pre, err := s.quizRepo.GetResult(userID, lesson.ID, models.TestTypePre)
		if err != nil {
			return nil, err
		}
		post, err := s.quizRepo.GetResult(userID, lesson.ID, models.TestTypePost)
		if err != nil {
			return nil, err
		}
		data = append(data, &TestScores{Lesson: lesson, Pre: pre, Post: post})
	}
	return data, nil
}

// UnitGame is one game of a unit page with its played flag.
type UnitGame struct {
	Game   *models.Game
	Played bool
}

// UnitView is the lesson detail page data.
type UnitView struct {
	Lesson   *models.Lesson
	Games    []*UnitGame
	PreDone  bool
	PostDone bool
}

// Unit returns a lesson with its games and the student's progress.
func (s *StudentService) Unit(userID, lessonID int64) (*UnitView, error) {
	lesson, err := s.lessonRepo.GetByID(lessonID)
	if err != nil {
		return nil, err
	}
	if lesson == nil {
		return nil, ErrLessonNotFound
	}

	games, err := s.gameRepo.ListByLesson(lessonID)
	if err != nil {
		return nil, err
	}
	scores, err := s.scoreRepo.ListForUser(userID)
	if err != nil {
		return nil, err
	}

	view := &UnitView{Lesson: lesson}
	for _, game := range games {
		_, played := scores[game.ID]
		view.Games = append(view.Games, &UnitGame{Game: game, Played: played})
	}

	pre, err := s.quizRepo.GetResult(userID, lessonID, models.TestTypePre)
	if err != nil {
		return nil, err
	}
	post, err := s.quizRepo.GetResult(userID, lessonID, models.TestTypePost)
	if err != nil {
		return nil, err
	}
	view.PreDone = pre != nil
	view.PostDone = post != nil
	return view, nil
}

// GameScoreDetail is one game of a lesson with the student's score and
// the item count it was scored out of.
type GameScoreDetail struct {
	Game  *models.Game
	Score int
	Max   int
}

// LessonScoreDetail returns per-game scores of a lesson. Max is the
// game's item count; games whose kind cannot be resolved fall back to a
// nominal total.
func (s *StudentService) LessonScoreDetail(userID, lessonID int64) (*models.Lesson, []*GameScoreDetail, error) {
	lesson, err := s.lessonRepo.GetByID(lessonID)
	if err != nil {
		return nil, nil, err
	}
	if lesson == nil {
		return nil, nil, ErrLessonNotFound
	}

	games, err := s.gameRepo.ListByLesson(lessonID)
	if err != nil {
		return nil, nil, err
	}
	scores, err := s.scoreRepo.ListForUser(userID)
	if err != nil {
		return nil, nil, err
	}

	var details []*GameScoreDetail
	for _, game := range games {
		detail := &GameScoreDetail{Game: game}
		if score, ok := scores[game.ID]; ok {
			detail.Score = score.Score
		}
		detail.Max, err = s.maxForGame(game)
		if err != nil {
			return nil, nil, err
		}
		details = append(details, detail)
	}
	return lesson, details, nil
}

func (s *StudentService) maxForGame(game *models.Game) (int, error) {
	kind, err := gametype.Resolve(game.GameType)
	if err != nil {
		return 10, nil
	}

	switch kind {
	case gametype.Matching:
		return s.itemRepo.CountForGame("matching_items", game.ID)
	case gametype.Drag:
		return s.itemRepo.CountForGame("drag_items", game.ID)
	case gametype.Fill:
		return s.itemRepo.CountForGame("fill_items", game.ID)
	case gametype.Scramble:
		return s.itemRepo.CountForGame("scramble_items", game.ID)
	case gametype.Choice:
		return s.itemRepo.CountForGame("choice_items", game.ID)
	case gametype.Speech:
		return s.itemRepo.CountForGame("speech_questions", game.ID)
	case gametype.Quiz:
		questions, err := s.quizRepo.ListQuestions(game.LessonID, models.QuestionKindGame, game.Lang)
		if err != nil {
			return 0, err
		}
		return len(questions), nil
	}
	return 10, nil
}
