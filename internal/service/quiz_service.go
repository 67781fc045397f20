package service

import (
	"errors"

	"lingobridge/internal/grading"
	"lingobridge/internal/models"
	"lingobridge/internal/repository"
)

// Quiz errors surfaced to handlers.
var (
	ErrLessonNotFound = errors.New("lesson not found")
	ErrNoQuestions    = errors.New("no questions for this test")
	ErrAlreadyTaken   = errors.New("test already taken")
	ErrBadTestType    = errors.New("unknown test type")
)

// QuizService runs the lesson pre and post tests.
type QuizService struct {
	quizRepo   *repository.QuizRepository
	lessonRepo *repository.LessonRepository
}

// NewQuizService creates a new quiz service
func NewQuizService(quizRepo *repository.QuizRepository, lessonRepo *repository.LessonRepository) *QuizService {
	return &QuizService{quizRepo: quizRepo, lessonRepo: lessonRepo}
}

// TestView is what the pre/post test page needs.
type TestView struct {
	Lesson    *models.Lesson
	TestType  string
	Lang      string
	Questions []*models.QuizQuestion
}

// TestResult is a graded pre or post test.
type TestResult struct {
	Lesson   *models.Lesson
	TestType string
	Score    int
	Total    int
	Grade    string
	Results  []grading.ItemResult
}

func validTestType(testType string) bool {
	return testType == models.TestTypePre || testType == models.TestTypePost
}

// Start loads a test's questions, enforcing the one-attempt gate: a
// stored result means the test is closed until a teacher re-opens it.
func (s *QuizService) Start(userID, lessonID int64, lang, testType string) (*TestView, error) {
	if !validTestType(testType) {
		return nil, ErrBadTestType
	}

	lesson, err := s.lessonRepo.GetByID(lessonID)
	if err != nil {
		return nil, err
	}
	if lesson == nil {
		return nil, ErrLessonNotFound
	}

	done, err := s.quizRepo.GetResult(userID, lessonID, testType)
	if err != nil {
		return nil, err
	}
	if done != nil {
		return nil, ErrAlreadyTaken
	}

	questions, err := s.quizRepo.ListQuestions(lessonID, testType, lang)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	return &TestView{Lesson: lesson, TestType: testType, Lang: lang, Questions: questions}, nil
}

// Submit grades a test and records the result. The unique constraint on
// quiz_results makes a concurrent second submission fail instead of
// double-recording.
func (s *QuizService) Submit(userID, lessonID int64, lang, testType string, answers map[int64]string) (*TestResult, error) {
	view, err := s.Start(userID, lessonID, lang, testType)
	if err != nil {
		return nil, err
	}

	score, results := grading.GradeQuiz(view.Questions, answers)

	if err := s.quizRepo.SaveResult(userID, lessonID, testType, score); err != nil {
		return nil, err
	}

	return &TestResult{
		Lesson:   view.Lesson,
		TestType: testType,
		Score:    score,
		Total:    len(view.Questions),
		Grade:    LetterGrade(score, len(view.Questions)),
		Results:  results,
	}, nil
}

// LetterGrade maps a score fraction to a letter: A at 80% and above,
// then B at 60%, C at 40%, D below.
func LetterGrade(score, total int) string {
	if total == 0 {
		return "D"
	}
	switch pct := float64(score) / float64(total); {
	case pct >= 0.8:
		return "A"
	case pct >= 0.6:
		return "B"
	case pct >= 0.4:
		return "C"
	default:
		return "D"
	}
}
