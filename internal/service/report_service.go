package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"lingobridge/internal/models"
	"lingobridge/internal/repository"
)

// Report errors surfaced to handlers.
var ErrStudentNotFound = errors.New("student not found")

// ReportService implements the teacher views: rankings, per-student
// reports and retake grants.
type ReportService struct {
	userRepo   *repository.UserRepository
	gameRepo   *repository.GameRepository
	lessonRepo *repository.LessonRepository
	scoreRepo  *repository.ScoreRepository
	quizRepo   *repository.QuizRepository
	email      *EmailService
}

// NewReportService creates a new report service
func NewReportService(
	userRepo *repository.UserRepository,
	gameRepo *repository.GameRepository,
	lessonRepo *repository.LessonRepository,
	scoreRepo *repository.ScoreRepository,
	quizRepo *repository.QuizRepository,
	email *EmailService,
) *ReportService {
	return &ReportService{
		userRepo:   userRepo,
		gameRepo:   gameRepo,
		lessonRepo: lessonRepo,
		scoreRepo:  scoreRepo,
		quizRepo:   quizRepo,
		email:      email,
	}
}

// RankingView is the teacher ranking page data.
type RankingView struct {
	Ranking           []*repository.UserTotal
	Classrooms        []string
	SelectedClassroom string
}

// Ranking ranks the teacher's school's students by total game score,
// optionally limited to one classroom.
func (s *ReportService) Ranking(teacher *models.User, classroom string) (*RankingView, error) {
	ranking, err := s.scoreRepo.Ranking(teacher.School, classroom)
	if err != nil {
		return nil, err
	}
	classrooms, err := s.userRepo.ListClassrooms(teacher.School)
	if err != nil {
		return nil, err
	}
	return &RankingView{
		Ranking:           ranking,
		Classrooms:        classrooms,
		SelectedClassroom: classroom,
	}, nil
}

// StudentReportView is the per-student report page data.
type StudentReportView struct {
	Student    *models.User
	GameScores []*repository.ScoreReportRow
	QuizScores []*repository.QuizReportRow
	TotalGame  int
	TotalQuiz  int
	Total      int
}

// StudentReport collects one student's game and test scores.
func (s *ReportService) StudentReport(studentID int64) (*StudentReportView, error) {
	student, err := s.userRepo.GetUserByID(studentID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, ErrStudentNotFound
	}

	gameScores, err := s.scoreRepo.ReportForUser(studentID)
	if err != nil {
		return nil, err
	}
	quizScores, err := s.quizRepo.ReportForUser(studentID)
	if err != nil {
		return nil, err
	}

	view := &StudentReportView{
		Student:    student,
		GameScores: gameScores,
		QuizScores: quizScores,
	}
	for _, row := range gameScores {
		view.TotalGame += row.Score.Score
	}
	for _, row := range quizScores {
		view.TotalQuiz += row.Result.Score
	}
	view.Total = view.TotalGame + view.TotalQuiz
	return view, nil
}

// GrantGameRetake deletes a student's score for a game, giving them
// exactly one more play. The student is notified by email when they
// have an address on file.
func (s *ReportService) GrantGameRetake(ctx context.Context, studentID, gameID int64) error {
	student, err := s.userRepo.GetUserByID(studentID)
	if err != nil {
		return err
	}
	if student == nil {
		return ErrStudentNotFound
	}
	game, err := s.gameRepo.GetByID(gameID)
	if err != nil {
		return err
	}
	if game == nil {
		return ErrGameNotFound
	}

	if err := s.scoreRepo.Delete(studentID, gameID); err != nil {
		return err
	}

	if err := s.email.SendRetakeGrantedEmail(ctx, student.Email, student.Name,
		fmt.Sprintf("the game %q", game.Title)); err != nil {
		log.Printf("report: retake email failed: %v", err)
	}
	return nil
}

// GrantQuizRetake deletes a student's pre or post test result for a
// lesson, re-opening the test for one attempt.
func (s *ReportService) GrantQuizRetake(ctx context.Context, studentID, lessonID int64, testType string) error {
	if !validTestType(testType) {
		return ErrBadTestType
	}

	student, err := s.userRepo.GetUserByID(studentID)
	if err != nil {
		return err
	}
	if student == nil {
		return ErrStudentNotFound
	}
	lesson, err := s.lessonRepo.GetByID(lessonID)
	if err != nil {
		return err
	}
	if lesson == nil {
		return ErrLessonNotFound
	}

	if err := s.quizRepo.DeleteResult(studentID, lessonID, testType); err != nil {
		return err
	}

	if err := s.email.SendRetakeGrantedEmail(ctx, student.Email, student.Name,
		fmt.Sprintf("the %s-test of %q", testType, lesson.Title)); err != nil {
		log.Printf("report: retake email failed: %v", err)
	}
	return nil
}
