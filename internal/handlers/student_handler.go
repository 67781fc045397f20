package handlers

import (
	"errors"
	"html/template"
	"log"
	"net/http"

	"lingobridge/internal/service"
)

// StudentHandler serves the student dashboard and score pages.
type StudentHandler struct {
	studentService *service.StudentService
	templates      *template.Template
}

// NewStudentHandler creates a new student handler
func NewStudentHandler(studentService *service.StudentService, templates *template.Template) *StudentHandler {
	return &StudentHandler{studentService: studentService, templates: templates}
}

func (h *StudentHandler) render(w http.ResponseWriter, name string, data interface{}) {
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("Error rendering %s: %v", name, err)
		http.Error(w, ErrInternalServerError, http.StatusInternalServerError)
	}
}

// pathLang reads the {lang} path value, defaulting to English.
func pathLang(r *http.Request) string {
	switch r.PathValue("lang") {
	case "zh":
		return "zh"
	default:
		return "en"
	}
}

// Dashboard lists the lessons of one language
func (h *StudentHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	lang := pathLang(r)
	lessons, err := h.studentService.Dashboard(lang)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "failed to load dashboard", err)
		return
	}

	page := newPage("Lessons", GetUserFromContext(r.Context()))
	page.Flash = takeFlash(w, r)

	h.render(w, "student_dashboard.tmpl", struct {
		basePage
		Lang    string
		Lessons interface{}
	}{page, lang, lessons})
}

// ExerciseScores shows the best game score per lesson
func (h *StudentHandler) ExerciseScores(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	lang := pathLang(r)

	scores, err := h.studentService.ExerciseScores(user.ID, lang)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "failed to load exercise scores", err)
		return
	}

	h.render(w, "student_scores.tmpl", struct {
		basePage
		Lang   string
		Scores []*service.LessonScore
	}{newPage("My scores", user), lang, scores})
}

// TestScores shows pre/post test results per lesson
func (h *StudentHandler) TestScores(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	lang := pathLang(r)

	data, err := h.studentService.TestScores(user.ID, lang)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "failed to load test scores", err)
		return
	}

	h.render(w, "test_scores.tmpl", struct {
		basePage
		Lang   string
		Scores []*service.TestScores
	}{newPage("Test scores", user), lang, data})
}

// Unit shows a lesson with its games and test progress
func (h *StudentHandler) Unit(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	lessonID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, ErrNotFound, http.StatusNotFound)
		return
	}

	view, err := h.studentService.Unit(user.ID, lessonID)
	if err != nil {
		if errors.Is(err, service.ErrLessonNotFound) {
			http.Error(w, ErrNotFound, http.StatusNotFound)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "failed to load unit", err)
		return
	}

	h.render(w, "unit_detail.tmpl", struct {
		basePage
		Unit *service.UnitView
	}{newLessonPage(view.Lesson.Title, user, lessonID), view})
}

// LessonScoreDetail shows per-game scores of a lesson
func (h *StudentHandler) LessonScoreDetail(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	lessonID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, ErrNotFound, http.StatusNotFound)
		return
	}

	lesson, details, err := h.studentService.LessonScoreDetail(user.ID, lessonID)
	if err != nil {
		if errors.Is(err, service.ErrLessonNotFound) {
			http.Error(w, ErrNotFound, http.StatusNotFound)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "failed to load lesson scores", err)
		return
	}

	page := newLessonPage(lesson.Title, user, lessonID)
	page.Flash = takeFlash(w, r)

	h.render(w, "lesson_score_detail.tmpl", struct {
		basePage
		Lesson  interface{}
		Details []*service.GameScoreDetail
	}{page, lesson, details})
}
