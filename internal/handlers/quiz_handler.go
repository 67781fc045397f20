package handlers

import (
	"errors"
	"html/template"
	"log"
	"net/http"

	"lingobridge/internal/service"
)

// QuizHandler serves the lesson pre and post tests.
type QuizHandler struct {
	quizService *service.QuizService
	templates   *template.Template
}

// NewQuizHandler creates a new quiz handler
func NewQuizHandler(quizService *service.QuizService, templates *template.Template) *QuizHandler {
	return &QuizHandler{quizService: quizService, templates: templates}
}

func (h *QuizHandler) render(w http.ResponseWriter, name string, data interface{}) {
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("Error rendering %s: %v", name, err)
		http.Error(w, ErrInternalServerError, http.StatusInternalServerError)
	}
}

func (h *QuizHandler) handleStartError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrLessonNotFound):
		http.Error(w, ErrNotFound, http.StatusNotFound)
	case errors.Is(err, service.ErrBadTestType):
		http.Error(w, "Unknown test type", http.StatusBadRequest)
	case errors.Is(err, service.ErrAlreadyTaken):
		setFlash(w, "You have already taken this test. Ask your teacher to reopen it.")
		http.Redirect(w, r, "/student/dashboard/"+pathLang(r), http.StatusSeeOther)
	case errors.Is(err, service.ErrNoQuestions):
		user := GetUserFromContext(r.Context())
		page := newPage("Test unavailable", user)
		page.Error = "There are no questions for this test yet"
		h.render(w, "quiz_error.tmpl", page)
	default:
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "failed to start test", err)
	}
}

// Take renders the test page
func (h *QuizHandler) Take(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	lessonID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, ErrNotFound, http.StatusNotFound)
		return
	}

	view, err := h.quizService.Start(user.ID, lessonID, pathLang(r), r.PathValue("test_type"))
	if err != nil {
		h.handleStartError(w, r, err)
		return
	}

	h.render(w, "quiz_take.tmpl", struct {
		basePage
		View *service.TestView
	}{newLessonPage(view.Lesson.Title, user, lessonID), view})
}

// Submit grades the test and renders the result
func (h *QuizHandler) Submit(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	lessonID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, ErrNotFound, http.StatusNotFound)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return
	}

	lang := pathLang(r)
	testType := r.PathValue("test_type")

	view, err := h.quizService.Start(user.ID, lessonID, lang, testType)
	if err != nil {
		h.handleStartError(w, r, err)
		return
	}

	ids := make([]int64, 0, len(view.Questions))
	for _, q := range view.Questions {
		ids = append(ids, q.ID)
	}

	result, err := h.quizService.Submit(user.ID, lessonID, lang, testType, formAnswers(r, ids))
	if err != nil {
		h.handleStartError(w, r, err)
		return
	}

	h.render(w, "quiz_result.tmpl", struct {
		basePage
		Result *service.TestResult
	}{newLessonPage(result.Lesson.Title, user, lessonID), result})
}
