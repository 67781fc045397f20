package handlers

import (
	"errors"
	"html/template"
	"log"
	"net/http"
	"strconv"

	"lingobridge/internal/service"
)

// TeacherHandler serves the teacher ranking, reports and retake grants.
type TeacherHandler struct {
	reportService *service.ReportService
	templates     *template.Template
}

// NewTeacherHandler creates a new teacher handler
func NewTeacherHandler(reportService *service.ReportService, templates *template.Template) *TeacherHandler {
	return &TeacherHandler{reportService: reportService, templates: templates}
}

func (h *TeacherHandler) render(w http.ResponseWriter, name string, data interface{}) {
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("Error rendering %s: %v", name, err)
		http.Error(w, ErrInternalServerError, http.StatusInternalServerError)
	}
}

// Ranking shows the school ranking, optionally filtered by classroom
func (h *TeacherHandler) Ranking(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	view, err := h.reportService.Ranking(user, r.URL.Query().Get("classroom"))
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "failed to build ranking", err)
		return
	}

	h.render(w, "ranking.tmpl", struct {
		basePage
		View *service.RankingView
	}{newPage("Ranking", user), view})
}

// StudentReport shows one student's scores
func (h *TeacherHandler) StudentReport(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	studentID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, ErrNotFound, http.StatusNotFound)
		return
	}

	view, err := h.reportService.StudentReport(studentID)
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			http.Error(w, ErrNotFound, http.StatusNotFound)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "failed to build report", err)
		return
	}

	h.render(w, "student_report.tmpl", struct {
		basePage
		View *service.StudentReportView
	}{newPage("Report: "+view.Student.Name, user), view})
}

func reportRedirect(studentID int64) string {
	return "/teacher/student/" + strconv.FormatInt(studentID, 10) + "/report"
}

// GrantGameRetake deletes a game score so the student can play again
func (h *TeacherHandler) GrantGameRetake(w http.ResponseWriter, r *http.Request) {
	studentID, err := pathID(r, "student_id")
	if err != nil {
		http.Error(w, ErrNotFound, http.StatusNotFound)
		return
	}
	gameID, err := pathID(r, "game_id")
	if err != nil {
		http.Error(w, ErrNotFound, http.StatusNotFound)
		return
	}

	if err := h.reportService.GrantGameRetake(r.Context(), studentID, gameID); err != nil {
		if errors.Is(err, service.ErrStudentNotFound) || errors.Is(err, service.ErrGameNotFound) {
			http.Error(w, ErrNotFound, http.StatusNotFound)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "failed to grant retake", err)
		return
	}
	http.Redirect(w, r, reportRedirect(studentID), http.StatusSeeOther)
}

// GrantQuizRetake deletes a test result so the student can retake it
func (h *TeacherHandler) GrantQuizRetake(w http.ResponseWriter, r *http.Request) {
	studentID, err := pathID(r, "student_id")
	if err != nil {
		http.Error(w, ErrNotFound, http.StatusNotFound)
		return
	}
	lessonID, err := pathID(r, "lesson_id")
	if err != nil {
		http.Error(w, ErrNotFound, http.StatusNotFound)
		return
	}

	err = h.reportService.GrantQuizRetake(r.Context(), studentID, lessonID, r.PathValue("test_type"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStudentNotFound), errors.Is(err, service.ErrLessonNotFound):
			http.Error(w, ErrNotFound, http.StatusNotFound)
		case errors.Is(err, service.ErrBadTestType):
			http.Error(w, "Unknown test type", http.StatusBadRequest)
		default:
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "failed to grant retake", err)
		}
		return
	}
	http.Redirect(w, r, reportRedirect(studentID), http.StatusSeeOther)
}
