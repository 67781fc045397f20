package handlers

import (
	"errors"
	"html/template"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"lingobridge/internal/gametype"
	"lingobridge/internal/models"
	"lingobridge/internal/service"
)

// AdminHandler serves the content-management pages: lessons, games,
// per-game items and quiz questions.
type AdminHandler struct {
	adminService *service.AdminService
	uploadsDir   string
	maxUpload    int64
	templates    *template.Template
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminService *service.AdminService, uploadsDir string, maxUpload int64, templates *template.Template) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		uploadsDir:   uploadsDir,
		maxUpload:    maxUpload,
		templates:    templates,
	}
}

func (h *AdminHandler) render(w http.ResponseWriter, name string, data interface{}) {
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("Error rendering %s: %v", name, err)
		http.Error(w, ErrInternalServerError, http.StatusInternalServerError)
	}
}

func lessonGamesPath(lessonID int64) string {
	return "/admin/lessons/" + strconv.FormatInt(lessonID, 10) + "/games"
}

func gameItemsPath(gameID int64) string {
	return "/admin/games/" + strconv.FormatInt(gameID, 10) + "/items"
}

func quizQuestionsPath(lessonID int64) string {
	return "/admin/quiz/lesson/" + strconv.FormatInt(lessonID, 10)
}

// saveUpload stores one multipart file under the uploads directory with
// a fresh uuid name, keeping the original extension. Returns the stored
// file name, or "" when the field was left empty.
func (h *AdminHandler) saveUpload(r *http.Request, field string, allowedExts []string) (string, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	ok := false
	for _, allowed := range allowedExts {
		if ext == allowed {
			ok = true
			break
		}
	}
	if !ok {
		return "", errors.New("unsupported file type " + ext)
	}

	name := uuid.New().String() + ext
	if err := writeUpload(file, filepath.Join(h.uploadsDir, name)); err != nil {
		return "", err
	}
	return name, nil
}

func writeUpload(src multipart.File, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return err
	}
	return nil
}

// ListLessons shows every lesson with its management links
func (h *AdminHandler) ListLessons(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	lessons, err := h.adminService.Lessons()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "failed to list lessons", err)
		return
	}

	h.render(w, "admin_lessons.tmpl", struct {
		basePage
		Lessons []*models.Lesson
	}{newPage("Lessons", user), lessons})
}

// CreateLesson handles the new-lesson form
func (h *AdminHandler) CreateLesson(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return
	}

	_, err := h.adminService.CreateLesson(
		r.FormValue("title"), r.FormValue("description"), r.FormValue("lang"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), "failed to create lesson", err)
		return
	}
	http.Redirect(w, r, "/admin/lessons", http.StatusSeeOther)
}

// UpdateLesson handles the edit-lesson form
func (h *AdminHandler) UpdateLesson(w http.ResponseWriter, r *http.Request) {
	lessonID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, ErrNotFound, http.StatusNotFound)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return
	}

	err = h.adminService.UpdateLesson(lessonID,
		r.FormValue("title"), r.FormValue("description"), r.FormValue("lang"))
	if err != nil {
		if errors.Is(err, service.ErrLessonNotFound) {
			http.Error(w, ErrNotFound, http.StatusNotFound)
			return
		}
		respondWithError(w, http.StatusBadRequest, err.Error(), "failed to update lesson", err)
		return
	}
	http.Redirect(w, r, "/admin/lessons", http.StatusSeeOther)
}

// DeleteLesson removes a lesson and everything under it
func (h *AdminHandler) DeleteLesson(w http.ResponseWriter, r *http.Request) {
	lessonID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, ErrNotFound, http.StatusNotFound)
		return
	}

	if err := h.adminService.DeleteLesson(lessonID); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "failed to delete lesson", err)
		return
	}
	http.Redirect(w, r, "/admin/lessons", http.StatusSeeOther)
}

// ListGames shows a lesson's games and the new-game form
func (h *AdminHandler) ListGames(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	lessonID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, ErrNotFound, http.StatusNotFound)
		return
	}

	lesson, err := h.adminService.Lesson(lessonID)
	if err != nil {
		if errors.Is(err, service.ErrLessonNotFound) {
			http.Error(w, ErrNotFound, http.StatusNotFound)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "failed to load lesson", err)
		return
	}

	games, err := h.adminService.Games(lessonID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "failed to list games", err)
		return
	}

	h.render(w, "admin_games.tmpl", struct {
		basePage
		Lesson    *models.Lesson
		Games     []*models.Game
		GameKinds []gametype.Kind
	}{newPage("Games: "+lesson.Title, user), lesson, games, gametype.All()})
}

// CreateGame handles the new-game form for a lesson
func (h *AdminHandler) CreateGame(w http.ResponseWriter, r *http.Request) {
	lessonID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, ErrNotFound, http.StatusNotFound)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return
	}

	_, err = h.adminService.CreateGame(lessonID,
		r.FormValue("title"), r.FormValue("description"), r.FormValue("game_type"),
		r.FormValue("title_pinyin"), r.FormValue("description_pinyin"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLessonNotFound):
			http.Error(w, ErrNotFound, http.StatusNotFound)
		case errors.Is(err, gametype.ErrUnknownType):
			http.Error(w, "Unknown game type", http.StatusBadRequest)
		default:
			respondWithError(w, http.StatusBadRequest, err.Error(), "failed to create game", err)
		}
		return
	}
	http.Redirect(w, r, lessonGamesPath(lessonID), http.StatusSeeOther)
}

// UpdateGame handles the edit-game form
func (h *AdminHandler) UpdateGame(w http.ResponseWriter, r *http.Request) {
	gameID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, ErrNotFound, http.StatusNotFound)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return
	}

	err = h.adminService.UpdateGame(gameID,
		r.FormValue("title"), r.FormValue("description"), r.FormValue("game_type"),
		r.FormValue("title_pinyin"), r.FormValue("description_pinyin"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrGameNotFound):
			http.Error(w, ErrNotFound, http.StatusNotFound)
		case errors.Is(err, gametype.ErrUnknownType):
			http.Error(w, "Unknown game type", http.StatusBadRequest)
		default:
			respondWithError(w, http.StatusBadRequest, err.Error(), "failed to update game", err)
		}
		return
	}

	game, err := h.adminService.Game(gameID)
	if err != nil {
		http.Redirect(w, r, "/admin/lessons", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, lessonGamesPath(game.LessonID), http.StatusSeeOther)
}

// DeleteGame removes a game and its items
func (h *AdminHandler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	gameID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, ErrNotFound, http.StatusNotFound)
		return
	}

	game, err := h.adminService.Game(gameID)
	if err != nil {
		if errors.Is(err, service.ErrGameNotFound) {
			http.Error(w, ErrNotFound, http.StatusNotFound)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "failed to load game", err)
		return
	}

	if err := h.adminService.DeleteGame(gameID); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "failed to delete game", err)
		return
	}
	http.Redirect(w, r, lessonGamesPath(game.LessonID), http.StatusSeeOther)
}

// ListItems shows a game's content and the add-item form for its kind.
// Quiz games link out to the per-lesson question page instead.
func (h *AdminHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	gameID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, ErrNotFound, http.StatusNotFound)
		return
	}

	content, err := h.adminService.Content(gameID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrGameNotFound):
			http.Error(w, ErrNotFound, http.StatusNotFound)
		case errors.Is(err, gametype.ErrUnknownType):
			http.Error(w, "This game has an unrecognized type; edit it first", http.StatusConflict)
		default:
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "failed to load game content", err)
		}
		return
	}

	h.render(w, "admin_items.tmpl", struct {
		basePage
		Content      *service.GameContent
		QuizPagePath string
	}{newPage("Items: "+content.Game.Title, user), content, quizQuestionsPath(content.Game.LessonID)})
}

// AddItem handles the add-item form, storing any uploaded matching
// audio or drag image first.
func (h *AdminHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	gameID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, ErrNotFound, http.StatusNotFound)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return
	}

	audioName, err := h.saveUpload(r, "question_audio", []string{".mp3", ".wav", ".ogg", ".webm"})
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), "failed to store audio upload", err)
		return
	}
	imageName, err := h.saveUpload(r, "image", []string{".png", ".jpg", ".jpeg", ".gif", ".webp"})
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), "failed to store image upload", err)
		return
	}

	in := service.ItemInput{
		QuestionText:  strings.TrimSpace(r.FormValue("question_text")),
		QuestionAudio: audioName,
		AnswerText:    strings.TrimSpace(r.FormValue("answer_text")),
		PairGroup:     strings.TrimSpace(r.FormValue("pair_group")),
		Word:          strings.TrimSpace(r.FormValue("word")),
		Pinyin:        strings.TrimSpace(r.FormValue("pinyin")),
		ImageName:     imageName,
		Sentence:      strings.TrimSpace(r.FormValue("sentence")),
		Answers:       strings.TrimSpace(r.FormValue("answers")),
		Words:         splitWords(r.FormValue("words")),
		Prompt:        strings.TrimSpace(r.FormValue("prompt")),
		OptionA:       strings.TrimSpace(r.FormValue("option_a")),
		OptionB:       strings.TrimSpace(r.FormValue("option_b")),
		OptionC:       strings.TrimSpace(r.FormValue("option_c")),
		OptionD:       strings.TrimSpace(r.FormValue("option_d")),
		Correct:       strings.TrimSpace(r.FormValue("correct")),
	}

	if err := h.adminService.AddItem(gameID, in); err != nil {
		if errors.Is(err, service.ErrGameNotFound) {
			http.Error(w, ErrNotFound, http.StatusNotFound)
			return
		}
		respondWithError(w, http.StatusBadRequest, err.Error(), "failed to add item", err)
		return
	}
	http.Redirect(w, r, gameItemsPath(gameID), http.StatusSeeOther)
}

// splitWords breaks a scramble sentence form field on whitespace.
func splitWords(raw string) []string {
	return strings.Fields(raw)
}

// DeleteItem removes one content item
func (h *AdminHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	kind, err := gametype.Resolve(r.PathValue("kind"))
	if err != nil {
		http.Error(w, ErrNotFound, http.StatusNotFound)
		return
	}
	itemID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, ErrNotFound, http.StatusNotFound)
		return
	}

	if err := h.adminService.DeleteItem(kind, itemID); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "failed to delete item", err)
		return
	}

	back := r.FormValue("game_id")
	if gameID, convErr := strconv.ParseInt(back, 10, 64); convErr == nil {
		http.Redirect(w, r, gameItemsPath(gameID), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/admin/lessons", http.StatusSeeOther)
}

// ListQuizQuestions shows a lesson's quiz questions filtered by kind
// (game, pre or post; defaults to game).
func (h *AdminHandler) ListQuizQuestions(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	lessonID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, ErrNotFound, http.StatusNotFound)
		return
	}

	kind := r.URL.Query().Get("kind")
	switch kind {
	case models.QuestionKindPre, models.QuestionKindPost:
	default:
		kind = models.QuestionKindGame
	}

	lesson, err := h.adminService.Lesson(lessonID)
	if err != nil {
		if errors.Is(err, service.ErrLessonNotFound) {
			http.Error(w, ErrNotFound, http.StatusNotFound)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "failed to load lesson", err)
		return
	}

	questions, err := h.adminService.QuizQuestions(lessonID, kind)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "failed to list questions", err)
		return
	}

	h.render(w, "admin_quiz.tmpl", struct {
		basePage
		Lesson    *models.Lesson
		Kind      string
		Questions []*models.QuizQuestion
	}{newPage("Questions: "+lesson.Title, user), lesson, kind, questions})
}

func (h *AdminHandler) questionInput(r *http.Request) (service.QuestionInput, error) {
	imageName, err := h.saveUpload(r, "image", []string{".png", ".jpg", ".jpeg", ".gif", ".webp"})
	if err != nil {
		return service.QuestionInput{}, err
	}
	return service.QuestionInput{
		Kind:      r.FormValue("kind"),
		Question:  strings.TrimSpace(r.FormValue("question")),
		OptionA:   strings.TrimSpace(r.FormValue("option_a")),
		OptionB:   strings.TrimSpace(r.FormValue("option_b")),
		OptionC:   strings.TrimSpace(r.FormValue("option_c")),
		OptionD:   strings.TrimSpace(r.FormValue("option_d")),
		Correct:   r.FormValue("correct"),
		ImagePath: imageName,
		Lang:      r.FormValue("lang"),
	}, nil
}

// AddQuizQuestion handles the new-question form, with an optional image
// upload
func (h *AdminHandler) AddQuizQuestion(w http.ResponseWriter, r *http.Request) {
	lessonID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, ErrNotFound, http.StatusNotFound)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return
	}

	in, err := h.questionInput(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), "failed to store image upload", err)
		return
	}

	if err := h.adminService.AddQuizQuestion(lessonID, in); err != nil {
		if errors.Is(err, service.ErrLessonNotFound) {
			http.Error(w, ErrNotFound, http.StatusNotFound)
			return
		}
		respondWithError(w, http.StatusBadRequest, err.Error(), "failed to add question", err)
		return
	}
	http.Redirect(w, r, quizQuestionsPath(lessonID)+"?kind="+in.Kind, http.StatusSeeOther)
}

// UpdateQuizQuestion handles the edit-question form; an empty image
// field keeps the stored image
func (h *AdminHandler) UpdateQuizQuestion(w http.ResponseWriter, r *http.Request) {
	questionID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, ErrNotFound, http.StatusNotFound)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return
	}

	in, err := h.questionInput(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), "failed to store image upload", err)
		return
	}

	if err := h.adminService.UpdateQuizQuestion(questionID, in); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), "failed to update question", err)
		return
	}

	back := r.FormValue("lesson_id")
	if lessonID, convErr := strconv.ParseInt(back, 10, 64); convErr == nil {
		http.Redirect(w, r, quizQuestionsPath(lessonID)+"?kind="+in.Kind, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/admin/lessons", http.StatusSeeOther)
}

// DeleteQuizQuestion removes a question
func (h *AdminHandler) DeleteQuizQuestion(w http.ResponseWriter, r *http.Request) {
	questionID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, ErrNotFound, http.StatusNotFound)
		return
	}

	lessonID, err := h.adminService.DeleteQuizQuestion(questionID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "failed to delete question", err)
		return
	}
	http.Redirect(w, r, quizQuestionsPath(lessonID), http.StatusSeeOther)
}
