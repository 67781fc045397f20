package handlers

import (
	"encoding/json"
	"errors"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"strings"

	"lingobridge/internal/config"
	"lingobridge/internal/gametype"
	"lingobridge/internal/service"
)

// PlayHandler serves the game play pages and the speech endpoints.
type PlayHandler struct {
	playService   *service.PlayService
	speechService *service.SpeechService
	uploadMaxSize int64
	templates     *template.Template
}

// NewPlayHandler creates a new play handler
func NewPlayHandler(playService *service.PlayService, speechService *service.SpeechService, cfg *config.Config, templates *template.Template) *PlayHandler {
	return &PlayHandler{
		playService:   playService,
		speechService: speechService,
		uploadMaxSize: cfg.UploadMaxSize,
		templates:     templates,
	}
}

func (h *PlayHandler) render(w http.ResponseWriter, name string, data interface{}) {
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("Error rendering %s: %v", name, err)
		http.Error(w, ErrInternalServerError, http.StatusInternalServerError)
	}
}

func respondJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// scoreRedirect is where an already-played game sends the student.
func scoreRedirect(lessonID int64) string {
	return "/student/score/lesson/" + strconv.FormatInt(lessonID, 10)
}

// playTemplate maps a game kind to its play page.
func playTemplate(kind gametype.Kind) string {
	switch kind {
	case gametype.Matching:
		return "play_matching.tmpl"
	case gametype.Drag:
		return "play_drag.tmpl"
	case gametype.Fill:
		return "play_fill.tmpl"
	case gametype.Scramble:
		return "play_scramble.tmpl"
	case gametype.Choice:
		return "play_choice.tmpl"
	case gametype.Quiz:
		return "play_quiz.tmpl"
	case gametype.Speech:
		return "play_speech.tmpl"
	}
	return ""
}

// resultTemplate maps a game kind to its result page.
func resultTemplate(kind gametype.Kind) string {
	switch kind {
	case gametype.Matching:
		return "matching_result.tmpl"
	case gametype.Quiz:
		return "quiz_answer.tmpl"
	default:
		return "game_result.tmpl"
	}
}

// Play renders the prompt page of a game
func (h *PlayHandler) Play(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	gameID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, ErrNotFound, http.StatusNotFound)
		return
	}

	view, err := h.playService.Prompt(user.ID, gameID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrGameNotFound):
			http.Error(w, ErrNotFound, http.StatusNotFound)
		case errors.Is(err, service.ErrAlreadyPlayed):
			game, _, lookupErr := h.playService.Lookup(gameID)
			if lookupErr != nil || game == nil {
				http.Error(w, ErrNotFound, http.StatusNotFound)
				return
			}
			setFlash(w, "You have already played this game. Ask your teacher to allow a retake.")
			http.Redirect(w, r, scoreRedirect(game.LessonID), http.StatusSeeOther)
		case errors.Is(err, gametype.ErrUnknownType):
			respondWithError(w, http.StatusUnprocessableEntity, "This game has an unrecognized type", "unresolvable game type", err)
		default:
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "failed to prepare game", err)
		}
		return
	}

	h.render(w, playTemplate(view.Kind), struct {
		basePage
		View *service.PlayView
	}{newLessonPage(view.Game.Title, user, view.Game.LessonID), view})
}

// parseSubmission collects the q{id} answer fields of a play form.
// Scramble answers arrive as "|"-joined token sequences.
func parseSubmission(r *http.Request) service.Submission {
	sub := service.Submission{
		Answers:   make(map[int64]string),
		Sequences: make(map[int64][]string),
	}

	if score, err := strconv.Atoi(r.FormValue("score")); err == nil {
		sub.ClientScore = score
	}

	for key, values := range r.PostForm {
		if !strings.HasPrefix(key, "q") || len(values) == 0 {
			continue
		}
		id, err := strconv.ParseInt(key[1:], 10, 64)
		if err != nil {
			continue
		}
		sub.Answers[id] = values[0]
		if values[0] != "" {
			sub.Sequences[id] = strings.Split(values[0], "|")
		}
	}
	return sub
}

// Submit grades a play form and renders the result page
func (h *PlayHandler) Submit(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	gameID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, ErrNotFound, http.StatusNotFound)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return
	}

	result, err := h.playService.Grade(user.ID, gameID, parseSubmission(r))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrGameNotFound):
			http.Error(w, ErrNotFound, http.StatusNotFound)
		case errors.Is(err, service.ErrAlreadyPlayed):
			game, _, lookupErr := h.playService.Lookup(gameID)
			if lookupErr != nil || game == nil {
				http.Error(w, ErrNotFound, http.StatusNotFound)
				return
			}
			setFlash(w, "You have already played this game. Ask your teacher to allow a retake.")
			http.Redirect(w, r, scoreRedirect(game.LessonID), http.StatusSeeOther)
		case errors.Is(err, service.ErrUnplayableKind):
			http.Error(w, "Speaking games are graded per utterance", http.StatusBadRequest)
		case errors.Is(err, gametype.ErrUnknownType):
			respondWithError(w, http.StatusUnprocessableEntity, "This game has an unrecognized type", "unresolvable game type", err)
		default:
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "failed to grade game", err)
		}
		return
	}

	h.render(w, resultTemplate(result.Kind), struct {
		basePage
		Result *service.PlayResult
	}{newLessonPage(result.Game.Title, user, result.Game.LessonID), result})
}

// SaveScore records a client-reported score. Used by matching and drag
// games that grade in the browser.
func (h *PlayHandler) SaveScore(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	gameID, err := pathID(r, "id")
	if err != nil {
		respondJSON(w, map[string]interface{}{"success": false, "message": "unknown game"})
		return
	}

	score, err := parseScore(r)
	if err != nil {
		respondJSON(w, map[string]interface{}{"success": false, "message": "missing score"})
		return
	}

	if err := h.playService.SaveClientScore(user.ID, gameID, score); err != nil {
		switch {
		case errors.Is(err, service.ErrAlreadyPlayed):
			respondJSON(w, map[string]interface{}{"success": false, "message": "already played"})
		case errors.Is(err, service.ErrUnplayableKind):
			respondJSON(w, map[string]interface{}{"success": false, "message": "this game grades on the server"})
		default:
			log.Printf("save score failed: %v", err)
			respondJSON(w, map[string]interface{}{"success": false, "message": "could not save the score"})
		}
		return
	}
	respondJSON(w, map[string]interface{}{"success": true})
}

// parseScore reads a score from a form field or a JSON body.
func parseScore(r *http.Request) (int, error) {
	if err := r.ParseForm(); err == nil {
		if raw := r.FormValue("score"); raw != "" {
			return strconv.Atoi(raw)
		}
	}
	var body struct {
		Score *int `json:"score"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return 0, err
	}
	if body.Score == nil {
		return 0, errors.New("missing score")
	}
	return *body.Score, nil
}

// SpeechUpload grades one uploaded utterance
func (h *PlayHandler) SpeechUpload(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.uploadMaxSize)
	if err := r.ParseMultipartForm(h.uploadMaxSize); err != nil {
		respondJSON(w, map[string]interface{}{"success": false, "message": "upload too large or malformed"})
		return
	}

	questionID, err := strconv.ParseInt(r.FormValue("question_id"), 10, 64)
	if err != nil {
		respondJSON(w, map[string]interface{}{"success": false, "message": "missing question"})
		return
	}

	audio, _, err := r.FormFile("audio")
	if err != nil {
		respondJSON(w, map[string]interface{}{"success": false, "message": "missing audio"})
		return
	}
	defer audio.Close()

	outcome := h.speechService.ScoreUtterance(r.Context(), user.ID, questionID, r.FormValue("lang"), audio)
	if !outcome.OK {
		respondJSON(w, map[string]interface{}{"success": false, "message": outcome.Message})
		return
	}

	respondJSON(w, map[string]interface{}{
		"success":    true,
		"transcript": outcome.Transcript,
		"similarity": outcome.Similarity,
		"correct":    outcome.Correct,
	})
}

// SpeechFinish closes a speaking session and stores its score
func (h *PlayHandler) SpeechFinish(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	gameID, err := pathID(r, "id")
	if err != nil {
		respondJSON(w, map[string]interface{}{"success": false, "message": "unknown game"})
		return
	}

	score, err := h.speechService.Finish(user.ID, gameID)
	if err != nil {
		log.Printf("speech finish failed: %v", err)
		respondJSON(w, map[string]interface{}{"success": false, "message": "could not save the session"})
		return
	}
	respondJSON(w, map[string]interface{}{"success": true, "score": score})
}

// SpeechResult shows the stored score of a speaking game
func (h *PlayHandler) SpeechResult(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	gameID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, ErrNotFound, http.StatusNotFound)
		return
	}

	game, _, err := h.playService.Lookup(gameID)
	if err != nil || game == nil {
		http.Error(w, ErrNotFound, http.StatusNotFound)
		return
	}

	result, err := h.speechService.Result(user.ID, gameID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "failed to load speech result", err)
		return
	}

	h.render(w, "speech_result.tmpl", struct {
		basePage
		Game   interface{}
		Result *service.SessionResult
	}{newLessonPage(game.Title, user, game.LessonID), game, result})
}
