package handlers

import (
	"net/http"
	"net/url"
	"strconv"

	"lingobridge/internal/models"
	"lingobridge/internal/themes"
)

// basePage is the data every rendered page carries.
type basePage struct {
	Title string
	User  *models.User
	Theme themes.Theme
	Error string
	Flash string
}

func newPage(title string, user *models.User) basePage {
	return basePage{Title: title, User: user, Theme: themes.ForLesson(0)}
}

func newLessonPage(title string, user *models.User, lessonID int64) basePage {
	return basePage{Title: title, User: user, Theme: themes.ForLesson(lessonID)}
}

const flashCookieName = "flash"

// setFlash stores a one-shot message shown on the next rendered page.
func setFlash(w http.ResponseWriter, msg string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    url.QueryEscape(msg),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
	})
}

// takeFlash reads and clears the flash message, if any.
func takeFlash(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookieName, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	msg, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return ""
	}
	return msg
}

// pathID parses the {id}-style path value of a request.
func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(r.PathValue(name), 10, 64)
}

// dashboardPath is where a user lands after login, by role.
func dashboardPath(user *models.User) string {
	switch user.Role {
	case models.RoleAdmin:
		return "/admin/lessons"
	case models.RoleTeacher:
		return "/teacher/ranking"
	default:
		return "/student/dashboard/en"
	}
}

// formAnswers collects q{id} form fields into an answer map.
func formAnswers(r *http.Request, ids []int64) map[int64]string {
	answers := make(map[int64]string, len(ids))
	for _, id := range ids {
		answers[id] = r.FormValue("q" + strconv.FormatInt(id, 10))
	}
	return answers
}
