package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"lingobridge/internal/gametype"
	"lingobridge/internal/models"
	"lingobridge/internal/security"
)

func TestDashboardPath(t *testing.T) {
	tests := []struct {
		role string
		want string
	}{
		{models.RoleAdmin, "/admin/lessons"},
		{models.RoleTeacher, "/teacher/ranking"},
		{models.RoleStudent, "/student/dashboard/en"},
		{"", "/student/dashboard/en"},
	}

	for _, tt := range tests {
		got := dashboardPath(&models.User{Role: tt.role})
		if got != tt.want {
			t.Errorf("dashboardPath(%q) = %q, want %q", tt.role, got, tt.want)
		}
	}
}

func TestPathLangDefaultsToEnglish(t *testing.T) {
	tests := []struct {
		lang string
		want string
	}{
		{"zh", "zh"},
		{"en", "en"},
		{"fr", "en"},
		{"", "en"},
	}

	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/student/dashboard/x", nil)
		r.SetPathValue("lang", tt.lang)
		if got := pathLang(r); got != tt.want {
			t.Errorf("pathLang(%q) = %q, want %q", tt.lang, got, tt.want)
		}
	}
}

func TestParseSubmission(t *testing.T) {
	form := url.Values{}
	form.Set("score", "7")
	form.Set("q12", "cat")
	form.Set("q30", "the|cat|sleeps")
	form.Set("q9", "")
	form.Set("other", "ignored")
	form.Set("qabc", "ignored")

	r := httptest.NewRequest(http.MethodPost, "/game/play/1", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if err := r.ParseForm(); err != nil {
		t.Fatal(err)
	}

	sub := parseSubmission(r)

	if sub.ClientScore != 7 {
		t.Errorf("ClientScore = %d, want 7", sub.ClientScore)
	}
	if sub.Answers[12] != "cat" {
		t.Errorf("Answers[12] = %q, want %q", sub.Answers[12], "cat")
	}
	if got := sub.Sequences[30]; len(got) != 3 || got[0] != "the" || got[2] != "sleeps" {
		t.Errorf("Sequences[30] = %v, want [the cat sleeps]", got)
	}
	if _, ok := sub.Answers[9]; !ok {
		t.Error("empty answer should still be recorded")
	}
	if len(sub.Sequences[9]) != 0 {
		t.Error("empty answer should not produce a sequence")
	}
}

func TestFormAnswersMissingFieldsAreEmpty(t *testing.T) {
	form := url.Values{}
	form.Set("q1", "A")

	r := httptest.NewRequest(http.MethodPost, "/quiz/take/1/en/pre", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if err := r.ParseForm(); err != nil {
		t.Fatal(err)
	}

	answers := formAnswers(r, []int64{1, 2})
	if answers[1] != "A" {
		t.Errorf("answers[1] = %q, want %q", answers[1], "A")
	}
	if answers[2] != "" {
		t.Errorf("answers[2] = %q, want empty", answers[2])
	}
}

func TestPlayTemplateCoversEveryKind(t *testing.T) {
	for _, kind := range gametype.All() {
		if playTemplate(kind) == "" {
			t.Errorf("no play template for kind %s", kind)
		}
		if resultTemplate(kind) == "" {
			t.Errorf("no result template for kind %s", kind)
		}
	}
}

func TestCSRFProtect(t *testing.T) {
	gen := security.NewCSRFGenerator("test-secret")
	m := &Middleware{csrf: gen}

	called := false
	protected := m.CSRFProtect(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	sessionID := "session-123"
	token, err := gen.GenerateToken(sessionID)
	if err != nil {
		t.Fatal(err)
	}

	// Valid token in the header passes.
	r := httptest.NewRequest(http.MethodPost, "/admin/lessons", nil)
	r.AddCookie(&http.Cookie{Name: security.SessionCookieName, Value: sessionID})
	r.Header.Set("X-CSRF-Token", token)
	protected(httptest.NewRecorder(), r)
	if !called {
		t.Fatal("valid token should pass")
	}

	// Wrong token is rejected.
	called = false
	r = httptest.NewRequest(http.MethodPost, "/admin/lessons", nil)
	r.AddCookie(&http.Cookie{Name: security.SessionCookieName, Value: sessionID})
	r.Header.Set("X-CSRF-Token", "forged")
	rec := httptest.NewRecorder()
	protected(rec, r)
	if called {
		t.Fatal("forged token should not pass")
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}

	// Missing session cookie is rejected.
	called = false
	r = httptest.NewRequest(http.MethodPost, "/admin/lessons", nil)
	r.Header.Set("X-CSRF-Token", token)
	protected(httptest.NewRecorder(), r)
	if called {
		t.Fatal("request without a session should not pass")
	}

	// GET requests skip the check.
	called = false
	r = httptest.NewRequest(http.MethodGet, "/admin/lessons", nil)
	protected(httptest.NewRecorder(), r)
	if !called {
		t.Fatal("GET should skip the CSRF check")
	}
}

func TestPathID(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/admin/lessons/3/games", nil)
	r.SetPathValue("id", "3")
	id, err := pathID(r, "id")
	if err != nil || id != 3 {
		t.Fatalf("pathID = %d, %v, want 3", id, err)
	}

	r.SetPathValue("id", "x")
	if _, err := pathID(r, "id"); err == nil {
		t.Fatal("non-numeric path value should fail")
	}
}
