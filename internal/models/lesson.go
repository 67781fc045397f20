package models

// Lesson is a thematic unit grouping games and test questions, scoped by
// language ("en" or "zh").
type Lesson struct {
	ID          int64
	Title       string
	Description string
	Lang        string
}

// Game identifies a playable unit inside a lesson. GameType holds the
// canonical kind for rows created through the admin UI; older rows may
// still carry a free-text label and are resolved at play time.
type Game struct {
	ID                int64
	LessonID          int64
	Title             string
	Description       string
	GameType          string
	Lang              string
	TitlePinyin       string
	DescriptionPinyin string
}
