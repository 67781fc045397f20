// Package themes maps lessons to the color palette used by their pages.
package themes

import "fmt"

// Theme is a page color palette.
type Theme struct {
	Background string
	Primary    string
	Panel      string
}

var defaultTheme = Theme{Background: "#f0f5ff", Primary: "#1d4ed8", Panel: "#ffffff"}

var lessonThemes = map[string]Theme{
	"lesson_1": {Background: "#e6f0ff", Primary: "#2563eb", Panel: "#ffffff"},
	"lesson_2": {Background: "#eef2ff", Primary: "#4f46e5", Panel: "#ffffff"},
	"lesson_3": {Background: "#eff6ff", Primary: "#0284c7", Panel: "#ffffff"},
	"lesson_4": {Background: "#e0f2fe", Primary: "#0ea5e9", Panel: "#ffffff"},
	"lesson_5": {Background: "#f0f9ff", Primary: "#0369a1", Panel: "#ffffff"},
	"lesson_6": {Background: "#e0f2fe", Primary: "#0284c7", Panel: "#ffffff"},
}

// ForLesson returns the theme for a lesson, falling back to the default
// palette for lessons without one.
func ForLesson(lessonID int64) Theme {
	if theme, ok := lessonThemes[fmt.Sprintf("lesson_%d", lessonID)]; ok {
		return theme
	}
	return defaultTheme
}
