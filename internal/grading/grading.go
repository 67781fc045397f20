// Package grading implements the per-kind answer checking rules and turns
// a set of stored items plus a student submission into an item-by-item
// result list and a session score (the count of correct items).
//
// A missing answer for an item is graded as incorrect, never as an error.
package grading

import (
	"strings"

	"lingobridge/internal/models"
)

// SpeechThreshold is the minimum embedding similarity for a spoken answer
// to count as correct. The boundary is inclusive.
const SpeechThreshold = 0.70

// ItemResult is the graded outcome for a single item, shaped for the
// answer-sheet templates.
type ItemResult struct {
	ItemID        int64
	Question      string
	UserAnswer    string
	CorrectAnswer string
	IsCorrect     bool

	// Populated for choice and quiz items only.
	OptionA string
	OptionB string
	OptionC string
	OptionD string
}

// SplitAccepted splits a ";"-separated accepted answer set into trimmed,
// lowercased entries. Empty entries are dropped.
func SplitAccepted(accepted string) []string {
	parts := strings.Split(accepted, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// CheckFill reports whether a submission matches one of the ";"-separated
// accepted answers, comparing trimmed and lowercased.
func CheckFill(accepted, submission string) bool {
	sub := strings.ToLower(strings.TrimSpace(submission))
	if sub == "" {
		return false
	}
	for _, want := range SplitAccepted(accepted) {
		if sub == want {
			return true
		}
	}
	return false
}

// CheckScramble reports whether the submitted token sequence equals the
// canonical sequence exactly, order-sensitive.
func CheckScramble(correct, submitted []string) bool {
	if len(submitted) != len(correct) {
		return false
	}
	for i := range correct {
		if submitted[i] != correct[i] {
			return false
		}
	}
	return true
}

// CheckChoice compares a submitted option text against the stored correct
// option, case-insensitive.
func CheckChoice(correct, submitted string) bool {
	sub := strings.TrimSpace(submitted)
	if sub == "" {
		return false
	}
	return strings.EqualFold(sub, strings.TrimSpace(correct))
}

// CheckLetter compares a submitted single-letter answer against the stored
// correct letter A-D, uppercased.
func CheckLetter(correct, submitted string) bool {
	sub := strings.ToUpper(strings.TrimSpace(submitted))
	if sub == "" {
		return false
	}
	return sub == strings.ToUpper(strings.TrimSpace(correct))
}

// SpeechCorrect classifies an embedding similarity as pass or fail.
func SpeechCorrect(similarity float64) bool {
	return similarity >= SpeechThreshold
}

// GradeFill grades fill-in-the-blank items. answers maps item id to the
// submitted text. The displayed correct answer is the first accepted entry.
func GradeFill(items []*models.FillItem, answers map[int64]string) (int, []ItemResult) {
	score := 0
	results := make([]ItemResult, 0, len(items))
	for _, it := range items {
		ans := strings.ToLower(strings.TrimSpace(answers[it.ID]))
		ok := CheckFill(it.Answers, ans)
		if ok {
			score++
		}
		display := ""
		if accepted := SplitAccepted(it.Answers); len(accepted) > 0 {
			display = accepted[0]
		}
		results = append(results, ItemResult{
			ItemID:        it.ID,
			Question:      it.Sentence,
			UserAnswer:    ans,
			CorrectAnswer: display,
			IsCorrect:     ok,
		})
	}
	return score, results
}

// GradeScramble grades sentence-scramble items. answers maps item id to the
// submitted token sequence.
func GradeScramble(items []*models.ScrambleItem, answers map[int64][]string) (int, []ItemResult) {
	score := 0
	results := make([]ItemResult, 0, len(items))
	for _, it := range items {
		sub := answers[it.ID]
		ok := CheckScramble(it.Words, sub)
		if ok {
			score++
		}
		results = append(results, ItemResult{
			ItemID:        it.ID,
			Question:      strings.Join(it.Words, " "),
			UserAnswer:    strings.Join(sub, " "),
			CorrectAnswer: strings.Join(it.Words, " "),
			IsCorrect:     ok,
		})
	}
	return score, results
}

// GradeChoice grades multiple-choice items against the correct option text.
func GradeChoice(items []*models.ChoiceItem, answers map[int64]string) (int, []ItemResult) {
	score := 0
	results := make([]ItemResult, 0, len(items))
	for _, it := range items {
		ans := strings.TrimSpace(answers[it.ID])
		ok := CheckChoice(it.Correct, ans)
		if ok {
			score++
		}
		results = append(results, ItemResult{
			ItemID:        it.ID,
			Question:      it.Prompt,
			UserAnswer:    ans,
			CorrectAnswer: strings.TrimSpace(it.Correct),
			IsCorrect:     ok,
			OptionA:       it.OptionA,
			OptionB:       it.OptionB,
			OptionC:       it.OptionC,
			OptionD:       it.OptionD,
		})
	}
	return score, results
}

// GradeQuiz grades quiz questions against the correct letter A-D.
func GradeQuiz(questions []*models.QuizQuestion, answers map[int64]string) (int, []ItemResult) {
	score := 0
	results := make([]ItemResult, 0, len(questions))
	for _, q := range questions {
		ans := strings.ToUpper(strings.TrimSpace(answers[q.ID]))
		ok := CheckLetter(q.Correct, ans)
		if ok {
			score++
		}
		results = append(results, ItemResult{
			ItemID:        q.ID,
			Question:      q.Question,
			UserAnswer:    ans,
			CorrectAnswer: strings.ToUpper(strings.TrimSpace(q.Correct)),
			IsCorrect:     ok,
			OptionA:       q.OptionA,
			OptionB:       q.OptionB,
			OptionC:       q.OptionC,
			OptionD:       q.OptionD,
		})
	}
	return score, results
}
