package grading

import (
	"testing"

	"lingobridge/internal/models"
)

func TestCheckFill(t *testing.T) {
	tests := []struct {
		name       string
		accepted   string
		submission string
		want       bool
	}{
		{name: "exact match", accepted: "cat;kitty", submission: "cat", want: true},
		{name: "case insensitive", accepted: "cat;kitty", submission: "Cat", want: true},
		{name: "second accepted answer", accepted: "cat;kitty", submission: "kitty", want: true},
		{name: "surrounding whitespace", accepted: "cat; kitty ", submission: "  kitty ", want: true},
		{name: "wrong word", accepted: "cat;kitty", submission: "dog", want: false},
		{name: "empty submission", accepted: "cat;kitty", submission: "", want: false},
		{name: "single accepted answer", accepted: "apple", submission: "APPLE", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckFill(tt.accepted, tt.submission); got != tt.want {
				t.Errorf("CheckFill(%q, %q) = %v, want %v", tt.accepted, tt.submission, got, tt.want)
			}
		})
	}
}

func TestCheckScramble(t *testing.T) {
	correct := []string{"I", "am", "happy"}

	tests := []struct {
		name      string
		submitted []string
		want      bool
	}{
		{name: "exact order", submitted: []string{"I", "am", "happy"}, want: true},
		{name: "wrong order", submitted: []string{"am", "I", "happy"}, want: false},
		{name: "missing token", submitted: []string{"I", "am"}, want: false},
		{name: "extra token", submitted: []string{"I", "am", "happy", "today"}, want: false},
		{name: "empty", submitted: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckScramble(correct, tt.submitted); got != tt.want {
				t.Errorf("CheckScramble(%v) = %v, want %v", tt.submitted, got, tt.want)
			}
		})
	}
}

func TestCheckChoice(t *testing.T) {
	if !CheckChoice("a dog", "A Dog") {
		t.Error("choice comparison should be case-insensitive")
	}
	if CheckChoice("a dog", "a cat") {
		t.Error("wrong option accepted")
	}
	if CheckChoice("a dog", "") {
		t.Error("empty submission accepted")
	}
}

func TestCheckLetter(t *testing.T) {
	if !CheckLetter("b", "B") {
		t.Error("letter comparison should uppercase both sides")
	}
	if !CheckLetter("A", " a ") {
		t.Error("letter comparison should trim the submission")
	}
	if CheckLetter("A", "C") {
		t.Error("wrong letter accepted")
	}
	if CheckLetter("A", "") {
		t.Error("empty submission accepted")
	}
}

func TestSpeechCorrectBoundary(t *testing.T) {
	if !SpeechCorrect(0.70) {
		t.Error("similarity exactly 0.70 must be correct (boundary inclusive)")
	}
	if SpeechCorrect(0.699) {
		t.Error("similarity 0.699 must be incorrect")
	}
	if !SpeechCorrect(1.0) {
		t.Error("similarity 1.0 must be correct")
	}
}

func TestGradeFill(t *testing.T) {
	items := []*models.FillItem{
		{ID: 1, Sentence: "The ___ sat on the mat.", Answers: "cat;kitty"},
		{ID: 2, Sentence: "I ___ an apple.", Answers: "eat"},
	}
	answers := map[int64]string{1: "Kitty", 2: "drink"}

	score, results := GradeFill(items, answers)
	if score != 1 {
		t.Errorf("score = %d, want 1", score)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if !results[0].IsCorrect || results[1].IsCorrect {
		t.Errorf("unexpected correctness flags: %+v", results)
	}
	if results[0].CorrectAnswer != "cat" {
		t.Errorf("displayed correct answer = %q, want first accepted entry", results[0].CorrectAnswer)
	}
}

func TestGradeFillMissingAnswerIsIncorrect(t *testing.T) {
	items := []*models.FillItem{{ID: 7, Sentence: "___", Answers: "yes"}}

	score, results := GradeFill(items, map[int64]string{})
	if score != 0 {
		t.Errorf("score = %d, want 0", score)
	}
	if results[0].IsCorrect {
		t.Error("missing answer must grade as incorrect, not error")
	}
}

func TestGradeScramble(t *testing.T) {
	items := []*models.ScrambleItem{
		{ID: 1, Words: []string{"I", "am", "happy"}},
		{ID: 2, Words: []string{"She", "likes", "tea"}},
	}
	answers := map[int64][]string{
		1: {"I", "am", "happy"},
		2: {"likes", "She", "tea"},
	}

	score, results := GradeScramble(items, answers)
	if score != 1 {
		t.Errorf("score = %d, want 1", score)
	}
	if results[1].UserAnswer != "likes She tea" {
		t.Errorf("user answer rendering = %q", results[1].UserAnswer)
	}
}

func TestGradeQuiz(t *testing.T) {
	questions := []*models.QuizQuestion{
		{ID: 1, Question: "Q1", Correct: "A", OptionA: "right", OptionB: "wrong"},
		{ID: 2, Question: "Q2", Correct: "C"},
		{ID: 3, Question: "Q3", Correct: "B"},
		{ID: 4, Question: "Q4", Correct: "D"},
	}
	answers := map[int64]string{1: "a", 2: "C", 3: "B", 4: "A"}

	score, results := GradeQuiz(questions, answers)
	if score != 3 {
		t.Errorf("score = %d, want 3", score)
	}
	if len(results) != 4 {
		t.Fatalf("got %d results, want 4", len(results))
	}
	wantCorrect := []bool{true, true, true, false}
	for i, r := range results {
		if r.IsCorrect != wantCorrect[i] {
			t.Errorf("result %d: IsCorrect = %v, want %v", i, r.IsCorrect, wantCorrect[i])
		}
	}
	if results[0].OptionA != "right" {
		t.Errorf("options must be carried into the result payload")
	}
}

// Identical (item, submission) pairs must always grade the same.
func TestGradingDeterministic(t *testing.T) {
	items := []*models.ChoiceItem{{ID: 1, Prompt: "p", Correct: "x", OptionA: "x", OptionB: "y"}}
	answers := map[int64]string{1: "X"}

	first, _ := GradeChoice(items, answers)
	for i := 0; i < 10; i++ {
		again, _ := GradeChoice(items, answers)
		if again != first {
			t.Fatalf("grading not deterministic: %d vs %d", again, first)
		}
	}
}
