package service

import (
	"testing"
)

func TestLetterGrade(t *testing.T) {
	tests := []struct {
		name     string
		score    int
		total    int
		expected string
	}{
		{"full marks", 10, 10, "A"},
		{"exactly 80 percent", 8, 10, "A"},
		{"exactly 60 percent", 6, 10, "B"},
		{"exactly 40 percent", 4, 10, "C"},
		{"below 40 percent", 3, 10, "D"},
		{"zero score", 0, 10, "D"},
		{"empty test", 0, 0, "D"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LetterGrade(tt.score, tt.total); got != tt.expected {
				t.Errorf("LetterGrade(%d, %d) = %v, want %v", tt.score, tt.total, got, tt.expected)
			}
		})
	}
}

func TestLangHint(t *testing.T) {
	tests := []struct {
		lang     string
		expected string
	}{
		{"zh", "zh"},
		{"zh-CN", "zh"},
		{"ZH", "zh"},
		{"en", "en"},
		{"en-US", "en"},
		{"", "en"},
		{"th", "en"},
	}

	for _, tt := range tests {
		if got := langHint(tt.lang); got != tt.expected {
			t.Errorf("langHint(%q) = %v, want %v", tt.lang, got, tt.expected)
		}
	}
}

func TestClampScore(t *testing.T) {
	tests := []struct {
		score    int
		total    int
		expected int
	}{
		{5, 10, 5},
		{-3, 10, 0},
		{15, 10, 10},
		{0, 0, 0},
	}

	for _, tt := range tests {
		if got := clampScore(tt.score, tt.total); got != tt.expected {
			t.Errorf("clampScore(%d, %d) = %v, want %v", tt.score, tt.total, got, tt.expected)
		}
	}
}

func TestValidTestType(t *testing.T) {
	for _, valid := range []string{"pre", "post"} {
		if !validTestType(valid) {
			t.Errorf("validTestType(%q) should be true", valid)
		}
	}
	for _, invalid := range []string{"", "mid", "PRE", "game"} {
		if validTestType(invalid) {
			t.Errorf("validTestType(%q) should be false", invalid)
		}
	}
}
