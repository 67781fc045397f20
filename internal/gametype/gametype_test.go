package gametype

import (
	"errors"
	"testing"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		label   string
		want    Kind
		wantErr bool
	}{
		{name: "canonical", label: "matching", want: Matching},
		{name: "uppercase", label: "MATCHING", want: Matching},
		{name: "surrounding spaces", label: "  scramble  ", want: Scramble},
		{name: "thai alias", label: "จับคู่", want: Matching},
		{name: "thai fill alias", label: "เติมคำ", want: Fill},
		{name: "multi word alias", label: "fill in the blank", want: Fill},
		{name: "drag with space", label: "Drag Drop", want: Drag},
		{name: "quiz exam alias", label: "exam", want: Quiz},
		{name: "quiz test alias", label: "test", want: Quiz},
		{name: "speaking maps to speech", label: "speaking game", want: Speech},
		{name: "choice underscore alias", label: "choice_match", want: Choice},
		{name: "unknown", label: "karaoke", wantErr: true},
		{name: "empty", label: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.label)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownType) {
					t.Fatalf("Resolve(%q) error = %v, want ErrUnknownType", tt.label, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(%q) unexpected error: %v", tt.label, err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %v, want %v", tt.label, got, tt.want)
			}
		})
	}
}

// Every stored game must map to exactly one kind, so no label may belong
// to two alias sets.
func TestAliasSetsDisjoint(t *testing.T) {
	seen := make(map[string]Kind)
	for _, k := range All() {
		for _, a := range Aliases(k) {
			if prev, ok := seen[a]; ok {
				t.Errorf("alias %q belongs to both %v and %v", a, prev, k)
			}
			seen[a] = k
		}
	}
}

// Aliases must already be in normalized form, otherwise they can never match.
func TestAliasesNormalized(t *testing.T) {
	for _, k := range All() {
		for _, a := range Aliases(k) {
			if a != Normalize(a) {
				t.Errorf("alias %q of %v is not normalized", a, k)
			}
		}
	}
}

func TestValid(t *testing.T) {
	for _, k := range All() {
		if !Valid(string(k)) {
			t.Errorf("Valid(%q) = false, want true", k)
		}
	}
	if Valid("MATCHING") {
		t.Error("Valid should only accept canonical lowercase values")
	}
	if Valid("bingo") {
		t.Error("Valid(\"bingo\") = true, want false")
	}
}
