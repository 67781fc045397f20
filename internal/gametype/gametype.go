// Package gametype maps the free-text game type labels entered by
// administrators onto the seven canonical play modes. Labels arrive in
// English or Thai with inconsistent casing and spacing, so resolution
// normalizes first and then checks fixed alias sets.
package gametype

import (
	"errors"
	"fmt"
	"strings"
)

// Kind is a canonical game type.
type Kind string

const (
	Matching Kind = "matching"
	Drag     Kind = "drag"
	Fill     Kind = "fill"
	Scramble Kind = "scramble"
	Choice   Kind = "choice"
	Quiz     Kind = "quiz"
	Speech   Kind = "speech"
)

// ErrUnknownType is returned when a label matches no alias set.
var ErrUnknownType = errors.New("unknown game type")

// aliases maps each canonical kind to the labels that resolve to it.
// The sets must stay pairwise disjoint; TestAliasSetsDisjoint guards this.
var aliases = map[Kind][]string{
	Matching: {"matching", "match", "จับคู่"},
	Drag:     {"drag", "drag drop", "drag-drop", "ลากวาง"},
	Fill:     {"fill", "fill-in-the-blank", "fill in the blank", "เติมคำ"},
	Scramble: {"scramble", "sentence scramble", "เรียงคำ"},
	Choice:   {"choice", "choice_match", "ช้อยส์"},
	Quiz:     {"quiz", "quiz_game", "exam", "test", "แบบทดสอบ"},
	Speech:   {"speech", "speaking", "speaking game", "พูด", "พูดคุย"},
}

// kinds is the resolution order. Order is fixed so resolution stays
// deterministic even if an alias were ever duplicated by mistake.
var kinds = []Kind{Matching, Drag, Fill, Scramble, Choice, Quiz, Speech}

// Normalize trims and lowercases a raw label.
func Normalize(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

// Resolve maps a free-text label to its canonical Kind.
// Returns ErrUnknownType when the label matches no alias set.
func Resolve(label string) (Kind, error) {
	norm := Normalize(label)
	for _, k := range kinds {
		for _, a := range aliases[k] {
			if norm == a {
				return k, nil
			}
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownType, label)
}

// All returns the canonical kinds in resolution order.
func All() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

// Aliases returns the alias labels for a kind, including the canonical name.
func Aliases(k Kind) []string {
	out := make([]string, len(aliases[k]))
	copy(out, aliases[k])
	return out
}

// Valid reports whether s already is a canonical kind value.
func Valid(s string) bool {
	for _, k := range kinds {
		if s == string(k) {
			return true
		}
	}
	return false
}

func (k Kind) String() string { return string(k) }
