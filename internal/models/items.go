package models

// MatchingItem is one pair in a matching game. The prompt side is either
// text or an uploaded audio clip; PairGroup links prompt and answer cards.
type MatchingItem struct {
	ID            int64
	GameID        int64
	LessonID      int64
	QuestionText  string
	QuestionAudio string
	AnswerText    string
	PairGroup     string
}

// DragItem is one draggable word in a drag-drop game.
type DragItem struct {
	ID        int64
	GameID    int64
	Word      string
	Pinyin    string
	ImageName string
}

// FillItem is one fill-in-the-blank sentence. Answers holds the accepted
// words separated by ";".
type FillItem struct {
	ID       int64
	GameID   int64
	LessonID int64
	Sentence string
	Answers  string
}

// ScrambleItem is one sentence to reassemble. Words is the canonical
// token order.
type ScrambleItem struct {
	ID     int64
	GameID int64
	Words  []string
	Lang   string
}

// ChoiceItem is one multiple-choice question graded against the correct
// option text.
type ChoiceItem struct {
	ID      int64
	GameID  int64
	Prompt  string
	OptionA string
	OptionB string
	OptionC string
	OptionD string
	Correct string
}

// Options returns the four choices in form order.
func (c *ChoiceItem) Options() []string {
	return []string{c.OptionA, c.OptionB, c.OptionC, c.OptionD}
}

// Question kinds for QuizQuestion. "game" questions back the in-lesson
// quiz game; "pre" and "post" back the lesson tests.
const (
	QuestionKindGame = "game"
	QuestionKindPre  = "pre"
	QuestionKindPost = "post"
)

// QuizQuestion is a four-option question graded against a correct letter
// A-D. Quiz questions belong to a lesson (not a game) and are shared by
// every quiz game of that lesson and language.
type QuizQuestion struct {
	ID        int64
	LessonID  int64
	Kind      string
	Question  string
	OptionA   string
	OptionB   string
	OptionC   string
	OptionD   string
	Correct   string
	ImagePath string
	Lang      string
}

// SpeechQuestion is a prompt the student reads aloud, scored against
// Answer by embedding similarity.
type SpeechQuestion struct {
	ID       int64
	GameID   int64
	Prompt   string
	Answer   string
	Pinyin   string
	Lang     string
}
