package bank

import (
	"errors"
	"fmt"
	"strings"
)

// NumOptions is the number of answer choices every question carries.
const NumOptions = 4

var (
	// ErrNotFound is returned when a question ID does not exist.
	ErrNotFound = errors.New("question not found")

	// ErrInvalidQuestion is returned when a question fails validation.
	ErrInvalidQuestion = errors.New("invalid question")

	// ErrUnknownTopic is returned for topic IDs outside the syllabus.
	ErrUnknownTopic = errors.New("unknown topic")
)

// Question is a single multiple-choice question.
type Question struct {
	ID          string             `json:"id"`
	Text        string             `json:"question"`
	Options     [NumOptions]string `json:"options"`
	Correct     int                `json:"correct"`
	Explanation string             `json:"explanation"`
	Diagram     string             `json:"diagram,omitempty"` // URL or data URI
}

// Validate checks that the question can be shown and scored.
func (q Question) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return fmt.Errorf("%w: empty question text", ErrInvalidQuestion)
	}
	if q.Correct < 0 || q.Correct >= NumOptions {
		return fmt.Errorf("%w: correct index %d out of range 0-%d", ErrInvalidQuestion, q.Correct, NumOptions-1)
	}
	for i, o := range q.Options {
		if strings.TrimSpace(o) == "" {
			return fmt.Errorf("%w: option %c is empty", ErrInvalidQuestion, OptionLetter(i))
		}
	}
	return nil
}

// CorrectOption returns the text of the correct answer.
func (q Question) CorrectOption() string {
	if q.Correct < 0 || q.Correct >= NumOptions {
		return ""
	}
	return q.Options[q.Correct]
}

// ParseOption reads an answer given as a letter A-D or a digit 1-4.
func ParseOption(v string) (int, error) {
	v = strings.ToUpper(strings.TrimSpace(v))
	if len(v) == 1 {
		switch c := v[0]; {
		case c >= 'A' && c < 'A'+NumOptions:
			return int(c - 'A'), nil
		case c >= '1' && c < '1'+NumOptions:
			return int(c - '1'), nil
		}
	}
	return 0, errors.New("correct answer must be A, B, C or D")
}

// OptionLetter maps an option index to its display letter (0 -> 'A').
func OptionLetter(i int) rune {
	return rune('A' + i)
}

// Set maps topic IDs to their ordered question lists.
type Set map[string][]Question

// Clone returns a deep copy of the set.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for topic, qs := range s {
		cp := make([]Question, len(qs))
		copy(cp, qs)
		out[topic] = cp
	}
	return out
}

// Total returns the number of questions across all topics.
func (s Set) Total() int {
	n := 0
	for _, qs := range s {
		n += len(qs)
	}
	return n
}
