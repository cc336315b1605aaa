package generate

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/abhisek/addmath/internal/bank"
)

// Validator inspects a Draft before it becomes a question.
type Validator interface {
	Name() string
	Validate(d Draft, in Input) *ValidationError
}

// ValidationError explains why a Draft was rejected.
type ValidationError struct {
	Validator string
	Message   string
	Retryable bool
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

func runValidators(vs []Validator, d Draft, in Input) *ValidationError {
	for _, v := range vs {
		if err := v.Validate(d, in); err != nil {
			return err
		}
	}
	return nil
}

const (
	maxQuestionLen    = 600
	maxExplanationLen = 1500
)

// StructuralValidator checks field presence and size.
type StructuralValidator struct{}

func (StructuralValidator) Name() string { return "structural" }

func (v StructuralValidator) Validate(d Draft, _ Input) *ValidationError {
	reject := func(msg string) *ValidationError {
		return &ValidationError{Validator: v.Name(), Message: msg, Retryable: true}
	}
	switch {
	case strings.TrimSpace(d.QuestionText) == "":
		return reject("question_text is empty")
	case utf8.RuneCountInString(d.QuestionText) > maxQuestionLen:
		return reject(fmt.Sprintf("question_text exceeds %d characters", maxQuestionLen))
	case strings.TrimSpace(d.Explanation) == "":
		return reject("explanation is empty")
	case utf8.RuneCountInString(d.Explanation) > maxExplanationLen:
		return reject(fmt.Sprintf("explanation exceeds %d characters", maxExplanationLen))
	case len(d.Options) != bank.NumOptions:
		return reject(fmt.Sprintf("got %d options, want %d", len(d.Options), bank.NumOptions))
	case d.CorrectIndex < 0 || d.CorrectIndex >= bank.NumOptions:
		return reject(fmt.Sprintf("correct_index %d out of range", d.CorrectIndex))
	}
	for i, o := range d.Options {
		if strings.TrimSpace(o) == "" {
			return reject(fmt.Sprintf("option %c is empty", bank.OptionLetter(i)))
		}
	}
	return nil
}

// DistinctOptionsValidator rejects drafts with repeated options.
type DistinctOptionsValidator struct{}

func (DistinctOptionsValidator) Name() string { return "distinct-options" }

func (v DistinctOptionsValidator) Validate(d Draft, _ Input) *ValidationError {
	seen := make(map[string]int, len(d.Options))
	for i, o := range d.Options {
		key := normalize(o)
		if j, ok := seen[key]; ok {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("options %c and %c are the same", bank.OptionLetter(j), bank.OptionLetter(i)),
				Retryable: true,
			}
		}
		seen[key] = i
	}
	return nil
}

// MarkupValidator rejects text with unbalanced $ delimiters or braces,
// which the renderer would show as raw markup.
type MarkupValidator struct{}

func (MarkupValidator) Name() string { return "markup" }

func (v MarkupValidator) Validate(d Draft, _ Input) *ValidationError {
	fields := append([]string{d.QuestionText, d.Explanation}, d.Options...)
	for _, f := range fields {
		if msg := checkMarkup(f); msg != "" {
			return &ValidationError{Validator: v.Name(), Message: msg, Retryable: true}
		}
	}
	return nil
}

func checkMarkup(s string) string {
	if strings.Count(strings.ReplaceAll(s, "$$", ""), "$")%2 != 0 {
		return fmt.Sprintf("unbalanced $ in %q", s)
	}
	depth := 0
	for _, r := range s {
		switch r {
		case '{':
			depth++
		case '}':
			depth--
		}
		if depth < 0 {
			break
		}
	}
	if depth != 0 {
		return fmt.Sprintf("unbalanced braces in %q", s)
	}
	return ""
}

// DuplicateValidator rejects a question already in the prior list.
type DuplicateValidator struct{}

func (DuplicateValidator) Name() string { return "duplicate" }

func (v DuplicateValidator) Validate(d Draft, in Input) *ValidationError {
	text := normalize(d.QuestionText)
	for _, p := range in.Prior {
		if normalize(p) == text {
			return &ValidationError{Validator: v.Name(), Message: "question repeats an existing one", Retryable: true}
		}
	}
	return nil
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
