package generate

import "github.com/abhisek/addmath/internal/llm"

// QuestionSchema is the structured output the model must return.
var QuestionSchema = &llm.Schema{
	Name:        "spm-mcq",
	Description: "One SPM Additional Mathematics multiple-choice question",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question_text": map[string]any{
				"type":        "string",
				"description": "The question. Wrap math in $...$ or $$...$$ using basic LaTeX.",
			},
			"options": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"minItems":    4,
				"maxItems":    4,
				"description": "Exactly four answer options, A to D",
			},
			"correct_index": map[string]any{
				"type":        "integer",
				"minimum":     0,
				"maximum":     3,
				"description": "Zero-based index of the correct option",
			},
			"explanation": map[string]any{
				"type":        "string",
				"description": "Worked solution shown after answering",
			},
		},
		"required":             []any{"question_text", "options", "correct_index", "explanation"},
		"additionalProperties": false,
	},
}
