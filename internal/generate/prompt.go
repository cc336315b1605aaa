package generate

import (
	"fmt"
	"strings"

	"github.com/abhisek/addmath/internal/topics"
)

const systemPrompt = `You write practice questions for the Malaysian SPM Additional Mathematics exam (Form 4 and Form 5).

Rules:
- Write one multiple-choice question for the given topic at SPM paper 1 standard.
- Give exactly 4 options. Exactly one is correct; distractors come from common mistakes.
- Put all mathematics inside $...$ (inline) or $$...$$ (display) using basic LaTeX: ^, _, \frac{a}{b}, \sqrt{x}, Greek letters, \times, \div, \pm, \leq, \geq, \neq.
- Do not nest fractions or roots more than one level.
- The explanation is a short worked solution ending with the answer.
- Do not repeat or paraphrase any question in the "already asked" list.`

func userMessage(in Input, maxPrior int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\n", in.Topic.Name)
	fmt.Fprintf(&b, "Form: %s\n", strings.TrimSuffix(topics.FormDisplayName(in.Topic.Form), " Topics"))
	if in.Topic.Description != "" {
		fmt.Fprintf(&b, "Covers: %s\n", in.Topic.Description)
	}
	b.WriteString("\nAlready asked:\n")
	b.WriteString(priorList(in.Prior, maxPrior))
	return b.String()
}

// priorList numbers the most recent max entries, or "None".
func priorList(prior []string, max int) string {
	if len(prior) == 0 {
		return "None"
	}
	if max > 0 && len(prior) > max {
		prior = prior[len(prior)-max:]
	}
	lines := make([]string, len(prior))
	for i, p := range prior {
		lines[i] = fmt.Sprintf("%d. %s", i+1, p)
	}
	return strings.Join(lines, "\n")
}
