// Package generate drafts multiple-choice questions for a syllabus topic
// with a language model. Drafts are validated before they are returned;
// saving them is left to the caller.
package generate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/abhisek/addmath/internal/bank"
	"github.com/abhisek/addmath/internal/llm"
	"github.com/abhisek/addmath/internal/topics"
	"github.com/sirupsen/logrus"
)

// Purpose labels generation requests in the LLM event log.
const Purpose = "question-gen"

// Input is the context for one draft.
type Input struct {
	Topic topics.Topic

	// Prior holds question texts the model must not repeat.
	Prior []string
}

// Config tunes the generator.
type Config struct {
	Validators  []Validator
	MaxTokens   int
	Temperature float64

	// MaxPrior caps how many prior questions are quoted in the prompt.
	MaxPrior int

	// MaxAttempts bounds drafts per question when a validator rejects
	// output as retryable.
	MaxAttempts int
}

// DefaultConfig returns the standard validator chain.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			StructuralValidator{},
			DistinctOptionsValidator{},
			MarkupValidator{},
			DuplicateValidator{},
		},
		MaxTokens:   1024,
		Temperature: 0.7,
		MaxPrior:    10,
		MaxAttempts: 3,
	}
}

// Generator drafts questions with an llm.Provider.
type Generator struct {
	provider llm.Provider
	cfg      Config
	log      logrus.FieldLogger
	now      func() time.Time
}

// New returns a Generator. A nil logger discards output.
func New(p llm.Provider, cfg Config, log logrus.FieldLogger) *Generator {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &Generator{provider: p, cfg: cfg, log: log, now: time.Now}
}

// Draft is the model output before validation.
type Draft struct {
	QuestionText string   `json:"question_text"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
	Explanation  string   `json:"explanation"`
}

// Generate drafts one question. It returns a *ValidationError when the
// draft is rejected.
func (g *Generator) Generate(ctx context.Context, in Input) (bank.Question, error) {
	ctx = llm.WithPurpose(ctx, Purpose)

	resp, err := g.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: userMessage(in, g.cfg.MaxPrior)}},
		Schema:      QuestionSchema,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
	})
	if err != nil {
		return bank.Question{}, fmt.Errorf("generate question for %s: %w", in.Topic.ID, err)
	}

	var d Draft
	if err := json.Unmarshal(resp.Content, &d); err != nil {
		return bank.Question{}, fmt.Errorf("decode generated question: %w", err)
	}

	if verr := runValidators(g.cfg.Validators, d, in); verr != nil {
		return bank.Question{}, verr
	}

	q := bank.Question{
		Text:        d.QuestionText,
		Correct:     d.CorrectIndex,
		Explanation: d.Explanation,
	}
	copy(q.Options[:], d.Options)
	return q, nil
}

// Batch drafts up to n questions for a topic, re-drafting retryable
// rejections up to MaxAttempts times each. Accepted drafts feed the
// prior list so later drafts differ. It stops at the first
// non-retryable failure and returns what it has so far.
func (g *Generator) Batch(ctx context.Context, topic topics.Topic, prior []string, n int) ([]bank.Question, error) {
	seen := append([]string(nil), prior...)
	out := make([]bank.Question, 0, n)
	stamp := g.now().UnixMilli()

	for len(out) < n {
		var (
			q   bank.Question
			err error
		)
		for attempt := 1; attempt <= g.cfg.MaxAttempts; attempt++ {
			q, err = g.Generate(ctx, Input{Topic: topic, Prior: seen})
			var verr *ValidationError
			if err == nil || !errors.As(err, &verr) || !verr.Retryable {
				break
			}
			g.log.WithFields(logrus.Fields{
				"topic":     topic.ID,
				"attempt":   attempt,
				"validator": verr.Validator,
			}).Info(verr.Message)
		}
		if err != nil {
			return out, err
		}

		q.ID = fmt.Sprintf("q_%s_%d_g%d", topic.ID, stamp, len(out)+1)
		out = append(out, q)
		seen = append(seen, q.Text)
	}
	return out, nil
}
