package generate

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/abhisek/addmath/internal/llm"
	"github.com/abhisek/addmath/internal/topics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quadratics(t *testing.T) topics.Topic {
	t.Helper()
	tp, err := topics.Get("form4-quadratic-equations")
	require.NoError(t, err)
	return tp
}

func reply(text string, options []string, correct int) llm.MockResponse {
	b, _ := json.Marshal(map[string]any{
		"question_text": text,
		"options":       options,
		"correct_index": correct,
		"explanation":   "Factorise $(x-2)(x+2)=0$.",
	})
	return llm.MockResponse{Content: b}
}

var fourOptions = []string{"$x=\\pm 2$", "$x=2$", "$x=4$", "$x=0$"}

func TestGenerate_Valid(t *testing.T) {
	mock := llm.NewMockProvider(reply("Solve $x^2-4=0$.", fourOptions, 0))
	g := New(mock, DefaultConfig(), nil)

	q, err := g.Generate(context.Background(), Input{Topic: quadratics(t), Prior: []string{"Solve $x^2=9$."}})
	require.NoError(t, err)
	assert.Equal(t, "Solve $x^2-4=0$.", q.Text)
	assert.Equal(t, "$x=\\pm 2$", q.CorrectOption())
	assert.NoError(t, q.Validate())

	require.Equal(t, 1, mock.CallCount())
	req := mock.Calls[0]
	assert.Equal(t, QuestionSchema, req.Schema)
	assert.Contains(t, req.Messages[0].Content, "Topic: Quadratic Equations")
	assert.Contains(t, req.Messages[0].Content, "Form: Form 4")
	assert.Contains(t, req.Messages[0].Content, "1. Solve $x^2=9$.")
	assert.Equal(t, []string{Purpose}, mock.Purpose)
}

func TestGenerate_SchemaRejectsThreeOptions(t *testing.T) {
	mock := llm.NewMockProvider(reply("Solve.", fourOptions[:3], 0))
	_, err := New(mock, DefaultConfig(), nil).Generate(context.Background(), Input{Topic: quadratics(t)})
	var inv *llm.ErrInvalidResponse
	assert.ErrorAs(t, err, &inv)
}

func TestGenerate_ValidatorFailures(t *testing.T) {
	cases := []struct {
		name      string
		reply     llm.MockResponse
		prior     []string
		validator string
	}{
		{"blank text", reply("   ", fourOptions, 0), nil, "structural"},
		{"blank option", reply("Solve.", []string{"a", " ", "c", "d"}, 0), nil, "structural"},
		{"repeated option", reply("Solve.", []string{"$2$", "$3$", "$ 2 $", "$2$"}, 0), nil, "distinct-options"},
		{"unbalanced dollar", reply("Solve $x^2=4.", fourOptions, 0), nil, "markup"},
		{"unbalanced brace", reply("Find $\\frac{1}{2$.", fourOptions, 0), nil, "markup"},
		{"repeat", reply("Solve  $x^2-4=0$.", fourOptions, 0), []string{"solve $x^2-4=0$."}, "duplicate"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := New(llm.NewMockProvider(tc.reply), DefaultConfig(), nil)
			_, err := g.Generate(context.Background(), Input{Topic: quadratics(t), Prior: tc.prior})
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.validator, verr.Validator)
			assert.True(t, verr.Retryable)
		})
	}
}

func TestBatch_RetriesRejectedDrafts(t *testing.T) {
	mock := llm.NewMockProvider(
		reply("Solve $x^2-4=0$.", fourOptions, 0),
		reply("Solve $x^2-4=0$.", fourOptions, 0), // duplicate of the first
		reply("Solve $x^2-9=0$.", []string{"$\\pm 3$", "$3$", "$9$", "$0$"}, 0),
	)
	g := New(mock, DefaultConfig(), nil)

	qs, err := g.Batch(context.Background(), quadratics(t), nil, 2)
	require.NoError(t, err)
	require.Len(t, qs, 2)
	assert.Equal(t, 3, mock.CallCount())
	assert.NotEqual(t, qs[0].ID, qs[1].ID)
	assert.True(t, strings.HasPrefix(qs[0].ID, "q_form4-quadratic-equations_"))
	assert.Contains(t, mock.Calls[2].Messages[0].Content, "1. Solve $x^2-4=0$.")
}

func TestBatch_StopsOnProviderError(t *testing.T) {
	mock := llm.NewMockProvider(
		reply("Solve $x^2-4=0$.", fourOptions, 0),
		llm.MockResponse{Err: errors.New("quota exhausted")},
	)
	qs, err := New(mock, DefaultConfig(), nil).Batch(context.Background(), quadratics(t), nil, 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exhausted")
	assert.Len(t, qs, 1)
}

func TestBatch_GivesUpAfterMaxAttempts(t *testing.T) {
	bad := reply("Solve.", []string{"1", "1", "2", "3"}, 0)
	mock := llm.NewMockProvider(bad, bad, bad, bad)
	cfg := DefaultConfig()
	cfg.MaxAttempts = 2

	qs, err := New(mock, cfg, nil).Batch(context.Background(), quadratics(t), nil, 1)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, qs)
	assert.Equal(t, 2, mock.CallCount())
}

func TestPriorList(t *testing.T) {
	assert.Equal(t, "None", priorList(nil, 5))
	assert.Equal(t, "1. c\n2. d", priorList([]string{"a", "b", "c", "d"}, 2))
}
