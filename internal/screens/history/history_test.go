package history

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/addmath/internal/screens"
	"github.com/abhisek/addmath/internal/store"
)

func openEvents(t *testing.T) store.EventRepo {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := store.Open("file:" + name + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s.EventRepo()
}

func TestEmptyHistory(t *testing.T) {
	s := New(screens.Deps{Events: openEvents(t)})
	s.Update(s.Init()())
	assert.Contains(t, s.View(100, 30), "No sessions yet")
}

func TestListsSessionsAndExpands(t *testing.T) {
	events := openEvents(t)
	ctx := t.Context()
	require.NoError(t, events.AppendSessionEvent(ctx, store.SessionEventData{
		SessionID: "s1", TopicID: "form5-vectors", Action: "end",
		QuestionsServed: 4, CorrectAnswers: 3, DurationSecs: 65,
	}))
	require.NoError(t, events.AppendAnswerEvent(ctx, store.AnswerEventData{
		SessionID: "s1", TopicID: "form5-vectors", QuestionID: "q1", Correct: true,
	}))

	s := New(screens.Deps{Events: events})
	s.Update(s.Init()())

	view := s.View(100, 30)
	assert.Contains(t, view, "Vectors")
	assert.Contains(t, view, "3/4")
	assert.Contains(t, view, "1:05")

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	s.Update(cmd())
	assert.Contains(t, s.View(100, 30), "100% correct over 1 answers")
}
