package adminpanel

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/addmath/internal/bank"
	"github.com/abhisek/addmath/internal/screens"
)

var fixedNow = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

const csvFile = `topicId,question,optionA,optionB,optionC,optionD,correct,explanation
form4-functions,"If $f(x) = 2x$, find $f(3)$",6,5,3,2,0,Substitute x = 3
form5-vectors,"Magnitude of (3, 4)",5,7,1,12,0,"$\sqrt{9 + 16} = 5$"
`

func testDeps(t *testing.T) screens.Deps {
	t.Helper()
	return screens.Deps{
		Bank:      bank.New(nil),
		ExportDir: t.TempDir(),
		Now:       func() time.Time { return fixedNow },
	}
}

func addQuestion(t *testing.T, b *bank.Bank, topicID, id string) {
	t.Helper()
	require.NoError(t, b.Add(t.Context(), topicID, bank.Question{
		ID: id, Text: "What is $x^2$?", Options: [4]string{"a", "b", "c", "d"}, Correct: 2,
	}))
}

func TestPanelPromptRunsImport(t *testing.T) {
	d := testDeps(t)
	path := filepath.Join(t.TempDir(), "q.csv")
	require.NoError(t, os.WriteFile(path, []byte(csvFile), 0o644))

	s := New(d)
	s.menu.Selected = 2 // Import File
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, s.prompt)

	s.input.SetValue(path)
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Nil(t, s.prompt)
	assert.True(t, s.busy)

	s.Update(cmd())
	assert.False(t, s.busy)
	assert.Contains(t, s.View(100, 30), "Imported 2 questions")
	assert.Equal(t, 2, d.Bank.Total())
}

func TestPanelBackClosesPrompt(t *testing.T) {
	s := New(testDeps(t))
	handled, _ := s.HandleBack()
	assert.False(t, handled)

	s.menu.Selected = 7 // Restore Backup
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, s.prompt)

	handled, _ = s.HandleBack()
	assert.True(t, handled)
	assert.Nil(t, s.prompt)
}

func TestAddFormSaves(t *testing.T) {
	d := testDeps(t)
	s := NewAddForm(d)
	s.Update(tea.KeyPressMsg{Code: tea.KeyRight}) // Quadratic Equations

	values := map[field]string{
		fieldQuestion:    "Solve $x^2 = 4$",
		fieldA:           "2",
		fieldB:           "±2",
		fieldC:           "4",
		fieldD:           "-2",
		fieldCorrect:     "B",
		fieldExplanation: "Both roots count",
		fieldDiagram:     "https://example.com/graph.png",
	}
	for f, v := range values {
		s.inputs[f].SetValue(v)
	}

	_, cmd := s.Update(tea.KeyPressMsg{Code: 's', Mod: tea.ModCtrl})
	require.NotNil(t, cmd)
	s.Update(cmd())

	id := "q_form4-quadratic-equations_" + "1772357400000"
	q, topicID, err := d.Bank.Find(id)
	require.NoError(t, err)
	assert.Equal(t, "form4-quadratic-equations", topicID)
	assert.Equal(t, 1, q.Correct)
	assert.Equal(t, "https://example.com/graph.png", q.Diagram)
	assert.Contains(t, s.View(100, 30), "Added question")
	assert.Empty(t, s.inputs[fieldQuestion].Value(), "form resets")
}

func TestAddFormValidation(t *testing.T) {
	s := NewAddForm(testDeps(t))
	s.inputs[fieldQuestion].SetValue("Only a question")
	s.inputs[fieldCorrect].SetValue("A")

	_, cmd := s.Update(tea.KeyPressMsg{Code: 's', Mod: tea.ModCtrl})
	assert.Nil(t, cmd)
	assert.Contains(t, s.View(100, 30), "option A is empty")
}

func TestQuestionListDeletes(t *testing.T) {
	d := testDeps(t)
	addQuestion(t, d.Bank, "form4-functions", "f1")
	addQuestion(t, d.Bank, "form4-functions", "f2")

	s := NewQuestionList(d)
	assert.Contains(t, s.View(100, 30), "f1")

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: 'd', Text: "d"})
	assert.Contains(t, s.View(100, 30), "Delete f2? (y/n)")

	_, cmd := s.Update(tea.KeyPressMsg{Code: 'y', Text: "y"})
	require.NotNil(t, cmd)
	s.Update(cmd())

	assert.Equal(t, 1, d.Bank.Count("form4-functions"))
	_, _, err := d.Bank.Find("f2")
	assert.ErrorIs(t, err, bank.ErrNotFound)
	assert.Equal(t, 0, s.cursor)
}

func TestQuestionListCancelDelete(t *testing.T) {
	d := testDeps(t)
	addQuestion(t, d.Bank, "form4-functions", "f1")

	s := NewQuestionList(d)
	s.Update(tea.KeyPressMsg{Code: 'd', Text: "d"})
	_, cmd := s.Update(tea.KeyPressMsg{Code: 'n', Text: "n"})
	assert.Nil(t, cmd)
	assert.Equal(t, 1, d.Bank.Total())
}
