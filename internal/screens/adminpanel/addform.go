package adminpanel

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/addmath/internal/admin"
	"github.com/abhisek/addmath/internal/bank"
	"github.com/abhisek/addmath/internal/importer"
	"github.com/abhisek/addmath/internal/mathtext"
	"github.com/abhisek/addmath/internal/screen"
	"github.com/abhisek/addmath/internal/screens"
	"github.com/abhisek/addmath/internal/topics"
	"github.com/abhisek/addmath/internal/ui/components"
	"github.com/abhisek/addmath/internal/ui/layout"
	"github.com/abhisek/addmath/internal/ui/theme"
)

type field int

const (
	fieldTopic field = iota
	fieldQuestion
	fieldA
	fieldB
	fieldC
	fieldD
	fieldCorrect
	fieldExplanation
	fieldDiagram
	numFields
)

var fieldLabels = [numFields]string{
	"Topic", "Question", "Option A", "Option B", "Option C", "Option D",
	"Correct (A-D)", "Explanation", "Diagram (URL or image path)",
}

type savedMsg struct {
	id  string
	err error
}

// AddFormScreen collects a new question field by field.
type AddFormScreen struct {
	deps   screens.Deps
	topics []topics.Topic
	topic  int
	inputs [numFields]components.TextInput
	focus  field
	status string
	errMsg string
}

var _ screen.Screen = (*AddFormScreen)(nil)
var _ screen.KeyHintProvider = (*AddFormScreen)(nil)

func NewAddForm(deps screens.Deps) *AddFormScreen {
	s := &AddFormScreen{deps: deps, topics: topics.All()}
	s.reset()
	return s
}

func (s *AddFormScreen) reset() {
	for f := fieldQuestion; f < numFields; f++ {
		limit := 0
		if f == fieldCorrect {
			limit = 1
		}
		s.inputs[f] = components.NewTextInput(fieldLabels[f], false, limit)
		s.inputs[f].Blur()
	}
	s.focus = fieldTopic
}

func (s *AddFormScreen) Init() tea.Cmd {
	return nil
}

func (s *AddFormScreen) Title() string {
	return "Add Question"
}

func (s *AddFormScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab/↑↓", Description: "Field"},
		{Key: "←→", Description: "Topic"},
		{Key: "Ctrl+S", Description: "Save"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *AddFormScreen) setFocus(f field) tea.Cmd {
	if s.focus != fieldTopic {
		s.inputs[s.focus].Blur()
	}
	s.focus = (f + numFields) % numFields
	if s.focus == fieldTopic {
		return nil
	}
	return s.inputs[s.focus].Focus()
}

func (s *AddFormScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case savedMsg:
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return s, nil
		}
		s.status = "Added question " + msg.id
		s.reset()
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+s":
			return s, s.save()
		case "tab", "down":
			return s, s.setFocus(s.focus + 1)
		case "shift+tab", "up":
			return s, s.setFocus(s.focus - 1)
		case "enter":
			if s.focus == numFields-1 {
				return s, s.save()
			}
			return s, s.setFocus(s.focus + 1)
		}
		if s.focus == fieldTopic {
			switch msg.String() {
			case "left", "h":
				s.topic = (s.topic + len(s.topics) - 1) % len(s.topics)
			case "right", "l":
				s.topic = (s.topic + 1) % len(s.topics)
			}
			return s, nil
		}
	}

	if s.focus == fieldTopic {
		return s, nil
	}
	var cmd tea.Cmd
	s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
	return s, cmd
}

// Question builds the question from the form. Diagram paths are read
// and embedded as data URIs.
func (s *AddFormScreen) Question() (string, bank.Question, error) {
	topicID := s.topics[s.topic].ID
	correct, err := bank.ParseOption(s.inputs[fieldCorrect].Value())
	if err != nil {
		return "", bank.Question{}, err
	}

	q := bank.Question{
		ID:          fmt.Sprintf("q_%s_%d", topicID, s.deps.Clock().UnixMilli()),
		Text:        s.inputs[fieldQuestion].Value(),
		Options:     [4]string{s.inputs[fieldA].Value(), s.inputs[fieldB].Value(), s.inputs[fieldC].Value(), s.inputs[fieldD].Value()},
		Correct:     correct,
		Explanation: s.inputs[fieldExplanation].Value(),
	}
	if d := s.inputs[fieldDiagram].Value(); d != "" {
		if q.Diagram, err = importer.Diagram(admin.CleanPath(d)); err != nil {
			return "", bank.Question{}, err
		}
	}
	if err := q.Validate(); err != nil {
		return "", bank.Question{}, err
	}
	return topicID, q, nil
}

func (s *AddFormScreen) save() tea.Cmd {
	s.status, s.errMsg = "", ""
	topicID, q, err := s.Question()
	if err != nil {
		s.errMsg = err.Error()
		return nil
	}
	b, log := s.deps.Bank, s.deps.Logger()
	return func() tea.Msg {
		err := b.Add(context.Background(), topicID, q)
		if err == nil {
			log.WithField("question_id", q.ID).Info("question added")
		}
		return savedMsg{id: q.ID, err: err}
	}
}

func (s *AddFormScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")

	for f := fieldTopic; f < numFields; f++ {
		label := fieldLabels[f]
		style := theme.Subtitle
		if f == s.focus {
			style = theme.Selected
		}
		b.WriteString(style.Render(fmt.Sprintf("%-28s", label)))
		if f == fieldTopic {
			t := s.topics[s.topic]
			b.WriteString(theme.Body.Render(fmt.Sprintf("◂ %s (%s) ▸", t.Name, topics.FormDisplayName(t.Form))))
		} else {
			b.WriteString(s.inputs[f].View())
		}
		b.WriteString("\n")
	}

	if s.focus == fieldQuestion || s.focus == fieldExplanation {
		if v := s.inputs[s.focus].Value(); mathtext.HasMath(v) {
			b.WriteString("\n" + theme.Hint.Render("Preview: ") + mathtext.Terminal(v) + "\n")
		}
	}

	switch {
	case s.errMsg != "":
		b.WriteString("\n" + theme.Incorrect.Render(s.errMsg))
	case s.status != "":
		b.WriteString("\n" + theme.Correct.Render(s.status))
	}
	return b.String()
}
