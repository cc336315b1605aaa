package adminpanel

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/addmath/internal/bank"
	"github.com/abhisek/addmath/internal/mathtext"
	"github.com/abhisek/addmath/internal/screen"
	"github.com/abhisek/addmath/internal/screens"
	"github.com/abhisek/addmath/internal/topics"
	"github.com/abhisek/addmath/internal/ui/layout"
	"github.com/abhisek/addmath/internal/ui/theme"
)

type deletedMsg struct {
	id  string
	err error
}

// QuestionListScreen browses one topic at a time and deletes questions
// after a y/n confirmation.
type QuestionListScreen struct {
	deps       screens.Deps
	topics     []topics.Topic
	topic      int
	cursor     int
	confirming bool
	status     string
	errMsg     string
}

var _ screen.Screen = (*QuestionListScreen)(nil)
var _ screen.KeyHintProvider = (*QuestionListScreen)(nil)
var _ screen.BackHandler = (*QuestionListScreen)(nil)

func NewQuestionList(deps screens.Deps) *QuestionListScreen {
	return &QuestionListScreen{deps: deps, topics: topics.All()}
}

func (s *QuestionListScreen) questions() []bank.Question {
	return s.deps.Bank.Questions(s.topics[s.topic].ID)
}

func (s *QuestionListScreen) Init() tea.Cmd {
	return nil
}

func (s *QuestionListScreen) Title() string {
	return "Manage Questions"
}

func (s *QuestionListScreen) KeyHints() []layout.KeyHint {
	if s.confirming {
		return []layout.KeyHint{
			{Key: "y", Description: "Delete"},
			{Key: "n", Description: "Keep"},
		}
	}
	return []layout.KeyHint{
		{Key: "←→", Description: "Topic"},
		{Key: "↑↓", Description: "Question"},
		{Key: "d", Description: "Delete"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *QuestionListScreen) HandleBack() (bool, tea.Cmd) {
	if !s.confirming {
		return false, nil
	}
	s.confirming = false
	return true, nil
}

func (s *QuestionListScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case deletedMsg:
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return s, nil
		}
		s.status = "Deleted " + msg.id
		s.cursor = min(s.cursor, max(len(s.questions())-1, 0))
		return s, nil

	case tea.KeyMsg:
		if s.confirming {
			switch msg.String() {
			case "y", "Y":
				s.confirming = false
				return s, s.delete()
			case "n", "N":
				s.confirming = false
			}
			return s, nil
		}

		qs := s.questions()
		switch msg.String() {
		case "left", "h":
			s.topic = (s.topic + len(s.topics) - 1) % len(s.topics)
			s.cursor = 0
		case "right", "l":
			s.topic = (s.topic + 1) % len(s.topics)
			s.cursor = 0
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < len(qs)-1 {
				s.cursor++
			}
		case "d", "delete":
			if len(qs) > 0 {
				s.confirming = true
				s.status, s.errMsg = "", ""
			}
		}
	}
	return s, nil
}

func (s *QuestionListScreen) delete() tea.Cmd {
	qs := s.questions()
	if s.cursor >= len(qs) {
		return nil
	}
	id := qs[s.cursor].ID
	b, log := s.deps.Bank, s.deps.Logger()
	return func() tea.Msg {
		err := b.Delete(context.Background(), id)
		if err == nil {
			log.WithField("question_id", id).Info("question deleted")
		}
		return deletedMsg{id: id, err: err}
	}
}

func (s *QuestionListScreen) View(width, height int) string {
	t := s.topics[s.topic]
	qs := s.questions()

	var b strings.Builder
	b.WriteString("\n" + theme.Title.Render("◂ "+t.Name+" ▸"))
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("  %s · %d questions", topics.FormDisplayName(t.Form), len(qs))) + "\n\n")

	if len(qs) == 0 {
		b.WriteString(theme.Hint.Render("No questions in this topic."))
		return b.String()
	}

	// Keep the cursor visible in a window of rows.
	rows := max(height-14, 3)
	start := max(0, min(s.cursor-rows/2, len(qs)-rows))
	end := min(len(qs), start+rows)

	lineWidth := max(width-8, 20)
	for i := start; i < end; i++ {
		q := qs[i]
		prefix, style := "  ", theme.Unselected
		if i == s.cursor {
			prefix, style = "▸ ", theme.Selected
		}
		line := prefix + q.ID + "  " + mathtext.Terminal(q.Text)
		b.WriteString(lipgloss.NewStyle().MaxWidth(lineWidth).Render(style.Render(line)) + "\n")
	}

	q := qs[s.cursor]
	b.WriteString("\n")
	for i, o := range q.Options {
		line := fmt.Sprintf("  %c) %s", bank.OptionLetter(i), mathtext.Terminal(o))
		if i == q.Correct {
			b.WriteString(theme.Correct.Render(line) + "\n")
		} else {
			b.WriteString(theme.Body.Render(line) + "\n")
		}
	}

	switch {
	case s.confirming:
		b.WriteString("\n" + theme.Alert.Render(fmt.Sprintf("Delete %s? (y/n)", q.ID)))
	case s.errMsg != "":
		b.WriteString("\n" + theme.Incorrect.Render(s.errMsg))
	case s.status != "":
		b.WriteString("\n" + theme.Correct.Render(s.status))
	}
	return b.String()
}
