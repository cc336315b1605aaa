// Package results shows the score of a finished quiz.
package results

import (
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/addmath/internal/quiz"
	"github.com/abhisek/addmath/internal/router"
	"github.com/abhisek/addmath/internal/screen"
	"github.com/abhisek/addmath/internal/screens"
	"github.com/abhisek/addmath/internal/topics"
	"github.com/abhisek/addmath/internal/ui/components"
	"github.com/abhisek/addmath/internal/ui/layout"
	"github.com/abhisek/addmath/internal/ui/theme"
)

// ResultsScreen displays the quiz outcome. It replaces the practice
// screen, so popping it returns to the topic list.
type ResultsScreen struct {
	deps    screens.Deps
	results quiz.Results
	buttons components.ButtonRow
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)

// New creates a ResultsScreen. retry builds a fresh practice screen for
// the same topic and count.
func New(deps screens.Deps, res quiz.Results, retry func() screen.Screen) *ResultsScreen {
	return &ResultsScreen{
		deps:    deps,
		results: res,
		buttons: components.NewButtonRow(
			components.Button{
				Label:   "Retry",
				OnPress: func() tea.Cmd { return router.Replace(retry()) },
			},
			components.Button{
				Label:   "Choose Another Topic",
				OnPress: func() tea.Cmd { return router.Pop },
			},
		),
	}
}

func (s *ResultsScreen) Init() tea.Cmd {
	return nil
}

func (s *ResultsScreen) Title() string {
	return "Results"
}

func (s *ResultsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "←→", Description: "Choose"},
		{Key: "Enter", Description: "Select"},
		{Key: "Esc", Description: "Topics"},
	}
}

func (s *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.buttons, cmd = s.buttons.Update(msg)
	return s, cmd
}

func (s *ResultsScreen) View(width, height int) string {
	r := s.results
	center := lipgloss.NewStyle().Width(max(width-4, 20)).Align(lipgloss.Center)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(center.Render(theme.Title.Render("Quiz Complete!")) + "\n")
	b.WriteString(center.Render(theme.Subtitle.Render(topics.Name(r.TopicID))) + "\n\n")

	stats := lipgloss.JoinHorizontal(lipgloss.Top,
		stat("Score", fmt.Sprintf("%d%%", r.Percent), theme.Primary),
		stat("Correct", fmt.Sprintf("%d/%d", r.Correct, r.Total), theme.Success),
		stat("Time", r.Time(), theme.Secondary),
	)
	b.WriteString(center.Render(stats) + "\n\n")

	var marks []string
	for i, o := range r.Outcomes {
		mark := theme.Correct.Render("✓")
		if !o.Correct {
			mark = theme.Incorrect.Render("✗")
		}
		marks = append(marks, fmt.Sprintf("Q%d %s", i+1, mark))
	}
	if len(marks) > 0 {
		b.WriteString(center.Render(strings.Join(marks, "  ")) + "\n\n")
	}

	b.WriteString(center.Render(s.buttons.View()))
	return b.String()
}

func stat(label, value string, c color.Color) string {
	return theme.Card.Width(16).Align(lipgloss.Center).Render(
		theme.Subtitle.Render(label) + "\n" +
			lipgloss.NewStyle().Foreground(c).Bold(true).Render(value),
	)
}
