// Package settings asks how many questions to practice before a quiz.
package settings

import (
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/addmath/internal/quiz"
	"github.com/abhisek/addmath/internal/router"
	"github.com/abhisek/addmath/internal/screen"
	"github.com/abhisek/addmath/internal/screens"
	"github.com/abhisek/addmath/internal/screens/practice"
	"github.com/abhisek/addmath/internal/topics"
	"github.com/abhisek/addmath/internal/ui/components"
	"github.com/abhisek/addmath/internal/ui/layout"
	"github.com/abhisek/addmath/internal/ui/theme"
)

type SettingsScreen struct {
	deps  screens.Deps
	topic topics.Topic
	input components.TextInput
}

var _ screen.Screen = (*SettingsScreen)(nil)
var _ screen.KeyHintProvider = (*SettingsScreen)(nil)

func New(deps screens.Deps, topic topics.Topic) *SettingsScreen {
	s := &SettingsScreen{
		deps:  deps,
		topic: topic,
		input: components.NewTextInput("5", true, 3),
	}
	if n := quiz.ClampCount(deps.Count(), s.available()); n > 0 {
		s.input.SetValue(strconv.Itoa(n))
	}
	return s
}

func (s *SettingsScreen) available() int {
	return s.deps.Bank.Count(s.topic.ID)
}

// Count is the number of questions the quiz will use: the typed value
// (1 when blank or invalid) clamped to what the topic has.
func (s *SettingsScreen) Count() int {
	n, err := s.input.NumericValue()
	if err != nil {
		n = 1
	}
	return quiz.ClampCount(n, s.available())
}

// CanStart reports whether Start Practice is enabled.
func (s *SettingsScreen) CanStart() bool {
	return s.Count() >= 1
}

func (s *SettingsScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *SettingsScreen) Title() string {
	return s.topic.Name
}

func (s *SettingsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "0-9", Description: "Count"},
		{Key: "Enter", Description: "Start"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SettingsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && kmsg.String() == "enter" {
		if !s.CanStart() {
			return s, nil
		}
		return s, s.start()
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *SettingsScreen) start() tea.Cmd {
	n := s.Count()
	sess := quiz.New(s.topic.ID, s.deps.Bank.Questions(s.topic.ID), n, s.deps.Rand)
	s.deps.Logger().WithFields(logrus.Fields{
		"session_id": sess.ID,
		"topic":      s.topic.ID,
		"count":      n,
	}).Info("practice started")
	return router.Replace(practice.New(s.deps, sess))
}

func (s *SettingsScreen) View(width, height int) string {
	avail := s.available()

	var b strings.Builder
	b.WriteString("\n" + theme.Title.Render(s.topic.Name) + "\n")
	b.WriteString(theme.Subtitle.Render(s.topic.Description) + "\n\n")
	b.WriteString(theme.Card.Render(theme.Body.Render(fmt.Sprintf("%d questions available", avail))) + "\n\n")

	b.WriteString(theme.Body.Bold(true).Render("How many questions?"))
	if avail > 0 {
		b.WriteString(theme.Hint.Render(fmt.Sprintf("  (1-%d)", avail)))
	}
	b.WriteString("\n" + s.input.View() + "\n\n")

	start := components.NewButtonRow(components.Button{Label: "Start Practice", Disabled: !s.CanStart()})
	b.WriteString(start.View())
	if avail == 0 {
		b.WriteString("\n\n" + theme.Hint.Render("No questions yet for this topic."))
	}
	return b.String()
}
