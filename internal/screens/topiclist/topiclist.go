// Package topiclist lists the topics of one form.
package topiclist

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/addmath/internal/router"
	"github.com/abhisek/addmath/internal/screen"
	"github.com/abhisek/addmath/internal/screens"
	"github.com/abhisek/addmath/internal/screens/settings"
	"github.com/abhisek/addmath/internal/topics"
	"github.com/abhisek/addmath/internal/ui/components"
	"github.com/abhisek/addmath/internal/ui/layout"
	"github.com/abhisek/addmath/internal/ui/theme"
)

type TopicListScreen struct {
	deps   screens.Deps
	form   topics.Form
	topics []topics.Topic
	menu   components.Menu
}

var _ screen.Screen = (*TopicListScreen)(nil)
var _ screen.KeyHintProvider = (*TopicListScreen)(nil)

func New(deps screens.Deps, form topics.Form) *TopicListScreen {
	s := &TopicListScreen{deps: deps, form: form, topics: topics.ByForm(form)}
	s.menu = components.NewMenu(s.items())
	return s
}

func (s *TopicListScreen) items() []components.MenuItem {
	d := s.deps
	items := make([]components.MenuItem, len(s.topics))
	for i, t := range s.topics {
		items[i] = components.MenuItem{
			Label:  t.Name,
			Detail: fmt.Sprintf("%d questions", d.Bank.Count(t.ID)),
			Action: func() tea.Cmd { return router.Push(settings.New(d, t)) },
		}
	}
	return items
}

func (s *TopicListScreen) Init() tea.Cmd {
	return nil
}

func (s *TopicListScreen) Title() string {
	return topics.FormDisplayName(s.form)
}

func (s *TopicListScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Choose"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *TopicListScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	s.menu.Items = s.items()
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *TopicListScreen) View(width, height int) string {
	s.menu.Items = s.items()

	var b strings.Builder
	b.WriteString("\n" + theme.Title.Render(topics.FormDisplayName(s.form)) + "\n\n")
	b.WriteString(s.menu.View())
	if s.menu.Selected < len(s.topics) {
		b.WriteString("\n" + theme.Hint.Render(s.topics[s.menu.Selected].Description))
	}
	return b.String()
}
