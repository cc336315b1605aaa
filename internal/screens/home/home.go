// Package home is the root screen: form selection, refresh and admin entry.
package home

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/addmath/internal/router"
	"github.com/abhisek/addmath/internal/screen"
	"github.com/abhisek/addmath/internal/screens"
	"github.com/abhisek/addmath/internal/screens/auth"
	"github.com/abhisek/addmath/internal/screens/history"
	"github.com/abhisek/addmath/internal/screens/loading"
	"github.com/abhisek/addmath/internal/screens/topiclist"
	"github.com/abhisek/addmath/internal/topics"
	"github.com/abhisek/addmath/internal/ui/components"
	"github.com/abhisek/addmath/internal/ui/layout"
	"github.com/abhisek/addmath/internal/ui/theme"
)

type HomeScreen struct {
	deps  screens.Deps
	alert string
	menu  components.Menu
	forms []topics.Form
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates the home screen. alert, when set, is shown once above the
// menu (e.g. the feed fallback notice).
func New(deps screens.Deps, alert string) *HomeScreen {
	h := &HomeScreen{deps: deps, alert: alert, forms: topics.AllForms()}
	h.menu = components.NewMenu(h.items())
	return h
}

// Boot returns the loading screen that syncs the feed and then shows home.
func Boot(deps screens.Deps) screen.Screen {
	return loading.New(deps, func(alert string) screen.Screen {
		return New(deps, alert)
	})
}

func (h *HomeScreen) items() []components.MenuItem {
	d := h.deps
	var items []components.MenuItem
	for _, f := range h.forms {
		items = append(items, components.MenuItem{
			Label:  topics.FormDisplayName(f),
			Detail: fmt.Sprintf("%d topics · %d questions", len(topics.ByForm(f)), d.Bank.FormCount(f)),
			Action: func() tea.Cmd { return router.Push(topiclist.New(d, f)) },
		})
	}
	items = append(items,
		components.MenuItem{
			Label:    "Practice History",
			Action:   func() tea.Cmd { return router.Push(history.New(d)) },
			Disabled: d.Events == nil,
		},
		components.MenuItem{
			Label:  "Refresh Questions",
			Action: func() tea.Cmd { return router.Replace(Boot(d)) },
		},
		components.MenuItem{
			Label:  "Admin",
			Action: func() tea.Cmd { return router.Push(auth.New(d)) },
		},
		components.MenuItem{
			Label:  "Quit",
			Action: func() tea.Cmd { return tea.Quit },
		},
	)
	return items
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "r", Description: "Refresh"},
		{Key: "q", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "q":
			return h, tea.Quit
		case "r":
			return h, router.Replace(Boot(h.deps))
		}
	}

	h.menu.Items = h.items()
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	h.menu.Items = h.items()

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(theme.Title.Render("SPM Additional Mathematics") + "\n")
	b.WriteString(theme.Subtitle.Render("Practice questions with LaTeX support") + "\n")
	b.WriteString(theme.Hint.Render("Updated: "+h.updated()) + "\n")
	if h.alert != "" {
		b.WriteString("\n" + theme.Alert.Render("! "+h.alert) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(h.menu.View())

	if h.menu.Selected < len(h.forms) {
		f := h.forms[h.menu.Selected]
		var names []string
		for _, t := range topics.ByForm(f) {
			names = append(names, t.Name)
		}
		b.WriteString("\n" + theme.Card.Width(min(width-4, 72)).Render(
			theme.Body.Render(strings.Join(names, " · ")),
		))
	}

	return lipgloss.NewStyle().MaxWidth(width).Render(b.String())
}

func (h *HomeScreen) updated() string {
	t := h.deps.Bank.LastUpdated()
	if t.IsZero() {
		return "never"
	}
	return t.Local().Format("2 Jan 2006 15:04")
}
