// Package loading shows a spinner while the question feed is fetched and
// hands over to the next screen when the sync finishes.
package loading

import (
	"context"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/addmath/internal/feed"
	"github.com/abhisek/addmath/internal/router"
	"github.com/abhisek/addmath/internal/screen"
	"github.com/abhisek/addmath/internal/screens"
	"github.com/abhisek/addmath/internal/ui/layout"
	"github.com/abhisek/addmath/internal/ui/theme"
)

// Next builds the screen shown after loading. alert is empty unless the
// feed failed.
type Next func(alert string) screen.Screen

type syncDoneMsg struct {
	result *feed.Result
	err    error
}

type LoadingScreen struct {
	deps    screens.Deps
	next    Next
	spinner spinner.Model
}

var _ screen.Screen = (*LoadingScreen)(nil)
var _ screen.KeyHintProvider = (*LoadingScreen)(nil)

func New(deps screens.Deps, next Next) *LoadingScreen {
	return &LoadingScreen{
		deps:    deps,
		next:    next,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (s *LoadingScreen) Init() tea.Cmd {
	return tea.Batch(s.spinner.Tick, s.sync())
}

func (s *LoadingScreen) sync() tea.Cmd {
	deps := s.deps
	return func() tea.Msg {
		res, err := deps.Syncer.Sync(context.Background())
		return syncDoneMsg{result: res, err: err}
	}
}

func (s *LoadingScreen) Title() string {
	return "Loading"
}

func (s *LoadingScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
}

func (s *LoadingScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case syncDoneMsg:
		return s, router.Replace(s.next(alertFor(msg, s.deps)))
	case spinner.TickMsg:
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd
	}
	return s, nil
}

func alertFor(msg syncDoneMsg, deps screens.Deps) string {
	if msg.err != nil {
		deps.Logger().WithError(msg.err).Error("question sync failed")
		return feed.FallbackMessage
	}
	return msg.result.Message()
}

func (s *LoadingScreen) View(width, height int) string {
	body := lipgloss.JoinVertical(lipgloss.Center,
		theme.Title.Render(s.spinner.View()+" Loading Questions..."),
		"",
		theme.Subtitle.Render("Fetching latest questions"),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}
