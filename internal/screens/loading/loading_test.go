package loading

import (
	"context"
	"errors"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/addmath/internal/feed"
	"github.com/abhisek/addmath/internal/router"
	"github.com/abhisek/addmath/internal/screen"
	"github.com/abhisek/addmath/internal/screens"
)

type fakeSyncer struct {
	res *feed.Result
	err error
}

func (f fakeSyncer) Sync(context.Context) (*feed.Result, error) {
	return f.res, f.err
}

type nextScreen struct{ alert string }

func (n *nextScreen) Init() tea.Cmd                           { return nil }
func (n *nextScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return n, nil }
func (n *nextScreen) View(int, int) string                    { return n.alert }
func (n *nextScreen) Title() string                           { return "next" }

func finish(t *testing.T, syncer fakeSyncer) *nextScreen {
	t.Helper()
	s := New(screens.Deps{Syncer: syncer}, func(alert string) screen.Screen {
		return &nextScreen{alert: alert}
	})

	msg := s.sync()()
	_, cmd := s.Update(msg)
	require.NotNil(t, cmd)

	replace, ok := cmd().(router.ReplaceScreenMsg)
	require.True(t, ok)
	return replace.Screen.(*nextScreen)
}

func TestSyncSuccessHasNoAlert(t *testing.T) {
	next := finish(t, fakeSyncer{res: &feed.Result{Imported: 3}})
	assert.Empty(t, next.alert)
}

func TestSyncFallbackAlerts(t *testing.T) {
	next := finish(t, fakeSyncer{res: &feed.Result{FromCache: true}})
	assert.Equal(t, feed.FallbackMessage, next.alert)
}

func TestSyncErrorAlerts(t *testing.T) {
	next := finish(t, fakeSyncer{err: errors.New("disk gone")})
	assert.Equal(t, feed.FallbackMessage, next.alert)
}

func TestView(t *testing.T) {
	s := New(screens.Deps{}, nil)
	view := s.View(80, 20)
	assert.Contains(t, view, "Loading Questions...")
	assert.Contains(t, view, "Fetching latest questions")
}
