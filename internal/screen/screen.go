package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/addmath/internal/ui/layout"
)

// Screen is one view of the app. The router owns a stack of them and
// only the top one receives messages.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the area between header and footer.
	View(width, height int) string

	// Title is shown in the header.
	Title() string
}

// KeyHintProvider lets a screen replace the default footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// BackHandler lets a screen intercept Esc, e.g. to close a dialog.
// Returning false lets the app pop the screen.
type BackHandler interface {
	HandleBack() (handled bool, cmd tea.Cmd)
}
