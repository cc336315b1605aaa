package components

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/addmath/internal/ui/theme"
)

type Button struct {
	Label    string
	Disabled bool
	OnPress  func() tea.Cmd
}

// ButtonRow lays buttons out horizontally. left/right or tab move the
// focus, enter presses the focused button.
type ButtonRow struct {
	Buttons []Button
	Focused int
}

func NewButtonRow(buttons ...Button) ButtonRow {
	return ButtonRow{Buttons: buttons}
}

func (r ButtonRow) Update(msg tea.Msg) (ButtonRow, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(r.Buttons) == 0 {
		return r, nil
	}

	switch kmsg.String() {
	case "left", "h", "shift+tab":
		r.Focused = (r.Focused + len(r.Buttons) - 1) % len(r.Buttons)
	case "right", "l", "tab":
		r.Focused = (r.Focused + 1) % len(r.Buttons)
	case "enter":
		b := r.Buttons[r.Focused]
		if !b.Disabled && b.OnPress != nil {
			return r, b.OnPress()
		}
	}
	return r, nil
}

func (r ButtonRow) View() string {
	parts := make([]string, 0, len(r.Buttons)*2)
	for i, b := range r.Buttons {
		style := theme.ButtonInactive
		switch {
		case b.Disabled:
			style = theme.ButtonDisabled
		case i == r.Focused:
			style = theme.ButtonActive
		}
		if i > 0 {
			parts = append(parts, "  ")
		}
		parts = append(parts, style.Render(b.Label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}
