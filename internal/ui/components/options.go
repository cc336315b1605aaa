package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/addmath/internal/mathtext"
	"github.com/abhisek/addmath/internal/ui/theme"
)

// OptionChosenMsg is sent when the user picks an option.
type OptionChosenMsg struct {
	Index int
}

// OptionList shows the answer choices of one question. Options are
// picked with 1-4, a-d, or by moving the cursor and pressing enter.
// Once revealed it colours the correct option green and a wrong pick
// red, and ignores further input.
type OptionList struct {
	Options  []string
	Cursor   int
	Revealed bool
	Correct  int
	Chosen   int
}

func NewOptionList(options []string) OptionList {
	return OptionList{Options: options, Chosen: -1}
}

// Reveal locks the list and records the outcome to colour.
func (o *OptionList) Reveal(correct, chosen int) {
	o.Revealed = true
	o.Correct = correct
	o.Chosen = chosen
}

func (o OptionList) Update(msg tea.Msg) (OptionList, tea.Cmd) {
	if o.Revealed {
		return o, nil
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return o, nil
	}

	key := strings.ToLower(kmsg.String())
	switch key {
	case "up", "k":
		if o.Cursor > 0 {
			o.Cursor--
		}
		return o, nil
	case "down", "j":
		if o.Cursor < len(o.Options)-1 {
			o.Cursor++
		}
		return o, nil
	case "enter":
		return o, choose(o.Cursor)
	}

	if len(key) == 1 {
		idx := -1
		switch c := key[0]; {
		case c >= '1' && c <= '9':
			idx = int(c - '1')
		case c >= 'a' && c <= 'z':
			idx = int(c - 'a')
		}
		if idx >= 0 && idx < len(o.Options) {
			o.Cursor = idx
			return o, choose(idx)
		}
	}
	return o, nil
}

func choose(i int) tea.Cmd {
	return func() tea.Msg { return OptionChosenMsg{Index: i} }
}

func (o OptionList) View() string {
	var b strings.Builder
	for i, opt := range o.Options {
		prefix := "   "
		if !o.Revealed && i == o.Cursor {
			prefix = " ▸ "
		}
		line := fmt.Sprintf("%s%c)  %s", prefix, 'A'+i, mathtext.Terminal(opt))

		style := theme.Unselected
		switch {
		case o.Revealed && i == o.Correct:
			style = theme.Correct
			line += "  ✓"
		case o.Revealed && i == o.Chosen:
			style = theme.Incorrect
			line += "  ✗"
		case o.Revealed:
			style = theme.Subtitle
		case i == o.Cursor:
			style = theme.Selected
		}
		b.WriteString(style.Render(line) + "\n")
	}
	return b.String()
}
