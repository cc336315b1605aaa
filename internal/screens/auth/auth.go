// Package auth prompts for the admin access code.
package auth

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/addmath/internal/admin"
	"github.com/abhisek/addmath/internal/router"
	"github.com/abhisek/addmath/internal/screen"
	"github.com/abhisek/addmath/internal/screens"
	"github.com/abhisek/addmath/internal/screens/adminpanel"
	"github.com/abhisek/addmath/internal/ui/components"
	"github.com/abhisek/addmath/internal/ui/layout"
	"github.com/abhisek/addmath/internal/ui/theme"
)

type AuthScreen struct {
	deps   screens.Deps
	input  components.TextInput
	errMsg string
}

var _ screen.Screen = (*AuthScreen)(nil)
var _ screen.KeyHintProvider = (*AuthScreen)(nil)

func New(deps screens.Deps) *AuthScreen {
	return &AuthScreen{
		deps:  deps,
		input: components.NewMaskedInput("Access code", 64),
	}
}

func (s *AuthScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *AuthScreen) Title() string {
	return "Admin Access"
}

func (s *AuthScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Unlock"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *AuthScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && kmsg.String() == "enter" {
		if err := admin.Check(s.input.Value()); err != nil {
			s.deps.Logger().WithError(err).Warn("admin access rejected")
			s.errMsg = err.Error()
			s.input.SetValue("")
			return s, nil
		}
		s.deps.Logger().Info("admin access granted")
		return s, router.Replace(adminpanel.New(s.deps))
	}

	s.errMsg = ""
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *AuthScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n" + theme.Title.Render("Admin Access") + "\n")
	b.WriteString(theme.Subtitle.Render("Enter the access code to manage questions.") + "\n\n")
	b.WriteString(s.input.View() + "\n")
	if s.errMsg != "" {
		b.WriteString("\n" + theme.Incorrect.Render(s.errMsg) + "\n")
	}
	return b.String()
}
