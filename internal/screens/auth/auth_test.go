package auth

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/addmath/internal/bank"
	"github.com/abhisek/addmath/internal/router"
	"github.com/abhisek/addmath/internal/screens"
	"github.com/abhisek/addmath/internal/screens/adminpanel"
)

func TestShortCodeRejected(t *testing.T) {
	s := New(screens.Deps{Bank: bank.New(nil)})
	s.input.SetValue("abcd")

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Contains(t, s.View(80, 24), "access denied")
	assert.Empty(t, s.input.Value())
}

func TestLongCodeOpensPanel(t *testing.T) {
	s := New(screens.Deps{Bank: bank.New(nil)})
	s.input.SetValue("anything")

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	msg, ok := cmd().(router.ReplaceScreenMsg)
	require.True(t, ok)
	assert.IsType(t, &adminpanel.AdminScreen{}, msg.Screen)
}
