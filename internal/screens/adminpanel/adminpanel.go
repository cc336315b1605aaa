// Package adminpanel is the question management area: import, export,
// restore, add and delete.
package adminpanel

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/addmath/internal/admin"
	"github.com/abhisek/addmath/internal/logging"
	"github.com/abhisek/addmath/internal/router"
	"github.com/abhisek/addmath/internal/screen"
	"github.com/abhisek/addmath/internal/screens"
	"github.com/abhisek/addmath/internal/ui/components"
	"github.com/abhisek/addmath/internal/ui/layout"
	"github.com/abhisek/addmath/internal/ui/theme"
)

// opDoneMsg reports the outcome of an admin operation.
type opDoneMsg struct {
	status string
	err    error
}

// pathPrompt is an operation waiting for a file path.
type pathPrompt struct {
	label string
	run   func(ctx context.Context, path string) (string, error)
}

type AdminScreen struct {
	deps   screens.Deps
	menu   components.Menu
	prompt *pathPrompt
	input  components.TextInput
	busy   bool
	status string
	errMsg string
}

var _ screen.Screen = (*AdminScreen)(nil)
var _ screen.KeyHintProvider = (*AdminScreen)(nil)
var _ screen.BackHandler = (*AdminScreen)(nil)

func New(deps screens.Deps) *AdminScreen {
	s := &AdminScreen{deps: deps}
	s.menu = components.NewMenu(s.items())
	return s
}

func (s *AdminScreen) items() []components.MenuItem {
	d := s.deps
	dir := d.ExportDir
	if dir == "" {
		dir = "."
	}
	return []components.MenuItem{
		{Label: "Add Question", Action: func() tea.Cmd { return router.Push(NewAddForm(d)) }},
		{Label: "Manage Questions", Detail: "browse and delete", Action: func() tea.Cmd { return router.Push(NewQuestionList(d)) }},
		{Label: "Import File", Detail: ".csv or .xlsx, appended", Action: s.ask("Question file to import", func(ctx context.Context, path string) (string, error) {
			return admin.ImportFile(ctx, d.Bank, path, false, d.Clock())
		})},
		{Label: "Replace From File", Detail: "replaces every question", Action: s.ask("Question file to load", func(ctx context.Context, path string) (string, error) {
			return admin.ImportFile(ctx, d.Bank, path, true, d.Clock())
		})},
		{Label: "Download CSV Template", Action: s.run(func(context.Context) (string, error) {
			return admin.ExportTemplate(dir)
		})},
		{Label: "Export All Questions", Detail: "CSV", Action: s.run(func(context.Context) (string, error) {
			return admin.ExportCSV(dir, d.Bank.All(), d.Clock())
		})},
		{Label: "Export Backup", Detail: "JSON", Action: s.run(func(context.Context) (string, error) {
			return admin.ExportBackup(dir, d.Bank.All(), d.Clock())
		})},
		{Label: "Restore Backup", Action: s.ask("Backup file to restore", func(ctx context.Context, path string) (string, error) {
			return admin.RestoreBackup(ctx, d.Bank, path)
		})},
	}
}

// ask returns a menu action that opens the path prompt for run.
func (s *AdminScreen) ask(label string, run func(context.Context, string) (string, error)) func() tea.Cmd {
	return func() tea.Cmd {
		s.prompt = &pathPrompt{label: label, run: run}
		s.input = components.NewTextInput("path/to/file", false, 0)
		s.status, s.errMsg = "", ""
		return s.input.Init()
	}
}

// run returns a menu action that executes fn off the UI loop.
func (s *AdminScreen) run(fn func(context.Context) (string, error)) func() tea.Cmd {
	return func() tea.Cmd {
		s.busy = true
		s.status, s.errMsg = "", ""
		log := s.deps.Logger()
		return func() tea.Msg {
			ctx := logging.NewContext(context.Background(), log)
			status, err := fn(ctx)
			if err != nil {
				log.WithError(err).Warn("admin operation failed")
			} else {
				log.WithField("status", status).Info("admin operation done")
			}
			return opDoneMsg{status: status, err: err}
		}
	}
}

func (s *AdminScreen) Init() tea.Cmd {
	return nil
}

func (s *AdminScreen) Title() string {
	return "Admin"
}

func (s *AdminScreen) KeyHints() []layout.KeyHint {
	if s.prompt != nil {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Confirm"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Esc", Description: "Back"},
	}
}

// HandleBack closes an open prompt instead of leaving the panel.
func (s *AdminScreen) HandleBack() (bool, tea.Cmd) {
	if s.prompt == nil {
		return false, nil
	}
	s.prompt = nil
	return true, nil
}

func (s *AdminScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if done, ok := msg.(opDoneMsg); ok {
		s.busy = false
		if done.err != nil {
			s.errMsg = done.err.Error()
		} else {
			s.status = done.status
		}
		return s, nil
	}
	if s.busy {
		return s, nil
	}

	if s.prompt != nil {
		if kmsg, ok := msg.(tea.KeyMsg); ok && kmsg.String() == "enter" {
			path := admin.CleanPath(s.input.Value())
			if path == "" {
				return s, nil
			}
			p := s.prompt
			s.prompt = nil
			return s, s.run(func(ctx context.Context) (string, error) {
				return p.run(ctx, path)
			})()
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}

	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *AdminScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n" + theme.Title.Render("Question Management") + "\n")
	b.WriteString(theme.Subtitle.Render(pluralQuestions(s.deps.Bank.Total())+" in the bank") + "\n\n")

	if s.prompt != nil {
		b.WriteString(theme.Body.Bold(true).Render(s.prompt.label) + "\n")
		b.WriteString(s.input.View() + "\n")
	} else {
		b.WriteString(s.menu.View())
	}

	switch {
	case s.busy:
		b.WriteString("\n" + theme.Hint.Render("Working..."))
	case s.errMsg != "":
		b.WriteString("\n" + theme.Incorrect.Render(s.errMsg))
	case s.status != "":
		b.WriteString("\n" + theme.Correct.Render(s.status))
	}
	return b.String()
}

func pluralQuestions(n int) string {
	if n == 1 {
		return "1 question"
	}
	return fmt.Sprintf("%d questions", n)
}
