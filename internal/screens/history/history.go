// Package history lists finished practice sessions.
package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/addmath/internal/quiz"
	"github.com/abhisek/addmath/internal/screen"
	"github.com/abhisek/addmath/internal/screens"
	"github.com/abhisek/addmath/internal/store"
	"github.com/abhisek/addmath/internal/topics"
	"github.com/abhisek/addmath/internal/ui/layout"
	"github.com/abhisek/addmath/internal/ui/theme"
)

const maxSessions = 50

type historyLoadedMsg struct {
	Sessions []store.SessionSummaryRecord
	Err      error
}

type accuracyLoadedMsg struct {
	TopicID  string
	Accuracy float64
	Answers  int
}

// HistoryScreen shows past sessions, newest first. Enter expands a row
// with the all-time accuracy for its topic.
type HistoryScreen struct {
	events   store.EventRepo
	sessions []store.SessionSummaryRecord
	accuracy map[string]accuracyLoadedMsg
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

func New(deps screens.Deps) *HistoryScreen {
	return &HistoryScreen{
		events:   deps.Events,
		accuracy: make(map[string]accuracyLoadedMsg),
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	events := s.events
	return func() tea.Msg {
		if events == nil {
			return historyLoadedMsg{}
		}
		sessions, err := events.QuerySessionSummaries(context.Background(), store.QueryOpts{Limit: maxSessions})
		return historyLoadedMsg{Sessions: sessions, Err: err}
	}
}

func (s *HistoryScreen) loadAccuracy(topicID string) tea.Cmd {
	events := s.events
	return func() tea.Msg {
		acc, n, err := events.TopicAccuracy(context.Background(), topicID)
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		return accuracyLoadedMsg{TopicID: topicID, Accuracy: acc, Answers: n}
	}
}

func (s *HistoryScreen) Title() string {
	return "Practice History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else if !s.loaded {
			s.sessions = msg.Sessions
		}
		s.loaded = true
		return s, nil

	case accuracyLoadedMsg:
		s.accuracy[msg.TopicID] = msg
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.sessions)-1 {
				s.selected++
			}
		case "enter":
			if s.selected >= len(s.sessions) {
				return s, nil
			}
			s.expanded[s.selected] = !s.expanded[s.selected]
			topicID := s.sessions[s.selected].TopicID
			if _, ok := s.accuracy[topicID]; !ok && s.expanded[s.selected] {
				return s, s.loadAccuracy(topicID)
			}
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	switch {
	case s.errMsg != "":
		return "\n" + theme.Incorrect.Render("Error: "+s.errMsg)
	case !s.loaded:
		return "\n" + theme.Hint.Render("Loading history...")
	case len(s.sessions) == 0:
		return "\n" + theme.Hint.Render("No sessions yet. Start practicing!")
	}

	var b strings.Builder
	b.WriteString("\n")
	for i, sess := range s.sessions {
		var pct float64
		if sess.QuestionsServed > 0 {
			pct = float64(sess.CorrectAnswers) / float64(sess.QuestionsServed) * 100
		}

		prefix := "  "
		style := theme.Unselected
		if i == s.selected {
			prefix = "▸ "
			style = theme.Selected
		}
		line := fmt.Sprintf("%s%s  %-22s %d/%d  %3.0f%%  %s",
			prefix,
			sess.Timestamp.Local().Format("Jan 02, 2006 15:04"),
			topics.Name(sess.TopicID),
			sess.CorrectAnswers, sess.QuestionsServed, pct,
			quiz.FormatTime(sess.DurationSecs))
		b.WriteString(lipgloss.NewStyle().MaxWidth(width).Render(style.Render(line)) + "\n")

		if s.expanded[i] {
			detail := "    Loading accuracy..."
			if acc, ok := s.accuracy[sess.TopicID]; ok {
				detail = fmt.Sprintf("    %s: %.0f%% correct over %d answers",
					topics.Name(sess.TopicID), acc.Accuracy*100, acc.Answers)
			}
			b.WriteString(theme.Hint.Render(detail) + "\n")
		}
	}
	return b.String()
}
