// Package practice runs a quiz: one question at a time, with a running
// timer and score, and the explanation shown after each answer.
package practice

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/addmath/internal/bank"
	"github.com/abhisek/addmath/internal/logging"
	"github.com/abhisek/addmath/internal/mathtext"
	"github.com/abhisek/addmath/internal/quiz"
	"github.com/abhisek/addmath/internal/router"
	"github.com/abhisek/addmath/internal/screen"
	"github.com/abhisek/addmath/internal/screens"
	"github.com/abhisek/addmath/internal/screens/results"
	"github.com/abhisek/addmath/internal/store"
	"github.com/abhisek/addmath/internal/topics"
	"github.com/abhisek/addmath/internal/ui/components"
	"github.com/abhisek/addmath/internal/ui/layout"
	"github.com/abhisek/addmath/internal/ui/theme"
)

// timerTickMsg carries the session it was scheduled for, so ticks from a
// replaced screen are dropped.
type timerTickMsg struct {
	sessionID string
}

type PracticeScreen struct {
	deps    screens.Deps
	sess    *quiz.Session
	options components.OptionList
	log     logrus.FieldLogger
}

var _ screen.Screen = (*PracticeScreen)(nil)
var _ screen.KeyHintProvider = (*PracticeScreen)(nil)

func New(deps screens.Deps, sess *quiz.Session) *PracticeScreen {
	s := &PracticeScreen{
		deps: deps,
		sess: sess,
		log: deps.Logger().WithFields(logrus.Fields{
			"session_id": sess.ID,
			"topic":      sess.TopicID,
		}),
	}
	s.resetOptions()
	return s
}

// Session exposes the running quiz.
func (s *PracticeScreen) Session() *quiz.Session {
	return s.sess
}

func (s *PracticeScreen) resetOptions() {
	if q := s.sess.Current(); q != nil {
		s.options = components.NewOptionList(q.Options[:])
	}
}

func (s *PracticeScreen) Init() tea.Cmd {
	id, topic, total := s.sess.ID, s.sess.TopicID, s.sess.Total()
	return tea.Batch(
		s.tick(),
		s.record(func(ctx context.Context, events store.EventRepo) error {
			return events.AppendSessionEvent(ctx, store.SessionEventData{
				SessionID:       id,
				TopicID:         topic,
				Action:          "start",
				QuestionsServed: total,
			})
		}),
	)
}

func (s *PracticeScreen) tick() tea.Cmd {
	id := s.sess.ID
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return timerTickMsg{sessionID: id}
	})
}

// record runs fn against the event store off the UI loop. Failures are
// logged and otherwise ignored.
func (s *PracticeScreen) record(fn func(context.Context, store.EventRepo) error) tea.Cmd {
	events, log := s.deps.Events, s.log
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		ctx := logging.NewContext(context.Background(), log)
		if err := fn(ctx, events); err != nil {
			log.WithError(err).Warn("record practice event")
		}
		return nil
	}
}

func (s *PracticeScreen) Title() string {
	return topics.Name(s.sess.TopicID)
}

func (s *PracticeScreen) KeyHints() []layout.KeyHint {
	if s.sess.Revealed() {
		label := "Next Question"
		if s.sess.IsLast() {
			label = "View Results"
		}
		return []layout.KeyHint{
			{Key: "Enter", Description: label},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "1-4/A-D", Description: "Answer"},
		{Key: "↑↓ Enter", Description: "Choose"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *PracticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case timerTickMsg:
		if msg.sessionID != s.sess.ID || !s.sess.Running {
			return s, nil
		}
		s.sess.Tick()
		return s, s.tick()

	case components.OptionChosenMsg:
		return s, s.answer(msg.Index)

	case tea.KeyMsg:
		if s.sess.Revealed() {
			switch msg.String() {
			case "enter", "n", "space":
				return s, s.next()
			}
			return s, nil
		}
	}

	var cmd tea.Cmd
	s.options, cmd = s.options.Update(msg)
	return s, cmd
}

func (s *PracticeScreen) answer(choice int) tea.Cmd {
	q := s.sess.Current()
	if q == nil || !s.sess.Answer(choice) {
		return nil
	}
	s.options.Reveal(q.Correct, choice)

	out := s.sess.Answered[len(s.sess.Answered)-1]
	data := store.AnswerEventData{
		SessionID:    s.sess.ID,
		TopicID:      s.sess.TopicID,
		QuestionID:   q.ID,
		QuestionText: q.Text,
		CorrectIndex: q.Correct,
		ChosenIndex:  choice,
		Correct:      out.Correct,
		TimeMs:       out.TimeTaken.Milliseconds(),
	}
	return s.record(func(ctx context.Context, events store.EventRepo) error {
		return events.AppendAnswerEvent(ctx, data)
	})
}

func (s *PracticeScreen) next() tea.Cmd {
	if !s.sess.IsLast() {
		s.sess.Next()
		s.resetOptions()
		return nil
	}

	s.sess.Next()
	res := s.sess.Results()
	s.log.WithFields(logrus.Fields{
		"correct": res.Correct,
		"total":   res.Total,
		"seconds": res.Seconds,
	}).Info("practice finished")

	deps, prev := s.deps, s.sess
	retry := func() screen.Screen {
		return New(deps, prev.Retry(deps.Bank.Questions(prev.TopicID), deps.Rand))
	}
	id := s.sess.ID
	return tea.Batch(
		s.record(func(ctx context.Context, events store.EventRepo) error {
			return events.AppendSessionEvent(ctx, store.SessionEventData{
				SessionID:       id,
				TopicID:         res.TopicID,
				Action:          "end",
				QuestionsServed: res.Total,
				CorrectAnswers:  res.Correct,
				DurationSecs:    res.Seconds,
			})
		}),
		router.Replace(results.New(deps, res, retry)),
	)
}

func (s *PracticeScreen) View(width, height int) string {
	q := s.sess.Current()
	if q == nil {
		return "\n" + theme.Hint.Render("No questions to practice.")
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(theme.Title.Render(topics.Name(s.sess.TopicID)))
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("   ⏱ %s   Score: %d/%d",
		quiz.FormatTime(s.sess.Elapsed), s.sess.Score, s.sess.Total())))
	b.WriteString("\n\n")
	b.WriteString(components.NewProgressBar(s.sess.Index+1, s.sess.Total(), min(width-4, 60)).View())
	b.WriteString("\n\n")

	b.WriteString(theme.Hint.Render(fmt.Sprintf("Question %d of %d", s.sess.Index+1, s.sess.Total())) + "\n")
	b.WriteString(theme.Body.Bold(true).Width(max(width-4, 20)).Render(mathtext.Terminal(q.Text)) + "\n")
	if d := diagramNote(q.Diagram); d != "" {
		b.WriteString(theme.Hint.Render(d) + "\n")
	}
	b.WriteString("\n" + s.options.View())

	if s.sess.Revealed() {
		b.WriteString("\n" + s.verdict(q) + "\n\n")
		b.WriteString(theme.Explanation.Width(max(width-6, 20)).Render(
			theme.Body.Bold(true).Render("Explanation:") + "\n" + mathtext.Terminal(q.Explanation),
		))
		label := "Next Question"
		if s.sess.IsLast() {
			label = "View Results"
		}
		b.WriteString("\n\n" + components.NewButtonRow(components.Button{Label: label}).View())
	}
	return b.String()
}

func (s *PracticeScreen) verdict(q *bank.Question) string {
	if s.sess.LastCorrect() {
		return theme.Correct.Render("✓ Correct!")
	}
	return theme.Incorrect.Render(fmt.Sprintf("✗ Incorrect. The answer is %c.", bank.OptionLetter(q.Correct)))
}

func diagramNote(d string) string {
	switch {
	case d == "":
		return ""
	case strings.HasPrefix(d, "data:"):
		return "[diagram attached: open the worksheet view to see it]"
	default:
		return "[diagram: " + d + "]"
	}
}
