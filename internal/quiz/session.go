package quiz

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/addmath/internal/bank"
)

// Phase is the current phase of a practice session.
type Phase int

const (
	PhaseAnswering Phase = iota // Waiting for an answer to the current question
	PhaseRevealed               // Answer chosen, explanation shown
	PhaseFinished               // Timer stopped after the last question
)

// Outcome records how one question was answered.
type Outcome struct {
	QuestionID string
	Chosen     int
	Correct    bool
	TimeTaken  time.Duration
}

// Session tracks one practice run over a fixed sample of questions.
type Session struct {
	// ID is the UUID for this session.
	ID string

	// TopicID is the topic the questions were drawn from.
	TopicID string

	// Requested is the question count asked for, kept for retries.
	Requested int

	// Questions is the sampled question list, in serving order.
	Questions []bank.Question

	// Index is the position of the current question.
	Index int

	// Score is the number of correct answers so far.
	Score int

	// Elapsed is the number of whole seconds counted by Tick.
	Elapsed int

	// Selected is the chosen option for the current question, -1 if none.
	Selected int

	// Answered logs every answer in order.
	Answered []Outcome

	// Phase is the current session phase.
	Phase Phase

	// Running is true while the timer counts.
	Running bool

	questionStart time.Time
	now           func() time.Time
}

// New starts a session over up to n questions sampled from the given topic
// questions.
func New(topicID string, questions []bank.Question, n int, rng *rand.Rand) *Session {
	s := &Session{
		ID:        uuid.New().String(),
		TopicID:   topicID,
		Requested: n,
		Questions: Sample(questions, n, rng),
		Selected:  -1,
		Running:   true,
		now:       time.Now,
	}
	s.questionStart = s.now()
	if len(s.Questions) == 0 {
		s.Running = false
		s.Phase = PhaseFinished
	}
	return s
}

// Retry starts a fresh session on the same topic with the same requested
// count, re-sampling from questions.
func (s *Session) Retry(questions []bank.Question, rng *rand.Rand) *Session {
	return New(s.TopicID, questions, s.Requested, rng)
}

// Total returns the number of questions in the session.
func (s *Session) Total() int {
	return len(s.Questions)
}

// Current returns the question being shown, or nil if there is none.
func (s *Session) Current() *bank.Question {
	if s.Index < 0 || s.Index >= len(s.Questions) {
		return nil
	}
	return &s.Questions[s.Index]
}

// Revealed reports whether the current question's answer has been shown.
func (s *Session) Revealed() bool {
	return s.Phase != PhaseAnswering
}

// Answer records choice for the current question. It is ignored once the
// answer has been revealed or when choice is out of range, and reports
// whether it was recorded.
func (s *Session) Answer(choice int) bool {
	q := s.Current()
	if q == nil || s.Phase != PhaseAnswering {
		return false
	}
	if choice < 0 || choice >= bank.NumOptions {
		return false
	}

	correct := choice == q.Correct
	if correct {
		s.Score++
	}
	s.Selected = choice
	s.Answered = append(s.Answered, Outcome{
		QuestionID: q.ID,
		Chosen:     choice,
		Correct:    correct,
		TimeTaken:  s.now().Sub(s.questionStart),
	})
	s.Phase = PhaseRevealed
	return true
}

// LastCorrect reports whether the most recent answer was correct.
func (s *Session) LastCorrect() bool {
	if len(s.Answered) == 0 {
		return false
	}
	return s.Answered[len(s.Answered)-1].Correct
}

// IsLast reports whether the current question is the final one.
func (s *Session) IsLast() bool {
	return s.Index == len(s.Questions)-1
}

// Next moves to the following question. On the last question it stops the
// timer instead. It does nothing until the current answer is revealed.
func (s *Session) Next() {
	if s.Phase != PhaseRevealed {
		return
	}
	if !s.IsLast() {
		s.Index++
		s.Selected = -1
		s.Phase = PhaseAnswering
		s.questionStart = s.now()
		return
	}
	s.Running = false
	s.Phase = PhaseFinished
}

// Complete reports whether the quiz is over: the last question has been
// answered and its explanation revealed.
func (s *Session) Complete() bool {
	return len(s.Questions) > 0 && s.IsLast() && s.Revealed()
}

// Tick counts one elapsed second while the timer runs.
func (s *Session) Tick() {
	if s.Running {
		s.Elapsed++
	}
}

// Results holds the figures shown when a session ends.
type Results struct {
	TopicID  string
	Correct  int
	Total    int
	Percent  int
	Seconds  int
	Outcomes []Outcome
}

// Results summarises the session so far.
func (s *Session) Results() Results {
	r := Results{
		TopicID:  s.TopicID,
		Correct:  s.Score,
		Total:    len(s.Questions),
		Seconds:  s.Elapsed,
		Outcomes: append([]Outcome(nil), s.Answered...),
	}
	if r.Total > 0 {
		r.Percent = int(math.Round(float64(r.Correct) / float64(r.Total) * 100))
	}
	return r
}

// Time returns the elapsed time formatted as m:ss.
func (r Results) Time() string {
	return FormatTime(r.Seconds)
}

// FormatTime formats a number of seconds as m:ss.
func FormatTime(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
