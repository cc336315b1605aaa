package bank

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/addmath/internal/store"
	"github.com/abhisek/addmath/internal/topics"
)

// Snapshot sources recorded with each persisted bank.
const (
	SourceFeed     = "feed"
	SourceImport   = "import"
	SourceManual   = "manual"
	SourceRestore  = "restore"
	SourceGenerate = "generate"
)

const snapshotVersion = 1

// DefaultKeep is how many bank snapshots are retained after each save.
const DefaultKeep = 5

// Sequencer hands out global sequence numbers for snapshots.
type Sequencer interface {
	NextSequence(ctx context.Context) (int64, error)
}

// Bank is the question store: topic ID to ordered questions, persisted
// wholesale on every mutation.
type Bank struct {
	mu          sync.RWMutex
	questions   Set
	lastUpdated time.Time

	repo store.SnapshotRepo
	seq  Sequencer
	keep int
	log  logrus.FieldLogger
	now  func() time.Time
}

// Option configures a Bank.
type Option func(*Bank)

// WithSequencer stamps snapshots with global sequence numbers.
func WithSequencer(s Sequencer) Option {
	return func(b *Bank) { b.seq = s }
}

// WithKeep sets the number of snapshots retained after each save.
func WithKeep(n int) Option {
	return func(b *Bank) { b.keep = n }
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(b *Bank) { b.log = l }
}

// WithClock overrides the clock used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(b *Bank) { b.now = now }
}

// New creates an empty bank persisted through repo. A nil repo keeps the
// bank in memory only.
func New(repo store.SnapshotRepo, opts ...Option) *Bank {
	b := &Bank{
		questions: Set{},
		repo:      repo,
		keep:      DefaultKeep,
		log:       logrus.StandardLogger(),
		now:       time.Now,
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Load hydrates the bank from the latest snapshot. It reports whether a
// snapshot existed.
func (b *Bank) Load(ctx context.Context) (bool, error) {
	if b.repo == nil {
		return false, nil
	}
	snap, err := b.repo.Latest(ctx)
	if err != nil {
		return false, fmt.Errorf("load question bank: %w", err)
	}
	if snap == nil {
		return false, nil
	}

	set := fromSnapshotData(snap.Data)

	b.mu.Lock()
	b.questions = set
	b.lastUpdated = snap.Timestamp
	b.mu.Unlock()

	b.log.WithFields(logrus.Fields{
		"questions": set.Total(),
		"source":    snap.Source,
		"updated":   snap.Timestamp,
	}).Debug("question bank loaded")
	return true, nil
}

// Replace swaps in a whole new set of questions.
func (b *Bank) Replace(ctx context.Context, set Set, source string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.persistLocked(ctx, set.Clone(), source)
}

// Merge appends every question in set to its topic's list.
func (b *Bank) Merge(ctx context.Context, set Set, source string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	next := b.questions.Clone()
	for topic, qs := range set {
		next[topic] = append(next[topic], qs...)
	}
	return b.persistLocked(ctx, next, source)
}

// Add appends a single validated question to a topic.
func (b *Bank) Add(ctx context.Context, topicID string, q Question) error {
	if !topics.Exists(topicID) {
		return fmt.Errorf("add question to %q: %w", topicID, ErrUnknownTopic)
	}
	if err := q.Validate(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if q.ID == "" {
		q.ID = fmt.Sprintf("q_%s_%d", topicID, b.now().UnixMilli())
	}
	next := b.questions.Clone()
	next[topicID] = append(next[topicID], q)
	return b.persistLocked(ctx, next, SourceManual)
}

// Delete removes the question with the given ID from whichever topic holds it.
func (b *Bank) Delete(ctx context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for topic, qs := range b.questions {
		idx := slices.IndexFunc(qs, func(q Question) bool { return q.ID == id })
		if idx < 0 {
			continue
		}
		next := b.questions.Clone()
		next[topic] = slices.Delete(next[topic], idx, idx+1)
		return b.persistLocked(ctx, next, SourceManual)
	}
	return fmt.Errorf("delete %s: %w", id, ErrNotFound)
}

// Questions returns a copy of a topic's questions in stored order.
func (b *Bank) Questions(topicID string) []Question {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.questions[topicID])
}

// Find returns the question with the given ID and the topic that holds it.
func (b *Bank) Find(id string) (Question, string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for topic, qs := range b.questions {
		for _, q := range qs {
			if q.ID == id {
				return q, topic, nil
			}
		}
	}
	return Question{}, "", fmt.Errorf("find %s: %w", id, ErrNotFound)
}

// Count returns the number of questions stored for a topic.
func (b *Bank) Count(topicID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.questions[topicID])
}

// FormCount returns the number of questions across the topics of a form.
// Topics outside the catalog count toward the form their ID prefix names.
func (b *Bank) FormCount(f topics.Form) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n := 0
	for topic, qs := range b.questions {
		if topics.FormOf(topic) == f {
			n += len(qs)
		}
	}
	return n
}

// Total returns the number of questions in the bank.
func (b *Bank) Total() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.questions.Total()
}

// All returns a deep copy of the whole bank.
func (b *Bank) All() Set {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.questions.Clone()
}

// LastUpdated returns when the bank was last persisted or loaded. The zero
// time means never.
func (b *Bank) LastUpdated() time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastUpdated
}

// persistLocked saves next as a snapshot and only then makes it the live
// set, so a failed save leaves the bank unchanged.
func (b *Bank) persistLocked(ctx context.Context, next Set, source string) error {
	stamp := b.now().UTC()
	if b.repo == nil {
		b.questions, b.lastUpdated = next, stamp
		return nil
	}

	var seq int64
	if b.seq != nil {
		n, err := b.seq.NextSequence(ctx)
		if err != nil {
			return fmt.Errorf("persist question bank: %w", err)
		}
		seq = n
	}

	snap := &store.Snapshot{
		Sequence:  seq,
		Timestamp: stamp,
		Source:    source,
		Data:      toSnapshotData(next),
	}
	if err := b.repo.Save(ctx, snap); err != nil {
		return fmt.Errorf("persist question bank: %w", err)
	}
	b.questions, b.lastUpdated = next, stamp

	if b.keep > 0 {
		if err := b.repo.Prune(ctx, b.keep); err != nil {
			b.log.WithError(err).Warn("prune question bank snapshots")
		}
	}

	b.log.WithFields(logrus.Fields{
		"questions": next.Total(),
		"source":    source,
		"sequence":  seq,
	}).Info("question bank saved")
	return nil
}

func toSnapshotData(set Set) store.SnapshotData {
	data := store.SnapshotData{
		Version:   snapshotVersion,
		Questions: make(map[string][]store.QuestionData, len(set)),
	}
	for topic, qs := range set {
		out := make([]store.QuestionData, len(qs))
		for i, q := range qs {
			out[i] = store.QuestionData{
				ID:          q.ID,
				Question:    q.Text,
				Options:     q.Options[:],
				Correct:     q.Correct,
				Explanation: q.Explanation,
				Diagram:     q.Diagram,
			}
		}
		data.Questions[topic] = out
	}
	return data
}

func fromSnapshotData(data store.SnapshotData) Set {
	set := make(Set, len(data.Questions))
	for topic, qs := range data.Questions {
		out := make([]Question, len(qs))
		for i, q := range qs {
			out[i] = Question{
				ID:          q.ID,
				Text:        q.Question,
				Correct:     q.Correct,
				Explanation: q.Explanation,
				Diagram:     q.Diagram,
			}
			copy(out[i].Options[:], q.Options)
		}
		set[topic] = out
	}
	return set
}
