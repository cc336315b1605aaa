package bank

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/addmath/internal/store"
	"github.com/abhisek/addmath/internal/topics"
)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := store.Open("file:" + name + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func makeQuestion(id string, correct int) Question {
	return Question{
		ID:          id,
		Text:        "Find the roots of $x^2 - 5x + 6 = 0$.",
		Options:     [NumOptions]string{"1, 6", "2, 3", "-2, -3", "-1, -6"},
		Correct:     correct,
		Explanation: "Factorise as $(x-2)(x-3)$.",
	}
}

func TestQuestionValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Question)
		wantErr bool
	}{
		{"valid", func(q *Question) {}, false},
		{"empty text", func(q *Question) { q.Text = "  " }, true},
		{"negative correct", func(q *Question) { q.Correct = -1 }, true},
		{"correct too large", func(q *Question) { q.Correct = 4 }, true},
		{"empty option", func(q *Question) { q.Options[2] = "" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := makeQuestion("q1", 1)
			tt.mutate(&q)
			err := q.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidQuestion)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCorrectOption(t *testing.T) {
	q := makeQuestion("q1", 1)
	assert.Equal(t, "2, 3", q.CorrectOption())
	assert.Equal(t, 'C', OptionLetter(2))
}

func TestParseOption(t *testing.T) {
	for in, want := range map[string]int{"A": 0, "b": 1, "3": 2, " D ": 3} {
		got, err := ParseOption(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	for _, in := range []string{"", "E", "0", "5", "AB"} {
		_, err := ParseOption(in)
		assert.Error(t, err, in)
	}
}

func TestBankPersistAndReload(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	b := New(s.SnapshotRepo(), WithSequencer(s), WithLogger(quietLogger()))
	set := Set{
		"form4-quadratic-equations": {makeQuestion("q1", 1), makeQuestion("q2", 0)},
		"form5-integration":         {makeQuestion("q3", 3)},
	}
	require.NoError(t, b.Replace(ctx, set, SourceFeed))
	assert.False(t, b.LastUpdated().IsZero())

	reloaded := New(s.SnapshotRepo(), WithLogger(quietLogger()))
	found, err := reloaded.Load(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, set, reloaded.All())
	assert.True(t, reloaded.LastUpdated().Equal(b.LastUpdated()))
}

func TestBankLoadEmpty(t *testing.T) {
	s := openTestStore(t)
	b := New(s.SnapshotRepo(), WithLogger(quietLogger()))
	found, err := b.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, found)
	assert.Zero(t, b.Total())
}

func TestBankAddAndDelete(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	b := New(nil, WithClock(func() time.Time { return fixed }), WithLogger(quietLogger()))

	q := makeQuestion("", 2)
	require.NoError(t, b.Add(ctx, "form5-vectors", q))
	qs := b.Questions("form5-vectors")
	require.Len(t, qs, 1)
	assert.Equal(t, "q_form5-vectors_1740819600000", qs[0].ID)

	got, topic, err := b.Find(qs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "form5-vectors", topic)
	assert.Equal(t, q.Text, got.Text)

	require.NoError(t, b.Delete(ctx, qs[0].ID))
	assert.Zero(t, b.Count("form5-vectors"))

	err = b.Delete(ctx, "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestBankAddRejects(t *testing.T) {
	b := New(nil, WithLogger(quietLogger()))
	ctx := context.Background()

	assert.ErrorIs(t, b.Add(ctx, "form9-calculus", makeQuestion("", 0)), ErrUnknownTopic)

	bad := makeQuestion("", 0)
	bad.Correct = 7
	assert.ErrorIs(t, b.Add(ctx, "form4-functions", bad), ErrInvalidQuestion)
	assert.Zero(t, b.Total())
}

func TestBankMergeAndCounts(t *testing.T) {
	b := New(nil, WithLogger(quietLogger()))
	ctx := context.Background()

	require.NoError(t, b.Replace(ctx, Set{"form4-functions": {makeQuestion("a", 0)}}, SourceFeed))
	require.NoError(t, b.Merge(ctx, Set{
		"form4-functions":   {makeQuestion("b", 1)},
		"form5-probability": {makeQuestion("c", 2), makeQuestion("d", 3)},
	}, SourceImport))

	assert.Equal(t, 2, b.Count("form4-functions"))
	assert.Equal(t, 2, b.FormCount(topics.Form4))
	assert.Equal(t, 2, b.FormCount(topics.Form5))
	assert.Equal(t, 4, b.Total())

	ids := []string{}
	for _, q := range b.Questions("form4-functions") {
		ids = append(ids, q.ID)
	}
	assert.Equal(t, []string{"a", "b"}, ids, "merge keeps file order after existing questions")
}

type failingRepo struct{ store.SnapshotRepo }

func (failingRepo) Save(context.Context, *store.Snapshot) error { return errors.New("disk full") }

func TestBankFailedSaveLeavesBankUnchanged(t *testing.T) {
	ctx := context.Background()
	b := New(nil, WithLogger(quietLogger()))
	require.NoError(t, b.Replace(ctx, Set{"form4-functions": {makeQuestion("a", 0)}}, SourceFeed))
	before := b.LastUpdated()

	b.repo = failingRepo{}
	assert.Error(t, b.Merge(ctx, Set{"form4-functions": {makeQuestion("b", 1)}}, SourceImport))
	assert.Error(t, b.Add(ctx, "form5-vectors", makeQuestion("c", 2)))
	assert.Error(t, b.Delete(ctx, "a"))
	assert.Error(t, b.Replace(ctx, Set{}, SourceFeed))

	assert.Equal(t, 1, b.Total())
	assert.Equal(t, "a", b.Questions("form4-functions")[0].ID)
	assert.Equal(t, before, b.LastUpdated())
}

func TestBankFormCountIncludesPrefixedTopics(t *testing.T) {
	b := New(nil, WithLogger(quietLogger()))
	require.NoError(t, b.Merge(context.Background(), Set{
		"form4-functions":  {makeQuestion("a", 0)},
		"form5-extra-work": {makeQuestion("b", 1)},
		"misc":             {makeQuestion("c", 2)},
	}, SourceImport))

	assert.Equal(t, 1, b.FormCount(topics.Form4))
	assert.Equal(t, 1, b.FormCount(topics.Form5))
	assert.Equal(t, 3, b.Total())
}

func TestBankReturnsCopies(t *testing.T) {
	b := New(nil, WithLogger(quietLogger()))
	ctx := context.Background()
	require.NoError(t, b.Replace(ctx, Set{"form4-functions": {makeQuestion("a", 0)}}, SourceFeed))

	qs := b.Questions("form4-functions")
	qs[0].Text = "changed"
	all := b.All()
	all["form4-functions"][0].Text = "changed too"

	got, _, err := b.Find("a")
	require.NoError(t, err)
	assert.NotEqual(t, "changed", got.Text)
	assert.NotEqual(t, "changed too", got.Text)
}

func TestBankPrunesSnapshots(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	b := New(s.SnapshotRepo(), WithKeep(2), WithLogger(quietLogger()))

	for i := 0; i < 4; i++ {
		require.NoError(t, b.Add(ctx, "form4-functions", makeQuestion("q"+string(rune('0'+i)), 0)))
	}

	var n int
	require.NoError(t, s.DB().QueryRow("SELECT COUNT(*) FROM snapshots").Scan(&n))
	assert.Equal(t, 2, n)
}
