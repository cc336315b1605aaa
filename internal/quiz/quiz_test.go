package quiz

import (
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/addmath/internal/bank"
)

func makeQuestions(n int) []bank.Question {
	qs := make([]bank.Question, n)
	for i := range qs {
		qs[i] = bank.Question{
			ID:      fmt.Sprintf("q%d", i),
			Text:    fmt.Sprintf("Question %d", i),
			Options: [bank.NumOptions]string{"a", "b", "c", "d"},
			Correct: i % bank.NumOptions,
		}
	}
	return qs
}

func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func TestSample_Sizes(t *testing.T) {
	tests := []struct {
		n, available, want int
	}{
		{5, 10, 5},
		{10, 3, 3},
		{3, 3, 3},
		{0, 5, 0},
		{4, 0, 0},
	}
	for _, tt := range tests {
		got := Sample(makeQuestions(tt.available), tt.n, testRand())
		assert.Len(t, got, tt.want, "Sample(%d of %d)", tt.n, tt.available)
	}
}

func TestSample_UniqueAndFromInput(t *testing.T) {
	pool := makeQuestions(20)
	inPool := map[string]bool{}
	for _, q := range pool {
		inPool[q.ID] = true
	}

	for seed := uint64(0); seed < 50; seed++ {
		got := Sample(pool, 8, rand.New(rand.NewPCG(seed, seed)))
		seen := map[string]bool{}
		for _, q := range got {
			if seen[q.ID] {
				t.Fatalf("seed %d: duplicate question %s", seed, q.ID)
			}
			if !inPool[q.ID] {
				t.Fatalf("seed %d: question %s not from pool", seed, q.ID)
			}
			seen[q.ID] = true
		}
	}
}

func TestSample_DoesNotMutateInput(t *testing.T) {
	pool := makeQuestions(6)
	before := append([]bank.Question(nil), pool...)
	Sample(pool, 6, testRand())
	assert.Equal(t, before, pool)
}

func TestSample_NilRand(t *testing.T) {
	assert.Len(t, Sample(makeQuestions(4), 2, nil), 2)
}

func TestClampCount(t *testing.T) {
	assert.Equal(t, 5, ClampCount(5, 10))
	assert.Equal(t, 3, ClampCount(5, 3))
	assert.Equal(t, 1, ClampCount(0, 3))
	assert.Equal(t, 1, ClampCount(-2, 3))
	assert.Equal(t, 0, ClampCount(5, 0))
}

func TestAnswer_ScoresCorrectOnly(t *testing.T) {
	s := New("form4-functions", makeQuestions(4), 4, testRand())
	q := s.Current()
	require.NotNil(t, q)

	wrong := (q.Correct + 1) % bank.NumOptions
	require.True(t, s.Answer(wrong))
	assert.Equal(t, 0, s.Score)
	assert.False(t, s.LastCorrect())

	s.Next()
	q = s.Current()
	require.True(t, s.Answer(q.Correct))
	assert.Equal(t, 1, s.Score)
	assert.True(t, s.LastCorrect())
	assert.Len(t, s.Answered, 2)
}

func TestAnswer_IgnoredOnceRevealed(t *testing.T) {
	s := New("form4-functions", makeQuestions(2), 2, testRand())
	q := s.Current()
	require.True(t, s.Answer((q.Correct+1)%bank.NumOptions))
	assert.False(t, s.Answer(q.Correct), "second answer must be ignored")
	assert.Equal(t, 0, s.Score)
	assert.Len(t, s.Answered, 1)
}

func TestAnswer_OutOfRange(t *testing.T) {
	s := New("form4-functions", makeQuestions(1), 1, testRand())
	assert.False(t, s.Answer(4))
	assert.False(t, s.Answer(-1))
	assert.Equal(t, PhaseAnswering, s.Phase)
}

func TestNext_RequiresReveal(t *testing.T) {
	s := New("form4-functions", makeQuestions(3), 3, testRand())
	s.Next()
	assert.Equal(t, 0, s.Index)
}

func TestFullRun(t *testing.T) {
	s := New("form5-vectors", makeQuestions(3), 3, testRand())
	for i := 0; i < 3; i++ {
		assert.False(t, s.Complete())
		s.Tick()
		s.Tick()
		require.True(t, s.Answer(s.Current().Correct))
		if i < 2 {
			s.Next()
			assert.Equal(t, i+1, s.Index)
			assert.Equal(t, -1, s.Selected)
		}
	}
	assert.True(t, s.Complete())
	assert.True(t, s.Running)

	s.Next()
	assert.False(t, s.Running)
	assert.Equal(t, PhaseFinished, s.Phase)
	assert.True(t, s.Complete())

	s.Tick()
	r := s.Results()
	assert.Equal(t, 3, r.Correct)
	assert.Equal(t, 3, r.Total)
	assert.Equal(t, 100, r.Percent)
	assert.Equal(t, 6, r.Seconds, "ticks after finishing are not counted")
	assert.Equal(t, "0:06", r.Time())
}

func TestResultsPercentRounds(t *testing.T) {
	s := New("form5-vectors", makeQuestions(3), 3, testRand())
	require.True(t, s.Answer(s.Current().Correct))
	assert.Equal(t, 33, s.Results().Percent)

	s.Next()
	require.True(t, s.Answer(s.Current().Correct))
	assert.Equal(t, 67, s.Results().Percent)
}

func TestEmptySession(t *testing.T) {
	s := New("form5-vectors", nil, 5, testRand())
	assert.Nil(t, s.Current())
	assert.False(t, s.Answer(0))
	assert.False(t, s.Complete())
	assert.False(t, s.Running)
	assert.Zero(t, s.Results().Percent)
}

func TestOutcomeTiming(t *testing.T) {
	clock := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	s := New("form4-functions", makeQuestions(2), 2, testRand())
	s.now = func() time.Time { return clock }
	s.questionStart = clock

	clock = clock.Add(12 * time.Second)
	require.True(t, s.Answer(0))
	assert.Equal(t, 12*time.Second, s.Answered[0].TimeTaken)
}

func TestRetry(t *testing.T) {
	pool := makeQuestions(10)
	s := New("form4-functions", pool, 4, testRand())
	require.True(t, s.Answer(0))

	r := s.Retry(pool, rand.New(rand.NewPCG(9, 9)))
	assert.NotEqual(t, s.ID, r.ID)
	assert.Equal(t, "form4-functions", r.TopicID)
	assert.Equal(t, 4, r.Total())
	assert.Zero(t, r.Score)
	assert.Empty(t, r.Answered)
	assert.True(t, r.Running)
}

func TestFormatTime(t *testing.T) {
	tests := map[int]string{0: "0:00", 5: "0:05", 59: "0:59", 60: "1:00", 125: "2:05", 3600: "60:00", -3: "0:00"}
	for in, want := range tests {
		assert.Equal(t, want, FormatTime(in), "FormatTime(%d)", in)
	}
}
