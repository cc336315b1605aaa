package quiz

import (
	"math/rand/v2"

	"github.com/abhisek/addmath/internal/bank"
)

// DefaultCount is the number of questions offered when none is chosen.
const DefaultCount = 5

// ClampCount limits a requested question count to [1, available]. With no
// questions available it returns 0.
func ClampCount(n, available int) int {
	if available <= 0 {
		return 0
	}
	return max(1, min(n, available))
}

// Sample returns min(n, len(questions)) distinct questions in random order.
// The input slice is not modified. A nil rng uses the global source.
func Sample(questions []bank.Question, n int, rng *rand.Rand) []bank.Question {
	if n <= 0 || len(questions) == 0 {
		return nil
	}
	shuffled := make([]bank.Question, len(questions))
	copy(shuffled, questions)

	swap := func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] }
	if rng != nil {
		rng.Shuffle(len(shuffled), swap)
	} else {
		rand.Shuffle(len(shuffled), swap)
	}
	return shuffled[:min(n, len(shuffled))]
}
