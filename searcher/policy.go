package searcher

import (
	"math"

	"golang.org/x/exp/rand"
)

// selectMax returns a uniformly random action among those whose value lies
// within Epsilon of the maximum. Equal infinities tie.
func selectMax[A Action](rng *rand.Rand, numActions int, value func(A) float64) A {
	values := make([]float64, numActions)
	maxValue := math.NaN()
	for i := range values {
		values[i] = value(A(i))
		if !math.IsNaN(values[i]) && !(values[i] <= maxValue) {
			maxValue = values[i]
		}
	}
	if math.IsNaN(maxValue) {
		panic("no action has a comparable value")
	}

	best := make([]A, 0, numActions)
	for i, v := range values {
		if v == maxValue || math.Abs(v-maxValue) < Epsilon {
			best = append(best, A(i))
		}
	}
	return best[rng.Intn(len(best))]
}
