package random

import (
	"fmt"
	"math"
	"sort"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
)

// WeightedPick returns one of items. With nil weights every item is equally likely, otherwise
// item i is chosen with probability weights[i] / sum(weights).
func WeightedPick[T any](rng *rand.Rand, items []T, weights []float64) (T, error) {
	var zero T
	if len(items) == 0 {
		return zero, fmt.Errorf("%w: cannot pick from an empty sequence", ErrDomain)
	}
	if weights == nil {
		return items[intn(rng, len(items))], nil
	}
	i, err := pickIndex(rng, weights, len(items))
	if err != nil {
		return zero, err
	}
	return items[i], nil
}

func pickIndex(rng *rand.Rand, weights []float64, n int) (int, error) {
	for i, w := range weights {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return 0, fmt.Errorf("%w: weight %d is %v", ErrWeightType, i, w)
		}
		if w < 0 {
			return 0, fmt.Errorf("%w: weight %d is negative", ErrDomain, i)
		}
	}
	if len(weights) != n {
		return 0, fmt.Errorf("%w: %d items but %d weights", ErrDomain, n, len(weights))
	}

	cumulative := floats.CumSum(make([]float64, n), weights)
	total := cumulative[n-1]
	if total == 0 {
		return 0, fmt.Errorf("%w: weights sum to zero", ErrDomain)
	}

	x := uniform(rng) * total
	i := sort.Search(n, func(i int) bool { return cumulative[i] > x })
	if i == n {
		i = n - 1
	}
	return i, nil
}

func intn(rng *rand.Rand, n int) int {
	if rng == nil {
		return rand.Intn(n)
	}
	return rng.Intn(n)
}
