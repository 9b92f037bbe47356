package random

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
)

// Dirichlet draws a probability vector from Dir(alpha) by normalising one Gamma(alpha_i, 1)
// draw per component.
func Dirichlet(rng *rand.Rand, alpha []float64) ([]float64, error) {
	if len(alpha) == 0 {
		return nil, fmt.Errorf("%w: dirichlet needs at least one concentration", ErrDomain)
	}
	out := make([]float64, len(alpha))
	for i, a := range alpha {
		g, err := Gamma(rng, a, 1)
		if err != nil {
			return nil, fmt.Errorf("concentration %d: %w", i, err)
		}
		out[i] = g
	}
	return normalize(out)
}

// DirichletSymmetric draws a k-dimensional probability vector with every concentration equal
// to alpha.
func DirichletSymmetric(rng *rand.Rand, k int, alpha float64) ([]float64, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: dirichlet dimension %d must be positive", ErrDomain, k)
	}
	out := make([]float64, k)
	for i := range out {
		g, err := Gamma(rng, alpha, 1)
		if err != nil {
			return nil, err
		}
		out[i] = g
	}
	return normalize(out)
}

func normalize(v []float64) ([]float64, error) {
	sum := floats.Sum(v)
	if sum == 0 {
		// Every component underflowed, only possible for tiny concentrations
		return nil, fmt.Errorf("%w: degenerate dirichlet draw", ErrDomain)
	}
	floats.Scale(1/sum, v)
	return v, nil
}
