// Package random provides the sampling primitives used by the searcher: Gamma and Dirichlet
// draws for exploration noise and weighted choice for move selection.
//
// Every function takes the generator to draw from. A nil generator falls back to the
// goroutine-safe top level source of golang.org/x/exp/rand.
package random

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/exp/rand"
)

var (
	// ErrDomain reports a parameter outside the domain of a distribution.
	ErrDomain = errors.New("random: parameter out of domain")
	// ErrWeightType reports a weight sequence holding something that is not a number.
	ErrWeightType = errors.New("random: weight is not a number")
)

// Gamma draws one sample from Gamma(shape, scale), whose mean is shape*scale.
func Gamma(rng *rand.Rand, shape, scale float64) (float64, error) {
	if !isPositive(shape) {
		return 0, fmt.Errorf("%w: gamma shape %v must be a finite positive number", ErrDomain, shape)
	}
	if !isPositive(scale) {
		return 0, fmt.Errorf("%w: gamma scale %v must be a finite positive number", ErrDomain, scale)
	}

	switch {
	case shape < 1:
		return scale * smallShape(rng, shape), nil
	case shape == 1:
		return scale * unitExponential(rng), nil
	case shape < 20 && shape == math.Trunc(shape):
		return scale * integerShape(rng, int(shape)), nil
	default:
		return scale * largeShape(rng, shape), nil
	}
}

// smallShape is the Ahrens-Dieter GS rejection method for shape < 1.
func smallShape(rng *rand.Rand, shape float64) float64 {
	p := math.E / (shape + math.E)
	for {
		u := uniform(rng)
		v := nonZeroUniform(rng)

		var x, q float64
		if u < p {
			x = math.Pow(v, 1/shape)
			q = math.Exp(-x)
		} else {
			x = 1 - math.Log(v)
			q = math.Pow(x, shape-1)
		}

		if uniform(rng) < q {
			return x
		}
	}
}

func unitExponential(rng *rand.Rand) float64 {
	return -math.Log(1 - uniform(rng))
}

// integerShape sums shape unit exponentials as the log of a product of uniforms.
func integerShape(rng *rand.Rand, shape int) float64 {
	y := nonZeroUniform(rng)
	for i := 1; i < shape; i++ {
		y *= nonZeroUniform(rng)
	}
	return -math.Log(y)
}

// largeShape uses the Cauchy (tangent) envelope with rejection.
func largeShape(rng *rand.Rand, shape float64) float64 {
	root := math.Sqrt(2*shape - 1)
	for {
		y := math.Tan(math.Pi * uniform(rng))
		x := root*y + shape - 1
		if x <= 0 {
			continue
		}
		accept := (1 + y*y) * math.Exp((shape-1)*math.Log(x/(shape-1))-root*y)
		if uniform(rng) <= accept {
			return x
		}
	}
}

func isPositive(x float64) bool {
	return x > 0 && !math.IsInf(x, 1)
}

func uniform(rng *rand.Rand) float64 {
	if rng == nil {
		return rand.Float64()
	}
	return rng.Float64()
}

func nonZeroUniform(rng *rand.Rand) float64 {
	for {
		if u := uniform(rng); u != 0 {
			return u
		}
	}
}
