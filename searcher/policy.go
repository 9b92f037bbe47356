package searcher

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

type puct struct {
	c float64
}

func newPUCT(parentVisits int) puct {
	return puct{c: ExplorationScale * math.Sqrt(float64(parentVisits))}
}

// evaluate scores a child as Q + c*P/(n+1).
func (p puct) evaluate(child *Node) float64 {
	return child.MeanValue + p.exploration(child)
}

func (p puct) exploration(child *Node) float64 {
	return p.c * child.Prior / float64(child.Visits+1)
}

// actionProbabilities turns child visit counts into a policy proportional to
// visits^(1/tau). Counts are scaled by the maximum first so large exponents cannot overflow.
func actionProbabilities(children []*Node, tau float64) []float64 {
	probs := make([]float64, len(children))
	if len(children) == 0 {
		return probs
	}

	maxVisits := 0
	for _, child := range children {
		maxVisits = max(maxVisits, child.Visits)
	}
	if maxVisits == 0 {
		// Nothing was backed up below the root yet
		for i := range probs {
			probs[i] = 1 / float64(len(probs))
		}
		return probs
	}

	exponent := 1 / tau
	for i, child := range children {
		probs[i] = math.Pow(float64(child.Visits)/float64(maxVisits), exponent)
	}
	floats.Scale(1/floats.Sum(probs), probs)
	return probs
}
