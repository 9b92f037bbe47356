package searcher

import "errors"

// Hyperparameters for MCTS

const ExplorationScale = 5.0 // Exploration constant is ExplorationScale*sqrt(N)

const BatchSize = 8 // Leaves evaluated per evaluator call

const DefaultTau = 0.001 // Temperature sharpening the move policy towards the most visited child

const NoiseAlpha = 0.03  // Dirichlet concentration of exploration noise
const NoiseWeight = 0.25 // Share of noise mixed into evaluator priors

var (
	// ErrConfiguration reports an engine or search configured without a positive budget or
	// with out of range parameters.
	ErrConfiguration = errors.New("invalid search configuration")
	// ErrConcurrentSearch reports a search started while another one runs on the same engine.
	ErrConcurrentSearch = errors.New("another search is in progress")
	// ErrMalformedEvaluation reports an evaluator result that cannot be matched to its batch.
	ErrMalformedEvaluation = errors.New("malformed evaluation")
)
