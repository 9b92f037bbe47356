package searcher

import (
	"context"
	"fmt"
	"math"
	"sync"

	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"

	"gomoku/game"
	"gomoku/random"
)

// Evaluation of a position from the perspective of its player to move.
type Evaluation struct {
	Value  float64         // in [-1, 1]
	Priors map[int]float64 // move -> prior weight, missing moves weigh 0
}

// Evaluator scores a batch of positions, one result per state in the same order. States
// belong to the caller and must not be modified.
type Evaluator interface {
	Evaluate(ctx context.Context, states []*game.State) ([]Evaluation, error)
}

type EvaluatorFunc func(ctx context.Context, states []*game.State) ([]Evaluation, error)

func (f EvaluatorFunc) Evaluate(ctx context.Context, states []*game.State) ([]Evaluation, error) {
	return f(ctx, states)
}

// RolloutEvaluator plays uniformly random moves on a copy of each state until the game ends.
type RolloutEvaluator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRolloutEvaluator(seed uint64) *RolloutEvaluator {
	return &RolloutEvaluator{rng: random.New(seed)}
}

func (e *RolloutEvaluator) Evaluate(ctx context.Context, states []*game.State) ([]Evaluation, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	results := make([]Evaluation, len(states))
	for i, state := range states {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		results[i] = rollout(e.rng, state)
	}
	return results, nil
}

// ParallelRolloutEvaluator spreads the rollouts of a batch over a bounded number of
// goroutines. Each rollout draws from its own generator, seeded in batch order, so results
// do not depend on scheduling.
type ParallelRolloutEvaluator struct {
	workers int
	mu      sync.Mutex
	seeds   *rand.Rand
}

func NewParallelRolloutEvaluator(workers int, seed uint64) *ParallelRolloutEvaluator {
	if workers < 1 {
		workers = 1
	}
	return &ParallelRolloutEvaluator{workers: workers, seeds: random.New(seed)}
}

func (e *ParallelRolloutEvaluator) Evaluate(ctx context.Context, states []*game.State) ([]Evaluation, error) {
	seeds := make([]uint64, len(states))
	e.mu.Lock()
	for i := range seeds {
		seeds[i] = e.seeds.Uint64() | 1
	}
	e.mu.Unlock()

	results := make([]Evaluation, len(states))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, state := range states {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = rollout(random.New(seeds[i]), state)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// rollout returns the final score for the player to move in state, with uniform priors over
// the state's legal moves.
func rollout(rng *rand.Rand, state *game.State) Evaluation {
	player := state.Player()
	moves := state.LegalMoves()
	priors := make(map[int]float64, len(moves))
	for _, move := range moves {
		priors[move] = 1 / float64(len(moves))
	}

	// A random permutation of the empty cells is a uniformly random playout
	order := append([]int(nil), moves...)
	rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	sim := state.Clone()
	for _, move := range order {
		if sim.Terminal() {
			break
		}
		_ = sim.Play(move) // cells of order are empty until played
	}

	outcome, _ := sim.Outcome()
	return Evaluation{Value: outcome.Score(player), Priors: priors}
}

func validateEvaluation(e Evaluation) error {
	if math.IsNaN(e.Value) || e.Value < -1 || e.Value > 1 {
		return fmt.Errorf("%w: value %v outside [-1, 1]", ErrMalformedEvaluation, e.Value)
	}
	for move, prior := range e.Priors {
		if math.IsNaN(prior) || math.IsInf(prior, 0) || prior < 0 {
			return fmt.Errorf("%w: prior %v for move %d", ErrMalformedEvaluation, prior, move)
		}
	}
	return nil
}
