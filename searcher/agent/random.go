package agent

import (
	"context"
	"fmt"

	"golang.org/x/exp/rand"

	"gomoku/experiments/metrics"
	"gomoku/game"
	"gomoku/random"
)

type randomAgent struct {
	rng *rand.Rand
}

// NewRandomAgent returns a baseline agent playing uniformly random legal moves.
func NewRandomAgent(seed uint64) Agent {
	return randomAgent{rng: random.New(seed)}
}

func (a randomAgent) FindMove(ctx context.Context, state *game.State) (int, metrics.SearchMetric, error) {
	move, err := random.WeightedPick(a.rng, state.LegalMoves(), nil)
	if err != nil {
		return 0, metrics.SearchMetric{}, fmt.Errorf("no legal move: %w", err)
	}
	return move, metrics.SearchMetric{}, nil
}

func (a randomAgent) Observe(move int) {}
