package agent

import (
	"context"

	"gomoku/experiments/metrics"
	"gomoku/game"
)

type Agent interface {
	// FindMove returns the move to play in state and performance metrics (if collected) from the search
	FindMove(ctx context.Context, state *game.State) (int, metrics.SearchMetric, error)
	// Observe is told every move committed to the game, by either player
	Observe(move int)
}
