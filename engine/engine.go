package engine

import (
	"context"

	"gomoku/experiments/metrics"
	"gomoku/game"
)

type Engine interface {
	// Run plays a game till there's a winner or the board is full
	Run(ctx context.Context) (game.Outcome, metrics.GameMetric, []metrics.MoveMetric, error)
}
