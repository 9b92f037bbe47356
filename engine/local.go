package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"gomoku/experiments/metrics"
	"gomoku/game"
	"gomoku/searcher/agent"
)

// LocalEngine referees a game between two in-process agents. Black moves first.
type LocalEngine struct {
	size       int
	lineLength int
	black      agent.Agent
	white      agent.Agent
	state      *game.State
}

func NewLocalEngine(size, lineLength int, black, white agent.Agent) *LocalEngine {
	if black == nil || white == nil {
		panic("need two agents")
	}
	return &LocalEngine{
		size:       size,
		lineLength: lineLength,
		black:      black,
		white:      white,
	}
}

// State returns the position of the game being played or last played.
func (e *LocalEngine) State() *game.State {
	return e.state
}

// Run plays a fresh game. It fails on the first agent error, on an illegal move or when
// ctx is done between moves.
func (e *LocalEngine) Run(ctx context.Context) (game.Outcome, metrics.GameMetric, []metrics.MoveMetric, error) {
	e.state = game.NewState(e.size, e.lineLength)
	gameMetric := metrics.GameMetric{
		StartingPlayer: int(e.state.Player()),
		StartTime:      time.Now(),
	}
	var moveMetrics []metrics.MoveMetric

	log.Debug().Msgf("%s is starting on a %dx%d board", e.state.Player(), e.size, e.size)

	step := 1
	for !e.state.Terminal() {
		if err := ctx.Err(); err != nil {
			return game.Outcome{}, gameMetric, moveMetrics, err
		}

		player := e.state.Player()
		current := e.agent(player)
		move, searchMetric, err := current.FindMove(ctx, e.state.Clone())
		if err != nil {
			return game.Outcome{}, gameMetric, moveMetrics, fmt.Errorf("%s failed to find move %d: %w", player, step, err)
		}
		if err := e.state.Play(move); err != nil {
			return game.Outcome{}, gameMetric, moveMetrics, fmt.Errorf("%s played move %d: %w", player, step, err)
		}
		e.black.Observe(move)
		e.white.Observe(move)

		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         step,
			Player:       int(player),
			Move:         move,
			SearchMetric: searchMetric,
		})
		x, y := game.Coordinates(e.size, move)
		log.Debug().Msgf("move %d: %s plays (%d, %d) after %d iterations", step, player, x, y, searchMetric.Iterations)
		step++
	}

	outcome, _ := e.state.Outcome()
	gameMetric.Winner = int(outcome.Winner)
	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = len(moveMetrics)
	return outcome, gameMetric, moveMetrics, nil
}

func (e *LocalEngine) agent(player game.Player) agent.Agent {
	if player == game.Black {
		return e.black
	}
	return e.white
}
