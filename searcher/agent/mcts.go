package agent

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"gomoku/experiments/metrics"
	"gomoku/game"
	"gomoku/searcher"
)

// mctsAgent keeps its search tree between moves and advances it past every observed move.
type mctsAgent struct {
	mcts *searcher.MCTS
	tau  float64
	root *searcher.Node
}

// NewEvaluationAgent returns a new agent for actual game play, playing the most visited move.
func NewEvaluationAgent(mcts *searcher.MCTS) Agent {
	return NewMCTSAgent(mcts, searcher.DefaultTau)
}

// NewTrainingAgent returns a new agent for self-play, sampling moves in proportion to visits.
func NewTrainingAgent(mcts *searcher.MCTS) Agent {
	return NewMCTSAgent(mcts, 1)
}

func NewMCTSAgent(mcts *searcher.MCTS, tau float64) Agent {
	return &mctsAgent{mcts: mcts, tau: tau, root: searcher.NewRoot()}
}

func (a *mctsAgent) FindMove(ctx context.Context, state *game.State) (int, metrics.SearchMetric, error) {
	result, err := a.mcts.Search(ctx, a.root, state, searcher.WithTau(a.tau))
	if err != nil {
		return 0, metrics.SearchMetric{}, fmt.Errorf("failed to search: %w", err)
	}
	return result.Selected.Action, result.Metric, nil
}

func (a *mctsAgent) Observe(move int) {
	next, err := a.root.Advance(move)
	if err != nil {
		log.Warn().Msgf("resetting search tree: %v", err)
		a.root = searcher.NewRoot()
		return
	}
	a.root = next
}
