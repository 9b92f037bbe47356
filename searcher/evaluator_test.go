package searcher

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"gomoku/game"
)

func TestRolloutEvaluator(t *testing.T) {
	t.Run("scoring finished rollouts with uniform first-ply priors", func(t *testing.T) {
		e := NewRolloutEvaluator(1)
		state := newState(t, 9, 5, 40)
		results, err := e.Evaluate(context.Background(), []*game.State{state, game.NewState(9, 5)})
		require.NoError(t, err)
		require.Len(t, results, 2)

		for _, result := range results {
			require.Contains(t, []float64{-1, 0, 1}, result.Value)
		}
		require.Len(t, results[0].Priors, 80)
		require.NotContains(t, results[0].Priors, 40)
		for _, prior := range results[0].Priors {
			require.InDelta(t, 1.0/80, prior, 1e-12)
		}
		require.Equal(t, []int{40}, state.History(), "Rollouts should run on a copy")
	})

	t.Run("scoring a finished game for the player to move", func(t *testing.T) {
		// Black completed row 0, white is to move and has lost
		over := newState(t, 3, 3, 0, 3, 1, 4, 2)
		results, err := NewRolloutEvaluator(1).Evaluate(context.Background(), []*game.State{over})
		require.NoError(t, err)
		require.Equal(t, -1.0, results[0].Value)
	})

	t.Run("scoring a forced draw as zero", func(t *testing.T) {
		// One empty cell left and it cannot complete a line
		state := newState(t, 3, 3, 0, 1, 2, 4, 3, 5, 7, 6)
		results, err := NewRolloutEvaluator(1).Evaluate(context.Background(), []*game.State{state})
		require.NoError(t, err)
		require.Equal(t, 0.0, results[0].Value)
		require.Equal(t, map[int]float64{8: 1}, results[0].Priors)
	})

	t.Run("stopping on a cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewRolloutEvaluator(1).Evaluate(ctx, []*game.State{game.NewState(9, 5)})
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestParallelRolloutEvaluator(t *testing.T) {
	states := make([]*game.State, 16)
	for i := range states {
		states[i] = newState(t, 9, 5, i)
	}

	t.Run("returning one result per state in order", func(t *testing.T) {
		results, err := NewParallelRolloutEvaluator(4, 3).Evaluate(context.Background(), states)
		require.NoError(t, err)
		require.Len(t, results, len(states))
		for i, result := range results {
			require.NotContains(t, result.Priors, i, "Priors should belong to state %d", i)
			require.Len(t, result.Priors, 80)
		}
	})

	t.Run("producing the same values for the same seed", func(t *testing.T) {
		first, err := NewParallelRolloutEvaluator(4, 3).Evaluate(context.Background(), states)
		require.NoError(t, err)
		second, err := NewParallelRolloutEvaluator(2, 3).Evaluate(context.Background(), states)
		require.NoError(t, err)
		require.Equal(t, first, second, "Worker count should not change results")
	})

	t.Run("driving a search", func(t *testing.T) {
		m, err := NewMCTS(WithIterations(64), WithEvaluator(NewParallelRolloutEvaluator(4, 5)), WithSeed(5))
		require.NoError(t, err)
		result, err := m.Search(context.Background(), NewRoot(), game.NewState(9, 5))
		require.NoError(t, err)
		require.NotNil(t, result.Selected)
	})

	t.Run("stopping on a cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewParallelRolloutEvaluator(2, 1).Evaluate(ctx, states)
		require.ErrorIs(t, err, context.Canceled)
	})
}
