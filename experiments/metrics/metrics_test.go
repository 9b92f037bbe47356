package metrics

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	t.Run("counting search events", func(t *testing.T) {
		c := NewCollector()
		c.Start(8)
		c.SetTreeReused(true)
		for i := 0; i < 10; i++ {
			c.AddIteration()
		}
		c.AddTerminal()
		c.AddBatch(8)
		c.AddBatch(1)

		metric := c.Complete()
		require.Equal(t, 8, metric.BatchSize)
		require.Equal(t, 10, metric.Iterations)
		require.Equal(t, 1, metric.Terminals)
		require.Equal(t, 2, metric.Batches)
		require.Equal(t, 9, metric.Evaluations)
		require.True(t, metric.IsTreeReused)
		require.False(t, metric.Cancelled)
	})

	t.Run("resetting counters on start", func(t *testing.T) {
		c := NewCollector()
		c.Start(8)
		c.AddIteration()
		c.SetCancelled()
		c.Start(8)
		metric := c.Complete()
		require.Zero(t, metric.Iterations)
		require.False(t, metric.Cancelled)
	})

	t.Run("discarding everything in the dummy", func(t *testing.T) {
		c := NewDummyCollector()
		c.Start(8)
		c.AddIteration()
		require.Equal(t, SearchMetric{}, c.Complete())
	})
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriter(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	require.NoError(t, err)

	t.Run("writing agent configs", func(t *testing.T) {
		err := w.WriteAgentConfigs([]AgentConfig{
			{ID: 1, Kind: "mcts", Iterations: 200, Tau: 0.001, RolloutWorkers: 4, Seed: 7},
			{ID: 2, Kind: "random"},
		})
		require.NoError(t, err)
		rows := readCSV(t, filepath.Join(w.Dir(), "agent_configs.csv"))
		require.Len(t, rows, 3)
		require.Equal(t, "id", rows[0][0])
		require.Equal(t, []string{"1", "mcts", "200", "0s", "false", "0.001", "4", "7"}, rows[1])
	})

	t.Run("writing game and move records", func(t *testing.T) {
		start := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
		err := w.WriteGameRecords([]GameRecord{{
			ID: 0, Black: 1, White: 2, Result: "black",
			GameMetric: GameMetric{StartingPlayer: 1, Winner: 1, StartTime: start, EndTime: start.Add(time.Second), Duration: time.Second, TotalMoves: 9},
		}})
		require.NoError(t, err)
		games := readCSV(t, filepath.Join(w.Dir(), "game_records.csv"))
		require.Len(t, games, 2)
		require.Equal(t, "black", games[1][3])
		require.Equal(t, "9", games[1][5])
		require.Equal(t, "2024-01-02T03:04:05Z", games[1][6])

		err = w.WriteMoveRecords([]MoveRecord{{
			Game:       0,
			MoveMetric: MoveMetric{Step: 3, Player: -1, Move: 40, SearchMetric: SearchMetric{Iterations: 200, Batches: 25, IsTreeReused: true}},
		}})
		require.NoError(t, err)
		moves := readCSV(t, filepath.Join(w.Dir(), "move_records.csv"))
		require.Len(t, moves, 2)
		require.Equal(t, []string{"0", "3", "-1", "40", "0s", "200", "0", "25", "0", "true", "false"}, moves[1])
	})
}
