package experiments

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const smallConfig = `
name: small
board_size: 4
line_length: 3
games: 2
agents:
  - id: 1
    kind: evaluation
    iterations: 24
    batch_size: 4
    seed: 17
  - id: 2
    kind: random
    seed: 3
  - id: 3
    kind: training
    iterations: 16
    noise: true
    rollout_workers: 2
    seed: 5
matchups:
  - {black: 1, white: 2}
  - {black: 3, white: 1}
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func countRows(t *testing.T, path string) int {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return len(rows) - 1 // header
}

func TestLoadConfig(t *testing.T) {
	t.Run("reading agents and matchups", func(t *testing.T) {
		config, err := LoadConfig(writeConfig(t, smallConfig))
		require.NoError(t, err)
		require.Equal(t, "small", config.Name)
		require.Equal(t, 4, config.BoardSize)
		require.Equal(t, 3, config.LineLength)
		require.Len(t, config.Agents, 3)
		require.Equal(t, AgentConfig{ID: 3, Kind: KindTraining, Iterations: 16, Noise: true, RolloutWorkers: 2, Seed: 5}, config.Agents[2])
		require.Equal(t, []Matchup{{Black: 1, White: 2}, {Black: 3, White: 1}}, config.Matchups)
		require.Equal(t, DefaultConfig().Output, config.Output, "Missing fields should keep defaults")
	})

	t.Run("rejecting unknown agents", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "agents: [{id: 1, kind: random}]\nmatchups: [{black: 1, white: 9}]\n"))
		require.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("rejecting malformed files", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "board_size: [nine]"))
		require.Error(t, err)
		_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
	})
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	for name, mutate := range map[string]func(*Config){
		"board size":  func(c *Config) { c.BoardSize = 0 },
		"line length": func(c *Config) { c.LineLength = -1 },
		"games":       func(c *Config) { c.Games = 0 },
		"matchups":    func(c *Config) { c.Matchups = nil },
		"budget":      func(c *Config) { c.Agents[0].Iterations = 0 },
		"kind":        func(c *Config) { c.Agents[1].Kind = "oracle" },
		"duplicate":   func(c *Config) { c.Agents[1].ID = c.Agents[0].ID },
		"tau":         func(c *Config) { c.Agents[0].Tau = -1 },
	} {
		t.Run("rejecting an invalid "+name, func(t *testing.T) {
			config := DefaultConfig()
			mutate(&config)
			require.ErrorIs(t, config.Validate(), ErrInvalidConfig)
		})
	}
}

func TestAgentConfigTau(t *testing.T) {
	require.Equal(t, 0.001, AgentConfig{Kind: KindEvaluation}.tau())
	require.Equal(t, 1.0, AgentConfig{Kind: KindTraining}.tau())
	require.Equal(t, 0.5, AgentConfig{Kind: KindTraining, Tau: 0.5}.tau())
}

func TestRun(t *testing.T) {
	t.Run("playing every game and writing records", func(t *testing.T) {
		config, err := LoadConfig(writeConfig(t, smallConfig))
		require.NoError(t, err)
		config.Output = t.TempDir()

		dir, err := Run(context.Background(), config)
		require.NoError(t, err)
		require.Equal(t, 3, countRows(t, filepath.Join(dir, "agent_configs.csv")))
		require.Equal(t, 4, countRows(t, filepath.Join(dir, "game_records.csv")))
		require.Positive(t, countRows(t, filepath.Join(dir, "move_records.csv")))
	})

	t.Run("failing on an invalid config", func(t *testing.T) {
		config := DefaultConfig()
		config.Games = 0
		_, err := Run(context.Background(), config)
		require.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("stopping on a cancelled context", func(t *testing.T) {
		config := DefaultConfig()
		config.Output = t.TempDir()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := Run(ctx, config)
		require.ErrorIs(t, err, context.Canceled)
	})
}
