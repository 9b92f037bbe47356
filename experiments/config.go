package experiments

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"gomoku/experiments/metrics"
	"gomoku/game"
	"gomoku/searcher"
)

// Agent kinds
const (
	KindEvaluation = "evaluation" // Plays the most visited move
	KindTraining   = "training"   // Samples moves in proportion to visits
	KindRandom     = "random"     // Uniformly random legal moves
)

var ErrInvalidConfig = errors.New("invalid experiment config")

type AgentConfig struct {
	ID             int     `yaml:"id"`
	Kind           string  `yaml:"kind"`
	Iterations     int     `yaml:"iterations,omitempty"`
	DurationMs     int     `yaml:"duration_ms,omitempty"`
	BatchSize      int     `yaml:"batch_size,omitempty"`
	Noise          bool    `yaml:"noise,omitempty"`
	Tau            float64 `yaml:"tau,omitempty"`
	RolloutWorkers int     `yaml:"rollout_workers,omitempty"`
	Seed           uint64  `yaml:"seed,omitempty"`
}

// Matchup pairs two agent ids, the first one plays black.
type Matchup struct {
	Black int `yaml:"black"`
	White int `yaml:"white"`
}

type Config struct {
	Name       string        `yaml:"name"`
	BoardSize  int           `yaml:"board_size"`
	LineLength int           `yaml:"line_length"`
	Games      int           `yaml:"games"` // Per matchup
	Output     string        `yaml:"output"`
	Alternate  bool          `yaml:"alternate"` // Swap colors every other game
	Agents     []AgentConfig `yaml:"agents"`
	Matchups   []Matchup     `yaml:"matchups"`
}

// DefaultConfig pits a 400 iteration search against a random baseline and itself.
func DefaultConfig() Config {
	return Config{
		Name:       "baseline",
		BoardSize:  9,
		LineLength: game.DefaultLineLength,
		Games:      10,
		Output:     "results",
		Alternate:  true,
		Agents: []AgentConfig{
			{ID: 1, Kind: KindEvaluation, Iterations: 400},
			{ID: 2, Kind: KindRandom},
			{ID: 3, Kind: KindTraining, Iterations: 400, Noise: true, RolloutWorkers: 4},
		},
		Matchups: []Matchup{
			{Black: 1, White: 2},
			{Black: 1, White: 3},
		},
	}
}

// LoadConfig reads a YAML config. Fields missing from the file keep their DefaultConfig value.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	config := DefaultConfig()
	config.Agents, config.Matchups = nil, nil
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

func (c Config) Validate() error {
	if c.BoardSize < 1 {
		return fmt.Errorf("%w: board size %d", ErrInvalidConfig, c.BoardSize)
	}
	if c.LineLength < 1 {
		return fmt.Errorf("%w: line length %d", ErrInvalidConfig, c.LineLength)
	}
	if c.Games < 1 {
		return fmt.Errorf("%w: %d games per matchup", ErrInvalidConfig, c.Games)
	}
	if len(c.Matchups) == 0 {
		return fmt.Errorf("%w: no matchups", ErrInvalidConfig)
	}

	ids := make(map[int]bool, len(c.Agents))
	for _, agent := range c.Agents {
		if ids[agent.ID] {
			return fmt.Errorf("%w: duplicate agent id %d", ErrInvalidConfig, agent.ID)
		}
		ids[agent.ID] = true
		switch agent.Kind {
		case KindEvaluation, KindTraining:
			if agent.Iterations <= 0 && agent.DurationMs <= 0 {
				return fmt.Errorf("%w: agent %d has no search budget", ErrInvalidConfig, agent.ID)
			}
			if agent.Tau < 0 {
				return fmt.Errorf("%w: agent %d has negative tau", ErrInvalidConfig, agent.ID)
			}
		case KindRandom:
		default:
			return fmt.Errorf("%w: agent %d has unknown kind %q", ErrInvalidConfig, agent.ID, agent.Kind)
		}
	}
	for _, matchup := range c.Matchups {
		if !ids[matchup.Black] || !ids[matchup.White] {
			return fmt.Errorf("%w: matchup %d vs %d names an unknown agent", ErrInvalidConfig, matchup.Black, matchup.White)
		}
	}
	return nil
}

func (c Config) agent(id int) AgentConfig {
	for _, agent := range c.Agents {
		if agent.ID == id {
			return agent
		}
	}
	panic(fmt.Sprintf("unknown agent %d", id))
}

func (a AgentConfig) duration() time.Duration {
	return time.Duration(a.DurationMs) * time.Millisecond
}

// tau used by the agent's searches, defaulting by kind.
func (a AgentConfig) tau() float64 {
	switch {
	case a.Tau > 0:
		return a.Tau
	case a.Kind == KindTraining:
		return 1
	default:
		return searcher.DefaultTau
	}
}

func (a AgentConfig) record() metrics.AgentConfig {
	tau := 0.0
	if a.Kind != KindRandom {
		tau = a.tau()
	}
	return metrics.AgentConfig{
		ID:             a.ID,
		Kind:           a.Kind,
		Iterations:     a.Iterations,
		Duration:       a.duration(),
		Noise:          a.Noise,
		Tau:            tau,
		RolloutWorkers: a.RolloutWorkers,
		Seed:           a.Seed,
	}
}
