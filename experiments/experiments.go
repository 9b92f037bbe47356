package experiments

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"gomoku/engine"
	"gomoku/experiments/metrics"
	"gomoku/game"
	"gomoku/searcher"
	"gomoku/searcher/agent"
)

// Run plays config.Games games for every matchup and stores the agent configs, game records
// and move records as CSV files. It returns the directory holding them.
func Run(ctx context.Context, config Config) (string, error) {
	if err := config.Validate(); err != nil {
		return "", err
	}

	count := 0
	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}

	log.Info().Msgf("starting %s experiment...", config.Name)

	for mi, matchup := range config.Matchups {
		log.Info().Msgf("starting matchup %d of %d between agent %d and agent %d...", mi+1, len(config.Matchups), matchup.Black, matchup.White)

		wins := map[int]int{}
		draws := 0
		for i := 0; i < config.Games; i++ {
			black, white := config.agent(matchup.Black), config.agent(matchup.White)
			if config.Alternate && i%2 == 1 {
				black, white = white, black
			}

			outcome, gameMetric, moveMetrics, err := runGame(ctx, config, black, white, count)
			if err != nil {
				return "", fmt.Errorf("failed to play matchup %d game %d: %w", mi+1, i+1, err)
			}
			gameRecords = append(gameRecords, metrics.GameRecord{
				ID:         count,
				Black:      black.ID,
				White:      white.ID,
				Result:     outcome.String(),
				GameMetric: gameMetric,
			})
			for _, mm := range moveMetrics {
				moveRecords = append(moveRecords, metrics.MoveRecord{
					Game:       count,
					MoveMetric: mm,
				})
			}
			switch outcome.Winner {
			case game.Black:
				wins[black.ID]++
			case game.White:
				wins[white.ID]++
			default:
				draws++
			}
			count++

			log.Info().Msgf("completed matchup %d of %d game %d in %d moves with result: %s", mi+1, len(config.Matchups), i+1, gameMetric.TotalMoves, outcome)
		}
		log.Info().Msgf("completed matchup %d of %d: agent %d won %d, agent %d won %d, %d draws",
			mi+1, len(config.Matchups), matchup.Black, wins[matchup.Black], matchup.White, wins[matchup.White], draws)
	}

	log.Info().Msgf("completed %s experiment", config.Name)

	writer, err := metrics.NewWriter(filepath.Join(config.Output, config.Name))
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}

	configs := make([]metrics.AgentConfig, len(config.Agents))
	for i, a := range config.Agents {
		configs[i] = a.record()
	}
	if err := writer.WriteAgentConfigs(configs); err != nil {
		return "", fmt.Errorf("failed to store agent configs: %w", err)
	}
	log.Info().Msg("stored agent configs")

	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return "", fmt.Errorf("failed to store game records: %w", err)
	}
	log.Info().Msg("stored game records")

	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return "", fmt.Errorf("failed to store move records: %w", err)
	}
	log.Info().Msg("stored move records")

	return writer.Dir(), nil
}

// runGame plays a single game between freshly built agents
func runGame(ctx context.Context, config Config, black, white AgentConfig, gameID int) (game.Outcome, metrics.GameMetric, []metrics.MoveMetric, error) {
	blackAgent, err := newAgent(black, gameID)
	if err != nil {
		return game.Outcome{}, metrics.GameMetric{}, nil, err
	}
	whiteAgent, err := newAgent(white, gameID)
	if err != nil {
		return game.Outcome{}, metrics.GameMetric{}, nil, err
	}
	e := engine.NewLocalEngine(config.BoardSize, config.LineLength, blackAgent, whiteAgent)
	return e.Run(ctx)
}

// newAgent builds the agent of config for one game. Seeded agents get a different seed
// every game so repeated games differ but replay identically.
func newAgent(config AgentConfig, gameID int) (agent.Agent, error) {
	seed := config.Seed
	if seed != 0 {
		seed += uint64(gameID)
	}
	if config.Kind == KindRandom {
		return agent.NewRandomAgent(seed), nil
	}

	options := []searcher.Option{
		searcher.WithIterations(config.Iterations),
		searcher.WithDuration(config.duration()),
		searcher.WithSeed(seed),
		searcher.WithMetrics(),
	}
	if config.BatchSize > 0 {
		options = append(options, searcher.WithBatchSize(config.BatchSize))
	}
	if config.Noise {
		options = append(options, searcher.WithNoise())
	}
	if config.RolloutWorkers > 1 {
		evaluatorSeed := seed
		if evaluatorSeed != 0 {
			evaluatorSeed = ^seed
		}
		options = append(options, searcher.WithEvaluator(searcher.NewParallelRolloutEvaluator(config.RolloutWorkers, evaluatorSeed)))
	}

	mcts, err := searcher.NewMCTS(options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create agent %d: %w", config.ID, err)
	}
	return agent.NewMCTSAgent(mcts, config.tau()), nil
}
