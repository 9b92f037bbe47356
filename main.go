package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"gomoku/experiments"
)

func main() {
	configPath := flag.String("config", "", "YAML experiment config, defaults to the baseline experiment")
	out := flag.String("out", "", "Directory for experiment results, overrides the config")
	games := flag.Int("games", 0, "Games per matchup, overrides the config")
	debug := flag.Bool("debug", false, "Log every move and search")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	config := experiments.DefaultConfig()
	if *configPath != "" {
		var err error
		config, err = experiments.LoadConfig(*configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load config")
		}
	}
	if *out != "" {
		config.Output = *out
	}
	if *games > 0 {
		config.Games = *games
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	dir, err := experiments.Run(ctx, config)
	if err != nil {
		log.Fatal().Err(err).Msg("experiment failed")
	}
	log.Info().Msgf("results stored in %s", dir)
}
