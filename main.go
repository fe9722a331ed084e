package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"pursuit/config"
	"pursuit/experiments"
	"pursuit/experiments/metrics"
	"pursuit/game"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "", "YAML experiment config, defaults to the 5x5 one-predator setting")
	seed := flag.Uint64("seed", 0, "Base seed overriding the config, 0 keeps the config's seed")
	trials := flag.Int("trials", 0, "Number of trials overriding the config")
	out := flag.String("out", "experiments", "Directory the results are written under")
	name := flag.String("name", "pursuit", "Experiment name")
	format := flag.String("format", "csv", "Result format: csv, parquet or both")
	chart := flag.Bool("chart", false, "Write an HTML chart of the steps per trial")
	render := flag.Bool("render", false, "Print the grid after every step (runs a single worker)")
	colors := flag.Bool("colors", true, "Use colors when rendering the grid")
	level := flag.String("log-level", "info", "Log level: trace, debug, info, warn, error")
	workers := flag.Int("workers", 1, "Trials run concurrently")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	lvl, err := zerolog.ParseLevel(*level)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid log level")
	}
	zerolog.SetGlobalLevel(lvl)

	cfg := config.Default()
	if *configPath != "" {
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatal().Err(err).Msg("failed to load config")
		}
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if *trials > 0 {
		cfg.Trials = *trials
	}

	formats, err := parseFormats(*format)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid format")
	}
	formats.Chart = *chart

	options := experiments.Options{Workers: *workers, Name: *name}
	if *render {
		options.OnStep = func(step int, world *game.World) {
			fmt.Printf("step %d\n", step)
			if err := game.Render(os.Stdout, world, *colors); err != nil {
				log.Error().Err(err).Msg("failed to render grid")
			}
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := experiments.Run(ctx, cfg, options)
	if err != nil {
		log.Fatal().Err(err).Msg("experiment failed")
	}

	writer, err := metrics.NewWriter(*out, *name)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create experiment writer")
	}
	if err := experiments.Write(writer, cfg, results, formats); err != nil {
		log.Fatal().Err(err).Msg("failed to store results")
	}

	summary := experiments.Summarize(results.Trials)
	log.Info().Str("dir", writer.Dir()).Uint64("seed", results.Seed).Msg(summary.String())
}

func parseFormats(format string) (experiments.Formats, error) {
	switch strings.ToLower(format) {
	case "csv":
		return experiments.Formats{CSV: true}, nil
	case "parquet":
		return experiments.Formats{Parquet: true}, nil
	case "both":
		return experiments.Formats{CSV: true, Parquet: true}, nil
	}
	return experiments.Formats{}, fmt.Errorf("unknown format %q", format)
}
