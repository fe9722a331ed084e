package experiments

import (
	"context"
	"fmt"
	"sync/atomic"

	"pursuit/agent"
	"pursuit/config"
	"pursuit/engine"
	"pursuit/experiments/metrics"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
	"lukechampine.com/frand"
)

type Options struct {
	Workers int             // Trials run concurrently, at least 1
	OnStep  engine.StepHook // Forces a single worker when set
	Name    string          // Used in log lines only
}

type Results struct {
	Seed   uint64 // Base seed, trial i uses Seed+i
	Trials []metrics.TrialRecord
	Steps  []metrics.StepRecord
}

// Run plays cfg.Trials independent episodes. Each trial owns a random source
// seeded from the base seed and its index, so results do not depend on the
// number of workers.
func Run(ctx context.Context, cfg config.Config, options Options) (Results, error) {
	if err := cfg.Validate(); err != nil {
		return Results{}, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = frand.Uint64n(1<<63) + 1
		log.Info().Uint64("seed", seed).Msg("drew a fresh base seed")
	}

	workers := options.Workers
	if workers <= 0 || options.OnStep != nil {
		workers = 1
	}

	trials := make([]metrics.TrialRecord, cfg.Trials)
	steps := make([][]metrics.StepRecord, cfg.Trials)
	var completed atomic.Int32

	log.Info().Msgf("starting %s experiment with %d trials on %d workers...", options.Name, cfg.Trials, workers)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < cfg.Trials; i++ {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			trialSeed := seed + uint64(i)
			episode, stepMetrics, err := runTrial(cfg, trialSeed, options.OnStep)
			if err != nil {
				return fmt.Errorf("trial %d: %w", i, err)
			}

			trials[i] = metrics.TrialRecord{Trial: i, Seed: trialSeed, EpisodeMetric: episode}
			records := make([]metrics.StepRecord, len(stepMetrics))
			for j, sm := range stepMetrics {
				records[j] = metrics.StepRecord{Trial: i, StepMetric: sm}
			}
			steps[i] = records

			done := completed.Add(1)
			log.Info().Bool("captured", episode.Captured).Msgf("completed trial %d (%d of %d) in %d steps", i, done, cfg.Trials, episode.Steps)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Results{}, err
	}

	results := Results{Seed: seed, Trials: trials}
	for _, s := range steps {
		results.Steps = append(results.Steps, s...)
	}
	log.Info().Msgf("completed %s experiment", options.Name)
	return results, nil
}

func runTrial(cfg config.Config, seed uint64, onStep engine.StepHook) (metrics.EpisodeMetric, []metrics.StepMetric, error) {
	rng := rand.New(rand.NewSource(seed))
	world, err := agent.NewWorld(cfg, rng)
	if err != nil {
		return metrics.EpisodeMetric{}, nil, err
	}

	e := engine.NewLocal(world, rng, cfg.MaxSteps)
	if onStep != nil {
		e.OnStep(onStep)
	}
	episode, stepMetrics := e.Run()
	return episode, stepMetrics, nil
}

// Formats selects the outputs of Write. The setup is always written.
type Formats struct {
	CSV     bool
	Parquet bool
	Chart   bool
}

// Write stores the setup and the results in the requested formats.
func Write(w *metrics.Writer, cfg config.Config, results Results, formats Formats) error {
	setup := cfg
	setup.Seed = results.Seed
	if err := w.WriteSetup(setup); err != nil {
		return err
	}
	log.Info().Msg("stored setup")

	if formats.CSV {
		if err := w.WriteTrialRecords(results.Trials); err != nil {
			return err
		}
		if err := w.WriteStepRecords(results.Steps); err != nil {
			return err
		}
		log.Info().Msg("stored csv records")
	}
	if formats.Parquet {
		if err := w.WriteTrialParquet(results.Trials); err != nil {
			return err
		}
		if err := w.WriteStepParquet(results.Steps); err != nil {
			return err
		}
		log.Info().Msg("stored parquet records")
	}
	if formats.Chart {
		title := fmt.Sprintf("%dx%d pursuit, %d agents", cfg.World.Width, cfg.World.Height, len(cfg.Agents))
		if err := w.WriteChart(title, results.Trials); err != nil {
			return err
		}
		log.Info().Msg("stored chart")
	}
	return nil
}
