package experiments

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"pursuit/config"
	"pursuit/experiments/metrics"
	"pursuit/game"

	"github.com/stretchr/testify/require"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Seed = 17
	cfg.Trials = 4
	cfg.MaxSteps = 50
	cfg.Planner.Rollouts = 100
	return cfg
}

func TestRun(t *testing.T) {
	t.Run("results do not depend on the worker count", func(t *testing.T) {
		sequential, err := Run(context.Background(), testConfig(), Options{Workers: 1})
		require.NoError(t, err)
		parallel, err := Run(context.Background(), testConfig(), Options{Workers: 4})
		require.NoError(t, err)

		require.Len(t, sequential.Trials, 4)
		require.Len(t, parallel.Trials, 4)
		for i := range sequential.Trials {
			s, p := sequential.Trials[i], parallel.Trials[i]
			require.Equal(t, i, s.Trial)
			require.Equal(t, uint64(17+i), s.Seed)
			require.Equal(t, s.Seed, p.Seed)
			require.Equal(t, s.Steps, p.Steps, "Trial %d should replay identically", i)
			require.Equal(t, s.Captured, p.Captured)
		}
		require.Len(t, parallel.Steps, len(sequential.Steps))
	})

	t.Run("draws a seed when none is set", func(t *testing.T) {
		cfg := testConfig()
		cfg.Seed = 0
		cfg.Trials = 1
		results, err := Run(context.Background(), cfg, Options{Workers: 2})
		require.NoError(t, err)
		require.NotZero(t, results.Seed)
		require.Equal(t, results.Seed, results.Trials[0].Seed)
	})

	t.Run("calls the step hook", func(t *testing.T) {
		cfg := testConfig()
		cfg.Trials = 2
		steps := 0
		results, err := Run(context.Background(), cfg, Options{
			Workers: 8,
			OnStep:  func(int, *game.World) { steps++ },
		})
		require.NoError(t, err)
		require.Equal(t, results.Trials[0].Steps+results.Trials[1].Steps, steps)
	})

	t.Run("rejects invalid configs", func(t *testing.T) {
		cfg := testConfig()
		cfg.Trials = 0
		_, err := Run(context.Background(), cfg, Options{})
		require.ErrorIs(t, err, config.ErrInvalid)
	})

	t.Run("stops when cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := Run(ctx, testConfig(), Options{Workers: 1})
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestWrite(t *testing.T) {
	cfg := testConfig()
	cfg.Trials = 2
	results, err := Run(context.Background(), cfg, Options{Workers: 2})
	require.NoError(t, err)

	writer, err := metrics.NewWriter(t.TempDir(), "write")
	require.NoError(t, err)
	require.NoError(t, Write(writer, cfg, results, Formats{CSV: true, Parquet: true, Chart: true}))

	for _, name := range []string{"setup.yaml", "trials.csv", "steps.csv", "trials.parquet", "steps.parquet", "chart.html"} {
		_, err := os.Stat(filepath.Join(writer.Dir(), name))
		require.NoError(t, err, "Should write %s", name)
	}

	loaded, err := config.Load(filepath.Join(writer.Dir(), "setup.yaml"))
	require.NoError(t, err, "The stored setup should load as a config")
	require.Equal(t, cfg, loaded)
}

func TestSummarize(t *testing.T) {
	t.Run("no trials", func(t *testing.T) {
		require.Equal(t, Summary{}, Summarize(nil))
	})

	t.Run("statistics over steps", func(t *testing.T) {
		trial := func(steps int, captured bool) metrics.TrialRecord {
			return metrics.TrialRecord{EpisodeMetric: metrics.EpisodeMetric{Steps: steps, Captured: captured}}
		}
		summary := Summarize([]metrics.TrialRecord{trial(4, true), trial(10, true), trial(2, true), trial(500, false)})

		require.Equal(t, 4, summary.Trials)
		require.Equal(t, 3, summary.Captures)
		require.InDelta(t, 0.75, summary.CaptureRate, 1e-12)
		require.InDelta(t, 129, summary.Mean, 1e-12)
		require.Equal(t, 7.0, summary.Median, "Even counts should average the middle pair")
		require.Equal(t, 2.0, summary.Min)
		require.Equal(t, 500.0, summary.Max)
		require.InDelta(t, 214.218, summary.StdDev, 0.01)
	})

	t.Run("single trial has no spread", func(t *testing.T) {
		summary := Summarize([]metrics.TrialRecord{{EpisodeMetric: metrics.EpisodeMetric{Steps: 7}}})
		require.Zero(t, summary.StdDev)
		require.Equal(t, 7.0, summary.Median)
	})

	t.Run("odd count takes the middle value", func(t *testing.T) {
		trial := func(steps int) metrics.TrialRecord {
			return metrics.TrialRecord{EpisodeMetric: metrics.EpisodeMetric{Steps: steps}}
		}
		summary := Summarize([]metrics.TrialRecord{trial(9), trial(1), trial(3)})
		require.Equal(t, 3.0, summary.Median)
		require.InDelta(t, 3.399, summary.StdDev, 0.001)
	})
}
