package engine

import "pursuit/experiments/metrics"

// MaxSteps is the default real-world step limit of an episode.
const MaxSteps = 500

type Engine interface {
	// Run plays an episode till the prey is captured or a max number of steps is reached
	Run() (episode metrics.EpisodeMetric, stepMetrics []metrics.StepMetric)
}
