package engine

import (
	"time"

	"pursuit/agent"
	"pursuit/experiments/metrics"
	"pursuit/game"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

var _ Engine = (*Local)(nil)

// StepHook observes the world after every real-world step.
type StepHook func(step int, world *game.World)

type Local struct {
	World    *game.World
	rng      *rand.Rand
	maxSteps int
	onStep   StepHook
}

// NewLocal plays episodes on world, drawing the move order from rng.
func NewLocal(world *game.World, rng *rand.Rand, maxSteps int) *Local {
	if world == nil || rng == nil {
		panic("engine needs a world and a random source")
	}
	if maxSteps <= 0 {
		maxSteps = MaxSteps
	}
	return &Local{
		World:    world,
		rng:      rng,
		maxSteps: maxSteps,
	}
}

// OnStep registers a hook called after every step.
func (e *Local) OnStep(hook StepHook) {
	e.onStep = hook
}

// Run executes the episode loop until the prey is captured or the step limit is reached.
func (e *Local) Run() (metrics.EpisodeMetric, []metrics.StepMetric) {
	episode := metrics.EpisodeMetric{StartTime: time.Now()}
	var stepMetrics []metrics.StepMetric

	log.Debug().Msgf("episode starting in %v", e.World.State())

	step := 0
	for !e.World.Captured() && step < e.maxSteps {
		e.World.Step(e.rng)
		step++

		for i := 0; i < e.World.NumAgents(); i++ {
			if s, ok := e.World.Behavior(i).(agent.Searcher); ok {
				stepMetrics = append(stepMetrics, metrics.StepMetric{
					Step:         step,
					Agent:        i,
					SearchMetric: s.LastSearch(),
				})
			}
		}

		state := e.World.State()
		log.Trace().Uint64("hash", uint64(state.Hash())).Msgf("step %d: %v", step, state)
		if e.onStep != nil {
			e.onStep(step, e.World)
		}
	}

	episode.Captured = e.World.Captured()
	episode.Steps = step
	episode.EndTime = time.Now()
	episode.Duration = episode.EndTime.Sub(episode.StartTime)

	log.Debug().Bool("captured", episode.Captured).Msgf("episode ended after %d steps", step)
	return episode, stepMetrics
}
