package searcher

import (
	"fmt"
	"time"

	"pursuit/experiments/metrics"
	"pursuit/utils"

	"github.com/rs/zerolog/log"
)

type Option func(s *settings)

type settings struct {
	rollouts int
	duration time.Duration
	depth    int
	metrics  bool
}

// WithRollouts runs a fixed number of rollouts per search.
func WithRollouts(rollouts int) Option {
	return func(s *settings) {
		if rollouts > 0 {
			s.rollouts = rollouts
		}
	}
}

// WithDuration runs rollouts until duration has elapsed. A fixed rollout count takes precedence.
func WithDuration(duration time.Duration) Option {
	return func(s *settings) {
		if duration > 0 {
			s.duration = duration
		}
	}
}

// WithDepth cuts every rollout off after depth steps.
func WithDepth(depth int) Option {
	return func(s *settings) {
		if depth > 0 {
			s.depth = depth
		}
	}
}

func WithMetrics() Option {
	return func(s *settings) {
		s.metrics = true
	}
}

// MCTS plans by repeated rollouts through a model, letting the estimator
// choose the actions and record what they returned. Statistics persist
// across searches until Restart.
type MCTS[S Key[S], A Action] struct {
	model     Model[S, A]
	estimator ValueEstimator[S, A]
	rollouts  int
	duration  time.Duration
	depth     int
	metrics   metrics.Collector
	searched  bool
}

func NewMCTS[S Key[S], A Action](model Model[S, A], estimator ValueEstimator[S, A], options ...Option) *MCTS[S, A] {
	s := settings{ // Default values
		depth: DefaultDepth,
	}
	for _, option := range options {
		option(&s)
	}
	if s.rollouts <= 0 && s.duration <= 0 {
		panic("Must specify search rollouts or duration")
	}
	if model == nil || estimator == nil {
		panic("MCTS needs a model and an estimator")
	}

	m := &MCTS[S, A]{
		model:     model,
		estimator: estimator,
		rollouts:  s.rollouts,
		duration:  s.duration,
		depth:     s.depth,
		metrics:   metrics.NewDummyCollector(),
	}
	if s.metrics {
		m.metrics = metrics.NewCollector()
	}
	return m
}

// Search plans from state and returns the action to execute in the real world.
func (m *MCTS[S, A]) Search(state S) (A, metrics.SearchMetric) {
	m.metrics.Start(m.depth)
	m.metrics.SetStatsReused(m.searched)
	m.model.ResetTo(state)

	if m.rollouts > 0 {
		m.iterate(state)
	} else {
		m.countdown(state)
	}
	m.searched = true
	metric := m.metrics.Complete()

	action := m.estimator.SelectWorldAction(state)
	log.Debug().
		Int("rollouts", metric.Rollouts).
		Int("maxDepth", metric.MaxDepth).
		Dur("duration", metric.Duration).
		Msgf("searched %v, selected %v", state, action)
	return action, metric
}

func (m *MCTS[S, A]) iterate(state S) {
	for i := 0; i < m.rollouts; i++ {
		m.rollout(state)
	}
}

func (m *MCTS[S, A]) countdown(state S) {
	start := time.Now()
	for done := false; !done; done = time.Since(start) >= m.duration {
		m.rollout(state)
	}
}

func (m *MCTS[S, A]) rollout(start S) {
	m.model.ResetTo(start)
	m.estimator.StartRollout()

	state := start
	terminal := false
	depth := 0
	// Simulate till terminal or for depth number of steps
	for !terminal && depth < m.depth {
		action := m.estimator.SelectPlanningAction(state)
		reward, next, done := m.model.Step(action)
		m.estimator.Visit(state, action, reward)
		state, terminal = next, done
		depth++
	}

	m.estimator.FinishRollout(state, terminal)
	m.metrics.AddRollout(depth, terminal)
}

// Restart forgets every statistic gathered by previous searches.
func (m *MCTS[S, A]) Restart() {
	m.estimator.Restart()
	m.searched = false
}

func (m *MCTS[S, A]) Describe(indent int) string {
	budget := fmt.Sprintf("rollouts=%d", m.rollouts)
	if m.rollouts <= 0 {
		budget = fmt.Sprintf("duration=%v", m.duration)
	}
	return fmt.Sprintf("%sMCTS: %s depth=%d\n%s\n%s",
		utils.Indent(indent), budget, m.depth, m.model.Describe(indent+1), m.estimator.Describe(indent+1))
}
