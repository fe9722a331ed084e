package agent

import (
	"pursuit/experiments/metrics"
	"pursuit/game"
	"pursuit/searcher"

	"golang.org/x/exp/rand"
)

var _ searcher.Model[game.State, game.Action] = (*game.WorldMDP)(nil)

// Searcher is implemented by behaviors that plan before acting.
type Searcher interface {
	LastSearch() metrics.SearchMetric
}

// Planner acts in the real world by searching a simulated copy of it.
type Planner struct {
	name  string
	mcts  *searcher.MCTS[game.State, game.Action]
	reuse bool
	last  metrics.SearchMetric
}

// NewPlanner returns a behavior backed by mcts. Without reuse the search
// statistics are cleared before every real-world step.
func NewPlanner(name string, mcts *searcher.MCTS[game.State, game.Action], reuse bool) *Planner {
	return &Planner{name: name, mcts: mcts, reuse: reuse}
}

func (p *Planner) Act(obs game.Observation, _ *rand.Rand) game.Action {
	if !p.reuse {
		p.mcts.Restart()
	}
	action, metric := p.mcts.Search(obs.State())
	p.last = metric
	return action
}

func (p *Planner) Name() string {
	return p.name
}

func (p *Planner) LastSearch() metrics.SearchMetric {
	return p.last
}

// Restart clears everything learned by previous searches.
func (p *Planner) Restart() {
	p.mcts.Restart()
}

func (p *Planner) Describe(indent int) string {
	return p.mcts.Describe(indent)
}
