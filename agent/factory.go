package agent

import (
	"fmt"

	"pursuit/config"
	"pursuit/game"
	"pursuit/searcher"

	"golang.org/x/exp/rand"
)

// maxPlacements bounds the attempts to find a starting layout that is not already a capture.
const maxPlacements = 1000

// NewWorld builds the real world described by cfg with every agent placed on
// a distinct random cell. All randomness is drawn from rng.
func NewWorld(cfg config.Config, rng *rand.Rand) (*game.World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	dims := game.Point{X: cfg.World.Width, Y: cfg.World.Height}
	rule, err := game.ParseCaptureRule(cfg.World.Capture)
	if err != nil {
		return nil, err
	}

	positions, err := placeAgents(dims, rule, len(cfg.Agents), rng)
	if err != nil {
		return nil, err
	}

	world := game.NewWorld(dims, rule)
	for i, entry := range cfg.Agents {
		behavior, err := NewBehavior(cfg, i, entry, rng)
		if err != nil {
			return nil, fmt.Errorf("failed to create agent %d: %w", i, err)
		}
		if err := world.AddAgent(positions[i], behavior); err != nil {
			return nil, err
		}
	}
	return world, nil
}

// NewBehavior creates the behavior of agent index.
func NewBehavior(cfg config.Config, index int, entry config.Agent, rng *rand.Rand) (game.Behavior, error) {
	name, ok := config.Canonical(entry.Behavior)
	if !ok {
		return nil, fmt.Errorf("%w: unknown behavior %q", config.ErrInvalid, entry.Behavior)
	}

	switch name {
	case "random":
		return game.Random{}, nil
	case "greedy":
		return game.Greedy{}, nil
	case "greedyprob":
		return game.GreedyProbabilistic{Epsilon: entry.Epsilon}, nil
	case "mcts", "dual":
		return newPlanner(cfg, index, name, rng)
	}
	return nil, fmt.Errorf("%w: unhandled behavior %q", config.ErrInvalid, entry.Behavior)
}

// newPlanner builds the simulator the planning agent searches: the same world
// with itself as a dummy and other planners replaced by the teammate model.
func newPlanner(cfg config.Config, index int, name string, rng *rand.Rand) (*Planner, error) {
	dims := game.Point{X: cfg.World.Width, Y: cfg.World.Height}
	rule, err := game.ParseCaptureRule(cfg.World.Capture)
	if err != nil {
		return nil, err
	}

	model := game.NewWorld(dims, rule)
	self := &game.Dummy{}
	for i, entry := range cfg.Agents {
		var behavior game.Behavior = self
		if i != index {
			if behavior, err = modelBehavior(cfg, entry); err != nil {
				return nil, err
			}
		}
		// Placeholder cells; every rollout resets the model to the searched state.
		pos := game.Point{X: i % dims.X, Y: (i / dims.X) % dims.Y}
		if err := model.AddAgent(pos, behavior); err != nil {
			return nil, err
		}
	}

	mdp := game.NewWorldMDP(rng, model, self)
	estimator := newEstimator(cfg, name == "dual", dims, mdp.RewardMagnitudePerStep(), rng)

	options := []searcher.Option{
		searcher.WithRollouts(cfg.Planner.Rollouts),
		searcher.WithDuration(cfg.Planner.Duration),
		searcher.WithDepth(cfg.PlanningDepth()),
		searcher.WithMetrics(),
	}
	mcts := searcher.NewMCTS[game.State, game.Action](mdp, estimator, options...)
	return NewPlanner(name, mcts, cfg.Planner.Reuse), nil
}

func modelBehavior(cfg config.Config, entry config.Agent) (game.Behavior, error) {
	name, _ := config.Canonical(entry.Behavior)
	if name == "mcts" || name == "dual" {
		entry = config.Agent{Behavior: cfg.Planner.TeammateModel}
	}
	return NewBehavior(cfg, -1, entry, nil)
}

// newEstimator returns a plain UCT estimator, or the dual estimator when transfer is set.
func newEstimator(cfg config.Config, transfer bool, dims game.Point, rewardBound float64, rng *rand.Rand) searcher.ValueEstimator[game.State, game.Action] {
	newUCT := func() *searcher.UCT[game.State, game.Action] {
		return searcher.NewUCT[game.State, game.Action](rng, game.NumActions,
			searcher.WithExploration(cfg.Planner.Exploration),
			searcher.WithRewardBound(rewardBound),
			searcher.WithGamma(cfg.Planner.Gamma),
		)
	}

	t := cfg.Planner.Transfer
	if !transfer || t == nil {
		return newUCT()
	}

	abstract := game.CenterOnPrey(dims, game.PreyIndex)
	if t.Abstraction == config.AbstractionCoarse {
		abstract = game.Coarsen(t.CoarseCell)
	}
	return searcher.NewDual(rng, newUCT(), newUCT(), t.B, abstract)
}

func placeAgents(dims game.Point, rule game.CaptureRule, n int, rng *rand.Rand) ([]game.Point, error) {
	cells := dims.X * dims.Y
	for attempt := 0; attempt < maxPlacements; attempt++ {
		perm := rng.Perm(cells)
		positions := make([]game.Point, n)
		for i := range positions {
			positions[i] = game.Point{X: perm[i] % dims.X, Y: perm[i] / dims.X}
		}

		probe := game.NewWorld(dims, rule)
		for _, p := range positions {
			if err := probe.AddAgent(p, game.Random{}); err != nil {
				return nil, err
			}
		}
		if !probe.Captured() {
			return positions, nil
		}
	}
	return nil, fmt.Errorf("failed to place %d agents without an immediate capture in %d attempts", n, maxPlacements)
}
