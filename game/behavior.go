package game

import "golang.org/x/exp/rand"

// Random picks uniformly among all actions. It is the default prey.
type Random struct{}

func (Random) Act(_ Observation, rng *rand.Rand) Action {
	return Action(rng.Intn(NumActions))
}

func (Random) Name() string { return "random" }

// Greedy closes the distance to the prey along the axis with the larger gap.
type Greedy struct{}

func (Greedy) Act(obs Observation, rng *rand.Rand) Action {
	return greedyAction(obs, rng)
}

func (Greedy) Name() string { return "greedy" }

// GreedyProbabilistic acts greedily except with probability Epsilon, when it acts randomly.
type GreedyProbabilistic struct {
	Epsilon float64
}

func (g GreedyProbabilistic) Act(obs Observation, rng *rand.Rand) Action {
	if rng.Float64() < g.Epsilon {
		return Action(rng.Intn(NumActions))
	}
	return greedyAction(obs, rng)
}

func (GreedyProbabilistic) Name() string { return "greedy-probabilistic" }

func greedyAction(obs Observation, rng *rand.Rand) Action {
	d := Offset(obs.Dims, obs.Me(), obs.Prey())
	if abs(d.X)+abs(d.Y) <= 1 {
		return NoOp
	}

	horizontal := abs(d.X) > abs(d.Y)
	if abs(d.X) == abs(d.Y) {
		horizontal = rng.Intn(2) == 0
	}

	switch {
	case horizontal && d.X > 0:
		return Right
	case horizontal:
		return Left
	case d.Y > 0:
		return Up
	default:
		return Down
	}
}

// Dummy replays whatever action was set last. It stands in for the planning
// agent inside the simulator.
type Dummy struct {
	action Action
}

func (d *Dummy) SetAction(action Action) {
	d.action = action
}

func (d *Dummy) Act(Observation, *rand.Rand) Action {
	return d.action
}

func (d *Dummy) Name() string { return "dummy" }
