package game

import "golang.org/x/exp/rand"

// MaxAgents bounds the number of positions a State can track (4 predators and the prey).
const MaxAgents = 5

// PreyIndex is the agent slot reserved for the prey.
const PreyIndex = 0

type StateHash uint64

// Behavior picks the next action of one agent in the world.
type Behavior interface {
	Act(obs Observation, rng *rand.Rand) Action
	Name() string
}

// Observation is what an agent sees of the world before acting.
type Observation struct {
	Dims      Point
	Positions []Point
	PreyIndex int
	MyIndex   int
}

func (o Observation) Me() Point {
	return o.Positions[o.MyIndex]
}

func (o Observation) Prey() Point {
	return o.Positions[o.PreyIndex]
}

// State returns the observation's positions as a State key.
func (o Observation) State() State {
	return NewState(o.Positions...)
}
