package game

import (
	"fmt"

	"pursuit/utils"

	"golang.org/x/exp/rand"
)

// CaptureReward is paid on the step the prey gets captured.
const CaptureReward = 1.0

// WorldMDP wraps a simulated world so a planner can reset it to arbitrary
// states and step it with the planning agent's action.
type WorldMDP struct {
	rng   *rand.Rand
	world *World
	self  *Dummy
}

// NewWorldMDP expects self to be the behavior of the planning agent inside world.
func NewWorldMDP(rng *rand.Rand, world *World, self *Dummy) *WorldMDP {
	return &WorldMDP{rng: rng, world: world, self: self}
}

func (m *WorldMDP) ResetTo(state State) {
	m.world.SetState(state)
}

func (m *WorldMDP) Step(action Action) (float64, State, bool) {
	m.self.SetAction(action)
	m.world.Step(m.rng)

	if m.world.Captured() {
		return CaptureReward, m.world.State(), true
	}
	return 0, m.world.State(), false
}

func (m *WorldMDP) RewardMagnitudePerStep() float64 {
	return CaptureReward
}

func (m *WorldMDP) Describe(indent int) string {
	return fmt.Sprintf("%sWorldMDP:\n%s", utils.Indent(indent), m.world.Describe(indent+1))
}
