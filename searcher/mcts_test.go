package searcher

import (
	"strings"
	"testing"
	"time"

	"pursuit/game"
	"pursuit/utils"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

// chainModel moves one state forward per step. Action 1 pays 1, and the chain
// ends after length steps, or never when length is 0.
type chainModel struct {
	state  testState
	length int
}

func (m *chainModel) ResetTo(state testState) {
	m.state = state
}

func (m *chainModel) Step(action testAction) (float64, testState, bool) {
	m.state = testState{m.state.id + 1}
	reward := 0.0
	if action == 1 {
		reward = 1
	}
	return reward, m.state, m.length > 0 && m.state.id >= m.length
}

func (m *chainModel) RewardMagnitudePerStep() float64 {
	return 1
}

func (m *chainModel) Describe(indent int) string {
	return utils.Indent(indent) + "chain"
}

func newChainMCTS(length int, options ...Option) (*MCTS[testState, testAction], *UCT[testState, testAction]) {
	u := newTestUCT(2)
	return NewMCTS[testState, testAction](&chainModel{length: length}, u, options...), u
}

func TestNewMCTS(t *testing.T) {
	t.Run("panics without a budget", func(t *testing.T) {
		require.PanicsWithValue(t, "Must specify search rollouts or duration", func() {
			newChainMCTS(3)
		})
	})

	t.Run("panics without a model", func(t *testing.T) {
		require.Panics(t, func() {
			NewMCTS[testState, testAction](nil, newTestUCT(2), WithRollouts(1))
		})
	})
}

func TestMCTSSearch(t *testing.T) {
	t.Run("runs the requested rollouts", func(t *testing.T) {
		m, u := newChainMCTS(3, WithRollouts(50), WithMetrics())
		root := testState{0}
		_, metric := m.Search(root)

		require.Equal(t, 50, metric.Rollouts)
		require.Equal(t, 50, metric.TerminalRollouts)
		require.Equal(t, 3, metric.MaxDepth)
		require.Equal(t, uint32(50), u.NumVisits(root, 0)+u.NumVisits(root, 1),
			"Every rollout should visit the root once")
		require.Equal(t, uint32(150), totalVisits(u))
	})

	t.Run("selects the rewarding action", func(t *testing.T) {
		m, _ := newChainMCTS(3, WithRollouts(200))
		action, _ := m.Search(testState{0})
		require.Equal(t, testAction(1), action)
	})

	t.Run("cuts rollouts at the depth limit", func(t *testing.T) {
		m, _ := newChainMCTS(0, WithRollouts(10), WithDepth(4), WithMetrics())
		_, metric := m.Search(testState{0})

		require.Equal(t, 4, metric.Depth)
		require.Equal(t, 4, metric.MaxDepth)
		require.Zero(t, metric.TerminalRollouts)
	})

	t.Run("runs for a duration", func(t *testing.T) {
		m, _ := newChainMCTS(3, WithDuration(5*time.Millisecond), WithMetrics())
		_, metric := m.Search(testState{0})

		require.Positive(t, metric.Rollouts)
		require.GreaterOrEqual(t, metric.Duration, 5*time.Millisecond)
	})

	t.Run("reports reused statistics", func(t *testing.T) {
		m, u := newChainMCTS(3, WithRollouts(5), WithMetrics())
		_, first := m.Search(testState{0})
		_, second := m.Search(testState{1})
		require.False(t, first.IsStatsReused)
		require.True(t, second.IsStatsReused)

		m.Restart()
		require.Zero(t, u.NumStates())
		_, third := m.Search(testState{0})
		require.False(t, third.IsStatsReused)
	})

	t.Run("describes the model and estimator", func(t *testing.T) {
		m, _ := newChainMCTS(3, WithRollouts(5))
		lines := strings.Split(m.Describe(0), "\n")
		require.Equal(t, "MCTS: rollouts=5 depth=100", lines[0])
		require.Equal(t, "  chain", lines[1])
		require.Equal(t, "  UCT: c=1 rewardBound=1 gamma=1 actions=2", lines[2])
	})
}

// newPursuitMCTS searches the 5x5 one-predator world with the adjacent capture rule.
func newPursuitMCTS(seed uint64, rollouts int) (*MCTS[game.State, game.Action], *UCT[game.State, game.Action], game.State) {
	rng := rand.New(rand.NewSource(seed))
	dims := game.Point{X: 5, Y: 5}
	world := game.NewWorld(dims, game.CaptureAdjacent)
	self := &game.Dummy{}
	start := game.NewState(game.Point{X: 0, Y: 0}, game.Point{X: 2, Y: 3})
	if err := world.AddAgent(start.At(0), game.Random{}); err != nil {
		panic(err)
	}
	if err := world.AddAgent(start.At(1), self); err != nil {
		panic(err)
	}

	model := game.NewWorldMDP(rng, world, self)
	u := NewUCT[game.State, game.Action](rng, game.NumActions, WithExploration(1))
	m := NewMCTS[game.State, game.Action](model, u, WithRollouts(rollouts), WithDepth(50), WithMetrics())
	return m, u, start
}

func TestMCTSPursuit(t *testing.T) {
	t.Run("same seed gives the same actions", func(t *testing.T) {
		m1, _, start := newPursuitMCTS(11, 1000)
		m2, _, _ := newPursuitMCTS(11, 1000)

		a1, _ := m1.Search(start)
		a2, _ := m2.Search(start)
		require.Equal(t, a1, a2)

		next := start.With(1, game.Point{X: 1, Y: 3})
		a1, _ = m1.Search(next)
		a2, _ = m2.Search(next)
		require.Equal(t, a1, a2)
	})

	t.Run("restart does not leak statistics", func(t *testing.T) {
		m, u, start := newPursuitMCTS(5, 1000)
		rootVisits := func() uint32 {
			total := uint32(0)
			for a := game.Action(0); a < game.NumActions; a++ {
				total += u.NumVisits(start, a)
			}
			return total
		}
		firstRollout := func() {
			m.metrics.Start(m.depth)
			m.rollout(start)
			metric := m.metrics.Complete()
			require.Equal(t, 1, metric.Rollouts)
			require.GreaterOrEqual(t, rootVisits(), uint32(1))
			require.Equal(t, uint32(metric.MaxDepth), totalVisits(u),
				"A single rollout should record one visit per step")
		}

		firstRollout()
		m.Search(start)
		require.GreaterOrEqual(t, rootVisits(), uint32(1001), "Every rollout should start at the root")

		m.Restart()
		require.Zero(t, u.NumStates())
		require.Zero(t, rootVisits())
		firstRollout()
	})

	t.Run("nested descriptions share one indentation", func(t *testing.T) {
		m, _, _ := newPursuitMCTS(3, 10)
		lines := strings.Split(m.Describe(0), "\n")
		require.Equal(t, "MCTS: rollouts=10 depth=50", lines[0])
		require.Equal(t, "  WorldMDP:", lines[1])
		require.Equal(t, "    World 5x5 capture=adjacent", lines[2])
		require.True(t, strings.HasPrefix(lines[3], "      agent 0: "), "Agents should nest under the world, got %q", lines[3])
		require.True(t, strings.HasPrefix(lines[5], "  UCT: "), "The estimator should sit at the model's level, got %q", lines[5])
	})
}
