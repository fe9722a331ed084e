package searcher

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

type testState struct {
	id int
}

func (s testState) Less(other testState) bool {
	return s.id < other.id
}

type testAction int

func newTestUCT(numActions int, options ...UCTOption) *UCT[testState, testAction] {
	return NewUCT[testState, testAction](rand.New(rand.NewSource(1)), numActions, options...)
}

func totalVisits[S Key[S], A Action](u *UCT[S, A]) uint32 {
	total := uint32(0)
	for _, n := range u.nodes {
		total += n.visits
	}
	return total
}

func TestNewUCT(t *testing.T) {
	t.Run("panics with invalid settings", func(t *testing.T) {
		require.Panics(t, func() { newTestUCT(0) }, "Should panic without actions")
		require.Panics(t, func() { newTestUCT(2, WithExploration(-1)) })
		require.Panics(t, func() { newTestUCT(2, WithRewardBound(0)) })
		require.Panics(t, func() { newTestUCT(2, WithGamma(0)) })
		require.Panics(t, func() { newTestUCT(2, WithGamma(1.5)) })
		require.Panics(t, func() {
			NewUCT[testState, testAction](nil, 2)
		}, "Should panic without a random source")
	})

	t.Run("panics with out of range actions", func(t *testing.T) {
		u := newTestUCT(3)
		s := testState{0}
		require.Panics(t, func() { u.Visit(s, 3, 0) })
		require.Panics(t, func() { u.Visit(s, -1, 0) })
		require.Panics(t, func() { u.CalcActionValue(s, 3, true) })
		require.Panics(t, func() { u.NumVisits(s, 5) })
	})
}

func TestUCTCalcActionValue(t *testing.T) {
	s := testState{0}

	t.Run("unvisited actions", func(t *testing.T) {
		u := newTestUCT(2)
		require.Equal(t, 0.0, u.CalcActionValue(s, 0, false), "Unvisited actions should be worth 0 in the world")
		require.True(t, math.IsInf(u.CalcActionValue(s, 0, true), 1), "Unvisited actions should be worth +Inf in planning")
	})

	t.Run("computing the UCB1 value", func(t *testing.T) {
		u := newTestUCT(2, WithExploration(2), WithRewardBound(0.5))
		u.Visit(s, 0, 1)
		u.Visit(s, 0, 0)
		u.Visit(s, 1, 0)

		require.InDelta(t, 0.5, u.CalcActionValue(s, 0, false), 1e-9)
		expected := 0.5 + 2*0.5*math.Sqrt(math.Log(3)/2)
		require.InDelta(t, expected, u.CalcActionValue(s, 0, true), 1e-9,
			"Should compute q/n + c*R*sqrt(ln(N)/n)")
	})

	t.Run("exploration term decreases with action visits", func(t *testing.T) {
		u := newTestUCT(2)
		u.Visit(s, 0, 1)
		u.Visit(s, 1, 1)
		u.Visit(s, 1, 1)

		require.Greater(t, u.CalcActionValue(s, 0, true), u.CalcActionValue(s, 1, true))
	})
}

func TestUCTVisit(t *testing.T) {
	u := newTestUCT(3)
	s := testState{7}

	for i := 0; i < 4; i++ {
		u.Visit(s, 2, 0)
	}
	u.Visit(s, 0, 0)

	require.Equal(t, uint32(4), u.NumVisits(s, 2))
	require.Equal(t, uint32(1), u.NumVisits(s, 0))
	require.Equal(t, uint32(0), u.NumVisits(s, 1))
	require.Equal(t, uint32(0), u.NumVisits(testState{8}, 1), "Unknown states should have no visits")
	require.Equal(t, uint32(5), totalVisits(u))
	require.Equal(t, 1, u.NumStates())
}

func TestUCTSelectPlanningAction(t *testing.T) {
	t.Run("tries unvisited actions first", func(t *testing.T) {
		u := newTestUCT(4)
		s := testState{0}
		seen := map[testAction]bool{}
		for i := 0; i < 4; i++ {
			a := u.SelectPlanningAction(s)
			require.False(t, seen[a], "Should not repeat %v before every action was tried", a)
			seen[a] = true
			u.Visit(s, a, 0)
		}
		require.Len(t, seen, 4)
	})

	t.Run("world action ignores exploration", func(t *testing.T) {
		u := newTestUCT(3)
		s := testState{0}
		u.Visit(s, 1, 0.8)
		u.Visit(s, 2, 0.2)

		for i := 0; i < 20; i++ {
			require.Equal(t, testAction(1), u.SelectWorldAction(s))
		}
	})
}

func TestUCTFinishRollout(t *testing.T) {
	t.Run("backs up discounted returns", func(t *testing.T) {
		u := newTestUCT(2, WithGamma(0.5))
		u.StartRollout()
		u.Visit(testState{0}, 0, 0)
		u.Visit(testState{1}, 1, 1)
		u.FinishRollout(testState{2}, true)

		require.InDelta(t, 0.5, u.CalcActionValue(testState{0}, 0, false), 1e-9)
		require.InDelta(t, 1.0, u.CalcActionValue(testState{1}, 1, false), 1e-9)
	})

	t.Run("bootstraps rollouts cut off early", func(t *testing.T) {
		u := newTestUCT(2)
		u.StartRollout()
		u.Visit(testState{2}, 1, 2)
		u.FinishRollout(testState{3}, true)

		u.StartRollout()
		u.Visit(testState{1}, 0, 0)
		u.FinishRollout(testState{2}, false)

		require.InDelta(t, 2.0, u.CalcActionValue(testState{1}, 0, false), 1e-9,
			"Should add the best average of the last state")
	})

	t.Run("terminal rollouts are not bootstrapped", func(t *testing.T) {
		u := newTestUCT(2)
		u.StartRollout()
		u.Visit(testState{2}, 1, 2)
		u.FinishRollout(testState{3}, true)

		u.StartRollout()
		u.Visit(testState{1}, 0, 0)
		u.FinishRollout(testState{2}, true)

		require.Zero(t, u.CalcActionValue(testState{1}, 0, false))
	})
}

func TestUCTRestart(t *testing.T) {
	u := newTestUCT(2)
	u.Visit(testState{0}, 1, 1)
	u.FinishRollout(testState{1}, true)
	u.Restart()

	require.Zero(t, u.NumStates())
	require.Zero(t, u.NumVisits(testState{0}, 1))
	require.Zero(t, u.CalcActionValue(testState{0}, 1, false))
}

func TestUCTDescribe(t *testing.T) {
	u := newTestUCT(2)
	u.Visit(testState{1}, 0, 0)
	u.Visit(testState{1}, 1, 0)
	u.Visit(testState{0}, 0, 0)
	u.Visit(testState{2}, 0, 0)

	expected := "  UCT: c=1 rewardBound=1 gamma=1 actions=2\n" +
		"    states=3 rollouts=0\n" +
		"    {1} visits=2\n" +
		"    {0} visits=1\n" +
		"    {2} visits=1"
	require.Equal(t, expected, u.Describe(1))
}
