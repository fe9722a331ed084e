package searcher

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"pursuit/utils"

	"golang.org/x/exp/rand"
)

// Defaults for UCT hyperparameters
const (
	DefaultExploration = 1.0
	DefaultGamma       = 1.0
	DefaultRewardBound = 1.0
)

type UCTOption func(s *uctSettings)

type uctSettings struct {
	exploration float64
	rewardBound float64
	gamma       float64
}

// WithExploration sets the UCB1 exploration constant c.
func WithExploration(c float64) UCTOption {
	return func(s *uctSettings) {
		s.exploration = c
	}
}

// WithRewardBound scales the exploration bonus to the reward range of the model.
func WithRewardBound(bound float64) UCTOption {
	return func(s *uctSettings) {
		s.rewardBound = bound
	}
}

// WithGamma sets the discount applied to future rewards when a rollout is backed up.
func WithGamma(gamma float64) UCTOption {
	return func(s *uctSettings) {
		s.gamma = gamma
	}
}

type stats struct {
	visits uint32
	value  float64 // Sum of observed returns
}

type node struct {
	visits  uint32
	actions []stats
}

type visit[S Key[S], A Action] struct {
	state  S
	action A
	reward float64
}

// UCT keeps visit counts and accumulated returns per (state, action) and
// scores actions with UCB1. It is not safe for concurrent use.
type UCT[S Key[S], A Action] struct {
	rng         *rand.Rand
	numActions  int
	exploration float64
	rewardBound float64
	gamma       float64
	nodes       map[S]*node
	history     []visit[S, A]
	rollouts    int
}

func NewUCT[S Key[S], A Action](rng *rand.Rand, numActions int, options ...UCTOption) *UCT[S, A] {
	s := uctSettings{ // Default values
		exploration: DefaultExploration,
		rewardBound: DefaultRewardBound,
		gamma:       DefaultGamma,
	}
	for _, option := range options {
		option(&s)
	}

	if rng == nil {
		panic("UCT needs a random source")
	}
	if numActions <= 0 {
		panic(fmt.Sprintf("number of actions must be positive, got %d", numActions))
	}
	if s.exploration < 0 || math.IsNaN(s.exploration) {
		panic(fmt.Sprintf("exploration constant must be non-negative, got %g", s.exploration))
	}
	if s.rewardBound <= 0 || math.IsNaN(s.rewardBound) {
		panic(fmt.Sprintf("reward bound must be positive, got %g", s.rewardBound))
	}
	if s.gamma <= 0 || s.gamma > 1 {
		panic(fmt.Sprintf("gamma must be in (0, 1], got %g", s.gamma))
	}

	return &UCT[S, A]{
		rng:         rng,
		numActions:  numActions,
		exploration: s.exploration,
		rewardBound: s.rewardBound,
		gamma:       s.gamma,
		nodes:       make(map[S]*node),
	}
}

func (u *UCT[S, A]) SelectWorldAction(state S) A {
	return u.selectAction(state, false)
}

func (u *UCT[S, A]) SelectPlanningAction(state S) A {
	return u.selectAction(state, true)
}

func (u *UCT[S, A]) selectAction(state S, useBound bool) A {
	return selectMax(u.rng, u.numActions, func(a A) float64 {
		return u.CalcActionValue(state, a, useBound)
	})
}

// CalcActionValue returns the average return of action at state, plus the
// UCB1 exploration bonus when useBound is set. Unvisited actions are worth 0
// without the bonus and +Inf with it.
func (u *UCT[S, A]) CalcActionValue(state S, action A, useBound bool) float64 {
	u.checkAction(action)

	n, ok := u.nodes[state]
	if !ok || n.actions[action].visits == 0 {
		if useBound {
			return math.Inf(1)
		}
		return 0
	}

	s := n.actions[action]
	average := s.value / float64(s.visits)
	if !useBound {
		return average
	}
	return average + u.bonus(n.visits, s.visits)
}

func (u *UCT[S, A]) bonus(total, visits uint32) float64 {
	return u.exploration * u.rewardBound * math.Sqrt(math.Log(float64(total))/float64(visits))
}

// Visit records reward for one more selection of action at state. The
// discounted remainder of the rollout's return is added by FinishRollout.
func (u *UCT[S, A]) Visit(state S, action A, reward float64) {
	u.checkAction(action)

	n, ok := u.nodes[state]
	if !ok {
		n = &node{actions: make([]stats, u.numActions)}
		u.nodes[state] = n
	}
	n.visits++
	n.actions[action].visits++
	n.actions[action].value += reward

	u.history = append(u.history, visit[S, A]{state: state, action: action, reward: reward})
}

func (u *UCT[S, A]) StartRollout() {
	u.history = u.history[:0]
}

// FinishRollout backs the rollout's discounted return up to every visited
// pair. A rollout cut off before a terminal state is bootstrapped with the
// best average value known for its last state.
func (u *UCT[S, A]) FinishRollout(state S, terminal bool) {
	future := 0.0
	if !terminal {
		future = u.stateValue(state)
	}

	for i := len(u.history) - 1; i >= 0; i-- {
		h := u.history[i]
		future *= u.gamma
		u.nodes[h.state].actions[h.action].value += future
		future += h.reward
	}

	u.history = u.history[:0]
	u.rollouts++
}

func (u *UCT[S, A]) stateValue(state S) float64 {
	n, ok := u.nodes[state]
	if !ok {
		return 0
	}
	best := math.Inf(-1)
	for _, s := range n.actions {
		v := 0.0
		if s.visits > 0 {
			v = s.value / float64(s.visits)
		}
		best = math.Max(best, v)
	}
	return best
}

func (u *UCT[S, A]) Restart() {
	u.nodes = make(map[S]*node)
	u.history = u.history[:0]
	u.rollouts = 0
}

func (u *UCT[S, A]) NumVisits(state S, action A) uint32 {
	u.checkAction(action)

	if n, ok := u.nodes[state]; ok {
		return n.actions[action].visits
	}
	return 0
}

func (u *UCT[S, A]) NumActions() int {
	return u.numActions
}

// NumStates counts the distinct states visited since the last restart.
func (u *UCT[S, A]) NumStates() int {
	return len(u.nodes)
}

func (u *UCT[S, A]) checkAction(action A) {
	if int(action) < 0 || int(action) >= u.numActions {
		panic(fmt.Sprintf("action %d out of range [0,%d)", int(action), u.numActions))
	}
}

// mostVisited lists the k most visited states, ties in canonical state order.
func (u *UCT[S, A]) mostVisited(k int) []S {
	states := make([]S, 0, len(u.nodes))
	for s := range u.nodes {
		states = append(states, s)
	}
	sort.Slice(states, func(i, j int) bool {
		vi, vj := u.nodes[states[i]].visits, u.nodes[states[j]].visits
		if vi != vj {
			return vi > vj
		}
		return states[i].Less(states[j])
	})
	if len(states) > k {
		states = states[:k]
	}
	return states
}

func (u *UCT[S, A]) Describe(indent int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%sUCT: c=%g rewardBound=%g gamma=%g actions=%d\n", utils.Indent(indent), u.exploration, u.rewardBound, u.gamma, u.numActions)
	fmt.Fprintf(&b, "%sstates=%d rollouts=%d", utils.Indent(indent+1), len(u.nodes), u.rollouts)
	for _, s := range u.mostVisited(3) {
		fmt.Fprintf(&b, "\n%s%v visits=%d", utils.Indent(indent+1), s, u.nodes[s].visits)
	}
	return b.String()
}
