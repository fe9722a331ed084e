package searcher

import (
	"fmt"

	"pursuit/utils"

	"golang.org/x/exp/rand"
)

// mu is the prior mean reward assumed when weighting the general estimator.
const mu = 0.5

// Dual blends a UCT estimator over full states with one over abstract states,
// so statistics from a coarser state space inform decisions in the finer one.
type Dual[S Key[S], A Action] struct {
	rng      *rand.Rand
	main     *UCT[S, A]
	general  *UCT[S, A]
	b        float64
	abstract func(S) S
}

// NewDual owns both estimators; abstract must be pure and deterministic.
// Larger b trusts the general estimator less at equal visit counts.
func NewDual[S Key[S], A Action](rng *rand.Rand, main, general *UCT[S, A], b float64, abstract func(S) S) *Dual[S, A] {
	if rng == nil || main == nil || general == nil || abstract == nil {
		panic("dual estimator needs a random source, two estimators and an abstraction")
	}
	if b < 0 {
		panic(fmt.Sprintf("transfer strength b must be non-negative, got %g", b))
	}
	if main.NumActions() != general.NumActions() {
		panic(fmt.Sprintf("estimators disagree on the action space: %d vs %d", main.NumActions(), general.NumActions()))
	}
	return &Dual[S, A]{
		rng:      rng,
		main:     main,
		general:  general,
		b:        b,
		abstract: abstract,
	}
}

func (d *Dual[S, A]) SelectWorldAction(state S) A {
	return d.selectAction(state, false)
}

func (d *Dual[S, A]) SelectPlanningAction(state S) A {
	return d.selectAction(state, true)
}

func (d *Dual[S, A]) selectAction(state S, useBound bool) A {
	general := d.abstract(state)
	return selectMax(d.rng, d.main.NumActions(), func(a A) float64 {
		return d.value(state, general, a, useBound)
	})
}

func (d *Dual[S, A]) StartRollout() {
	d.main.StartRollout()
	d.general.StartRollout()
}

func (d *Dual[S, A]) FinishRollout(state S, terminal bool) {
	d.main.FinishRollout(state, terminal)
	d.general.FinishRollout(d.abstract(state), terminal)
}

func (d *Dual[S, A]) Visit(state S, action A, reward float64) {
	d.main.Visit(state, action, reward)
	d.general.Visit(d.abstract(state), action, reward)
}

func (d *Dual[S, A]) Restart() {
	d.main.Restart()
	d.general.Restart()
}

// CalcActionValue discounts the main estimator's value by the confidence beta
// placed in the general estimator, adds the general value, and keeps the
// exploration bonus of the main estimator only.
func (d *Dual[S, A]) CalcActionValue(state S, action A, useBound bool) float64 {
	return d.value(state, d.abstract(state), action, useBound)
}

func (d *Dual[S, A]) value(state, general S, action A, useBound bool) float64 {
	beta := d.beta(d.main.NumVisits(state, action), d.general.NumVisits(general, action))
	mainValue := d.main.CalcActionValue(state, action, false)
	bound := explorationBonus(d.main, state, action, useBound)
	return (1-beta)*mainValue + d.general.CalcActionValue(general, action, false) + bound
}

// beta is the weight given to the general estimator for n main and nh general visits.
// With no visits on either side it is 0.
func (d *Dual[S, A]) beta(n, nh uint32) float64 {
	if n == 0 && nh == 0 {
		return 0
	}
	fn, fnh := float64(n), float64(nh)
	return fnh / (fn + fnh + fn*fnh*d.b*d.b/(mu*(1-mu)))
}

// explorationBonus isolates the exploration term u adds to its own value estimate.
func explorationBonus[S Key[S], A Action](u *UCT[S, A], state S, action A, useBound bool) float64 {
	return u.CalcActionValue(state, action, useBound) - u.CalcActionValue(state, action, false)
}

func (d *Dual[S, A]) Describe(indent int) string {
	return fmt.Sprintf("%sDual: b=%g combining the value functions:\n%s\n%s",
		utils.Indent(indent), d.b, d.main.Describe(indent+1), d.general.Describe(indent+1))
}
