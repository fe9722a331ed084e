package searcher

// Epsilon is the tolerance within which two action values count as tied.
const Epsilon = 1e-6

// DefaultDepth caps a rollout when no depth is configured.
const DefaultDepth = 100

// Key is what a planning state must provide: map-key equality and a
// canonical order for deterministic output.
type Key[S any] interface {
	comparable
	Less(other S) bool
}

// Action is a bounded enumeration indexed from zero.
type Action interface {
	~int
}

// Model is the black-box simulator planned against.
type Model[S Key[S], A Action] interface {
	// ResetTo forces the simulator into exactly state.
	ResetTo(state S)
	// Step applies action for the planning agent and advances the world one tick.
	Step(action A) (reward float64, next S, terminal bool)
	// RewardMagnitudePerStep bounds |reward| of a single Step.
	RewardMagnitudePerStep() float64
	Describe(indent int) string
}
