package game

import (
	"errors"
	"fmt"
	"strings"

	"pursuit/utils"

	"golang.org/x/exp/rand"
)

type CaptureRule int

const (
	// CaptureSurround requires every neighbor of the prey to be occupied.
	CaptureSurround CaptureRule = iota
	// CaptureAdjacent requires a single predator next to the prey.
	CaptureAdjacent
)

func ParseCaptureRule(name string) (CaptureRule, error) {
	switch strings.ToLower(name) {
	case "surround", "":
		return CaptureSurround, nil
	case "adjacent":
		return CaptureAdjacent, nil
	}
	return 0, fmt.Errorf("unknown capture rule %q", name)
}

func (r CaptureRule) String() string {
	switch r {
	case CaptureSurround:
		return "surround"
	case CaptureAdjacent:
		return "adjacent"
	}
	return fmt.Sprintf("capture(%d)", int(r))
}

var (
	ErrOutOfBounds   = errors.New("position out of bounds")
	ErrCollision     = errors.New("position already occupied")
	ErrTooManyAgents = errors.New("too many agents")
)

// World is the toroidal pursuit grid. Agent 0 is the prey.
type World struct {
	dims      Point
	capture   CaptureRule
	positions []Point
	behaviors []Behavior
	actions   []Action
}

func NewWorld(dims Point, capture CaptureRule) *World {
	if dims.X <= 0 || dims.Y <= 0 {
		panic(fmt.Sprintf("invalid world dimensions %v", dims))
	}
	return &World{dims: dims, capture: capture}
}

// AddAgent places a new agent; the first agent added is the prey.
func (w *World) AddAgent(pos Point, behavior Behavior) error {
	if len(w.positions) >= MaxAgents {
		return fmt.Errorf("failed to add %s agent: %w", behavior.Name(), ErrTooManyAgents)
	}
	if pos.X < 0 || pos.Y < 0 || pos.X >= w.dims.X || pos.Y >= w.dims.Y {
		return fmt.Errorf("failed to add %s agent at %v: %w", behavior.Name(), pos, ErrOutOfBounds)
	}
	if w.occupant(pos) >= 0 {
		return fmt.Errorf("failed to add %s agent at %v: %w", behavior.Name(), pos, ErrCollision)
	}
	w.positions = append(w.positions, pos)
	w.behaviors = append(w.behaviors, behavior)
	w.actions = append(w.actions, NoOp)
	return nil
}

func (w *World) Dims() Point {
	return w.dims
}

func (w *World) Capture() CaptureRule {
	return w.capture
}

func (w *World) NumAgents() int {
	return len(w.positions)
}

func (w *World) Behavior(i int) Behavior {
	return w.behaviors[i]
}

func (w *World) Position(i int) Point {
	return w.positions[i]
}

func (w *World) State() State {
	return NewState(w.positions...)
}

// SetState moves every agent to the positions held by s.
func (w *World) SetState(s State) {
	if s.Len() != len(w.positions) {
		panic(fmt.Sprintf("state tracks %d agents, world has %d", s.Len(), len(w.positions)))
	}
	for i := range w.positions {
		w.positions[i] = s.At(i)
	}
}

func (w *World) Observation(i int) Observation {
	positions := make([]Point, len(w.positions))
	copy(positions, w.positions)
	return Observation{
		Dims:      w.dims,
		Positions: positions,
		PreyIndex: PreyIndex,
		MyIndex:   i,
	}
}

// Step advances the world one tick. Every agent decides on the same snapshot,
// then agents move in random order; a move into an occupied cell is blocked.
func (w *World) Step(rng *rand.Rand) {
	for i, behavior := range w.behaviors {
		w.actions[i] = behavior.Act(w.Observation(i), rng)
	}

	for _, i := range rng.Perm(len(w.positions)) {
		target := MovePosition(w.dims, w.positions[i], w.actions[i])
		if occupant := w.occupant(target); occupant < 0 || occupant == i {
			w.positions[i] = target
		}
	}
}

func (w *World) Captured() bool {
	if len(w.positions) == 0 {
		return true
	}
	prey := w.positions[PreyIndex]

	switch w.capture {
	case CaptureAdjacent:
		for a := Action(0); a < NumMoves; a++ {
			if w.occupant(MovePosition(w.dims, prey, a)) > PreyIndex {
				return true
			}
		}
		return false
	default:
		for a := Action(0); a < NumMoves; a++ {
			if w.occupant(MovePosition(w.dims, prey, a)) < 0 {
				return false
			}
		}
		return true
	}
}

func (w *World) occupant(pos Point) int {
	for i, p := range w.positions {
		if p == pos {
			return i
		}
	}
	return -1
}

func (w *World) Describe(indent int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%sWorld %dx%d capture=%s", utils.Indent(indent), w.dims.X, w.dims.Y, w.capture)
	for i, behavior := range w.behaviors {
		fmt.Fprintf(&b, "\n%sagent %d: %s at %v", utils.Indent(indent+1), i, behavior.Name(), w.positions[i])
	}
	return b.String()
}
