package game

import "fmt"

type Action int

const (
	Up Action = iota
	Down
	Left
	Right
	NoOp
)

// NumActions is the size of the action space shared by every agent.
const NumActions = 5

// NumMoves counts the directional actions, i.e. the neighbors of a cell.
const NumMoves = 4

var actionNames = [NumActions]string{"up", "down", "left", "right", "noop"}

var actionOffsets = [NumActions]Point{
	Up:    {X: 0, Y: 1},
	Down:  {X: 0, Y: -1},
	Left:  {X: -1, Y: 0},
	Right: {X: 1, Y: 0},
	NoOp:  {X: 0, Y: 0},
}

func (a Action) Offset() Point {
	return actionOffsets[a]
}

func (a Action) String() string {
	if a < 0 || a >= NumActions {
		return fmt.Sprintf("action(%d)", int(a))
	}
	return actionNames[a]
}
