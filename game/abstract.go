package game

import "fmt"

// CenterOnPrey returns an abstraction that translates every position so the
// prey sits in the middle of the grid. States that differ only by a
// translation on the torus share one abstract state.
func CenterOnPrey(dims Point, preyIndex int) func(State) State {
	center := Point{X: dims.X / 2, Y: dims.Y / 2}
	return func(s State) State {
		prey := s.At(preyIndex)
		shift := Point{X: center.X - prey.X, Y: center.Y - prey.Y}
		out := s
		for i := 0; i < s.Len(); i++ {
			out = out.With(i, Wrap(dims, s.At(i).Add(shift)))
		}
		return out
	}
}

// Coarsen returns an abstraction that maps every position onto a grid of cell x cell blocks.
func Coarsen(cell int) func(State) State {
	if cell <= 0 {
		panic(fmt.Sprintf("coarse cell size must be positive, got %d", cell))
	}
	return func(s State) State {
		out := s
		for i := 0; i < s.Len(); i++ {
			p := s.At(i)
			out = out.With(i, Point{X: p.X / cell, Y: p.Y / cell})
		}
		return out
	}
}
