package game

import "fmt"

type Point struct {
	X int
	Y int
}

func (p Point) Add(other Point) Point {
	return Point{X: p.X + other.X, Y: p.Y + other.Y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// MovePosition returns the cell reached from pos by action on a toroidal grid of size dims.
func MovePosition(dims Point, pos Point, action Action) Point {
	return Wrap(dims, pos.Add(action.Offset()))
}

// Wrap folds p back onto the torus.
func Wrap(dims Point, p Point) Point {
	return Point{X: mod(p.X, dims.X), Y: mod(p.Y, dims.Y)}
}

// Offset returns the shortest signed displacement from one cell to another on the torus.
func Offset(dims Point, from Point, to Point) Point {
	return Point{
		X: shortest(to.X-from.X, dims.X),
		Y: shortest(to.Y-from.Y, dims.Y),
	}
}

// Distance is the toroidal manhattan distance between two cells.
func Distance(dims Point, a Point, b Point) int {
	d := Offset(dims, a, b)
	return abs(d.X) + abs(d.Y)
}

func shortest(delta, size int) int {
	delta = mod(delta, size)
	if delta > size/2 {
		delta -= size
	}
	return delta
}

func mod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}
