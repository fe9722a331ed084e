package game

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"strings"
)

// State is an immutable snapshot of every agent position, used as the key of
// search statistics. Unused slots stay zero so that == compares only the
// tracked positions.
type State struct {
	n         uint8
	positions [MaxAgents]Point
}

func NewState(positions ...Point) State {
	if len(positions) > MaxAgents {
		panic(fmt.Sprintf("state holds at most %d positions, got %d", MaxAgents, len(positions)))
	}
	s := State{n: uint8(len(positions))}
	copy(s.positions[:], positions)
	return s
}

func (s State) Len() int {
	return int(s.n)
}

func (s State) At(i int) Point {
	if i < 0 || i >= int(s.n) {
		panic(fmt.Sprintf("position index %d out of range [0,%d)", i, s.n))
	}
	return s.positions[i]
}

// With returns a copy of s with position i replaced.
func (s State) With(i int, p Point) State {
	if i < 0 || i >= int(s.n) {
		panic(fmt.Sprintf("position index %d out of range [0,%d)", i, s.n))
	}
	s.positions[i] = p
	return s
}

func (s State) Positions() []Point {
	out := make([]Point, s.n)
	copy(out, s.positions[:s.n])
	return out
}

// Less orders states lexicographically over their (x, y) pairs.
func (s State) Less(other State) bool {
	n := min(s.n, other.n)
	for i := uint8(0); i < n; i++ {
		a, b := s.positions[i], other.positions[i]
		if a.X != b.X {
			return a.X < b.X
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
	}
	return s.n < other.n
}

func (s State) Hash() StateHash {
	hasher := fnv.New64a()

	for _, p := range s.positions[:s.n] {
		binary.Write(hasher, binary.LittleEndian, int64(p.X))
		binary.Write(hasher, binary.LittleEndian, int64(p.Y))
	}

	return StateHash(hasher.Sum64())
}

func (s State) String() string {
	var b strings.Builder
	b.WriteString("<State ")
	for _, p := range s.positions[:s.n] {
		b.WriteString(p.String())
	}
	b.WriteString(">")
	return b.String()
}
