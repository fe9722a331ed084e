package game

import (
	"fmt"
	"io"

	"github.com/logrusorgru/aurora"
)

// Render prints the grid with the prey in red and predators in green, top row first.
func Render(w io.Writer, world *World, colors bool) error {
	au := aurora.NewAurora(colors)
	dims := world.Dims()

	for y := dims.Y - 1; y >= 0; y-- {
		for x := 0; x < dims.X; x++ {
			var cell fmt.Stringer
			switch i := world.occupant(Point{X: x, Y: y}); {
			case i == PreyIndex:
				cell = au.Red(" P ")
			case i > PreyIndex:
				cell = au.Green(fmt.Sprintf(" %d ", i))
			default:
				cell = au.Blue(" . ")
			}
			if _, err := fmt.Fprintf(w, "%s%s", cell, au.White("|")); err != nil {
				return fmt.Errorf("failed to render world: %w", err)
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return fmt.Errorf("failed to render world: %w", err)
		}
	}
	return nil
}
