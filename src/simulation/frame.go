package simulation

import (
	"strings"

	"lifebits/src/universe"
)

//Frame is a copy of the packed field taken between ticks
type Frame struct {
	Width  int
	Height int
	Cells  universe.BitBuffer
}

//Alive reports whether the cell at x, y is alive
func (f Frame) Alive(x int, y int) bool {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return false
	}
	return f.Cells.Get(y*f.Width + x)
}

//LiveCells returns the number of live cells in the frame
func (f Frame) LiveCells() (n int) {
	for i := 0; i < f.Width*f.Height; i++ {
		if f.Cells.Get(i) {
			n++
		}
	}
	return
}

func newFrame(u *universe.Universe) Frame {
	cells := make(universe.BitBuffer, u.Bytes())
	copy(cells, u.Cells())
	return Frame{Width: int(u.Width()), Height: int(u.Height()), Cells: cells}
}

//Render returns the frame as text in the same layout as Universe.Render
func (f Frame) Render() string {
	var sb strings.Builder
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			if f.Alive(x, y) {
				sb.WriteByte('1')
			} else {
				sb.WriteByte('0')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
