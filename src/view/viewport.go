package view

import (
	"fmt"
	"strings"

	"lifebits/src/simulation"
)

//wrap maps v onto [0, n)
func wrap(v int, n int) int {
	if n <= 0 {
		return 0
	}
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

//viewport is the window of the field pane onto the torus
//ox, oy is the field cell shown in the top-left corner of the pane
type viewport struct {
	ox int
	oy int
}

//pan moves the window by dx, dy cells, leaving one edge brings it in from the opposite one
func (p *viewport) pan(dx int, dy int, width int, height int) {
	p.ox = wrap(p.ox+dx, width)
	p.oy = wrap(p.oy+dy, height)
}

//cell maps the pane position px, py to the field cell
//ok is false when the position is past the drawn part of the pane
func (p viewport) cell(px int, py int, width int, height int) (x int, y int, ok bool) {
	if px < 0 || py < 0 || px >= width || py >= height {
		return 0, 0, false
	}
	return wrap(p.ox+px, width), wrap(p.oy+py, height), true
}

//text draws at most cols x rows cells of f starting at the offset
//every field cell is drawn once at most, rows are separated by a line feed
func (p viewport) text(f simulation.Frame, cols int, rows int, live string, dead string) string {
	cols = min(cols, f.Width)
	rows = min(rows, f.Height)
	var sb strings.Builder
	for py := 0; py < rows; py++ {
		if py != 0 {
			sb.WriteByte('\n')
		}
		y := wrap(p.oy+py, f.Height)
		for px := 0; px < cols; px++ {
			if f.Alive(wrap(p.ox+px, f.Width), y) {
				sb.WriteString(live)
			} else {
				sb.WriteString(dead)
			}
		}
	}
	return sb.String()
}

//packedCell is the place of one cell in the packed buffer
type packedCell struct {
	X, Y  int
	Index int
	Byte  int
	Bit   int
	Value byte
}

//locate finds the byte and the bit holding the cell x, y of f
func locate(f simulation.Frame, x int, y int) (packedCell, error) {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return packedCell{}, fmt.Errorf("%w: x %d y %d", simulation.ErrOutOfBounds, x, y)
	}
	idx := y*f.Width + x
	c := packedCell{X: x, Y: y, Index: idx, Byte: idx / 8, Bit: idx % 8}
	if c.Byte < len(f.Cells) {
		c.Value = f.Cells[c.Byte]
	}
	return c, nil
}
