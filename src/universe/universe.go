package universe

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"math/bits"
	"strings"
)

var (
	ErrZeroDimension = errors.New("universe: width and height must be positive")
	ErrTooLarge      = errors.New("universe: too many cells")
	ErrOutOfBounds   = errors.New("universe: index out of bounds")
)

//Universe is the toroidal Life field
//cells holds the current generation, scratch the snapshot of the previous one
//scratch is only read inside a tick, after it has been refreshed
//Universe is not safe for concurrent use, the owner has to serialize all calls
type Universe struct {
	width   uint32
	height  uint32
	cells   BitBuffer
	scratch BitBuffer
	ticked  bool
}

//New creates the universe and seeds it with the deterministic pattern
//cell i is alive when i is even or divisible by 7
func New(width uint32, height uint32) (*Universe, error) {
	if width == 0 || height == 0 {
		return nil, ErrZeroDimension
	}
	n := uint64(width) * uint64(height)
	if n > math.MaxUint32 || n > uint64(math.MaxInt) {
		return nil, fmt.Errorf("%w: %d x %d", ErrTooLarge, width, height)
	}
	u := &Universe{
		width:   width,
		height:  height,
		cells:   NewBitBuffer(int(n)),
		scratch: NewBitBuffer(int(n)),
	}
	for i := 0; i < int(n); i++ {
		u.cells.Set(i, i%2 == 0 || i%7 == 0)
	}
	Logger().Debug("universe created", "width", width, "height", height, "bytes", u.cells.Len())
	return u, nil
}

//index returns the bit index for the already normalized row and col
func (u *Universe) index(row uint32, col uint32) int {
	return int(row)*int(u.width) + int(col)
}

func (u *Universe) size() int {
	return int(u.width) * int(u.height)
}

//liveNeighborCount counts the live Moore neighbours of row, col in the snapshot
//the edges wrap around to the opposite side
func (u *Universe) liveNeighborCount(row uint32, col uint32) uint8 {
	north := row - 1
	if row == 0 {
		north = u.height - 1
	}
	south := row + 1
	if row == u.height-1 {
		south = 0
	}
	west := col - 1
	if col == 0 {
		west = u.width - 1
	}
	east := col + 1
	if col == u.width-1 {
		east = 0
	}

	//the centre is skipped by position, on a field one cell wide or tall
	//the cell itself is also its own west/east or north/south neighbour
	var count uint8
	for dr, r := range [3]uint32{north, row, south} {
		for dc, c := range [3]uint32{west, col, east} {
			if dr == 1 && dc == 1 {
				continue
			}
			if u.scratch.Get(u.index(r, c)) {
				count++
			}
		}
	}
	return count
}

//Tick advances the universe by one generation
//the current generation is copied to scratch first, all reads go to scratch and all writes to cells
func (u *Universe) Tick() {
	copy(u.scratch, u.cells)
	u.nextGeneration(0, u.height, u.cells)
	u.ticked = true
}

//nextGeneration computes rows [from, to) from scratch into dst
//dst is indexed from the first cell of row from
func (u *Universe) nextGeneration(from uint32, to uint32, dst BitBuffer) {
	base := u.index(from, 0)
	for row := from; row < to; row++ {
		for col := uint32(0); col < u.width; col++ {
			idx := u.index(row, col)
			dst.Set(idx-base, nextState(u.scratch.Get(idx), u.liveNeighborCount(row, col)))
		}
	}
}

//ToggleCell inverts the cell at row, col
func (u *Universe) ToggleCell(row uint32, col uint32) error {
	if row >= u.height || col >= u.width {
		return fmt.Errorf("%w: row %d col %d in %d x %d", ErrOutOfBounds, row, col, u.width, u.height)
	}
	u.cells.Toggle(u.index(row, col))
	u.ticked = false
	return nil
}

//Set writes the cell with the flat index idx
func (u *Universe) Set(idx int, alive bool) error {
	if idx < 0 || idx >= u.size() {
		return fmt.Errorf("%w: cell %d of %d", ErrOutOfBounds, idx, u.size())
	}
	u.cells.Set(idx, alive)
	u.ticked = false
	return nil
}

//Alive reports whether the cell at row, col is alive, cells outside the field are dead
func (u *Universe) Alive(row uint32, col uint32) bool {
	if row >= u.height || col >= u.width {
		return false
	}
	return u.cells.Get(u.index(row, col))
}

//Clear kills all cells
func (u *Universe) Clear() {
	u.cells.Zero()
	u.ticked = false
}

//Width returns the number of columns
func (u *Universe) Width() uint32 {
	return u.width
}

//Height returns the number of rows
func (u *Universe) Height() uint32 {
	return u.height
}

//Bytes returns the packed buffer length
func (u *Universe) Bytes() uint32 {
	return uint32(u.cells.Len())
}

//Cells exposes the packed current generation, byte i holds cells 8i..8i+7, lowest bit first
//the slice is shared with the universe and must not be modified
func (u *Universe) Cells() []byte {
	return u.cells
}

//LiveCells returns the number of live cells
func (u *Universe) LiveCells() int {
	n := 0
	for _, b := range u.cells {
		n += bits.OnesCount8(b)
	}
	return n
}

//Stable reports whether the last tick left the field unchanged
//any direct edit after the tick resets it to false
func (u *Universe) Stable() bool {
	return u.ticked && bytes.Equal(u.cells, u.scratch)
}

//Render returns the field as text, '1' for alive and '0' for dead, every row ends with a line feed
func (u *Universe) Render() string {
	var sb strings.Builder
	sb.Grow(u.size() + int(u.height))
	for i := 0; i < u.size(); i++ {
		if u.cells.Get(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
		if (i+1)%int(u.width) == 0 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

//String implements fmt.Stringer with Render
func (u *Universe) String() string {
	return u.Render()
}
