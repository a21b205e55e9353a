package universe

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

const (
	blinkerRow = "00000\n00000\n01110\n00000\n00000\n"
	blinkerCol = "00000\n00100\n00100\n00100\n00000\n"
)

//newEmpty creates a cleared universe
func newEmpty(t *testing.T, width uint32, height uint32) *Universe {
	t.Helper()
	u, err := New(width, height)
	if err != nil {
		t.Fatalf("New(%d, %d): %v", width, height, err)
	}
	u.Clear()
	return u
}

//place brings the [row, col] cells to life on a cleared universe
func place(t *testing.T, u *Universe, cells [][2]uint32) {
	t.Helper()
	for _, c := range cells {
		if err := u.ToggleCell(c[0], c[1]); err != nil {
			t.Fatal(err)
		}
	}
}

//reference computes the next generation on a plain bool grid
func reference(u *Universe) string {
	w, h := int(u.Width()), int(u.Height())
	var sb strings.Builder
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			n := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					if u.Alive(uint32((y+dy+h)%h), uint32((x+dx+w)%w)) {
						n++
					}
				}
			}
			alive := u.Alive(uint32(y), uint32(x))
			if (alive && (n == 2 || n == 3)) || (!alive && n == 3) {
				sb.WriteByte('1')
			} else {
				sb.WriteByte('0')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func TestNew_Seeding(t *testing.T) {
	u, err := New(8, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got := u.Render(); got != "10101011\n" {
		t.Fatalf("Render() = %q, want %q", got, "10101011\n")
	}
	if u.Cells()[0] != 0xd5 {
		t.Fatalf("Cells()[0] = %08b, want 11010101", u.Cells()[0])
	}
	if u.LiveCells() != 5 {
		t.Fatalf("LiveCells() = %d, want 5", u.LiveCells())
	}
}

func TestNew_SeedingAnySize(t *testing.T) {
	for _, d := range [][2]uint32{{1, 1}, {3, 3}, {7, 5}, {64, 64}, {13, 17}} {
		u, err := New(d[0], d[1])
		if err != nil {
			t.Fatal(err)
		}
		for i := 0; i < int(d[0]*d[1]); i++ {
			want := i%2 == 0 || i%7 == 0
			if u.cells.Get(i) != want {
				t.Fatalf("%v: cell %d = %v, want %v", d, i, u.cells.Get(i), want)
			}
		}
		for i := range u.scratch {
			if u.scratch[i] != 0 {
				t.Fatalf("%v: scratch is not zero", d)
			}
		}
	}
}

func TestNew_Errors(t *testing.T) {
	if _, err := New(0, 5); !errors.Is(err, ErrZeroDimension) {
		t.Errorf("New(0, 5) err = %v", err)
	}
	if _, err := New(5, 0); !errors.Is(err, ErrZeroDimension) {
		t.Errorf("New(5, 0) err = %v", err)
	}
	if _, err := New(1<<20, 1<<20); !errors.Is(err, ErrTooLarge) {
		t.Errorf("New(1<<20, 1<<20) err = %v", err)
	}
}

func TestBytes(t *testing.T) {
	for _, d := range [][2]uint32{{1, 1}, {8, 1}, {3, 3}, {9, 1}, {4, 4}, {64, 64}, {31, 7}} {
		u, err := New(d[0], d[1])
		if err != nil {
			t.Fatal(err)
		}
		want := (d[0]*d[1] + 7) / 8
		if u.Bytes() != want || len(u.Cells()) != int(want) || len(u.scratch) != int(want) {
			t.Errorf("%v: Bytes() = %d, want %d", d, u.Bytes(), want)
		}
		if u.Width() != d[0] || u.Height() != d[1] {
			t.Errorf("%v: dimension %d x %d", d, u.Width(), u.Height())
		}
	}
}

func TestLiveNeighborCount_Wraps(t *testing.T) {
	u := newEmpty(t, 3, 3)
	place(t, u, [][2]uint32{{2, 2}, {2, 0}, {0, 2}})
	copy(u.scratch, u.cells)
	if got := u.liveNeighborCount(0, 0); got != 3 {
		t.Fatalf("liveNeighborCount(0, 0) = %d, want 3", got)
	}
	if got := u.liveNeighborCount(2, 2); got != 2 {
		t.Fatalf("liveNeighborCount(2, 2) = %d, want 2", got)
	}
}

func TestLiveNeighborCount_Full(t *testing.T) {
	u := newEmpty(t, 4, 4)
	for i := 0; i < 16; i++ {
		if err := u.Set(i, true); err != nil {
			t.Fatal(err)
		}
	}
	copy(u.scratch, u.cells)
	for row := uint32(0); row < 4; row++ {
		for col := uint32(0); col < 4; col++ {
			if got := u.liveNeighborCount(row, col); got != 8 {
				t.Fatalf("liveNeighborCount(%d, %d) = %d, want 8", row, col, got)
			}
		}
	}
	u.Tick()
	if u.LiveCells() != 0 {
		t.Fatalf("overpopulated field left %d cells", u.LiveCells())
	}
}

func TestTick_Block(t *testing.T) {
	for _, e := range EngineNames() {
		t.Run(e, func(t *testing.T) {
			u := newEmpty(t, 6, 6)
			place(t, u, [][2]uint32{{1, 1}, {1, 2}, {2, 1}, {2, 2}})
			before := u.Render()
			for i := 0; i < 5; i++ {
				Engines[e](u)
				if got := u.Render(); got != before {
					t.Fatalf("tick %d:\n%s", i+1, got)
				}
				if !u.Stable() {
					t.Fatalf("tick %d: block is not stable", i+1)
				}
			}
		})
	}
}

func TestTick_Blinker(t *testing.T) {
	for _, e := range EngineNames() {
		t.Run(e, func(t *testing.T) {
			u := newEmpty(t, 5, 5)
			place(t, u, [][2]uint32{{2, 1}, {2, 2}, {2, 3}})
			if got := u.Render(); got != blinkerRow {
				t.Fatalf("start:\n%s", got)
			}
			Engines[e](u)
			if got := u.Render(); got != blinkerCol {
				t.Fatalf("after one tick:\n%s", got)
			}
			if u.Stable() {
				t.Fatal("blinker reported stable")
			}
			Engines[e](u)
			if got := u.Render(); got != blinkerRow {
				t.Fatalf("after two ticks:\n%s", got)
			}
		})
	}
}

func TestTick_MatchesReference(t *testing.T) {
	for _, e := range EngineNames() {
		t.Run(e, func(t *testing.T) {
			u, err := New(11, 7)
			if err != nil {
				t.Fatal(err)
			}
			u.RandGen(NewRandSource(42))
			for i := 0; i < 20; i++ {
				want := reference(u)
				Engines[e](u)
				if got := u.Render(); got != want {
					t.Fatalf("generation %d:\n%s\nwant\n%s", i+1, got, want)
				}
			}
		})
	}
}

func TestLiveNeighborCount_ThinFields(t *testing.T) {
	u, err := New(8, 1)
	if err != nil {
		t.Fatal(err)
	}
	copy(u.scratch, u.cells)
	//west (7) and east (1) three times each, the cell itself twice
	if got := u.liveNeighborCount(0, 0); got != 5 {
		t.Fatalf("8x1 liveNeighborCount(0, 0) = %d, want 5", got)
	}
	dot, err := New(1, 1)
	if err != nil {
		t.Fatal(err)
	}
	copy(dot.scratch, dot.cells)
	if got := dot.liveNeighborCount(0, 0); got != 8 {
		t.Fatalf("1x1 liveNeighborCount(0, 0) = %d, want 8", got)
	}
}

func TestTick_ThinFields(t *testing.T) {
	cases := []struct {
		width  uint32
		height uint32
		want   string
	}{
		{8, 1, "00101000\n"},
		{1, 8, "0\n0\n1\n0\n1\n0\n0\n0\n"},
		{1, 1, "0\n"},
	}
	for _, c := range cases {
		for _, e := range EngineNames() {
			u, err := New(c.width, c.height)
			if err != nil {
				t.Fatal(err)
			}
			Engines[e](u)
			if got := u.Render(); got != c.want {
				t.Errorf("%s %dx%d: Render() = %q, want %q", e, c.width, c.height, got, c.want)
			}
		}
	}
}

func TestTick_ThinFieldsMatchReference(t *testing.T) {
	for _, d := range [][2]uint32{{1, 1}, {9, 1}, {1, 9}, {2, 1}, {1, 2}, {13, 2}} {
		for _, e := range EngineNames() {
			u, err := New(d[0], d[1])
			if err != nil {
				t.Fatal(err)
			}
			u.RandGen(NewRandSource(int64(d[0]*31 + d[1])))
			for i := 0; i < 6; i++ {
				want := reference(u)
				Engines[e](u)
				if got := u.Render(); got != want {
					t.Fatalf("%s %v generation %d: got %q, want %q", e, d, i+1, got, want)
				}
			}
		}
	}
}

func TestTickParallel_Workers(t *testing.T) {
	want, err := New(17, 13)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 8; i++ {
		want.Tick()
	}
	for _, workers := range []int{0, 1, 2, 4, 13, 50} {
		u, err := New(17, 13)
		if err != nil {
			t.Fatal(err)
		}
		for i := 0; i < 8; i++ {
			u.TickParallel(workers)
		}
		if u.Render() != want.Render() {
			t.Errorf("workers %d: field differs", workers)
		}
	}
}

func TestTick_PaddingStaysZero(t *testing.T) {
	u, err := New(3, 3)
	if err != nil {
		t.Fatal(err)
	}
	u.RandGen(func() float64 { return 0.9 })
	if u.Cells()[1] != 0x01 {
		t.Fatalf("last byte = %08b, want 00000001", u.Cells()[1])
	}
	for _, e := range EngineNames() {
		Engines[e](u)
		if u.Cells()[1]&^0x01 != 0 {
			t.Fatalf("%s: padding bits set: %08b", e, u.Cells()[1])
		}
	}
}

func TestStable(t *testing.T) {
	u := newEmpty(t, 6, 6)
	if u.Stable() {
		t.Fatal("stable before any tick")
	}
	place(t, u, [][2]uint32{{1, 1}, {1, 2}, {2, 1}, {2, 2}})
	u.Tick()
	if !u.Stable() {
		t.Fatal("block is not stable")
	}
	place(t, u, [][2]uint32{{4, 4}})
	if u.Stable() {
		t.Fatal("stable after an edit")
	}
}

func TestRender_Idempotent(t *testing.T) {
	u, err := New(9, 4)
	if err != nil {
		t.Fatal(err)
	}
	if u.Render() != u.Render() {
		t.Fatal("two renders differ")
	}
	if u.String() != u.Render() {
		t.Fatal("String differs from Render")
	}
	if got := strings.Count(u.Render(), "\n"); got != 4 {
		t.Fatalf("got %d rows, want 4", got)
	}
}

func TestClear(t *testing.T) {
	u, err := New(4, 3)
	if err != nil {
		t.Fatal(err)
	}
	u.Tick()
	u.Clear()
	if got := u.Render(); got != "0000\n0000\n0000\n" {
		t.Fatalf("Render() = %q", got)
	}
	if u.LiveCells() != 0 {
		t.Fatalf("LiveCells() = %d", u.LiveCells())
	}
}

func TestToggleCell_Involution(t *testing.T) {
	u, err := New(5, 5)
	if err != nil {
		t.Fatal(err)
	}
	before := u.Render()
	for row := uint32(0); row < 5; row++ {
		for col := uint32(0); col < 5; col++ {
			was := u.Alive(row, col)
			if err := u.ToggleCell(row, col); err != nil {
				t.Fatal(err)
			}
			if u.Alive(row, col) == was {
				t.Fatalf("(%d, %d) not toggled", row, col)
			}
			if err := u.ToggleCell(row, col); err != nil {
				t.Fatal(err)
			}
		}
	}
	if u.Render() != before {
		t.Fatal("double toggle changed the field")
	}
}

func TestToggleCell_OutOfBounds(t *testing.T) {
	u, err := New(5, 4)
	if err != nil {
		t.Fatal(err)
	}
	before := u.Render()
	for _, c := range [][2]uint32{{4, 0}, {0, 5}, {100, 100}} {
		if err := u.ToggleCell(c[0], c[1]); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("ToggleCell(%d, %d) err = %v", c[0], c[1], err)
		}
	}
	if err := u.Set(20, true); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Set(20) err = %v", err)
	}
	if err := u.Set(-1, true); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Set(-1) err = %v", err)
	}
	if u.Render() != before {
		t.Fatal("rejected edits changed the field")
	}
	if u.Alive(4, 0) || u.Alive(0, 5) {
		t.Fatal("cells outside the field reported alive")
	}
}

func TestRandGen_Threshold(t *testing.T) {
	u := newEmpty(t, 2, 2)
	samples := []float64{0.4995, 0.49951, 0, 0.99}
	i := 0
	u.RandGen(func() float64 {
		v := samples[i]
		i++
		return v
	})
	if got := u.Render(); got != "01\n01\n" {
		t.Fatalf("Render() = %q, want %q", got, "01\n01\n")
	}
}

func TestNewRandSource_Deterministic(t *testing.T) {
	a, b, c := NewRandSource(7), NewRandSource(7), NewRandSource(8)
	same := true
	for i := 0; i < 10; i++ {
		x, y, z := a(), b(), c()
		if x != y {
			t.Fatalf("sample %d: %v != %v", i, x, y)
		}
		if x < 0 || x >= 1 {
			t.Fatalf("sample %d out of range: %v", i, x)
		}
		same = same && x == z
	}
	if same {
		t.Fatal("different seeds produced the same samples")
	}
}

func TestLogger_DefaultSilent(t *testing.T) {
	SetLogger(nil)
	if Logger() == nil {
		t.Fatal("nil logger")
	}
	if Logger().Handler().Enabled(context.Background(), slog.LevelError) {
		t.Fatal("default logger is enabled")
	}
}
