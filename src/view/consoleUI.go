package view

import (
	"bytes"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jroimartin/gocui"
	"github.com/logrusorgru/aurora"

	"lifebits/src/simulation"
	"lifebits/src/universe"
)

const (
	paneTitle    = "title"
	paneSettings = "settings"
	paneCounters = "counters"
	paneCell     = "cell"
	paneField    = "field"
	paneKeys     = "keys"
)

//control is one key binding of the terminal UI
type control struct {
	key   interface{}
	label string
	help  string
	pane  string
	do    func(v *gocui.View) error
}

//ConsoleUI is the interactive terminal viewer
//the field pane is a window onto the torus, the arrow keys pan it across the edges
type ConsoleUI struct {
	s        *simulation.Simulation
	g        *gocui.Gui
	controls []control
	snapshot *SnapshotOut
	live     string
	dead     string

	//touched on the gui goroutine only
	port   viewport
	picked *packedCell
}

var modeNames = map[simulation.RunningState]string{
	simulation.RunningStateManual:   aurora.Colorize("waiting", aurora.BlueFg).String(),
	simulation.RunningStateStep:     "stepping",
	simulation.RunningStateRun:      aurora.Colorize("running", aurora.CyanFg).String(),
	simulation.RunningStateFinished: aurora.Colorize("finished", aurora.RedFg).String(),
}

//NewViewTerminal creates the terminal UI, snapshot may be nil to disable saving
func NewViewTerminal(snapshot *SnapshotOut) *ConsoleUI {
	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		log.Panicln(err)
	}
	g.Mouse = true

	t := &ConsoleUI{
		g:        g,
		snapshot: snapshot,
		live:     aurora.Green("█").BgBrightGreen().String(),
		dead:     "░",
	}
	t.controls = []control{
		{gocui.KeyCtrlC, "^C", "Exit", "", t.cmdQuit},
		{'n', "N", "Step", "", t.command((*simulation.Simulation).Step)},
		{'r', "R", "Run", "", t.command((*simulation.Simulation).Run)},
		{'s', "S", "Stop", "", t.command((*simulation.Simulation).Stop)},
		{'c', "C", "Clear", "", t.command((*simulation.Simulation).Clear)},
		{'w', "W", "Random", "", t.command((*simulation.Simulation).SettleWithRandomData)},
		{'p', "P", "Snapshot", "", t.cmdSnapshot},
		{gocui.KeyArrowLeft, "←↑→↓", "Pan", "", t.cmdPan(-1, 0)},
		{gocui.KeyArrowRight, "", "", "", t.cmdPan(1, 0)},
		{gocui.KeyArrowUp, "", "", "", t.cmdPan(0, -1)},
		{gocui.KeyArrowDown, "", "", "", t.cmdPan(0, 1)},
		{gocui.MouseLeft, "MOUSE", "Toggle the cell", paneField, t.cmdToggle},
	}
	g.SetManagerFunc(t.layout)
	for _, c := range t.controls {
		do := c.do
		if err := g.SetKeybinding(c.pane, c.key, gocui.ModNone, func(_ *gocui.Gui, v *gocui.View) error { return do(v) }); err != nil {
			log.Panicln(err)
		}
	}
	return t
}

func (t *ConsoleUI) Register(s *simulation.Simulation) {
	t.s = s
}

func (t *ConsoleUI) Start() {
	defer t.g.Close()
	if err := t.g.MainLoop(); err != nil && err != gocui.ErrQuit {
		log.Panicln(err)
	}
}

//Refresh redraws every pane, it may be called from any goroutine
func (t *ConsoleUI) Refresh() {
	f := t.s.Frame()
	st := t.s.Status()
	t.g.Update(func(g *gocui.Gui) error {
		t.drawField(g, f)
		t.drawCounters(g, st)
		t.drawCell(g, f)
		return nil
	})
}

//drawField writes the visible part of the torus, the title carries the offset when the field is larger than the pane
func (t *ConsoleUI) drawField(g *gocui.Gui, f simulation.Frame) {
	v, err := g.View(paneField)
	if err != nil {
		return
	}
	cols, rows := v.Size()
	v.Title = "Torus"
	if f.Width > cols || f.Height > rows {
		v.Title = fmt.Sprintf("Torus %d x %d from %d, %d", f.Width, f.Height, t.port.ox, t.port.oy)
	}
	v.Clear()
	_, _ = fmt.Fprint(v, t.port.text(f, cols, rows, t.live, t.dead))
}

func (t *ConsoleUI) drawCounters(g *gocui.Gui, st simulation.Status) {
	v, err := g.View(paneCounters)
	if err != nil {
		return
	}
	v.Clear()
	writeProps(v,
		"Step", st.IterationNum,
		"Live cells", st.LiveCells,
		"Buffer", fmt.Sprintf("%v bytes", st.Details["bytes"]),
		"Tick time", st.IterationTime.Round(time.Microsecond),
		"Mode", modeNames[st.RunningMode],
	)
}

func (t *ConsoleUI) drawSettings(g *gocui.Gui) {
	v, err := g.View(paneSettings)
	if err != nil {
		return
	}
	o := t.s.Options()
	v.Clear()
	writeProps(v,
		"Field", fmt.Sprintf("%v x %v", o.Width, o.Height),
		"Interval", o.Interval,
		"Max steps", o.MaxSteps,
		"Engine", o.Engine,
	)
}

//drawCell shows where the last toggled cell lives in the packed buffer
func (t *ConsoleUI) drawCell(g *gocui.Gui, f simulation.Frame) {
	v, err := g.View(paneCell)
	if err != nil {
		return
	}
	v.Clear()
	if t.picked == nil {
		_, _ = fmt.Fprintln(v, " click a cell")
		return
	}
	c, err := locate(f, t.picked.X, t.picked.Y)
	if err != nil {
		return
	}
	t.picked = &c
	writeProps(v,
		"Cell", fmt.Sprintf("%d, %d", c.X, c.Y),
		"Index", c.Index,
		"Byte", fmt.Sprintf("%d bit %d", c.Byte, c.Bit),
		"Value", fmt.Sprintf("%08b", c.Value),
	)
}

//writeProps prints name, value pairs one per line
func writeProps(v *gocui.View, kv ...interface{}) {
	for i := 0; i+1 < len(kv); i += 2 {
		_, _ = fmt.Fprintf(v, " %s: %v\n", aurora.Green(kv[i]), kv[i+1])
	}
}

func (t *ConsoleUI) layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()
	const side = 28
	const minHeight = 20

	if maxY < minHeight {
		for _, name := range []string{paneSettings, paneCounters, paneCell, paneField} {
			_ = g.DeleteView(name)
		}
		return t.titleLayout(g, maxY, "Terminal height too small")
	}
	if err := t.titleLayout(g, 3, "lifebits: Conway's Life on a torus"); err != nil {
		return err
	}

	bottom := maxY - 5
	third := (bottom - 3) / 3
	panes := []struct {
		name           string
		title          string
		x0, y0, x1, y1 int
	}{
		{paneSettings, "Configuration", 0, 3, side, 3 + third},
		{paneCounters, "Status", 0, 4 + third, side, 3 + 2*third},
		{paneCell, "Packed cell", 0, 4 + 2*third, side, bottom},
		{paneField, "Torus", side + 1, 3, maxX - 1, bottom},
	}
	created := false
	for _, p := range panes {
		v, err := g.SetView(p.name, p.x0, p.y0, p.x1, p.y1)
		if err != nil {
			if err != gocui.ErrUnknownView || v == nil {
				return err
			}
			v.Title = p.title
			v.Frame = true
			created = true
		}
	}
	if created {
		t.drawSettings(g)
	}
	if t.s != nil {
		f := t.s.Frame()
		t.drawField(g, f)
		t.drawCounters(g, t.s.Status())
		t.drawCell(g, f)
	}

	if v, err := g.SetView(paneKeys, -1, bottom, maxX, maxY-3); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Frame = false
		_, _ = fmt.Fprintln(v, t.keysLine())
	}
	return nil
}

//keysLine lists the labelled controls
func (t *ConsoleUI) keysLine() string {
	var b bytes.Buffer
	b.WriteString("KEYS: ")
	first := true
	for _, c := range t.controls {
		if c.label == "" {
			continue
		}
		if !first {
			b.WriteString(", ")
		}
		first = false
		b.WriteString(aurora.Green(c.label).String())
		b.WriteString(" ")
		b.WriteString(c.help)
	}
	return b.String()
}

func (t *ConsoleUI) titleLayout(g *gocui.Gui, height int, text string) error {
	maxX, _ := g.Size()
	v, err := g.SetView(paneTitle, -1, -1, maxX+1, height)
	if err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Frame = false
		v.BgColor = gocui.ColorCyan
		v.FgColor = gocui.ColorBlack
	}
	v.Clear()
	pad := max(0, (maxX-len(text))/2)
	_, _ = fmt.Fprintln(v, strings.Repeat("\n", height/2+1)+strings.Repeat(" ", pad)+text)
	return nil
}

//command binds a simulation method without arguments to a key
func (t *ConsoleUI) command(fn func(*simulation.Simulation)) func(*gocui.View) error {
	return func(_ *gocui.View) error {
		fn(t.s)
		return nil
	}
}

func (t *ConsoleUI) cmdQuit(_ *gocui.View) error {
	return gocui.ErrQuit
}

func (t *ConsoleUI) cmdSnapshot(_ *gocui.View) error {
	if t.snapshot == nil {
		return nil
	}
	if err := t.snapshot.Save(t.s.Frame()); err != nil {
		universe.Logger().Warn("snapshot failed", "err", err)
	}
	return nil
}

func (t *ConsoleUI) cmdPan(dx int, dy int) func(*gocui.View) error {
	return func(_ *gocui.View) error {
		o := t.s.Options()
		t.port.pan(dx, dy, o.Width, o.Height)
		f := t.s.Frame()
		t.drawField(t.g, f)
		return nil
	}
}

//cmdToggle inverts the cell under the pointer, the pane position is shifted by the pan offset
func (t *ConsoleUI) cmdToggle(v *gocui.View) error {
	o := t.s.Options()
	px, py := v.Cursor()
	x, y, ok := t.port.cell(px, py, o.Width, o.Height)
	if !ok {
		universe.Logger().Debug("click outside the field", "x", px, "y", py)
		return nil
	}
	if err := t.s.InverseCell(x, y); err != nil {
		universe.Logger().Debug("toggle failed", "x", x, "y", y, "err", err)
		return nil
	}
	t.picked = &packedCell{X: x, Y: y}
	t.drawCell(t.g, t.s.Frame())
	return nil
}
