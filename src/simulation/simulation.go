package simulation

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"lifebits/src/universe"
)

var (
	ErrUnknownTemplate = errors.New("simulation: unknown template")
	ErrOutOfBounds     = universe.ErrOutOfBounds
)

//Viewer is the interface to any Viewer - the object who can display simulation data or control the engine
type Viewer interface {
	Refresh()
	Register(s *Simulation)
	Start()
}

//Simulation drives a Universe for the host
//all mutations of the universe go through the control goroutine or the area lock,
//so viewers may read Frame and Status from any goroutine
type Simulation struct {
	options Options
	state   struct {
		Status
		sync.Mutex
	}
	area struct {
		*universe.Universe
		sync.Mutex
	}
	engine    universe.Engine
	rand      universe.RandSource
	stateCh   chan Status
	views     struct {
		list []Viewer
		sync.Mutex
	}
	templates map[string]Template
	controlCh chan func()
	closeCh   chan struct{}
	doneCh    chan struct{}
	closeOnce sync.Once
}

//New creates the Simulation and starts its control goroutine
//o == nil means DefaultOptions
//stateCh receives the status on every running mode switch, it has to be drained by the caller when not nil
func New(o *Options, stateCh chan Status) (*Simulation, error) {
	opts := DefaultOptions
	if o != nil {
		opts = *o
	}
	if opts.Engine == "" {
		opts.Engine = DefEngine
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	u, err := universe.New(uint32(opts.Width), uint32(opts.Height))
	if err != nil {
		return nil, fmt.Errorf("simulation: %w", err)
	}

	advanced := make(map[string]interface{}, len(opts.Advanced)+2)
	for k, v := range opts.Advanced {
		advanced[k] = v
	}
	opts.Advanced = advanced
	opts.Advanced["engine"] = opts.Engine

	s := &Simulation{
		options:   opts,
		controlCh: make(chan func(), 1),
		closeCh:   make(chan struct{}),
		doneCh:    make(chan struct{}),
		stateCh:   stateCh,
		templates: map[string]Template{},
	}
	s.area.Universe = u
	s.engine = universe.Engines[opts.Engine]
	if opts.Engine == "parallel" {
		workers := opts.Workers
		s.engine = func(u *universe.Universe) { u.TickParallel(workers) }
		s.options.Advanced["Workers"] = workers
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s.rand = universe.NewRandSource(seed)
	s.state.Details = map[string]interface{}{"engine": opts.Engine, "bytes": u.Bytes()}
	s.state.LiveCells = u.LiveCells()
	for _, t := range DefaultTemplates {
		s.AddTemplate(t)
	}

	universe.Logger().Info("simulation created",
		"width", opts.Width, "height", opts.Height, "engine", opts.Engine, "maxSteps", opts.MaxSteps)
	go s.mainLoop()
	return s, nil
}

//AddTemplate adds the seeding template to the internal storage
//the universe can be populated with this template by call SettleTemplate
func (s *Simulation) AddTemplate(tmpl Template) {
	s.area.Lock()
	s.templates[tmpl.Name] = tmpl
	s.area.Unlock()
}

//Templates returns the names of the stored templates
func (s *Simulation) Templates() []string {
	s.area.Lock()
	defer s.area.Unlock()
	names := make([]string, 0, len(s.templates))
	for k := range s.templates {
		names = append(names, k)
	}
	return names
}

//Settle brings the cells at the given [x, y] coordinates to life
//coordinates outside the field are ignored
func (s *Simulation) Settle(vc [][]int) {
	s.area.Lock()
	s.settle(vc)
	live := s.area.LiveCells()
	s.area.Unlock()
	s.setLiveCells(live)
	s.refreshView()
}

//SettleTemplate populates the universe with the seeding template
func (s *Simulation) SettleTemplate(name string) error {
	s.area.Lock()
	tmpl, ok := s.templates[name]
	s.area.Unlock()
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}
	s.Settle(tmpl.Coordinates)
	return nil
}

//SettleWithRandomData regenerates the whole field from the random source, returns immediately
//ignored while the simulation is running
func (s *Simulation) SettleWithRandomData() {
	mode := s.runningMode()
	if mode != RunningStateManual && mode != RunningStateFinished {
		return
	}
	s.send(s.clear)
	s.send(func() {
		s.area.Lock()
		s.area.RandGen(s.rand)
		live := s.area.LiveCells()
		s.area.Unlock()
		s.setLiveCells(live)
		s.refreshView()
	})
}

//InverseCell inverses the cell state at point x, y
func (s *Simulation) InverseCell(x int, y int) error {
	if x < 0 || y < 0 {
		return fmt.Errorf("%w: x %d y %d", ErrOutOfBounds, x, y)
	}
	s.area.Lock()
	err := s.area.ToggleCell(uint32(y), uint32(x))
	live := s.area.LiveCells()
	s.area.Unlock()
	if err != nil {
		return err
	}
	s.setLiveCells(live)
	s.refreshView()
	return nil
}

//RegisterViewer registers the viewer - the simulation will call the viewer when the state is changed
//the viewer is bound to the simulation before it receives the first Refresh
func (s *Simulation) RegisterViewer(v Viewer) {
	v.Register(s)
	s.views.Lock()
	s.views.list = append(s.views.list, v)
	s.views.Unlock()
}

//StateCh returns the channel with the simulation's status updates
func (s *Simulation) StateCh() chan Status {
	return s.stateCh
}

//Status returns current simulation status represented by Status struct
func (s *Simulation) Status() Status {
	s.state.Lock()
	defer s.state.Unlock()
	return s.state.Status
}

//Options returns current simulation configuration represented by Options struct
func (s *Simulation) Options() Options {
	return s.options
}

//Frame returns a copy of the current field
func (s *Simulation) Frame() Frame {
	s.area.Lock()
	defer s.area.Unlock()
	return newFrame(s.area.Universe)
}

//Render returns the current field as text
func (s *Simulation) Render() string {
	s.area.Lock()
	defer s.area.Unlock()
	return s.area.Render()
}

//Run starts the simulation, returns immediately
func (s *Simulation) Run() {
	s.send(s.run)
}

//Stop stops the simulation, returns immediately
//the Status struct will be written the stateCh on finish
func (s *Simulation) Stop() {
	s.send(s.stop)
}

//Step do one simulation step, returns immediately
//the Status struct will be written to the stateCh on start and on finish
func (s *Simulation) Step() {
	s.send(s.step)
}

//Clear clears the universe (kill all cells and reset all counters), returns immediately
//the Status struct will be written to the stateCh on finish
func (s *Simulation) Clear() {
	s.send(s.clear)
}

//Close stops the control goroutine, returns immediately
//commands sent after Close are dropped
func (s *Simulation) Close() {
	s.closeOnce.Do(func() {
		close(s.closeCh)
	})
}

//Sync blocks until every command queued before the call has been executed
func (s *Simulation) Sync() {
	done := make(chan struct{})
	if s.send(func() { close(done) }) {
		select {
		case <-done:
		case <-s.doneCh:
		}
	}
}

//Done is closed when the control goroutine has exited
func (s *Simulation) Done() <-chan struct{} {
	return s.doneCh
}

//send queues the command for the control goroutine, reports false if the simulation is closed
func (s *Simulation) send(cmd func()) bool {
	select {
	case s.controlCh <- cmd:
		return true
	case <-s.doneCh:
		return false
	}
}

//mainLoop - the main cycle, should start as a goroutine
//waits for command and executes
func (s *Simulation) mainLoop() {
	defer close(s.doneCh)
	for {
		select {
		case cmd := <-s.controlCh:
			cmd()
		case <-s.closeCh:
			universe.Logger().Debug("simulation closed", "iteration", s.Status().IterationNum)
			return
		}
	}
}

//settle places live cells at [x, y], must be called with the area lock held
func (s *Simulation) settle(vc [][]int) {
	w, h := int(s.area.Width()), int(s.area.Height())
	for _, v := range vc {
		if len(v) < 2 || v[0] < 0 || v[1] < 0 || v[0] >= w || v[1] >= h {
			continue
		}
		_ = s.area.Set(v[1]*w+v[0], true)
	}
}

func (s *Simulation) setLiveCells(n int) {
	s.state.Lock()
	s.state.LiveCells = n
	s.state.Unlock()
}

func (s *Simulation) runningMode() RunningState {
	s.state.Lock()
	defer s.state.Unlock()
	return s.state.RunningMode
}

//switchRunningState switch the state of the simulation to RunningState
//also writes the new state to the stateCh to signal upper control software
func (s *Simulation) switchRunningState(to RunningState) {
	s.state.Lock()
	s.state.RunningMode = to
	st := s.state.Status
	s.state.Unlock()
	if s.stateCh != nil {
		select {
		case s.stateCh <- st:
		case <-s.closeCh:
		}
	}
}

//run starts the simulation cycle in its own goroutine
//the cycle stops on Stop() calling or when the boundary conditions are reached
func (s *Simulation) run() {
	if s.runningMode() == RunningStateRun {
		return
	}
	s.switchRunningState(RunningStateRun)
	go func() {
		skipped := 0
		for {
			mode := s.runningMode()
			if mode != RunningStateRun && mode != RunningStateStep {
				return
			}
			if skipped > s.options.MaxSkippedTicks {
				universe.Logger().Warn("too many skipped ticks, finishing", "skipped", skipped)
				s.send(func() { s.switchRunningState(RunningStateFinished) })
				return
			}
			//skip the tick if the universe is still in the calculation mode
			if mode != RunningStateStep {
				skipped = 0
				done := make(chan struct{})
				if !s.send(func() {
					if s.runningMode() == RunningStateRun {
						s.step()
					}
					close(done)
				}) {
					return
				}
				select {
				case <-done:
				case <-s.doneCh:
					return
				}
			} else {
				skipped++
			}
			if s.options.Interval > 0 {
				select {
				case <-time.After(s.options.Interval):
				case <-s.doneCh:
					return
				}
			}
		}
	}()
}

//stop stops the simulation running cycle
func (s *Simulation) stop() {
	if s.runningMode() == RunningStateRun {
		s.switchRunningState(RunningStateManual)
	}
}

//step does the new one state calculation for entire universe
//the simulation is finished when MaxSteps is reached, all cells are dead or the field stops changing
func (s *Simulation) step() {
	finished := false
	rm := s.runningMode()
	maxIter := s.options.MaxSteps
	defer func() {
		if finished {
			s.switchRunningState(RunningStateFinished)
		} else {
			s.switchRunningState(rm)
		}
		s.refreshView()
	}()

	if maxIter != 0 && s.Status().IterationNum >= maxIter {
		finished = true
		return
	}
	s.switchRunningState(RunningStateStep)
	isAlive, changed, iter := s.nextIteration()
	if !isAlive || !changed || (maxIter != 0 && iter >= maxIter) {
		finished = true
	}
}

//clear clears the universe data, reset all counters
func (s *Simulation) clear() {
	s.area.Lock()
	s.area.Clear()
	s.area.Unlock()

	s.state.Lock()
	s.state.IterationNum = 0
	s.state.LiveCells = 0
	s.state.IterationTime = 0
	s.state.Unlock()
	s.switchRunningState(RunningStateManual)
	s.refreshView()
}

//nextIteration does one simulation cycle with the configured engine
func (s *Simulation) nextIteration() (hasLiveEntities bool, changed bool, iter int) {
	s.area.Lock()
	start := time.Now()
	timed(s.options.Timer, "tick", func() {
		s.engine(s.area.Universe)
	})
	elapsed := time.Since(start)
	liveCells := s.area.LiveCells()
	changed = !s.area.Stable()
	s.area.Unlock()

	s.state.Lock()
	s.state.IterationNum++
	s.state.LiveCells = liveCells
	s.state.IterationTime = elapsed
	iter = s.state.IterationNum
	s.state.Unlock()

	universe.Logger().Debug("tick", "iteration", iter, "live", liveCells, "elapsed", elapsed)
	return liveCells > 0, changed, iter
}

//refreshView calls Refresh event for all registered views
//the list is copied so a viewer may be registered from any goroutine meanwhile
func (s *Simulation) refreshView() {
	s.views.Lock()
	views := append([]Viewer(nil), s.views.list...)
	s.views.Unlock()
	for _, v := range views {
		v.Refresh()
	}
}
