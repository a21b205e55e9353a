package simulation

import (
	"errors"
	"fmt"
	"math"
	"time"

	"lifebits/src/universe"
)

var ErrInvalidOptions = errors.New("simulation: invalid options")

//Options represents the simulation's configurable options
type Options struct {
	Width           int
	Height          int
	Interval        time.Duration
	MaxSteps        int
	MaxSkippedTicks int
	Engine          string
	Workers         int
	Seed            int64
	Timer           Timer                  //optional hook bracketing every tick
	Advanced        map[string]interface{} //advanced options (engine specific)
}

//Status represents the status of the simulation at concrete moment
type Status struct {
	IterationNum  int
	RunningMode   RunningState
	LiveCells     int
	IterationTime time.Duration
	Details       map[string]interface{} //advanced details (engine specific)
}

//The simulation running status at the concrete moment
type RunningState int

//default options
const (
	DefSimulationInterval = time.Millisecond * 100
	DefMaxSteps           = 1000
	DefWidth              = 64
	DefHeight             = 64
	DefMaxSkippedTicks    = 5
	DefEngine             = "snapshot"
)

const (
	RunningStateManual   = RunningState(0x0)
	RunningStateStep     = RunningState(0x1)
	RunningStateRun      = RunningState(0x2)
	RunningStateFinished = RunningState(0x3)
)

var DefaultOptions = Options{
	Width:           DefWidth,
	Height:          DefHeight,
	Interval:        DefSimulationInterval,
	MaxSteps:        DefMaxSteps,
	MaxSkippedTicks: DefMaxSkippedTicks,
	Engine:          DefEngine,
	Workers:         universe.DefWorkers,
}

func (s RunningState) String() string {
	switch s {
	case RunningStateManual:
		return "manual"
	case RunningStateStep:
		return "step"
	case RunningStateRun:
		return "run"
	case RunningStateFinished:
		return "finished"
	}
	return fmt.Sprintf("RunningState(%d)", int(s))
}

//Validate checks the options before a simulation is created
func (o *Options) Validate() error {
	if o.Width <= 0 || o.Height <= 0 || uint64(o.Width) > math.MaxUint32 || uint64(o.Height) > math.MaxUint32 {
		return fmt.Errorf("%w: dimension %v x %v", ErrInvalidOptions, o.Width, o.Height)
	}
	if o.MaxSteps < 0 || o.MaxSkippedTicks < 0 || o.Interval < 0 {
		return fmt.Errorf("%w: negative limits", ErrInvalidOptions)
	}
	if _, ok := universe.Engines[o.Engine]; !ok && o.Engine != "" {
		return fmt.Errorf("%w: unknown engine %q", ErrInvalidOptions, o.Engine)
	}
	if o.Engine == "parallel" && o.Workers < 1 {
		return fmt.Errorf("%w: parallel engine needs at least one worker", ErrInvalidOptions)
	}
	return nil
}
