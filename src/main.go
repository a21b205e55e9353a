package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/integrii/flaggy"

	"lifebits/src/simulation"
	"lifebits/src/universe"
	"lifebits/src/view"
)

type EnvOptions struct {
	interactive bool
	randomData  bool
	verbose     bool
	template    string
	output      string
	format      string
	scale       int
}

func main() {
	eo, uo := initOptions()

	if eo.verbose {
		universe.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
		uo.Timer = simulation.NewLogTimer()
	}

	var stateCh chan simulation.Status
	if !eo.interactive {
		stateCh = make(chan simulation.Status, 10) //the buffered channel to getting the simulation status
	}

	s, err := simulation.New(uo, stateCh)
	if err != nil {
		log.Fatalf("can't create the simulation: %v", err)
	}

	var snapshot *view.SnapshotOut
	if eo.output != "" {
		snapshot = view.NewSnapshotOut(eo.output, eo.format, eo.scale)
		s.RegisterViewer(snapshot)
	}

	var ui *view.ConsoleUI
	var c *view.ConsoleOut
	if eo.interactive {
		ui = view.NewViewTerminal(snapshot)
		s.RegisterViewer(ui)
	} else {
		c = view.NewConsoleOut()
		s.RegisterViewer(c)
	}

	if eo.randomData {
		s.SettleWithRandomData()
		s.Sync()
	} else if eo.template != "" {
		s.Clear()
		s.Sync()
		if err := s.SettleTemplate(eo.template); err != nil {
			log.Fatalf("can't settle: %v", err)
		}
	}

	if ui != nil {
		ui.Start()
		s.Close()
		<-s.Done()
		return
	}

	c.Start()
	s.Run()
	for st := range stateCh {
		if st.RunningMode == simulation.RunningStateFinished {
			break
		}
	}
	s.Close()
	<-s.Done()
}

func initOptions() (eo *EnvOptions, uo *simulation.Options) {
	o := simulation.DefaultOptions
	uo = &o
	eo = &EnvOptions{scale: 4}

	templates := make([]string, 0, len(simulation.DefaultTemplates))
	for _, t := range simulation.DefaultTemplates {
		templates = append(templates, t.Name)
	}
	sort.Strings(templates)

	flaggy.SetName("lifebits")
	flaggy.SetDescription("Conway's Game of Life on a bit-packed toroidal field")
	flaggy.DefaultParser.ShowHelpOnUnexpected = true
	flaggy.Int(&uo.Width, "x", "width", "Width of a simulation field")
	flaggy.Int(&uo.Height, "y", "height", "Height of a simulation field")
	flaggy.Duration(&uo.Interval, "i", "interval", "Simulation speed (interval between the steps) in format the number with 'ms' suffix, for example 150ms")
	flaggy.Int(&uo.MaxSteps, "s", "maxSteps", "Limit the simulation to maxSteps, 0 means no limit")
	flaggy.String(&uo.Engine, "e", "engine", "Engine to use ["+strings.Join(universe.EngineNames(), "|")+"]")
	flaggy.Int(&uo.Workers, "w", "workers", "Workers of the parallel engine")
	flaggy.Int64(&uo.Seed, "", "seed", "Seed of the random data, 0 picks one from the clock")
	flaggy.Bool(&eo.interactive, "n", "interactive", "Start interactive mode")
	flaggy.Bool(&eo.randomData, "r", "random", "Settle with random data")
	flaggy.String(&eo.template, "t", "template", "Clear the field and settle the template ["+strings.Join(templates, "|")+"]")
	flaggy.String(&eo.output, "o", "output", "Save the field to this file when the simulation is finished")
	flaggy.String(&eo.format, "f", "format", "Snapshot format ["+strings.Join(view.Formats, "|")+"], taken from the output extension by default")
	flaggy.Int(&eo.scale, "", "scale", "Pixels per cell in image snapshots")
	flaggy.Bool(&eo.verbose, "v", "verbose", "Log every tick to stderr")

	flaggy.Parse()

	if err := uo.Validate(); err != nil {
		flaggy.ShowHelpAndExit(err.Error())
	}
	if eo.output != "" {
		format := eo.format
		if format == "" {
			format = view.FormatFromPath(eo.output)
		}
		if !view.SupportedFormat(format) {
			flaggy.ShowHelpAndExit(fmt.Sprintf("unknown snapshot format %q", format))
		}
	}

	return
}
