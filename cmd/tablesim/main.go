package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/playmatatu/tablesim/internal/input"
	"github.com/playmatatu/tablesim/internal/physics"
	"github.com/playmatatu/tablesim/internal/render"
)

// maxSamples keeps huge --total-time values from degenerating to a single sample.
const maxSamples = 1000000

type options struct {
	totalTime float64
	dt        float64
	width     float64
	height    float64
	plain     bool
	animate   bool
	sound     bool
	frame     time.Duration
	perFrame  int
}

func main() {
	var opts options
	flag.Float64Var(&opts.totalTime, "total-time", physics.DefaultTotalTime, "simulated seconds")
	flag.Float64Var(&opts.dt, "dt", physics.DefaultTimeStep, "integration step in seconds")
	flag.Float64Var(&opts.width, "width", physics.DefaultWidth, "table width in metres")
	flag.Float64Var(&opts.height, "height", physics.DefaultHeight, "table height in metres")
	flag.BoolVar(&opts.plain, "plain", false, "print samples as text instead of plotting")
	flag.BoolVar(&opts.animate, "animate", false, "replay the path before showing the plot")
	flag.BoolVar(&opts.sound, "sound", false, "play a tone on every wall hit while animating")
	flag.DurationVar(&opts.frame, "frame", 30*time.Millisecond, "animation frame interval")
	flag.IntVar(&opts.perFrame, "samples-per-frame", 5, "samples revealed per animation frame")
	flag.Parse()

	prompter := input.NewPrompter(os.Stdin, os.Stdout)
	prompter.Banner()

	launch, err := prompter.ReadLaunch()
	if err != nil {
		fmt.Println(input.Message(err))
		os.Exit(1)
	}

	params, table, err := resolve(launch, opts)
	if err != nil {
		fmt.Println(input.Message(err))
		os.Exit(1)
	}

	if opts.plain {
		printSamples(os.Stdout, params, table)
		return
	}

	if err := plot(params, table, opts); err != nil {
		log.Fatalf("Failed to plot: %v", err)
	}
}

// resolve applies the command-line duration, step and table to a launch.
func resolve(launch input.Launch, opts options) (physics.Params, physics.Table, error) {
	req := input.Request{
		Speed:       launch.Speed,
		Angle:       launch.Angle,
		TotalTime:   &opts.totalTime,
		TimeStep:    &opts.dt,
		TableWidth:  &opts.width,
		TableHeight: &opts.height,
	}
	lim := input.DefaultLimits()
	lim.MaxSamples = maxSamples
	return req.Resolve(lim)
}

// printSamples writes one "t x y" line per sample and a reflection summary.
func printSamples(w io.Writer, p physics.Params, table physics.Table) {
	physics.Walk(p, table, func(s physics.Sample) bool {
		fmt.Fprintf(w, "%.4f %.6f %.6f\n", s.Time, s.Position.X, s.Position.Y)
		return true
	})
	x, y := physics.CountReflections(p, table)
	fmt.Fprintf(w, "# reflections x=%d y=%d\n", x, y)
}

func plot(p physics.Params, table physics.Table, opts options) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	plotter, err := render.NewPlotter(screen, table)
	if err != nil {
		return err
	}

	keys := make(chan struct{}, 1)
	go func() {
		for {
			switch screen.PollEvent().(type) {
			case nil:
				return
			case *tcell.EventKey:
				select {
				case keys <- struct{}{}:
				default:
				}
			case *tcell.EventResize:
				screen.Sync()
			}
		}
	}()

	if opts.animate {
		var onBounce func(physics.Reflection)
		if opts.sound {
			onBounce = render.NewBounceCue().Play
		}

		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			select {
			case <-keys:
				cancel()
			case <-ctx.Done():
			}
		}()
		err := plotter.Animate(ctx, table, p, opts.frame, opts.perFrame, onBounce)
		cancel()
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
	}

	plotter.Plot(physics.Run(p, table))
	<-keys
	return nil
}
