// Command replay drives the controller headless from a tengo script or a CSV
// of held-input frames and writes a per-tick trace.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/milk9111/locomotion/input"
	"github.com/milk9111/locomotion/locomotion"
	"github.com/milk9111/locomotion/prefabs"
	"github.com/milk9111/locomotion/sim"
)

type options struct {
	script string
	frames string
	ticks  int
}

func main() {
	fs := flag.NewFlagSet("replay", flag.ExitOnError)
	var opts options
	fs.StringVar(&opts.script, "script", "walk_jump", "tengo input script, embedded name or path under the prefabs dir")
	fs.StringVar(&opts.frames, "frames", "", "CSV of held-input frames; takes precedence over -script")
	fs.IntVar(&opts.ticks, "ticks", 600, "decision ticks to run")
	cfg, err := sim.ParseConfig(fs, os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
	logger := cfg.Logger(os.Stderr)

	if err := run(cfg, opts, logger); err != nil {
		logger.Error("replay failed", "err", err)
		os.Exit(1)
	}
}

func run(cfg sim.Config, opts options, logger *slog.Logger) error {
	if opts.ticks <= 0 {
		return fmt.Errorf("ticks must be positive, got %d", opts.ticks)
	}
	s, err := sim.New(cfg, logger)
	if err != nil {
		return err
	}
	defer s.Close()

	src, check, err := openSource(opts)
	if err != nil {
		return err
	}

	transitions := 0
	s.Ctrl.OnStateChanged(func(from, to locomotion.StateName) { transitions++ })

	// one decision pass per fixed step keeps replays deterministic
	for i := 0; i < opts.ticks; i++ {
		s.Frame(cfg.Fixed, src.Poll())
		if err := check(); err != nil {
			return err
		}
	}

	st := s.Ctrl.Status()
	logger.Info("replay finished",
		"ticks", s.Ticks(),
		"transitions", transitions,
		"state", st,
		"x", st.Position.X,
		"y", st.Position.Y,
		"trace", cfg.Trace,
	)
	return nil
}

// openSource returns the input source plus a check reporting script
// runtime errors.
func openSource(opts options) (input.Source, func() error, error) {
	if opts.frames != "" {
		f, err := os.Open(opts.frames)
		if err != nil {
			return nil, nil, err
		}
		defer f.Close()
		frames, err := input.ReadFrames(f)
		if err != nil {
			return nil, nil, err
		}
		return frames, func() error { return nil }, nil
	}
	if opts.script == "" {
		return nil, nil, errors.New("one of -script or -frames is required")
	}
	data, err := prefabs.LoadScript(opts.script)
	if err != nil {
		return nil, nil, err
	}
	script, err := input.NewScript(data)
	if err != nil {
		return nil, nil, err
	}
	return script, script.Err, nil
}
