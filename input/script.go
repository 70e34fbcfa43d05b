package input

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/locomotion/common"
)

// Script is a Source driven by a tengo program. The program is re-run once per
// Poll with the global `tick` set to the poll count (starting at 0) and must
// assign the held-state globals `move_x`, `move_y`, `jump` and `dash`. Missing
// globals read as neutral input. Edges are derived from the held values.
type Script struct {
	compiled *tengo.Compiled
	tick     int

	jump Button
	dash Button
	err  error
}

// NewScript compiles src once.
func NewScript(src []byte) (*Script, error) {
	script := tengo.NewScript(src)
	if err := script.Add("tick", 0); err != nil {
		return nil, fmt.Errorf("input: script add tick: %w", err)
	}
	script.SetImports(stdlib.GetModuleMap("math", "fmt"))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("input: compile script: %w", err)
	}
	return &Script{compiled: compiled}, nil
}

// Poll runs the script for the next tick. A runtime error freezes the source
// at neutral input; Err reports it.
func (s *Script) Poll() Snapshot {
	if s == nil || s.compiled == nil || s.err != nil {
		return s.neutral()
	}

	if err := s.compiled.Set("tick", s.tick); err != nil {
		s.err = fmt.Errorf("input: set tick: %w", err)
		return s.neutral()
	}
	s.tick++
	if err := s.run(); err != nil {
		s.err = fmt.Errorf("input: run script tick %d: %w", s.tick-1, err)
		return s.neutral()
	}

	moveX := s.float("move_x")
	moveY := s.float("move_y")
	jump := s.bool("jump")
	dash := s.bool("dash")

	jumpPressed, jumpReleased := s.jump.Update(jump)
	dashPressed, _ := s.dash.Update(dash)
	return Snapshot{
		MoveX:        common.Clamp(moveX, -1, 1),
		MoveY:        common.Clamp(moveY, -1, 1),
		JumpPressed:  jumpPressed,
		JumpHeld:     jump,
		JumpReleased: jumpReleased,
		DashPressed:  dashPressed,
	}
}

// run executes the compiled program once. Some tengo runtime faults, such as
// integer division by zero, panic instead of returning an error.
func (s *Script) run() (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("script panic: %v", p)
		}
	}()
	return s.compiled.Run()
}

// Err returns the first runtime error, if any.
func (s *Script) Err() error {
	if s == nil {
		return nil
	}
	return s.err
}

// Ticks returns how many times the script has been polled.
func (s *Script) Ticks() int {
	if s == nil {
		return 0
	}
	return s.tick
}

func (s *Script) neutral() Snapshot {
	if s == nil {
		return Snapshot{}
	}
	_, jumpReleased := s.jump.Update(false)
	s.dash.Update(false)
	return Snapshot{JumpReleased: jumpReleased}
}

func (s *Script) float(name string) float64 {
	if !s.compiled.IsDefined(name) {
		return 0
	}
	return s.compiled.Get(name).Float()
}

func (s *Script) bool(name string) bool {
	if !s.compiled.IsDefined(name) {
		return false
	}
	return s.compiled.Get(name).Bool()
}
