package input

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
)

// Frame is a held-input state kept for Ticks decision ticks.
type Frame struct {
	Ticks int     `csv:"ticks"`
	MoveX float64 `csv:"move_x"`
	MoveY float64 `csv:"move_y"`
	Jump  bool    `csv:"jump"`
	Dash  bool    `csv:"dash"`
}

// Frames replays a fixed list of held-input frames and derives edges from
// them. After the last frame it reports neutral input.
type Frames struct {
	frames []Frame
	index  int
	left   int

	jump Button
	dash Button
}

func NewFrames(frames ...Frame) *Frames {
	f := &Frames{frames: append([]Frame(nil), frames...)}
	if len(f.frames) > 0 {
		f.left = f.frames[0].Ticks
	}
	return f
}

// ReadFrames decodes a CSV of frames with a ticks,move_x,move_y,jump,dash
// header.
func ReadFrames(r io.Reader) (*Frames, error) {
	var frames []Frame
	if err := gocsv.Unmarshal(r, &frames); err != nil {
		return nil, fmt.Errorf("input: read frames: %w", err)
	}
	for i, f := range frames {
		if f.Ticks < 0 {
			return nil, fmt.Errorf("input: frame %d has negative ticks", i)
		}
	}
	return NewFrames(frames...), nil
}

func (f *Frames) Poll() Snapshot {
	var cur Frame
	for f.index < len(f.frames) && f.left <= 0 {
		f.index++
		if f.index < len(f.frames) {
			f.left = f.frames[f.index].Ticks
		}
	}
	if f.index < len(f.frames) {
		cur = f.frames[f.index]
		f.left--
	}
	return f.snapshot(cur)
}

// Done reports whether every frame has been replayed.
func (f *Frames) Done() bool {
	return f.index >= len(f.frames) || (f.index == len(f.frames)-1 && f.left <= 0)
}

func (f *Frames) snapshot(cur Frame) Snapshot {
	jumpPressed, jumpReleased := f.jump.Update(cur.Jump)
	dashPressed, _ := f.dash.Update(cur.Dash)
	return Snapshot{
		MoveX:        cur.MoveX,
		MoveY:        cur.MoveY,
		JumpPressed:  jumpPressed,
		JumpHeld:     cur.Jump,
		JumpReleased: jumpReleased,
		DashPressed:  dashPressed,
	}
}
