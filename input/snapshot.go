package input

import "github.com/milk9111/locomotion/common"

// Snapshot holds one decision tick of input, decoupled from devices.
type Snapshot struct {
	// MoveX is the horizontal axis in [-1, 1].
	MoveX float64
	// MoveY is the vertical axis in [-1, 1]; negative is down.
	MoveY float64
	// JumpPressed is true on the tick the jump button went down.
	JumpPressed bool
	// JumpHeld is true while the jump button is down.
	JumpHeld bool
	// JumpReleased is true on the tick the jump button went up.
	JumpReleased bool
	// DashPressed is true on the tick the dash button went down.
	DashPressed bool
}

// Down reports whether the vertical axis is pushed past half travel downward.
func (s Snapshot) Down() bool {
	return s.MoveY < -0.5
}

// HasHorizontal reports whether MoveX is outside the dead-zone.
func (s Snapshot) HasHorizontal() bool {
	return !common.NearZero(s.MoveX)
}

// Source produces one Snapshot per decision tick. Implementations are chosen
// once at startup.
type Source interface {
	Poll() Snapshot
}

// Latch carries edge events from the variable-rate decision pass to the
// fixed-rate physics pass. Edges stay set until a fixed tick consumes them so
// a press is never lost when zero fixed ticks run in a frame.
type Latch struct {
	cur Snapshot
}

// Capture merges a new snapshot: axes and held state overwrite, edges accumulate.
func (l *Latch) Capture(s Snapshot) {
	l.cur.MoveX = s.MoveX
	l.cur.MoveY = s.MoveY
	l.cur.JumpHeld = s.JumpHeld
	l.cur.JumpPressed = l.cur.JumpPressed || s.JumpPressed
	l.cur.JumpReleased = l.cur.JumpReleased || s.JumpReleased
	l.cur.DashPressed = l.cur.DashPressed || s.DashPressed
}

// Peek returns the current merged snapshot without consuming edges.
func (l *Latch) Peek() Snapshot {
	return l.cur
}

// ConsumeJumpEdges clears the jump pressed/released edges.
func (l *Latch) ConsumeJumpEdges() {
	l.cur.JumpPressed = false
	l.cur.JumpReleased = false
}

// ConsumeDash clears the dash edge.
func (l *Latch) ConsumeDash() {
	l.cur.DashPressed = false
}

// Reset drops all latched state.
func (l *Latch) Reset() {
	l.cur = Snapshot{}
}

// Button derives press/release edges from a held signal for sources that only
// know whether a button is down.
type Button struct {
	prev bool
}

func (b *Button) Update(held bool) (pressed, released bool) {
	pressed = held && !b.prev
	released = !held && b.prev
	b.prev = held
	return pressed, released
}
