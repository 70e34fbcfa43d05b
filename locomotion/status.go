package locomotion

import (
	"log/slog"
	"time"

	"gonum.org/v1/gonum/spatial/r2"
)

// Status is the read-only view exposed to animation, audio and overlays.
type Status struct {
	State        StateName
	Grounded     bool
	WallClinging bool
	WallSide     int
	OnLadder     bool
	Dashing      bool
	AirJumps     int
	Facing       int

	DashCooldownRemaining time.Duration
	DropThroughActive     bool
	JumpThroughActive     bool

	Position r2.Vec
	Velocity r2.Vec
}

// VerticalVelocity is a convenience for audio and animation triggers.
func (s Status) VerticalVelocity() float64 {
	return s.Velocity.Y
}

func (c *Controller) Status() Status {
	return Status{
		State:        c.fsm.Name(),
		Grounded:     c.st.grounded,
		WallClinging: c.st.clinging,
		WallSide:     c.st.wallSide,
		OnLadder:     c.last.Ladder,
		Dashing:      c.dashing(c.now),
		AirJumps:     c.st.airJumps,
		Facing:       c.st.facing,

		DashCooldownRemaining: c.st.dashStart.Remaining(c.now, c.cfg.DashCooldown),
		DropThroughActive:     c.st.dropSlot.Occupied(),
		JumpThroughActive:     c.st.jumpSlot.Occupied(),

		Position: c.body.Position(),
		Velocity: c.body.Velocity(),
	}
}

func (s Status) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("state", string(s.State)),
		slog.Bool("grounded", s.Grounded),
		slog.Bool("cling", s.WallClinging),
		slog.Bool("ladder", s.OnLadder),
		slog.Bool("dash", s.Dashing),
		slog.Int("air_jumps", s.AirJumps),
		slog.Duration("dash_cooldown", s.DashCooldownRemaining),
		slog.Float64("vy", s.Velocity.Y),
	)
}
