package locomotion

import (
	"math"
	"time"

	"github.com/milk9111/locomotion/common"
	"github.com/milk9111/locomotion/input"
	"gonum.org/v1/gonum/spatial/r2"
)

// FixedUpdate runs one fixed physics step: ignore-slot expiry, a single
// sensor capture, then exactly one of ladder, dash or normal movement, with
// wind layered on top.
func (c *Controller) FixedUpdate(now, dt time.Duration) {
	c.now = now
	in := c.latch.Peek()

	c.releaseExpiredSlots(now)

	ascending := c.body.Velocity().Y > 0
	r := c.read(now, ascending && !c.st.jumpSlot.Occupied())
	c.last = r

	if ascending {
		c.armJumpThrough(now, r)
	}

	c.setGrounded(r)
	c.updateWallCling(now, r, in.MoveX)
	c.updateFriction(r)

	switch {
	case r.Ladder:
		c.resolveLadder(now, in)
	case c.dashing(now):
		c.resolveDash()
	default:
		c.resolveNormal(now, dt, in, r)
	}

	c.applyWind()

	c.latch.ConsumeJumpEdges()
	c.fsm.jumpArmed = false
}

func (c *Controller) resolveLadder(now time.Duration, in input.Snapshot) {
	c.body.SetGravityScale(0)
	vel := c.body.Velocity()

	if in.JumpPressed {
		switch {
		case in.Down():
			vel.Y = 0
			c.body.SetVelocity(vel)
			c.dismountLadder(now, "drop")
		case c.consumeAirJump():
			c.body.SetVelocity(c.jump(vel))
			c.dismountLadder(now, "jump")
		}
		return
	}

	c.body.SetVelocity(r2.Vec{
		X: in.MoveX * c.cfg.MaxSpeed * c.mods.MoveSpeed,
		Y: in.MoveY * c.cfg.LadderClimbSpeed,
	})
}

func (c *Controller) dismountLadder(now time.Duration, how string) {
	c.st.dismount.Start(now)
	c.st.ladderCount = 0
	c.log.Debug("ladder dismount", "how", how)
}

func (c *Controller) resolveDash() {
	c.body.SetGravityScale(0)
	c.body.SetVelocity(r2.Vec{X: c.st.dashDir * c.cfg.DashSpeed})
}

func (c *Controller) resolveNormal(now, dt time.Duration, in input.Snapshot, r Readings) {
	vel := c.body.Velocity()

	wallJumped := false
	if in.JumpPressed {
		vel, wallJumped = c.initiateJump(now, in, r, vel)
	}

	// variable jump height
	if in.JumpReleased && vel.Y > 0 && !c.st.clinging {
		vel.Y *= c.cfg.JumpCutFactor
	}

	c.body.SetGravityScale(c.gravityScale(r, vel, in.JumpHeld))

	switch {
	case c.st.clinging:
		vel = r2.Vec{
			X: float64(c.st.wallSide) * c.cfg.WallStickSpeed,
			Y: -c.cfg.WallSlideSpeed,
		}
	case wallJumped:
		// the escape impulse owns this tick's horizontal velocity
	default:
		vel.X = c.horizontal(vel.X, in.MoveX, r.Grounded, dt)
	}

	c.body.SetVelocity(vel)
}

// initiateJump handles a jump edge in normal mode. An armed ground jump is
// free; any other jump spends from the air-jump budget.
func (c *Controller) initiateJump(now time.Duration, in input.Snapshot, r Readings, vel r2.Vec) (r2.Vec, bool) {
	if wantsDropThrough(in, r) {
		c.armDropThrough(now, r)
		return vel, false
	}
	switch {
	case c.fsm.jumpArmed:
		c.st.leftGroundByJump = true
		return c.jump(vel), false
	case c.consumeAirJump():
		if c.st.clinging {
			return c.wallJump(now, vel), true
		}
		if r.Grounded {
			c.st.leftGroundByJump = true
		}
		return c.jump(vel), false
	}
	return vel, false
}

// wantsDropThrough is a down+jump press while standing on a one-way platform.
// It never doubles as a jump, even when the slot is busy.
func wantsDropThrough(in input.Snapshot, r Readings) bool {
	return in.JumpPressed && in.Down() && r.Grounded && isPassThrough(r.Ground)
}

func (c *Controller) jump(vel r2.Vec) r2.Vec {
	vel.Y = 0
	vel.Y += c.cfg.JumpImpulse
	c.log.Debug("jump", "air_jumps", c.st.airJumps)
	return vel
}

func (c *Controller) wallJump(now time.Duration, vel r2.Vec) r2.Vec {
	away := -float64(c.st.wallSide)
	vel.X = away * c.cfg.WallJumpHorizontalForce
	vel.Y = c.cfg.JumpImpulse
	c.log.Debug("wall jump", "side", c.st.wallSide, "air_jumps", c.st.airJumps)

	c.st.clinging = false
	c.st.wallSide = 0
	c.st.facing = int(away)
	c.st.lastWallJump.Start(now)
	return vel
}

func (c *Controller) gravityScale(r Readings, vel r2.Vec, jumpHeld bool) float64 {
	var scale float64
	switch {
	case c.st.clinging:
		return 0
	case r.Grounded && vel.Y <= 0:
		scale = c.cfg.GravityScale
	case vel.Y < 0:
		scale = c.cfg.FallGravityScale
	case vel.Y > 0 && !jumpHeld:
		scale = c.cfg.LowJumpGravityScale
	default:
		scale = c.cfg.GravityScale
	}
	return scale * c.mods.Gravity
}

// horizontal accelerates toward the weather-scaled target speed, or
// decelerates toward rest when there is no input.
func (c *Controller) horizontal(vx, moveX float64, grounded bool, dt time.Duration) float64 {
	step := dt.Seconds()
	m := c.mods

	if x := moveX * m.Control; !common.NearZero(x) {
		target := x * c.cfg.MaxSpeed * m.MoveSpeed
		if c.cfg.Acceleration <= 0 {
			return target
		}
		return common.Approach(vx, target, c.cfg.Acceleration*m.Acceleration*step)
	}
	if grounded {
		return common.Approach(vx, 0, c.cfg.Deceleration*m.Deceleration*m.Friction*step)
	}
	return common.Approach(vx, 0, c.cfg.AirDeceleration*step)
}

func (c *Controller) applyWind() {
	if w := c.mods.Wind; w.X != 0 || w.Y != 0 {
		c.body.ApplyForce(w)
	}
}

// updateFriction drops friction to zero while airborne against a wall so the
// body slides instead of sticking on contact.
func (c *Controller) updateFriction(r Readings) {
	fs, ok := c.body.(FrictionScaler)
	if !ok {
		return
	}
	scale := c.mods.Friction
	if !r.Grounded && r.AnyWall() {
		scale = 0
	}
	if scale == c.friction {
		return
	}
	c.friction = scale
	fs.SetFrictionScale(scale)
}

func (c *Controller) resetFriction() {
	c.friction = math.NaN()
}
