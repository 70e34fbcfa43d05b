package locomotion

import (
	"time"

	"github.com/milk9111/locomotion/common"
	"github.com/milk9111/locomotion/input"
)

// runtime is the mutable per-character state. Only the controller touches it.
type runtime struct {
	grounded     bool
	wasGrounded  bool
	clinging     bool
	wasClinging  bool
	wallSide     int
	airJumps     int
	facing       int
	lastInputDir int

	leftGroundByJump bool
	stepOffGranted   bool

	lastWallJump Timer
	groundLoss   Timer
	dashStart    Timer
	dashEnd      time.Duration
	dashDir      float64
	dismount     Timer
	ladderCount  int

	dropSlot IgnoreSlot
	jumpSlot IgnoreSlot
}

func newRuntime(cfg Config) runtime {
	return runtime{
		airJumps:     cfg.AirJumps,
		facing:       1,
		lastInputDir: 1,
	}
}

func (c *Controller) trackDirection(moveX float64) {
	if common.NearZero(moveX) {
		return
	}
	dir := int(common.Sign(moveX))
	c.st.lastInputDir = dir
	if !c.st.clinging {
		c.st.facing = dir
	}
}

// setGrounded applies a ground reading and keeps cling exclusive with it.
func (c *Controller) setGrounded(r Readings) {
	c.st.grounded = r.Grounded
	if r.Grounded {
		c.st.clinging = false
		c.st.wallSide = 0
	}
}

// updateWallCling engages cling when airborne, out of the wall-jump cooldown
// and pushing past the release threshold toward a detected wall.
func (c *Controller) updateWallCling(now time.Duration, r Readings, moveX float64) {
	st := &c.st
	side := 0
	switch {
	case moveX > c.cfg.WallReleaseThreshold && r.WallRight:
		side = 1
	case moveX < -c.cfg.WallReleaseThreshold && r.WallLeft:
		side = -1
	}

	engage := side != 0 &&
		!r.Grounded &&
		!r.Ladder &&
		!c.dashing(now) &&
		st.lastWallJump.Elapsed(now, c.cfg.WallJumpClingCooldown)

	if !engage {
		if st.clinging {
			c.log.Debug("wall cling released", "side", st.wallSide)
		}
		st.clinging = false
		st.wallSide = 0
		return
	}
	if !st.clinging {
		c.log.Debug("wall cling engaged", "side", side)
	}
	st.clinging = true
	st.wallSide = side
	st.facing = side
}

// refillAirJumps runs the air-jump economy for one decision tick. The
// step-off and wall-contact refills are first-match-wins.
func (c *Controller) refillAirJumps(now time.Duration, r Readings, vy float64) {
	st := &c.st
	if r.Grounded {
		st.leftGroundByJump = false
		st.stepOffGranted = false
		// the tick after a ground jump can still read grounded while rising
		if vy <= 0 {
			if !st.wasGrounded {
				c.log.Debug("landed", "air_jumps", c.cfg.AirJumps)
			}
			st.airJumps = c.cfg.AirJumps
		}
		return
	}

	if st.wasGrounded && !r.Grounded {
		st.groundLoss.Start(now)
	}

	switch {
	case st.groundLoss.Within(now, c.cfg.StepOffRefillWindow) &&
		vy <= 0 &&
		!st.stepOffGranted &&
		!st.leftGroundByJump:
		st.airJumps = c.cfg.AirJumps
		st.stepOffGranted = true
		c.log.Debug("step-off refill granted")
	case st.lastWallJump.Elapsed(now, c.cfg.WallJumpClingCooldown) &&
		(st.clinging || st.wasClinging || (r.AnyWall() && !st.leftGroundByJump)):
		st.airJumps = c.cfg.AirJumps
	}
}

// consumeAirJump spends one jump. It reports false when the budget is empty.
func (c *Controller) consumeAirJump() bool {
	if c.st.airJumps <= 0 {
		c.st.airJumps = 0
		return false
	}
	c.st.airJumps--
	return true
}

// armDash starts a dash on the dash edge when the cooldown allows it.
func (c *Controller) armDash(now time.Duration, in input.Snapshot, r Readings) {
	if !in.DashPressed {
		return
	}
	c.latch.ConsumeDash()
	if r.Ladder || !c.st.dashStart.Elapsed(now, c.cfg.DashCooldown) {
		return
	}
	dir := common.Sign(in.MoveX)
	if common.NearZero(in.MoveX) {
		dir = float64(c.st.lastInputDir)
	}
	if dir == 0 {
		dir = 1
	}
	c.st.dashStart.Start(now)
	c.st.dashEnd = now + c.cfg.DashDuration
	c.st.dashDir = dir
	c.st.clinging = false
	c.st.wallSide = 0
	c.log.Debug("dash", "direction", dir)
}

func (c *Controller) dashing(now time.Duration) bool {
	return c.st.dashStart.set && now < c.st.dashEnd
}

// releaseExpiredSlots revokes collision-ignore pairs whose timers ran out.
func (c *Controller) releaseExpiredSlots(now time.Duration) {
	slots := [2]*IgnoreSlot{&c.st.dropSlot, &c.st.jumpSlot}
	for i, slot := range slots {
		if !slot.Expired(now) {
			continue
		}
		other := slot.Release()
		// the sibling slot may still be holding the same platform
		if slots[1-i].Holds(other) {
			continue
		}
		c.world.SetCollisionIgnored(c.body.Collider(), other, false)
		c.log.Debug("collision restored", "collider", other.Name())
	}
}

// armDropThrough puts the ground platform in the drop-through slot if free.
func (c *Controller) armDropThrough(now time.Duration, r Readings) bool {
	g := r.Ground
	if !c.st.dropSlot.Arm(g, now+c.cfg.DropThroughIgnore) {
		return false
	}
	c.world.SetCollisionIgnored(c.body.Collider(), g, true)
	c.log.Debug("drop through", "collider", g.Name(), "for", c.cfg.DropThroughIgnore)
	return true
}

func (c *Controller) armJumpThrough(now time.Duration, r Readings) {
	if r.Above == nil {
		return
	}
	if !c.st.jumpSlot.Arm(r.Above, now+c.cfg.JumpThroughIgnore) {
		return
	}
	c.world.SetCollisionIgnored(c.body.Collider(), r.Above, true)
	c.log.Debug("jump through", "collider", r.Above.Name(), "for", c.cfg.JumpThroughIgnore)
}
