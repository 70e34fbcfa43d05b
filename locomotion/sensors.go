package locomotion

import (
	"time"

	"gonum.org/v1/gonum/spatial/r2"
)

// skin lifts ray origins off the collider surface so a body resting exactly on
// a face still reports it.
const skin = 0.02

var (
	up    = r2.Vec{Y: 1}
	down  = r2.Vec{Y: -1}
	left  = r2.Vec{X: -1}
	right = r2.Vec{X: 1}
)

// Readings is one consistent snapshot of the environment around the body.
type Readings struct {
	Ground    Collider
	Grounded  bool
	WallLeft  bool
	WallRight bool
	Ladder    bool
	// Above is the one-way platform directly overhead, only probed while ascending.
	Above Collider
}

// TouchingWall reports contact on side (-1 left, +1 right).
func (r Readings) TouchingWall(side int) bool {
	switch side {
	case -1:
		return r.WallLeft
	case 1:
		return r.WallRight
	}
	return false
}

func (r Readings) AnyWall() bool {
	return r.WallLeft || r.WallRight
}

// sensors runs the geometric queries. It holds no state of its own except the
// trigger-driven ladder counter owned by the controller.
type sensors struct {
	cfg   *Config
	world World
	body  Body
}

func (s sensors) feet() r2.Vec {
	p := s.body.Position()
	h := s.body.HalfExtents()
	return r2.Vec{X: p.X, Y: p.Y - h.Y}
}

// groundHit casts down from the feet and returns the nearest collider.
func (s sensors) groundHit() (Collider, bool) {
	origin := r2.Add(s.feet(), r2.Vec{Y: skin})
	hit, ok := s.world.RayCast(origin, down, s.cfg.GroundCheckDistance+skin, groundMask)
	if !ok || hit.Collider == nil {
		return nil, false
	}
	return hit.Collider, true
}

// IsGrounded is false when the only hit is the collider being dropped through.
func (s sensors) IsGrounded(drop *IgnoreSlot) (Collider, bool) {
	c, ok := s.groundHit()
	if !ok {
		return nil, false
	}
	if drop != nil && drop.Holds(c) {
		return c, false
	}
	return c, true
}

// TouchingWall casts horizontally from the body center past the collider edge.
func (s sensors) TouchingWall(side int) bool {
	dir := right
	if side < 0 {
		dir = left
	}
	h := s.body.HalfExtents()
	_, ok := s.world.RayCast(s.body.Position(), dir, h.X+s.cfg.WallCheckDistance, wallMask)
	return ok
}

// OnLadder reports ladder overlap or trigger presence once the dismount
// cooldown has run out.
func (s sensors) OnLadder(now time.Duration, counter int, dismount Timer) bool {
	if !dismount.Elapsed(now, s.cfg.LadderDismountCooldown) {
		return false
	}
	if counter > 0 {
		return true
	}
	for _, c := range s.world.Overlap(s.body.Position(), s.body.HalfExtents(), LayerLadder) {
		if isLadder(c) {
			return true
		}
	}
	return false
}

// PlatformDirectlyAbove returns the first one-way collider over the head.
func (s sensors) PlatformDirectlyAbove() Collider {
	p := s.body.Position()
	h := s.body.HalfExtents()
	origin := r2.Vec{X: p.X, Y: p.Y + h.Y - skin}
	hit, ok := s.world.RayCast(origin, up, s.cfg.JumpThroughRayDistance+skin, LayerPlatform)
	if !ok || !isPassThrough(hit.Collider) {
		return nil
	}
	return hit.Collider
}
