package locomotion

import (
	"github.com/milk9111/locomotion/weather"
	"gonum.org/v1/gonum/spatial/r2"
)

// Layer is a bit mask of collider categories used to filter queries.
type Layer uint32

const (
	LayerGround Layer = 1 << iota
	LayerWall
	LayerPlatform
	LayerLadder
	LayerCharacter
)

const (
	groundMask = LayerGround | LayerWall | LayerPlatform
	wallMask   = LayerGround | LayerWall
)

// Collider is an opaque handle to a shape in the physics world. Implementations
// must be comparable (pointer types) so ignore slots can match them.
type Collider interface {
	Name() string
}

// PassThrough is the one-way platform capability: colliders reporting true may
// be placed in a temporary collision-ignore relationship with the character.
type PassThrough interface {
	PassThrough() bool
}

// LadderVolume is the capability of a trigger volume that can be climbed.
type LadderVolume interface {
	Ladder() bool
}

func isPassThrough(c Collider) bool {
	p, ok := c.(PassThrough)
	return ok && p.PassThrough()
}

func isLadder(c Collider) bool {
	l, ok := c.(LadderVolume)
	return ok && l.Ladder()
}

// Hit is the nearest result of a ray cast.
type Hit struct {
	Collider Collider
	Point    r2.Vec
	Distance float64
}

// World is the query side of the physics engine. The controller never mutates
// it beyond the collision-ignore pairs it arms and later revokes.
type World interface {
	// RayCast returns the nearest collider matching mask along dir within maxDistance.
	RayCast(origin, dir r2.Vec, maxDistance float64, mask Layer) (Hit, bool)
	// Overlap returns every collider matching mask that overlaps the box.
	Overlap(center, halfExtents r2.Vec, mask Layer) []Collider
	// SetCollisionIgnored toggles contact resolution between two colliders.
	SetCollisionIgnored(a, b Collider, ignored bool)
}

// Body is the character's rigid body and its integration primitives.
// Positive Y is up.
type Body interface {
	Collider() Collider
	Position() r2.Vec
	HalfExtents() r2.Vec
	Velocity() r2.Vec
	SetVelocity(v r2.Vec)
	// ApplyForce adds a continuous force for the next physics step.
	ApplyForce(f r2.Vec)
	// SetGravityScale scales world gravity for this body.
	SetGravityScale(scale float64)
	MoveTo(p r2.Vec)
}

// FrictionScaler is an optional Body capability for surface friction.
type FrictionScaler interface {
	SetFrictionScale(scale float64)
}

// WeatherSource supplies the current modifiers and pushes changes.
type WeatherSource interface {
	Current() weather.Modifiers
	OnChanged(fn func(weather.Modifiers)) (cancel func())
}
