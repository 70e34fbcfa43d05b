package physics

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/locomotion/locomotion"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	collisionTypeCharacter cp.CollisionType = iota + 1
	collisionTypeSolid
	collisionTypePlatform
	collisionTypeLadder
)

// BoxSpec describes an axis-aligned box collider. Positive Y is up.
type BoxSpec struct {
	Name        string
	Layer       locomotion.Layer
	Center      r2.Vec
	HalfExtents r2.Vec
	Friction    float64
	// OneWay platforms collide only from above and may be passed through.
	OneWay bool
	// Ladder volumes are sensors that report enter/exit to ladder listeners.
	Ladder bool
}

// Collider wraps a cp shape and implements locomotion.Collider plus the
// one-way and ladder capabilities.
type Collider struct {
	name   string
	layer  locomotion.Layer
	shape  *cp.Shape
	half   r2.Vec
	oneWay bool
	ladder bool
}

func (c *Collider) Name() string            { return c.name }
func (c *Collider) Layer() locomotion.Layer { return c.layer }
func (c *Collider) PassThrough() bool       { return c.oneWay }
func (c *Collider) Ladder() bool            { return c.ladder }
func (c *Collider) Shape() *cp.Shape        { return c.shape }

// Center returns the current world-space center of the collider.
func (c *Collider) Center() r2.Vec {
	bb := c.shape.BB()
	return fromVec(cp.Vector{X: (bb.L + bb.R) / 2, Y: (bb.B + bb.T) / 2})
}

func (c *Collider) HalfExtents() r2.Vec {
	return c.half
}

func (c *Collider) String() string {
	return c.name
}

func collisionTypeFor(spec BoxSpec) cp.CollisionType {
	switch {
	case spec.Ladder:
		return collisionTypeLadder
	case spec.OneWay:
		return collisionTypePlatform
	}
	return collisionTypeSolid
}

func layerFor(spec BoxSpec) locomotion.Layer {
	if spec.Layer != 0 {
		return spec.Layer
	}
	switch {
	case spec.Ladder:
		return locomotion.LayerLadder
	case spec.OneWay:
		return locomotion.LayerPlatform
	}
	return locomotion.LayerGround
}

// PixelsPerUnit scales world units into the space's internal units. cp's
// contact slop is tuned for pixel-sized geometry.
const PixelsPerUnit = 32.0

func vec(v r2.Vec) cp.Vector {
	return cp.Vector{X: v.X * PixelsPerUnit, Y: v.Y * PixelsPerUnit}
}

func fromVec(v cp.Vector) r2.Vec {
	return r2.Vec{X: v.X / PixelsPerUnit, Y: v.Y / PixelsPerUnit}
}

func box(center, half r2.Vec) cp.BB {
	return cp.BB{
		L: (center.X - half.X) * PixelsPerUnit,
		B: (center.Y - half.Y) * PixelsPerUnit,
		R: (center.X + half.X) * PixelsPerUnit,
		T: (center.Y + half.Y) * PixelsPerUnit,
	}
}
