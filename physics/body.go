package physics

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/locomotion/locomotion"
	"gonum.org/v1/gonum/spatial/r2"
)

// Body is a character rigid body. It implements locomotion.Body and
// locomotion.FrictionScaler.
type Body struct {
	world        *World
	body         *cp.Body
	collider     *Collider
	gravityScale float64
	baseFriction float64
}

func (b *Body) Collider() locomotion.Collider { return b.collider }

func (b *Body) Shape() *Collider { return b.collider }

func (b *Body) Position() r2.Vec {
	return fromVec(b.body.Position())
}

func (b *Body) HalfExtents() r2.Vec {
	return b.collider.half
}

func (b *Body) Velocity() r2.Vec {
	return fromVec(b.body.Velocity())
}

func (b *Body) SetVelocity(v r2.Vec) {
	b.body.SetVelocityVector(vec(v))
}

func (b *Body) ApplyForce(f r2.Vec) {
	b.body.ApplyForceAtWorldPoint(vec(f), b.body.Position())
}

func (b *Body) SetGravityScale(scale float64) {
	b.gravityScale = scale
}

func (b *Body) GravityScale() float64 {
	return b.gravityScale
}

func (b *Body) MoveTo(p r2.Vec) {
	b.body.SetPosition(vec(p))
}

func (b *Body) SetFrictionScale(scale float64) {
	b.collider.shape.SetFriction(b.baseFriction * scale)
}

func (b *Body) Friction() float64 {
	return b.collider.shape.Friction()
}
