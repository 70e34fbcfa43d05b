package physics

import (
	"log/slog"
	"math"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/locomotion/locomotion"
	"gonum.org/v1/gonum/spatial/r2"
)

// Config holds world-wide physics settings.
type Config struct {
	// Gravity is the vertical acceleration in units/s^2; negative pulls down.
	Gravity    float64 `yaml:"gravity"`
	Iterations int     `yaml:"iterations"`
}

func DefaultConfig() Config {
	return Config{Gravity: -9.81, Iterations: 20}
}

type pair struct {
	a, b *Collider
}

// World is a cp space that answers the controller's sensor queries and
// enforces temporary collision-ignore pairs.
type World struct {
	space     *cp.Space
	colliders map[*cp.Shape]*Collider
	bodies    map[*cp.Shape]*Body
	ignored   map[pair]struct{}

	ladderListeners []func(b *Body, entered bool)

	log *slog.Logger
}

func NewWorld(cfg Config, logger *slog.Logger) *World {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Iterations <= 0 {
		cfg.Iterations = 20
	}
	space := cp.NewSpace()
	space.Iterations = uint(cfg.Iterations)
	space.SetGravity(vec(r2.Vec{Y: cfg.Gravity}))

	w := &World{
		space:     space,
		colliders: make(map[*cp.Shape]*Collider),
		bodies:    make(map[*cp.Shape]*Body),
		ignored:   make(map[pair]struct{}),
		log:       logger.With("component", "physics"),
	}
	w.installHandlers()
	return w
}

func (w *World) Space() *cp.Space {
	if w == nil {
		return nil
	}
	return w.space
}

func (w *World) installHandlers() {
	solid := w.space.NewCollisionHandler(collisionTypeCharacter, collisionTypeSolid)
	solid.UserData = w
	solid.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		sys, ok := userData.(*World)
		if !ok || sys == nil {
			return true
		}
		a, b := arb.Shapes()
		if sys.pairIgnored(a, b) {
			return arb.Ignore()
		}
		return true
	}

	platform := w.space.NewCollisionHandler(collisionTypeCharacter, collisionTypePlatform)
	platform.UserData = w
	platform.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		sys, ok := userData.(*World)
		if !ok || sys == nil {
			return true
		}
		a, b := arb.Shapes()
		if sys.pairIgnored(a, b) {
			return arb.Ignore()
		}
		// The normal points from the character into the platform, so a
		// landing contact points down. Anything else passes through.
		if arb.Normal().Y > -0.5 {
			return arb.Ignore()
		}
		return true
	}

	ladder := w.space.NewCollisionHandler(collisionTypeCharacter, collisionTypeLadder)
	ladder.UserData = w
	ladder.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		if sys, ok := userData.(*World); ok && sys != nil {
			a, _ := arb.Shapes()
			sys.notifyLadder(a, true)
		}
		return true
	}
	ladder.SeparateFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) {
		if sys, ok := userData.(*World); ok && sys != nil {
			a, _ := arb.Shapes()
			sys.notifyLadder(a, false)
		}
	}
}

func (w *World) pairIgnored(a, b *cp.Shape) bool {
	ca, cb := w.colliders[a], w.colliders[b]
	if ca == nil || cb == nil {
		return false
	}
	_, ok := w.ignored[pair{ca, cb}]
	return ok
}

func (w *World) notifyLadder(shape *cp.Shape, entered bool) {
	body := w.bodies[shape]
	if body == nil {
		return
	}
	for _, fn := range w.ladderListeners {
		fn(body, entered)
	}
}

// OnLadder registers fn for ladder trigger enter and exit events.
func (w *World) OnLadder(fn func(b *Body, entered bool)) {
	if fn == nil {
		return
	}
	w.ladderListeners = append(w.ladderListeners, fn)
}

// AddStatic adds a box attached to the static body.
func (w *World) AddStatic(spec BoxSpec) *Collider {
	shape := cp.NewBox2(w.space.StaticBody, box(spec.Center, spec.HalfExtents), 0)
	return w.addShape(spec, shape)
}

// Kinematic is a box driven by position rather than forces, e.g. a moving
// platform.
type Kinematic struct {
	*Collider
	body *cp.Body
}

func (k *Kinematic) Position() r2.Vec {
	return fromVec(k.body.Position())
}

func (k *Kinematic) MoveTo(p r2.Vec) {
	k.body.SetPosition(vec(p))
}

// AddKinematic adds a box on its own kinematic body centered at spec.Center.
func (w *World) AddKinematic(spec BoxSpec) *Kinematic {
	body := cp.NewKinematicBody()
	body.SetPosition(vec(spec.Center))
	w.space.AddBody(body)
	size := vec(r2.Scale(2, spec.HalfExtents))
	shape := cp.NewBox(body, size.X, size.Y, 0)
	return &Kinematic{Collider: w.addShape(spec, shape), body: body}
}

func (w *World) addShape(spec BoxSpec, shape *cp.Shape) *Collider {
	c := &Collider{
		name:   spec.Name,
		layer:  layerFor(spec),
		shape:  shape,
		half:   spec.HalfExtents,
		oneWay: spec.OneWay,
		ladder: spec.Ladder,
	}
	shape.SetFriction(spec.Friction)
	shape.SetCollisionType(collisionTypeFor(spec))
	shape.SetFilter(cp.ShapeFilter{Categories: uint(c.layer), Mask: cp.ALL_CATEGORIES})
	if spec.Ladder {
		shape.SetSensor(true)
	}
	w.space.AddShape(shape)
	w.colliders[shape] = c
	return c
}

// CharacterSpec describes a character body.
type CharacterSpec struct {
	Name        string
	Center      r2.Vec
	HalfExtents r2.Vec
	Mass        float64
	Friction    float64
}

// AddCharacter adds a non-rotating dynamic box.
func (w *World) AddCharacter(spec CharacterSpec) *Body {
	mass := spec.Mass
	if mass <= 0 {
		mass = 1
	}
	cpBody := cp.NewBody(mass, math.Inf(1))
	cpBody.SetPosition(vec(spec.Center))
	w.space.AddBody(cpBody)

	size := vec(r2.Scale(2, spec.HalfExtents))
	shape := cp.NewBox(cpBody, size.X, size.Y, 0)
	c := &Collider{
		name:  spec.Name,
		layer: locomotion.LayerCharacter,
		shape: shape,
		half:  spec.HalfExtents,
	}
	shape.SetFriction(spec.Friction)
	shape.SetCollisionType(collisionTypeCharacter)
	shape.SetFilter(cp.ShapeFilter{Categories: uint(c.layer), Mask: cp.ALL_CATEGORIES})
	w.space.AddShape(shape)
	w.colliders[shape] = c

	b := &Body{
		world:        w,
		body:         cpBody,
		collider:     c,
		gravityScale: 1,
		baseFriction: spec.Friction,
	}
	cpBody.SetVelocityUpdateFunc(func(body *cp.Body, gravity cp.Vector, damping float64, dt float64) {
		cp.BodyUpdateVelocity(body, gravity.Mult(b.gravityScale), damping, dt)
	})
	w.bodies[shape] = b
	return b
}

// Colliders returns every registered collider, characters included.
func (w *World) Colliders() []*Collider {
	out := make([]*Collider, 0, len(w.colliders))
	for _, c := range w.colliders {
		out = append(out, c)
	}
	return out
}

// RayCast implements locomotion.World.
func (w *World) RayCast(origin, dir r2.Vec, maxDistance float64, mask locomotion.Layer) (locomotion.Hit, bool) {
	if maxDistance <= 0 {
		return locomotion.Hit{}, false
	}
	end := r2.Add(origin, r2.Scale(maxDistance, dir))
	filter := cp.ShapeFilter{Categories: cp.ALL_CATEGORIES, Mask: uint(mask)}
	info := w.space.SegmentQueryFirst(vec(origin), vec(end), 0, filter)
	if info.Shape == nil {
		return locomotion.Hit{}, false
	}
	c := w.colliders[info.Shape]
	if c == nil {
		return locomotion.Hit{}, false
	}
	return locomotion.Hit{
		Collider: c,
		Point:    fromVec(info.Point),
		Distance: info.Alpha * maxDistance,
	}, true
}

// Overlap implements locomotion.World using bounding-box tests.
func (w *World) Overlap(center, halfExtents r2.Vec, mask locomotion.Layer) []locomotion.Collider {
	bb := box(center, halfExtents)
	filter := cp.ShapeFilter{Categories: cp.ALL_CATEGORIES, Mask: uint(mask)}
	var out []locomotion.Collider
	w.space.BBQuery(bb, filter, func(shape *cp.Shape, data interface{}) {
		if c := w.colliders[shape]; c != nil {
			out = append(out, c)
		}
	}, nil)
	return out
}

// SetCollisionIgnored implements locomotion.World. Colliders that do not
// belong to this world are ignored.
func (w *World) SetCollisionIgnored(a, b locomotion.Collider, ignored bool) {
	ca, okA := a.(*Collider)
	cb, okB := b.(*Collider)
	if !okA || !okB || ca == nil || cb == nil {
		w.log.Warn("collision ignore on foreign collider", "a", a, "b", b)
		return
	}
	if ignored {
		w.ignored[pair{ca, cb}] = struct{}{}
		w.ignored[pair{cb, ca}] = struct{}{}
		return
	}
	delete(w.ignored, pair{ca, cb})
	delete(w.ignored, pair{cb, ca})
}

// Ignored reports whether contacts between a and b are suppressed.
func (w *World) Ignored(a, b *Collider) bool {
	_, ok := w.ignored[pair{a, b}]
	return ok
}

// Step advances the simulation and clears accumulated forces.
func (w *World) Step(dt time.Duration) {
	w.space.Step(dt.Seconds())
	for _, b := range w.bodies {
		b.body.SetForce(cp.Vector{})
	}
}
