package locomotion

import (
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/milk9111/locomotion/input"
	"github.com/milk9111/locomotion/weather"
	"gonum.org/v1/gonum/spatial/r2"
)

type fakeCollider struct {
	name   string
	oneWay bool
	ladder bool
}

func (f *fakeCollider) Name() string      { return f.name }
func (f *fakeCollider) PassThrough() bool { return f.oneWay }
func (f *fakeCollider) Ladder() bool      { return f.ladder }

// fakeWorld answers rays by direction only: whatever collider is configured
// for that side is hit.
type fakeWorld struct {
	ground  Collider
	left    Collider
	right   Collider
	above   Collider
	ladders []Collider

	ignored  map[Collider]bool
	rays     int
	overlaps int
}

func newFakeWorld() *fakeWorld {
	return &fakeWorld{ignored: make(map[Collider]bool)}
}

func (w *fakeWorld) RayCast(origin, dir r2.Vec, maxDistance float64, mask Layer) (Hit, bool) {
	w.rays++
	var c Collider
	switch {
	case dir.Y < 0:
		c = w.ground
	case dir.Y > 0:
		c = w.above
	case dir.X < 0:
		c = w.left
	case dir.X > 0:
		c = w.right
	}
	if c == nil {
		return Hit{}, false
	}
	return Hit{Collider: c, Point: origin}, true
}

func (w *fakeWorld) Overlap(center, halfExtents r2.Vec, mask Layer) []Collider {
	w.overlaps++
	return w.ladders
}

func (w *fakeWorld) SetCollisionIgnored(a, b Collider, ignored bool) {
	if ignored {
		w.ignored[b] = true
		return
	}
	delete(w.ignored, b)
}

// fakeBody never integrates on its own; tests drive velocity explicitly.
type fakeBody struct {
	self     *fakeCollider
	pos      r2.Vec
	vel      r2.Vec
	half     r2.Vec
	gravity  float64
	forces   []r2.Vec
	friction []float64
}

func newFakeBody() *fakeBody {
	return &fakeBody{
		self: &fakeCollider{name: "player"},
		half: r2.Vec{X: 0.5, Y: 1},
	}
}

func (b *fakeBody) Collider() Collider            { return b.self }
func (b *fakeBody) Position() r2.Vec              { return b.pos }
func (b *fakeBody) HalfExtents() r2.Vec           { return b.half }
func (b *fakeBody) Velocity() r2.Vec              { return b.vel }
func (b *fakeBody) SetVelocity(v r2.Vec)          { b.vel = v }
func (b *fakeBody) ApplyForce(f r2.Vec)           { b.forces = append(b.forces, f) }
func (b *fakeBody) SetGravityScale(scale float64) { b.gravity = scale }
func (b *fakeBody) MoveTo(p r2.Vec)               { b.pos = p }
func (b *fakeBody) SetFrictionScale(s float64)    { b.friction = append(b.friction, s) }

const step = 20 * time.Millisecond

type rig struct {
	t       *testing.T
	world   *fakeWorld
	body    *fakeBody
	weather *weather.Manager
	ctrl    *Controller
	now     time.Duration
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRig(t *testing.T, cfg Config) *rig {
	t.Helper()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("config: %v", err)
	}
	r := &rig{
		t:       t,
		world:   newFakeWorld(),
		body:    newFakeBody(),
		weather: weather.NewManager(weather.Config{Start: weather.Clear}, quietLogger()),
	}
	r.ctrl = New(cfg, r.world, r.body, r.weather, quietLogger())
	t.Cleanup(r.ctrl.Close)
	return r
}

// tick runs one decision pass followed by one fixed pass.
func (r *rig) tick(snap input.Snapshot) Status {
	r.now += step
	r.ctrl.Update(r.now, snap)
	r.ctrl.FixedUpdate(r.now, step)
	return r.ctrl.Status()
}

func (r *rig) idle(n int) Status {
	var s Status
	for i := 0; i < n; i++ {
		s = r.tick(input.Snapshot{})
	}
	return s
}

func (r *rig) setWeather(m weather.Modifiers) {
	r.weather.Reload(weather.Config{
		Start:       weather.Rain,
		Definitions: []weather.Definition{{Type: weather.Rain, Modifiers: m}},
	})
	r.weather.SetWeather(weather.Rain)
}

func press() input.Snapshot {
	return input.Snapshot{JumpPressed: true, JumpHeld: true}
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func oneWay(name string) *fakeCollider {
	return &fakeCollider{name: name, oneWay: true}
}

func solid(name string) *fakeCollider {
	return &fakeCollider{name: name}
}
