package level

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/milk9111/locomotion/locomotion"
	"github.com/milk9111/locomotion/physics"
	"gonum.org/v1/gonum/spatial/r2"
)

// Rider is carried by moving platforms it stands on.
type Rider interface {
	Ground() locomotion.Collider
	Carry(delta r2.Vec)
}

// Climber receives ladder volume enter and exit events.
type Climber interface {
	EnterLadder()
	ExitLadder()
}

// Level is a built physics world plus its moving platforms.
type Level struct {
	Name  string
	Spawn r2.Vec
	KillY float64

	world  *physics.World
	movers []*Mover
	riders []Rider
	log    *slog.Logger
}

// Build validates spec and adds its geometry to world.
func Build(spec Spec, world *physics.World, logger *slog.Logger) (*Level, error) {
	if logger == nil {
		logger = slog.Default()
	}
	spec.Moving = append([]MovingSpec(nil), spec.Moving...)
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("level: build %q: %w", spec.Name, err)
	}

	l := &Level{
		Name:  spec.Name,
		Spawn: spec.Spawn.Vec(),
		KillY: spec.KillY,
		world: world,
		log:   logger.With("component", "level", "level", spec.Name),
	}

	for _, r := range spec.Solids {
		world.AddStatic(physics.BoxSpec{Name: r.Name, Center: r.center(), HalfExtents: r.half(), Friction: r.Friction})
	}
	for _, r := range spec.Walls {
		world.AddStatic(physics.BoxSpec{Name: r.Name, Layer: locomotion.LayerWall, Center: r.center(), HalfExtents: r.half(), Friction: r.Friction})
	}
	for _, r := range spec.Platforms {
		world.AddStatic(physics.BoxSpec{Name: r.Name, Center: r.center(), HalfExtents: r.half(), Friction: r.Friction, OneWay: true})
	}
	for _, r := range spec.Ladders {
		world.AddStatic(physics.BoxSpec{Name: r.Name, Center: r.center(), HalfExtents: r.half(), Ladder: true})
	}
	for _, m := range spec.Moving {
		start := r2.Vec{}
		if len(m.Waypoints) > 0 {
			start = m.Waypoints[0].Vec()
		}
		k := world.AddKinematic(physics.BoxSpec{
			Name:        m.Name,
			Center:      start,
			HalfExtents: r2.Vec{X: m.W / 2, Y: m.H / 2},
			Friction:    m.Friction,
			OneWay:      m.OneWay,
		})
		l.movers = append(l.movers, newMover(k, m))
	}

	l.log.Info("level built",
		"solids", len(spec.Solids)+len(spec.Walls),
		"platforms", len(spec.Platforms),
		"ladders", len(spec.Ladders),
		"moving", len(spec.Moving),
	)
	return l, nil
}

func (l *Level) World() *physics.World {
	return l.world
}

func (l *Level) Movers() []*Mover {
	return l.movers
}

// AddRider registers r for moving-platform transport.
func (l *Level) AddRider(r Rider) {
	if r == nil {
		return
	}
	l.riders = append(l.riders, r)
}

// TrackLadders forwards ladder volume events for body to c.
func (l *Level) TrackLadders(body *physics.Body, c Climber) {
	l.world.OnLadder(func(b *physics.Body, entered bool) {
		if b != body {
			return
		}
		if entered {
			c.EnterLadder()
		} else {
			c.ExitLadder()
		}
		l.log.Debug("ladder volume", "entered", entered)
	})
}

// Update moves every platform one fixed tick and carries the riders standing
// on it. Call it before the controllers' fixed pass.
func (l *Level) Update(dt time.Duration) {
	for _, m := range l.movers {
		delta := m.Step(dt)
		if delta.X == 0 && delta.Y == 0 {
			continue
		}
		for _, r := range l.riders {
			if g := r.Ground(); g != nil && g == locomotion.Collider(m.Collider) {
				r.Carry(delta)
			}
		}
	}
}

// OutOfBounds reports whether p fell below the kill plane. A zero KillY
// disables the check.
func (l *Level) OutOfBounds(p r2.Vec) bool {
	return l.KillY != 0 && p.Y < l.KillY
}
