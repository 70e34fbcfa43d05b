package level

import (
	"time"

	"github.com/milk9111/locomotion/physics"
	"gonum.org/v1/gonum/spatial/r2"
)

// Mover drives a kinematic platform along its waypoints.
type Mover struct {
	*physics.Kinematic

	waypoints []r2.Vec
	speed     float64
	reach     float64
	wait      time.Duration
	mode      PathMode

	index    int
	dir      int
	waitLeft time.Duration
}

func newMover(k *physics.Kinematic, spec MovingSpec) *Mover {
	m := &Mover{
		Kinematic: k,
		speed:     spec.Speed,
		reach:     spec.ReachThreshold,
		wait:      spec.Wait,
		mode:      spec.Mode,
		dir:       1,
	}
	for _, p := range spec.Waypoints {
		m.waypoints = append(m.waypoints, p.Vec())
	}
	return m
}

// Target returns the waypoint currently being approached.
func (m *Mover) Target() (r2.Vec, bool) {
	if len(m.waypoints) < 2 {
		return r2.Vec{}, false
	}
	return m.waypoints[m.index], true
}

// Step advances the platform by dt and returns how far it moved.
func (m *Mover) Step(dt time.Duration) r2.Vec {
	target, ok := m.Target()
	if !ok {
		return r2.Vec{}
	}
	if m.waitLeft > 0 {
		m.waitLeft -= dt
		return r2.Vec{}
	}

	cur := m.Position()
	to := r2.Sub(target, cur)
	dist := r2.Norm(to)
	if dist < m.reach {
		m.MoveTo(target)
		m.waitLeft = m.wait
		m.advance()
		return to
	}

	next := target
	if move := m.speed * dt.Seconds(); move < dist {
		next = r2.Add(cur, r2.Scale(move/dist, to))
	}
	m.MoveTo(next)
	return r2.Sub(next, cur)
}

func (m *Mover) advance() {
	n := len(m.waypoints)
	if m.mode == Loop {
		m.index = (m.index + 1) % n
		return
	}
	m.index += m.dir
	switch {
	case m.index >= n-1:
		m.index = n - 1
		m.dir = -1
	case m.index <= 0:
		m.index = 0
		m.dir = 1
	}
}
