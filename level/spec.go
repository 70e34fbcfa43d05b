package level

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"
)

var ErrInvalidLevel = errors.New("level: invalid spec")

// Point is a position in world units. Positive Y is up.
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func (p Point) Vec() r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y}
}

// Rect is an axis-aligned box given by its bottom-left corner and size.
type Rect struct {
	Name     string  `yaml:"name"`
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	W        float64 `yaml:"w"`
	H        float64 `yaml:"h"`
	Friction float64 `yaml:"friction"`
}

func (r Rect) center() r2.Vec {
	return r2.Vec{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

func (r Rect) half() r2.Vec {
	return r2.Vec{X: r.W / 2, Y: r.H / 2}
}

// PathMode selects what a moving platform does after its last waypoint.
type PathMode int

const (
	Loop PathMode = iota
	PingPong
)

func (m PathMode) String() string {
	if m == PingPong {
		return "pingpong"
	}
	return "loop"
}

func (m *PathMode) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("level: path mode must be a string")
	}
	switch strings.ToLower(strings.TrimSpace(value.Value)) {
	case "", "loop":
		*m = Loop
	case "pingpong", "ping_pong":
		*m = PingPong
	default:
		return fmt.Errorf("level: unknown path mode %q", value.Value)
	}
	return nil
}

// MovingSpec describes a kinematic platform that follows waypoints. The
// platform starts at the first waypoint; fewer than two keeps it still.
type MovingSpec struct {
	Name           string        `yaml:"name"`
	W              float64       `yaml:"w"`
	H              float64       `yaml:"h"`
	OneWay         bool          `yaml:"one_way"`
	Friction       float64       `yaml:"friction"`
	Waypoints      []Point       `yaml:"waypoints"`
	Speed          float64       `yaml:"speed"`
	ReachThreshold float64       `yaml:"reach_threshold"`
	Wait           time.Duration `yaml:"wait"`
	Mode           PathMode      `yaml:"mode"`
}

// Spec is the authored description of a level.
type Spec struct {
	Name      string       `yaml:"name"`
	Spawn     Point        `yaml:"spawn"`
	KillY     float64      `yaml:"kill_y"`
	Solids    []Rect       `yaml:"solids"`
	Walls     []Rect       `yaml:"walls"`
	Platforms []Rect       `yaml:"platforms"`
	Ladders   []Rect       `yaml:"ladders"`
	Moving    []MovingSpec `yaml:"moving"`
}

const (
	defaultPlatformSpeed = 3
	defaultReach         = 0.05
)

// Validate reports degenerate geometry. Missing speeds and thresholds are
// filled with defaults rather than rejected.
func (s *Spec) Validate() error {
	var errs []error
	check := func(kind string, i int, r Rect) {
		if r.W <= 0 || r.H <= 0 {
			errs = append(errs, fmt.Errorf("%w: %s[%d] %q has size %gx%g", ErrInvalidLevel, kind, i, r.Name, r.W, r.H))
		}
	}
	for i, r := range s.Solids {
		check("solids", i, r)
	}
	for i, r := range s.Walls {
		check("walls", i, r)
	}
	for i, r := range s.Platforms {
		check("platforms", i, r)
	}
	for i, r := range s.Ladders {
		check("ladders", i, r)
	}
	for i := range s.Moving {
		m := &s.Moving[i]
		if m.W <= 0 || m.H <= 0 {
			errs = append(errs, fmt.Errorf("%w: moving[%d] %q has size %gx%g", ErrInvalidLevel, i, m.Name, m.W, m.H))
		}
		if m.Speed < 0 || m.ReachThreshold < 0 || m.Wait < 0 {
			errs = append(errs, fmt.Errorf("%w: moving[%d] %q has a negative setting", ErrInvalidLevel, i, m.Name))
		}
		if m.Speed == 0 {
			m.Speed = defaultPlatformSpeed
		}
		if m.ReachThreshold == 0 {
			m.ReachThreshold = defaultReach
		}
	}
	return errors.Join(errs...)
}
