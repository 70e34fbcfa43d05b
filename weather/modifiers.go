package weather

import (
	"fmt"
	"log/slog"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"
)

// Type names a weather preset.
type Type int

const (
	Clear Type = iota
	Rain
	Snow
	Wind
	Fog
	Storm

	typeCount
)

var typeNames = [...]string{"clear", "rain", "snow", "wind", "fog", "storm"}

func (t Type) String() string {
	if t < 0 || t >= typeCount {
		return fmt.Sprintf("weather(%d)", int(t))
	}
	return typeNames[t]
}

// ParseType resolves a weather name case-insensitively.
func ParseType(s string) (Type, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range typeNames {
		if n == name {
			return Type(i), nil
		}
	}
	return Clear, fmt.Errorf("weather: unknown type %q", s)
}

func (t *Type) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("weather: type must be a string")
	}
	parsed, err := ParseType(value.Value)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Modifiers is a read-only bundle applied to movement constants each tick.
// Multipliers default to 1 and Wind to zero.
type Modifiers struct {
	MoveSpeed     float64 `yaml:"move_speed"`
	Acceleration  float64 `yaml:"acceleration"`
	Deceleration  float64 `yaml:"deceleration"`
	Gravity       float64 `yaml:"gravity"`
	Control       float64 `yaml:"control"`
	Friction      float64 `yaml:"friction"`
	MeleeCooldown float64 `yaml:"melee_cooldown"`
	// Wind is a continuous force in world units per second squared.
	Wind r2.Vec `yaml:"wind"`
	// FogVisibility is only consumed by rendering.
	FogVisibility float64 `yaml:"fog_visibility"`
}

func Identity() Modifiers {
	return Modifiers{
		MoveSpeed:     1,
		Acceleration:  1,
		Deceleration:  1,
		Gravity:       1,
		Control:       1,
		Friction:      1,
		MeleeCooldown: 1,
		FogVisibility: 1,
	}
}

// UnmarshalYAML starts from Identity so omitted fields keep their neutral value.
func (m *Modifiers) UnmarshalYAML(value *yaml.Node) error {
	type plain Modifiers
	mods := plain(Identity())
	if err := value.Decode(&mods); err != nil {
		return err
	}
	*m = Modifiers(mods)
	return nil
}

func (m Modifiers) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("move_speed", m.MoveSpeed),
		slog.Float64("acceleration", m.Acceleration),
		slog.Float64("deceleration", m.Deceleration),
		slog.Float64("gravity", m.Gravity),
		slog.Float64("control", m.Control),
		slog.Float64("friction", m.Friction),
		slog.Float64("wind_x", m.Wind.X),
		slog.Float64("wind_y", m.Wind.Y),
		slog.Float64("fog", m.FogVisibility),
	)
}

// Definition binds modifiers to a weather type.
type Definition struct {
	Type      Type      `yaml:"type"`
	Modifiers Modifiers `yaml:"modifiers"`
}

func (d *Definition) UnmarshalYAML(value *yaml.Node) error {
	type plain Definition
	def := plain{Modifiers: Identity()}
	if err := value.Decode(&def); err != nil {
		return err
	}
	*d = Definition(def)
	return nil
}

// FromDefinition returns the definition's modifiers, or Identity for nil.
func FromDefinition(def *Definition) Modifiers {
	if def == nil {
		return Identity()
	}
	return def.Modifiers
}
