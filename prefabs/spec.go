package prefabs

import (
	"fmt"

	"github.com/milk9111/locomotion/level"
	"github.com/milk9111/locomotion/locomotion"
	"github.com/milk9111/locomotion/physics"
	"github.com/milk9111/locomotion/weather"
	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"
)

const (
	PlayerFile  = "player.yaml"
	WeatherFile = "weather.yaml"
	LevelFile   = "level.yaml"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type ColliderSpec struct {
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	Mass     float64 `yaml:"mass"`
	Friction float64 `yaml:"friction"`
}

type PlayerSpec struct {
	Name     string            `yaml:"name"`
	Collider ColliderSpec      `yaml:"collider"`
	Movement locomotion.Config `yaml:"movement"`
}

// UnmarshalYAML starts from the default movement tuning so a spec only has
// to list what it changes.
func (p *PlayerSpec) UnmarshalYAML(value *yaml.Node) error {
	type plain PlayerSpec
	spec := plain{
		Name:     "player",
		Collider: ColliderSpec{Width: 0.8, Height: 1.8, Mass: 1},
		Movement: locomotion.DefaultConfig(),
	}
	if err := value.Decode(&spec); err != nil {
		return err
	}
	*p = PlayerSpec(spec)
	return nil
}

func (p PlayerSpec) Character(spawn r2.Vec) physics.CharacterSpec {
	return physics.CharacterSpec{
		Name:        p.Name,
		Center:      spawn,
		HalfExtents: r2.Vec{X: p.Collider.Width / 2, Y: p.Collider.Height / 2},
		Mass:        p.Collider.Mass,
		Friction:    p.Collider.Friction,
	}
}

func LoadPlayerSpec() (*PlayerSpec, error) {
	spec, err := LoadSpec[PlayerSpec](PlayerFile)
	if err != nil {
		return nil, err
	}
	if spec.Collider.Width <= 0 || spec.Collider.Height <= 0 {
		return nil, fmt.Errorf("prefabs: %s: collider must have a positive size", PlayerFile)
	}
	if err := spec.Movement.Validate(); err != nil {
		return nil, fmt.Errorf("prefabs: %s: %w", PlayerFile, err)
	}
	return &spec, nil
}

func LoadWeatherConfig() (weather.Config, error) {
	return LoadSpec[weather.Config](WeatherFile)
}

// LevelSpec is a level layout plus the physics settings it was tuned for.
type LevelSpec struct {
	level.Spec `yaml:",inline"`
	Physics    physics.Config `yaml:"physics"`
}

func (l *LevelSpec) UnmarshalYAML(value *yaml.Node) error {
	type plain LevelSpec
	spec := plain{Physics: physics.DefaultConfig()}
	if err := value.Decode(&spec); err != nil {
		return err
	}
	*l = LevelSpec(spec)
	return nil
}

func LoadLevelSpec(filename string) (*LevelSpec, error) {
	if filename == "" {
		filename = LevelFile
	}
	spec, err := LoadSpec[LevelSpec](filename)
	if err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("prefabs: %s: %w", filename, err)
	}
	return &spec, nil
}
