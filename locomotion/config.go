package locomotion

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidConfig = errors.New("locomotion: invalid config")

// Config holds the author-time constants of one character. Distances and
// speeds are in world units, gravity scales multiply world gravity.
type Config struct {
	MaxSpeed        float64 `yaml:"max_speed"`
	Acceleration    float64 `yaml:"acceleration"`
	Deceleration    float64 `yaml:"deceleration"`
	AirDeceleration float64 `yaml:"air_deceleration"`

	JumpImpulse         float64 `yaml:"jump_impulse"`
	AirJumps            int     `yaml:"air_jumps"`
	GravityScale        float64 `yaml:"gravity_scale"`
	FallGravityScale    float64 `yaml:"fall_gravity_scale"`
	LowJumpGravityScale float64 `yaml:"low_jump_gravity_scale"`
	JumpCutFactor       float64 `yaml:"jump_cut_factor"`

	WallStickSpeed          float64       `yaml:"wall_stick_speed"`
	WallSlideSpeed          float64       `yaml:"wall_slide_speed"`
	WallJumpHorizontalForce float64       `yaml:"wall_jump_horizontal_force"`
	WallJumpClingCooldown   time.Duration `yaml:"wall_jump_cling_cooldown"`
	WallReleaseThreshold    float64       `yaml:"wall_release_threshold"`

	DashSpeed    float64       `yaml:"dash_speed"`
	DashDuration time.Duration `yaml:"dash_duration"`
	DashCooldown time.Duration `yaml:"dash_cooldown"`

	LadderClimbSpeed       float64       `yaml:"ladder_climb_speed"`
	LadderDismountCooldown time.Duration `yaml:"ladder_dismount_cooldown"`

	GroundCheckDistance    float64 `yaml:"ground_check_distance"`
	WallCheckDistance      float64 `yaml:"wall_check_distance"`
	JumpThroughRayDistance float64 `yaml:"jump_through_ray_distance"`

	StepOffRefillWindow time.Duration `yaml:"step_off_refill_window"`
	DropThroughIgnore   time.Duration `yaml:"drop_through_ignore"`
	JumpThroughIgnore   time.Duration `yaml:"jump_through_ignore"`
}

func DefaultConfig() Config {
	return Config{
		MaxSpeed:        8,
		Acceleration:    80,
		Deceleration:    30,
		AirDeceleration: 15,

		JumpImpulse:         15,
		AirJumps:            2,
		GravityScale:        4,
		FallGravityScale:    6,
		LowJumpGravityScale: 8,
		JumpCutFactor:       0.5,

		WallStickSpeed:          0.5,
		WallSlideSpeed:          1.5,
		WallJumpHorizontalForce: 6,
		WallJumpClingCooldown:   250 * time.Millisecond,
		WallReleaseThreshold:    0.15,

		DashSpeed:    18,
		DashDuration: 150 * time.Millisecond,
		DashCooldown: time.Second,

		LadderClimbSpeed:       4,
		LadderDismountCooldown: 250 * time.Millisecond,

		GroundCheckDistance:    0.2,
		WallCheckDistance:      0.25,
		JumpThroughRayDistance: 1.2,

		StepOffRefillWindow: 200 * time.Millisecond,
		DropThroughIgnore:   400 * time.Millisecond,
		JumpThroughIgnore:   350 * time.Millisecond,
	}
}

// Validate reports setup-time configuration errors. The controller itself
// never checks these at tick time.
func (c Config) Validate() error {
	var errs []error
	positive := func(name string, v float64) {
		if v <= 0 {
			errs = append(errs, fmt.Errorf("%w: %s must be > 0, got %v", ErrInvalidConfig, name, v))
		}
	}
	nonNegative := func(name string, v float64) {
		if v < 0 {
			errs = append(errs, fmt.Errorf("%w: %s must be >= 0, got %v", ErrInvalidConfig, name, v))
		}
	}
	nonNegativeDuration := func(name string, d time.Duration) {
		if d < 0 {
			errs = append(errs, fmt.Errorf("%w: %s must be >= 0, got %v", ErrInvalidConfig, name, d))
		}
	}

	positive("max_speed", c.MaxSpeed)
	nonNegative("acceleration", c.Acceleration)
	nonNegative("deceleration", c.Deceleration)
	nonNegative("air_deceleration", c.AirDeceleration)
	positive("jump_impulse", c.JumpImpulse)
	if c.AirJumps < 0 {
		errs = append(errs, fmt.Errorf("%w: air_jumps must be >= 0, got %d", ErrInvalidConfig, c.AirJumps))
	}
	nonNegative("gravity_scale", c.GravityScale)
	nonNegative("fall_gravity_scale", c.FallGravityScale)
	nonNegative("low_jump_gravity_scale", c.LowJumpGravityScale)
	if c.JumpCutFactor < 0 || c.JumpCutFactor > 1 {
		errs = append(errs, fmt.Errorf("%w: jump_cut_factor must be in [0, 1], got %v", ErrInvalidConfig, c.JumpCutFactor))
	}
	nonNegative("wall_stick_speed", c.WallStickSpeed)
	nonNegative("wall_slide_speed", c.WallSlideSpeed)
	nonNegative("wall_jump_horizontal_force", c.WallJumpHorizontalForce)
	nonNegativeDuration("wall_jump_cling_cooldown", c.WallJumpClingCooldown)
	if c.WallReleaseThreshold < 0 || c.WallReleaseThreshold >= 1 {
		errs = append(errs, fmt.Errorf("%w: wall_release_threshold must be in [0, 1), got %v", ErrInvalidConfig, c.WallReleaseThreshold))
	}
	nonNegative("dash_speed", c.DashSpeed)
	nonNegativeDuration("dash_duration", c.DashDuration)
	nonNegativeDuration("dash_cooldown", c.DashCooldown)
	nonNegative("ladder_climb_speed", c.LadderClimbSpeed)
	nonNegativeDuration("ladder_dismount_cooldown", c.LadderDismountCooldown)
	positive("ground_check_distance", c.GroundCheckDistance)
	positive("wall_check_distance", c.WallCheckDistance)
	positive("jump_through_ray_distance", c.JumpThroughRayDistance)
	nonNegativeDuration("step_off_refill_window", c.StepOffRefillWindow)
	nonNegativeDuration("drop_through_ignore", c.DropThroughIgnore)
	nonNegativeDuration("jump_through_ignore", c.JumpThroughIgnore)

	return errors.Join(errs...)
}
