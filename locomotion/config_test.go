package locomotion

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"zero_max_speed", func(c *Config) { c.MaxSpeed = 0 }, "max_speed"},
		{"negative_air_jumps", func(c *Config) { c.AirJumps = -1 }, "air_jumps"},
		{"negative_dash_cooldown", func(c *Config) { c.DashCooldown = -time.Second }, "dash_cooldown"},
		{"cut_above_one", func(c *Config) { c.JumpCutFactor = 1.5 }, "jump_cut_factor"},
		{"release_threshold_one", func(c *Config) { c.WallReleaseThreshold = 1 }, "wall_release_threshold"},
		{"zero_ground_check", func(c *Config) { c.GroundCheckDistance = 0 }, "ground_check_distance"},
		{"negative_drop_ignore", func(c *Config) { c.DropThroughIgnore = -1 }, "drop_through_ignore"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := DefaultConfig()
			c.mutate(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
			if !strings.Contains(err.Error(), c.field) {
				t.Fatalf("error %q does not name %s", err, c.field)
			}
		})
	}
}

func TestConfigValidateJoinsErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxSpeed = -1
	cfg.JumpImpulse = 0
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, field := range []string{"max_speed", "jump_impulse"} {
		if !strings.Contains(err.Error(), field) {
			t.Fatalf("error %q missing %s", err, field)
		}
	}
}
