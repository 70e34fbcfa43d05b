package sim

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the process configuration shared by the demo and replay
// binaries. Environment variables set the defaults and flags override them.
type Config struct {
	Level    string        `env:"LOCOMOTION_LEVEL" envDefault:"level.yaml"`
	Prefabs  string        `env:"LOCOMOTION_PREFABS" envDefault:"prefabs"`
	Weather  string        `env:"LOCOMOTION_WEATHER"`
	Fixed    time.Duration `env:"LOCOMOTION_FIXED_STEP" envDefault:"20ms"`
	MaxSteps int           `env:"LOCOMOTION_MAX_STEPS" envDefault:"5"`
	Trace    string        `env:"LOCOMOTION_TRACE"`
	LogLevel string        `env:"LOCOMOTION_LOG_LEVEL" envDefault:"info"`
}

func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Level, "level", c.Level, "level spec under the prefabs dir")
	fs.StringVar(&c.Prefabs, "prefabs", c.Prefabs, "directory checked for spec overrides")
	fs.StringVar(&c.Weather, "weather", c.Weather, "starting weather, overrides weather.yaml")
	fs.DurationVar(&c.Fixed, "fixed", c.Fixed, "fixed physics step")
	fs.IntVar(&c.MaxSteps, "max-steps", c.MaxSteps, "fixed steps allowed per frame before dropping time")
	fs.StringVar(&c.Trace, "trace", c.Trace, "write a per-tick CSV trace to this path")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "debug, info, warn or error")
}

// ParseConfig loads env defaults, registers the shared flags on fs and
// parses args. Callers may register their own flags on fs first.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if fs == nil {
		return cfg, errors.New("sim: flag set is required")
	}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("sim: parse env: %w", err)
	}
	cfg.RegisterFlags(fs)
	if args == nil {
		args = []string{}
	}
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	var errs []error
	if c.Fixed <= 0 {
		errs = append(errs, fmt.Errorf("sim: fixed step must be positive, got %v", c.Fixed))
	}
	if c.MaxSteps <= 0 {
		errs = append(errs, fmt.Errorf("sim: max steps must be positive, got %d", c.MaxSteps))
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		errs = append(errs, fmt.Errorf("sim: log level: %w", err))
	}
	return errors.Join(errs...)
}

// Logger builds a text logger at the configured level.
func (c Config) Logger(w io.Writer) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}
