package sim

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/milk9111/locomotion/input"
	"github.com/milk9111/locomotion/level"
	"github.com/milk9111/locomotion/locomotion"
	"github.com/milk9111/locomotion/physics"
	"github.com/milk9111/locomotion/prefabs"
	"github.com/milk9111/locomotion/telemetry"
	"github.com/milk9111/locomotion/weather"
)

// Sim wires one character into a level and runs the two-rate loop: a
// decision pass per frame and as many fixed physics ticks as the elapsed
// time allows.
type Sim struct {
	World   *physics.World
	Level   *level.Level
	Body    *physics.Body
	Ctrl    *locomotion.Controller
	Weather *weather.Manager
	Player  *prefabs.PlayerSpec

	cfg      Config
	reloader *prefabs.Reloader
	rec      *telemetry.Recorder
	clock    time.Duration
	acc      time.Duration
	ticks    int
	log      *slog.Logger
}

func New(cfg Config, logger *slog.Logger) (*Sim, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Prefabs != "" {
		prefabs.Dir = cfg.Prefabs
	}

	player, err := prefabs.LoadPlayerSpec()
	if err != nil {
		return nil, err
	}
	wcfg, err := prefabs.LoadWeatherConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Weather != "" {
		start, err := weather.ParseType(cfg.Weather)
		if err != nil {
			return nil, err
		}
		wcfg.Start = start
	}
	lspec, err := prefabs.LoadLevelSpec(cfg.Level)
	if err != nil {
		return nil, err
	}

	world := physics.NewWorld(lspec.Physics, logger)
	lvl, err := level.Build(lspec.Spec, world, logger)
	if err != nil {
		return nil, err
	}
	body := world.AddCharacter(player.Character(lvl.Spawn))
	wm := weather.NewManager(wcfg, logger)
	ctrl := locomotion.New(player.Movement, world, body, wm, logger)
	lvl.AddRider(ctrl)
	lvl.TrackLadders(body, ctrl)

	rec, err := telemetry.Create(cfg.Trace)
	if err != nil {
		ctrl.Close()
		return nil, err
	}

	s := &Sim{
		World:    world,
		Level:    lvl,
		Body:     body,
		Ctrl:     ctrl,
		Weather:  wm,
		Player:   player,
		cfg:      cfg,
		reloader: prefabs.NewReloader(logger),
		rec:      rec,
		log:      logger.With("component", "sim"),
	}
	s.reloader.Handle(prefabs.PlayerFile, s.reloadPlayer)
	s.reloader.Handle(prefabs.WeatherFile, s.reloadWeather)
	ctrl.OnStateChanged(func(from, to locomotion.StateName) {
		s.log.Debug("state changed", "from", from, "to", to, "tick", s.ticks)
	})
	return s, nil
}

// Frame runs the decision pass for snap and then the fixed ticks that fit
// in the accumulated time. Each fixed tick runs at the time it covers, the
// frame clock minus the backlog still owed after it. Backlog beyond MaxSteps
// is dropped. It returns the number of fixed ticks run.
func (s *Sim) Frame(dt time.Duration, snap input.Snapshot) int {
	s.clock += dt
	s.acc += dt
	s.Ctrl.Update(s.clock, snap)

	steps := 0
	for s.acc >= s.cfg.Fixed && steps < s.cfg.MaxSteps {
		s.acc -= s.cfg.Fixed
		s.step(s.clock - s.acc)
		steps++
	}
	if s.acc >= s.cfg.Fixed {
		s.log.Debug("dropping backlog", "behind", s.acc)
		s.acc = 0
	}
	return steps
}

func (s *Sim) step(now time.Duration) {
	dt := s.cfg.Fixed
	s.Weather.Update(dt)
	s.Level.Update(dt)
	s.Ctrl.FixedUpdate(now, dt)
	s.World.Step(dt)
	s.ticks++

	st := s.Ctrl.Status()
	if s.Level.OutOfBounds(st.Position) {
		s.Respawn()
		st = s.Ctrl.Status()
	}
	if err := s.rec.Record(telemetry.FromStatus(s.ticks, now, st, s.Weather.CurrentType())); err != nil {
		s.log.Warn("trace disabled", "err", err)
		_ = s.rec.Close()
		s.rec = nil
	}
}

// Respawn puts the character back at the level spawn.
func (s *Sim) Respawn() {
	s.Ctrl.Teleport(s.Level.Spawn)
}

// Reload applies changed prefab files by name and returns how many reloaded.
func (s *Sim) Reload(names []string) int {
	return s.reloader.Apply(names)
}

func (s *Sim) reloadPlayer() error {
	p, err := prefabs.LoadPlayerSpec()
	if err != nil {
		return err
	}
	if err := s.Ctrl.Reconfigure(p.Movement); err != nil {
		return fmt.Errorf("sim: apply %s: %w", prefabs.PlayerFile, err)
	}
	s.Player = p
	return nil
}

func (s *Sim) reloadWeather() error {
	cfg, err := prefabs.LoadWeatherConfig()
	if err != nil {
		return err
	}
	s.Weather.Reload(cfg)
	return nil
}

func (s *Sim) Config() Config {
	return s.cfg
}

// Ticks returns how many fixed ticks have run.
func (s *Sim) Ticks() int {
	return s.ticks
}

func (s *Sim) Clock() time.Duration {
	return s.clock
}

func (s *Sim) Close() error {
	s.Ctrl.Close()
	return s.rec.Close()
}
