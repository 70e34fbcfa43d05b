package locomotion

import (
	"log/slog"
	"time"

	"github.com/milk9111/locomotion/input"
	"github.com/milk9111/locomotion/weather"
	"gonum.org/v1/gonum/spatial/r2"
)

// Controller turns input snapshots and sensor readings into body velocity
// for a single character. It is driven by two passes: Update at frame rate
// and FixedUpdate at the physics rate. Not safe for concurrent use.
type Controller struct {
	cfg   Config
	world World
	body  Body
	sense sensors

	weather       WeatherSource
	mods          weather.Modifiers
	cancelWeather func()

	latch    input.Latch
	fsm      *machine
	st       runtime
	last     Readings
	friction float64
	now      time.Duration

	log *slog.Logger
}

// New creates a controller for body. ws may be nil, in which case identity
// modifiers apply. cfg is expected to have passed Validate.
func New(cfg Config, world World, body Body, ws WeatherSource, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Controller{
		cfg:     cfg,
		world:   world,
		body:    body,
		weather: ws,
		mods:    weather.Identity(),
		fsm:     newMachine(),
		st:      newRuntime(cfg),
		log:     logger.With("component", "locomotion", "body", body.Collider().Name()),
	}
	c.sense = sensors{cfg: &c.cfg, world: world, body: body}
	c.resetFriction()

	if ws != nil {
		c.mods = ws.Current()
		c.cancelWeather = ws.OnChanged(c.applyWeather)
	}
	return c
}

func (c *Controller) applyWeather(m weather.Modifiers) {
	c.mods = m
	c.log.Debug("weather applied", "modifiers", m)
}

// Close drops the weather subscription.
func (c *Controller) Close() {
	if c.cancelWeather != nil {
		c.cancelWeather()
		c.cancelWeather = nil
	}
}

// Update is the decision pass: capture input, sense, run bookkeeping, arm the
// dash and advance the state machine.
func (c *Controller) Update(now time.Duration, snap input.Snapshot) {
	c.now = now
	c.latch.Capture(snap)
	in := c.latch.Peek()

	c.trackDirection(in.MoveX)

	r := c.read(now, false)
	c.last = r
	vy := c.body.Velocity().Y

	c.setGrounded(r)
	c.updateWallCling(now, r, in.MoveX)
	c.refillAirJumps(now, r, vy)
	c.armDash(now, in, r)

	c.fsm.step(&StateContext{
		Grounded:         r.Grounded,
		JumpPressed:      in.JumpPressed,
		DropThrough:      wantsDropThrough(in, r),
		MoveX:            in.MoveX,
		AirJumps:         c.st.airJumps,
		VerticalVelocity: vy,
		Ladder:           r.Ladder,
		Down:             in.Down(),
	})

	c.st.wasGrounded = r.Grounded
	c.st.wasClinging = c.st.clinging
}

// read captures every sensor once. probeAbove enables the jump-through ray.
func (c *Controller) read(now time.Duration, probeAbove bool) Readings {
	var r Readings
	r.Ground, r.Grounded = c.sense.IsGrounded(&c.st.dropSlot)
	r.WallLeft = c.sense.TouchingWall(-1)
	r.WallRight = c.sense.TouchingWall(1)
	r.Ladder = c.sense.OnLadder(now, c.st.ladderCount, c.st.dismount)
	if probeAbove {
		r.Above = c.sense.PlatformDirectlyAbove()
	}
	return r
}

// EnterLadder is called by ladder trigger volumes on overlap enter.
func (c *Controller) EnterLadder() {
	c.st.ladderCount++
}

// ExitLadder tolerates unbalanced calls.
func (c *Controller) ExitLadder() {
	if c.st.ladderCount > 0 {
		c.st.ladderCount--
	}
}

// Carry moves the body by a rider delta, e.g. from a moving platform.
func (c *Controller) Carry(delta r2.Vec) {
	if delta.X == 0 && delta.Y == 0 {
		return
	}
	c.body.MoveTo(r2.Add(c.body.Position(), delta))
}

// Teleport places the body at p at rest. Used for respawns.
func (c *Controller) Teleport(p r2.Vec) {
	c.body.MoveTo(p)
	c.body.SetVelocity(r2.Vec{})
	c.latch.Reset()
	c.fsm.jumpArmed = false
	c.fsm.force(stateFall)
	c.log.Info("teleported", "x", p.X, "y", p.Y)
}

// Ground returns the collider under the feet from the latest sensor capture.
func (c *Controller) Ground() Collider {
	if !c.last.Grounded {
		return nil
	}
	return c.last.Ground
}

// OnStateChanged registers fn for every coarse state transition.
func (c *Controller) OnStateChanged(fn func(from, to StateName)) {
	if fn == nil {
		return
	}
	c.fsm.listeners = append(c.fsm.listeners, fn)
}

// Reconfigure swaps in new tuning, e.g. after a hot reload. Remaining air
// jumps are clamped to the new budget.
func (c *Controller) Reconfigure(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.cfg = cfg
	if c.st.airJumps > cfg.AirJumps {
		c.st.airJumps = cfg.AirJumps
	}
	c.log.Info("config reloaded", "max_speed", cfg.MaxSpeed, "air_jumps", cfg.AirJumps)
	return nil
}

func (c *Controller) Config() Config {
	return c.cfg
}

func (c *Controller) Body() Body {
	return c.body
}

func (c *Controller) Modifiers() weather.Modifiers {
	return c.mods
}
