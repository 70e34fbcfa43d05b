package locomotion

import (
	"math/rand/v2"
	"testing"

	"github.com/milk9111/locomotion/input"
	"github.com/milk9111/locomotion/weather"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestGroundJumpKeepsAirJumps(t *testing.T) {
	r := newRig(t, DefaultConfig())
	r.world.ground = solid("floor")
	r.idle(1)

	s := r.tick(press())
	if s.State != StateJump {
		t.Fatalf("state = %v, want jump", s.State)
	}
	if s.AirJumps != 2 {
		t.Fatalf("air jumps = %d, want 2", s.AirJumps)
	}
	if s.VerticalVelocity() != 15 {
		t.Fatalf("vy = %v, want jump impulse", s.VerticalVelocity())
	}
}

func TestAirJumpConsumesBudget(t *testing.T) {
	r := newRig(t, DefaultConfig())
	r.body.vel = r2.Vec{Y: -1}
	if s := r.idle(1); s.State != StateFall {
		t.Fatalf("state = %v, want fall", s.State)
	}

	s := r.tick(press())
	if s.AirJumps != 1 || s.VerticalVelocity() != 15 || s.State != StateJump {
		t.Fatalf("after air jump: %+v", s)
	}

	r.body.vel = r2.Vec{Y: -2}
	if s := r.idle(1); s.State != StateFall {
		t.Fatalf("descending after air jump should be fall, got %v", s.State)
	}
}

func TestAirJumpAtApexStaysInJump(t *testing.T) {
	r := newRig(t, DefaultConfig())
	r.body.vel = r2.Vec{Y: -1}
	r.idle(1)
	if s := r.tick(press()); s.State != StateJump || s.AirJumps != 1 {
		t.Fatalf("first air jump: %+v", s)
	}

	// apex: the decision pass sees vy = 0 and a fresh press on the same tick
	r.body.vel = r2.Vec{}
	s := r.tick(press())
	if s.State != StateJump || s.VerticalVelocity() != 15 || s.AirJumps != 0 {
		t.Fatalf("apex press: state=%v vy=%v air=%d", s.State, s.VerticalVelocity(), s.AirJumps)
	}
	if s := r.idle(1); s.State != StateJump {
		t.Fatalf("rising after apex jump, state = %v", s.State)
	}
}

func TestLandingResetsAirJumps(t *testing.T) {
	r := newRig(t, DefaultConfig())
	r.body.vel = r2.Vec{Y: -1}
	r.idle(1)

	for want := 1; want >= 0; want-- {
		s := r.tick(press())
		if s.AirJumps != want {
			t.Fatalf("air jumps = %d, want %d", s.AirJumps, want)
		}
		r.body.vel = r2.Vec{Y: -1}
		r.idle(1)
	}

	// empty budget: the press is a no-op
	s := r.tick(press())
	if s.AirJumps != 0 || s.VerticalVelocity() != -1 {
		t.Fatalf("jump with empty budget changed state: %+v", s)
	}

	r.world.ground = solid("floor")
	r.body.vel = r2.Vec{}
	for i := 0; i < 3; i++ {
		s = r.idle(1)
		if s.AirJumps != 2 {
			t.Fatalf("tick %d after landing: air jumps = %d, want 2", i, s.AirJumps)
		}
	}
	if s.State != StateIdle {
		t.Fatalf("state = %v, want idle", s.State)
	}
}

func TestWallJumpFromLeftWall(t *testing.T) {
	cfg := DefaultConfig()
	r := newRig(t, cfg)
	r.world.left = solid("wall")
	r.body.vel = r2.Vec{Y: -1}
	hold := input.Snapshot{MoveX: -1}

	s := r.tick(hold)
	if !s.WallClinging || s.WallSide != -1 {
		t.Fatalf("expected cling on left wall, got %+v", s)
	}
	if s.Velocity != (r2.Vec{X: -cfg.WallStickSpeed, Y: -cfg.WallSlideSpeed}) {
		t.Fatalf("cling velocity = %+v", s.Velocity)
	}

	jumpAt := r.now + step
	s = r.tick(input.Snapshot{MoveX: -1, JumpPressed: true, JumpHeld: true})
	if s.Velocity.X != cfg.WallJumpHorizontalForce {
		t.Fatalf("vx = %v, want %v", s.Velocity.X, cfg.WallJumpHorizontalForce)
	}
	if s.VerticalVelocity() != cfg.JumpImpulse {
		t.Fatalf("vy = %v, want %v", s.VerticalVelocity(), cfg.JumpImpulse)
	}
	if s.WallClinging {
		t.Fatal("cling should disengage on wall jump")
	}
	if s.AirJumps != 1 {
		t.Fatalf("wall jump should consume, air jumps = %d", s.AirJumps)
	}
	if !r.ctrl.st.lastWallJump.set || r.ctrl.st.lastWallJump.at != jumpAt {
		t.Fatalf("wall jump cooldown not started at %v: %+v", jumpAt, r.ctrl.st.lastWallJump)
	}

	// cling stays off for the whole cooldown, then re-engages
	for i := 0; i < 20; i++ {
		s = r.tick(hold)
		elapsed := r.now - jumpAt
		if elapsed < cfg.WallJumpClingCooldown && s.WallClinging {
			t.Fatalf("cling re-engaged %v after wall jump", elapsed)
		}
		if elapsed >= cfg.WallJumpClingCooldown && !s.WallClinging {
			t.Fatalf("cling should re-engage %v after wall jump", elapsed)
		}
	}
}

func TestWallClingReleasesBelowThreshold(t *testing.T) {
	r := newRig(t, DefaultConfig())
	r.world.right = solid("wall")
	r.body.vel = r2.Vec{Y: -1}

	if s := r.tick(input.Snapshot{MoveX: 1}); !s.WallClinging {
		t.Fatal("expected cling")
	}
	if s := r.tick(input.Snapshot{MoveX: 0.1}); s.WallClinging {
		t.Fatal("input below threshold should release cling")
	}
	r.tick(input.Snapshot{MoveX: 1})
	r.world.right = nil
	if s := r.tick(input.Snapshot{MoveX: 1}); s.WallClinging {
		t.Fatal("losing wall contact should release cling")
	}
}

func TestDashPinsVelocity(t *testing.T) {
	cfg := DefaultConfig()
	r := newRig(t, cfg)
	r.world.ground = solid("floor")
	r.idle(1)

	start := r.now + step
	s := r.tick(input.Snapshot{DashPressed: true})
	for r.now < start+cfg.DashDuration {
		if !s.Dashing {
			t.Fatalf("not dashing at %v", r.now-start)
		}
		if r2.Norm(s.Velocity) != cfg.DashSpeed || s.Velocity.Y != 0 || s.Velocity.X != cfg.DashSpeed {
			t.Fatalf("dash velocity = %+v", s.Velocity)
		}
		if r.body.gravity != 0 {
			t.Fatalf("gravity during dash = %v", r.body.gravity)
		}
		s = r.tick(input.Snapshot{})
	}
	if s.Dashing {
		t.Fatal("dash should end after its duration")
	}

	s = r.tick(input.Snapshot{DashPressed: true})
	if s.Dashing {
		t.Fatal("dash inside cooldown should be ignored")
	}
	if want := cfg.DashCooldown - (r.now - start); s.DashCooldownRemaining != want {
		t.Fatalf("cooldown remaining = %v, want %v", s.DashCooldownRemaining, want)
	}
}

func TestDashDirection(t *testing.T) {
	cases := []struct {
		name  string
		warm  input.Snapshot
		dash  input.Snapshot
		wantX float64
	}{
		{"default_right", input.Snapshot{}, input.Snapshot{DashPressed: true}, 18},
		{"input_left", input.Snapshot{}, input.Snapshot{MoveX: -0.8, DashPressed: true}, -18},
		{"last_input_left", input.Snapshot{MoveX: -1}, input.Snapshot{DashPressed: true}, -18},
		{"deadzone_falls_back", input.Snapshot{MoveX: 1}, input.Snapshot{MoveX: -0.005, DashPressed: true}, 18},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := newRig(t, DefaultConfig())
			r.world.ground = solid("floor")
			r.tick(c.warm)
			s := r.tick(c.dash)
			if s.Velocity.X != c.wantX || s.Velocity.Y != 0 {
				t.Fatalf("dash velocity = %+v, want x=%v", s.Velocity, c.wantX)
			}
		})
	}
}

func TestDashBlockedOnLadder(t *testing.T) {
	r := newRig(t, DefaultConfig())
	r.ctrl.EnterLadder()
	if s := r.tick(input.Snapshot{DashPressed: true}); s.Dashing {
		t.Fatal("dash should not arm on a ladder")
	}
}

func TestWeatherHalvesTargetSpeedMidRun(t *testing.T) {
	cfg := DefaultConfig()
	r := newRig(t, cfg)
	r.world.ground = solid("floor")
	run := input.Snapshot{MoveX: 1}

	var s Status
	for i := 0; i < 6; i++ {
		s = r.tick(run)
	}
	if !near(s.Velocity.X, cfg.MaxSpeed) {
		t.Fatalf("vx = %v, want max speed", s.Velocity.X)
	}

	slow := weather.Identity()
	slow.MoveSpeed = 0.5
	r.setWeather(slow)

	rate := cfg.Acceleration * step.Seconds()
	prev := s.Velocity.X
	for _, want := range []float64{8 - rate, 8 - 2*rate} {
		s = r.tick(run)
		if !near(s.Velocity.X, want) {
			t.Fatalf("vx = %v, want %v", s.Velocity.X, want)
		}
		if !near(prev-s.Velocity.X, rate) {
			t.Fatalf("acceleration step = %v, want %v", prev-s.Velocity.X, rate)
		}
		prev = s.Velocity.X
	}
	s = r.tick(run)
	if !near(s.Velocity.X, cfg.MaxSpeed*0.5) {
		t.Fatalf("vx = %v, want halved max speed", s.Velocity.X)
	}
}

func TestDropThroughOneWayPlatform(t *testing.T) {
	cfg := DefaultConfig()
	r := newRig(t, cfg)
	plat := oneWay("ledge")
	r.world.ground = plat
	r.idle(1)

	armedAt := r.now + step
	s := r.tick(input.Snapshot{MoveY: -1, JumpPressed: true, JumpHeld: true})
	if !r.world.ignored[plat] || !s.DropThroughActive {
		t.Fatal("platform should be ignored after drop-through")
	}
	if s.State == StateJump || s.VerticalVelocity() != 0 || s.AirJumps != 2 {
		t.Fatalf("drop-through must not jump: %+v", s)
	}

	for r.now+step < armedAt+cfg.DropThroughIgnore {
		s = r.idle(1)
		if !r.world.ignored[plat] {
			t.Fatalf("collision restored early at %v", r.now-armedAt)
		}
		if s.Grounded {
			t.Fatal("platform being dropped through counted as ground")
		}
	}

	s = r.idle(1)
	if r.world.ignored[plat] || s.DropThroughActive {
		t.Fatalf("collision should be restored at %v", r.now-armedAt)
	}
}

func TestDownJumpOnSolidGroundJumps(t *testing.T) {
	r := newRig(t, DefaultConfig())
	r.world.ground = solid("floor")
	r.idle(1)

	s := r.tick(input.Snapshot{MoveY: -1, JumpPressed: true, JumpHeld: true})
	if s.State != StateJump || s.VerticalVelocity() != 15 {
		t.Fatalf("down+jump on solid ground should jump: %+v", s)
	}
	if len(r.world.ignored) != 0 {
		t.Fatal("solid ground must never be ignored")
	}
}

func TestStateListener(t *testing.T) {
	r := newRig(t, DefaultConfig())
	r.world.ground = solid("floor")

	var got [][2]StateName
	r.ctrl.OnStateChanged(func(from, to StateName) {
		got = append(got, [2]StateName{from, to})
	})

	r.tick(input.Snapshot{MoveX: 1})
	r.tick(input.Snapshot{MoveX: 1, JumpPressed: true, JumpHeld: true})
	r.ctrl.Teleport(r2.Vec{X: 5, Y: 5})

	want := [][2]StateName{
		{StateIdle, StateRun},
		{StateRun, StateJump},
		{StateJump, StateFall},
	}
	if len(got) != len(want) {
		t.Fatalf("transitions = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("transition %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTeleportAndCarry(t *testing.T) {
	r := newRig(t, DefaultConfig())
	r.body.vel = r2.Vec{X: 3, Y: 4}

	r.ctrl.Teleport(r2.Vec{X: 5, Y: 5})
	if r.body.pos != (r2.Vec{X: 5, Y: 5}) || r.body.vel != (r2.Vec{}) {
		t.Fatalf("teleport left pos=%+v vel=%+v", r.body.pos, r.body.vel)
	}

	r.ctrl.Carry(r2.Vec{X: 1, Y: -0.5})
	if r.body.pos != (r2.Vec{X: 6, Y: 4.5}) {
		t.Fatalf("carry pos = %+v", r.body.pos)
	}
}

func TestGroundReportsCollider(t *testing.T) {
	r := newRig(t, DefaultConfig())
	floor := solid("floor")
	r.world.ground = floor
	r.idle(1)
	if r.ctrl.Ground() != floor {
		t.Fatalf("ground = %v, want floor", r.ctrl.Ground())
	}
	r.world.ground = nil
	r.idle(1)
	if r.ctrl.Ground() != nil {
		t.Fatal("airborne controller should report no ground")
	}
}

func TestCloseDropsWeatherSubscription(t *testing.T) {
	r := newRig(t, DefaultConfig())
	r.ctrl.Close()

	slow := weather.Identity()
	slow.MoveSpeed = 0.5
	r.setWeather(slow)
	if r.ctrl.Modifiers().MoveSpeed != 1 {
		t.Fatal("closed controller should ignore weather changes")
	}
}

func TestReconfigure(t *testing.T) {
	r := newRig(t, DefaultConfig())
	r.body.vel = r2.Vec{Y: -1}
	r.idle(1)

	cfg := DefaultConfig()
	cfg.AirJumps = 1
	cfg.MaxSpeed = 4
	if err := r.ctrl.Reconfigure(cfg); err != nil {
		t.Fatal(err)
	}
	if s := r.ctrl.Status(); s.AirJumps != 1 {
		t.Fatalf("air jumps not clamped: %d", s.AirJumps)
	}

	bad := cfg
	bad.MaxSpeed = 0
	if err := r.ctrl.Reconfigure(bad); err == nil {
		t.Fatal("expected invalid config error")
	}
	if r.ctrl.Config().MaxSpeed != 4 {
		t.Fatal("rejected config was applied")
	}

	r.world.ground = solid("floor")
	r.body.vel = r2.Vec{}
	var s Status
	for i := 0; i < 20; i++ {
		s = r.tick(input.Snapshot{MoveX: 1})
	}
	if !near(s.Velocity.X, 4) {
		t.Fatalf("vx = %v, want new max speed", s.Velocity.X)
	}
}

// TestInvariantsUnderRandomInput drives the controller with random input and
// environment changes and checks the always-true properties every tick.
func TestInvariantsUnderRandomInput(t *testing.T) {
	cfg := DefaultConfig()
	r := newRig(t, cfg)
	rng := rand.New(rand.NewPCG(7, 11))
	floor, wall, plat := solid("floor"), solid("wall"), oneWay("plat")

	pick := func(p float64, c Collider) Collider {
		if rng.Float64() < p {
			return c
		}
		return nil
	}

	var jump input.Button
	for i := 0; i < 2000; i++ {
		r.world.ground = pick(0.4, floor)
		if r.world.ground == nil {
			r.world.ground = pick(0.2, plat)
		}
		r.world.left = pick(0.2, wall)
		r.world.right = pick(0.2, wall)
		r.world.above = pick(0.1, plat)
		if rng.Float64() < 0.3 {
			r.body.vel.Y = rng.Float64()*10 - 5
		}
		switch rng.IntN(20) {
		case 0:
			r.ctrl.EnterLadder()
		case 1, 2:
			r.ctrl.ExitLadder()
		}

		held := rng.Float64() < 0.4
		pressed, released := jump.Update(held)
		s := r.tick(input.Snapshot{
			MoveX:        rng.Float64()*2 - 1,
			MoveY:        rng.Float64()*2 - 1,
			JumpPressed:  pressed,
			JumpHeld:     held,
			JumpReleased: released,
			DashPressed:  rng.IntN(30) == 0,
		})

		if s.AirJumps < 0 || s.AirJumps > cfg.AirJumps {
			t.Fatalf("tick %d: air jumps %d out of [0, %d]", i, s.AirJumps, cfg.AirJumps)
		}
		if s.Grounded && s.WallClinging {
			t.Fatalf("tick %d: grounded and clinging at once", i)
		}
		if r.ctrl.st.ladderCount < 0 {
			t.Fatalf("tick %d: ladder counter negative", i)
		}
		if s.Dashing && !s.OnLadder && (s.Velocity.Y != 0 || r2.Norm(s.Velocity) != cfg.DashSpeed) {
			t.Fatalf("tick %d: dash velocity %+v", i, s.Velocity)
		}
	}
}
