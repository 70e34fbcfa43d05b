package locomotion

import "github.com/milk9111/locomotion/common"

// StateName identifies a high-level locomotion state.
type StateName string

const (
	StateIdle StateName = "idle"
	StateRun  StateName = "run"
	StateJump StateName = "jump"
	StateFall StateName = "fall"
)

// State is one node of the locomotion state machine. States only decide
// transitions; all velocity changes happen in the fixed pass.
type State interface {
	Name() StateName
	Enter(ctx *StateContext)
	Exit(ctx *StateContext)
	HandleInput(ctx *StateContext)
}

// StateContext is the per-tick view a state decides from.
type StateContext struct {
	Grounded         bool
	JumpPressed      bool
	DropThrough      bool
	MoveX            float64
	AirJumps         int
	VerticalVelocity float64
	// Ladder and Down mirror the ladder branch of the fixed pass: a press on a
	// ladder spends the air-jump budget, and down+jump drops off instead.
	Ladder bool
	Down   bool
	// JumpPending is true while an armed ground jump has not been applied yet.
	JumpPending bool

	ChangeState   func(state State)
	ArmGroundJump func()
}

// State singletons (avoid allocations on transitions).
var (
	stateIdle State = &idleState{}
	stateRun  State = &runState{}
	stateJump State = &jumpState{}
	stateFall State = &fallState{}
)

type idleState struct{}

type runState struct{}

type jumpState struct{}

type fallState struct{}

func (idleState) Name() StateName         { return StateIdle }
func (idleState) Enter(ctx *StateContext) {}
func (idleState) Exit(ctx *StateContext)  {}
func (idleState) HandleInput(ctx *StateContext) {
	if ctx == nil || ctx.ChangeState == nil {
		return
	}
	if !ctx.Grounded {
		ctx.ChangeState(stateFall)
		return
	}
	if groundJump(ctx) {
		return
	}
	if hasMove(ctx.MoveX) {
		ctx.ChangeState(stateRun)
	}
}

func (runState) Name() StateName         { return StateRun }
func (runState) Enter(ctx *StateContext) {}
func (runState) Exit(ctx *StateContext)  {}
func (runState) HandleInput(ctx *StateContext) {
	if ctx == nil || ctx.ChangeState == nil {
		return
	}
	if !ctx.Grounded {
		ctx.ChangeState(stateFall)
		return
	}
	if groundJump(ctx) {
		return
	}
	if !hasMove(ctx.MoveX) {
		ctx.ChangeState(stateIdle)
	}
}

func (jumpState) Name() StateName         { return StateJump }
func (jumpState) Enter(ctx *StateContext) {}
func (jumpState) Exit(ctx *StateContext)  {}
func (jumpState) HandleInput(ctx *StateContext) {
	if ctx == nil || ctx.ChangeState == nil {
		return
	}
	// the armed impulse lands on the next fixed tick
	if ctx.JumpPending {
		return
	}
	if ctx.Grounded && ctx.VerticalVelocity <= 0 && groundJump(ctx) {
		return
	}
	// an air jump at the apex is applied this tick, keep rising
	if airJump(ctx) {
		return
	}
	if ctx.VerticalVelocity <= 0 {
		ctx.ChangeState(stateFall)
	}
}

func (fallState) Name() StateName         { return StateFall }
func (fallState) Enter(ctx *StateContext) {}
func (fallState) Exit(ctx *StateContext)  {}
func (fallState) HandleInput(ctx *StateContext) {
	if ctx == nil || ctx.ChangeState == nil {
		return
	}
	if ctx.Grounded {
		// landing with a fresh press jumps straight away
		if groundJump(ctx) {
			return
		}
		if hasMove(ctx.MoveX) {
			ctx.ChangeState(stateRun)
		} else {
			ctx.ChangeState(stateIdle)
		}
		return
	}
	if airJump(ctx) {
		ctx.ChangeState(stateJump)
	}
}

// groundJump arms a ground jump and enters Jump when the press is not a
// drop-through request. On a ladder the press is a ladder jump instead: it is
// never free and down+jump only drops off.
func groundJump(ctx *StateContext) bool {
	if !ctx.JumpPressed || ctx.DropThrough {
		return false
	}
	if ctx.Ladder {
		if !ladderJump(ctx) {
			return false
		}
		ctx.ChangeState(stateJump)
		return true
	}
	if ctx.ArmGroundJump != nil {
		ctx.ArmGroundJump()
	}
	ctx.ChangeState(stateJump)
	return true
}

// airJump reports whether an airborne press will spend the budget on an
// impulse this tick.
func airJump(ctx *StateContext) bool {
	if !ctx.JumpPressed || ctx.Grounded {
		return false
	}
	if ctx.Ladder {
		return ladderJump(ctx)
	}
	return ctx.AirJumps > 0
}

func ladderJump(ctx *StateContext) bool {
	return !ctx.Down && ctx.AirJumps > 0
}

func hasMove(x float64) bool {
	return !common.NearZero(x)
}

// machine runs at most one transition per decision tick.
type machine struct {
	state     State
	jumpArmed bool
	listeners []func(from, to StateName)
}

func newMachine() *machine {
	return &machine{state: stateIdle}
}

func (m *machine) Name() StateName {
	return m.state.Name()
}

func (m *machine) step(ctx *StateContext) {
	changed := false
	ctx.JumpPending = m.jumpArmed
	ctx.ArmGroundJump = func() { m.jumpArmed = true }
	ctx.ChangeState = func(next State) {
		if changed || next == nil || next == m.state {
			return
		}
		changed = true
		m.change(ctx, next)
	}
	m.state.HandleInput(ctx)
}

func (m *machine) change(ctx *StateContext, next State) {
	prev := m.state
	prev.Exit(ctx)
	m.state = next
	next.Enter(ctx)
	for _, fn := range m.listeners {
		fn(prev.Name(), next.Name())
	}
}

// force jumps to a state outside normal transitions, e.g. after a teleport.
func (m *machine) force(next State) {
	if next == m.state {
		return
	}
	m.change(&StateContext{}, next)
}
