package main

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/locomotion/input"
)

const stickDeadzone = 0.2

var (
	jumpKeys = []ebiten.Key{ebiten.KeySpace}
	dashKeys = []ebiten.Key{ebiten.KeyShiftLeft, ebiten.KeyK}

	jumpButtons = []ebiten.StandardGamepadButton{ebiten.StandardGamepadButtonRightBottom}
	dashButtons = []ebiten.StandardGamepadButton{
		ebiten.StandardGamepadButtonFrontBottomRight,
		ebiten.StandardGamepadButtonRightRight,
	}
)

// Keyboard samples keyboard and the first standard gamepad into snapshots.
type Keyboard struct{}

func NewKeyboard() *Keyboard {
	return &Keyboard{}
}

func (k *Keyboard) Poll() input.Snapshot {
	left := ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft)
	right := ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight)
	up := ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp)
	down := ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown)

	jump := anyKey(jumpKeys, ebiten.IsKeyPressed)
	jumpPressed := anyKey(jumpKeys, inpututil.IsKeyJustPressed)
	jumpReleased := anyKey(jumpKeys, inpututil.IsKeyJustReleased)
	dashPressed := anyKey(dashKeys, inpututil.IsKeyJustPressed)

	moveX, moveY := axis(left, right), axis(down, up)

	if gamepads := ebiten.AppendGamepadIDs(nil); len(gamepads) > 0 {
		id := gamepads[0]
		if ebiten.IsStandardGamepadLayoutAvailable(id) {
			lx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
			ly := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
			if math.Abs(lx) > stickDeadzone {
				moveX = lx
			}
			// pad Y grows downward
			if math.Abs(ly) > stickDeadzone {
				moveY = -ly
			}
			if ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftLeft) {
				moveX = -1
			}
			if ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftRight) {
				moveX = 1
			}
			if ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftBottom) {
				moveY = -1
			}
			if ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftTop) {
				moveY = 1
			}

			jump = jump || anyButton(id, jumpButtons, ebiten.IsStandardGamepadButtonPressed)
			jumpPressed = jumpPressed || anyButton(id, jumpButtons, inpututil.IsStandardGamepadButtonJustPressed)
			jumpReleased = jumpReleased || anyButton(id, jumpButtons, inpututil.IsStandardGamepadButtonJustReleased)
			dashPressed = dashPressed || anyButton(id, dashButtons, inpututil.IsStandardGamepadButtonJustPressed)
		}
	}

	return snapshot(moveX, moveY,
		edges{held: jump, pressed: jumpPressed, released: jumpReleased},
		edges{pressed: dashPressed},
	)
}

// edges is one logical button merged across devices for a frame.
type edges struct {
	held     bool
	pressed  bool
	released bool
}

func snapshot(moveX, moveY float64, jump, dash edges) input.Snapshot {
	return input.Snapshot{
		MoveX:       moveX,
		MoveY:       moveY,
		JumpPressed: jump.pressed,
		JumpHeld:    jump.held,
		// letting go of one device while another still holds jump is not a release
		JumpReleased: jump.released && !jump.held,
		DashPressed:  dash.pressed,
	}
}

func anyKey(keys []ebiten.Key, fn func(ebiten.Key) bool) bool {
	for _, k := range keys {
		if fn(k) {
			return true
		}
	}
	return false
}

func anyButton(id ebiten.GamepadID, buttons []ebiten.StandardGamepadButton, fn func(ebiten.GamepadID, ebiten.StandardGamepadButton) bool) bool {
	for _, b := range buttons {
		if fn(id, b) {
			return true
		}
	}
	return false
}

func axis(neg, pos bool) float64 {
	v := 0.0
	if neg {
		v -= 1
	}
	if pos {
		v += 1
	}
	return v
}
