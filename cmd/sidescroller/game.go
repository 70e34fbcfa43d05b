package main

import (
	"image/color"
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/locomotion/locomotion"
	"github.com/milk9111/locomotion/prefabs"
	"github.com/milk9111/locomotion/sim"
	"golang.org/x/image/colornames"
)

const (
	baseWidth  = 1280
	baseHeight = 720

	pixelsPerUnit = 32
	cameraLerp    = 0.15
)

type Game struct {
	sim     *sim.Sim
	input   *Keyboard
	watcher *prefabs.Watcher
	cam     camera
	debug   bool

	log *slog.Logger
}

// NewGame builds the simulation. When watch is set, edits to the prefab
// override directory are reloaded between frames.
func NewGame(cfg sim.Config, logger *slog.Logger, debug, watch bool) (*Game, error) {
	s, err := sim.New(cfg, logger)
	if err != nil {
		return nil, err
	}

	g := &Game{
		sim:   s,
		input: NewKeyboard(),
		cam:   camera{center: s.Level.Spawn, zoom: pixelsPerUnit},
		debug: debug,
		log:   logger,
	}
	if watch {
		w, err := prefabs.NewWatcher(logger, cfg.Prefabs)
		if err != nil {
			logger.Warn("hot reload disabled", "dir", cfg.Prefabs, "err", err)
		} else {
			g.watcher = w
		}
	}
	return g, nil
}

func (g *Game) Close() error {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	return g.sim.Close()
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.debug = !g.debug
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.sim.Weather.Cycle()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.sim.Respawn()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		g.sim.Reload([]string{prefabs.PlayerFile, prefabs.WeatherFile})
	}
	if names := g.watcher.Drain(); len(names) > 0 {
		g.sim.Reload(names)
	}

	dt := time.Second / time.Duration(ebiten.TPS())
	g.sim.Frame(dt, g.input.Poll())
	g.cam.follow(g.sim.Ctrl.Status().Position, cameraLerp)
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Midnightblue)

	for _, c := range g.sim.World.Colliders() {
		if c.Layer()&locomotion.LayerCharacter != 0 {
			continue
		}
		fill, stroke := colliderColors(c)
		g.cam.rect(screen, c.Center(), c.HalfExtents(), fill, stroke)
	}

	st := g.sim.Ctrl.Status()
	g.cam.rect(screen, st.Position, g.sim.Body.HalfExtents(), characterColor(st), colornames.White)

	if fog := g.sim.Ctrl.Modifiers().FogVisibility; fog < 1 {
		a := uint8((1 - clampUnit(fog)) * 200)
		vector.FillRect(screen, 0, 0, baseWidth, baseHeight, color.NRGBA{R: 0xb0, G: 0xb8, B: 0xc0, A: a}, false)
	}

	if g.debug {
		drawPhysicsDebug(screen, g.cam, g.sim.World.Space())
		drawSensorRays(screen, g.cam, g.sim)
	}
	drawStatus(screen, g.sim)
}

func characterColor(st locomotion.Status) color.Color {
	switch {
	case st.Dashing:
		return colornames.Gold
	case st.WallClinging:
		return colornames.Orchid
	case st.OnLadder:
		return colornames.Sandybrown
	default:
		return colornames.Crimson
	}
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
