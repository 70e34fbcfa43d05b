package main

import (
	"fmt"
	"image/color"
	"math"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/locomotion/locomotion"
	"github.com/milk9111/locomotion/physics"
	"github.com/milk9111/locomotion/sim"
	"golang.org/x/image/colornames"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	debugCircleSegments = 24
	debugDotSize        = 4
)

// camera maps world units (Y up) to screen pixels (Y down) centered on a
// followed point.
type camera struct {
	center r2.Vec
	zoom   float64
}

func (c *camera) follow(target r2.Vec, lerp float64) {
	c.center = r2.Add(c.center, r2.Scale(lerp, r2.Sub(target, c.center)))
}

func (c camera) toScreen(p r2.Vec) (float32, float32) {
	x := (p.X-c.center.X)*c.zoom + baseWidth/2
	y := baseHeight/2 - (p.Y-c.center.Y)*c.zoom
	return float32(x), float32(y)
}

func (c camera) rect(screen *ebiten.Image, center, half r2.Vec, fill, stroke color.Color) {
	x, y := c.toScreen(r2.Vec{X: center.X - half.X, Y: center.Y + half.Y})
	w := float32(2 * half.X * c.zoom)
	h := float32(2 * half.Y * c.zoom)
	if fill != nil {
		vector.FillRect(screen, x, y, w, h, fill, false)
	}
	if stroke != nil {
		vector.StrokeRect(screen, x, y, w, h, 1, stroke, false)
	}
}

func (c camera) line(screen *ebiten.Image, a, b r2.Vec, clr color.Color) {
	x1, y1 := c.toScreen(a)
	x2, y2 := c.toScreen(b)
	vector.StrokeLine(screen, x1, y1, x2, y2, 1, clr, true)
}

// drawSensorRays approximates the ground and wall probes from the current
// tuning. Rays turn green when their sensor reports contact.
func drawSensorRays(screen *ebiten.Image, cam camera, s *sim.Sim) {
	st := s.Ctrl.Status()
	cfg := s.Ctrl.Config()
	half := s.Body.HalfExtents()
	p := st.Position

	feet := r2.Vec{X: p.X, Y: p.Y - half.Y}
	cam.line(screen, feet, r2.Vec{X: feet.X, Y: feet.Y - cfg.GroundCheckDistance}, rayColor(st.Grounded))

	for _, side := range []int{-1, 1} {
		reach := half.X + cfg.WallCheckDistance
		end := r2.Vec{X: p.X + float64(side)*reach, Y: p.Y}
		cam.line(screen, p, end, rayColor(st.WallSide == side))
	}

	head := r2.Vec{X: p.X, Y: p.Y + half.Y}
	cam.line(screen, head, r2.Vec{X: head.X, Y: head.Y + cfg.JumpThroughRayDistance}, rayColor(st.JumpThroughActive))
}

func rayColor(hit bool) color.Color {
	if hit {
		return colornames.Lime
	}
	return colornames.Gray
}

func drawStatus(screen *ebiten.Image, s *sim.Sim) {
	st := s.Ctrl.Status()
	next := "off"
	if d := s.Weather.TimeToNextChange(); d >= 0 {
		next = d.Truncate(100 * time.Millisecond).String()
	}
	wall := "-"
	switch st.WallSide {
	case -1:
		wall = "left"
	case 1:
		wall = "right"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "TPS: %.0f  FPS: %.0f  ticks: %d\n", ebiten.ActualTPS(), ebiten.ActualFPS(), s.Ticks())
	fmt.Fprintf(&b, "State: %s\n", st.State)
	fmt.Fprintf(&b, "Grounded: %v  Ladder: %v\n", st.Grounded, st.OnLadder)
	fmt.Fprintf(&b, "Wall: %s  Cling: %v\n", wall, st.WallClinging)
	fmt.Fprintf(&b, "Air jumps: %d  Facing: %d\n", st.AirJumps, st.Facing)
	fmt.Fprintf(&b, "Dashing: %v  Dash CD: %v\n", st.Dashing, st.DashCooldownRemaining.Truncate(time.Millisecond))
	fmt.Fprintf(&b, "Drop-through: %v  Jump-through: %v\n", st.DropThroughActive, st.JumpThroughActive)
	fmt.Fprintf(&b, "Pos: %.2f, %.2f  Vel: %.2f, %.2f\n", st.Position.X, st.Position.Y, st.Velocity.X, st.VerticalVelocity())
	fmt.Fprintf(&b, "Weather: %s  next: %s\n", s.Weather.CurrentType(), next)
	b.WriteString("\n[Tab] weather  [R] respawn  [F5] reload  [F1] debug")
	ebitenutil.DebugPrintAt(screen, b.String(), 10, 10)
}

// spaceDrawer renders cp shapes through the camera. cp coordinates are in
// physics pixels and are converted back to world units first.
type spaceDrawer struct {
	screen *ebiten.Image
	cam    camera
}

func drawPhysicsDebug(screen *ebiten.Image, cam camera, space *cp.Space) {
	if space == nil || screen == nil {
		return
	}
	cp.DrawSpace(space, &spaceDrawer{screen: screen, cam: cam})
}

func (d *spaceDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	if radius <= 0 {
		return
	}
	d.drawCircle(pos, radius, outline)
	end := cp.Vector{X: pos.X + math.Cos(angle)*radius, Y: pos.Y + math.Sin(angle)*radius}
	d.drawLine(pos, end, outline)
}

func (d *spaceDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, fill)
}

func (d *spaceDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, outline)
	if radius > 0 {
		d.drawCircle(a, radius, outline)
		d.drawCircle(b, radius, outline)
	}
}

func (d *spaceDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	if count <= 0 {
		return
	}
	d.drawPolygon(verts[:count], outline)
}

func (d *spaceDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	if size <= 0 {
		size = debugDotSize
	}
	half := size / 2
	d.drawLine(cp.Vector{X: pos.X - half, Y: pos.Y}, cp.Vector{X: pos.X + half, Y: pos.Y}, fill)
	d.drawLine(cp.Vector{X: pos.X, Y: pos.Y - half}, cp.Vector{X: pos.X, Y: pos.Y + half}, fill)
}

func (d *spaceDrawer) Flags() uint {
	return cp.DRAW_SHAPES | cp.DRAW_COLLISION_POINTS
}

func (d *spaceDrawer) OutlineColor() cp.FColor {
	return cp.FColor{R: 0.2, G: 1, B: 0.2, A: 0.9}
}

func (d *spaceDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	if shape.Sensor() {
		return cp.FColor{R: 0.2, G: 0.4, B: 1, A: 0.5}
	}
	return cp.FColor{R: 0.1, G: 0.6, B: 0.1, A: 0.5}
}

func (d *spaceDrawer) ConstraintColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.5, B: 0.1, A: 0.9}
}

func (d *spaceDrawer) CollisionPointColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.2, B: 0.2, A: 0.9}
}

func (d *spaceDrawer) Data() interface{} {
	return nil
}

func (d *spaceDrawer) drawLine(a, b cp.Vector, clr cp.FColor) {
	d.cam.line(d.screen, toWorld(a), toWorld(b), toNRGBA(clr))
}

func (d *spaceDrawer) drawPolygon(verts []cp.Vector, clr cp.FColor) {
	for i := range verts {
		d.drawLine(verts[i], verts[(i+1)%len(verts)], clr)
	}
}

func (d *spaceDrawer) drawCircle(center cp.Vector, radius float64, clr cp.FColor) {
	points := make([]cp.Vector, 0, debugCircleSegments)
	for i := 0; i < debugCircleSegments; i++ {
		t := (2 * math.Pi) * (float64(i) / float64(debugCircleSegments))
		points = append(points, cp.Vector{X: center.X + math.Cos(t)*radius, Y: center.Y + math.Sin(t)*radius})
	}
	d.drawPolygon(points, clr)
}

func toWorld(v cp.Vector) r2.Vec {
	return r2.Vec{X: v.X / physics.PixelsPerUnit, Y: v.Y / physics.PixelsPerUnit}
}

func toNRGBA(c cp.FColor) color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R) * 255),
		G: uint8(clamp01(c.G) * 255),
		B: uint8(clamp01(c.B) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// colliderColors picks fill and outline by collider role.
func colliderColors(c *physics.Collider) (color.Color, color.Color) {
	switch {
	case c.Ladder():
		return color.NRGBA{R: 0x8b, G: 0x5a, B: 0x2b, A: 0x80}, colornames.Peru
	case c.PassThrough():
		return color.NRGBA{R: 0x40, G: 0x90, B: 0xd0, A: 0xc0}, colornames.Lightskyblue
	case c.Layer()&locomotion.LayerWall != 0:
		return colornames.Dimgray, colornames.Silver
	default:
		return colornames.Darkslategray, colornames.Slategray
	}
}
