package component

import (
	"math"

	"github.com/jakecoffman/cp"
)

const (
	DefaultZoomStep = 0.1
	DefaultMinScale = 0.1
	DefaultMaxScale = 400.0
)

// Camera is an orthographic 2D camera. Scale is world units per screen
// pixel, so a larger scale shows more of the world.
type Camera struct {
	Scale    float64
	MinScale float64
	MaxScale float64
	ZoomStep float64

	ViewportW float64
	ViewportH float64
}

var CameraComponent = NewComponent[Camera]()

// CanvasCamera tags the camera the canvas is viewed through.
type CanvasCamera struct{}

var CanvasCameraComponent = NewComponent[CanvasCamera]()

// NewCamera returns a camera at scale 1 with the default limits.
func NewCamera() *Camera {
	return &Camera{
		Scale:    1,
		MinScale: DefaultMinScale,
		MaxScale: DefaultMaxScale,
		ZoomStep: DefaultZoomStep,
	}
}

// ApplyZoom returns clamp(scale - scale*step*delta, min, max).
func ApplyZoom(scale, delta, step, min, max float64) float64 {
	scale -= scale * step * delta
	return math.Min(math.Max(scale, min), max)
}

// Zoom applies one scroll delta.
func (c *Camera) Zoom(delta float64) {
	step := c.ZoomStep
	if step == 0 {
		step = DefaultZoomStep
	}
	c.Scale = ApplyZoom(c.Scale, delta, step, c.MinScale, c.MaxScale)
}

// SetLimits replaces the scale limits and re-clamps the current scale.
func (c *Camera) SetLimits(min, max float64) {
	c.MinScale, c.MaxScale = min, max
	c.Scale = math.Min(math.Max(c.Scale, min), max)
}

func (c *Camera) usable() bool {
	return c.ViewportW > 0 && c.ViewportH > 0 && c.Scale > 0 && !math.IsInf(c.Scale, 0)
}

func (c *Camera) center() cp.Vector {
	return cp.Vector{X: c.ViewportW / 2, Y: c.ViewportH / 2}
}

// ViewTransform maps world coordinates to screen pixels for a camera
// positioned at pos: screen = (world - pos) / scale + viewport centre.
func (c *Camera) ViewTransform(pos cp.Vector) cp.Transform {
	inv := 1 / c.Scale
	return cp.NewTransformTranslate(c.center()).
		Mult(cp.NewTransformScale(inv, inv)).
		Mult(cp.NewTransformTranslate(pos.Neg()))
}

// InverseViewTransform maps screen pixels back to world coordinates.
func (c *Camera) InverseViewTransform(pos cp.Vector) cp.Transform {
	return cp.NewTransformTranslate(pos).
		Mult(cp.NewTransformScale(c.Scale, c.Scale)).
		Mult(cp.NewTransformTranslate(c.center().Neg()))
}

// ScreenToWorld maps a window pixel to world space. It fails when the
// viewport is degenerate (minimised window) or the result is not finite.
func (c *Camera) ScreenToWorld(pos, screen cp.Vector) (cp.Vector, bool) {
	if !c.usable() {
		return cp.Vector{}, false
	}
	world := c.InverseViewTransform(pos).Point(screen)
	if !finite(world) {
		return cp.Vector{}, false
	}
	return world, true
}

// WorldToScreen maps a world position to window pixels.
func (c *Camera) WorldToScreen(pos, world cp.Vector) (cp.Vector, bool) {
	if !c.usable() {
		return cp.Vector{}, false
	}
	screen := c.ViewTransform(pos).Point(world)
	if !finite(screen) {
		return cp.Vector{}, false
	}
	return screen, true
}

func finite(v cp.Vector) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}
