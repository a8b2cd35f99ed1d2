package main

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/dndrepro/ecs/component"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const (
	markerSeconds = 0.8
	markerRadius  = 14
)

var markerColor = color.NRGBA{R: 0xff, G: 0xc8, B: 0x3c, A: 0xff}

// dropMarker is a crosshair that fades out where a drop was placed.
type dropMarker struct {
	pos   cp.Vector
	fade  *gween.Tween
	alpha float32
}

// markers are drawn over the canvas and are not entities, so they never
// show up in world queries.
type markers struct {
	enabled bool
	items   []*dropMarker
}

func newMarkers() *markers {
	return &markers{enabled: true}
}

func (m *markers) add(x, y float64) {
	if !m.enabled {
		return
	}
	m.items = append(m.items, &dropMarker{
		pos:   cp.Vector{X: x, Y: y},
		fade:  gween.New(1, 0, markerSeconds, ease.OutQuad),
		alpha: 1,
	})
}

func (m *markers) update(dt float32) {
	live := m.items[:0]
	for _, mk := range m.items {
		alpha, done := mk.fade.Update(dt)
		mk.alpha = alpha
		if !done {
			live = append(live, mk)
		}
	}
	for i := len(live); i < len(m.items); i++ {
		m.items[i] = nil
	}
	m.items = live
}

func (m *markers) draw(screen *ebiten.Image, cam *component.Camera, camPos cp.Vector) {
	for _, mk := range m.items {
		p, ok := cam.WorldToScreen(camPos, mk.pos)
		if !ok {
			continue
		}
		clr := markerColor
		clr.A = uint8(float32(0xff) * clamp01(mk.alpha))
		x, y := float32(p.X), float32(p.Y)
		vector.StrokeCircle(screen, x, y, markerRadius, 2, clr, true)
		vector.StrokeLine(screen, x-markerRadius*1.5, y, x+markerRadius*1.5, y, 1, clr, true)
		vector.StrokeLine(screen, x, y-markerRadius*1.5, x, y+markerRadius*1.5, 1, clr, true)
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
