package system

import (
	"image/color"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/dndrepro/assets"
	"github.com/milk9111/dndrepro/ecs"
	"github.com/milk9111/dndrepro/ecs/component"
)

const placeholderSize = 48

var (
	loadingColor = color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
	failedColor  = color.NRGBA{R: 0xd0, G: 0x30, B: 0x30, A: 0xff}
)

// RenderSystem draws sprites through the canvas camera.
type RenderSystem struct{}

func NewRenderSystem() *RenderSystem {
	return &RenderSystem{}
}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	cam, camT, ok := canvasCamera(w)
	if !ok || screen == nil {
		return
	}

	entities := ecs.Query(w, component.TransformComponent.Kind(), component.SpriteComponent.Kind())
	type drawable struct {
		t *component.Transform
		s *component.Sprite
	}
	items := make([]drawable, 0, len(entities))
	for _, e := range entities {
		t, _ := ecs.Get(w, e, component.TransformComponent.Kind())
		s, _ := ecs.Get(w, e, component.SpriteComponent.Kind())
		items = append(items, drawable{t: t, s: s})
	}
	// Query is in slot order, so a stable sort keeps spawn order within a depth.
	sort.SliceStable(items, func(i, j int) bool { return items[i].t.Z < items[j].t.Z })

	zoom := 1 / cam.Scale
	for _, it := range items {
		pos, ok := cam.WorldToScreen(camT.Position, it.t.Position)
		if !ok {
			continue
		}

		var img *ebiten.Image
		if it.s.Texture != nil {
			img = it.s.Texture.Image()
		}
		if img == nil {
			drawPlaceholder(screen, it.s.Texture, float32(pos.X), float32(pos.Y), float32(zoom))
			continue
		}

		b := img.Bounds()
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(-float64(b.Dx())/2, -float64(b.Dy())/2)
		op.GeoM.Scale(zoom, zoom)
		op.GeoM.Translate(pos.X, pos.Y)
		op.Filter = ebiten.FilterLinear
		screen.DrawImage(img, op)
	}
}

func drawPlaceholder(screen *ebiten.Image, h *assets.Handle, x, y, zoom float32) {
	clr := loadingColor
	if h == nil || h.State() == assets.StateFailed {
		clr = failedColor
	}
	size := placeholderSize * zoom
	vector.StrokeRect(screen, x-size/2, y-size/2, size, size, 2, clr, true)
	if clr == failedColor {
		vector.StrokeLine(screen, x-size/2, y-size/2, x+size/2, y+size/2, 2, clr, true)
		vector.StrokeLine(screen, x+size/2, y-size/2, x-size/2, y+size/2, 2, clr, true)
	}
}

// SetViewport copies the current layout size onto the canvas camera.
func SetViewport(w *ecs.World, width, height float64) {
	cam, _, ok := canvasCamera(w)
	if !ok {
		return
	}
	cam.ViewportW, cam.ViewportH = width, height
}

// CanvasCamera exposes the canvas camera to overlays drawn outside the ECS.
func CanvasCamera(w *ecs.World) (*component.Camera, *component.Transform, bool) {
	return canvasCamera(w)
}

// CursorState exposes the world cursor singleton to overlays.
func CursorState(w *ecs.World) (*component.CursorWorldPosition, bool) {
	return cursorState(w)
}
