package system

import (
	"github.com/milk9111/dndrepro/ecs"
	"github.com/milk9111/dndrepro/ecs/component"
)

// ZoomSystem scales the canvas camera by each scroll event of the tick.
type ZoomSystem struct{}

func NewZoomSystem() *ZoomSystem {
	return &ZoomSystem{}
}

func (z *ZoomSystem) Update(w *ecs.World) {
	frame := currentFrame(w)
	if len(frame.Scroll) == 0 {
		return
	}
	cam, _, ok := canvasCamera(w)
	if !ok {
		return
	}
	for _, ev := range frame.Scroll {
		cam.Zoom(ev.Delta)
	}
}

// canvasCamera returns the camera tagged CanvasCamera and its transform.
func canvasCamera(w *ecs.World) (*component.Camera, *component.Transform, bool) {
	e, ok := ecs.First(w,
		component.CanvasCameraComponent.Kind(),
		component.CameraComponent.Kind(),
		component.TransformComponent.Kind(),
	)
	if !ok {
		return nil, nil, false
	}
	cam, _ := ecs.Get(w, e, component.CameraComponent.Kind())
	t, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	return cam, t, cam != nil && t != nil
}
