package entity

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/dndrepro/config"
	"github.com/milk9111/dndrepro/ecs"
	"github.com/milk9111/dndrepro/ecs/component"
)

// NewCanvasCamera spawns the camera the canvas is viewed through, at the
// world origin.
func NewCanvasCamera(w *ecs.World, cfg config.CameraConfig) (ecs.Entity, error) {
	camera := ecs.CreateEntity(w)
	if err := ecs.Add(w, camera, component.CanvasCameraComponent.Kind(), &component.CanvasCamera{}); err != nil {
		return 0, fmt.Errorf("camera: add canvas tag: %w", err)
	}

	if err := ecs.Add(w, camera, component.TransformComponent.Kind(), &component.Transform{Position: cp.Vector{}}); err != nil {
		return 0, fmt.Errorf("camera: add transform: %w", err)
	}

	cam := component.NewCamera()
	if cfg.ZoomStep > 0 {
		cam.ZoomStep = cfg.ZoomStep
	}
	if cfg.MinScale > 0 && cfg.MaxScale >= cfg.MinScale {
		cam.MinScale, cam.MaxScale = cfg.MinScale, cfg.MaxScale
	}
	if cfg.Scale > 0 {
		cam.Scale = cfg.Scale
	}
	cam.SetLimits(cam.MinScale, cam.MaxScale)
	if err := ecs.Add(w, camera, component.CameraComponent.Kind(), cam); err != nil {
		return 0, fmt.Errorf("camera: add camera component: %w", err)
	}

	return camera, nil
}
