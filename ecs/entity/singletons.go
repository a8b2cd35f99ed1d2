package entity

import (
	"fmt"

	"github.com/milk9111/dndrepro/ecs"
	"github.com/milk9111/dndrepro/ecs/component"
)

// NewCursor spawns the world cursor position singleton.
func NewCursor(w *ecs.World, history int) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.CursorWorldPositionComponent.Kind(), component.NewCursorWorldPosition(history)); err != nil {
		return 0, fmt.Errorf("cursor: add position: %w", err)
	}
	return e, nil
}

// NewInputFrame spawns the per-tick input snapshot singleton.
func NewInputFrame(w *ecs.World) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.InputFrameComponent.Kind(), &component.InputFrame{}); err != nil {
		return 0, fmt.Errorf("input: add frame: %w", err)
	}
	return e, nil
}
