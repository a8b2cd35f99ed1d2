package entity

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/dndrepro/assets"
	"github.com/milk9111/dndrepro/ecs"
	"github.com/milk9111/dndrepro/ecs/component"
)

// NewDroppedImage spawns a sprite for a dropped file at pos and depth z.
// A failed spawn leaves no partial entity behind.
func NewDroppedImage(w *ecs.World, texture *assets.Handle, pos cp.Vector, z float64, meta *component.DroppedImage) (ecs.Entity, error) {
	if meta == nil {
		meta = &component.DroppedImage{}
	}
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Position: pos, Z: z}); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("dropped image: add transform: %w", err)
	}
	if err := ecs.Add(w, e, component.SpriteComponent.Kind(), &component.Sprite{Texture: texture}); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("dropped image: add sprite: %w", err)
	}
	if err := ecs.Add(w, e, component.DroppedImageComponent.Kind(), meta); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("dropped image: add metadata: %w", err)
	}
	return e, nil
}
