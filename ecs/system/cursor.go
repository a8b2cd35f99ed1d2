package system

import (
	"log"

	"github.com/milk9111/dndrepro/ecs"
	"github.com/milk9111/dndrepro/ecs/component"
)

// CursorSystem converts this tick's pointer samples to world space and
// records them on the CursorWorldPosition singleton. Without a sample, or
// when mapping fails, the previous position is kept.
type CursorSystem struct {
	Verbose bool
}

func NewCursorSystem() *CursorSystem {
	return &CursorSystem{}
}

func (c *CursorSystem) Update(w *ecs.World) {
	frame := currentFrame(w)
	cursor, ok := cursorState(w)
	if !ok {
		return
	}
	if len(frame.Pointer) == 0 {
		if c.Verbose {
			log.Printf("cursor: tick %d: no pointer position, keeping %v", frame.Tick, cursor.Position)
		}
		return
	}
	cam, camT, ok := canvasCamera(w)
	if !ok {
		return
	}

	for _, p := range frame.Pointer {
		world, ok := cam.ScreenToWorld(camT.Position, p.Screen)
		if !ok {
			if c.Verbose {
				log.Printf("cursor: tick %d: cannot map %v to world", frame.Tick, p.Screen)
			}
			continue
		}
		cursor.Record(component.CursorSample{
			World:  world,
			Screen: p.Screen,
			Tick:   frame.Tick,
			At:     p.At,
		})
		if c.Verbose {
			log.Printf("cursor: world position updated to %v", world)
		}
	}
}

func cursorState(w *ecs.World) (*component.CursorWorldPosition, bool) {
	e, ok := ecs.First(w, component.CursorWorldPositionComponent.Kind())
	if !ok {
		return nil, false
	}
	return ecs.Get(w, e, component.CursorWorldPositionComponent.Kind())
}
