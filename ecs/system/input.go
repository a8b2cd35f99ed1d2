package system

import (
	"github.com/milk9111/dndrepro/ecs"
	"github.com/milk9111/dndrepro/ecs/component"
	"github.com/milk9111/dndrepro/input"
)

// InputSystem takes one snapshot of host input per tick and stores it on
// the InputFrame singleton.
type InputSystem struct {
	source input.Source
	clock  input.Clock
	tick   uint64
}

func NewInputSystem(source input.Source, clock input.Clock) *InputSystem {
	if clock == nil {
		clock = input.SystemClock
	}
	return &InputSystem{source: source, clock: clock}
}

// Tick returns the number of the last polled tick.
func (i *InputSystem) Tick() uint64 {
	return i.tick
}

func (i *InputSystem) Update(w *ecs.World) {
	i.tick++
	now := i.clock.Now()
	frame := input.Frame{Tick: i.tick, At: now}
	if i.source != nil {
		frame = i.source.Poll(i.tick, now)
		frame.Tick, frame.At = i.tick, now
	}

	e, ok := ecs.First(w, component.InputFrameComponent.Kind())
	if !ok {
		return
	}
	if f, ok := ecs.Get(w, e, component.InputFrameComponent.Kind()); ok {
		f.Frame = frame
	}
}

// currentFrame returns this tick's input snapshot.
func currentFrame(w *ecs.World) input.Frame {
	e, ok := ecs.First(w, component.InputFrameComponent.Kind())
	if !ok {
		return input.Frame{}
	}
	f, ok := ecs.Get(w, e, component.InputFrameComponent.Kind())
	if !ok {
		return input.Frame{}
	}
	return f.Frame
}
