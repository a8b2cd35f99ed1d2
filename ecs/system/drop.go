package system

import (
	"fmt"
	"log"
	"time"
	"unicode/utf8"

	"github.com/milk9111/dndrepro/assets"
	"github.com/milk9111/dndrepro/ecs"
	"github.com/milk9111/dndrepro/ecs/component"
	"github.com/milk9111/dndrepro/ecs/entity"
	"github.com/milk9111/dndrepro/input"
)

// Placement chooses which cursor value a drop lands on.
type Placement string

const (
	// PlacementLatest uses the cursor value current when the handler runs.
	PlacementLatest Placement = "latest"
	// PlacementTimestamped uses the newest cursor sample taken at or
	// before the drop.
	PlacementTimestamped Placement = "timestamped"
)

func ParsePlacement(s string) (Placement, error) {
	switch p := Placement(s); p {
	case PlacementLatest, PlacementTimestamped:
		return p, nil
	default:
		return "", fmt.Errorf("drop: unknown placement %q", s)
	}
}

// ImageLoader starts loading an image and returns its handle at once.
type ImageLoader interface {
	Load(req assets.Request) *assets.Handle
}

// DropSystem turns dropped files into image entities at the world cursor.
type DropSystem struct {
	loader     ImageLoader
	placement  Placement
	depth      float64
	staleAfter time.Duration
	seq        uint64
}

func NewDropSystem(loader ImageLoader, placement Placement) *DropSystem {
	if placement == "" {
		placement = PlacementTimestamped
	}
	return &DropSystem{loader: loader, placement: placement}
}

func (d *DropSystem) SetPlacement(p Placement) { d.placement = p }

func (d *DropSystem) Placement() Placement { return d.placement }

func (d *DropSystem) SetDepth(z float64) { d.depth = z }

func (d *DropSystem) Depth() float64 { return d.depth }

// SetStaleAfter sets the sample age above which a drop is logged as using
// a stale cursor. Zero disables the warning.
func (d *DropSystem) SetStaleAfter(age time.Duration) { d.staleAfter = age }

func (d *DropSystem) StaleAfter() time.Duration { return d.staleAfter }

func (d *DropSystem) Update(w *ecs.World) {
	frame := currentFrame(w)
	for _, n := range frame.Drops {
		switch n.Kind {
		case input.DropFile:
			d.dropped(w, n)
		case input.HoverFile:
			log.Printf("drop: hovered file %q over window %d", n.Path, n.Window)
		case input.HoverCanceled:
			log.Printf("drop: hover canceled on window %d", n.Window)
		}
	}
}

func (d *DropSystem) dropped(w *ecs.World, n input.DropNotification) {
	if !utf8.ValidString(n.Path) {
		log.Printf("drop: path %q is not valid UTF-8, loading it as-is", n.Path)
	}
	log.Printf("drop: dropped file %q on window %d", n.Path, n.Window)

	cursor, ok := cursorState(w)
	if !ok {
		cursor = component.NewCursorWorldPosition(1)
	}
	sample, sampled := ResolvePlacement(d.placement, cursor, n.At)
	d.warnStale(cursor, sample, sampled, n)

	var handle *assets.Handle
	if d.loader != nil {
		handle = d.loader.Load(assets.Request{Path: n.Path, FS: n.FS, Data: n.Data})
	}

	d.seq++
	meta := &component.DroppedImage{
		Path:          n.Path,
		Seq:           d.seq,
		Window:        uint64(n.Window),
		DroppedAt:     n.At,
		CursorSampled: sampled,
		Placement:     string(d.placement),
	}
	if sampled {
		meta.CursorAge = n.At.Sub(sample.At)
	}
	e, err := entity.NewDroppedImage(w, handle, sample.World, d.depth, meta)
	if err != nil {
		log.Printf("drop: spawn %q: %v", n.Path, err)
		return
	}

	w.Events().Push(ecs.Event{Type: ecs.EventDropPlaced, Data: ecs.DropPlaced{
		Entity: e,
		Path:   n.Path,
		X:      sample.World.X,
		Y:      sample.World.Y,
	}})
}

func (d *DropSystem) warnStale(cursor *component.CursorWorldPosition, sample component.CursorSample, sampled bool, n input.DropNotification) {
	if !sampled {
		log.Printf("drop: no cursor sample before %q, placing at %v", n.Path, sample.World)
		return
	}
	age := n.At.Sub(sample.At)
	if age < 0 {
		log.Printf("drop: cursor sample for %q was taken %s after the drop", n.Path, (-age).Round(time.Millisecond))
	}
	if d.staleAfter <= 0 {
		return
	}
	if age > d.staleAfter {
		log.Printf("drop: cursor sample is %s old at drop of %q", age.Round(time.Millisecond), n.Path)
	}
	if still := n.At.Sub(cursor.MovedAt); cursor.Recorded() && still > d.staleAfter {
		log.Printf("drop: pointer has not moved for %s before drop of %q", still.Round(time.Millisecond), n.Path)
	}
}

// ResolvePlacement picks the cursor sample a drop at dropAt lands on.
// Timestamped placement falls back to the latest sample when none is old
// enough. The bool is false when no sample was ever recorded and the
// zero-initialised cursor value was returned.
func ResolvePlacement(p Placement, cursor *component.CursorWorldPosition, dropAt time.Time) (component.CursorSample, bool) {
	if p == PlacementTimestamped {
		if s, ok := cursor.Before(dropAt); ok {
			return s, true
		}
	}
	return cursor.Latest()
}
