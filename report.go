package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/milk9111/dndrepro/ecs"
	"github.com/milk9111/dndrepro/ecs/component"
	"github.com/milk9111/dndrepro/ecs/system"
)

const reportDrops = 10

// dropRecord gathers the components of one dropped image.
type dropRecord struct {
	meta   *component.DroppedImage
	pos    *component.Transform
	sprite *component.Sprite
}

func (d dropRecord) loadState() string {
	if d.sprite == nil || d.sprite.Texture == nil {
		return "no texture"
	}
	return d.sprite.Texture.State().String()
}

// recentDrops returns up to n dropped images, newest first.
func recentDrops(w *ecs.World, n int) []dropRecord {
	var out []dropRecord
	for _, e := range ecs.Query(w, component.DroppedImageComponent.Kind(), component.TransformComponent.Kind()) {
		meta, _ := ecs.Get(w, e, component.DroppedImageComponent.Kind())
		t, _ := ecs.Get(w, e, component.TransformComponent.Kind())
		sprite, _ := ecs.Get(w, e, component.SpriteComponent.Kind())
		out = append(out, dropRecord{meta: meta, pos: t, sprite: sprite})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].meta.Seq > out[j].meta.Seq })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// buildReport renders the cursor state and the latest drops as plain text
// for pasting into a bug report.
func buildReport(w *ecs.World, placement system.Placement) string {
	var b strings.Builder
	fmt.Fprintf(&b, "placement: %s\n", placement)
	if cam, _, ok := system.CanvasCamera(w); ok {
		fmt.Fprintf(&b, "scale: %.4g viewport: %gx%g\n", cam.Scale, cam.ViewportW, cam.ViewportH)
	}
	if cursor, ok := system.CursorState(w); ok {
		if cursor.Recorded() {
			fmt.Fprintf(&b, "cursor: world (%.2f, %.2f) screen (%.0f, %.0f) tick %d at %s, last moved %s\n",
				cursor.Position.X, cursor.Position.Y, cursor.Screen.X, cursor.Screen.Y,
				cursor.Tick, cursor.At.Format(time.RFC3339Nano), cursor.MovedAt.Format(time.RFC3339Nano))
		} else {
			b.WriteString("cursor: never sampled\n")
		}
	}

	drops := recentDrops(w, reportDrops)
	fmt.Fprintf(&b, "drops: %d shown\n", len(drops))
	for _, d := range drops {
		age := "no sample"
		if d.meta.CursorSampled {
			age = d.meta.CursorAge.String()
		}
		fmt.Fprintf(&b, "  #%d %s at (%.2f, %.2f) window %d, cursor age %s, %s, %s\n",
			d.meta.Seq, d.meta.Path, d.pos.Position.X, d.pos.Position.Y, d.meta.Window, age, d.meta.Placement, d.loadState())
	}
	return b.String()
}
