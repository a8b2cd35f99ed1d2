package main

import (
	"fmt"
	"image/color"
	"time"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/dndrepro/ecs"
	"github.com/milk9111/dndrepro/ecs/component"
	"github.com/milk9111/dndrepro/ecs/system"
	"golang.org/x/image/font/basicfont"
)

const hudHint = "O open  Ctrl+V paste  Ctrl+C copy report  R reset zoom  H hide"

// HUD is the diagnostics panel in the top-left corner.
type HUD struct {
	UI *ebitenui.UI

	scale     *widget.Text
	cursor    *widget.Text
	age       *widget.Text
	placement *widget.Text
	drops     *widget.Text
	last      *widget.Text
}

// NewHUD builds the panel from a colored nine-slice and the built-in basic
// font, so it needs no theme assets.
func NewHUD() *HUD {
	panelImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 180})

	goFace := ebtext.NewGoXFace(basicfont.Face7x13)
	var face ebtext.Face = goFace
	textColor := color.NRGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff}
	hintColor := color.NRGBA{R: 0x99, G: 0x99, B: 0x99, A: 0xff}

	label := func(clr color.Color) *widget.Text {
		return widget.NewText(widget.TextOpts.Text("", &face, clr))
	}

	h := &HUD{
		scale:     label(textColor),
		cursor:    label(textColor),
		age:       label(textColor),
		placement: label(textColor),
		drops:     label(textColor),
		last:      label(textColor),
	}

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(4),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 8, Bottom: 8, Left: 10, Right: 10}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionStart,
				VerticalPosition:   widget.AnchorLayoutPositionStart,
			}),
		),
	)
	panel.AddChild(h.scale)
	panel.AddChild(h.cursor)
	panel.AddChild(h.age)
	panel.AddChild(h.placement)
	panel.AddChild(h.drops)
	panel.AddChild(h.last)
	panel.AddChild(widget.NewText(widget.TextOpts.Text(hudHint, &face, hintColor)))

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	root.AddChild(panel)

	h.UI = &ebitenui.UI{Container: root}
	return h
}

// Refresh rewrites the labels from the world state.
func (h *HUD) Refresh(w *ecs.World, placement system.Placement) {
	h.scale.Label = "scale: -"
	if cam, _, ok := system.CanvasCamera(w); ok {
		h.scale.Label = fmt.Sprintf("scale: %.4g", cam.Scale)
	}

	h.cursor.Label = "cursor: never sampled"
	h.age.Label = "sample age: -"
	if cursor, ok := system.CursorState(w); ok && cursor.Recorded() {
		h.cursor.Label = fmt.Sprintf("cursor: screen (%.0f, %.0f) world (%.1f, %.1f)",
			cursor.Screen.X, cursor.Screen.Y, cursor.Position.X, cursor.Position.Y)
		h.age.Label = fmt.Sprintf("sample age: %s  still for: %s",
			time.Since(cursor.At).Round(time.Millisecond), time.Since(cursor.MovedAt).Round(time.Millisecond))
	}

	h.placement.Label = fmt.Sprintf("placement: %s", placement)
	h.drops.Label = fmt.Sprintf("drops: %d", ecs.Count(w, component.DroppedImageComponent.Kind()))

	h.last.Label = "last drop: -"
	if recent := recentDrops(w, 1); len(recent) == 1 {
		d := recent[0]
		h.last.Label = fmt.Sprintf("last drop: %s at (%.1f, %.1f) %s",
			d.meta.Path, d.pos.Position.X, d.pos.Position.Y, d.loadState())
	}
}
