package input

import (
	"io/fs"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/jakecoffman/cp"
)

// EbitenSource polls Ebitengine for pointer, wheel and dropped files.
// Ebitengine does not report hover or hover-cancel, so it never emits them.
type EbitenSource struct {
	viewport func() (w, h float64)
}

// NewEbitenSource reads the current layout size through viewport so the
// pointer can be reported as absent when it is outside the window.
func NewEbitenSource(viewport func() (w, h float64)) *EbitenSource {
	return &EbitenSource{viewport: viewport}
}

func (s *EbitenSource) Poll(tick uint64, now time.Time) Frame {
	frame := Frame{Tick: tick, At: now}

	x, y := ebiten.CursorPosition()
	if s.inside(float64(x), float64(y)) {
		frame.Pointer = append(frame.Pointer, PointerSample{
			Screen: cp.Vector{X: float64(x), Y: float64(y)},
			At:     now,
		})
	}

	if _, dy := ebiten.Wheel(); dy != 0 {
		frame.Scroll = append(frame.Scroll, ScrollEvent{Delta: dy, At: now})
	}

	if dropped := ebiten.DroppedFiles(); dropped != nil {
		frame.Drops = append(frame.Drops, droppedEntries(dropped, now)...)
	}
	return frame
}

func (s *EbitenSource) inside(x, y float64) bool {
	if s.viewport == nil {
		return true
	}
	w, h := s.viewport()
	return x >= 0 && y >= 0 && x < w && y < h
}

// droppedEntries turns the root of a dropped-files FS into one notification
// per entry. Directories are reported too; loading them fails later.
func droppedEntries(dropped fs.FS, now time.Time) []DropNotification {
	entries, err := fs.ReadDir(dropped, ".")
	if err != nil {
		log.Printf("input: read dropped files: %v", err)
		return nil
	}
	out := make([]DropNotification, 0, len(entries))
	for _, entry := range entries {
		out = append(out, DropNotification{
			Kind:   DropFile,
			Window: PrimaryWindow,
			Path:   entry.Name(),
			FS:     dropped,
			At:     now,
		})
	}
	return out
}
