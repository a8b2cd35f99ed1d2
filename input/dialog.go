package input

import (
	"errors"
	"log"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/sqweek/dialog"
)

// ImageExtensions are the file types offered by the picker.
var ImageExtensions = []string{"png", "jpg", "jpeg", "gif", "bmp", "tif", "tiff", "webp"}

// DialogSource turns a native file picker into drop notifications: a
// chosen file is a drop, a cancelled picker is a hover-cancel.
type DialogSource struct {
	clock   Clock
	pick    func() (string, error)
	results chan DropNotification
	open    atomic.Bool
}

func NewDialogSource(clock Clock) *DialogSource {
	if clock == nil {
		clock = SystemClock
	}
	return &DialogSource{
		clock:   clock,
		pick:    pickImage,
		results: make(chan DropNotification, 4),
	}
}

func pickImage() (string, error) {
	return dialog.File().
		Title("Drop an image on the canvas").
		Filter("Images", ImageExtensions...).
		Load()
}

// Open shows the picker on its own goroutine. Only one picker is open at a
// time; Open reports false when one already is.
func (s *DialogSource) Open() bool {
	if !s.open.CompareAndSwap(false, true) {
		return false
	}
	go func() {
		defer s.open.Store(false)
		path, err := s.pick()
		n := DropNotification{Window: PrimaryWindow, At: s.clock.Now()}
		switch {
		case errors.Is(err, dialog.ErrCancelled):
			n.Kind = HoverCanceled
		case err != nil:
			log.Printf("input: file dialog: %v", err)
			return
		default:
			n.Kind = DropFile
			n.Path = filepath.Clean(path)
		}
		select {
		case s.results <- n:
		default:
			log.Printf("input: dialog result dropped, queue full")
		}
	}()
	return true
}

func (s *DialogSource) Poll(tick uint64, now time.Time) Frame {
	frame := Frame{Tick: tick, At: now}
	for {
		select {
		case n := <-s.results:
			frame.Drops = append(frame.Drops, n)
		default:
			return frame
		}
	}
}
