package input

import (
	"fmt"
	"log"
	"sync"
	"time"

	"golang.design/x/clipboard"
)

var (
	clipboardOnce sync.Once
	clipboardErr  error
)

// InitClipboard initialises the system clipboard once per process.
func InitClipboard() error {
	clipboardOnce.Do(func() {
		clipboardErr = clipboard.Init()
	})
	return clipboardErr
}

// WriteText puts text on the system clipboard.
func WriteText(text string) error {
	if err := InitClipboard(); err != nil {
		return fmt.Errorf("input: clipboard: %w", err)
	}
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}

// ClipboardSource delivers pasted images as drop notifications carrying
// the encoded image bytes.
type ClipboardSource struct {
	clock   Clock
	read    func() []byte
	pending []DropNotification
	pasted  int
}

func NewClipboardSource(clock Clock) *ClipboardSource {
	if clock == nil {
		clock = SystemClock
	}
	return &ClipboardSource{
		clock: clock,
		read: func() []byte {
			if err := InitClipboard(); err != nil {
				log.Printf("input: clipboard unavailable: %v", err)
				return nil
			}
			return clipboard.Read(clipboard.FmtImage)
		},
	}
}

// Paste queues the clipboard image, if any, for the next poll.
func (s *ClipboardSource) Paste() bool {
	data := s.read()
	if len(data) == 0 {
		log.Printf("input: clipboard holds no image")
		return false
	}
	s.pasted++
	s.pending = append(s.pending, DropNotification{
		Kind:   DropFile,
		Window: PrimaryWindow,
		Path:   fmt.Sprintf("clipboard-%d.png", s.pasted),
		Data:   data,
		At:     s.clock.Now(),
	})
	return true
}

func (s *ClipboardSource) Poll(tick uint64, now time.Time) Frame {
	frame := Frame{Tick: tick, At: now, Drops: s.pending}
	s.pending = nil
	return frame
}
