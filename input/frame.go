package input

import (
	"io/fs"
	"sort"
	"time"

	"github.com/jakecoffman/cp"
)

// WindowID names the window a notification was delivered to.
type WindowID uint64

// PrimaryWindow is the only window the app opens.
const PrimaryWindow WindowID = 1

// PointerSample is one reported pointer position in window pixels.
type PointerSample struct {
	Screen cp.Vector
	At     time.Time
}

// ScrollEvent is one vertical wheel movement. Positive is away from the user.
type ScrollEvent struct {
	Delta float64
	At    time.Time
}

// DropKind is the kind of a drag-and-drop notification.
type DropKind int

const (
	DropFile DropKind = iota
	HoverFile
	HoverCanceled
)

func (k DropKind) String() string {
	switch k {
	case DropFile:
		return "dropped"
	case HoverFile:
		return "hovered"
	case HoverCanceled:
		return "hover-canceled"
	default:
		return "unknown"
	}
}

// DropNotification describes a file hovered over, dropped on, or removed
// from a window. Path is set for DropFile and HoverFile. FS, when set, is
// the file system Path must be opened from; Data, when set, holds the file
// contents directly.
type DropNotification struct {
	Kind   DropKind
	Window WindowID
	Path   string
	FS     fs.FS
	Data   []byte
	At     time.Time
}

// Frame is everything the host reported for one tick, each list in
// timestamp order.
type Frame struct {
	Tick    uint64
	At      time.Time
	Pointer []PointerSample
	Scroll  []ScrollEvent
	Drops   []DropNotification
}

// LatestPointer returns the last pointer sample of the frame.
func (f Frame) LatestPointer() (PointerSample, bool) {
	if len(f.Pointer) == 0 {
		return PointerSample{}, false
	}
	return f.Pointer[len(f.Pointer)-1], true
}

// Empty reports whether the frame carries no events.
func (f Frame) Empty() bool {
	return len(f.Pointer) == 0 && len(f.Scroll) == 0 && len(f.Drops) == 0
}

func (f *Frame) sort() {
	sort.SliceStable(f.Pointer, func(i, j int) bool { return f.Pointer[i].At.Before(f.Pointer[j].At) })
	sort.SliceStable(f.Scroll, func(i, j int) bool { return f.Scroll[i].At.Before(f.Scroll[j].At) })
	sort.SliceStable(f.Drops, func(i, j int) bool { return f.Drops[i].At.Before(f.Drops[j].At) })
}
