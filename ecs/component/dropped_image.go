package component

import "time"

// DroppedImage records where a dropped file came from and how its
// position was chosen.
type DroppedImage struct {
	Path      string
	Seq       uint64
	Window    uint64
	DroppedAt time.Time
	// CursorAge is the drop time minus the time of the cursor sample used.
	CursorAge time.Duration
	// CursorSampled is false when no cursor sample existed at drop time.
	CursorSampled bool
	Placement     string
}

var DroppedImageComponent = NewComponent[DroppedImage]()
