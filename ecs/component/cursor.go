package component

import (
	"time"

	"github.com/jakecoffman/cp"
)

// DefaultCursorHistory is how many samples CursorWorldPosition keeps.
const DefaultCursorHistory = 120

// CursorSample is one successfully mapped pointer position.
type CursorSample struct {
	World  cp.Vector
	Screen cp.Vector
	Tick   uint64
	At     time.Time
}

// CursorWorldPosition holds the latest world-space pointer position. It
// starts at the origin and only changes when a sample is recorded.
type CursorWorldPosition struct {
	Position cp.Vector
	Screen   cp.Vector
	Tick     uint64
	At       time.Time
	// MovedAt is when the screen position last changed.
	MovedAt time.Time

	samples int
	history []CursorSample
	next    int
	limit   int
}

var CursorWorldPositionComponent = NewComponent[CursorWorldPosition]()

// NewCursorWorldPosition keeps up to limit samples of history.
func NewCursorWorldPosition(limit int) *CursorWorldPosition {
	if limit <= 0 {
		limit = DefaultCursorHistory
	}
	return &CursorWorldPosition{limit: limit}
}

// Record makes s the current position and appends it to the history.
func (c *CursorWorldPosition) Record(s CursorSample) {
	if c.samples == 0 || s.Screen != c.Screen {
		c.MovedAt = s.At
	}
	c.Position = s.World
	c.Screen = s.Screen
	c.Tick = s.Tick
	c.At = s.At
	c.samples++

	if c.limit <= 0 {
		c.limit = DefaultCursorHistory
	}
	if len(c.history) < c.limit {
		c.history = append(c.history, s)
		return
	}
	c.history[c.next] = s
	c.next = (c.next + 1) % c.limit
}

// Recorded reports whether any sample has been recorded.
func (c *CursorWorldPosition) Recorded() bool {
	return c.samples > 0
}

// Latest returns the current value as a sample.
func (c *CursorWorldPosition) Latest() (CursorSample, bool) {
	if c.samples == 0 {
		return CursorSample{World: c.Position}, false
	}
	return CursorSample{World: c.Position, Screen: c.Screen, Tick: c.Tick, At: c.At}, true
}

// Before returns the newest kept sample whose timestamp is not after t.
func (c *CursorWorldPosition) Before(t time.Time) (CursorSample, bool) {
	var best CursorSample
	found := false
	for _, s := range c.History() {
		if s.At.After(t) {
			continue
		}
		if !found || !s.At.Before(best.At) {
			best = s
			found = true
		}
	}
	return best, found
}

// History returns kept samples oldest first.
func (c *CursorWorldPosition) History() []CursorSample {
	out := make([]CursorSample, 0, len(c.history))
	if len(c.history) < c.limit {
		return append(out, c.history...)
	}
	out = append(out, c.history[c.next:]...)
	return append(out, c.history[:c.next]...)
}
