package input

import "time"

// Source reports host input for one tick. Poll must not block.
type Source interface {
	Poll(tick uint64, now time.Time) Frame
}

// Clock supplies tick timestamps.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the wall clock.
var SystemClock Clock = systemClock{}

// SourceFunc adapts a function to Source.
type SourceFunc func(tick uint64, now time.Time) Frame

func (f SourceFunc) Poll(tick uint64, now time.Time) Frame {
	return f(tick, now)
}

type merged []Source

// Merge polls every source in order and interleaves their events by
// timestamp. Events with equal timestamps keep source order.
func Merge(sources ...Source) Source {
	var out merged
	for _, s := range sources {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

func (m merged) Poll(tick uint64, now time.Time) Frame {
	frame := Frame{Tick: tick, At: now}
	for _, s := range m {
		f := s.Poll(tick, now)
		frame.Pointer = append(frame.Pointer, f.Pointer...)
		frame.Scroll = append(frame.Scroll, f.Scroll...)
		frame.Drops = append(frame.Drops, f.Drops...)
	}
	frame.sort()
	return frame
}
