package input

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jakecoffman/cp"
	"gopkg.in/yaml.v3"
)

// ScenarioEvent is one scripted host event. AtMS offsets the event from the
// start of its tick, which is how a scenario orders a pointer update after a
// drop inside the same tick.
type ScenarioEvent struct {
	Type   string  `yaml:"type"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Delta  float64 `yaml:"delta"`
	Path   string  `yaml:"path"`
	Window uint64  `yaml:"window"`
	AtMS   float64 `yaml:"at_ms"`
}

// ScenarioFrame lists the events delivered on one tick.
type ScenarioFrame struct {
	Tick   uint64          `yaml:"tick"`
	Events []ScenarioEvent `yaml:"events"`
}

// Scenario is a replayable input script.
type Scenario struct {
	Name   string          `yaml:"name"`
	Frames []ScenarioFrame `yaml:"frames"`

	dir string
}

var ErrEmptyScenario = errors.New("scenario: no frames")

// LoadScenario reads a scenario file. Relative drop paths are resolved
// against the file's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: load %s: %w", path, err)
	}
	sc, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("scenario: %s: %w", path, err)
	}
	sc.dir = filepath.Dir(path)
	return sc, nil
}

// ParseScenario decodes and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("scenario: unmarshal: %w", err)
	}
	if len(sc.Frames) == 0 {
		return nil, ErrEmptyScenario
	}
	for _, f := range sc.Frames {
		if f.Tick == 0 {
			return nil, fmt.Errorf("scenario: frame ticks start at 1")
		}
		for _, ev := range f.Events {
			switch ev.Type {
			case "pointer", "scroll", "cancel":
			case "drop", "hover":
				if ev.Path == "" {
					return nil, fmt.Errorf("scenario: tick %d: %s event without path", f.Tick, ev.Type)
				}
			default:
				return nil, fmt.Errorf("scenario: tick %d: unknown event type %q", f.Tick, ev.Type)
			}
		}
	}
	return &sc, nil
}

// LastTick returns the highest tick with scripted events.
func (sc *Scenario) LastTick() uint64 {
	var last uint64
	for _, f := range sc.Frames {
		if f.Tick > last {
			last = f.Tick
		}
	}
	return last
}

// ScriptSource replays a Scenario tick by tick.
type ScriptSource struct {
	byTick map[uint64][]ScenarioEvent
	dir    string
}

func NewScriptSource(sc *Scenario) *ScriptSource {
	s := &ScriptSource{byTick: make(map[uint64][]ScenarioEvent), dir: sc.dir}
	for _, f := range sc.Frames {
		s.byTick[f.Tick] = append(s.byTick[f.Tick], f.Events...)
	}
	return s
}

func (s *ScriptSource) Poll(tick uint64, now time.Time) Frame {
	frame := Frame{Tick: tick, At: now}
	for _, ev := range s.byTick[tick] {
		at := now.Add(time.Duration(ev.AtMS * float64(time.Millisecond)))
		window := PrimaryWindow
		if ev.Window != 0 {
			window = WindowID(ev.Window)
		}
		switch ev.Type {
		case "pointer":
			frame.Pointer = append(frame.Pointer, PointerSample{Screen: cp.Vector{X: ev.X, Y: ev.Y}, At: at})
		case "scroll":
			frame.Scroll = append(frame.Scroll, ScrollEvent{Delta: ev.Delta, At: at})
		case "drop":
			frame.Drops = append(frame.Drops, DropNotification{Kind: DropFile, Window: window, Path: s.resolve(ev.Path), At: at})
		case "hover":
			frame.Drops = append(frame.Drops, DropNotification{Kind: HoverFile, Window: window, Path: s.resolve(ev.Path), At: at})
		case "cancel":
			frame.Drops = append(frame.Drops, DropNotification{Kind: HoverCanceled, Window: window, At: at})
		}
	}
	frame.sort()
	return frame
}

func (s *ScriptSource) resolve(path string) string {
	if s.dir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.dir, path)
}
