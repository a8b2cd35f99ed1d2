package input

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sqweek/dialog"
)

var t0 = time.Unix(1_700_000_000, 0)

type stepClock struct{ now time.Time }

func (c *stepClock) Now() time.Time { return c.now }

const sampleScenario = `
name: pointer moves after drop
frames:
  - tick: 1
    events:
      - {type: pointer, x: 500, y: 250}
  - tick: 2
    events:
      - {type: pointer, x: 100, y: 500, at_ms: 10}
      - {type: drop, path: cat.png, at_ms: 4}
      - {type: scroll, delta: 1.5, at_ms: 1}
  - tick: 4
    events:
      - {type: hover, path: /abs/dog.png, window: 7}
      - {type: cancel, at_ms: 2}
`

func TestParseScenario(t *testing.T) {
	sc, err := ParseScenario([]byte(sampleScenario))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if sc.Name != "pointer moves after drop" || len(sc.Frames) != 3 {
		t.Fatalf("unexpected scenario %+v", sc)
	}
	if sc.LastTick() != 4 {
		t.Fatalf("expected last tick 4, got %d", sc.LastTick())
	}
}

func TestParseScenarioErrors(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want string
	}{
		{"empty", "name: x\n", "no frames"},
		{"tick_zero", "frames:\n  - tick: 0\n", "start at 1"},
		{"unknown_type", "frames:\n  - tick: 1\n    events:\n      - {type: wiggle}\n", "unknown event type"},
		{"drop_without_path", "frames:\n  - tick: 1\n    events:\n      - {type: drop}\n", "without path"},
		{"bad_yaml", "frames: [", "unmarshal"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(c.yaml))
			if err == nil || !strings.Contains(err.Error(), c.want) {
				t.Fatalf("expected error containing %q, got %v", c.want, err)
			}
		})
	}
	if _, err := ParseScenario([]byte("name: x\n")); !errors.Is(err, ErrEmptyScenario) {
		t.Fatalf("expected ErrEmptyScenario, got %v", err)
	}
}

func TestScriptSourcePoll(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "s.yaml")
	if err := os.WriteFile(path, []byte(sampleScenario), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	sc, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	src := NewScriptSource(sc)

	f := src.Poll(2, t0)
	if len(f.Pointer) != 1 || len(f.Scroll) != 1 || len(f.Drops) != 1 {
		t.Fatalf("unexpected frame %+v", f)
	}
	if got := f.Pointer[0].At.Sub(t0); got != 10*time.Millisecond {
		t.Fatalf("expected pointer offset 10ms, got %s", got)
	}
	if f.Drops[0].Path != filepath.Join(dir, "cat.png") || f.Drops[0].Window != PrimaryWindow {
		t.Fatalf("unexpected drop %+v", f.Drops[0])
	}
	if !f.Drops[0].At.Before(f.Pointer[0].At) {
		t.Fatalf("drop must be timestamped before the late pointer sample")
	}

	if f := src.Poll(3, t0); !f.Empty() {
		t.Fatalf("expected empty frame for unscripted tick, got %+v", f)
	}

	f = src.Poll(4, t0)
	if len(f.Drops) != 2 {
		t.Fatalf("expected hover and cancel, got %+v", f.Drops)
	}
	if f.Drops[0].Kind != HoverFile || f.Drops[0].Path != "/abs/dog.png" || f.Drops[0].Window != 7 {
		t.Fatalf("unexpected hover %+v", f.Drops[0])
	}
	if f.Drops[1].Kind != HoverCanceled || f.Drops[1].Path != "" {
		t.Fatalf("unexpected cancel %+v", f.Drops[1])
	}
}

func TestLoadScenarioMissingFile(t *testing.T) {
	if _, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestMergeOrdersByTimestamp(t *testing.T) {
	a := SourceFunc(func(tick uint64, now time.Time) Frame {
		return Frame{
			Pointer: []PointerSample{{At: now.Add(5 * time.Millisecond)}},
			Drops:   []DropNotification{{Path: "a", At: now.Add(3 * time.Millisecond)}},
		}
	})
	b := SourceFunc(func(tick uint64, now time.Time) Frame {
		return Frame{
			Pointer: []PointerSample{{At: now.Add(1 * time.Millisecond)}},
			Drops:   []DropNotification{{Path: "b", At: now.Add(3 * time.Millisecond)}, {Path: "c", At: now}},
		}
	})

	f := Merge(a, nil, b).Poll(9, t0)
	if f.Tick != 9 || !f.At.Equal(t0) {
		t.Fatalf("merged frame must carry tick and time, got %d %v", f.Tick, f.At)
	}
	if len(f.Pointer) != 2 || !f.Pointer[0].At.Before(f.Pointer[1].At) {
		t.Fatalf("pointer samples out of order: %+v", f.Pointer)
	}
	var paths []string
	for _, d := range f.Drops {
		paths = append(paths, d.Path)
	}
	if strings.Join(paths, ",") != "c,a,b" {
		t.Fatalf("expected c,a,b got %v", paths)
	}
	if p, ok := f.LatestPointer(); !ok || !p.At.Equal(t0.Add(5*time.Millisecond)) {
		t.Fatalf("unexpected latest pointer %+v", p)
	}
}

func TestDropKindString(t *testing.T) {
	cases := map[DropKind]string{
		DropFile:      "dropped",
		HoverFile:     "hovered",
		HoverCanceled: "hover-canceled",
		DropKind(42):  "unknown",
	}
	for k, want := range cases {
		if k.String() != want {
			t.Fatalf("%d: expected %q, got %q", int(k), want, k.String())
		}
	}
}

func pollUntil(t *testing.T, s Source, n int) Frame {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	var out Frame
	for time.Now().Before(deadline) {
		f := s.Poll(1, t0)
		out.Drops = append(out.Drops, f.Drops...)
		if len(out.Drops) >= n {
			return out
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d notifications, got %d", n, len(out.Drops))
	return out
}

func TestDialogSource(t *testing.T) {
	clock := &stepClock{now: t0}

	t.Run("chosen_file_is_drop", func(t *testing.T) {
		s := NewDialogSource(clock)
		s.pick = func() (string, error) { return "/pics/../pics/cat.png", nil }
		if !s.Open() {
			t.Fatalf("expected picker to open")
		}
		f := pollUntil(t, s, 1)
		if f.Drops[0].Kind != DropFile || f.Drops[0].Path != "/pics/cat.png" || !f.Drops[0].At.Equal(t0) {
			t.Fatalf("unexpected notification %+v", f.Drops[0])
		}
	})

	t.Run("cancel_is_hover_canceled", func(t *testing.T) {
		s := NewDialogSource(clock)
		s.pick = func() (string, error) { return "", dialog.ErrCancelled }
		s.Open()
		f := pollUntil(t, s, 1)
		if f.Drops[0].Kind != HoverCanceled {
			t.Fatalf("expected hover-canceled, got %v", f.Drops[0].Kind)
		}
	})

	t.Run("one_picker_at_a_time", func(t *testing.T) {
		s := NewDialogSource(clock)
		release := make(chan struct{})
		s.pick = func() (string, error) {
			<-release
			return "x.png", nil
		}
		if !s.Open() {
			t.Fatalf("expected first open to succeed")
		}
		if s.Open() {
			t.Fatalf("second open must be refused while the picker is up")
		}
		close(release)
		pollUntil(t, s, 1)
	})
}

func TestClipboardSource(t *testing.T) {
	clock := &stepClock{now: t0}
	s := NewClipboardSource(clock)

	s.read = func() []byte { return nil }
	if s.Paste() {
		t.Fatalf("empty clipboard must not paste")
	}
	if f := s.Poll(1, t0); len(f.Drops) != 0 {
		t.Fatalf("expected no drops, got %v", f.Drops)
	}

	s.read = func() []byte { return []byte{0x89, 'P', 'N', 'G'} }
	s.Paste()
	s.Paste()
	f := s.Poll(2, t0)
	if len(f.Drops) != 2 {
		t.Fatalf("expected 2 pasted drops, got %d", len(f.Drops))
	}
	if f.Drops[0].Path != "clipboard-1.png" || f.Drops[1].Path != "clipboard-2.png" {
		t.Fatalf("unexpected paths %q %q", f.Drops[0].Path, f.Drops[1].Path)
	}
	if f.Drops[0].Kind != DropFile || len(f.Drops[0].Data) != 4 {
		t.Fatalf("unexpected notification %+v", f.Drops[0])
	}
	if f := s.Poll(3, t0); len(f.Drops) != 0 {
		t.Fatalf("pending drops must be cleared after a poll")
	}
}
