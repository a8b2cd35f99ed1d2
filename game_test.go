package main

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/dndrepro/assets"
	"github.com/milk9111/dndrepro/config"
	"github.com/milk9111/dndrepro/ecs"
	"github.com/milk9111/dndrepro/ecs/component"
	"github.com/milk9111/dndrepro/ecs/system"
	"github.com/milk9111/dndrepro/input"
)

type tickClock struct{ now time.Time }

func (c *tickClock) Now() time.Time {
	c.now = c.now.Add(16 * time.Millisecond)
	return c.now
}

type recordingLoader struct {
	paths []string
}

func (r *recordingLoader) Load(req assets.Request) *assets.Handle {
	r.paths = append(r.paths, req.Path)
	return nil
}

const lateMoveScenario = `
name: late pointer
frames:
  - tick: 1
    events:
      - {type: pointer, x: 740, y: 400}
  - tick: 2
    events:
      - {type: scroll, delta: 5}
  - tick: 3
    events:
      - {type: drop, path: /img/a.png, at_ms: 1}
      - {type: pointer, x: 100, y: 100, at_ms: 5}
`

func runScenario(t *testing.T, placement string) (*canvas, *recordingLoader, []ecs.Event) {
	t.Helper()
	sc, err := input.ParseScenario([]byte(lateMoveScenario))
	if err != nil {
		t.Fatalf("scenario: %v", err)
	}
	cfg := config.Default()
	cfg.Drop.Placement = placement
	loader := &recordingLoader{}
	c, err := newCanvas(cfg, input.NewScriptSource(sc), &tickClock{now: time.Unix(1_700_000_000, 0)}, loader)
	if err != nil {
		t.Fatalf("canvas: %v", err)
	}
	system.SetViewport(c.world, 800, 600)

	var events []ecs.Event
	for i := uint64(0); i < sc.LastTick(); i++ {
		events = append(events, c.tick()...)
	}
	return c, loader, events
}

func TestCanvasSchedule(t *testing.T) {
	c, err := newCanvas(config.Default(), nil, nil, &recordingLoader{})
	if err != nil {
		t.Fatalf("canvas: %v", err)
	}
	order, err := c.scheduler.Order()
	if err != nil {
		t.Fatalf("order: %v", err)
	}
	if got := strings.Join(order, ","); got != "input,zoom,cursor,drop" {
		t.Fatalf("unexpected order %s", got)
	}
}

func TestCanvasRejectsBadPlacement(t *testing.T) {
	cfg := config.Default()
	cfg.Drop.Placement = "sideways"
	if _, err := newCanvas(cfg, nil, nil, &recordingLoader{}); err == nil {
		t.Fatalf("expected error for unknown placement")
	}
}

func TestScenarioPlacement(t *testing.T) {
	// the first sample is mapped at scale 1; the late one at tick 3 is
	// mapped at 1 - 0.1*5 = 0.5
	cases := []struct {
		placement string
		x, y      float64
	}{
		{config.PlacementTimestamped, 340, 100},
		{config.PlacementLatest, -150, -100},
	}
	for _, tc := range cases {
		t.Run(tc.placement, func(t *testing.T) {
			c, loader, events := runScenario(t, tc.placement)

			if len(loader.paths) != 1 || loader.paths[0] != "/img/a.png" {
				t.Fatalf("expected one load of /img/a.png, got %v", loader.paths)
			}
			if len(events) != 1 {
				t.Fatalf("expected one event, got %v", events)
			}
			placed := events[0].Data.(ecs.DropPlaced)
			if placed.X != tc.x || placed.Y != tc.y {
				t.Fatalf("expected drop at (%g, %g), got (%g, %g)", tc.x, tc.y, placed.X, placed.Y)
			}

			drops := recentDrops(c.world, 5)
			if len(drops) != 1 || drops[0].pos.Position.X != tc.x {
				t.Fatalf("unexpected drops %+v", drops)
			}
			if drops[0].meta.Placement != tc.placement {
				t.Fatalf("expected placement %s recorded, got %s", tc.placement, drops[0].meta.Placement)
			}
		})
	}
}

func TestBuildReport(t *testing.T) {
	c, _, _ := runScenario(t, config.PlacementTimestamped)
	report := buildReport(c.world, c.drop.Placement())

	for _, want := range []string{
		"placement: timestamped",
		"scale: 0.5 viewport: 800x600",
		"drops: 1 shown",
		"#1 /img/a.png at (340.00, 100.00) window 1",
		"no texture",
	} {
		if !strings.Contains(report, want) {
			t.Fatalf("report missing %q:\n%s", want, report)
		}
	}

	empty, err := newCanvas(config.Default(), nil, nil, &recordingLoader{})
	if err != nil {
		t.Fatalf("canvas: %v", err)
	}
	if r := buildReport(empty.world, system.PlacementLatest); !strings.Contains(r, "cursor: never sampled") || !strings.Contains(r, "drops: 0 shown") {
		t.Fatalf("unexpected empty report:\n%s", r)
	}
}

func TestRecentDropsNewestFirst(t *testing.T) {
	sc, err := input.ParseScenario([]byte(`
frames:
  - tick: 1
    events:
      - {type: drop, path: one.png}
      - {type: drop, path: two.png, at_ms: 1}
      - {type: drop, path: three.png, at_ms: 2}
`))
	if err != nil {
		t.Fatalf("scenario: %v", err)
	}
	c, err := newCanvas(config.Default(), input.NewScriptSource(sc), nil, &recordingLoader{})
	if err != nil {
		t.Fatalf("canvas: %v", err)
	}
	c.tick()

	drops := recentDrops(c.world, 2)
	if len(drops) != 2 || drops[0].meta.Path != "three.png" || drops[1].meta.Path != "two.png" {
		t.Fatalf("unexpected order %+v", drops)
	}
	if n := ecs.Count(c.world, component.DroppedImageComponent.Kind()); n != 3 {
		t.Fatalf("expected 3 dropped images, got %d", n)
	}
}

func TestComposeSourcesIgnoresLiveInputDuringScenario(t *testing.T) {
	live := input.SourceFunc(func(tick uint64, now time.Time) input.Frame {
		return input.Frame{
			Pointer: []input.PointerSample{{Screen: cp.Vector{X: 5, Y: 5}, At: now}},
			Scroll:  []input.ScrollEvent{{Delta: -3, At: now}},
		}
	})
	pasted := input.SourceFunc(func(tick uint64, now time.Time) input.Frame {
		if tick != 1 {
			return input.Frame{}
		}
		return input.Frame{Drops: []input.DropNotification{
			{Kind: input.DropFile, Window: input.PrimaryWindow, Path: "pasted.png", At: now},
		}}
	})

	f := composeSources(live, nil, pasted).Poll(1, time.Unix(1, 0))
	if len(f.Pointer) != 1 || f.Pointer[0].Screen.X != 5 || len(f.Drops) != 1 {
		t.Fatalf("without a scenario live input must be merged, got %+v", f)
	}

	sc, err := input.ParseScenario([]byte(lateMoveScenario))
	if err != nil {
		t.Fatalf("scenario: %v", err)
	}
	loader := &recordingLoader{}
	src := composeSources(live, input.NewScriptSource(sc), pasted)
	c, err := newCanvas(config.Default(), src, &tickClock{now: time.Unix(1_700_000_000, 0)}, loader)
	if err != nil {
		t.Fatalf("canvas: %v", err)
	}
	system.SetViewport(c.world, 800, 600)

	var events []ecs.Event
	for i := uint64(0); i < sc.LastTick(); i++ {
		events = append(events, c.tick()...)
	}

	// same result as the bare script: the live pointer and scroll never count
	cam, _, _ := system.CanvasCamera(c.world)
	if math.Abs(cam.Scale-0.5) > 1e-9 {
		t.Fatalf("expected scripted scale 0.5, got %g", cam.Scale)
	}
	var scripted *ecs.DropPlaced
	for _, e := range events {
		if p := e.Data.(ecs.DropPlaced); p.Path == "/img/a.png" {
			scripted = &p
		}
	}
	if scripted == nil || scripted.X != 340 || scripted.Y != 100 {
		t.Fatalf("expected /img/a.png at (340, 100), got %+v", scripted)
	}
	if len(loader.paths) != 2 || loader.paths[0] != "pasted.png" {
		t.Fatalf("extra sources must still be merged, loads %v", loader.paths)
	}
}

func TestApplyConfig(t *testing.T) {
	c, err := newCanvas(config.Default(), nil, nil, &recordingLoader{})
	if err != nil {
		t.Fatalf("canvas: %v", err)
	}
	g := &Game{canvas: c, markers: newMarkers(), cfg: config.Default()}
	cam, _, _ := system.CanvasCamera(c.world)
	cam.Scale = 50

	cfg := config.Default()
	cfg.Camera.MinScale = 0.5
	cfg.Camera.MaxScale = 10
	cfg.Camera.Scale = 1
	cfg.Camera.ZoomStep = 0.25
	cfg.Drop.Placement = config.PlacementLatest
	cfg.Drop.Depth = 3
	cfg.Drop.StaleAfter = time.Second
	cfg.Drop.Marker = false
	if err := g.apply(cfg); err != nil {
		t.Fatalf("apply: %v", err)
	}

	if cam.Scale != 10 || cam.MinScale != 0.5 || cam.MaxScale != 10 || cam.ZoomStep != 0.25 {
		t.Fatalf("camera not updated: %+v", cam)
	}
	if c.drop.Placement() != system.PlacementLatest || c.drop.Depth() != 3 || c.drop.StaleAfter() != time.Second {
		t.Fatalf("drop settings not updated: %s %g %s", c.drop.Placement(), c.drop.Depth(), c.drop.StaleAfter())
	}
	if g.markers.enabled || g.cfg != cfg {
		t.Fatalf("markers or config not updated")
	}

	bad := config.Default()
	bad.Drop.Placement = "sideways"
	bad.Drop.Depth = 9
	if err := g.apply(bad); err == nil {
		t.Fatalf("expected error for unknown placement")
	}
	if c.drop.Placement() != system.PlacementLatest || c.drop.Depth() != 3 || g.cfg != cfg || cam.MaxScale != 10 {
		t.Fatalf("a rejected config must leave the state unchanged")
	}
}

func TestMarkersFadeOut(t *testing.T) {
	m := newMarkers()
	m.add(1, 2)
	m.add(3, 4)
	if len(m.items) != 2 {
		t.Fatalf("expected 2 markers, got %d", len(m.items))
	}

	m.update(markerSeconds / 2)
	if len(m.items) != 2 || m.items[0].alpha <= 0 || m.items[0].alpha >= 1 {
		t.Fatalf("expected half-faded markers, got %+v", m.items)
	}

	m.update(markerSeconds)
	if len(m.items) != 0 {
		t.Fatalf("expected markers to expire, %d left", len(m.items))
	}

	m.enabled = false
	m.add(0, 0)
	if len(m.items) != 0 {
		t.Fatalf("disabled markers must not be added")
	}
}

func TestClamp01(t *testing.T) {
	for in, want := range map[float32]float32{-1: 0, 0.25: 0.25, 3: 1} {
		if got := clamp01(in); got != want {
			t.Fatalf("clamp01(%g) = %g, want %g", in, got, want)
		}
	}
}
