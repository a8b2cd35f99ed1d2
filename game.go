package main

import (
	"errors"
	"fmt"
	"image/color"
	"log"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/dndrepro/assets"
	"github.com/milk9111/dndrepro/config"
	"github.com/milk9111/dndrepro/ecs"
	"github.com/milk9111/dndrepro/ecs/entity"
	"github.com/milk9111/dndrepro/ecs/system"
	"github.com/milk9111/dndrepro/input"
	"github.com/milk9111/dndrepro/watch"
)

// scenarioGraceTicks keeps the window open after a scenario's last tick so
// pending decodes can land before -exit quits.
const scenarioGraceTicks = 60

var backgroundColor = color.NRGBA{R: 0x1e, G: 0x1f, B: 0x24, A: 0xff}

type Options struct {
	ConfigPath   string
	ScenarioPath string
	ExitAfter    bool
	Placement    string
	HUD          bool
	Verbose      bool
}

// canvas is the ECS side of the game: the world, its systems and the
// order they run in.
type canvas struct {
	world     *ecs.World
	scheduler *ecs.Scheduler
	input     *system.InputSystem
	cursor    *system.CursorSystem
	drop      *system.DropSystem
}

// newCanvas builds the world and schedules
// input -> zoom -> cursor -> drop.
func newCanvas(cfg *config.Config, source input.Source, clock input.Clock, loader system.ImageLoader) (*canvas, error) {
	w := ecs.NewWorld()
	if _, err := entity.NewCanvasCamera(w, cfg.Camera); err != nil {
		return nil, err
	}
	if _, err := entity.NewCursor(w, cfg.Cursor.History); err != nil {
		return nil, err
	}
	if _, err := entity.NewInputFrame(w); err != nil {
		return nil, err
	}

	placement, err := system.ParsePlacement(cfg.Drop.Placement)
	if err != nil {
		return nil, err
	}

	c := &canvas{
		world:     w,
		scheduler: ecs.NewScheduler(),
		input:     system.NewInputSystem(source, clock),
		cursor:    system.NewCursorSystem(),
		drop:      system.NewDropSystem(loader, placement),
	}
	c.drop.SetDepth(cfg.Drop.Depth)
	c.drop.SetStaleAfter(cfg.Drop.StaleAfter)

	steps := []struct {
		name  string
		sys   ecs.System
		after []string
	}{
		{"input", c.input, nil},
		{"zoom", system.NewZoomSystem(), []string{"input"}},
		{"cursor", c.cursor, []string{"input", "zoom"}},
		{"drop", c.drop, []string{"cursor"}},
	}
	for _, s := range steps {
		if err := c.scheduler.Add(s.name, s.sys, s.after...); err != nil {
			return nil, err
		}
	}
	if err := c.scheduler.Resolve(); err != nil {
		return nil, err
	}
	return c, nil
}

// tick runs every system once and returns the events they raised.
func (c *canvas) tick() []ecs.Event {
	c.scheduler.Update(c.world)
	return c.world.Events().Drain()
}

type Game struct {
	cfg     *config.Config
	opts    Options
	canvas  *canvas
	render  *system.RenderSystem
	loader  *assets.Loader
	dialog  *input.DialogSource
	paste   *input.ClipboardSource
	markers *markers
	hud     *HUD
	showHUD bool

	cfgWatcher  *watch.Watcher
	scenarioEnd uint64

	width, height float64
}

func NewGame(cfg *config.Config, opts Options) (*Game, error) {
	if opts.Placement != "" {
		cfg.Drop.Placement = opts.Placement
	}

	g := &Game{
		cfg:     cfg,
		opts:    opts,
		render:  system.NewRenderSystem(),
		loader:  assets.NewLoader(),
		dialog:  input.NewDialogSource(input.SystemClock),
		paste:   input.NewClipboardSource(input.SystemClock),
		markers: newMarkers(),
		showHUD: opts.HUD,
		width:   float64(cfg.Window.Width),
		height:  float64(cfg.Window.Height),
	}
	g.markers.enabled = cfg.Drop.Marker

	live := input.NewEbitenSource(func() (float64, float64) { return g.width, g.height })
	var script input.Source
	if opts.ScenarioPath != "" {
		sc, err := input.LoadScenario(opts.ScenarioPath)
		if err != nil {
			return nil, err
		}
		log.Printf("scenario: replaying %q (%d ticks), live window input ignored", sc.Name, sc.LastTick())
		script = input.NewScriptSource(sc)
		g.scenarioEnd = sc.LastTick()
	}

	c, err := newCanvas(cfg, composeSources(live, script, g.dialog, g.paste), input.SystemClock, g.loader)
	if err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}
	c.cursor.Verbose = opts.Verbose
	g.canvas = c

	if cfg.Drop.Watch {
		if err := g.loader.Watch(); err != nil {
			log.Printf("game: hot reload disabled: %v", err)
		}
	}
	if opts.ConfigPath != "" {
		g.watchConfig(opts.ConfigPath)
	}
	g.hud = NewHUD()
	return g, nil
}

// composeSources merges the input sources of a run. With a scenario the
// live window source is left out, so the real mouse cannot move the cursor
// or zoom while the script replays. The dialog and clipboard still work.
func composeSources(live, script input.Source, extra ...input.Source) input.Source {
	sources := make([]input.Source, 0, len(extra)+1)
	if script != nil {
		sources = append(sources, script)
	} else {
		sources = append(sources, live)
	}
	return input.Merge(append(sources, extra...)...)
}

func (g *Game) watchConfig(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	w, err := watch.New(func(p string) bool { return p == abs }, filepath.Dir(abs))
	if err != nil {
		log.Printf("config: watch %s: %v", path, err)
		return
	}
	g.cfgWatcher = w
}

func (g *Game) Update() error {
	g.pollConfig()
	g.handleShortcuts()

	system.SetViewport(g.canvas.world, g.width, g.height)
	for _, ev := range g.canvas.tick() {
		if placed, ok := ev.Data.(ecs.DropPlaced); ok && ev.Type == ecs.EventDropPlaced {
			g.markers.add(placed.X, placed.Y)
		}
	}
	g.markers.update(float32(1.0 / float64(ebiten.TPS())))

	if g.showHUD {
		g.hud.Refresh(g.canvas.world, g.canvas.drop.Placement())
		g.hud.UI.Update()
	}

	if g.opts.ExitAfter && g.scenarioEnd > 0 && g.canvas.input.Tick() >= g.scenarioEnd+scenarioGraceTicks {
		log.Printf("scenario: finished at tick %d", g.canvas.input.Tick())
		return ebiten.Termination
	}
	return nil
}

func (g *Game) handleShortcuts() {
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
	switch {
	case ctrl && inpututil.IsKeyJustPressed(ebiten.KeyV):
		g.paste.Paste()
	case ctrl && inpututil.IsKeyJustPressed(ebiten.KeyC):
		if err := input.WriteText(buildReport(g.canvas.world, g.canvas.drop.Placement())); err != nil {
			log.Printf("game: copy report: %v", err)
		} else {
			log.Printf("game: diagnostic report copied to clipboard")
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyO):
		if !g.dialog.Open() {
			log.Printf("game: file dialog already open")
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyH):
		g.showHUD = !g.showHUD
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		if cam, _, ok := system.CanvasCamera(g.canvas.world); ok {
			cam.Scale = g.cfg.Camera.Scale
		}
	}
}

func (g *Game) pollConfig() {
	if g.cfgWatcher == nil {
		return
	}
	select {
	case <-g.cfgWatcher.Events:
	case err := <-g.cfgWatcher.Errors:
		log.Printf("config: watch: %v", err)
		return
	default:
		return
	}
	cfg, err := config.Load(g.opts.ConfigPath)
	if err != nil {
		log.Printf("config: reload: %v", err)
		return
	}
	if g.opts.Placement != "" {
		cfg.Drop.Placement = g.opts.Placement
	}
	if err := g.apply(cfg); err != nil {
		log.Printf("config: reload: %v", err)
		return
	}
	log.Printf("config: reloaded %s", g.opts.ConfigPath)
}

// apply re-applies the live-tunable parts of cfg.
func (g *Game) apply(cfg *config.Config) error {
	placement, err := system.ParsePlacement(cfg.Drop.Placement)
	if err != nil {
		return err
	}
	if cam, _, ok := system.CanvasCamera(g.canvas.world); ok {
		cam.ZoomStep = cfg.Camera.ZoomStep
		cam.SetLimits(cfg.Camera.MinScale, cfg.Camera.MaxScale)
	}
	g.canvas.drop.SetPlacement(placement)
	g.canvas.drop.SetDepth(cfg.Drop.Depth)
	g.canvas.drop.SetStaleAfter(cfg.Drop.StaleAfter)
	g.markers.enabled = cfg.Drop.Marker
	g.cfg = cfg
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	g.render.Draw(g.canvas.world, screen)
	if cam, camT, ok := system.CanvasCamera(g.canvas.world); ok {
		g.markers.draw(screen, cam, camT.Position)
	}
	if g.showHUD {
		g.hud.UI.Draw(screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	g.width, g.height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

// Close stops the file watchers.
func (g *Game) Close() {
	var errs []error
	if g.cfgWatcher != nil {
		errs = append(errs, g.cfgWatcher.Close())
	}
	errs = append(errs, g.loader.Close())
	if err := errors.Join(errs...); err != nil {
		log.Printf("game: close: %v", err)
	}
}
