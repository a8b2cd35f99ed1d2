package main

import (
	"flag"
	"fmt"
	"image/color"
	"io"
	"log"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/dndrepro/assets"
	"github.com/milk9111/dndrepro/config"
	"github.com/milk9111/dndrepro/input"
)

const previewSize = 512

// previewGame cycles through the decoded images, one per second.
type previewGame struct {
	frames      []*ebiten.Image
	current     int
	tick        int
	ticksPerImg int
}

func (g *previewGame) Update() error {
	if len(g.frames) <= 1 {
		return nil
	}
	g.tick++
	if g.tick >= g.ticksPerImg {
		g.tick = 0
		g.current = (g.current + 1) % len(g.frames)
	}
	return nil
}

func (g *previewGame) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{0x00, 0x00, 0x00, 0xff})
	if len(g.frames) == 0 {
		return
	}
	img := g.frames[g.current]
	fw, fh := img.Bounds().Dx(), img.Bounds().Dy()
	scale := 1.0
	if m := max(fw, fh); m > previewSize {
		scale = float64(previewSize) / float64(m)
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate((previewSize-float64(fw)*scale)/2, (previewSize-float64(fh)*scale)/2)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(img, op)
}

func (g *previewGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return previewSize, previewSize
}

// checked is the outcome of decoding one image file.
type checked struct {
	path   string
	format string
	w, h   int
	err    error
}

func checkImage(path string) checked {
	c := checked{path: path}
	b, err := os.ReadFile(path)
	if err != nil {
		c.err = err
		return c
	}
	img, format, err := assets.Decode(b)
	if err != nil {
		c.err = err
		return c
	}
	c.format = format
	c.w, c.h = img.Bounds().Dx(), img.Bounds().Dy()
	return c
}

// scenarioDrops returns the paths a scenario drops, resolved
// the way the replay resolves them.
func scenarioDrops(sc *input.Scenario) []string {
	src := input.NewScriptSource(sc)
	var paths []string
	for tick := uint64(1); tick <= sc.LastTick(); tick++ {
		for _, n := range src.Poll(tick, time.Time{}).Drops {
			if n.Kind == input.DropFile {
				paths = append(paths, n.Path)
			}
		}
	}
	return paths
}

// run checks the config, the scenario and the images and writes a line per
// item to out. It returns the number of failures and the decoded images.
func run(out io.Writer, configPath, scenarioPath string, images []string) (int, []checked) {
	failures := 0
	if configPath != "" {
		if cfg, err := config.Load(configPath); err != nil {
			fmt.Fprintf(out, "config  %s: %v\n", configPath, err)
			failures++
		} else {
			fmt.Fprintf(out, "config  %s: ok (placement %s, scale %g in [%g, %g])\n",
				configPath, cfg.Drop.Placement, cfg.Camera.Scale, cfg.Camera.MinScale, cfg.Camera.MaxScale)
		}
	}

	paths := append([]string(nil), images...)
	if scenarioPath != "" {
		sc, err := input.LoadScenario(scenarioPath)
		if err != nil {
			fmt.Fprintf(out, "scenario %s: %v\n", scenarioPath, err)
			failures++
		} else {
			drops := scenarioDrops(sc)
			fmt.Fprintf(out, "scenario %s: ok (%q, %d ticks, %d drops)\n", scenarioPath, sc.Name, sc.LastTick(), len(drops))
			paths = append(paths, drops...)
		}
	}

	var results []checked
	for _, p := range paths {
		c := checkImage(p)
		if c.err != nil {
			fmt.Fprintf(out, "image   %s: %v\n", p, c.err)
			failures++
			continue
		}
		fmt.Fprintf(out, "image   %s: %s %dx%d\n", p, c.format, c.w, c.h)
		results = append(results, c)
	}
	return failures, results
}

func main() {
	configPath := flag.String("config", "", "config file to validate")
	scenarioPath := flag.String("scenario", "", "scenario file to validate; its dropped images are decoded too")
	preview := flag.Bool("preview", false, "show the decoded images in a window")
	flag.Parse()

	if *configPath == "" && *scenarioPath == "" && flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: dndcheck [-config file] [-scenario file] [-preview] [image ...]")
		os.Exit(2)
	}

	failures, results := run(os.Stdout, *configPath, *scenarioPath, flag.Args())

	if *preview && len(results) > 0 {
		g := &previewGame{ticksPerImg: ebiten.TPS()}
		loader := assets.NewLoader()
		handles := make([]*assets.Handle, 0, len(results))
		for _, c := range results {
			handles = append(handles, loader.Load(assets.Request{Path: c.path}))
		}
		loader.Wait()
		for _, h := range handles {
			if img := h.Image(); img != nil {
				g.frames = append(g.frames, img)
			}
		}
		ebiten.SetWindowSize(previewSize, previewSize)
		ebiten.SetWindowTitle("dndcheck preview")
		if err := ebiten.RunGame(g); err != nil {
			log.Fatal(err)
		}
	}

	if failures > 0 {
		os.Exit(1)
	}
}
