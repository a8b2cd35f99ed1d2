package assets

import (
	"context"
	"image"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
)

// State is the load state of a Handle.
type State int32

const (
	StateLoading State = iota
	StateLoaded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Handle refers to an image that becomes usable once its decode finishes.
// A reload replaces the image behind the same handle.
type Handle struct {
	key string

	mu         sync.Mutex
	state      State
	decoded    image.Image
	version    uint64
	gpu        *ebiten.Image
	gpuVersion uint64
	err        error

	done     chan struct{}
	doneOnce sync.Once
}

func newHandle(key string) *Handle {
	return &Handle{key: key, done: make(chan struct{})}
}

// Key identifies the asset, an absolute path for files on disk.
func (h *Handle) Key() string {
	return h.key
}

func (h *Handle) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Err returns the last decode error.
func (h *Handle) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

// Decoded returns the decoded image, or nil while loading or after a
// failed first load.
func (h *Handle) Decoded() image.Image {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.decoded
}

// Size returns the decoded image size in pixels.
func (h *Handle) Size() (int, int, bool) {
	img := h.Decoded()
	if img == nil {
		return 0, 0, false
	}
	b := img.Bounds()
	return b.Dx(), b.Dy(), true
}

// Image returns the GPU image, creating it on first use after each
// (re)load. Call it from the game's Draw or Update only.
func (h *Handle) Image() *ebiten.Image {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.decoded == nil {
		return nil
	}
	if h.gpu == nil || h.gpuVersion != h.version {
		if h.gpu != nil {
			h.gpu.Deallocate()
		}
		h.gpu = ebiten.NewImageFromImage(h.decoded)
		h.gpuVersion = h.version
	}
	return h.gpu
}

// Wait blocks until the first load attempt has finished.
func (h *Handle) Wait(ctx context.Context) error {
	select {
	case <-h.done:
		return h.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// retry moves a failed handle back to loading. It reports false for any
// other state, so only one caller restarts the decode.
func (h *Handle) retry() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state != StateFailed {
		return false
	}
	h.state = StateLoading
	return true
}

func (h *Handle) finish(img image.Image, err error) {
	h.mu.Lock()
	if err != nil {
		h.err = err
		if h.decoded == nil {
			h.state = StateFailed
		}
	} else {
		h.decoded = img
		h.version++
		h.err = nil
		h.state = StateLoaded
	}
	h.mu.Unlock()
	h.doneOnce.Do(func() { close(h.done) })
}
