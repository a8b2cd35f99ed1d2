package assets

import (
	"fmt"
	"image"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/milk9111/dndrepro/watch"
)

// Request names the bytes to load. Exactly one source is used: Data if
// set, else Path inside FS if FS is set, else Path on disk.
type Request struct {
	Path string
	FS   fs.FS
	Data []byte
}

func (r Request) onDisk() bool {
	return r.Data == nil && r.FS == nil
}

// Loader decodes images in the background and hands out handles right
// away. Files on disk are cached by absolute path; in-memory and virtual
// file system requests always get a fresh handle.
type Loader struct {
	mu      sync.Mutex
	handles map[string]*Handle
	seq     atomic.Uint64
	wg      sync.WaitGroup

	readFile func(path string) ([]byte, error)
	decode   func(data []byte) (image.Image, error)

	watcher *watch.Watcher
	closeCh chan struct{}
	once    sync.Once
}

func NewLoader() *Loader {
	return &Loader{
		handles:  make(map[string]*Handle),
		readFile: os.ReadFile,
		decode:   decodeImage,
		closeCh:  make(chan struct{}),
	}
}

// Load returns the handle for req, starting a decode if needed. It never
// blocks on I/O; failures are logged and recorded on the handle. Loading a
// file whose last attempt failed tries again.
func (l *Loader) Load(req Request) *Handle {
	if req.onDisk() {
		key := req.Path
		if abs, err := filepath.Abs(req.Path); err == nil {
			key = abs
		}
		l.mu.Lock()
		if h, ok := l.handles[key]; ok {
			l.mu.Unlock()
			if h.retry() {
				log.Printf("assets: retrying %s", key)
				l.start(h, func() ([]byte, error) { return l.readFile(key) })
			}
			return h
		}
		h := newHandle(key)
		l.handles[key] = h
		l.mu.Unlock()

		l.track(key)
		l.start(h, func() ([]byte, error) { return l.readFile(key) })
		return h
	}

	h := newHandle(fmt.Sprintf("%s#%d", req.Path, l.seq.Add(1)))
	if req.Data != nil {
		data := req.Data
		l.start(h, func() ([]byte, error) { return data, nil })
	} else {
		fsys, name := req.FS, req.Path
		l.start(h, func() ([]byte, error) { return fs.ReadFile(fsys, name) })
	}
	return h
}

// Get returns the cached handle for a file on disk.
func (l *Loader) Get(path string) (*Handle, bool) {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	h, ok := l.handles[path]
	return h, ok
}

func (l *Loader) start(h *Handle, read func() ([]byte, error)) {
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		img, err := l.load(read)
		if err != nil {
			log.Printf("assets: load %s: %v", h.Key(), err)
		}
		h.finish(img, err)
	}()
}

func (l *Loader) load(read func() ([]byte, error)) (image.Image, error) {
	data, err := read()
	if err != nil {
		return nil, err
	}
	return l.decode(data)
}

// Reload re-decodes a cached file. On failure the previous image stays.
func (l *Loader) Reload(path string) bool {
	h, ok := l.Get(path)
	if !ok {
		return false
	}
	key := h.Key()
	log.Printf("assets: reloading %s", key)
	l.start(h, func() ([]byte, error) { return l.readFile(key) })
	return true
}

// Watch enables hot reload of files loaded from disk.
func (l *Loader) Watch() error {
	w, err := watch.New(func(path string) bool {
		_, ok := l.Get(path)
		return ok
	})
	if err != nil {
		return fmt.Errorf("assets: watch: %w", err)
	}

	l.mu.Lock()
	l.watcher = w
	keys := make([]string, 0, len(l.handles))
	for key := range l.handles {
		keys = append(keys, key)
	}
	l.mu.Unlock()
	for _, key := range keys {
		l.track(key)
	}

	go func() {
		for {
			select {
			case path := <-w.Events:
				l.Reload(path)
			case err := <-w.Errors:
				log.Printf("assets: watch: %v", err)
			case <-l.closeCh:
				return
			}
		}
	}()
	return nil
}

func (l *Loader) track(key string) {
	l.mu.Lock()
	w := l.watcher
	l.mu.Unlock()
	if w == nil {
		return
	}
	if err := w.AddFile(key); err != nil {
		log.Printf("assets: watch %s: %v", key, err)
	}
}

// Wait blocks until every started decode has finished.
func (l *Loader) Wait() {
	l.wg.Wait()
}

// Close stops hot reload. Pending decodes still complete.
func (l *Loader) Close() error {
	var err error
	l.once.Do(func() {
		close(l.closeCh)
		l.mu.Lock()
		w := l.watcher
		l.mu.Unlock()
		if w != nil {
			err = w.Close()
		}
	})
	return err
}

func decodeImage(data []byte) (image.Image, error) {
	img, _, err := Decode(data)
	return img, err
}
