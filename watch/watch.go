package watch

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounce = 100 * time.Millisecond

// Watcher reports changed files under the watched directories. A file is
// reported once it has been quiet for the debounce period, so a burst of
// writes yields one event after the last of them.
type Watcher struct {
	watcher *fsnotify.Watcher
	filter  func(path string) bool
	Events  chan string
	Errors  chan error
	closeCh chan struct{}
	once    sync.Once

	mu   sync.Mutex
	dirs map[string]bool
}

// New watches dirs and forwards events for paths accepted by filter. A nil
// filter accepts everything.
func New(filter func(path string) bool, dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	watcher := &Watcher{
		watcher: w,
		filter:  filter,
		Events:  make(chan string, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		dirs:    make(map[string]bool),
	}
	for _, dir := range dirs {
		if err := watcher.AddDir(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}
	go watcher.run()
	return watcher, nil
}

// AddDir starts watching dir. Watching a directory twice is a no-op.
func (w *Watcher) AddDir(dir string) error {
	dir = filepath.Clean(dir)
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.dirs[dir] {
		return nil
	}
	if err := w.watcher.Add(dir); err != nil {
		return err
	}
	w.dirs[dir] = true
	return nil
}

// AddFile watches the directory holding path, which survives editors that
// replace files on save.
func (w *Watcher) AddFile(path string) error {
	return w.AddDir(filepath.Dir(path))
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	return err
}

// quiet is a pending report for one path. gen tells a timer that fired
// before a later event apart from the current one.
type quiet struct {
	timer *time.Timer
	gen   int
}

type firing struct {
	name string
	gen  int
}

func (w *Watcher) run() {
	pending := make(map[string]*quiet)
	fired := make(chan firing)
	defer func() {
		for _, q := range pending {
			q.timer.Stop()
		}
	}()
	schedule := func(name string, gen int) *time.Timer {
		return time.AfterFunc(debounce, func() {
			select {
			case fired <- firing{name, gen}:
			case <-w.closeCh:
			}
		})
	}
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			name := filepath.Clean(event.Name)
			if w.filter != nil && !w.filter(name) {
				continue
			}
			q, ok := pending[name]
			if !ok {
				pending[name] = &quiet{timer: schedule(name, 0)}
				continue
			}
			q.timer.Stop()
			q.gen++
			q.timer = schedule(name, q.gen)
		case f := <-fired:
			q, ok := pending[f.name]
			if !ok || q.gen != f.gen {
				continue
			}
			delete(pending, f.name)
			select {
			case w.Events <- f.name:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}
