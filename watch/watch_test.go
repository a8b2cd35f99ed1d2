package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherReportsFilteredWrites(t *testing.T) {
	dir := t.TempDir()
	wanted := filepath.Join(dir, "config.yaml")
	other := filepath.Join(dir, "notes.txt")

	w, err := New(func(path string) bool { return path == wanted }, dir)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(other, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(wanted, []byte("a: 1"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case got := <-w.Events:
		if got != wanted {
			t.Fatalf("expected %s, got %s", wanted, got)
		}
	case err := <-w.Errors:
		t.Fatalf("watch error: %v", err)
	case <-time.After(3 * time.Second):
		t.Fatalf("no event for %s", wanted)
	}
}

func TestWatcherReportsAfterQuietPeriod(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	w, err := New(nil, dir)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer w.Close()

	// a burst of writes spaced well inside the quiet period
	start := time.Now()
	var lastWrite time.Time
	for i := 0; i < 4; i++ {
		if i > 0 {
			time.Sleep(debounce / 4)
		}
		if err := os.WriteFile(path, []byte("a: 1"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		lastWrite = time.Now()
	}

	select {
	case got := <-w.Events:
		if got != path {
			t.Fatalf("expected %s, got %s", path, got)
		}
		if since := time.Since(lastWrite); since < debounce/2 {
			t.Fatalf("event came %s after the last write, before the file went quiet (burst began %s ago)", since, time.Since(start))
		}
	case err := <-w.Errors:
		t.Fatalf("watch error: %v", err)
	case <-time.After(3 * time.Second):
		t.Fatalf("no event for %s", path)
	}

	select {
	case got := <-w.Events:
		t.Fatalf("expected one event for the burst, got another for %s", got)
	case <-time.After(3 * debounce):
	}
}

func TestAddFileWatchesParentOnce(t *testing.T) {
	dir := t.TempDir()
	w, err := New(nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer w.Close()

	for _, name := range []string{"a.png", "b.png"} {
		if err := w.AddFile(filepath.Join(dir, name)); err != nil {
			t.Fatalf("add file: %v", err)
		}
	}
	if len(w.dirs) != 1 || !w.dirs[filepath.Clean(dir)] {
		t.Fatalf("expected only %s watched, got %v", dir, w.dirs)
	}
	if err := w.AddDir(filepath.Join(dir, "missing")); err == nil {
		t.Fatalf("expected error watching a missing directory")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	w, err := New(nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}
