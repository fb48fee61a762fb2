package watcher

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestDepthDebouncer_CoalescesBurst(t *testing.T) {
	d := NewDepthDebouncer(30 * time.Millisecond)

	var calls atomic.Int32
	var last atomic.Int32
	for depth := 1; depth <= 5; depth++ {
		d.Schedule(depth, func(applied int) {
			calls.Add(1)
			last.Store(int32(applied))
		})
	}

	time.Sleep(120 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Errorf("callback ran %d times, want 1", got)
	}
	if got := last.Load(); got != 5 {
		t.Errorf("applied depth = %d, want last scheduled 5", got)
	}
}

func TestDepthDebouncer_SequentialWindows(t *testing.T) {
	d := NewDepthDebouncer(20 * time.Millisecond)

	var calls atomic.Int32
	d.Schedule(1, func(int) { calls.Add(1) })
	time.Sleep(60 * time.Millisecond)
	d.Schedule(2, func(int) { calls.Add(1) })
	time.Sleep(60 * time.Millisecond)

	if got := calls.Load(); got != 2 {
		t.Errorf("callback ran %d times, want 2 (separate windows)", got)
	}
}

func TestDepthDebouncer_Cancel(t *testing.T) {
	d := NewDepthDebouncer(20 * time.Millisecond)

	var calls atomic.Int32
	d.Schedule(3, func(int) { calls.Add(1) })
	d.Cancel()

	time.Sleep(80 * time.Millisecond)
	if got := calls.Load(); got != 0 {
		t.Errorf("cancelled callback still ran %d times", got)
	}
}

func TestDepthDebouncer_DefaultWindow(t *testing.T) {
	d := NewDepthDebouncer(0)
	if d.Window() != DefaultDebounceDuration {
		t.Errorf("window = %v, want default %v", d.Window(), DefaultDebounceDuration)
	}
}

func TestSourceWatcher_ReloadOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tree.json")
	if err := os.WriteFile(path, []byte(`{"id":"root"}`), 0644); err != nil {
		t.Fatalf("seed payload: %v", err)
	}

	w, err := NewSourceWatcher(path, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("NewSourceWatcher: %v", err)
	}
	defer w.Close()

	reloads := make(chan struct{}, 4)
	w.Start(func() { reloads <- struct{}{} }, nil)

	// Two rapid writes should coalesce into one reload.
	if err := os.WriteFile(path, []byte(`{"id":"root","label":"a"}`), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(path, []byte(`{"id":"root","label":"b"}`), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case <-reloads:
	case <-time.After(2 * time.Second):
		t.Fatalf("no reload delivered")
	}
}

func TestSourceWatcher_IgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tree.json")
	if err := os.WriteFile(path, []byte(`{}`), 0644); err != nil {
		t.Fatalf("seed payload: %v", err)
	}

	w, err := NewSourceWatcher(path, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("NewSourceWatcher: %v", err)
	}
	defer w.Close()

	reloads := make(chan struct{}, 4)
	w.Start(func() { reloads <- struct{}{} }, nil)

	if err := os.WriteFile(filepath.Join(dir, "other.json"), []byte(`{}`), 0644); err != nil {
		t.Fatalf("write sibling: %v", err)
	}

	select {
	case <-reloads:
		t.Fatalf("reload fired for unrelated file")
	case <-time.After(150 * time.Millisecond):
	}
}
