package tessplay

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

// waitFor polls cond until it holds or a second passes.
func waitFor(t *testing.T, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}

func newTestWatcher(t *testing.T, debounce time.Duration) (string, *bundleWatcher, *atomic.Int32) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bundle.yaml")
	if err := os.WriteFile(path, []byte("initial"), 0o644); err != nil {
		t.Fatal(err)
	}
	var changes atomic.Int32
	w, err := newBundleWatcher(path, debounce, func() { changes.Add(1) }, nil)
	if err != nil {
		t.Fatalf("newBundleWatcher() error = %v", err)
	}
	t.Cleanup(w.Stop)
	return path, w, &changes
}

func TestBundleWatcherDetectsWrite(t *testing.T) {
	path, w, changes := newTestWatcher(t, 20*time.Millisecond)
	w.Start()

	if err := os.WriteFile(path, []byte("modified"), 0o644); err != nil {
		t.Fatal(err)
	}
	if !waitFor(t, func() bool { return changes.Load() >= 1 }) {
		t.Error("write was not reported")
	}
}

func TestBundleWatcherDebounces(t *testing.T) {
	path, w, changes := newTestWatcher(t, 150*time.Millisecond)
	w.Start()

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte{byte('0' + i)}, 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)
	}
	if !waitFor(t, func() bool { return changes.Load() >= 1 }) {
		t.Fatal("writes were not reported")
	}
	time.Sleep(300 * time.Millisecond)
	if n := changes.Load(); n != 1 {
		t.Errorf("changes = %d, want 1 after a burst", n)
	}
}

func TestBundleWatcherIgnoresOtherFiles(t *testing.T) {
	path, w, changes := newTestWatcher(t, 20*time.Millisecond)
	w.Start()

	other := filepath.Join(filepath.Dir(path), "other.yaml")
	if err := os.WriteFile(other, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(150 * time.Millisecond)
	if n := changes.Load(); n != 0 {
		t.Errorf("changes = %d for an unrelated file", n)
	}
}

func TestBundleWatcherAtomicRename(t *testing.T) {
	path, w, changes := newTestWatcher(t, 20*time.Millisecond)
	w.Start()

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte("replaced"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}
	if !waitFor(t, func() bool { return changes.Load() >= 1 }) {
		t.Error("rename over the bundle was not reported")
	}
}

func TestBundleWatcherStop(t *testing.T) {
	path, w, changes := newTestWatcher(t, 20*time.Millisecond)
	w.Start()
	w.Stop()
	w.Stop()
	w.Start()

	if err := os.WriteFile(path, []byte("after stop"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(100 * time.Millisecond)
	if n := changes.Load(); n != 0 {
		t.Errorf("changes = %d after Stop", n)
	}
}

func TestBundleWatcherStopBeforeStart(t *testing.T) {
	_, w, _ := newTestWatcher(t, 0)
	if w.debounce != DefaultWatchDebounce {
		t.Errorf("debounce = %v, want default", w.debounce)
	}
	w.Stop()
}

func TestNewBundleWatcherMissingDir(t *testing.T) {
	_, err := newBundleWatcher(filepath.Join(t.TempDir(), "missing", "bundle.yaml"), 0, nil, nil)
	if err == nil {
		t.Error("expected an error for a missing directory")
	}
}
