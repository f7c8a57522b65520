//go:build !noebiten

package tessplay

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/opd-ai/go-tessplay/internal/bundle"
)

const playerBundle = `
artboards:
  - name: Main
    width: 100
    height: 50
    shapes:
      - name: box
        rect: {x: 0, y: 0, width: 100, height: 50}
        fills: [{color: red}]
    animations:
      - name: Slide
        duration: 1
        loop: loop
        keys:
          - shape: box
            property: x
            frames: [{time: 0, value: 0}, {time: 1, value: 10}]
    state_machines:
      - name: Toggle
        states: [{name: "off"}, {name: "on", animation: Slide}]
        transitions:
          - {from: "off", to: "on", on: pointerDown}
          - {from: "on", to: "off", on: pointerDown}
  - name: Plain
    width: 10
    height: 10
    shapes:
      - {name: dot, ellipse: {x: 0, y: 0, width: 10, height: 10}, fills: [{color: blue}]}
    animations:
      - name: Pulse
        duration: 1
        keys:
          - shape: dot
            property: opacity
            frames: [{time: 0, value: 1}, {time: 1, value: 0}]
`

const reloadedBundle = `
artboards:
  - name: Reloaded
    width: 10
    height: 10
`

const scriptedBundle = `
artboards:
  - name: Scripted
    width: 10
    height: 10
    animations:
      - {name: Fallback, duration: 1}
    state_machines:
      - name: Broken
        states: [{name: a}]
        script: error("boom")
      - name: Picky
        states: [{name: a}]
        script: |
          function pointer_down(x, y) play("missing") end
`

func testOptions() *Options {
	opts := DefaultOptions()
	opts.Metrics = NewMetrics()
	return &opts
}

func statusLine(p *Player, prefix string) string {
	for _, line := range p.Status() {
		if strings.HasPrefix(line, prefix) {
			return line
		}
	}
	return ""
}

func TestPlayerFromBytes(t *testing.T) {
	p, err := NewFromBytes([]byte(playerBundle), testOptions())
	if err != nil {
		t.Fatalf("NewFromBytes() error = %v", err)
	}
	defer p.Close()
	p.SetViewport(200, 100)

	if err := p.Tick(0.1); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}
	if got := statusLine(p, "artboard"); got != "artboard: Main (1/2)" {
		t.Errorf("artboard status = %q", got)
	}
	if got := statusLine(p, "state machine"); got != "state machine: Toggle [off]" {
		t.Errorf("state machine status = %q", got)
	}

	p.PointerDown(100, 50)
	if got := statusLine(p, "state machine"); got != "state machine: Toggle [on]" {
		t.Errorf("after press = %q", got)
	}
	p.PointerMove(110, 50)
	p.PointerUp(110, 50)

	snap := p.Metrics().Snapshot()
	if snap.Frames != 1 || snap.Triangles == 0 {
		t.Errorf("metrics = %+v", snap)
	}
	if len(p.Root().Children()) == 0 {
		t.Error("Tick() drew nothing")
	}
	if p.Source() != "bytes" {
		t.Errorf("Source() = %q", p.Source())
	}
}

func TestPlayerArtboardCycling(t *testing.T) {
	p, err := NewFromBytes([]byte(playerBundle), testOptions())
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	p.NextArtboard()
	if got := statusLine(p, "artboard"); got != "artboard: Plain (2/2)" {
		t.Errorf("after NextArtboard = %q", got)
	}
	if got := statusLine(p, "animation"); got != "animation: Pulse" {
		t.Errorf("fallback animation = %q", got)
	}
	p.PrevArtboard()
	if got := statusLine(p, "artboard"); got != "artboard: Main (1/2)" {
		t.Errorf("after PrevArtboard = %q", got)
	}
}

func TestPlayerOptions(t *testing.T) {
	opts := testOptions()
	opts.Artboard = 1
	p, err := NewFromBytes([]byte(playerBundle), opts)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()
	if p.Controller().ArtboardIndex() != 1 {
		t.Errorf("ArtboardIndex() = %d, want 1", p.Controller().ArtboardIndex())
	}

	p2, err := NewFromBytes([]byte(playerBundle), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer p2.Close()
	if p2.Metrics() != DefaultMetrics() {
		t.Error("nil options should use DefaultMetrics()")
	}
}

func writeBundle(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestPlayerReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bundle.yaml")
	writeBundle(t, path, playerBundle)

	p, err := New(path, testOptions())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer p.Close()

	writeBundle(t, path, reloadedBundle)
	if err := p.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if got := statusLine(p, "artboard"); got != "artboard: Main (1/2)" {
		t.Errorf("reload applied before Tick: %q", got)
	}
	if err := p.Tick(0); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}
	if got := statusLine(p, "artboard"); got != "artboard: Reloaded (1/1)" {
		t.Errorf("after Tick = %q", got)
	}
	if got := statusLine(p, "reloads"); got != "reloads: 1" {
		t.Errorf("reloads status = %q", got)
	}

	writeBundle(t, path, "artboards: [")
	if err := p.Reload(); err == nil {
		t.Fatal("Reload() of a broken bundle should fail")
	}
	if err := p.Tick(0); err != nil {
		t.Errorf("Tick() after a failed Reload = %v", err)
	}
	if got := statusLine(p, "artboard"); got != "artboard: Reloaded (1/1)" {
		t.Errorf("failed reload replaced the bundle: %q", got)
	}
}

func TestPlayerWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bundle.yaml")
	writeBundle(t, path, playerBundle)

	opts := testOptions()
	opts.Watch = true
	opts.WatchDebounce = 20 * time.Millisecond
	p, err := New(path, opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer p.Close()

	writeBundle(t, path, reloadedBundle)
	if !waitFor(t, func() bool {
		p.Tick(0)
		return statusLine(p, "artboard") == "artboard: Reloaded (1/1)"
	}) {
		t.Fatalf("watched change not applied: %q", p.Status())
	}

	writeBundle(t, path, "artboards: [")
	var tickErr error
	waitFor(t, func() bool {
		tickErr = p.Tick(0)
		return tickErr != nil
	})
	if !errors.Is(tickErr, bundle.ErrInvalidBundle) {
		t.Errorf("Tick() = %v, want ErrInvalidBundle", tickErr)
	}
	if err := p.Tick(0); err != nil {
		t.Errorf("reload error reported twice: %v", err)
	}
}

func TestPlayerScriptErrors(t *testing.T) {
	opts := testOptions()
	opts.StateMachine = "Picky"
	p, err := NewFromBytes([]byte(scriptedBundle), opts)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	var handled []error
	p.SetErrorHandler(func(err error) { handled = append(handled, err) })
	p.SetViewport(10, 10)
	p.PointerDown(5, 5)

	if len(handled) != 1 || !strings.Contains(handled[0].Error(), "unknown state") {
		t.Fatalf("handled = %v, want one unknown state error", handled)
	}
	if p.LastError() != handled[0] {
		t.Errorf("LastError() = %v", p.LastError())
	}
	if n := p.Metrics().Snapshot().Errors; n != 1 {
		t.Errorf("errors = %d, want 1", n)
	}

	p.SetErrorHandler(func(error) { panic("handler bug") })
	p.PointerDown(5, 5)
}

func TestPlayerBrokenScriptFallsBack(t *testing.T) {
	opts := testOptions()
	p, err := NewFromBytes([]byte(scriptedBundle), opts)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	// Broken is the first machine and fails to start, so the artboard
	// falls back to its animation.
	if got := statusLine(p, "animation"); got != "animation: Fallback" {
		t.Errorf("status = %q", p.Status())
	}
	if n := p.Metrics().Snapshot().Errors; n == 0 {
		t.Error("script start failure was not counted")
	}
	if p.LastError() == nil || !strings.Contains(p.LastError().Error(), "boom") {
		t.Errorf("LastError() = %v", p.LastError())
	}
}

func TestPlayerFromFS(t *testing.T) {
	fsys := fstest.MapFS{"anims/main.yaml": {Data: []byte(playerBundle)}}
	p, err := NewFromFS(fsys, "anims/main.yaml", testOptions())
	if err != nil {
		t.Fatalf("NewFromFS() error = %v", err)
	}
	defer p.Close()
	if p.Source() != "embedded:anims/main.yaml" {
		t.Errorf("Source() = %q", p.Source())
	}
	if _, err := NewFromFS(fsys, "missing.yaml", testOptions()); err == nil {
		t.Error("expected an error for a missing FS entry")
	}
}

func TestPlayerConstructorErrors(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "missing.yaml"), testOptions()); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("New(missing) = %v, want ErrNotExist", err)
	}
	if _, err := NewFromBytes([]byte("artboards: []"), testOptions()); !errors.Is(err, bundle.ErrInvalidBundle) {
		t.Errorf("NewFromBytes(empty) = %v, want ErrInvalidBundle", err)
	}
}

func TestPlayerClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bundle.yaml")
	writeBundle(t, path, playerBundle)
	opts := testOptions()
	opts.Watch = true
	p, err := New(path, opts)
	if err != nil {
		t.Fatal(err)
	}

	if err := p.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if err := p.Reload(); !errors.Is(err, ErrClosed) {
		t.Errorf("Reload() after Close = %v, want ErrClosed", err)
	}
	frames := p.Metrics().Snapshot().Frames
	if err := p.Tick(1.0 / 60); !errors.Is(err, ErrClosed) {
		t.Errorf("Tick() after Close = %v, want ErrClosed", err)
	}
	if got := p.Metrics().Snapshot().Frames; got != frames {
		t.Errorf("Frames = %d after closed Tick, want %d", got, frames)
	}
}

func TestPlayerHealth(t *testing.T) {
	p, err := NewFromBytes([]byte(scriptedBundle), testOptions())
	if err != nil {
		t.Fatal(err)
	}

	// Broken failed to start while loading.
	h := p.Health()
	if !h.IsDegraded() || h.Components["errors"].Status != HealthDegraded {
		t.Errorf("Health() = %+v, want degraded by the script error", h)
	}
	if h.Components["bundle"].Status != HealthOK {
		t.Errorf("bundle component = %+v", h.Components["bundle"])
	}
	if _, ok := h.Components["watcher"]; ok {
		t.Error("watcher component reported without Watch")
	}

	p.Close()
	if h := p.Health(); !h.IsUnhealthy() || h.Components["bundle"].Message != "player closed" {
		t.Errorf("Health() after Close = %+v", h)
	}
}

func TestPlayerHealthy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bundle.yaml")
	writeBundle(t, path, playerBundle)
	opts := testOptions()
	opts.Watch = true
	p, err := New(path, opts)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	h := p.Health()
	if !h.IsHealthy() || h.Components["watcher"].Status != HealthOK {
		t.Errorf("Health() = %+v", h)
	}
	if h.Uptime < 0 || h.Timestamp.IsZero() {
		t.Errorf("Uptime = %v, Timestamp = %v", h.Uptime, h.Timestamp)
	}
}
