// Package render adapts a vector-animation runtime to Ebiten. Paths are
// triangulated or stroked into triangles, paints are resolved per vertex,
// and save/restore/clip calls are mapped onto a scene graph that the Game
// rasterizes every frame.
package render

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/opd-ai/go-tessplay/internal/scene"
)

// ErrGameTerminated is returned when the game loop is terminated via context cancellation.
var ErrGameTerminated = errors.New("game terminated")

// maxTickStep bounds dt after a stall, such as a dragged window.
const maxTickStep = 100 * time.Millisecond

// ErrorHandler is a function type for handling errors during game updates.
type ErrorHandler func(err error)

// DefaultErrorHandler writes errors to stderr.
func DefaultErrorHandler(err error) {
	fmt.Fprintf(os.Stderr, "update error: %v\n", err)
}

// Game implements ebiten.Game. It ticks a Stage, forwards pointer and
// keyboard input to it, and rasterizes its scene.
type Game struct {
	config       Config
	stage        Stage
	input        InputSource
	raster       *scene.Rasterizer
	metrics      *FrameMetrics
	hud          *HUD
	showHUD      bool
	errorHandler ErrorHandler
	lastUpdate   time.Time

	viewW, viewH int
	lastX, lastY float32
	paused       bool

	mu      sync.RWMutex
	running bool
	ctx     context.Context
}

// NewGame creates a Game hosting stage, reading input from Ebiten.
func NewGame(config Config, stage Stage) *Game {
	return NewGameWithInput(config, stage, NewEbitenInput())
}

// NewGameWithInput creates a Game with a custom input source.
// This is useful for testing.
func NewGameWithInput(config Config, stage Stage, input InputSource) *Game {
	raster := scene.NewRasterizer()
	raster.SetAntiAlias(config.AntiAlias)
	return &Game{
		config:       config,
		stage:        stage,
		input:        input,
		raster:       raster,
		metrics:      NewFrameMetrics(time.Second),
		hud:          NewHUD(),
		showHUD:      config.ShowHUD,
		errorHandler: DefaultErrorHandler,
		lastUpdate:   time.Now(),
	}
}

// SetErrorHandler sets a custom error handler for update errors.
// If nil is passed, errors will be silently ignored.
func (g *Game) SetErrorHandler(handler ErrorHandler) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.errorHandler = handler
}

// SetContext sets a context for the game loop. When the context is cancelled,
// the game loop will terminate gracefully.
func (g *Game) SetContext(ctx context.Context) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ctx = ctx
}

// Metrics returns the frame timing metrics.
func (g *Game) Metrics() *FrameMetrics { return g.metrics }

// RasterStats returns the counters of the last Draw.
func (g *Game) RasterStats() scene.RasterStats {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.raster.Stats()
}

// Paused reports whether ticking is suspended.
func (g *Game) Paused() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.paused
}

// SetPaused suspends or resumes ticking. A paused game keeps drawing the
// last frame.
func (g *Game) SetPaused(paused bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.paused = paused
}

// Update implements ebiten.Game.Update.
// It is called every tick (typically 60 times per second).
func (g *Game) Update() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.ctx != nil {
		select {
		case <-g.ctx.Done():
			return ErrGameTerminated
		default:
		}
	}

	now := time.Now()
	elapsed := now.Sub(g.lastUpdate)
	g.lastUpdate = now
	if elapsed > maxTickStep {
		elapsed = maxTickStep
	}

	if g.stage == nil {
		return nil
	}
	g.handleKeys()
	g.handlePointer()

	if g.paused {
		return nil
	}
	start := time.Now()
	if err := g.stage.Tick(float32(elapsed.Seconds())); err != nil && g.errorHandler != nil {
		g.errorHandler(err)
	}
	g.metrics.RecordFrame(time.Since(start))
	return nil
}

func (g *Game) handleKeys() {
	if g.input == nil {
		return
	}
	if g.input.KeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if g.input.KeyJustPressed(ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}
	if g.input.KeyJustPressed(ebiten.KeyArrowRight) {
		g.stage.NextArtboard()
	}
	if g.input.KeyJustPressed(ebiten.KeyArrowLeft) {
		g.stage.PrevArtboard()
	}
}

// handlePointer forwards at most one pointer event per tick. Moves are
// only reported when the position changed.
func (g *Game) handlePointer() {
	if g.input == nil {
		return
	}
	p := g.input.Pointer()
	switch {
	case p.Pressed:
		g.stage.PointerDown(p.X, p.Y)
	case p.Released:
		g.stage.PointerUp(p.X, p.Y)
	case p.X != g.lastX || p.Y != g.lastY:
		g.stage.PointerMove(p.X, p.Y)
	}
	g.lastX, g.lastY = p.X, p.Y
}

// Draw implements ebiten.Game.Draw.
// It is called every frame to render the screen.
func (g *Game) Draw(screen *ebiten.Image) {
	g.mu.Lock()
	defer g.mu.Unlock()

	screen.Fill(g.config.BackgroundColor)
	if g.stage == nil {
		return
	}
	g.raster.Draw(g.stage.Root(), screen)
	if g.showHUD {
		g.hud.Update(g.stage, g.metrics.Snapshot(), g.raster.Stats(), g.paused)
		g.hud.Draw(screen)
	}
}

// HUDVisible reports whether the heads-up display is drawn.
func (g *Game) HUDVisible() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.showHUD
}

// Layout implements ebiten.Game.Layout. Resizable games use the outside
// size; the stage is told whenever the size changes.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.mu.Lock()
	defer g.mu.Unlock()

	w, h := g.config.Width, g.config.Height
	if g.config.Resizable && outsideWidth > 0 && outsideHeight > 0 {
		w, h = outsideWidth, outsideHeight
	}
	if w != g.viewW || h != g.viewH {
		g.viewW, g.viewH = w, h
		if g.stage != nil {
			g.stage.SetViewport(float32(w), float32(h))
		}
	}
	return w, h
}

// Config returns the current configuration.
func (g *Game) Config() Config {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.config
}

// SetConfig updates the game configuration in-place.
// Note: Window size changes may not take effect until the next window resize.
func (g *Game) SetConfig(config Config) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.config = config
	g.showHUD = config.ShowHUD
	g.raster.SetAntiAlias(config.AntiAlias)
}

// Run starts the Ebiten game loop.
// This function blocks until the window is closed.
func (g *Game) Run() error {
	ebiten.SetWindowSize(g.config.Width, g.config.Height)
	ebiten.SetWindowTitle(g.config.Title)
	if g.config.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	if g.config.TPS > 0 {
		ebiten.SetTPS(g.config.TPS)
	}

	g.mu.Lock()
	g.running = true
	g.mu.Unlock()

	err := ebiten.RunGame(g)

	g.mu.Lock()
	g.running = false
	g.mu.Unlock()

	g.raster.Pool().Release()
	if errors.Is(err, ErrGameTerminated) {
		return nil
	}
	return err
}

// IsRunning returns whether the game loop is currently running.
func (g *Game) IsRunning() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.running
}
