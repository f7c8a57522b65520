package render

import (
	"fmt"
	"image/color"

	"github.com/opd-ai/go-tessplay/internal/scene"
)

// Config holds the window and loop options of a Game.
type Config struct {
	// Width is the initial window width in pixels.
	Width int
	// Height is the initial window height in pixels.
	Height int
	// Title is the window title.
	Title string
	// BackgroundColor fills the screen before the scene is drawn.
	BackgroundColor color.RGBA
	// TPS is the number of ticks per second. Zero keeps Ebiten's default.
	TPS int
	// AntiAlias enables anti-aliased triangle rasterization.
	AntiAlias bool
	// ShowHUD draws frame statistics over the scene. H toggles it.
	ShowHUD bool
	// Resizable lets the window be resized; the stage viewport follows the
	// window size.
	Resizable bool
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		Width:           800,
		Height:          600,
		Title:           "tessplay",
		BackgroundColor: color.RGBA{R: 0x28, G: 0x28, B: 0x28, A: 0xff},
		TPS:             60,
		AntiAlias:       true,
		Resizable:       true,
	}
}

// Validate checks if the Config has valid values.
func (c Config) Validate() error {
	if c.Width <= 0 {
		return fmt.Errorf("width must be positive, got %d", c.Width)
	}
	if c.Height <= 0 {
		return fmt.Errorf("height must be positive, got %d", c.Height)
	}
	if c.TPS < 0 {
		return fmt.Errorf("tps must not be negative, got %d", c.TPS)
	}
	return nil
}

// Stage is the content hosted by a Game. The Game ticks it, rasterizes
// its scene and forwards input in viewport coordinates.
type Stage interface {
	// Tick advances the stage by dt seconds and rebuilds its scene.
	Tick(dt float32) error
	// Root returns the scene to draw.
	Root() *scene.Node
	// SetViewport is called when the drawable area changes size.
	SetViewport(width, height float32)

	PointerDown(x, y float32)
	PointerMove(x, y float32)
	PointerUp(x, y float32)

	// NextArtboard and PrevArtboard cycle through the loaded content.
	NextArtboard()
	PrevArtboard()
}
