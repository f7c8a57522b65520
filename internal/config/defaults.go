package config

import (
	"image/color"

	"github.com/opd-ai/go-tessplay/internal/vg"
)

// Default values for configuration options.
const (
	// DefaultWidth is the default window width in pixels.
	DefaultWidth = 800
	// DefaultHeight is the default window height in pixels.
	DefaultHeight = 600
	// DefaultTitle is the default window title.
	DefaultTitle = "tessplay"
	// DefaultTPS is the default number of ticks per second.
	DefaultTPS = 60
)

// DefaultBackground is the default window fill (#282828).
var DefaultBackground = color.RGBA{R: 0x28, G: 0x28, B: 0x28, A: 0xff}

// DefaultConfig returns a Config with sensible default values. The bundle
// path is empty and must be supplied by a file or flag.
func DefaultConfig() Config {
	return Config{
		Window: WindowConfig{
			Width:     DefaultWidth,
			Height:    DefaultHeight,
			Title:     DefaultTitle,
			Resizable: true,
		},
		Display: DisplayConfig{
			Background: DefaultBackground,
			Fit:        vg.FitContain,
			Alignment:  vg.AlignCenter,
			TPS:        DefaultTPS,
			AntiAlias:  true,
		},
	}
}
