// Package config loads tessplay's player configuration. Configuration
// files are Lua scripts that fill the tessplay.config table; values are
// merged over DefaultConfig and path values are environment-expanded.
package config

import (
	"image/color"

	"github.com/opd-ai/go-tessplay/internal/vg"
)

// Config represents the complete player configuration.
type Config struct {
	// Bundle contains what to load and play.
	Bundle BundleConfig
	// Window contains window-related configuration options.
	Window WindowConfig
	// Display contains placement and rendering settings.
	Display DisplayConfig
}

// BundleConfig selects the animation bundle and what plays from it.
type BundleConfig struct {
	// Path is the bundle file. ${VAR}, ${VAR:-default} and $VAR are
	// expanded.
	Path string
	// Artboard is the index of the artboard shown first.
	Artboard int
	// StateMachine names the state machine to prefer. Empty uses the
	// artboard's default.
	StateMachine string
	// Watch reloads the bundle when the file changes.
	Watch bool
}

// WindowConfig holds window-related configuration options.
type WindowConfig struct {
	// Width is the initial window width in pixels.
	Width int
	// Height is the initial window height in pixels.
	Height int
	// Title is the window title.
	Title string
	// Resizable lets the window be resized.
	Resizable bool
}

// DisplayConfig holds placement and rendering settings.
type DisplayConfig struct {
	// Background fills the window before the artboard is drawn.
	Background color.RGBA
	// Fit controls how the artboard is scaled into the window.
	Fit vg.Fit
	// Alignment positions the artboard in the window.
	Alignment vg.Alignment
	// FlipY makes the host space Y-up.
	FlipY bool
	// ShowHUD draws frame statistics over the artboard.
	ShowHUD bool
	// TPS is the number of ticks per second.
	TPS int
	// AntiAlias enables anti-aliased rasterization.
	AntiAlias bool
}

// Validate checks cfg with default settings. See ValidateConfig.
func (c *Config) Validate() error { return ValidateConfig(c) }
