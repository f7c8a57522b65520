package tessplay

import (
	"time"

	"github.com/opd-ai/go-tessplay/internal/vg"
)

// Options configures a Player.
type Options struct {
	// Artboard is the index of the artboard shown first.
	Artboard int

	// StateMachine names the state machine to prefer. Empty uses the
	// artboard's default, then the first one.
	StateMachine string

	// Fit and Alignment place the artboard in the viewport.
	Fit       vg.Fit
	Alignment vg.Alignment

	// FlipY makes the host space Y-up.
	FlipY bool

	// Watch reloads the bundle when its file changes on disk. Only
	// players created with New can watch.
	Watch bool

	// WatchDebounce sets the debounce interval for file change events.
	// Zero means DefaultWatchDebounce.
	WatchDebounce time.Duration

	// Logger receives diagnostics. If nil, nothing is logged.
	Logger Logger

	// Metrics collects operational counters. If nil, DefaultMetrics() is
	// used.
	Metrics *Metrics
}

// DefaultOptions returns Options with contain/center placement.
func DefaultOptions() Options {
	return Options{
		Fit:       vg.FitContain,
		Alignment: vg.AlignCenter,
	}
}

// Logger interface for custom logging.
// It follows the slog-style signature for compatibility with Go's structured logging.
type Logger interface {
	// Debug logs a debug-level message with optional key-value pairs.
	Debug(msg string, args ...any)
	// Info logs an info-level message with optional key-value pairs.
	Info(msg string, args ...any)
	// Warn logs a warning-level message with optional key-value pairs.
	Warn(msg string, args ...any)
	// Error logs an error-level message with optional key-value pairs.
	Error(msg string, args ...any)
}

// ErrorHandler is a callback for errors raised outside Tick, such as a
// state-machine script failing or a watched reload being rejected. It is
// called synchronously; do not block in the handler.
type ErrorHandler func(err error)
