// Package player drives one loaded animation file: it selects an artboard
// and its playback (a state machine, or a fallback linear animation),
// advances it once per tick, draws it fitted to the viewport and maps
// pointer input back into artboard space.
package player

import (
	"errors"

	"github.com/opd-ai/go-tessplay/internal/vg"
)

// ErrNoImporter is returned by Load when the controller has no Importer.
var ErrNoImporter = errors.New("player: no importer configured")

// File is a loaded animation bundle.
type File interface {
	ArtboardCount() int
	// Artboard returns a fresh instance of artboard index, or nil when
	// index is out of range.
	Artboard(index int) Artboard
}

// Artboard is a playable canvas instance.
type Artboard interface {
	Name() string
	// Bounds is the artboard rectangle in its own coordinates.
	Bounds() vg.AABB
	// Advance updates the artboard's derived state and reports whether
	// anything changed.
	Advance(dt float32) bool
	Draw(r vg.Renderer)

	StateMachineCount() int
	StateMachine(index int) StateMachine
	// StateMachineByName returns nil when no state machine has that name.
	StateMachineByName(name string) StateMachine
	// DefaultStateMachine returns the index of the artboard's default
	// state machine, or -1.
	DefaultStateMachine() int

	AnimationCount() int
	Animation(index int) Animation
}

// StateMachine is a running state machine instance. Advance also advances
// the artboard it drives.
type StateMachine interface {
	Name() string
	Advance(dt float32) bool
	PointerDown(p vg.Vec2)
	PointerMove(p vg.Vec2)
	PointerUp(p vg.Vec2)
}

// Animation is a linear animation instance.
type Animation interface {
	Name() string
	// Advance moves the playhead and reports whether the animation keeps
	// playing.
	Advance(dt float32) bool
	// Apply writes the animation's values at the playhead to the artboard,
	// blended by mix.
	Apply(mix float32)
}

// Importer turns bundle bytes into a File.
type Importer interface {
	Import(data []byte) (File, error)
}

// ImporterFunc adapts a function to Importer.
type ImporterFunc func(data []byte) (File, error)

// Import calls f(data).
func (f ImporterFunc) Import(data []byte) (File, error) { return f(data) }
