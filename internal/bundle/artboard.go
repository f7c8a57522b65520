package bundle

import "github.com/opd-ai/go-tessplay/internal/vg"

// File is an imported bundle.
type File struct {
	artboards []*Artboard
}

// ArtboardCount returns the number of artboards.
func (f *File) ArtboardCount() int { return len(f.artboards) }

// Artboard returns artboard i, or nil when i is out of range.
func (f *File) Artboard(i int) *Artboard {
	if i < 0 || i >= len(f.artboards) {
		return nil
	}
	return f.artboards[i]
}

// ArtboardByName returns the first artboard called name, or nil.
func (f *File) ArtboardByName(name string) *Artboard {
	for _, a := range f.artboards {
		if a.name == name {
			return a
		}
	}
	return nil
}

// Artboard is a fixed-size canvas of shapes with its animations and state
// machines. Shapes are drawn in declaration order.
type Artboard struct {
	name     string
	width    float32
	height   float32
	factory  vg.Factory
	clipPath vg.RenderPath

	shapes         []*Shape
	animations     []*Animation
	machines       []*StateMachine
	defaultMachine int
}

// Name returns the artboard's name.
func (a *Artboard) Name() string { return a.name }

// Bounds returns the artboard rectangle with its origin at (0, 0).
func (a *Artboard) Bounds() vg.AABB { return vg.NewAABB(0, 0, a.width, a.height) }

// ShapeCount returns the number of shapes.
func (a *Artboard) ShapeCount() int { return len(a.shapes) }

// Shape returns shape i, or nil when i is out of range.
func (a *Artboard) Shape(i int) *Shape {
	if i < 0 || i >= len(a.shapes) {
		return nil
	}
	return a.shapes[i]
}

// ShapeByName returns the first shape called name, or nil.
func (a *Artboard) ShapeByName(name string) *Shape {
	for _, s := range a.shapes {
		if s.name == name {
			return s
		}
	}
	return nil
}

// AnimationCount returns the number of animations.
func (a *Artboard) AnimationCount() int { return len(a.animations) }

// Animation returns animation i, or nil when i is out of range.
func (a *Artboard) Animation(i int) *Animation {
	if i < 0 || i >= len(a.animations) {
		return nil
	}
	return a.animations[i]
}

// AnimationByName returns the first animation called name, or nil.
func (a *Artboard) AnimationByName(name string) *Animation {
	for _, anim := range a.animations {
		if anim.name == name {
			return anim
		}
	}
	return nil
}

// StateMachineCount returns the number of state machines.
func (a *Artboard) StateMachineCount() int { return len(a.machines) }

// StateMachine returns state machine i, or nil when i is out of range.
func (a *Artboard) StateMachine(i int) *StateMachine {
	if i < 0 || i >= len(a.machines) {
		return nil
	}
	return a.machines[i]
}

// StateMachineByName returns the first state machine called name, or nil.
func (a *Artboard) StateMachineByName(name string) *StateMachine {
	for _, sm := range a.machines {
		if sm.name == name {
			return sm
		}
	}
	return nil
}

// DefaultStateMachine returns the index of the default state machine, or
// -1 when the artboard names none.
func (a *Artboard) DefaultStateMachine() int { return a.defaultMachine }

// Reset restores every shape to its imported properties.
func (a *Artboard) Reset() {
	for _, s := range a.shapes {
		s.reset()
	}
	a.Advance(0)
}

// Advance brings derived state (paint opacity, clip geometry) up to date
// with the shapes' properties. The artboard itself has no timeline, so it
// always reports false.
func (a *Artboard) Advance(dt float32) bool {
	for _, s := range a.shapes {
		s.update(a.factory)
	}
	return false
}

// Draw draws every shape, clipped to the artboard when clipping is on.
func (a *Artboard) Draw(r vg.Renderer) {
	r.Save()
	if a.clipPath != nil {
		r.ClipPath(a.clipPath)
	}
	for _, s := range a.shapes {
		s.draw(r)
	}
	r.Restore()
}
