package bundle

import (
	"fmt"
	"sort"

	"github.com/chewxy/math32"
)

// Loop is an animation's end-of-timeline behavior.
type Loop int

const (
	// LoopOneShot stops at the last frame.
	LoopOneShot Loop = iota
	// LoopLoop wraps to the start.
	LoopLoop
	// LoopPingPong reverses direction at either end.
	LoopPingPong
)

var loopNames = []string{"oneShot", "loop", "pingPong"}

// String implements fmt.Stringer.
func (l Loop) String() string {
	if l < 0 || int(l) >= len(loopNames) {
		return "unknown"
	}
	return loopNames[l]
}

// ParseLoop converts a loop name to a Loop. The empty string is oneShot.
func ParseLoop(s string) (Loop, error) {
	if s == "" {
		return LoopOneShot, nil
	}
	for i, name := range loopNames {
		if name == s {
			return Loop(i), nil
		}
	}
	return LoopOneShot, fmt.Errorf("unknown loop: %q", s)
}

// Ease is the interpolation from a keyframe to the next.
type Ease int

const (
	EaseLinear Ease = iota
	// EaseHold keeps the frame's value until the next frame.
	EaseHold
	// EaseCubic is a cubic ease-in-out (smoothstep).
	EaseCubic
)

// ParseEase converts an ease name to an Ease. The empty string is linear.
func ParseEase(s string) (Ease, error) {
	switch s {
	case "", "linear":
		return EaseLinear, nil
	case "hold":
		return EaseHold, nil
	case "cubic":
		return EaseCubic, nil
	}
	return EaseLinear, fmt.Errorf("unknown ease: %q", s)
}

func (e Ease) apply(t float32) float32 {
	switch e {
	case EaseHold:
		return 0
	case EaseCubic:
		return t * t * (3 - 2*t)
	}
	return t
}

type keyFrame struct {
	time  float32
	value float32
	ease  Ease
}

// keyedProperty is the timeline of one shape property.
type keyedProperty struct {
	shape    *Shape
	property Property
	frames   []keyFrame // sorted by time
}

func (k *keyedProperty) sortFrames() {
	sort.SliceStable(k.frames, func(i, j int) bool { return k.frames[i].time < k.frames[j].time })
}

// valueAt samples the timeline at t, holding the end values outside it.
func (k *keyedProperty) valueAt(t float32) float32 {
	f := k.frames
	if t <= f[0].time {
		return f[0].value
	}
	last := f[len(f)-1]
	if t >= last.time {
		return last.value
	}
	i := sort.Search(len(f), func(i int) bool { return f[i].time > t }) - 1
	a, b := f[i], f[i+1]
	span := b.time - a.time
	if span <= 0 {
		return b.value
	}
	return a.value + (b.value-a.value)*a.ease.apply((t-a.time)/span)
}

// Animation is a keyframed timeline over an artboard's shapes.
type Animation struct {
	name     string
	duration float32
	loop     Loop
	keys     []keyedProperty
}

// Name returns the animation's name.
func (a *Animation) Name() string { return a.name }

// Duration returns the timeline length in seconds.
func (a *Animation) Duration() float32 { return a.duration }

// Loop returns the loop mode.
func (a *Animation) Loop() Loop { return a.loop }

// Instance returns a playback of a starting at time 0.
func (a *Animation) Instance() *Instance {
	return &Instance{animation: a, direction: 1}
}

// Instance is the playback state of an Animation.
type Instance struct {
	animation *Animation
	time      float32
	direction float32
	loops     int
	ended     bool
}

// Name returns the animation's name.
func (in *Instance) Name() string { return in.animation.name }

// Animation returns the played animation.
func (in *Instance) Animation() *Animation { return in.animation }

// Time returns the playhead in seconds.
func (in *Instance) Time() float32 { return in.time }

// Ended reports whether a oneShot playback reached its end.
func (in *Instance) Ended() bool { return in.ended }

// Loops returns how many times the playhead wrapped or reversed.
func (in *Instance) Loops() int { return in.loops }

// Advance moves the playhead by dt seconds and reports whether the
// playback is still running.
func (in *Instance) Advance(dt float32) bool {
	d := in.animation.duration
	if in.ended {
		return false
	}
	if d <= 0 {
		in.ended = in.animation.loop == LoopOneShot
		return !in.ended
	}

	in.time += dt * in.direction
	switch in.animation.loop {
	case LoopOneShot:
		if in.time >= d {
			in.time = d
			in.ended = true
		}
	case LoopLoop:
		if in.time >= d {
			in.loops += int(in.time / d)
			in.time = math32.Mod(in.time, d)
		}
	case LoopPingPong:
		for in.time > d || in.time < 0 {
			if in.time > d {
				in.time = 2*d - in.time
				in.direction = -1
			} else {
				in.time = -in.time
				in.direction = 1
			}
			in.loops++
		}
	}
	return !in.ended
}

// Apply writes the animation's values at the playhead into its shapes,
// blended with their current values by mix in [0, 1].
func (in *Instance) Apply(mix float32) {
	for i := range in.animation.keys {
		k := &in.animation.keys[i]
		v := k.valueAt(in.time)
		if mix < 1 {
			cur := k.shape.Get(k.property)
			v = cur + (v-cur)*mix
		}
		k.shape.Set(k.property, v)
	}
}
