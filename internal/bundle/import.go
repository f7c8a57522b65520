package bundle

import (
	"bytes"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/opd-ai/go-tessplay/internal/lua"
	"github.com/opd-ai/go-tessplay/internal/vg"
)

// Format is a bundle document encoding.
type Format int

const (
	FormatYAML Format = iota
	FormatTOML
)

// String implements fmt.Stringer.
func (f Format) String() string {
	if f == FormatTOML {
		return "toml"
	}
	return "yaml"
}

// DetectFormat sniffs the encoding: a TOML artboard array header means
// TOML, anything else is read as YAML.
func DetectFormat(data []byte) Format {
	if bytes.Contains(data, []byte("[[artboards]]")) {
		return FormatTOML
	}
	return FormatYAML
}

// Decode parses data into a Document without validating it.
func Decode(data []byte) (*Document, error) {
	var doc Document
	var err error
	switch DetectFormat(data) {
	case FormatTOML:
		err = toml.Unmarshal(data, &doc)
	default:
		err = yaml.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrInvalidBundle, DetectFormat(data), err)
	}
	return &doc, nil
}

// Import decodes and validates a bundle, creating its render objects with
// factory. Every failure wraps ErrInvalidBundle.
func Import(data []byte, factory vg.Factory) (*File, error) {
	doc, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return Build(doc, factory)
}

// Build validates doc and creates its render objects with factory.
func Build(doc *Document, factory vg.Factory) (*File, error) {
	if factory == nil {
		return nil, fmt.Errorf("%w: nil factory", ErrInvalidBundle)
	}
	if len(doc.Artboards) == 0 {
		return nil, fmt.Errorf("%w: no artboards", ErrInvalidBundle)
	}
	f := &File{}
	for i := range doc.Artboards {
		ab, err := buildArtboard(&doc.Artboards[i], factory)
		if err != nil {
			return nil, fmt.Errorf("%w: artboard %d (%q): %w", ErrInvalidBundle, i, doc.Artboards[i].Name, err)
		}
		f.artboards = append(f.artboards, ab)
	}
	return f, nil
}

func buildArtboard(doc *ArtboardDoc, factory vg.Factory) (*Artboard, error) {
	if doc.Width <= 0 || doc.Height <= 0 {
		return nil, fmt.Errorf("size %gx%g must be positive", doc.Width, doc.Height)
	}
	ab := &Artboard{
		name:           doc.Name,
		width:          doc.Width,
		height:         doc.Height,
		factory:        factory,
		defaultMachine: -1,
	}
	if doc.Clip == nil || *doc.Clip {
		var raw vg.RawPath
		raw.AddRect(0, 0, doc.Width, doc.Height)
		ab.clipPath = factory.MakeRenderPath(&raw, vg.FillRuleNonZero)
	}

	for i := range doc.Shapes {
		s, err := buildShape(&doc.Shapes[i], factory)
		if err != nil {
			return nil, fmt.Errorf("shape %d (%q): %w", i, doc.Shapes[i].Name, err)
		}
		ab.shapes = append(ab.shapes, s)
	}
	// Clips may refer to shapes declared later.
	for i := range doc.Shapes {
		name := doc.Shapes[i].Clip
		if name == "" {
			continue
		}
		clip := ab.ShapeByName(name)
		if clip == nil {
			return nil, fmt.Errorf("shape %q clip: %w: %q", doc.Shapes[i].Name, ErrUnknownShape, name)
		}
		s := ab.shapes[i]
		s.clip = clip
		s.clipPath = factory.MakeEmptyRenderPath()
	}

	for i := range doc.Animations {
		anim, err := buildAnimation(&doc.Animations[i], ab)
		if err != nil {
			return nil, fmt.Errorf("animation %q: %w", doc.Animations[i].Name, err)
		}
		ab.animations = append(ab.animations, anim)
	}

	for i := range doc.StateMachines {
		sm, err := buildStateMachine(&doc.StateMachines[i], ab)
		if err != nil {
			return nil, fmt.Errorf("state machine %q: %w", doc.StateMachines[i].Name, err)
		}
		ab.machines = append(ab.machines, sm)
	}
	if doc.DefaultStateMachine != "" {
		for i, sm := range ab.machines {
			if sm.name == doc.DefaultStateMachine {
				ab.defaultMachine = i
				break
			}
		}
		if ab.defaultMachine < 0 {
			return nil, fmt.Errorf("default state machine %q not found", doc.DefaultStateMachine)
		}
	}

	ab.Advance(0)
	return ab, nil
}

func buildShape(doc *ShapeDoc, factory vg.Factory) (*Shape, error) {
	s := &Shape{name: doc.Name}

	geometries := 0
	if doc.Path != "" {
		geometries++
		if err := ParsePathData(doc.Path, &s.raw); err != nil {
			return nil, fmt.Errorf("path: %w", err)
		}
	}
	if b := doc.Rect; b != nil {
		geometries++
		s.raw.AddRect(b.X, b.Y, b.Width, b.Height)
	}
	if b := doc.Ellipse; b != nil {
		geometries++
		s.raw.AddEllipse(b.X, b.Y, b.Width, b.Height)
	}
	if geometries != 1 {
		return nil, fmt.Errorf("needs exactly one of path, rect and ellipse, got %d", geometries)
	}

	rule, err := vg.ParseFillRule(doc.FillRule)
	if err != nil {
		return nil, err
	}
	s.path = factory.MakeRenderPath(&s.raw, rule)

	s.initial = transform{
		x:        doc.X,
		y:        doc.Y,
		rotation: doc.Rotation,
		scaleX:   valueOr(doc.ScaleX, 1),
		scaleY:   valueOr(doc.ScaleY, 1),
		opacity:  valueOr(doc.Opacity, 1),
	}
	s.current = s.initial

	for i, p := range doc.Fills {
		sp, err := newShapePaint(factory, p, vg.PaintStyleFill)
		if err != nil {
			return nil, fmt.Errorf("fill %d: %w", i, err)
		}
		s.fills = append(s.fills, sp)
	}
	for i, p := range doc.Strokes {
		sp, err := newShapePaint(factory, p, vg.PaintStyleStroke)
		if err != nil {
			return nil, fmt.Errorf("stroke %d: %w", i, err)
		}
		s.strokes = append(s.strokes, sp)
	}
	return s, nil
}

func valueOr(p *float32, def float32) float32 {
	if p == nil {
		return def
	}
	return *p
}

func buildAnimation(doc *AnimationDoc, ab *Artboard) (*Animation, error) {
	if doc.Duration < 0 {
		return nil, fmt.Errorf("negative duration %g", doc.Duration)
	}
	loop, err := ParseLoop(doc.Loop)
	if err != nil {
		return nil, err
	}
	anim := &Animation{name: doc.Name, duration: doc.Duration, loop: loop}

	for i, k := range doc.Keys {
		shape := ab.ShapeByName(k.Shape)
		if shape == nil {
			return nil, fmt.Errorf("key %d: %w: %q", i, ErrUnknownShape, k.Shape)
		}
		prop, ok := ParseProperty(k.Property)
		if !ok {
			return nil, fmt.Errorf("key %d: unknown property %q", i, k.Property)
		}
		if len(k.Frames) == 0 {
			return nil, fmt.Errorf("key %d: no frames", i)
		}
		kp := keyedProperty{shape: shape, property: prop}
		for _, fr := range k.Frames {
			ease, err := ParseEase(fr.Ease)
			if err != nil {
				return nil, fmt.Errorf("key %d: %w", i, err)
			}
			kp.frames = append(kp.frames, keyFrame{time: fr.Time, value: fr.Value, ease: ease})
		}
		kp.sortFrames()
		anim.keys = append(anim.keys, kp)
	}
	return anim, nil
}

func buildStateMachine(doc *StateMachineDoc, ab *Artboard) (*StateMachine, error) {
	if len(doc.States) == 0 {
		return nil, fmt.Errorf("no states")
	}
	sm := &StateMachine{name: doc.Name, artboard: ab, script: doc.Script}

	for _, st := range doc.States {
		if sm.stateIndex(st.Name) >= 0 {
			return nil, fmt.Errorf("duplicate state %q", st.Name)
		}
		state := State{name: st.Name}
		if st.Animation != "" {
			state.animation = ab.AnimationByName(st.Animation)
			if state.animation == nil {
				return nil, fmt.Errorf("state %q: animation %q not found", st.Name, st.Animation)
			}
		}
		sm.states = append(sm.states, state)
	}

	if doc.Initial != "" {
		sm.initial = sm.stateIndex(doc.Initial)
		if sm.initial < 0 {
			return nil, fmt.Errorf("initial state %q not found", doc.Initial)
		}
	}

	for i, tr := range doc.Transitions {
		t := transition{from: anyState}
		if tr.From != "any" {
			if t.from = sm.stateIndex(tr.From); t.from < 0 {
				return nil, fmt.Errorf("transition %d: from state %q not found", i, tr.From)
			}
		}
		if t.to = sm.stateIndex(tr.To); t.to < 0 {
			return nil, fmt.Errorf("transition %d: to state %q not found", i, tr.To)
		}
		on, err := ParseTrigger(tr.On)
		if err != nil {
			return nil, fmt.Errorf("transition %d: %w", i, err)
		}
		t.on = on
		if tr.Target != "" {
			if t.target = ab.ShapeByName(tr.Target); t.target == nil {
				return nil, fmt.Errorf("transition %d target: %w: %q", i, ErrUnknownShape, tr.Target)
			}
		}
		sm.transitions = append(sm.transitions, t)
	}

	if doc.Script != "" {
		if err := checkScript(doc.Name, doc.Script); err != nil {
			return nil, err
		}
	}
	return sm, nil
}

// checkScript compiles a script without running it.
func checkScript(name, script string) error {
	runtime, err := lua.New(lua.ScriptConfig())
	if err != nil {
		return err
	}
	defer runtime.Close()
	if _, err := runtime.LoadString(name, script); err != nil {
		return fmt.Errorf("script: %w", err)
	}
	return nil
}
