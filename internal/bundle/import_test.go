package bundle

import (
	"errors"
	"strings"
	"testing"

	"github.com/opd-ai/go-tessplay/internal/vg"
)

const testBundleYAML = `
artboards:
  - name: Main
    width: 200
    height: 100
    default_state_machine: Button
    shapes:
      - name: bg
        rect: {x: 0, y: 0, width: 200, height: 100}
        fills:
          - linear:
              start: [0, 0]
              end: [200, 0]
              stops:
                - {color: "#ff0000", position: 0}
                - {color: blue, position: 1}
      - name: knob
        ellipse: {x: -10, y: -10, width: 20, height: 20}
        x: 50
        y: 50
        fills:
          - color: "#80ffffff"
        strokes:
          - color: black
            thickness: 2
            join: round
            cap: square
        clip: bg
      - name: mask
        path: M0 0 H100 V100 H0 Z
        fill_rule: evenOdd
    animations:
      - name: Idle
        duration: 1
        loop: loop
        keys:
          - shape: knob
            property: x
            frames:
              - {time: 0, value: 50}
              - {time: 1, value: 150}
      - name: Press
        duration: 0.5
        keys:
          - shape: knob
            property: opacity
            frames:
              - {time: 0, value: 1}
              - {time: 0.5, value: 0, ease: hold}
    state_machines:
      - name: Spin
        states:
          - {name: idle, animation: Idle}
      - name: Button
        initial: idle
        states:
          - {name: idle, animation: Idle}
          - {name: pressed, animation: Press}
          - {name: done}
        transitions:
          - {from: idle, to: pressed, on: pointerDown, target: knob}
          - {from: pressed, to: done, on: end}
          - {from: any, to: idle, on: pointerUp}
  - name: Second
    width: 10
    height: 10
    clip: false
`

const testBundleTOML = `
[[artboards]]
name = "Main"
width = 64.0
height = 32.0

[[artboards.shapes]]
name = "box"
rect = { x = 0.0, y = 0.0, width = 10.0, height = 10.0 }
rotation = 90.0
fills = [{ color = "tomato" }]

[[artboards.animations]]
name = "Idle"
duration = 2.0
loop = "pingPong"

[[artboards.animations.keys]]
shape = "box"
property = "rotation"
frames = [{ time = 0.0, value = 0.0 }, { time = 2.0, value = 180.0, ease = "cubic" }]
`

func importTest(t *testing.T, data string) (*File, *recFactory) {
	t.Helper()
	factory := &recFactory{}
	f, err := Import([]byte(data), factory)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	return f, factory
}

func TestImportYAML(t *testing.T) {
	f, factory := importTest(t, testBundleYAML)

	if f.ArtboardCount() != 2 {
		t.Fatalf("ArtboardCount() = %d, want 2", f.ArtboardCount())
	}
	ab := f.Artboard(0)
	if ab.Name() != "Main" || ab.Bounds() != vg.NewAABB(0, 0, 200, 100) {
		t.Errorf("artboard = %q %v", ab.Name(), ab.Bounds())
	}
	if ab.ShapeCount() != 3 || ab.AnimationCount() != 2 || ab.StateMachineCount() != 2 {
		t.Errorf("counts = %d shapes, %d animations, %d machines", ab.ShapeCount(), ab.AnimationCount(), ab.StateMachineCount())
	}
	if ab.DefaultStateMachine() != 1 {
		t.Errorf("DefaultStateMachine() = %d, want 1", ab.DefaultStateMachine())
	}
	if ab.clipPath == nil || f.Artboard(1).clipPath != nil {
		t.Error("clip should default to true and honor clip: false")
	}
	if f.ArtboardByName("Second") != f.Artboard(1) || f.Artboard(2) != nil {
		t.Error("artboard lookup mismatch")
	}

	knob := ab.ShapeByName("knob")
	if knob.clip != ab.ShapeByName("bg") || knob.clipPath == nil {
		t.Fatal("knob should be clipped by bg")
	}
	if got := knob.clipPath.(*recPath).raw.Bounds(); got != vg.NewAABB(0, 0, 200, 100) {
		t.Errorf("baked clip bounds = %v", got)
	}
	stroke := knob.strokes[0].paint.(*recPaint)
	if stroke.style != vg.PaintStyleStroke || stroke.thickness != 2 || stroke.join != vg.StrokeJoinRound || stroke.cap != vg.StrokeCapSquare {
		t.Errorf("stroke paint = %+v", stroke)
	}
	fill := knob.fills[0].paint.(*recPaint)
	if fill.color != vg.ColorARGB(0x80, 0xff, 0xff, 0xff) {
		t.Errorf("fill color = %v", fill.color)
	}
	if factory.gradients != 1 {
		t.Errorf("gradients created = %d, want 1", factory.gradients)
	}
	if rule := ab.ShapeByName("mask").path.FillRule(); rule != vg.FillRuleEvenOdd {
		t.Errorf("mask fill rule = %v", rule)
	}
	if b := knob.Bounds(); b != vg.NewAABB(40, 40, 20, 20) {
		t.Errorf("knob bounds = %v", b)
	}
}

func TestImportTOML(t *testing.T) {
	if DetectFormat([]byte(testBundleTOML)) != FormatTOML {
		t.Fatal("TOML bundle not detected")
	}
	f, _ := importTest(t, testBundleTOML)
	ab := f.Artboard(0)
	if ab.Bounds() != vg.NewAABB(0, 0, 64, 32) {
		t.Errorf("Bounds() = %v", ab.Bounds())
	}
	box := ab.ShapeByName("box")
	if box == nil || box.Get(PropertyRotation) != 90 {
		t.Fatalf("box = %+v", box)
	}
	anim := ab.Animation(0)
	if anim.Loop() != LoopPingPong || anim.Duration() != 2 {
		t.Errorf("animation = %v %v", anim.Loop(), anim.Duration())
	}
	if ab.DefaultStateMachine() != -1 {
		t.Errorf("DefaultStateMachine() = %d, want -1", ab.DefaultStateMachine())
	}
}

func TestImportGradientFallback(t *testing.T) {
	factory := &recFactory{noGradients: true}
	f, err := Import([]byte(testBundleYAML), factory)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	bg := f.Artboard(0).ShapeByName("bg").fills[0].paint.(*recPaint)
	if bg.shader != nil || bg.color != vg.ColorARGB(0xff, 0xff, 0, 0) {
		t.Errorf("fallback paint = %+v, want first stop color", bg)
	}
}

func TestImportErrors(t *testing.T) {
	base := "artboards:\n  - name: A\n    width: 10\n    height: 10\n"
	tests := []struct {
		name    string
		data    string
		unknown bool
	}{
		{"malformed yaml", "artboards: [", false},
		{"no artboards", "artboards: []", false},
		{"zero size", "artboards:\n  - name: A\n    width: 0\n    height: 10\n", false},
		{"no geometry", base + "    shapes:\n      - name: s\n", false},
		{"two geometries", base + "    shapes:\n      - {name: s, path: M0 0, rect: {width: 1, height: 1}}\n", false},
		{"bad path", base + "    shapes:\n      - {name: s, path: M0 0 A1 1 0 0 1 2 2}\n", false},
		{"bad color", base + "    shapes:\n      - {name: s, path: M0 0, fills: [{color: notacolor}]}\n", false},
		{"paint without source", base + "    shapes:\n      - {name: s, path: M0 0, fills: [{blend: multiply}]}\n", false},
		{"gradient without stops", base + "    shapes:\n      - {name: s, path: M0 0, fills: [{linear: {start: [0, 0], end: [1, 0]}}]}\n", false},
		{"gradient short point", base + "    shapes:\n      - {name: s, path: M0 0, fills: [{linear: {start: [0], end: [1, 0], stops: [{color: red}]}}]}\n", false},
		{"bad join", base + "    shapes:\n      - {name: s, path: M0 0, strokes: [{color: red, join: wobbly}]}\n", false},
		{"unknown clip", base + "    shapes:\n      - {name: s, path: M0 0, clip: nope}\n", true},
		{"unknown key shape", base + "    animations:\n      - {name: a, duration: 1, keys: [{shape: nope, property: x, frames: [{time: 0, value: 0}]}]}\n", true},
		{"unknown property", base + "    shapes:\n      - {name: s, path: M0 0}\n    animations:\n      - {name: a, keys: [{shape: s, property: hue, frames: [{time: 0, value: 0}]}]}\n", false},
		{"bad loop", base + "    animations:\n      - {name: a, loop: forever}\n", false},
		{"negative duration", base + "    animations:\n      - {name: a, duration: -1}\n", false},
		{"no states", base + "    state_machines:\n      - {name: m}\n", false},
		{"bad initial", base + "    state_machines:\n      - {name: m, initial: x, states: [{name: a}]}\n", false},
		{"bad trigger", base + "    state_machines:\n      - {name: m, states: [{name: a}], transitions: [{from: a, to: a, on: hover}]}\n", false},
		{"unknown target", base + "    state_machines:\n      - {name: m, states: [{name: a}], transitions: [{from: a, to: a, on: pointerDown, target: nope}]}\n", true},
		{"bad script", base + "    state_machines:\n      - {name: m, states: [{name: a}], script: 'function ('}\n", false},
		{"unknown default machine", base + "    default_state_machine: nope\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Import([]byte(tt.data), &recFactory{})
			if !errors.Is(err, ErrInvalidBundle) {
				t.Fatalf("Import() error = %v, want ErrInvalidBundle", err)
			}
			if errors.Is(err, ErrUnknownShape) != tt.unknown {
				t.Errorf("errors.Is(err, ErrUnknownShape) = %v, want %v (%v)", !tt.unknown, tt.unknown, err)
			}
		})
	}

	if _, err := Import([]byte(base), nil); !errors.Is(err, ErrInvalidBundle) {
		t.Errorf("Import() with nil factory error = %v", err)
	}
}

func TestDecodeKeepsDocument(t *testing.T) {
	doc, err := Decode([]byte(testBundleYAML))
	if err != nil {
		t.Fatal(err)
	}
	sm := doc.Artboards[0].StateMachines[1]
	if sm.Name != "Button" || len(sm.Transitions) != 3 || sm.Transitions[2].From != "any" {
		t.Errorf("decoded state machine = %+v", sm)
	}
	if !strings.Contains(doc.Artboards[0].Shapes[2].Path, "H100") {
		t.Errorf("path = %q", doc.Artboards[0].Shapes[2].Path)
	}
}
