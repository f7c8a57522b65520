package player

import (
	"errors"
	"testing"

	"github.com/chewxy/math32"

	"github.com/opd-ai/go-tessplay/internal/vg"
)

// fakeFile, fakeArtboard, fakeMachine and fakeAnimation record the calls
// the controller makes.
type fakeFile struct {
	artboards []*fakeArtboard
}

func (f *fakeFile) ArtboardCount() int { return len(f.artboards) }

func (f *fakeFile) Artboard(i int) Artboard {
	if i < 0 || i >= len(f.artboards) {
		return nil
	}
	return f.artboards[i]
}

type fakeArtboard struct {
	name       string
	bounds     vg.AABB
	machines   []*fakeMachine
	defaultSM  int
	animations []*fakeAnimation

	advanced float32
	draws    int
}

func (a *fakeArtboard) Name() string     { return a.name }
func (a *fakeArtboard) Bounds() vg.AABB  { return a.bounds }
func (a *fakeArtboard) Draw(vg.Renderer) { a.draws++ }

func (a *fakeArtboard) Advance(dt float32) bool {
	a.advanced += dt
	return true
}

func (a *fakeArtboard) StateMachineCount() int          { return len(a.machines) }
func (a *fakeArtboard) StateMachine(i int) StateMachine { return a.machines[i] }
func (a *fakeArtboard) DefaultStateMachine() int        { return a.defaultSM }
func (a *fakeArtboard) AnimationCount() int             { return len(a.animations) }
func (a *fakeArtboard) Animation(i int) Animation       { return a.animations[i] }

func (a *fakeArtboard) StateMachineByName(name string) StateMachine {
	for _, m := range a.machines {
		if m.name == name {
			return m
		}
	}
	return nil
}

type fakeMachine struct {
	name     string
	advanced float32
	downs    []vg.Vec2
	moves    []vg.Vec2
	ups      []vg.Vec2
}

func (m *fakeMachine) Name() string { return m.name }

func (m *fakeMachine) Advance(dt float32) bool {
	m.advanced += dt
	return true
}

func (m *fakeMachine) PointerDown(p vg.Vec2) { m.downs = append(m.downs, p) }
func (m *fakeMachine) PointerMove(p vg.Vec2) { m.moves = append(m.moves, p) }
func (m *fakeMachine) PointerUp(p vg.Vec2)   { m.ups = append(m.ups, p) }

type fakeAnimation struct {
	name     string
	advanced float32
	applied  int
}

func (a *fakeAnimation) Name() string { return a.name }

func (a *fakeAnimation) Advance(dt float32) bool {
	a.advanced += dt
	return true
}

func (a *fakeAnimation) Apply(float32) { a.applied++ }

func newController(f *fakeFile, opts Options) *Controller {
	opts.Importer = ImporterFunc(func([]byte) (File, error) { return f, nil })
	c := New(opts)
	c.SetViewport(200, 100)
	if err := c.Load(nil); err != nil {
		panic(err)
	}
	return c
}

func TestControllerIdleFallback(t *testing.T) {
	idle := &fakeAnimation{name: "Idle"}
	ab := &fakeArtboard{name: "Main", bounds: vg.NewAABB(0, 0, 100, 100), defaultSM: -1, animations: []*fakeAnimation{idle}}
	c := newController(&fakeFile{artboards: []*fakeArtboard{ab}}, DefaultOptions())

	if c.StateMachine() != nil {
		t.Fatal("no state machine should be active")
	}
	if c.Animation() != Animation(idle) {
		t.Fatalf("Animation() = %v, want Idle", c.Animation())
	}

	c.Tick(0.5)
	if idle.advanced != 0.5 || idle.applied != 1 {
		t.Errorf("animation advanced %v, applied %d", idle.advanced, idle.applied)
	}
	if ab.advanced != 0.5 {
		t.Errorf("artboard advanced %v, want 0.5", ab.advanced)
	}
	if ab.draws != 1 {
		t.Errorf("artboard drawn %d times", ab.draws)
	}
	if c.Renderer().SaveDepth() != 0 {
		t.Errorf("SaveDepth() = %d after Tick", c.Renderer().SaveDepth())
	}
}

func TestControllerPrefersStateMachine(t *testing.T) {
	first := &fakeMachine{name: "First"}
	second := &fakeMachine{name: "Second"}
	third := &fakeMachine{name: "Third"}
	anim := &fakeAnimation{name: "Idle"}

	tests := []struct {
		name      string
		preferred string
		defaultSM int
		want      *fakeMachine
	}{
		{"first when no default", "", -1, first},
		{"artboard default", "", 1, second},
		{"named wins over default", "Third", 1, third},
		{"unknown name falls back", "Missing", 2, third},
		{"default out of range", "", 7, first},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ab := &fakeArtboard{
				bounds:     vg.NewAABB(0, 0, 10, 10),
				machines:   []*fakeMachine{first, second, third},
				defaultSM:  tt.defaultSM,
				animations: []*fakeAnimation{anim},
			}
			opts := DefaultOptions()
			opts.StateMachine = tt.preferred
			c := newController(&fakeFile{artboards: []*fakeArtboard{ab}}, opts)
			if c.StateMachine() != StateMachine(tt.want) {
				t.Errorf("StateMachine() = %v, want %s", c.StateMachine(), tt.want.name)
			}
			if c.Animation() != nil {
				t.Error("animation should be cleared when a state machine is active")
			}
		})
	}
}

func TestControllerStateMachineTick(t *testing.T) {
	sm := &fakeMachine{name: "SM"}
	anim := &fakeAnimation{name: "Idle"}
	ab := &fakeArtboard{bounds: vg.NewAABB(0, 0, 10, 10), machines: []*fakeMachine{sm}, defaultSM: -1, animations: []*fakeAnimation{anim}}
	c := newController(&fakeFile{artboards: []*fakeArtboard{ab}}, DefaultOptions())

	c.Tick(0.25)
	if sm.advanced != 0.25 {
		t.Errorf("state machine advanced %v", sm.advanced)
	}
	if anim.advanced != 0 || ab.advanced != 0 {
		t.Error("only the state machine should be advanced")
	}
}

func TestControllerArtboardAlone(t *testing.T) {
	ab := &fakeArtboard{bounds: vg.NewAABB(0, 0, 10, 10), defaultSM: -1}
	c := newController(&fakeFile{artboards: []*fakeArtboard{ab}}, DefaultOptions())
	c.Tick(1)
	if ab.advanced != 1 || ab.draws != 1 {
		t.Errorf("artboard advanced %v, drawn %d", ab.advanced, ab.draws)
	}
}

func TestControllerLoadArtboardClamps(t *testing.T) {
	a := &fakeArtboard{name: "A", bounds: vg.NewAABB(0, 0, 1, 1), defaultSM: -1}
	b := &fakeArtboard{name: "B", bounds: vg.NewAABB(0, 0, 1, 1), defaultSM: -1}
	c := newController(&fakeFile{artboards: []*fakeArtboard{a, b}}, DefaultOptions())

	c.LoadArtboard(1)
	if c.Artboard() != Artboard(b) || c.ArtboardIndex() != 1 {
		t.Errorf("LoadArtboard(1) selected %v", c.Artboard())
	}
	for _, i := range []int{-1, 2, 99} {
		c.LoadArtboard(i)
		if c.Artboard() != Artboard(a) || c.ArtboardIndex() != 0 {
			t.Errorf("LoadArtboard(%d) selected index %d", i, c.ArtboardIndex())
		}
	}

	c.PrevArtboard()
	if c.ArtboardIndex() != 1 {
		t.Errorf("PrevArtboard() from 0 = %d, want 1", c.ArtboardIndex())
	}
	c.NextArtboard()
	if c.ArtboardIndex() != 0 {
		t.Errorf("NextArtboard() from 1 = %d, want 0", c.ArtboardIndex())
	}
	if c.ArtboardCount() != 2 {
		t.Errorf("ArtboardCount() = %d", c.ArtboardCount())
	}
}

func TestControllerImportFailure(t *testing.T) {
	errBad := errors.New("bad bundle")
	c := New(Options{
		Importer: ImporterFunc(func([]byte) (File, error) { return nil, errBad }),
		Fit:      vg.FitContain,
	})
	c.SetViewport(100, 100)

	if err := c.Load([]byte("x")); !errors.Is(err, errBad) {
		t.Fatalf("Load() error = %v, want %v", err, errBad)
	}
	if c.Artboard() != nil {
		t.Error("no artboard should be active after a failed import")
	}
	c.Tick(1)
	c.PointerDown(50, 50)
	if _, ok := c.ToArtboard(50, 50); ok {
		t.Error("ToArtboard() should fail without an artboard")
	}
}

func TestControllerNoImporter(t *testing.T) {
	c := New(DefaultOptions())
	if err := c.Load(nil); !errors.Is(err, ErrNoImporter) {
		t.Errorf("Load() error = %v, want ErrNoImporter", err)
	}
}

func TestControllerPointerAtViewportCentre(t *testing.T) {
	for _, flip := range []bool{false, true} {
		sm := &fakeMachine{name: "SM"}
		// The viewport is 200x100 and the artboard has the same aspect, so
		// contain fills it exactly.
		ab := &fakeArtboard{bounds: vg.NewAABB(-20, 30, 400, 200), machines: []*fakeMachine{sm}, defaultSM: -1}
		opts := DefaultOptions()
		opts.FlipY = flip
		c := newController(&fakeFile{artboards: []*fakeArtboard{ab}}, opts)

		c.PointerDown(100, 50)
		if len(sm.downs) != 1 {
			t.Fatalf("flip=%v: %d pointer downs forwarded", flip, len(sm.downs))
		}
		want := ab.bounds.Center()
		got := sm.downs[0]
		if math32.Abs(got.X-want.X) > 1e-3 || math32.Abs(got.Y-want.Y) > 1e-3 {
			t.Errorf("flip=%v: centre maps to %v, want %v", flip, got, want)
		}
	}
}

func TestControllerPointerMapping(t *testing.T) {
	sm := &fakeMachine{name: "SM"}
	ab := &fakeArtboard{bounds: vg.NewAABB(0, 0, 100, 50), machines: []*fakeMachine{sm}, defaultSM: -1}
	c := newController(&fakeFile{artboards: []*fakeArtboard{ab}}, DefaultOptions())

	// Contain scales the 100x50 artboard by 2 into the 200x100 viewport.
	c.PointerMove(0, 0)
	c.PointerUp(200, 100)
	if len(sm.moves) != 1 || sm.moves[0] != (vg.Vec2{}) {
		t.Errorf("moves = %v", sm.moves)
	}
	if len(sm.ups) != 1 || sm.ups[0] != (vg.Vec2{X: 100, Y: 50}) {
		t.Errorf("ups = %v", sm.ups)
	}

	opts := DefaultOptions()
	opts.FlipY = true
	sm2 := &fakeMachine{name: "SM"}
	ab2 := &fakeArtboard{bounds: vg.NewAABB(0, 0, 100, 50), machines: []*fakeMachine{sm2}, defaultSM: -1}
	c2 := newController(&fakeFile{artboards: []*fakeArtboard{ab2}}, opts)
	c2.PointerDown(0, 0)
	if len(sm2.downs) != 1 || sm2.downs[0] != (vg.Vec2{X: 0, Y: 50}) {
		t.Errorf("flipped downs = %v, want (0, 50)", sm2.downs)
	}
}

func TestControllerDegenerateAlignmentDropsPointer(t *testing.T) {
	sm := &fakeMachine{name: "SM"}
	ab := &fakeArtboard{bounds: vg.NewAABB(0, 0, 100, 100), machines: []*fakeMachine{sm}, defaultSM: -1}
	c := newController(&fakeFile{artboards: []*fakeArtboard{ab}}, DefaultOptions())

	c.SetViewport(0, 0)
	c.PointerDown(1, 1)
	if len(sm.downs) != 0 {
		t.Errorf("pointer forwarded through a degenerate alignment: %v", sm.downs)
	}
}
