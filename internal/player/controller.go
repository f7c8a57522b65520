package player

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/opd-ai/go-tessplay/internal/render"
	"github.com/opd-ai/go-tessplay/internal/scene"
	"github.com/opd-ai/go-tessplay/internal/vg"
)

// Options configures a Controller.
type Options struct {
	// Importer decodes bundles passed to Load.
	Importer Importer
	// StateMachine names the state machine to prefer when an artboard is
	// loaded. Empty uses the artboard's default.
	StateMachine string
	// Artboard is the artboard index selected by Load.
	Artboard int
	// Fit and Alignment place the artboard in the viewport.
	Fit       vg.Fit
	Alignment vg.Alignment
	// FlipY makes the host space Y-up: the root node flips the scene
	// vertically and pointer coordinates are mapped through the same flip.
	FlipY bool
	// Logger receives diagnostics. Nil discards them.
	Logger *slog.Logger
}

// DefaultOptions returns contain/center placement with no importer.
func DefaultOptions() Options {
	return Options{Fit: vg.FitContain, Alignment: vg.AlignCenter}
}

// Controller owns one loaded File and the active artboard. At most one of
// a state machine and a fallback animation drives the artboard.
//
// A Controller is not safe for concurrent use.
type Controller struct {
	opts     Options
	root     *scene.Node
	renderer *render.Renderer
	logger   *slog.Logger

	file      File
	index     int
	artboard  Artboard
	machine   StateMachine
	animation Animation

	viewport vg.AABB
}

// New returns a controller drawing under a fresh scene root.
func New(opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	root := scene.NewNode()
	root.SetName("player")
	return &Controller{
		opts:     opts,
		root:     root,
		renderer: render.NewRenderer(root, logger),
		logger:   logger,
	}
}

// Root returns the scene node the controller draws under.
func (c *Controller) Root() *scene.Node { return c.root }

// Renderer returns the renderer used for drawing.
func (c *Controller) Renderer() *render.Renderer { return c.renderer }

// Load imports data and selects the configured artboard. On failure the
// error is logged and returned, no artboard is active and later ticks do
// nothing.
func (c *Controller) Load(data []byte) error {
	if c.opts.Importer == nil {
		c.unload()
		c.logger.Error("bundle import failed", "error", ErrNoImporter)
		return ErrNoImporter
	}
	f, err := c.opts.Importer.Import(data)
	if err != nil {
		c.unload()
		c.logger.Error("bundle import failed", "error", err)
		return fmt.Errorf("import bundle: %w", err)
	}
	c.file = f
	c.LoadArtboard(c.opts.Artboard)
	return nil
}

// SetFile installs an already imported file and selects the configured
// artboard.
func (c *Controller) SetFile(f File) {
	if f == nil {
		c.unload()
		return
	}
	c.file = f
	c.LoadArtboard(c.opts.Artboard)
}

func (c *Controller) unload() {
	c.file = nil
	c.artboard = nil
	c.machine = nil
	c.animation = nil
	c.index = 0
	c.renderer.StartFrame()
}

// LoadArtboard activates artboard index, using 0 when index is out of
// range. It then selects the named state machine, the artboard's default
// one or the first; without any it falls back to the first animation.
func (c *Controller) LoadArtboard(index int) {
	if c.file == nil {
		return
	}
	if index < 0 || index >= c.file.ArtboardCount() {
		index = 0
	}
	c.index = index
	c.artboard = c.file.Artboard(index)
	c.machine = nil
	c.animation = nil
	if c.artboard == nil {
		c.logger.Warn("bundle has no artboards")
		return
	}

	if sm := c.pickStateMachine(c.artboard); sm != nil {
		c.machine = sm
		c.logger.Debug("playing state machine", "artboard", c.artboard.Name(), "state_machine", sm.Name())
		return
	}
	if c.artboard.AnimationCount() > 0 {
		c.animation = c.artboard.Animation(0)
		c.logger.Debug("playing animation", "artboard", c.artboard.Name(), "animation", c.animation.Name())
	}
}

func (c *Controller) pickStateMachine(ab Artboard) StateMachine {
	if c.opts.StateMachine != "" {
		if sm := ab.StateMachineByName(c.opts.StateMachine); sm != nil {
			return sm
		}
		c.logger.Warn("state machine not found", "name", c.opts.StateMachine, "artboard", ab.Name())
	}
	if i := ab.DefaultStateMachine(); i >= 0 && i < ab.StateMachineCount() {
		return ab.StateMachine(i)
	}
	if ab.StateMachineCount() > 0 {
		return ab.StateMachine(0)
	}
	return nil
}

// NextArtboard activates the following artboard, wrapping around.
func (c *Controller) NextArtboard() { c.stepArtboard(1) }

// PrevArtboard activates the preceding artboard, wrapping around.
func (c *Controller) PrevArtboard() { c.stepArtboard(-1) }

func (c *Controller) stepArtboard(d int) {
	if c.file == nil {
		return
	}
	n := c.file.ArtboardCount()
	if n == 0 {
		return
	}
	c.LoadArtboard(((c.index+d)%n + n) % n)
}

// ArtboardCount returns the number of artboards in the loaded file.
func (c *Controller) ArtboardCount() int {
	if c.file == nil {
		return 0
	}
	return c.file.ArtboardCount()
}

// ArtboardIndex returns the active artboard's index.
func (c *Controller) ArtboardIndex() int { return c.index }

// Artboard returns the active artboard, or nil.
func (c *Controller) Artboard() Artboard { return c.artboard }

// StateMachine returns the active state machine, or nil.
func (c *Controller) StateMachine() StateMachine { return c.machine }

// Animation returns the fallback animation, or nil.
func (c *Controller) Animation() Animation { return c.animation }

// SetViewport sets the rectangle the artboard is fitted into.
func (c *Controller) SetViewport(width, height float32) {
	c.viewport = vg.NewAABB(0, 0, width, height)
	if c.opts.FlipY {
		c.root.SetTransform(vg.Mat2D{1, 0, 0, -1, 0, height})
	} else {
		c.root.SetTransform(vg.Identity)
	}
}

// Viewport returns the current viewport.
func (c *Controller) Viewport() vg.AABB { return c.viewport }

// SetFit changes how the artboard is scaled into the viewport.
func (c *Controller) SetFit(fit vg.Fit) { c.opts.Fit = fit }

// SetAlignment changes where the artboard sits in the viewport.
func (c *Controller) SetAlignment(a vg.Alignment) { c.opts.Alignment = a }

// Tick advances the active playback by dt seconds and redraws the scene.
func (c *Controller) Tick(dt float32) {
	if c.artboard == nil {
		return
	}
	c.renderer.StartFrame()

	switch {
	case c.machine != nil:
		c.machine.Advance(dt)
	case c.animation != nil:
		c.animation.Advance(dt)
		c.animation.Apply(1)
		c.artboard.Advance(dt)
	default:
		c.artboard.Advance(dt)
	}

	c.renderer.Save()
	c.renderer.Align(c.opts.Fit, c.opts.Alignment, c.viewport, c.artboard.Bounds())
	c.artboard.Draw(c.renderer)
	c.renderer.Restore()
}

// alignment returns the transform from artboard space to host space.
func (c *Controller) alignment() vg.Mat2D {
	return c.root.Transform().Mul(vg.ComputeAlignment(c.opts.Fit, c.opts.Alignment, c.viewport, c.artboard.Bounds()))
}

// ToArtboard maps a host-space point into artboard space. It reports false
// when nothing is loaded or the alignment cannot be inverted.
func (c *Controller) ToArtboard(x, y float32) (vg.Vec2, bool) {
	if c.artboard == nil {
		return vg.Vec2{}, false
	}
	inv, ok := c.alignment().Invert()
	if !ok {
		c.logger.Debug("pointer dropped: alignment not invertible")
		return vg.Vec2{}, false
	}
	return inv.Apply(vg.Vec2{X: x, Y: y}), true
}

// PointerDown forwards a press at host-space (x, y) to the state machine.
func (c *Controller) PointerDown(x, y float32) {
	if p, ok := c.ToArtboard(x, y); ok && c.machine != nil {
		c.machine.PointerDown(p)
	}
}

// PointerMove forwards a move at host-space (x, y) to the state machine.
func (c *Controller) PointerMove(x, y float32) {
	if p, ok := c.ToArtboard(x, y); ok && c.machine != nil {
		c.machine.PointerMove(p)
	}
}

// PointerUp forwards a release at host-space (x, y) to the state machine.
func (c *Controller) PointerUp(x, y float32) {
	if p, ok := c.ToArtboard(x, y); ok && c.machine != nil {
		c.machine.PointerUp(p)
	}
}
