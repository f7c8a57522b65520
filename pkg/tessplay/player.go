package tessplay

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/opd-ai/go-tessplay/internal/bundle"
	"github.com/opd-ai/go-tessplay/internal/player"
	"github.com/opd-ai/go-tessplay/internal/render"
	"github.com/opd-ai/go-tessplay/internal/scene"
)

// ErrClosed is returned by Reload after Close.
var ErrClosed = errors.New("tessplay: player closed")

// Player plays one animation bundle. It implements render.Stage, so a
// render.Game can host it, and render.StatusReporter for the HUD.
//
// Tick, SetViewport and the pointer methods must be called from a single
// goroutine (the game loop). Reload, SetErrorHandler, Status and Close may
// be called from any goroutine; a reloaded bundle is installed by the next
// Tick.
type Player struct {
	opts    Options
	logger  Logger
	slog    *slog.Logger
	metrics *Metrics
	ctrl    *player.Controller
	source  string
	load    func() ([]byte, error)
	started time.Time

	// tickMu serializes Tick against Close so scripts are never run after
	// their runtimes shut down.
	tickMu sync.Mutex

	mu           sync.Mutex
	file         *fileAdapter
	pending      *fileAdapter
	reloadErr    error
	lastError    error
	errorHandler ErrorHandler
	watcher      *bundleWatcher
	closed       bool
}

var (
	_ render.Stage          = (*Player)(nil)
	_ render.StatusReporter = (*Player)(nil)
)

// New creates a Player for the bundle file at path. With Options.Watch the
// file is reloaded whenever it changes.
func New(path string, opts *Options) (*Player, error) {
	p, err := newPlayer(path, func() ([]byte, error) { return os.ReadFile(path) }, opts)
	if err != nil {
		return nil, err
	}
	if p.opts.Watch {
		if err := p.watch(path); err != nil {
			p.Close()
			return nil, fmt.Errorf("watch %s: %w", path, err)
		}
	}
	return p, nil
}

// NewFromFS creates a Player for the bundle at path within fsys.
func NewFromFS(fsys fs.FS, path string, opts *Options) (*Player, error) {
	return newPlayer("embedded:"+path, func() ([]byte, error) { return fs.ReadFile(fsys, path) }, opts)
}

// NewFromBytes creates a Player for an in-memory bundle. Reload restarts
// it from the same bytes.
func NewFromBytes(data []byte, opts *Options) (*Player, error) {
	data = append([]byte(nil), data...)
	return newPlayer("bytes", func() ([]byte, error) { return data, nil }, opts)
}

func newPlayer(source string, load func() ([]byte, error), opts *Options) (*Player, error) {
	if opts == nil {
		o := DefaultOptions()
		opts = &o
	}
	p := &Player{
		opts:    *opts,
		logger:  opts.Logger,
		slog:    toSlog(opts.Logger),
		metrics: opts.Metrics,
		source:  source,
		load:    load,
		started: time.Now(),
	}
	if p.logger == nil {
		p.logger = NopLogger()
	}
	if p.metrics == nil {
		p.metrics = DefaultMetrics()
	}
	p.ctrl = player.New(player.Options{
		StateMachine: opts.StateMachine,
		Artboard:     opts.Artboard,
		Fit:          opts.Fit,
		Alignment:    opts.Alignment,
		FlipY:        opts.FlipY,
		Logger:       p.slog,
	})

	f, err := p.read()
	if err != nil {
		return nil, err
	}
	p.file = f
	p.ctrl.SetFile(f)
	p.logger.Info("bundle loaded", "source", source, "artboards", f.ArtboardCount())
	return p, nil
}

func (p *Player) read() (*fileAdapter, error) {
	data, err := p.load()
	if err != nil {
		return nil, fmt.Errorf("read bundle %s: %w", p.source, err)
	}
	f, err := importFile(data, p.slog, p.notifyError)
	if err != nil {
		return nil, fmt.Errorf("import bundle %s: %w", p.source, err)
	}
	return f, nil
}

func (p *Player) watch(path string) error {
	w, err := newBundleWatcher(path, p.opts.WatchDebounce, p.reloadFromWatcher, func(err error) {
		p.notifyError(fmt.Errorf("watch bundle: %w", err))
	})
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.watcher = w
	p.mu.Unlock()
	w.Start()
	p.logger.Debug("watching bundle", "path", path)
	return nil
}

// Reload reads and imports the bundle again. On success the new file
// replaces the current one at the next Tick, restarting playback on the
// configured artboard; on failure the current file keeps playing.
func (p *Player) Reload() error {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return ErrClosed
	}

	f, err := p.read()
	if err != nil {
		p.logger.Warn("bundle reload failed", "source", p.source, "error", err)
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		f.Close()
		return ErrClosed
	}
	if p.pending != nil {
		p.pending.Close()
	}
	p.pending = f
	p.reloadErr = nil
	p.metrics.IncrementReloads()
	p.logger.Info("bundle reloaded", "source", p.source, "artboards", f.ArtboardCount())
	return nil
}

// reloadFromWatcher queues a failed reload for the next Tick to report.
func (p *Player) reloadFromWatcher() {
	if err := p.Reload(); err != nil && !errors.Is(err, ErrClosed) {
		p.mu.Lock()
		p.reloadErr = err
		p.mu.Unlock()
	}
}

// Tick installs a reloaded bundle if one is ready, then advances and
// redraws the active artboard. It returns a queued reload error once; the
// previous bundle keeps playing. After Close it does nothing and returns
// ErrClosed.
func (p *Player) Tick(dt float32) error {
	start := time.Now()
	p.tickMu.Lock()
	defer p.tickMu.Unlock()

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrClosed
	}
	next, old, reloadErr := p.pending, p.file, p.reloadErr
	p.pending, p.reloadErr = nil, nil
	if next != nil {
		p.file = next
	}
	p.mu.Unlock()

	if next != nil {
		p.ctrl.SetFile(next)
		if old != nil {
			old.Close()
		}
	}

	p.ctrl.Tick(dt)
	p.metrics.RecordFrame(p.ctrl.Renderer().Stats(), time.Since(start))
	return reloadErr
}

// Root returns the scene the player draws into.
func (p *Player) Root() *scene.Node { return p.ctrl.Root() }

// SetViewport sets the size of the drawable area.
func (p *Player) SetViewport(width, height float32) { p.ctrl.SetViewport(width, height) }

// PointerDown forwards a press in viewport coordinates.
func (p *Player) PointerDown(x, y float32) { p.ctrl.PointerDown(x, y) }

// PointerMove forwards a move in viewport coordinates.
func (p *Player) PointerMove(x, y float32) { p.ctrl.PointerMove(x, y) }

// PointerUp forwards a release in viewport coordinates.
func (p *Player) PointerUp(x, y float32) { p.ctrl.PointerUp(x, y) }

// NextArtboard activates the following artboard.
func (p *Player) NextArtboard() { p.ctrl.NextArtboard() }

// PrevArtboard activates the preceding artboard.
func (p *Player) PrevArtboard() { p.ctrl.PrevArtboard() }

// Controller exposes the underlying playback controller.
func (p *Player) Controller() *player.Controller { return p.ctrl }

// Metrics returns the metrics collector for this player.
func (p *Player) Metrics() *Metrics { return p.metrics }

// Source describes where the bundle comes from.
func (p *Player) Source() string { return p.source }

// LastError returns the most recent error reported, or nil.
func (p *Player) LastError() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastError
}

// Status describes the active playback, one line per item, for the HUD.
func (p *Player) Status() []string {
	ab := p.ctrl.Artboard()
	if ab == nil {
		return []string{"no artboard"}
	}
	lines := []string{fmt.Sprintf("artboard: %s (%d/%d)", ab.Name(), p.ctrl.ArtboardIndex()+1, p.ctrl.ArtboardCount())}
	switch {
	case p.ctrl.StateMachine() != nil:
		sm := p.ctrl.StateMachine()
		line := "state machine: " + sm.Name()
		if m, ok := sm.(*bundle.MachineInstance); ok {
			line += " [" + m.CurrentState() + "]"
		}
		lines = append(lines, line)
	case p.ctrl.Animation() != nil:
		lines = append(lines, "animation: "+p.ctrl.Animation().Name())
	}
	if n := p.metrics.Snapshot().Reloads; n > 0 {
		lines = append(lines, fmt.Sprintf("reloads: %d", n))
	}
	return lines
}

// SetErrorHandler registers a callback for errors reported outside Tick.
func (p *Player) SetErrorHandler(handler ErrorHandler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.errorHandler = handler
}

// notifyError records err, logs it and calls the error handler. A panic
// in the handler is logged and swallowed.
func (p *Player) notifyError(err error) {
	if err == nil {
		return
	}
	p.metrics.IncrementErrors()
	p.logger.Error("player error", "source", p.source, "error", err)

	p.mu.Lock()
	p.lastError = err
	handler := p.errorHandler
	p.mu.Unlock()

	if handler == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("error handler panicked", "panic", r, "original_error", err)
		}
	}()
	handler(err)
}

// Run opens a window and plays until it is closed or ctx is done. Errors
// from Tick go through the player's error handling.
func (p *Player) Run(ctx context.Context, config render.Config) error {
	game := render.NewGame(config, p)
	game.SetContext(ctx)
	game.SetErrorHandler(p.notifyError)
	return game.Run()
}

// Close stops watching and releases the bundle's script runtimes. It is
// safe to call more than once.
func (p *Player) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	w := p.watcher
	files := []*fileAdapter{p.file, p.pending}
	p.pending = nil
	p.mu.Unlock()

	if w != nil {
		w.Stop()
	}
	p.tickMu.Lock()
	defer p.tickMu.Unlock()
	var errs []error
	for _, f := range files {
		if f != nil {
			if err := f.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
