package tessplay

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/opd-ai/go-tessplay/internal/bundle"
	"github.com/opd-ai/go-tessplay/internal/player"
	"github.com/opd-ai/go-tessplay/internal/render"
)

// fileAdapter presents a bundle.File as a player.File. It owns the state
// machine instances it hands out, because scripted ones hold a Lua
// runtime; they are closed when another artboard is selected or the file
// is closed.
type fileAdapter struct {
	file    *bundle.File
	logger  *slog.Logger
	onError func(error)

	mu   sync.Mutex
	open []*bundle.MachineInstance
}

// importFile decodes and builds a bundle for drawing with the render
// package.
func importFile(data []byte, logger *slog.Logger, onError func(error)) (*fileAdapter, error) {
	f, err := bundle.Import(data, render.NewFactory())
	if err != nil {
		return nil, err
	}
	return &fileAdapter{file: f, logger: logger, onError: onError}, nil
}

func (f *fileAdapter) ArtboardCount() int { return f.file.ArtboardCount() }

// Artboard resets artboard index to its initial pose and closes the state
// machines handed out for the previous artboard.
func (f *fileAdapter) Artboard(index int) player.Artboard {
	ab := f.file.Artboard(index)
	if ab == nil {
		return nil
	}
	f.Close()
	ab.Reset()
	return &artboardAdapter{Artboard: ab, file: f}
}

func (f *fileAdapter) track(m *bundle.MachineInstance) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.open = append(f.open, m)
}

// Close closes every state machine instance handed out so far.
func (f *fileAdapter) Close() error {
	f.mu.Lock()
	open := f.open
	f.open = nil
	f.mu.Unlock()

	var errs []error
	for _, m := range open {
		if err := m.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type artboardAdapter struct {
	*bundle.Artboard
	file *fileAdapter
}

func (a *artboardAdapter) StateMachine(index int) player.StateMachine {
	return a.instance(a.Artboard.StateMachine(index))
}

func (a *artboardAdapter) StateMachineByName(name string) player.StateMachine {
	return a.instance(a.Artboard.StateMachineByName(name))
}

// instance starts sm. A machine whose script fails to start is reported
// and skipped, so the player falls back to the next choice.
func (a *artboardAdapter) instance(sm *bundle.StateMachine) player.StateMachine {
	if sm == nil {
		return nil
	}
	m, err := sm.Instance()
	if err != nil {
		a.file.logger.Error("state machine failed to start", "artboard", a.Name(), "state_machine", sm.Name(), "error", err)
		if a.file.onError != nil {
			a.file.onError(err)
		}
		return nil
	}
	m.SetErrorHandler(a.file.onError)
	a.file.track(m)
	return m
}

func (a *artboardAdapter) Animation(index int) player.Animation {
	anim := a.Artboard.Animation(index)
	if anim == nil {
		return nil
	}
	return anim.Instance()
}
