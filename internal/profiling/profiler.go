// Package profiling provides CPU, heap and execution-trace capture for
// tessplay, plus a heap growth monitor for long playback sessions.
package profiling

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
	"sync"
)

// Profiler manages one profiling session. Start begins the CPU profile and
// the execution trace; Stop ends them and writes the heap profile.
type Profiler struct {
	config    Config
	cpuFile   *os.File
	traceFile *os.File
	running   bool
	mu        sync.Mutex
}

// Config holds configuration for the profiler. Empty paths disable the
// corresponding output.
type Config struct {
	// CPUProfilePath is the file path for CPU profile output.
	CPUProfilePath string
	// MemProfilePath is the file path for the heap profile written on Stop.
	MemProfilePath string
	// TracePath is the file path for runtime/trace output.
	TracePath string
}

// ProfilingEnabled returns true if any output is configured.
func (c Config) ProfilingEnabled() bool {
	return c.CPUProfilePath != "" || c.MemProfilePath != "" || c.TracePath != ""
}

// New creates a new Profiler with the given configuration.
// The profiler is not started automatically; call Start() to begin profiling.
func New(config Config) *Profiler {
	return &Profiler{config: config}
}

// Start begins CPU profiling and tracing as configured. On failure nothing
// is left running.
func (p *Profiler) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return errors.New("profiler is already running")
	}

	if p.config.CPUProfilePath != "" {
		f, err := os.Create(p.config.CPUProfilePath)
		if err != nil {
			return fmt.Errorf("failed to create CPU profile file: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			return fmt.Errorf("failed to start CPU profile: %w", err)
		}
		p.cpuFile = f
	}

	if p.config.TracePath != "" {
		f, err := os.Create(p.config.TracePath)
		if err == nil {
			if err = trace.Start(f); err != nil {
				f.Close()
			}
		}
		if err != nil {
			p.stopCPU()
			return fmt.Errorf("failed to start trace: %w", err)
		}
		p.traceFile = f
	}

	p.running = true
	return nil
}

func (p *Profiler) stopCPU() error {
	if p.cpuFile == nil {
		return nil
	}
	pprof.StopCPUProfile()
	err := p.cpuFile.Close()
	p.cpuFile = nil
	if err != nil {
		return fmt.Errorf("failed to close CPU profile file: %w", err)
	}
	return nil
}

func (p *Profiler) stopTrace() error {
	if p.traceFile == nil {
		return nil
	}
	trace.Stop()
	err := p.traceFile.Close()
	p.traceFile = nil
	if err != nil {
		return fmt.Errorf("failed to close trace file: %w", err)
	}
	return nil
}

// Stop ends the session and writes the heap profile if configured. Every
// output is attempted; the errors are joined.
func (p *Profiler) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return errors.New("profiler is not running")
	}
	p.running = false

	var errs []error
	if err := p.stopTrace(); err != nil {
		errs = append(errs, err)
	}
	if err := p.stopCPU(); err != nil {
		errs = append(errs, err)
	}
	if p.config.MemProfilePath != "" {
		if err := WriteHeapProfile(p.config.MemProfilePath); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// IsRunning returns true if the profiler is currently running.
func (p *Profiler) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// WriteHeapProfile forces a garbage collection and writes a heap profile
// to path. It can be called at any time, for example after a bundle reload.
func WriteHeapProfile(path string) error {
	runtime.GC()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create memory profile file: %w", err)
	}
	defer f.Close()

	if err := pprof.WriteHeapProfile(f); err != nil {
		return fmt.Errorf("failed to write memory profile: %w", err)
	}
	return nil
}
