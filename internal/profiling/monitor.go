package profiling

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"time"
)

// Byte size constants for memory formatting.
const (
	KB = 1024
	MB = KB * 1024
	GB = MB * 1024
)

// Sample is a point-in-time heap measurement.
type Sample struct {
	Time        time.Time
	HeapAlloc   uint64 // bytes of allocated heap objects
	HeapObjects uint64
	Goroutines  int
	NumGC       uint32
}

// ReadSample measures the heap without recording anything.
func ReadSample() Sample {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return Sample{
		Time:        time.Now(),
		HeapAlloc:   ms.HeapAlloc,
		HeapObjects: ms.HeapObjects,
		Goroutines:  runtime.NumGoroutine(),
		NumGC:       ms.NumGC,
	}
}

// LogValue implements slog.LogValuer.
func (s Sample) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("heap", FormatBytes(s.HeapAlloc)),
		slog.Uint64("objects", s.HeapObjects),
		slog.Int("goroutines", s.Goroutines),
		slog.Uint64("gc", uint64(s.NumGC)),
	)
}

// Growth compares the oldest and newest samples in the monitor's window.
type Growth struct {
	Duration       time.Duration
	HeapDelta      int64 // positive means growth
	ObjectsDelta   int64
	GoroutineDelta int
	RatePerSec     float64 // heap bytes per second
	// Suspect is set when the growth exceeds a threshold; Reason says
	// which one.
	Suspect bool
	Reason  string
}

// String returns a one-line summary.
func (g Growth) String() string {
	s := fmt.Sprintf("heap %+d B over %s (%.2f KB/s), objects %+d, goroutines %+d",
		g.HeapDelta, g.Duration.Round(time.Second), g.RatePerSec/KB, g.ObjectsDelta, g.GoroutineDelta)
	if g.Suspect {
		s += ": " + g.Reason
	}
	return s
}

// MonitorConfig configures a HeapMonitor.
type MonitorConfig struct {
	// Interval is the time between samples in Run.
	Interval time.Duration
	// Window is the number of samples kept; growth is measured across it.
	Window int
	// ThresholdBytesPerSec is the sustained heap growth reported as
	// suspect.
	ThresholdBytesPerSec int64
	// GoroutineThreshold is the net goroutine increase reported as
	// suspect.
	GoroutineThreshold int
}

// DefaultMonitorConfig returns a MonitorConfig with sensible defaults.
func DefaultMonitorConfig() MonitorConfig {
	return MonitorConfig{
		Interval:             10 * time.Second,
		Window:               30,
		ThresholdBytesPerSec: MB,
		GoroutineThreshold:   10,
	}
}

// HeapMonitor samples the heap periodically and reports sustained growth.
// Repeated bundle reloads that leak tessellation caches or Lua runtimes
// show up here.
type HeapMonitor struct {
	config   MonitorConfig
	logger   *slog.Logger
	samples  []Sample
	onGrowth func(Growth)
	mu       sync.Mutex
}

// NewHeapMonitor creates a monitor. Zero config fields take their default;
// a nil logger discards.
func NewHeapMonitor(config MonitorConfig, logger *slog.Logger) *HeapMonitor {
	def := DefaultMonitorConfig()
	if config.Interval <= 0 {
		config.Interval = def.Interval
	}
	if config.Window < 2 {
		config.Window = def.Window
	}
	if config.ThresholdBytesPerSec <= 0 {
		config.ThresholdBytesPerSec = def.ThresholdBytesPerSec
	}
	if config.GoroutineThreshold <= 0 {
		config.GoroutineThreshold = def.GoroutineThreshold
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &HeapMonitor{config: config, logger: logger}
}

// Config returns the effective configuration.
func (m *HeapMonitor) Config() MonitorConfig { return m.config }

// SetOnGrowth sets a function called from Run when suspect growth is
// found. Nil disables it.
func (m *HeapMonitor) SetOnGrowth(fn func(Growth)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onGrowth = fn
}

// Record adds s to the window, dropping the oldest sample when full.
func (m *HeapMonitor) Record(s Sample) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.samples = append(m.samples, s)
	if len(m.samples) > m.config.Window {
		m.samples = m.samples[len(m.samples)-m.config.Window:]
	}
}

// Samples returns a copy of the window.
func (m *HeapMonitor) Samples() []Sample {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Sample(nil), m.samples...)
}

// Analyze measures growth across the window. It returns nil with fewer
// than two samples or when no time has passed.
func (m *HeapMonitor) Analyze() *Growth {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.samples) < 2 {
		return nil
	}
	first, last := m.samples[0], m.samples[len(m.samples)-1]
	d := last.Time.Sub(first.Time)
	if d <= 0 {
		return nil
	}

	g := &Growth{
		Duration:       d,
		HeapDelta:      int64(last.HeapAlloc) - int64(first.HeapAlloc),
		ObjectsDelta:   int64(last.HeapObjects) - int64(first.HeapObjects),
		GoroutineDelta: last.Goroutines - first.Goroutines,
	}
	g.RatePerSec = float64(g.HeapDelta) / d.Seconds()

	switch {
	case g.RatePerSec > float64(m.config.ThresholdBytesPerSec):
		g.Suspect = true
		g.Reason = fmt.Sprintf("sustained heap growth above %s/s", FormatBytes(uint64(m.config.ThresholdBytesPerSec)))
	case g.GoroutineDelta > m.config.GoroutineThreshold:
		g.Suspect = true
		g.Reason = fmt.Sprintf("goroutine count grew by more than %d", m.config.GoroutineThreshold)
	}
	return g
}

// Run samples every Interval until ctx is done. Suspect growth is logged
// as a warning and passed to the growth callback.
func (m *HeapMonitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.config.Interval)
	defer ticker.Stop()

	m.Record(ReadSample())
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s := ReadSample()
			m.Record(s)
			m.logger.Debug("heap sample", "sample", s)

			g := m.Analyze()
			if g == nil || !g.Suspect {
				continue
			}
			m.logger.Warn("possible memory leak", "growth", g.String())
			m.mu.Lock()
			fn := m.onGrowth
			m.mu.Unlock()
			if fn != nil {
				fn(*g)
			}
		}
	}
}

// FormatBytes formats a byte count as a human-readable string.
func FormatBytes(bytes uint64) string {
	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
