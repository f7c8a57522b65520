package tessplay

import (
	"expvar"
	"sync/atomic"
	"time"

	"github.com/opd-ai/go-tessplay/internal/render"
)

// Metrics collects player counters. It uses Go's expvar package for
// exposition, which serves them at /debug/vars when an HTTP server runs.
//
// Thread-safe for concurrent use.
type Metrics struct {
	frames           atomic.Int64
	triangles        atomic.Int64
	clipRegions      atomic.Int64
	retriangulations atomic.Int64
	reloads          atomic.Int64
	errorsTotal      atomic.Int64

	frameLatencyNs    atomic.Int64
	frameLatencyCount atomic.Int64

	registered atomic.Bool
}

// NewMetrics creates a new Metrics instance.
// Call RegisterExpvar() to expose metrics via the /debug/vars endpoint.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RegisterExpvar publishes the metrics with expvar. expvar names are
// process-global, so only the first Metrics to register is published;
// later calls on any instance are no-ops.
func (m *Metrics) RegisterExpvar() {
	if m.registered.Swap(true) || expvar.Get("tessplay_frames_total") != nil {
		return
	}

	expvar.Publish("tessplay_frames_total", expvar.Func(func() any { return m.frames.Load() }))
	expvar.Publish("tessplay_triangles_total", expvar.Func(func() any { return m.triangles.Load() }))
	expvar.Publish("tessplay_clip_regions_total", expvar.Func(func() any { return m.clipRegions.Load() }))
	expvar.Publish("tessplay_retriangulations_total", expvar.Func(func() any { return m.retriangulations.Load() }))
	expvar.Publish("tessplay_bundle_reloads_total", expvar.Func(func() any { return m.reloads.Load() }))
	expvar.Publish("tessplay_errors_total", expvar.Func(func() any { return m.errorsTotal.Load() }))
	expvar.Publish("tessplay_frame_latency_avg_ns", expvar.Func(func() any {
		return int64(safeDivide(m.frameLatencyNs.Load(), m.frameLatencyCount.Load()))
	}))
}

// RecordFrame records one ticked frame: the renderer's counters and the
// time spent building it.
func (m *Metrics) RecordFrame(stats render.FrameStats, d time.Duration) {
	m.frames.Add(1)
	m.triangles.Add(int64(stats.Triangles))
	m.clipRegions.Add(int64(stats.ClipRegions))
	m.retriangulations.Add(int64(stats.Retriangulations))
	m.frameLatencyNs.Add(d.Nanoseconds())
	m.frameLatencyCount.Add(1)
}

// IncrementReloads records a bundle reload.
func (m *Metrics) IncrementReloads() {
	m.reloads.Add(1)
}

// IncrementErrors records an error occurrence.
func (m *Metrics) IncrementErrors() {
	m.errorsTotal.Add(1)
}

// MetricsSnapshot is a point-in-time copy of all metrics.
type MetricsSnapshot struct {
	Frames           int64
	Triangles        int64
	ClipRegions      int64
	Retriangulations int64
	Reloads          int64
	Errors           int64
	FrameLatencyAvg  time.Duration
}

// Snapshot returns a point-in-time copy of all metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Frames:           m.frames.Load(),
		Triangles:        m.triangles.Load(),
		ClipRegions:      m.clipRegions.Load(),
		Retriangulations: m.retriangulations.Load(),
		Reloads:          m.reloads.Load(),
		Errors:           m.errorsTotal.Load(),
		FrameLatencyAvg:  safeDivide(m.frameLatencyNs.Load(), m.frameLatencyCount.Load()),
	}
}

// Reset clears all metrics. Useful for testing.
func (m *Metrics) Reset() {
	m.frames.Store(0)
	m.triangles.Store(0)
	m.clipRegions.Store(0)
	m.retriangulations.Store(0)
	m.reloads.Store(0)
	m.errorsTotal.Store(0)
	m.frameLatencyNs.Store(0)
	m.frameLatencyCount.Store(0)
}

func safeDivide(total, count int64) time.Duration {
	if count == 0 {
		return 0
	}
	return time.Duration(total / count)
}

var defaultMetrics = NewMetrics()

// DefaultMetrics returns the global default Metrics instance.
func DefaultMetrics() *Metrics {
	return defaultMetrics
}
