package render

import (
	"sync/atomic"
	"time"
)

// FrameMetrics tracks tick timing. The game loop records frames while
// other goroutines read; all methods are safe for concurrent use.
type FrameMetrics struct {
	frames       atomic.Int64 // since Reset
	windowFrames atomic.Int64 // since the FPS window opened
	windowStart  atomic.Int64 // Unix nano
	fps          atomic.Int64 // FPS * 1000
	last         atomic.Int64 // nanoseconds
	min          atomic.Int64
	max          atomic.Int64
	total        atomic.Int64
	period       time.Duration
}

// FrameSnapshot is a consistent-enough copy of FrameMetrics for
// publishing.
type FrameSnapshot struct {
	Frames  int64
	FPS     float64
	Last    time.Duration
	Min     time.Duration
	Max     time.Duration
	Average time.Duration
}

// NewFrameMetrics creates a new FrameMetrics instance.
// The period determines how often FPS is recalculated (default: 1 second).
func NewFrameMetrics(period time.Duration) *FrameMetrics {
	if period <= 0 {
		period = time.Second
	}
	fm := &FrameMetrics{period: period}
	fm.Reset()
	return fm
}

// RecordFrame records one frame that took d.
func (fm *FrameMetrics) RecordFrame(d time.Duration) {
	n := d.Nanoseconds()
	fm.frames.Add(1)
	fm.windowFrames.Add(1)
	fm.last.Store(n)
	fm.total.Add(n)

	for {
		cur := fm.min.Load()
		if n >= cur || fm.min.CompareAndSwap(cur, n) {
			break
		}
	}
	for {
		cur := fm.max.Load()
		if n <= cur || fm.max.CompareAndSwap(cur, n) {
			break
		}
	}

	now := time.Now().UnixNano()
	start := fm.windowStart.Load()
	elapsed := time.Duration(now - start)
	if elapsed >= fm.period && fm.windowStart.CompareAndSwap(start, now) {
		frames := fm.windowFrames.Swap(0)
		fm.fps.Store(int64(float64(frames) / elapsed.Seconds() * 1000))
	}
}

// FPS returns the frame rate measured over the last completed window.
func (fm *FrameMetrics) FPS() float64 { return float64(fm.fps.Load()) / 1000 }

// Frames returns the number of frames recorded since Reset.
func (fm *FrameMetrics) Frames() int64 { return fm.frames.Load() }

// LastFrameTime returns the duration of the last frame.
func (fm *FrameMetrics) LastFrameTime() time.Duration { return time.Duration(fm.last.Load()) }

// MinFrameTime returns the shortest frame, or 0 before the first frame.
func (fm *FrameMetrics) MinFrameTime() time.Duration {
	if fm.frames.Load() == 0 {
		return 0
	}
	return time.Duration(fm.min.Load())
}

// MaxFrameTime returns the longest frame.
func (fm *FrameMetrics) MaxFrameTime() time.Duration { return time.Duration(fm.max.Load()) }

// AverageFrameTime returns the mean frame time since Reset.
func (fm *FrameMetrics) AverageFrameTime() time.Duration {
	n := fm.frames.Load()
	if n == 0 {
		return 0
	}
	return time.Duration(fm.total.Load() / n)
}

// Snapshot returns all metrics at once.
func (fm *FrameMetrics) Snapshot() FrameSnapshot {
	return FrameSnapshot{
		Frames:  fm.Frames(),
		FPS:     fm.FPS(),
		Last:    fm.LastFrameTime(),
		Min:     fm.MinFrameTime(),
		Max:     fm.MaxFrameTime(),
		Average: fm.AverageFrameTime(),
	}
}

// Reset clears all metrics to their initial state.
func (fm *FrameMetrics) Reset() {
	fm.frames.Store(0)
	fm.windowFrames.Store(0)
	fm.windowStart.Store(time.Now().UnixNano())
	fm.fps.Store(0)
	fm.last.Store(0)
	fm.min.Store(int64(time.Hour))
	fm.max.Store(0)
	fm.total.Store(0)
}
