package profiling

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestNewHeapMonitorDefaults(t *testing.T) {
	m := NewHeapMonitor(MonitorConfig{}, nil)
	if m.Config() != DefaultMonitorConfig() {
		t.Errorf("Config() = %+v, want defaults", m.Config())
	}
}

func TestHeapMonitorWindow(t *testing.T) {
	m := NewHeapMonitor(MonitorConfig{Window: 3}, nil)
	base := time.Now()
	for i := 0; i < 5; i++ {
		m.Record(Sample{Time: base.Add(time.Duration(i) * time.Second), HeapAlloc: uint64(i)})
	}
	samples := m.Samples()
	if len(samples) != 3 || samples[0].HeapAlloc != 2 || samples[2].HeapAlloc != 4 {
		t.Errorf("Samples() = %+v", samples)
	}
}

func TestHeapMonitorAnalyze(t *testing.T) {
	base := time.Now()
	tests := []struct {
		name        string
		first, last Sample
		suspect     bool
		reason      string
	}{
		{
			name:  "stable",
			first: Sample{Time: base, HeapAlloc: 10 * MB, Goroutines: 5},
			last:  Sample{Time: base.Add(10 * time.Second), HeapAlloc: 10*MB + KB, Goroutines: 5},
		},
		{
			name:    "heap growth",
			first:   Sample{Time: base, HeapAlloc: 10 * MB},
			last:    Sample{Time: base.Add(10 * time.Second), HeapAlloc: 40 * MB},
			suspect: true,
			reason:  "heap growth",
		},
		{
			name:    "goroutine growth",
			first:   Sample{Time: base, Goroutines: 4},
			last:    Sample{Time: base.Add(time.Second), Goroutines: 40},
			suspect: true,
			reason:  "goroutine",
		},
		{
			name:  "shrinking",
			first: Sample{Time: base, HeapAlloc: 40 * MB},
			last:  Sample{Time: base.Add(time.Second), HeapAlloc: 10 * MB},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewHeapMonitor(DefaultMonitorConfig(), nil)
			m.Record(tt.first)
			m.Record(tt.last)
			g := m.Analyze()
			if g == nil {
				t.Fatal("Analyze() = nil")
			}
			if g.Suspect != tt.suspect {
				t.Errorf("Suspect = %v, want %v (%s)", g.Suspect, tt.suspect, g)
			}
			if !strings.Contains(g.Reason, tt.reason) {
				t.Errorf("Reason = %q, want it to mention %q", g.Reason, tt.reason)
			}
		})
	}
}

func TestHeapMonitorAnalyzeTooFewSamples(t *testing.T) {
	m := NewHeapMonitor(DefaultMonitorConfig(), nil)
	if m.Analyze() != nil {
		t.Error("Analyze() with no samples should be nil")
	}
	now := time.Now()
	m.Record(Sample{Time: now})
	m.Record(Sample{Time: now})
	if m.Analyze() != nil {
		t.Error("Analyze() over zero time should be nil")
	}
}

func TestHeapMonitorRunStopsOnCancel(t *testing.T) {
	m := NewHeapMonitor(MonitorConfig{Interval: time.Millisecond}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run() did not return after cancel")
	}
	if len(m.Samples()) < 2 {
		t.Errorf("Run() recorded %d samples", len(m.Samples()))
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes uint64
		want  string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{KB, "1.00 KB"},
		{1536, "1.50 KB"},
		{MB, "1.00 MB"},
		{GB * 2, "2.00 GB"},
	}
	for _, tt := range tests {
		if got := FormatBytes(tt.bytes); got != tt.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.bytes, got, tt.want)
		}
	}
}
