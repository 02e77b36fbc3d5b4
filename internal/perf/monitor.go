// Package perf tracks frame timing over a rolling window. The conductor is
// the only writer; external observers poll Snapshot, which copies rather
// than shares the window.
package perf

import (
	"sync"
	"time"
)

const DefaultWindow = 60

// Monitor keeps the last windowSize frame durations in a circular buffer.
// Record is O(1); derived metrics are computed on read.
type Monitor struct {
	mu      sync.Mutex
	window  []time.Duration
	next    int
	filled  int
	target  time.Duration // frame interval for the dropped test
	dropped uint64
	frames  uint64
	start   time.Time
}

// Snapshot is a point-in-time copy of the derived metrics.
type Snapshot struct {
	FPS           float64
	AvgFrameTime  time.Duration
	DroppedFrames uint64
	FrameCount    uint64
	Uptime        time.Duration
}

func NewMonitor(windowSize int, targetFPS int) *Monitor {
	if windowSize < 1 {
		windowSize = DefaultWindow
	}
	m := &Monitor{
		window: make([]time.Duration, windowSize),
		start:  time.Now(),
	}
	m.SetTargetFPS(targetFPS)
	return m
}

// SetTargetFPS adjusts the dropped-frame threshold after a config change.
func (m *Monitor) SetTargetFPS(fps int) {
	if fps < 1 {
		fps = 1
	}
	m.mu.Lock()
	m.target = time.Second / time.Duration(fps)
	m.mu.Unlock()
}

// Record appends one frame duration. A frame counts as dropped when it
// overran the target interval by more than one full extra interval.
func (m *Monitor) Record(d time.Duration) {
	m.mu.Lock()
	m.window[m.next] = d
	m.next = (m.next + 1) % len(m.window)
	if m.filled < len(m.window) {
		m.filled++
	}
	m.frames++
	if d > 2*m.target {
		m.dropped++
	}
	m.mu.Unlock()
}

// Snapshot computes FPS and averages from a copy of the window. Never
// blocks the writer beyond the copy.
func (m *Monitor) Snapshot() Snapshot {
	m.mu.Lock()
	filled := m.filled
	win := make([]time.Duration, filled)
	if filled > 0 {
		// unroll the ring: oldest entries first is irrelevant for averaging
		copy(win, m.window[:filled])
	}
	s := Snapshot{
		DroppedFrames: m.dropped,
		FrameCount:    m.frames,
		Uptime:        time.Since(m.start),
	}
	m.mu.Unlock()

	if filled == 0 {
		return s
	}
	var total time.Duration
	for _, d := range win {
		total += d
	}
	s.AvgFrameTime = total / time.Duration(filled)
	if s.AvgFrameTime > 0 {
		s.FPS = float64(time.Second) / float64(s.AvgFrameTime)
	}
	return s
}
