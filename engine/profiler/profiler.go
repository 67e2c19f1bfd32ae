package profiler

import (
	"log"
	"runtime"
	"time"
)

// Stats is one profiler snapshot, covering the frames since the previous snapshot.
type Stats struct {
	FPS          float64
	FrameTime    time.Duration
	HeapMB       float64
	AllocRateMB  float64
	GCCount      uint32
	LastPauseUs  uint64
	MaxPauseUs   uint64
	SysMB        float64
	Frames       int
	Elapsed      time.Duration
	SnapshotTime time.Time
}

// Profiler tracks frame rate and memory statistics for performance monitoring.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	last           Stats
	now            func() time.Time
}

// ProfilerOption configures a Profiler in NewProfiler.
type ProfilerOption func(*Profiler)

// WithInterval sets how often Tick logs. Non-positive values keep the default.
//
// Parameters:
//   - interval: the logging interval
//
// Returns:
//   - ProfilerOption: option function to apply
func WithInterval(interval time.Duration) ProfilerOption {
	return func(p *Profiler) {
		if interval > 0 {
			p.updateInterval = interval
		}
	}
}

// NewProfiler creates a new Profiler. Update interval defaults to 1 second.
//
// Parameters:
//   - options: WithInterval
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerOption) *Profiler {
	p := &Profiler{
		updateInterval: time.Second,
		now:            time.Now,
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.now()
	return p
}

// Interval returns the logging interval.
func (p *Profiler) Interval() time.Duration {
	return p.updateInterval
}

// Stats returns the snapshot taken by the last Tick that logged, or the zero Stats.
func (p *Profiler) Stats() Stats {
	return p.last
}

// Tick should be called once per frame to track frame timing.
// Logs performance statistics when the update interval has elapsed:
// FPS, mean frame time, heap usage, allocation rate, GC count and pause times, total memory.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.frameCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)

	s := Stats{
		FPS:          float64(p.frameCount) / elapsed.Seconds(),
		FrameTime:    elapsed / time.Duration(p.frameCount),
		HeapMB:       float64(p.memStats.Alloc) / 1024 / 1024,
		SysMB:        float64(p.memStats.Sys) / 1024 / 1024,
		GCCount:      p.memStats.NumGC,
		Frames:       p.frameCount,
		Elapsed:      elapsed,
		SnapshotTime: currentTime,
	}
	// TotalAlloc only grows, so the delta is the churn since the last snapshot.
	s.AllocRateMB = float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds()
	s.LastPauseUs, s.MaxPauseUs = pauses(&p.memStats, p.lastGCCount)

	log.Printf("[Profiler] FPS: %.2f | Frame: %v | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (last: %d µs, max: %d µs) | Sys: %.2f MB",
		s.FPS, s.FrameTime.Round(time.Microsecond), s.HeapMB, s.AllocRateMB, s.GCCount, s.LastPauseUs, s.MaxPauseUs, s.SysMB)

	p.last = s
	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = s.GCCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// pauses returns the latest GC pause and the longest pause since GC number since.
// PauseNs is a circular buffer of the last 256 pauses.
func pauses(m *runtime.MemStats, since uint32) (last, longest uint64) {
	gcCount := m.NumGC
	if gcCount == 0 {
		return 0, 0
	}
	last = m.PauseNs[(gcCount-1)%256] / 1000

	start := since
	if gcCount-start > 256 {
		start = gcCount - 256
	}
	for i := start; i < gcCount; i++ {
		longest = max(longest, m.PauseNs[i%256]/1000)
	}
	return last, longest
}
