package engine

import (
	"sync"
	"time"
)

// TimeProvider supplies wall time, swapped for a mock in tests
type TimeProvider interface {
	Now() time.Time
}

// SystemTime reads the monotonic system clock
type SystemTime struct{}

func (SystemTime) Now() time.Time {
	return time.Now()
}

// PausableClock is simulation time: wall time minus accumulated pauses
type PausableClock struct {
	mu sync.RWMutex

	source     TimeProvider
	start      time.Time
	paused     bool
	pauseStart time.Time
	pausedFor  time.Duration
}

// NewPausableClock starts a clock on source, nil uses the system clock
func NewPausableClock(source TimeProvider) *PausableClock {
	if source == nil {
		source = SystemTime{}
	}
	return &PausableClock{
		source: source,
		start:  source.Now(),
	}
}

// Elapsed returns simulation time since the clock started, frozen while paused
func (pc *PausableClock) Elapsed() time.Duration {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	now := pc.source.Now()
	if pc.paused {
		now = pc.pauseStart
	}
	return now.Sub(pc.start) - pc.pausedFor
}

// Pause freezes simulation time
func (pc *PausableClock) Pause() {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if !pc.paused {
		pc.paused = true
		pc.pauseStart = pc.source.Now()
	}
}

// Resume continues simulation time, adding the pause to the offset
func (pc *PausableClock) Resume() {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if pc.paused {
		pc.pausedFor += pc.source.Now().Sub(pc.pauseStart)
		pc.paused = false
		pc.pauseStart = time.Time{}
	}
}

func (pc *PausableClock) IsPaused() bool {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	return pc.paused
}

// MockTimeProvider is a manually advanced time source
type MockTimeProvider struct {
	mu  sync.RWMutex
	now time.Time
}

func NewMockTimeProvider(start time.Time) *MockTimeProvider {
	return &MockTimeProvider{now: start}
}

func (m *MockTimeProvider) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.now
}

// Advance moves the mocked time forward
func (m *MockTimeProvider) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}
