package engine

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingStepper struct {
	steps atomic.Int64
	last  atomic.Int64
}

func (s *countingStepper) Step(dt time.Duration) {
	s.steps.Add(1)
	s.last.Store(int64(dt))
}

func TestPausableClock(t *testing.T) {
	mock := NewMockTimeProvider(time.Unix(0, 0))
	pc := NewPausableClock(mock)

	mock.Advance(100 * time.Millisecond)
	assert.Equal(t, 100*time.Millisecond, pc.Elapsed())

	pc.Pause()
	assert.True(t, pc.IsPaused())
	mock.Advance(time.Second)
	assert.Equal(t, 100*time.Millisecond, pc.Elapsed())

	pc.Resume()
	assert.False(t, pc.IsPaused())
	mock.Advance(50 * time.Millisecond)
	assert.Equal(t, 150*time.Millisecond, pc.Elapsed())
}

func TestClockSchedulerTicks(t *testing.T) {
	s := &countingStepper{}
	var seen atomic.Uint64
	cs := NewClockScheduler(s, nil, 5*time.Millisecond, func(tick uint64) { seen.Store(tick) })

	cs.Start()
	assert.Eventually(t, func() bool { return cs.TickCount() >= 3 }, 2*time.Second, time.Millisecond)
	cs.Stop()

	n := cs.TickCount()
	assert.Equal(t, int64(n), s.steps.Load())
	assert.Equal(t, n, seen.Load())
	assert.Equal(t, int64(5*time.Millisecond), s.last.Load())

	// Stop is idempotent and halts ticking
	cs.Stop()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, n, cs.TickCount())
}

func TestClockSchedulerPause(t *testing.T) {
	s := &countingStepper{}
	cs := NewClockScheduler(s, nil, 2*time.Millisecond, nil)
	cs.Pause()
	cs.Start()
	defer cs.Stop()

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, uint64(0), cs.TickCount())
	assert.True(t, cs.IsPaused())

	cs.Resume()
	assert.Eventually(t, func() bool { return cs.TickCount() > 0 }, 2*time.Second, time.Millisecond)
}
