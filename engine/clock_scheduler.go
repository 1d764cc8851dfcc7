package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/vi-traffic/core"
)

// Stepper advances the simulation by one fixed interval
type Stepper interface {
	Step(dt time.Duration)
}

// ClockScheduler drives a Stepper on a fixed tick from one goroutine
// Ticks are deadline based so scheduling jitter does not accumulate
type ClockScheduler struct {
	stepper      Stepper
	clock        *PausableClock
	tickInterval time.Duration

	tickCount atomic.Uint64
	onTick    func(tick uint64)

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	running  atomic.Bool
}

// NewClockScheduler creates a scheduler, onTick runs after each step on the scheduler goroutine
func NewClockScheduler(stepper Stepper, clock *PausableClock, tickInterval time.Duration, onTick func(tick uint64)) *ClockScheduler {
	if clock == nil {
		clock = NewPausableClock(nil)
	}
	return &ClockScheduler{
		stepper:      stepper,
		clock:        clock,
		tickInterval: tickInterval,
		onTick:       onTick,
		stopChan:     make(chan struct{}),
	}
}

// Start begins the scheduler loop
func (cs *ClockScheduler) Start() {
	if cs.running.CompareAndSwap(false, true) {
		cs.wg.Add(1)
		// core.Go restores the terminal on panic
		core.Go(cs.schedulerLoop)
	}
}

// Stop halts the loop and waits for the in-flight tick
func (cs *ClockScheduler) Stop() {
	cs.stopOnce.Do(func() {
		if cs.running.CompareAndSwap(true, false) {
			close(cs.stopChan)
			cs.wg.Wait()
		}
	})
}

// Pause suspends ticking without stopping the goroutine
func (cs *ClockScheduler) Pause() {
	cs.clock.Pause()
}

// Resume continues ticking after Pause
func (cs *ClockScheduler) Resume() {
	cs.clock.Resume()
}

// IsPaused reports the clock pause state
func (cs *ClockScheduler) IsPaused() bool {
	return cs.clock.IsPaused()
}

// TickCount returns the number of completed ticks
func (cs *ClockScheduler) TickCount() uint64 {
	return cs.tickCount.Load()
}

func (cs *ClockScheduler) schedulerLoop() {
	defer cs.wg.Done()

	nextDeadline := cs.clock.Elapsed() + cs.tickInterval

	timer := time.NewTimer(cs.tickInterval)
	defer timer.Stop()

	for {
		var sleep time.Duration

		if cs.clock.IsPaused() {
			// Poll slower while paused
			sleep = cs.tickInterval * 2
		} else {
			now := cs.clock.Elapsed()
			if now >= nextDeadline {
				cs.stepper.Step(cs.tickInterval)
				tick := cs.tickCount.Add(1)
				if cs.onTick != nil {
					cs.onTick(tick)
				}

				nextDeadline += cs.tickInterval
				// Drop missed ticks instead of spiralling
				if now-nextDeadline > cs.tickInterval*2 {
					nextDeadline = now + cs.tickInterval
				}
			}
			sleep = max(nextDeadline-cs.clock.Elapsed(), 0)
		}

		timer.Reset(sleep)
		select {
		case <-timer.C:
		case <-cs.stopChan:
			return
		}
	}
}
