package main

import (
	"time"

	"github.com/lixenwraith/vi-traffic/vehicle"
)

// keyHold is how long an arrow press keeps its axis engaged
// Terminals report presses and repeats but never releases
const keyHold = 300 * time.Millisecond

// heldInput turns discrete key presses into held axes that expire
type heldInput struct {
	throttle      float64
	steer         float64
	throttleUntil time.Time
	steerUntil    time.Time
	last          vehicle.Input
}

func (h *heldInput) pressThrottle(v float64, now time.Time) {
	h.throttle = v
	h.throttleUntil = now.Add(keyHold)
}

func (h *heldInput) pressSteer(v float64, now time.Time) {
	h.steer = v
	h.steerUntil = now.Add(keyHold)
}

// release drops both axes at once
func (h *heldInput) release() {
	h.throttle, h.steer = 0, 0
	h.throttleUntil, h.steerUntil = time.Time{}, time.Time{}
}

// current expires stale axes, changed reports a difference from the previous call
func (h *heldInput) current(now time.Time) (in vehicle.Input, changed bool) {
	if now.After(h.throttleUntil) {
		h.throttle = 0
	}
	if now.After(h.steerUntil) {
		h.steer = 0
	}
	in = vehicle.Input{Throttle: h.throttle, Steer: h.steer}
	changed = in != h.last
	h.last = in
	return in, changed
}
